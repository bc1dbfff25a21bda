package pathutil

import "strings"

// RootModule is the module key assigned to files that live at the
// repository root.
const RootModule = "(root)"

// ModuleKey derives a deterministic grouping key from a repo-relative path.
//
// Rules:
//   - Root-level files map to RootModule.
//   - If the first directory segment is one of moduleRoots, the key keeps up
//     to depth directory segments ("crates/foo" for depth 2).
//   - Otherwise the key is the first directory segment.
func ModuleKey(path string, moduleRoots []string, depth int) string {
	p := Normalize(path)

	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return RootModule
	}
	dirPart := p[:idx]

	segs := make([]string, 0, 4)
	for _, s := range strings.Split(dirPart, "/") {
		if s != "" && s != "." {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return RootModule
	}

	first := segs[0]
	isRoot := false
	for _, r := range moduleRoots {
		if r == first {
			isRoot = true
			break
		}
	}
	if !isRoot {
		return first
	}

	if depth < 1 {
		depth = 1
	}
	if depth > len(segs) {
		depth = len(segs)
	}
	return strings.Join(segs[:depth], "/")
}
