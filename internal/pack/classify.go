package pack

import (
	"sort"
	"strings"

	"ctxpack/internal/pathutil"
)

// DefaultDenseThreshold is the tokens-per-line ratio at or above which a
// file is classified as dense (machine-generated or minified content).
const DefaultDenseThreshold = 50.0

var lockfileNames = map[string]bool{
	"Cargo.lock":        true,
	"package-lock.json": true,
	"pnpm-lock.yaml":    true,
	"yarn.lock":         true,
	"poetry.lock":       true,
	"Pipfile.lock":      true,
	"go.sum":            true,
	"composer.lock":     true,
	"Gemfile.lock":      true,
}

// smartExcludeSuffixes maps basename suffixes to smart-exclusion reasons.
// Together with lockfileNames these form the closed reason set
// {lockfile, minified, sourcemap}.
var smartExcludeSuffixes = []struct {
	suffix string
	reason string
}{
	{".min.js", "minified"},
	{".min.css", "minified"},
	{".js.map", "sourcemap"},
	{".css.map", "sourcemap"},
}

var spinePatterns = []string{
	"README.md",
	"README",
	"README.rst",
	"README.txt",
	"ROADMAP.md",
	"CONTRIBUTING.md",
	"Cargo.toml",
	"package.json",
	"pyproject.toml",
	"go.mod",
	"docs/architecture.md",
	"docs/design.md",
	"ctxpack.toml",
}

var generatedPatterns = []string{
	"node-types.json",
	"grammar.json",
	".generated.",
	".pb.go",
	".pb.rs",
	"_pb2.py",
	".g.dart",
	".freezed.dart",
}

var vendoredDirs = []string{"vendor/", "third_party/", "third-party/", "node_modules/"}

var fixtureDirs = []string{"fixtures/", "testdata/", "test_data/", "__snapshots__/", "golden/"}

// SmartExcludeReason reports whether a path belongs to a known low-value
// category (lockfile, minified bundle, sourcemap) and if so which one.
func SmartExcludeReason(path string) (string, bool) {
	base := basename(pathutil.Normalize(path))

	if lockfileNames[base] {
		return "lockfile", true
	}
	for _, se := range smartExcludeSuffixes {
		if strings.HasSuffix(base, se.suffix) {
			return se.reason, true
		}
	}
	return "", false
}

// IsSpine reports whether a path is structurally essential (entrypoint
// manifest, top-level documentation) and should be prioritized for full
// inclusion.
func IsSpine(path string) bool {
	normalized := pathutil.Normalize(path)
	base := basename(normalized)

	for _, pattern := range spinePatterns {
		if strings.Contains(pattern, "/") {
			if normalized == pattern || strings.HasSuffix(normalized, "/"+pattern) {
				return true
			}
		} else if base == pattern {
			return true
		}
	}
	return false
}

// Classify assigns the full classification set for a file from its path
// and size metrics. Pure and total: every input maps to a sorted,
// deduplicated (possibly empty) set, independent of call order.
func Classify(path string, tokens, lines int, denseThreshold float64) []Class {
	var classes []Class
	normalized := pathutil.Normalize(path)
	base := basename(normalized)

	if IsSpine(normalized) {
		classes = append(classes, ClassSpine)
	}

	if lockfileNames[base] {
		classes = append(classes, ClassLockfile)
	}
	if strings.HasSuffix(base, ".min.js") || strings.HasSuffix(base, ".min.css") {
		classes = append(classes, ClassMinified)
	}
	if strings.HasSuffix(base, ".js.map") || strings.HasSuffix(base, ".css.map") {
		classes = append(classes, ClassSourcemap)
	}

	for _, pattern := range generatedPatterns {
		if base == pattern || strings.Contains(base, pattern) {
			classes = append(classes, ClassGenerated)
			break
		}
	}

	if matchesDir(normalized, vendoredDirs) {
		classes = append(classes, ClassVendored)
	}
	if matchesDir(normalized, fixtureDirs) {
		classes = append(classes, ClassFixture)
	}

	effectiveLines := lines
	if effectiveLines < 1 {
		effectiveLines = 1
	}
	if float64(tokens)/float64(effectiveLines) >= denseThreshold {
		classes = append(classes, ClassDense)
	}

	sort.Slice(classes, func(i, j int) bool { return classes[i] < classes[j] })
	classes = dedupClasses(classes)
	return classes
}

// smartExcludeClass returns the smart-exclusion reason carried by a
// classification set, if any.
func smartExcludeClass(classes []Class) (string, bool) {
	for _, c := range classes {
		switch c {
		case ClassLockfile, ClassMinified, ClassSourcemap:
			return string(c), true
		}
	}
	return "", false
}

func hasClass(classes []Class, want Class) bool {
	for _, c := range classes {
		if c == want {
			return true
		}
	}
	return false
}

func matchesDir(normalized string, dirs []string) bool {
	for _, dir := range dirs {
		if strings.HasPrefix(normalized, dir) || strings.Contains(normalized, "/"+dir) {
			return true
		}
	}
	return false
}

func dedupClasses(sorted []Class) []Class {
	out := sorted[:0]
	for i, c := range sorted {
		if i == 0 || sorted[i-1] != c {
			out = append(out, c)
		}
	}
	return out
}

func basename(path string) string {
	if idx := strings.LastIndex(path, "/"); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
