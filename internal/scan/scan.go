// Package scan walks a repository tree and turns text files into packing
// candidates: language, line breakdown, byte size, token estimate, and
// module key. Ignore rules come from built-in defaults plus .gitignore
// and .ctxpackignore at the root.
package scan

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"ctxpack/internal/cache"
	"ctxpack/internal/pack"
	"ctxpack/internal/pathutil"
	"ctxpack/internal/token"

	ignore "github.com/sabhiram/go-gitignore"
)

// Options configures a scan.
type Options struct {
	// Root is the directory to walk.
	Root string
	// Tokenizer is the tiktoken encoding name, e.g. "cl100k_base".
	Tokenizer string
	// ModuleRoots are directory names whose children count as modules.
	ModuleRoots []string
	// ModuleDepth bounds module key depth under a module root.
	ModuleDepth int
	// Cache, when non-nil, is consulted before tokenizing and updated
	// after. Entries are validated by size and mtime.
	Cache *cache.Cache
}

const binarySniffLen = 8 * 1024

type ignoreMatcher struct {
	matchers []*ignore.GitIgnore
}

func (m ignoreMatcher) Matches(path string) bool {
	for _, matcher := range m.matchers {
		if matcher != nil && matcher.MatchesPath(path) {
			return true
		}
	}
	return false
}

func loadIgnoreMatcher(root string) ignoreMatcher {
	matchers := []*ignore.GitIgnore{}
	matchers = append(matchers, ignore.CompileIgnoreLines(defaultIgnoreLines()...))

	gitignorePath := filepath.Join(root, ".gitignore")
	if matcher, err := ignore.CompileIgnoreFile(gitignorePath); err == nil {
		matchers = append(matchers, matcher)
	}
	ctxpackIgnorePath := filepath.Join(root, ".ctxpackignore")
	if matcher, err := ignore.CompileIgnoreFile(ctxpackIgnorePath); err == nil {
		matchers = append(matchers, matcher)
	}
	return ignoreMatcher{matchers: matchers}
}

// defaultIgnoreLines skip VCS metadata and build output. Vendored trees
// and fixtures are deliberately NOT here: they stay candidates so the
// classifier can apply its vendored and fixture policies instead.
func defaultIgnoreLines() []string {
	return []string{
		".git/",
		".hg/",
		".svn/",
		"dist/",
		"build/",
		"out/",
		".gradle/",
		"__pycache__/",
		"*.png",
		"*.jpg",
		"*.jpeg",
		"*.gif",
		"*.pdf",
		"*.zip",
		"*.jar",
		"*.class",
		"*.so",
		"*.dylib",
		"*.exe",
		".DS_Store",
	}
}

// Scan walks opts.Root and returns candidates sorted by path.
func Scan(opts Options) ([]pack.CandidateFile, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve scan root: %w", err)
	}
	// Symlinked roots (macOS /tmp, bind mounts) resolve to one canonical
	// form so cache keys and git paths agree across invocations.
	root = pathutil.Canonical(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", opts.Root)
	}

	counter, err := token.New(opts.Tokenizer)
	if err != nil {
		return nil, err
	}

	matcher := loadIgnoreMatcher(root)

	var candidates []pack.CandidateFile
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = pathutil.Normalize(rel)

		if d.IsDir() {
			if matcher.Matches(rel + "/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matcher.Matches(rel) {
			return nil
		}

		cand, ok, scanErr := scanFile(path, rel, counter, opts)
		if scanErr != nil {
			// Unreadable files are skipped, not fatal; the tree may hold
			// sockets, permission holes, or files deleted mid-walk.
			return nil
		}
		if ok {
			candidates = append(candidates, cand)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", opts.Root, walkErr)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Path < candidates[j].Path })
	return candidates, nil
}

func scanFile(path, rel string, counter *token.Counter, opts Options) (pack.CandidateFile, bool, error) {
	lang, known := detectLang(rel)
	if !known {
		return pack.CandidateFile{}, false, nil
	}

	fi, err := os.Stat(path)
	if err != nil {
		return pack.CandidateFile{}, false, err
	}
	size := fi.Size()
	mtimeNS := fi.ModTime().UnixNano()

	moduleKey := pathutil.ModuleKey(rel, opts.ModuleRoots, opts.ModuleDepth)

	if opts.Cache != nil {
		if e, hit := opts.Cache.Get(rel, size, mtimeNS); hit {
			return pack.CandidateFile{
				Path:     rel,
				Module:   moduleKey,
				Lang:     e.Lang,
				Code:     e.Code,
				Comments: e.Comments,
				Blanks:   e.Blanks,
				Lines:    e.Lines,
				Bytes:    int(size),
				Tokens:   e.Tokens,
			}, true, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return pack.CandidateFile{}, false, err
	}
	if isBinary(data) {
		return pack.CandidateFile{}, false, nil
	}

	content := string(data)
	code, comments, blanks := lineCounts(content, lang)
	tokens := counter.Count(content)

	cand := pack.CandidateFile{
		Path:     rel,
		Module:   moduleKey,
		Lang:     lang.Name,
		Code:     code,
		Comments: comments,
		Blanks:   blanks,
		Lines:    code + comments + blanks,
		Bytes:    len(data),
		Tokens:   tokens,
	}

	if opts.Cache != nil {
		_ = opts.Cache.Put(rel, size, mtimeNS, cache.Entry{
			Lang:     cand.Lang,
			Tokens:   cand.Tokens,
			Code:     cand.Code,
			Comments: cand.Comments,
			Blanks:   cand.Blanks,
			Lines:    cand.Lines,
		})
	}
	return cand, true, nil
}

// isBinary checks for a NUL byte in the leading window, the same
// heuristic git uses.
func isBinary(data []byte) bool {
	sniff := data
	if len(sniff) > binarySniffLen {
		sniff = sniff[:binarySniffLen]
	}
	return bytes.IndexByte(sniff, 0) >= 0
}

// ReadContent loads a previously scanned file's text for rendering.
func ReadContent(root, rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return "", err
	}
	if isBinary(data) {
		return "", fmt.Errorf("%s: binary content", rel)
	}
	return string(data), nil
}
