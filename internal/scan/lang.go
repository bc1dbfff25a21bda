package scan

import (
	"path/filepath"
	"strings"
)

// langInfo describes how to attribute lines for one language.
type langInfo struct {
	Name        string
	LineComment []string
	BlockStart  string
	BlockEnd    string
}

var langByExt = map[string]langInfo{
	".go":    {Name: "Go", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".rs":    {Name: "Rust", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".py":    {Name: "Python", LineComment: []string{"#"}},
	".js":    {Name: "JavaScript", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".jsx":   {Name: "JSX", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".ts":    {Name: "TypeScript", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".tsx":   {Name: "TSX", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".java":  {Name: "Java", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".kt":    {Name: "Kotlin", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".c":     {Name: "C", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".h":     {Name: "C Header", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".cpp":   {Name: "C++", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".hpp":   {Name: "C++ Header", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".cs":    {Name: "C#", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".rb":    {Name: "Ruby", LineComment: []string{"#"}},
	".php":   {Name: "PHP", LineComment: []string{"//", "#"}, BlockStart: "/*", BlockEnd: "*/"},
	".swift": {Name: "Swift", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".sh":    {Name: "Shell", LineComment: []string{"#"}},
	".bash":  {Name: "Shell", LineComment: []string{"#"}},
	".zsh":   {Name: "Shell", LineComment: []string{"#"}},
	".sql":   {Name: "SQL", LineComment: []string{"--"}, BlockStart: "/*", BlockEnd: "*/"},
	".lua":   {Name: "Lua", LineComment: []string{"--"}},
	".zig":   {Name: "Zig", LineComment: []string{"//"}},
	".dart":  {Name: "Dart", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".scala": {Name: "Scala", LineComment: []string{"//"}, BlockStart: "/*", BlockEnd: "*/"},
	".hs":    {Name: "Haskell", LineComment: []string{"--"}},
	".ex":    {Name: "Elixir", LineComment: []string{"#"}},
	".exs":   {Name: "Elixir", LineComment: []string{"#"}},
	".ml":    {Name: "OCaml", BlockStart: "(*", BlockEnd: "*)"},
	".proto": {Name: "Protobuf", LineComment: []string{"//"}},
	".css":   {Name: "CSS", BlockStart: "/*", BlockEnd: "*/"},
	".html":  {Name: "HTML", BlockStart: "<!--", BlockEnd: "-->"},
	".xml":   {Name: "XML", BlockStart: "<!--", BlockEnd: "-->"},
	".md":    {Name: "Markdown"},
	".rst":   {Name: "reStructuredText"},
	".txt":   {Name: "Text"},
	".json":  {Name: "JSON"},
	".yaml":  {Name: "YAML", LineComment: []string{"#"}},
	".yml":   {Name: "YAML", LineComment: []string{"#"}},
	".toml":  {Name: "TOML", LineComment: []string{"#"}},
	".ini":   {Name: "INI", LineComment: []string{";", "#"}},
	".tf":    {Name: "Terraform", LineComment: []string{"#", "//"}},
	".map":   {Name: "Sourcemap"},
	".lock":  {Name: "Lockfile"},
}

var langByName = map[string]langInfo{
	"Makefile":   {Name: "Makefile", LineComment: []string{"#"}},
	"Dockerfile": {Name: "Dockerfile", LineComment: []string{"#"}},
	"go.mod":     {Name: "Go Module", LineComment: []string{"//"}},
	"go.sum":     {Name: "Go Checksums"},
	"README":     {Name: "Text"},
	"LICENSE":    {Name: "Text"},
}

// detectLang maps a path to its language. The second return is false for
// files the scanner should not consider candidates at all.
func detectLang(path string) (langInfo, bool) {
	base := filepath.Base(path)
	if info, ok := langByName[base]; ok {
		return info, true
	}
	if info, ok := langByExt[strings.ToLower(filepath.Ext(base))]; ok {
		return info, true
	}
	return langInfo{}, false
}

// lineCounts tallies code, comment, and blank lines. Block comments are
// tracked with a single nesting-free state flag, which is the usual
// approximation for a line scanner.
func lineCounts(content string, info langInfo) (code, comments, blanks int) {
	inBlock := false
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case inBlock:
			comments++
			if info.BlockEnd != "" && strings.Contains(trimmed, info.BlockEnd) {
				inBlock = false
			}
		case trimmed == "":
			blanks++
		case isLineComment(trimmed, info):
			comments++
		case info.BlockStart != "" && strings.HasPrefix(trimmed, info.BlockStart):
			comments++
			if !strings.Contains(trimmed[len(info.BlockStart):], info.BlockEnd) {
				inBlock = true
			}
		default:
			code++
		}
	}
	return code, comments, blanks
}

func isLineComment(trimmed string, info langInfo) bool {
	for _, prefix := range info.LineComment {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}
