package scan

import "testing"

func TestDetectLang(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"src/main.go", "Go"},
		{"src/lib.RS", "Rust"},
		{"Makefile", "Makefile"},
		{"go.mod", "Go Module"},
		{"docs/README.md", "Markdown"},
		{"a/b/Cargo.lock", "Lockfile"},
	}
	for _, tc := range cases {
		info, ok := detectLang(tc.path)
		if !ok {
			t.Fatalf("detectLang(%q) not recognized", tc.path)
		}
		if info.Name != tc.want {
			t.Fatalf("detectLang(%q) = %q, want %q", tc.path, info.Name, tc.want)
		}
	}

	if _, ok := detectLang("image.bin"); ok {
		t.Fatal("unknown extension should not be recognized")
	}
}

func TestLineCountsGo(t *testing.T) {
	content := `package main

// entry point
func main() {
	/* block
	comment */
	println("hi")
}
`
	info, _ := detectLang("main.go")
	code, comments, blanks := lineCounts(content, info)
	if code != 4 {
		t.Fatalf("code = %d, want 4", code)
	}
	if comments != 3 {
		t.Fatalf("comments = %d, want 3", comments)
	}
	if blanks != 2 {
		t.Fatalf("blanks = %d, want 2", blanks)
	}
}

func TestLineCountsSingleLineBlock(t *testing.T) {
	info, _ := detectLang("x.c")
	code, comments, _ := lineCounts("/* one line */\nint x;", info)
	if comments != 1 || code != 1 {
		t.Fatalf("code = %d comments = %d", code, comments)
	}
}

func TestLineCountsNoCommentSyntax(t *testing.T) {
	info, _ := detectLang("notes.md")
	code, comments, blanks := lineCounts("# heading\n\ntext", info)
	if code != 2 || comments != 0 || blanks != 1 {
		t.Fatalf("code = %d comments = %d blanks = %d", code, comments, blanks)
	}
}

func TestIsBinary(t *testing.T) {
	if isBinary([]byte("plain text")) {
		t.Fatal("text flagged as binary")
	}
	if !isBinary([]byte{'a', 0x00, 'b'}) {
		t.Fatal("NUL byte not detected")
	}
}
