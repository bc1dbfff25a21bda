package pathutil

import "testing"

func TestModuleKey(t *testing.T) {
	roots := []string{"crates", "packages"}

	cases := []struct {
		path string
		want string
	}{
		{"main.rs", RootModule},
		{"./README.md", RootModule},
		{"src/main.rs", "src"},
		{"src/deep/nested/file.rs", "src"},
		{"crates/core/src/lib.rs", "crates/core"},
		{"packages/web/index.ts", "packages/web"},
		{"crates/lib.rs", "crates"},
		{"vendor\\lib\\util.go", "vendor"},
	}
	for _, tc := range cases {
		got := ModuleKey(tc.path, roots, 2)
		if got != tc.want {
			t.Fatalf("ModuleKey(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestModuleKeyDepth(t *testing.T) {
	path := "crates/core/sub/lib.rs"
	if got := ModuleKey(path, []string{"crates"}, 3); got != "crates/core/sub" {
		t.Fatalf("depth 3 = %q", got)
	}
	if got := ModuleKey(path, []string{"crates"}, 0); got != "crates" {
		t.Fatalf("depth 0 should clamp to 1, got %q", got)
	}
	if got := ModuleKey("crates/core/lib.rs", []string{"crates"}, 5); got != "crates/core" {
		t.Fatalf("depth beyond segments should clamp, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"./src/main.rs", "src/main.rs"},
		{"src\\main.rs", "src/main.rs"},
		{"/abs/path.go", "abs/path.go"},
		{"plain.go", "plain.go"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
