package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/spf13/cobra"
)

func TestSplitList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"crates,packages", []string{"crates", "packages"}},
		{" a , b ", []string{"a", "b"}},
		{"solo", []string{"solo"}},
		{"", nil},
		{",,", nil},
	}
	for _, tc := range cases {
		if got := splitList(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("splitList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestOpenOutputRefusesOverwriteWithoutForce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(path, []byte("existing"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cmd := &cobra.Command{}
	if _, _, err := openOutput(cmd, path, false); err == nil {
		t.Fatal("expected refusal without --force")
	}

	w, closeOut, err := openOutput(cmd, path, true)
	if err != nil {
		t.Fatalf("openOutput with force: %v", err)
	}
	if w == nil {
		t.Fatal("nil writer")
	}
	closeOut()
}

func TestOpenOutputDefaultsToStdout(t *testing.T) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	w, closeOut, err := openOutput(cmd, "", false)
	if err != nil {
		t.Fatalf("openOutput: %v", err)
	}
	defer closeOut()
	if w != &buf {
		t.Fatal("expected the command's stdout writer")
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("version: %v", err)
	}
	if got := buf.String(); got != "ctxpack dev\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestPackRejectsUnknownOutput(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	cmd := newPackCmd()
	if err := cmd.Flags().Set("output", "csv"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	err := runPack(cmd, t.TempDir(), packFlags{output: "csv", budget: "", noGit: true})
	if err == nil {
		t.Fatal("expected invalid output error")
	}
}
