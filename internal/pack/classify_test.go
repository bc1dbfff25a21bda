package pack

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySingleTags(t *testing.T) {
	cases := []struct {
		path string
		want []Class
	}{
		{"README.md", []Class{ClassSpine}},
		{"docs/architecture.md", []Class{ClassSpine}},
		{"Cargo.lock", []Class{ClassLockfile}},
		{"assets/app.min.js", []Class{ClassMinified}},
		{"assets/app.js.map", []Class{ClassSourcemap}},
		{"proto/api.pb.go", []Class{ClassGenerated}},
		{"vendor/lib/util.go", []Class{ClassVendored}},
		{"pkg/testdata/input.json", []Class{ClassFixture}},
		{"src/main.rs", nil},
	}
	for _, tc := range cases {
		got := Classify(tc.path, 100, 100, DefaultDenseThreshold)
		assert.Equal(t, tc.want, got, "path %s", tc.path)
	}
}

func TestClassifyDenseRatio(t *testing.T) {
	// 5000 tokens over 100 lines is exactly the default threshold.
	got := Classify("src/blob.js", 5000, 100, DefaultDenseThreshold)
	assert.Equal(t, []Class{ClassDense}, got)

	got = Classify("src/blob.js", 4999, 100, DefaultDenseThreshold)
	assert.Empty(t, got)
}

func TestClassifyZeroLinesCountsAsOne(t *testing.T) {
	got := Classify("src/oneliner.js", 60, 0, DefaultDenseThreshold)
	assert.Equal(t, []Class{ClassDense}, got)
}

func TestClassifyCombinedTagsSortedDeduped(t *testing.T) {
	got := Classify("vendor/bundle.min.js", 50000, 10, DefaultDenseThreshold)
	require.Equal(t, []Class{ClassDense, ClassMinified, ClassVendored}, got)

	sorted := append([]Class(nil), got...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	assert.Equal(t, sorted, got, "output must equal its own sorted form")
}

func TestClassifyIgnoresLeadingDotSlash(t *testing.T) {
	assert.Equal(t, Classify("./README.md", 10, 10, DefaultDenseThreshold),
		Classify("README.md", 10, 10, DefaultDenseThreshold))
}

func TestIsSpine(t *testing.T) {
	spine := []string{"README.md", "go.mod", "package.json", "crates/core/Cargo.toml", "docs/design.md", "ctxpack.toml"}
	for _, p := range spine {
		assert.True(t, IsSpine(p), "path %s", p)
	}
	notSpine := []string{"src/main.rs", "docs/notes.md", "readme_gen.go"}
	for _, p := range notSpine {
		assert.False(t, IsSpine(p), "path %s", p)
	}
}

func TestSmartExcludeReason(t *testing.T) {
	cases := []struct {
		path   string
		reason string
		ok     bool
	}{
		{"Cargo.lock", "lockfile", true},
		{"sub/dir/go.sum", "lockfile", true},
		{"dist/app.min.js", "minified", true},
		{"dist/app.min.css", "minified", true},
		{"dist/app.js.map", "sourcemap", true},
		{"src/main.rs", "", false},
		{"minify.js", "", false},
	}
	for _, tc := range cases {
		reason, ok := SmartExcludeReason(tc.path)
		assert.Equal(t, tc.ok, ok, "path %s", tc.path)
		assert.Equal(t, tc.reason, reason, "path %s", tc.path)
	}
}
