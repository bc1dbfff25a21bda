package render

import (
	"fmt"
	"io"
	"strings"

	"ctxpack/internal/pack"
	"ctxpack/internal/scan"
)

// BundleOptions tunes bundle emission.
type BundleOptions struct {
	// Compress strips blank lines from emitted content.
	Compress bool
}

const bundleDelimiter = "// === %s ==="

// Bundle writes the plan as concatenated file contents. Full files are
// emitted verbatim, head_tail files keep a 60/40 prefix and suffix of
// their retained line budget around an omission marker, summary files get
// a placeholder block, and skip files are left out entirely. A file that
// cannot be read anymore warns on errw and is dropped; the walk and the
// render are separate passes and the tree may have changed between them.
func Bundle(w, errw io.Writer, root string, plan pack.PackPlan, opts BundleOptions) error {
	for _, f := range plan.Files {
		if f.Policy == pack.PolicySkip {
			continue
		}

		if _, err := fmt.Fprintf(w, bundleDelimiter+"\n", f.Path); err != nil {
			return err
		}

		if f.Policy == pack.PolicySummary {
			if err := writeSummary(w, f); err != nil {
				return err
			}
			continue
		}

		content, err := scan.ReadContent(root, f.Path)
		if err != nil {
			fmt.Fprintf(errw, "warning: skipping %s: %v\n", f.Path, err)
			continue
		}

		lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
		if opts.Compress {
			lines = stripBlank(lines)
		}
		if f.Policy == pack.PolicyHeadTail {
			lines = headTail(lines, retainedLines(f, len(lines)))
		}

		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeSummary(w io.Writer, f pack.PlanFile) error {
	_, err := fmt.Fprintf(w, "// [summary] %s: %s, %d lines, %d tokens (content omitted)\n\n",
		f.Path, f.Lang, f.Lines, f.Tokens)
	return err
}

// retainedLines converts the retained token budget back into a line
// count, assuming tokens are distributed evenly across the file's lines.
func retainedLines(f pack.PlanFile, total int) int {
	if f.Tokens <= 0 || f.EffectiveTokens >= f.Tokens {
		return total
	}
	kept := int(float64(total) * float64(f.EffectiveTokens) / float64(f.Tokens))
	if kept < 2 {
		kept = 2
	}
	if kept > total {
		kept = total
	}
	return kept
}

// headTail keeps 60% of the retained lines from the head and 40% from
// the tail, with a marker naming how many were cut.
func headTail(lines []string, keep int) []string {
	if keep >= len(lines) {
		return lines
	}
	head := keep * 60 / 100
	tail := keep - head
	omitted := len(lines) - keep

	out := make([]string, 0, keep+1)
	out = append(out, lines[:head]...)
	out = append(out, fmt.Sprintf("// ... [%d lines omitted] ...", omitted))
	out = append(out, lines[len(lines)-tail:]...)
	return out
}

func stripBlank(lines []string) []string {
	out := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
