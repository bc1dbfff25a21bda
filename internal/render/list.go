// Package render turns a pack plan into its three output shapes: a
// tabular listing, a concatenated source bundle, and a JSON receipt.
package render

import (
	"fmt"
	"io"
	"strings"

	"ctxpack/internal/pack"
)

// List writes the plan as a table preceded by a one-line summary. Output
// is plain markdown when styled is false; pass StdoutIsTTY() when
// writing to stdout so a terminal gets lipgloss styling.
func List(w io.Writer, plan pack.PackPlan, styled bool) error {
	return list(w, plan, styled)
}

func list(w io.Writer, plan pack.PackPlan, styled bool) error {
	summary := summaryLine(plan)
	if styled {
		summary = headerStyle.Render(summary)
	}
	if _, err := fmt.Fprintln(w, summary); err != nil {
		return err
	}
	if plan.FallbackReason != "" {
		warning := "note: " + plan.FallbackReason
		if styled {
			warning = warnStyle.Render(warning)
		}
		if _, err := fmt.Fprintln(w, warning); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	rows := make([][]string, 0, len(plan.Files))
	for _, f := range plan.Files {
		rows = append(rows, []string{
			f.Path,
			f.Module,
			f.Lang,
			fmt.Sprintf("%d", f.Tokens),
			fmt.Sprintf("%d", f.Code),
			policyCell(f),
		})
	}
	return writeTable(w, []string{"Path", "Module", "Lang", "Tokens", "Code", "Policy"}, rows, styled)
}

func summaryLine(plan pack.PackPlan) string {
	budget := "unlimited"
	if plan.Budget > 0 && plan.Budget != pack.Unlimited {
		budget = fmt.Sprintf("%d", plan.Budget)
	}
	return fmt.Sprintf("budget %s | used %d (%.1f%%) | %d files | strategy %s | rank by %s",
		budget, plan.UsedTokens, plan.Utilization, len(plan.Files), plan.Strategy, plan.RankByEffective)
}

func policyCell(f pack.PlanFile) string {
	if f.PolicyReason == "" {
		return string(f.Policy)
	}
	return fmt.Sprintf("%s (%s)", f.Policy, f.PolicyReason)
}

func writeTable(w io.Writer, headers []string, rows [][]string, styled bool) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = pad(h, widths[i])
	}
	headerLine := "| " + strings.Join(headerCells, " | ") + " |"
	if styled {
		headerLine = headerStyle.Render(headerLine)
	}
	if _, err := fmt.Fprintln(w, headerLine); err != nil {
		return err
	}

	seps := make([]string, len(headers))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	sepLine := "| " + strings.Join(seps, " | ") + " |"
	if styled {
		sepLine = mutedStyle.Render(sepLine)
	}
	if _, err := fmt.Fprintln(w, sepLine); err != nil {
		return err
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, "| "+strings.Join(cells, " | ")+" |"); err != nil {
			return err
		}
	}
	return nil
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
