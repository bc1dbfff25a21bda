package render

import (
	"encoding/json"
	"io"

	"ctxpack/internal/pack"
)

// Receipt is the machine-readable record of a packing run.
type Receipt struct {
	BudgetTokens    int           `json:"budget_tokens"`
	UsedTokens      int           `json:"used_tokens"`
	UtilizationPct  float64       `json:"utilization_pct"`
	Strategy        string        `json:"strategy"`
	RankBy          string        `json:"rank_by"`
	RankByEffective string        `json:"rank_by_effective"`
	FallbackReason  string        `json:"fallback_reason,omitempty"`
	FileCount       int           `json:"file_count"`
	Files           []ReceiptFile `json:"files"`
}

type ReceiptFile struct {
	Path            string   `json:"path"`
	Module          string   `json:"module"`
	Lang            string   `json:"lang"`
	Tokens          int      `json:"tokens"`
	Code            int      `json:"code"`
	Lines           int      `json:"lines"`
	Bytes           int      `json:"bytes"`
	Value           int      `json:"value"`
	Policy          string   `json:"policy"`
	PolicyReason    string   `json:"policy_reason,omitempty"`
	EffectiveTokens int      `json:"effective_tokens"`
	Classifications []string `json:"classifications"`
}

// NewReceipt flattens a plan into its receipt form.
func NewReceipt(plan pack.PackPlan) Receipt {
	files := make([]ReceiptFile, 0, len(plan.Files))
	for _, f := range plan.Files {
		classes := make([]string, 0, len(f.Classes))
		for _, c := range f.Classes {
			classes = append(classes, string(c))
		}
		files = append(files, ReceiptFile{
			Path:            f.Path,
			Module:          f.Module,
			Lang:            f.Lang,
			Tokens:          f.Tokens,
			Code:            f.Code,
			Lines:           f.Lines,
			Bytes:           f.Bytes,
			Value:           f.Value,
			Policy:          string(f.Policy),
			PolicyReason:    f.PolicyReason,
			EffectiveTokens: f.EffectiveTokens,
			Classifications: classes,
		})
	}
	return Receipt{
		BudgetTokens:    plan.Budget,
		UsedTokens:      plan.UsedTokens,
		UtilizationPct:  plan.Utilization,
		Strategy:        string(plan.Strategy),
		RankBy:          string(plan.RankBy),
		RankByEffective: string(plan.RankByEffective),
		FallbackReason:  plan.FallbackReason,
		FileCount:       len(plan.Files),
		Files:           files,
	}
}

// WriteReceipt emits the receipt as indented JSON.
func WriteReceipt(w io.Writer, plan pack.PackPlan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReceipt(plan))
}
