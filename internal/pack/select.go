package pack

import (
	"fmt"
	"sort"

	"ctxpack/internal/pathutil"
)

const (
	// spineBudgetFraction of the total budget is reserved for spine files.
	spineBudgetFraction = 0.05
	// spineBudgetCap bounds the spine reservation in absolute tokens.
	spineBudgetCap = 5_000
	// spreadFraction of the post-spine budget is filled round-robin
	// across modules before greedy fill takes over.
	spreadFraction = 0.7
)

// SelectOptions tunes classification and admission behavior.
type SelectOptions struct {
	// NoSmartExclude disables the up-front skip of lockfiles, minified
	// bundles, and sourcemaps.
	NoSmartExclude bool
	// MaxFilePct is the maximum fraction of the budget a single file may
	// consume. Zero means DefaultMaxFilePct.
	MaxFilePct float64
	// MaxFileTokens is the hard per-file cap. Zero means
	// DefaultMaxFileTokens.
	MaxFileTokens int
	// DenseThreshold is the tokens-per-line ratio for dense
	// classification. Zero means DefaultDenseThreshold.
	DenseThreshold float64
}

func (o SelectOptions) normalized() SelectOptions {
	if o.MaxFilePct <= 0 {
		o.MaxFilePct = DefaultMaxFilePct
	}
	if o.DenseThreshold <= 0 {
		o.DenseThreshold = DefaultDenseThreshold
	}
	return o
}

// entry is the selector's per-candidate working state.
type entry struct {
	cand    CandidateFile
	classes []Class
	policy  Policy
	reason  string
	cost    int
	value   int
	taken   bool
}

// Select ranks candidates by the chosen metric, applies the selection
// strategy, and greedily admits files until the budget is exhausted.
//
// The admission cap is computed once from the fixed global budget, not
// the shrinking remainder, so the cap does not collapse as the budget is
// consumed. Admission is single-pass: an admitted file is never evicted
// to make room for a later candidate. The returned plan is identical for
// any permutation of the input slice.
func Select(candidates []CandidateFile, budget int, strategy Strategy, rankBy Metric, scores *GitValueScores, opts SelectOptions) PackPlan {
	opts = opts.normalized()

	effective, fallbackReason := resolveMetric(rankBy, scores)

	entries := buildEntries(candidates, budget, effective, scores, opts)

	spineAdmitted, spineUsed := admitSpine(entries, budget)

	remaining := budget - spineUsed
	if budget == Unlimited {
		remaining = Unlimited
	}
	restAdmitted, restUsed := admitRest(entries, remaining, strategy)

	used := spineUsed + restUsed

	plan := PackPlan{
		Files:           make([]PlanFile, 0, len(spineAdmitted)+len(restAdmitted)),
		Budget:          budget,
		UsedTokens:      used,
		Strategy:        strategy,
		RankBy:          rankBy,
		RankByEffective: effective,
		FallbackReason:  fallbackReason,
	}
	for _, e := range spineAdmitted {
		plan.Files = append(plan.Files, planFile(e, "spine"))
	}
	for _, e := range restAdmitted {
		plan.Files = append(plan.Files, planFile(e, string(effective)))
	}

	if budget > 0 && budget != Unlimited {
		plan.Utilization = float64(used) / float64(budget) * 100.0
	}

	return plan
}

// resolveMetric downgrades git-based metrics to code lines when no git
// scores are available, reporting why.
func resolveMetric(requested Metric, scores *GitValueScores) (Metric, string) {
	if scores == nil && (requested == MetricHotspot || requested == MetricChurn) {
		return MetricCode, fmt.Sprintf("%s requires git history; falling back to code lines", requested)
	}
	return requested, ""
}

// fileValue is the rank key of a candidate under a metric. Git-based
// metrics fall back to code lines for paths absent from history.
func fileValue(c CandidateFile, metric Metric, scores *GitValueScores) int {
	switch metric {
	case MetricTokens:
		return c.Tokens
	case MetricHotspot:
		if scores != nil {
			if v, ok := scores.Hotspots[c.Path]; ok {
				return v
			}
		}
		return c.Code
	case MetricChurn:
		if scores != nil {
			if n, ok := scores.CommitCounts[c.Path]; ok {
				return n*1000 + c.Code
			}
		}
		return c.Code
	default:
		return c.Code
	}
}

func buildEntries(candidates []CandidateFile, budget int, metric Metric, scores *GitValueScores, opts SelectOptions) []*entry {
	fileCap := ComputeFileCap(budget, opts.MaxFilePct, opts.MaxFileTokens)

	entries := make([]*entry, 0, len(candidates))
	for _, c := range candidates {
		c.Path = pathutil.Normalize(c.Path)
		e := &entry{
			cand:    c,
			classes: Classify(c.Path, c.Tokens, c.Lines, opts.DenseThreshold),
			value:   fileValue(c, metric, scores),
		}

		if reason, ok := SmartExcludeReason(c.Path); ok && !opts.NoSmartExclude {
			// Smart-excluded files are carried through the plan as skip
			// entries so callers can see what was dropped and why.
			e.policy, e.reason, e.cost = PolicySkip, reason, 0
		} else {
			e.policy, e.reason = AssignPolicy(c.Tokens, fileCap, e.classes)
			e.cost = retainedCost(e.policy, c.Tokens, fileCap)
		}
		entries = append(entries, e)
	}

	// Path order is the base ordering every later sort refines, which is
	// what makes the plan independent of the input sequence.
	sort.Slice(entries, func(i, j int) bool { return entries[i].cand.Path < entries[j].cand.Path })
	return entries
}

// admitSpine reserves a slice of the budget for spine files, smallest
// first, and marks what it admits. Entries already skipped by policy are
// not eligible.
func admitSpine(entries []*entry, budget int) ([]*entry, int) {
	spineBudget := int(float64(budget) * spineBudgetFraction)
	if spineBudget > spineBudgetCap || budget == Unlimited {
		spineBudget = spineBudgetCap
	}

	var spine []*entry
	for _, e := range entries {
		if e.policy != PolicySkip && IsSpine(e.cand.Path) {
			spine = append(spine, e)
		}
	}
	sort.Slice(spine, func(i, j int) bool {
		if spine[i].cost != spine[j].cost {
			return spine[i].cost < spine[j].cost
		}
		return spine[i].cand.Path < spine[j].cand.Path
	})

	var admitted []*entry
	used := 0
	for _, e := range spine {
		if used+e.cost <= spineBudget {
			used += e.cost
			admitted = append(admitted, e)
			e.markAdmitted()
		}
	}
	return admitted, used
}

// admitRest applies the strategy ordering to everything the spine pass
// did not take and admits entries while they fit.
func admitRest(entries []*entry, remaining int, strategy Strategy) ([]*entry, int) {
	var rest []*entry
	for _, e := range entries {
		if !e.admitted() {
			rest = append(rest, e)
		}
	}

	switch strategy {
	case StrategySpread:
		return admitSpread(rest, remaining)
	default:
		return admitGreedy(rest, remaining)
	}
}

func admitGreedy(rest []*entry, remaining int) ([]*entry, int) {
	sortByValue(rest)

	var admitted []*entry
	used := 0
	for _, e := range rest {
		if used+e.cost <= remaining {
			used += e.cost
			admitted = append(admitted, e)
			e.markAdmitted()
		}
	}
	return admitted, used
}

// admitSpread interleaves candidates round-robin across module queues
// into a fraction of the remaining budget, then greedily fills the rest.
// Breadth across the codebase is preserved even under a tight budget
// while the rank ordering still holds within each module's queue.
func admitSpread(rest []*entry, remaining int) ([]*entry, int) {
	groups := make(map[string][]*entry)
	for _, e := range rest {
		groups[e.cand.Module] = append(groups[e.cand.Module], e)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sortByValue(groups[k])
	}

	spreadBudget := remaining
	if remaining != Unlimited {
		spreadBudget = int(float64(remaining) * spreadFraction)
	}

	var admitted []*entry
	used := 0

	indices := make(map[string]int, len(groups))
	progress := true
	for progress && used < spreadBudget {
		progress = false
		for _, k := range keys {
			group := groups[k]
			idx := indices[k]
			if idx >= len(group) {
				continue
			}
			e := group[idx]
			if used+e.cost <= spreadBudget {
				used += e.cost
				admitted = append(admitted, e)
				e.markAdmitted()
				progress = true
			}
			// Move on either way; an entry too large for the spread
			// phase gets another chance in the greedy fill.
			indices[k] = idx + 1
		}
	}

	var leftover []*entry
	for _, e := range rest {
		if !e.admitted() {
			leftover = append(leftover, e)
		}
	}
	sortByValue(leftover)
	for _, e := range leftover {
		if used+e.cost <= remaining {
			used += e.cost
			admitted = append(admitted, e)
			e.markAdmitted()
		}
	}

	return admitted, used
}

// sortByValue orders entries by rank value descending, path ascending.
// The path tie-break keeps the ordering total.
func sortByValue(entries []*entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].cand.Path < entries[j].cand.Path
	})
}

func planFile(e *entry, rankReason string) PlanFile {
	return PlanFile{
		CandidateFile:   e.cand,
		Value:           e.value,
		RankReason:      rankReason,
		Classes:         e.classes,
		Policy:          e.policy,
		PolicyReason:    e.reason,
		EffectiveTokens: e.cost,
	}
}

func (e *entry) markAdmitted()  { e.taken = true }
func (e *entry) admitted() bool { return e.taken }
