package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cand(path string, tokens, code int) CandidateFile {
	return CandidateFile{
		Path:   path,
		Module: moduleOf(path),
		Lang:   "Go",
		Code:   code,
		Lines:  code,
		Tokens: tokens,
	}
}

func moduleOf(path string) string {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "(root)"
}

func TestSelectWorkedExample(t *testing.T) {
	candidates := []CandidateFile{
		cand("src/main.rs", 500, 400),
		cand("vendor/bundle.min.js", 50_000, 1),
		cand("README.md", 200, 150),
	}

	plan := Select(candidates, 1000, StrategyGreedy, MetricTokens, nil, SelectOptions{MaxFilePct: 0.5})

	require.Len(t, plan.Files, 3)
	byPath := indexPlan(plan)

	assert.Equal(t, PolicyFull, byPath["src/main.rs"].Policy)
	assert.Equal(t, PolicyFull, byPath["README.md"].Policy)
	assert.Equal(t, PolicySkip, byPath["vendor/bundle.min.js"].Policy)
	assert.Equal(t, "minified", byPath["vendor/bundle.min.js"].PolicyReason)

	assert.Equal(t, 700, plan.UsedTokens)
	assert.InDelta(t, 70.0, plan.Utilization, 0.001)
}

func TestSelectNeverExceedsBudget(t *testing.T) {
	candidates := []CandidateFile{
		cand("a/one.go", 300, 200),
		cand("a/two.go", 280, 190),
		cand("b/one.go", 260, 180),
		cand("b/two.go", 240, 170),
		cand("c/one.go", 220, 160),
		cand("c/two.go", 200, 150),
	}
	for _, budget := range []int{1, 100, 500, 1000, 5000} {
		for _, strategy := range []Strategy{StrategyGreedy, StrategySpread} {
			plan := Select(candidates, budget, strategy, MetricCode, nil, SelectOptions{})
			assert.LessOrEqual(t, plan.UsedTokens, budget, "budget %d strategy %s", budget, strategy)
		}
	}
}

func TestSelectDeterministicUnderPermutation(t *testing.T) {
	candidates := []CandidateFile{
		cand("src/alpha.go", 400, 300),
		cand("src/beta.go", 400, 300),
		cand("lib/gamma.go", 350, 250),
		cand("README.md", 120, 100),
		cand("Cargo.lock", 9_000, 1),
		cand("lib/delta.go", 200, 150),
	}
	permuted := []CandidateFile{
		candidates[4], candidates[1], candidates[5],
		candidates[0], candidates[3], candidates[2],
	}

	for _, strategy := range []Strategy{StrategyGreedy, StrategySpread} {
		a := Select(candidates, 1000, strategy, MetricCode, nil, SelectOptions{})
		b := Select(permuted, 1000, strategy, MetricCode, nil, SelectOptions{})
		assert.Equal(t, a, b, "strategy %s", strategy)
	}
}

func TestSelectTieBreaksByPath(t *testing.T) {
	candidates := []CandidateFile{
		cand("zzz.go", 100, 50),
		cand("aaa.go", 100, 50),
		cand("mmm.go", 100, 50),
	}
	plan := Select(candidates, 10_000, StrategyGreedy, MetricCode, nil, SelectOptions{})

	require.Len(t, plan.Files, 3)
	assert.Equal(t, "aaa.go", plan.Files[0].Path)
	assert.Equal(t, "mmm.go", plan.Files[1].Path)
	assert.Equal(t, "zzz.go", plan.Files[2].Path)
}

func TestSelectSpineReservedFirst(t *testing.T) {
	candidates := []CandidateFile{
		cand("src/huge.go", 4_000, 3_000),
		cand("README.md", 300, 200),
	}
	plan := Select(candidates, 100_000, StrategyGreedy, MetricCode, nil, SelectOptions{})

	require.Len(t, plan.Files, 2)
	assert.Equal(t, "README.md", plan.Files[0].Path)
	assert.Equal(t, "spine", plan.Files[0].RankReason)
	assert.Equal(t, "code", plan.Files[1].RankReason)
}

func TestSelectSpreadInterleavesModules(t *testing.T) {
	candidates := []CandidateFile{
		cand("alpha/a1.go", 100, 30),
		cand("alpha/a2.go", 100, 20),
		cand("alpha/a3.go", 100, 10),
		cand("beta/b1.go", 100, 25),
		cand("beta/b2.go", 100, 5),
	}

	greedy := Select(candidates, 10_000, StrategyGreedy, MetricCode, nil, SelectOptions{})
	spread := Select(candidates, 10_000, StrategySpread, MetricCode, nil, SelectOptions{})

	assert.Equal(t, []string{"alpha/a1.go", "beta/b1.go", "alpha/a2.go", "alpha/a3.go", "beta/b2.go"}, paths(greedy))
	assert.Equal(t, []string{"alpha/a1.go", "beta/b1.go", "alpha/a2.go", "beta/b2.go", "alpha/a3.go"}, paths(spread))
}

func TestSelectGitMetricFallsBackWithoutScores(t *testing.T) {
	candidates := []CandidateFile{cand("src/main.go", 100, 80)}

	plan := Select(candidates, 1000, StrategyGreedy, MetricHotspot, nil, SelectOptions{})
	assert.Equal(t, MetricHotspot, plan.RankBy)
	assert.Equal(t, MetricCode, plan.RankByEffective)
	assert.NotEmpty(t, plan.FallbackReason)

	scores := &GitValueScores{
		Hotspots:     map[string]int{"src/main.go": 240},
		CommitCounts: map[string]int{"src/main.go": 3},
	}
	plan = Select(candidates, 1000, StrategyGreedy, MetricHotspot, scores, SelectOptions{})
	assert.Equal(t, MetricHotspot, plan.RankByEffective)
	assert.Empty(t, plan.FallbackReason)
	assert.Equal(t, 240, plan.Files[0].Value)
}

func TestSelectUnlimitedBudgetAdmitsEverything(t *testing.T) {
	candidates := []CandidateFile{
		cand("a.go", 1_000_000, 500),
		cand("b.go", 2_000_000, 400),
	}
	plan := Select(candidates, Unlimited, StrategyGreedy, MetricCode, nil, SelectOptions{})

	require.Len(t, plan.Files, 2)
	for _, f := range plan.Files {
		assert.Equal(t, PolicyFull, f.Policy)
	}
	assert.Equal(t, 3_000_000, plan.UsedTokens)
	assert.Zero(t, plan.Utilization)
}

func TestSelectNoSmartExcludeKeepsLockfiles(t *testing.T) {
	candidates := []CandidateFile{cand("go.sum", 100, 90)}

	plan := Select(candidates, 10_000, StrategyGreedy, MetricCode, nil, SelectOptions{NoSmartExclude: true})
	require.Len(t, plan.Files, 1)
	assert.Equal(t, PolicyFull, plan.Files[0].Policy)

	plan = Select(candidates, 10_000, StrategyGreedy, MetricCode, nil, SelectOptions{})
	require.Len(t, plan.Files, 1)
	assert.Equal(t, PolicySkip, plan.Files[0].Policy)
	assert.Zero(t, plan.Files[0].EffectiveTokens)
}

func TestSelectSummaryChargesFixedCost(t *testing.T) {
	candidates := []CandidateFile{cand("vendor/big/lib.go", 40_000, 30_000)}

	plan := Select(candidates, 10_000, StrategyGreedy, MetricCode, nil, SelectOptions{})
	require.Len(t, plan.Files, 1)
	assert.Equal(t, PolicySummary, plan.Files[0].Policy)
	assert.Equal(t, summaryTokenCost, plan.Files[0].EffectiveTokens)
	assert.Equal(t, summaryTokenCost, plan.UsedTokens)
}

func indexPlan(plan PackPlan) map[string]PlanFile {
	out := make(map[string]PlanFile, len(plan.Files))
	for _, f := range plan.Files {
		out[f.Path] = f
	}
	return out
}

func paths(plan PackPlan) []string {
	out := make([]string, 0, len(plan.Files))
	for _, f := range plan.Files {
		out = append(out, f.Path)
	}
	return out
}
