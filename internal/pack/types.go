// Package pack implements the budget-allocation engine: file
// classification, per-file admission caps, inclusion policies, and the
// budget-constrained selection that turns scanned candidates into a
// deterministic context pack plan.
//
// Everything in this package is a pure function over immutable inputs.
// No I/O happens here; the scanner, git adapter, and renderers feed and
// consume it.
package pack

// CandidateFile is a file eligible for packing, as produced by the
// scanner. Paths are repo-relative with forward slashes.
type CandidateFile struct {
	Path     string
	Module   string
	Lang     string
	Code     int
	Comments int
	Blanks   int
	Lines    int
	Bytes    int
	Tokens   int
}

// Class is a semantic tag describing a file's role with respect to
// packing policy. A file may carry several classes at once; classification
// results are always sorted and deduplicated.
type Class string

const (
	ClassDense     Class = "dense"
	ClassFixture   Class = "fixture"
	ClassGenerated Class = "generated"
	ClassLockfile  Class = "lockfile"
	ClassMinified  Class = "minified"
	ClassSourcemap Class = "sourcemap"
	ClassSpine     Class = "spine"
	ClassVendored  Class = "vendored"
)

// Policy is the terminal decision for how a file is represented in the
// pack.
type Policy string

const (
	// PolicyFull includes the entire file content.
	PolicyFull Policy = "full"
	// PolicyHeadTail retains a capped prefix and suffix of the file.
	PolicyHeadTail Policy = "head_tail"
	// PolicySummary includes only a generated placeholder, no raw content.
	PolicySummary Policy = "summary"
	// PolicySkip excludes the file entirely.
	PolicySkip Policy = "skip"
)

// GitValueScores holds importance scores derived from commit history.
// Paths and modules absent from history are absent from the maps; no zero
// entries are materialized. Computed once per invocation by the gitscore
// package and read-only thereafter.
type GitValueScores struct {
	// Hotspots maps path to lines × commit count.
	Hotspots map[string]int
	// CommitCounts maps path to the number of commits touching it.
	CommitCounts map[string]int
	// ModuleHotspots aggregates hotspot scores per module key.
	ModuleHotspots map[string]int
	// ModuleAuthors counts distinct commit authors per module key.
	ModuleAuthors map[string]int
}

// PlanFile is one entry of a PackPlan: a candidate annotated with its
// rank value, classification, and assigned inclusion policy.
type PlanFile struct {
	CandidateFile

	// Value is the rank key under the effective metric.
	Value int
	// RankReason names why the file was admitted ("spine" or the metric).
	RankReason string
	// Classes is the sorted, deduplicated classification set.
	Classes []Class
	// Policy is the assigned inclusion policy.
	Policy Policy
	// PolicyReason explains any non-full policy. Empty for PolicyFull.
	PolicyReason string
	// EffectiveTokens is the token cost charged against the budget:
	// Tokens for full, the capped count for head_tail, a small fixed cost
	// for summary, zero for skip.
	EffectiveTokens int
}

// PackPlan is the selector's output. It is created fresh per invocation
// and never mutated after being returned.
type PackPlan struct {
	Files []PlanFile

	Budget      int
	UsedTokens  int
	Utilization float64

	Strategy Strategy
	RankBy   Metric
	// RankByEffective is the metric actually used; it differs from RankBy
	// when git scores were unavailable for a git-based metric.
	RankByEffective Metric
	// FallbackReason is set when RankByEffective differs from RankBy.
	FallbackReason string
}

// Strategy selects the candidate ordering discipline.
type Strategy string

const (
	// StrategyGreedy consumes candidates strictly by rank.
	StrategyGreedy Strategy = "greedy"
	// StrategySpread interleaves candidates round-robin across modules so
	// breadth across the codebase survives a tight budget.
	StrategySpread Strategy = "spread"
)

// Metric selects the per-file rank key.
type Metric string

const (
	MetricCode    Metric = "code"
	MetricTokens  Metric = "tokens"
	MetricHotspot Metric = "hotspot"
	MetricChurn   Metric = "churn"
)
