package pack

import "fmt"

const (
	// DefaultMaxFilePct is the default maximum fraction of the budget a
	// single file may consume.
	DefaultMaxFilePct = 0.15
	// DefaultMaxFileTokens is the hard per-file ceiling when the caller
	// supplies none.
	DefaultMaxFileTokens = 16_000
	// summaryTokenCost is the fixed budget charge for a summary
	// placeholder.
	summaryTokenCost = 50
)

// ComputeFileCap derives the admission cap: the maximum tokens a single
// file may contribute before triggering a non-full policy.
//
// The cap is the lesser of floor(budget × maxFilePct) and the hard limit
// (maxFileTokens when positive, DefaultMaxFileTokens otherwise). A zero
// or Unlimited budget yields Unlimited: with no real budget to protect
// there is nothing to cap.
func ComputeFileCap(budget int, maxFilePct float64, maxFileTokens int) int {
	if budget <= 0 || budget == Unlimited {
		return Unlimited
	}

	hard := maxFileTokens
	if hard <= 0 {
		hard = DefaultMaxFileTokens
	}

	pctCap := int(float64(budget) * maxFilePct)
	if pctCap < hard {
		return pctCap
	}
	return hard
}

// AssignPolicy combines a file's token count, its admission cap, and its
// classification set into exactly one inclusion policy.
//
// Decision table, in precedence order:
//  1. tokens ≤ cap (including Unlimited): full.
//  2. smart-excluded (lockfile/minified/sourcemap): skip, the category is
//     the reason.
//  3. spine or dense: head_tail; the content matters but must be bounded.
//  4. generated/vendored/fixture: summary; over-budget content that is
//     non-essential verbatim gets a placeholder instead of an outright
//     skip.
//  5. anything else over the cap: head_tail.
//
// Total function: every input combination maps to one policy, and the
// reason is non-empty whenever the policy is not full.
func AssignPolicy(tokens, fileCap int, classes []Class) (Policy, string) {
	if tokens <= fileCap {
		return PolicyFull, ""
	}

	if reason, ok := smartExcludeClass(classes); ok {
		return PolicySkip, reason
	}

	if hasClass(classes, ClassSpine) || hasClass(classes, ClassDense) {
		return PolicyHeadTail, fmt.Sprintf("file exceeds cap (%d > %d tokens); head+tail included", tokens, fileCap)
	}

	for _, c := range []Class{ClassGenerated, ClassVendored, ClassFixture} {
		if hasClass(classes, c) {
			return PolicySummary, fmt.Sprintf("%s file exceeds cap (%d > %d tokens); summary only", c, tokens, fileCap)
		}
	}

	return PolicyHeadTail, fmt.Sprintf("file exceeds cap (%d > %d tokens); head+tail included", tokens, fileCap)
}

// retainedCost is the token charge a policy places on the budget.
func retainedCost(policy Policy, tokens, fileCap int) int {
	switch policy {
	case PolicyFull:
		return tokens
	case PolicyHeadTail:
		if tokens < fileCap {
			return tokens
		}
		return fileCap
	case PolicySummary:
		return summaryTokenCost
	default:
		return 0
	}
}
