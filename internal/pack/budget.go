package pack

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Unlimited is the sentinel token count meaning "no bound". It is used
// both for budgets parsed from "unlimited"/"max" and for admission caps
// when the budget itself is unconstrained.
const Unlimited = math.MaxInt

// ParseBudget turns a human-readable budget expression into a token
// count.
//
// Accepted forms:
//   - plain integers: "50000"
//   - k/m/g suffixes (×1e3/1e6/1e9, case-insensitive): "128k", "1.5k", "0.5m"
//   - "unlimited" or "max": Unlimited
//
// Malformed input is rejected with a descriptive error, never defaulted.
func ParseBudget(s string) (int, error) {
	in := strings.ToLower(strings.TrimSpace(s))

	if in == "unlimited" || in == "max" {
		return Unlimited, nil
	}

	num := in
	mult := 1.0
	switch {
	case strings.HasSuffix(in, "k"):
		num, mult = strings.TrimSpace(strings.TrimSuffix(in, "k")), 1e3
	case strings.HasSuffix(in, "m"):
		num, mult = strings.TrimSpace(strings.TrimSuffix(in, "m")), 1e6
	case strings.HasSuffix(in, "g"):
		num, mult = strings.TrimSpace(strings.TrimSuffix(in, "g")), 1e9
	}

	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid budget %q: expected <number>[k|m|g] or \"unlimited\" (examples: 128k, 1m, unlimited)", strings.TrimSpace(s))
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid budget %q: must not be negative", strings.TrimSpace(s))
	}

	v := n * mult
	if v >= float64(math.MaxInt) {
		return 0, fmt.Errorf("invalid budget %q: value overflows (use \"unlimited\" for no bound)", strings.TrimSpace(s))
	}

	return int(v), nil
}

// ParseStrategy validates a strategy selector from the CLI/config layer.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyGreedy:
		return StrategyGreedy, nil
	case StrategySpread:
		return StrategySpread, nil
	}
	return "", fmt.Errorf("invalid strategy %q: expected greedy or spread", s)
}

// ParseMetric validates a ranking-metric selector from the CLI/config
// layer.
func ParseMetric(s string) (Metric, error) {
	switch Metric(strings.ToLower(strings.TrimSpace(s))) {
	case MetricCode:
		return MetricCode, nil
	case MetricTokens:
		return MetricTokens, nil
	case MetricHotspot:
		return MetricHotspot, nil
	case MetricChurn:
		return MetricChurn, nil
	}
	return "", fmt.Errorf("invalid rank metric %q: expected code, tokens, hotspot, or churn", s)
}
