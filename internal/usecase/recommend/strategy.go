package recommend

import (
	"fmt"

	"github.com/billboard-civic/billboard/internal/domain"
)

// Strategy selects how candidate bills are retrieved for a profile.
// The set is closed; dispatch is exhaustive.
type Strategy string

const (
	// StrategyFused searches once with the fused interest+demographic vector.
	StrategyFused Strategy = "fused"
	// StrategyAverage searches once with the interest mean, no demographics.
	StrategyAverage Strategy = "average"
	// StrategyIndividual searches once per interest tag and merges by max score.
	StrategyIndividual Strategy = "individual"
	// StrategyBlended linearly blends the average and individual rankings.
	StrategyBlended Strategy = "blended"
)

// ParseStrategy validates a strategy name. The empty string selects the
// default (fused); anything else unknown is an input error, never a silent
// fallback.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(name) {
	case "":
		return StrategyFused, nil
	case StrategyFused, StrategyAverage, StrategyIndividual, StrategyBlended:
		return Strategy(name), nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedStrategy, name)
	}
}
