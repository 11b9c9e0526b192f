package world

import (
	"fmt"
	"math"
)

// FactorMode selects how the heat/popularity factor is obtained
type FactorMode string

const (
	// FactorFixed uses Policy.HeatPopularityFactor for every world
	FactorFixed FactorMode = "fixed"
	// FactorInterpolated maps heat and popularity from 0..100 onto 1.0..1.5 and averages them
	FactorInterpolated FactorMode = "interpolated"
)

// Policy controls filtering and metric derivation after the fold
type Policy struct {
	MinOccurrences       int        `yaml:"min_occurrences"`
	MinMarketingSpend    float64    `yaml:"min_marketing_spend"`
	HeatPopularityFactor float64    `yaml:"heat_popularity_factor"`
	FactorMode           FactorMode `yaml:"factor_mode"`
}

// DefaultPolicy returns the production thresholds
func DefaultPolicy() Policy {
	return Policy{
		MinOccurrences:       7,
		MinMarketingSpend:    15,
		HeatPopularityFactor: 1.0,
		FactorMode:           FactorFixed,
	}
}

// Validate rejects thresholds that can never be met or factors that make every metric zero
func (p Policy) Validate() error {
	if !finite(p.MinMarketingSpend) {
		return fmt.Errorf("min marketing spend must be finite, got %g", p.MinMarketingSpend)
	}
	if !finite(p.HeatPopularityFactor) {
		return fmt.Errorf("heat/popularity factor must be finite, got %g", p.HeatPopularityFactor)
	}
	if p.MinOccurrences < 0 {
		return fmt.Errorf("min occurrences must be >= 0, got %d", p.MinOccurrences)
	}
	if p.MinMarketingSpend < 0 {
		return fmt.Errorf("min marketing spend must be >= 0, got %g", p.MinMarketingSpend)
	}
	if p.HeatPopularityFactor <= 0 {
		return fmt.Errorf("heat/popularity factor must be > 0, got %g", p.HeatPopularityFactor)
	}
	switch p.FactorMode {
	case FactorFixed, FactorInterpolated:
	default:
		return fmt.Errorf("unknown factor mode %q", p.FactorMode)
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
