package aggregate

import (
	"github.com/montanaflynn/stats"
)

// Business estimate constants
const (
	orderWindowDays    = 30
	conversionDivisor  = 10000
	averageOrderValue  = 400
	marketingSpendRate = 0.35
)

// Metrics are the business estimates derived from a world's average occupancy
type Metrics struct {
	DailyVisitors     float64
	EstimatedOrders   float64
	MaxMarketingSpend float64
}

// DeriveMetrics computes visitors, orders and the spend ceiling for an average occupancy
func DeriveMetrics(averageOccupants, factor float64) Metrics {
	daily := averageOccupants * factor
	orders := round2(daily * orderWindowDays / conversionDivisor)
	return Metrics{
		DailyVisitors:     daily,
		EstimatedOrders:   orders,
		MaxMarketingSpend: round2(orders * averageOrderValue * marketingSpendRate),
	}
}

// InterpolatedFactor maps heat and popularity from 0..100 onto 1.0..1.5 each and averages
// the two.
func InterpolatedFactor(heat, popularity float64) float64 {
	return (interpolate(heat, 0, 100) + interpolate(popularity, 0, 100)) / 2
}

func interpolate(value, min, max float64) float64 {
	if value <= min {
		return 1.0
	}
	if value >= max {
		return 1.5
	}
	return 1.0 + 0.5*(value-min)/(max-min)
}

// round2 rounds half away from zero to two decimals; NaN collapses to 0
func round2(x float64) float64 {
	r, err := stats.Round(x, 2)
	if err != nil {
		return 0
	}
	return r
}
