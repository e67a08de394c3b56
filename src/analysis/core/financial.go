package core

import (
	"math"

	"macro-observer/src/models"
)

// -----------------------------------------------------------------------------

// CalculateChangePercent calculates percentage change, 0 when previous is 0.
func CalculateChangePercent(current, previous float64) float64 {
	if previous == 0 {
		return 0.0
	}
	return (current - previous) / math.Abs(previous) * 100
}

// -----------------------------------------------------------------------------

// GrowthRate returns the year-over-year growth in percent between two
// nullable observations, nil when either is missing or previous is 0.
func GrowthRate(current, previous *float64) *float64 {
	if current == nil || previous == nil || *previous == 0 {
		return nil
	}
	g := CalculateChangePercent(*current, *previous)
	return &g
}

// -----------------------------------------------------------------------------

// GrowthForYear compares the value stored for year with the one for year-1.
func GrowthForYear(points []models.MTimeSeriesPoint, year int) *float64 {
	var current, previous *float64
	for _, p := range points {
		switch p.Year {
		case year:
			current = p.Value
		case year - 1:
			previous = p.Value
		}
	}
	return GrowthRate(current, previous)
}

// -----------------------------------------------------------------------------

// DailyReturns converts a close series into simple period returns.
func DailyReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		returns = append(returns, (closes[i]-closes[i-1])/closes[i-1])
	}
	return returns
}
