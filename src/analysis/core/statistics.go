package core

import (
	"math"

	"macro-observer/src/models"
)

// -----------------------------------------------------------------------------

// CalculateMeanStd computes mean and standard deviation.
func CalculateMeanStd(data []float64) (float64, float64) {
	if len(data) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, v := range data {
		sum += v
	}
	mean := sum / float64(len(data))

	if len(data) == 1 {
		return mean, 0
	}

	// population std (N denominator)
	varianceSum := 0.0
	for _, v := range data {
		varianceSum += (v - mean) * (v - mean)
	}
	std := math.Sqrt(varianceSum / float64(len(data)))
	return mean, std
}

// -----------------------------------------------------------------------------

// LatestPoint returns the non-null point with the highest year.
func LatestPoint(points []models.MTimeSeriesPoint) (models.MTimeSeriesPoint, bool) {
	var latest models.MTimeSeriesPoint
	found := false
	for _, p := range points {
		if p.Value == nil {
			continue
		}
		if !found || p.Year > latest.Year {
			latest = p
			found = true
		}
	}
	return latest, found
}

// -----------------------------------------------------------------------------

// MaxValue returns the largest non-null value across the given series.
func MaxValue(series ...[]models.MTimeSeriesPoint) (float64, bool) {
	max := 0.0
	found := false
	for _, points := range series {
		for _, p := range points {
			if p.Value == nil {
				continue
			}
			if !found || *p.Value > max {
				max = *p.Value
				found = true
			}
		}
	}
	return max, found
}
