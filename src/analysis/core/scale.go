package core

import "math"

// -----------------------------------------------------------------------------

// Range is the closed numeric extent of a set of values.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// -----------------------------------------------------------------------------

// Domain returns the min/max of the non-null, finite values.
// ok is false when nothing qualifies.
func Domain(values []*float64) (r Range, ok bool) {
	for _, v := range values {
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		if !ok {
			r = Range{Min: *v, Max: *v}
			ok = true
			continue
		}
		r.Min = math.Min(r.Min, *v)
		r.Max = math.Max(r.Max, *v)
	}
	return r, ok
}

// -----------------------------------------------------------------------------

// Ticks returns steps+1 evenly spaced values from 0 to max inclusive.
func Ticks(max float64, steps int) []float64 {
	if steps < 1 || math.IsNaN(max) || math.IsInf(max, 0) {
		return nil
	}
	ticks := make([]float64, steps+1)
	for i := 0; i < steps; i++ {
		ticks[i] = max * float64(i) / float64(steps)
	}
	ticks[steps] = max
	return ticks
}

// -----------------------------------------------------------------------------

// Normalize maps v into [0,1] against max. A zero max maps everything to 0.
func Normalize(v, max float64) float64 {
	if max == 0 {
		return 0
	}
	return v / max
}
