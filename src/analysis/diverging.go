package analysis

import (
	"math"
	"sort"

	"macro-observer/src/models"
)

// DivergingRow is one bar of a two-sided chart. Width is |Value| against the
// largest absolute value on either side.
type DivergingRow struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Region string  `json:"region"`
	Value  float64 `json:"value"`
	Width  float64 `json:"width"`
}

// DivergingChart holds the surplus side (largest first) and the deficit side
// (most negative first).
type DivergingChart struct {
	Positive []DivergingRow `json:"positive"`
	Negative []DivergingRow `json:"negative"`
	MaxAbs   float64        `json:"max_abs"`
	HasData  bool           `json:"has_data"`
}

// -----------------------------------------------------------------------------

// Split builds the two cohorts of at most limitPerSide rows each. Records
// without a value or a region are ignored; zero belongs to neither side.
func Split(records []models.MCountryRecord, valueFn func(*models.MCountryRecord) *float64, limitPerSide int) DivergingChart {
	chart := DivergingChart{Positive: []DivergingRow{}, Negative: []DivergingRow{}}
	if limitPerSide < 1 {
		return chart
	}

	var pos, neg []DivergingRow
	for i := range records {
		r := &records[i]
		v := valueFn(r)
		region := r.RegionName()
		if v == nil || region == "" || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		row := DivergingRow{Code: r.Code, Name: r.Name, Region: region, Value: *v}
		switch {
		case *v > 0:
			pos = append(pos, row)
		case *v < 0:
			neg = append(neg, row)
		}
	}

	sort.SliceStable(pos, func(i, j int) bool { return pos[i].Value > pos[j].Value })
	sort.SliceStable(neg, func(i, j int) bool { return neg[i].Value < neg[j].Value })
	if len(pos) > limitPerSide {
		pos = pos[:limitPerSide]
	}
	if len(neg) > limitPerSide {
		neg = neg[:limitPerSide]
	}

	for _, row := range pos {
		chart.MaxAbs = math.Max(chart.MaxAbs, math.Abs(row.Value))
	}
	for _, row := range neg {
		chart.MaxAbs = math.Max(chart.MaxAbs, math.Abs(row.Value))
	}
	for i := range pos {
		pos[i].Width = math.Abs(pos[i].Value) / chart.MaxAbs
	}
	for i := range neg {
		neg[i].Width = math.Abs(neg[i].Value) / chart.MaxAbs
	}

	if pos != nil {
		chart.Positive = pos
	}
	if neg != nil {
		chart.Negative = neg
	}
	chart.HasData = len(pos)+len(neg) > 0
	return chart
}
