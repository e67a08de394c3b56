package analysis

import (
	"sort"

	"macro-observer/src/analysis/core"
	"macro-observer/src/models"
)

var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// ColorFor returns the palette colour for a selection position.
func ColorFor(position int) string {
	if position < 0 {
		position = -position
	}
	return defaultColors[position%len(defaultColors)]
}

// -----------------------------------------------------------------------------

// ChartPoint is one plotted sample. X and Y are normalised to [0,1].
type ChartPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}

// ChartSeries is one country's line.
type ChartSeries struct {
	Code   string       `json:"code"`
	Name   string       `json:"name"`
	Color  string       `json:"color"`
	Points []ChartPoint `json:"points"`
}

// AlignedChart is the multi-series line geometry on a shared year axis.
type AlignedChart struct {
	Years    []int         `json:"years"`
	Series   []ChartSeries `json:"series"`
	MaxValue float64       `json:"max_value"`
	HasData  bool          `json:"has_data"`
}

// -----------------------------------------------------------------------------

// Align puts the selected series on one year axis and one vertical scale.
// Codes without a series are skipped. Null values are dropped, not interpolated.
func Align(selected []string, seriesByCode map[string]models.MTimeSeries) AlignedChart {
	type entry struct {
		code     string
		position int
		series   models.MTimeSeries
		points   []models.MTimeSeriesPoint
	}

	var entries []entry
	yearSet := make(map[int]struct{})
	for pos, code := range selected {
		ts, ok := seriesByCode[code]
		if !ok {
			continue
		}
		points := sortedPoints(ts.Data)
		for _, p := range points {
			yearSet[p.Year] = struct{}{}
		}
		entries = append(entries, entry{code: code, position: pos, series: ts, points: points})
	}

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	yearIndex := make(map[int]int, len(years))
	for i, y := range years {
		yearIndex[y] = i
	}
	span := len(years) - 1
	if span < 1 {
		span = 1
	}

	all := make([][]models.MTimeSeriesPoint, len(entries))
	for i, e := range entries {
		all[i] = e.points
	}
	globalMax, _ := core.MaxValue(all...)

	chart := AlignedChart{Years: years, Series: make([]ChartSeries, 0, len(entries)), MaxValue: globalMax}
	for _, e := range entries {
		name := e.series.CountryName
		if name == "" {
			name = e.code
		}
		cs := ChartSeries{Code: e.code, Name: name, Color: ColorFor(e.position), Points: []ChartPoint{}}
		for _, p := range e.points {
			if p.Value == nil {
				continue
			}
			cs.Points = append(cs.Points, ChartPoint{
				X:     float64(yearIndex[p.Year]) / float64(span),
				Y:     core.Normalize(*p.Value, globalMax),
				Year:  p.Year,
				Value: *p.Value,
			})
		}
		if len(cs.Points) > 0 {
			chart.HasData = true
		}
		chart.Series = append(chart.Series, cs)
	}
	return chart
}
