package analysis

import (
	"math"
	"testing"

	"macro-observer/src/models"
)

func TestAlignUnionAxisAndDroppedNulls(t *testing.T) {
	series := map[string]models.MTimeSeries{
		"A": {CountryName: "Alpha", Data: []models.MTimeSeriesPoint{{Year: 2022, Value: f(30)}, {Year: 2020, Value: f(10)}, {Year: 2021}}},
		"B": {CountryName: "Beta", Data: []models.MTimeSeriesPoint{{Year: 2021, Value: f(5)}}},
	}

	chart := Align([]string{"A", "B"}, series)
	if !chart.HasData {
		t.Fatal("expected data")
	}
	if len(chart.Years) != 3 || chart.Years[0] != 2020 || chart.Years[2] != 2022 {
		t.Fatalf("years = %v", chart.Years)
	}

	a := chart.Series[0]
	if a.Code != "A" || len(a.Points) != 2 {
		t.Fatalf("series A = %+v", a)
	}
	if a.Points[0].Year != 2020 || a.Points[0].Value != 10 || a.Points[1].Year != 2022 || a.Points[1].Value != 30 {
		t.Fatalf("A points = %+v", a.Points)
	}
	if a.Points[0].X != 0 || a.Points[1].X != 1 {
		t.Errorf("A x = %v, %v", a.Points[0].X, a.Points[1].X)
	}
	if math.Abs(a.Points[0].Y-1.0/3.0) > 1e-9 || a.Points[1].Y != 1 {
		t.Errorf("A y = %v, %v (global max scale)", a.Points[0].Y, a.Points[1].Y)
	}

	b := chart.Series[1]
	if len(b.Points) != 1 || b.Points[0].X != 0.5 {
		t.Fatalf("B points = %+v", b.Points)
	}
}

func TestAlignSkipsMissingAndKeepsSelectionColours(t *testing.T) {
	series := map[string]models.MTimeSeries{
		"B": {Data: []models.MTimeSeriesPoint{{Year: 2020, Value: f(1)}}},
		"A": {Data: []models.MTimeSeriesPoint{{Year: 2020, Value: f(2)}}},
	}
	chart := Align([]string{"B", "MISSING", "A"}, series)
	if len(chart.Series) != 2 || chart.Series[0].Code != "B" || chart.Series[1].Code != "A" {
		t.Fatalf("series order = %+v", chart.Series)
	}
	if chart.Series[0].Color != ColorFor(0) || chart.Series[1].Color != ColorFor(2) {
		t.Errorf("colours not keyed by selection position: %s %s", chart.Series[0].Color, chart.Series[1].Color)
	}
	if chart.Series[0].Name != "B" {
		t.Errorf("empty series name must fall back to the code, got %q", chart.Series[0].Name)
	}
	// single year: x guarded against division by zero
	if chart.Series[0].Points[0].X != 0 {
		t.Errorf("single-year x = %v", chart.Series[0].Points[0].X)
	}
}

func TestAlignNoData(t *testing.T) {
	if chart := Align(nil, nil); chart.HasData || len(chart.Years) != 0 {
		t.Fatalf("empty selection = %+v", chart)
	}
	series := map[string]models.MTimeSeries{"A": {Data: []models.MTimeSeriesPoint{{Year: 2020}, {Year: 2021}}}}
	chart := Align([]string{"A"}, series)
	if chart.HasData {
		t.Fatal("all-null series must report no data")
	}
	if len(chart.Years) != 2 {
		t.Fatalf("null years still belong to the axis, got %v", chart.Years)
	}
}

func TestAlignZeroMax(t *testing.T) {
	series := map[string]models.MTimeSeries{"A": {Data: []models.MTimeSeriesPoint{{Year: 2020, Value: f(0)}}}}
	chart := Align([]string{"A"}, series)
	if !chart.HasData || chart.Series[0].Points[0].Y != 0 {
		t.Fatalf("zero max chart = %+v", chart)
	}
}
