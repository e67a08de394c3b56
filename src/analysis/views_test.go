package analysis

import (
	"testing"

	"macro-observer/src/models"
)

func TestBuildTable(t *testing.T) {
	store := NewRecordStore(bundleOf(25))
	st := DefaultState(store)
	st, _ = Reduce(st, store, GoToPage{Page: 2})

	table := BuildTable(store, st)
	if len(table.Rows) != 5 || table.TotalPages != 2 || table.StartRank != 21 || table.PageSize != PageSize {
		t.Fatalf("table = %+v", table)
	}
	if table.Rows[0].Rank != 21 || table.Rows[4].Rank != 25 || table.Rows[0].Country.Code != "C020" {
		t.Fatalf("rows = %+v", table.Rows)
	}

	st, _ = Reduce(st, store, GoToPage{Page: 1})
	table = BuildTable(store, st)
	if !table.Rows[0].Selected || table.Rows[5].Selected {
		t.Fatal("selected flags do not follow the selection set")
	}
}

func TestBuildGDPChart(t *testing.T) {
	store := NewRecordStore(bundleOf(10))
	view := BuildGDPChart(store, DefaultState(store), 4)
	if !view.HasData || len(view.Series) != 5 {
		t.Fatalf("chart = %+v", view.AlignedChart)
	}
	if view.Domain.Max != 1000 || view.Domain.Min != 995 {
		t.Errorf("domain = %+v", view.Domain)
	}
	if len(view.Ticks) != 5 || view.Ticks[0] != 0 || view.Ticks[4] != 1000 {
		t.Errorf("ticks = %v", view.Ticks)
	}

	empty := NewRecordStore(nil)
	if v := BuildGDPChart(empty, DefaultState(empty), 4); v.HasData || v.Ticks != nil {
		t.Fatalf("empty chart = %+v", v)
	}
}

func TestBuildSummary(t *testing.T) {
	bundle := bundleOf(3)
	bundle.GDPSummary = models.MSummaryTotals{
		WorldGDPHistory: []models.MTimeSeriesPoint{{Year: 2021, Value: f(110)}, {Year: 2020, Value: f(100)}, {Year: 2022}},
		RegionTotals:    map[string]float64{"Asia": 3, "Europe": 1},
	}
	store := NewRecordStore(bundle)

	sum := BuildSummary(store)
	if sum.LatestWorldGDP == nil || sum.LatestWorldGDP.Year != 2021 {
		t.Fatalf("latest = %+v", sum.LatestWorldGDP)
	}
	if sum.LatestGrowth == nil || *sum.LatestGrowth < 9.99 || *sum.LatestGrowth > 10.01 {
		t.Fatalf("growth = %v", sum.LatestGrowth)
	}
	if len(sum.Regions.Groups) != 2 || sum.Regions.Groups[0].Key != "Asia" {
		t.Fatalf("regions = %+v", sum.Regions)
	}
	if sum.CountriesLoaded != 3 {
		t.Errorf("countries loaded = %d", sum.CountriesLoaded)
	}
}

func TestBuildDashboardView(t *testing.T) {
	bundle := bundleOf(4)
	bundle.Countries[0].TradeBalance = f(10)
	bundle.Countries[1].TradeBalance = f(-20)
	bundle.Countries[2].FDINet = f(3)
	store := NewRecordStore(bundle)

	view := BuildDashboardView(store, DefaultState(store), ViewOptions{TickSteps: 2, DivergingLimit: 5})
	if !view.Trade.HasData || len(view.Trade.Positive) != 1 || len(view.Trade.Negative) != 1 {
		t.Fatalf("trade = %+v", view.Trade)
	}
	if !view.FDI.HasData || view.FDI.Positive[0].Code != "C002" {
		t.Fatalf("fdi = %+v", view.FDI)
	}
	if view.Regions.Empty || view.Regions.Groups[0].Key != "Region" {
		t.Fatalf("regions = %+v", view.Regions)
	}
	if len(view.GDP.Ticks) != 3 {
		t.Fatalf("ticks = %v", view.GDP.Ticks)
	}
}
