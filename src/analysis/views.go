package analysis

import (
	"macro-observer/src/analysis/core"
	"macro-observer/src/models"
)

// TableRow is one rendered table line.
type TableRow struct {
	Rank     int                   `json:"rank"`
	Selected bool                  `json:"selected"`
	Country  models.MCountryRecord `json:"country"`
}

// TableView is the current table page.
type TableView struct {
	Rows        []TableRow `json:"rows"`
	Sort        SortSpec   `json:"sort"`
	CurrentPage int        `json:"current_page"`
	TotalPages  int        `json:"total_pages"`
	PageSize    int        `json:"page_size"`
	TotalCount  int        `json:"total_count"`
	StartRank   int        `json:"start_rank"`
}

// GDPChartView is the line chart with its raw-unit axis.
type GDPChartView struct {
	AlignedChart
	Domain core.Range `json:"domain"`
	Ticks  []float64  `json:"ticks"`
}

// SummaryView is the world totals plus the region breakdown.
type SummaryView struct {
	Totals          models.MSummaryTotals    `json:"totals"`
	Regions         GroupResult              `json:"regions"`
	LatestWorldGDP  *models.MTimeSeriesPoint `json:"latest_world_gdp"`
	LatestGrowth    *float64                 `json:"latest_growth"`
	GeneratedAt     string                   `json:"generated_at"`
	CacheTTL        int                      `json:"cache_ttl"`
	CountriesLoaded int                      `json:"countries_loaded"`
}

// DashboardView bundles everything the rendering surface paints.
type DashboardView struct {
	State   DashboardState `json:"state"`
	Table   TableView      `json:"table"`
	GDP     GDPChartView   `json:"gdp"`
	Regions GroupResult    `json:"regions"`
	Trade   DivergingChart `json:"trade"`
	FDI     DivergingChart `json:"fdi"`
	Summary SummaryView    `json:"summary"`
}

// ViewOptions carries the configurable chart parameters.
type ViewOptions struct {
	TickSteps      int
	DivergingLimit int
}

// -----------------------------------------------------------------------------

func BuildTable(store *RecordStore, state DashboardState) TableView {
	ordered := Order(store.countries, state.Sort)
	page := Paginate(ordered, state.Page)

	rows := make([]TableRow, len(page.Rows))
	for i, rec := range page.Rows {
		rows[i] = TableRow{
			Rank:     page.StartRank + i,
			Selected: state.Selection.Contains(rec.Code),
			Country:  rec,
		}
	}
	return TableView{
		Rows:        rows,
		Sort:        state.Sort,
		CurrentPage: page.CurrentPage,
		TotalPages:  page.TotalPages,
		PageSize:    PageSize,
		TotalCount:  page.TotalCount,
		StartRank:   page.StartRank,
	}
}

// -----------------------------------------------------------------------------

// BuildGDPChart aligns the selected series and labels the axis from 0 to the
// largest plotted value.
func BuildGDPChart(store *RecordStore, state DashboardState, tickSteps int) GDPChartView {
	chart := Align(state.Selection.Codes(), store.series)
	view := GDPChartView{AlignedChart: chart}
	if !chart.HasData {
		return view
	}

	var values []*float64
	for _, s := range chart.Series {
		for i := range s.Points {
			values = append(values, &s.Points[i].Value)
		}
	}
	if domain, ok := core.Domain(values); ok {
		view.Domain = domain
		view.Ticks = core.Ticks(domain.Max, tickSteps)
	}
	return view
}

// -----------------------------------------------------------------------------

// BuildRegionChart groups the loaded countries' latest GDP by region.
func BuildRegionChart(store *RecordStore) GroupResult {
	return Aggregate(store.countries,
		func(r models.MCountryRecord) string { return r.RegionName() },
		func(r models.MCountryRecord) *float64 { return r.LatestGDP })
}

// BuildSummaryRegions ranks the server-side region totals.
func BuildSummaryRegions(store *RecordStore) GroupResult {
	return AggregateTotals(store.summary.RegionTotals)
}

// -----------------------------------------------------------------------------

func BuildTradeChart(store *RecordStore, limit int) DivergingChart {
	return Split(store.countries, FieldTradeBalance.Value, limit)
}

func BuildFDIChart(store *RecordStore, limit int) DivergingChart {
	return Split(store.countries, FieldFDINet.Value, limit)
}

// -----------------------------------------------------------------------------

func BuildSummary(store *RecordStore) SummaryView {
	totals := store.Summary()
	view := SummaryView{
		Totals:          totals,
		Regions:         BuildSummaryRegions(store),
		GeneratedAt:     store.generatedAt,
		CacheTTL:        store.cacheTTL,
		CountriesLoaded: store.Len(),
	}
	if p, ok := core.LatestPoint(totals.WorldGDPHistory); ok {
		view.LatestWorldGDP = &p
		view.LatestGrowth = core.GrowthForYear(totals.WorldGDPHistory, p.Year)
	}
	return view
}

// -----------------------------------------------------------------------------

// BuildDashboardView renders every component for state.
func BuildDashboardView(store *RecordStore, state DashboardState, opts ViewOptions) DashboardView {
	return DashboardView{
		State:   state,
		Table:   BuildTable(store, state),
		GDP:     BuildGDPChart(store, state, opts.TickSteps),
		Regions: BuildRegionChart(store),
		Trade:   BuildTradeChart(store, opts.DivergingLimit),
		FDI:     BuildFDIChart(store, opts.DivergingLimit),
		Summary: BuildSummary(store),
	}
}
