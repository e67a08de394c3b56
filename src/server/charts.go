package server

import (
	"net/http"
	"strconv"

	"macro-observer/src/analysis"
	"macro-observer/src/helpers"

	"github.com/gin-gonic/gin"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

const (
	chartWidth      = "1100px"
	chartHeight     = "520px"
	chartBackground = "#0F172A"
	chartTextColor  = "#E2E8F0"
)

// -----------------------------------------------------------------------------
// Preview handlers (server-rendered HTML)
// -----------------------------------------------------------------------------

func (s *DashboardServer) previewDashboard(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	page := components.NewPage()
	page.PageTitle = s.Config.Name
	page.AddCharts(
		buildGDPLine(analysis.BuildGDPChart(snap.Store, snap.State, s.viewOpts.TickSteps)),
		buildRegionPie(analysis.BuildRegionChart(snap.Store)),
		buildDivergingBar("Trade balance", analysis.BuildTradeChart(snap.Store, s.viewOpts.DivergingLimit)),
		buildDivergingBar("Net FDI", analysis.BuildFDIChart(snap.Store, s.viewOpts.DivergingLimit)),
	)
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = page.Render(c.Writer)
}

func (s *DashboardServer) previewGDP(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	line := buildGDPLine(analysis.BuildGDPChart(snap.Store, snap.State, s.viewOpts.TickSteps))
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = line.Render(c.Writer)
}

func (s *DashboardServer) previewRegions(c *gin.Context) {
	snap, ok := s.loadedSnapshot(c)
	if !ok {
		return
	}
	pie := buildRegionPie(analysis.BuildRegionChart(snap.Store))
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	_ = pie.Render(c.Writer)
}

// -----------------------------------------------------------------------------
// Chart builders
// -----------------------------------------------------------------------------

func baseInit() charts.GlobalOpts {
	return charts.WithInitializationOpts(opts.Initialization{
		Width:           chartWidth,
		Height:          chartHeight,
		BackgroundColor: chartBackground,
	})
}

func titleOpts(title, subtitle string) charts.GlobalOpts {
	return charts.WithTitleOpts(opts.Title{
		Title:      title,
		Subtitle:   subtitle,
		TitleStyle: &opts.TextStyle{Color: chartTextColor},
	})
}

// -----------------------------------------------------------------------------

// buildGDPLine plots the selected countries on a shared year axis. Missing
// years are bridged, matching the JSON geometry.
func buildGDPLine(view analysis.GDPChartView) *charts.Line {
	line := charts.NewLine()
	subtitle := "No data for the selected countries"
	if view.HasData {
		max := view.Domain.Max
		subtitle = "Peak " + helpers.FormatScaled(&max, "$")
	}
	line.SetGlobalOptions(
		baseInit(),
		titleOpts("GDP history (current US$)", subtitle),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Right:     "10",
			Orient:    "vertical",
			TextStyle: &opts.TextStyle{Color: chartTextColor},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      "Year",
			AxisLabel: &opts.AxisLabel{Color: chartTextColor},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      "GDP",
			Max:       view.Domain.Max,
			AxisLabel: &opts.AxisLabel{Color: chartTextColor},
		}),
		charts.WithGridOpts(opts.Grid{Left: "110", Right: "200", Bottom: "60"}),
	)

	years := make([]string, len(view.Years))
	for i, y := range view.Years {
		years[i] = strconv.Itoa(y)
	}
	line.SetXAxis(years)

	for _, series := range view.Series {
		byYear := make(map[int]float64, len(series.Points))
		for _, p := range series.Points {
			byYear[p.Year] = p.Value
		}
		data := make([]opts.LineData, len(view.Years))
		for i, y := range view.Years {
			if v, ok := byYear[y]; ok {
				data[i] = opts.LineData{Value: v}
			} else {
				data[i] = opts.LineData{Value: nil}
			}
		}
		line.AddSeries(series.Name, data,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: series.Color}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: series.Color}),
		)
	}
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ConnectNulls: opts.Bool(true)}))
	return line
}

// -----------------------------------------------------------------------------

func buildRegionPie(result analysis.GroupResult) *charts.Pie {
	pie := charts.NewPie()
	total := result.GrandTotal
	pie.SetGlobalOptions(
		baseInit(),
		titleOpts("GDP by region", "Total "+helpers.FormatScaled(&total, "$")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Right:     "10",
			Orient:    "vertical",
			Type:      "scroll",
			TextStyle: &opts.TextStyle{Color: chartTextColor},
		}),
	)

	data := make([]opts.PieData, 0, len(result.Groups))
	for _, g := range result.Groups {
		data = append(data, opts.PieData{Name: g.Key, Value: g.Total})
	}
	pie.AddSeries("Regions", data).
		SetSeriesOptions(
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}),
			charts.WithPieChartOpts(opts.PieChart{
				Radius: []string{"35%", "70%"},
				Center: []string{"40%", "50%"},
			}),
		)
	return pie
}

// -----------------------------------------------------------------------------

// buildDivergingBar draws both cohorts as horizontal bars around zero.
func buildDivergingBar(title string, chart analysis.DivergingChart) *charts.Bar {
	bar := charts.NewBar()
	max := chart.MaxAbs
	bar.SetGlobalOptions(
		baseInit(),
		titleOpts(title, "Largest magnitude "+helpers.FormatScaled(&max, "$")),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Color: chartTextColor}}),
		charts.WithYAxisOpts(opts.YAxis{AxisLabel: &opts.AxisLabel{Color: chartTextColor}}),
		charts.WithGridOpts(opts.Grid{Left: "160", Right: "60"}),
	)

	rows := make([]analysis.DivergingRow, 0, len(chart.Positive)+len(chart.Negative))
	rows = append(rows, chart.Negative...)
	for i := len(chart.Positive) - 1; i >= 0; i-- {
		rows = append(rows, chart.Positive[i])
	}

	names := make([]string, len(rows))
	data := make([]opts.BarData, len(rows))
	for i, r := range rows {
		names[i] = r.Name
		color := "#10B981"
		if r.Value < 0 {
			color = "#EF4444"
		}
		data[i] = opts.BarData{Name: r.Code, Value: r.Value, ItemStyle: &opts.ItemStyle{Color: color}}
	}
	bar.SetXAxis(names).AddSeries(title, data)
	bar.XYReversal()
	return bar
}
