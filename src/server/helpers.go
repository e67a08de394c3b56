package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"macro-observer/src/analysis"
	"macro-observer/src/helpers"
	"macro-observer/src/loader"
	"macro-observer/src/models"
	"macro-observer/src/storage"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Error mapping
// -----------------------------------------------------------------------------

func badRequest(err error) error {
	return helpers.NewValidationError("invalid request body: %v", err)
}

// statusForError maps domain errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, loader.ErrNotLoaded):
		return http.StatusServiceUnavailable
	case errors.Is(err, loader.ErrStaleLoad):
		return http.StatusConflict
	case errors.Is(err, storage.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, analysis.ErrUnknownField),
		errors.Is(err, analysis.ErrUnknownCountry),
		errors.Is(err, analysis.ErrUnknownAction),
		helpers.IsValidationError(err):
		return http.StatusBadRequest
	case helpers.IsFetchError(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusForError(err), gin.H{"error": err.Error()})
}

// -----------------------------------------------------------------------------
// Request helpers
// -----------------------------------------------------------------------------

// bindOptionalJSON decodes the body when one is present. It writes 400 and
// returns false on malformed input.
func bindOptionalJSON(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, badRequest(err))
		return false
	}
	return true
}

// -----------------------------------------------------------------------------

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, helpers.NewValidationError("%s must be a positive integer, got %q", key, raw)
	}
	return v, nil
}

// -----------------------------------------------------------------------------
// Display responses
// -----------------------------------------------------------------------------

type tableRowResponse struct {
	analysis.TableRow
	GDPDisplay          string `json:"gdp_display"`
	GrowthDisplay       string `json:"growth_display"`
	PerCapitaDisplay    string `json:"per_capita_display"`
	PopulationDisplay   string `json:"population_display"`
	TradeBalanceDisplay string `json:"trade_balance_display"`
	FDINetDisplay       string `json:"fdi_net_display"`
}

type tableResponse struct {
	analysis.TableView
	Rows []tableRowResponse `json:"rows"`
}

func newTableResponse(view analysis.TableView) tableResponse {
	rows := make([]tableRowResponse, len(view.Rows))
	for i, row := range view.Rows {
		rec := row.Country
		rows[i] = tableRowResponse{
			TableRow:            row,
			GDPDisplay:          helpers.FormatScaled(rec.LatestGDP, "$"),
			GrowthDisplay:       helpers.FormatPercent(rec.GDPGrowth),
			PerCapitaDisplay:    helpers.FormatScaled(rec.GDPPerCapita, "$"),
			PopulationDisplay:   helpers.FormatCount(rec.Population),
			TradeBalanceDisplay: helpers.FormatScaled(rec.TradeBalance, "$"),
			FDINetDisplay:       helpers.FormatScaled(rec.FDINet, "$"),
		}
	}
	return tableResponse{TableView: view, Rows: rows}
}

// -----------------------------------------------------------------------------

type summaryResponse struct {
	analysis.SummaryView
	WorldGDPDisplay string `json:"world_gdp_display"`
	GrowthDisplay   string `json:"growth_display"`
	LatestYear      string `json:"latest_year"`
}

func newSummaryResponse(view analysis.SummaryView) summaryResponse {
	resp := summaryResponse{
		SummaryView:     view,
		WorldGDPDisplay: helpers.FormatScaled(view.Totals.WorldGDPTotal, "$"),
		GrowthDisplay:   helpers.FormatPercent(view.LatestGrowth),
		LatestYear:      "N/A",
	}
	if view.LatestWorldGDP != nil {
		resp.WorldGDPDisplay = helpers.FormatScaled(view.LatestWorldGDP.Value, "$")
		resp.LatestYear = strconv.Itoa(view.LatestWorldGDP.Year)
	}
	return resp
}

// -----------------------------------------------------------------------------

type stockResponse struct {
	*models.MStockSnapshot
	PriceDisplay  string `json:"price_display"`
	ChangeDisplay string `json:"change_display"`
}

func newStockResponse(s *models.MStockSnapshot) stockResponse {
	change := s.ChangePercent
	return stockResponse{
		MStockSnapshot: s,
		PriceDisplay:   fmt.Sprintf("%.2f %s", s.Price, s.Currency),
		ChangeDisplay:  helpers.FormatPercent(&change),
	}
}
