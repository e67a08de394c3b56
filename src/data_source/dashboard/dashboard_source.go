package dashboard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"macro-observer/src/helpers"
	"macro-observer/src/interfaces"
	"macro-observer/src/logger"
	"macro-observer/src/models"
)

const (
	dashboardPath = "/api/macro/dashboard"
	MinTopN       = 5
	MaxTopN       = 500
)

// DashboardSource reads the macro dashboard bundle from the remote data service.
type DashboardSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func NewDashboardSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, log *logger.Logger) *DashboardSource {
	return &DashboardSource{Config: cfg, Network: netMgr, Logger: log}
}

// -----------------------------------------------------------------------------

func (s *DashboardSource) Name() string {
	return "macro-dashboard"
}

// -----------------------------------------------------------------------------

// ValidateParams rejects out-of-range request parameters. Zero means unset.
func ValidateParams(p models.MFetchParams) error {
	if p.TopN != 0 && (p.TopN < MinTopN || p.TopN > MaxTopN) {
		return helpers.NewValidationError("top_n must be between %d and %d, got %d", MinTopN, MaxTopN, p.TopN)
	}
	if p.StartYear < 0 || p.EndYear < 0 {
		return helpers.NewValidationError("years must be positive")
	}
	if p.StartYear != 0 && p.EndYear != 0 && p.StartYear > p.EndYear {
		return helpers.NewValidationError("start_year %d is after end_year %d", p.StartYear, p.EndYear)
	}
	return nil
}

// -----------------------------------------------------------------------------

// FetchDashboard performs GET {base_url}/api/macro/dashboard with the set parameters.
func (s *DashboardSource) FetchDashboard(ctx context.Context, p models.MFetchParams) (*models.MDashboardBundle, error) {
	if err := ValidateParams(p); err != nil {
		return nil, err
	}

	params := map[string]string{}
	if p.StartYear != 0 {
		params["start_year"] = strconv.Itoa(p.StartYear)
	}
	if p.EndYear != 0 {
		params["end_year"] = strconv.Itoa(p.EndYear)
	}
	if p.TopN != 0 {
		params["top_n"] = strconv.Itoa(p.TopN)
	}

	endpoint := strings.TrimRight(s.Config.DataSource.BaseURL, "/") + dashboardPath
	body, err := s.Network.Get(ctx, endpoint, params)
	if err != nil {
		return nil, helpers.NewFetchError("fetch dashboard", err)
	}

	var bundle models.MDashboardBundle
	if err := json.Unmarshal(body, &bundle); err != nil {
		return nil, helpers.NewDecodeError("decode dashboard", err)
	}
	s.Logger.Debug("Dashboard fetched: %d countries, %d series, generated %s",
		len(bundle.Countries), len(bundle.GDPByCountry), bundle.GeneratedAt)
	return &bundle, nil
}

// -----------------------------------------------------------------------------

// String is used in log lines.
func (s *DashboardSource) String() string {
	return fmt.Sprintf("%s(%s)", s.Name(), s.Config.DataSource.BaseURL)
}
