package models

// -----------------------------------------------------------------------------
// Country cross-sectional snapshot (one row of the dashboard table)
// -----------------------------------------------------------------------------

// MCountryRecord is one country's metrics for the current load.
// Every numeric metric is independently nullable.
type MCountryRecord struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	Region          *string  `json:"region"`
	IncomeLevel     string   `json:"income_level,omitempty"`
	LatestGDP       *float64 `json:"latest_gdp"`
	LatestGDPYear   *int     `json:"latest_gdp_year"`
	GDPGrowth       *float64 `json:"gdp_growth"`
	GDPPerCapita    *float64 `json:"gdp_per_capita"`
	Population      *float64 `json:"population"`
	FDIInflows      *float64 `json:"fdi_inflows"`
	FDIOutflows     *float64 `json:"fdi_outflows"`
	FDINet          *float64 `json:"fdi_net"`
	TradeBalance    *float64 `json:"trade_balance"`
	TradeBalancePct *float64 `json:"trade_balance_pct"`
}

// -----------------------------------------------------------------------------

// RegionName returns the region, treating null as the empty string.
func (r MCountryRecord) RegionName() string {
	if r.Region == nil {
		return ""
	}
	return *r.Region
}
