package models

// MSummaryTotals is the server-side aggregate passed through unmodified.
type MSummaryTotals struct {
	WorldGDPTotal   *float64           `json:"world_gdp_total"`
	WorldGDPYear    *int               `json:"world_gdp_year"`
	WorldGDPGrowth  *float64           `json:"world_gdp_growth"`
	WorldGDPHistory []MTimeSeriesPoint `json:"world_gdp_history"`
	RegionTotals    map[string]float64 `json:"region_totals"`
	CountriesCount  int                `json:"countries_count"`
	DataSource      string             `json:"data_source,omitempty"`
	LastUpdated     *string            `json:"last_updated"`
}

// -----------------------------------------------------------------------------

// MDashboardBundle is the payload returned by the remote dashboard service.
type MDashboardBundle struct {
	GDPSummary   MSummaryTotals         `json:"gdp_summary"`
	Countries    []MCountryRecord       `json:"countries"`
	GDPByCountry map[string]MTimeSeries `json:"gdp_by_country"`
	GeneratedAt  string                 `json:"generated_at"`
	CacheTTL     int                    `json:"cache_ttl"`
}

// -----------------------------------------------------------------------------

// MFetchParams are the request parameters accepted by the fetch boundary.
// Zero values mean "let the service decide".
type MFetchParams struct {
	StartYear int `json:"start_year,omitempty"`
	EndYear   int `json:"end_year,omitempty"`
	TopN      int `json:"top_n,omitempty"`
}
