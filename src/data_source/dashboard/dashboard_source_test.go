package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"macro-observer/src/helpers"
	"macro-observer/src/logger"
	"macro-observer/src/models"
	"macro-observer/src/network"
)

const bundleJSON = `{
  "gdp_summary": {
    "world_gdp_total": 1.05e14, "world_gdp_year": 2023, "world_gdp_growth": 2.7,
    "world_gdp_history": [{"year": 2022, "value": 1.0e14}, {"year": 2023, "value": 1.05e14}],
    "region_totals": {"East Asia & Pacific": 3.1e13, "Europe & Central Asia": 2.9e13},
    "countries_count": 2, "data_source": "World Bank", "last_updated": "2024-05-01"
  },
  "countries": [
    {"code": "USA", "name": "United States", "region": "North America", "income_level": "High income",
     "latest_gdp": 2.7e13, "latest_gdp_year": 2023, "gdp_growth": 2.5, "gdp_per_capita": 80000,
     "population": 3.3e8, "fdi_inflows": 3.0e11, "fdi_outflows": 4.0e11, "fdi_net": -1.0e11,
     "trade_balance": -7.8e11, "trade_balance_pct": -2.9},
    {"code": "XKX", "name": "Kosovo", "region": null, "latest_gdp": null}
  ],
  "gdp_by_country": {
    "USA": {"indicator_id": "NY.GDP.MKTP.CD", "indicator_name": "GDP (current US$)", "country_code": "USA",
            "country_name": "United States", "data": [{"year": 2023, "value": 2.7e13}, {"year": 2022, "value": null}],
            "unit": "USD", "source": "World Bank"}
  },
  "generated_at": "2024-05-01T10:00:00Z",
  "cache_ttl": 86400
}`

func testConfig(baseURL string) *models.MConfig {
	cfg := &models.MConfig{}
	cfg.DataSource.BaseURL = baseURL
	cfg.Network.RequestTimeout = 5
	return cfg
}

func TestFetchDashboardEndToEnd(t *testing.T) {
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/macro/dashboard" {
			t.Errorf("path = %s", r.URL.Path)
		}
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(bundleJSON))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL + "/")
	log := logger.NewLogger(nil, "dashboard-test")
	src := NewDashboardSource(cfg, network.NewAsyncNetworkManager(cfg, log), log)

	bundle, err := src.FetchDashboard(context.Background(), models.MFetchParams{StartYear: 2010, TopN: 50})
	if err != nil {
		t.Fatalf("FetchDashboard: %v", err)
	}
	if query["start_year"] != "2010" || query["top_n"] != "50" {
		t.Errorf("query = %v", query)
	}
	if _, sent := query["end_year"]; sent {
		t.Error("unset end_year must be omitted")
	}

	if len(bundle.Countries) != 2 || bundle.Countries[1].Region != nil || bundle.Countries[1].LatestGDP != nil {
		t.Fatalf("countries = %+v", bundle.Countries)
	}
	usa := bundle.Countries[0]
	if usa.FDINet == nil || *usa.FDINet != -1.0e11 || usa.LatestGDPYear == nil || *usa.LatestGDPYear != 2023 {
		t.Fatalf("usa = %+v", usa)
	}
	if ts := bundle.GDPByCountry["USA"]; len(ts.Data) != 2 || ts.Data[1].Value != nil {
		t.Fatalf("series = %+v", ts)
	}
	if bundle.GDPSummary.RegionTotals["Europe & Central Asia"] != 2.9e13 || bundle.CacheTTL != 86400 {
		t.Fatalf("summary = %+v", bundle.GDPSummary)
	}
}

func TestFetchDashboardValidation(t *testing.T) {
	src := NewDashboardSource(testConfig("http://unused"), nil, logger.NewLogger(nil, "dashboard-test"))
	bad := []models.MFetchParams{
		{TopN: 4},
		{TopN: 501},
		{StartYear: 2020, EndYear: 2010},
		{StartYear: -1},
	}
	for _, p := range bad {
		if _, err := src.FetchDashboard(context.Background(), p); !helpers.IsValidationError(err) {
			t.Errorf("params %+v: err = %v, want validation error", p, err)
		}
	}
	for _, p := range []models.MFetchParams{{}, {TopN: 5}, {TopN: 500}, {StartYear: 2000, EndYear: 2000}} {
		if err := ValidateParams(p); err != nil {
			t.Errorf("params %+v rejected: %v", p, err)
		}
	}
}

type stubNetwork struct {
	body []byte
	err  error
}

func (n stubNetwork) Get(ctx context.Context, url string, params map[string]string) ([]byte, error) {
	return n.body, n.err
}

func TestFetchDashboardErrors(t *testing.T) {
	log := logger.NewLogger(nil, "dashboard-test")
	cfg := testConfig("http://svc")

	src := NewDashboardSource(cfg, stubNetwork{err: context.DeadlineExceeded}, log)
	_, err := src.FetchDashboard(context.Background(), models.MFetchParams{})
	var fe *helpers.FetchError
	if !errors.As(err, &fe) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("transport err = %v", err)
	}

	src = NewDashboardSource(cfg, stubNetwork{body: []byte(`{"countries": "nope"}`)}, log)
	_, err = src.FetchDashboard(context.Background(), models.MFetchParams{})
	var de *helpers.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("decode err = %v", err)
	}
}
