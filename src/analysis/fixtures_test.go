package analysis

import (
	"fmt"

	"macro-observer/src/models"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func country(code, name, region string, gdp *float64) models.MCountryRecord {
	r := models.MCountryRecord{Code: code, Name: name, LatestGDP: gdp}
	if region != "" {
		r.Region = s(region)
	}
	return r
}

func codes(records []models.MCountryRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Code
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// bundleOf builds n countries with descending GDP (C000 largest).
func bundleOf(n int) *models.MDashboardBundle {
	b := &models.MDashboardBundle{GDPByCountry: map[string]models.MTimeSeries{}}
	for i := 0; i < n; i++ {
		code := fmt.Sprintf("C%03d", i)
		gdp := float64(1000 - i)
		b.Countries = append(b.Countries, country(code, "Country "+code, "Region", &gdp))
		b.GDPByCountry[code] = models.MTimeSeries{
			CountryCode: code,
			CountryName: "Country " + code,
			Data:        []models.MTimeSeriesPoint{{Year: 2021, Value: f(gdp)}, {Year: 2020, Value: f(gdp - 1)}},
		}
	}
	return b
}
