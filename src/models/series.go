package models

// MTimeSeriesPoint is a (year, nullable value) pair.
type MTimeSeriesPoint struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

// MTimeSeries is one country's year-indexed history for one indicator.
// Stored points are not guaranteed to be sorted; consumers sort by year first.
type MTimeSeries struct {
	IndicatorID   string             `json:"indicator_id,omitempty"`
	IndicatorName string             `json:"indicator_name,omitempty"`
	CountryCode   string             `json:"country_code"`
	CountryName   string             `json:"country_name"`
	Data          []MTimeSeriesPoint `json:"data"`
	Unit          string             `json:"unit,omitempty"`
	Source        string             `json:"source,omitempty"`
}
