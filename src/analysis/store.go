package analysis

import (
	"sort"

	"github.com/biter777/countries"

	"macro-observer/src/models"
)

// RecordStore is the immutable snapshot of one load. It is never mutated after
// construction; a reload replaces it wholesale.
type RecordStore struct {
	countries   []models.MCountryRecord
	index       map[string]int
	series      map[string]models.MTimeSeries
	summary     models.MSummaryTotals
	generatedAt string
	cacheTTL    int
	dropped     int
}

// -----------------------------------------------------------------------------

// NewRecordStore copies bundle into a store. Duplicate country codes keep the
// first record; every series is sorted by year. A nil bundle gives an empty store.
func NewRecordStore(bundle *models.MDashboardBundle) *RecordStore {
	s := &RecordStore{
		index:  make(map[string]int),
		series: make(map[string]models.MTimeSeries),
	}
	if bundle == nil {
		return s
	}

	s.countries = make([]models.MCountryRecord, 0, len(bundle.Countries))
	for _, rec := range bundle.Countries {
		if _, dup := s.index[rec.Code]; dup {
			s.dropped++
			continue
		}
		rec = cloneRecord(rec)
		if rec.Name == "" {
			rec.Name = displayName(rec.Code)
		}
		s.index[rec.Code] = len(s.countries)
		s.countries = append(s.countries, rec)
	}

	for code, ts := range bundle.GDPByCountry {
		if ts.CountryCode == "" {
			ts.CountryCode = code
		}
		ts.Data = sortedPoints(ts.Data)
		s.series[code] = ts
	}

	s.summary = bundle.GDPSummary
	s.summary.WorldGDPHistory = sortedPoints(bundle.GDPSummary.WorldGDPHistory)
	if bundle.GDPSummary.RegionTotals != nil {
		s.summary.RegionTotals = make(map[string]float64, len(bundle.GDPSummary.RegionTotals))
		for k, v := range bundle.GDPSummary.RegionTotals {
			s.summary.RegionTotals[k] = v
		}
	}
	s.generatedAt = bundle.GeneratedAt
	s.cacheTTL = bundle.CacheTTL
	return s
}

// -----------------------------------------------------------------------------

// displayName resolves an ISO alpha-2/alpha-3 code, falling back to the code.
func displayName(code string) string {
	if c := countries.ByName(code); c != countries.Unknown {
		return c.String()
	}
	return code
}

func sortedPoints(points []models.MTimeSeriesPoint) []models.MTimeSeriesPoint {
	out := make([]models.MTimeSeriesPoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneRecord(r models.MCountryRecord) models.MCountryRecord {
	c := r
	if r.Region != nil {
		region := *r.Region
		c.Region = &region
	}
	if r.LatestGDPYear != nil {
		year := *r.LatestGDPYear
		c.LatestGDPYear = &year
	}
	c.LatestGDP = cloneFloat(r.LatestGDP)
	c.GDPGrowth = cloneFloat(r.GDPGrowth)
	c.GDPPerCapita = cloneFloat(r.GDPPerCapita)
	c.Population = cloneFloat(r.Population)
	c.FDIInflows = cloneFloat(r.FDIInflows)
	c.FDIOutflows = cloneFloat(r.FDIOutflows)
	c.FDINet = cloneFloat(r.FDINet)
	c.TradeBalance = cloneFloat(r.TradeBalance)
	c.TradeBalancePct = cloneFloat(r.TradeBalancePct)
	return c
}

// -----------------------------------------------------------------------------

// Len is the number of unique country records.
func (s *RecordStore) Len() int { return len(s.countries) }

// Dropped counts records discarded as duplicate codes.
func (s *RecordStore) Dropped() int { return s.dropped }

// GeneratedAt and CacheTTL are opaque display metadata.
func (s *RecordStore) GeneratedAt() string { return s.generatedAt }
func (s *RecordStore) CacheTTL() int       { return s.cacheTTL }

// Countries returns the records in load order.
func (s *RecordStore) Countries() []models.MCountryRecord {
	out := make([]models.MCountryRecord, len(s.countries))
	copy(out, s.countries)
	return out
}

// Country looks a record up by code.
func (s *RecordStore) Country(code string) (models.MCountryRecord, bool) {
	i, ok := s.index[code]
	if !ok {
		return models.MCountryRecord{}, false
	}
	return s.countries[i], true
}

// Has reports whether code belongs to this snapshot.
func (s *RecordStore) Has(code string) bool {
	_, ok := s.index[code]
	return ok
}

// Series returns the year-sorted GDP series for code.
func (s *RecordStore) Series(code string) (models.MTimeSeries, bool) {
	ts, ok := s.series[code]
	if !ok {
		return models.MTimeSeries{}, false
	}
	ts.Data = sortedPoints(ts.Data)
	return ts, true
}

// Summary returns the server-side totals as loaded.
func (s *RecordStore) Summary() models.MSummaryTotals {
	out := s.summary
	out.WorldGDPHistory = sortedPoints(s.summary.WorldGDPHistory)
	if s.summary.RegionTotals != nil {
		out.RegionTotals = make(map[string]float64, len(s.summary.RegionTotals))
		for k, v := range s.summary.RegionTotals {
			out.RegionTotals[k] = v
		}
	}
	return out
}
