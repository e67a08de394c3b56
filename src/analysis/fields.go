package analysis

import (
	"fmt"
	"strings"

	"macro-observer/src/models"
)

// SortField names a sortable column of the country table.
type SortField string

const (
	FieldName            SortField = "name"
	FieldRegion          SortField = "region"
	FieldGDP             SortField = "gdp"
	FieldGDPGrowth       SortField = "gdp_growth"
	FieldGDPPerCapita    SortField = "gdp_per_capita"
	FieldPopulation      SortField = "population"
	FieldFDIInflows      SortField = "fdi_inflows"
	FieldFDIOutflows     SortField = "fdi_outflows"
	FieldFDINet          SortField = "fdi_net"
	FieldTradeBalance    SortField = "trade_balance"
	FieldTradeBalancePct SortField = "trade_balance_pct"
	FieldLatestGDPYear   SortField = "latest_gdp_year"
)

// AllSortFields lists every field the registry must cover.
var AllSortFields = []SortField{
	FieldName, FieldRegion, FieldGDP, FieldGDPGrowth, FieldGDPPerCapita,
	FieldPopulation, FieldFDIInflows, FieldFDIOutflows, FieldFDINet,
	FieldTradeBalance, FieldTradeBalancePct, FieldLatestGDPYear,
}

// -----------------------------------------------------------------------------

// fieldAccessor reads one column. Exactly one of text/number is set.
type fieldAccessor struct {
	text   func(*models.MCountryRecord) string
	number func(*models.MCountryRecord) *float64
}

func textField(fn func(*models.MCountryRecord) string) fieldAccessor {
	return fieldAccessor{text: fn}
}

func numberField(fn func(*models.MCountryRecord) *float64) fieldAccessor {
	return fieldAccessor{number: fn}
}

var fieldRegistry = mustBuildRegistry([]struct {
	field    SortField
	accessor fieldAccessor
}{
	{FieldName, textField(func(r *models.MCountryRecord) string { return r.Name })},
	{FieldRegion, textField(func(r *models.MCountryRecord) string { return r.RegionName() })},
	{FieldGDP, numberField(func(r *models.MCountryRecord) *float64 { return r.LatestGDP })},
	{FieldGDPGrowth, numberField(func(r *models.MCountryRecord) *float64 { return r.GDPGrowth })},
	{FieldGDPPerCapita, numberField(func(r *models.MCountryRecord) *float64 { return r.GDPPerCapita })},
	{FieldPopulation, numberField(func(r *models.MCountryRecord) *float64 { return r.Population })},
	{FieldFDIInflows, numberField(func(r *models.MCountryRecord) *float64 { return r.FDIInflows })},
	{FieldFDIOutflows, numberField(func(r *models.MCountryRecord) *float64 { return r.FDIOutflows })},
	{FieldFDINet, numberField(func(r *models.MCountryRecord) *float64 { return r.FDINet })},
	{FieldTradeBalance, numberField(func(r *models.MCountryRecord) *float64 { return r.TradeBalance })},
	{FieldTradeBalancePct, numberField(func(r *models.MCountryRecord) *float64 { return r.TradeBalancePct })},
	{FieldLatestGDPYear, numberField(func(r *models.MCountryRecord) *float64 {
		if r.LatestGDPYear == nil {
			return nil
		}
		y := float64(*r.LatestGDPYear)
		return &y
	})},
})

// -----------------------------------------------------------------------------

// mustBuildRegistry panics unless every field in AllSortFields has exactly one accessor.
func mustBuildRegistry(entries []struct {
	field    SortField
	accessor fieldAccessor
}) map[SortField]fieldAccessor {
	known := make(map[SortField]bool, len(AllSortFields))
	for _, f := range AllSortFields {
		known[f] = true
	}

	reg := make(map[SortField]fieldAccessor, len(entries))
	for _, e := range entries {
		if !known[e.field] {
			panic(fmt.Sprintf("analysis: accessor registered for unlisted field %q", e.field))
		}
		if _, dup := reg[e.field]; dup {
			panic(fmt.Sprintf("analysis: field %q registered twice", e.field))
		}
		if (e.accessor.text == nil) == (e.accessor.number == nil) {
			panic(fmt.Sprintf("analysis: field %q needs exactly one accessor kind", e.field))
		}
		reg[e.field] = e.accessor
	}
	for _, f := range AllSortFields {
		if _, ok := reg[f]; !ok {
			panic(fmt.Sprintf("analysis: no accessor for field %q", f))
		}
	}
	return reg
}

// -----------------------------------------------------------------------------

// ParseSortField validates an external field name.
func ParseSortField(name string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := fieldRegistry[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	return f, nil
}

// IsText reports whether the field sorts by collation rather than by value.
func (f SortField) IsText() bool {
	return fieldRegistry[f].text != nil
}

// Value returns the nullable numeric value of field on r (nil for text fields).
func (f SortField) Value(r *models.MCountryRecord) *float64 {
	acc, ok := fieldRegistry[f]
	if !ok || acc.number == nil {
		return nil
	}
	return acc.number(r)
}
