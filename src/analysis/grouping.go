package analysis

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Group is one bucket of an aggregation.
type Group struct {
	Key     string  `json:"key"`
	Total   float64 `json:"total"`
	Percent float64 `json:"percent"`
	Count   int     `json:"count"`
}

// GroupResult holds groups sorted by total descending. Empty is set when the
// grand total is zero, in which case Groups is empty.
type GroupResult struct {
	Groups     []Group `json:"groups"`
	GrandTotal float64 `json:"grand_total"`
	Empty      bool    `json:"empty"`
}

type bucket struct {
	key   string
	total decimal.Decimal
	count int
}

// -----------------------------------------------------------------------------

// Aggregate sums valueFn per keyFn. Empty keys are excluded and null values
// contribute nothing. Ties keep first-appearance order.
func Aggregate[T any](items []T, keyFn func(T) string, valueFn func(T) *float64) GroupResult {
	index := make(map[string]int)
	var buckets []*bucket

	for _, item := range items {
		key := keyFn(item)
		if key == "" {
			continue
		}
		v := valueFn(item)
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, &bucket{key: key, total: decimal.Zero})
		}
		buckets[i].total = buckets[i].total.Add(decimal.NewFromFloat(*v))
		buckets[i].count++
	}

	return finishGroups(buckets)
}

// -----------------------------------------------------------------------------

// AggregateTotals applies the same policy to precomputed totals. Ties are
// broken by key so map iteration order never shows.
func AggregateTotals(totals map[string]float64) GroupResult {
	keys := make([]string, 0, len(totals))
	for k := range totals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return Aggregate(keys,
		func(k string) string { return k },
		func(k string) *float64 {
			v := totals[k]
			return &v
		})
}

// -----------------------------------------------------------------------------

func finishGroups(buckets []*bucket) GroupResult {
	grand := decimal.Zero
	for _, b := range buckets {
		grand = grand.Add(b.total)
	}
	if grand.IsZero() {
		return GroupResult{Groups: []Group{}, Empty: true}
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].total.GreaterThan(buckets[j].total)
	})

	hundred := decimal.NewFromInt(100)
	groups := make([]Group, len(buckets))
	for i, b := range buckets {
		groups[i] = Group{
			Key:     b.key,
			Total:   b.total.InexactFloat64(),
			Percent: b.total.Div(grand).Mul(hundred).InexactFloat64(),
			Count:   b.count,
		}
	}
	return GroupResult{Groups: groups, GrandTotal: grand.InexactFloat64()}
}
