package helpers

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// financial suffixes for SI prefixes
var scaleSuffix = map[string]string{
	"k": "K",
	"M": "M",
	"G": "B",
	"T": "T",
	"P": "Q",
}

// -----------------------------------------------------------------------------

// FormatScaled renders v with a currency symbol and K/M/B/T suffix, e.g. "$1.50T".
func FormatScaled(v *float64, currency string) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "N/A"
	}
	sign := ""
	if *v < 0 {
		sign = "-"
	}
	abs := math.Abs(*v)
	if abs < 1000 {
		return fmt.Sprintf("%s%s%.2f", sign, currency, abs)
	}

	value, prefix := humanize.ComputeSI(abs)
	suffix, ok := scaleSuffix[prefix]
	if !ok {
		return sign + currency + humanize.FormatFloat("#,###.##", abs)
	}
	return fmt.Sprintf("%s%s%.2f%s", sign, currency, value, suffix)
}

// -----------------------------------------------------------------------------

// FormatPercent renders a signed percentage, e.g. "+2.35%".
func FormatPercent(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "N/A"
	}
	return fmt.Sprintf("%+.2f%%", *v)
}

// -----------------------------------------------------------------------------

// FormatCount renders an integral quantity with thousands separators.
func FormatCount(v *float64) string {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "N/A"
	}
	return humanize.Comma(int64(math.Round(*v)))
}
