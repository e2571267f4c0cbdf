package render

import (
	"strconv"

	"github.com/dustin/go-humanize"
)

// Currency formats an amount as US-locale dollars with digit grouping and
// exactly two decimal places: 1234.5 renders as "$1,234.50".
func Currency(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// Percent formats a percentage value with exactly two decimal places and a
// literal "%" suffix: 3.14159 renders as "3.14%". The value is assumed to be
// pre-scaled (3.14 means 3.14%, not 314%).
func Percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "%"
}

// Count formats an integer count without grouping, matching how the
// dashboard displays raw transaction counts.
func Count(v int64) string {
	return strconv.FormatInt(v, 10)
}
