package resolve

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultLandCost is used when a candidate site's price text is absent or
// unparseable.
const DefaultLandCost = 3_000_000

// currencyPattern matches a dollar amount with optional thousands separators,
// e.g. "$3,500,000" or "roughly $900000 per acre".
var currencyPattern = regexp.MustCompile(`\$([0-9][0-9,]*)`)

// ParseLandCost extracts an integer dollar amount from free-form price text.
// A miss is a field-local condition, not an error: the documented default is
// returned and ok is false.
func ParseLandCost(text string) (cost int, ok bool) {
	m := currencyPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultLandCost, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return DefaultLandCost, false
	}
	return n, true
}
