package intent

import (
	"regexp"
	"strconv"
	"strings"
)

// SingleBoundMultiplier turns a lone budget figure into an upper bound.
const SingleBoundMultiplier = 1.5

// budgetPattern matches a currency-like figure with an optional range:
// $1,000  $1000.50  $1000-2000  $1,000 - $2,500
var budgetPattern = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)(?:\s*-\s*\$?\s*([0-9][0-9,]*(?:\.[0-9]+)?))?`)

// ParseBudget extracts min and max budget bounds from the message. When the
// message carries a single figure, max defaults to 1.5x min. ok is false
// when no currency-like pattern is present.
func ParseBudget(text string) (min, max float64, ok bool) {
	m := budgetPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}

	min, err := parseAmount(m[1])
	if err != nil {
		return 0, 0, false
	}

	if m[2] != "" {
		max, err = parseAmount(m[2])
		if err != nil {
			return 0, 0, false
		}
	} else {
		max = min * SingleBoundMultiplier
	}

	return min, max, true
}

func parseAmount(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
