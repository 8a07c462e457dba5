// Package currency formats monetary amounts and award-point balances for
// reply text.
package currency

import (
	"fmt"
	"math"
)

// Format renders an amount with its currency code and a thousands-separated
// integer part, e.g. "EUR 1,850".
func Format(amount float64, code string) string {
	rounded := math.Round(amount)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	formatted := addThousandsSeparator(fmt.Sprintf("%.0f", rounded), ",")

	result := code + " " + formatted
	if negative {
		result = "-" + result
	}
	return result
}

// FormatPoints renders an award-point balance with thousands separators,
// e.g. "20,000".
func FormatPoints(points int) string {
	if points < 0 {
		return "-" + addThousandsSeparator(fmt.Sprintf("%d", -points), ",")
	}
	return addThousandsSeparator(fmt.Sprintf("%d", points), ",")
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
