package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR renders an amount as Indian-rupee currency with Indian digit
// grouping: the last three integer digits form one group, every group above
// that holds two digits (₹1,00,000 rather than ₹100,000). Amounts are
// rounded to paise; a zero fraction is dropped.
//
// All user-visible money in one response goes through this function so the
// digest, chart titles, and table cells agree on presentation.
func FormatINR(v decimal.Decimal) string {
	fixed := v.Round(2).StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(intPart))
	if fracPart != "" && fracPart != "00" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}

// FormatPercent renders a growth percentage with one decimal place.
func FormatPercent(v decimal.Decimal) string {
	return v.StringFixed(1) + "%"
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	groups := make([]string, 0, len(head)/2+2)
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	groups = append(groups, tail)

	return strings.Join(groups, ",")
}
