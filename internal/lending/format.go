package lending

import (
	"strings"

	"github.com/shopspring/decimal"
)

const rupee = "₹"

var (
	lakh  = decimal.NewFromInt(100000)
	crore = decimal.NewFromInt(10000000)
)

// FormatINR renders an amount in en-IN style: rupee symbol, the last three
// integer digits grouped, then groups of two (12,34,567). places is the
// number of fraction digits, always printed when positive.
func FormatINR(v decimal.Decimal, places int32) string {
	v = v.Round(places)
	neg := v.IsNegative()
	s := v.Abs().StringFixed(places)

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(rupee)
	b.WriteString(groupIndian(intPart))
	b.WriteString(frac)
	return b.String()
}

// FormatINRFloat is FormatINR for float inputs.
func FormatINRFloat(v float64, places int32) string {
	return FormatINR(decimal.NewFromFloat(v), places)
}

// FormatCompactINR abbreviates large amounts to crores (Cr) or lakhs (L)
// with two decimals; smaller amounts use FormatINR with no fraction.
func FormatCompactINR(v decimal.Decimal) string {
	switch {
	case v.GreaterThanOrEqual(crore):
		return rupee + v.Div(crore).StringFixed(2) + "Cr"
	case v.GreaterThanOrEqual(lakh):
		return rupee + v.Div(lakh).StringFixed(2) + "L"
	}
	return FormatINR(v, 0)
}

// FormatPercent renders a percentage with the given fraction digits.
func FormatPercent(v decimal.Decimal, places int32) string {
	return v.StringFixed(places) + "%"
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
