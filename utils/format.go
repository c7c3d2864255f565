package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type localeFormat struct {
	symbol       string
	indianGroups bool
	dateLayout   string
}

var localeFormats = map[string]localeFormat{
	"en-US": {symbol: "$", dateLayout: "Jan 2, 2006"},
	"en-GB": {symbol: "£", dateLayout: "02/01/2006"},
	"en-IN": {symbol: "₹", indianGroups: true, dateLayout: "02/01/2006"},
	"en-AE": {symbol: "AED ", dateLayout: "02/01/2006"},
}

func formatFor(locale string) localeFormat {
	if f, ok := localeFormats[locale]; ok {
		return f
	}
	return localeFormats["en-US"]
}

// FormatCurrency renders the amount with the locale's currency symbol and
// digit grouping, always with two decimal places.
func FormatCurrency(amount decimal.Decimal, locale string) string {
	f := formatFor(locale)

	s := amount.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	out := f.symbol + groupDigits(intPart, f.indianGroups) + "." + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

func groupDigits(digits string, indian bool) string {
	if len(digits) <= 3 {
		return digits
	}

	if !indian {
		var parts []string
		for len(digits) > 3 {
			parts = append([]string{digits[len(digits)-3:]}, parts...)
			digits = digits[:len(digits)-3]
		}
		return strings.Join(append([]string{digits}, parts...), ",")
	}

	// Indian system: the last three digits form one group, the rest pair up.
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	parts = append(parts, tail)
	return strings.Join(parts, ",")
}

// FormatDate renders t using the locale's customary short date form.
func FormatDate(t time.Time, locale string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(formatFor(locale).dateLayout)
}
