// Package format renders amounts, dates and addresses for templates.
package format

import (
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/suvana/suvana/internal/domain/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DateLayout is used for payout and contribution dates.
const DateLayout = "Jan 2, 2006"

var printer = message.NewPrinter(language.English)

// Amount formats a share amount without trailing zeros: 1, 1.5, 0.25.
func Amount(v float64) string {
	return strconv.FormatFloat(models.RoundAmount(v), 'f', -1, 64)
}

// SUI formats an amount with the currency suffix: "1.5 SUI".
func SUI(v float64) string {
	return Amount(v) + " " + models.Currency
}

// Stat formats a platform total with one decimal and grouping: "1,234.5".
func Stat(v float64) string {
	return printer.Sprintf("%.1f", v)
}

// Count formats an integer with grouping: "1,234".
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Percent formats a 0..100 value rounded half up to a whole number: "30%".
func Percent(v float64) string {
	return strconv.Itoa(int(math.Round(v))) + "%"
}

// Date formats t as "Jan 2, 2006" in UTC.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// Relative describes t against now: "3 days from now", "2 hours ago".
func Relative(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// ShortAddress abbreviates a wallet address to its first six and last four
// characters: "0x8b4f…c2a9". Short inputs are returned unchanged.
func ShortAddress(a string) string {
	if utf8.RuneCountInString(a) <= 10 {
		return a
	}
	r := []rune(a)
	return string(r[:6]) + "…" + string(r[len(r)-4:])
}
