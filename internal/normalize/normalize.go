// Package normalize contains the pure text-to-integer cleaning functions
// applied to scraped box-office figures.  Every function is total over
// arbitrary input: unparseable text maps to 0 instead of returning an
// error.  Downstream auditing must treat a 0 as "unparseable", not as a
// legitimate zero-revenue day.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// allDigits matches a plain non-empty integer string.
	allDigits = regexp.MustCompile(`^\d+$`)
	// trailingZeroDecimal matches float-looking strings such as "3.0".
	trailingZeroDecimal = regexp.MustCompile(`^(\d+)\.0$`)
	// groupedThousands matches integers grouped in threes with dot
	// separators, such as "4.766" or "10.204.018".
	groupedThousands = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)
)

// Money converts localized revenue text such as "15.000.000đ" to an
// integer VND amount.  The currency mark and the `.`/`,` thousands
// separators are stripped; if the residual string is not all digits the
// result is 0.
func Money(s string) int64 {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "đ")
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if !allDigits.MatchString(s) {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// TicketCount converts localized ticket-count text such as "1.500" to an
// integer.  The rule is identical to Money.
func TicketCount(s string) int64 {
	return Money(s)
}

// ShowtimeCount converts showtime-count text to an integer.  The source
// renders this column in three observed shapes, checked in order before
// falling through to a generic float parse:
//
//	"3.0"    -> 3     (trailing .0 float, integer part taken)
//	"4.766"  -> 4766  (dot-grouped thousands, separators stripped)
//	"200"    -> 200   (plain integer)
//
// The grouped-thousands check must run before any generic dot stripping:
// a naive "strip all dots" rule would corrupt genuine decimal values.
// Anything else is parsed as a float (comma treated as decimal point) and
// truncated toward zero, defaulting to 0 on failure.
func ShowtimeCount(s string) int64 {
	s = strings.TrimSpace(s)
	if m := trailingZeroDecimal.FindStringSubmatch(s); m != nil {
		n, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	if groupedThousands.MatchString(s) {
		n, err := strconv.ParseInt(strings.ReplaceAll(s, ".", ""), 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	if allDigits.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || f < 0 {
		return 0
	}
	return int64(f)
}
