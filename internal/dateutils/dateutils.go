// Package dateutils expands statement month-day tokens into calendar dates.
package dateutils

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date layouts used in the report.
const (
	DateLayoutStatement = "2006/01/02"
	TimeLayoutClock     = "15:04"
)

var statementDatePrefix = regexp.MustCompile(`^\d{4}/\d{2}/\d{2}`)

// IsMonthDayToken reports whether token is exactly four ASCII digits (MMDD).
func IsMonthDayToken(token string) bool {
	return isDigits(token, 4)
}

func isDigits(s string, n int) bool {
	if len(s) != n {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatStatementDate turns an MMDD token into "YEAR/MM/DD HH:MM" where the
// clock part is taken from now; the statement carries no time of day.
// Tokens that are not four digits are returned unchanged.
func FormatStatementDate(token, year string, now time.Time) string {
	token = strings.TrimSpace(token)
	if !IsMonthDayToken(token) {
		return token
	}
	return year + "/" + token[:2] + "/" + token[2:] + " " + now.Format(TimeLayoutClock)
}

// IsStatementDate reports whether value starts with a YYYY/MM/DD date.
func IsStatementDate(value string) bool {
	return statementDatePrefix.MatchString(value)
}

// IsValidYear reports whether year is a four-digit year.
func IsValidYear(year string) bool {
	return isDigits(year, 4)
}

// YearForToken returns the year of an MMDD token on a statement issued at
// issued. A month later than the issue month belongs to the previous year.
func YearForToken(token string, issued time.Time) string {
	year := issued.Year()
	token = strings.TrimSpace(token)
	if IsMonthDayToken(token) {
		if month, _ := strconv.Atoi(token[:2]); month > int(issued.Month()) {
			year--
		}
	}
	return strconv.Itoa(year)
}

// ResolveYear picks the statement year: the configured value when set,
// otherwise the year of the message date, otherwise the year of now.
func ResolveYear(configured string, messageDate, now time.Time) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if !messageDate.IsZero() {
		return strconv.Itoa(messageDate.Year())
	}
	return strconv.Itoa(now.Year())
}
