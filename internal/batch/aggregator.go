// Package batch merges the records of several converted statements into
// consolidated per-account reports.
package batch

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"fjacquet/ebill-csv/internal/dateutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
)

// DateRange represents a date range with start and end dates
type DateRange struct {
	Start time.Time
	End   time.Time
}

// String returns the date range in the format "YYYY-MM-DD_YYYY-MM-DD"
func (dr DateRange) String() string {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s_%s",
		dr.Start.Format("2006-01-02"),
		dr.End.Format("2006-01-02"))
}

// Merge combines this date range with another, returning the overall range
func (dr DateRange) Merge(other DateRange) DateRange {
	start := dr.Start
	end := dr.End

	if dr.Start.IsZero() {
		start = other.Start
	} else if !other.Start.IsZero() && other.Start.Before(start) {
		start = other.Start
	}

	if dr.End.IsZero() {
		end = other.End
	} else if !other.End.IsZero() && other.End.After(end) {
		end = other.End
	}

	return DateRange{Start: start, End: end}
}

// Statement is the output of one converted message.
type Statement struct {
	Source  string
	Records []models.TransactionRecord
}

// AccountGroup holds the merged records of one account label.
type AccountGroup struct {
	Account   string
	Sources   []string
	Records   []models.TransactionRecord
	DateRange DateRange
}

// Aggregator merges statements by account.
type Aggregator struct {
	logger logging.Logger
}

// NewAggregator creates a new Aggregator instance
func NewAggregator(logger logging.Logger) *Aggregator {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups the records of every statement by account, sorts each
// group chronologically and logs potential duplicates. Duplicates are kept.
// Groups are returned sorted by account.
func (a *Aggregator) Aggregate(statements []Statement) []AccountGroup {
	groups := make(map[string]*AccountGroup)

	for _, st := range statements {
		seen := make(map[string]bool)
		for _, record := range st.Records {
			group, ok := groups[record.Account]
			if !ok {
				group = &AccountGroup{Account: record.Account}
				groups[record.Account] = group
			}
			group.Records = append(group.Records, record)
			if !seen[record.Account] {
				seen[record.Account] = true
				group.Sources = append(group.Sources, filepath.Base(st.Source))
			}
		}
	}

	result := make([]AccountGroup, 0, len(groups))
	for _, group := range groups {
		sortChronologically(group.Records)
		group.DateRange = DateRangeOf(group.Records)
		a.detectAndLogDuplicates(group.Records, group.Account)

		a.logger.Info("Aggregated records for account",
			logging.F("account", group.Account),
			logging.F(logging.FieldCount, len(group.Records)),
			logging.F("source_files", strings.Join(group.Sources, ", ")))
		result = append(result, *group)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Account < result[j].Account
	})
	return result
}

// sortChronologically orders records by their "YYYY/MM/DD HH:MM" date,
// keeping statement order for equal dates.
func sortChronologically(records []models.TransactionRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date < records[j].Date
	})
}

// detectAndLogDuplicates warns about records sharing date, amount and
// category. Records must be sorted.
func (a *Aggregator) detectAndLogDuplicates(records []models.TransactionRecord, account string) {
	duplicateCount := 0
	for i := 1; i < len(records); i++ {
		if records[i] == records[i-1] {
			duplicateCount++
			a.logger.Warn("Potential duplicate transaction",
				logging.F("account", account),
				logging.F(logging.FieldDate, records[i].Date),
				logging.F("amount", records[i].Amount),
				logging.F(logging.FieldCategory, records[i].Category))
		}
	}

	if duplicateCount > 0 {
		a.logger.Warn("Found potential duplicate transactions",
			logging.F(logging.FieldCount, duplicateCount),
			logging.F("account", account))
	}
}

// DateRangeOf returns the range spanned by the record dates. Dates that do
// not parse are ignored.
func DateRangeOf(records []models.TransactionRecord) DateRange {
	var dr DateRange
	for _, r := range records {
		if len(r.Date) < len(dateutils.DateLayoutStatement) {
			continue
		}
		day, err := time.Parse(dateutils.DateLayoutStatement, r.Date[:len(dateutils.DateLayoutStatement)])
		if err != nil {
			continue
		}
		dr = dr.Merge(DateRange{Start: day, End: day})
	}
	return dr
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// SanitizeAccount makes an account label safe to use in a file name.
func SanitizeAccount(account string) string {
	sanitized := strings.Trim(unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(account), "_"), "_.")
	if sanitized == "" {
		return "UNKNOWN"
	}
	return sanitized
}

// GenerateOutputFilename creates a filename for the consolidated output
// Format: {account}_{start_date}_{end_date}.csv
func GenerateOutputFilename(account string, dateRange DateRange) string {
	sanitized := SanitizeAccount(account)
	if !dateRange.Start.IsZero() && !dateRange.End.IsZero() {
		return fmt.Sprintf("%s_%s.csv", sanitized, dateRange.String())
	}
	return fmt.Sprintf("%s.csv", sanitized)
}
