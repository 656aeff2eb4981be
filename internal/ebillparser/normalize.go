package ebillparser

import (
	"time"

	"fjacquet/ebill-csv/internal/currencyutils"
	"fjacquet/ebill-csv/internal/dateutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
)

// Categorizer assigns a category label to a statement description.
type Categorizer interface {
	Categorize(description string) string
}

// Normalizer turns admitted rows into transaction records.
type Normalizer struct {
	categorizer Categorizer
	year        string
	account     string
	now         func() time.Time
	logger      logging.Logger

	// issued, when set, replaces year: each row takes its year from the
	// statement issue date.
	issued time.Time
}

// NewNormalizer creates a Normalizer for one statement year.
func NewNormalizer(categorizer Categorizer, year, account string, now func() time.Time, logger logging.Logger) *Normalizer {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	if account == "" {
		account = models.DefaultAccountLabel
	}
	return &Normalizer{
		categorizer: categorizer,
		year:        year,
		account:     account,
		now:         now,
		logger:      logger,
	}
}

// SetIssueDate makes row years follow the statement issue date instead of
// the fixed year.
func (n *Normalizer) SetIssueDate(issued time.Time) {
	n.issued = issued
}

// Normalize converts one row. The second result is false when the row's date
// does not start with YYYY/MM/DD and the row must be dropped.
func (n *Normalizer) Normalize(row models.RawRow) (models.TransactionRecord, bool) {
	n.logger.Info("Processing statement row",
		logging.F(logging.FieldDateToken, row.DateToken),
		logging.F(logging.FieldRow, row.Index))

	year := n.year
	if !n.issued.IsZero() {
		year = dateutils.YearForToken(row.DateToken, n.issued)
	}

	date := dateutils.FormatStatementDate(row.DateToken, year, n.now())
	if !dateutils.IsStatementDate(date) {
		n.logger.Debug("Dropping row with unusable date",
			logging.F(logging.FieldDateToken, row.DateToken),
			logging.F(logging.FieldDate, date))
		return models.TransactionRecord{}, false
	}

	amount := currencyutils.CleanAmount(row.Amount)

	category := models.CategoryOther
	if n.categorizer != nil {
		category = n.categorizer.Categorize(row.Description)
	}

	return models.TransactionRecord{
		Date:      date,
		Amount:    amount,
		Category:  category,
		Direction: currencyutils.ClassifyDirection(amount),
		Account:   n.account,
	}, true
}

// NormalizeAll converts rows in order and returns the kept records and the
// number of dropped rows.
func (n *Normalizer) NormalizeAll(rows []models.RawRow) ([]models.TransactionRecord, int) {
	records := make([]models.TransactionRecord, 0, len(rows))
	dropped := 0
	for _, row := range rows {
		record, ok := n.normalizeSafely(row)
		if !ok {
			dropped++
			continue
		}
		records = append(records, record)
	}
	return records, dropped
}

// normalizeSafely drops a row whose normalization panics.
func (n *Normalizer) normalizeSafely(row models.RawRow) (record models.TransactionRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Warn("Skipping row that failed normalization",
				logging.F(logging.FieldRow, row.Index),
				logging.F(logging.FieldError, r))
			record, ok = models.TransactionRecord{}, false
		}
	}()
	return n.Normalize(row)
}
