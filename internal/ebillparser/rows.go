package ebillparser

import (
	"fmt"

	"fjacquet/ebill-csv/internal/dateutils"
	"fjacquet/ebill-csv/internal/htmlutils"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
	"fjacquet/ebill-csv/internal/parsererror"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RowOptions controls which table rows are admitted as transactions.
type RowOptions struct {
	// AnchorID is the id of the <span> that wraps the statement table.
	// The whole document is searched when it is absent.
	AnchorID string
	// MinCells is the smallest number of <td> a transaction row carries.
	MinCells int
}

// DefaultRowOptions returns the layout of the card e-bill statement.
func DefaultRowOptions() RowOptions {
	return RowOptions{AnchorID: models.DefaultAnchorID, MinCells: models.MinRowCells}
}

// ExtractRows returns the transaction rows of an e-bill HTML document using
// the default layout.
func ExtractRows(htmlText string) []models.RawRow {
	rows, _ := extractRows(htmlText, DefaultRowOptions(), logging.GetLogger())
	return rows
}

// extractRows parses htmlText and returns every admitted row in document
// order, together with the number of candidate rows that were skipped.
func extractRows(htmlText string, opts RowOptions, logger logging.Logger) ([]models.RawRow, int) {
	doc, err := htmlutils.Parse(htmlText)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse statement HTML")
		return nil, 0
	}

	scope := scopeOf(doc, opts.AnchorID, logger)

	var rows []models.RawRow
	skipped := 0
	for i, tr := range htmlutils.FindAll(scope, atom.Tr) {
		cells := htmlutils.CellTexts(tr)
		if !admitRow(cells, opts.MinCells) {
			continue
		}

		row, err := extractRow(i, cells)
		if err != nil {
			skipped++
			logger.Debug("Skipping malformed statement row",
				logging.F(logging.FieldRow, i),
				logging.F(logging.FieldError, err))
			continue
		}
		rows = append(rows, row)
	}

	return rows, skipped
}

// scopeOf narrows the search to the anchor element when the document has one.
func scopeOf(doc *html.Node, anchorID string, logger logging.Logger) *html.Node {
	if anchorID == "" {
		return doc
	}
	if anchor := htmlutils.FindElementByID(doc, atom.Span, anchorID); anchor != nil {
		return anchor
	}
	logger.Debug("Statement anchor not found, searching whole document",
		logging.F("anchor_id", anchorID))
	return doc
}

// admitRow reports whether a row has the shape of a transaction row: enough
// cells, and a four-digit month-day token in the second cell.
func admitRow(cells []string, minCells int) bool {
	if minCells < models.CellAuxiliary+1 {
		minCells = models.MinRowCells
	}
	return len(cells) >= minCells && dateutils.IsMonthDayToken(cells[models.CellDateToken])
}

func extractRow(index int, cells []string) (models.RawRow, error) {
	if len(cells) <= models.CellAuxiliary {
		return models.RawRow{}, &parsererror.DataExtractionError{
			Row:            index,
			FieldName:      "auxiliary",
			RawDataSnippet: fmt.Sprint(cells),
			Reason:         fmt.Sprintf("row has %d cells", len(cells)),
		}
	}

	return models.RawRow{
		Index:       index,
		DateToken:   cells[models.CellDateToken],
		PostDate:    cells[models.CellPostDate],
		Description: cells[models.CellDescription],
		Amount:      cells[models.CellAmount],
		CardSuffix:  cells[models.CellCardSuffix],
		Auxiliary:   cells[models.CellAuxiliary],
	}, nil
}
