package ebillparser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fjacquet/ebill-csv/internal/categorizer"
	"fjacquet/ebill-csv/internal/common"
	"fjacquet/ebill-csv/internal/logging"
	"fjacquet/ebill-csv/internal/models"
	"fjacquet/ebill-csv/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const expectedCSV = "Transaction Date,Amount (CNY),Category,Direction,Account\n" +
	"2025/11/06 09:30,50.00,other,income,CMB\n" +
	"2025/11/05 09:30,-1234.50,dining,spend,CMB\n"

// statementMessage wraps body in a multipart/alternative e-mail with a plain
// text part ahead of the HTML part.
func statementMessage(html string) string {
	return datedStatementMessage("Fri, 07 Nov 2025 10:00:00 +0800", html)
}

func datedStatementMessage(date, html string) string {
	var b strings.Builder
	b.WriteString("From: creditcard@example.com\r\n")
	b.WriteString("Subject: =?UTF-8?B?5oub5ZWG6ZO26KGM5L+h55So5Y2h55S15a2Q6LSm5Y2V?=\r\n")
	b.WriteString("Date: " + date + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: multipart/alternative; boundary=\"STATEMENT\"\r\n\r\n")
	b.WriteString("--STATEMENT\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString("Please view this statement in an HTML capable client.\r\n")
	if html != "" {
		b.WriteString("--STATEMENT\r\n")
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n")
		b.WriteString("Content-Transfer-Encoding: 8bit\r\n\r\n")
		b.WriteString(html + "\r\n")
	}
	b.WriteString("--STATEMENT--\r\n")
	return b.String()
}

func writeMessage(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func newTestParser(opts Options) (*Parser, *logging.MockLogger) {
	logger := logging.NewMockLogger()
	if opts.Now == nil {
		opts.Now = clock
	}
	return NewParser(logger, categorizer.NewCategorizer(nil, logger), opts), logger
}

func TestNewParser_Defaults(t *testing.T) {
	p, _ := newTestParser(Options{})
	opts := p.Options()
	assert.Equal(t, models.DefaultAccountLabel, opts.Account)
	assert.Equal(t, models.DefaultAnchorID, opts.AnchorID)
	assert.Equal(t, models.MinRowCells, opts.MinCells)
	assert.Equal(t, common.DefaultDelimiter, p.GetDelimiter())
}

func TestConvert_WritesReport(t *testing.T) {
	dir := t.TempDir()
	input := writeMessage(t, dir, "statement.eml", statementMessage(statementTable))
	output := filepath.Join(dir, "out", "statement.csv")

	p, logger := newTestParser(Options{AnchorID: models.DefaultAnchorID})
	result, err := p.Convert(input, output)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Count)
	assert.Equal(t, "2025", result.Year)
	assert.Equal(t, "招商银行信用卡电子账单", result.Subject)
	assert.Equal(t, input, result.InputFile)
	assert.Equal(t, output, result.OutputFile)
	assert.Equal(t, 2, result.RowsAdmitted)
	assert.Equal(t, expectedCSV, string(result.CSV))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, string(common.UTF8BOM)+expectedCSV, string(data))

	assert.True(t, logger.HasEntry("INFO", "Converted e-bill to CSV"))
}

func TestConvert_ConfiguredYearAndDelimiter(t *testing.T) {
	dir := t.TempDir()
	input := writeMessage(t, dir, "statement.eml", statementMessage(statementTable))
	output := filepath.Join(dir, "statement.csv")

	p, _ := newTestParser(Options{Year: "2024", Account: "CMB-Visa", Delimiter: ';', AnchorID: models.DefaultAnchorID})
	result, err := p.Convert(input, output)
	require.NoError(t, err)

	require.Len(t, result.Records, 2)
	assert.Equal(t, "2024/11/06 09:30", result.Records[0].Date)
	assert.Equal(t, "CMB-Visa", result.Records[0].Account)
	assert.True(t, strings.HasPrefix(string(result.CSV), "Transaction Date;Amount (CNY);Category;Direction;Account\n"))
}

func TestConvert_YearFromMessageDate(t *testing.T) {
	dir := t.TempDir()
	input := writeMessage(t, dir, "statement.eml", statementMessage(statementTable))

	p, _ := newTestParser(Options{
		AnchorID: models.DefaultAnchorID,
		Now:      func() time.Time { return time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC) },
	})
	result, err := p.Convert(input, filepath.Join(dir, "statement.csv"))
	require.NoError(t, err)
	assert.Equal(t, "2025", result.Year)
	assert.Equal(t, "2025/11/06 08:00", result.Records[0].Date)
}

func TestConvert_YearBoundary(t *testing.T) {
	doc := `<span id="reportPanel1"><table>
<tr><td></td><td>1215</td><td>1216</td><td>地铁</td><td>4.00</td><td>1234</td><td>0</td><td></td></tr>
<tr><td></td><td>0103</td><td>0104</td><td>公交</td><td>2.00</td><td>1234</td><td>0</td><td></td></tr>
</table></span>`
	raw := datedStatementMessage("Mon, 05 Jan 2026 09:00:00 +0800", doc)

	p, _ := newTestParser(Options{})
	records, err := p.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2025/12/15 09:30", records[0].Date)
	assert.Equal(t, "2026/01/03 09:30", records[1].Date)

	// a configured year applies to every row
	p, _ = newTestParser(Options{Year: "2026"})
	records, err = p.Parse(strings.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "2026/12/15 09:30", records[0].Date)
}

func TestConvert_NoTransactions(t *testing.T) {
	dir := t.TempDir()
	input := writeMessage(t, dir, "empty.eml", statementMessage(`<html><body><p>本期无交易</p></body></html>`))
	output := filepath.Join(dir, "empty.csv")

	p, logger := newTestParser(Options{})
	result, err := p.Convert(input, output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrNoTransactions))
	require.NotNil(t, result)
	assert.Zero(t, result.Count)

	assert.NoFileExists(t, output)
	assert.True(t, logger.HasEntry("WARN", "No transactions found in statement"))
	assert.True(t, logger.HasEntry("INFO", "Processed 0 records, no report written"))
}

func TestConvert_NoHTMLPart(t *testing.T) {
	dir := t.TempDir()
	input := writeMessage(t, dir, "plain.eml", statementMessage(""))
	output := filepath.Join(dir, "plain.csv")

	p, _ := newTestParser(Options{})
	_, err := p.Convert(input, output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, parsererror.ErrNoHTMLPart))
	assert.NoFileExists(t, output)
}

func TestConvert_MissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "missing.csv")

	p, logger := newTestParser(Options{})
	_, err := p.Convert(filepath.Join(dir, "missing.eml"), output)
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoFileExists(t, output)
	assert.Empty(t, logger.GetEntriesByLevel("ERROR"))
}

func TestParse_Reader(t *testing.T) {
	p, _ := newTestParser(Options{})
	records, err := p.Parse(strings.NewReader(statementMessage(statementTable)))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "50.00", records[0].Amount)
	assert.Equal(t, "-1234.50", records[1].Amount)

	_, err = p.Parse(strings.NewReader(statementMessage("<p>nothing</p>")))
	assert.True(t, errors.Is(err, parsererror.ErrNoTransactions))
}

func TestValidateFormat(t *testing.T) {
	dir := t.TempDir()
	valid := writeMessage(t, dir, "valid.eml", statementMessage(statementTable))
	noRows := writeMessage(t, dir, "norows.eml", statementMessage("<p>nothing</p>"))
	noHTML := writeMessage(t, dir, "nohtml.eml", statementMessage(""))

	p, _ := newTestParser(Options{})

	ok, err := p.ValidateFormat(valid)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = p.ValidateFormat(noRows)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.ValidateFormat(noHTML)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = p.ValidateFormat(filepath.Join(dir, "missing.eml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.False(t, ok)
}

func TestBatchConvert(t *testing.T) {
	inputDir := t.TempDir()
	outputDir := filepath.Join(t.TempDir(), "reports")

	writeMessage(t, inputDir, "november.eml", statementMessage(statementTable))
	writeMessage(t, inputDir, "december.EML", statementMessage(statementTable))
	writeMessage(t, inputDir, "empty.eml", statementMessage("<p>nothing</p>"))
	writeMessage(t, inputDir, "notes.txt", "not a message")

	p, logger := newTestParser(Options{AnchorID: models.DefaultAnchorID})
	count, err := p.BatchConvert(inputDir, outputDir)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	assert.FileExists(t, filepath.Join(outputDir, "november.csv"))
	assert.FileExists(t, filepath.Join(outputDir, "december.csv"))
	assert.NoFileExists(t, filepath.Join(outputDir, "empty.csv"))
	assert.NoFileExists(t, filepath.Join(outputDir, "notes.csv"))
	assert.True(t, logger.HasEntry("WARN", "Failed to convert file, skipping"))
}

func TestBatchConvert_MissingInputDir(t *testing.T) {
	p, _ := newTestParser(Options{})
	_, err := p.BatchConvert(filepath.Join(t.TempDir(), "missing"), t.TempDir())
	assert.Error(t, err)
}
