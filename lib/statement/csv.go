package statement

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// HeaderMarker identifies the column header row of a bank statement export.
const HeaderMarker = "Transaction Date"

const (
	colDate = iota
	colCustomerEftNo
	colTransactionCode
	colDescription
	colReference
	colBranch
	colDebit
	colCredit
	colBalance
	colCounterparty
	colPaymentDetails
	columnCount
)

var dateLayouts = []string{
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006",
}

var ErrNoHeader = errors.New("no header row containing \"" + HeaderMarker + "\" found")

// Row is one parsed statement line.
type Row struct {
	Line            int
	Date            time.Time
	CustomerEftNo   string
	TransactionCode string
	Description     string
	Reference       string
	Branch          string
	Debit           decimal.NullDecimal
	Credit          decimal.NullDecimal
	Balance         decimal.NullDecimal
	Counterparty    string
	PaymentDetails  string
}

// RowError describes a line that was skipped.
type RowError struct {
	Line   int
	Reason string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Reason)
}

type Result struct {
	Rows    []Row
	Skipped []RowError
}

// Parse reads a bank statement CSV. Lines before the header are preamble and
// ignored; lines after it with an unreadable date or amount are skipped and
// reported in Skipped.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	res := &Result{}
	headerFound := false
	line := 0
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && headerFound {
				res.Skipped = append(res.Skipped, RowError{Line: line, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if !headerFound {
			headerFound = isHeader(rec)
			continue
		}
		if blank(rec) {
			continue
		}
		row, err := parseRow(rec)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Line: line, Reason: err.Error()})
			continue
		}
		row.Line = line
		res.Rows = append(res.Rows, row)
	}
	if !headerFound {
		return nil, ErrNoHeader
	}
	return res, nil
}

func isHeader(rec []string) bool {
	for _, cell := range rec {
		if strings.Contains(strings.TrimPrefix(cell, "\ufeff"), HeaderMarker) {
			return true
		}
	}
	return false
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseRow(rec []string) (Row, error) {
	if len(rec) < columnCount {
		padded := make([]string, columnCount)
		copy(padded, rec)
		rec = padded
	}
	cell := func(i int) string { return strings.TrimSpace(rec[i]) }

	date, err := ParseDate(cell(colDate))
	if err != nil {
		return Row{}, err
	}
	row := Row{
		Date:            date,
		CustomerEftNo:   cell(colCustomerEftNo),
		TransactionCode: cell(colTransactionCode),
		Description:     cell(colDescription),
		Reference:       cell(colReference),
		Branch:          cell(colBranch),
		Counterparty:    cell(colCounterparty),
		PaymentDetails:  cell(colPaymentDetails),
	}
	if row.Debit, err = ParseAmount(cell(colDebit)); err != nil {
		return Row{}, fmt.Errorf("debit: %w", err)
	}
	if row.Credit, err = ParseAmount(cell(colCredit)); err != nil {
		return Row{}, fmt.Errorf("credit: %w", err)
	}
	if row.Balance, err = ParseAmount(cell(colBalance)); err != nil {
		return Row{}, fmt.Errorf("balance: %w", err)
	}
	return row, nil
}

// ParseDate accepts D/M/YYYY with an optional H:MM or H:MM:SS time. The
// result is the calendar date at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// ParseAmount strips thousands separators. An empty cell or a lone dash is null.
func ParseAmount(s string) (decimal.NullDecimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" || s == "-" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("invalid amount %q", s)
	}
	return decimal.NewNullDecimal(d), nil
}
