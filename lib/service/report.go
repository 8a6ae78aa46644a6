package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/accounting"
)

// CashBookLine is one row of the Buku Tunai.
type CashBookLine struct {
	TransactionID  int64           `json:"transaction_id"`
	Tarikh         time.Time       `json:"tarikh"`
	Description    string          `json:"description"`
	Counterparty   string          `json:"counterparty,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Type           string          `json:"transaction_type"`
	Category       string          `json:"category"`
	SubCategory    string          `json:"sub_category"`
	BulanPerkiraan string          `json:"bulan_perkiraan,omitempty"`
	Credit         decimal.Decimal `json:"credit"`
	Debit          decimal.Decimal `json:"debit"`
	Balance        decimal.Decimal `json:"balance"`
}

type BukuTunai struct {
	Tahun          int             `json:"tahun"`
	Bulan          int             `json:"bulan"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	Lines          []CashBookLine  `json:"lines"`
	TotalCredit    decimal.Decimal `json:"total_credit"`
	TotalDebit     decimal.Decimal `json:"total_debit"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
	Warnings       []string        `json:"warnings"`
}

type ReconcilingItem struct {
	CashBookLine
	Reason string `json:"reason"`
}

// PenyesuaianBank compares the bank closing balance with the cash book.
// NotYetInBook holds transactions the bank shows this month that the books
// count later or have not categorized. NotYetInBank holds transactions the
// books count this month that reach the bank next month.
type PenyesuaianBank struct {
	Tahun              int                 `json:"tahun"`
	Bulan              int                 `json:"bulan"`
	BankClosingBalance decimal.NullDecimal `json:"bank_closing_balance"`
	BookClosingBalance decimal.Decimal     `json:"book_closing_balance"`
	NotYetInBook       []ReconcilingItem   `json:"not_yet_in_book"`
	NotYetInBank       []ReconcilingItem   `json:"not_yet_in_bank"`
	AdjustedBookClose  decimal.Decimal     `json:"adjusted_book_balance"`
	Difference         decimal.NullDecimal `json:"difference"`
	Reconciled         bool                `json:"reconciled"`
	Warnings           []string            `json:"warnings"`
}

type StatementLine struct {
	Category string          `json:"category"`
	Semasa   decimal.Decimal `json:"semasa"`
	Sebelum  decimal.Decimal `json:"sebelum"`
}

type StatementSection struct {
	Lines   []StatementLine `json:"lines"`
	Semasa  decimal.Decimal `json:"semasa"`
	Sebelum decimal.Decimal `json:"sebelum"`
}

type PenyataTahunan struct {
	Tahun          int                       `json:"tahun"`
	Penerimaan     StatementSection          `json:"penerimaan"`
	Pembayaran     StatementSection          `json:"pembayaran"`
	LebihanSemasa  decimal.Decimal           `json:"lebihan_semasa"`
	LebihanSebelum decimal.Decimal           `json:"lebihan_sebelum"`
	OpeningBalance decimal.Decimal           `json:"opening_balance"`
	ClosingBalance decimal.Decimal           `json:"closing_balance"`
	Months         []accounting.MonthBalance `json:"months"`
	Warnings       []string                  `json:"warnings"`
}

func (svc *SurauService) categorizedTransactions(ctx context.Context, from, to time.Time, includeUncategorized bool) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	q := svc.DB.NewSelect().Model(&transactions).
		Where("transaction_date >= ?", from).
		Where("transaction_date < ?", to).
		OrderExpr("transaction_date ASC, id ASC")
	if !includeUncategorized {
		q = q.Where("transaction_type <> ?", common.TransactionTypeUncategorized)
	}
	return transactions, q.Scan(ctx)
}

func (svc *SurauService) uncategorizedTransactions(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	err := svc.DB.NewSelect().Model(&transactions).
		Where("transaction_type = ?", common.TransactionTypeUncategorized).
		Where("transaction_date >= ?", from).
		Where("transaction_date < ?", to).
		OrderExpr("transaction_date ASC, id ASC").
		Scan(ctx)
	return transactions, err
}

func entryOf(t *models.Transaction) accounting.Entry {
	category, subCategory := t.Category()
	return accounting.Entry{
		Date:           t.TransactionDate.UTC(),
		Type:           t.TransactionType,
		BulanPerkiraan: t.BulanPerkiraan,
		Category:       category,
		SubCategory:    subCategory,
		Credit:         t.CreditAmount.Decimal.Round(2),
		Debit:          t.DebitAmount.Decimal.Round(2),
	}
}

func cashBookLine(t *models.Transaction) CashBookLine {
	e := entryOf(t)
	return CashBookLine{
		TransactionID:  t.ID,
		Tarikh:         e.Date,
		Description:    t.Description,
		Counterparty:   t.Counterparty,
		Reference:      t.Reference,
		Type:           t.TransactionType,
		Category:       accounting.Label(e.Category),
		SubCategory:    accounting.Label(e.SubCategory),
		BulanPerkiraan: t.BulanPerkiraan,
		Credit:         e.Credit,
		Debit:          e.Debit,
	}
}

// BukuTunai builds the cash book of one month: the opening balance, every
// transaction counted in the month with a running balance, and the closing balance.
func (svc *SurauService) BukuTunai(ctx context.Context, year, month int) (*BukuTunai, error) {
	p, err := accounting.NewPeriod(year, month)
	if err != nil {
		return nil, invalid("%v", err)
	}
	l, err := svc.loadLedger(ctx, svc.DB, p, p)
	if err != nil {
		return nil, err
	}
	opening, _, warnings := l.opening(p)

	transactions, err := svc.categorizedTransactions(ctx, p.Prev().Start(), p.Next().End(), false)
	if err != nil {
		return nil, err
	}
	report := &BukuTunai{
		Tahun:          year,
		Bulan:          month,
		OpeningBalance: opening,
		Lines:          []CashBookLine{},
		TotalCredit:    decimal.Zero,
		TotalDebit:     decimal.Zero,
		Warnings:       warningStrings(warnings),
	}
	running := opening
	for i := range transactions {
		if !accounting.Included(entryOf(&transactions[i]), p) {
			continue
		}
		line := cashBookLine(&transactions[i])
		running = running.Add(line.Credit).Sub(line.Debit)
		line.Balance = running
		report.TotalCredit = report.TotalCredit.Add(line.Credit)
		report.TotalDebit = report.TotalDebit.Add(line.Debit)
		report.Lines = append(report.Lines, line)
	}
	report.ClosingBalance = running
	return report, nil
}

// PenyesuaianBank reconciles the bank's closing balance for a month with the
// cash book closing balance.
func (svc *SurauService) PenyesuaianBank(ctx context.Context, year, month int) (*PenyesuaianBank, error) {
	p, err := accounting.NewPeriod(year, month)
	if err != nil {
		return nil, invalid("%v", err)
	}
	l, err := svc.loadLedger(ctx, svc.DB, p, p)
	if err != nil {
		return nil, err
	}
	balances, warnings := l.chain(p, p)
	book := balances[0].Closing

	transactions, err := svc.categorizedTransactions(ctx, p.Start(), p.Next().End(), true)
	if err != nil {
		return nil, err
	}
	report := &PenyesuaianBank{
		Tahun:              year,
		Bulan:              month,
		BankClosingBalance: l.closings[p],
		BookClosingBalance: book,
		NotYetInBook:       []ReconcilingItem{},
		NotYetInBank:       []ReconcilingItem{},
		Warnings:           warningStrings(warnings),
	}
	adjusted := book
	if _, explicit := accounting.Explicit(l.overrides, p); !explicit {
		// the bank balance carries uncategorized movement of the months since
		// the last explicit opening, the book never saw it
		earlier, err := svc.uncategorizedTransactions(ctx, l.anchor(p).Start(), p.Start())
		if err != nil {
			return nil, err
		}
		for i := range earlier {
			line := cashBookLine(&earlier[i])
			report.NotYetInBook = append(report.NotYetInBook, ReconcilingItem{CashBookLine: line, Reason: "belum dikategorikan, bulan terdahulu"})
			adjusted = adjusted.Add(line.Credit).Sub(line.Debit)
		}
	}
	for i := range transactions {
		t := &transactions[i]
		calendar := accounting.PeriodOf(t.TransactionDate.UTC())
		line := cashBookLine(t)
		switch {
		case calendar == p && t.TransactionType == common.TransactionTypeUncategorized:
			report.NotYetInBook = append(report.NotYetInBook, ReconcilingItem{CashBookLine: line, Reason: "belum dikategorikan"})
			adjusted = adjusted.Add(line.Credit).Sub(line.Debit)
		case calendar == p && t.BulanPerkiraan == common.BulanDepan:
			report.NotYetInBook = append(report.NotYetInBook, ReconcilingItem{CashBookLine: line, Reason: "dikira bulan depan"})
			adjusted = adjusted.Add(line.Credit).Sub(line.Debit)
		case calendar == p.Next() && t.BulanPerkiraan == common.BulanSebelum && t.TransactionType != common.TransactionTypeUncategorized:
			report.NotYetInBank = append(report.NotYetInBank, ReconcilingItem{CashBookLine: line, Reason: "dikira bulan sebelum"})
			adjusted = adjusted.Sub(line.Credit).Add(line.Debit)
		}
	}
	report.AdjustedBookClose = adjusted
	if report.BankClosingBalance.Valid {
		diff := report.BankClosingBalance.Decimal.Sub(adjusted)
		report.Difference = decimal.NewNullDecimal(diff)
		report.Reconciled = diff.IsZero()
	}
	return report, nil
}

// PenyataTahunan builds the annual receipts and payments statement with the
// previous year alongside.
func (svc *SurauService) PenyataTahunan(ctx context.Context, year int) (*PenyataTahunan, error) {
	jan, err := accounting.NewPeriod(year, 1)
	if err != nil {
		return nil, invalid("%v", err)
	}
	dec := accounting.Period{Year: year, Month: time.December}
	l, err := svc.loadLedger(ctx, svc.DB, accounting.Period{Year: year - 1, Month: time.January}, dec)
	if err != nil {
		return nil, err
	}
	current := accounting.AggregateYear(l.entries, year)
	previous := accounting.AggregateYear(l.entries, year-1)
	months, warnings := l.chain(jan, dec)

	report := &PenyataTahunan{
		Tahun:      year,
		Penerimaan: section(current, previous, common.TransactionTypePenerimaan),
		Pembayaran: section(current, previous, common.TransactionTypePembayaran),
		Months:     months,
		Warnings:   warningStrings(warnings),
	}
	report.LebihanSemasa = report.Penerimaan.Semasa.Sub(report.Pembayaran.Semasa)
	report.LebihanSebelum = report.Penerimaan.Sebelum.Sub(report.Pembayaran.Sebelum)
	report.OpeningBalance = months[0].Opening
	report.ClosingBalance = months[len(months)-1].Closing
	return report, nil
}

func section(current, previous *accounting.YearAggregate, txType string) StatementSection {
	byCategory := map[string]*StatementLine{}
	var order []string
	add := func(lines []accounting.Line, semasa bool) {
		for _, line := range lines {
			row, ok := byCategory[line.Category]
			if !ok {
				row = &StatementLine{Category: line.Category, Semasa: decimal.Zero, Sebelum: decimal.Zero}
				byCategory[line.Category] = row
				order = append(order, line.Category)
			}
			if semasa {
				row.Semasa = row.Semasa.Add(line.Amount)
			} else {
				row.Sebelum = row.Sebelum.Add(line.Amount)
			}
		}
	}
	add(current.ByCategory(txType), true)
	add(previous.ByCategory(txType), false)

	sortCategories(order)
	s := StatementSection{Lines: []StatementLine{}, Semasa: decimal.Zero, Sebelum: decimal.Zero}
	for _, category := range order {
		row := byCategory[category]
		s.Lines = append(s.Lines, *row)
		s.Semasa = s.Semasa.Add(row.Semasa)
		s.Sebelum = s.Sebelum.Add(row.Sebelum)
	}
	return s
}
