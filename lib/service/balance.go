package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/accounting"
	"github.com/uptrace/bun"
)

// ledger holds everything the carry-forward needs: attributed monthly totals
// from the first month with data and the explicit statement opening balances.
type ledger struct {
	earliest  accounting.Period
	entries   []accounting.Entry
	totals    map[accounting.Period]accounting.Totals
	overrides map[accounting.Period]decimal.Decimal
	closings  map[accounting.Period]decimal.NullDecimal
}

func (svc *SurauService) firstPeriod(ctx context.Context, db bun.IDB) (accounting.Period, bool, error) {
	first := []models.Transaction{}
	err := db.NewSelect().Model(&first).
		Column("transaction_date").
		OrderExpr("transaction_date ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return accounting.Period{}, false, err
	}
	statements := []models.BankStatement{}
	err = db.NewSelect().Model(&statements).
		Column("month", "year").
		OrderExpr("year ASC, month ASC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		return accounting.Period{}, false, err
	}

	var (
		earliest accounting.Period
		found    bool
	)
	if len(first) > 0 {
		earliest, found = accounting.PeriodOf(first[0].TransactionDate.UTC()), true
	}
	if len(statements) > 0 {
		p := accounting.Period{Year: statements[0].Year, Month: time.Month(statements[0].Month)}
		if !found || p.Before(earliest) {
			earliest, found = p, true
		}
	}
	return earliest, found, nil
}

// loadLedger covers every month from the first month with data (or from,
// when that is earlier) up to through.
func (svc *SurauService) loadLedger(ctx context.Context, db bun.IDB, from, through accounting.Period) (*ledger, error) {
	earliest, found, err := svc.firstPeriod(ctx, db)
	if err != nil {
		return nil, err
	}
	if found {
		// a first-month bulan_sebelum entry counts in the month before
		earliest = earliest.Prev()
	}
	if !found || from.Before(earliest) {
		earliest = from
	}
	if through.Before(earliest) {
		earliest = through
	}

	entries, err := svc.loadEntries(ctx, db, earliest, through)
	if err != nil {
		return nil, err
	}
	l := &ledger{
		earliest:  earliest,
		entries:   entries,
		totals:    map[accounting.Period]accounting.Totals{},
		overrides: map[accounting.Period]decimal.Decimal{},
		closings:  map[accounting.Period]decimal.NullDecimal{},
	}
	for p, b := range accounting.Distribute(entries, earliest, through) {
		l.totals[p] = b.Totals
	}

	statements := []models.BankStatement{}
	err = db.NewSelect().Model(&statements).
		Column("month", "year", "opening_balance", "closing_balance_bank").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	for _, s := range statements {
		p := accounting.Period{Year: s.Year, Month: time.Month(s.Month)}
		if s.OpeningBalance.Valid {
			l.overrides[p] = s.OpeningBalance.Decimal
		}
		l.closings[p] = s.ClosingBalanceBank
	}
	return l, nil
}

// opening resolves the opening balance of target and flags an explicit
// statement value that disagrees with the balance carried from an earlier anchor.
func (l *ledger) opening(target accounting.Period) (decimal.Decimal, decimal.Decimal, []accounting.Warning) {
	opening, computed, hasAnchor := accounting.Opening(target, l.earliest, l.totals, l.overrides)
	var warnings []accounting.Warning
	if v, ok := accounting.Explicit(l.overrides, target); ok && hasAnchor && !v.Equal(computed) {
		warnings = append(warnings, accounting.Warning{Period: target, Explicit: v, Computed: computed})
	}
	return opening, computed, warnings
}

// anchor is the latest month before target with an explicit opening balance,
// or the start of the ledger when there is none.
func (l *ledger) anchor(target accounting.Period) accounting.Period {
	start := l.earliest
	for p, v := range l.overrides {
		if v.IsZero() || !p.Before(target) {
			continue
		}
		if start.Before(p) {
			start = p
		}
	}
	return start
}

// chain runs the carry-forward over from..to.
func (l *ledger) chain(from, to accounting.Period) ([]accounting.MonthBalance, []accounting.Warning) {
	_, computed, warnings := l.opening(from)
	balances, more := accounting.Chain(computed, accounting.Periods(from, to), l.totals, l.overrides)
	return balances, append(warnings, more...)
}

type OpeningBalance struct {
	Tahun    int             `json:"tahun"`
	Bulan    int             `json:"bulan"`
	Opening  decimal.Decimal `json:"opening_balance"`
	Computed decimal.Decimal `json:"computed_balance"`
	Explicit bool            `json:"explicit"`
	Warnings []string        `json:"warnings"`
}

// OpeningBalance returns the opening balance of one month.
func (svc *SurauService) OpeningBalance(ctx context.Context, year, month int) (*OpeningBalance, error) {
	p, err := accounting.NewPeriod(year, month)
	if err != nil {
		return nil, invalid("%v", err)
	}
	l, err := svc.loadLedger(ctx, svc.DB, p, p)
	if err != nil {
		return nil, err
	}
	opening, computed, warnings := l.opening(p)
	_, explicit := accounting.Explicit(l.overrides, p)
	return &OpeningBalance{
		Tahun:    year,
		Bulan:    month,
		Opening:  opening,
		Computed: computed,
		Explicit: explicit,
		Warnings: warningStrings(warnings),
	}, nil
}

// MonthlyBalances runs the carry-forward over the twelve months of year.
func (svc *SurauService) MonthlyBalances(ctx context.Context, year int) ([]accounting.MonthBalance, []string, error) {
	jan, err := accounting.NewPeriod(year, 1)
	if err != nil {
		return nil, nil, invalid("%v", err)
	}
	dec := accounting.Period{Year: year, Month: time.December}
	l, err := svc.loadLedger(ctx, svc.DB, jan, dec)
	if err != nil {
		return nil, nil, err
	}
	balances, warnings := l.chain(jan, dec)
	return balances, warningStrings(warnings), nil
}

func warningStrings(warnings []accounting.Warning) []string {
	out := make([]string, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, w.String())
	}
	return out
}
