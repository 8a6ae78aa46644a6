package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/lib/accounting"
	"github.com/uptrace/bun"
)

// entryRow is one group of the aggregation query: a day, an accounting month
// flag and a category.
type entryRow struct {
	TransactionDate time.Time       `bun:"transaction_date"`
	BulanPerkiraan  string          `bun:"bulan_perkiraan"`
	TransactionType string          `bun:"transaction_type"`
	Category        string          `bun:"category"`
	SubCategory     string          `bun:"sub_category"`
	Credit          decimal.Decimal `bun:"credit"`
	Debit           decimal.Decimal `bun:"debit"`
}

// loadEntries runs one grouped query covering from..to plus the neighbour
// months whose transactions can be attributed into the range.
func (svc *SurauService) loadEntries(ctx context.Context, db bun.IDB, from, to accounting.Period) ([]accounting.Entry, error) {
	rows := []entryRow{}
	err := db.NewSelect().
		TableExpr("transactions AS t").
		ColumnExpr("t.transaction_date").
		ColumnExpr("COALESCE(t.bulan_perkiraan, '') AS bulan_perkiraan").
		ColumnExpr("t.transaction_type").
		ColumnExpr("COALESCE(NULLIF(CASE WHEN t.transaction_type = ? THEN t.category_pembayaran ELSE t.category_penerimaan END, ''), ?) AS category",
			common.TransactionTypePembayaran, common.FallbackCategory).
		ColumnExpr("COALESCE(NULLIF(CASE WHEN t.transaction_type = ? THEN t.sub_category_pembayaran ELSE t.sub_category_penerimaan END, ''), ?) AS sub_category",
			common.TransactionTypePembayaran, common.FallbackCategory).
		ColumnExpr("COALESCE(SUM(t.credit_amount), 0) AS credit").
		ColumnExpr("COALESCE(SUM(t.debit_amount), 0) AS debit").
		Where("t.transaction_type <> ?", common.TransactionTypeUncategorized).
		Where("t.transaction_date >= ?", from.Prev().Start()).
		Where("t.transaction_date < ?", to.Next().End()).
		GroupExpr("t.transaction_date, t.bulan_perkiraan, t.transaction_type, category, sub_category").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	entries := make([]accounting.Entry, 0, len(rows))
	for _, r := range rows {
		// sqlite sums numeric columns as floats
		entries = append(entries, accounting.Entry{
			Date:           r.TransactionDate.UTC(),
			Type:           r.TransactionType,
			BulanPerkiraan: r.BulanPerkiraan,
			Category:       r.Category,
			SubCategory:    r.SubCategory,
			Credit:         r.Credit.Round(2),
			Debit:          r.Debit.Round(2),
		})
	}
	return entries, nil
}

// AggregateYear returns the attributed totals of every month of year.
func (svc *SurauService) AggregateYear(ctx context.Context, year int) (*accounting.YearAggregate, error) {
	if _, err := accounting.NewPeriod(year, 1); err != nil {
		return nil, invalid("%v", err)
	}
	entries, err := svc.loadEntries(ctx, svc.DB, accounting.Period{Year: year, Month: time.January}, accounting.Period{Year: year, Month: time.December})
	if err != nil {
		return nil, err
	}
	return accounting.AggregateYear(entries, year), nil
}

// AggregateMonth returns the attributed totals of one month.
func (svc *SurauService) AggregateMonth(ctx context.Context, year, month int) (*accounting.Bucket, error) {
	p, err := accounting.NewPeriod(year, month)
	if err != nil {
		return nil, invalid("%v", err)
	}
	entries, err := svc.loadEntries(ctx, svc.DB, p, p)
	if err != nil {
		return nil, err
	}
	return accounting.AggregateMonth(entries, p), nil
}
