package service

import (
	"context"
	"strings"

	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/accounting"
	"github.com/uptrace/bun"
)

type TransactionFilter struct {
	StatementID int64
	Year        int
	Month       int
	Type        string
	Search      string
	Limit       int
	Offset      int
}

func (svc *SurauService) ListTransactions(ctx context.Context, filter TransactionFilter) ([]models.Transaction, int, error) {
	transactions := []models.Transaction{}
	q := svc.DB.NewSelect().Model(&transactions)
	if filter.StatementID != 0 {
		q = q.Where("statement_id = ?", filter.StatementID)
	}
	if filter.Year != 0 {
		from, to := accounting.Period{Year: filter.Year, Month: 1}, accounting.Period{Year: filter.Year, Month: 12}
		if filter.Month != 0 {
			p, err := accounting.NewPeriod(filter.Year, filter.Month)
			if err != nil {
				return nil, 0, invalid("%v", err)
			}
			from, to = p, p
		}
		q = q.Where("transaction_date >= ?", from.Start()).Where("transaction_date < ?", to.End())
	}
	if filter.Type != "" {
		q = q.Where("transaction_type = ?", filter.Type)
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(description) LIKE ?", like).
				WhereOr("LOWER(counterparty) LIKE ?", like).
				WhereOr("LOWER(payment_details) LIKE ?", like)
		})
	}
	limit := filter.Limit
	if limit <= 0 || limit > 1000 {
		limit = 200
	}
	count, err := q.OrderExpr("transaction_date ASC, id ASC").
		Limit(limit).
		Offset(filter.Offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, err
	}
	return transactions, count, nil
}

func (svc *SurauService) FindTransaction(ctx context.Context, id int64) (*models.Transaction, error) {
	var transaction models.Transaction
	err := svc.DB.NewSelect().Model(&transaction).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "transaction")
	}
	return &transaction, nil
}

type TransactionCategorization struct {
	TransactionType string
	Category        string
	SubCategory     string
	BulanPerkiraan  string
	Notes           string
}

func validBulanPerkiraan(flag string) bool {
	switch flag {
	case "", common.BulanSemasa, common.BulanDepan, common.BulanSebelum:
		return true
	}
	return false
}

// CategorizeTransaction sets the type, category and accounting month of a
// transaction. The category columns of the other type are cleared.
func (svc *SurauService) CategorizeTransaction(ctx context.Context, id int64, change TransactionCategorization, userId int64) (*models.Transaction, error) {
	switch change.TransactionType {
	case common.TransactionTypeUncategorized, common.TransactionTypePenerimaan, common.TransactionTypePembayaran:
	default:
		return nil, invalid("unknown transaction type %q", change.TransactionType)
	}
	if !validBulanPerkiraan(change.BulanPerkiraan) {
		return nil, invalid("unknown bulan_perkiraan %q", change.BulanPerkiraan)
	}
	transaction, err := svc.FindTransaction(ctx, id)
	if err != nil {
		return nil, err
	}
	before, _ := accounting.EffectivePeriod(transaction.TransactionDate.UTC(), transaction.BulanPerkiraan)

	category := strings.TrimSpace(change.Category)
	subCategory := strings.TrimSpace(change.SubCategory)
	transaction.TransactionType = change.TransactionType
	transaction.CategoryPenerimaan, transaction.SubCategoryPenerimaan = "", ""
	transaction.CategoryPembayaran, transaction.SubCategoryPembayaran = "", ""
	switch change.TransactionType {
	case common.TransactionTypePenerimaan:
		transaction.CategoryPenerimaan, transaction.SubCategoryPenerimaan = category, subCategory
	case common.TransactionTypePembayaran:
		transaction.CategoryPembayaran, transaction.SubCategoryPembayaran = category, subCategory
	}
	transaction.BulanPerkiraan = change.BulanPerkiraan
	transaction.Notes = change.Notes

	_, err = svc.DB.NewUpdate().Model(transaction).
		Column("transaction_type",
			"category_penerimaan", "sub_category_penerimaan",
			"category_pembayaran", "sub_category_pembayaran",
			"bulan_perkiraan", "notes", "updated_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, err
	}

	after, _ := accounting.EffectivePeriod(transaction.TransactionDate.UTC(), transaction.BulanPerkiraan)
	years := []int{after.Year}
	if before.Year != 0 && before.Year != after.Year {
		years = append(years, before.Year)
	}
	svc.publish(models.Event{
		Type:     common.EventTransactionCategorized,
		EntityID: transaction.ID,
		Tahun:    after.Year,
		Bulan:    int(after.Month),
		UserID:   userId,
		Data:     map[string]interface{}{"years": years},
	})
	return transaction, nil
}
