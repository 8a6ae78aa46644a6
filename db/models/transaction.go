package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/surau-digital/surauhub/common"
	"github.com/uptrace/bun"
)

// Transaction : one line of a bank statement. Only categorized transactions
// reach the financial reports.
type Transaction struct {
	ID                    int64               `json:"id" bun:",pk,autoincrement"`
	StatementID           int64               `json:"statement_id" bun:",notnull"`
	Statement             *BankStatement      `json:"-" bun:"rel:belongs-to,join:statement_id=id"`
	TransactionDate       time.Time           `json:"transaction_date" bun:",notnull"`
	CustomerEftNo         string              `json:"customer_eft_no" bun:",nullzero"`
	TransactionCode       string              `json:"transaction_code" bun:",nullzero"`
	Description           string              `json:"description" bun:",nullzero"`
	Reference             string              `json:"reference" bun:",nullzero"`
	Branch                string              `json:"branch" bun:",nullzero"`
	DebitAmount           decimal.NullDecimal `json:"debit_amount" bun:"type:numeric(15,2)"`
	CreditAmount          decimal.NullDecimal `json:"credit_amount" bun:"type:numeric(15,2)"`
	Balance               decimal.NullDecimal `json:"balance" bun:"type:numeric(15,2)"`
	Counterparty          string              `json:"counterparty" bun:",nullzero"`
	PaymentDetails        string              `json:"payment_details" bun:",nullzero"`
	TransactionType       string              `json:"transaction_type" bun:",notnull,default:'uncategorized'"`
	CategoryPenerimaan    string              `json:"category_penerimaan" bun:",nullzero"`
	SubCategoryPenerimaan string              `json:"sub_category_penerimaan" bun:",nullzero"`
	CategoryPembayaran    string              `json:"category_pembayaran" bun:",nullzero"`
	SubCategoryPembayaran string              `json:"sub_category_pembayaran" bun:",nullzero"`
	BulanPerkiraan        string              `json:"bulan_perkiraan" bun:",nullzero"`
	Notes                 string              `json:"notes" bun:",nullzero"`
	CreatedAt             time.Time           `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt             bun.NullTime        `json:"updated_at"`
}

// Category returns the category and subcategory matching the transaction type.
func (t *Transaction) Category() (string, string) {
	if t.TransactionType == common.TransactionTypePembayaran {
		return t.CategoryPembayaran, t.SubCategoryPembayaran
	}
	return t.CategoryPenerimaan, t.SubCategoryPenerimaan
}

func (t *Transaction) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		t.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*Transaction)(nil)
