package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// BankStatement : one uploaded bank statement, at most one per month
type BankStatement struct {
	ID                 int64               `json:"id" bun:",pk,autoincrement"`
	Month              int                 `json:"month" bun:",notnull"`
	Year               int                 `json:"year" bun:",notnull"`
	OpeningBalance     decimal.NullDecimal `json:"opening_balance" bun:"type:numeric(15,2)"`
	ClosingBalanceBank decimal.NullDecimal `json:"closing_balance_bank" bun:"type:numeric(15,2)"`
	FileName           string              `json:"file_name" bun:",nullzero"`
	FilePath           string              `json:"file_path" bun:",nullzero"`
	TotalTransactions  int                 `json:"total_transactions" bun:",notnull,default:0"`
	UploadedBy         int64               `json:"uploaded_by" bun:",nullzero"`
	Transactions       []Transaction       `json:"transactions,omitempty" bun:"rel:has-many,join:id=statement_id"`
	CreatedAt          time.Time           `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt          bun.NullTime        `json:"updated_at"`
}

func (s *BankStatement) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		s.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*BankStatement)(nil)
