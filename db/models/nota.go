package models

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// NotaState tells whether a notes row is owned by the generator or by a person.
type NotaState string

const (
	NotaStateAutoGenerated NotaState = "auto_generated"
	NotaStateManual        NotaState = "manual"
)

// NotaRow : one line of a note attached to the annual financial statement
type NotaRow struct {
	ID            int64           `json:"id" bun:",pk,autoincrement"`
	Nota          string          `json:"nota" bun:",notnull"`
	Tahun         int             `json:"tahun" bun:",notnull"`
	Kategori      string          `json:"kategori" bun:",notnull"`
	Perkara       string          `json:"perkara" bun:",notnull"`
	JumlahSemasa  decimal.Decimal `json:"jumlah_semasa" bun:"type:numeric(15,2),notnull,default:0"`
	JumlahSebelum decimal.Decimal `json:"jumlah_sebelum" bun:"type:numeric(15,2),notnull,default:0"`
	Catatan       string          `json:"catatan" bun:",nullzero"`
	Turutan       int             `json:"turutan" bun:",notnull,default:0"`
	State         NotaState       `json:"state" bun:",notnull"`
	CreatedAt     time.Time       `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt     bun.NullTime    `json:"updated_at"`
}

func (n *NotaRow) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		n.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*NotaRow)(nil)
