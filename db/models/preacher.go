package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Preacher : penceramah invited to give talks
type Preacher struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	Nama      string    `json:"nama" bun:",notnull"`
	NoTelefon string    `json:"no_telefon" bun:",nullzero"`
	Bidang    string    `json:"bidang" bun:",nullzero"`
	Active    bool      `json:"active" bun:",notnull,default:true"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}

// PreacherSchedule : one talk slot on one day
type PreacherSchedule struct {
	ID         int64        `json:"id" bun:",pk,autoincrement"`
	Tarikh     time.Time    `json:"tarikh" bun:",notnull"`
	Slot       string       `json:"slot" bun:",notnull"`
	PreacherID int64        `json:"preacher_id" bun:",notnull"`
	Preacher   *Preacher    `json:"preacher,omitempty" bun:"rel:belongs-to,join:preacher_id=id"`
	Topik      string       `json:"topik" bun:",nullzero"`
	Catatan    string       `json:"catatan" bun:",nullzero"`
	CreatedAt  time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt  bun.NullTime `json:"updated_at"`
}

func (s *PreacherSchedule) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		s.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*PreacherSchedule)(nil)
