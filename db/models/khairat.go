package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// KhairatMember : member of the death-benefit scheme
type KhairatMember struct {
	ID           int64              `json:"id" bun:",pk,autoincrement"`
	NoAhli       string             `json:"no_ahli" bun:",nullzero"`
	Nama         string             `json:"nama" bun:",notnull"`
	NoKp         string             `json:"no_kp" bun:",unique,notnull"`
	NoTelefon    string             `json:"no_telefon" bun:",nullzero"`
	Alamat       string             `json:"alamat" bun:",nullzero"`
	Status       string             `json:"status" bun:",notnull,default:'pending'"`
	TarikhDaftar time.Time          `json:"tarikh_daftar" bun:",nullzero,notnull,default:current_timestamp"`
	RejectReason string             `json:"reject_reason,omitempty" bun:",nullzero"`
	ApprovedBy   int64              `json:"approved_by,omitempty" bun:",nullzero"`
	ApprovedAt   bun.NullTime       `json:"approved_at"`
	Dependents   []KhairatDependent `json:"dependents,omitempty" bun:"rel:has-many,join:id=member_id"`
	CreatedAt    time.Time          `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt    bun.NullTime       `json:"updated_at"`
}

func (m *KhairatMember) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		m.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*KhairatMember)(nil)

// KhairatDependent : family member covered by a khairat membership
type KhairatDependent struct {
	ID        int64     `json:"id" bun:",pk,autoincrement"`
	MemberID  int64     `json:"member_id" bun:",notnull"`
	Nama      string    `json:"nama" bun:",notnull"`
	NoKp      string    `json:"no_kp" bun:",nullzero"`
	Hubungan  string    `json:"hubungan" bun:",notnull"`
	CreatedAt time.Time `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
}
