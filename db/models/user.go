package models

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// User : staff account allowed to sign in to the admin API
type User struct {
	ID          int64        `json:"id" bun:",pk,autoincrement"`
	Username    string       `json:"username" bun:",unique,notnull"`
	Password    string       `json:"-" bun:",notnull"`
	Name        string       `json:"name" bun:",nullzero"`
	Role        string       `json:"role" bun:",notnull"`
	Deactivated bool         `json:"deactivated" bun:",notnull,default:false"`
	CreatedAt   time.Time    `json:"created_at" bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt   bun.NullTime `json:"updated_at"`
}

func (u *User) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.UpdateQuery:
		u.UpdatedAt = bun.NullTime{Time: time.Now()}
	}
	return nil
}

var _ bun.BeforeAppendModelHook = (*User)(nil)
