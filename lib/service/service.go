package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/archive"
	"github.com/surau-digital/surauhub/lib/security"
	"github.com/surau-digital/surauhub/lib/tokens"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
)

type SurauService struct {
	Config      *Config
	DB          *bun.DB
	Logger      *lecho.Logger
	EventPubSub *Pubsub
	Archive     archive.Store

	notaLocks keyedMutex
}

// GenerateToken checks the credentials and returns a signed session token.
func (svc *SurauService) GenerateToken(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("username and password are required: %w", ErrBadCredentials)
	}
	user, err := svc.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrBadCredentials
		}
		return "", nil, err
	}
	if !security.CheckPassword(user.Password, password) {
		return "", nil, ErrBadCredentials
	}
	if user.Deactivated {
		return "", nil, ErrAccountDeactivated
	}

	token, err := tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return err
}
