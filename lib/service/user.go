package service

import (
	"context"
	"strings"

	"github.com/surau-digital/surauhub/common"
	"github.com/surau-digital/surauhub/db/models"
	"github.com/surau-digital/surauhub/lib/security"
)

func validRole(role string) bool {
	for _, r := range common.AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (svc *SurauService) CreateUser(ctx context.Context, username, password, name, role string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}
	if len(password) < 8 {
		return nil, invalid("password must be at least 8 characters")
	}
	if !validRole(role) {
		return nil, invalid("unknown role %q", role)
	}
	exists, err := svc.DB.NewSelect().Model((*models.User)(nil)).Where("username = ?", username).Exists(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, invalid("username %q is taken", username)
	}

	hashedPassword, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username: username,
		Password: hashedPassword,
		Name:     name,
		Role:     role,
	}
	if _, err := svc.DB.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

func (svc *SurauService) FindUser(ctx context.Context, userId int64) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userId).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (svc *SurauService) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("username = ?", username).Limit(1).Scan(ctx)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return &user, nil
}

func (svc *SurauService) ListUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := svc.DB.NewSelect().Model(&users).OrderExpr("id ASC").Scan(ctx)
	return users, err
}

func (svc *SurauService) SetUserDeactivated(ctx context.Context, userId int64, deactivated bool) (*models.User, error) {
	user, err := svc.FindUser(ctx, userId)
	if err != nil {
		return nil, err
	}
	user.Deactivated = deactivated
	_, err = svc.DB.NewUpdate().Model(user).Column("deactivated", "updated_at").WherePK().Exec(ctx)
	return user, err
}
