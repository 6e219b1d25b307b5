package services

import (
	"context"
	"errors"

	"github.com/sportscamp/sportscamp-api/model"
	"gorm.io/gorm"
)

// RoleService resolves the stored role for an identity. It never
// caches: role changes must be visible on the very next gated call.
type RoleService struct {
	db *gorm.DB
}

// NewRoleService creates a new role service
func NewRoleService(db *gorm.DB) *RoleService {
	return &RoleService{db: db}
}

// RoleOf returns the current stored role for an email. An unknown
// identity resolves to the empty role rather than an error; denial is
// the access gate's job, not this lookup's.
func (s *RoleService) RoleOf(ctx context.Context, email string) (string, error) {
	var user model.User
	err := s.db.WithContext(ctx).
		Select("role").
		Where("email = ?", email).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
