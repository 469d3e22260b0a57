package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Baaaki/content-square/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	*SoftDeleteRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB, now func() time.Time) *UserRepository {
	return &UserRepository{
		SoftDeleteRepository: NewSoftDeleteRepository[models.User](db, now, preload("Role")),
		db:                   db,
	}
}

// GetActiveByEmail ignores soft-deleted users
func (r *UserRepository) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Preload("Role").Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// EmailExists checks every row, soft-deleted ones included
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// EmailTakenByOther reports whether another active user already uses email
func (r *UserRepository) EmailTakenByOther(ctx context.Context, email string, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, userID).
		Count(&count).Error
	return count > 0, err
}
