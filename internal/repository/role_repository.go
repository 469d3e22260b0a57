package repository

import (
	"context"
	"errors"

	"github.com/Baaaki/content-square/internal/models"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *RoleRepository) GetByID(ctx context.Context, id uint) (*models.Role, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *RoleRepository) first(ctx context.Context, query string, arg any) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where(query, arg).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}
