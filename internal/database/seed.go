package database

import (
	"errors"
	"fmt"

	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/security"
	"github.com/Baaaki/content-square/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrAdminExists = errors.New("a user with this email already exists")

// SeedRoles inserts the default roles that are missing. Safe to run on every start.
func SeedRoles(db *gorm.DB) error {
	for _, name := range models.DefaultRoles {
		role := models.Role{Name: name}
		result := db.Where(models.Role{Name: name}).FirstOrCreate(&role)
		if result.Error != nil {
			return fmt.Errorf("seed role %s: %w", name, result.Error)
		}
		if result.RowsAffected > 0 {
			logger.Log.Info("Role created", zap.String("role", name))
		}
	}
	return nil
}

// AdminSeed describes the bootstrap administrator
type AdminSeed struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

// SeedAdmin creates an admin user unless the email is already taken by any row
func SeedAdmin(db *gorm.DB, seed AdminSeed) (*models.User, error) {
	var existing models.User
	err := db.Unscoped().Where("email = ?", seed.Email).First(&existing).Error
	if err == nil {
		return &existing, ErrAdminExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	var role models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&role).Error; err != nil {
		return nil, fmt.Errorf("admin role missing, run role seeding first: %w", err)
	}

	hash, err := security.HashPassword(seed.Password)
	if err != nil {
		return nil, err
	}

	admin := &models.User{
		Name:         seed.Name,
		Surname:      seed.Surname,
		Email:        seed.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := db.Create(admin).Error; err != nil {
		return nil, err
	}
	admin.Role = role

	logger.Log.Info("Admin user created",
		zap.Uint("user_id", admin.ID),
		zap.String("email", admin.Email),
	)
	return admin, nil
}
