package testutil

import (
	"testing"

	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/security"
	"gorm.io/gorm"
)

// fastParams keeps fixture hashing cheap, VerifyPassword reads params from the hash
var fastParams = security.Argon2Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// Role loads a seeded role by name
func Role(t *testing.T, db *gorm.DB, name string) models.Role {
	t.Helper()

	var role models.Role
	if err := db.Where("name = ?", name).First(&role).Error; err != nil {
		t.Fatalf("Role %s not seeded: %v", name, err)
	}
	return role
}

// CreateTestUser inserts an active user with a hashed password
func CreateTestUser(t *testing.T, db *gorm.DB, email, password, roleName string) *models.User {
	t.Helper()

	hash, err := fastParams.Hash(password)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	role := Role(t, db, roleName)
	user := &models.User{
		Name:         "Test",
		Surname:      "User",
		Email:        email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	user.Role = role
	return user
}

// DefaultTestUser creates a cant_edit user
func DefaultTestUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "test@example.com", "Test123456", models.RoleCantEdit)
}

// DefaultAdminUser creates an admin user
func DefaultAdminUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "admin@example.com", "Admin123456", models.RoleAdmin)
}

// CreateTestPost inserts an active post owned by ownerID
func CreateTestPost(t *testing.T, db *gorm.DB, ownerID uint, title string) *models.Post {
	t.Helper()

	post := &models.Post{Title: title, Content: "Content of " + title, OwnerID: ownerID}
	if err := db.Create(post).Error; err != nil {
		t.Fatalf("Failed to create post %s: %v", title, err)
	}
	return post
}

// CreateTestTag inserts an active tag linked to the given posts
func CreateTestTag(t *testing.T, db *gorm.DB, name string, posts ...*models.Post) *models.Tag {
	t.Helper()

	tag := &models.Tag{Name: name}
	if err := db.Create(tag).Error; err != nil {
		t.Fatalf("Failed to create tag %s: %v", name, err)
	}
	if len(posts) > 0 {
		if err := db.Model(tag).Association("Posts").Append(posts); err != nil {
			t.Fatalf("Failed to link tag %s: %v", name, err)
		}
	}
	return tag
}

// SoftDeleteRow marks a row deleted through gorm's soft delete
func SoftDeleteRow(t *testing.T, db *gorm.DB, model any) {
	t.Helper()

	if err := db.Delete(model).Error; err != nil {
		t.Fatalf("Failed to soft delete %T: %v", model, err)
	}
}
