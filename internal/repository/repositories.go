package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repositories bundles every repository bound to the same *gorm.DB, which
// is either the pool or an open transaction.
type Repositories struct {
	db  *gorm.DB
	now func() time.Time

	Users        *UserRepository
	Roles        *RoleRepository
	Posts        *PostRepository
	Tags         *TagRepository
	Associations *AssociationManager
}

func New(db *gorm.DB) *Repositories {
	return NewWithClock(db, time.Now)
}

// NewWithClock lets tests control the deleted_at timestamps
func NewWithClock(db *gorm.DB, now func() time.Time) *Repositories {
	return &Repositories{
		db:           db,
		now:          now,
		Users:        NewUserRepository(db, now),
		Roles:        NewRoleRepository(db),
		Posts:        NewPostRepository(db, now),
		Tags:         NewTagRepository(db, now),
		Associations: NewAssociationManager(db),
	}
}

// Transaction runs fn against repositories bound to a single transaction.
// fn returning an error rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewWithClock(tx, r.now))
	})
}

// DB exposes the underlying handle for health checks
func (r *Repositories) DB() *gorm.DB {
	return r.db
}
