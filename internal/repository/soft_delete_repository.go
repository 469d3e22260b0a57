package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no active row matches
var ErrNotFound = errors.New("record not found")

// Scope customizes the base query, typically with Preload calls
type Scope func(*gorm.DB) *gorm.DB

// SoftDeleteRepository centralizes active-only reads and timestamp deletes
// for any model embedding models.Timestamps.
type SoftDeleteRepository[T any] struct {
	db     *gorm.DB
	scopes []Scope
	now    func() time.Time
}

func NewSoftDeleteRepository[T any](db *gorm.DB, now func() time.Time, scopes ...Scope) *SoftDeleteRepository[T] {
	if now == nil {
		now = time.Now
	}
	return &SoftDeleteRepository[T]{db: db, scopes: scopes, now: now}
}

func (r *SoftDeleteRepository[T]) query(ctx context.Context) *gorm.DB {
	q := r.db.WithContext(ctx)
	for _, scope := range r.scopes {
		q = scope(q)
	}
	return q
}

// ListActive loads every active row ordered by id, then cuts the requested
// window. total is always the size of the full active set and an offset past
// the end returns an empty slice.
func (r *SoftDeleteRepository[T]) ListActive(ctx context.Context, offset, limit int) ([]T, int64, error) {
	var all []T
	if err := r.query(ctx).Order("id ASC").Find(&all).Error; err != nil {
		return nil, 0, err
	}

	return paginate(all, offset, limit), int64(len(all)), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) || limit <= 0 {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// GetActiveByID matches the id and requires deleted_at to be null
func (r *SoftDeleteRepository[T]) GetActiveByID(ctx context.Context, id uint) (*T, error) {
	var item T
	err := r.query(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByIDUnscoped returns the row whether or not it is soft-deleted
func (r *SoftDeleteRepository[T]) FindByIDUnscoped(ctx context.Context, id uint) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *SoftDeleteRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// Update writes only the supplied columns of an active row. Preloaded
// associations on item are not saved, so a foreign key in fields wins.
func (r *SoftDeleteRepository[T]) Update(ctx context.Context, item *T, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(item).Omit(clause.Associations).Updates(fields).Error
}

// SoftDelete stamps deleted_at with the current time. It is not idempotent:
// deleting an already deleted row succeeds and moves the timestamp forward.
func (r *SoftDeleteRepository[T]) SoftDelete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(new(T)).
		Where("id = ?", id).
		Update("deleted_at", r.now())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
