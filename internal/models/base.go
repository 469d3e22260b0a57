package models

import (
	"time"

	"gorm.io/gorm"
)

// SoftDeletable is implemented by every entity that is never physically removed
type SoftDeletable interface {
	IsDeleted() bool
	MarkDeleted(now time.Time)
}

// Timestamps carries the bookkeeping columns shared by users, posts and tags.
// A null DeletedAt means the row is active.
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (t *Timestamps) IsDeleted() bool {
	return t.DeletedAt.Valid
}

func (t *Timestamps) MarkDeleted(now time.Time) {
	t.DeletedAt = gorm.DeletedAt{Time: now, Valid: true}
}
