package repository

import (
	"context"
	"fmt"

	"github.com/Baaaki/content-square/internal/models"
	"gorm.io/gorm"
)

// MissingReferenceError names the first requested id that is not an active row
type MissingReferenceError struct {
	Entity string
	ID     uint
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s with ID %d does not exist or was deleted", e.Entity, e.ID)
}

// AssociationManager maintains post_tag. Every id is resolved before any
// write, and a non-empty set replaces the existing one entirely.
type AssociationManager struct {
	db *gorm.DB
}

func NewAssociationManager(db *gorm.DB) *AssociationManager {
	return &AssociationManager{db: db}
}

// ResolvePosts returns the active posts for ids in request order
func (m *AssociationManager) ResolvePosts(ctx context.Context, ids []uint) ([]models.Post, error) {
	return resolveActive[models.Post](ctx, m.db, "post", ids, func(p models.Post) uint { return p.ID })
}

// ResolveTags returns the active tags for ids in request order
func (m *AssociationManager) ResolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	return resolveActive[models.Tag](ctx, m.db, "tag", ids, func(t models.Tag) uint { return t.ID })
}

// SetTagPosts replaces the posts of tag. An empty ids clears them.
func (m *AssociationManager) SetTagPosts(ctx context.Context, tag *models.Tag, ids []uint) error {
	posts, err := m.ResolvePosts(ctx, ids)
	if err != nil {
		return err
	}
	return m.ReplacePosts(ctx, tag, posts)
}

// ReplacePosts links tag to already resolved posts
func (m *AssociationManager) ReplacePosts(ctx context.Context, tag *models.Tag, posts []models.Post) error {
	assoc := m.db.WithContext(ctx).Model(tag).Association("Posts")
	if assoc.Error != nil {
		return assoc.Error
	}
	if len(posts) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(posts)
}

// SetPostTags replaces the tags of post. An empty ids clears them.
func (m *AssociationManager) SetPostTags(ctx context.Context, post *models.Post, ids []uint) error {
	tags, err := m.ResolveTags(ctx, ids)
	if err != nil {
		return err
	}
	return m.ReplaceTags(ctx, post, tags)
}

// ReplaceTags links post to already resolved tags
func (m *AssociationManager) ReplaceTags(ctx context.Context, post *models.Post, tags []models.Tag) error {
	assoc := m.db.WithContext(ctx).Model(post).Association("Tags")
	if assoc.Error != nil {
		return assoc.Error
	}
	if len(tags) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(tags)
}

func resolveActive[T any](ctx context.Context, db *gorm.DB, entity string, ids []uint, idOf func(T) uint) ([]T, error) {
	ids = dedupe(ids)
	if len(ids) == 0 {
		return []T{}, nil
	}

	var rows []T
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]T, len(rows))
	for _, row := range rows {
		byID[idOf(row)] = row
	}

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			return nil, &MissingReferenceError{Entity: entity, ID: id}
		}
		out = append(out, row)
	}
	return out, nil
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
