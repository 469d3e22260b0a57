package repository

import (
	"time"

	"github.com/Baaaki/content-square/internal/models"
	"gorm.io/gorm"
)

// TagRepository preloads active posts only. Join rows pointing at deleted
// posts stay in post_tag but are not returned.
type TagRepository struct {
	*SoftDeleteRepository[models.Tag]
}

func NewTagRepository(db *gorm.DB, now func() time.Time) *TagRepository {
	return &TagRepository{
		SoftDeleteRepository: NewSoftDeleteRepository[models.Tag](db, now,
			preload("Posts"),
			preloadUnscoped("Posts.Owner"),
		),
	}
}
