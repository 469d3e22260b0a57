package repository

import (
	"time"

	"github.com/Baaaki/content-square/internal/models"
	"gorm.io/gorm"
)

// PostRepository loads owners even after they are soft-deleted; ownership
// is validated only when a post is created.
type PostRepository struct {
	*SoftDeleteRepository[models.Post]
}

func NewPostRepository(db *gorm.DB, now func() time.Time) *PostRepository {
	return &PostRepository{
		SoftDeleteRepository: NewSoftDeleteRepository[models.Post](db, now,
			preloadUnscoped("Owner"),
			preload("Tags"),
		),
	}
}
