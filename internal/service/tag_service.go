package service

import (
	"context"
	"errors"

	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/repository"
	"github.com/Baaaki/content-square/pkg/logger"
	"go.uber.org/zap"
)

type CreateTagInput struct {
	Name    string
	PostIDs []uint
}

// UpdateTagInput leaves nil fields untouched. A non-nil empty PostIDs clears posts.
type UpdateTagInput struct {
	ID      uint
	Name    *string
	PostIDs *[]uint
}

// TagService manages tags and their posts. It does not consult the
// authorization gate.
type TagService struct {
	repos *repository.Repositories
}

func NewTagService(repos *repository.Repositories) *TagService {
	return &TagService{repos: repos}
}

func validateTagName(name string) error {
	return firstError(
		validateRequired("name", name),
		validateMaxLen("name", name, maxTagNameLen),
	)
}

func (s *TagService) Create(ctx context.Context, in CreateTagInput) (*models.Tag, error) {
	if err := validateTagName(in.Name); err != nil {
		return nil, err
	}

	var created *models.Tag
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		// Every post must be active before the tag is inserted
		posts, err := tx.Associations.ResolvePosts(ctx, in.PostIDs)
		if err != nil {
			return err
		}

		tag := &models.Tag{Name: in.Name}
		if err := tx.Tags.Create(ctx, tag); err != nil {
			return err
		}
		if len(posts) > 0 {
			if err := tx.Associations.ReplacePosts(ctx, tag, posts); err != nil {
				return err
			}
		}

		created = tag
		return nil
	})
	if err != nil {
		return nil, logFailure("creating tag", err, zap.String("name", in.Name))
	}

	logger.Log.Info("Tag created",
		zap.Uint("tag_id", created.ID),
		zap.Int("post_count", len(created.Posts)),
	)
	return created, nil
}

func (s *TagService) List(ctx context.Context, skip, limit int) (*Page[models.Tag], error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}

	tags, total, err := s.repos.Tags.ListActive(ctx, skip, limit)
	if err != nil {
		logger.Log.Error("Failed to list tags", zap.Error(err))
		return nil, internalError("listing tags", err)
	}

	return &Page[models.Tag]{Items: tags, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.repos.Tags.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, MsgTagNotFound)
		}
		logger.Log.Error("Failed to get tag", zap.Uint("tag_id", id), zap.Error(err))
		return nil, internalError("getting tag", err)
	}
	return tag, nil
}

func (s *TagService) Update(ctx context.Context, in UpdateTagInput) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		tag, err := tx.Tags.GetActiveByID(ctx, in.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, MsgTagNotFound)
		}
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if in.Name != nil {
			if err := validateTagName(*in.Name); err != nil {
				return err
			}
			fields["name"] = *in.Name
		}

		// Resolve before writing so a missing post leaves the tag untouched
		if in.PostIDs != nil {
			if err := tx.Associations.SetTagPosts(ctx, tag, *in.PostIDs); err != nil {
				return err
			}
		}

		return tx.Tags.Update(ctx, tag, fields)
	})
	if err != nil {
		return logFailure("updating tag", err, zap.Uint("tag_id", in.ID))
	}

	logger.Log.Info("Tag updated", zap.Uint("tag_id", in.ID))
	return nil
}

// Delete soft-deletes the tag. post_tag rows are kept.
func (s *TagService) Delete(ctx context.Context, id uint) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Tags.SoftDelete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(KindNotFound, MsgTagNotFound)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return logFailure("deleting tag", err, zap.Uint("tag_id", id))
	}

	logger.Log.Info("Tag soft-deleted", zap.Uint("tag_id", id))
	return nil
}
