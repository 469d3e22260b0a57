package service

import (
	"context"
	"errors"

	"github.com/Baaaki/content-square/internal/authz"
	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/repository"
	"github.com/Baaaki/content-square/pkg/logger"
	"go.uber.org/zap"
)

// CreatePostInput defaults OwnerID to the acting user when nil
type CreatePostInput struct {
	Title   string
	Content string
	OwnerID *uint
	TagIDs  []uint
}

// UpdatePostInput leaves nil fields untouched. A non-nil empty TagIDs clears tags.
type UpdatePostInput struct {
	ID      uint
	Title   *string
	Content *string
	TagIDs  *[]uint
}

type PostService struct {
	repos *repository.Repositories
	gate  *authz.Gate
}

func NewPostService(repos *repository.Repositories, gate *authz.Gate) *PostService {
	if gate == nil {
		gate = authz.Default()
	}
	return &PostService{repos: repos, gate: gate}
}

// ActorFrom builds the authorization identity of an authenticated user
func ActorFrom(user *models.User) authz.Actor {
	return authz.Actor{ID: user.ID, Role: user.Role.Name}
}

func validatePostFields(title, content string) error {
	return firstError(
		validateRequired("title", title),
		validateMaxLen("title", title, maxTitleLen),
		validateRequired("content", content),
	)
}

func (s *PostService) Create(ctx context.Context, actor authz.Actor, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Content); err != nil {
		return nil, err
	}

	ownerID := actor.ID
	if in.OwnerID != nil {
		ownerID = *in.OwnerID
	}

	var created *models.Post
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		// 1. Owner must be active at creation time
		if _, err := tx.Users.GetActiveByID(ctx, ownerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(KindNotFound, MsgOwnerMissing)
			}
			return err
		}

		// 2. Tags are resolved before anything is written
		tags, err := tx.Associations.ResolveTags(ctx, in.TagIDs)
		if err != nil {
			return err
		}

		post := &models.Post{
			Title:   in.Title,
			Content: in.Content,
			OwnerID: ownerID,
		}
		if err := tx.Posts.Create(ctx, post); err != nil {
			return err
		}

		if len(tags) > 0 {
			if err := tx.Associations.ReplaceTags(ctx, post, tags); err != nil {
				return err
			}
		}

		created = post
		return nil
	})
	if err != nil {
		return nil, logFailure("creating post", err, zap.Uint("owner_id", ownerID))
	}

	logger.Log.Info("Post created",
		zap.Uint("post_id", created.ID),
		zap.Uint("owner_id", created.OwnerID),
		zap.Uint("actor_id", actor.ID),
	)
	return created, nil
}

func (s *PostService) List(ctx context.Context, skip, limit int) (*Page[models.Post], error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}

	posts, total, err := s.repos.Posts.ListActive(ctx, skip, limit)
	if err != nil {
		logger.Log.Error("Failed to list posts", zap.Error(err))
		return nil, internalError("listing posts", err)
	}

	return &Page[models.Post]{Items: posts, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.repos.Posts.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, MsgPostNotFound)
		}
		logger.Log.Error("Failed to get post", zap.Uint("post_id", id), zap.Error(err))
		return nil, internalError("getting post", err)
	}
	return post, nil
}

func (s *PostService) Update(ctx context.Context, actor authz.Actor, in UpdatePostInput) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		post, err := tx.Posts.GetActiveByID(ctx, in.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, MsgPostNotFound)
		}
		if err != nil {
			return err
		}

		if !s.gate.CanPerform(actor, authz.ActionEditPost, post) {
			return newError(KindForbidden, MsgCannotEditPost)
		}

		title, content := post.Title, post.Content
		if in.Title != nil {
			title = *in.Title
		}
		if in.Content != nil {
			content = *in.Content
		}
		if err := validatePostFields(title, content); err != nil {
			return err
		}

		fields := map[string]any{}
		if in.Title != nil {
			fields["title"] = title
		}
		if in.Content != nil {
			fields["content"] = content
		}

		if in.TagIDs != nil {
			if err := tx.Associations.SetPostTags(ctx, post, *in.TagIDs); err != nil {
				return err
			}
		}

		return tx.Posts.Update(ctx, post, fields)
	})
	if err != nil {
		return logFailure("updating post", err, zap.Uint("post_id", in.ID), zap.Uint("actor_id", actor.ID))
	}

	logger.Log.Info("Post updated",
		zap.Uint("post_id", in.ID),
		zap.Uint("actor_id", actor.ID),
	)
	return nil
}

// Delete checks ownership against the stored row, deleted or not, so a
// repeated delete by the owner succeeds and advances deleted_at.
func (s *PostService) Delete(ctx context.Context, actor authz.Actor, id uint) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		post, err := tx.Posts.FindByIDUnscoped(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, MsgPostNotFound)
		}
		if err != nil {
			return err
		}

		if !s.gate.CanPerform(actor, authz.ActionDeletePost, post) {
			return newError(KindForbidden, MsgCannotDeletePost)
		}

		return tx.Posts.SoftDelete(ctx, post.ID)
	})
	if err != nil {
		return logFailure("deleting post", err, zap.Uint("post_id", id), zap.Uint("actor_id", actor.ID))
	}

	logger.Log.Info("Post soft-deleted",
		zap.Uint("post_id", id),
		zap.Uint("actor_id", actor.ID),
	)
	return nil
}
