package service

import (
	"context"
	"errors"

	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/repository"
	"github.com/Baaaki/content-square/internal/security"
	"github.com/Baaaki/content-square/pkg/logger"
	"go.uber.org/zap"
)

type CreateUserInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
	RoleID   uint
}

// UpdateUserInput leaves nil fields untouched
type UpdateUserInput struct {
	ID       uint
	Name     *string
	Surname  *string
	Email    *string
	Password *string
	RoleID   *uint
}

// UserService manages accounts. It does not consult the authorization gate.
type UserService struct {
	repos *repository.Repositories
}

func NewUserService(repos *repository.Repositories) *UserService {
	return &UserService{repos: repos}
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := firstError(
		validateName(in.Name, in.Surname),
		validateEmail(in.Email),
		validateRequired("password", in.Password),
	); err != nil {
		return nil, err
	}

	var created *models.User
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		// Admin-created accounts may not reuse any email, deleted or not
		exists, err := tx.Users.EmailExists(ctx, in.Email)
		if err != nil {
			return err
		}
		if exists {
			return newError(KindConflict, MsgEmailRegistered)
		}

		role, err := tx.Roles.GetByID(ctx, in.RoleID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, MsgRoleMissing)
		}
		if err != nil {
			return err
		}

		hash, err := security.HashPassword(in.Password)
		if err != nil {
			return err
		}

		user := &models.User{
			Name:         in.Name,
			Surname:      in.Surname,
			Email:        in.Email,
			PasswordHash: hash,
			RoleID:       role.ID,
		}
		if err := tx.Users.Create(ctx, user); err != nil {
			return err
		}
		user.Role = *role
		created = user
		return nil
	})
	if err != nil {
		return nil, logFailure("creating user", err, zap.String("email", in.Email))
	}

	logger.Log.Info("User created",
		zap.Uint("user_id", created.ID),
		zap.Uint("role_id", created.RoleID),
	)
	return created, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int) (*Page[models.User], error) {
	if err := validatePage(skip, limit); err != nil {
		return nil, err
	}

	users, total, err := s.repos.Users.ListActive(ctx, skip, limit)
	if err != nil {
		logger.Log.Error("Failed to list users", zap.Error(err))
		return nil, internalError("listing users", err)
	}

	return &Page[models.User]{Items: users, Total: total, Skip: skip, Limit: limit}, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repos.Users.GetActiveByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindNotFound, MsgUserNotFound)
		}
		logger.Log.Error("Failed to get user", zap.Uint("user_id", id), zap.Error(err))
		return nil, internalError("getting user", err)
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, in UpdateUserInput) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		user, err := tx.Users.GetActiveByID(ctx, in.ID)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, MsgUserNotFound)
		}
		if err != nil {
			return err
		}

		fields := map[string]any{}

		if in.Name != nil || in.Surname != nil {
			name, surname := user.Name, user.Surname
			if in.Name != nil {
				name = *in.Name
			}
			if in.Surname != nil {
				surname = *in.Surname
			}
			if err := validateName(name, surname); err != nil {
				return err
			}
			fields["name"] = name
			fields["surname"] = surname
		}

		if in.Password != nil {
			if err := validateRequired("password", *in.Password); err != nil {
				return err
			}
			hash, err := security.HashPassword(*in.Password)
			if err != nil {
				return err
			}
			fields["password_hash"] = hash
		}

		if in.RoleID != nil {
			if _, err := tx.Roles.GetByID(ctx, *in.RoleID); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return newError(KindNotFound, MsgRoleMissing)
				}
				return err
			}
			fields["role_id"] = *in.RoleID
		}

		if in.Email != nil {
			if err := validateEmail(*in.Email); err != nil {
				return err
			}
			taken, err := tx.Users.EmailTakenByOther(ctx, *in.Email, user.ID)
			if err != nil {
				return err
			}
			if taken {
				return newError(KindConflict, MsgEmailTakenByOther)
			}
			fields["email"] = *in.Email
		}

		return tx.Users.Update(ctx, user, fields)
	})
	if err != nil {
		return logFailure("updating user", err, zap.Uint("user_id", in.ID))
	}

	logger.Log.Info("User updated", zap.Uint("user_id", in.ID))
	return nil
}

// Delete soft-deletes the user. Deleting an already deleted user succeeds
// again and moves deleted_at forward.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Users.SoftDelete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return newError(KindNotFound, MsgUserNotFound)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return logFailure("deleting user", err, zap.Uint("user_id", id))
	}

	logger.Log.Info("User soft-deleted", zap.Uint("user_id", id))
	return nil
}
