package service

import (
	"context"
	"errors"
	"time"

	"github.com/Baaaki/content-square/internal/models"
	"github.com/Baaaki/content-square/internal/repository"
	"github.com/Baaaki/content-square/internal/security"
	"github.com/Baaaki/content-square/pkg/logger"
	"go.uber.org/zap"
)

// RegistrationRole is granted to every self-registered account
const RegistrationRole = models.RoleAdmin

const TokenTypeBearer = "bearer"

type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type RegisterInput struct {
	Name     string
	Surname  string
	Email    string
	Password string
}

type AuthService struct {
	repos  *repository.Repositories
	tokens *security.TokenService
}

func NewAuthService(repos *repository.Repositories, tokens *security.TokenService) *AuthService {
	return &AuthService{
		repos:  repos,
		tokens: tokens,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("email", in.Email),
	)

	// 1. Validate input
	if err := firstError(
		validateName(in.Name, in.Surname),
		validateEmail(in.Email),
		validateRequired("password", in.Password),
	); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}

	var pair *TokenPair
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		// 2. Email must not belong to an active user
		_, err := tx.Users.GetActiveByEmail(ctx, in.Email)
		if err == nil {
			return newError(KindConflict, MsgEmailRegistered)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		// 3. Resolve the registration role
		role, err := tx.Roles.GetByName(ctx, RegistrationRole)
		if errors.Is(err, repository.ErrNotFound) {
			return newError(KindNotFound, MsgDefaultRoleMissing)
		}
		if err != nil {
			return err
		}

		// 4. Hash password (Argon2id)
		hashStart := time.Now()
		hash, err := security.HashPassword(in.Password)
		if err != nil {
			return err
		}
		logger.Log.Debug("Password hashed successfully",
			zap.Duration("hash_duration", time.Since(hashStart)),
		)

		// 5. Create user
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

		// 6. Issue token, a signing failure rolls the user back
		pair, err = s.issue(user.ID)
		if err != nil {
			return err
		}

		logger.Log.Info("User registered successfully",
			zap.Uint("user_id", user.ID),
			zap.String("email", user.Email),
			zap.String("role", role.Name),
			zap.Duration("total_duration", time.Since(start)),
		)
		return nil
	})
	if err != nil {
		if KindOf(err) == KindInternal {
			logger.Log.Error("Registration failed",
				zap.String("email", in.Email),
				zap.Error(err),
			)
		} else {
			logger.Log.Warn("Registration rejected",
				zap.String("email", in.Email),
				zap.Error(err),
			)
		}
		return nil, asServiceError("registering user", err)
	}

	return pair, nil
}

// Login answers the same message for an unknown email and a wrong password
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	logger.Log.Debug("Processing user login",
		zap.String("email", email),
	)

	// 1. Get active user by email
	user, err := s.repos.Users.GetActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			logger.Log.Warn("Login failed: user not found",
				zap.String("email", email),
			)
			return nil, newError(KindUnauthorized, MsgInvalidCredentials)
		}
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, internalError("logging in", err)
	}

	// 2. Verify password
	valid, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.Uint("user_id", user.ID),
		)
		return nil, newError(KindUnauthorized, MsgInvalidCredentials)
	}

	// 3. Issue token
	pair, err := s.issue(user.ID)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.Uint("user_id", user.ID),
			zap.Error(err),
		)
		return nil, internalError("logging in", err)
	}

	logger.Log.Info("User logged in successfully",
		zap.Uint("user_id", user.ID),
		zap.String("role", user.Role.Name),
	)
	return pair, nil
}

// Refresh trusts the signature and expiry only. The subject is not
// checked against the users table.
func (s *AuthService) Refresh(token string) (*TokenPair, error) {
	newToken, err := s.tokens.Refresh(token)
	if err != nil {
		if errors.Is(err, security.ErrInvalidToken) {
			logger.Log.Warn("Token refresh rejected", zap.Error(err))
			return nil, newError(KindUnauthorized, MsgInvalidToken)
		}
		logger.Log.Error("Failed to refresh token", zap.Error(err))
		return nil, internalError("refreshing token", err)
	}

	return &TokenPair{AccessToken: newToken, TokenType: TokenTypeBearer}, nil
}

// Authenticate resolves a bearer token to an active user with its role
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return nil, newError(KindUnauthorized, MsgInvalidToken)
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return nil, newError(KindUnauthorized, MsgInvalidToken)
	}

	user, err := s.repos.Users.GetActiveByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(KindUnauthorized, MsgUserNotFound)
		}
		return nil, internalError("authenticating user", err)
	}

	return user, nil
}

func (s *AuthService) issue(userID uint) (*TokenPair, error) {
	token, err := s.tokens.Issue(userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: token, TokenType: TokenTypeBearer}, nil
}
