// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/carterperez-dev/catalog-api/internal/auth"
	"github.com/carterperez-dev/catalog-api/internal/core"
)

const invalidCredentialsMessage = "Invalid username or password"

type PasswordHasher interface {
	Hash(password string) (string, error)
	VerifyTimingSafe(password string, encodedHash *string) (bool, string, error)
}

type TokenIssuer interface {
	Issue(userID int64, username string) (*auth.IssuedToken, error)
}

type Service struct {
	repo      Repository
	hasher    PasswordHasher
	tokens    TokenIssuer
	validator *Validator
	logger    *slog.Logger
}

func NewService(
	repo Repository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		validator: NewValidator(),
		logger:    logger,
	}
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*UserResponse, error) {
	if violations := s.validator.ValidateRegister(req); len(violations) > 0 {
		return nil, core.ValidationError(violations)
	}

	_, err := s.repo.GetByUsername(ctx, req.Username)
	switch {
	case err == nil:
		return nil, duplicateUsernameError()
	case !errors.Is(err, core.ErrNotFound):
		return nil, fmt.Errorf("check username: %w", err)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Username:     req.Username,
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, duplicateUsernameError()
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// Login answers an unknown username and a wrong password identically, with
// the same hashing work, so account existence does not leak.
func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*LoginResponse, error) {
	if violations := s.validator.ValidateLogin(req); len(violations) > 0 {
		return nil, core.ValidationError(violations)
	}

	user, err := s.repo.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention
			_, _, _ = s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, core.UnauthorizedError(invalidCredentialsMessage)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid {
		return nil, core.UnauthorizedError(invalidCredentialsMessage)
	}

	if newHash != "" {
		if err := s.repo.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &LoginResponse{
		Token:     token.Token,
		User:      ToUserResponse(user),
		ExpiresIn: token.ExpiresIn,
	}, nil
}

func (s *Service) GetProfile(
	ctx context.Context,
	userID int64,
) (*UserResponse, error) {
	if userID == 0 {
		return nil, core.UnauthorizedError("")
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, core.NotFoundError("User")
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func duplicateUsernameError() *core.AppError {
	return core.ConflictError("Username already exists", core.CodeDuplicateUsername)
}
