package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	apiErrors "github.com/dtroode/taskkeeper-server/internal/apierrors"
	"github.com/dtroode/taskkeeper-server/internal/logger"
	"github.com/dtroode/taskkeeper-server/internal/model"
	"github.com/dtroode/taskkeeper-server/internal/password"
)

// dummySalt is hashed against when the email is unknown so that a missing
// user costs the same KDF work as a wrong password.
const dummySalt = "AAAAAAAAAAAAAAAAAAAAAA"

// PasswordHasher derives and verifies salted password digests.
type PasswordHasher interface {
	Params() model.KDFParams
	GenerateSalt() (string, error)
	Hash(plaintext, salt string) (string, error)
	Verify(plaintext, salt, digest string, params model.KDFParams) (bool, error)
}

type Auth struct {
	userStore    model.UserStore
	hasher       PasswordHasher
	tokenService *TokenService
	logger       *logger.Logger
	now          func() time.Time
}

func NewAuth(
	userStore model.UserStore,
	hasher PasswordHasher,
	tokenManager model.TokenManager,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		userStore:    userStore,
		hasher:       hasher,
		tokenService: NewTokenService(tokenManager, logger),
		logger:       logger,
		now:          time.Now,
	}
}

// Register creates a user. A duplicate email is detected by the store's
// uniqueness constraint on insert.
func (a *Auth) Register(ctx context.Context, params model.RegisterParams) (model.User, error) {
	a.logger.Debug("Auth service: starting user registration",
		"email", params.Email)

	salt, err := a.hasher.GenerateSalt()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	digest, err := a.hasher.Hash(params.Password, salt)
	if errors.Is(err, password.ErrInput) {
		return model.User{}, apiErrors.NewErrValidation([]apiErrors.FieldViolation{
			{Field: "body.password", Message: err.Error()},
		})
	}
	if err != nil {
		return model.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := a.now().UTC().Truncate(time.Millisecond)
	user := model.User{
		ID:           uuid.New(),
		Email:        params.Email,
		Name:         params.Name,
		Salt:         salt,
		PasswordHash: digest,
		KDF:          a.hasher.Params(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := a.userStore.Create(ctx, user)
	if errors.Is(err, model.ErrAlreadyExists) {
		a.logger.Info("Auth service: user already exists",
			"email", params.Email)
		return model.User{}, apiErrors.NewErrEmailIsTaken(params.Email)
	}
	if err != nil {
		a.logger.Error("Auth service: failed to create user",
			"email", params.Email,
			"error", err.Error())
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	a.logger.Info("Auth service: user registration completed successfully",
		"email", params.Email,
		"user_id", saved.ID)

	return saved, nil
}

// Login verifies credentials and returns a signed access token.
func (a *Auth) Login(ctx context.Context, params model.LoginParams) (string, error) {
	a.logger.Debug("Auth service: starting user login",
		"email", params.Email)

	user, err := a.userStore.GetByEmail(ctx, params.Email)
	if errors.Is(err, model.ErrNotFound) {
		_, _ = a.hasher.Verify(params.Password, dummySalt, "", a.hasher.Params())
		return "", apiErrors.NewErrUserNotFound(params.Email)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user by email: %w", err)
	}

	ok, err := a.hasher.Verify(params.Password, user.Salt, user.PasswordHash, user.KDF)
	if errors.Is(err, password.ErrInput) {
		return "", apiErrors.NewErrInvalidCredentials()
	}
	if err != nil {
		return "", fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		a.logger.Info("Auth service: invalid credentials",
			"email", params.Email)
		return "", apiErrors.NewErrInvalidCredentials()
	}

	token, err := a.tokenService.Issue(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}

	a.logger.Info("Auth service: login completed successfully",
		"email", params.Email,
		"user_id", user.ID)

	return token, nil
}
