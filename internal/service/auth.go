package service

import (
	"context"
	"errors"
	"time"

	"github.com/devsync/devsync-go/internal/crypto"
	"github.com/devsync/devsync-go/internal/model"
	"github.com/devsync/devsync-go/internal/repository"
)

var (
	ErrAllFieldsRequired  = errors.New("all fields are required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrResetDisabled      = errors.New("password reset via email is disabled")
)

// userStore is the persistence surface the auth service depends on.
type userStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles registration and login business logic.
type AuthService struct {
	store     userStore
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(store userStore, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account. The response carries no token; the
// client logs in separately.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) error {
	if req.Name == "" || req.Email == "" || req.Password == "" || req.ConfirmPassword == "" {
		return ErrAllFieldsRequired
	}
	if req.Password != req.ConfirmPassword {
		return ErrPasswordMismatch
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return ErrUserExists
		}
		return err
	}

	return nil
}

// Login authenticates a user and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.LoginResponse{}, ErrInvalidCredentials
		}
		return model.LoginResponse{}, err
	}

	if !crypto.VerifyPassword(req.Password, user.PasswordHash) {
		return model.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.LoginResponse{}, err
	}

	return model.LoginResponse{Token: token}, nil
}

// ForgotPassword always fails: email-based password reset is disabled.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	return ErrResetDisabled
}
