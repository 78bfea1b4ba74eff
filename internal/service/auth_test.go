package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/devsync/devsync-go/internal/crypto"
	"github.com/devsync/devsync-go/internal/model"
)

const testSecret = "test-secret"

func newTestAuthService() *AuthService {
	return NewAuthService(newMemUserStore(), testSecret, time.Hour)
}

func validateTestToken(token string) (*crypto.Claims, error) {
	return crypto.ValidateToken(token, testSecret)
}

func validRegistration() model.RegisterRequest {
	return model.RegisterRequest{
		Name:            "Ada",
		Email:           "ada@example.com",
		Password:        "hunter22",
		ConfirmPassword: "hunter22",
	}
}

func TestRegisterMissingFields(t *testing.T) {
	svc := newTestAuthService()

	reqs := []model.RegisterRequest{
		{Email: "a@b.c", Password: "x", ConfirmPassword: "x"},
		{Name: "Ada", Password: "x", ConfirmPassword: "x"},
		{Name: "Ada", Email: "a@b.c", ConfirmPassword: "x"},
		{Name: "Ada", Email: "a@b.c", Password: "x"},
	}

	for _, req := range reqs {
		if err := svc.Register(context.Background(), req); !errors.Is(err, ErrAllFieldsRequired) {
			t.Errorf("Register(%+v) error = %v, want ErrAllFieldsRequired", req, err)
		}
	}
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc := newTestAuthService()

	req := validRegistration()
	req.ConfirmPassword = "different"

	if err := svc.Register(context.Background(), req); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Register() error = %v, want ErrPasswordMismatch", err)
	}
}

func TestRegisterSucceedsExactlyOnce(t *testing.T) {
	svc := newTestAuthService()
	req := validRegistration()

	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	err := svc.Register(context.Background(), req)
	if !errors.Is(err, ErrUserExists) {
		t.Errorf("second Register() error = %v, want ErrUserExists", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	store := newMemUserStore()
	svc := NewAuthService(store, testSecret, time.Hour)
	req := validRegistration()

	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	resp, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("Login() returned empty token")
	}

	claims, err := crypto.ValidateToken(resp.Token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken() unexpected error: %v", err)
	}

	user, err := store.GetByEmail(context.Background(), req.Email)
	if err != nil {
		t.Fatalf("GetByEmail() unexpected error: %v", err)
	}
	if claims.UserID != user.ID {
		t.Errorf("token identity = %d, want registered user %d", claims.UserID, user.ID)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := newTestAuthService()
	req := validRegistration()

	if err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("Register() unexpected error: %v", err)
	}

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    req.Email,
		Password: "wrong-password",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := newTestAuthService()

	_, err := svc.Login(context.Background(), model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "irrelevant",
	})
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestForgotPasswordAlwaysDisabled(t *testing.T) {
	svc := newTestAuthService()

	if err := svc.ForgotPassword(context.Background(), "ada@example.com"); !errors.Is(err, ErrResetDisabled) {
		t.Errorf("ForgotPassword() error = %v, want ErrResetDisabled", err)
	}
}
