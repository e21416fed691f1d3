package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"seguimientos/backend/config"
	"seguimientos/backend/internal/dto"
	"seguimientos/backend/pkg/jwt"
)

// memBlacklist is an in-memory TokenBlacklist.
type memBlacklist struct {
	revoked map[string]time.Duration
}

func (b *memBlacklist) BlacklistToken(_ context.Context, jti string, ttl time.Duration) error {
	b.revoked[jti] = ttl
	return nil
}

func (b *memBlacklist) IsBlacklisted(_ context.Context, jti string) (bool, error) {
	_, ok := b.revoked[jti]
	return ok, nil
}

func newAuthFixture(t *testing.T) (*memStore, AuthService, *jwt.Manager, *memBlacklist) {
	t.Helper()
	s := newMemStore()
	teacher := s.addTeacher("Ana", "Ana@Example.com", false)
	teacher.Password = "correct-horse"
	if err := teacher.BeforeSave(nil); err != nil {
		t.Fatalf("hash password: %v", err)
	}

	mgr := jwt.NewManager(&config.AuthConfig{
		JWTSecret:       "test-secret-at-least-16",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: time.Hour,
	})
	bl := &memBlacklist{revoked: map[string]time.Duration{}}
	return s, NewAuthService(s.repo(), mgr, bl, zap.NewNop()), mgr, bl
}

func TestAuthService_Login(t *testing.T) {
	store, svc, mgr, _ := newAuthFixture(t)

	resp, err := svc.Login(context.Background(), &dto.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if resp.ExpiresIn != 900 {
		t.Errorf("expires_in = %d, want 900", resp.ExpiresIn)
	}
	if resp.Teacher.Name != "Ana" || resp.Teacher.LastLogin == "" {
		t.Errorf("teacher = %+v", resp.Teacher)
	}

	claims, err := mgr.ParseToken(resp.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.TokenType != jwt.TokenTypeAccess || claims.IsAdmin {
		t.Errorf("claims = %+v", claims)
	}
	for _, tch := range store.teachers {
		if tch.LastLogin == nil {
			t.Errorf("last login not stored")
		}
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	store, svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "x"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}

	for _, tch := range store.teachers {
		tch.Active = false
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "correct-horse"}); !errors.Is(err, ErrTeacherInactive) {
		t.Errorf("inactive: expected ErrTeacherInactive, got %v", err)
	}
}

func TestAuthService_Refresh_SingleUse(t *testing.T) {
	_, svc, _, _ := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if _, err := svc.Refresh(ctx, login.AccessToken); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("access token: expected ErrWrongTokenType, got %v", err)
	}

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	if refreshed.AccessToken == "" {
		t.Errorf("no access token issued")
	}

	if _, err := svc.Refresh(ctx, login.RefreshToken); !errors.Is(err, ErrTokenRevoked) {
		t.Errorf("reuse: expected ErrTokenRevoked, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	_, svc, mgr, bl := newAuthFixture(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "correct-horse"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	claims, err := mgr.ParseToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	ttl, ok := bl.revoked[claims.ID]
	if !ok {
		t.Fatalf("token not blacklisted")
	}
	if ttl <= 0 || ttl > 15*time.Minute {
		t.Errorf("blacklist ttl = %v", ttl)
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	store, svc, _, _ := newAuthFixture(t)
	ctx := context.Background()
	var id uint
	for k := range store.teachers {
		id = k
	}

	err := svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{OldPassword: "nope", NewPassword: "battery-staple"})
	if !errors.Is(err, ErrOldPasswordInvalid) {
		t.Fatalf("expected ErrOldPasswordInvalid, got %v", err)
	}

	if err := svc.ChangePassword(ctx, id, &dto.ChangePasswordRequest{OldPassword: "correct-horse", NewPassword: "battery-staple"}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}
	if _, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "battery-staple"}); err != nil {
		t.Errorf("login with new password failed: %v", err)
	}
}

func TestAuthService_Me(t *testing.T) {
	_, svc, _, _ := newAuthFixture(t)

	if _, err := svc.Me(context.Background(), 999); !errors.Is(err, ErrTeacherNotFound) {
		t.Errorf("expected ErrTeacherNotFound, got %v", err)
	}
}
