package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"seguimientos/backend/internal/dto"
	"seguimientos/backend/internal/model"
	"seguimientos/backend/internal/repository"
	"seguimientos/backend/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrTeacherInactive    = errors.New("teacher account is inactive")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrWrongTokenType     = errors.New("wrong token type")
	ErrOldPasswordInvalid = errors.New("current password is incorrect")
)

// TokenBlacklist revokes tokens by JWT id. *redis.Client satisfies it.
type TokenBlacklist interface {
	BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// AuthService authentication
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, teacherID uint) (*dto.TeacherResponse, error)
	ChangePassword(ctx context.Context, teacherID uint, req *dto.ChangePasswordRequest) error
}

type authService struct {
	repo      *repository.Repository
	jwtMgr    *jwt.Manager
	blacklist TokenBlacklist
	logger    *zap.Logger
}

// NewAuthService creates an AuthService. blacklist may be nil, in which case
// logout only succeeds client side.
func NewAuthService(
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	blacklist TokenBlacklist,
	logger *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		jwtMgr:    jwtMgr,
		blacklist: blacklist,
		logger:    logger,
	}
}

// ────────────────────── Login ──────────────────────

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	teacher, err := s.repo.Teacher.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get teacher failed", zap.Error(err))
		return nil, err
	}

	if !teacher.CheckPassword(req.Password) {
		return nil, ErrInvalidCredentials
	}
	if !teacher.Active {
		return nil, ErrTeacherInactive
	}

	now := time.Now()
	if err := s.repo.Teacher.UpdateLastLogin(ctx, teacher.ID, now); err != nil {
		s.logger.Warn("update last login failed", zap.Uint("teacher_id", teacher.ID), zap.Error(err))
	} else {
		teacher.LastLogin = &now
	}

	return s.issueTokens(teacher)
}

// ────────────────────── Refresh ──────────────────────

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrWrongTokenType
	}
	if err := s.checkRevoked(ctx, claims.ID); err != nil {
		return nil, err
	}

	teacher, err := s.repo.Teacher.GetByID(ctx, claims.TeacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("get teacher failed", zap.Uint("teacher_id", claims.TeacherID), zap.Error(err))
		return nil, err
	}
	if !teacher.Active {
		return nil, ErrTeacherInactive
	}

	// the old refresh token is single use
	s.revoke(ctx, claims)

	return s.issueTokens(teacher)
}

// ────────────────────── Logout ──────────────────────

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, ttl); err != nil {
		s.logger.Error("blacklist token failed", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Me ──────────────────────

func (s *authService) Me(ctx context.Context, teacherID uint) (*dto.TeacherResponse, error) {
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeacherNotFound
		}
		s.logger.Error("get teacher failed", zap.Uint("teacher_id", teacherID), zap.Error(err))
		return nil, err
	}
	resp := toTeacherResponse(teacher)
	return &resp, nil
}

// ────────────────────── ChangePassword ──────────────────────

func (s *authService) ChangePassword(ctx context.Context, teacherID uint, req *dto.ChangePasswordRequest) error {
	teacher, err := s.repo.Teacher.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		s.logger.Error("get teacher failed", zap.Uint("teacher_id", teacherID), zap.Error(err))
		return err
	}

	if !teacher.CheckPassword(req.OldPassword) {
		return ErrOldPasswordInvalid
	}

	if err := s.repo.Teacher.UpdatePassword(ctx, teacherID, req.NewPassword); err != nil {
		s.logger.Error("update password failed", zap.Uint("teacher_id", teacherID), zap.Error(err))
		return err
	}
	return nil
}

// ── helpers ──

func (s *authService) issueTokens(teacher *model.Teacher) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(teacher.ID, teacher.Email, teacher.IsAdmin)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(teacher.ID, teacher.Email, teacher.IsAdmin)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Teacher:      toTeacherResponse(teacher),
	}, nil
}

func (s *authService) checkRevoked(ctx context.Context, jti string) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, jti)
	if err != nil {
		s.logger.Warn("check token blacklist failed", zap.Error(err))
		return nil
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.blacklist == nil || claims.ExpiresAt == nil {
		return
	}
	if err := s.blacklist.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		s.logger.Warn("revoke refresh token failed", zap.Error(err))
	}
}
