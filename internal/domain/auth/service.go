package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

const defaultTokenTTL = 12 * time.Hour

// Service exposes authentication workflows.
type Service interface {
	Enabled() bool
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
}

type service struct {
	cfg    Config
	repo   Repository
	now    func() time.Time
	logger *slog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}
	return &service{
		cfg:    cfg,
		repo:   repo,
		now:    time.Now,
		logger: logger.With("component", "auth.service"),
	}
}

func (s *service) Enabled() bool {
	return s.cfg.Enabled
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "username cannot be empty", nil)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "password cannot be empty", nil)
	}
	admin, found, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to fetch admin", err)
	}
	if !found {
		s.logger.Warn("login for unknown admin", "username", username)
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid username or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("login with wrong password", "username", username)
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid username or password", nil)
	}

	now := s.now()
	expires := now.Add(s.cfg.TokenTTL)
	claims := tokenClaims{
		Username: admin.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.Username,
			ID:        newTokenID(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to sign token", err)
	}
	s.logger.Info("admin logged in", "username", admin.Username)
	return LoginResponse{Token: signed, ExpiresAt: expires, Username: admin.Username}, nil
}

func (s *service) ValidateToken(_ context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing", nil)
	}
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing expiry", nil)
	}
	return Claims{Username: claims.Username, ExpiresAt: claims.ExpiresAt.Time}, nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
}

func newTokenID(now time.Time) string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return strconv.FormatInt(now.UnixNano(), 10)
	}
	return hex.EncodeToString(buf)
}
