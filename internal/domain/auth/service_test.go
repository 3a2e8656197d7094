package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

func TestService_LoginAndValidate(t *testing.T) {
	svc := newTestService(t, time.Hour)

	resp, err := svc.Login(context.Background(), LoginRequest{Username: "Editor", Password: "hunter22"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "editor", resp.Username)
	require.WithinDuration(t, time.Now().Add(time.Hour), resp.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(context.Background(), resp.Token)
	require.NoError(t, err)
	require.Equal(t, "editor", claims.Username)
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	svc := newTestService(t, time.Hour)

	_, err := svc.Login(context.Background(), LoginRequest{Username: "editor", Password: "wrong-pass"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))

	_, err = svc.Login(context.Background(), LoginRequest{Username: "ghost", Password: "hunter22"})
	require.True(t, apperrors.IsCode(err, "invalid_credentials"))

	_, err = svc.Login(context.Background(), LoginRequest{Username: " ", Password: "hunter22"})
	require.True(t, apperrors.IsCode(err, "invalid_input"))
}

func TestService_ValidateTokenRejectsExpiredAndForeign(t *testing.T) {
	svc := newTestService(t, time.Minute)
	resp, err := svc.Login(context.Background(), LoginRequest{Username: "editor", Password: "hunter22"})
	require.NoError(t, err)

	svc.(*service).now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = svc.ValidateToken(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	other := NewService(Config{Secret: "other-secret"}, NewStaticRepository(nil), newTestLogger())
	_, err = other.ValidateToken(context.Background(), resp.Token)
	require.True(t, apperrors.IsCode(err, "invalid_token"))

	_, err = other.ValidateToken(context.Background(), "")
	require.True(t, apperrors.IsCode(err, "invalid_token"))
}

func newTestService(t *testing.T, ttl time.Duration) Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := NewStaticRepository([]Admin{{Username: "editor", PasswordHash: string(hash)}})
	return NewService(Config{Enabled: true, Secret: "test-secret", TokenTTL: ttl}, repo, newTestLogger())
}

func newTestLogger() *slog.Logger {
	handler := slog.NewTextHandler(io.Discard, nil)
	return slog.New(handler)
}
