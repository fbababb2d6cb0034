package service_test

import (
	"context"
	"encoding/hex"
	"testing"
	"time"

	"github.com/folioapp/folio-server/internal/auth"
	domainerrors "github.com/folioapp/folio-server/internal/errors"
	"github.com/folioapp/folio-server/internal/service"
	"github.com/folioapp/folio-server/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T, signupEnabled bool) *service.AuthService {
	t.Helper()

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(hex.EncodeToString(key), 24*time.Hour)
	require.NoError(t, err)

	return service.NewAuthService(newTestStore(t), tokenService, validation.New(), signupEnabled, testLogger())
}

func signupRequest() service.SignupRequest {
	return service.SignupRequest{
		Email:    "author@example.com",
		Password: "a long enough password",
		Name:     "The Author",
	}
}

func TestAuthService_SignupReturnsTokenAndUser(t *testing.T) {
	svc := newAuthService(t, true)

	resp, err := svc.Signup(context.Background(), signupRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), resp.ExpiresAt, time.Minute)
	assert.Equal(t, "author@example.com", resp.User.Email)
	assert.Empty(t, resp.User.PasswordHash, "hash must not leak into responses")

	claims, err := svc.VerifyAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestAuthService_SignupDisabled(t *testing.T) {
	svc := newAuthService(t, false)

	_, err := svc.Signup(context.Background(), signupRequest())
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}

func TestAuthService_SignupDuplicateEmail(t *testing.T) {
	svc := newAuthService(t, true)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Signup(ctx, signupRequest())
	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestAuthService_SignupValidates(t *testing.T) {
	svc := newAuthService(t, true)

	req := signupRequest()
	req.Password = "short"

	_, err := svc.Signup(context.Background(), req)
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestAuthService_LoginRoundTrip(t *testing.T) {
	svc := newAuthService(t, true)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	resp, err := svc.Login(ctx, service.LoginRequest{
		Email:    "author@example.com",
		Password: "a long enough password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.False(t, resp.User.LastLoginAt.IsZero())

	// Expiry tracks the configured 24h token lifetime.
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), resp.ExpiresAt, time.Minute)
}

func TestAuthService_LoginCaseInsensitiveEmail(t *testing.T) {
	svc := newAuthService(t, true)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, service.LoginRequest{
		Email:    "AUTHOR@example.com",
		Password: "a long enough password",
	})
	assert.NoError(t, err)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	svc := newAuthService(t, true)
	ctx := context.Background()

	_, err := svc.Signup(ctx, signupRequest())
	require.NoError(t, err)

	_, err = svc.Login(ctx, service.LoginRequest{
		Email:    "author@example.com",
		Password: "not the password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_LoginUnknownEmailSameError(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.Login(context.Background(), service.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever password",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestAuthService_VerifyRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, true)

	_, err := svc.VerifyAccessToken("v4.local.nonsense")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)
}
