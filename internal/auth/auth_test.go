package auth_test

import (
	"encoding/hex"
	"strings"
	"testing"
	"time"

	"github.com/folioapp/folio-server/internal/auth"
	"github.com/folioapp/folio-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	ok, err := auth.VerifyPassword(hash, "correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = auth.VerifyPassword(hash, "wrong password")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_RejectsEmpty(t *testing.T) {
	_, err := auth.HashPassword("")
	require.Error(t, err)
}

func TestVerifyPassword_MalformedHashIsFalseNotError(t *testing.T) {
	ok, err := auth.VerifyPassword("not-a-hash", "whatever")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	a, err := auth.HashPassword("same password")
	require.NoError(t, err)
	b, err := auth.HashPassword("same password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func testTokenService(t *testing.T, dur time.Duration) *auth.TokenService {
	t.Helper()

	key, err := auth.LoadOrGenerateKey(t.TempDir())
	require.NoError(t, err)

	svc, err := auth.NewTokenService(hex.EncodeToString(key), dur)
	require.NoError(t, err)
	return svc
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := testTokenService(t, 15*time.Minute)

	user := &domain.User{ID: "user-1", Email: "author@example.com"}
	token, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(token, "v4.local."))

	claims, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "author@example.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	svc := testTokenService(t, -time.Minute)

	token, err := svc.GenerateAccessToken(&domain.User{ID: "user-1"})
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	require.Error(t, err)
}

func TestTokenService_RejectsGarbage(t *testing.T) {
	svc := testTokenService(t, 15*time.Minute)

	_, err := svc.VerifyAccessToken("v4.local.garbage")
	require.Error(t, err)
}

func TestNewTokenService_RejectsBadKey(t *testing.T) {
	_, err := auth.NewTokenService("deadbeef", 15*time.Minute)
	require.Error(t, err)
}

func TestLoadOrGenerateKey_Stable(t *testing.T) {
	dir := t.TempDir()

	first, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	require.Len(t, first, 32)

	second, err := auth.LoadOrGenerateKey(dir)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
