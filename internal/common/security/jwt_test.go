package security

import (
	"testing"
	"time"

	"homefind/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *model.User {
	return &model.User{
		ID:        "user-123",
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Role:      model.RoleUser,
	}
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour, 24*time.Hour)

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEmpty(t, pair.RefreshID)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	subject, err := issuer.VerifyAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", subject)

	userID, jti, err := issuer.VerifyRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, pair.RefreshID, jti)
}

func TestRefreshTokenIDsAreUnique(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour, 24*time.Hour)

	a, err := issuer.Issue(testUser())
	require.NoError(t, err)
	b, err := issuer.Issue(testUser())
	require.NoError(t, err)
	assert.NotEqual(t, a.RefreshID, b.RefreshID)
}

func TestPurposeSeparation(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour, 24*time.Hour)
	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	// A refresh token must not pass as an access token, and vice versa.
	// The tokens are signed with different derived keys, so the signature
	// check alone already rejects the swap.
	_, err = issuer.VerifyAccess(pair.RefreshToken)
	assert.Error(t, err)

	_, _, err = issuer.VerifyRefresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestExpiredTokensRejected(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), -time.Minute, -time.Minute)
	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = issuer.VerifyAccess(pair.AccessToken)
	assert.Error(t, err)
	_, _, err = issuer.VerifyRefresh(pair.RefreshToken)
	assert.Error(t, err)
}

func TestDifferentSecretsRejected(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret-a"), time.Hour, 24*time.Hour)
	other := NewTokenIssuer([]byte("secret-b"), time.Hour, 24*time.Hour)

	pair, err := issuer.Issue(testUser())
	require.NoError(t, err)

	_, err = other.VerifyAccess(pair.AccessToken)
	assert.Error(t, err)
	_, _, err = other.VerifyRefresh(pair.RefreshToken)
	assert.Error(t, err)
}

func TestGarbageTokensRejected(t *testing.T) {
	issuer := NewTokenIssuer([]byte("secret"), time.Hour, 24*time.Hour)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.VerifyAccess(tok)
		assert.Error(t, err, "token %q", tok)
		_, _, err = issuer.VerifyRefresh(tok)
		assert.Error(t, err, "token %q", tok)
	}
}

func TestDeriveKeyDiffersPerPurpose(t *testing.T) {
	secret := []byte("secret")
	assert.NotEqual(t, deriveKey(secret, PurposeAccess), deriveKey(secret, PurposeRefresh))
	assert.Equal(t, deriveKey(secret, PurposeAccess), deriveKey(secret, PurposeAccess))
}
