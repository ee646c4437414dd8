package service

import (
	"context"
	"testing"
	"time"

	"homefind/internal/common"
	"homefind/internal/common/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeSessionStore, *security.TokenIssuer) {
	t.Helper()
	userRepo := newFakeUserRepo()
	sessions := newFakeSessionStore()
	tokens := security.NewTokenIssuer([]byte("test-secret"), time.Hour, 24*time.Hour)
	return NewAuthService(userRepo, tokens, sessions), userRepo, sessions, tokens
}

func validRegistration() RegisterRequest {
	return RegisterRequest{
		Email:     "jane@example.com",
		Password:  "correct horse",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "555-0101",
	}
}

func TestRegisterIssuesWorkingTokens(t *testing.T) {
	svc, _, sessions, tokens := newAuthFixture(t)

	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)
	require.NotNil(t, resp.User)
	assert.Equal(t, "jane@example.com", resp.User.Email)
	assert.Equal(t, "user", resp.User.Role)
	assert.Empty(t, resp.User.HashedPassword, "hash must never leave the service")

	subject, err := tokens.VerifyAccess(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, subject)

	_, jti, err := tokens.VerifyRefresh(resp.RefreshToken)
	require.NoError(t, err)
	live, err := sessions.Exists(context.Background(), jti)
	require.NoError(t, err)
	assert.True(t, live, "refresh session should be registered on issue")
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	req := validRegistration()
	req.Email = "  Jane@Example.COM "
	resp, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", resp.User.Email)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterRequest)
	}{
		{"bad email", func(r *RegisterRequest) { r.Email = "not-an-address" }},
		{"short password", func(r *RegisterRequest) { r.Password = "short" }},
		{"missing first name", func(r *RegisterRequest) { r.FirstName = "  " }},
		{"missing last name", func(r *RegisterRequest) { r.LastName = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, _, _, _ := newAuthFixture(t)
			req := validRegistration()
			tc.mutate(&req)
			_, err := svc.Register(context.Background(), req)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), validRegistration())
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLogin(t *testing.T) {
	svc, _, _, tokens := newAuthFixture(t)
	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	t.Run("correct credentials", func(t *testing.T) {
		resp, err := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "correct horse"})
		require.NoError(t, err)
		subject, err := tokens.VerifyAccess(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, registered.User.ID, subject)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{Email: "jane@example.com", Password: "wrong horse"})
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("unknown email gets the same generic failure", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{Email: "nobody@example.com", Password: "correct horse"})
		assert.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("empty credentials", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginRequest{})
		assert.ErrorIs(t, err, common.ErrBadRequest)
	})
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	first, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	second, err := svc.Refresh(context.Background(), first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// The first refresh token was rotated out and must not work again.
	_, err = svc.Refresh(context.Background(), first.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// The replacement still does.
	_, err = svc.Refresh(context.Background(), second.RefreshToken)
	assert.NoError(t, err)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestLogoutRevokesRefreshSession(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)
	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.RefreshToken))

	_, err = svc.Refresh(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)

	// Logging out twice is fine.
	assert.NoError(t, svc.Logout(context.Background(), resp.RefreshToken))
}

func TestRefreshFailsForDeletedUser(t *testing.T) {
	svc, userRepo, _, _ := newAuthFixture(t)
	resp, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	require.NoError(t, userRepo.Delete(context.Background(), resp.User.ID))

	_, err = svc.Refresh(context.Background(), resp.RefreshToken)
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}
