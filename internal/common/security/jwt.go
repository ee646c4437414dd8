package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"time"

	"homefind/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	PurposeAccess  = "access"
	PurposeRefresh = "refresh"
)

// TokenIssuer produces and verifies the access/refresh token pair. Access and
// refresh tokens are signed with distinct keys derived from the configured
// secret, and both carry a purpose claim that is checked on verification, so
// a refresh token can never be replayed as an access token.
type TokenIssuer struct {
	access     *jwtauth.JWTAuth
	refresh    *jwtauth.JWTAuth
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		access:     jwtauth.New("HS256", deriveKey(secret, PurposeAccess), nil),
		refresh:    jwtauth.New("HS256", deriveKey(secret, PurposeRefresh), nil),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func deriveKey(secret []byte, purpose string) []byte {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(purpose))
	return mac.Sum(nil)
}

// AccessAuth exposes the access-token verifier for the jwtauth middleware.
func (i *TokenIssuer) AccessAuth() *jwtauth.JWTAuth {
	return i.access
}

func (i *TokenIssuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	RefreshID    string `json:"-"`
}

// Issue creates a signed access/refresh pair for the user. The refresh
// token's jti is returned so the caller can register it in the token store.
func (i *TokenIssuer) Issue(user *model.User) (*TokenPair, error) {
	now := time.Now()

	accessClaims := jwt.MapClaims{
		"sub":     user.ID,
		"name":    user.FirstName + " " + user.LastName,
		"email":   user.Email,
		"role":    user.Role,
		"purpose": PurposeAccess,
		"iat":     now.Unix(),
		"exp":     now.Add(i.accessTTL).Unix(),
	}
	_, accessToken, err := i.access.Encode(accessClaims)
	if err != nil {
		return nil, err
	}

	jti := uuid.NewString()
	refreshClaims := jwt.MapClaims{
		"sub":     user.ID,
		"jti":     jti,
		"purpose": PurposeRefresh,
		"iat":     now.Unix(),
		"exp":     now.Add(i.refreshTTL).Unix(),
	}
	_, refreshToken, err := i.refresh.Encode(refreshClaims)
	if err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, RefreshID: jti}, nil
}

// VerifyRefresh checks a refresh token's signature, expiry and purpose and
// returns its subject and jti. Every failure mode is collapsed into a single
// error; callers treat it as "unauthenticated".
func (i *TokenIssuer) VerifyRefresh(tokenString string) (userID, jti string, err error) {
	tok, err := jwtauth.VerifyToken(i.refresh, tokenString)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}
	if purpose, ok := tok.Get("purpose"); !ok || purpose != PurposeRefresh {
		return "", "", errors.New("invalid refresh token")
	}
	if tok.Subject() == "" || tok.JwtID() == "" {
		return "", "", errors.New("invalid refresh token")
	}
	return tok.Subject(), tok.JwtID(), nil
}

// VerifyAccess checks an access token outside the middleware path (tests,
// non-HTTP callers) and returns the subject on success.
func (i *TokenIssuer) VerifyAccess(tokenString string) (userID string, err error) {
	tok, err := jwtauth.VerifyToken(i.access, tokenString)
	if err != nil {
		return "", errors.New("invalid access token")
	}
	if purpose, ok := tok.Get("purpose"); !ok || purpose != PurposeAccess {
		return "", errors.New("invalid access token")
	}
	return tok.Subject(), nil
}

// Helper functions to extract claims, used by the auth middleware.
func GetUserIDFromClaims(claims jwt.MapClaims) (string, error) {
	id, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("sub claim is missing or not a string")
	}
	return id, nil
}

func GetUserRoleFromClaims(claims jwt.MapClaims) (string, error) {
	role, ok := claims["role"].(string)
	if !ok {
		return "", errors.New("role claim is missing or not a string")
	}
	return role, nil
}

func GetPurposeFromClaims(claims jwt.MapClaims) (string, error) {
	purpose, ok := claims["purpose"].(string)
	if !ok {
		return "", errors.New("purpose claim is missing or not a string")
	}
	return purpose, nil
}
