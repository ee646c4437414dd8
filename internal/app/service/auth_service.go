package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"homefind/internal/common"
	"homefind/internal/common/security"
	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"

	"github.com/google/uuid"
)

// RefreshSessionStore tracks live refresh-token IDs so logout and rotation
// actually invalidate old tokens.
type RefreshSessionStore interface {
	Save(ctx context.Context, jti, userID string, ttl time.Duration) error
	Exists(ctx context.Context, jti string) (bool, error)
	Revoke(ctx context.Context, jti string) error
}

type AuthService struct {
	userRepo repository.UserRepository
	tokens   *security.TokenIssuer
	sessions RefreshSessionStore
}

func NewAuthService(userRepo repository.UserRepository, tokens *security.TokenIssuer, sessions RefreshSessionStore) *AuthService {
	return &AuthService{userRepo: userRepo, tokens: tokens, sessions: sessions}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func validateRegistration(req RegisterRequest) error {
	if !emailPattern.MatchString(req.Email) {
		return fmt.Errorf("email is not a valid address: %w", common.ErrValidation)
	}
	if len(req.Password) < 8 {
		return fmt.Errorf("password must be at least 8 characters: %w", common.ErrValidation)
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return fmt.Errorf("first and last name are required: %w", common.ErrValidation)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validateRegistration(req); err != nil {
		return nil, err
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:             uuid.NewString(),
		Email:          req.Email,
		HashedPassword: hashedPassword,
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Phone:          strings.TrimSpace(req.Phone),
		Role:           model.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo returns common.ErrConflict on duplicate email
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issuePair(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, common.ErrBadRequest
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized // Generic message for security
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrUnauthorized
	}

	return s.issuePair(ctx, user)
}

// Refresh validates the presented refresh token, rotates its jti, and
// returns a fresh pair. Any failure collapses to unauthorized.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	userID, jti, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, common.ErrUnauthorized
	}

	live, err := s.sessions.Exists(ctx, jti)
	if err != nil {
		return nil, fmt.Errorf("failed to check refresh session: %w", err)
	}
	if !live {
		return nil, common.ErrUnauthorized
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return nil, fmt.Errorf("failed to rotate refresh session: %w", err)
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the refresh token's session. Revoking an already dead
// session is a no-op so logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	_, jti, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return common.ErrUnauthorized
	}
	if err := s.sessions.Revoke(ctx, jti); err != nil {
		return fmt.Errorf("failed to revoke refresh session: %w", err)
	}
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, user *model.User) (*AuthResponse, error) {
	pair, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tokens: %w", err)
	}
	if err := s.sessions.Save(ctx, pair.RefreshID, user.ID, s.tokens.RefreshTTL()); err != nil {
		return nil, fmt.Errorf("failed to save refresh session: %w", err)
	}
	user.HashedPassword = "" // Clear before returning
	return &AuthResponse{User: user, AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
