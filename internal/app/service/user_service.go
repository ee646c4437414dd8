package service

import (
	"context"
	"fmt"
	"strings"

	"homefind/internal/common"
	"homefind/internal/common/security"
	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (s *UserService) GetProfile(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.HashedPassword = ""
	return user, nil
}

// UpdateProfile applies a partial update. Only the profile's owner or an
// admin may change it.
func (s *UserService) UpdateProfile(ctx context.Context, targetID, requesterID string, isAdmin bool, req UpdateProfileRequest) (*model.User, error) {
	if !security.CanModify(targetID, requesterID, isAdmin) {
		return nil, common.ErrForbidden
	}

	user, err := s.userRepo.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if !emailPattern.MatchString(email) {
			return nil, fmt.Errorf("email is not a valid address: %w", common.ErrValidation)
		}
		user.Email = email
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Phone != nil {
		user.Phone = strings.TrimSpace(*req.Phone)
	}
	if user.FirstName == "" || user.LastName == "" {
		return nil, fmt.Errorf("first and last name are required: %w", common.ErrValidation)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.HashedPassword = ""
	return user, nil
}

// DeleteAccount removes the user; owned listings cascade at the DB level.
func (s *UserService) DeleteAccount(ctx context.Context, targetID, requesterID string, isAdmin bool) error {
	if !security.CanModify(targetID, requesterID, isAdmin) {
		return common.ErrForbidden
	}
	return s.userRepo.Delete(ctx, targetID)
}
