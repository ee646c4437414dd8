package service

import (
	"context"
	"fmt"
	"strings"

	"homefind/internal/common"
	"homefind/internal/common/security"
	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"

	"github.com/google/uuid"
)

type InquiryService struct {
	inquiryRepo  repository.InquiryRepository
	propertyRepo repository.PropertyRepository
}

func NewInquiryService(inquiryRepo repository.InquiryRepository, propertyRepo repository.PropertyRepository) *InquiryService {
	return &InquiryService{inquiryRepo: inquiryRepo, propertyRepo: propertyRepo}
}

type CreateInquiryRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// CreateInquiry records a message to a listing's owner. userID is empty for
// anonymous senders, in which case all three contact fields are required.
func (s *InquiryService) CreateInquiry(ctx context.Context, propertyID, userID string, req CreateInquiryRequest) (*model.Inquiry, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required: %w", common.ErrValidation)
	}

	inquiry := &model.Inquiry{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
		Message:    strings.TrimSpace(req.Message),
	}

	if userID != "" {
		inquiry.UserID = &userID
	} else {
		name := strings.TrimSpace(req.Name)
		email := strings.ToLower(strings.TrimSpace(req.Email))
		phone := strings.TrimSpace(req.Phone)
		if name == "" || email == "" || phone == "" {
			return nil, fmt.Errorf("anonymous inquiries require name, email and phone: %w", common.ErrValidation)
		}
		if !emailPattern.MatchString(email) {
			return nil, fmt.Errorf("email is not a valid address: %w", common.ErrValidation)
		}
		inquiry.Name = &name
		inquiry.Email = &email
		inquiry.Phone = &phone
	}

	if err := s.inquiryRepo.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	return inquiry, nil
}

// ListForProperty is restricted to the listing's owner (or an admin).
func (s *InquiryService) ListForProperty(ctx context.Context, propertyID, requesterID string, isAdmin bool) ([]model.Inquiry, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !security.CanModify(property.OwnerID, requesterID, isAdmin) {
		return nil, common.ErrForbidden
	}
	return s.inquiryRepo.ListByProperty(ctx, propertyID)
}

// DeleteInquiry may be performed by an admin, the listing's owner, the
// inquiry's original sender, or (for anonymous inquiries) a requester whose
// token email matches the inquiry's contact email.
func (s *InquiryService) DeleteInquiry(ctx context.Context, inquiryID, requesterID, requesterEmail string, isAdmin bool) error {
	inquiry, err := s.inquiryRepo.FindByID(ctx, inquiryID)
	if err != nil {
		return err
	}
	property, err := s.propertyRepo.FindByID(ctx, inquiry.PropertyID)
	if err != nil {
		return err
	}

	allowed := security.CanModify(property.OwnerID, requesterID, isAdmin)
	if !allowed && inquiry.UserID != nil && *inquiry.UserID == requesterID {
		allowed = true
	}
	if !allowed && inquiry.UserID == nil && inquiry.Email != nil && requesterEmail != "" &&
		strings.EqualFold(*inquiry.Email, requesterEmail) {
		allowed = true
	}
	if !allowed {
		return common.ErrForbidden
	}

	return s.inquiryRepo.Delete(ctx, inquiryID)
}
