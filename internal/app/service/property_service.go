package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"homefind/internal/common"
	"homefind/internal/common/security"
	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"
	"homefind/internal/platform/objstore"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type PropertyService struct {
	propertyRepo repository.PropertyRepository
	imageRepo    repository.ImageRepository
	storage      objstore.ObjectStorage
	runTx        TxRunner
}

func NewPropertyService(
	propertyRepo repository.PropertyRepository,
	imageRepo repository.ImageRepository,
	storage objstore.ObjectStorage,
	runTx TxRunner,
) *PropertyService {
	return &PropertyService{
		propertyRepo: propertyRepo,
		imageRepo:    imageRepo,
		storage:      storage,
		runTx:        runTx,
	}
}

type CreatePropertyRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Price       float64             `json:"price"`
	Bedrooms    int                 `json:"bedrooms"`
	Bathrooms   int                 `json:"bathrooms"`
	AreaSqm     float64             `json:"area_sqm"`
	Type        model.PropertyType  `json:"type"`
	Status      model.ListingStatus `json:"status"`
	City        string              `json:"city"`
	District    string              `json:"district"`
	Address     string              `json:"address"`
	Features    []string            `json:"features"`
}

type UpdatePropertyRequest struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	Price       *float64             `json:"price,omitempty"`
	Bedrooms    *int                 `json:"bedrooms,omitempty"`
	Bathrooms   *int                 `json:"bathrooms,omitempty"`
	AreaSqm     *float64             `json:"area_sqm,omitempty"`
	Type        *model.PropertyType  `json:"type,omitempty"`
	Status      *model.ListingStatus `json:"status,omitempty"`
	City        *string              `json:"city,omitempty"`
	District    *string              `json:"district,omitempty"`
	Address     *string              `json:"address,omitempty"`
	Features    *[]string            `json:"features,omitempty"`
}

func validateListing(p *model.Property) error {
	if strings.TrimSpace(p.Title) == "" || strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("title and description are required: %w", common.ErrValidation)
	}
	if p.Price <= 0 {
		return fmt.Errorf("price must be positive: %w", common.ErrValidation)
	}
	if p.Bedrooms < 0 || p.Bathrooms < 0 || p.AreaSqm < 0 {
		return fmt.Errorf("bedrooms, bathrooms and area must not be negative: %w", common.ErrValidation)
	}
	if !model.ValidPropertyType(p.Type) {
		return fmt.Errorf("unknown property type %q: %w", p.Type, common.ErrValidation)
	}
	if !model.ValidListingStatus(p.Status) {
		return fmt.Errorf("unknown listing status %q: %w", p.Status, common.ErrValidation)
	}
	if strings.TrimSpace(p.City) == "" {
		return fmt.Errorf("city is required: %w", common.ErrValidation)
	}
	return nil
}

func (s *PropertyService) CreateProperty(ctx context.Context, ownerID string, req CreatePropertyRequest) (*model.Property, error) {
	property := &model.Property{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug.Make(req.Title),
		Description: req.Description,
		Price:       req.Price,
		Bedrooms:    req.Bedrooms,
		Bathrooms:   req.Bathrooms,
		AreaSqm:     req.AreaSqm,
		Type:        req.Type,
		Status:      req.Status,
		City:        strings.TrimSpace(req.City),
		District:    strings.TrimSpace(req.District),
		Address:     strings.TrimSpace(req.Address),
		Features:    dedupeFeatures(req.Features),
		OwnerID:     ownerID,
	}
	if err := validateListing(property); err != nil {
		return nil, err
	}

	err := s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.propertyRepo.Create(ctx, tx, property); err != nil {
			return err
		}
		if err := s.propertyRepo.SetFeatures(ctx, tx, property.ID, property.Features); err != nil {
			return common.Errorf("failed to set features: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return property, nil
}

// GetProperty resolves a listing by UUID or by slug and attaches its
// features and ordered images.
func (s *PropertyService) GetProperty(ctx context.Context, idOrSlug string) (*model.Property, error) {
	var property *model.Property
	var err error
	if uuid.Validate(idOrSlug) == nil {
		property, err = s.propertyRepo.FindByID(ctx, idOrSlug)
	} else {
		property, err = s.propertyRepo.FindBySlug(ctx, idOrSlug)
	}
	if err != nil {
		return nil, err
	}

	features, err := s.propertyRepo.GetFeatures(ctx, property.ID)
	if err != nil {
		log.Printf("WARN: Failed to fetch features for listing %s: %v", property.ID, err)
	}
	property.Features = features

	images, err := s.imageRepo.ListByProperty(ctx, property.ID)
	if err != nil {
		log.Printf("WARN: Failed to fetch images for listing %s: %v", property.ID, err)
	}
	property.Images = images

	return property, nil
}

// ClampPage normalizes pagination input: page >= 1 and 1 <= pageSize <= 100,
// defaulting pageSize to 20.
func ClampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

func (s *PropertyService) Search(ctx context.Context, f repository.PropertyFilter, page, pageSize int) ([]model.Property, int, int, int, error) {
	page, pageSize = ClampPage(page, pageSize)
	offset := (page - 1) * pageSize

	properties, total, err := s.propertyRepo.Search(ctx, f, pageSize, offset)
	if err != nil {
		return nil, 0, 0, 0, err
	}
	return properties, total, page, pageSize, nil
}

func (s *PropertyService) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	return s.propertyRepo.ListByOwner(ctx, ownerID)
}

func (s *PropertyService) UpdateProperty(ctx context.Context, id, requesterID string, isAdmin bool, req UpdatePropertyRequest) (*model.Property, error) {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !security.CanModify(property.OwnerID, requesterID, isAdmin) {
		return nil, common.ErrForbidden
	}

	if req.Title != nil {
		property.Title = strings.TrimSpace(*req.Title)
		property.Slug = slug.Make(property.Title)
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Price != nil {
		property.Price = *req.Price
	}
	if req.Bedrooms != nil {
		property.Bedrooms = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		property.Bathrooms = *req.Bathrooms
	}
	if req.AreaSqm != nil {
		property.AreaSqm = *req.AreaSqm
	}
	if req.Type != nil {
		property.Type = *req.Type
	}
	if req.Status != nil {
		property.Status = *req.Status
	}
	if req.City != nil {
		property.City = strings.TrimSpace(*req.City)
	}
	if req.District != nil {
		property.District = strings.TrimSpace(*req.District)
	}
	if req.Address != nil {
		property.Address = strings.TrimSpace(*req.Address)
	}
	if err := validateListing(property); err != nil {
		return nil, err
	}

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		if err := s.propertyRepo.Update(ctx, tx, property); err != nil {
			return err
		}
		if req.Features != nil {
			property.Features = dedupeFeatures(*req.Features)
			if err := s.propertyRepo.SetFeatures(ctx, tx, property.ID, property.Features); err != nil {
				return common.Errorf("failed to set features: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty removes the listing row (images, inquiries and favorites
// cascade) and then best-effort deletes the backing image objects.
func (s *PropertyService) DeleteProperty(ctx context.Context, id, requesterID string, isAdmin bool) error {
	property, err := s.propertyRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !security.CanModify(property.OwnerID, requesterID, isAdmin) {
		return common.ErrForbidden
	}

	images, err := s.imageRepo.ListByProperty(ctx, id)
	if err != nil {
		log.Printf("WARN: Failed to list images before deleting listing %s: %v", id, err)
	}

	if err := s.propertyRepo.Delete(ctx, id); err != nil {
		return err
	}

	for _, img := range images {
		if err := s.storage.Delete(ctx, img.URL); err != nil {
			log.Printf("WARN: Failed to delete image object %s: %v", img.URL, err)
		}
	}
	return nil
}

func dedupeFeatures(features []string) []string {
	seen := make(map[string]struct{}, len(features))
	out := make([]string, 0, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
