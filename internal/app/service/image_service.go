package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"mime"
	"path/filepath"
	"strings"

	"homefind/internal/common"
	"homefind/internal/common/security"
	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"
	"homefind/internal/platform/objstore"

	"github.com/google/uuid"
)

const (
	maxImageBytes        = 10 << 20 // 10 MiB
	maxImagesPerProperty = 20
)

var allowedImageExts = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var allowedImageMimes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type ImageService struct {
	propertyRepo repository.PropertyRepository
	imageRepo    repository.ImageRepository
	storage      objstore.ObjectStorage
	runTx        TxRunner
}

func NewImageService(
	propertyRepo repository.PropertyRepository,
	imageRepo repository.ImageRepository,
	storage objstore.ObjectStorage,
	runTx TxRunner,
) *ImageService {
	return &ImageService{
		propertyRepo: propertyRepo,
		imageRepo:    imageRepo,
		storage:      storage,
		runTx:        runTx,
	}
}

func validateImageUpload(filename, contentType string, size int) (ext string, err error) {
	if size == 0 {
		return "", fmt.Errorf("file is empty: %w", common.ErrValidation)
	}
	if size > maxImageBytes {
		return "", fmt.Errorf("file exceeds the 10MB limit: %w", common.ErrValidation)
	}

	ext = strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	if _, ok := allowedImageExts[ext]; !ok {
		return "", fmt.Errorf("file extension %q is not allowed: %w", ext, common.ErrValidation)
	}

	// Both the extension and the declared MIME type must pass the allow-list.
	mediaType := contentType
	if parsed, _, perr := mime.ParseMediaType(contentType); perr == nil {
		mediaType = parsed
	}
	if !allowedImageMimes[strings.ToLower(mediaType)] {
		return "", fmt.Errorf("content type %q is not allowed: %w", contentType, common.ErrValidation)
	}
	return ext, nil
}

// AddImage validates the upload, stores the bytes with the object storage
// collaborator and persists only the returned URL. The sort order is
// assigned by the storage layer in a single statement.
func (s *ImageService) AddImage(ctx context.Context, propertyID, requesterID string, isAdmin bool, filename, contentType string, data []byte) (*model.PropertyImage, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !security.CanModify(property.OwnerID, requesterID, isAdmin) {
		return nil, common.ErrForbidden
	}

	ext, err := validateImageUpload(filename, contentType, len(data))
	if err != nil {
		return nil, err
	}

	// Count-then-insert: concurrent uploads to the same listing can land a
	// few past the cap. Only the sort order is assigned atomically.
	count, err := s.imageRepo.CountByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if count >= maxImagesPerProperty {
		return nil, fmt.Errorf("maximum of %d images per listing reached: %w", maxImagesPerProperty, common.ErrValidation)
	}

	img := &model.PropertyImage{
		ID:         uuid.NewString(),
		PropertyID: propertyID,
	}

	url, err := s.storage.Put(ctx, img.ID+"."+ext, data)
	if err != nil {
		return nil, common.Errorf("failed to store image bytes: %w", err)
	}
	img.URL = url

	if err := s.imageRepo.Insert(ctx, img); err != nil {
		// The reference row failed; don't leave the object orphaned.
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			log.Printf("WARN: Failed to clean up image object %s: %v", url, delErr)
		}
		return nil, err
	}
	return img, nil
}

// RemoveImage deletes the reference row, then best-effort deletes the
// backing object. A failed object delete is logged, never fatal.
func (s *ImageService) RemoveImage(ctx context.Context, propertyID, imageID, requesterID string, isAdmin bool) error {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return err
	}
	if !security.CanModify(property.OwnerID, requesterID, isAdmin) {
		return common.ErrForbidden
	}

	img, err := s.imageRepo.FindByID(ctx, imageID)
	if err != nil {
		return err
	}
	if img.PropertyID != propertyID {
		return common.ErrNotFound
	}

	if err := s.imageRepo.Delete(ctx, imageID); err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, img.URL); err != nil {
		log.Printf("WARN: Failed to delete image object %s: %v", img.URL, err)
	}
	return nil
}

// ReorderImages accepts a full permutation of the listing's image ids and
// assigns sort order by position. A supplied set that does not exactly match
// the existing ids is rejected entirely.
func (s *ImageService) ReorderImages(ctx context.Context, propertyID string, orderedIDs []string, requesterID string, isAdmin bool) ([]model.PropertyImage, error) {
	property, err := s.propertyRepo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !security.CanModify(property.OwnerID, requesterID, isAdmin) {
		return nil, common.ErrForbidden
	}

	existing, err := s.imageRepo.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if !sameIDSet(existing, orderedIDs) {
		return nil, fmt.Errorf("supplied image ids do not match the listing's images: %w", common.ErrValidation)
	}

	err = s.runTx(ctx, func(tx *sql.Tx) error {
		for position, id := range orderedIDs {
			if err := s.imageRepo.UpdateOrder(ctx, tx, id, position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.imageRepo.ListByProperty(ctx, propertyID)
}

func sameIDSet(existing []model.PropertyImage, orderedIDs []string) bool {
	if len(existing) != len(orderedIDs) {
		return false
	}
	ids := make(map[string]bool, len(existing))
	for _, img := range existing {
		ids[img.ID] = true
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		if !ids[id] || seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}
