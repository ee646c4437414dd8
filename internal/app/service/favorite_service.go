package service

import (
	"context"

	"homefind/internal/domain/model"
	"homefind/internal/domain/repository"
)

type FavoriteService struct {
	favoriteRepo repository.FavoriteRepository
	propertyRepo repository.PropertyRepository
}

func NewFavoriteService(favoriteRepo repository.FavoriteRepository, propertyRepo repository.PropertyRepository) *FavoriteService {
	return &FavoriteService{favoriteRepo: favoriteRepo, propertyRepo: propertyRepo}
}

// AddFavorite bookmarks a listing. Favoriting the same listing twice is a
// conflict surfaced by the unique (user, property) pair.
func (s *FavoriteService) AddFavorite(ctx context.Context, userID, propertyID string) (*model.Favorite, error) {
	if _, err := s.propertyRepo.FindByID(ctx, propertyID); err != nil {
		return nil, err
	}

	fav := &model.Favorite{UserID: userID, PropertyID: propertyID}
	if err := s.favoriteRepo.Create(ctx, fav); err != nil {
		return nil, err
	}
	return fav, nil
}

func (s *FavoriteService) RemoveFavorite(ctx context.Context, userID, propertyID string) error {
	return s.favoriteRepo.Delete(ctx, userID, propertyID)
}

func (s *FavoriteService) ListFavorites(ctx context.Context, userID string) ([]model.Property, error) {
	return s.favoriteRepo.ListByUser(ctx, userID)
}
