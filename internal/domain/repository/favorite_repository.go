package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homefind/internal/common"
	"homefind/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type FavoriteRepository interface {
	Create(ctx context.Context, fav *model.Favorite) error
	Delete(ctx context.Context, userID, propertyID string) error
	ListByUser(ctx context.Context, userID string) ([]model.Property, error)
}

type pgFavoriteRepository struct {
	db *sql.DB
}

func NewPgFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &pgFavoriteRepository{db: db}
}

func (r *pgFavoriteRepository) Create(ctx context.Context, fav *model.Favorite) error {
	query := `INSERT INTO favorites (user_id, property_id) VALUES ($1, $2) RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query, fav.UserID, fav.PropertyID).Scan(&fav.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // (user_id, property_id) primary key
			return fmt.Errorf("listing already favorited: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgFavoriteRepository.Create: %w", err)
	}
	return nil
}

func (r *pgFavoriteRepository) Delete(ctx context.Context, userID, propertyID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM favorites WHERE user_id = $1 AND property_id = $2`, userID, propertyID)
	if err != nil {
		return fmt.Errorf("pgFavoriteRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgFavoriteRepository) ListByUser(ctx context.Context, userID string) ([]model.Property, error) {
	query := `SELECT ` + propertyColumns + `
	          FROM favorites f
	          JOIN properties p ON f.property_id = p.id
	          WHERE f.user_id = $1
	          ORDER BY f.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("pgFavoriteRepository.ListByUser query: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Bedrooms,
			&p.Bathrooms, &p.AreaSqm, &p.Type, &p.Status, &p.City, &p.District, &p.Address,
			&p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgFavoriteRepository.ListByUser scan: %w", err)
		}
		properties = append(properties, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgFavoriteRepository.ListByUser rows.Err: %w", err)
	}
	return properties, nil
}
