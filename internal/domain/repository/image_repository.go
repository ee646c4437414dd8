package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homefind/internal/common"
	"homefind/internal/domain/model"
)

type ImageRepository interface {
	// Insert assigns the image's sort order atomically and fills it in.
	Insert(ctx context.Context, img *model.PropertyImage) error
	FindByID(ctx context.Context, id string) (*model.PropertyImage, error)
	ListByProperty(ctx context.Context, propertyID string) ([]model.PropertyImage, error)
	CountByProperty(ctx context.Context, propertyID string) (int, error)
	Delete(ctx context.Context, id string) error
	UpdateOrder(ctx context.Context, tx *sql.Tx, id string, sortOrder int) error
}

type pgImageRepository struct {
	db *sql.DB
}

func NewPgImageRepository(db *sql.DB) ImageRepository {
	return &pgImageRepository{db: db}
}

// Insert computes the next sort order inside the INSERT itself so concurrent
// uploads to the same listing cannot assign duplicate positions.
func (r *pgImageRepository) Insert(ctx context.Context, img *model.PropertyImage) error {
	query := `INSERT INTO property_images (id, property_id, url, sort_order)
	          SELECT $1, $2, $3, COALESCE(MAX(sort_order) + 1, 0)
	          FROM property_images WHERE property_id = $2
	          RETURNING sort_order, created_at`
	err := r.db.QueryRowContext(ctx, query, img.ID, img.PropertyID, img.URL).
		Scan(&img.SortOrder, &img.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgImageRepository.Insert: %w", err)
	}
	return nil
}

func (r *pgImageRepository) FindByID(ctx context.Context, id string) (*model.PropertyImage, error) {
	query := `SELECT id, property_id, url, sort_order, created_at
	          FROM property_images WHERE id = $1`
	img := &model.PropertyImage{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&img.ID, &img.PropertyID, &img.URL, &img.SortOrder, &img.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgImageRepository.FindByID: %w", err)
	}
	return img, nil
}

func (r *pgImageRepository) ListByProperty(ctx context.Context, propertyID string) ([]model.PropertyImage, error) {
	query := `SELECT id, property_id, url, sort_order, created_at
	          FROM property_images WHERE property_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("pgImageRepository.ListByProperty query: %w", err)
	}
	defer rows.Close()

	images := []model.PropertyImage{}
	for rows.Next() {
		var img model.PropertyImage
		if err := rows.Scan(&img.ID, &img.PropertyID, &img.URL, &img.SortOrder, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgImageRepository.ListByProperty scan: %w", err)
		}
		images = append(images, img)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgImageRepository.ListByProperty rows.Err: %w", err)
	}
	return images, nil
}

func (r *pgImageRepository) CountByProperty(ctx context.Context, propertyID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM property_images WHERE property_id = $1`, propertyID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("pgImageRepository.CountByProperty: %w", err)
	}
	return count, nil
}

func (r *pgImageRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM property_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgImageRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgImageRepository) UpdateOrder(ctx context.Context, tx *sql.Tx, id string, sortOrder int) error {
	_, err := tx.ExecContext(ctx, `UPDATE property_images SET sort_order = $1 WHERE id = $2`, sortOrder, id)
	if err != nil {
		return fmt.Errorf("pgImageRepository.UpdateOrder: %w", err)
	}
	return nil
}
