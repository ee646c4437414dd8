package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homefind/internal/common"
	"homefind/internal/domain/model"
)

type InquiryRepository interface {
	Create(ctx context.Context, inquiry *model.Inquiry) error
	FindByID(ctx context.Context, id string) (*model.Inquiry, error)
	ListByProperty(ctx context.Context, propertyID string) ([]model.Inquiry, error)
	Delete(ctx context.Context, id string) error
}

type pgInquiryRepository struct {
	db *sql.DB
}

func NewPgInquiryRepository(db *sql.DB) InquiryRepository {
	return &pgInquiryRepository{db: db}
}

func (r *pgInquiryRepository) Create(ctx context.Context, inquiry *model.Inquiry) error {
	query := `INSERT INTO inquiries (id, property_id, user_id, name, email, phone, message)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		inquiry.ID, inquiry.PropertyID, inquiry.UserID, inquiry.Name, inquiry.Email, inquiry.Phone, inquiry.Message,
	).Scan(&inquiry.CreatedAt)
	if err != nil {
		return fmt.Errorf("pgInquiryRepository.Create: %w", err)
	}
	return nil
}

func (r *pgInquiryRepository) FindByID(ctx context.Context, id string) (*model.Inquiry, error) {
	query := `SELECT id, property_id, user_id, name, email, phone, message, created_at
	          FROM inquiries WHERE id = $1`
	inq := &model.Inquiry{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&inq.ID, &inq.PropertyID, &inq.UserID, &inq.Name, &inq.Email, &inq.Phone, &inq.Message, &inq.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgInquiryRepository.FindByID: %w", err)
	}
	return inq, nil
}

func (r *pgInquiryRepository) ListByProperty(ctx context.Context, propertyID string) ([]model.Inquiry, error) {
	query := `SELECT id, property_id, user_id, name, email, phone, message, created_at
	          FROM inquiries WHERE property_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, propertyID)
	if err != nil {
		return nil, fmt.Errorf("pgInquiryRepository.ListByProperty query: %w", err)
	}
	defer rows.Close()

	inquiries := []model.Inquiry{}
	for rows.Next() {
		var inq model.Inquiry
		if err := rows.Scan(&inq.ID, &inq.PropertyID, &inq.UserID, &inq.Name, &inq.Email, &inq.Phone, &inq.Message, &inq.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgInquiryRepository.ListByProperty scan: %w", err)
		}
		inquiries = append(inquiries, inq)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgInquiryRepository.ListByProperty rows.Err: %w", err)
	}
	return inquiries, nil
}

func (r *pgInquiryRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgInquiryRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}
