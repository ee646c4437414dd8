package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"homefind/internal/common"
	"homefind/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// PropertyFilter holds the search criteria. All supplied criteria are
// combined conjunctively; zero values mean "not filtered".
type PropertyFilter struct {
	Type         model.PropertyType
	Status       model.ListingStatus
	City         string
	District     string
	MinPrice     *float64
	MaxPrice     *float64
	MinBedrooms  *int
	MaxBedrooms  *int
	MinBathrooms *int
	MaxBathrooms *int
	MinArea      *float64
	MaxArea      *float64
	Features     []string // listing must carry all of these
	SearchTerm   string
	Sort         string // price_asc | price_desc | newest
}

type PropertyRepository interface {
	Create(ctx context.Context, tx *sql.Tx, p *model.Property) error
	Update(ctx context.Context, tx *sql.Tx, p *model.Property) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*model.Property, error)
	FindBySlug(ctx context.Context, slug string) (*model.Property, error)
	Search(ctx context.Context, f PropertyFilter, limit, offset int) ([]model.Property, int, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error)

	SetFeatures(ctx context.Context, tx *sql.Tx, propertyID string, features []string) error
	GetFeatures(ctx context.Context, propertyID string) ([]string, error)
}

type pgPropertyRepository struct {
	db *sql.DB
}

func NewPgPropertyRepository(db *sql.DB) PropertyRepository {
	return &pgPropertyRepository{db: db}
}

const propertyColumns = `p.id, p.title, p.slug, p.description, p.price, p.bedrooms, p.bathrooms,
	       p.area_sqm, p.type, p.status, p.city, p.district, p.address, p.owner_id,
	       p.created_at, p.updated_at`

func (r *pgPropertyRepository) Create(ctx context.Context, tx *sql.Tx, p *model.Property) error {
	query := `INSERT INTO properties (id, title, slug, description, price, bedrooms, bathrooms,
	            area_sqm, type, status, city, district, address, owner_id)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	args := []interface{}{
		p.ID, p.Title, p.Slug, p.Description, p.Price, p.Bedrooms, p.Bathrooms,
		p.AreaSqm, p.Type, p.Status, p.City, p.District, p.Address, p.OwnerID,
	}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("listing with this title already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPropertyRepository.Create: %w", err)
	}
	return nil
}

func (r *pgPropertyRepository) Update(ctx context.Context, tx *sql.Tx, p *model.Property) error {
	query := `UPDATE properties SET
	            title = $1, slug = $2, description = $3, price = $4, bedrooms = $5,
	            bathrooms = $6, area_sqm = $7, type = $8, status = $9, city = $10,
	            district = $11, address = $12, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $13`
	args := []interface{}{
		p.Title, p.Slug, p.Description, p.Price, p.Bedrooms, p.Bathrooms,
		p.AreaSqm, p.Type, p.Status, p.City, p.District, p.Address, p.ID,
	}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("listing with this title already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgPropertyRepository.Update: %w", err)
	}
	return nil
}

// Delete removes the listing; images, inquiries and favorites cascade at the
// DB level. Backing image objects are the service's concern.
func (r *pgPropertyRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgPropertyRepository.Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgPropertyRepository) FindByID(ctx context.Context, id string) (*model.Property, error) {
	query := `SELECT ` + propertyColumns + `, o.first_name || ' ' || o.last_name AS owner_name
	          FROM properties p
	          LEFT JOIN users o ON p.owner_id = o.id
	          WHERE p.id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id), "FindByID")
}

func (r *pgPropertyRepository) FindBySlug(ctx context.Context, slug string) (*model.Property, error) {
	query := `SELECT ` + propertyColumns + `, o.first_name || ' ' || o.last_name AS owner_name
	          FROM properties p
	          LEFT JOIN users o ON p.owner_id = o.id
	          WHERE p.slug = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, slug), "FindBySlug")
}

func (r *pgPropertyRepository) scanOne(row *sql.Row, op string) (*model.Property, error) {
	p := &model.Property{}
	err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Bedrooms, &p.Bathrooms,
		&p.AreaSqm, &p.Type, &p.Status, &p.City, &p.District, &p.Address, &p.OwnerID,
		&p.CreatedAt, &p.UpdatedAt, &p.OwnerName,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgPropertyRepository.%s: %w", op, err)
	}
	return p, nil
}

// buildSearchConditions translates a filter into a conjunctive WHERE clause
// with numbered placeholders. The clause is shared between the count and the
// page query; limit/offset placeholders are appended by the caller.
func buildSearchConditions(f PropertyFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}
	argID := 1

	add := func(cond string, vals ...interface{}) {
		conditions = append(conditions, cond)
		args = append(args, vals...)
		argID += len(vals)
	}

	if f.Type != "" {
		add(fmt.Sprintf("p.type = $%d", argID), f.Type)
	}
	if f.Status != "" {
		add(fmt.Sprintf("p.status = $%d", argID), f.Status)
	}
	if f.City != "" {
		add(fmt.Sprintf("p.city ILIKE $%d", argID), f.City)
	}
	if f.District != "" {
		add(fmt.Sprintf("p.district ILIKE $%d", argID), f.District)
	}
	if f.MinPrice != nil {
		add(fmt.Sprintf("p.price >= $%d", argID), *f.MinPrice)
	}
	if f.MaxPrice != nil {
		add(fmt.Sprintf("p.price <= $%d", argID), *f.MaxPrice)
	}
	if f.MinBedrooms != nil {
		add(fmt.Sprintf("p.bedrooms >= $%d", argID), *f.MinBedrooms)
	}
	if f.MaxBedrooms != nil {
		add(fmt.Sprintf("p.bedrooms <= $%d", argID), *f.MaxBedrooms)
	}
	if f.MinBathrooms != nil {
		add(fmt.Sprintf("p.bathrooms >= $%d", argID), *f.MinBathrooms)
	}
	if f.MaxBathrooms != nil {
		add(fmt.Sprintf("p.bathrooms <= $%d", argID), *f.MaxBathrooms)
	}
	if f.MinArea != nil {
		add(fmt.Sprintf("p.area_sqm >= $%d", argID), *f.MinArea)
	}
	if f.MaxArea != nil {
		add(fmt.Sprintf("p.area_sqm <= $%d", argID), *f.MaxArea)
	}

	if len(f.Features) > 0 {
		// "contains all of": count how many of the requested features the
		// listing carries and require the full set.
		placeholders := make([]string, len(f.Features))
		for i, feat := range f.Features {
			placeholders[i] = fmt.Sprintf("$%d", argID)
			args = append(args, feat)
			argID++
		}
		conditions = append(conditions, fmt.Sprintf(
			"(SELECT COUNT(DISTINCT pf.feature) FROM property_features pf WHERE pf.property_id = p.id AND pf.feature IN (%s)) = $%d",
			strings.Join(placeholders, ","), argID))
		args = append(args, len(f.Features))
		argID++
	}

	if f.SearchTerm != "" {
		conditions = append(conditions, fmt.Sprintf("(p.title ILIKE $%d OR p.description ILIKE $%d)", argID, argID+1))
		likeTerm := "%" + f.SearchTerm + "%"
		args = append(args, likeTerm, likeTerm)
		argID += 2
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func sortClause(sort string) string {
	switch sort {
	case "price_asc":
		return " ORDER BY p.price ASC"
	case "price_desc":
		return " ORDER BY p.price DESC"
	default: // "newest" and no sort key both fall back to insertion order
		return " ORDER BY p.created_at DESC"
	}
}

func (r *pgPropertyRepository) Search(ctx context.Context, f PropertyFilter, limit, offset int) ([]model.Property, int, error) {
	whereClause, args := buildSearchConditions(f)

	countQuery := `SELECT COUNT(*) FROM properties p` + whereClause
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgPropertyRepository.Search count: %w", err)
	}

	query := `SELECT ` + propertyColumns + ` FROM properties p` + whereClause + sortClause(f.Sort)
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgPropertyRepository.Search query: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Bedrooms,
			&p.Bathrooms, &p.AreaSqm, &p.Type, &p.Status, &p.City, &p.District, &p.Address,
			&p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("pgPropertyRepository.Search scan: %w", err)
		}
		properties = append(properties, p)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgPropertyRepository.Search rows.Err: %w", err)
	}

	return properties, total, nil
}

func (r *pgPropertyRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.owner_id = $1 ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pgPropertyRepository.ListByOwner query: %w", err)
	}
	defer rows.Close()

	properties := []model.Property{}
	for rows.Next() {
		var p model.Property
		if err := rows.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.Price, &p.Bedrooms,
			&p.Bathrooms, &p.AreaSqm, &p.Type, &p.Status, &p.City, &p.District, &p.Address,
			&p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgPropertyRepository.ListByOwner scan: %w", err)
		}
		properties = append(properties, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPropertyRepository.ListByOwner rows.Err: %w", err)
	}
	return properties, nil
}

// SetFeatures replaces the feature list of a listing inside the caller's
// transaction.
func (r *pgPropertyRepository) SetFeatures(ctx context.Context, tx *sql.Tx, propertyID string, features []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM property_features WHERE property_id = $1`, propertyID); err != nil {
		return fmt.Errorf("pgPropertyRepository.SetFeatures delete: %w", err)
	}
	if len(features) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO property_features (property_id, feature) VALUES ($1, $2)`)
	if err != nil {
		return fmt.Errorf("pgPropertyRepository.SetFeatures prepare: %w", err)
	}
	defer stmt.Close()

	for _, feat := range features {
		if _, err := stmt.ExecContext(ctx, propertyID, feat); err != nil {
			return fmt.Errorf("pgPropertyRepository.SetFeatures exec for %q: %w", feat, err)
		}
	}
	return nil
}

func (r *pgPropertyRepository) GetFeatures(ctx context.Context, propertyID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT feature FROM property_features WHERE property_id = $1 ORDER BY feature`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("pgPropertyRepository.GetFeatures query: %w", err)
	}
	defer rows.Close()

	var features []string
	for rows.Next() {
		var feat string
		if err := rows.Scan(&feat); err != nil {
			return nil, fmt.Errorf("pgPropertyRepository.GetFeatures scan: %w", err)
		}
		features = append(features, feat)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgPropertyRepository.GetFeatures rows.Err: %w", err)
	}
	return features, nil
}
