package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// PropertyFilter captures public listing filters.
type PropertyFilter struct {
	Status       *domain.PropertyStatus
	City         *string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType *string
}

// PropertyRepository encapsulates property persistence.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	Update(ctx context.Context, property *domain.Property) error
	// UpdateStatus writes only the status column.
	UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error
	Delete(ctx context.Context, id string) error
	// GetForUpdate reads the row and locks it until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.Property, error)
	GetListing(ctx context.Context, id string) (*domain.PropertyListing, error)
	List(ctx context.Context, filter PropertyFilter) ([]domain.PropertyListing, error)
}

type propertyRepository struct {
	db DBTX
}

const propertyColumns = `p.id, p.seller_id, p.title, p.description, p.price, p.address, p.city, p.state,
               p.zip_code, p.bedrooms, p.bathrooms, p.square_feet, p.property_type, p.image_url,
               p.status, p.created_at`

const propertyListingSelect = `SELECT ` + propertyColumns + `,
               u.first_name, u.last_name, u.email, u.phone
        FROM properties p
        JOIN users u ON p.seller_id = u.id`

func (r *propertyRepository) Create(ctx context.Context, property *domain.Property) error {
	const query = `
        INSERT INTO properties (seller_id, title, description, price, address, city, state, zip_code,
                                bedrooms, bathrooms, square_feet, property_type, image_url, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		property.SellerID,
		property.Title,
		property.Description,
		property.Price,
		property.Address,
		property.City,
		property.State,
		property.ZipCode,
		property.Bedrooms,
		property.Bathrooms,
		property.SquareFeet,
		property.PropertyType,
		property.ImageURL,
		property.Status,
	).Scan(&property.ID, &property.CreatedAt)
	return translateError(err)
}

func (r *propertyRepository) Update(ctx context.Context, property *domain.Property) error {
	const query = `
        UPDATE properties SET title=$1, description=$2, price=$3, address=$4, city=$5, state=$6,
            zip_code=$7, bedrooms=$8, bathrooms=$9, square_feet=$10, property_type=$11,
            image_url=$12, status=$13
        WHERE id=$14`
	cmd, err := r.db.Exec(ctx, query,
		property.Title,
		property.Description,
		property.Price,
		property.Address,
		property.City,
		property.State,
		property.ZipCode,
		property.Bedrooms,
		property.Bathrooms,
		property.SquareFeet,
		property.PropertyType,
		property.ImageURL,
		property.Status,
		property.ID,
	)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) UpdateStatus(ctx context.Context, id string, status domain.PropertyStatus) error {
	cmd, err := r.db.Exec(ctx, `UPDATE properties SET status=$1 WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM properties WHERE id=$1`, id)
	if err != nil {
		return translateError(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *propertyRepository) GetForUpdate(ctx context.Context, id string) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties p WHERE p.id=$1 FOR UPDATE`
	return scanProperty(r.db.QueryRow(ctx, query, id))
}

func (r *propertyRepository) GetListing(ctx context.Context, id string) (*domain.PropertyListing, error) {
	query := propertyListingSelect + ` WHERE p.id=$1`
	return scanPropertyListing(r.db.QueryRow(ctx, query, id))
}

func (r *propertyRepository) List(ctx context.Context, filter PropertyFilter) ([]domain.PropertyListing, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("p.status=$%d", len(args)))
	}
	if filter.City != nil && strings.TrimSpace(*filter.City) != "" {
		args = append(args, "%"+strings.ToLower(strings.TrimSpace(*filter.City))+"%")
		clauses = append(clauses, fmt.Sprintf("LOWER(p.city) LIKE $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		clauses = append(clauses, fmt.Sprintf("p.price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		clauses = append(clauses, fmt.Sprintf("p.price <= $%d", len(args)))
	}
	if filter.PropertyType != nil && *filter.PropertyType != "" {
		args = append(args, *filter.PropertyType)
		clauses = append(clauses, fmt.Sprintf("p.property_type=$%d", len(args)))
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY p.created_at DESC`, propertyListingSelect, strings.Join(clauses, " AND "))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PropertyListing
	for rows.Next() {
		listing, err := scanPropertyListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *listing)
	}
	return result, rows.Err()
}

func propertyFields(p *domain.Property) []any {
	return []any{
		&p.ID,
		&p.SellerID,
		&p.Title,
		&p.Description,
		&p.Price,
		&p.Address,
		&p.City,
		&p.State,
		&p.ZipCode,
		&p.Bedrooms,
		&p.Bathrooms,
		&p.SquareFeet,
		&p.PropertyType,
		&p.ImageURL,
		&p.Status,
		&p.CreatedAt,
	}
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var property domain.Property
	if err := row.Scan(propertyFields(&property)...); err != nil {
		return nil, err
	}
	return &property, nil
}

func scanPropertyListing(row pgx.Row) (*domain.PropertyListing, error) {
	var listing domain.PropertyListing
	dest := append(propertyFields(&listing.Property),
		&listing.Seller.FirstName,
		&listing.Seller.LastName,
		&listing.Seller.Email,
		&listing.Seller.Phone,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &listing, nil
}
