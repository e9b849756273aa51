package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// SaleScope restricts a sale listing to one participant. The zero value lists all sales.
type SaleScope struct {
	BuyerID  *string
	SellerID *string
}

// SaleRepository encapsulates sale persistence.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	// Update writes status and notes.
	Update(ctx context.Context, sale *domain.Sale) error
	GetByID(ctx context.Context, id string) (*domain.Sale, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Sale, error)
	GetListing(ctx context.Context, id string) (*domain.SaleListing, error)
	List(ctx context.Context, scope SaleScope) ([]domain.SaleListing, error)
	// Stats aggregates sales; the monthly breakdown covers completed sales dated in year.
	Stats(ctx context.Context, year int) (*domain.SaleStats, error)
}

type saleRepository struct {
	db DBTX
}

const saleColumns = `s.id, s.property_id, s.buyer_id, s.seller_id, s.sale_price, s.commission,
               s.sale_date, s.status, s.notes, s.created_at`

const saleListingSelect = `SELECT ` + saleColumns + `,
               p.title, p.address, p.city, p.state,
               b.first_name, b.last_name, b.email,
               sel.first_name, sel.last_name, sel.email
        FROM sales s
        JOIN properties p ON s.property_id = p.id
        JOIN users b ON s.buyer_id = b.id
        JOIN users sel ON s.seller_id = sel.id`

func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	const query = `
        INSERT INTO sales (property_id, buyer_id, seller_id, sale_price, commission, sale_date, status, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		sale.PropertyID,
		sale.BuyerID,
		sale.SellerID,
		sale.SalePrice,
		sale.Commission,
		sale.SaleDate,
		sale.Status,
		sale.Notes,
	).Scan(&sale.ID, &sale.CreatedAt)
	return translateError(err)
}

func (r *saleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	cmd, err := r.db.Exec(ctx, `UPDATE sales SET status=$1, notes=$2 WHERE id=$3`, sale.Status, sale.Notes, sale.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *saleRepository) GetByID(ctx context.Context, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE s.id=$1`
	return scanSale(r.db.QueryRow(ctx, query, id))
}

func (r *saleRepository) GetForUpdate(ctx context.Context, id string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales s WHERE s.id=$1 FOR UPDATE`
	return scanSale(r.db.QueryRow(ctx, query, id))
}

func (r *saleRepository) GetListing(ctx context.Context, id string) (*domain.SaleListing, error) {
	return scanSaleListing(r.db.QueryRow(ctx, saleListingSelect+` WHERE s.id=$1`, id))
}

func (r *saleRepository) List(ctx context.Context, scope SaleScope) ([]domain.SaleListing, error) {
	query := saleListingSelect
	args := []any{}
	switch {
	case scope.SellerID != nil:
		args = append(args, *scope.SellerID)
		query += fmt.Sprintf(` WHERE s.seller_id=$%d`, len(args))
	case scope.BuyerID != nil:
		args = append(args, *scope.BuyerID)
		query += fmt.Sprintf(` WHERE s.buyer_id=$%d`, len(args))
	}
	query += ` ORDER BY s.created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.SaleListing
	for rows.Next() {
		listing, err := scanSaleListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *listing)
	}
	return result, rows.Err()
}

func (r *saleRepository) Stats(ctx context.Context, year int) (*domain.SaleStats, error) {
	stats := &domain.SaleStats{Monthly: []domain.MonthlySales{}}

	const totals = `
        SELECT COUNT(*) FILTER (WHERE status='completed'),
               COALESCE(SUM(sale_price) FILTER (WHERE status='completed'), 0)::float8,
               COUNT(*) FILTER (WHERE status='pending')
        FROM sales`
	if err := r.db.QueryRow(ctx, totals).Scan(&stats.CompletedCount, &stats.CompletedValue, &stats.PendingCount); err != nil {
		return nil, err
	}

	const monthly = `
        SELECT EXTRACT(MONTH FROM sale_date)::int AS month, COUNT(*), SUM(sale_price)::float8
        FROM sales
        WHERE status='completed' AND EXTRACT(YEAR FROM sale_date)::int = $1
        GROUP BY month
        ORDER BY month`
	rows, err := r.db.Query(ctx, monthly, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.MonthlySales
		if err := rows.Scan(&m.Month, &m.Count, &m.TotalValue); err != nil {
			return nil, err
		}
		stats.Monthly = append(stats.Monthly, m)
	}
	return stats, rows.Err()
}

func saleFields(s *domain.Sale) []any {
	return []any{
		&s.ID,
		&s.PropertyID,
		&s.BuyerID,
		&s.SellerID,
		&s.SalePrice,
		&s.Commission,
		&s.SaleDate,
		&s.Status,
		&s.Notes,
		&s.CreatedAt,
	}
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var sale domain.Sale
	if err := row.Scan(saleFields(&sale)...); err != nil {
		return nil, err
	}
	return &sale, nil
}

func scanSaleListing(row pgx.Row) (*domain.SaleListing, error) {
	var listing domain.SaleListing
	dest := append(saleFields(&listing.Sale),
		&listing.PropertyTitle,
		&listing.Address,
		&listing.City,
		&listing.State,
		&listing.Buyer.FirstName,
		&listing.Buyer.LastName,
		&listing.Buyer.Email,
		&listing.Seller.FirstName,
		&listing.Seller.LastName,
		&listing.Seller.Email,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &listing, nil
}
