package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// PaymentRepository encapsulates payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	// UpdateStatus sets the status of id, and its notes when notes is non-nil.
	// It reports whether a row matched; unknown ids are not an error.
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, notes *string) (bool, error)
	ListBySale(ctx context.Context, saleID string) ([]domain.Payment, error)
	ListAll(ctx context.Context) ([]domain.PaymentListing, error)
}

type paymentRepository struct {
	db DBTX
}

const paymentColumns = `p.id, p.sale_id, p.amount, p.payment_type, p.payment_method, p.payment_date,
               p.transaction_id, p.notes, p.status, p.created_at`

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (sale_id, amount, payment_type, payment_method, payment_date, transaction_id, notes, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	err := r.db.QueryRow(ctx, query,
		payment.SaleID,
		payment.Amount,
		payment.PaymentType,
		payment.PaymentMethod,
		payment.PaymentDate,
		payment.TransactionID,
		payment.Notes,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)
	return translateError(err)
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus, notes *string) (bool, error) {
	cmd, err := r.db.Exec(ctx, `UPDATE payments SET status=$1, notes=COALESCE($2, notes) WHERE id=$3`, status, notes, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *paymentRepository) ListBySale(ctx context.Context, saleID string) ([]domain.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments p WHERE p.sale_id=$1 ORDER BY p.payment_date DESC, p.created_at DESC`
	rows, err := r.db.Query(ctx, query, saleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(paymentFields(&payment)...); err != nil {
			return nil, err
		}
		result = append(result, payment)
	}
	return result, rows.Err()
}

func (r *paymentRepository) ListAll(ctx context.Context) ([]domain.PaymentListing, error) {
	query := `SELECT ` + paymentColumns + `,
               s.sale_price, pr.title, pr.address, b.first_name, b.last_name
        FROM payments p
        JOIN sales s ON p.sale_id = s.id
        JOIN properties pr ON s.property_id = pr.id
        JOIN users b ON s.buyer_id = b.id
        ORDER BY p.payment_date DESC, p.created_at DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PaymentListing
	for rows.Next() {
		listing, err := scanPaymentListing(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *listing)
	}
	return result, rows.Err()
}

func paymentFields(p *domain.Payment) []any {
	return []any{
		&p.ID,
		&p.SaleID,
		&p.Amount,
		&p.PaymentType,
		&p.PaymentMethod,
		&p.PaymentDate,
		&p.TransactionID,
		&p.Notes,
		&p.Status,
		&p.CreatedAt,
	}
}

func scanPaymentListing(row pgx.Row) (*domain.PaymentListing, error) {
	var listing domain.PaymentListing
	dest := append(paymentFields(&listing.Payment),
		&listing.SalePrice,
		&listing.PropertyTitle,
		&listing.Address,
		&listing.BuyerFirstName,
		&listing.BuyerLastName,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &listing, nil
}
