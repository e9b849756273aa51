package domain

import "time"

// PaymentStatus is set by admins; values are stored as given.
type PaymentStatus string

// PaymentStatusPending is the status of a newly recorded payment.
const PaymentStatusPending PaymentStatus = "pending"

// Payment is an amount paid against a sale.
type Payment struct {
	ID            string
	SaleID        string
	Amount        float64
	PaymentType   string
	PaymentMethod string
	PaymentDate   time.Time
	TransactionID string
	Notes         string
	Status        PaymentStatus
	CreatedAt     time.Time
}

// PaymentListing enriches a payment with its sale context.
type PaymentListing struct {
	Payment
	SalePrice      float64
	PropertyTitle  string
	Address        string
	BuyerFirstName string
	BuyerLastName  string
}
