package dto

import (
	"time"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// CreatePaymentRequest payload.
type CreatePaymentRequest struct {
	SaleID        string  `json:"saleId"`
	Amount        float64 `json:"amount"`
	PaymentType   string  `json:"paymentType"`
	PaymentMethod string  `json:"paymentMethod"`
	PaymentDate   string  `json:"paymentDate"`
	TransactionID string  `json:"transactionId"`
	Notes         string  `json:"notes"`
}

// UpdatePaymentStatusRequest payload.
type UpdatePaymentStatusRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// PaymentResponse represents a payment row.
type PaymentResponse struct {
	ID            string               `json:"id"`
	SaleID        string               `json:"saleId"`
	Amount        float64              `json:"amount"`
	PaymentType   string               `json:"paymentType"`
	PaymentMethod string               `json:"paymentMethod"`
	PaymentDate   string               `json:"paymentDate"`
	TransactionID string               `json:"transactionId"`
	Notes         string               `json:"notes"`
	Status        domain.PaymentStatus `json:"status"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// PaymentListingResponse is a payment with sale and buyer context.
type PaymentListingResponse struct {
	PaymentResponse
	SalePrice      float64 `json:"salePrice"`
	PropertyTitle  string  `json:"propertyTitle"`
	Address        string  `json:"address"`
	BuyerFirstName string  `json:"buyerFirstName"`
	BuyerLastName  string  `json:"buyerLastName"`
}

// NewPaymentResponse maps a payment row.
func NewPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		SaleID:        p.SaleID,
		Amount:        p.Amount,
		PaymentType:   p.PaymentType,
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate.Format(DateLayout),
		TransactionID: p.TransactionID,
		Notes:         p.Notes,
		Status:        p.Status,
		CreatedAt:     p.CreatedAt,
	}
}

// NewPaymentListingResponse maps the joined payment view.
func NewPaymentListingResponse(l *domain.PaymentListing) PaymentListingResponse {
	return PaymentListingResponse{
		PaymentResponse: NewPaymentResponse(&l.Payment),
		SalePrice:       l.SalePrice,
		PropertyTitle:   l.PropertyTitle,
		Address:         l.Address,
		BuyerFirstName:  l.BuyerFirstName,
		BuyerLastName:   l.BuyerLastName,
	}
}
