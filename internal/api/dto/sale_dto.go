package dto

import (
	"time"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateSaleRequest payload. BuyerID is honoured for admins only.
type CreateSaleRequest struct {
	PropertyID string   `json:"propertyId"`
	BuyerID    *string  `json:"buyerId"`
	SellerID   *string  `json:"sellerId"`
	SalePrice  *float64 `json:"salePrice"`
	Commission *float64 `json:"commission"`
	SaleDate   string   `json:"saleDate"`
	Notes      string   `json:"notes"`
}

// UpdateSaleRequest payload.
type UpdateSaleRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

// SaleResponse represents a sale row.
type SaleResponse struct {
	ID         string            `json:"id"`
	PropertyID string            `json:"propertyId"`
	BuyerID    string            `json:"buyerId"`
	SellerID   string            `json:"sellerId"`
	SalePrice  float64           `json:"salePrice"`
	Commission float64           `json:"commission"`
	SaleDate   string            `json:"saleDate"`
	Status     domain.SaleStatus `json:"status"`
	Notes      string            `json:"notes"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// PartyResponse names a sale participant.
type PartyResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// SaleListingResponse is a sale with property and participant context.
type SaleListingResponse struct {
	SaleResponse
	PropertyTitle string        `json:"propertyTitle"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	State         string        `json:"state"`
	Buyer         PartyResponse `json:"buyer"`
	Seller        PartyResponse `json:"seller"`
}

// SaleCount is a count with an optional value total.
type SaleCount struct {
	Count      int64    `json:"count"`
	TotalValue *float64 `json:"totalValue,omitempty"`
}

// MonthlySalesResponse is one month of completed sales.
type MonthlySalesResponse struct {
	Month      int     `json:"month"`
	Count      int64   `json:"count"`
	TotalValue float64 `json:"total_value"`
}

// SaleStatsResponse aggregates sales for the admin dashboard.
type SaleStatsResponse struct {
	TotalSales   SaleCount              `json:"totalSales"`
	PendingSales SaleCount              `json:"pendingSales"`
	MonthlySales []MonthlySalesResponse `json:"monthlySales"`
}

// NewSaleResponse maps a sale row.
func NewSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		ID:         s.ID,
		PropertyID: s.PropertyID,
		BuyerID:    s.BuyerID,
		SellerID:   s.SellerID,
		SalePrice:  s.SalePrice,
		Commission: s.Commission,
		SaleDate:   s.SaleDate.Format(DateLayout),
		Status:     s.Status,
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
	}
}

// NewSaleListingResponse maps the joined sale view.
func NewSaleListingResponse(l *domain.SaleListing) SaleListingResponse {
	return SaleListingResponse{
		SaleResponse:  NewSaleResponse(&l.Sale),
		PropertyTitle: l.PropertyTitle,
		Address:       l.Address,
		City:          l.City,
		State:         l.State,
		Buyer:         PartyResponse{FirstName: l.Buyer.FirstName, LastName: l.Buyer.LastName, Email: l.Buyer.Email},
		Seller:        PartyResponse{FirstName: l.Seller.FirstName, LastName: l.Seller.LastName, Email: l.Seller.Email},
	}
}

// NewSaleStatsResponse maps sale aggregates.
func NewSaleStatsResponse(s *domain.SaleStats) SaleStatsResponse {
	total := s.CompletedValue
	resp := SaleStatsResponse{
		TotalSales:   SaleCount{Count: s.CompletedCount, TotalValue: &total},
		PendingSales: SaleCount{Count: s.PendingCount},
		MonthlySales: make([]MonthlySalesResponse, 0, len(s.Monthly)),
	}
	for _, m := range s.Monthly {
		resp.MonthlySales = append(resp.MonthlySales, MonthlySalesResponse{Month: m.Month, Count: m.Count, TotalValue: m.TotalValue})
	}
	return resp
}
