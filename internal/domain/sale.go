package domain

import (
	"strings"
	"time"
)

// SaleStatus enumerates sale lifecycle states.
type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// ParseSaleStatus validates a raw status value.
func ParseSaleStatus(raw string) (SaleStatus, bool) {
	status := SaleStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case SaleStatusPending, SaleStatusCompleted, SaleStatusCancelled:
		return status, true
	}
	return "", false
}

// IsTerminal reports whether s ends the sale lifecycle.
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusCompleted || s == SaleStatusCancelled
}

// Sale records a transaction between a buyer and a seller for one property.
type Sale struct {
	ID         string
	PropertyID string
	BuyerID    string
	SellerID   string
	SalePrice  float64
	Commission float64
	SaleDate   time.Time
	Status     SaleStatus
	Notes      string
	CreatedAt  time.Time
}

// Party is the name block of a sale participant.
type Party struct {
	FirstName string
	LastName  string
	Email     string
}

// SaleListing joins a sale with its property and participants.
type SaleListing struct {
	Sale
	PropertyTitle string
	Address       string
	City          string
	State         string
	Buyer         Party
	Seller        Party
}

// MonthlySales aggregates completed sales of one calendar month.
type MonthlySales struct {
	Month      int
	Count      int64
	TotalValue float64
}

// SaleStats summarizes sales for reporting.
type SaleStats struct {
	CompletedCount int64
	CompletedValue float64
	PendingCount   int64
	Monthly        []MonthlySales
}
