package domain

import (
	"strings"
	"time"
)

// PropertyStatus enumerates listing availability.
type PropertyStatus string

const (
	PropertyStatusAvailable PropertyStatus = "available"
	PropertyStatusPending   PropertyStatus = "pending"
	PropertyStatusSold      PropertyStatus = "sold"
)

var propertyTransitions = map[PropertyStatus][]PropertyStatus{
	PropertyStatusAvailable: {PropertyStatusPending},
	PropertyStatusPending:   {PropertyStatusSold, PropertyStatusAvailable},
	PropertyStatusSold:      {},
}

// ParsePropertyStatus validates a raw status value.
func ParsePropertyStatus(raw string) (PropertyStatus, bool) {
	status := PropertyStatus(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := propertyTransitions[status]; ok {
		return status, true
	}
	return "", false
}

// CanTransitionTo reports whether next follows s in the sale-driven lifecycle.
func (s PropertyStatus) CanTransitionTo(next PropertyStatus) bool {
	for _, candidate := range propertyTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no lifecycle transition leaves s.
func (s PropertyStatus) IsTerminal() bool {
	return len(propertyTransitions[s]) == 0
}

// Property is a listing owned by a seller.
type Property struct {
	ID           string
	SellerID     string
	Title        string
	Description  string
	Price        float64
	Address      string
	City         string
	State        string
	ZipCode      string
	Bedrooms     int
	Bathrooms    float64
	SquareFeet   int
	PropertyType string
	ImageURL     string
	Status       PropertyStatus
	CreatedAt    time.Time
}

// SellerContact is the public contact block shown on listings.
type SellerContact struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// PropertyListing joins a property with its seller contact.
type PropertyListing struct {
	Property
	Seller SellerContact
}
