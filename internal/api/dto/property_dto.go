package dto

import (
	"time"

	"github.com/spec-kit/realestate-service/internal/domain"
)

// CreatePropertyRequest payload. SellerID is honoured for admins only.
type CreatePropertyRequest struct {
	SellerID     *string `json:"sellerId"`
	Title        string  `json:"title"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Address      string  `json:"address"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zipCode"`
	Bedrooms     int     `json:"bedrooms"`
	Bathrooms    float64 `json:"bathrooms"`
	SquareFeet   int     `json:"squareFeet"`
	PropertyType string  `json:"propertyType"`
	ImageURL     string  `json:"imageUrl"`
}

// UpdatePropertyRequest payload; omitted fields are left unchanged.
type UpdatePropertyRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Price        *float64 `json:"price"`
	Address      *string  `json:"address"`
	City         *string  `json:"city"`
	State        *string  `json:"state"`
	ZipCode      *string  `json:"zipCode"`
	Bedrooms     *int     `json:"bedrooms"`
	Bathrooms    *float64 `json:"bathrooms"`
	SquareFeet   *int     `json:"squareFeet"`
	PropertyType *string  `json:"propertyType"`
	ImageURL     *string  `json:"imageUrl"`
	Status       *string  `json:"status"`
}

// SellerContactResponse is the seller block of a listing.
type SellerContactResponse struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// PropertyResponse represents a property, with the seller when joined.
type PropertyResponse struct {
	ID           string                 `json:"id"`
	SellerID     string                 `json:"sellerId"`
	Title        string                 `json:"title"`
	Description  string                 `json:"description"`
	Price        float64                `json:"price"`
	Address      string                 `json:"address"`
	City         string                 `json:"city"`
	State        string                 `json:"state"`
	ZipCode      string                 `json:"zipCode"`
	Bedrooms     int                    `json:"bedrooms"`
	Bathrooms    float64                `json:"bathrooms"`
	SquareFeet   int                    `json:"squareFeet"`
	PropertyType string                 `json:"propertyType"`
	ImageURL     string                 `json:"imageUrl"`
	Status       domain.PropertyStatus  `json:"status"`
	CreatedAt    time.Time              `json:"createdAt"`
	Seller       *SellerContactResponse `json:"seller,omitempty"`
}

// NewPropertyResponse maps a bare property.
func NewPropertyResponse(p *domain.Property) PropertyResponse {
	return PropertyResponse{
		ID:           p.ID,
		SellerID:     p.SellerID,
		Title:        p.Title,
		Description:  p.Description,
		Price:        p.Price,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		ZipCode:      p.ZipCode,
		Bedrooms:     p.Bedrooms,
		Bathrooms:    p.Bathrooms,
		SquareFeet:   p.SquareFeet,
		PropertyType: p.PropertyType,
		ImageURL:     p.ImageURL,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
	}
}

// NewPropertyListingResponse maps a property joined with its seller.
func NewPropertyListingResponse(l *domain.PropertyListing) PropertyResponse {
	resp := NewPropertyResponse(&l.Property)
	resp.Seller = &SellerContactResponse{
		FirstName: l.Seller.FirstName,
		LastName:  l.Seller.LastName,
		Email:     l.Seller.Email,
		Phone:     l.Seller.Phone,
	}
	return resp
}
