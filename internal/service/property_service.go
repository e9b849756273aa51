package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/events"
	"github.com/spec-kit/realestate-service/internal/policy"
	"github.com/spec-kit/realestate-service/internal/repository"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

// PropertyService manages the property catalogue.
type PropertyService struct {
	store      repository.Store
	lifecycle  *PropertyLifecycle
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PropertyDependencies bundles collaborators for the property service.
type PropertyDependencies struct {
	Store      repository.Store
	Lifecycle  *PropertyLifecycle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PropertyQuery holds raw listing filters. Empty strings and nil pointers
// are ignored.
type PropertyQuery struct {
	Status       string
	City         string
	MinPrice     *float64
	MaxPrice     *float64
	PropertyType string
}

// PropertyCreateInput describes a new listing.
type PropertyCreateInput struct {
	SellerID     *string
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
}

// PropertyUpdateInput is a partial update; nil fields keep their value.
type PropertyUpdateInput struct {
	Title        *string
	Description  *string
	Price        *float64
	Address      *string
	City         *string
	State        *string
	ZipCode      *string
	Bedrooms     *int
	Bathrooms    *float64
	SquareFeet   *int
	PropertyType *string
	ImageURL     *string
	Status       *string
}

// NewPropertyService constructs the service.
func NewPropertyService(deps PropertyDependencies) *PropertyService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lifecycle := deps.Lifecycle
	if lifecycle == nil {
		lifecycle = NewPropertyLifecycle(logger)
	}
	return &PropertyService{
		store:      deps.Store,
		lifecycle:  lifecycle,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// List returns public listings matching q, newest first.
func (s *PropertyService) List(ctx context.Context, q PropertyQuery) ([]domain.PropertyListing, error) {
	var filter repository.PropertyFilter
	if raw := strings.TrimSpace(q.Status); raw != "" {
		status, ok := domain.ParsePropertyStatus(raw)
		if !ok {
			return nil, apperrors.NewValidationError("invalid property status", map[string]any{"status": raw})
		}
		filter.Status = &status
	}
	if city := strings.TrimSpace(q.City); city != "" {
		filter.City = &city
	}
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MinPrice > *q.MaxPrice {
		return nil, apperrors.NewValidationError("minPrice exceeds maxPrice", nil)
	}
	filter.MinPrice = q.MinPrice
	filter.MaxPrice = q.MaxPrice
	if propertyType := strings.TrimSpace(q.PropertyType); propertyType != "" {
		filter.PropertyType = &propertyType
	}
	return s.store.Properties().List(ctx, filter)
}

// Get returns one listing with its seller contact.
func (s *PropertyService) Get(ctx context.Context, id string) (*domain.PropertyListing, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("property", nil)
	}
	listing, err := s.store.Properties().GetListing(ctx, id)
	if err != nil {
		return nil, storeError(err, "property")
	}
	return listing, nil
}

// Create lists a new available property. Admins may list on behalf of a seller.
func (s *PropertyService) Create(ctx context.Context, actor *domain.Actor, input PropertyCreateInput) (*domain.Property, error) {
	if err := policy.Authorize(policy.CreateProperty, actor, policy.Resource{}); err != nil {
		return nil, err
	}

	sellerID := actor.ID
	if actor.IsAdmin() && input.SellerID != nil && strings.TrimSpace(*input.SellerID) != "" {
		sellerID = strings.TrimSpace(*input.SellerID)
	}
	if !validID(sellerID) {
		return nil, apperrors.NewValidationError("invalid seller id", map[string]any{"sellerId": sellerID})
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}
	if input.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}

	property := &domain.Property{
		SellerID:     sellerID,
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Price:        input.Price,
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		State:        strings.TrimSpace(input.State),
		ZipCode:      strings.TrimSpace(input.ZipCode),
		Bedrooms:     input.Bedrooms,
		Bathrooms:    input.Bathrooms,
		SquareFeet:   input.SquareFeet,
		PropertyType: strings.TrimSpace(input.PropertyType),
		ImageURL:     strings.TrimSpace(input.ImageURL),
		Status:       domain.PropertyStatusAvailable,
	}
	if err := s.store.Properties().Create(ctx, property); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperrors.NewValidationError("seller does not exist", map[string]any{"sellerId": sellerID})
		}
		return nil, err
	}
	return property, nil
}

// Update applies a partial edit by the owner or an admin. A supplied status is
// applied directly, outside the sale-driven lifecycle.
func (s *PropertyService) Update(ctx context.Context, actor *domain.Actor, id string, input PropertyUpdateInput) (*domain.Property, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, apperrors.NewNotFound("property", nil)
	}

	var status *domain.PropertyStatus
	if input.Status != nil {
		parsed, ok := domain.ParsePropertyStatus(*input.Status)
		if !ok {
			return nil, apperrors.NewValidationError("invalid property status", map[string]any{"status": *input.Status})
		}
		status = &parsed
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, apperrors.NewValidationError("title must not be empty", nil)
	}
	if input.Price != nil && *input.Price < 0 {
		return nil, apperrors.NewValidationError("price must not be negative", nil)
	}

	var (
		property *domain.Property
		ob       outbox
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		property, err = tx.Properties().GetForUpdate(ctx, id)
		if err != nil {
			return storeError(err, "property")
		}
		if err := policy.Authorize(policy.UpdateProperty, actor, policy.ForProperty(property)); err != nil {
			return err
		}

		applyPropertyUpdate(property, input)
		if err := tx.Properties().Update(ctx, property); err != nil {
			return storeError(err, "property")
		}
		if status != nil {
			return s.lifecycle.Override(ctx, tx, actor, property, *status, &ob)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ob.publish(ctx, s.dispatcher, s.logger)
	return property, nil
}

// Delete removes a property that no sale references.
func (s *PropertyService) Delete(ctx context.Context, actor *domain.Actor, id string) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	if !validID(id) {
		return apperrors.NewNotFound("property", nil)
	}
	return s.store.WithinTx(ctx, func(tx repository.Store) error {
		property, err := tx.Properties().GetForUpdate(ctx, id)
		if err != nil {
			return storeError(err, "property")
		}
		if err := policy.Authorize(policy.DeleteProperty, actor, policy.ForProperty(property)); err != nil {
			return err
		}
		if err := tx.Properties().Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrForeignKey) {
				return apperrors.NewConflict("property has sales and cannot be deleted", nil)
			}
			return storeError(err, "property")
		}
		return nil
	})
}

func applyPropertyUpdate(p *domain.Property, in PropertyUpdateInput) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&p.Title, in.Title)
	setString(&p.Description, in.Description)
	setString(&p.Address, in.Address)
	setString(&p.City, in.City)
	setString(&p.State, in.State)
	setString(&p.ZipCode, in.ZipCode)
	setString(&p.PropertyType, in.PropertyType)
	setString(&p.ImageURL, in.ImageURL)
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Bedrooms != nil {
		p.Bedrooms = *in.Bedrooms
	}
	if in.Bathrooms != nil {
		p.Bathrooms = *in.Bathrooms
	}
	if in.SquareFeet != nil {
		p.SquareFeet = *in.SquareFeet
	}
}
