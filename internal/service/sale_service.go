package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/events"
	"github.com/spec-kit/realestate-service/internal/policy"
	"github.com/spec-kit/realestate-service/internal/repository"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

// SaleService drives the sale lifecycle and the property status it implies.
type SaleService struct {
	store      repository.Store
	lifecycle  *PropertyLifecycle
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// SaleDependencies bundles collaborators for the sale service.
type SaleDependencies struct {
	Store      repository.Store
	Lifecycle  *PropertyLifecycle
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// SaleCreateInput describes a new sale. Nil fields take defaults from the
// property and the caller.
type SaleCreateInput struct {
	PropertyID string
	BuyerID    *string
	SellerID   *string
	SalePrice  *float64
	Commission *float64
	SaleDate   *time.Time
	Notes      string
}

// SaleUpdateInput carries the mutable sale fields. Nil leaves a field unchanged.
type SaleUpdateInput struct {
	Status *domain.SaleStatus
	Notes  *string
}

// NewSaleService constructs the service.
func NewSaleService(deps SaleDependencies) *SaleService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	lifecycle := deps.Lifecycle
	if lifecycle == nil {
		lifecycle = NewPropertyLifecycle(logger)
	}
	return &SaleService{
		store:      deps.Store,
		lifecycle:  lifecycle,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateSale opens a pending sale against an available property and marks the
// property pending in the same transaction.
func (s *SaleService) CreateSale(ctx context.Context, actor *domain.Actor, input SaleCreateInput) (*domain.Sale, error) {
	if err := policy.Authorize(policy.CreateSale, actor, policy.Resource{}); err != nil {
		return nil, err
	}

	buyerID := actor.ID
	if actor.IsAdmin() && input.BuyerID != nil && strings.TrimSpace(*input.BuyerID) != "" {
		buyerID = strings.TrimSpace(*input.BuyerID)
	}
	if !validID(buyerID) {
		return nil, apperrors.NewValidationError("invalid buyer id", map[string]any{"buyerId": buyerID})
	}
	// Only admins may record a sale against someone other than the owner.
	var sellerID string
	if actor.IsAdmin() && input.SellerID != nil && strings.TrimSpace(*input.SellerID) != "" {
		sellerID = strings.TrimSpace(*input.SellerID)
		if !validID(sellerID) {
			return nil, apperrors.NewValidationError("invalid seller id", map[string]any{"sellerId": sellerID})
		}
	}

	var (
		sale *domain.Sale
		ob   outbox
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		property, err := s.lifecycle.MarkPending(ctx, tx, actor, input.PropertyID, &ob)
		if err != nil {
			return err
		}

		sale = &domain.Sale{
			PropertyID: property.ID,
			BuyerID:    buyerID,
			SellerID:   property.SellerID,
			SalePrice:  property.Price,
			SaleDate:   today(s.now),
			Status:     domain.SaleStatusPending,
			Notes:      strings.TrimSpace(input.Notes),
		}
		if sellerID != "" {
			sale.SellerID = sellerID
		}
		if input.SalePrice != nil {
			sale.SalePrice = *input.SalePrice
		}
		if input.Commission != nil {
			sale.Commission = *input.Commission
		}
		if input.SaleDate != nil {
			sale.SaleDate = *input.SaleDate
		}

		if err := tx.Sales().Create(ctx, sale); err != nil {
			if errors.Is(err, repository.ErrForeignKey) {
				return apperrors.NewValidationError("buyer or seller does not exist", nil)
			}
			return err
		}
		ob.add(events.New(events.EventSaleCreated, sale.ID, actor, events.SaleCreatedPayload{
			PropertyID: sale.PropertyID,
			BuyerID:    sale.BuyerID,
			SellerID:   sale.SellerID,
			SalePrice:  sale.SalePrice,
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}

	ob.publish(ctx, s.dispatcher, s.logger)
	return sale, nil
}

// UpdateSale changes status and notes. Completing a sale marks its property
// sold and cancelling releases it; other statuses leave the property alone.
func (s *SaleService) UpdateSale(ctx context.Context, actor *domain.Actor, saleID string, input SaleUpdateInput) (*domain.Sale, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !validID(saleID) {
		return nil, apperrors.NewNotFound("sale", nil)
	}

	var (
		sale *domain.Sale
		ob   outbox
	)
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		sale, err = tx.Sales().GetForUpdate(ctx, saleID)
		if err != nil {
			return storeError(err, "sale")
		}
		if err := policy.Authorize(policy.UpdateSale, actor, policy.ForSale(sale)); err != nil {
			return err
		}

		prev := sale.Status
		if input.Status != nil {
			sale.Status = *input.Status
		}
		if input.Notes != nil {
			sale.Notes = strings.TrimSpace(*input.Notes)
		}
		if err := tx.Sales().Update(ctx, sale); err != nil {
			return storeError(err, "sale")
		}
		if input.Status == nil {
			return nil
		}

		switch sale.Status {
		case domain.SaleStatusCompleted:
			err = s.lifecycle.MarkSold(ctx, tx, actor, sale.PropertyID, &ob)
		case domain.SaleStatusCancelled:
			err = s.lifecycle.MarkAvailable(ctx, tx, actor, sale.PropertyID, &ob)
		}
		if err != nil {
			return err
		}
		ob.add(events.New(events.EventSaleStatusChanged, sale.ID, actor, events.SaleStatusChangedPayload{
			PropertyID: sale.PropertyID,
			OldStatus:  prev,
			NewStatus:  sale.Status,
		}))
		return nil
	})
	if err != nil {
		return nil, err
	}

	ob.publish(ctx, s.dispatcher, s.logger)
	return sale, nil
}

// GetSale returns the joined view of a sale to a participant or admin.
func (s *SaleService) GetSale(ctx context.Context, actor *domain.Actor, saleID string) (*domain.SaleListing, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !validID(saleID) {
		return nil, apperrors.NewNotFound("sale", nil)
	}
	listing, err := s.store.Sales().GetListing(ctx, saleID)
	if err != nil {
		return nil, storeError(err, "sale")
	}
	if err := policy.Authorize(policy.ViewSale, actor, policy.ForSale(&listing.Sale)); err != nil {
		return nil, err
	}
	return listing, nil
}

// ListSales returns every sale to admins, and otherwise the sales where the
// caller is the seller (seller role) or the buyer (buyer role).
func (s *SaleService) ListSales(ctx context.Context, actor *domain.Actor) ([]domain.SaleListing, error) {
	if err := policy.Authorize(policy.ListSales, actor, policy.Resource{}); err != nil {
		return nil, err
	}
	var scope repository.SaleScope
	switch actor.Role {
	case domain.RoleAdmin:
	case domain.RoleSeller:
		scope.SellerID = &actor.ID
	default:
		scope.BuyerID = &actor.ID
	}
	return s.store.Sales().List(ctx, scope)
}

// Stats aggregates sales for the admin dashboard.
func (s *SaleService) Stats(ctx context.Context, actor *domain.Actor) (*domain.SaleStats, error) {
	if err := policy.Authorize(policy.ViewSaleStats, actor, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.store.Sales().Stats(ctx, s.now().UTC().Year())
}
