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

// PaymentService is the payment ledger attached to sales.
type PaymentService struct {
	store      repository.Store
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	Store      repository.Store
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// PaymentCreateInput describes a payment against a sale. Amount is recorded
// as given.
type PaymentCreateInput struct {
	SaleID        string
	Amount        float64
	PaymentType   string
	PaymentMethod string
	PaymentDate   *time.Time
	TransactionID string
	Notes         string
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// CreatePayment records a payment for a sale the caller takes part in.
func (s *PaymentService) CreatePayment(ctx context.Context, actor *domain.Actor, input PaymentCreateInput) (*domain.Payment, error) {
	sale, err := s.authorizedSale(ctx, actor, input.SaleID, policy.CreatePayment)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		SaleID:        sale.ID,
		Amount:        input.Amount,
		PaymentType:   strings.TrimSpace(input.PaymentType),
		PaymentMethod: strings.TrimSpace(input.PaymentMethod),
		PaymentDate:   today(s.now),
		TransactionID: strings.TrimSpace(input.TransactionID),
		Notes:         strings.TrimSpace(input.Notes),
		Status:        domain.PaymentStatusPending,
	}
	if input.PaymentDate != nil {
		payment.PaymentDate = *input.PaymentDate
	}
	if err := s.store.Payments().Create(ctx, payment); err != nil {
		if errors.Is(err, repository.ErrForeignKey) {
			return nil, apperrors.NewNotFound("sale", nil)
		}
		return nil, err
	}

	var ob outbox
	ob.add(events.New(events.EventPaymentRecorded, payment.ID, actor, events.PaymentRecordedPayload{
		SaleID: payment.SaleID,
		Amount: payment.Amount,
		Status: payment.Status,
	}))
	ob.publish(ctx, s.dispatcher, s.logger)
	return payment, nil
}

// UpdatePaymentStatus sets a payment's status, and its notes when given.
// Admin only. An unknown payment id is not an error and publishes nothing.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, actor *domain.Actor, paymentID, status string, notes *string) error {
	if err := policy.Authorize(policy.UpdatePaymentStatus, actor, policy.Resource{}); err != nil {
		return err
	}
	status = strings.TrimSpace(status)
	if status == "" {
		return apperrors.NewValidationError("status is required", nil)
	}
	if !validID(paymentID) {
		return nil
	}
	if notes != nil {
		trimmed := strings.TrimSpace(*notes)
		notes = &trimmed
	}
	updated, err := s.store.Payments().UpdateStatus(ctx, paymentID, domain.PaymentStatus(status), notes)
	if err != nil {
		return err
	}
	if !updated {
		return nil
	}

	var ob outbox
	ob.add(events.New(events.EventPaymentStatusUpdated, paymentID, actor, events.PaymentStatusUpdatedPayload{
		Status: domain.PaymentStatus(status),
	}))
	ob.publish(ctx, s.dispatcher, s.logger)
	return nil
}

// ListBySale returns a sale's payments, newest payment date first.
func (s *PaymentService) ListBySale(ctx context.Context, actor *domain.Actor, saleID string) ([]domain.Payment, error) {
	sale, err := s.authorizedSale(ctx, actor, saleID, policy.ViewSalePayments)
	if err != nil {
		return nil, err
	}
	return s.store.Payments().ListBySale(ctx, sale.ID)
}

// ListAll returns every payment with its sale and buyer context. Admin only.
func (s *PaymentService) ListAll(ctx context.Context, actor *domain.Actor) ([]domain.PaymentListing, error) {
	if err := policy.Authorize(policy.ListAllPayments, actor, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.store.Payments().ListAll(ctx)
}

func (s *PaymentService) authorizedSale(ctx context.Context, actor *domain.Actor, saleID string, op policy.Operation) (*domain.Sale, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !validID(saleID) {
		return nil, apperrors.NewNotFound("sale", nil)
	}
	sale, err := s.store.Sales().GetByID(ctx, saleID)
	if err != nil {
		return nil, storeError(err, "sale")
	}
	if err := policy.Authorize(op, actor, policy.ForSale(sale)); err != nil {
		return nil, err
	}
	return sale, nil
}
