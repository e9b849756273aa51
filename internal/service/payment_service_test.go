package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/events"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

func newSale(t *testing.T, f *fixture) *domain.Sale {
	t.Helper()
	property := f.addProperty(t, f.seller, 400000)
	sale, err := f.sales.CreateSale(context.Background(), f.buyer, SaleCreateInput{PropertyID: property.ID})
	require.NoError(t, err)
	return sale
}

func TestParticipantsRecordPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sale := newSale(t, f)

	older := time.Date(2000, time.January, 2, 0, 0, 0, 0, time.UTC)
	first, err := f.payments.CreatePayment(ctx, f.buyer, PaymentCreateInput{
		SaleID:        sale.ID,
		Amount:        20000,
		PaymentType:   "deposit",
		PaymentMethod: "wire",
		PaymentDate:   &older,
		TransactionID: "tx-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, first.Status)

	second, err := f.payments.CreatePayment(ctx, f.seller, PaymentCreateInput{SaleID: sale.ID, Amount: -5})
	require.NoError(t, err, "amounts are recorded as given")

	payments, err := f.payments.ListBySale(ctx, f.buyer, sale.ID)
	require.NoError(t, err)
	require.Len(t, payments, 2)
	assert.Equal(t, second.ID, payments[0].ID)
	assert.Equal(t, first.ID, payments[1].ID)

	_, err = f.payments.CreatePayment(ctx, f.buyer, PaymentCreateInput{SaleID: uuid.NewString(), Amount: 1})
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = f.payments.ListBySale(ctx, f.admin, "missing")
	requireCode(t, err, apperrors.CodeNotFound)
	_, err = f.payments.CreatePayment(ctx, nil, PaymentCreateInput{SaleID: sale.ID})
	requireCode(t, err, apperrors.CodeUnauthorized)
}

func TestPaymentStatusIsAdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sale := newSale(t, f)
	payment, err := f.payments.CreatePayment(ctx, f.buyer, PaymentCreateInput{SaleID: sale.ID, Amount: 10, Notes: "first"})
	require.NoError(t, err)

	for _, actor := range []*domain.Actor{f.buyer, f.seller} {
		err := f.payments.UpdatePaymentStatus(ctx, actor, payment.ID, "completed", nil)
		requireCode(t, err, apperrors.CodeForbidden)
	}

	require.NoError(t, f.payments.UpdatePaymentStatus(ctx, f.admin, payment.ID, "completed", nil))
	payments, err := f.payments.ListBySale(ctx, f.admin, sale.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, domain.PaymentStatus("completed"), payments[0].Status)
	assert.Equal(t, "first", payments[0].Notes)

	require.NoError(t, f.payments.UpdatePaymentStatus(ctx, f.admin, payment.ID, "refunded", strPtr("chargeback")))
	payments, err = f.payments.ListBySale(ctx, f.admin, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatus("refunded"), payments[0].Status)
	assert.Equal(t, "chargeback", payments[0].Notes)

	updates := countEvents(f.eventTypes(), events.EventPaymentStatusUpdated)
	assert.Equal(t, 2, updates)
	assert.NoError(t, f.payments.UpdatePaymentStatus(ctx, f.admin, uuid.NewString(), "completed", nil))
	assert.NoError(t, f.payments.UpdatePaymentStatus(ctx, f.admin, "not-a-uuid", "completed", nil))
	assert.Equal(t, updates, countEvents(f.eventTypes(), events.EventPaymentStatusUpdated))
	requireCode(t, f.payments.UpdatePaymentStatus(ctx, f.admin, payment.ID, " ", nil), apperrors.CodeValidation)
}

func TestListAllPaymentsJoinsSaleContext(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sale := newSale(t, f)
	_, err := f.payments.CreatePayment(ctx, f.buyer, PaymentCreateInput{SaleID: sale.ID, Amount: 10})
	require.NoError(t, err)

	all, err := f.payments.ListAll(ctx, f.admin)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 400000.0, all[0].SalePrice)
	assert.Equal(t, "Listing", all[0].PropertyTitle)
	assert.Equal(t, "buyer", all[0].BuyerFirstName)

	_, err = f.payments.ListAll(ctx, f.buyer)
	requireCode(t, err, apperrors.CodeForbidden)
}
