package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

var (
	admin   = &domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}
	seller  = &domain.Actor{ID: "seller-1", Role: domain.RoleSeller}
	seller2 = &domain.Actor{ID: "seller-2", Role: domain.RoleSeller}
	buyer   = &domain.Actor{ID: "buyer-1", Role: domain.RoleBuyer}
	buyer2  = &domain.Actor{ID: "buyer-2", Role: domain.RoleBuyer}
)

func TestEveryOperationHasRule(t *testing.T) {
	ops := []Operation{
		ViewProperty, CreateProperty, UpdateProperty, DeleteProperty,
		ListSales, CreateSale, ViewSale, UpdateSale, ViewSaleStats,
		ViewSalePayments, CreatePayment, UpdatePaymentStatus, ListAllPayments,
		ListUsers, ViewUserStats, UpdateUserRole, ViewSelf,
	}
	for _, op := range ops {
		_, ok := rules[op]
		assert.True(t, ok, op)
	}
	assert.Equal(t, Deny, Decide(Operation("unknown"), admin, Resource{}))
}

func TestViewPropertyIsPublic(t *testing.T) {
	assert.Equal(t, Allow, Decide(ViewProperty, nil, Resource{}))
	assert.Equal(t, Allow, Decide(ViewProperty, buyer, Resource{}))
}

func TestCreatePropertyRoles(t *testing.T) {
	assert.Equal(t, Allow, Decide(CreateProperty, seller, Resource{}))
	assert.Equal(t, Allow, Decide(CreateProperty, admin, Resource{}))
	assert.Equal(t, Deny, Decide(CreateProperty, buyer, Resource{}))
	assert.Equal(t, DenyUnauthenticated, Decide(CreateProperty, nil, Resource{}))
}

func TestPropertyOwnership(t *testing.T) {
	owned := Resource{SellerID: seller.ID}
	for _, op := range []Operation{UpdateProperty, DeleteProperty} {
		assert.Equal(t, Allow, Decide(op, seller, owned), op)
		assert.Equal(t, Allow, Decide(op, admin, owned), op)
		assert.Equal(t, Deny, Decide(op, seller2, owned), op)
		assert.Equal(t, Deny, Decide(op, buyer, owned), op)
	}
}

func TestCreateSaleRoles(t *testing.T) {
	assert.Equal(t, Allow, Decide(CreateSale, buyer, Resource{}))
	assert.Equal(t, Allow, Decide(CreateSale, admin, Resource{}))
	assert.Equal(t, Deny, Decide(CreateSale, seller, Resource{}))
}

func TestSaleParticipantOps(t *testing.T) {
	sale := Resource{BuyerID: buyer.ID, SellerID: seller.ID}
	ops := []Operation{ViewSale, UpdateSale, ViewSalePayments, CreatePayment}
	for _, op := range ops {
		assert.Equal(t, Allow, Decide(op, buyer, sale), op)
		assert.Equal(t, Allow, Decide(op, seller, sale), op)
		assert.Equal(t, Allow, Decide(op, admin, sale), op)
		assert.Equal(t, Deny, Decide(op, buyer2, sale), op)
		assert.Equal(t, Deny, Decide(op, seller2, sale), op)
		assert.Equal(t, DenyUnauthenticated, Decide(op, nil, sale), op)
	}
}

func TestAdminOnlyOps(t *testing.T) {
	ops := []Operation{UpdatePaymentStatus, ListAllPayments, ListUsers, ViewUserStats, UpdateUserRole, ViewSaleStats}
	for _, op := range ops {
		assert.Equal(t, Allow, Decide(op, admin, Resource{}), op)
		assert.Equal(t, Deny, Decide(op, seller, Resource{}), op)
		assert.Equal(t, Deny, Decide(op, buyer, Resource{}), op)
	}
}

func TestAuthorizeErrorKinds(t *testing.T) {
	require.NoError(t, Authorize(ListSales, buyer, Resource{}))

	err := Authorize(ListSales, nil, Resource{})
	assert.True(t, apperrors.Is(err, apperrors.CodeUnauthorized))

	err = Authorize(UpdateProperty, seller2, Resource{SellerID: seller.ID})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
	assert.Equal(t, "not authorized to update this property", err.Error())
}

func TestActorWithoutIDIsUnauthenticated(t *testing.T) {
	assert.Equal(t, DenyUnauthenticated, Decide(ListSales, &domain.Actor{Role: domain.RoleAdmin}, Resource{}))
}
