package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/config"
	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/events"
	"github.com/spec-kit/realestate-service/internal/repository/memstore"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

type fixture struct {
	store      *memstore.Store
	properties *PropertyService
	sales      *SaleService
	payments   *PaymentService
	users      *UserService
	auth       *AuthService

	mu        sync.Mutex
	published []events.Event

	admin   *domain.Actor
	seller  *domain.Actor
	seller2 *domain.Actor
	buyer   *domain.Actor
	buyer2  *domain.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	dispatcher := events.NewInMemoryDispatcher()
	logger := zap.NewNop()
	lifecycle := NewPropertyLifecycle(logger)

	f := &fixture{
		store:      store,
		properties: NewPropertyService(PropertyDependencies{Store: store, Lifecycle: lifecycle, Dispatcher: dispatcher, Logger: logger}),
		sales:      NewSaleService(SaleDependencies{Store: store, Lifecycle: lifecycle, Dispatcher: dispatcher, Logger: logger}),
		payments:   NewPaymentService(PaymentDependencies{Store: store, Dispatcher: dispatcher, Logger: logger}),
		users:      NewUserService(store.Users()),
		auth: NewAuthService(config.Config{Auth: config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 60, BcryptCost: 4}},
			AuthDependencies{UserRepo: store.Users()}),
	}
	for _, eventType := range []events.EventType{
		events.EventSaleCreated,
		events.EventSaleStatusChanged,
		events.EventPropertyStatusChanged,
		events.EventPaymentRecorded,
		events.EventPaymentStatusUpdated,
	} {
		dispatcher.Subscribe(eventType, func(_ context.Context, e events.Event) error {
			f.mu.Lock()
			defer f.mu.Unlock()
			f.published = append(f.published, e)
			return nil
		})
	}

	f.admin = f.addUser(t, "admin@example.com", domain.RoleAdmin)
	f.seller = f.addUser(t, "seller@example.com", domain.RoleSeller)
	f.seller2 = f.addUser(t, "seller2@example.com", domain.RoleSeller)
	f.buyer = f.addUser(t, "buyer@example.com", domain.RoleBuyer)
	f.buyer2 = f.addUser(t, "buyer2@example.com", domain.RoleBuyer)
	return f
}

func (f *fixture) addUser(t *testing.T, email string, role domain.Role) *domain.Actor {
	t.Helper()
	user := &domain.User{Email: email, FirstName: string(role), LastName: "User", Role: role}
	require.NoError(t, f.store.Users().Create(context.Background(), user))
	return user.Actor()
}

func (f *fixture) addProperty(t *testing.T, seller *domain.Actor, price float64) *domain.Property {
	t.Helper()
	property, err := f.properties.Create(context.Background(), seller, PropertyCreateInput{
		Title:        "Listing",
		Price:        price,
		City:         "Springfield",
		PropertyType: "house",
	})
	require.NoError(t, err)
	return property
}

func (f *fixture) propertyStatus(t *testing.T, id string) domain.PropertyStatus {
	t.Helper()
	property, err := f.store.Properties().GetListing(context.Background(), id)
	require.NoError(t, err)
	return property.Status
}

func (f *fixture) eventTypes() []events.EventType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.EventType, 0, len(f.published))
	for _, e := range f.published {
		out = append(out, e.Type)
	}
	return out
}

func countEvents(types []events.EventType, want events.EventType) int {
	n := 0
	for _, eventType := range types {
		if eventType == want {
			n++
		}
	}
	return n
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperrors.Is(err, code), "want %s, got %v", code, err)
}

func statusPtr(s domain.SaleStatus) *domain.SaleStatus { return &s }

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }
