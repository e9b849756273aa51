package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/realestate-service/internal/config"
	"github.com/spec-kit/realestate-service/internal/repository/memstore"
	"github.com/spec-kit/realestate-service/internal/service"
)

type testServer struct {
	t     *testing.T
	app   *fiber.App
	store *memstore.Store
	cfg   config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Config{
		App:  config.AppConfig{Name: "realestate-service", Version: "test"},
		Auth: config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60, BcryptCost: 4},
	}
	store := memstore.New()
	app := NewServer(ServerDeps{Config: cfg, Logger: zap.NewNop(), Store: store})
	return &testServer{t: t, app: app, store: store, cfg: cfg}
}

func (s *testServer) do(method, path, token string, body any) (int, map[string]any) {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(s.t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	if len(raw) > 0 {
		require.NoError(s.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (s *testServer) register(email, role string) (token, id string) {
	s.t.Helper()
	status, body := s.do(fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":     email,
		"password":  "s3cret-pass",
		"firstName": "Test",
		"lastName":  "User",
		"role":      role,
	})
	require.Equal(s.t, fiber.StatusCreated, status, body)
	data := body["data"].(map[string]any)
	return data["token"].(string), data["user"].(map[string]any)["id"].(string)
}

func (s *testServer) admin() string {
	s.t.Helper()
	authService := service.NewAuthService(s.cfg, service.AuthDependencies{UserRepo: s.store.Users()})
	_, err := authService.CreateAdmin(context.Background(), service.RegisterInput{
		Email:    "admin@example.com",
		Password: "admin-pass",
	})
	require.NoError(s.t, err)
	status, body := s.do(fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "admin@example.com",
		"password": "admin-pass",
	})
	require.Equal(s.t, fiber.StatusOK, status, body)
	return body["data"].(map[string]any)["token"].(string)
}

func (s *testServer) createProperty(token string, price float64) string {
	s.t.Helper()
	status, body := s.do(fiber.MethodPost, "/api/properties", token, fiber.Map{
		"title":        "Maple Street House",
		"price":        price,
		"address":      "1 Maple St",
		"city":         "Springfield",
		"state":        "IL",
		"propertyType": "house",
	})
	require.Equal(s.t, fiber.StatusCreated, status, body)
	return body["data"].(map[string]any)["id"].(string)
}

func errorCode(body map[string]any) string {
	envelope, ok := body["error"].(map[string]any)
	if !ok {
		return ""
	}
	code, _ := envelope["code"].(string)
	return code
}

func TestRegisterLoginAndMe(t *testing.T) {
	srv := newTestServer(t)
	_, userID := srv.register("buyer@example.com", "buyer")

	status, body := srv.do(fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "BUYER@example.com",
		"password": "s3cret-pass",
	})
	require.Equal(t, fiber.StatusOK, status, body)
	token := body["data"].(map[string]any)["token"].(string)

	status, body = srv.do(fiber.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	me := body["data"].(map[string]any)
	assert.Equal(t, userID, me["id"])
	assert.Equal(t, "buyer", me["role"])
	assert.NotContains(t, me, "password")
}

func TestAuthFailures(t *testing.T) {
	srv := newTestServer(t)
	srv.register("seller@example.com", "seller")

	status, body := srv.do(fiber.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "seller@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	for _, creds := range []fiber.Map{
		{"email": "seller@example.com", "password": ""},
		{"email": "nobody@example.com", "password": ""},
		{"email": "", "password": ""},
	} {
		status, body = srv.do(fiber.MethodPost, "/api/auth/login", "", creds)
		assert.Equal(t, fiber.StatusUnauthorized, status, creds)
		assert.Equal(t, "UNAUTHORIZED", errorCode(body), creds)
	}

	status, body = srv.do(fiber.MethodPost, "/api/auth/register", "", fiber.Map{
		"email":    "seller@example.com",
		"password": "another-pass",
	})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = srv.do(fiber.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHORIZED", errorCode(body))

	status, _ = srv.do(fiber.MethodGet, "/api/sales", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestPropertyEndpoints(t *testing.T) {
	srv := newTestServer(t)
	sellerToken, sellerID := srv.register("seller@example.com", "seller")
	buyerToken, _ := srv.register("buyer@example.com", "buyer")

	status, body := srv.do(fiber.MethodPost, "/api/properties", buyerToken, fiber.Map{"title": "Nope", "price": 10})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	id := srv.createProperty(sellerToken, 250000)

	status, body = srv.do(fiber.MethodGet, "/api/properties/"+id, "", nil)
	require.Equal(t, fiber.StatusOK, status, body)
	data := body["data"].(map[string]any)
	assert.Equal(t, sellerID, data["sellerId"])
	assert.Equal(t, "available", data["status"])
	assert.NotNil(t, data["seller"])

	status, body = srv.do(fiber.MethodPut, "/api/properties/"+id, buyerToken, fiber.Map{"price": 1})
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = srv.do(fiber.MethodPut, "/api/properties/"+id, sellerToken, fiber.Map{"price": 240000})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 240000, body["data"].(map[string]any)["price"])

	status, body = srv.do(fiber.MethodGet, "/api/properties?city=spring&maxPrice=245000", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["data"], 1)

	status, body = srv.do(fiber.MethodGet, "/api/properties?minPrice=10&maxPrice=5", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))

	status, body = srv.do(fiber.MethodDelete, "/api/properties/"+id, sellerToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, true, body["data"].(map[string]any)["deleted"])

	status, body = srv.do(fiber.MethodGet, "/api/properties/"+id, "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestSaleFlowMarksPropertySold(t *testing.T) {
	srv := newTestServer(t)
	sellerToken, _ := srv.register("seller@example.com", "seller")
	buyerToken, _ := srv.register("buyer@example.com", "buyer")
	otherBuyer, _ := srv.register("other@example.com", "buyer")
	adminToken := srv.admin()
	propertyID := srv.createProperty(sellerToken, 300000)

	status, body := srv.do(fiber.MethodPost, "/api/sales", buyerToken, fiber.Map{
		"propertyId": propertyID,
		"saleDate":   "2026-03-10",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	sale := body["data"].(map[string]any)
	saleID := sale["id"].(string)
	assert.Equal(t, "pending", sale["status"])
	assert.EqualValues(t, 300000, sale["salePrice"])
	assert.Equal(t, "2026-03-10", sale["saleDate"])

	status, body = srv.do(fiber.MethodGet, "/api/properties/"+propertyID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "pending", body["data"].(map[string]any)["status"])

	status, body = srv.do(fiber.MethodPost, "/api/sales", otherBuyer, fiber.Map{"propertyId": propertyID})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "CONFLICT", errorCode(body))

	status, _ = srv.do(fiber.MethodGet, "/api/sales/"+saleID, otherBuyer, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body = srv.do(fiber.MethodPost, "/api/payments", buyerToken, fiber.Map{
		"saleId":        saleID,
		"amount":        30000,
		"paymentType":   "deposit",
		"paymentMethod": "wire",
	})
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "pending", body["data"].(map[string]any)["status"])

	status, body = srv.do(fiber.MethodGet, "/api/payments/sale/"+saleID, sellerToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Len(t, body["data"], 1)

	status, body = srv.do(fiber.MethodPut, "/api/sales/"+saleID, sellerToken, fiber.Map{"status": "completed"})
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Equal(t, "completed", body["data"].(map[string]any)["status"])

	status, body = srv.do(fiber.MethodGet, "/api/properties?status=sold", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	require.Len(t, body["data"], 1)
	assert.Equal(t, propertyID, body["data"].([]any)[0].(map[string]any)["id"])

	status, body = srv.do(fiber.MethodGet, "/api/sales/stats", sellerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", errorCode(body))

	status, body = srv.do(fiber.MethodGet, "/api/sales/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	stats := body["data"].(map[string]any)
	assert.EqualValues(t, 1, stats["totalSales"].(map[string]any)["count"])
	assert.EqualValues(t, 300000, stats["totalSales"].(map[string]any)["totalValue"])
	assert.EqualValues(t, 0, stats["pendingSales"].(map[string]any)["count"])
	assert.NotNil(t, stats["monthlySales"])
}

func TestSaleUpdateRejectsUnknownStatus(t *testing.T) {
	srv := newTestServer(t)
	sellerToken, _ := srv.register("seller@example.com", "seller")
	buyerToken, _ := srv.register("buyer@example.com", "buyer")
	propertyID := srv.createProperty(sellerToken, 100)

	status, body := srv.do(fiber.MethodPost, "/api/sales", buyerToken, fiber.Map{"propertyId": propertyID})
	require.Equal(t, fiber.StatusCreated, status, body)
	saleID := body["data"].(map[string]any)["id"].(string)

	status, body = srv.do(fiber.MethodPut, "/api/sales/"+saleID, buyerToken, fiber.Map{"status": "teleported"})
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(body))
}

func TestAdminEndpoints(t *testing.T) {
	srv := newTestServer(t)
	buyerToken, buyerID := srv.register("buyer@example.com", "buyer")
	adminToken := srv.admin()

	status, _ := srv.do(fiber.MethodGet, "/api/users", buyerToken, nil)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := srv.do(fiber.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Len(t, body["data"], 2)

	status, body = srv.do(fiber.MethodPut, "/api/users/"+buyerID+"/role", adminToken, fiber.Map{"role": "seller"})
	require.Equal(t, fiber.StatusOK, status, body)

	status, body = srv.do(fiber.MethodGet, "/api/auth/me", buyerToken, nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "seller", body["data"].(map[string]any)["role"])

	status, body = srv.do(fiber.MethodGet, "/api/users/stats", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.EqualValues(t, 2, body["data"].(map[string]any)["totalUsers"])

	status, body = srv.do(fiber.MethodGet, "/api/payments", adminToken, nil)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Empty(t, body["data"])
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	srv := newTestServer(t)
	status, body := srv.do(fiber.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "NOT_FOUND", errorCode(body))
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)

	status, body := srv.do(fiber.MethodGet, "/health/live", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "test", body["version"])

	status, body = srv.do(fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	details := body["error"].(map[string]any)["details"].(map[string]any)
	assert.Equal(t, "postgres not configured", details["postgres"])
	assert.Equal(t, "disabled", details["redis"])

	status, body = srv.do(fiber.MethodGet, "/health/metrics", "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "data")
}
