package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/realestate-service/internal/api/dto"
	"github.com/spec-kit/realestate-service/internal/service"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

// PaymentsHandler manages payment ledger endpoints.
type PaymentsHandler struct {
	service *service.PaymentService
}

// NewPaymentsHandler constructs handler.
func NewPaymentsHandler(paymentService *service.PaymentService) *PaymentsHandler {
	return &PaymentsHandler{service: paymentService}
}

// ListBySale GET /api/payments/sale/:saleId.
func (h *PaymentsHandler) ListBySale(c *fiber.Ctx) error {
	payments, err := h.service.ListBySale(c.UserContext(), actorFrom(c), c.Params("saleId"))
	if err != nil {
		return err
	}
	items := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		items = append(items, dto.NewPaymentResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /api/payments.
func (h *PaymentsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.SaleID == "" {
		return apperrors.NewValidationError("saleId required", nil)
	}
	paymentDate, err := parseDate("paymentDate", req.PaymentDate)
	if err != nil {
		return err
	}

	payment, err := h.service.CreatePayment(c.UserContext(), actorFrom(c), service.PaymentCreateInput{
		SaleID:        req.SaleID,
		Amount:        req.Amount,
		PaymentType:   req.PaymentType,
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   paymentDate,
		TransactionID: req.TransactionID,
		Notes:         req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPaymentResponse(payment)})
}

// UpdateStatus PUT /api/payments/:id.
func (h *PaymentsHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdatePaymentStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	id := c.Params("id")
	if err := h.service.UpdatePaymentStatus(c.UserContext(), actorFrom(c), id, req.Status, req.Notes); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "status": req.Status}})
}

// ListAll GET /api/payments.
func (h *PaymentsHandler) ListAll(c *fiber.Ctx) error {
	payments, err := h.service.ListAll(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	items := make([]dto.PaymentListingResponse, 0, len(payments))
	for i := range payments {
		items = append(items, dto.NewPaymentListingResponse(&payments[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
