package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/realestate-service/internal/api/dto"
	"github.com/spec-kit/realestate-service/internal/domain"
	"github.com/spec-kit/realestate-service/internal/service"
	"github.com/spec-kit/realestate-service/pkg/apperrors"
)

// SalesHandler manages sale endpoints.
type SalesHandler struct {
	service *service.SaleService
}

// NewSalesHandler constructs handler.
func NewSalesHandler(saleService *service.SaleService) *SalesHandler {
	return &SalesHandler{service: saleService}
}

// List GET /api/sales.
func (h *SalesHandler) List(c *fiber.Ctx) error {
	sales, err := h.service.ListSales(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	items := make([]dto.SaleListingResponse, 0, len(sales))
	for i := range sales {
		items = append(items, dto.NewSaleListingResponse(&sales[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Create POST /api/sales.
func (h *SalesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if req.PropertyID == "" {
		return apperrors.NewValidationError("propertyId required", nil)
	}
	saleDate, err := parseDate("saleDate", req.SaleDate)
	if err != nil {
		return err
	}

	sale, err := h.service.CreateSale(c.UserContext(), actorFrom(c), service.SaleCreateInput{
		PropertyID: req.PropertyID,
		BuyerID:    req.BuyerID,
		SellerID:   req.SellerID,
		SalePrice:  req.SalePrice,
		Commission: req.Commission,
		SaleDate:   saleDate,
		Notes:      req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSaleResponse(sale)})
}

// Get GET /api/sales/:id.
func (h *SalesHandler) Get(c *fiber.Ctx) error {
	listing, err := h.service.GetSale(c.UserContext(), actorFrom(c), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSaleListingResponse(listing)})
}

// Update PUT /api/sales/:id.
func (h *SalesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateSaleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	input := service.SaleUpdateInput{Notes: req.Notes}
	if req.Status != nil {
		status, ok := domain.ParseSaleStatus(*req.Status)
		if !ok {
			return apperrors.NewValidationError("invalid sale status", map[string]any{"status": *req.Status})
		}
		input.Status = &status
	}

	sale, err := h.service.UpdateSale(c.UserContext(), actorFrom(c), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSaleResponse(sale)})
}

// Stats GET /api/sales/stats.
func (h *SalesHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext(), actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSaleStatsResponse(stats)})
}
