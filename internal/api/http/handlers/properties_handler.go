package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/realestate-service/internal/api/dto"
	"github.com/spec-kit/realestate-service/internal/service"
)

// PropertiesHandler manages the property catalogue endpoints.
type PropertiesHandler struct {
	service *service.PropertyService
}

// NewPropertiesHandler constructs handler.
func NewPropertiesHandler(propertyService *service.PropertyService) *PropertiesHandler {
	return &PropertiesHandler{service: propertyService}
}

// List GET /api/properties.
func (h *PropertiesHandler) List(c *fiber.Ctx) error {
	minPrice, err := queryFloat(c, "minPrice")
	if err != nil {
		return err
	}
	maxPrice, err := queryFloat(c, "maxPrice")
	if err != nil {
		return err
	}

	listings, err := h.service.List(c.UserContext(), service.PropertyQuery{
		Status:       c.Query("status"),
		City:         c.Query("city"),
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		PropertyType: c.Query("propertyType"),
	})
	if err != nil {
		return err
	}
	items := make([]dto.PropertyResponse, 0, len(listings))
	for i := range listings {
		items = append(items, dto.NewPropertyListingResponse(&listings[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Get GET /api/properties/:id.
func (h *PropertiesHandler) Get(c *fiber.Ctx) error {
	listing, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPropertyListingResponse(listing)})
}

// Create POST /api/properties.
func (h *PropertiesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreatePropertyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	property, err := h.service.Create(c.UserContext(), actorFrom(c), service.PropertyCreateInput{
		SellerID:     req.SellerID,
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		PropertyType: req.PropertyType,
		ImageURL:     req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewPropertyResponse(property)})
}

// Update PUT /api/properties/:id.
func (h *PropertiesHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdatePropertyRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	property, err := h.service.Update(c.UserContext(), actorFrom(c), c.Params("id"), service.PropertyUpdateInput{
		Title:        req.Title,
		Description:  req.Description,
		Price:        req.Price,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		ZipCode:      req.ZipCode,
		Bedrooms:     req.Bedrooms,
		Bathrooms:    req.Bathrooms,
		SquareFeet:   req.SquareFeet,
		PropertyType: req.PropertyType,
		ImageURL:     req.ImageURL,
		Status:       req.Status,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPropertyResponse(property)})
}

// Delete DELETE /api/properties/:id.
func (h *PropertiesHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.service.Delete(c.UserContext(), actorFrom(c), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id, "deleted": true}})
}
