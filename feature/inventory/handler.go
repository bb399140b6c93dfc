package inventory

import (
	"errors"
	"strconv"

	"inventory-sync/core/logger"
	"inventory-sync/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for inventory reads.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the experience inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api/v1/experience")
	group.Get("/:id/slots", h.HandleGetSlots)
	group.Get("/:id/dates", h.HandleGetDates)
}

// HandleGetSlots returns the slot catalog of a product for the given date.
func (h *Handler) HandleGetSlots(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return badRequest(c, err)
	}

	date := c.Query("date")
	if date == "" {
		return badRequest(c, errors.New("date query parameter is required"))
	}

	resp, err := h.service.GetSlots(c.Context(), productID, date)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(resp)
}

// HandleGetDates returns the product's available dates over the next 60 days.
func (h *Handler) HandleGetDates(c *fiber.Ctx) error {
	productID, err := parseProductID(c)
	if err != nil {
		return badRequest(c, err)
	}

	resp, err := h.service.GetDates(c.Context(), productID)
	if err != nil {
		return h.renderError(c, err)
	}
	return c.JSON(resp)
}

func (h *Handler) renderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrInvalidDate):
		return badRequest(c, err)
	case errors.Is(err, ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	default:
		l := logger.WithRayID(h.service.logger, c)
		l.Error("Inventory query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func parseProductID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, errors.New("invalid product id")
	}
	return uint(id), nil
}
