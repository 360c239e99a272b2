package handler

import (
	"errors"
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/CarlosSalomon/Celebrate/internal/budget"
	"github.com/CarlosSalomon/Celebrate/internal/middleware"
	"github.com/CarlosSalomon/Celebrate/internal/store"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

func (h *Handler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(budget.Categories())
}

func (h *Handler) ListVendors(c *fiber.Ctx) error {
	category := c.Query("category")
	if _, err := budget.StatusField(category); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unknown vendor category")
	}

	vendors, err := h.store.ListVendorsByCategory(c.Context(), category)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(vendors)
}

// HireVendor applies the compound hire transition. The catalog entry
// is loaded server-side so clients can't forge prices.
func (h *Handler) HireVendor(c *fiber.Ctx) error {
	var req struct {
		VendorID string `json:"vendorId"`
	}
	if err := c.BodyParser(&req); err != nil || req.VendorID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "vendorId required")
	}

	v, err := h.store.VendorByID(c.Context(), req.VendorID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "vendor not found")
		}
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	if _, err := budget.StatusField(v.Category); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "unknown vendor category")
	}
	if math.IsNaN(v.Price) || math.IsInf(v.Price, 0) || v.Price < 0 {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid vendor price")
	}

	uid := middleware.UserID(c)
	eventID := c.Params("id")
	item, added, err := h.store.HireVendor(c.Context(), eventID, uid, v)
	if err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.EventTopic(eventID), ws.EventsTopic(uid))
	return c.JSON(fiber.Map{"lineItem": item, "added": added})
}

func (h *Handler) CancelService(c *fiber.Ctx) error {
	var req struct {
		LineItemID string  `json:"lineItemId"`
		Name       string  `json:"name"`
		Price      float64 `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.LineItemID == "" && req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "lineItemId or name+price required")
	}

	uid := middleware.UserID(c)
	eventID := c.Params("id")
	err := h.store.CancelService(c.Context(), eventID, uid, req.LineItemID, req.Name, req.Price, h.resetStatusOnCancel)
	if err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.EventTopic(eventID), ws.EventsTopic(uid))
	return c.SendStatus(fiber.StatusNoContent)
}
