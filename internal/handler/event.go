package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CarlosSalomon/Celebrate/internal/budget"
	"github.com/CarlosSalomon/Celebrate/internal/middleware"
	"github.com/CarlosSalomon/Celebrate/internal/model"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

type eventRequest struct {
	Name       string  `json:"name"`
	EventType  string  `json:"eventType"`
	Date       string  `json:"date"`
	Budget     float64 `json:"budget"`
	GuestCount int     `json:"guestCount"`
}

func (r *eventRequest) validate() (time.Time, error) {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return time.Time{}, errors.New("name required")
	}
	if r.Budget <= 0 {
		return time.Time{}, errors.New("budget required")
	}
	if r.Date == "" {
		return time.Now(), nil
	}
	date, err := time.Parse(time.RFC3339, r.Date)
	if err != nil {
		return time.Time{}, errors.New("date must be RFC 3339")
	}
	return date, nil
}

func (h *Handler) CreateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	date, err := req.validate()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	uid := middleware.UserID(c)
	e := &model.Event{
		ID:         uuid.New().String(),
		OwnerID:    uid,
		Name:       req.Name,
		EventType:  req.EventType,
		Date:       date,
		Budget:     req.Budget,
		GuestCount: req.GuestCount,
	}
	if err := h.store.CreateEvent(c.Context(), e); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	h.hub.Changed(c.Context(), ws.EventsTopic(uid))
	return c.Status(fiber.StatusCreated).JSON(e)
}

func (h *Handler) ListEvents(c *fiber.Ctx) error {
	events, err := h.store.ListEvents(c.Context(), middleware.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(events)
}

func (h *Handler) GetEvent(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(e)
}

func (h *Handler) UpdateEvent(c *fiber.Ctx) error {
	var req eventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	date, err := req.validate()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	uid := middleware.UserID(c)
	e := &model.Event{
		ID:         c.Params("id"),
		OwnerID:    uid,
		Name:       req.Name,
		EventType:  req.EventType,
		Date:       date,
		Budget:     req.Budget,
		GuestCount: req.GuestCount,
	}
	if err := h.store.UpdateEvent(c.Context(), e); err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.EventsTopic(uid), ws.EventTopic(e.ID))
	return c.SendStatus(fiber.StatusNoContent)
}

// BudgetSummary returns derived spend figures plus the line items the
// budget screen renders.
func (h *Handler) BudgetSummary(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	s, err := budget.Compute(e.Budget, e.HiredVendors)
	if err != nil {
		return fiber.NewError(fiber.StatusUnprocessableEntity, "invalid line item price")
	}

	return c.JSON(fiber.Map{
		"budget":         e.Budget,
		"totalSpent":     s.TotalSpent,
		"remaining":      s.Remaining,
		"percentage":     s.Percentage,
		"displayPercent": s.DisplayPercent(),
		"overspent":      s.Overspent(),
		"hiredVendors":   e.HiredVendors,
	})
}
