package handler

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CarlosSalomon/Celebrate/internal/model"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

func (h *Handler) AddGuest(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "name required")
	}

	g := &model.Guest{
		ID:      uuid.New().String(),
		EventID: e.ID,
		Name:    req.Name,
		Email:   strings.TrimSpace(req.Email),
		Status:  model.GuestPending,
	}
	if err := h.store.CreateGuest(c.Context(), g); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	if h.mailer != nil && g.Email != "" {
		// best-effort; an unreachable SMTP host must not fail the add
		go func(to, name, event string) {
			if err := h.mailer.SendGuestInvite(to, name, event); err != nil {
				log.Printf("guest invite %s: %v", to, err)
			}
		}(g.Email, g.Name, e.Name)
	}

	h.hub.Changed(c.Context(), ws.GuestsTopic(e.ID))
	return c.Status(fiber.StatusCreated).JSON(g)
}

func (h *Handler) ListGuests(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	guests, err := h.store.ListGuests(c.Context(), e.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	confirmed := 0
	for _, g := range guests {
		if g.Status == model.GuestConfirmed {
			confirmed++
		}
	}
	return c.JSON(fiber.Map{"guests": guests, "confirmed": confirmed})
}

func (h *Handler) ToggleGuest(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	next, err := h.store.ToggleGuestStatus(c.Context(), c.Params("guestId"), e.ID)
	if err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.GuestsTopic(e.ID))
	return c.JSON(fiber.Map{"status": next})
}

func (h *Handler) DeleteGuest(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.store.DeleteGuest(c.Context(), c.Params("guestId"), e.ID); err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.GuestsTopic(e.ID))
	return c.SendStatus(fiber.StatusNoContent)
}
