package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/CarlosSalomon/Celebrate/internal/mail"
	"github.com/CarlosSalomon/Celebrate/internal/middleware"
	"github.com/CarlosSalomon/Celebrate/internal/model"
	"github.com/CarlosSalomon/Celebrate/internal/notes"
	"github.com/CarlosSalomon/Celebrate/internal/store"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

type Config struct {
	Store  *store.Store
	Notes  *notes.Store
	Hub    *ws.Hub
	Mailer *mail.Mailer // nil disables guest invitations
	Secret string

	// By default a category flag stays set after a cancellation;
	// turning this on clears it when the last line item of the
	// category goes away.
	ResetStatusOnCancel bool
}

type Handler struct {
	store  *store.Store
	notes  *notes.Store
	hub    *ws.Hub
	mailer *mail.Mailer
	secret string

	resetStatusOnCancel bool
}

func New(cfg Config) *Handler {
	return &Handler{
		store:               cfg.Store,
		notes:               cfg.Notes,
		hub:                 cfg.Hub,
		mailer:              cfg.Mailer,
		secret:              cfg.Secret,
		resetStatusOnCancel: cfg.ResetStatusOnCancel,
	}
}

// ownedEvent loads an event and enforces ownership.
// Foreign events return 404, not 403, to hide their existence.
func (h *Handler) ownedEvent(c *fiber.Ctx, eventID string) (*model.Event, error) {
	e, err := h.store.EventByID(c.Context(), eventID)
	if err != nil {
		return nil, storeErr(err)
	}
	if e.OwnerID != middleware.UserID(c) {
		return nil, fiber.NewError(fiber.StatusNotFound, "not found")
	}
	return e, nil
}

func storeErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "internal error")
}
