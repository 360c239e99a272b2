package handler

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Notes live in the local embedded table; there is no realtime topic
// for them and nothing here touches postgres beyond the ownership
// check on the event.

func (h *Handler) AddNote(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		return fiber.NewError(fiber.StatusBadRequest, "content required")
	}

	id, err := h.notes.Insert(c.Context(), e.ID, req.Content, time.Now())
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *Handler) ListNotes(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	out, err := h.notes.ListByEvent(c.Context(), e.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(out)
}

func (h *Handler) DeleteNote(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Params("noteId"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}
	if err := h.notes.Delete(c.Context(), id, e.ID); err != nil {
		return fiber.NewError(fiber.StatusNotFound, "not found")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
