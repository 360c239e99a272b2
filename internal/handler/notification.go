package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosSalomon/Celebrate/internal/middleware"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

func (h *Handler) ListNotifications(c *fiber.Ctx) error {
	out, err := h.store.ListNotifications(c.Context(), middleware.UserID(c))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(out)
}

func (h *Handler) MarkNotificationRead(c *fiber.Ctx) error {
	uid := middleware.UserID(c)
	if err := h.store.MarkNotificationRead(c.Context(), c.Params("id"), uid); err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.NotificationsTopic(uid))
	return c.SendStatus(fiber.StatusNoContent)
}
