package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/CarlosSalomon/Celebrate/internal/model"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

func (h *Handler) AddTask(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title required")
	}

	t := &model.Task{
		ID:      uuid.New().String(),
		EventID: e.ID,
		Title:   req.Title,
	}
	if err := h.store.CreateTask(c.Context(), t); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}

	h.hub.Changed(c.Context(), ws.TasksTopic(e.ID))
	return c.Status(fiber.StatusCreated).JSON(t)
}

func (h *Handler) ListTasks(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	tasks, err := h.store.ListTasks(c.Context(), e.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
	return c.JSON(tasks)
}

func (h *Handler) ToggleTask(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	done, err := h.store.ToggleTask(c.Context(), c.Params("taskId"), e.ID)
	if err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.TasksTopic(e.ID))
	return c.JSON(fiber.Map{"isCompleted": done})
}

func (h *Handler) DeleteTask(c *fiber.Ctx) error {
	e, err := h.ownedEvent(c, c.Params("id"))
	if err != nil {
		return err
	}

	if err := h.store.DeleteTask(c.Context(), c.Params("taskId"), e.ID); err != nil {
		return storeErr(err)
	}

	h.hub.Changed(c.Context(), ws.TasksTopic(e.ID))
	return c.SendStatus(fiber.StatusNoContent)
}
