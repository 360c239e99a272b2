package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/CarlosSalomon/Celebrate/internal/middleware"
)

func RegisterRoutes(app *fiber.App, h *Handler, secret string) {
	authMW := middleware.Auth(secret)
	limited := middleware.RateLimit(middleware.NewRateLimiter(5, 10))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	api := app.Group("/api")

	api.Post("/auth/register", limited, h.Register)
	api.Post("/auth/login", limited, h.Login)
	api.Post("/auth/refresh", h.Refresh)
	api.Post("/auth/logout", authMW, h.Logout)

	api.Get("/me", authMW, h.Me)
	api.Put("/me", authMW, h.UpdateProfile)
	api.Put("/me/password", authMW, h.ChangePassword)

	api.Get("/categories", authMW, h.ListCategories)
	api.Get("/vendors", authMW, h.ListVendors)

	api.Get("/notifications", authMW, h.ListNotifications)
	api.Post("/notifications/:id/read", authMW, h.MarkNotificationRead)

	ev := api.Group("/events", authMW)
	ev.Post("/", h.CreateEvent)
	ev.Get("/", h.ListEvents)
	ev.Get("/:id", h.GetEvent)
	ev.Put("/:id", h.UpdateEvent)
	ev.Get("/:id/budget", h.BudgetSummary)

	ev.Post("/:id/vendors", h.HireVendor)
	ev.Post("/:id/vendors/cancel", h.CancelService)

	ev.Post("/:id/guests", h.AddGuest)
	ev.Get("/:id/guests", h.ListGuests)
	ev.Post("/:id/guests/:guestId/toggle", h.ToggleGuest)
	ev.Delete("/:id/guests/:guestId", h.DeleteGuest)

	ev.Post("/:id/tasks", h.AddTask)
	ev.Get("/:id/tasks", h.ListTasks)
	ev.Post("/:id/tasks/:taskId/toggle", h.ToggleTask)
	ev.Delete("/:id/tasks/:taskId", h.DeleteTask)

	ev.Post("/:id/notes", h.AddNote)
	ev.Get("/:id/notes", h.ListNotes)
	ev.Delete("/:id/notes/:noteId", h.DeleteNote)

	app.Use("/ws", authMW, UpgradeRequired)
	app.Get("/ws", h.ServeWS())
}
