package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/CarlosSalomon/Celebrate/internal/budget"
	"github.com/CarlosSalomon/Celebrate/internal/middleware"
	"github.com/CarlosSalomon/Celebrate/internal/store"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

// UpgradeRequired gates the websocket route; Auth has already run and
// stashed the user id in locals.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

type wsRequest struct {
	Action  string `json:"action"` // subscribe | unsubscribe
	Topic   string `json:"topic"`
	EventID string `json:"eventId"`
}

// ServeWS runs one connection: the client subscribes to the topics
// its screen needs and every subscription is released on teardown.
func (h *Handler) ServeWS() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		uid, _ := conn.Locals(middleware.UserIDKey).(string)
		defer func() {
			h.hub.Drop(conn)
			conn.Close()
		}()

		for {
			var req wsRequest
			if err := conn.ReadJSON(&req); err != nil {
				return
			}

			topic, err := h.resolveTopic(uid, req.Topic, req.EventID)
			if err != nil {
				_ = conn.WriteJSON(fiber.Map{"error": err.Error()})
				continue
			}

			switch req.Action {
			case "subscribe":
				if err := h.hub.Subscribe(context.Background(), conn, topic); err != nil {
					_ = conn.WriteJSON(fiber.Map{"error": "subscribe failed"})
				}
			case "unsubscribe":
				h.hub.Unsubscribe(conn, topic)
			default:
				_ = conn.WriteJSON(fiber.Map{"error": "unknown action"})
			}
		}
	})
}

// resolveTopic authorizes a subscription request. Event-scoped topics
// require owning the event; foreign events look nonexistent.
func (h *Handler) resolveTopic(uid, kind, eventID string) (ws.Topic, error) {
	switch kind {
	case ws.KindEvents:
		return ws.EventsTopic(uid), nil
	case ws.KindNotifications:
		return ws.NotificationsTopic(uid), nil
	case ws.KindEvent, ws.KindGuests, ws.KindTasks:
		if eventID == "" {
			return "", errors.New("eventId required")
		}
		e, err := h.store.EventByID(context.Background(), eventID)
		if err != nil || e.OwnerID != uid {
			return "", errors.New("not found")
		}
		switch kind {
		case ws.KindEvent:
			return ws.EventTopic(eventID), nil
		case ws.KindGuests:
			return ws.GuestsTopic(eventID), nil
		default:
			return ws.TasksTopic(eventID), nil
		}
	}
	return "", fmt.Errorf("unknown topic %q", kind)
}

// Snapshots builds the full-snapshot view the hub pushes per topic.
func Snapshots(st *store.Store) ws.SnapshotFunc {
	return func(ctx context.Context, t ws.Topic) (any, error) {
		kind, id := t.Split()
		switch kind {
		case ws.KindEvents:
			return st.ListEvents(ctx, id)
		case ws.KindEvent:
			e, err := st.EventByID(ctx, id)
			if err != nil {
				return nil, err
			}
			s, err := budget.Compute(e.Budget, e.HiredVendors)
			if err != nil {
				return nil, err
			}
			return map[string]any{"event": e, "summary": s}, nil
		case ws.KindGuests:
			return st.ListGuests(ctx, id)
		case ws.KindTasks:
			return st.ListTasks(ctx, id)
		case ws.KindNotifications:
			return st.ListNotifications(ctx, id)
		}
		return nil, fmt.Errorf("unknown topic %q", t)
	}
}
