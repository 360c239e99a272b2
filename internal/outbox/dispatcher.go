// Package outbox drains notification rows queued alongside event
// updates. The event write is the only atomicity guarantee; delivery
// here is at-least-once with bounded retries.
package outbox

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/CarlosSalomon/Celebrate/internal/model"
	"github.com/CarlosSalomon/Celebrate/internal/store"
	"github.com/CarlosSalomon/Celebrate/internal/ws"
)

const batchSize = 50

type Dispatcher struct {
	store    *store.Store
	hub      *ws.Hub
	pub      *Publisher // nil when no broker is configured
	interval time.Duration
}

func NewDispatcher(st *store.Store, hub *ws.Hub, pub *Publisher, interval time.Duration) *Dispatcher {
	return &Dispatcher{store: st, hub: hub, pub: pub, interval: interval}
}

// Run polls until the context is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	t := time.NewTicker(d.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := d.Drain(ctx); err != nil {
				log.Printf("outbox: %v", err)
			}
		}
	}
}

// Drain delivers one batch of pending entries.
func (d *Dispatcher) Drain(ctx context.Context) error {
	entries, err := d.store.PendingOutbox(ctx, batchSize)
	if err != nil {
		return err
	}

	for _, e := range entries {
		n := &model.Notification{
			ID:      uuid.New().String(),
			UserID:  e.UserID,
			Title:   e.Title,
			Message: e.Message,
			Type:    e.Type,
		}
		if err := d.store.CreateNotification(ctx, n); err != nil {
			log.Printf("outbox deliver %s: %v", e.ID, err)
			if err := d.store.BumpOutboxAttempts(ctx, e.ID); err != nil {
				log.Printf("outbox bump %s: %v", e.ID, err)
			}
			continue
		}
		if err := d.store.MarkOutboxSent(ctx, e.ID); err != nil {
			// worst case the entry is delivered again; acceptable for
			// at-least-once notifications
			log.Printf("outbox mark %s: %v", e.ID, err)
		}

		if d.pub != nil {
			if err := d.pub.Publish(ctx, "notification.created", n); err != nil {
				log.Printf("outbox publish %s: %v", e.ID, err)
			}
		}
		if d.hub != nil {
			d.hub.Changed(ctx, ws.NotificationsTopic(e.UserID))
		}
	}
	return nil
}
