// Package ws pushes full query snapshots to subscribed clients
// whenever the underlying data changes. Each websocket holds the
// subscriptions for one screen and is dropped on teardown.
package ws

import (
	"context"
	"log"
	"sync"
)

// Sink is the write half of a client connection.
// *websocket.Conn satisfies it.
type Sink interface {
	WriteJSON(v any) error
}

// SnapshotFunc builds the current full snapshot for a topic.
type SnapshotFunc func(ctx context.Context, topic Topic) (any, error)

// Message is the frame delivered to subscribers.
type Message struct {
	Topic Topic `json:"topic"`
	Data  any   `json:"data"`
}

type Hub struct {
	mu       sync.Mutex
	subs     map[Topic]map[Sink]struct{}
	byConn   map[Sink]map[Topic]struct{}
	snapshot SnapshotFunc
}

func NewHub(snapshot SnapshotFunc) *Hub {
	return &Hub{
		subs:     make(map[Topic]map[Sink]struct{}),
		byConn:   make(map[Sink]map[Topic]struct{}),
		snapshot: snapshot,
	}
}

// Subscribe registers the sink and immediately pushes the current
// snapshot so the client never starts from a blank screen.
func (h *Hub) Subscribe(ctx context.Context, s Sink, t Topic) error {
	snap, err := h.snapshot(ctx, t)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[t] == nil {
		h.subs[t] = make(map[Sink]struct{})
	}
	h.subs[t][s] = struct{}{}
	if h.byConn[s] == nil {
		h.byConn[s] = make(map[Topic]struct{})
	}
	h.byConn[s][t] = struct{}{}

	return s.WriteJSON(Message{Topic: t, Data: snap})
}

func (h *Hub) Unsubscribe(s Sink, t Topic) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(s, t)
}

// Drop releases every subscription held by the sink. Must be called
// on connection teardown.
func (h *Hub) Drop(s Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for t := range h.byConn[s] {
		h.removeLocked(s, t)
	}
}

func (h *Hub) removeLocked(s Sink, t Topic) {
	if m := h.subs[t]; m != nil {
		delete(m, s)
		if len(m) == 0 {
			delete(h.subs, t)
		}
	}
	if m := h.byConn[s]; m != nil {
		delete(m, t)
		if len(m) == 0 {
			delete(h.byConn, s)
		}
	}
}

// Subscribers reports how many sinks watch a topic.
func (h *Hub) Subscribers(t Topic) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[t])
}

// Changed rebuilds the snapshot for each topic that has subscribers
// and pushes it. Topics are independent: there is no ordering
// guarantee across them. A failed write drops the sink.
func (h *Hub) Changed(ctx context.Context, topics ...Topic) {
	for _, t := range topics {
		if h.Subscribers(t) == 0 {
			continue
		}
		snap, err := h.snapshot(ctx, t)
		if err != nil {
			log.Printf("ws snapshot %s: %v", t, err)
			continue
		}

		h.mu.Lock()
		for s := range h.subs[t] {
			if err := s.WriteJSON(Message{Topic: t, Data: snap}); err != nil {
				log.Printf("ws write %s: %v", t, err)
				h.removeLocked(s, t)
			}
		}
		h.mu.Unlock()
	}
}
