package store

import (
	"context"
	"time"

	"github.com/CarlosSalomon/Celebrate/internal/model"
)

// OutboxEntry is a pending notification written in the same
// transaction as the event update that caused it.
type OutboxEntry struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Type      model.NotificationType
	Attempts  int
	SentAt    *time.Time
	CreatedAt time.Time
}

const maxOutboxAttempts = 10

func (s *Store) PendingOutbox(ctx context.Context, limit int) ([]OutboxEntry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, message, type, attempts, sent_at, created_at
		 FROM notification_outbox
		 WHERE sent_at IS NULL AND attempts < $1
		 ORDER BY created_at LIMIT $2`, maxOutboxAttempts, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OutboxEntry
	for rows.Next() {
		var e OutboxEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Message, &e.Type, &e.Attempts, &e.SentAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) MarkOutboxSent(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notification_outbox SET sent_at = now() WHERE id = $1`, id)
	return err
}

func (s *Store) BumpOutboxAttempts(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE notification_outbox SET attempts = attempts + 1 WHERE id = $1`, id)
	return err
}
