package store

import (
	"context"

	"github.com/CarlosSalomon/Celebrate/internal/model"
)

func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO notifications (id, user_id, title, message, type) VALUES ($1,$2,$3,$4,$5)`,
		n.ID, n.UserID, n.Title, n.Message, n.Type,
	)
	return err
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, user_id, title, message, type, is_read, created_at
		 FROM notifications WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE notifications SET is_read = true WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
