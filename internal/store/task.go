package store

import (
	"context"

	"github.com/CarlosSalomon/Celebrate/internal/model"
)

func (s *Store) CreateTask(ctx context.Context, t *model.Task) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO tasks (id, event_id, title) VALUES ($1,$2,$3)`,
		t.ID, t.EventID, t.Title,
	)
	return err
}

func (s *Store) ListTasks(ctx context.Context, eventID string) ([]model.Task, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, title, is_completed, created_at
		 FROM tasks WHERE event_id = $1 ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(&t.ID, &t.EventID, &t.Title, &t.IsCompleted, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) ToggleTask(ctx context.Context, id, eventID string) (bool, error) {
	var done bool
	err := s.pool.QueryRow(ctx,
		`UPDATE tasks SET is_completed = NOT is_completed
		 WHERE id = $1 AND event_id = $2 RETURNING is_completed`,
		id, eventID,
	).Scan(&done)
	if err != nil {
		return false, notFound(err)
	}
	return done, nil
}

func (s *Store) DeleteTask(ctx context.Context, id, eventID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND event_id = $2`, id, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
