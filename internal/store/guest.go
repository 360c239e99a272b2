package store

import (
	"context"

	"github.com/CarlosSalomon/Celebrate/internal/model"
)

func (s *Store) CreateGuest(ctx context.Context, g *model.Guest) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO guests (id, event_id, name, email, status) VALUES ($1,$2,$3,$4,$5)`,
		g.ID, g.EventID, g.Name, g.Email, g.Status,
	)
	return err
}

func (s *Store) ListGuests(ctx context.Context, eventID string) ([]model.Guest, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, event_id, name, email, status, created_at
		 FROM guests WHERE event_id = $1 ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Guest
	for rows.Next() {
		var g model.Guest
		if err := rows.Scan(&g.ID, &g.EventID, &g.Name, &g.Email, &g.Status, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// ToggleGuestStatus advances the RSVP cycle under a row lock so two
// concurrent toggles can't skip a state.
func (s *Store) ToggleGuestStatus(ctx context.Context, id, eventID string) (model.GuestStatus, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	var cur model.GuestStatus
	err = tx.QueryRow(ctx,
		`SELECT status FROM guests WHERE id = $1 AND event_id = $2 FOR UPDATE`,
		id, eventID,
	).Scan(&cur)
	if err != nil {
		return "", notFound(err)
	}

	next := cur.Next()
	_, err = tx.Exec(ctx,
		`UPDATE guests SET status = $1 WHERE id = $2`, next, id)
	if err != nil {
		return "", err
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return next, nil
}

func (s *Store) DeleteGuest(ctx context.Context, id, eventID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM guests WHERE id = $1 AND event_id = $2`, id, eventID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
