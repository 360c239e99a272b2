package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/CarlosSalomon/Celebrate/internal/budget"
	"github.com/CarlosSalomon/Celebrate/internal/model"
)

func (s *Store) CreateEvent(ctx context.Context, e *model.Event) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO events (id, owner_id, name, event_type, date, budget, guest_count)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		e.ID, e.OwnerID, e.Name, e.EventType, e.Date, e.Budget, e.GuestCount,
	)
	return err
}

func (s *Store) EventByID(ctx context.Context, id string) (*model.Event, error) {
	e := &model.Event{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, event_type, date, budget, guest_count,
		        status_dj, status_catering, status_decoration, status_venue, status_photography,
		        created_at, updated_at
		 FROM events WHERE id = $1`, id,
	).Scan(&e.ID, &e.OwnerID, &e.Name, &e.EventType, &e.Date, &e.Budget, &e.GuestCount,
		&e.Status.DJ, &e.Status.Catering, &e.Status.Decoration, &e.Status.Venue, &e.Status.Photography,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	// load line items
	rows, err := s.pool.Query(ctx,
		`SELECT id, vendor_id, name, category, price, hired_at
		 FROM hired_vendors WHERE event_id = $1 ORDER BY hired_at, id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it model.VendorLineItem
		if err := rows.Scan(&it.ID, &it.VendorID, &it.Name, &it.Category, &it.Price, &it.HiredAt); err != nil {
			return nil, err
		}
		e.HiredVendors = append(e.HiredVendors, it)
	}
	return e, rows.Err()
}

func (s *Store) ListEvents(ctx context.Context, ownerID string) ([]model.Event, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, owner_id, name, event_type, date, budget, guest_count,
		        status_dj, status_catering, status_decoration, status_venue, status_photography,
		        created_at, updated_at
		 FROM events WHERE owner_id = $1 ORDER BY date`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Name, &e.EventType, &e.Date, &e.Budget, &e.GuestCount,
			&e.Status.DJ, &e.Status.Catering, &e.Status.Decoration, &e.Status.Venue, &e.Status.Photography,
			&e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) UpdateEvent(ctx context.Context, e *model.Event) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE events
		 SET name=$1, event_type=$2, date=$3, budget=$4, guest_count=$5, updated_at=now()
		 WHERE id=$6 AND owner_id=$7`,
		e.Name, e.EventType, e.Date, e.Budget, e.GuestCount, e.ID, e.OwnerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// HireVendor applies the compound hire transition in one transaction:
// flip the category status flag, append the line item if absent, and
// enqueue the success notification in the outbox. The line-item unique
// constraint makes concurrent identical hires converge on one row.
func (s *Store) HireVendor(ctx context.Context, eventID, ownerID string, v *model.Vendor) (*model.VendorLineItem, bool, error) {
	field, err := budget.StatusField(v.Category)
	if err != nil {
		return nil, false, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx)

	// field comes from the fixed category map, never from input
	tag, err := tx.Exec(ctx,
		fmt.Sprintf(`UPDATE events SET status_%s = TRUE, updated_at = now() WHERE id = $1 AND owner_id = $2`, field),
		eventID, ownerID,
	)
	if err != nil {
		return nil, false, err
	}
	if tag.RowsAffected() == 0 {
		return nil, false, ErrNotFound
	}

	item := &model.VendorLineItem{
		ID:       uuid.New().String(),
		VendorID: v.ID,
		Name:     v.Name,
		Category: v.Category,
		Price:    v.Price,
	}
	added := true
	err = tx.QueryRow(ctx,
		`INSERT INTO hired_vendors (id, event_id, vendor_id, name, category, price)
		 VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (event_id, vendor_id, name, category, price) DO NOTHING
		 RETURNING hired_at`,
		item.ID, eventID, v.ID, v.Name, v.Category, v.Price,
	).Scan(&item.HiredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// duplicate hire: hand back the row that is already there so
		// the client holds a cancellable id
		added = false
		err = tx.QueryRow(ctx,
			`SELECT id, hired_at FROM hired_vendors
			 WHERE event_id = $1 AND vendor_id = $2 AND name = $3 AND category = $4 AND price = $5`,
			eventID, v.ID, v.Name, v.Category, v.Price,
		).Scan(&item.ID, &item.HiredAt)
	}
	if err != nil {
		return nil, false, err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO notification_outbox (id, user_id, title, message, type) VALUES ($1,$2,$3,$4,$5)`,
		uuid.New().String(), ownerID,
		"Vendor hired",
		fmt.Sprintf("You hired %s for your event.", v.Name),
		model.NotifySuccess,
	)
	if err != nil {
		return nil, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, err
	}
	return item, added, nil
}

// CancelService removes a hired line item, matched by its stable id
// when the client sends one, otherwise by (name, price) for older
// clients. Resetting the category flag is optional and off by
// default; the flag then keeps meaning "category addressed".
func (s *Store) CancelService(ctx context.Context, eventID, ownerID, lineItemID, name string, price float64, resetFlag bool) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE events SET updated_at = now() WHERE id = $1 AND owner_id = $2`,
		eventID, ownerID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	var rowsQ string
	var args []any
	if lineItemID != "" {
		rowsQ = `DELETE FROM hired_vendors WHERE event_id = $1 AND id = $2 RETURNING category`
		args = []any{eventID, lineItemID}
	} else {
		rowsQ = `DELETE FROM hired_vendors WHERE event_id = $1 AND name = $2 AND price = $3 RETURNING category`
		args = []any{eventID, name, price}
	}

	rows, err := tx.Query(ctx, rowsQ, args...)
	if err != nil {
		return err
	}
	categories := map[string]bool{}
	for rows.Next() {
		var cat string
		if err := rows.Scan(&cat); err != nil {
			rows.Close()
			return err
		}
		categories[cat] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	if len(categories) == 0 {
		return ErrNotFound
	}

	if resetFlag {
		for cat := range categories {
			field, err := budget.StatusField(cat)
			if err != nil {
				continue // legacy rows with unmapped categories keep their flags
			}
			_, err = tx.Exec(ctx,
				fmt.Sprintf(`UPDATE events SET status_%s = FALSE
				 WHERE id = $1
				   AND NOT EXISTS (SELECT 1 FROM hired_vendors WHERE event_id = $1 AND category = $2)`, field),
				eventID, cat,
			)
			if err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}
