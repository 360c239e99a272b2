package store

import (
	"context"

	"github.com/CarlosSalomon/Celebrate/internal/model"
)

func (s *Store) ListVendorsByCategory(ctx context.Context, category string) ([]model.Vendor, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, category, price, description, image, rating
		 FROM vendors WHERE category = $1 ORDER BY rating DESC, name`, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Vendor
	for rows.Next() {
		var v model.Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Category, &v.Price, &v.Description, &v.Image, &v.Rating); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) VendorByID(ctx context.Context, id string) (*model.Vendor, error) {
	v := &model.Vendor{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, category, price, description, image, rating
		 FROM vendors WHERE id = $1`, id,
	).Scan(&v.ID, &v.Name, &v.Category, &v.Price, &v.Description, &v.Image, &v.Rating)
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

// CreateVendor exists for catalog seeding; the app itself treats the
// catalog as read-only.
func (s *Store) CreateVendor(ctx context.Context, v *model.Vendor) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO vendors (id, name, category, price, description, image, rating)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		v.ID, v.Name, v.Category, v.Price, v.Description, v.Image, v.Rating,
	)
	return err
}
