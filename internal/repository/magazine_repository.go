package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/magsub/subscription-api/internal/model"
)

// MagazineRepo encapsulates all database queries related to magazines.
type MagazineRepo struct {
	db *sql.DB
}

// NewMagazineRepo constructs a MagazineRepo with the provided DB handle.
func NewMagazineRepo(db *sql.DB) *MagazineRepo {
	return &MagazineRepo{db: db}
}

// MagazineUpdate carries the fields a PUT may change. Nil pointers mean
// "leave as is"; the merge is explicit and field by field.
type MagazineUpdate struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	BasePrice   *float64 `json:"base_price"`
}

// Create inserts a new magazine. On success the ID field is populated with
// the auto-generated value.
func (r *MagazineRepo) Create(ctx context.Context, m *model.Magazine) error {
	const q = "INSERT INTO magazines (name, description, base_price) VALUES (?,?,?)"
	res, err := r.db.ExecContext(ctx, q, m.Name, m.Description, m.BasePrice)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches a magazine by its ID. It returns ErrMagazineNotFound if
// no row is found.
func (r *MagazineRepo) GetByID(ctx context.Context, id uint64) (*model.Magazine, error) {
	const q = "SELECT id, name, description, base_price FROM magazines WHERE id=?"
	var m model.Magazine
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&m.ID, &m.Name, &m.Description, &m.BasePrice); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMagazineNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListAll returns all magazines ordered by id.
func (r *MagazineRepo) ListAll(ctx context.Context) ([]*model.Magazine, error) {
	const q = "SELECT id, name, description, base_price FROM magazines ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Magazine
	for rows.Next() {
		m := new(model.Magazine)
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.BasePrice); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update loads the row, applies the non-nil patch fields and writes the
// merged record back, returning it. ErrMagazineNotFound on a miss.
func (r *MagazineRepo) Update(ctx context.Context, id uint64, patch MagazineUpdate) (*model.Magazine, error) {
	m, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	if patch.BasePrice != nil {
		m.BasePrice = *patch.BasePrice
	}
	const q = "UPDATE magazines SET name=?, description=?, base_price=? WHERE id=?"
	if _, err := r.db.ExecContext(ctx, q, m.Name, m.Description, m.BasePrice, id); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a magazine and its subscriptions. ErrMagazineNotFound
// when the row does not exist.
func (r *MagazineRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, "DELETE FROM subscriptions WHERE magazine_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM magazines WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrMagazineNotFound
		return err
	}
	return nil
}
