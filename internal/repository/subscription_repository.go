package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/magsub/subscription-api/internal/model"
)

// SubscriptionRepo encapsulates all database queries related to
// subscriptions. Relations to users, magazines and plans are plain
// foreign-key columns; callers needing the joined records query the other
// repositories.
type SubscriptionRepo struct {
	db *sql.DB
}

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{db: db} }

// SubscriptionUpdate carries the fields a PUT may change; nil means keep.
type SubscriptionUpdate struct {
	UserID      *uint64    `json:"user_id"`
	MagazineID  *uint64    `json:"magazine_id"`
	PlanID      *uint64    `json:"plan_id"`
	RenewalDate *time.Time `json:"renewal_date"`
	Price       *float64   `json:"price"`
	IsActive    *bool      `json:"is_active"`
}

const subCols = "id, user_id, magazine_id, plan_id, renewal_date, price, is_active"

// Create inserts a new subscription and populates its ID.
func (r *SubscriptionRepo) Create(ctx context.Context, s *model.Subscription) error {
	const q = "INSERT INTO subscriptions (user_id, magazine_id, plan_id, renewal_date, price, is_active) VALUES (?,?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, s.UserID, s.MagazineID, s.PlanID, s.RenewalDate, s.Price, s.IsActive)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches a subscription by id; ErrSubscriptionNotFound on a miss.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id uint64) (*model.Subscription, error) {
	const q = "SELECT " + subCols + " FROM subscriptions WHERE id=?"
	var s model.Subscription
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.UserID, &s.MagazineID, &s.PlanID, &s.RenewalDate, &s.Price, &s.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListAll returns all subscriptions ordered by id.
func (r *SubscriptionRepo) ListAll(ctx context.Context) ([]*model.Subscription, error) {
	return r.list(ctx, "SELECT "+subCols+" FROM subscriptions ORDER BY id")
}

// ListByUser returns a user's subscriptions ordered by id; a query-time
// filter rather than a live back-reference on the user record.
func (r *SubscriptionRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Subscription, error) {
	return r.list(ctx, "SELECT "+subCols+" FROM subscriptions WHERE user_id=? ORDER BY id", userID)
}

func (r *SubscriptionRepo) list(ctx context.Context, q string, args ...any) ([]*model.Subscription, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Subscription
	for rows.Next() {
		s := new(model.Subscription)
		if err := rows.Scan(&s.ID, &s.UserID, &s.MagazineID, &s.PlanID, &s.RenewalDate, &s.Price, &s.IsActive); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil patch fields and returns the merged record.
func (r *SubscriptionRepo) Update(ctx context.Context, id uint64, patch SubscriptionUpdate) (*model.Subscription, error) {
	s, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.UserID != nil {
		s.UserID = *patch.UserID
	}
	if patch.MagazineID != nil {
		s.MagazineID = *patch.MagazineID
	}
	if patch.PlanID != nil {
		s.PlanID = *patch.PlanID
	}
	if patch.RenewalDate != nil {
		s.RenewalDate = *patch.RenewalDate
	}
	if patch.Price != nil {
		s.Price = *patch.Price
	}
	if patch.IsActive != nil {
		s.IsActive = *patch.IsActive
	}
	const q = "UPDATE subscriptions SET user_id=?, magazine_id=?, plan_id=?, renewal_date=?, price=?, is_active=? WHERE id=?"
	if _, err := r.db.ExecContext(ctx, q, s.UserID, s.MagazineID, s.PlanID, s.RenewalDate, s.Price, s.IsActive, id); err != nil {
		return nil, err
	}
	return s, nil
}

// Delete removes a subscription; ErrSubscriptionNotFound on a miss.
func (r *SubscriptionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSubscriptionNotFound
	}
	return nil
}
