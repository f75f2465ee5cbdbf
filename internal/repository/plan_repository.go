package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/magsub/subscription-api/internal/model"
)

// PlanRepo encapsulates all database queries related to subscription plans.
type PlanRepo struct {
	db *sql.DB
}

func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

// PlanUpdate carries the fields a PUT may change; nil means keep.
type PlanUpdate struct {
	Title         *string  `json:"title"`
	Description   *string  `json:"description"`
	RenewalPeriod *int     `json:"renewal_period"`
	Tier          *int     `json:"tier"`
	Discount      *float64 `json:"discount"`
}

const planCols = "id, title, description, renewal_period, tier, discount"

// Create inserts a new plan and populates its ID.
func (r *PlanRepo) Create(ctx context.Context, p *model.Plan) error {
	const q = "INSERT INTO plans (title, description, renewal_period, tier, discount) VALUES (?,?,?,?,?)"
	res, err := r.db.ExecContext(ctx, q, p.Title, p.Description, p.RenewalPeriod, p.Tier, p.Discount)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByID fetches a plan by id; ErrPlanNotFound on a miss.
func (r *PlanRepo) GetByID(ctx context.Context, id uint64) (*model.Plan, error) {
	const q = "SELECT " + planCols + " FROM plans WHERE id=?"
	var p model.Plan
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&p.ID, &p.Title, &p.Description, &p.RenewalPeriod, &p.Tier, &p.Discount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListAll returns all plans ordered by id.
func (r *PlanRepo) ListAll(ctx context.Context) ([]*model.Plan, error) {
	const q = "SELECT " + planCols + " FROM plans ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Plan
	for rows.Next() {
		p := new(model.Plan)
		if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.RenewalPeriod, &p.Tier, &p.Discount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update applies the non-nil patch fields and returns the merged plan.
func (r *PlanRepo) Update(ctx context.Context, id uint64, patch PlanUpdate) (*model.Plan, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.RenewalPeriod != nil {
		p.RenewalPeriod = *patch.RenewalPeriod
	}
	if patch.Tier != nil {
		p.Tier = *patch.Tier
	}
	if patch.Discount != nil {
		p.Discount = *patch.Discount
	}
	const q = "UPDATE plans SET title=?, description=?, renewal_period=?, tier=?, discount=? WHERE id=?"
	if _, err := r.db.ExecContext(ctx, q, p.Title, p.Description, p.RenewalPeriod, p.Tier, p.Discount, id); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a plan and its subscriptions; ErrPlanNotFound on a miss.
func (r *PlanRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err = tx.ExecContext(ctx, "DELETE FROM subscriptions WHERE plan_id=?", id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, "DELETE FROM plans WHERE id=?", id); err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		err = ErrPlanNotFound
		return err
	}
	return nil
}
