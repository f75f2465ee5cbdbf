package model

import "time"

// Subscription links a user to a magazine under a plan. Relations are plain
// foreign-key columns; callers that need the joined records query the
// referenced tables explicitly.
type Subscription struct {
	ID          uint64    `json:"id"`           // subscriptions.id
	UserID      uint64    `json:"user_id"`      // subscriptions.user_id -> users.id
	MagazineID  uint64    `json:"magazine_id"`  // subscriptions.magazine_id -> magazines.id
	PlanID      uint64    `json:"plan_id"`      // subscriptions.plan_id -> plans.id
	RenewalDate time.Time `json:"renewal_date"` // subscriptions.renewal_date (date only)
	Price       float64   `json:"price"`        // subscriptions.price
	IsActive    bool      `json:"is_active"`    // subscriptions.is_active
}
