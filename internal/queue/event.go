// Package queue defines message payloads exchanged over the message broker.
package queue

// SubscriptionCreatedEvent is published when a subscription is successfully
// created. It contains enough information for downstream consumers to log,
// notify, or trigger fulfillment without querying the primary database.
type SubscriptionCreatedEvent struct {
	SubscriptionID uint64  `json:"subscription_id"`
	UserID         uint64  `json:"user_id"`
	UserEmail      string  `json:"user_email"`
	MagazineID     uint64  `json:"magazine_id"`
	MagazineName   string  `json:"magazine_name"`
	PlanID         uint64  `json:"plan_id"`
	PlanTitle      string  `json:"plan_title"`
	RenewalDate    string  `json:"renewal_date"`
	Price          float64 `json:"price"`
	CreatedAt      string  `json:"created_at"`
}
