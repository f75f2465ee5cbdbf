package model

// Plan represents a row in the `plans` table. RenewalPeriod is expressed in
// months. Tier orders plans from cheapest to most featureful; Discount is a
// fraction of the magazine base price taken off per period.
type Plan struct {
	ID            uint64  `json:"id"`             // plans.id
	Title         string  `json:"title"`          // plans.title
	Description   string  `json:"description"`    // plans.description
	RenewalPeriod int     `json:"renewal_period"` // plans.renewal_period
	Tier          int     `json:"tier"`           // plans.tier
	Discount      float64 `json:"discount"`       // plans.discount
}
