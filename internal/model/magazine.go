package model

// Magazine represents a row in the `magazines` table. BasePrice is the
// undiscounted price per renewal period; plan discounts apply on top of it
// when a subscription is created.
type Magazine struct {
	ID          uint64  `json:"id"`          // magazines.id
	Name        string  `json:"name"`        // magazines.name
	Description string  `json:"description"` // magazines.description
	BasePrice   float64 `json:"base_price"`  // magazines.base_price
}
