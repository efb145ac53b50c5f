package models

import "time"

// Expense is a single spending record tied to one category.
type Expense struct {
	ID         int64     `json:"id"`
	PayedWith  string    `json:"payed_with"`
	Amount     int64     `json:"amount"`
	CategoryID int64     `json:"category_id"`
	// Category carries the resolved label on responses that join it in.
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"time_of_creation"`
}
