package models

import "time"

// Category is a named grouping that expenses belong to.
// Labels are unique; deleting a category cascades to its expenses.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"type_of_category"`
	CreatedAt time.Time `json:"time_of_creation"`
}
