package models

import "time"

// Event is an audit log entry for a mutation performed through the API.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // e.g. "category.create", "user.register"
	Level     string    `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
