package models

import "time"

// User represents a registered account.
type User struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Age            *int      `json:"age"`
	AccountBalance float64   `json:"account_balance"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Never expose this to the client
	CreatedAt      time.Time `json:"time_of_creation"`
}
