package domain

import "time"

// User is an account created in the auth backend for a test run.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
