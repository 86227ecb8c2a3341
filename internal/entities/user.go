package entities

import "time"

// User represents a user record owned by the repository
type User struct {
	ID        string    `json:"id"` // UUID, assigned by the repository
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"` // Stamped once at creation
}

// UserFields holds the caller-supplied fields used to create a user
type UserFields struct {
	Name  string
	Email string
}
