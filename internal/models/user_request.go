package models

import "usercache-be/internal/entities"

// CreateUserRequest represents the request body for creating a user
type CreateUserRequest struct {
	Name  string `json:"name" binding:"required,min=1"`   // Must be non-empty
	Email string `json:"email" binding:"required,email"` // Gin validation: required and must be valid email
}

// ToFields converts the request into repository input
func (r *CreateUserRequest) ToFields() entities.UserFields {
	return entities.UserFields{
		Name:  r.Name,
		Email: r.Email,
	}
}
