package models

// ErrorResponse is the body returned for every non-2xx reply
type ErrorResponse struct {
	Error   string        `json:"error"`
	Details []FieldDetail `json:"details,omitempty"`
}

// FieldDetail describes a single failed validation rule
type FieldDetail struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

const (
	ErrValidation     = "Validation Error"
	ErrUserNotFound   = "User not found"
	ErrInternalServer = "Internal Server Error"
	ErrRateLimited    = "Rate limit exceeded. Please try again later."
)
