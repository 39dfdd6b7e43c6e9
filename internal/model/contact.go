package model

import "time"

// Contact is a single address-book entry owned by exactly one user.
type Contact struct {
	ID         int64     `json:"id"`
	UserID     int       `json:"user_id"`
	Name       string    `json:"name"`
	Phone      string    `json:"phone"`
	Email      string    `json:"email"`
	Company    *string   `json:"company,omitempty"` // Pointer for optional field
	Tags       []string  `json:"tags,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
	IsFavorite bool      `json:"is_favorite"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateContactRequest is used for creating a new contact.
// Owner is never taken from the payload; it comes from the authenticated caller.
type CreateContactRequest struct {
	Name       string   `json:"name" binding:"required"`
	Phone      string   `json:"phone" binding:"required"`
	Email      string   `json:"email" binding:"required"`
	Company    *string  `json:"company"`
	Tags       []string `json:"tags"`
	Notes      *string  `json:"notes"`
	IsFavorite bool     `json:"is_favorite"`
}

type UpdateContactRequest struct {
	Name       *string  `json:"name,omitempty"` // Pointers to allow partial updates
	Phone      *string  `json:"phone,omitempty"`
	Email      *string  `json:"email,omitempty"`
	Company    *string  `json:"company,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Notes      *string  `json:"notes,omitempty"`
	IsFavorite *bool    `json:"is_favorite,omitempty"`
}
