package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // don’t expose hash
	CreatedAt    time.Time `json:"created_at,omitzero"`
}

// Identity is what a verified token proves about the caller.
type Identity struct {
	UserID int    `json:"userId"`
	Email  string `json:"email"`
}
