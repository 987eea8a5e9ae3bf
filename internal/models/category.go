package models

import "time"

// Category belongs to exactly one user. ExpenseCount and TotalAmount are
// filled only by listing queries.
type Category struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	UserID       int       `json:"user_id"`
	ExpenseCount int       `json:"expense_count"`
	TotalAmount  Cents     `json:"total_amount"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type CategoryInput struct {
	Name        string
	Description string
}
