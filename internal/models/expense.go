package models

import "time"

type Expense struct {
	ID           int       `json:"id"`
	Amount       Cents     `json:"amount"`
	Description  string    `json:"description"`
	CategoryID   int       `json:"category_id"`
	CategoryName string    `json:"category_name"`
	UserID       int       `json:"user_id"`
	Date         Date      `json:"date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ExpenseInput struct {
	Amount      Cents
	Description string
	CategoryID  int
	Date        Date
}

// ExpenseFilter narrows an expense listing. Zero values mean "no filter".
type ExpenseFilter struct {
	CategoryID int
	From       Date // inclusive
	To         Date // inclusive
	Query      string
	Limit      int
	Offset     int
}
