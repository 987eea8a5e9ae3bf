package service

import "expenso/internal/models"

// DefaultCategories are seeded for every newly registered user.
var DefaultCategories = []models.CategoryInput{
	{Name: "Food & Dining", Description: "Restaurant meals, groceries, and food delivery"},
	{Name: "Transportation", Description: "Gas, public transport, rideshare, and vehicle maintenance"},
	{Name: "Shopping", Description: "Clothing, electronics, and general purchases"},
	{Name: "Entertainment", Description: "Movies, games, subscriptions, and leisure activities"},
	{Name: "Bills & Utilities", Description: "Rent, electricity, water, internet, and phone bills"},
	{Name: "Healthcare", Description: "Medical expenses, pharmacy, and health insurance"},
}
