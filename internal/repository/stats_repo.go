package repository

import (
	"context"
	"database/sql"
	"fmt"

	"expenso/internal/models"
)

type StatsSQLite struct {
	db *sql.DB
}

func NewStatsSQLite(db *sql.DB) *StatsSQLite { return &StatsSQLite{db: db} }

var _ StatsRepo = (*StatsSQLite)(nil)

const (
	totalSpentSQL = `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ?`

	spentBetweenSQL = `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = ? AND date >= ? AND date < ?`

	categoryCountSQL = `SELECT COUNT(*) FROM categories WHERE user_id = ?`

	recentExpensesSQL = `
		SELECT e.id, e.amount, e.description, c.name, e.date
		FROM expenses e
		JOIN categories c ON c.id = e.category_id AND c.user_id = e.user_id
		WHERE e.user_id = ?
		ORDER BY e.created_at DESC, e.id DESC
		LIMIT ?
	`

	statsByCategorySQL = `
		SELECT c.name, COALESCE(SUM(e.amount), 0) AS amount, COUNT(e.id)
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id AND e.user_id = c.user_id
		WHERE c.user_id = ?
		GROUP BY c.id, c.name
		HAVING amount > 0
		ORDER BY amount DESC, c.name
	`

	statsMonthlySQL = `
		SELECT substr(date, 1, 7) AS month, SUM(amount)
		FROM expenses
		WHERE user_id = ? AND date >= ?
		GROUP BY month
		ORDER BY month
	`
)

func (r *StatsSQLite) TotalSpent(ctx context.Context, userID int) (models.Cents, error) {
	var total models.Cents
	if err := r.db.QueryRowContext(ctx, totalSpentSQL, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum expenses for user %d: %w", userID, err)
	}
	return total, nil
}

func (r *StatsSQLite) SpentBetween(ctx context.Context, userID int, from, to models.Date) (models.Cents, error) {
	var total models.Cents
	err := r.db.QueryRowContext(ctx, spentBetweenSQL, userID, from.String(), to.String()).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum expenses for user %d in [%s, %s): %w", userID, from, to, err)
	}
	return total, nil
}

func (r *StatsSQLite) CategoryCount(ctx context.Context, userID int) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, categoryCountSQL, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories for user %d: %w", userID, err)
	}
	return n, nil
}

// Recent returns the most recently created expenses.
func (r *StatsSQLite) Recent(ctx context.Context, userID, limit int) ([]models.RecentExpense, error) {
	rows, err := r.db.QueryContext(ctx, recentExpensesSQL, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent expenses for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.RecentExpense, 0, limit)
	for rows.Next() {
		var e models.RecentExpense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Description, &e.Category, &e.Date); err != nil {
			return nil, fmt.Errorf("scan recent expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent expenses: %w", err)
	}
	return out, nil
}

// ByCategory returns per-category totals, skipping categories with nothing spent.
func (r *StatsSQLite) ByCategory(ctx context.Context, userID int) ([]models.CategoryStat, error) {
	rows, err := r.db.QueryContext(ctx, statsByCategorySQL, userID)
	if err != nil {
		return nil, fmt.Errorf("category stats for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.CategoryStat, 0, 8)
	for rows.Next() {
		var s models.CategoryStat
		if err := rows.Scan(&s.Category, &s.Amount, &s.Count); err != nil {
			return nil, fmt.Errorf("scan category stat: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category stats: %w", err)
	}
	return out, nil
}

// Monthly returns per-month totals for expenses dated on or after since.
func (r *StatsSQLite) Monthly(ctx context.Context, userID int, since models.Date) ([]models.MonthlyStat, error) {
	rows, err := r.db.QueryContext(ctx, statsMonthlySQL, userID, since.String())
	if err != nil {
		return nil, fmt.Errorf("monthly stats for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.MonthlyStat, 0, 7)
	for rows.Next() {
		var s models.MonthlyStat
		if err := rows.Scan(&s.Month, &s.Amount); err != nil {
			return nil, fmt.Errorf("scan monthly stat: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate monthly stats: %w", err)
	}
	return out, nil
}
