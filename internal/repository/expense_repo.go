package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"expenso/internal/models"
)

type ExpenseSQLite struct {
	db *sql.DB
}

func NewExpenseSQLite(db *sql.DB) *ExpenseSQLite { return &ExpenseSQLite{db: db} }

var _ ExpenseRepo = (*ExpenseSQLite)(nil)

const (
	selectExpensesSQL = `SELECT e.id, e.amount, e.description, e.category_id, c.name, e.user_id, e.date, e.created_at, e.updated_at
		FROM expenses e
		JOIN categories c ON c.id = e.category_id AND c.user_id = e.user_id`

	expensesOrderSQL = ` ORDER BY e.date DESC, e.created_at DESC, e.id DESC`

	selectExpenseSQL = selectExpensesSQL + ` WHERE e.id = ? AND e.user_id = ?`

	insertExpenseSQL = `INSERT INTO expenses (amount, description, category_id, user_id, date) VALUES (?, ?, ?, ?, ?)`

	updateExpenseSQL = `
		UPDATE expenses SET amount = ?, description = ?, category_id = ?, date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	deleteExpenseSQL = `DELETE FROM expenses WHERE id = ? AND user_id = ?`
)

// List returns the user's expenses, newest date first, narrowed by f.
func (r *ExpenseSQLite) List(ctx context.Context, userID int, f models.ExpenseFilter) ([]models.Expense, error) {
	q, args := buildExpenseQuery(userID, f)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Expense, 0, 64)
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Description, &e.CategoryID, &e.CategoryName,
			&e.UserID, &e.Date, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return out, nil
}

// buildExpenseQuery always starts from the owner condition; filters only add to it.
func buildExpenseQuery(userID int, f models.ExpenseFilter) (string, []any) {
	conds := []string{"e.user_id = ?"}
	args := []any{userID}

	if f.CategoryID > 0 {
		conds = append(conds, "e.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if !f.From.IsZero() {
		conds = append(conds, "e.date >= ?")
		args = append(args, f.From.String())
	}
	if !f.To.IsZero() {
		conds = append(conds, "e.date <= ?")
		args = append(args, f.To.String())
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		pattern := "%" + escapeLike(strings.ToLower(term)) + "%"
		conds = append(conds, `(LOWER(e.description) LIKE ? ESCAPE '\' OR LOWER(c.name) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}

	q := selectExpensesSQL + " WHERE " + strings.Join(conds, " AND ") + expensesOrderSQL
	if f.Limit > 0 {
		q += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}
	return q, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Get returns (nil, nil) when the expense does not exist or is not owned by userID.
func (r *ExpenseSQLite) Get(ctx context.Context, userID, id int) (*models.Expense, error) {
	var e models.Expense
	err := r.db.QueryRowContext(ctx, selectExpenseSQL, id, userID).Scan(&e.ID, &e.Amount, &e.Description,
		&e.CategoryID, &e.CategoryName, &e.UserID, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select expense %d: %w", id, err)
	}
	return &e, nil
}

// Create inserts an expense owned by userID. The caller is responsible for
// having verified that in.CategoryID belongs to the same user.
func (r *ExpenseSQLite) Create(ctx context.Context, userID int, in models.ExpenseInput) (int, error) {
	res, err := r.db.ExecContext(ctx, insertExpenseSQL,
		int64(in.Amount), in.Description, in.CategoryID, userID, in.Date.String())
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for expense: %w", err)
	}
	return int(lastID), nil
}

func (r *ExpenseSQLite) Update(ctx context.Context, userID, id int, in models.ExpenseInput) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateExpenseSQL,
		int64(in.Amount), in.Description, in.CategoryID, in.Date.String(), id, userID)
	if err != nil {
		return 0, fmt.Errorf("update expense %d: %w", id, err)
	}
	return rowsAffected(res)
}

func (r *ExpenseSQLite) Delete(ctx context.Context, userID, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteExpenseSQL, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete expense %d: %w", id, err)
	}
	return rowsAffected(res)
}
