package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"expenso/internal/models"
)

type CategorySQLite struct {
	db *sql.DB
}

func NewCategorySQLite(db *sql.DB) *CategorySQLite {
	return &CategorySQLite{db: db}
}

var _ CategoryRepo = (*CategorySQLite)(nil)

const (
	// expenses are joined on both category and owner so a foreign row can
	// never leak into another user's totals.
	listCategoriesSQL = `
		SELECT c.id, c.name, c.description, c.user_id,
		       COUNT(e.id), COALESCE(SUM(e.amount), 0),
		       c.created_at, c.updated_at
		FROM categories c
		LEFT JOIN expenses e ON e.category_id = c.id AND e.user_id = c.user_id
		WHERE c.user_id = ?
		GROUP BY c.id
		ORDER BY c.name
	`

	selectCategorySQL = `
		SELECT id, name, description, user_id, created_at, updated_at
		FROM categories WHERE id = ? AND user_id = ?
	`

	categoryExistsSQL = `SELECT 1 FROM categories WHERE id = ? AND user_id = ?`

	insertCategorySQL = `INSERT INTO categories (name, description, user_id) VALUES (?, ?, ?)`

	updateCategorySQL = `
		UPDATE categories SET name = ?, description = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND user_id = ?
	`

	deleteCategorySQL = `DELETE FROM categories WHERE id = ? AND user_id = ?`
)

// List returns the user's categories with expense count and total, ordered by name.
func (r *CategorySQLite) List(ctx context.Context, userID int) ([]models.Category, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Category, 0, 16)
	for rows.Next() {
		var (
			c    models.Category
			desc sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &desc, &c.UserID,
			&c.ExpenseCount, &c.TotalAmount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		c.Description = desc.String
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

// Get returns (nil, nil) when the category does not exist or is not owned by userID.
func (r *CategorySQLite) Get(ctx context.Context, userID, id int) (*models.Category, error) {
	var (
		c    models.Category
		desc sql.NullString
	)
	err := r.db.QueryRowContext(ctx, selectCategorySQL, id, userID).
		Scan(&c.ID, &c.Name, &desc, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select category %d: %w", id, err)
	}
	c.Description = desc.String
	return &c, nil
}

// Exists reports whether category id belongs to userID.
func (r *CategorySQLite) Exists(ctx context.Context, userID, id int) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, categoryExistsSQL, id, userID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check category %d: %w", id, err)
	}
	return true, nil
}

func (r *CategorySQLite) Create(ctx context.Context, userID int, in models.CategoryInput) (int, error) {
	res, err := r.db.ExecContext(ctx, insertCategorySQL, in.Name, nullString(in.Description), userID)
	if err != nil {
		return 0, fmt.Errorf("insert category %q: %w", in.Name, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for category %q: %w", in.Name, err)
	}
	return int(lastID), nil
}

// CreateBatch inserts all categories in one transaction: either every row is
// written or none is.
func (r *CategorySQLite) CreateBatch(ctx context.Context, userID int, in []models.CategoryInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin category batch: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, c := range in {
		if _, err := tx.ExecContext(ctx, insertCategorySQL, c.Name, nullString(c.Description), userID); err != nil {
			return fmt.Errorf("insert category %q: %w", c.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category batch: %w", err)
	}
	return nil
}

// Update returns the number of affected rows; 0 means the category is absent
// or owned by someone else.
func (r *CategorySQLite) Update(ctx context.Context, userID, id int, in models.CategoryInput) (int64, error) {
	res, err := r.db.ExecContext(ctx, updateCategorySQL, in.Name, nullString(in.Description), id, userID)
	if err != nil {
		return 0, fmt.Errorf("update category %d: %w", id, err)
	}
	return rowsAffected(res)
}

// Delete removes the category and, through the foreign key, its expenses.
func (r *CategorySQLite) Delete(ctx context.Context, userID, id int) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteCategorySQL, id, userID)
	if err != nil {
		return 0, fmt.Errorf("delete category %d: %w", id, err)
	}
	return rowsAffected(res)
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}
