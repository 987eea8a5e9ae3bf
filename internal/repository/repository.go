package repository

import (
	"context"
	"database/sql"

	"expenso/internal/models"
)

// Every method that touches categories or expenses takes the owning userID
// and binds it into the statement; callers never pass a client-supplied owner.

type Authorization interface {
	Create(ctx context.Context, name, email, hash string) (int, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type CategoryRepo interface {
	List(ctx context.Context, userID int) ([]models.Category, error)
	Get(ctx context.Context, userID, id int) (*models.Category, error)
	Exists(ctx context.Context, userID, id int) (bool, error)
	Create(ctx context.Context, userID int, in models.CategoryInput) (int, error)
	CreateBatch(ctx context.Context, userID int, in []models.CategoryInput) error
	Update(ctx context.Context, userID, id int, in models.CategoryInput) (int64, error)
	Delete(ctx context.Context, userID, id int) (int64, error)
}

type ExpenseRepo interface {
	List(ctx context.Context, userID int, f models.ExpenseFilter) ([]models.Expense, error)
	Get(ctx context.Context, userID, id int) (*models.Expense, error)
	Create(ctx context.Context, userID int, in models.ExpenseInput) (int, error)
	Update(ctx context.Context, userID, id int, in models.ExpenseInput) (int64, error)
	Delete(ctx context.Context, userID, id int) (int64, error)
}

type StatsRepo interface {
	TotalSpent(ctx context.Context, userID int) (models.Cents, error)
	// SpentBetween sums expenses dated in [from, to).
	SpentBetween(ctx context.Context, userID int, from, to models.Date) (models.Cents, error)
	CategoryCount(ctx context.Context, userID int) (int, error)
	Recent(ctx context.Context, userID, limit int) ([]models.RecentExpense, error)
	ByCategory(ctx context.Context, userID int) ([]models.CategoryStat, error)
	Monthly(ctx context.Context, userID int, since models.Date) ([]models.MonthlyStat, error)
}

type Pinger interface {
	PingContext(ctx context.Context) error
}

type Repository struct {
	Auth       Authorization
	Categories CategoryRepo
	Expenses   ExpenseRepo
	Stats      StatsRepo
	DB         Pinger
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:       NewUserRepository(db),
		Categories: NewCategorySQLite(db),
		Expenses:   NewExpenseSQLite(db),
		Stats:      NewStatsSQLite(db),
		DB:         db,
	}
}
