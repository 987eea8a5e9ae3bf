package service

import (
	"context"
	"time"

	"expenso/internal/logger"
	"expenso/internal/models"
	"expenso/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, in RegisterInput) (AuthResult, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	ParseToken(accessToken string) (models.Identity, error)
	Me(ctx context.Context, userID int) (models.User, error)
}

// Categories manages the caller's categories. A write that matches no owned
// row is a silent no-op.
type Categories interface {
	List(ctx context.Context, userID int) ([]models.Category, error)
	Get(ctx context.Context, userID, id int) (models.Category, error)
	Create(ctx context.Context, userID int, in models.CategoryInput) (int, error)
	Update(ctx context.Context, userID, id int, in models.CategoryInput) error
	Delete(ctx context.Context, userID, id int) error
}

// Expenses manages the caller's expenses. Create and Update reject a category
// the caller does not own with ErrInvalidCategory.
type Expenses interface {
	List(ctx context.Context, userID int, f models.ExpenseFilter) ([]models.Expense, error)
	Get(ctx context.Context, userID, id int) (models.Expense, error)
	Create(ctx context.Context, userID int, in models.ExpenseInput) (int, error)
	Update(ctx context.Context, userID, id int, in models.ExpenseInput) error
	Delete(ctx context.Context, userID, id int) error
}

type Stats interface {
	Dashboard(ctx context.Context, userID int) (models.DashboardStats, error)
	ByCategory(ctx context.Context, userID int) ([]models.CategoryStat, error)
	Monthly(ctx context.Context, userID int) ([]models.MonthlyStat, error)
	Invalidate(ctx context.Context, userID int)
}

// Exporter renders the caller's filtered expenses as a downloadable file.
type Exporter interface {
	Export(ctx context.Context, userID int, f models.ExpenseFilter, format string) (ExportFile, error)
}

type Health interface {
	Check(ctx context.Context) error
}

// StatsCache stores JSON-encodable aggregates. Get reports a miss with
// (false, nil).
type StatsCache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}

// Deps carries the collaborators that do not come from the repository layer.
type Deps struct {
	Tokens *TokenManager
	Cache  StatsCache // nil disables caching
	Log    *logger.Logger
	Now    func() time.Time
}

type Service struct {
	Authorization
	Categories
	Expenses
	Stats
	Exporter
	Health
}

func NewService(repos *repository.Repository, deps Deps) *Service {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	stats := NewStatsService(repos.Stats, deps.Cache, deps.Log, deps.Now)
	expenses := NewExpenseService(repos.Expenses, repos.Categories, stats, deps.Now)
	return &Service{
		Authorization: NewAuthService(repos.Auth, repos.Categories, deps.Tokens, deps.Log),
		Categories:    NewCategoryService(repos.Categories, stats),
		Expenses:      expenses,
		Stats:         stats,
		Exporter:      NewExportService(expenses),
		Health:        NewHealthService(repos.DB),
	}
}
