package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"expenso/internal/models"
	"expenso/internal/repository"
)

// maxListLimit caps an explicit page size. A zero limit lists everything.
const maxListLimit = 1000

type ExpenseService struct {
	repo       repository.ExpenseRepo
	categories repository.CategoryRepo
	stats      Stats
	now        func() time.Time
}

func NewExpenseService(repo repository.ExpenseRepo, categories repository.CategoryRepo, stats Stats, now func() time.Time) *ExpenseService {
	if now == nil {
		now = time.Now
	}
	return &ExpenseService{repo: repo, categories: categories, stats: stats, now: now}
}

func (s *ExpenseService) List(ctx context.Context, userID int, f models.ExpenseFilter) ([]models.Expense, error) {
	f, err := normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.List(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Expense{}
	}
	return list, nil
}

func (s *ExpenseService) Get(ctx context.Context, userID, id int) (models.Expense, error) {
	e, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return models.Expense{}, err
	}
	if e == nil {
		return models.Expense{}, ErrNotFound
	}
	return *e, nil
}

func (s *ExpenseService) Create(ctx context.Context, userID int, in models.ExpenseInput) (int, error) {
	in, err := s.prepare(ctx, userID, in)
	if err != nil {
		return 0, err
	}
	id, err := s.repo.Create(ctx, userID, in)
	if err != nil {
		return 0, err
	}
	s.stats.Invalidate(ctx, userID)
	return id, nil
}

func (s *ExpenseService) Update(ctx context.Context, userID, id int, in models.ExpenseInput) error {
	in, err := s.prepare(ctx, userID, in)
	if err != nil {
		return err
	}
	n, err := s.repo.Update(ctx, userID, id, in)
	if err != nil {
		return err
	}
	if n > 0 {
		s.stats.Invalidate(ctx, userID)
	}
	return nil
}

func (s *ExpenseService) Delete(ctx context.Context, userID, id int) error {
	n, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.stats.Invalidate(ctx, userID)
	}
	return nil
}

// prepare validates the input and confirms the category belongs to userID.
// Nothing is written when it fails.
func (s *ExpenseService) prepare(ctx context.Context, userID int, in models.ExpenseInput) (models.ExpenseInput, error) {
	in.Description = strings.TrimSpace(in.Description)
	if in.Amount <= 0 {
		return in, validationError("amount must be greater than zero")
	}
	if in.Description == "" {
		return in, validationError("description is required")
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return in, validationError("description must be at most %d characters", maxDescriptionLen)
	}
	if in.Date.IsZero() {
		in.Date = models.DateOf(s.now())
	}
	if in.CategoryID <= 0 {
		return in, ErrInvalidCategory
	}

	ok, err := s.categories.Exists(ctx, userID, in.CategoryID)
	if err != nil {
		return in, err
	}
	if !ok {
		return in, ErrInvalidCategory
	}
	return in, nil
}

func normalizeFilter(f models.ExpenseFilter) (models.ExpenseFilter, error) {
	f.Query = strings.TrimSpace(f.Query)
	if f.CategoryID < 0 {
		return f, validationError("category_id must be positive")
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To.Time) {
		return f, validationError("from must not be after to")
	}
	if f.Limit < 0 || f.Offset < 0 {
		return f, validationError("limit and offset must not be negative")
	}
	if f.Offset > 0 && f.Limit == 0 {
		return f, validationError("offset requires limit")
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	return f, nil
}
