package service

import (
	"context"
	"encoding/json"
	"sync"

	"expenso/internal/models"
)

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn     func(name, email, hash string) (int, error)
	GetByEmailFn func(email string) (*models.User, error)
	GetByIDFn    func(id int) (*models.User, error)

	createCalls []struct {
		name, email, hash string
	}
	getCalls []string
}

func (m *mockAuthRepo) Create(_ context.Context, name, email, hash string) (int, error) {
	m.createCalls = append(m.createCalls, struct{ name, email, hash string }{name, email, hash})
	return m.CreateFn(name, email, hash)
}

func (m *mockAuthRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.getCalls = append(m.getCalls, email)
	if m.GetByEmailFn == nil {
		return nil, nil
	}
	return m.GetByEmailFn(email)
}

func (m *mockAuthRepo) GetByID(_ context.Context, id int) (*models.User, error) {
	return m.GetByIDFn(id)
}

type mockCategoryRepo struct {
	ListFn        func(userID int) ([]models.Category, error)
	GetFn         func(userID, id int) (*models.Category, error)
	ExistsFn      func(userID, id int) (bool, error)
	CreateFn      func(userID int, in models.CategoryInput) (int, error)
	CreateBatchFn func(userID int, in []models.CategoryInput) error
	UpdateFn      func(userID, id int, in models.CategoryInput) (int64, error)
	DeleteFn      func(userID, id int) (int64, error)

	batchCalls [][]models.CategoryInput
}

func (m *mockCategoryRepo) List(_ context.Context, userID int) ([]models.Category, error) {
	return m.ListFn(userID)
}

func (m *mockCategoryRepo) Get(_ context.Context, userID, id int) (*models.Category, error) {
	return m.GetFn(userID, id)
}

func (m *mockCategoryRepo) Exists(_ context.Context, userID, id int) (bool, error) {
	return m.ExistsFn(userID, id)
}

func (m *mockCategoryRepo) Create(_ context.Context, userID int, in models.CategoryInput) (int, error) {
	return m.CreateFn(userID, in)
}

func (m *mockCategoryRepo) CreateBatch(_ context.Context, userID int, in []models.CategoryInput) error {
	m.batchCalls = append(m.batchCalls, in)
	if m.CreateBatchFn == nil {
		return nil
	}
	return m.CreateBatchFn(userID, in)
}

func (m *mockCategoryRepo) Update(_ context.Context, userID, id int, in models.CategoryInput) (int64, error) {
	return m.UpdateFn(userID, id, in)
}

func (m *mockCategoryRepo) Delete(_ context.Context, userID, id int) (int64, error) {
	return m.DeleteFn(userID, id)
}

type mockExpenseRepo struct {
	ListFn   func(userID int, f models.ExpenseFilter) ([]models.Expense, error)
	GetFn    func(userID, id int) (*models.Expense, error)
	CreateFn func(userID int, in models.ExpenseInput) (int, error)
	UpdateFn func(userID, id int, in models.ExpenseInput) (int64, error)
	DeleteFn func(userID, id int) (int64, error)
}

func (m *mockExpenseRepo) List(_ context.Context, userID int, f models.ExpenseFilter) ([]models.Expense, error) {
	return m.ListFn(userID, f)
}

func (m *mockExpenseRepo) Get(_ context.Context, userID, id int) (*models.Expense, error) {
	return m.GetFn(userID, id)
}

func (m *mockExpenseRepo) Create(_ context.Context, userID int, in models.ExpenseInput) (int, error) {
	return m.CreateFn(userID, in)
}

func (m *mockExpenseRepo) Update(_ context.Context, userID, id int, in models.ExpenseInput) (int64, error) {
	return m.UpdateFn(userID, id, in)
}

func (m *mockExpenseRepo) Delete(_ context.Context, userID, id int) (int64, error) {
	return m.DeleteFn(userID, id)
}

type mockStatsRepo struct {
	TotalSpentFn    func(userID int) (models.Cents, error)
	SpentBetweenFn  func(userID int, from, to models.Date) (models.Cents, error)
	CategoryCountFn func(userID int) (int, error)
	RecentFn        func(userID, limit int) ([]models.RecentExpense, error)
	ByCategoryFn    func(userID int) ([]models.CategoryStat, error)
	MonthlyFn       func(userID int, since models.Date) ([]models.MonthlyStat, error)
}

func (m *mockStatsRepo) TotalSpent(_ context.Context, userID int) (models.Cents, error) {
	return m.TotalSpentFn(userID)
}

func (m *mockStatsRepo) SpentBetween(_ context.Context, userID int, from, to models.Date) (models.Cents, error) {
	return m.SpentBetweenFn(userID, from, to)
}

func (m *mockStatsRepo) CategoryCount(_ context.Context, userID int) (int, error) {
	return m.CategoryCountFn(userID)
}

func (m *mockStatsRepo) Recent(_ context.Context, userID, limit int) ([]models.RecentExpense, error) {
	return m.RecentFn(userID, limit)
}

func (m *mockStatsRepo) ByCategory(_ context.Context, userID int) ([]models.CategoryStat, error) {
	return m.ByCategoryFn(userID)
}

func (m *mockStatsRepo) Monthly(_ context.Context, userID int, since models.Date) ([]models.MonthlyStat, error) {
	return m.MonthlyFn(userID, since)
}

// spyStats records invalidations and returns zero values otherwise.
type spyStats struct {
	invalidated []int
}

func (s *spyStats) Dashboard(context.Context, int) (models.DashboardStats, error) {
	return models.DashboardStats{}, nil
}

func (s *spyStats) ByCategory(context.Context, int) ([]models.CategoryStat, error) {
	return nil, nil
}

func (s *spyStats) Monthly(context.Context, int) ([]models.MonthlyStat, error) {
	return nil, nil
}

func (s *spyStats) Invalidate(_ context.Context, userID int) {
	s.invalidated = append(s.invalidated, userID)
}

// memCache is an in-memory StatsCache.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}}
}

func (c *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *memCache) Set(_ context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}
