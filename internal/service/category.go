package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"expenso/internal/models"
	"expenso/internal/repository"
)

const (
	maxCategoryNameLen = 100
	maxDescriptionLen  = 500
)

type CategoryService struct {
	repo  repository.CategoryRepo
	stats Stats
}

func NewCategoryService(repo repository.CategoryRepo, stats Stats) *CategoryService {
	return &CategoryService{repo: repo, stats: stats}
}

func (s *CategoryService) List(ctx context.Context, userID int) ([]models.Category, error) {
	cats, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cats == nil {
		cats = []models.Category{}
	}
	return cats, nil
}

func (s *CategoryService) Get(ctx context.Context, userID, id int) (models.Category, error) {
	c, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return models.Category{}, err
	}
	if c == nil {
		return models.Category{}, ErrNotFound
	}
	return *c, nil
}

func (s *CategoryService) Create(ctx context.Context, userID int, in models.CategoryInput) (int, error) {
	in, err := normalizeCategory(in)
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

func (s *CategoryService) Update(ctx context.Context, userID, id int, in models.CategoryInput) error {
	in, err := normalizeCategory(in)
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

// Delete removes the category and, through the foreign key, its expenses.
func (s *CategoryService) Delete(ctx context.Context, userID, id int) error {
	n, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return err
	}
	if n > 0 {
		s.stats.Invalidate(ctx, userID)
	}
	return nil
}

func normalizeCategory(in models.CategoryInput) (models.CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, validationError("name is required")
	}
	if utf8.RuneCountInString(in.Name) > maxCategoryNameLen {
		return in, validationError("name must be at most %d characters", maxCategoryNameLen)
	}
	if utf8.RuneCountInString(in.Description) > maxDescriptionLen {
		return in, validationError("description must be at most %d characters", maxDescriptionLen)
	}
	return in, nil
}
