package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"expenso/internal/models"
)

func TestCategoryService_CreateTrimsAndInvalidates(t *testing.T) {
	var got models.CategoryInput
	repo := &mockCategoryRepo{
		CreateFn: func(userID int, in models.CategoryInput) (int, error) {
			if userID != 4 {
				t.Fatalf("expected owner 4, got %d", userID)
			}
			got = in
			return 10, nil
		},
	}
	stats := &spyStats{}
	svc := NewCategoryService(repo, stats)

	id, err := svc.Create(context.Background(), 4, models.CategoryInput{Name: "  Travel ", Description: " trips "})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if id != 10 || got.Name != "Travel" || got.Description != "trips" {
		t.Fatalf("unexpected create: id=%d input=%+v", id, got)
	}
	if len(stats.invalidated) != 1 || stats.invalidated[0] != 4 {
		t.Fatalf("expected invalidation for user 4, got %v", stats.invalidated)
	}
}

func TestCategoryService_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   models.CategoryInput
	}{
		{"blank name", models.CategoryInput{Name: "   "}},
		{"long name", models.CategoryInput{Name: strings.Repeat("n", maxCategoryNameLen+1)}},
		{"long description", models.CategoryInput{Name: "ok", Description: strings.Repeat("d", maxDescriptionLen+1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockCategoryRepo{
				CreateFn: func(int, models.CategoryInput) (int, error) {
					t.Fatal("Create should not be called for invalid input")
					return 0, nil
				},
				UpdateFn: func(int, int, models.CategoryInput) (int64, error) {
					t.Fatal("Update should not be called for invalid input")
					return 0, nil
				},
			}
			svc := NewCategoryService(repo, &spyStats{})
			if _, err := svc.Create(context.Background(), 1, tc.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("Create: expected ErrValidation, got %v", err)
			}
			if err := svc.Update(context.Background(), 1, 2, tc.in); !errors.Is(err, ErrValidation) {
				t.Fatalf("Update: expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestCategoryService_ForeignWritesAreSilentNoOps(t *testing.T) {
	repo := &mockCategoryRepo{
		UpdateFn: func(int, int, models.CategoryInput) (int64, error) { return 0, nil },
		DeleteFn: func(int, int) (int64, error) { return 0, nil },
	}
	stats := &spyStats{}
	svc := NewCategoryService(repo, stats)

	if err := svc.Update(context.Background(), 2, 99, models.CategoryInput{Name: "x"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if err := svc.Delete(context.Background(), 2, 99); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(stats.invalidated) != 0 {
		t.Fatalf("no-op writes must not invalidate, got %v", stats.invalidated)
	}
}

func TestCategoryService_GetNotFoundAndListNeverNil(t *testing.T) {
	repo := &mockCategoryRepo{
		GetFn:  func(int, int) (*models.Category, error) { return nil, nil },
		ListFn: func(int) ([]models.Category, error) { return nil, nil },
	}
	svc := NewCategoryService(repo, &spyStats{})

	if _, err := svc.Get(context.Background(), 1, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	list, err := svc.List(context.Background(), 1)
	if err != nil || list == nil {
		t.Fatalf("expected empty non-nil list, got %v, %v", list, err)
	}
}
