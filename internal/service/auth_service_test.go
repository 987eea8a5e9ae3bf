package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"expenso/internal/models"
	"expenso/internal/repository"
)

const testSecret = "test-secret"

func newTestAuth(users *mockAuthRepo, cats *mockCategoryRepo) *AuthService {
	if cats == nil {
		cats = &mockCategoryRepo{}
	}
	return NewAuthService(users, cats, NewTokenManager(testSecret, time.Hour), nil)
}

// --- Register tests ---

func TestAuthService_Register_SuccessHashesPasswordSeedsDefaultsAndIssuesToken(t *testing.T) {
	users := &mockAuthRepo{
		CreateFn: func(name, email, hash string) (int, error) {
			return 42, nil
		},
	}
	cats := &mockCategoryRepo{}
	svc := newTestAuth(users, cats)

	res, err := svc.Register(context.Background(), RegisterInput{Name: " Alice ", Email: " Alice@Example.com ", Password: "s3cr3t"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.User.ID != 42 || res.User.Name != "Alice" || res.User.Email != "alice@example.com" {
		t.Fatalf("unexpected user: %+v", res.User)
	}

	if len(users.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(users.createCalls))
	}
	call := users.createCalls[0]
	if call.hash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.hash, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}

	if len(cats.batchCalls) != 1 || len(cats.batchCalls[0]) != len(DefaultCategories) {
		t.Fatalf("expected one batch of %d defaults, got %v", len(DefaultCategories), cats.batchCalls)
	}

	id, err := svc.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if id.UserID != 42 || id.Email != "alice@example.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	cases := []struct {
		name  string
		users *mockAuthRepo
	}{
		{
			name: "found by pre-check",
			users: &mockAuthRepo{
				GetByEmailFn: func(email string) (*models.User, error) {
					return &models.User{ID: 1, Email: email}, nil
				},
				CreateFn: func(name, email, hash string) (int, error) {
					t.Fatal("Create should not be called for an existing email")
					return 0, nil
				},
			},
		},
		{
			name: "unique constraint race",
			users: &mockAuthRepo{
				CreateFn: func(name, email, hash string) (int, error) {
					return 0, fmt.Errorf("insert user: %w", repository.ErrDuplicate)
				},
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cats := &mockCategoryRepo{}
			svc := newTestAuth(tc.users, cats)

			_, err := svc.Register(context.Background(), RegisterInput{Name: "Bob", Email: "bob@example.com", Password: "pw"})
			if !errors.Is(err, ErrDuplicateEmail) {
				t.Fatalf("expected ErrDuplicateEmail, got %v", err)
			}
			if len(cats.batchCalls) != 0 {
				t.Fatalf("defaults must not be seeded for a rejected registration")
			}
		})
	}
}

func TestAuthService_Register_SeedFailureDoesNotFailRegistration(t *testing.T) {
	users := &mockAuthRepo{
		CreateFn: func(name, email, hash string) (int, error) { return 7, nil },
	}
	cats := &mockCategoryRepo{
		CreateBatchFn: func(userID int, in []models.CategoryInput) error {
			return errors.New("disk full")
		},
	}
	svc := newTestAuth(users, cats)

	res, err := svc.Register(context.Background(), RegisterInput{Name: "Carl", Email: "carl@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" || res.User.ID != 7 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"missing name", RegisterInput{Name: " ", Email: "a@b.co", Password: "pw"}},
		{"bad email", RegisterInput{Name: "A", Email: "not-an-email", Password: "pw"}},
		{"display name in email", RegisterInput{Name: "A", Email: "A <a@b.co>", Password: "pw"}},
		{"empty password", RegisterInput{Name: "A", Email: "a@b.co", Password: "   "}},
		{"password too long", RegisterInput{Name: "A", Email: "a@b.co", Password: strings.Repeat("x", 73)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			users := &mockAuthRepo{
				CreateFn: func(name, email, hash string) (int, error) {
					t.Fatal("Create should not be called for invalid input")
					return 0, nil
				},
			}
			_, err := newTestAuth(users, nil).Register(context.Background(), tc.in)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAuthService_Register_RepoError(t *testing.T) {
	users := &mockAuthRepo{
		CreateFn: func(name, email, hash string) (int, error) {
			return 0, errors.New("db down")
		},
	}
	_, err := newTestAuth(users, nil).Register(context.Background(), RegisterInput{Name: "D", Email: "d@example.com", Password: "pw"})
	if err == nil || errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected plain repo error, got %v", err)
	}
}

// --- Login tests ---

func TestAuthService_Login_Success(t *testing.T) {
	hash, err := hashPassword("letmein")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	users := &mockAuthRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			if email != "diana@example.com" {
				t.Fatalf("expected normalized email, got %q", email)
			}
			return &models.User{ID: 7, Name: "Diana", Email: email, PasswordHash: hash}, nil
		},
	}
	svc := newTestAuth(users, nil)

	res, err := svc.Login(context.Background(), "Diana@Example.com", "letmein")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.User.PasswordHash != "" {
		t.Fatalf("password hash must not be returned")
	}

	id, err := svc.ParseToken(res.Token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if id.UserID != 7 {
		t.Fatalf("expected user id 7 from token, got %d", id.UserID)
	}
}

func TestAuthService_Login_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	correctHash, err := hashPassword("correct")
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	users := &mockAuthRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			if email == "eve@example.com" {
				return &models.User{ID: 1, Email: email, PasswordHash: correctHash}, nil
			}
			return nil, nil
		},
	}
	svc := newTestAuth(users, nil)

	_, errWrong := svc.Login(context.Background(), "eve@example.com", "wrong")
	_, errGhost := svc.Login(context.Background(), "ghost@example.com", "correct")
	if !errors.Is(errWrong, ErrInvalidCredentials) || !errors.Is(errGhost, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", errWrong, errGhost)
	}
	if errWrong.Error() != errGhost.Error() {
		t.Fatalf("errors must be indistinguishable: %q vs %q", errWrong, errGhost)
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	users := &mockAuthRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			return nil, errors.New("query failed")
		},
	}
	_, err := newTestAuth(users, nil).Login(context.Background(), "john@example.com", "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected repo error, got %v", err)
	}
}

// --- Me tests ---

func TestAuthService_Me(t *testing.T) {
	users := &mockAuthRepo{
		GetByIDFn: func(id int) (*models.User, error) {
			if id == 3 {
				return &models.User{ID: 3, Name: "Fay"}, nil
			}
			return nil, nil
		},
	}
	svc := newTestAuth(users, nil)

	u, err := svc.Me(context.Background(), 3)
	if err != nil || u.Name != "Fay" {
		t.Fatalf("Me(3) = %+v, %v", u, err)
	}
	if _, err := svc.Me(context.Background(), 4); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted user, got %v", err)
	}
}
