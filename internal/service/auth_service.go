package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"expenso/internal/logger"
	"expenso/internal/models"
	"expenso/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const (
	maxNameLen     = 100
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AuthService handles user auth logic
type AuthService struct {
	users      repository.Authorization
	categories repository.CategoryRepo
	tokens     *TokenManager
	log        *logger.Logger
}

func NewAuthService(users repository.Authorization, categories repository.CategoryRepo, tokens *TokenManager, log *logger.Logger) *AuthService {
	return &AuthService{users: users, categories: categories, tokens: tokens, log: log}
}

// Register creates the user, seeds default categories and returns a fresh token.
// Seeding runs after the user row is committed and is all-or-nothing on its
// own; if it fails the registration still succeeds with zero categories.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if err := validateRegistration(name, email, in.Password); err != nil {
		return AuthResult{}, err
	}

	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, err
	}
	if existing != nil {
		return AuthResult{}, ErrDuplicateEmail
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return AuthResult{}, err
	}

	id, err := s.users.Create(ctx, name, email, hash)
	if err != nil {
		// lost a race with a concurrent registration for the same email
		if errors.Is(err, repository.ErrDuplicate) {
			return AuthResult{}, ErrDuplicateEmail
		}
		return AuthResult{}, err
	}

	if err := s.categories.CreateBatch(ctx, id, DefaultCategories); err != nil && s.log != nil {
		s.log.Warnw("default_categories_seed_failed", "user_id", id, "err", err)
	}

	token, err := s.tokens.Issue(id, email)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: models.User{ID: id, Name: name, Email: email}}, nil
}

// Login validates credentials and returns a new token. Unknown email and
// wrong password are reported identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return AuthResult{}, err
	}
	if u == nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: models.User{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}}, nil
}

// ParseToken verifies a bearer token and returns the identity it carries.
func (s *AuthService) ParseToken(accessToken string) (models.Identity, error) {
	return s.tokens.Verify(accessToken)
}

// Me loads the profile behind a verified identity.
func (s *AuthService) Me(ctx context.Context, userID int) (models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if u == nil {
		return models.User{}, ErrNotFound
	}
	return *u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegistration(name, email, password string) error {
	if name == "" {
		return validationError("name is required")
	}
	if len(name) > maxNameLen {
		return validationError("name must be at most %d characters", maxNameLen)
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return validationError("email is invalid")
	}
	if len(password) > maxPasswordLen {
		return validationError("password must be at most %d bytes", maxPasswordLen)
	}
	return nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", validationError("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
