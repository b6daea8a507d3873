package democreds

// Package democreds provides a fixed, in-memory CredentialStore for demo and
// local development. Production deployments wire the postgres adapter instead;
// this one exists so the sign-in flow works without a user database.

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/linguahub/lingua-ui/internal/domain/auth"
	apperrors "github.com/linguahub/lingua-ui/internal/errors"
)

// Account seeds one demo identity. Password is hashed at construction; no
// hash literals live in the source.
type Account struct {
	ID       string
	Name     string
	Email    string
	Image    string
	Role     string
	Password string
}

// DefaultAccounts is the demo identity set advertised on the sign-in page.
func DefaultAccounts() []Account {
	return []Account{
		{ID: "demo-student", Name: "Demo Student", Email: "demo@example.com", Role: domainauth.RoleStudent, Password: "demo123"},
		{ID: "demo-teacher", Name: "Demo Teacher", Email: "teacher@example.com", Role: domainauth.RoleTeacher, Password: "teacher123"},
		{ID: "demo-admin", Name: "Demo Admin", Email: "admin@example.com", Role: domainauth.RoleAdmin, Password: "admin123"},
	}
}

// Store is an immutable in-memory credential table keyed by lowercased email.
type Store struct {
	mu    sync.RWMutex
	users map[string]domainauth.User
}

// NewStore hashes each account password and builds the lookup table.
func NewStore(accounts []Account) (*Store, error) {
	users := make(map[string]domainauth.User, len(accounts))
	for _, a := range accounts {
		if a.Email == "" || a.Password == "" {
			return nil, errors.New("democreds: account email and password are required")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		users[strings.ToLower(a.Email)] = domainauth.User{
			Identity: domainauth.Identity{
				ID:    a.ID,
				Name:  a.Name,
				Email: a.Email,
				Image: a.Image,
				Role:  domainauth.PlainRole(a.Role),
			},
			PasswordHash:  string(hash),
			EmailVerified: true,
		}
	}
	return &Store{users: users}, nil
}

// Lookup returns the stored user for an email or a NotFound error.
func (s *Store) Lookup(_ context.Context, email string) (domainauth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[strings.ToLower(email)]
	if !ok {
		return domainauth.User{}, apperrors.NotFound("user not found")
	}
	return user, nil
}

// Create registers a user in the demo table. Used by tests and local flows;
// conflicts mirror the postgres adapter's behavior.
func (s *Store) Create(_ context.Context, user domainauth.User) (domainauth.User, error) {
	if user.Email == "" {
		return domainauth.User{}, apperrors.ValidationField("email", "email is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, exists := s.users[key]; exists {
		return domainauth.User{}, apperrors.Conflict("a user with this email already exists")
	}
	s.users[key] = user
	return user, nil
}
