// Package services contains the server-side business logic: credential
// management, session lifecycle, and the movie catalog.
package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mlezhnev/moviehub/internal/common"
	"github.com/mlezhnev/moviehub/internal/server/models"
	"github.com/mlezhnev/moviehub/internal/server/repositories/users"
)

// ConflictError reports uniqueness conflicts found during registration.
// Fields maps the conflicting field name ("username", "email") to a
// user-facing message; both fields can conflict independently.
type ConflictError struct {
	Fields map[string]string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("account conflict on %d field(s)", len(e.Fields))
}

// CredentialService owns user identity: registration with uniqueness checks
// and password hashing, and credential verification.
type CredentialService struct {
	repo     users.Repository
	hashCost int
}

// NewCredentialService constructs a CredentialService. hashCost is the bcrypt
// cost factor; pass 0 to use bcrypt.DefaultCost.
func NewCredentialService(repo users.Repository, hashCost int) *CredentialService {
	if hashCost == 0 {
		hashCost = bcrypt.DefaultCost
	}
	return &CredentialService{repo: repo, hashCost: hashCost}
}

// Register creates a new user. The email is expected to be normalized
// (trimmed, lowercased) by the validation pipeline. Colliding usernames and
// emails are looked up in a single query and reported together through
// *ConflictError. The password is hashed explicitly, right before
// persistence; the plaintext never reaches the repository.
func (s *CredentialService) Register(ctx context.Context, username, email, password string) (*models.User, error) {
	existing, err := s.repo.FindByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, fmt.Errorf("checking existing users: %w", err)
	}

	if len(existing) > 0 {
		conflict := &ConflictError{Fields: map[string]string{}}
		for _, u := range existing {
			if u.Email == email {
				conflict.Fields["email"] = "Email already registered"
			}
			if u.Username == username {
				conflict.Fields["username"] = "Username already taken"
			}
		}
		return nil, conflict
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	}
	user, err = s.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

// Verify checks a password against the stored hash for the given (normalized)
// email. It returns common.ErrUserNotFound when no account exists and
// common.ErrWrongPassword on a mismatch; the two stay distinct so the login
// form can render field-scoped messages. bcrypt's comparison is
// constant-time.
func (s *CredentialService) Verify(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, common.ErrWrongPassword
	}
	return user, nil
}
