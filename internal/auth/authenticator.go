package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"pulseboard/internal/errs"
	"pulseboard/internal/ports"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// Authenticator verifies credentials against the users table.
type Authenticator struct {
	users ports.UserRepository
}

func NewAuthenticator(users ports.UserRepository) *Authenticator {
	return &Authenticator{users: users}
}

func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (Principal, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" || password == "" {
		return Principal{}, ErrInvalidCredentials
	}

	record, err := a.users.GetByUsername(ctx, trimmed)
	if err != nil {
		if errors.Is(err, ports.ErrUserNotFound) {
			return Principal{}, ErrInvalidCredentials
		}
		return Principal{}, errs.Wrap(err, "look up user")
	}

	if bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)) != nil {
		return Principal{}, ErrInvalidCredentials
	}

	return Principal{
		Authenticated: true,
		Username:      record.Username,
		Role:          Role(record.Role),
	}, nil
}

// HashPassword produces a bcrypt hash at the default cost.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errs.Wrap(err, "hash password")
	}
	return string(hash), nil
}
