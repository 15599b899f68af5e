package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/intakehq/intake/internal/core"
)

// CreateUser persists a new account.
func (s *Store) CreateUser(ctx context.Context, u core.User) error {
	if s == nil || s.DB == nil {
		return errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	username := strings.TrimSpace(u.Username)
	if username == "" {
		return errors.New("username is required")
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.ID.String(), username, strings.TrimSpace(u.Email), u.PasswordHash, string(u.Role), u.CreatedAt.UTC().Unix())
	if err != nil {
		return fmt.Errorf("store user: %w", err)
	}

	return nil
}

// GetUserByUsername returns the account for a username, or nil when absent.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	if s == nil || s.DB == nil {
		return nil, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errors.New("username is required")
	}

	var (
		id           string
		email        string
		passwordHash string
		role         string
		createdAt    int64
	)

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users
		WHERE username = ?
	`, username)

	if err := row.Scan(&id, &email, &passwordHash, &role, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch user: %w", err)
	}

	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("decode user id: %w", err)
	}

	return &core.User{
		ID:           parsedID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         core.Role(role),
		CreatedAt:    time.Unix(createdAt, 0).UTC(),
	}, nil
}

// UsernameExists reports whether any account uses the given username.
func (s *Store) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.userFieldExists(ctx, "username", username)
}

// EmailExists reports whether any account uses the given email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.userFieldExists(ctx, "email", email)
}

func (s *Store) userFieldExists(ctx context.Context, column, value string) (bool, error) {
	if s == nil || s.DB == nil {
		return false, errors.New("store is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var count int
	row := s.DB.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM users WHERE %s = ?", column), strings.TrimSpace(value))
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("check user %s: %w", column, err)
	}

	return count > 0, nil
}
