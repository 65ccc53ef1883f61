// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipeshare/recipeshare/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 731731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops every application table and the migration version
// table so the next Migrate starts from scratch.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		"DROP TABLE IF EXISTS recipes",
		"DROP TABLE IF EXISTS users",
		"DROP TABLE IF EXISTS goose_db_version",
	}
	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("reset schema (%s): %w", stmt, err)
		}
	}
	return nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Uint64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return UniqueID(prefix) + "@example.com"
}

// NewTestUser creates a test user with sensible defaults.
// The ID is left empty so the store assigns one.
func NewTestUser(t testing.TB, name string) *model.User {
	t.Helper()
	return &model.User{
		Name:         name,
		Email:        UniqueEmail(name),
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehol",
	}
}

// NewTestRecipe creates a test recipe owned by userID.
func NewTestRecipe(t testing.TB, title, userID string) *model.Recipe {
	t.Helper()
	return &model.Recipe{
		Title:         title,
		Description:   "Family favourite",
		Rating:        4,
		TimeToPrepare: "30 minutes",
		Image:         "data:image/jpeg;base64,/9j/4AAQSkZJRg==",
		Ingredients:   []string{"1 onion", "2 tomatoes"},
		Directions:    []string{"Chop", "Simmer"},
		UserID:        userID,
	}
}
