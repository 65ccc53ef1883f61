//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipeshare/recipeshare/internal/testutil"
)

// ============================================================================
// Migration Integration Tests
// ============================================================================

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	for _, table := range []string{"users", "recipes", "goose_db_version"} {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, pool, table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_RecipesTableSchema(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	expectedColumns := []string{
		"id",
		"title",
		"description",
		"rating",
		"time_to_prepare",
		"image",
		"ingredients",
		"directions",
		"user_id",
		"created_at",
	}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, pool, "recipes", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in recipes table", col)
			}
		})
	}
}

func TestIntegrationMigration_UsersEmailUnique(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	insert := `INSERT INTO users (id, name, email, password_hash) VALUES ($1, 'n', 'dup@example.com', 'h')`
	if _, err := pool.Exec(ctx, insert, "u1"); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	_, err := pool.Exec(ctx, insert, "u2")
	if !isUniqueViolation(err) {
		t.Errorf("expected unique violation, got %v", err)
	}
}

func TestIntegrationMigration_OwnerDeleteSetsNull(t *testing.T) {
	ctx, pool := newMigrationTestEnv(t)

	if _, err := pool.Exec(ctx, `INSERT INTO users (id, name, email, password_hash) VALUES ('u1', 'n', 'e', 'h')`); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	if _, err := pool.Exec(ctx, `
		INSERT INTO recipes (id, title, description, rating, time_to_prepare, image, ingredients, directions, user_id)
		VALUES ('r1', 't', 'd', 1, '5m', 'i', ARRAY['a'], ARRAY['b'], 'u1')
	`); err != nil {
		t.Fatalf("insert recipe: %v", err)
	}
	if _, err := pool.Exec(ctx, `DELETE FROM users WHERE id = 'u1'`); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var owner *string
	if err := pool.QueryRow(ctx, `SELECT user_id FROM recipes WHERE id = 'r1'`).Scan(&owner); err != nil {
		t.Fatalf("select: %v", err)
	}
	if owner != nil {
		t.Errorf("user_id = %q, want NULL", *owner)
	}
}

func TestIntegrationMigration_Idempotency(t *testing.T) {
	ctx, _ := newMigrationTestEnv(t)

	repo, err := New(ctx, testutil.RequireEnv(t, "DATABASE_URL"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		t.Errorf("second Migrate should be a no-op, got %v", err)
	}
}

// ============================================================================
// Helper Functions
// ============================================================================

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables 
			WHERE table_schema = 'public' 
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns 
			WHERE table_schema = 'public' 
			AND table_name = $1 
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}

// ============================================================================
// Test Environment Setup
// ============================================================================

func newMigrationTestEnv(t *testing.T) (context.Context, *pgxpool.Pool) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(pool.Close)

	unlock, err := testutil.AcquireDBLock(ctx, pool)
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, pool); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })

	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return ctx, pool
}
