package db

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/techstore/internal/models"
)

func TestOpen_Validation(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{Driver: DriverSQLite})
	require.Error(t, err)

	_, err = Open(context.Background(), Config{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestOpen_SQLiteMigrateAndForeignKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gdb, err := Open(ctx, Config{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "shop.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))

	for _, table := range []string{"users", "products", "reviews", "shops"} {
		assert.True(t, gdb.Migrator().HasTable(table), table)
	}

	err = gdb.Create(&models.Review{UserID: 99, ProductID: 99, Text: "orphan", Stars: 3}).Error
	require.Error(t, err)
}

func TestOpen_SQLiteUniqueEmail(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gdb, err := Open(ctx, Config{DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })
	require.NoError(t, Migrate(ctx, gdb))

	require.NoError(t, gdb.Create(&models.User{Email: "a@example.com", PasswordHash: "h"}).Error)
	err = gdb.Create(&models.User{Email: "a@example.com", PasswordHash: "h"}).Error
	require.Error(t, err)
}

func TestOpen_Postgres(t *testing.T) {
	dsn := os.Getenv("TECHSTORE_TEST_POSTGRES_URL")
	if dsn == "" {
		t.Skip("TECHSTORE_TEST_POSTGRES_URL is required for tests")
	}

	ctx := context.Background()
	gdb, err := Open(ctx, Config{Driver: DriverPostgres, DSN: dsn})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(gdb) })

	require.NoError(t, Migrate(ctx, gdb))
	assert.True(t, gdb.Migrator().HasTable("reviews"))
}
