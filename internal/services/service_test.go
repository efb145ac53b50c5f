package services

import (
	"database/sql"
	"testing"

	"github.com/fintrack/fintrack-be/internal/database"
	"github.com/stretchr/testify/require"
)

// newTestDB opens a fresh in-memory database with the schema applied.
// A single connection keeps the :memory: database alive across queries.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.New(":memory:")
	require.NoError(t, err, "failed to create test database")
	db.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db), "failed to migrate test database")

	t.Cleanup(func() { db.Close() })
	return db
}

func expenseCount(t *testing.T, db *sql.DB) int {
	t.Helper()
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM expenses").Scan(&count))
	return count
}
