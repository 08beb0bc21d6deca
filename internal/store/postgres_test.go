// ABOUTME: PostgreSQL store tests, gated behind a live database DSN
// ABOUTME: Runs the shared conformance suite against a real server

package store

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestPostgresStoreConformance needs a reachable PostgreSQL server:
//
//	MESHHUB_TEST_POSTGRES_DSN=postgres://localhost:5432/meshhub_test go test ./internal/store/
func TestPostgresStoreConformance(t *testing.T) {
	dsn := os.Getenv("MESHHUB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set MESHHUB_TEST_POSTGRES_DSN to run PostgreSQL store tests")
	}

	runStoreSuite(t, func(t *testing.T) Store {
		t.Helper()
		s, err := NewPostgresStore(context.Background(), dsn)
		require.NoError(t, err)

		_, err = s.db.Exec("TRUNCATE agent_messages")
		require.NoError(t, err)

		t.Cleanup(func() { s.Close() })
		return s
	})
}
