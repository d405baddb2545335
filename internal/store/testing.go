package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// NewTestStore returns a fully migrated in-memory sqlite store for use in
// tests across packages.
func NewTestStore(t *testing.T) *Store {
	t.Helper()

	log := zaptest.NewLogger(t)
	s, err := Open("sqlite3", ":memory:", log)
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})

	require.NoError(t, NewMigrator(s, log).Up(context.Background()))
	return s
}
