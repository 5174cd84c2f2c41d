package testsupport

import (
	"testing"

	"cvattrack/internal/config"
	"cvattrack/internal/history"
)

// MustOpenHistory opens the history store for cfg and registers cleanup.
func MustOpenHistory(t testing.TB, cfg *config.Config) *history.Store {
	t.Helper()

	store, err := history.Open(cfg.Paths.HistoryDB)
	if err != nil {
		t.Fatalf("history.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
