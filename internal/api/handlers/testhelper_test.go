package handlers

import (
	"context"
	"testing"

	"github.com/jarutosurano/wordcounter/internal/feeds"
	"github.com/jarutosurano/wordcounter/internal/render"
	"github.com/jarutosurano/wordcounter/internal/settings"
	"github.com/jarutosurano/wordcounter/internal/storage"
)

// testDeps bundles the collaborators handlers are built from, all backed
// by one in-memory SQLite database.
type testDeps struct {
	opts     *storage.Store
	settings *settings.Store
	renderer *render.Renderer
	fetcher  *feeds.Fetcher
}

func newTestDeps(t *testing.T) testDeps {
	t.Helper()

	db, err := storage.OpenDatabase(":memory:")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := storage.RunMigrations(context.Background(), db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	opts := storage.NewStore(db)
	store := settings.NewStore(opts)
	renderer := render.NewRenderer(store)
	return testDeps{
		opts:     opts,
		settings: store,
		renderer: renderer,
		fetcher:  feeds.NewFetcher(renderer, feeds.Options{RateLimit: -1}),
	}
}
