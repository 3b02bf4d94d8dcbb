package testsupport

import (
	"context"
	"testing"

	"shelfarr/internal/catalog"
	"shelfarr/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewAuthor creates a tracked author for tests using the provided store.
func NewAuthor(t testing.TB, store *catalog.Store, name string) *catalog.Author {
	t.Helper()

	author, err := store.CreateAuthor(context.Background(), name)
	if err != nil {
		t.Fatalf("store.CreateAuthor: %v", err)
	}
	return author
}

// NewBook creates a book under the author for tests using the provided store.
func NewBook(t testing.TB, store *catalog.Store, authorID, title string) *catalog.Book {
	t.Helper()

	book, err := store.CreateBook(context.Background(), authorID, title)
	if err != nil {
		t.Fatalf("store.CreateBook: %v", err)
	}
	return book
}
