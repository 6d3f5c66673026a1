package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/eugenenazirov/tech-news-planner/internal/news"
)

func newSQLiteStorage(t *testing.T) *SQLStorage {
	t.Helper()

	store, err := OpenSQL(BackendSQLite, ":memory:")
	if err != nil {
		t.Fatalf("OpenSQL failed: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}

func TestSQLStorageContract(t *testing.T) {
	runStorageContract(t, func(t *testing.T) Storage {
		return newSQLiteStorage(t)
	})
}

func TestSQLStorageIgnoresCallerIDs(t *testing.T) {
	store := newSQLiteStorage(t)
	ctx := context.Background()

	items := []news.News{{ID: 99, Title: "a", ReadingTime: 1}, {ID: 99, Title: "b", ReadingTime: 2}}
	if err := store.AddNews(ctx, items...); err != nil {
		t.Fatalf("AddNews failed: %v", err)
	}
	if items[0].ID != 99 {
		t.Fatalf("caller slice was modified")
	}

	got, err := store.FindNews(ctx)
	if err != nil {
		t.Fatalf("FindNews failed: %v", err)
	}
	if len(got) != 2 || got[0].ID == got[1].ID {
		t.Fatalf("expected two rows with distinct ids, got %+v", got)
	}
}

func TestSQLStorageStoresFoldColumns(t *testing.T) {
	store := newSQLiteStorage(t)
	ctx := context.Background()

	if err := store.AddNews(ctx, news.News{Title: "ÁGIL e Rápido", Category: "ÁGUA", ReadingTime: 3}); err != nil {
		t.Fatalf("AddNews failed: %v", err)
	}

	got, err := store.FindNews(ctx)
	if err != nil {
		t.Fatalf("FindNews failed: %v", err)
	}
	if len(got) != 1 || got[0].TitleFold != "ágil e rápido" || got[0].CategoryFold != "água" {
		t.Fatalf("unexpected fold columns: %+v", got)
	}
}

func TestSQLStorageAddNothing(t *testing.T) {
	store := newSQLiteStorage(t)
	if err := store.AddNews(context.Background()); err != nil {
		t.Fatalf("expected no error for empty insert, got %v", err)
	}
}

func TestSQLStorageHonoursCancelledContext(t *testing.T) {
	store := newSQLiteStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := store.FindNews(ctx); err == nil {
		t.Fatalf("expected error for cancelled context")
	}
}

func TestOpenSQLRejectsUnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := OpenSQL(BackendMemory, ""); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	t.Parallel()

	tests := map[string]Backend{
		"memory":   BackendMemory,
		" SQLite ": BackendSQLite,
		"postgres": BackendPostgres,
		"MySQL":    BackendMySQL,
	}
	for raw, want := range tests {
		got, err := ParseBackend(raw)
		if err != nil {
			t.Fatalf("ParseBackend(%q) returned error: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseBackend(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, err := ParseBackend("mongodb"); !errors.Is(err, ErrUnknownBackend) {
		t.Fatalf("expected ErrUnknownBackend, got %v", err)
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	if got := escapeLike("50%_off!"); got != "50!%!_off!!" {
		t.Fatalf("unexpected escaped value %q", got)
	}
}
