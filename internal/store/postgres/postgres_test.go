package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/idilsaglam/shoplist/internal/store"
)

// Runs only against a real server: SHOPLIST_TEST_DATABASE_URL=postgres://...
func openTestStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("SHOPLIST_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("SHOPLIST_TEST_DATABASE_URL not set")
	}
	s, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresStore(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	key := "test-" + uuid.NewString()
	t.Cleanup(func() { _ = s.Delete(context.Background(), key) })

	if _, err := s.Get(ctx, key); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get missing err = %v", err)
	}
	if err := s.Put(ctx, key, []byte("one")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, key, []byte("two")); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, err := s.Get(ctx, key)
	if err != nil || string(got) != "two" {
		t.Fatalf("Get = %q, %v", got, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, key); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after Delete err = %v", err)
	}
}

func TestOpenRejectsBadURL(t *testing.T) {
	if _, err := Open(context.Background(), "postgres://%zz"); err == nil {
		t.Error("expected an error for a malformed connection string")
	}
}
