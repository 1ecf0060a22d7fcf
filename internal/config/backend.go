package config

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/idilsaglam/shoplist/internal/catalog"
	"github.com/idilsaglam/shoplist/internal/store"
	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
	"github.com/idilsaglam/shoplist/internal/store/postgres"
	"github.com/idilsaglam/shoplist/internal/store/sqlite"
	"github.com/idilsaglam/shoplist/internal/totals"
)

// OpenBlobs opens the configured storage backend.
func (c Config) OpenBlobs(ctx context.Context) (store.Blobs, error) {
	switch c.Backend {
	case BackendJSON:
		return jsonstore.New(c.DataDir)
	case BackendSQLite:
		return sqlite.New(c.DBPath)
	case BackendPostgres:
		return postgres.Open(ctx, c.DatabaseURL)
	case BackendMemory:
		return store.NewMemory(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", c.Backend)
}

// OpenSnapshots opens the backend and binds it to the configured key.
func (c Config) OpenSnapshots(ctx context.Context) (*store.Snapshots, error) {
	blobs, err := c.OpenBlobs(ctx)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", c.Backend, err)
	}
	slog.Debug("storage opened", "backend", c.Backend, "key", c.Key)
	return store.NewSnapshots(blobs, c.Key), nil
}

// Catalog loads SHOPLIST_CATALOG, or the built-in catalog when unset.
func (c Config) Catalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.Load(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", c.CatalogPath, err)
	}
	return cat, nil
}

func (c Config) Money() totals.Money {
	return totals.NewMoney(c.Currency)
}
