package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agenthands/causalgraph/internal/config"
	"github.com/agenthands/causalgraph/internal/driver"
)

// Open builds the configured link store backend.
func Open(ctx context.Context, cfg *config.Config, log *slog.Logger) (LinkStore, error) {
	switch cfg.Store.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "badger":
		return NewBadgerStore(cfg.Store.BadgerPath)
	case "memgraph":
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, log)
		if err != nil {
			return nil, err
		}
		if err := d.BuildIndices(ctx); err != nil {
			return nil, err
		}
		return NewGraphStore(d), nil
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", cfg.Store.Backend)
	}
}
