package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tartampluch/go-lifestory/internal/config"
	"github.com/tartampluch/go-lifestory/internal/content"
)

// backend is an opened content store. writer is nil for read-only stores.
type backend struct {
	source content.Source
	writer content.Writer
	close  func() error
}

// openBackend connects the content store selected by s.Backend.
func openBackend(ctx context.Context, s config.Settings) (*backend, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	noop := func() error { return nil }

	switch s.Backend {
	case config.BackendFile:
		return &backend{source: content.NewFileSource(os.DirFS(s.ContentDir)), close: noop}, nil

	case config.BackendHTTP:
		src, err := content.NewHTTPSource(s.ContentURL, s.ContentUser, s.ResolveContentPassword())
		if err != nil {
			return nil, err
		}
		return &backend{source: src, close: noop}, nil

	case config.BackendPostgres:
		db, err := content.OpenPostgres(ctx, s.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return &backend{source: db, writer: db, close: db.Close}, nil

	case config.BackendSQLite:
		db, err := content.OpenSQLite(ctx, s.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &backend{source: db, writer: db, close: db.Close}, nil

	case config.BackendRedis:
		rdb, err := content.OpenRedis(ctx, s.RedisURL)
		if err != nil {
			return nil, err
		}
		return &backend{source: rdb, writer: rdb, close: rdb.Close}, nil
	}

	// Validate rejects every other value.
	return nil, fmt.Errorf("%s: %q", config.ErrBackend, s.Backend)
}
