package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/waypoint/internal/compiler"
	"github.com/aretw0/waypoint/internal/config"
	"github.com/aretw0/waypoint/pkg/adapters/file"
	"github.com/aretw0/waypoint/pkg/adapters/memory"
	"github.com/aretw0/waypoint/pkg/adapters/redis"
	"github.com/aretw0/waypoint/pkg/adapters/sqlite"
	"github.com/aretw0/waypoint/pkg/effects"
	"github.com/aretw0/waypoint/pkg/persistence/middleware"
	"github.com/aretw0/waypoint/pkg/ports"
)

// defaultSQLitePath replaces the file backend's directory default for sqlite.
var defaultSQLitePath = filepath.Join(".waypoint", "sessions.db")

// openStore builds the progress store selected by the configuration, logged and
// wrapped with mws. The returned function releases its connections.
func openStore(ctx context.Context, c config.StoreConfig, mws ...middleware.Middleware) (ports.ProgressStore, func() error, error) {
	store, closeStore, err := openBackend(ctx, c)
	if err != nil {
		return nil, nil, err
	}
	mws = append([]middleware.Middleware{middleware.NewLoggingMiddleware(logger)}, mws...)
	return middleware.Chain(store, mws...), closeStore, nil
}

func openBackend(ctx context.Context, c config.StoreConfig) (ports.ProgressStore, func() error, error) {
	noop := func() error { return nil }

	switch c.Backend {
	case "memory":
		return memory.NewStore(), noop, nil

	case "file", "":
		return file.New(c.Path), noop, nil

	case "redis":
		var opts []redis.Option
		if c.Redis.TTL > 0 {
			opts = append(opts, redis.WithTTL(c.Redis.TTL))
		}
		store := redis.New(c.Redis.Addr, c.Redis.Password, c.Redis.DB, opts...)
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("connect to redis at %s: %w", c.Redis.Addr, err)
		}
		return store, store.Close, nil

	case "sqlite":
		path := c.Path
		if path == "" || path == file.DefaultPath {
			path = defaultSQLitePath
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("create database dir: %w", err)
		}
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store backend %q", c.Backend)
}

// newCompiler returns a compiler whose set-flag actions write into flags.
func newCompiler(flags effects.FlagStore) *compiler.Compiler {
	reg := effects.NewRegistry()
	effects.RegisterBuiltins(reg, flags)
	return compiler.New(reg)
}
