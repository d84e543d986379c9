package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// Options selects and configures a storage backend.
type Options struct {
	Driver         string // memory, postgres, sqlite or libsql
	DSN            string // postgres connection string
	MigrationsPath string
	SQLitePath     string
	LibSQLURL      string
}

// Open returns the Repository named by opts.Driver. For postgres the
// pending migrations are applied first.
func Open(ctx context.Context, opts Options, log *slog.Logger) (Repository, error) {
	switch opts.Driver {
	case "", "memory":
		log.Warn("using in-memory storage, workouts are lost on restart")
		return NewMemoryStore(), nil

	case "postgres":
		if err := RunMigrations(opts.DSN, opts.MigrationsPath); err != nil {
			return nil, fmt.Errorf("migrations: %w", err)
		}
		log.Info("migrations applied")
		db, err := New(ctx, opts.DSN)
		if err != nil {
			return nil, err
		}
		log.Info("connected to database")
		return db, nil

	case "sqlite":
		s, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info("opened sqlite database", "path", opts.SQLitePath)
		return s, nil

	case "libsql":
		s, err := OpenLibSQL(ctx, opts.LibSQLURL)
		if err != nil {
			return nil, err
		}
		log.Info("connected to libsql database")
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
}
