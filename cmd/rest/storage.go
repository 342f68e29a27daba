package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SophiaCH21/NoteBookApp/internal/config"
	"github.com/SophiaCH21/NoteBookApp/internal/repository"
	"github.com/SophiaCH21/NoteBookApp/migrations"
	"github.com/SophiaCH21/NoteBookApp/pkg/database"
	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type storage struct {
	notes repository.INoteRepository
	users repository.IUserRepository
	close func()
}

func openStorage(ctx context.Context, cfg config.DatabaseConfig) (*storage, error) {
	slogx.Info(ctx, "opening storage", slog.String("driver", cfg.Driver))

	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := database.ConnectDB(ctx, cfg.ConnectionString, cfg.RetryAttempts)
		if err != nil {
			return nil, err
		}

		db := stdlib.OpenDBFromPool(pool)
		if err := database.Migrate(ctx, goose.DialectPostgres, db, migrations.Postgres()); err != nil {
			db.Close()
			pool.Close()
			return nil, err
		}

		return &storage{
			notes: repository.NewNoteRepository(pool),
			users: repository.NewUserRepository(pool),
			close: func() {
				db.Close()
				pool.Close()
			},
		}, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		if err := database.Migrate(ctx, goose.DialectSQLite3, db, migrations.SQLite()); err != nil {
			db.Close()
			return nil, err
		}

		return &storage{
			notes: repository.NewSQLiteNoteRepository(db),
			users: repository.NewSQLiteUserRepository(db),
			close: func() { db.Close() },
		}, nil

	case config.DriverMemory:
		slogx.Warn(ctx, "memory storage keeps nothing across restarts")
		return &storage{
			notes: repository.NewMemoryNoteRepository(),
			users: repository.NewMemoryUserRepository(),
			close: func() {},
		}, nil
	}

	return nil, fmt.Errorf("unknown driver %q", cfg.Driver)
}
