package database

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/pressly/goose/v3"
)

// Migrate applies every pending migration found at the root of fsys.
func Migrate(ctx context.Context, dialect goose.Dialect, db *sql.DB, fsys fs.FS) error {
	provider, err := goose.NewProvider(dialect, db, fsys)
	if err != nil {
		return fmt.Errorf("init migration provider: %v", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("apply migrations: %v", err)
	}

	for _, r := range results {
		slogx.Info(ctx, "migration applied",
			slog.String("source", r.Source.Path),
			slogx.Duration(r.Duration),
		)
	}

	return nil
}
