package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SophiaCH21/NoteBookApp/pkg/logger/slogx"
	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const UniqueViolationCode = "23505"

func ConnectDB(ctx context.Context, connStr string, retryAttempts uint) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("open new pgx pool: %v", err)
	}

	if retryAttempts == 0 {
		retryAttempts = 1
	}

	if err := retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Delay(time.Millisecond*300),
		retry.Attempts(retryAttempts),
		retry.OnRetry(func(attempt uint, err error) {
			slogx.Warn(
				ctx,
				"failed ping to database",
				slogx.Err(err),
				slog.Uint64("attempt", uint64(attempt)),
			)
		}),
	); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping to database: %v", err)
	}

	return pool, nil
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolationCode
}
