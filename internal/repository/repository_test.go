package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/migrations"
	"github.com/SophiaCH21/NoteBookApp/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type backend struct {
	name  string
	notes func(t *testing.T) (INoteRepository, IUserRepository)
}

// postgresDSNEnv points the contract tests at a real PostgreSQL server. Each
// test gets its own schema, dropped on cleanup.
const postgresDSNEnv = "NOTEBOOK_TEST_POSTGRES_DSN"

func backends() []backend {
	bs := []backend{
		{
			name: "memory",
			notes: func(t *testing.T) (INoteRepository, IUserRepository) {
				return NewMemoryNoteRepository(), NewMemoryUserRepository()
			},
		},
		{
			name: "sqlite",
			notes: func(t *testing.T) (INoteRepository, IUserRepository) {
				ctx := context.Background()
				db, err := database.OpenSQLite(ctx, filepath.Join(t.TempDir(), "notes.db"))
				require.NoError(t, err)
				t.Cleanup(func() { db.Close() })

				require.NoError(t, database.Migrate(ctx, goose.DialectSQLite3, db, migrations.SQLite()))
				return NewSQLiteNoteRepository(db), NewSQLiteUserRepository(db)
			},
		},
	}

	if dsn := os.Getenv(postgresDSNEnv); dsn != "" {
		bs = append(bs, backend{
			name: "postgres",
			notes: func(t *testing.T) (INoteRepository, IUserRepository) {
				pool := newPostgresSchema(t, dsn)
				return NewNoteRepository(pool), NewUserRepository(pool)
			},
		})
	}

	return bs
}

func newPostgresSchema(t *testing.T, dsn string) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	admin, err := database.ConnectDB(ctx, dsn, 1)
	require.NoError(t, err)
	t.Cleanup(admin.Close)

	schema := "notebook_test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
	})

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	db := stdlib.OpenDBFromPool(pool)
	// registered after the drop so it runs first
	t.Cleanup(func() {
		db.Close()
		pool.Close()
	})

	require.NoError(t, database.Migrate(ctx, goose.DialectPostgres, db, migrations.Postgres()))
	return pool
}

func newTestUser(t *testing.T, users IUserRepository, email string) *entity.User {
	t.Helper()

	u := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		UserName:     "tester",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func newTestNote(ownerId uuid.UUID, title, description string, createdAt time.Time) *entity.Note {
	return &entity.Note{
		Id:          uuid.New(),
		Title:       title,
		Description: description,
		OwnerId:     ownerId,
		CreatedAt:   createdAt.UTC().Truncate(time.Microsecond),
	}
}

func TestNoteRepository(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()

			t.Run("create then get round trips every field", func(t *testing.T) {
				notes, users := b.notes(t)
				owner := newTestUser(t, users, "a@example.com")

				n := newTestNote(owner.Id, "Groceries", "milk", time.Now())
				stored, err := notes.Create(ctx, n)
				require.NoError(t, err)
				assert.Equal(t, n, stored)

				got, err := notes.GetById(ctx, n.Id)
				require.NoError(t, err)
				assert.Equal(t, n, got)
				assert.Nil(t, got.UpdatedAt)
			})

			t.Run("get missing returns not found", func(t *testing.T) {
				notes, _ := b.notes(t)
				_, err := notes.GetById(ctx, uuid.New())
				assert.ErrorIs(t, err, serverutils.ErrNotFound)
			})

			t.Run("list is scoped to owner", func(t *testing.T) {
				notes, users := b.notes(t)
				alice := newTestUser(t, users, "alice@example.com")
				bob := newTestUser(t, users, "bob@example.com")

				for _, title := range []string{"a1", "a2"} {
					_, err := notes.Create(ctx, newTestNote(alice.Id, title, "", time.Now()))
					require.NoError(t, err)
				}
				_, err := notes.Create(ctx, newTestNote(bob.Id, "b1", "", time.Now()))
				require.NoError(t, err)

				got, err := notes.GetAllByOwner(ctx, alice.Id)
				require.NoError(t, err)
				assert.Len(t, got, 2)
				for _, n := range got {
					assert.Equal(t, alice.Id, n.OwnerId)
				}
			})

			t.Run("update replaces content and sets updatedAt", func(t *testing.T) {
				notes, users := b.notes(t)
				owner := newTestUser(t, users, "u@example.com")
				n := newTestNote(owner.Id, "old", "old body", time.Now())
				_, err := notes.Create(ctx, n)
				require.NoError(t, err)

				updatedAt := n.CreatedAt.Add(time.Minute)
				n.Title = "new"
				n.Description = "new body"
				n.UpdatedAt = &updatedAt
				require.NoError(t, notes.Update(ctx, n))

				got, err := notes.GetById(ctx, n.Id)
				require.NoError(t, err)
				assert.Equal(t, "new", got.Title)
				assert.Equal(t, "new body", got.Description)
				require.NotNil(t, got.UpdatedAt)
				assert.True(t, updatedAt.Equal(*got.UpdatedAt))
				assert.True(t, n.CreatedAt.Equal(got.CreatedAt))
			})

			t.Run("update and delete of missing note return not found", func(t *testing.T) {
				notes, _ := b.notes(t)
				ghost := newTestNote(uuid.New(), "ghost", "", time.Now())
				assert.ErrorIs(t, notes.Update(ctx, ghost), serverutils.ErrNotFound)
				assert.ErrorIs(t, notes.DeleteById(ctx, ghost.Id), serverutils.ErrNotFound)
			})

			t.Run("delete removes the note", func(t *testing.T) {
				notes, users := b.notes(t)
				owner := newTestUser(t, users, "d@example.com")
				n := newTestNote(owner.Id, "bye", "", time.Now())
				_, err := notes.Create(ctx, n)
				require.NoError(t, err)

				require.NoError(t, notes.DeleteById(ctx, n.Id))
				_, err = notes.GetById(ctx, n.Id)
				assert.ErrorIs(t, err, serverutils.ErrNotFound)
			})

			t.Run("search is a case-sensitive literal substring", func(t *testing.T) {
				notes, users := b.notes(t)
				owner := newTestUser(t, users, "s@example.com")
				other := newTestUser(t, users, "o@example.com")

				inputs := []*entity.Note{
					newTestNote(owner.Id, "Meeting notes", "", time.Now()),
					newTestNote(owner.Id, "Todo", "prepare for the meeting", time.Now()),
					newTestNote(owner.Id, "Budget", "100% done", time.Now()),
					newTestNote(other.Id, "Meeting", "", time.Now()),
				}
				for _, n := range inputs {
					_, err := notes.Create(ctx, n)
					require.NoError(t, err)
				}

				got, err := notes.SearchByOwner(ctx, owner.Id, "Meeting")
				require.NoError(t, err)
				require.Len(t, got, 1)
				assert.Equal(t, "Meeting notes", got[0].Title)

				got, err = notes.SearchByOwner(ctx, owner.Id, "meeting")
				require.NoError(t, err)
				require.Len(t, got, 1)
				assert.Equal(t, "Todo", got[0].Title)

				got, err = notes.SearchByOwner(ctx, owner.Id, "%")
				require.NoError(t, err)
				require.Len(t, got, 1)
				assert.Equal(t, "Budget", got[0].Title)

				got, err = notes.SearchByOwner(ctx, owner.Id, "_")
				require.NoError(t, err)
				assert.Empty(t, got)
			})

			t.Run("date range is inclusive on both ends", func(t *testing.T) {
				notes, users := b.notes(t)
				owner := newTestUser(t, users, "r@example.com")

				base := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
				before := newTestNote(owner.Id, "before", "", base.Add(-time.Microsecond))
				atFrom := newTestNote(owner.Id, "from", "", base)
				atTo := newTestNote(owner.Id, "to", "", base.Add(24*time.Hour))
				after := newTestNote(owner.Id, "after", "", base.Add(24*time.Hour+time.Microsecond))
				for _, n := range []*entity.Note{before, atFrom, atTo, after} {
					_, err := notes.Create(ctx, n)
					require.NoError(t, err)
				}

				got, err := notes.GetByOwnerAndDateRange(ctx, owner.Id, base, base.Add(24*time.Hour))
				require.NoError(t, err)

				titles := make([]string, 0, len(got))
				for _, n := range got {
					titles = append(titles, n.Title)
				}
				assert.ElementsMatch(t, []string{"from", "to"}, titles)
			})
		})
	}
}

func TestUserRepository(t *testing.T) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			_, users := b.notes(t)

			u := newTestUser(t, users, "same@example.com")

			got, err := users.GetByEmail(ctx, "same@example.com")
			require.NoError(t, err)
			assert.Equal(t, u.Id, got.Id)

			got, err = users.GetById(ctx, u.Id)
			require.NoError(t, err)
			assert.Equal(t, u.Email, got.Email)

			dup := *u
			dup.Id = uuid.New()
			assert.ErrorIs(t, users.Create(ctx, &dup), serverutils.ErrAlreadyExists)

			_, err = users.GetByEmail(ctx, "nobody@example.com")
			assert.ErrorIs(t, err, serverutils.ErrNotFound)
		})
	}
}
