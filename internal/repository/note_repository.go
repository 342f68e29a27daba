package repository

import (
	"context"
	"errors"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type INoteRepository interface {
	GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error)
	GetAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.Note, error)
	Create(ctx context.Context, note *entity.Note) (*entity.Note, error)
	Update(ctx context.Context, note *entity.Note) error
	DeleteById(ctx context.Context, id uuid.UUID) error
	// SearchByOwner matches term as a case-sensitive substring of title or
	// description. The term is never treated as a pattern.
	SearchByOwner(ctx context.Context, ownerId uuid.UUID, term string) ([]*entity.Note, error)
	// GetByOwnerAndDateRange returns notes created within [from, to].
	GetByOwnerAndDateRange(ctx context.Context, ownerId uuid.UUID, from, to time.Time) ([]*entity.Note, error)
}

type noteRepository struct {
	db database.DatabaseQueryer
}

func NewNoteRepository(db *pgxpool.Pool) INoteRepository {
	return &noteRepository{db: db}
}

const noteColumns = `id, title, description, owner_id, created_at, updated_at`

func (r *noteRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	row := r.db.QueryRow(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE id = $1`,
		id,
	)

	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}

	return note, nil
}

func (r *noteRepository) GetAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.Note, error) {
	return r.queryNotes(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE owner_id = $1`,
		ownerId,
	)
}

func (r *noteRepository) Create(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	row := r.db.QueryRow(
		ctx,
		`INSERT INTO note (id, title, description, owner_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+noteColumns,
		note.Id,
		note.Title,
		note.Description,
		note.OwnerId,
		note.CreatedAt,
		note.UpdatedAt,
	)

	return scanNote(row)
}

func (r *noteRepository) Update(ctx context.Context, note *entity.Note) error {
	tag, err := r.db.Exec(
		ctx,
		`UPDATE note SET title = $1, description = $2, updated_at = $3 WHERE id = $4`,
		note.Title,
		note.Description,
		note.UpdatedAt,
		note.Id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return serverutils.ErrNotFound
	}

	return nil
}

func (r *noteRepository) DeleteById(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM note WHERE id = $1`,
		id,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return serverutils.ErrNotFound
	}

	return nil
}

func (r *noteRepository) SearchByOwner(ctx context.Context, ownerId uuid.UUID, term string) ([]*entity.Note, error) {
	return r.queryNotes(
		ctx,
		`SELECT `+noteColumns+` FROM note
		 WHERE owner_id = $1
		   AND (strpos(title, $2) > 0 OR strpos(description, $2) > 0)`,
		ownerId,
		term,
	)
}

func (r *noteRepository) GetByOwnerAndDateRange(ctx context.Context, ownerId uuid.UUID, from, to time.Time) ([]*entity.Note, error) {
	return r.queryNotes(
		ctx,
		`SELECT `+noteColumns+` FROM note
		 WHERE owner_id = $1
		   AND created_at >= $2
		   AND created_at <= $3`,
		ownerId,
		from.UTC(),
		to.UTC(),
	)
}

func (r *noteRepository) queryNotes(ctx context.Context, query string, args ...any) ([]*entity.Note, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*entity.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return notes, nil
}

func scanNote(row pgx.Row) (*entity.Note, error) {
	var n entity.Note
	err := row.Scan(
		&n.Id,
		&n.Title,
		&n.Description,
		&n.OwnerId,
		&n.CreatedAt,
		&n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.CreatedAt = n.CreatedAt.UTC()
	if n.UpdatedAt != nil {
		u := n.UpdatedAt.UTC()
		n.UpdatedAt = &u
	}

	return &n, nil
}
