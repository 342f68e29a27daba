package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/google/uuid"
)

type sqliteNoteRepository struct {
	db *sql.DB
}

func NewSQLiteNoteRepository(db *sql.DB) INoteRepository {
	return &sqliteNoteRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *sqliteNoteRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.Note, error) {
	row := r.db.QueryRowContext(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE id = ?`,
		id.String(),
	)

	note, err := scanSQLiteNote(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}

	return note, nil
}

func (r *sqliteNoteRepository) GetAllByOwner(ctx context.Context, ownerId uuid.UUID) ([]*entity.Note, error) {
	return r.queryNotes(
		ctx,
		`SELECT `+noteColumns+` FROM note WHERE owner_id = ?`,
		ownerId.String(),
	)
}

func (r *sqliteNoteRepository) Create(ctx context.Context, note *entity.Note) (*entity.Note, error) {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO note (id, title, description, owner_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		note.Id.String(),
		note.Title,
		note.Description,
		note.OwnerId.String(),
		formatTime(note.CreatedAt),
		formatNullTime(note.UpdatedAt),
	)
	if err != nil {
		return nil, err
	}

	return r.GetById(ctx, note.Id)
}

func (r *sqliteNoteRepository) Update(ctx context.Context, note *entity.Note) error {
	res, err := r.db.ExecContext(
		ctx,
		`UPDATE note SET title = ?, description = ?, updated_at = ? WHERE id = ?`,
		note.Title,
		note.Description,
		formatNullTime(note.UpdatedAt),
		note.Id.String(),
	)
	if err != nil {
		return err
	}

	return requireAffected(res)
}

func (r *sqliteNoteRepository) DeleteById(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM note WHERE id = ?`, id.String())
	if err != nil {
		return err
	}

	return requireAffected(res)
}

func (r *sqliteNoteRepository) SearchByOwner(ctx context.Context, ownerId uuid.UUID, term string) ([]*entity.Note, error) {
	return r.queryNotes(
		ctx,
		`SELECT `+noteColumns+` FROM note
		 WHERE owner_id = ?
		   AND (instr(title, ?) > 0 OR instr(description, ?) > 0)`,
		ownerId.String(),
		term,
		term,
	)
}

func (r *sqliteNoteRepository) GetByOwnerAndDateRange(ctx context.Context, ownerId uuid.UUID, from, to time.Time) ([]*entity.Note, error) {
	return r.queryNotes(
		ctx,
		`SELECT `+noteColumns+` FROM note
		 WHERE owner_id = ?
		   AND created_at >= ?
		   AND created_at <= ?`,
		ownerId.String(),
		formatTime(from),
		formatTime(to),
	)
}

func (r *sqliteNoteRepository) queryNotes(ctx context.Context, query string, args ...any) ([]*entity.Note, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*entity.Note, 0)
	for rows.Next() {
		note, err := scanSQLiteNote(rows)
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

func scanSQLiteNote(row rowScanner) (*entity.Note, error) {
	var (
		n           entity.Note
		id, ownerId string
		createdAt   string
		updatedAt   sql.NullString
	)

	if err := row.Scan(&id, &n.Title, &n.Description, &ownerId, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if n.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if n.OwnerId, err = uuid.Parse(ownerId); err != nil {
		return nil, err
	}
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = parseNullTime(updatedAt); err != nil {
		return nil, err
	}

	return &n, nil
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return serverutils.ErrNotFound
	}
	return nil
}
