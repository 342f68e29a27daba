package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/pkg/database"
	"github.com/google/uuid"
)

type sqliteUserRepository struct {
	db *sql.DB
}

func NewSQLiteUserRepository(db *sql.DB) IUserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO account (id, email, user_name, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.Id.String(),
		user.Email,
		user.UserName,
		user.PasswordHash,
		formatTime(user.CreatedAt),
	)
	if database.IsSQLiteUniqueViolation(err) {
		return serverutils.ErrAlreadyExists
	}
	return err
}

func (r *sqliteUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(
		ctx,
		`SELECT id, email, user_name, password_hash, created_at FROM account WHERE email = ?`,
		email,
	)
}

func (r *sqliteUserRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.getOne(
		ctx,
		`SELECT id, email, user_name, password_hash, created_at FROM account WHERE id = ?`,
		id.String(),
	)
}

func (r *sqliteUserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var (
		u         entity.User
		id        string
		createdAt string
	)

	err := r.db.QueryRowContext(ctx, query, arg).Scan(&id, &u.Email, &u.UserName, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}

	if u.Id, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}

	return &u, nil
}
