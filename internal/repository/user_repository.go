package repository

import (
	"context"
	"errors"

	"github.com/SophiaCH21/NoteBookApp/internal/entity"
	"github.com/SophiaCH21/NoteBookApp/internal/pkg/serverutils"
	"github.com/SophiaCH21/NoteBookApp/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IUserRepository interface {
	// Create returns serverutils.ErrAlreadyExists when the email is taken.
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetById(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

type userRepository struct {
	db database.DatabaseQueryer
}

func NewUserRepository(db *pgxpool.Pool) IUserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	_, err := r.db.Exec(
		ctx,
		`INSERT INTO account (id, email, user_name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		user.Id,
		user.Email,
		user.UserName,
		user.PasswordHash,
		user.CreatedAt,
	)
	if database.IsUniqueViolation(err) {
		return serverutils.ErrAlreadyExists
	}
	return err
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(
		ctx,
		`SELECT id, email, user_name, password_hash, created_at FROM account WHERE email = $1`,
		email,
	)
}

func (r *userRepository) GetById(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return r.getOne(
		ctx,
		`SELECT id, email, user_name, password_hash, created_at FROM account WHERE id = $1`,
		id,
	)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.Id,
		&u.Email,
		&u.UserName,
		&u.PasswordHash,
		&u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, serverutils.ErrNotFound
		}
		return nil, err
	}

	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
