package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/models"
)

const (
	usernameConstraint = "users_username_key"
	emailConstraint    = "users_email_key"
)

const createUsersTableQuery = `
CREATE TABLE IF NOT EXISTS users (
    id         uuid PRIMARY KEY,
    username   text        NOT NULL UNIQUE,
    email      text        NOT NULL UNIQUE,
    password   text        NOT NULL,
    created_at timestamptz NOT NULL,
    updated_at timestamptz NOT NULL
)
`

// Querier is the part of *pgxpool.Pool the user repository needs.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ Querier        = (*pgxpool.Pool)(nil)
	_ UserRepository = (*PostgresUserRepository)(nil)
)

type PostgresUserRepository struct {
	logger zerolog.Logger
	db     Querier
}

func NewPostgresUserRepository(logger zerolog.Logger, db Querier) *PostgresUserRepository {
	return &PostgresUserRepository{
		logger: logger,
		db:     db,
	}
}

func (r *PostgresUserRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, createUsersTableQuery)
	if err != nil {
		r.logger.Error().
			Err(err).
			Msg("failed to create users table")
		return err
	}
	r.logger.Debug().Msg("ensured users table")
	return nil
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   username,
                   email,
                   password,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.db.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Username,
		user.Email,
		user.Password,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			r.logger.Warn().
				Str("username", user.Username).
				Str("email", user.Email).
				Msg(taken.Error())
			return taken
		}

		r.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return err
	}
	r.logger.Debug().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("inserted user")
	return nil
}

func (r *PostgresUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	const selectUserByIDQuery = `
SELECT id,
       username,
       email,
       password,
       created_at,
       updated_at
FROM users
WHERE id = $1
`
	return r.selectUser(ctx, selectUserByIDQuery, id)
}

func (r *PostgresUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	const selectUserByUsernameQuery = `
SELECT id,
       username,
       email,
       password,
       created_at,
       updated_at
FROM users
WHERE username = $1
`
	return r.selectUser(ctx, selectUserByUsernameQuery, username)
}

func (r *PostgresUserRepository) UpdateUserEmail(ctx context.Context, user *models.User) error {
	const updateUserEmailQuery = `
UPDATE users
SET email = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := r.db.Exec(
		ctx,
		updateUserEmailQuery,
		user.Email,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if taken := uniqueViolation(err); taken != nil {
			r.logger.Warn().
				Str("user_id", user.ID).
				Msg(taken.Error())
			return taken
		}

		r.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user email")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("updated user email")
	return nil
}

func (r *PostgresUserRepository) UpdateUserPassword(ctx context.Context, user *models.User) error {
	const updateUserPasswordQuery = `
UPDATE users
SET password = $1,
    updated_at = $2
WHERE id = $3
`
	tag, err := r.db.Exec(
		ctx,
		updateUserPasswordQuery,
		user.Password,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user password")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("updated user password")
	return nil
}

func (r *PostgresUserRepository) selectUser(ctx context.Context, query string, arg string) (*models.User, error) {
	var user models.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Password,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}

		r.logger.Error().
			Err(err).
			Msg("failed to select user")
		return nil, err
	}
	return &user, nil
}

// uniqueViolation returns the sentinel matching the violated
// constraint, or nil for any other error.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgerrcode.UniqueViolation {
		return nil
	}
	switch pgErr.ConstraintName {
	case usernameConstraint:
		return ErrUsernameTaken
	case emailConstraint:
		return ErrEmailTaken
	default:
		return ErrUsernameTaken
	}
}
