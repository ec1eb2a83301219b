package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-tasklist/internal/models"
)

type queryCall struct {
	sql  string
	args []any
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch d := d.(type) {
		case *string:
			*d = r.values[i].(string)
		case *time.Time:
			*d = r.values[i].(time.Time)
		}
	}
	return nil
}

type fakeQuerier struct {
	calls    []queryCall
	execErr  error
	affected int64
	row      fakeRow
}

func (f *fakeQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.calls = append(f.calls, queryCall{sql: sql, args: args})
	if f.execErr != nil {
		return pgconn.CommandTag{}, f.execErr
	}
	if f.affected == 0 {
		return pgconn.NewCommandTag("UPDATE 0"), nil
	}
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.calls = append(f.calls, queryCall{sql: sql, args: args})
	return f.row
}

func TestPostgresUserRepository_CreateUser(t *testing.T) {
	db := &fakeQuerier{}
	repo := NewPostgresUserRepository(zerolog.Nop(), db)
	user := newTestUser("1", "alice", "alice@example.com")

	require.NoError(t, repo.CreateUser(context.Background(), user))

	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "INSERT INTO users")
	assert.Equal(t, []any{
		user.ID, user.Username, user.Email, user.Password, user.CreatedAt, user.UpdatedAt,
	}, db.calls[0].args)
}

func TestPostgresUserRepository_MapsUniqueViolations(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		want       error
	}{
		{name: "username", constraint: usernameConstraint, want: ErrUsernameTaken},
		{name: "email", constraint: emailConstraint, want: ErrEmailTaken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &fakeQuerier{execErr: &pgconn.PgError{
				Code:           pgerrcode.UniqueViolation,
				ConstraintName: tt.constraint,
			}}
			repo := NewPostgresUserRepository(zerolog.Nop(), db)

			err := repo.CreateUser(context.Background(), newTestUser("1", "alice", "alice@example.com"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPostgresUserRepository_PassesOtherErrorsThrough(t *testing.T) {
	cause := errors.New("connection reset")
	repo := NewPostgresUserRepository(zerolog.Nop(), &fakeQuerier{execErr: cause})

	err := repo.CreateUser(context.Background(), newTestUser("1", "alice", "alice@example.com"))
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
}

func TestPostgresUserRepository_GetUserByUsername(t *testing.T) {
	now := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)
	db := &fakeQuerier{row: fakeRow{values: []any{
		"1", "alice", "alice@example.com", "hash", now, now,
	}}}
	repo := NewPostgresUserRepository(zerolog.Nop(), db)

	user, err := repo.GetUserByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, &models.User{
		ID:        "1",
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "hash",
		CreatedAt: now,
		UpdatedAt: now,
	}, user)
	assert.Equal(t, []any{"alice"}, db.calls[0].args)
}

func TestPostgresUserRepository_GetUserNotFound(t *testing.T) {
	repo := NewPostgresUserRepository(zerolog.Nop(), &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}})

	_, err := repo.GetUserByID(context.Background(), "1")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPostgresUserRepository_UpdateUserEmail(t *testing.T) {
	db := &fakeQuerier{affected: 1}
	repo := NewPostgresUserRepository(zerolog.Nop(), db)
	user := &models.User{ID: "1", Email: "a@example.com", UpdatedAt: time.Now()}

	require.NoError(t, repo.UpdateUserEmail(context.Background(), user))
	assert.Equal(t, []any{user.Email, user.UpdatedAt, user.ID}, db.calls[0].args)

	db = &fakeQuerier{execErr: &pgconn.PgError{
		Code:           pgerrcode.UniqueViolation,
		ConstraintName: emailConstraint,
	}}
	repo = NewPostgresUserRepository(zerolog.Nop(), db)
	assert.ErrorIs(t, repo.UpdateUserEmail(context.Background(), user), ErrEmailTaken)
}

func TestPostgresUserRepository_UpdateMissingUser(t *testing.T) {
	repo := NewPostgresUserRepository(zerolog.Nop(), &fakeQuerier{})
	user := &models.User{ID: "missing", Email: "a@example.com", Password: "hash"}

	assert.ErrorIs(t, repo.UpdateUserEmail(context.Background(), user), ErrUserNotFound)
	assert.ErrorIs(t, repo.UpdateUserPassword(context.Background(), user), ErrUserNotFound)
}

func TestPostgresUserRepository_EnsureSchema(t *testing.T) {
	db := &fakeQuerier{}
	repo := NewPostgresUserRepository(zerolog.Nop(), db)

	require.NoError(t, repo.EnsureSchema(context.Background()))
	require.Len(t, db.calls, 1)
	assert.Contains(t, db.calls[0].sql, "CREATE TABLE IF NOT EXISTS users")
	assert.Contains(t, db.calls[0].sql, "username   text        NOT NULL UNIQUE")
}
