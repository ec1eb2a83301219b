// Package repository stores user accounts.
package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/models"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email address already registered")
)

type UserRepository interface {
	// CreateUser returns ErrUsernameTaken or ErrEmailTaken when
	// another account already holds the username or email.
	CreateUser(ctx context.Context, user *models.User) error

	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdateUserEmail returns ErrEmailTaken when the email belongs
	// to a different account.
	UpdateUserEmail(ctx context.Context, user *models.User) error

	UpdateUserPassword(ctx context.Context, user *models.User) error
}

type memoryUserRepository struct {
	logger zerolog.Logger

	mu         sync.RWMutex
	users      map[string]models.User
	byUsername map[string]string
	byEmail    map[string]string
}

// NewMemoryUserRepository keeps accounts for the lifetime of the process.
func NewMemoryUserRepository(logger zerolog.Logger) UserRepository {
	return &memoryUserRepository{
		logger:     logger,
		users:      make(map[string]models.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func (r *memoryUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[user.Username]; ok {
		return ErrUsernameTaken
	}
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}

	r.users[user.ID] = *user
	r.byUsername[user.Username] = user.ID
	r.byEmail[user.Email] = user.ID

	r.logger.Debug().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("inserted user")
	return nil
}

func (r *memoryUserRepository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}

func (r *memoryUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, ErrUserNotFound
	}
	user := r.users[id]
	return &user, nil
}

func (r *memoryUserRepository) UpdateUserEmail(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	if ownerID, taken := r.byEmail[user.Email]; taken && ownerID != user.ID {
		return ErrEmailTaken
	}

	delete(r.byEmail, stored.Email)
	stored.Email = user.Email
	stored.UpdatedAt = user.UpdatedAt
	r.users[user.ID] = stored
	r.byEmail[stored.Email] = stored.ID

	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("updated user email")
	return nil
}

func (r *memoryUserRepository) UpdateUserPassword(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.users[user.ID]
	if !ok {
		return ErrUserNotFound
	}
	stored.Password = user.Password
	stored.UpdatedAt = user.UpdatedAt
	r.users[user.ID] = stored

	r.logger.Debug().
		Str("user_id", user.ID).
		Msg("updated user password")
	return nil
}
