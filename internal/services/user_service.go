package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/alexedwards/argon2id"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/models"
	"github.com/adanyl0v/go-tasklist/internal/repository"
)

type userServiceImpl struct {
	logger     zerolog.Logger
	users      repository.UserRepository
	sessions   SessionService
	hashParams *argon2id.Params
}

// NewUserService hashes passwords with hashParams, or with
// argon2id.DefaultParams when it is nil.
func NewUserService(
	logger zerolog.Logger,
	users repository.UserRepository,
	sessions SessionService,
	hashParams *argon2id.Params,
) UserService {
	if hashParams == nil {
		hashParams = argon2id.DefaultParams
	}
	return &userServiceImpl{
		logger:     logger,
		users:      users,
		sessions:   sessions,
		hashParams: hashParams,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, params RegisterParams) (*models.User, error) {
	params.Username = strings.TrimSpace(params.Username)
	params.Email = strings.TrimSpace(params.Email)
	if params.Username == "" || params.Email == "" || params.Password == "" {
		s.logger.Warn().Msg("refused registration with missing fields")
		return nil, ErrMissingUserFields
	}
	if err := validatePassword(params.Password); err != nil {
		s.logger.Warn().
			Str("username", params.Username).
			Msg("refused registration with short password")
		return nil, err
	}

	now := time.Now()
	user := models.User{
		Username:  params.Username,
		Email:     params.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate user uuid")
		return nil, err
	}
	user.ID = userUUID.String()

	passwordHash, err := argon2id.CreateHash(params.Password, s.hashParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return nil, err
	}
	user.Password = passwordHash

	err = s.users.CreateUser(ctx, &user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, ErrUsernameTaken
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		}

		s.logger.Error().
			Err(err).
			Msg("failed to insert user")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("registered user")
	return &user, nil
}

func (s *userServiceImpl) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error().
				Str("user_id", userID).
				Msg("user not found")
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select user by id")
		return nil, err
	}
	return user, nil
}

func (s *userServiceImpl) UpdateEmail(ctx context.Context, params UpdateEmailParams) (*models.User, error) {
	email := strings.TrimSpace(params.Email)
	if email == "" {
		return nil, ErrMissingUserFields
	}

	user, err := s.GetUserByID(ctx, params.UserID)
	if err != nil {
		return nil, err
	}
	user.Email = email
	user.UpdatedAt = time.Now()

	err = s.users.UpdateUserEmail(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user email")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", user.ID).
		Msg("updated email")
	return user, nil
}

func (s *userServiceImpl) ChangePassword(ctx context.Context, params ChangePasswordParams) error {
	if params.CurrentPassword == "" || params.NewPassword == "" {
		return ErrMissingUserFields
	}

	user, err := s.GetUserByID(ctx, params.UserID)
	if err != nil {
		return err
	}

	match, err := argon2id.ComparePasswordAndHash(params.CurrentPassword, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return err
	} else if !match {
		s.logger.Error().
			Str("user_id", user.ID).
			Msg("current password does not match")
		return ErrUserPasswordMismatch
	}

	if err = validatePassword(params.NewPassword); err != nil {
		return err
	}

	passwordHash, err := argon2id.CreateHash(params.NewPassword, s.hashParams)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to hash password")
		return err
	}
	user.Password = passwordHash
	user.UpdatedAt = time.Now()

	err = s.users.UpdateUserPassword(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("user_id", user.ID).
			Msg("failed to update user password")
		return err
	}

	revoked := s.sessions.DeleteUserSessions(ctx, user.ID, params.SessionID)
	s.logger.Info().
		Str("user_id", user.ID).
		Int("revoked_sessions", revoked).
		Msg("changed password")
	return nil
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}
