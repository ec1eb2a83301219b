package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/repository"
)

type authServiceImpl struct {
	logger         zerolog.Logger
	sessions       SessionService
	users          repository.UserRepository
	passphraseHash string
	jwtIssuer      string
	jwtSigningKey  []byte
}

func NewAuthService(
	logger zerolog.Logger,
	sessions SessionService,
	users repository.UserRepository,
	passphraseHash string,
	jwtIssuer string,
	jwtSigningKey []byte,
) AuthService {
	return &authServiceImpl{
		logger:         logger,
		sessions:       sessions,
		users:          users,
		passphraseHash: passphraseHash,
		jwtIssuer:      jwtIssuer,
		jwtSigningKey:  jwtSigningKey,
	}
}

func (s *authServiceImpl) Login(ctx context.Context, params LoginParams) (*LoginResult, error) {
	var (
		userID string
		err    error
	)
	if params.Username != "" {
		userID, err = s.authenticateUser(ctx, params.Username, params.Password)
	} else {
		err = s.checkPassphrase(params.Passphrase)
	}
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.CreateSession(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to create session")
		return nil, err
	}

	accessToken, err := s.generateAccessToken(session.ID, session.ExpiresAt)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate access token")
		_ = s.sessions.DeleteSession(ctx, session.ID)
		return nil, err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("session_id", session.ID).
		Msg("logged in")
	return &LoginResult{
		UserID:               userID,
		SessionID:            session.ID,
		AccessToken:          accessToken,
		AccessTokenExpiresAt: session.ExpiresAt,
	}, nil
}

func (s *authServiceImpl) authenticateUser(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.logger.Error().
				Str("username", username).
				Msg("user not found")
			return "", ErrUserNotFound
		}

		s.logger.Error().
			Err(err).
			Str("username", username).
			Msg("failed to select user by username")
		return "", err
	}
	s.logger.Debug().
		Str("user_id", user.ID).
		Str("username", user.Username).
		Msg("selected user")

	match, err := argon2id.ComparePasswordAndHash(password, user.Password)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare password")
		return "", err
	} else if !match {
		s.logger.Error().Msg("passwords do not match")
		return "", ErrUserPasswordMismatch
	}
	return user.ID, nil
}

func (s *authServiceImpl) checkPassphrase(passphrase string) error {
	if s.passphraseHash == "" {
		return nil
	}

	match, err := argon2id.ComparePasswordAndHash(passphrase, s.passphraseHash)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to compare passphrase")
		return err
	} else if !match {
		s.logger.Error().Msg("passphrases do not match")
		return ErrPassphraseMismatch
	}
	return nil
}

func (s *authServiceImpl) Logout(ctx context.Context, sessionID string) error {
	err := s.sessions.DeleteSession(ctx, sessionID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to delete session")
		return err
	}

	s.logger.Info().
		Str("session_id", sessionID).
		Msg("logged out")
	return nil
}

func (s *authServiceImpl) ParseJWTToken(token string) (*jwt.RegisteredClaims, error) {
	t, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.jwtSigningKey, nil
		},
		jwt.WithIssuer(s.jwtIssuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("token is expired: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := t.Claims.(*jwt.RegisteredClaims)
	if !ok {
		return nil, errors.New("failed to parse token claims")
	}
	return claims, nil
}

func (s *authServiceImpl) generateAccessToken(sessionID string, expiresAt time.Time) (string, error) {
	tokenUUID, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        tokenUUID.String(),
		Issuer:    s.jwtIssuer,
		Subject:   sessionID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	})

	signed, err := token.SignedString(s.jwtSigningKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
