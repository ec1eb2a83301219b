package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/go-tasklist/internal/models"
	"github.com/adanyl0v/go-tasklist/internal/tasklist"
)

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrTooManySessions    = errors.New("too many open sessions")
	ErrPassphraseMismatch = errors.New("passphrase mismatch")
	ErrDeleteNotConfirmed = errors.New("delete not confirmed")

	ErrUserNotFound         = errors.New("user not found")
	ErrUserPasswordMismatch = errors.New("user password mismatch")
	ErrUsernameTaken        = errors.New("username already exists")
	ErrEmailTaken           = errors.New("email address already registered")
	ErrMissingUserFields    = errors.New("all fields are required")
	ErrPasswordTooShort     = fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
)

const MinPasswordLength = 6

type AuthService interface {
	// Login opens a new task list session.
	//
	// With a username the session belongs to that account and
	// ErrUserNotFound or ErrUserPasswordMismatch is returned on bad
	// credentials. Without one a guest session is opened: when a
	// passphrase hash is configured the given passphrase must match
	// it, otherwise ErrPassphraseMismatch is returned.
	// The access token expires together with the session.
	Login(ctx context.Context, params LoginParams) (*LoginResult, error)

	// Logout ends the session and drops its task list.
	Logout(ctx context.Context, sessionID string) error

	// ParseJWTToken parses the given JWT token and returns the registered
	// claims or jwt.ErrTokenExpired if the token is expired.
	ParseJWTToken(token string) (*jwt.RegisteredClaims, error)
}

type SessionService interface {
	// CreateSession opens a session for userID, or a guest session
	// when userID is empty. Expired sessions are pruned first and
	// ErrTooManySessions is returned when the cap is still reached.
	CreateSession(ctx context.Context, userID string) (*models.Session, error)

	// GetSessionByID returns ErrSessionNotFound for unknown ids and
	// ErrSessionExpired for sessions past their TTL. Expired sessions
	// are dropped on first access.
	GetSessionByID(ctx context.Context, sessionID string) (*models.Session, error)

	DeleteSession(ctx context.Context, sessionID string) error

	// DeleteUserSessions drops every session of the user except
	// keepSessionID and returns how many were dropped.
	DeleteUserSessions(ctx context.Context, userID, keepSessionID string) int

	// WithStore runs fn with exclusive access to the session's store.
	// Errors returned by fn are passed through unchanged.
	WithStore(ctx context.Context, sessionID string, fn func(store *tasklist.Store) error) error

	// PruneExpired drops every expired session and returns how many were dropped.
	PruneExpired(ctx context.Context) int
}

type UserService interface {
	// Register returns ErrMissingUserFields, ErrPasswordTooShort,
	// ErrUsernameTaken or ErrEmailTaken when the account is refused.
	Register(ctx context.Context, params RegisterParams) (*models.User, error)

	GetUserByID(ctx context.Context, userID string) (*models.User, error)

	// UpdateEmail returns ErrEmailTaken when another account
	// already uses the address.
	UpdateEmail(ctx context.Context, params UpdateEmailParams) (*models.User, error)

	// ChangePassword verifies the current password, stores the new
	// one and ends every other session of the user.
	ChangePassword(ctx context.Context, params ChangePasswordParams) error
}

type TaskService interface {
	GetView(ctx context.Context, sessionID string) (*View, error)

	// CreateTask returns a *tasklist.ValidationError for blank text.
	CreateTask(ctx context.Context, params CreateTaskParams) (*View, error)

	ToggleTask(ctx context.Context, params TaskParams) (*View, error)

	// DeleteTask returns ErrDeleteNotConfirmed unless the user
	// confirmed the deletion. Unknown tasks are ignored.
	DeleteTask(ctx context.Context, params DeleteTaskParams) (*View, error)

	BeginEdit(ctx context.Context, params TaskParams) (*View, error)
	CancelEdit(ctx context.Context, sessionID string) (*View, error)

	// CommitEdit returns a *tasklist.ValidationError for blank text
	// and keeps the task in edit mode.
	CommitEdit(ctx context.Context, params CommitEditParams) (*View, error)

	SetFilter(ctx context.Context, params SetFilterParams) (*View, error)
}

// EventRecorder receives every store event of every session. It is
// called with the session locked, so it must return quickly and must
// not fail the mutation that produced the event.
type EventRecorder interface {
	Record(sessionID string, ev tasklist.Event)
}

type SessionParams struct {
	TTL         time.Duration
	IDGenerator string
	// Zero means unlimited.
	MaxSessions int
	Recorder    EventRecorder
	Clock       tasklist.Clock
}

type LoginParams struct {
	Username   string
	Password   string
	Passphrase string
}

type LoginResult struct {
	UserID               string
	SessionID            string
	AccessToken          string
	AccessTokenExpiresAt time.Time
}

type RegisterParams struct {
	Username string
	Email    string
	Password string
}

type UpdateEmailParams struct {
	UserID string
	Email  string
}

type ChangePasswordParams struct {
	UserID          string
	SessionID       string
	CurrentPassword string
	NewPassword     string
}

type CreateTaskParams struct {
	SessionID string
	Text      string
}

type TaskParams struct {
	SessionID string
	TaskID    string
}

type DeleteTaskParams struct {
	SessionID string
	TaskID    string
	Confirmed bool
}

type CommitEditParams struct {
	SessionID string
	TaskID    string
	Text      string
}

type SetFilterParams struct {
	SessionID string
	Filter    models.Filter
}

// View is everything a client needs to redraw the task list.
type View struct {
	Filter     models.Filter
	EditingID  string
	Editing    bool
	Stats      models.Stats
	Tasks      []TaskView
	EmptyState *models.EmptyState
}

type TaskView struct {
	models.Task
	CreatedAtText   string
	CompletedAtText string
}
