// Package journal appends task list events to Postgres.
//
// The journal is an audit trail only. Task lists are never
// rebuilt from it. Events are queued by Record and written by a
// single goroutine, so a slow database never holds up a session.
package journal

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/tasklist"
)

var (
	ErrTableMissing   = errors.New("journal table missing")
	ErrDuplicateEvent = errors.New("duplicate journal event")
)

const createTableQuery = `
CREATE TABLE IF NOT EXISTS task_events (
    id          uuid PRIMARY KEY,
    session_id  text        NOT NULL,
    kind        text        NOT NULL,
    task_id     text,
    occurred_at timestamptz NOT NULL
)
`

// Execer is the part of *pgxpool.Pool the journal needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ Execer = (*pgxpool.Pool)(nil)

type entry struct {
	sessionID string
	event     tasklist.Event
}

type Journal struct {
	logger       zerolog.Logger
	db           Execer
	writeTimeout time.Duration

	queue     chan entry
	quit      chan struct{}
	done      chan struct{}
	startOnce sync.Once
	closeOnce sync.Once
	dropped   atomic.Int64
}

// New returns a journal buffering up to queueSize events.
// Nothing is written until Start is called.
func New(logger zerolog.Logger, db Execer, writeTimeout time.Duration, queueSize int) *Journal {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Journal{
		logger:       logger,
		db:           db,
		writeTimeout: writeTimeout,
		queue:        make(chan entry, queueSize),
		quit:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Start launches the writer goroutine. Calling it again has no effect.
func (j *Journal) Start() {
	j.startOnce.Do(func() {
		go j.run()
		j.logger.Debug().
			Int("queue_size", cap(j.queue)).
			Msg("started journal writer")
	})
}

// Close stops the writer after it has flushed the queued events, or
// when ctx is done, whichever comes first. Close must only be called
// after Start.
func (j *Journal) Close(ctx context.Context) error {
	j.closeOnce.Do(func() {
		close(j.quit)
	})

	select {
	case <-j.done:
		j.logger.Info().
			Int64("dropped", j.dropped.Load()).
			Msg("stopped journal writer")
		return nil
	case <-ctx.Done():
		j.logger.Error().
			Int("pending", len(j.queue)).
			Msg("journal writer did not stop in time")
		return ctx.Err()
	}
}

// Dropped returns how many events were discarded on a full queue.
func (j *Journal) Dropped() int64 {
	return j.dropped.Load()
}

func (j *Journal) run() {
	defer close(j.done)

	for {
		select {
		case e := <-j.queue:
			j.write(e)
		case <-j.quit:
			for {
				select {
				case e := <-j.queue:
					j.write(e)
				default:
					return
				}
			}
		}
	}
}

func (j *Journal) write(e entry) {
	ctx, cancel := context.WithTimeout(context.Background(), j.writeTimeout)
	defer cancel()

	err := j.Append(ctx, e.sessionID, e.event)
	if err != nil {
		j.logger.Error().
			Err(err).
			Str("session_id", e.sessionID).
			Str("kind", string(e.event.Kind)).
			Msg("failed to record event")
	}
}

func (j *Journal) EnsureSchema(ctx context.Context) error {
	_, err := j.db.Exec(ctx, createTableQuery)
	if err != nil {
		j.logger.Error().
			Err(err).
			Msg("failed to create journal table")
		return err
	}
	j.logger.Debug().Msg("ensured journal table")
	return nil
}

// Record queues ev for the session and returns at once. When the
// queue is full the event is dropped and logged. Write failures are
// logged by the writer.
func (j *Journal) Record(sessionID string, ev tasklist.Event) {
	select {
	case j.queue <- entry{sessionID: sessionID, event: ev}:
	default:
		dropped := j.dropped.Add(1)
		j.logger.Warn().
			Str("session_id", sessionID).
			Str("kind", string(ev.Kind)).
			Int64("dropped", dropped).
			Msg("journal queue full, dropped event")
	}
}

func (j *Journal) Append(ctx context.Context, sessionID string, ev tasklist.Event) error {
	eventUUID, err := uuid.NewV7()
	if err != nil {
		return err
	}

	const insertEventQuery = `
INSERT INTO task_events (id,
                         session_id,
                         kind,
                         task_id,
                         occurred_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = j.db.Exec(
		ctx,
		insertEventQuery,
		eventUUID.String(),
		sessionID,
		string(ev.Kind),
		nullableTaskID(ev.TaskID),
		ev.At,
	)
	if err != nil {
		return classify(err)
	}
	j.logger.Debug().
		Str("event_id", eventUUID.String()).
		Str("session_id", sessionID).
		Str("kind", string(ev.Kind)).
		Msg("inserted event")
	return nil
}

func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UndefinedTable:
			return errors.Join(ErrTableMissing, err)
		case pgerrcode.UniqueViolation:
			return errors.Join(ErrDuplicateEvent, err)
		}
	}
	return err
}

func nullableTaskID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
