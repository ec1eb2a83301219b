// Package tasklist holds the in-memory task list of a single session
// together with its view filter and edit slot.
//
// A Store is not safe for concurrent use. Callers serialize access,
// the same way UI event callbacks run one after another.
package tasklist

import (
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/models"
)

type Clock func() time.Time

type Store struct {
	logger zerolog.Logger
	ids    IDGenerator
	now    Clock

	// Most recent first.
	tasks     []*models.Task
	filter    models.Filter
	editingID string
	editing   bool

	observers []Observer
}

// New returns an empty store showing all tasks. A nil ids falls back
// to a counter generator, a nil now to time.Now.
func New(logger zerolog.Logger, ids IDGenerator, now Clock) *Store {
	if ids == nil {
		ids = NewCounterGenerator()
	}
	if now == nil {
		now = time.Now
	}
	return &Store{
		logger: logger,
		ids:    ids,
		now:    now,
		filter: models.FilterAll,
	}
}

func (s *Store) Subscribe(o Observer) {
	if o == nil {
		return
	}
	s.observers = append(s.observers, o)
}

// Create prepends a new pending task.
func (s *Store) Create(text string) (models.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn().Msg("refused to create task with empty text")
		return models.Task{}, newEmptyTextError()
	}

	id := s.ids.NewID()
	for s.indexOf(id) >= 0 {
		id = s.ids.NewID()
	}

	task := &models.Task{
		ID:        id,
		Text:      text,
		Completed: false,
		CreatedAt: s.now(),
	}
	s.tasks = append([]*models.Task{task}, s.tasks...)
	s.logger.Debug().
		Str("task_id", task.ID).
		Int("total", len(s.tasks)).
		Msg("created task")

	s.notify(EventTaskCreated, task.ID)
	return cloneTask(task), nil
}

// Toggle flips the completion state. It reports false when no task has the id.
func (s *Store) Toggle(id string) (models.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("toggle target not found")
		return models.Task{}, false
	}

	task := s.tasks[i]
	task.Completed = !task.Completed
	if task.Completed {
		completedAt := s.now()
		task.CompletedAt = &completedAt
	} else {
		task.CompletedAt = nil
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Bool("completed", task.Completed).
		Msg("toggled task")

	s.notify(EventTaskToggled, task.ID)
	return cloneTask(task), true
}

// Delete removes a task the user already confirmed deleting.
func (s *Store) Delete(id string) bool {
	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("delete target not found")
		return false
	}

	s.tasks = slices.Delete(s.tasks, i, i+1)
	if s.editing && s.editingID == id {
		s.editing = false
		s.editingID = ""
	}
	s.logger.Debug().
		Str("task_id", id).
		Int("total", len(s.tasks)).
		Msg("deleted task")

	s.notify(EventTaskDeleted, id)
	return true
}

// BeginEdit puts the task into edit mode, replacing any other task being
// edited. Unknown ids leave the edit slot untouched.
func (s *Store) BeginEdit(id string) bool {
	if s.indexOf(id) < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("edit target not found")
		return false
	}

	s.editingID = id
	s.editing = true
	s.notify(EventEditStarted, id)
	return true
}

func (s *Store) CancelEdit() {
	s.editingID = ""
	s.editing = false
	s.notify(EventEditCancelled, "")
}

// CommitEdit replaces the text of the task and leaves edit mode. On a
// validation error the text and the edit slot are kept. An unknown id
// still leaves edit mode.
func (s *Store) CommitEdit(id, text string) (models.Task, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		s.logger.Warn().
			Str("task_id", id).
			Msg("refused to save task with empty text")
		return models.Task{}, false, newEmptyTextError()
	}

	s.editingID = ""
	s.editing = false

	i := s.indexOf(id)
	if i < 0 {
		s.logger.Debug().
			Str("task_id", id).
			Msg("edit target not found")
		s.notify(EventEditCancelled, "")
		return models.Task{}, false, nil
	}

	task := s.tasks[i]
	task.Text = text
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("saved task text")

	s.notify(EventEditCommitted, task.ID)
	return cloneTask(task), true, nil
}

func (s *Store) SetFilter(f models.Filter) error {
	if !f.Valid() {
		s.logger.Warn().
			Str("filter", string(f)).
			Msg("refused unknown filter")
		return &ValidationError{
			Field:  "filter",
			Reason: "must be one of all, pending, completed",
		}
	}

	s.filter = f
	s.notify(EventFilterChanged, "")
	return nil
}

func (s *Store) Filter() models.Filter {
	return s.filter
}

// EditingID returns the id of the task in edit mode, if any.
func (s *Store) EditingID() (string, bool) {
	return s.editingID, s.editing
}

// FilteredTasks returns the tasks matching the current filter in list order.
func (s *Store) FilteredTasks() []models.Task {
	out := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if matches(s.filter, task) {
			out = append(out, cloneTask(task))
		}
	}
	return out
}

func (s *Store) Tasks() []models.Task {
	out := make([]models.Task, len(s.tasks))
	for i, task := range s.tasks {
		out[i] = cloneTask(task)
	}
	return out
}

func (s *Store) Get(id string) (models.Task, bool) {
	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, false
	}
	return cloneTask(s.tasks[i]), true
}

// Stats counts the whole list regardless of the current filter.
func (s *Store) Stats() models.Stats {
	stats := models.Stats{Total: len(s.tasks)}
	for _, task := range s.tasks {
		if task.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	return stats
}

func (s *Store) indexOf(id string) int {
	for i, task := range s.tasks {
		if task.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) notify(kind EventKind, taskID string) {
	ev := Event{
		Kind:   kind,
		TaskID: taskID,
		At:     s.now(),
	}
	for _, o := range s.observers {
		o.Notify(ev)
	}
}

func matches(f models.Filter, task *models.Task) bool {
	switch f {
	case models.FilterPending:
		return !task.Completed
	case models.FilterCompleted:
		return task.Completed
	default:
		return true
	}
}

func cloneTask(task *models.Task) models.Task {
	out := *task
	if task.CompletedAt != nil {
		completedAt := *task.CompletedAt
		out.CompletedAt = &completedAt
	}
	return out
}
