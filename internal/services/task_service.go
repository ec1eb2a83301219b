package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-tasklist/internal/models"
	"github.com/adanyl0v/go-tasklist/internal/tasklist"
)

type taskServiceImpl struct {
	logger    zerolog.Logger
	sessions  SessionService
	formatter tasklist.Formatter
}

func NewTaskService(
	logger zerolog.Logger,
	sessions SessionService,
	formatter tasklist.Formatter,
) TaskService {
	return &taskServiceImpl{
		logger:    logger,
		sessions:  sessions,
		formatter: formatter,
	}
}

func (s *taskServiceImpl) GetView(ctx context.Context, sessionID string) (*View, error) {
	return s.apply(ctx, sessionID, "render tasks", func(*tasklist.Store) error {
		return nil
	})
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*View, error) {
	return s.apply(ctx, params.SessionID, "create task", func(store *tasklist.Store) error {
		task, err := store.Create(params.Text)
		if err != nil {
			return err
		}

		s.logger.Info().
			Str("session_id", params.SessionID).
			Str("task_id", task.ID).
			Msg("created task")
		return nil
	})
}

func (s *taskServiceImpl) ToggleTask(ctx context.Context, params TaskParams) (*View, error) {
	return s.apply(ctx, params.SessionID, "toggle task", func(store *tasklist.Store) error {
		task, found := store.Toggle(params.TaskID)
		if !found {
			s.logger.Warn().
				Str("session_id", params.SessionID).
				Str("task_id", params.TaskID).
				Msg("task not found")
			return nil
		}

		s.logger.Info().
			Str("session_id", params.SessionID).
			Str("task_id", task.ID).
			Bool("completed", task.Completed).
			Msg("toggled task")
		return nil
	})
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) (*View, error) {
	if !params.Confirmed {
		s.logger.Warn().
			Str("session_id", params.SessionID).
			Str("task_id", params.TaskID).
			Msg("delete not confirmed")
		return nil, ErrDeleteNotConfirmed
	}

	return s.apply(ctx, params.SessionID, "delete task", func(store *tasklist.Store) error {
		if !store.Delete(params.TaskID) {
			s.logger.Warn().
				Str("session_id", params.SessionID).
				Str("task_id", params.TaskID).
				Msg("task not found")
			return nil
		}

		s.logger.Info().
			Str("session_id", params.SessionID).
			Str("task_id", params.TaskID).
			Msg("deleted task")
		return nil
	})
}

func (s *taskServiceImpl) BeginEdit(ctx context.Context, params TaskParams) (*View, error) {
	return s.apply(ctx, params.SessionID, "begin edit", func(store *tasklist.Store) error {
		if !store.BeginEdit(params.TaskID) {
			s.logger.Warn().
				Str("session_id", params.SessionID).
				Str("task_id", params.TaskID).
				Msg("task not found")
		}
		return nil
	})
}

func (s *taskServiceImpl) CancelEdit(ctx context.Context, sessionID string) (*View, error) {
	return s.apply(ctx, sessionID, "cancel edit", func(store *tasklist.Store) error {
		store.CancelEdit()
		return nil
	})
}

func (s *taskServiceImpl) CommitEdit(ctx context.Context, params CommitEditParams) (*View, error) {
	return s.apply(ctx, params.SessionID, "commit edit", func(store *tasklist.Store) error {
		task, found, err := store.CommitEdit(params.TaskID, params.Text)
		if err != nil {
			return err
		}
		if !found {
			s.logger.Warn().
				Str("session_id", params.SessionID).
				Str("task_id", params.TaskID).
				Msg("task not found")
			return nil
		}

		s.logger.Info().
			Str("session_id", params.SessionID).
			Str("task_id", task.ID).
			Msg("updated task")
		return nil
	})
}

func (s *taskServiceImpl) SetFilter(ctx context.Context, params SetFilterParams) (*View, error) {
	return s.apply(ctx, params.SessionID, "set filter", func(store *tasklist.Store) error {
		return store.SetFilter(params.Filter)
	})
}

// apply runs op against the session store and renders the resulting
// state while still holding the store.
func (s *taskServiceImpl) apply(
	ctx context.Context,
	sessionID string,
	action string,
	op func(store *tasklist.Store) error,
) (*View, error) {
	var view *View
	err := s.sessions.WithStore(ctx, sessionID, func(store *tasklist.Store) error {
		err := op(store)
		if err != nil {
			return err
		}
		view = s.render(store)
		return nil
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("session_id", sessionID).
			Msg("failed to " + action)
		return nil, err
	}
	s.logger.Debug().
		Str("session_id", sessionID).
		Int("visible", len(view.Tasks)).
		Msg(action)

	return view, nil
}

func (s *taskServiceImpl) render(store *tasklist.Store) *View {
	editingID, editing := store.EditingID()
	tasks := store.FilteredTasks()

	view := &View{
		Filter:    store.Filter(),
		EditingID: editingID,
		Editing:   editing,
		Stats:     store.Stats(),
		Tasks:     make([]TaskView, len(tasks)),
	}
	for i, task := range tasks {
		view.Tasks[i] = s.renderTask(task)
	}
	if len(tasks) == 0 {
		emptyState := models.EmptyStateFor(view.Filter)
		view.EmptyState = &emptyState
	}
	return view
}

func (s *taskServiceImpl) renderTask(task models.Task) TaskView {
	tv := TaskView{
		Task:          task,
		CreatedAtText: s.formatter.Format(task.CreatedAt),
	}
	if task.CompletedAt != nil {
		tv.CompletedAtText = s.formatter.Format(*task.CompletedAt)
	}
	return tv
}
