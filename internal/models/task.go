package models

import "time"

type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterPending, FilterCompleted:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          string
	Text        string
	Completed   bool
	CreatedAt   time.Time
	CompletedAt *time.Time
}

type Stats struct {
	Total     int
	Pending   int
	Completed int
}

// EmptyState is the notice shown when a filtered view has no tasks.
type EmptyState struct {
	Message  string
	Subtitle string
}

func EmptyStateFor(f Filter) EmptyState {
	switch f {
	case FilterPending:
		return EmptyState{
			Message:  "No pending tasks!",
			Subtitle: "Great job! All tasks completed.",
		}
	case FilterCompleted:
		return EmptyState{
			Message:  "No completed tasks yet!",
			Subtitle: "Complete some tasks to see them here.",
		}
	default:
		return EmptyState{
			Message:  "No tasks yet!",
			Subtitle: "Add your first task to get started.",
		}
	}
}
