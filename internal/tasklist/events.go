package tasklist

import "time"

type EventKind string

const (
	EventTaskCreated   EventKind = "task_created"
	EventTaskToggled   EventKind = "task_toggled"
	EventTaskDeleted   EventKind = "task_deleted"
	EventEditStarted   EventKind = "edit_started"
	EventEditCancelled EventKind = "edit_cancelled"
	EventEditCommitted EventKind = "edit_committed"
	EventFilterChanged EventKind = "filter_changed"
)

// Event describes a completed mutation. TaskID is empty for
// filter changes and for cancelling an edit.
type Event struct {
	Kind   EventKind
	TaskID string
	At     time.Time
}

// Observer is notified synchronously after every mutation,
// once the store state is already updated.
type Observer interface {
	Notify(ev Event)
}

type ObserverFunc func(ev Event)

func (f ObserverFunc) Notify(ev Event) {
	f(ev)
}
