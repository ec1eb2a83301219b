package tasklist

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adanyl0v/go-tasklist/internal/models"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestStore(t *testing.T) (*Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)}
	return New(zerolog.Nop(), NewCounterGenerator(), clock.Now), clock
}

func TestStore_NewIsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	assert.Empty(t, store.Tasks())
	assert.Equal(t, models.FilterAll, store.Filter())
	_, editing := store.EditingID()
	assert.False(t, editing)
	assert.Equal(t, models.Stats{}, store.Stats())
}

func TestStore_CreateRejectsBlankText(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Create("existing")
	require.NoError(t, err)

	for _, text := range []string{"", " ", "\t\n  "} {
		_, err := store.Create(text)
		require.Error(t, err)
		assert.True(t, IsValidationError(err))
	}
	assert.Len(t, store.Tasks(), 1)
}

func TestStore_CreatePrependsPendingTask(t *testing.T) {
	store, clock := newTestStore(t)
	_, err := store.Create("Walk dog")
	require.NoError(t, err)

	task, err := store.Create("  Buy milk  ")
	require.NoError(t, err)

	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, task, tasks[0])
	assert.Equal(t, "Buy milk", tasks[0].Text)
	assert.False(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].CompletedAt)
	assert.Equal(t, clock.Now(), tasks[0].CreatedAt)
	assert.Equal(t, "Walk dog", tasks[1].Text)
}

func TestStore_ToggleSetsAndClearsCompletedAt(t *testing.T) {
	store, clock := newTestStore(t)
	task, err := store.Create("Buy milk")
	require.NoError(t, err)

	clock.Advance(time.Hour)
	toggled, found := store.Toggle(task.ID)
	require.True(t, found)
	assert.True(t, toggled.Completed)
	require.NotNil(t, toggled.CompletedAt)
	assert.Equal(t, clock.Now(), *toggled.CompletedAt)
	assert.Equal(t, task.CreatedAt, toggled.CreatedAt)

	toggled, found = store.Toggle(task.ID)
	require.True(t, found)
	assert.False(t, toggled.Completed)
	assert.Nil(t, toggled.CompletedAt)
}

func TestStore_ToggleUnknownIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	_, err := store.Create("Buy milk")
	require.NoError(t, err)
	before := store.Tasks()

	_, found := store.Toggle("missing")
	assert.False(t, found)
	assert.Equal(t, before, store.Tasks())
}

func TestStore_ReturnedTasksAreCopies(t *testing.T) {
	store, _ := newTestStore(t)
	task, err := store.Create("Buy milk")
	require.NoError(t, err)
	toggled, _ := store.Toggle(task.ID)

	*toggled.CompletedAt = time.Time{}
	toggled.Text = "changed"

	got, found := store.Get(task.ID)
	require.True(t, found)
	assert.Equal(t, "Buy milk", got.Text)
	assert.False(t, got.CompletedAt.IsZero())
}

func TestStore_Delete(t *testing.T) {
	store, _ := newTestStore(t)
	a, _ := store.Create("a")
	b, _ := store.Create("b")
	c, _ := store.Create("c")

	assert.True(t, store.Delete(b.ID))

	tasks := store.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, c.ID, tasks[0].ID)
	assert.Equal(t, a.ID, tasks[1].ID)
}

func TestStore_DeleteUnknownIsNoop(t *testing.T) {
	store, _ := newTestStore(t)
	_, _ = store.Create("a")
	before := store.Tasks()

	assert.False(t, store.Delete("missing"))
	assert.False(t, store.Delete("missing"))
	assert.Equal(t, before, store.Tasks())
}

func TestStore_DeleteClearsEditSlotOfDeletedTask(t *testing.T) {
	store, _ := newTestStore(t)
	a, _ := store.Create("a")
	b, _ := store.Create("b")

	require.True(t, store.BeginEdit(a.ID))
	store.Delete(b.ID)
	id, editing := store.EditingID()
	assert.True(t, editing)
	assert.Equal(t, a.ID, id)

	store.Delete(a.ID)
	_, editing = store.EditingID()
	assert.False(t, editing)
}

func TestStore_EditSlotHoldsOneTask(t *testing.T) {
	store, _ := newTestStore(t)
	a, _ := store.Create("a")
	b, _ := store.Create("b")

	require.True(t, store.BeginEdit(a.ID))
	require.True(t, store.BeginEdit(b.ID))
	id, editing := store.EditingID()
	assert.True(t, editing)
	assert.Equal(t, b.ID, id)

	store.CancelEdit()
	_, editing = store.EditingID()
	assert.False(t, editing)
}

func TestStore_BeginEditUnknownKeepsSlot(t *testing.T) {
	store, _ := newTestStore(t)
	a, _ := store.Create("a")
	require.True(t, store.BeginEdit(a.ID))

	assert.False(t, store.BeginEdit("missing"))
	id, editing := store.EditingID()
	assert.True(t, editing)
	assert.Equal(t, a.ID, id)
}

func TestStore_CommitEdit(t *testing.T) {
	store, _ := newTestStore(t)
	task, _ := store.Create("Buy milk")
	require.True(t, store.BeginEdit(task.ID))

	edited, found, err := store.CommitEdit(task.ID, "  Buy oat milk ")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Buy oat milk", edited.Text)
	assert.Equal(t, task.CreatedAt, edited.CreatedAt)

	_, editing := store.EditingID()
	assert.False(t, editing)
}

func TestStore_CommitEditRejectsBlankText(t *testing.T) {
	store, _ := newTestStore(t)
	task, _ := store.Create("Buy milk")
	require.True(t, store.BeginEdit(task.ID))

	_, _, err := store.CommitEdit(task.ID, "   ")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))

	got, _ := store.Get(task.ID)
	assert.Equal(t, "Buy milk", got.Text)
	id, editing := store.EditingID()
	assert.True(t, editing)
	assert.Equal(t, task.ID, id)
}

func TestStore_CommitEditUnknownClearsSlot(t *testing.T) {
	store, _ := newTestStore(t)
	task, _ := store.Create("Buy milk")
	require.True(t, store.BeginEdit(task.ID))

	_, found, err := store.CommitEdit("missing", "text")
	require.NoError(t, err)
	assert.False(t, found)

	_, editing := store.EditingID()
	assert.False(t, editing)
	got, _ := store.Get(task.ID)
	assert.Equal(t, "Buy milk", got.Text)
}

func TestStore_SetFilter(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.SetFilter(models.FilterCompleted))
	assert.Equal(t, models.FilterCompleted, store.Filter())

	err := store.SetFilter("archived")
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, models.FilterCompleted, store.Filter())
}

func TestStore_FilteredTasks(t *testing.T) {
	store, _ := newTestStore(t)
	a, _ := store.Create("a")
	b, _ := store.Create("b")
	c, _ := store.Create("c")
	d, _ := store.Create("d")
	store.Toggle(a.ID)
	store.Toggle(c.ID)

	ids := func(tasks []models.Task) []string {
		out := make([]string, len(tasks))
		for i, task := range tasks {
			out[i] = task.ID
		}
		return out
	}

	assert.Equal(t, []string{d.ID, c.ID, b.ID, a.ID}, ids(store.FilteredTasks()))

	require.NoError(t, store.SetFilter(models.FilterPending))
	pending := store.FilteredTasks()
	assert.Equal(t, []string{d.ID, b.ID}, ids(pending))
	for _, task := range pending {
		assert.False(t, task.Completed)
	}

	require.NoError(t, store.SetFilter(models.FilterCompleted))
	completed := store.FilteredTasks()
	assert.Equal(t, []string{c.ID, a.ID}, ids(completed))
	for _, task := range completed {
		assert.True(t, task.Completed)
	}

	assert.Len(t, store.Tasks(), 4)
}

func TestStore_StatsIgnoreFilter(t *testing.T) {
	store, _ := newTestStore(t)
	a, _ := store.Create("a")
	_, _ = store.Create("b")
	_, _ = store.Create("c")
	store.Toggle(a.ID)
	require.NoError(t, store.SetFilter(models.FilterCompleted))

	stats := store.Stats()
	assert.Equal(t, models.Stats{Total: 3, Pending: 2, Completed: 1}, stats)
	assert.Equal(t, stats.Total, stats.Pending+stats.Completed)
}

func TestStore_IDsStayUniqueAcrossMutations(t *testing.T) {
	store, _ := newTestStore(t)

	for i := 0; i < 50; i++ {
		task, err := store.Create("task")
		require.NoError(t, err)
		switch i % 3 {
		case 0:
			store.Toggle(task.ID)
		case 1:
			store.Delete(task.ID)
		}

		stats := store.Stats()
		assert.Equal(t, stats.Total, stats.Pending+stats.Completed)
	}

	seen := map[string]bool{}
	for _, task := range store.Tasks() {
		assert.False(t, seen[task.ID])
		seen[task.ID] = true
	}
}

type repeatingGenerator struct {
	ids []string
}

func (g *repeatingGenerator) NewID() string {
	id := g.ids[0]
	if len(g.ids) > 1 {
		g.ids = g.ids[1:]
	}
	return id
}

func TestStore_CreateSkipsCollidingIDs(t *testing.T) {
	gen := &repeatingGenerator{ids: []string{"x", "x", "x", "y"}}
	store := New(zerolog.Nop(), gen, nil)

	a, err := store.Create("a")
	require.NoError(t, err)
	b, err := store.Create("b")
	require.NoError(t, err)

	assert.Equal(t, "x", a.ID)
	assert.Equal(t, "y", b.ID)
}

func TestStore_NotifiesObservers(t *testing.T) {
	store, clock := newTestStore(t)

	var events []Event
	store.Subscribe(ObserverFunc(func(ev Event) {
		events = append(events, ev)
	}))
	store.Subscribe(nil)

	task, _ := store.Create("a")
	_, _ = store.Create("")
	store.Toggle(task.ID)
	store.Toggle("missing")
	store.BeginEdit(task.ID)
	_, _, _ = store.CommitEdit(task.ID, "b")
	store.BeginEdit(task.ID)
	store.CancelEdit()
	require.NoError(t, store.SetFilter(models.FilterPending))
	store.Delete(task.ID)
	store.Delete(task.ID)

	kinds := make([]EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
		assert.Equal(t, clock.Now(), ev.At)
	}
	assert.Equal(t, []EventKind{
		EventTaskCreated,
		EventTaskToggled,
		EventEditStarted,
		EventEditCommitted,
		EventEditStarted,
		EventEditCancelled,
		EventFilterChanged,
		EventTaskDeleted,
	}, kinds)
	assert.Equal(t, task.ID, events[0].TaskID)
	assert.Empty(t, events[6].TaskID)
}

func TestStore_ObserverSeesUpdatedState(t *testing.T) {
	store, _ := newTestStore(t)

	var total int
	store.Subscribe(ObserverFunc(func(Event) {
		total = store.Stats().Total
	}))

	_, _ = store.Create("a")
	assert.Equal(t, 1, total)
}

func TestStore_DeleteReleasesRemovedTask(t *testing.T) {
	store, _ := newTestStore(t)
	a, _ := store.Create("a")
	_, _ = store.Create("b")
	_, _ = store.Create("c")

	require.True(t, store.Delete(a.ID))

	backing := store.tasks[:cap(store.tasks)]
	for _, task := range backing[len(store.tasks):] {
		assert.Nil(t, task)
	}
}
