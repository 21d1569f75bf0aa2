package console

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// fakeRemote records calls and fails the ids it is told to fail.
type fakeRemote struct {
	mu    sync.Mutex
	calls map[Action][]int64
	fail  map[int64]error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		calls: make(map[Action][]int64),
		fail:  make(map[int64]error),
	}
}

func (f *fakeRemote) record(action Action, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[action] = append(f.calls[action], id)
	return f.fail[id]
}

func (f *fakeRemote) SoftDeleteArticle(_ context.Context, id int64) error {
	return f.record(ActionTrash, id)
}

func (f *fakeRemote) HardDeleteArticle(_ context.Context, id int64) error {
	return f.record(ActionDelete, id)
}

func (f *fakeRemote) RestoreArticle(_ context.Context, id int64) error {
	return f.record(ActionRestore, id)
}

func (f *fakeRemote) callCount(action Action) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls[action])
}

func setupMutator(t *testing.T, ids ...int64) (*Mutator, *Store, *Undo, *fakeRemote) {
	t.Helper()
	store := NewStore(models.DefaultQuery())
	require.True(t, store.ApplyPage(store.NextFetch(), pageOf(ids...)))
	undo := NewUndo()
	remote := newFakeRemote()
	return NewMutator(remote, store, undo, zerolog.Nop()), store, undo, remote
}

func itemIDs(items []models.Article) []int64 {
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func TestTrashThenUndoRestoresExactSet(t *testing.T) {
	m, store, undo, remote := setupMutator(t, 1, 2, 3)

	p := m.Apply(Confirm{Action: ActionTrash, IDs: []int64{2}})
	assert.Equal(t, []int64{1, 3}, itemIDs(store.Items()))

	out := m.Execute(context.Background(), p)
	m.Settle(p, out)

	require.True(t, undo.Available())
	c, ok := undo.RestoreConfirm()
	require.True(t, ok)
	assert.Equal(t, ActionRestore, c.Action)
	assert.Equal(t, []int64{2}, c.IDs)
	assert.False(t, c.NeedsPrompt(), "compensating restore must not re-prompt")

	// Later trashes replace the set wholesale, never merge into it.
	p2 := m.Apply(Confirm{Action: ActionTrash, IDs: []int64{1}})
	m.Settle(p2, m.Execute(context.Background(), p2))
	assert.Equal(t, []int64{1}, undo.IDs())

	p3 := m.Apply(c)
	m.Settle(p3, m.Execute(context.Background(), p3))
	assert.False(t, undo.Available(), "successful restore clears the undo set")
	assert.Equal(t, []int64{2}, remote.calls[ActionRestore])
}

func TestBulkPartialFailureCompensates(t *testing.T) {
	m, store, undo, remote := setupMutator(t, 1, 2, 3)
	remote.fail[2] = errors.New("locked by another editor")

	p := m.Apply(Confirm{Action: ActionTrash, IDs: []int64{1, 2, 3}})
	assert.Empty(t, store.Items(), "optimistic removal clears all targets")

	out := m.Execute(context.Background(), p)
	assert.Equal(t, 2, out.Succeeded())
	assert.Equal(t, 3, out.Total)
	assert.Equal(t, []int64{2}, out.FailedIDs)
	assert.Equal(t, 3, remote.callCount(ActionTrash), "every call attempted, no short-circuit")

	m.Settle(p, out)

	// The failed row returns in its original position; the confirmed
	// removals stay gone.
	assert.Equal(t, []int64{2}, itemIDs(store.Items()))
	assert.Equal(t, int64(1), store.Meta().Total)
	assert.Equal(t, int64(2), store.TrashCount())
	assert.Equal(t, []int64{1, 3}, undo.IDs(), "undo covers only confirmed removals")
}

func TestTotalFailureRollsBackExactly(t *testing.T) {
	m, store, undo, remote := setupMutator(t, 4, 5)
	remote.fail[4] = errors.New("boom")
	remote.fail[5] = errors.New("boom")

	before := append([]models.Article(nil), store.Items()...)
	meta := store.Meta()

	p := m.Apply(Confirm{Action: ActionTrash, IDs: []int64{4, 5}})
	out := m.Execute(context.Background(), p)
	m.Settle(p, out)

	assert.Equal(t, before, store.Items())
	assert.Equal(t, meta, store.Meta())
	assert.Equal(t, int64(0), store.TrashCount())
	assert.False(t, undo.Available(), "nothing succeeded, nothing to undo")
}

func TestHardDeleteTrashedAdjustsTrashCount(t *testing.T) {
	store := NewStore(models.DefaultQuery())
	now := time.Now()
	page := pageOf(7, 8)
	page.Items[0].DeletedAt = &now
	require.True(t, store.ApplyPage(store.NextFetch(), page))
	store.SetTrashCount(5)

	m := NewMutator(newFakeRemote(), store, NewUndo(), zerolog.Nop())
	p := m.Apply(Confirm{Action: ActionDelete, IDs: []int64{7, 8}})
	m.Settle(p, m.Execute(context.Background(), p))

	// Only the already-trashed record moves the counter.
	assert.Equal(t, int64(4), store.TrashCount())
	assert.Empty(t, store.Items())
}

func TestSettleClearsSelection(t *testing.T) {
	m, store, _, _ := setupMutator(t, 1, 2)
	store.ToggleSelect(1)
	store.ToggleSelect(2)

	p := m.Apply(Confirm{Action: ActionTrash, IDs: []int64{1, 2}})
	m.Settle(p, m.Execute(context.Background(), p))

	assert.Empty(t, store.SelectedIDs())
}

func TestNeedsPrompt(t *testing.T) {
	assert.True(t, Confirm{Action: ActionTrash}.NeedsPrompt())
	assert.True(t, Confirm{Action: ActionDelete}.NeedsPrompt())
	assert.False(t, Confirm{Action: ActionRestore}.NeedsPrompt())
}
