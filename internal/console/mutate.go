package console

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/manolydidier/bibliotheque-console/pkg/models"
)

// Action names a destructive operation routed through the engine.
type Action string

const (
	ActionTrash   Action = "trash"   // soft delete, reversible
	ActionDelete  Action = "delete"  // permanent
	ActionRestore Action = "restore" // bring back from trash
)

// Confirm is the confirmation payload every destructive action carries:
// the target ids plus a human-readable label for the prompt and the
// notification. Buttons and drop targets both produce one of these; there
// is no second mutation path.
type Confirm struct {
	Action Action
	IDs    []int64
	Label  string
}

// NeedsPrompt reports whether the action requires an explicit confirmation
// step. Only the undo coordinator's compensating restore skips it.
func (c Confirm) NeedsPrompt() bool {
	return c.Action != ActionRestore
}

// Remote is the slice of the API the engine needs. *api.Client satisfies it.
type Remote interface {
	SoftDeleteArticle(ctx context.Context, id int64) error
	HardDeleteArticle(ctx context.Context, id int64) error
	RestoreArticle(ctx context.Context, id int64) error
}

// Outcome aggregates a fan-out: every call is attempted, nothing
// short-circuits, and partial failure is reported as succeeded/total.
type Outcome struct {
	Action       Action
	Total        int
	SucceededIDs []int64
	FailedIDs    []int64
	Errs         []error
}

func (o *Outcome) Succeeded() int { return len(o.SucceededIDs) }

// Err returns the first remote error, for single-item notifications.
func (o *Outcome) Err() error {
	if len(o.Errs) == 0 {
		return nil
	}
	return o.Errs[0]
}

// snapshot is the exact pre-mutation state the rollback reapplies. It is a
// full copy, not a recipe for a heuristic inverse.
type snapshot struct {
	items      []models.Article
	meta       models.Meta
	trashCount int64
}

// Pending is a mutation whose optimistic change is already applied and
// whose remote calls have not settled yet.
type Pending struct {
	Confirm Confirm
	snap    snapshot
}

// Mutator is the one engine behind every destructive action: it applies
// the optimistic local change, fans out the remote calls, and either keeps
// the change or compensates with the saved snapshot.
type Mutator struct {
	remote Remote
	store  *Store
	undo   *Undo
	log    zerolog.Logger
}

func NewMutator(remote Remote, store *Store, undo *Undo, log zerolog.Logger) *Mutator {
	return &Mutator{remote: remote, store: store, undo: undo, log: log}
}

// Apply performs the optimistic update on the UI loop and hands back the
// pending mutation. Rows for the target ids leave the visible page at once
// and the trash counter moves; the remote calls run afterwards via Execute.
func (m *Mutator) Apply(c Confirm) *Pending {
	p := &Pending{
		Confirm: c,
		snap: snapshot{
			items:      append([]models.Article(nil), m.store.items...),
			meta:       m.store.meta,
			trashCount: m.store.trashCount,
		},
	}

	m.store.items = withoutIDs(m.store.items, c.IDs)
	removed := int64(len(p.snap.items) - len(m.store.items))
	m.store.meta.Total -= removed
	if m.store.meta.Total < 0 {
		m.store.meta.Total = 0
	}
	m.store.AdjustTrashCount(m.trashDelta(c, p.snap.items))

	m.log.Debug().Str("action", string(c.Action)).Ints64("ids", c.IDs).
		Msg("applied optimistic mutation")
	return p
}

// Execute runs the remote calls for a pending mutation. Bulk targets fan
// out concurrently, one call per id, and every call is attempted whatever
// the others do.
func (m *Mutator) Execute(ctx context.Context, p *Pending) *Outcome {
	c := p.Confirm
	errs := make([]error, len(c.IDs))

	var wg sync.WaitGroup
	for i, id := range c.IDs {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			errs[i] = m.call(ctx, c.Action, id)
		}(i, id)
	}
	wg.Wait()

	out := &Outcome{Action: c.Action, Total: len(c.IDs)}
	for i, id := range c.IDs {
		if errs[i] != nil {
			out.FailedIDs = append(out.FailedIDs, id)
			out.Errs = append(out.Errs, errs[i])
			continue
		}
		out.SucceededIDs = append(out.SucceededIDs, id)
	}
	return out
}

// Settle reconciles the optimistic state with the remote outcome, back on
// the UI loop. Failed ids get their rows back in their original positions;
// a fully successful soft delete replaces the undo set.
func (m *Mutator) Settle(p *Pending, out *Outcome) {
	if len(out.FailedIDs) > 0 {
		// Rebuild from the snapshot so failed rows come back exactly
		// where they were; only confirmed removals stay gone.
		m.store.items = withoutIDs(p.snap.items, out.SucceededIDs)
		removed := int64(len(p.snap.items) - len(m.store.items))
		m.store.meta = p.snap.meta
		m.store.meta.Total -= removed
		if m.store.meta.Total < 0 {
			m.store.meta.Total = 0
		}
		failed := Confirm{Action: p.Confirm.Action, IDs: out.FailedIDs}
		m.store.trashCount = p.snap.trashCount + m.trashDelta(p.Confirm, p.snap.items) - m.trashDelta(failed, p.snap.items)
		if m.store.trashCount < 0 {
			m.store.trashCount = 0
		}
		m.log.Warn().Str("action", string(p.Confirm.Action)).
			Int("succeeded", out.Succeeded()).Int("total", out.Total).
			Err(out.Err()).Msg("mutation partially failed, compensated")
	} else {
		m.log.Info().Str("action", string(p.Confirm.Action)).
			Int("count", out.Total).Msg("mutation settled")
	}

	m.store.ClearSelection()

	switch p.Confirm.Action {
	case ActionTrash:
		if len(out.SucceededIDs) > 0 {
			m.undo.Replace(out.SucceededIDs)
		}
	case ActionRestore:
		if len(out.SucceededIDs) > 0 {
			m.undo.Clear()
		}
	}
}

func (m *Mutator) call(ctx context.Context, action Action, id int64) error {
	switch action {
	case ActionTrash:
		return m.remote.SoftDeleteArticle(ctx, id)
	case ActionDelete:
		return m.remote.HardDeleteArticle(ctx, id)
	case ActionRestore:
		return m.remote.RestoreArticle(ctx, id)
	}
	return nil
}

// trashDelta computes how the visible trash counter moves for the given
// ids: trashing adds, restoring subtracts, permanently deleting an already
// trashed record subtracts.
func (m *Mutator) trashDelta(c Confirm, prior []models.Article) int64 {
	switch c.Action {
	case ActionTrash:
		return int64(len(c.IDs))
	case ActionRestore:
		return -int64(len(c.IDs))
	case ActionDelete:
		var trashed int64
		for _, id := range c.IDs {
			for i := range prior {
				if prior[i].ID == id && prior[i].Trashed() {
					trashed++
					break
				}
			}
		}
		return -trashed
	}
	return 0
}

func withoutIDs(items []models.Article, ids []int64) []models.Article {
	drop := make(map[int64]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := make([]models.Article, 0, len(items))
	for _, it := range items {
		if !drop[it.ID] {
			kept = append(kept, it)
		}
	}
	return kept
}
