package console

// Undo retains the id set of the most recent successful soft delete and
// offers a one-click compensating restore over exactly that set. Each new
// soft delete replaces the set wholesale; it is cleared by a successful
// restore or an explicit dismissal, never by time.
type Undo struct {
	lastTrashed []int64
}

func NewUndo() *Undo {
	return &Undo{}
}

// Replace installs the id set of a fresh soft delete, discarding whatever
// was retained before.
func (u *Undo) Replace(ids []int64) {
	u.lastTrashed = append([]int64(nil), ids...)
}

// IDs returns the retained set.
func (u *Undo) IDs() []int64 {
	return append([]int64(nil), u.lastTrashed...)
}

func (u *Undo) Available() bool { return len(u.lastTrashed) > 0 }

// Clear drops the retained set (successful restore or dismissal).
func (u *Undo) Clear() {
	u.lastTrashed = nil
}

// RestoreConfirm builds the compensating restore over exactly the retained
// set. It carries no prompt requirement: undoing a trash action is itself
// the confirmation.
func (u *Undo) RestoreConfirm() (Confirm, bool) {
	if len(u.lastTrashed) == 0 {
		return Confirm{}, false
	}
	return Confirm{
		Action: ActionRestore,
		IDs:    append([]int64(nil), u.lastTrashed...),
		Label:  "last trashed articles",
	}, true
}
