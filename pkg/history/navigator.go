package history

// Navigator implements the replay contract the input line follows when
// walking the ring with the arrow keys. Index -1 means not browsing; the
// first step toward older entries snapshots the in-progress edit, and
// stepping back past the most recent entry restores it. Navigation never
// mutates the ring.
type Navigator struct {
	entries []string
	index   int
	draft   string
}

// NewNavigator creates a navigator over a snapshot of the ring's entries.
func NewNavigator(entries []string) *Navigator {
	return &Navigator{entries: entries, index: -1}
}

// Reset replaces the entries and leaves browsing mode, discarding any
// snapshotted draft.
func (n *Navigator) Reset(entries []string) {
	n.entries = entries
	n.index = -1
	n.draft = ""
}

// Index returns the current browse position, -1 when not browsing.
func (n *Navigator) Index() int { return n.index }

// Browsing reports whether an entry is currently replacing the draft.
func (n *Navigator) Browsing() bool { return n.index >= 0 }

// Older steps toward older entries. current is the edit buffer, which is
// snapshotted on the first step. The returned text replaces the edit
// buffer; ok is false when there is nothing older.
func (n *Navigator) Older(current string) (text string, ok bool) {
	if len(n.entries) == 0 {
		return current, false
	}
	if n.index == -1 {
		n.draft = current
		n.index = 0
		return n.entries[0], true
	}
	if n.index >= len(n.entries)-1 {
		return current, false
	}
	n.index++
	return n.entries[n.index], true
}

// Newer steps toward newer entries. Crossing below the most recent entry
// restores the snapshotted draft and leaves browsing mode; ok is false
// when not browsing at all.
func (n *Navigator) Newer() (text string, ok bool) {
	if n.index == -1 {
		return "", false
	}
	n.index--
	if n.index < 0 {
		n.index = -1
		return n.draft, true
	}
	return n.entries[n.index], true
}
