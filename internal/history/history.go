// Package history keeps bounded undo/redo snapshots of a document's item
// collection. Snapshots are deep copies with selection stripped, so stepping
// through history always restores a deselected document and never aliases
// live editor state.
package history

import "github.com/example/snapmark/internal/item"

// Limit is the number of undo snapshots retained. Committing past it evicts
// the oldest entry.
const Limit = 20

type snapshot []item.Item

// capture deep-copies items with the transient selection flag cleared.
func capture(items []item.Item) snapshot {
	out := make(snapshot, len(items))
	for i, it := range items {
		c := it.Clone()
		c.Base().Selected = false
		out[i] = c
	}
	return out
}

// restore hands out fresh copies so callers can mutate freely without
// touching the retained snapshot.
func (s snapshot) restore() []item.Item {
	out := make([]item.Item, len(s))
	for i, it := range s {
		out[i] = it.Clone()
	}
	return out
}

// History is a linear undo/redo stack pair. The bottom undo entry is the
// session baseline; Undo never pops past it. History is single-owner and not
// safe for concurrent use.
type History struct {
	undo []snapshot
	redo []snapshot
}

// New creates a history whose baseline is the given collection, normally the
// empty document an editing session starts with.
func New(baseline []item.Item) *History {
	return &History{undo: []snapshot{capture(baseline)}}
}

// Commit records items as the new current state. Any redo states are
// invalidated and the oldest snapshot is evicted once the limit is exceeded.
func (h *History) Commit(items []item.Item) {
	h.undo = append(h.undo, capture(items))
	if len(h.undo) > Limit {
		h.undo = append(h.undo[:0:0], h.undo[1:]...)
	}
	h.redo = nil
}

// Undo steps back one snapshot and returns the restored collection. At the
// baseline it reports false and changes nothing.
func (h *History) Undo() ([]item.Item, bool) {
	if !h.CanUndo() {
		return nil, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)
	return h.undo[len(h.undo)-1].restore(), true
}

// Redo reapplies the most recently undone snapshot. With nothing to redo it
// reports false and changes nothing.
func (h *History) Redo() ([]item.Item, bool) {
	if !h.CanRedo() {
		return nil, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)
	return top.restore(), true
}

// CanUndo reports whether a state older than the current one is retained.
func (h *History) CanUndo() bool { return len(h.undo) > 1 }

// CanRedo reports whether any undone state can be reapplied.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Depth returns the number of retained undo snapshots, baseline included.
func (h *History) Depth() int { return len(h.undo) }
