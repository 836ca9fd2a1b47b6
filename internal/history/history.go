// Package history keeps a linear undo/redo history of point-set snapshots.
package history

import "pose-editor/internal/pose"

// History is an ordered list of PointSet snapshots plus a cursor.
//
// Invariant: 0 <= index < len(snapshots) and len(snapshots) >= 1.
// Snapshots are cloned on the way in and out.
type History struct {
	snapshots []pose.PointSet
	index     int
	limit     int
}

// New creates a history whose only entry is initial. A positive limit caps
// the number of retained snapshots; older entries are dropped first.
func New(initial pose.PointSet, limit int) *History {
	if limit < 0 {
		limit = 0
	}
	return &History{
		snapshots: []pose.PointSet{initial.Clone()},
		limit:     limit,
	}
}

// Commit discards any redo entries, appends ps and makes it current.
func (h *History) Commit(ps pose.PointSet) {
	h.snapshots = append(h.snapshots[:h.index+1], ps.Clone())
	h.index = len(h.snapshots) - 1

	if h.limit > 0 && len(h.snapshots) > h.limit {
		drop := len(h.snapshots) - h.limit
		h.snapshots = append([]pose.PointSet(nil), h.snapshots[drop:]...)
		h.index -= drop
	}
}

// Undo steps back one entry. At the oldest entry it is a no-op and
// returns the current snapshot with false.
func (h *History) Undo() (pose.PointSet, bool) {
	if h.index == 0 {
		return h.Current(), false
	}
	h.index--
	return h.Current(), true
}

// Redo steps forward one entry. At the newest entry it is a no-op and
// returns the current snapshot with false.
func (h *History) Redo() (pose.PointSet, bool) {
	if h.index >= len(h.snapshots)-1 {
		return h.Current(), false
	}
	h.index++
	return h.Current(), true
}

// Reset commits original as a new entry, so the reset itself can be undone.
func (h *History) Reset(original pose.PointSet) {
	h.Commit(original)
}

// Current returns the snapshot at the cursor.
func (h *History) Current() pose.PointSet {
	return h.snapshots[h.index].Clone()
}

// Len returns the number of snapshots.
func (h *History) Len() int {
	return len(h.snapshots)
}

// Index returns the cursor position.
func (h *History) Index() int {
	return h.index
}

// CanUndo reports whether Undo would move the cursor.
func (h *History) CanUndo() bool {
	return h.index > 0
}

// CanRedo reports whether Redo would move the cursor.
func (h *History) CanRedo() bool {
	return h.index < len(h.snapshots)-1
}
