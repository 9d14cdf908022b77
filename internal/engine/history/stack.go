package history

import (
	"sync"
	"time"
)

// entry wraps a snapshot with metadata.
type entry struct {
	snapshot  Snapshot
	timestamp time.Time
}

// EntryInfo describes a history entry.
type EntryInfo struct {
	Snapshot  Snapshot
	Timestamp time.Time
	Current   bool
}

// History manages the undo stack for one editor.
type History struct {
	mu sync.Mutex

	entries  []entry
	position int

	// Grouping state. groupEntry is the index of the entry the current group
	// writes to, or -1 before the group's first push.
	grouping   bool
	groupName  string
	groupEntry int

	// Configuration
	maxEntries int
}

// NewHistory creates an empty history. maxEntries <= 0 means unbounded.
func NewHistory(maxEntries int) *History {
	if maxEntries < 0 {
		maxEntries = 0
	}
	return &History{
		maxEntries: maxEntries,
		groupEntry: -1,
	}
}

// Push appends a snapshot at the current position.
// Returns false, leaving the stack untouched, when the snapshot's content
// matches the current entry. Inside a group, a push that matches the entry
// before the group removes the group's entry and also returns false.
func (h *History) Push(s Snapshot) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) > 0 && h.entries[h.position].snapshot.SameContent(s) {
		return false
	}

	e := entry{snapshot: s, timestamp: time.Now()}

	if h.grouping && h.groupEntry >= 0 && h.groupEntry == h.position && h.position == len(h.entries)-1 {
		// A group that returns to the content before it leaves no entry.
		if h.position > 0 && h.entries[h.position-1].snapshot.SameContent(s) {
			h.entries = h.entries[:h.position]
			h.position--
			h.groupEntry = -1
			return false
		}
		h.entries[h.position] = e
		return true
	}

	if len(h.entries) > 0 {
		// Drop the redo branch
		h.entries = h.entries[:h.position+1]
	}
	h.entries = append(h.entries, e)
	h.position = len(h.entries) - 1

	if h.grouping {
		h.groupEntry = h.position
	}

	h.evictLocked()
	return true
}

// evictLocked enforces maxEntries by removing the oldest entries.
func (h *History) evictLocked() {
	if h.maxEntries <= 0 || len(h.entries) <= h.maxEntries {
		return
	}

	excess := len(h.entries) - h.maxEntries
	h.entries = append([]entry(nil), h.entries[excess:]...)
	h.position -= excess
	if h.position < 0 {
		h.position = 0
	}
	if h.groupEntry >= 0 {
		h.groupEntry -= excess
		if h.groupEntry < 0 {
			h.groupEntry = -1
		}
	}
}

// Undo moves the position back one entry and returns the snapshot now
// current. Returns false at the oldest entry.
func (h *History) Undo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 || h.position == 0 {
		return "", false
	}
	h.position--
	return h.entries[h.position].snapshot, true
}

// Redo moves the position forward one entry and returns the snapshot now
// current. Returns false at the newest entry.
func (h *History) Redo() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.position >= len(h.entries)-1 {
		return "", false
	}
	h.position++
	return h.entries[h.position].snapshot, true
}

// Current returns the snapshot at the current position.
func (h *History) Current() (Snapshot, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.entries) == 0 {
		return "", false
	}
	return h.entries[h.position].snapshot, true
}

// Position returns the index of the current entry.
func (h *History) Position() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// CanUndo returns true if undo is available.
func (h *History) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position > 0
}

// CanRedo returns true if redo is available.
func (h *History) CanRedo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position < len(h.entries)-1
}

// UndoCount returns the number of undo steps available.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

// RedoCount returns the number of redo steps available.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return 0
	}
	return len(h.entries) - 1 - h.position
}

// Entries returns the snapshots, oldest first.
func (h *History) Entries() []Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]Snapshot, len(h.entries))
	for i, e := range h.entries {
		result[i] = e.snapshot
	}
	return result
}

// Info returns metadata for every entry, oldest first.
func (h *History) Info() []EntryInfo {
	h.mu.Lock()
	defer h.mu.Unlock()

	result := make([]EntryInfo, len(h.entries))
	for i, e := range h.entries {
		result[i] = EntryInfo{
			Snapshot:  e.snapshot,
			Timestamp: e.timestamp,
			Current:   i == h.position,
		}
	}
	return result
}

// BeginGroup starts coalescing pushes into a single entry.
// Nested calls are ignored.
func (h *History) BeginGroup(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.grouping {
		return
	}
	h.grouping = true
	h.groupName = name
	h.groupEntry = -1
}

// EndGroup stops coalescing.
func (h *History) EndGroup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.grouping = false
	h.groupName = ""
	h.groupEntry = -1
}

// IsGrouping returns true if pushes are currently coalesced.
func (h *History) IsGrouping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grouping
}

// GroupName returns the name of the open group.
func (h *History) GroupName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.groupName
}

// Clear removes every entry.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = nil
	h.position = 0
	h.grouping = false
	h.groupName = ""
	h.groupEntry = -1
}

// SetMaxEntries changes the capacity. If the stack is larger, the oldest
// entries are removed. max <= 0 means unbounded.
func (h *History) SetMaxEntries(max int) {
	if max < 0 {
		max = 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.maxEntries = max
	h.evictLocked()
}

// MaxEntries returns the capacity, 0 meaning unbounded.
func (h *History) MaxEntries() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.maxEntries
}
