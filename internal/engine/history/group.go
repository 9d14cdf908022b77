package history

// GroupScope provides a convenient way to group pushes using defer.
// Usage:
//
//	func applyBatch(h *History) {
//	    defer h.GroupScope("Paste").End()
//	    // ... several transactions ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Grouped runs fn with pushes coalesced into one entry.
func (h *History) Grouped(name string, fn func() error) error {
	h.BeginGroup(name)
	defer h.EndGroup()
	return fn()
}
