package history

import "github.com/dshills/scribe/internal/marker"

// Snapshot is serialized editor content, possibly carrying selection markers.
type Snapshot string

// String returns the raw snapshot, markers included.
func (s Snapshot) String() string {
	return string(s)
}

// Content returns the snapshot with markers stripped.
func (s Snapshot) Content() string {
	return marker.Strip(string(s))
}

// HasMarkers reports whether the snapshot encodes a selection.
func (s Snapshot) HasMarkers() bool {
	return marker.Count(string(s)) > 0
}

// SameContent reports whether two snapshots differ only in their markers.
func (s Snapshot) SameContent(other Snapshot) bool {
	return s.Content() == other.Content()
}
