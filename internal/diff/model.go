// Package diff parses and re-serializes unified diff text produced by the
// VCS binaries. Parsing is per-file recoverable: one malformed section
// degrades that file only, never the whole diff.
package diff

// ChangeKind represents the type of change to a file
type ChangeKind string

const (
	// KindAdded represents a file that was added
	KindAdded ChangeKind = "added"
	// KindDeleted represents a file that was deleted
	KindDeleted ChangeKind = "deleted"
	// KindModified represents a file that was modified
	KindModified ChangeKind = "modified"
	// KindRenamed represents a file that was renamed
	KindRenamed ChangeKind = "renamed"
)

// LineMarker classifies one line within a hunk
type LineMarker byte

const (
	// MarkerContext is an unchanged line
	MarkerContext LineMarker = ' '
	// MarkerAdd is an added line
	MarkerAdd LineMarker = '+'
	// MarkerRemove is a removed line
	MarkerRemove LineMarker = '-'
)

// Line is one line of a hunk
type Line struct {
	Marker LineMarker `json:"marker"`
	Text   string     `json:"text"`
}

// Hunk is one contiguous change region within a file
type Hunk struct {
	OldStart int    `json:"old_start"`
	OldLines int    `json:"old_lines"`
	NewStart int    `json:"new_start"`
	NewLines int    `json:"new_lines"`
	Header   string `json:"header,omitempty"` // trailing section context after @@
	Lines    []Line `json:"lines"`
}

// FileChange is one file's worth of a parsed diff. Hunks are ordered by
// OldStart and never overlap.
type FileChange struct {
	Path     string     `json:"path"`
	OldPath  string     `json:"old_path,omitempty"` // differs from Path for renames
	Kind     ChangeKind `json:"kind"`
	Binary   bool       `json:"binary,omitempty"`
	Language string     `json:"language,omitempty"`
	// Truncated marks a file whose hunks could not all be parsed; the
	// hunks that did parse are kept
	Truncated bool   `json:"truncated,omitempty"`
	Hunks     []Hunk `json:"hunks"`
}

// Added returns the number of added lines across all hunks
func (f *FileChange) Added() int {
	return f.countMarker(MarkerAdd)
}

// Removed returns the number of removed lines across all hunks
func (f *FileChange) Removed() int {
	return f.countMarker(MarkerRemove)
}

func (f *FileChange) countMarker(m LineMarker) int {
	n := 0
	for _, h := range f.Hunks {
		for _, l := range h.Lines {
			if l.Marker == m {
				n++
			}
		}
	}
	return n
}
