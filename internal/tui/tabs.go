package tui

import (
	"fmt"
	"strings"

	"github.com/tildaslashalef/pullwatch/internal/commitlog"
	"github.com/tildaslashalef/pullwatch/internal/diff"
	"github.com/tildaslashalef/pullwatch/internal/runner"
	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

// Section is one collapsible region of a view: a file within a diff, a
// commit within a log. Collapsing is pure view state and never touches
// the underlying outcome.
type Section struct {
	Title     string
	Collapsed bool
	Lines     []string
}

// ViewState is one materialized view buffer: an ordered list of sections
// plus the focused section index
type ViewState struct {
	Sections []*Section
	Current  int
}

// LineCount returns the number of rendered lines with current collapse state
func (v *ViewState) LineCount() int {
	n := 0
	for _, s := range v.Sections {
		n++
		if !s.Collapsed {
			n += len(s.Lines)
		}
	}
	return n
}

// TabState is the display record for one repository. One TabState exists
// per configured repository for the lifetime of the run; tabs may be
// hidden but never destroyed mid-run.
type TabState struct {
	Name    string
	Status  TabStatus
	Outcome *runner.Outcome

	// views are materialized lazily, the first time each becomes visible,
	// so diff rendering cost is only paid for tabs the user opens
	views  map[ViewID]*ViewState
	active ViewID
}

// ActiveView returns the tab's currently selected view id
func (t *TabState) ActiveView() ViewID { return t.active }

// HasChanges reports whether the tab has diff/commit content worth viewing
func (t *TabState) HasChanges() bool {
	return t.Outcome != nil && t.Outcome.Class == runner.ClassUpdated && !t.Outcome.Range.IsZero()
}

// Registry maintains the repository-name → TabState mapping and the
// stable tab order. All mutation happens on the UI loop.
type Registry struct {
	order             []string
	tabs              map[string]*TabState
	collapseThreshold int
	hideUnchanged     bool
}

// NewRegistry creates one pending tab per descriptor, preserving the
// configured order
func NewRegistry(descriptors []vcs.Descriptor, collapseThreshold int) *Registry {
	r := &Registry{
		tabs:              make(map[string]*TabState, len(descriptors)),
		collapseThreshold: collapseThreshold,
	}
	for _, d := range descriptors {
		r.order = append(r.order, d.Name)
		r.tabs[d.Name] = &TabState{
			Name:   d.Name,
			Status: TabPending,
			views:  make(map[ViewID]*ViewState),
			active: ViewUpdate,
		}
	}
	return r
}

// Len returns the number of configured tabs
func (r *Registry) Len() int { return len(r.order) }

// Get returns the tab for a repository name
func (r *Registry) Get(name string) (*TabState, bool) {
	t, ok := r.tabs[name]
	return t, ok
}

// At returns the tab at a position in configured order
func (r *Registry) At(idx int) *TabState {
	if idx < 0 || idx >= len(r.order) {
		return nil
	}
	return r.tabs[r.order[idx]]
}

// Index returns the position of a repository name in configured order
func (r *Registry) Index(name string) int {
	for i, n := range r.order {
		if n == name {
			return i
		}
	}
	return -1
}

// SetHideUnchanged toggles hiding of up-to-date tabs
func (r *Registry) SetHideUnchanged(hide bool) { r.hideUnchanged = hide }

// HideUnchanged reports the current hide toggle
func (r *Registry) HideUnchanged() bool { return r.hideUnchanged }

// Visible returns the tab indices currently shown, honoring the
// hide-unchanged toggle. Hidden tabs keep their state.
func (r *Registry) Visible() []int {
	var idxs []int
	for i, name := range r.order {
		t := r.tabs[name]
		if r.hideUnchanged && t.Status == TabDone && !t.HasChanges() {
			continue
		}
		idxs = append(idxs, i)
	}
	return idxs
}

// Started marks a repository's job as running
func (r *Registry) Started(name string) {
	if t, ok := r.tabs[name]; ok && t.Status == TabPending {
		t.Status = TabRunning
	}
}

// Finish records a job's terminal outcome and drops any stale view
// buffers so they rebuild from the outcome on next visit
func (r *Registry) Finish(out *runner.Outcome) {
	t, ok := r.tabs[out.Descriptor.Name]
	if !ok {
		return
	}
	t.Outcome = out
	t.views = make(map[ViewID]*ViewState)
	if out.Failedish() || out.Class == runner.ClassCancelled {
		t.Status = TabError
	} else {
		t.Status = TabDone
	}
}

// View returns the materialized view buffer for a tab, building it on
// first access
func (r *Registry) View(t *TabState, id ViewID) *ViewState {
	if v, ok := t.views[id]; ok {
		return v
	}
	v := r.buildView(t, id)
	t.views[id] = v
	return v
}

// MaterializedViews returns the view ids already built for a tab, in
// display order. Search indexes only these.
func (r *Registry) MaterializedViews(t *TabState) []ViewID {
	var ids []ViewID
	for _, id := range viewOrder {
		if _, ok := t.views[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// buildView renders one view from the tab's outcome
func (r *Registry) buildView(t *TabState, id ViewID) *ViewState {
	out := t.Outcome
	if out == nil {
		return singleSection("waiting", []string{"Sync has not finished yet."})
	}

	switch id {
	case ViewUpdate:
		return singleSection("sync output", splitLines(out.RawOutput))

	case ViewDiff:
		if msg, blocked := r.noChangeNotice(out); blocked {
			return singleSection("diff", []string{msg})
		}
		return r.diffSections(out.Diff)

	case ViewCommits:
		if msg, blocked := r.noChangeNotice(out); blocked {
			return singleSection("commits", []string{msg})
		}
		return r.commitSections(out.Commits, false)

	case ViewCommitsDiff:
		if msg, blocked := r.noChangeNotice(out); blocked {
			return singleSection("commits + patch", []string{msg})
		}
		return r.commitSections(out.Commits, true)
	}

	return singleSection(string(id), nil)
}

// noChangeNotice explains why a change view has no content for outcomes
// other than a clean update
func (r *Registry) noChangeNotice(out *runner.Outcome) (string, bool) {
	switch out.Class {
	case runner.ClassUpToDate:
		return "Nothing new.", true
	case runner.ClassConflict:
		return "Sync hit a conflict; see the update view for the raw output.", true
	case runner.ClassFailed:
		return "Sync failed; see the update view for the raw output.", true
	case runner.ClassCancelled:
		return "Sync was cancelled before completing.", true
	}
	if out.Range.IsZero() {
		return "No commit range could be resolved from the sync output.", true
	}
	return "", false
}

// diffSections builds one collapsible section per changed file. Files
// above the hunk threshold start collapsed.
func (r *Registry) diffSections(files []diff.FileChange) *ViewState {
	if len(files) == 0 {
		return singleSection("diff", []string{"No file changes."})
	}
	v := &ViewState{}
	for i := range files {
		f := &files[i]
		v.Sections = append(v.Sections, &Section{
			Title:     fileTitle(f),
			Collapsed: len(f.Hunks) > r.collapseThreshold,
			Lines:     fileLines(f),
		})
	}
	return v
}

// commitSections builds one collapsible section per commit, oldest first
func (r *Registry) commitSections(commits []commitlog.Commit, withPatch bool) *ViewState {
	if len(commits) == 0 {
		return singleSection("commits", []string{"No commits parsed."})
	}
	v := &ViewState{}
	for i := range commits {
		c := &commits[i]
		title := c.Oneline()
		if c.Truncated {
			title += "  [could not fully parse]"
		}

		var lines []string
		if c.Author != "" {
			lines = append(lines, "Author: "+c.Author)
		}
		if c.Date != "" {
			lines = append(lines, "Date:   "+c.Date)
		}
		if c.Body != "" {
			lines = append(lines, "")
			lines = append(lines, splitLines(c.Body)...)
		}
		if withPatch {
			for j := range c.Files {
				f := &c.Files[j]
				lines = append(lines, "", fileTitle(f))
				lines = append(lines, fileLines(f)...)
			}
		}
		v.Sections = append(v.Sections, &Section{Title: title, Lines: lines})
	}
	return v
}

// fileTitle renders a file section header the way the operator expects:
// a change marker, the path, and the add/remove tally
func fileTitle(f *diff.FileChange) string {
	var marker, path string
	switch f.Kind {
	case diff.KindAdded:
		marker, path = "+", f.Path
	case diff.KindDeleted:
		marker, path = "-", f.OldPath
	case diff.KindRenamed:
		marker, path = "→", f.OldPath+" -> "+f.Path
	default:
		marker, path = "~", f.Path
	}
	title := marker + " " + path
	if f.Language != "" {
		title += " (" + f.Language + ")"
	}
	if f.Binary {
		return title + " [binary]"
	}
	title += fmt.Sprintf("  +%d -%d", f.Added(), f.Removed())
	if f.Truncated {
		title += "  [could not fully parse]"
	}
	return title
}

// fileLines flattens a file's hunks into display lines
func fileLines(f *diff.FileChange) []string {
	if f.Binary {
		return []string{"Binary file differs."}
	}
	var lines []string
	for _, h := range f.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		if h.Header != "" {
			header += " " + h.Header
		}
		lines = append(lines, header)
		for _, l := range h.Lines {
			lines = append(lines, string(byte(l.Marker))+l.Text)
		}
	}
	return lines
}

func singleSection(title string, lines []string) *ViewState {
	return &ViewState{Sections: []*Section{{Title: title, Lines: lines}}}
}

func splitLines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
