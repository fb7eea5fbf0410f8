package tui

import "strings"

// Candidate is one indexed line of visible tab content eligible to match
// a search term
type Candidate struct {
	TabIndex   int
	View       ViewID
	SectionIdx int
	LineIndex  int // index within the section's lines; -1 for the title
	Text       string
}

// Index is the flattened search space across all tabs. It is rebuilt on
// search-overlay entry rather than maintained live, so steady-state sync
// cost is independent of whether search is open.
type Index struct {
	candidates []Candidate
}

// BuildIndex flattens all materialized view content, ordered by tab order
// then view order then line order
func BuildIndex(r *Registry) *Index {
	idx := &Index{}
	for _, ti := range r.Visible() {
		t := r.At(ti)
		for _, id := range r.MaterializedViews(t) {
			v := r.View(t, id)
			for si, s := range v.Sections {
				idx.candidates = append(idx.candidates, Candidate{
					TabIndex: ti, View: id, SectionIdx: si, LineIndex: -1, Text: s.Title,
				})
				for li, line := range s.Lines {
					idx.candidates = append(idx.candidates, Candidate{
						TabIndex: ti, View: id, SectionIdx: si, LineIndex: li, Text: line,
					})
				}
			}
		}
	}
	return idx
}

// Query returns candidates whose text contains term, case-insensitively.
// An empty term matches nothing.
func (idx *Index) Query(term string) []Candidate {
	if strings.TrimSpace(term) == "" {
		return nil
	}
	needle := strings.ToLower(term)
	var hits []Candidate
	for _, c := range idx.candidates {
		if strings.Contains(strings.ToLower(c.Text), needle) {
			hits = append(hits, c)
		}
	}
	return hits
}

// Len returns the number of indexed candidates
func (idx *Index) Len() int { return len(idx.candidates) }
