package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tildaslashalef/pullwatch/internal/runner"
	"github.com/tildaslashalef/pullwatch/internal/vcs"
)

func TestBuildIndexCoversMaterializedViewsOnly(t *testing.T) {
	r := NewRegistry(testDescriptors("alpha", "bravo"), 10)
	a, _ := r.Get("alpha")
	r.Finish(updatedOutcome("alpha", 1))
	r.Finish(&runner.Outcome{
		Descriptor: vcs.Descriptor{Name: "bravo"},
		Class:      runner.ClassUpToDate,
		RawOutput:  "Already up to date.",
	})

	// Only alpha's diff view has been visited
	r.View(a, ViewDiff)

	idx := BuildIndex(r)
	hits := idx.Query("file.go")
	require.NotEmpty(t, hits)
	for _, h := range hits {
		assert.Equal(t, 0, h.TabIndex)
		assert.Equal(t, ViewDiff, h.View)
	}

	assert.Empty(t, idx.Query("Already up to date"), "unvisited views are not indexed")
}

func TestQueryCaseInsensitive(t *testing.T) {
	r := NewRegistry(testDescriptors("alpha"), 10)
	a, _ := r.Get("alpha")
	r.Finish(updatedOutcome("alpha", 1))
	r.View(a, ViewDiff)

	idx := BuildIndex(r)
	assert.NotEmpty(t, idx.Query("FILE.GO"))
	assert.NotEmpty(t, idx.Query("file"))
	assert.Empty(t, idx.Query("zzz-no-such-text"))
}

func TestQueryEmptyTermMatchesNothing(t *testing.T) {
	r := NewRegistry(testDescriptors("alpha"), 10)
	a, _ := r.Get("alpha")
	r.Finish(updatedOutcome("alpha", 1))
	r.View(a, ViewDiff)

	idx := BuildIndex(r)
	assert.Positive(t, idx.Len())
	assert.Empty(t, idx.Query(""))
	assert.Empty(t, idx.Query("   "))
}

func TestBuildIndexSkipsHiddenTabs(t *testing.T) {
	r := NewRegistry(testDescriptors("alpha", "bravo"), 10)
	a, _ := r.Get("alpha")
	b, _ := r.Get("bravo")

	r.Finish(updatedOutcome("alpha", 1))
	r.Finish(&runner.Outcome{
		Descriptor: vcs.Descriptor{Name: "bravo"},
		Class:      runner.ClassUpToDate,
		RawOutput:  "Already up to date.",
	})
	r.View(a, ViewDiff)
	r.View(b, ViewUpdate)

	r.SetHideUnchanged(true)
	idx := BuildIndex(r)
	assert.Empty(t, idx.Query("Already up to date"), "hidden tab content is not searchable")
	assert.NotEmpty(t, idx.Query("file.go"))
}

func TestCandidateTitlesAreIndexed(t *testing.T) {
	r := NewRegistry(testDescriptors("alpha"), 10)
	a, _ := r.Get("alpha")
	r.Finish(updatedOutcome("alpha", 1))
	r.View(a, ViewDiff)

	idx := BuildIndex(r)
	hits := idx.Query("~ file.go")
	require.NotEmpty(t, hits)
	assert.Equal(t, -1, hits[0].LineIndex, "section titles index with LineIndex -1")
}
