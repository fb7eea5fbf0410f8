package commitlog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoCommitLog = `commit deadbeefcafe1234deadbeefcafe1234deadbeef
Author: Alex Doe <alex@example.com>
Date:   Mon Aug 24 10:00:00 2026 +0200

    Add retry support

    Retries are bounded to three attempts so a dead upstream
    fails fast.

commit 0123456789abcdef0123456789abcdef01234567
Author: Sam Roe <sam@example.com>
Date:   Sun Aug 23 09:00:00 2026 +0200

    Fix typo in usage text
`

func TestParseOrdersOldestFirst(t *testing.T) {
	commits := Parse(twoCommitLog, false)
	require.Len(t, commits, 2)

	// git prints newest first; the parsed slice reads forward in time
	assert.Equal(t, "Fix typo in usage text", commits[0].Subject)
	assert.Equal(t, "Add retry support", commits[1].Subject)
}

func TestParseHeadersAndBody(t *testing.T) {
	commits := Parse(twoCommitLog, false)
	require.Len(t, commits, 2)

	c := commits[1]
	assert.Equal(t, "deadbeefcafe1234deadbeefcafe1234deadbeef", c.Hash)
	assert.Equal(t, "deadbeef", c.ShortHash())
	assert.Equal(t, "Alex Doe <alex@example.com>", c.Author)
	assert.Equal(t, "Mon Aug 24 10:00:00 2026 +0200", c.Date)
	assert.Equal(t, "Add retry support", c.Subject)
	assert.Contains(t, c.Body, "bounded to three attempts")
	assert.Equal(t, "deadbeef Add retry support", c.Oneline())
}

func TestParseWithPatch(t *testing.T) {
	text := `commit deadbeefcafe1234deadbeefcafe1234deadbeef
Author: Alex Doe <alex@example.com>
Date:   Mon Aug 24 10:00:00 2026 +0200

    Tweak config default

diff --git a/config.toml b/config.toml
index 1a2b3c4..5d6e7f8 100644
--- a/config.toml
+++ b/config.toml
@@ -1,1 +1,1 @@
-timeout = 5
+timeout = 10
`
	commits := Parse(text, true)
	require.Len(t, commits, 1)
	require.Len(t, commits[0].Files, 1)
	assert.Equal(t, "config.toml", commits[0].Files[0].Path)
	assert.Equal(t, 1, commits[0].Files[0].Added())
	assert.False(t, commits[0].Truncated)
}

func TestParseWithoutDiffSkipsPatchSegment(t *testing.T) {
	text := `commit deadbeefcafe1234deadbeefcafe1234deadbeef
Author: Alex Doe <alex@example.com>
Date:   Mon Aug 24 10:00:00 2026 +0200

    Tweak config default

diff --git a/config.toml b/config.toml
--- a/config.toml
+++ b/config.toml
@@ -1,1 +1,1 @@
-timeout = 5
+timeout = 10
`
	commits := Parse(text, false)
	require.Len(t, commits, 1)
	assert.Empty(t, commits[0].Files)
	assert.NotNil(t, commits[0].Files)
}

func TestParseTruncatedPatchMarksCommit(t *testing.T) {
	text := `commit deadbeefcafe1234deadbeefcafe1234deadbeef
Author: Alex Doe <alex@example.com>
Date:   Mon Aug 24 10:00:00 2026 +0200

    Half a patch

diff --git a/big.go b/big.go
--- a/big.go
+++ b/big.go
@@ -1,50 +1,50 @@
 only one line survived
`
	commits := Parse(text, true)
	require.Len(t, commits, 1)
	assert.True(t, commits[0].Truncated)
	assert.Equal(t, "Half a patch", commits[0].Subject)
}

func TestParseMergeCommitWithoutPatch(t *testing.T) {
	text := `commit deadbeefcafe1234deadbeefcafe1234deadbeef
Merge: 1a2b3c4 5d6e7f8
Author: Alex Doe <alex@example.com>
Date:   Mon Aug 24 10:00:00 2026 +0200

    Merge branch 'feature'
`
	commits := Parse(text, true)
	require.Len(t, commits, 1)
	assert.Equal(t, "Merge branch 'feature'", commits[0].Subject)
	assert.Empty(t, commits[0].Files)
}

const twoChangesetLog = `changeset:   11:4be2d9f7a0c1
user:        Alex Doe <alex@example.com>
date:        Sun Aug 23 09:00:00 2026 +0200
summary:     Fix typo in usage text

changeset:   12:a1c8e0b2ff00
tag:         tip
user:        Sam Roe <sam@example.com>
date:        Mon Aug 24 10:00:00 2026 +0200
summary:     Add retry support
`

func TestParseChangesetRecords(t *testing.T) {
	commits := Parse(twoChangesetLog, false)
	require.Len(t, commits, 2)

	// hg lists an ascending range oldest first already; no reversal
	c := commits[0]
	assert.Equal(t, "4be2d9f7a0c1", c.Hash)
	assert.Equal(t, "4be2d9f7", c.ShortHash())
	assert.Equal(t, "Alex Doe <alex@example.com>", c.Author)
	assert.Equal(t, "Sun Aug 23 09:00:00 2026 +0200", c.Date)
	assert.Equal(t, "Fix typo in usage text", c.Subject)

	assert.Equal(t, "Add retry support", commits[1].Subject)
	assert.Equal(t, "a1c8e0b2ff00", commits[1].Hash)
}

func TestParseChangesetWithPatch(t *testing.T) {
	text := `changeset:   12:a1c8e0b2ff00
user:        Sam Roe <sam@example.com>
date:        Mon Aug 24 10:00:00 2026 +0200
summary:     Tweak config default

diff --git a/config.toml b/config.toml
--- a/config.toml
+++ b/config.toml
@@ -1,1 +1,1 @@
-timeout = 5
+timeout = 10
`
	commits := Parse(text, true)
	require.Len(t, commits, 1)
	assert.Equal(t, "Tweak config default", commits[0].Subject)
	require.Len(t, commits[0].Files, 1)
	assert.Equal(t, "config.toml", commits[0].Files[0].Path)
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse("", true))
	assert.Empty(t, Parse("\n  \n", false))
}

func TestShortHashOnShortInput(t *testing.T) {
	c := Commit{Hash: "abc"}
	assert.Equal(t, "abc", c.ShortHash())
}
