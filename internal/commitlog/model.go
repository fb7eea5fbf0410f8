// Package commitlog parses raw `git log` / `hg log -v` style output into
// structured commit records, optionally with each commit's patch.
package commitlog

import (
	"strings"

	"github.com/tildaslashalef/pullwatch/internal/diff"
)

// Commit is one parsed log record. Files is populated only when the log
// was fetched with patches; a merge commit keeps an empty Files.
type Commit struct {
	Hash    string `json:"hash"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Body    string `json:"body,omitempty"`
	// Truncated marks a commit whose patch segment did not fully parse
	Truncated bool              `json:"truncated,omitempty"`
	Files     []diff.FileChange `json:"files,omitempty"`
}

// ShortHash returns an abbreviated hash for display
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 8 {
		return c.Hash[:8]
	}
	return c.Hash
}

// Oneline returns the conventional single-line summary form
func (c *Commit) Oneline() string {
	return strings.TrimSpace(c.ShortHash() + " " + c.Subject)
}
