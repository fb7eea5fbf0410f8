package commitlog

import (
	"regexp"
	"strings"

	"github.com/tildaslashalef/pullwatch/internal/diff"
)

var (
	// commitStartRe matches the first line of a git log record
	commitStartRe = regexp.MustCompile(`^commit ([0-9a-fA-F]+)`)
	// changesetStartRe matches the first line of a mercurial log record,
	// e.g. "changeset:   12:4be2d9f7a0c1"
	changesetStartRe = regexp.MustCompile(`^changeset:\s+\d+:([0-9a-fA-F]+)`)
)

// Parse turns raw log text into commit records ordered oldest first, the
// natural reading order for "what happened". git prints newest first, so
// git-form records are reversed; mercurial already lists an ascending
// range in order. withDiff controls whether each record's patch segment
// is parsed into file changes.
func Parse(text string, withDiff bool) []Commit {
	if strings.TrimSpace(text) == "" {
		return []Commit{}
	}

	var commits []Commit
	gitForm := false
	for _, record := range splitRecords(text) {
		if commitStartRe.MatchString(record) {
			gitForm = true
			commits = append(commits, parseRecord(record, withDiff))
			continue
		}
		commits = append(commits, parseChangesetRecord(record, withDiff))
	}

	if gitForm {
		for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
			commits[i], commits[j] = commits[j], commits[i]
		}
	}
	return commits
}

// recordStart reports whether a line opens a new log record in either form
func recordStart(line string) bool {
	return commitStartRe.MatchString(line) || changesetStartRe.MatchString(line)
}

// splitRecords cuts the log at each record-opening line
func splitRecords(text string) []string {
	var records []string
	var current []string
	for _, line := range strings.Split(text, "\n") {
		if recordStart(line) && len(current) > 0 {
			records = append(records, strings.Join(current, "\n"))
			current = current[:0]
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		records = append(records, strings.Join(current, "\n"))
	}
	return records
}

// parseRecord parses one git commit record: header lines, indented
// message, then an optional patch segment delegated to the diff parser
func parseRecord(record string, withDiff bool) Commit {
	lines := strings.Split(record, "\n")
	var c Commit

	i := 0
	if m := commitStartRe.FindStringSubmatch(lines[0]); m != nil {
		c.Hash = m[1]
		i = 1
	}

	// Header lines up to the blank separator (Author:, Date:, and whatever
	// else the VCS adds; Merge: and friends are skipped)
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		switch {
		case strings.HasPrefix(line, "Author:"):
			c.Author = strings.TrimSpace(strings.TrimPrefix(line, "Author:"))
		case strings.HasPrefix(line, "Date:"):
			c.Date = strings.TrimSpace(strings.TrimPrefix(line, "Date:"))
		}
	}

	// Indented message: first line is the subject, the rest the body
	var body []string
	for ; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "    ") {
			msg := strings.TrimPrefix(line, "    ")
			if c.Subject == "" && strings.TrimSpace(msg) != "" {
				c.Subject = msg
			} else {
				body = append(body, msg)
			}
			continue
		}
		if line == "" {
			body = append(body, "")
			continue
		}
		// First non-indented, non-blank line ends the message; the patch
		// segment starts here
		break
	}
	c.Body = strings.Trim(strings.Join(body, "\n"), "\n")

	finishRecord(&c, lines, i, withDiff)
	return c
}

// parseChangesetRecord parses one mercurial log record: changeset/user/
// date/summary field lines, then an optional git-format patch segment
func parseChangesetRecord(record string, withDiff bool) Commit {
	lines := strings.Split(record, "\n")
	var c Commit

	i := 0
	if m := changesetStartRe.FindStringSubmatch(lines[0]); m != nil {
		c.Hash = m[1]
		i = 1
	}

	// Field lines up to the blank separator; tag:, branch:, parent: and
	// friends are skipped
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		switch {
		case strings.HasPrefix(line, "user:"):
			c.Author = strings.TrimSpace(strings.TrimPrefix(line, "user:"))
		case strings.HasPrefix(line, "date:"):
			c.Date = strings.TrimSpace(strings.TrimPrefix(line, "date:"))
		case strings.HasPrefix(line, "summary:"):
			c.Subject = strings.TrimSpace(strings.TrimPrefix(line, "summary:"))
		}
	}

	finishRecord(&c, lines, i, withDiff)
	return c
}

// finishRecord handles the shared patch segment and Files invariants
func finishRecord(c *Commit, lines []string, i int, withDiff bool) {
	if withDiff && i < len(lines) {
		segment := strings.Join(lines[i:], "\n")
		c.Files = diff.Parse(segment)
		for _, f := range c.Files {
			if f.Truncated {
				c.Truncated = true
				break
			}
		}
	}
	if c.Files == nil {
		c.Files = []diff.FileChange{}
	}
}
