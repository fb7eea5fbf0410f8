package diff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/go-enry/go-enry/v2"
)

var (
	fileHeaderRe = regexp.MustCompile(`^diff --git "?a/(.+?)"? "?b/(.+?)"?$`)
	hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)
	binaryRe     = regexp.MustCompile(`^Binary files .* differ$`)
)

// Parse turns raw unified-diff text into an ordered sequence of file
// changes. Empty input yields an empty slice. A malformed section inside
// one file marks that file Truncated and moves on; parsing never fails
// over a single bad segment.
func Parse(text string) []FileChange {
	if strings.TrimSpace(text) == "" {
		return []FileChange{}
	}

	lines := strings.Split(text, "\n")
	var files []FileChange
	i := 0

	for i < len(lines) {
		m := fileHeaderRe.FindStringSubmatch(lines[i])
		if m == nil {
			i++
			continue
		}

		file, next := parseFile(lines, i, m[1], m[2])
		files = append(files, file)
		i = next
	}

	if files == nil {
		return []FileChange{}
	}
	return files
}

// parseFile consumes one `diff --git` section starting at lines[start].
// Returns the parsed file and the index of the next unconsumed line.
func parseFile(lines []string, start int, oldPath, newPath string) (FileChange, int) {
	file := FileChange{
		Path:    newPath,
		OldPath: oldPath,
		Kind:    KindModified,
	}

	sawRenameMarker := false
	i := start + 1

	// Extended header lines up to the first hunk or the next file
	for i < len(lines) {
		line := lines[i]
		if fileHeaderRe.MatchString(line) || strings.HasPrefix(line, "@@") {
			break
		}
		switch {
		case strings.HasPrefix(line, "new file mode"):
			file.Kind = KindAdded
		case strings.HasPrefix(line, "deleted file mode"):
			file.Kind = KindDeleted
		case strings.HasPrefix(line, "similarity index"),
			strings.HasPrefix(line, "rename from"),
			strings.HasPrefix(line, "rename to"):
			sawRenameMarker = true
		case binaryRe.MatchString(line):
			file.Binary = true
		case strings.HasPrefix(line, "--- "):
			if p, ok := stripPathPrefix(line[4:], "a/"); ok {
				file.OldPath = p
			}
		case strings.HasPrefix(line, "+++ "):
			if p, ok := stripPathPrefix(line[4:], "b/"); ok {
				file.Path = p
			}
		}
		i++
	}

	// Rename classification needs both the marker and differing paths
	if sawRenameMarker && file.OldPath != file.Path {
		file.Kind = KindRenamed
	}

	switch file.Kind {
	case KindDeleted:
		file.Language = enry.GetLanguage(file.OldPath, nil)
	default:
		file.Language = enry.GetLanguage(file.Path, nil)
	}

	// Hunks
	for i < len(lines) {
		line := lines[i]
		if fileHeaderRe.MatchString(line) {
			break
		}
		hm := hunkHeaderRe.FindStringSubmatch(line)
		if hm == nil {
			if strings.HasPrefix(line, "@@") {
				// Malformed hunk header: keep what parsed so far, skip to
				// the next file section
				file.Truncated = true
				i = skipToNextFile(lines, i+1)
				return file, i
			}
			i++
			continue
		}

		hunk := Hunk{
			OldStart: atoiDefault(hm[1], 0),
			OldLines: atoiDefault(hm[2], 1),
			NewStart: atoiDefault(hm[3], 0),
			NewLines: atoiDefault(hm[4], 1),
			Header:   hm[5],
		}

		i++
		for i < len(lines) {
			body := lines[i]
			if body == "" && i == len(lines)-1 {
				i++
				break
			}
			if len(body) == 0 {
				// git emits a bare empty line for empty context lines in
				// some configurations; treat as context
				hunk.Lines = append(hunk.Lines, Line{Marker: MarkerContext})
				i++
				continue
			}
			switch body[0] {
			case ' ':
				hunk.Lines = append(hunk.Lines, Line{Marker: MarkerContext, Text: body[1:]})
			case '+':
				hunk.Lines = append(hunk.Lines, Line{Marker: MarkerAdd, Text: body[1:]})
			case '-':
				hunk.Lines = append(hunk.Lines, Line{Marker: MarkerRemove, Text: body[1:]})
			case '\\':
				// "\ No newline at end of file" is not a content line
			default:
				// End of hunk body
				goto hunkDone
			}
			i++
		}
	hunkDone:
		if countExpected(hunk) {
			file.Hunks = append(file.Hunks, hunk)
		} else {
			file.Truncated = true
		}
	}

	return file, i
}

// countExpected verifies the hunk body matches its header counts; a short
// body means the diff was truncated mid-hunk
func countExpected(h Hunk) bool {
	oldN, newN := 0, 0
	for _, l := range h.Lines {
		switch l.Marker {
		case MarkerContext:
			oldN++
			newN++
		case MarkerAdd:
			newN++
		case MarkerRemove:
			oldN++
		}
	}
	return oldN == h.OldLines && newN == h.NewLines
}

func skipToNextFile(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		if fileHeaderRe.MatchString(lines[i]) {
			return i
		}
	}
	return len(lines)
}

// stripPathPrefix handles the `a/path`, `b/path` and `/dev/null` forms of
// the ---/+++ header lines
func stripPathPrefix(p, prefix string) (string, bool) {
	p = strings.TrimSuffix(strings.Trim(p, `"`), "\t")
	if p == "/dev/null" {
		return "", false
	}
	return strings.TrimPrefix(p, prefix), true
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
