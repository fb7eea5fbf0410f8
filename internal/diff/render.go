package diff

import (
	"fmt"
	"strings"
)

// Render re-serializes parsed file changes back to unified diff text.
// Parsing the rendered text yields an equal structure, which is what makes
// the parser testable without golden files.
func Render(files []FileChange) string {
	var b strings.Builder
	for _, f := range files {
		renderFile(&b, f)
	}
	return b.String()
}

func renderFile(b *strings.Builder, f FileChange) {
	oldPath := f.OldPath
	if oldPath == "" {
		oldPath = f.Path
	}
	fmt.Fprintf(b, "diff --git a/%s b/%s\n", oldPath, f.Path)

	switch f.Kind {
	case KindAdded:
		b.WriteString("new file mode 100644\n")
	case KindDeleted:
		b.WriteString("deleted file mode 100644\n")
	case KindRenamed:
		fmt.Fprintf(b, "similarity index 100%%\nrename from %s\nrename to %s\n", oldPath, f.Path)
	}

	if f.Binary {
		fmt.Fprintf(b, "Binary files a/%s and b/%s differ\n", oldPath, f.Path)
		return
	}
	if len(f.Hunks) == 0 {
		return
	}

	if f.Kind == KindAdded {
		fmt.Fprintf(b, "--- /dev/null\n+++ b/%s\n", f.Path)
	} else if f.Kind == KindDeleted {
		fmt.Fprintf(b, "--- a/%s\n+++ /dev/null\n", oldPath)
	} else {
		fmt.Fprintf(b, "--- a/%s\n+++ b/%s\n", oldPath, f.Path)
	}

	for _, h := range f.Hunks {
		header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", h.OldStart, h.OldLines, h.NewStart, h.NewLines)
		if h.Header != "" {
			header += " " + h.Header
		}
		b.WriteString(header)
		b.WriteByte('\n')
		for _, l := range h.Lines {
			b.WriteByte(byte(l.Marker))
			b.WriteString(l.Text)
			b.WriteByte('\n')
		}
	}
}
