package repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// History is an append-only file of executed queries, one per line.
type History struct {
	fs    afero.Fs
	path  string
	lines []string
}

func NewHistory(fsys afero.Fs, path string) *History {
	return &History{fs: fsys, path: ExpandHome(path)}
}

// Load reads the file, keeping at most the last max lines (max <= 0 keeps
// everything). A missing file is not an error.
func (h *History) Load(max int) error {
	if h.path == "" {
		return nil
	}
	f, err := h.fs.Open(h.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer func() { _ = f.Close() }()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" {
			continue
		}
		h.lines = append(h.lines, s)
		if max > 0 && len(h.lines) > max {
			h.lines = h.lines[len(h.lines)-max:]
		}
	}
	return sc.Err()
}

func (h *History) Lines() []string { return h.lines }

// Append stores a query on a single line.
func (h *History) Append(query string) error {
	query = CompactOneLine(query)
	if query == "" {
		return nil
	}
	h.lines = append(h.lines, query)
	if h.path == "" {
		return nil
	}

	if err := h.fs.MkdirAll(filepath.Dir(h.path), 0o755); err != nil {
		return err
	}
	f, err := h.fs.OpenFile(h.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = fmt.Fprintln(f, query)
	return err
}

// Print writes the last n lines, numbered.
func (h *History) Print(w io.Writer, last int) {
	if last <= 0 || last > len(h.lines) {
		last = len(h.lines)
	}
	for i := len(h.lines) - last; i < len(h.lines); i++ {
		fmt.Fprintf(w, "%5d  %s\n", i+1, h.lines[i])
	}
}

// CompactOneLine turns newlines and tabs into spaces and collapses runs of
// spaces outside double quotes.
func CompactOneLine(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\t", " ").Replace(s)
	s = strings.TrimSpace(s)

	var b strings.Builder
	b.Grow(len(s))
	space, inQuote := false, false
	for _, r := range s {
		if r == '"' {
			inQuote = !inQuote
		}
		if r == ' ' && !inQuote {
			if !space {
				b.WriteByte(' ')
				space = true
			}
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/")
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
