// Package infodir writes the Info "dir" file listing converted documents.
package infodir

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/russross/xml2texi/errors"
	"github.com/russross/xml2texi/logger"
)

// FileName is the name Info readers look for.
const FileName = "dir"

// Category is the menu section the documents are listed under.
const Category = "RFC and Internet-Draft Specifications"

// Entry is one successfully converted document.
type Entry struct {
	Filename string // e.g. rfc9126.info
	ID       string // e.g. "RFC 9126", may be empty
	Title    string
}

// Name is the Info file name without its extension.
func (e Entry) Name() string {
	return strings.Replace(e.Filename, ".info", "", -1)
}

// Label is the menu label: the identifier, or the name when there is none.
func (e Entry) Label() string {
	if e.ID != "" {
		return e.ID
	}
	return e.Name()
}

// MenuLine renders the entry as an Info menu item.
func (e Entry) MenuLine() string {
	return "* " + e.Label() + ": (" + e.Name() + ").  " + e.Title + "."
}

var header = []string{
	"This is the file .../info/dir, which contains the",
	"topmost node of the Info hierarchy, called (dir)Top.",
	"",
	"\x1f",
	"File: dir,\tNode: Top\tThis is the top of the INFO tree",
	"",
	"* Menu:",
	"",
	Category,
}

// Sorted returns a copy of entries ordered by ID, then by Filename, so the
// result does not depend on the input order.
func Sorted(entries []Entry) []Entry {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ID != sorted[j].ID {
			return sorted[i].ID < sorted[j].ID
		}
		return sorted[i].Filename < sorted[j].Filename
	})
	return sorted
}

// Render writes the dir file contents for entries to w.
func Render(w io.Writer, entries []Entry) error {
	lines := make([]string, 0, len(header)+len(entries)+1)
	lines = append(lines, header...)
	for _, e := range Sorted(entries) {
		lines = append(lines, e.MenuLine())
	}
	lines = append(lines, "")
	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

// Writer writes the dir file into a directory, replacing any previous one.
type Writer struct {
	Dir string
	Log *zap.SugaredLogger
}

func (dw Writer) Write(entries []Entry) (string, error) {
	var buf bytes.Buffer
	if err := Render(&buf, entries); err != nil {
		return "", errors.Wrap(err, "rendering dir file")
	}
	path := filepath.Join(dw.Dir, FileName)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", errors.Wrapf(err, "writing %s", path)
	}
	log := dw.Log
	if log == nil {
		log = logger.Nop()
	}
	log.Infof("\nGenerated dir file: %s", path)
	return path, nil
}

// Write is Writer{Dir: dir}.Write(entries).
func Write(dir string, entries []Entry) (string, error) {
	return Writer{Dir: dir}.Write(entries)
}
