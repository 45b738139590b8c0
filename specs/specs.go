// Package specs reads specs.conf, the list of documents to fetch.
//
// One directive per line:
//
//	rfc 9126                                       # RFC by number
//	draft draft-ietf-oauth-browser-based-apps-26  # Internet-Draft by name
//	url https://example.com/spec.xml name          # arbitrary URL
//
// Blank lines and '#' comments, whole-line or trailing, are ignored.
package specs

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/russross/xml2texi/errors"
)

const (
	DefaultRFCURL   = "https://www.rfc-editor.org/rfc/rfc{number}.xml"
	DefaultDraftURL = "https://www.ietf.org/archive/id/{name}.xml"
)

// ErrNotFound is returned by ParseFile when the file does not exist.
var ErrNotFound = errors.New("specs file not found")

type Kind int

const (
	RFC Kind = iota
	Draft
	URL
)

var kindNames = []string{
	RFC:   "rfc",
	Draft: "draft",
	URL:   "url",
}

func (k Kind) String() string {
	return kindNames[k]
}

// Entry is one resolved directive.
type Entry struct {
	Kind Kind
	URL  string
	Name string // output base name, also the cache file name without .xml
}

// Parser expands rfc and draft directives with its URL templates.
// {number} and {name} are substituted.
type Parser struct {
	RFCURL   string
	DraftURL string
}

// DefaultParser uses the rfc-editor.org and ietf.org archive templates.
var DefaultParser = Parser{RFCURL: DefaultRFCURL, DraftURL: DefaultDraftURL}

// Parse reads directives from r with the default templates. warn is called
// once per line that is not a valid directive; it may be nil.
func Parse(r io.Reader, warn func(line string)) ([]Entry, error) {
	return DefaultParser.Parse(r, warn)
}

// ParseFile is Parse on a file.
func ParseFile(path string, warn func(line string)) ([]Entry, error) {
	return DefaultParser.ParseFile(path, warn)
}

func (p Parser) ParseFile(path string, warn func(line string)) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Mark(errors.Wrapf(err, "no specs file at %s", path), ErrNotFound)
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()
	return p.Parse(f, warn)
}

func (p Parser) Parse(r io.Reader, warn func(line string)) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = strings.TrimSpace(line[:i])
		}
		entry, ok := p.parseLine(line)
		if !ok {
			if warn != nil {
				warn(line)
			}
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading specs")
	}
	return entries, nil
}

func (p Parser) parseLine(line string) (Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Entry{}, false
	}
	switch {
	case fields[0] == "rfc" && len(fields) >= 2:
		num := fields[1]
		return Entry{Kind: RFC, URL: expand(p.RFCURL, "{number}", num), Name: "rfc" + num}, true
	case fields[0] == "draft" && len(fields) >= 2:
		name := fields[1]
		return Entry{Kind: Draft, URL: expand(p.DraftURL, "{name}", name), Name: name}, true
	case fields[0] == "url" && len(fields) >= 3:
		return Entry{Kind: URL, URL: fields[1], Name: fields[2]}, true
	}
	return Entry{}, false
}

func expand(template, placeholder, value string) string {
	return strings.Replace(template, placeholder, value, -1)
}
