package xml2texi

import (
	"bytes"
	"encoding/xml"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/russross/xml2texi/errors"
)

// XIncludeNS is the XInclude namespace.
const XIncludeNS = "http://www.w3.org/2001/XInclude"

const maxIncludeDepth = 8

var ErrEmptyDocument = errors.New("empty document")

// Tree is a parsed RFC XML document.
type Tree struct {
	Doc    *Node  // Document node holding the prolog and the root element
	Source string // file the tree was parsed from
}

// Root returns the root element, nil if there is none.
func (t *Tree) Root() *Node {
	if t == nil || t.Doc == nil {
		return nil
	}
	for c := t.Doc.FirstChild; c != nil; c = c.Next {
		if c.Type == Element {
			return c
		}
	}
	return nil
}

// Base returns the source file name without directory and extension.
func (t *Tree) Base() string {
	base := filepath.Base(t.Source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ParseFile reads and parses the XML document in name.
func ParseFile(name string, opts Options) (*Tree, error) {
	data, err := opts.fs().ReadFile(filepath.ToSlash(name))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return parse(data, name, opts, 0)
}

// Parse parses the document read from r. name is used for error messages
// and to resolve relative includes.
func Parse(r io.Reader, name string, opts Options) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return parse(data, name, opts, 0)
}

func parse(data []byte, name string, opts Options, depth int) (*Tree, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.Wrapf(ErrEmptyDocument, "%s", name)
	}
	data, entities := scanDTD(data)

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = !opts.Liberal
	dec.CharsetReader = charset.NewReaderLabel
	dec.Entity = map[string]string{}
	if opts.Liberal {
		for k, v := range xml.HTMLEntity {
			dec.Entity[k] = v
		}
	}
	for k, v := range entities {
		dec.Entity[k] = v
	}

	doc, err := build(dec)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	tree := &Tree{Doc: doc, Source: name}
	if tree.Root() == nil {
		return nil, errors.Wrapf(ErrEmptyDocument, "%s", name)
	}
	resolveIncludes(doc, path.Dir(filepath.ToSlash(name)), opts, depth)
	return tree, nil
}

func build(dec *xml.Decoder) (*Node, error) {
	doc := NewNode(Document)
	cur := doc
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return doc, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Type:  Element,
				Space: t.Name.Space,
				Name:  t.Name.Local,
				Attr:  append([]xml.Attr(nil), t.Attr...),
			}
			cur.AppendChild(n)
			cur = n
		case xml.EndElement:
			if cur.Parent != nil {
				cur = cur.Parent
			}
		case xml.CharData:
			if cur == doc {
				continue
			}
			if last := cur.LastChild; last != nil && last.Type == Text {
				last.Literal = append(last.Literal, t...)
				continue
			}
			cur.AppendChild(&Node{Type: Text, Literal: append([]byte(nil), t...)})
		case xml.Comment:
			cur.AppendChild(&Node{Type: Comment, Literal: append([]byte(nil), t...)})
		case xml.ProcInst:
			if t.Target == "xml" {
				continue
			}
			cur.AppendChild(&Node{Type: ProcInst, Target: t.Target, Literal: append([]byte(nil), t.Inst...)})
		}
	}
}

var (
	reEntityDecl = regexp.MustCompile(`<!ENTITY\s+([^\s%]+)\s+(?:(SYSTEM|PUBLIC\s+(?:"[^"]*"|'[^']*'))\s+)?("[^"]*"|'[^']*')\s*>`)
	reCharRef    = regexp.MustCompile(`&#(x[0-9a-fA-F]+|[0-9]+);`)
)

// scanDTD collects the entity declarations of the internal DTD subset. Text
// entities are returned for the decoder; references to external entities
// in the body are rewritten to xi:include elements.
func scanDTD(data []byte) ([]byte, map[string]string) {
	start := bytes.Index(data, []byte("<!DOCTYPE"))
	if start < 0 {
		return data, nil
	}
	end := doctypeEnd(data, start)
	entities := map[string]string{}
	var pairs []string
	for _, m := range reEntityDecl.FindAllSubmatch(data[start:end], -1) {
		name := string(m[1])
		value := string(m[3][1 : len(m[3])-1])
		if len(m[2]) == 0 {
			entities[name] = unescapeCharRefs(value)
			continue
		}
		var attr bytes.Buffer
		xml.EscapeText(&attr, []byte(value))
		pairs = append(pairs, "&"+name+";",
			`<xi:include xmlns:xi="`+XIncludeNS+`" href="`+attr.String()+`"/>`)
	}
	if len(pairs) == 0 {
		return data, entities
	}
	body := strings.NewReplacer(pairs...).Replace(string(data[end:]))
	out := make([]byte, 0, end+len(body))
	out = append(out, data[:end]...)
	return append(out, body...), entities
}

func doctypeEnd(data []byte, start int) int {
	depth := 0
	var quote byte
	for i := start; i < len(data); i++ {
		c := data[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == '>' && depth <= 0:
			return i + 1
		}
	}
	return len(data)
}

func unescapeCharRefs(s string) string {
	return reCharRef.ReplaceAllStringFunc(s, func(ref string) string {
		num := ref[2 : len(ref)-1]
		base := 10
		if num[0] == 'x' {
			num, base = num[1:], 16
		}
		r, err := strconv.ParseInt(num, base, 32)
		if err != nil {
			return ref
		}
		return string(rune(r))
	})
}

func isInclude(n *Node) bool {
	return n.Type == Element && n.Name == "include" && (n.Space == XIncludeNS || n.Space == "xi")
}

// resolveIncludes replaces xi:include elements with the documents they
// name, with bibxml stubs, or with nothing.
func resolveIncludes(doc *Node, dir string, opts Options, depth int) {
	var includes []*Node
	doc.Walk(func(n *Node, entering bool) WalkStatus {
		if entering && isInclude(n) {
			includes = append(includes, n)
			return SkipChildren
		}
		return GoToNext
	})
	for _, inc := range includes {
		href := inc.Get("href")
		if n := loadInclude(inc, dir, opts, depth); n != nil {
			inc.ReplaceWith(n)
			continue
		}
		if stub := referenceStub(href); stub != nil {
			opts.Debugf("using stub reference for %s", href)
			inc.ReplaceWith(stub)
			continue
		}
		opts.Warnf("skipping include %s", href)
		inc.Unlink()
	}
}

func loadInclude(inc *Node, dir string, opts Options, depth int) *Node {
	href := inc.Get("href")
	if !opts.AllowLocalFileAccess || href == "" || depth >= maxIncludeDepth {
		return nil
	}
	u, err := url.Parse(href)
	if err != nil {
		return nil
	}
	var name string
	switch u.Scheme {
	case "":
		name = u.Path
	case "file":
		name = u.Path
	default:
		return nil
	}
	name = absname(dir, name)
	data, err := opts.fs().ReadFile(name)
	if err != nil {
		opts.Debugf("cannot read include %s: %v", name, err)
		return nil
	}
	if inc.Get("parse") == "text" {
		return NewText(string(data))
	}
	sub, err := parse(data, name, opts, depth+1)
	if err != nil {
		opts.Debugf("cannot parse include %s: %v", name, err)
		return nil
	}
	return sub.Root()
}
