package xml2texi

// Pretty print XML markup

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/russross/xml2texi/errors"
)

// WriteXML serializes n. Elements holding only other elements are indented;
// elements with character data are written as they are, so artwork and
// sourcecode survive untouched.
func WriteXML(w io.Writer, n *Node) error {
	var b bytes.Buffer
	i := newIndentWriter(&b)
	if n.Type == Document {
		b.WriteString(xml.Header)
	}
	i.node(n)
	if i.last != '\n' {
		b.WriteByte('\n')
	}
	_, err := w.Write(b.Bytes())
	return errors.Wrap(err, "writing xml")
}

type indentWriter struct {
	b      *bytes.Buffer
	indent []byte // current indentation
	last   byte   // last written byte
}

func newIndentWriter(b *bytes.Buffer) *indentWriter {
	return &indentWriter{b, nil, 0}
}

func (i *indentWriter) WriteString(s string) {
	if len(s) == 0 {
		return
	}
	i.b.WriteString(s)
	i.last = s[len(s)-1]
}

func (i *indentWriter) Write(b []byte) {
	if len(b) == 0 {
		return
	}
	i.b.Write(b)
	i.last = b[len(b)-1]
}

func (i *indentWriter) newline() {
	i.WriteString("\n")
	i.Write(i.indent)
}

func (i *indentWriter) node(n *Node) {
	switch n.Type {
	case Document:
		for c := n.FirstChild; c != nil; c = c.Next {
			if c.Type == Text {
				continue
			}
			i.node(c)
			i.WriteString("\n")
		}
	case Text:
		var esc bytes.Buffer
		xml.EscapeText(&esc, n.Literal)
		i.Write(esc.Bytes())
	case Comment:
		i.WriteString("<!--")
		i.Write(n.Literal)
		i.WriteString("-->")
	case ProcInst:
		i.WriteString("<?" + n.Target)
		if len(n.Literal) > 0 {
			i.WriteString(" ")
			i.Write(n.Literal)
		}
		i.WriteString("?>")
	case Element:
		i.element(n)
	}
}

func (i *indentWriter) element(n *Node) {
	name := n.Name
	if isInclude(n) {
		name = "xi:" + name
	}
	i.WriteString("<" + name)
	for _, a := range n.Attr {
		i.WriteString(" " + attrName(a.Name) + "=\"")
		var esc bytes.Buffer
		xml.EscapeText(&esc, []byte(a.Value))
		i.Write(esc.Bytes())
		i.WriteString("\"")
	}
	if n.FirstChild == nil {
		i.WriteString("/>")
		return
	}
	i.WriteString(">")

	pretty := true
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Type == Text && len(bytes.TrimSpace(c.Literal)) > 0 {
			pretty = false
			break
		}
	}
	if pretty {
		i.indent = append(i.indent, []byte("  ")...)
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		if pretty {
			if c.Type == Text {
				continue
			}
			i.newline()
		}
		i.node(c)
	}
	if pretty {
		i.indent = i.indent[:len(i.indent)-2]
		i.newline()
	}
	i.WriteString("</" + name + ">")
}

func attrName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	case "http://www.w3.org/XML/1998/namespace", "xml":
		return "xml:" + n.Local
	}
	return n.Local
}
