//
// xml2texi: RFC XML to Texinfo conversion
// Available at http://github.com/russross/xml2texi
//
// Distributed under the Simplified BSD License.
// See README.md for details.
//

//
//
// Texinfo rendering backend
//
//

package xml2texi

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shurcooL/sanitized_anchor_name"

	"github.com/russross/xml2texi/errors"
	"github.com/russross/xml2texi/infodir"
)

// Texinfo has no sectioning commands below @subsubsection; deeper sections
// become headings without a node.
const maxNodeDepth = 4

type sectionKind int

const (
	numbered sectionKind = iota
	unnumbered
	appendix
)

var sectionCommands = map[sectionKind][maxNodeDepth]string{
	numbered:   {"@chapter", "@section", "@subsection", "@subsubsection"},
	unnumbered: {"@unnumbered", "@unnumberedsec", "@unnumberedsubsec", "@unnumberedsubsubsec"},
	appendix:   {"@appendix", "@appendixsec", "@appendixsubsec", "@appendixsubsubsec"},
}

var categories = map[string]string{
	"std":      "Standards Track",
	"info":     "Informational",
	"exp":      "Experimental",
	"bcp":      "Best Current Practice",
	"historic": "Historic",
}

// Texinfo renders a prepared v3 tree as a Texinfo manual.
//
// Do not create this directly, instead use the NewTexinfoWriter function.
type Texinfo struct {
	tree  *Tree
	opts  Options
	front Front
	base  string
	label string
	title string

	nodes    map[*Node]string  // sections that get a @node
	anchors  map[string]string // XML anchor -> Texinfo node or anchor name
	targets  map[string]*Node  // XML anchor -> element
	display  map[string]string // reference anchor -> displayreference
	used     map[string]bool   // node and anchor names in use
	emitted  map[string]bool   // @anchor already written
	hasIndex bool

	out  *texiBuffer
	flat bool // rendering into a single line, e.g. a table cell
}

// NewTexinfoWriter creates a writer for t. The tree should have been
// through Normalize.
func NewTexinfoWriter(t *Tree, opts Options) *Texinfo {
	r := &Texinfo{
		tree:    t,
		opts:    opts,
		front:   ReadFront(t),
		base:    t.Base(),
		title:   Title(t),
		nodes:   map[*Node]string{},
		anchors: map[string]string{},
		targets: map[string]*Node{},
		display: map[string]string{},
		used:    map[string]bool{"Top": true, "Index": true},
		emitted: map[string]bool{},
		out:     &texiBuffer{},
	}
	r.label = Identify(t, r.base)
	r.prepare()
	return r
}

// Write renders the manual into the file path.
func (r *Texinfo) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating texinfo file")
	}
	w := bufio.NewWriter(f)
	if err := r.Render(w); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// Render writes the manual to w.
func (r *Texinfo) Render(w io.Writer) error {
	r.out = &texiBuffer{}
	r.emitted = map[string]bool{}
	r.header()
	r.top()
	for _, s := range r.topSections() {
		r.section(s, 0)
	}
	if r.hasIndex {
		r.out.blank()
		r.out.WriteString("@node Index\n@unnumbered Index\n\n@printindex cp\n")
	}
	r.out.blank()
	r.out.WriteString("@bye\n")
	_, err := w.Write(r.out.Bytes())
	return errors.Wrap(err, "writing texinfo")
}

type texiBuffer struct {
	bytes.Buffer
}

func (b *texiBuffer) last() byte {
	if b.Len() == 0 {
		return '\n'
	}
	return b.Bytes()[b.Len()-1]
}

// cr makes sure the next output starts on a new line. Trailing spaces on
// the current line are dropped.
func (b *texiBuffer) cr() {
	buf := b.Bytes()
	n := len(buf)
	for n > 0 && buf[n-1] == ' ' {
		n--
	}
	b.Truncate(n)
	if b.last() != '\n' {
		b.WriteByte('\n')
	}
}

// blank makes sure the next output starts after an empty line.
func (b *texiBuffer) blank() {
	if b.Len() == 0 {
		return
	}
	b.cr()
	if !bytes.HasSuffix(b.Bytes(), []byte("\n\n")) {
		b.WriteByte('\n')
	}
}

func (r *Texinfo) esc(s string) string {
	s = escapeTexinfo(s)
	if !r.opts.UTF8 {
		s = asciify(s)
	}
	return s
}

func (r *Texinfo) escArg(s string) string {
	s = escapeArg(s)
	if !r.opts.UTF8 {
		s = asciify(s)
	}
	return s
}

func (r *Texinfo) unique(name string) string {
	if name == "" {
		name = "anchor"
	}
	candidate := name
	for i := 2; r.used[candidate]; i++ {
		candidate = name + "-" + strconv.Itoa(i)
	}
	r.used[candidate] = true
	return candidate
}

// topSections returns the sections of middle and back that become chapters
// or appendices, in document order.
func (r *Texinfo) topSections() []*Node {
	root := r.tree.Root()
	sections := root.Find("middle").Children("section")
	for _, c := range root.Child("back").Children("") {
		if c.Is("section") || c.Is("references") {
			sections = append(sections, c)
		}
	}
	return sections
}

func sectionTitle(s *Node) string {
	if name := s.Child("name"); name != nil {
		return collapse(name.Text())
	}
	return collapse(s.Get("title"))
}

func (r *Texinfo) prepare() {
	root := r.tree.Root()
	r.hasIndex = len(root.Elements("iref")) > 0
	for _, d := range root.Elements("displayreference") {
		r.display[d.Get("target")] = d.Get("to")
	}
	for _, s := range r.topSections() {
		r.nameSection(s, 0)
	}
	root.Walk(func(n *Node, entering bool) WalkStatus {
		if !entering || n.Type != Element {
			return GoToNext
		}
		switch n.Name {
		case "front":
			for _, c := range n.Children("") {
				if c.Is("abstract") || c.Is("note") || c.Is("boilerplate") {
					c.Walk(r.registerAnchor)
				}
			}
			return SkipChildren
		case "toc":
			return SkipChildren
		}
		return r.registerAnchor(n, entering)
	})
}

func (r *Texinfo) nameSection(s *Node, depth int) {
	if depth < maxNodeDepth {
		name := nodeName(sectionTitle(s), !r.opts.UTF8)
		if name == "" {
			name = nodeName(sectionLabel(s.Get("pn")), !r.opts.UTF8)
		}
		if name == "" {
			name = "Section"
		}
		r.nodes[s] = r.unique(name)
	}
	for _, sub := range subsections(s) {
		r.nameSection(sub, depth+1)
	}
}

var anchorable = map[string]bool{
	"section": true, "references": true, "reference": true, "referencegroup": true,
	"t": true, "li": true, "dt": true, "figure": true, "table": true,
	"artwork": true, "sourcecode": true, "ul": true, "ol": true, "dl": true,
	"blockquote": true, "aside": true,
}

func (r *Texinfo) registerAnchor(n *Node, entering bool) WalkStatus {
	if !entering || n.Type != Element {
		return GoToNext
	}
	anchor := n.Get("anchor")
	if anchor != "" && r.targets[anchor] == nil {
		if name, ok := r.nodes[n]; ok {
			r.anchors[anchor] = name
			r.targets[anchor] = n
		} else if anchorable[n.Name] {
			r.anchors[anchor] = r.unique(sanitized_anchor_name.Create(anchor))
			r.targets[anchor] = n
		}
	}
	if n.Is("artwork") {
		// svg content is not rendered
		return SkipChildren
	}
	return GoToNext
}

// anchor writes the @anchor for n, if it has one that was not written yet.
func (r *Texinfo) anchor(n *Node) {
	anchor := n.Get("anchor")
	if anchor == "" || r.targets[anchor] != n {
		return
	}
	if _, isNode := r.nodes[n]; isNode {
		return
	}
	name := r.anchors[anchor]
	if r.emitted[name] {
		return
	}
	r.emitted[name] = true
	r.out.WriteString("@anchor{" + name + "}")
	if !r.flat && !n.Is("t") && !n.Is("li") && !n.Is("dt") {
		r.out.WriteByte('\n')
	}
}

func (r *Texinfo) header() {
	label := r.label
	if label == "" {
		label = r.base
	}
	settitle := label
	if r.title != "" {
		settitle += ": " + r.title
	}
	r.out.WriteString("\\input texinfo\n")
	r.out.WriteString("@c This file was generated by xml2texi from " + r.esc(r.tree.Base()) + ".xml.\n")
	r.out.WriteString("@setfilename " + r.base + ".info\n")
	if r.opts.UTF8 {
		r.out.WriteString("@documentencoding UTF-8\n")
	} else {
		r.out.WriteString("@documentencoding US-ASCII\n")
	}
	r.out.WriteString("@settitle " + r.esc(settitle) + "\n")

	entry := infodir.Entry{Filename: r.base + ".info", ID: r.esc(r.label), Title: r.esc(r.title)}
	r.out.blank()
	r.out.WriteString("@dircategory " + infodir.Category + "\n")
	r.out.WriteString("@direntry\n" + entry.MenuLine() + "\n@end direntry\n")
}

func (r *Texinfo) top() {
	root := r.tree.Root()
	front := root.Child("front")

	r.out.blank()
	r.out.WriteString("@node Top\n")
	title := r.title
	if title == "" {
		title = r.label
	}
	if title == "" {
		title = r.base
	}
	r.out.WriteString("@top " + r.esc(title) + "\n")

	r.frontBlock()

	if abstract := front.Child("abstract"); abstract != nil {
		r.out.blank()
		r.out.WriteString("@heading Abstract\n")
		r.blocks(abstract)
	}
	for _, note := range front.Children("note") {
		r.out.blank()
		r.out.WriteString("@heading " + r.esc(sectionTitle(note)) + "\n")
		r.blocks(note)
	}
	for _, s := range front.Find("boilerplate").Children("section") {
		r.headingSection(s, 0)
	}

	var entries []string
	for _, s := range r.topSections() {
		entries = append(entries, r.nodes[s])
	}
	if r.hasIndex {
		entries = append(entries, "Index")
	}
	r.menu(entries)
}

func (r *Texinfo) frontBlock() {
	f := r.front
	var lines []string
	for _, si := range f.SeriesInfo {
		switch si.Name {
		case "RFC":
			lines = append(lines, "Request for Comments: "+si.Value)
		case "":
		default:
			lines = append(lines, si.Name+": "+si.Value)
		}
	}
	if f.Obsoletes != "" {
		lines = append(lines, "Obsoletes: "+f.Obsoletes)
	}
	if f.Updates != "" {
		lines = append(lines, "Updates: "+f.Updates)
	}
	if c, ok := categories[f.Category]; ok {
		lines = append(lines, "Category: "+c)
	}
	if len(f.Workgroup) > 0 {
		lines = append(lines, "Workgroup: "+strings.Join(f.Workgroup, ", "))
	}
	if f.Date != "" {
		lines = append(lines, "Published: "+f.Date)
	}
	var authors []string
	for _, a := range f.Author {
		name := a.Name()
		if a.Organization != "" && a.Organization != name {
			name += " (" + a.Organization + ")"
		}
		if name != "" {
			authors = append(authors, name)
		}
	}
	if len(authors) > 0 {
		lines = append(lines, "Authors: "+strings.Join(authors, ", "))
	}
	if len(lines) == 0 {
		return
	}
	r.out.blank()
	r.out.WriteString("@noindent\n")
	for i, l := range lines {
		r.out.WriteString(r.esc(l))
		if i < len(lines)-1 {
			r.out.WriteString("@*")
		}
		r.out.WriteByte('\n')
	}
}

func (r *Texinfo) menu(entries []string) {
	if len(entries) == 0 {
		return
	}
	r.out.blank()
	r.out.WriteString("@menu\n")
	for _, e := range entries {
		r.out.WriteString("* " + e + "::\n")
	}
	r.out.WriteString("@end menu\n")
}

func (r *Texinfo) kind(s *Node) sectionKind {
	top := s
	for p := s; p != nil && (p.Is("section") || p.Is("references")); p = p.Parent {
		if p.Get("numbered") == "false" {
			return unnumbered
		}
		top = p
	}
	if top.Is("section") && top.Parent.Is("back") {
		return appendix
	}
	return numbered
}

// headingText is the section title, or its number when it has none.
func (r *Texinfo) headingText(s *Node) string {
	var text string
	if name := s.Child("name"); name != nil {
		text = r.capture(true, func() { r.inlines(name) })
	} else {
		text = r.esc(collapse(s.Get("title")))
	}
	if text == "" {
		text = r.esc(sectionLabel(s.Get("pn")))
	}
	if text == "" {
		text = "Section"
	}
	return text
}

func (r *Texinfo) section(s *Node, depth int) {
	r.out.blank()
	if name, ok := r.nodes[s]; ok {
		r.out.WriteString("@node " + name + "\n")
		r.out.WriteString(sectionCommands[r.kind(s)][depth] + " " + r.headingText(s) + "\n")
	} else {
		r.anchor(s)
		r.out.WriteString("@subsubheading " + r.headingText(s) + "\n")
	}

	var refs []*Node
	for c := s.FirstChild; c != nil; c = c.Next {
		switch {
		case c.Is("name"), c.Is("section"), c.Is("references"):
		case c.Is("reference"), c.Is("referencegroup"):
			refs = append(refs, c)
		default:
			c.Walk(r.renderNode)
		}
	}
	r.referenceTable(refs)

	subs := subsections(s)
	var entries []string
	for _, sub := range subs {
		if name, ok := r.nodes[sub]; ok {
			entries = append(entries, name)
		}
	}
	r.menu(entries)
	for _, sub := range subs {
		r.section(sub, depth+1)
	}
}

// headingSection renders front matter sections inside the Top node.
func (r *Texinfo) headingSection(s *Node, depth int) {
	r.out.blank()
	r.anchor(s)
	switch depth {
	case 0:
		r.out.WriteString("@heading ")
	case 1:
		r.out.WriteString("@subheading ")
	default:
		r.out.WriteString("@subsubheading ")
	}
	r.out.WriteString(r.headingText(s) + "\n")
	for c := s.FirstChild; c != nil; c = c.Next {
		switch {
		case c.Is("name"):
		case c.Is("section"):
			r.headingSection(c, depth+1)
		default:
			c.Walk(r.renderNode)
		}
	}
}

// blocks renders the children of n except its name.
func (r *Texinfo) blocks(n *Node) {
	for c := n.FirstChild; c != nil; c = c.Next {
		if !c.Is("name") {
			c.Walk(r.renderNode)
		}
	}
}

// inlines renders the children of n.
func (r *Texinfo) inlines(n *Node) {
	for c := n.FirstChild; c != nil; c = c.Next {
		c.Walk(r.renderNode)
	}
}

// capture renders fn into a separate buffer and returns the result. A flat
// capture is folded onto a single line.
func (r *Texinfo) capture(flat bool, fn func()) string {
	saved, savedFlat := r.out, r.flat
	r.out = &texiBuffer{}
	r.flat = flat || savedFlat
	fn()
	s := r.out.String()
	r.out, r.flat = saved, savedFlat
	if flat {
		s = collapse(s)
	}
	return s
}

var blockContainers = map[string]bool{
	"rfc": true, "front": true, "middle": true, "back": true, "section": true,
	"references": true, "abstract": true, "note": true, "boilerplate": true,
	"ul": true, "ol": true, "dl": true, "table": true, "thead": true,
	"tbody": true, "tfoot": true, "tr": true, "figure": true, "aside": true,
	"referencegroup": true, "author": true, "address": true, "postal": true,
}

func (r *Texinfo) text(n *Node) {
	s := string(n.Literal)
	if n.Parent != nil && blockContainers[n.Parent.Name] && strings.TrimSpace(s) == "" {
		return
	}
	s = squash(s)
	if last := r.out.last(); last == '\n' || last == ' ' {
		s = strings.TrimLeft(s, " ")
	}
	r.out.WriteString(r.esc(s))
}

// renderNode is the visitor for the body of sections.
func (r *Texinfo) renderNode(node *Node, entering bool) WalkStatus {
	switch node.Type {
	case Text:
		if entering {
			r.text(node)
		}
		return GoToNext
	case Element:
	default:
		return GoToNext
	}

	if r.flat {
		return r.renderFlat(node, entering)
	}

	switch node.Name {
	case "t":
		if entering {
			if !node.Parent.Is("li") || hasContentBefore(node) {
				r.out.blank()
			}
			r.anchor(node)
		} else {
			r.out.cr()
		}
	case "ul":
		if entering {
			r.out.blank()
			r.anchor(node)
			if node.Get("empty") == "true" {
				r.out.WriteString("@itemize @w{}\n")
			} else {
				r.out.WriteString("@itemize @bullet\n")
			}
		} else {
			r.out.cr()
			r.out.WriteString("@end itemize\n")
		}
	case "ol":
		if entering {
			r.out.blank()
			r.anchor(node)
			r.out.WriteString(enumerate(node) + "\n")
		} else {
			r.out.cr()
			r.out.WriteString("@end enumerate\n")
		}
	case "dl":
		if entering {
			r.out.blank()
			r.anchor(node)
			r.out.WriteString("@table @asis\n")
		} else {
			r.out.cr()
			r.out.WriteString("@end table\n")
		}
	case "li":
		if entering {
			r.out.cr()
			r.out.WriteString("@item ")
			r.anchor(node)
		} else {
			r.out.cr()
		}
	case "dt":
		if entering {
			r.out.cr()
			r.out.WriteString("@item ")
			r.anchor(node)
			r.out.WriteString(r.capture(true, func() { r.inlines(node) }) + "\n")
		}
		return SkipChildren
	case "dd":
		if !entering {
			r.out.cr()
		}
	case "blockquote":
		if entering {
			r.out.blank()
			r.anchor(node)
			r.out.WriteString("@quotation\n")
		} else {
			r.out.cr()
			if from := node.Get("quotedFrom"); from != "" {
				r.out.WriteString("@author " + r.esc(from) + "\n")
			}
			r.out.WriteString("@end quotation\n")
		}
	case "aside", "note":
		if entering {
			r.out.blank()
			r.anchor(node)
			label := "Note"
			if node.Is("note") && sectionTitle(node) != "" {
				label = sectionTitle(node)
			}
			r.out.WriteString("@quotation " + r.esc(label) + "\n")
		} else {
			r.out.cr()
			r.out.WriteString("@end quotation\n")
		}
	case "figure":
		if entering {
			r.out.blank()
			r.anchor(node)
		} else {
			r.caption(node, "Figure")
		}
	case "artwork":
		r.artwork(node)
		return SkipChildren
	case "sourcecode":
		r.sourcecode(node)
		return SkipChildren
	case "table":
		r.table(node)
		return SkipChildren
	case "author":
		r.author(node)
		return SkipChildren
	case "iref":
		r.out.cr()
		r.out.WriteString("@cindex " + r.esc(indexEntry(node)) + "\n")
		return SkipChildren
	case "br":
		r.out.WriteString("@*\n")
		return SkipChildren
	case "name", "reference", "referencegroup", "toc", "link",
		"displayreference", "keyword", "area", "workgroup", "svg":
		return SkipChildren
	default:
		return r.renderInline(node, entering)
	}
	return GoToNext
}

func hasContentBefore(n *Node) bool {
	for p := n.Prev; p != nil; p = p.Prev {
		if p.Type == Element || p.Type == Text && strings.TrimSpace(string(p.Literal)) != "" {
			return true
		}
	}
	return false
}

// renderFlat renders block constructs as plain inline text.
func (r *Texinfo) renderFlat(node *Node, entering bool) WalkStatus {
	if entering && anchorable[node.Name] {
		r.anchor(node)
	}
	switch node.Name {
	case "t", "li", "dd", "blockquote", "aside":
		if !entering {
			r.out.WriteByte(' ')
		}
	case "dt":
		if !entering {
			r.out.WriteString(": ")
		}
	case "artwork", "sourcecode":
		r.out.WriteString("@code{" + r.esc(collapse(node.Text())) + "}")
		return SkipChildren
	case "iref", "name", "svg", "reference", "referencegroup":
		return SkipChildren
	case "br":
		r.out.WriteByte(' ')
		return SkipChildren
	case "ul", "ol", "dl", "figure", "table", "thead", "tbody", "tfoot", "tr", "td", "th", "author":
	default:
		return r.renderInline(node, entering)
	}
	return GoToNext
}

var inlineCommands = map[string]string{
	"em":     "@emph{",
	"strong": "@strong{",
	"bcp14":  "@strong{",
	"tt":     "@code{",
	"sub":    "@sub{",
	"sup":    "@sup{",
}

func (r *Texinfo) renderInline(node *Node, entering bool) WalkStatus {
	if cmd, ok := inlineCommands[node.Name]; ok {
		if entering {
			r.out.WriteString(cmd)
		} else {
			r.out.WriteString("}")
		}
		return GoToNext
	}
	switch node.Name {
	case "eref":
		r.eref(node)
		return SkipChildren
	case "xref", "relref":
		r.xref(node)
		return SkipChildren
	case "cref":
		if node.Get("display") == "false" {
			return SkipChildren
		}
		if entering {
			r.out.WriteString("@emph{[")
		} else {
			if src := node.Get("source"); src != "" {
				r.out.WriteString(" --" + r.esc(src))
			}
			r.out.WriteString("]}")
		}
	case "contact":
		name := node.Get("fullname")
		if name == "" {
			name = node.Get("asciiFullname")
		}
		r.out.WriteString(r.esc(name))
		return SkipChildren
	}
	// span, u and unknown elements render their content
	return GoToNext
}

func enumerate(ol *Node) string {
	typ := ol.Get("type")
	start, err := strconv.Atoi(ol.Get("start"))
	if err != nil || start < 1 {
		start = 1
	}
	switch {
	case typ == "a" || strings.Contains(typ, "%c"):
		return "@enumerate " + string(rune('a'+(start-1)%26))
	case typ == "A" || strings.Contains(typ, "%C"):
		return "@enumerate " + string(rune('A'+(start-1)%26))
	case start > 1:
		return "@enumerate " + strconv.Itoa(start)
	}
	return "@enumerate"
}

func indexEntry(iref *Node) string {
	entry := collapse(iref.Get("item"))
	if sub := collapse(iref.Get("subitem")); sub != "" {
		entry += ", " + sub
	}
	return entry
}

// sectionLabel turns a section pn into "Section 1.2" or "Appendix A.1".
// Unnumbered sections have no label.
func sectionLabel(pn string) string {
	num := strings.TrimPrefix(pn, "section-")
	switch {
	case strings.HasPrefix(num, "appendix."):
		num = strings.TrimPrefix(num, "appendix.")
		if num == "" {
			return ""
		}
		return "Appendix " + strings.ToUpper(num[:1]) + num[1:]
	case num != "" && num[0] >= '0' && num[0] <= '9':
		return "Section " + num
	}
	return ""
}

// floatLabel turns a figure or table pn into "Figure 3".
func floatLabel(n *Node, kind string) string {
	pn := n.Get("pn")
	i := strings.LastIndexByte(pn, '-')
	if i < 0 || i == len(pn)-1 {
		return ""
	}
	return kind + " " + pn[i+1:]
}

func (r *Texinfo) caption(n *Node, kind string) {
	label := floatLabel(n, kind)
	name := ""
	if nm := n.Child("name"); nm != nil {
		name = r.capture(true, func() { r.inlines(nm) })
	}
	if label == "" && name == "" {
		return
	}
	r.out.blank()
	switch {
	case label == "":
		r.out.WriteString("@center " + name + "\n")
	case name == "":
		r.out.WriteString("@center " + label + "\n")
	default:
		r.out.WriteString("@center " + label + ": " + name + "\n")
	}
}

func isSVG(n *Node) bool {
	if n.Get("type") == "svg" && !n.HasElements() && strings.TrimSpace(n.Text()) == "" {
		return true
	}
	return n.Child("svg") != nil
}

func (r *Texinfo) artwork(n *Node) {
	r.out.blank()
	r.anchor(n)
	if isSVG(n) {
		r.out.WriteString("@emph{(Artwork only available as SVG)}\n")
		return
	}
	body := dedent([]byte(n.Text()))
	if body == "" {
		return
	}
	r.out.WriteString("@example\n" + r.esc(body) + "@end example\n")
}

func (r *Texinfo) sourcecode(n *Node) {
	body := dedent([]byte(n.Text()))
	if n.Get("markers") == "true" {
		begin := "<CODE BEGINS>"
		if name := n.Get("name"); name != "" {
			begin += " file \"" + name + "\""
		}
		body = begin + "\n" + body + "<CODE ENDS>\n"
	}
	r.out.blank()
	r.anchor(n)
	if body == "" {
		return
	}
	if strings.Contains(body, "@end verbatim") || !r.opts.UTF8 && !isASCII(body) {
		r.out.WriteString("@example\n" + r.esc(body) + "@end example\n")
		return
	}
	r.out.WriteString("@verbatim\n" + body + "@end verbatim\n")
}

func (r *Texinfo) table(n *Node) {
	type row struct {
		head  bool
		cells []string
	}
	var rows []row
	cols := 0
	addRows := func(group *Node, head bool) {
		for _, tr := range group.Children("tr") {
			var cells []string
			for _, c := range tr.Children("") {
				if !c.Is("td") && !c.Is("th") {
					continue
				}
				cell := c
				cells = append(cells, r.capture(true, func() { r.inlines(cell) }))
			}
			if len(cells) > cols {
				cols = len(cells)
			}
			rows = append(rows, row{head: head, cells: cells})
		}
	}
	addRows(n, false)
	addRows(n.Child("thead"), true)
	for _, body := range n.Children("tbody") {
		addRows(body, false)
	}
	addRows(n.Child("tfoot"), false)

	r.out.blank()
	r.anchor(n)
	if cols > 0 {
		fraction := fmt.Sprintf(" %.2f", 1/float64(cols))
		r.out.WriteString("@multitable @columnfractions" + strings.Repeat(fraction, cols) + "\n")
		for _, row := range rows {
			cmd := "@item"
			if row.head {
				cmd = "@headitem"
			}
			for i, cell := range row.cells {
				if i > 0 {
					cmd = "@tab"
				}
				r.out.WriteString(strings.TrimRight(cmd+" "+cell, " ") + "\n")
			}
		}
		r.out.WriteString("@end multitable\n")
	}
	r.caption(n, "Table")
}

func (r *Texinfo) author(n *Node) {
	a := readAuthor(n)
	var lines []string
	if name := a.Name(); name != "" {
		lines = append(lines, name)
	}
	if a.Organization != "" && a.Organization != a.Name() {
		lines = append(lines, a.Organization)
	}
	lines = append(lines, a.Address.Postal.Lines()...)
	if a.Address.Phone != "" {
		lines = append(lines, "Phone: "+a.Address.Phone)
	}
	if a.Address.Email != "" {
		lines = append(lines, "Email: "+a.Address.Email)
	}
	if a.Address.URI != "" {
		lines = append(lines, "URI: "+a.Address.URI)
	}
	if len(lines) == 0 {
		return
	}
	r.out.blank()
	r.out.WriteString("@display\n")
	for _, l := range lines {
		r.out.WriteString(r.esc(l) + "\n")
	}
	r.out.WriteString("@end display\n")
}

func (r *Texinfo) eref(n *Node) {
	target := n.Get("target")
	text := r.capture(true, func() { r.inlines(n) })
	var out string
	if text == "" || text == r.esc(target) {
		out = "@uref{" + r.escArg(target) + "}"
	} else {
		out = "@uref{" + r.escArg(target) + ", " + strings.ReplaceAll(text, ",", "@comma{}") + "}"
	}
	if n.Get("brackets") == "angle" {
		out = "<" + out + ">"
	}
	r.out.WriteString(out)
}

func (r *Texinfo) displayName(anchor string) string {
	if to := r.display[anchor]; to != "" {
		return to
	}
	return anchor
}

func withSection(label, section, format string) string {
	if section == "" {
		return label
	}
	switch format {
	case "comma":
		return label + ", Section " + section
	case "parens":
		return label + " (Section " + section + ")"
	case "bare":
		return section
	}
	return "Section " + section + " of " + label
}

func (r *Texinfo) xref(n *Node) {
	target := n.Get("target")
	format := n.Get("format")
	content := r.capture(true, func() { r.inlines(n) })
	el := r.targets[target]

	if el == nil {
		switch {
		case content != "":
			r.out.WriteString(content)
		case n.Get("derivedContent") != "":
			r.out.WriteString(r.esc(n.Get("derivedContent")))
		default:
			r.out.WriteString("[" + r.esc(target) + "]")
		}
		return
	}

	if el.Is("reference") || el.Is("referencegroup") {
		text := content
		if text == "" {
			text = r.esc(withSection("["+r.displayName(target)+"]", n.Get("section"), n.Get("sectionFormat")))
		}
		r.out.WriteString(text)
		if file := referenceInfoFile(el); file != "" && r.opts.HasLocalInfoFile(file) {
			r.out.WriteString(" (@pxref{Top,,," + file + "})")
		}
		return
	}

	if format == "none" {
		r.out.WriteString(content)
		return
	}
	label := content
	if label == "" {
		label = r.esc(r.xrefLabel(n, el, format))
	}
	r.out.WriteString("@ref{" + r.anchors[target] + "," + strings.ReplaceAll(label, ",", "@comma{}") + "}")
}

func (r *Texinfo) xrefLabel(x, el *Node, format string) string {
	if d := x.Get("derivedContent"); d != "" && format != "title" {
		return d
	}
	var label string
	switch el.Name {
	case "section", "references":
		label = sectionLabel(el.Get("pn"))
		if format == "counter" {
			label = strings.TrimPrefix(strings.TrimPrefix(label, "Section "), "Appendix ")
		}
		if label == "" || format == "title" {
			return "\"" + sectionTitle(el) + "\""
		}
	case "figure":
		label = floatLabel(el, "Figure")
	case "table":
		label = floatLabel(el, "Table")
	}
	if format == "title" && el.Child("name") != nil {
		return sectionTitle(el)
	}
	if label == "" {
		label = x.Get("target")
	}
	return label
}

// referenceInfoFile returns the Info file base name a reference would have
// if it were converted too: rfcNNNN or the draft name.
func referenceInfoFile(ref *Node) string {
	series := ref.Children("seriesInfo")
	series = append(series, ref.FindAll("front/seriesInfo")...)
	for _, si := range series {
		switch si.Get("name") {
		case "RFC":
			return "rfc" + si.Get("value")
		case "Internet-Draft":
			return si.Get("value")
		}
	}
	return ""
}

func (r *Texinfo) referenceTable(refs []*Node) {
	if len(refs) == 0 {
		return
	}
	r.out.blank()
	r.out.WriteString("@table @asis\n")
	for _, ref := range refs {
		anchor := ref.Get("anchor")
		r.out.WriteString("@item [" + r.esc(r.displayName(anchor)) + "]\n")
		r.anchor(ref)
		r.out.cr()
		if ref.Is("referencegroup") {
			for i, sub := range ref.Children("reference") {
				if i > 0 {
					r.out.WriteString("\n")
				}
				r.anchor(sub)
				r.citation(sub)
			}
			if target := ref.Get("target"); target != "" {
				r.out.WriteString("\n@uref{" + r.escArg(target) + "}\n")
			}
			continue
		}
		r.citation(ref)
	}
	r.out.WriteString("@end table\n")
}

// citation writes one reference in the usual RFC style:
// Authors, "Title", Series, Date, <URL>.
func (r *Texinfo) citation(ref *Node) {
	f := readFront(ref.Child("front"))
	var parts []string
	var names []string
	for _, a := range f.Author {
		names = append(names, citeName(a))
	}
	switch len(names) {
	case 0:
	case 1:
		parts = append(parts, r.esc(names[0]))
	case 2:
		parts = append(parts, r.esc(names[0]+" and "+names[1]))
	default:
		last := len(names) - 1
		parts = append(parts, r.esc(strings.Join(names[:last], ", ")+", and "+names[last]))
	}
	if f.Title != "" {
		parts = append(parts, "\""+r.esc(f.Title)+"\"")
	}
	series := f.SeriesInfo
	for _, si := range ref.Children("seriesInfo") {
		series = append(series, readSeriesInfo(si))
	}
	for _, si := range series {
		if si.Name == "" {
			continue
		}
		parts = append(parts, r.esc(si.Name+" "+si.Value))
	}
	for _, rc := range ref.Children("refcontent") {
		parts = append(parts, r.esc(collapse(rc.Text())))
	}
	if date := ref.Find("front/date"); date != nil {
		if d := strings.Join(nonEmpty(date.Get("month"), date.Get("year")), " "); d != "" {
			parts = append(parts, r.esc(d))
		}
	}
	if target := ref.Get("target"); target != "" {
		parts = append(parts, "@uref{"+r.escArg(target)+"}")
	}
	if len(parts) == 0 {
		parts = append(parts, r.esc(ref.Get("anchor")))
	}
	r.out.WriteString(strings.Join(parts, ", ") + ".\n")
	if file := referenceInfoFile(ref); file != "" && r.opts.HasLocalInfoFile(file) {
		r.out.WriteString("@xref{Top,,," + file + "}.\n")
	}
}

func citeName(a Author) string {
	var name string
	switch {
	case a.Surname != "" && a.Initials != "":
		name = a.Surname + ", " + a.Initials
	case a.Surname != "":
		name = a.Surname
	case a.Fullname != "":
		name = a.Fullname
	default:
		name = a.Organization
	}
	if a.Role == "editor" {
		name += ", Ed."
	}
	return name
}
