package xml2texi

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/russross/xml2texi/errors"
)

var ErrNoTree = errors.New("document root is not <rfc>")

// NeedsPrep reports whether the tree still has to go through Upgrade and
// Prep. Documents published by the RFC Editor are already prepared.
func NeedsPrep(t *Tree) bool {
	_, ok := t.Root().Lookup("prepTime")
	return !ok
}

// Normalize runs Upgrade and Prep on trees that are not prepared yet.
func Normalize(t *Tree, opts Options) (*Tree, error) {
	if !NeedsPrep(t) {
		return t, nil
	}
	if err := Upgrade(t, opts); err != nil {
		return nil, err
	}
	return Prep(t, opts, []string{V3PITarget})
}

// Prep fills in the derived parts of a v3 document: front matter defaults,
// section, figure and table numbers, anchors and reference order. It
// returns ErrNoTree when the root element is not <rfc>.
func Prep(t *Tree, opts Options, keepPIs []string) (*Tree, error) {
	root := t.Root()
	if root == nil || root.Name != "rfc" {
		return nil, errors.Wrapf(ErrNoTree, "%s", t.Source)
	}

	front := root.Child("front")
	if front == nil {
		if !opts.Liberal {
			return nil, errors.Newf("%s: missing <front>", t.Source)
		}
		opts.Warnf("%s: missing <front>, adding an empty one", t.Source)
		front = NewElement("front")
		root.PrependChild(front)
	}
	prepSeriesInfo(root, front)
	prepDate(front, opts.Date)

	numberSections(root)
	numberFloats(root, "figure")
	numberFloats(root, "table")
	if err := checkAnchors(t, opts); err != nil {
		return nil, err
	}
	if root.Get("sortRefs") == "true" {
		for _, refs := range root.Elements("references") {
			sortReferences(refs)
		}
	}
	removePIs(t.Doc, keepPIs)

	root.Set("prepTime", opts.Date.UTC().Format(time.RFC3339))
	return t, nil
}

func hasSeriesInfo(front *Node, name string) bool {
	for _, s := range front.Children("seriesInfo") {
		if s.Get("name") == name {
			return true
		}
	}
	return false
}

func prepSeriesInfo(root, front *Node) {
	var si *Node
	switch {
	case root.Get("number") != "":
		if hasSeriesInfo(front, "RFC") {
			return
		}
		si = NewElement("seriesInfo", "name", "RFC", "value", root.Get("number"))
	case root.Get("docName") != "":
		if hasSeriesInfo(front, "Internet-Draft") {
			return
		}
		si = NewElement("seriesInfo", "name", "Internet-Draft", "value", root.Get("docName"))
	default:
		return
	}
	if title := front.Child("title"); title != nil {
		title.InsertAfter(si)
		return
	}
	front.PrependChild(si)
}

func prepDate(front *Node, now time.Time) {
	date := front.Child("date")
	if date == nil {
		date = NewElement("date")
		if authors := front.Children("author"); len(authors) > 0 {
			authors[len(authors)-1].InsertAfter(date)
		} else {
			front.AppendChild(date)
		}
	}
	if date.Get("year") == "" {
		date.Set("year", strconv.Itoa(now.Year()))
		if date.Get("month") == "" {
			date.Set("month", now.Month().String())
			if date.Get("day") == "" {
				date.Set("day", strconv.Itoa(now.Day()))
			}
		}
	}
}

// numberSections assigns pn attributes to sections and references
// containers that lack them, and anchors to sections that lack them.
// Middle sections count 1, 2, ...; references sections in the back
// continue that count, other back sections are appendices a, b, ...
func numberSections(root *Node) {
	var nb numberer
	counter := 0
	decimal := strconv.Itoa
	letter := func(n int) string { return "appendix." + appendixLetter(n) }
	for _, s := range root.FindAll("middle/section") {
		nb.top(s, &counter, decimal)
	}
	appendix := 0
	for _, s := range root.Child("back").Children("") {
		switch s.Name {
		case "references":
			nb.top(s, &counter, decimal)
		case "section":
			nb.top(s, &appendix, letter)
		}
	}
}

type numberer struct {
	unnumbered int
}

func (nb *numberer) top(s *Node, counter *int, format func(int) string) {
	if s.Get("numbered") == "false" {
		nb.skip(s)
		return
	}
	*counter++
	num := format(*counter)
	setPn(s, "section-"+num)
	nb.children(s, num)
}

func (nb *numberer) children(s *Node, num string) {
	child := 0
	for _, c := range subsections(s) {
		if c.Get("numbered") == "false" {
			nb.skip(c)
			continue
		}
		child++
		sub := num + "." + strconv.Itoa(child)
		setPn(c, "section-"+sub)
		nb.children(c, sub)
	}
}

func (nb *numberer) skip(s *Node) {
	nb.unnumbered++
	setPn(s, "section-unnumbered-"+strconv.Itoa(nb.unnumbered))
	for _, c := range subsections(s) {
		nb.skip(c)
	}
}

func subsections(s *Node) []*Node {
	var subs []*Node
	for _, c := range s.Children("") {
		if c.Is("section") || c.Is("references") {
			subs = append(subs, c)
		}
	}
	return subs
}

func setPn(s *Node, pn string) {
	if s.Get("pn") == "" {
		s.Set("pn", pn)
	}
	if s.Get("anchor") == "" {
		s.Set("anchor", s.Get("pn"))
	}
}

// appendixLetter returns a, b, ..., z, aa, ab, ...
func appendixLetter(n int) string {
	var s []byte
	for n > 0 {
		n--
		s = append([]byte{byte('a' + n%26)}, s...)
		n /= 26
	}
	return string(s)
}

func numberFloats(root *Node, name string) {
	n := 0
	for _, f := range root.Elements(name) {
		n++
		if f.Get("pn") == "" {
			f.Set("pn", name+"-"+strconv.Itoa(n))
		}
	}
}

func checkAnchors(t *Tree, opts Options) error {
	seen := map[string]bool{}
	for _, n := range t.Root().Elements("") {
		anchor := n.Get("anchor")
		if anchor == "" {
			continue
		}
		if seen[anchor] {
			if !opts.Liberal {
				return errors.Newf("%s: duplicate anchor %q", t.Source, anchor)
			}
			opts.Warnf("%s: duplicate anchor %q", t.Source, anchor)
			continue
		}
		seen[anchor] = true
	}
	return nil
}

func sortReferences(refs *Node) {
	display := map[string]string{}
	for p := refs; p != nil; p = p.Parent {
		for _, d := range p.Children("displayreference") {
			display[d.Get("target")] = d.Get("to")
		}
	}
	var entries []*Node
	for _, c := range refs.Children("") {
		if c.Is("reference") || c.Is("referencegroup") {
			entries = append(entries, c)
		}
	}
	key := func(n *Node) string {
		anchor := n.Get("anchor")
		if to, ok := display[anchor]; ok && to != "" {
			anchor = to
		}
		return strings.ToLower(anchor)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return key(entries[i]) < key(entries[j])
	})
	for _, e := range entries {
		refs.AppendChild(e)
	}
}

func removePIs(doc *Node, keep []string) {
	var drop []*Node
	doc.Walk(func(n *Node, entering bool) WalkStatus {
		if entering && n.Type == ProcInst {
			for _, k := range keep {
				if n.Target == k {
					return GoToNext
				}
			}
			drop = append(drop, n)
		}
		return GoToNext
	})
	for _, n := range drop {
		n.Unlink()
	}
}
