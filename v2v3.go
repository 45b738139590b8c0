package xml2texi

import (
	"regexp"
	"strings"
)

// PIs are the <?rfc ...?> processing instructions that map onto v3 root
// attributes.
var PIs = map[string]string{
	"toc":      "tocInclude",
	"tocdepth": "tocDepth",
	"sortrefs": "sortRefs",
	"symrefs":  "symRefs",
}

var rePIPair = regexp.MustCompile(`([A-Za-z]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)

// Upgrade rewrites vocabulary v2 constructs into their v3 equivalents in
// place. Documents already marked version 3, or any document when the
// vocabulary is "v3", are left alone apart from the version attribute.
func Upgrade(t *Tree, opts Options) error {
	root := t.Root()
	if root == nil || root.Name != "rfc" {
		return nil
	}
	if opts.Vocabulary == "v3" || root.Get("version") == "3" {
		root.Set("version", "3")
		return nil
	}

	upgradePIs(t.Doc, root)

	for _, n := range root.Elements("") {
		switch n.Name {
		case "section", "figure", "note", "references":
			titleToName(n)
		case "spanx":
			upgradeSpanx(n)
		case "vspace":
			n.Name = "br"
			n.Del("blankLines")
		}
	}
	for _, n := range root.Elements("facsimile") {
		n.Unlink()
	}
	for _, n := range root.Elements("format") {
		n.Unlink()
	}
	for _, n := range root.Elements("texttable") {
		upgradeTexttable(n)
	}
	for _, n := range root.Elements("figure") {
		hoistAround(n)
	}

	// Inner lists first, so nested lists end up inside their items.
	lists := root.Elements("list")
	for i := len(lists) - 1; i >= 0; i-- {
		upgradeList(lists[i], inheritedStyle(lists[i]))
	}

	root.Set("version", "3")
	return nil
}

func upgradePIs(doc, root *Node) {
	doc.Walk(func(n *Node, entering bool) WalkStatus {
		if !entering || n.Type != ProcInst || n.Target != "rfc" {
			return GoToNext
		}
		for _, m := range rePIPair.FindAllStringSubmatch(string(n.Literal), -1) {
			attr, ok := PIs[m[1]]
			if !ok {
				continue
			}
			if _, set := root.Lookup(attr); set {
				continue
			}
			value := m[2] + m[3]
			switch value {
			case "yes":
				value = "true"
			case "no":
				value = "false"
			}
			root.Set(attr, value)
		}
		return GoToNext
	})
}

func titleToName(n *Node) {
	title, ok := n.Lookup("title")
	n.Del("title")
	if !ok || n.Child("name") != nil {
		return
	}
	name := NewElement("name")
	name.AppendChild(NewText(title))
	n.PrependChild(name)
}

func upgradeSpanx(n *Node) {
	switch n.Get("style") {
	case "strong":
		n.Name = "strong"
	case "verb":
		n.Name = "tt"
	default:
		n.Name = "em"
	}
	n.Attr = nil
}

func moveChildren(dst, src *Node) {
	for c := src.FirstChild; c != nil; {
		next := c.Next
		dst.AppendChild(c)
		c = next
	}
}

// hoistAround turns <preamble> and <postamble> into paragraphs around n.
func hoistAround(n *Node) {
	if pre := n.Child("preamble"); pre != nil {
		pre.Name = "t"
		n.InsertBefore(pre)
	}
	if post := n.Child("postamble"); post != nil {
		post.Name = "t"
		n.InsertAfter(post)
	}
}

func upgradeTexttable(tt *Node) {
	hoistAround(tt)

	table := NewElement("table")
	if anchor := tt.Get("anchor"); anchor != "" {
		table.Set("anchor", anchor)
	}
	if title := tt.Get("title"); title != "" {
		name := NewElement("name")
		name.AppendChild(NewText(title))
		table.AppendChild(name)
	}

	cols := tt.Children("ttcol")
	head := NewElement("tr")
	headed := false
	for _, col := range cols {
		th := NewElement("th")
		if align := col.Get("align"); align != "" {
			th.Set("align", align)
		}
		if strings.TrimSpace(col.Text()) != "" {
			headed = true
		}
		moveChildren(th, col)
		head.AppendChild(th)
	}
	if headed {
		thead := NewElement("thead")
		thead.AppendChild(head)
		table.AppendChild(thead)
	}

	width := len(cols)
	if width == 0 {
		width = 1
	}
	tbody := NewElement("tbody")
	var row *Node
	for i, c := range tt.Children("c") {
		if i%width == 0 {
			row = NewElement("tr")
			tbody.AppendChild(row)
		}
		td := NewElement("td")
		moveChildren(td, c)
		row.AppendChild(td)
	}
	table.AppendChild(tbody)
	tt.ReplaceWith(table)
}

// inheritedStyle returns the style of the closest enclosing v2 list.
func inheritedStyle(list *Node) string {
	for p := list.Parent; p != nil; p = p.Parent {
		if p.Is("list") {
			if style := p.Get("style"); style != "" {
				return style
			}
		}
	}
	return ""
}

func listKind(style string) (name, typ string) {
	switch {
	case style == "symbols":
		return "ul", ""
	case style == "numbers":
		return "ol", ""
	case style == "letters":
		return "ol", "a"
	case style == "hanging":
		return "dl", ""
	case strings.HasPrefix(style, "format "):
		return "ol", strings.TrimSpace(strings.TrimPrefix(style, "format "))
	}
	return "ul", ""
}

// upgradeList converts a v2 <list> into <ul>, <ol> or <dl>. A list whose
// paragraph is not itself a list item is moved out of the paragraph,
// splitting it around the list.
func upgradeList(list *Node, inherited string) {
	style := list.Get("style")
	if style == "" {
		style = inherited
	}
	name, typ := listKind(style)
	empty := style == "" || style == "empty"

	items := list.Children("t")
	list.Attr = nil
	list.Name = name
	switch {
	case name == "dl":
		for _, t := range items {
			dt := NewElement("dt")
			dt.AppendChild(NewText(t.Get("hangText")))
			dd := NewElement("dd")
			moveChildren(dd, t)
			t.ReplaceWith(dt, dd)
		}
	default:
		if typ != "" {
			list.Set("type", typ)
		}
		if name == "ul" && empty {
			list.Set("empty", "true")
		}
		for _, t := range items {
			t.Name = "li"
			t.Attr = nil
		}
	}

	parent := list.Parent
	if !parent.Is("t") || parent.Parent.Is("list") {
		return
	}
	after := NewElement("t")
	for c := list.Next; c != nil; {
		next := c.Next
		after.AppendChild(c)
		c = next
	}
	parent.InsertAfter(list)
	if hasContent(after) {
		list.InsertAfter(after)
	}
	if !hasContent(parent) {
		parent.Unlink()
	}
}

func hasContent(n *Node) bool {
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Type == Element {
			return true
		}
		if c.Type == Text && strings.TrimSpace(string(c.Literal)) != "" {
			return true
		}
	}
	return false
}
