package xml2texi

import (
	"strings"
	"testing"
)

func childNames(n *Node) []string {
	var names []string
	for _, c := range n.Children("") {
		names = append(names, c.Name)
	}
	return names
}

func TestNodeLinks(t *testing.T) {
	parent := NewElement("section")
	a := NewElement("t")
	b := NewElement("ul")
	c := NewElement("t")
	parent.AppendChild(a)
	parent.AppendChild(c)
	c.InsertBefore(b)
	if got := strings.Join(childNames(parent), ","); got != "t,ul,t" {
		t.Fatalf("children: got %q", got)
	}
	b.Unlink()
	if a.Next != c || c.Prev != a {
		t.Errorf("unlink did not relink siblings")
	}
	name := NewElement("name")
	parent.PrependChild(name)
	if parent.FirstChild != name {
		t.Errorf("prepend: first child is %v", parent.FirstChild.Name)
	}
	a.InsertAfter(b)
	if got := strings.Join(childNames(parent), ","); got != "name,t,ul,t" {
		t.Errorf("insert after: got %q", got)
	}
}

func TestNodeUnwrap(t *testing.T) {
	parent := NewElement("t")
	span := NewElement("span")
	span.AppendChild(NewText("a"))
	span.AppendChild(NewText("b"))
	parent.AppendChild(span)
	span.Unwrap()
	if parent.HasElements() {
		t.Errorf("span still present")
	}
	if got := parent.Text(); got != "ab" {
		t.Errorf("text: got %q", got)
	}
}

func TestNodeAttributes(t *testing.T) {
	n := NewElement("section", "anchor", "intro", "numbered", "false")
	if n.Get("anchor") != "intro" {
		t.Errorf("anchor: got %q", n.Get("anchor"))
	}
	n.Set("anchor", "other")
	if len(n.Attr) != 2 || n.Get("anchor") != "other" {
		t.Errorf("set should replace in place: %v", n.Attr)
	}
	n.Del("numbered")
	if _, ok := n.Lookup("numbered"); ok {
		t.Errorf("numbered not deleted")
	}
	var nilNode *Node
	if nilNode.Get("x") != "" || nilNode.Text() != "" || nilNode.Child("x") != nil {
		t.Errorf("nil node accessors should be empty")
	}
}

func TestNodeFind(t *testing.T) {
	tree := mustParse(t, `<rfc><front><title>One</title><seriesInfo name="RFC" value="1"/>`+
		`<seriesInfo name="DOI" value="x"/></front></rfc>`, testOptions())
	root := tree.Root()
	if got := root.Find("front/title").Text(); got != "One" {
		t.Errorf("find title: got %q", got)
	}
	if got := len(root.FindAll("front/seriesInfo")); got != 2 {
		t.Errorf("find all: got %d", got)
	}
	if root.Find("middle/section") != nil {
		t.Errorf("missing path should be nil")
	}
}

func TestWalkSkipChildren(t *testing.T) {
	tree := mustParse(t, `<rfc><a><b/></a><c/></rfc>`, testOptions())
	var seen []string
	tree.Root().Walk(func(n *Node, entering bool) WalkStatus {
		if !entering {
			return GoToNext
		}
		seen = append(seen, n.Name)
		if n.Name == "a" {
			return SkipChildren
		}
		return GoToNext
	})
	if got := strings.Join(seen, ","); got != "rfc,a,c" {
		t.Errorf("walk: got %q", got)
	}
}
