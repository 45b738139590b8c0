//
// xml2texi: RFC XML to Texinfo conversion
// Available at http://github.com/russross/xml2texi
//
// Distributed under the Simplified BSD License.
// See README.md for details.
//

package xml2texi

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

type NodeType int

const (
	Document NodeType = iota
	Element
	Text
	Comment
	ProcInst
)

var nodeTypeNames = []string{
	Document: "Document",
	Element:  "Element",
	Text:     "Text",
	Comment:  "Comment",
	ProcInst: "ProcInst",
}

func (t NodeType) String() string {
	return nodeTypeNames[t]
}

// Node is a single node in the parsed XML tree. It holds connections to the
// structurally neighboring nodes, the element name and attributes for
// elements, and the literal contents of text, comment and processing
// instruction nodes.
type Node struct {
	Type       NodeType // Determines the type of the node
	Parent     *Node    // Points to the parent
	FirstChild *Node    // Points to the first child, if any
	LastChild  *Node    // Points to the last child, if any
	Prev       *Node    // Previous sibling; nil if it's the first child
	Next       *Node    // Next sibling; nil if it's the last child

	Space  string     // Namespace of the element, as resolved by the decoder
	Name   string     // Local element name
	Attr   []xml.Attr // Element attributes in document order
	Target string     // Processing instruction target

	Literal []byte // Text contents of the leaf nodes
}

func NewNode(typ NodeType) *Node {
	return &Node{Type: typ}
}

// NewElement returns an element node. attrs are key/value pairs.
func NewElement(name string, attrs ...string) *Node {
	n := &Node{Type: Element, Name: name}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Set(attrs[i], attrs[i+1])
	}
	return n
}

func NewText(s string) *Node {
	return &Node{Type: Text, Literal: []byte(s)}
}

// Is reports whether n is an element with the given local name.
func (n *Node) Is(name string) bool {
	return n != nil && n.Type == Element && n.Name == name
}

// Get returns the value of the attribute key, or "" when it is not set.
func (n *Node) Get(key string) string {
	v, _ := n.Lookup(key)
	return v
}

func (n *Node) Lookup(key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Name.Local == key && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

// Set sets attribute key, replacing an existing value in place.
func (n *Node) Set(key, value string) {
	for i := range n.Attr {
		if n.Attr[i].Name.Local == key && n.Attr[i].Name.Space == "" {
			n.Attr[i].Value = value
			return
		}
	}
	n.Attr = append(n.Attr, xml.Attr{Name: xml.Name{Local: key}, Value: value})
}

// Del removes attribute key.
func (n *Node) Del(key string) {
	for i := range n.Attr {
		if n.Attr[i].Name.Local == key && n.Attr[i].Name.Space == "" {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

func (n *Node) Unlink() {
	if n.Prev != nil {
		n.Prev.Next = n.Next
	} else if n.Parent != nil {
		n.Parent.FirstChild = n.Next
	}
	if n.Next != nil {
		n.Next.Prev = n.Prev
	} else if n.Parent != nil {
		n.Parent.LastChild = n.Prev
	}
	n.Parent = nil
	n.Next = nil
	n.Prev = nil
}

func (n *Node) AppendChild(child *Node) {
	child.Unlink()
	child.Parent = n
	if n.LastChild != nil {
		n.LastChild.Next = child
		child.Prev = n.LastChild
		n.LastChild = child
	} else {
		n.FirstChild = child
		n.LastChild = child
	}
}

// PrependChild makes child the first child of n.
func (n *Node) PrependChild(child *Node) {
	if n.FirstChild == nil {
		n.AppendChild(child)
		return
	}
	n.FirstChild.InsertBefore(child)
}

// InsertBefore puts sibling right before n.
func (n *Node) InsertBefore(sibling *Node) {
	sibling.Unlink()
	sibling.Prev = n.Prev
	if sibling.Prev != nil {
		sibling.Prev.Next = sibling
	}
	sibling.Next = n
	n.Prev = sibling
	sibling.Parent = n.Parent
	if sibling.Prev == nil && sibling.Parent != nil {
		sibling.Parent.FirstChild = sibling
	}
}

// InsertAfter puts sibling right after n.
func (n *Node) InsertAfter(sibling *Node) {
	if n.Next != nil {
		n.Next.InsertBefore(sibling)
		return
	}
	if n.Parent != nil {
		n.Parent.AppendChild(sibling)
	}
}

// ReplaceWith puts nodes where n is and unlinks n.
func (n *Node) ReplaceWith(nodes ...*Node) {
	for _, r := range nodes {
		n.InsertBefore(r)
	}
	n.Unlink()
}

// Unwrap replaces n with its children.
func (n *Node) Unwrap() {
	for c := n.FirstChild; c != nil; {
		next := c.Next
		n.InsertBefore(c)
		c = next
	}
	n.Unlink()
}

// Children returns the child elements of n with the given name, or all child
// elements when name is empty.
func (n *Node) Children(name string) []*Node {
	if n == nil {
		return nil
	}
	var kids []*Node
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Type == Element && (name == "" || c.Name == name) {
			kids = append(kids, c)
		}
	}
	return kids
}

// Child returns the first child element with the given name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Is(name) {
			return c
		}
	}
	return nil
}

// Find returns the first element matching a slash separated path of child
// element names relative to n, e.g. "front/title".
func (n *Node) Find(path string) *Node {
	all := n.FindAll(path)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindAll returns every element matching path, in document order.
func (n *Node) FindAll(path string) []*Node {
	if n == nil {
		return nil
	}
	current := []*Node{n}
	for _, step := range strings.Split(strings.Trim(path, "/"), "/") {
		if step == "" || step == "." {
			continue
		}
		var next []*Node
		for _, c := range current {
			next = append(next, c.Children(step)...)
		}
		current = next
	}
	return current
}

// Text returns the concatenated character data of n and its descendants.
func (n *Node) Text() string {
	if n == nil {
		return ""
	}
	var buf bytes.Buffer
	n.Walk(func(node *Node, entering bool) WalkStatus {
		if entering && node.Type == Text {
			buf.Write(node.Literal)
		}
		return GoToNext
	})
	return buf.String()
}

// HasElements reports whether n has any element children.
func (n *Node) HasElements() bool {
	for c := n.FirstChild; c != nil; c = c.Next {
		if c.Type == Element {
			return true
		}
	}
	return false
}

func (n *Node) isContainer() bool {
	return n.Type == Document || n.Type == Element
}

// WalkStatus allows NodeVisitor to have some control over the tree traversal.
// It is returned from NodeVisitor and different values allow Node.Walk to
// decide which node to go to next.
type WalkStatus int

const (
	GoToNext     WalkStatus = iota // The default traversal of every node.
	SkipChildren                   // Skips all children of current node.
	Terminate                      // Terminates the traversal.
)

// NodeVisitor is a callback to be called when traversing the tree.
// Called twice for every node: once with entering=true when the branch is
// first visited, then with entering=false after all the children are done.
type NodeVisitor func(node *Node, entering bool) WalkStatus

// Walk visits n and its descendants. The visitor must not unlink the node it
// is called with; collect nodes and change the tree after the walk.
func (n *Node) Walk(visitor NodeVisitor) {
	walker := NewNodeWalker(n)
	node, entering := walker.next()
	for node != nil {
		status := visitor(node, entering)
		switch status {
		case GoToNext:
			node, entering = walker.next()
		case SkipChildren:
			node, entering = walker.resumeAt(node, false)
		case Terminate:
			return
		}
	}
}

type NodeWalker struct {
	current  *Node
	root     *Node
	entering bool
}

func NewNodeWalker(root *Node) *NodeWalker {
	return &NodeWalker{
		current:  root,
		root:     nil,
		entering: true,
	}
}

func (nw *NodeWalker) next() (*Node, bool) {
	if nw.current == nil {
		return nil, false
	}
	if nw.root == nil {
		nw.root = nw.current
		return nw.current, nw.entering
	}
	if nw.entering && nw.current.isContainer() {
		if nw.current.FirstChild != nil {
			nw.current = nw.current.FirstChild
			nw.entering = true
		} else {
			nw.entering = false
		}
	} else if nw.current == nw.root {
		return nil, false
	} else if nw.current.Next == nil {
		nw.current = nw.current.Parent
		nw.entering = false
	} else {
		nw.current = nw.current.Next
		nw.entering = true
	}
	return nw.current, nw.entering
}

func (nw *NodeWalker) resumeAt(node *Node, entering bool) (*Node, bool) {
	nw.current = node
	nw.entering = entering
	return nw.next()
}

// Elements returns n and all element descendants with the given name in
// document order. An empty name matches every element.
func (n *Node) Elements(name string) []*Node {
	var found []*Node
	n.Walk(func(node *Node, entering bool) WalkStatus {
		if entering && node.Type == Element && (name == "" || node.Name == name) {
			found = append(found, node)
		}
		return GoToNext
	})
	return found
}

func (n *Node) String() string {
	return dumpString(n)
}

func dump_r(n *Node, depth int) string {
	if n == nil {
		return ""
	}
	indent := bytes.Repeat([]byte("\t"), depth)
	var result string
	switch n.Type {
	case Element:
		result = fmt.Sprintf("%s%s(%s)\n", indent, n.Type, n.Name)
	case ProcInst:
		result = fmt.Sprintf("%s%s(%s %q)\n", indent, n.Type, n.Target, n.Literal)
	default:
		result = fmt.Sprintf("%s%s(%q)\n", indent, n.Type, n.Literal)
	}
	for c := n.FirstChild; c != nil; c = c.Next {
		result += dump_r(c, depth+1)
	}
	return result
}

func dumpString(n *Node) string {
	return dump_r(n, 0)
}
