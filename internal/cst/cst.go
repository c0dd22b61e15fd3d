// Package cst turns action outline text into a concrete syntax tree.
//
// The tree mirrors what a tree-sitter grammar for the notation would produce:
// every [Node] carries a [Kind] and a half-open byte range into the source
// owned by its [Tree]. Nodes never copy text. Call [Tree.Text] to read it.
//
// The notation is line oriented:
//
//	(x) Root name $description !2 +ctx @home #3f0c6a4e-8a0e-4bd6-9a2e-7a1c1a0b9f11
//	* story text for the root
//	> ( ) child
//	>> (-) grandchild
//	>>> (=) great grandchild
//	>>>> (_) great great grandchild
//	>>>>> ( ) leaf
//	// comment
//
// The number of leading '>' characters is the depth of a line. Depth 0 is a
// root action and depth 5 is a leaf. Parsing is error tolerant: lines that do
// not fit (a sixth '>', a skipped level, a stray story) become [KindError]
// nodes and the rest of the document still parses. Deciding what to do with
// error nodes is up to the consumer.
package cst

import (
	"strings"
)

// Kind names a node type.
type Kind string

// Structural kinds.
const (
	KindDocument                    Kind = "document"
	KindRootAction                  Kind = "root_action"
	KindStory                       Kind = "story"
	KindChildActions                Kind = "child_actions"
	KindChildAction                 Kind = "child_action"
	KindGrandChildActions           Kind = "grand_child_actions"
	KindGrandChildAction            Kind = "grand_child_action"
	KindGreatGrandChildActions      Kind = "great_grand_child_actions"
	KindGreatGrandChildAction       Kind = "great_grand_child_action"
	KindGreatGreatGrandChildActions Kind = "great_great_grand_child_actions"
	KindGreatGreatGrandChildAction  Kind = "great_great_grand_child_action"
	KindLeafActions                 Kind = "leaf_actions"
	KindLeafAction                  Kind = "leaf_action"
	KindComment                     Kind = "comment"
	KindError                       Kind = "ERROR"
)

// Core action kinds.
const (
	KindCoreAction        Kind = "core_action"
	KindState             Kind = "state"
	KindName              Kind = "name"
	KindDescription       Kind = "description"
	KindPriority          Kind = "priority"
	KindContextList       Kind = "context_list"
	KindDoDateTime        Kind = "do_date_time"
	KindCompletedDateTime Kind = "completed_date_time"
	KindID                Kind = "id"
)

// State kinds, the single child of a [KindState] node.
const (
	KindNotStarted Kind = "not_started"
	KindCompleted  Kind = "completed"
	KindInProgress Kind = "in_progress"
	KindBlocked    Kind = "blocked"
	KindCancelled  Kind = "cancelled"
)

// MaxDepth is the depth of a leaf action line.
const MaxDepth = 5

// levelKinds is indexed by depth. group is the node holding the items of
// that depth under their parent; roots hang off the document directly.
var levelKinds = [MaxDepth + 1]struct{ group, item Kind }{
	{"", KindRootAction},
	{KindChildActions, KindChildAction},
	{KindGrandChildActions, KindGrandChildAction},
	{KindGreatGrandChildActions, KindGreatGrandChildAction},
	{KindGreatGreatGrandChildActions, KindGreatGreatGrandChildAction},
	{KindLeafActions, KindLeafAction},
}

// Node is one CST node. Start and End are byte offsets into the source of
// the owning [Tree].
type Node struct {
	Kind     Kind
	Start    int
	End      int
	Children []*Node
}

// Child returns the i-th child or nil.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}

	return n.Children[i]
}

// HasError reports whether n or any descendant is a [KindError] node.
func (n *Node) HasError() bool {
	if n == nil {
		return false
	}

	if n.Kind == KindError {
		return true
	}

	for _, c := range n.Children {
		if c.HasError() {
			return true
		}
	}

	return false
}

// Point is a 1-based line and byte column.
type Point struct {
	Line   int
	Column int
}

// Tree is a parsed document. The source string is shared by all nodes and
// outlives them; the tree holds no other copy of the text.
type Tree struct {
	source string
	root   *Node
}

// Root returns the [KindDocument] node.
func (t *Tree) Root() *Node {
	return t.root
}

// Source returns the text the tree was parsed from.
func (t *Tree) Source() string {
	return t.source
}

// Text returns the source text covered by n.
func (t *Tree) Text(n *Node) string {
	return t.source[n.Start:n.End]
}

// Position converts a byte offset into a line and column.
func (t *Tree) Position(offset int) Point {
	if offset > len(t.source) {
		offset = len(t.source)
	}

	before := t.source[:offset]
	line := strings.Count(before, "\n") + 1
	col := offset - strings.LastIndexByte(before, '\n')

	return Point{Line: line, Column: col}
}

// String renders the tree as an s-expression of node kinds, e.g.
// "(document (root_action (core_action (state (completed)) (name))))".
func (t *Tree) String() string {
	var b strings.Builder

	writeSexp(&b, t.root)

	return b.String()
}

func writeSexp(b *strings.Builder, n *Node) {
	b.WriteByte('(')
	b.WriteString(string(n.Kind))

	for _, c := range n.Children {
		b.WriteByte(' ')
		writeSexp(b, c)
	}

	b.WriteByte(')')
}
