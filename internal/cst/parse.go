package cst

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrParseFailure is returned when no tree can be produced at all.
var ErrParseFailure = errors.New("parse failure")

const (
	descendMarker = '>'
	storyMarker   = '*'
	commentPrefix = "//"

	descriptionMarker = '$'
	priorityMarker    = '!'
	contextMarker     = '+'
	atMarker          = '@' // context tag, or do date when followed by a timestamp
	completedMarker   = '%'
	idMarker          = '#'
)

// TimestampLayout is the minute-granularity layout of date fields.
const TimestampLayout = "2006-01-02T15:04"

// Parse builds a tree for source. The returned tree may contain
// [KindError] nodes; only input that cannot be tokenized at all (invalid
// UTF-8) fails with [ErrParseFailure].
func Parse(source string) (*Tree, error) {
	if !utf8.ValidString(source) {
		return nil, fmt.Errorf("%w: source is not valid UTF-8", ErrParseFailure)
	}

	p := parser{src: source}

	return &Tree{source: source, root: p.parse()}, nil
}

// frame is an open action at some depth plus its lazily created child group.
type frame struct {
	action *Node
	group  *Node
}

type parser struct {
	src   string
	doc   *Node
	stack []frame // stack[d] is the innermost open action at depth d
}

func (p *parser) parse() *Node {
	p.doc = &Node{Kind: KindDocument, Start: 0, End: len(p.src)}

	offset := 0
	for offset < len(p.src) {
		lineEnd := len(p.src)
		next := len(p.src)

		if idx := strings.IndexByte(p.src[offset:], '\n'); idx >= 0 {
			lineEnd = offset + idx
			next = lineEnd + 1
		}

		p.line(offset, p.trimRight(offset, lineEnd))

		offset = next
	}

	return p.doc
}

func (p *parser) line(start, end int) {
	i := p.skipSpace(start, end)
	if i == end {
		return
	}

	rest := p.src[i:end]

	switch {
	case strings.HasPrefix(rest, commentPrefix):
		p.attach(&Node{Kind: KindComment, Start: i, End: end})

		return
	case rest[0] == storyMarker:
		p.story(i, end)

		return
	}

	depth := 0

	j := i
	for j < end && p.src[j] == descendMarker {
		depth++
		j++
	}

	p.action(depth, i, j, end)
}

func (p *parser) action(depth, start, markersEnd, end int) {
	// Deeper than a leaf, or the parent level is not open.
	if depth > MaxDepth || depth > len(p.stack) {
		p.attach(&Node{Kind: KindError, Start: start, End: end})

		return
	}

	p.stack = p.stack[:depth]

	node := &Node{Kind: levelKinds[depth].item, Start: start, End: end}
	if core := p.coreAction(p.skipSpace(markersEnd, end), end); core != nil {
		node.Children = append(node.Children, core)
	}

	if depth == 0 {
		p.doc.Children = append(p.doc.Children, node)
	} else {
		parent := &p.stack[depth-1]
		if parent.group == nil {
			parent.group = &Node{Kind: levelKinds[depth].group, Start: start, End: end}
			parent.action.Children = append(parent.action.Children, parent.group)
		}

		parent.group.Children = append(parent.group.Children, node)
	}

	p.extend(end)
	p.stack = append(p.stack, frame{action: node})
}

func (p *parser) story(markerPos, end int) {
	if len(p.stack) == 0 {
		p.attach(&Node{Kind: KindError, Start: markerPos, End: end})

		return
	}

	root := p.stack[0].action

	// A second story is a fault of the root, not of an open child.
	if hasChild(root, KindStory) {
		root.Children = append(root.Children, &Node{Kind: KindError, Start: markerPos, End: end})
		p.extend(end)

		return
	}

	// A story belongs to the root and closes any open children.
	p.stack = p.stack[:1]

	textStart := p.skipSpace(markerPos+1, end)
	root.Children = append(root.Children, &Node{Kind: KindStory, Start: textStart, End: end})

	p.extend(end)
}

// attach hangs n off the innermost open action, or the document.
func (p *parser) attach(n *Node) {
	if len(p.stack) == 0 {
		p.doc.Children = append(p.doc.Children, n)

		return
	}

	top := p.stack[len(p.stack)-1].action
	top.Children = append(top.Children, n)

	p.extend(n.End)
}

func (p *parser) extend(end int) {
	for k := range p.stack {
		if p.stack[k].action.End < end {
			p.stack[k].action.End = end
		}

		if g := p.stack[k].group; g != nil && g.End < end {
			g.End = end
		}
	}
}

func (p *parser) coreAction(start, end int) *Node {
	if start >= end {
		return nil
	}

	core := &Node{Kind: KindCoreAction, Start: start, End: end}

	i := start
	if state, stateEnd := p.state(start, end); state != nil {
		core.Children = append(core.Children, state)
		i = stateEnd
	}

	p.fields(core, p.tokenize(i, end))

	return core
}

// state recognizes "(c)" where c is at most one rune. Any other rune than
// the five state characters yields a state node whose child is an error.
func (p *parser) state(start, end int) (*Node, int) {
	if p.src[start] != '(' || start+1 >= end {
		return nil, start
	}

	innerStart := start + 1
	innerEnd := innerStart

	if p.src[innerStart] != ')' {
		_, size := utf8.DecodeRuneInString(p.src[innerStart:end])
		innerEnd = innerStart + size
	}

	if innerEnd >= end || p.src[innerEnd] != ')' {
		return nil, start
	}

	kind := KindError
	if innerEnd-innerStart == 1 {
		if k, ok := stateKinds[p.src[innerStart]]; ok {
			kind = k
		}
	}

	node := &Node{
		Kind:     KindState,
		Start:    start,
		End:      innerEnd + 1,
		Children: []*Node{{Kind: kind, Start: innerStart, End: innerEnd}},
	}

	return node, innerEnd + 1
}

var stateKinds = map[byte]Kind{
	' ': KindNotStarted,
	'x': KindCompleted,
	'-': KindInProgress,
	'=': KindBlocked,
	'_': KindCancelled,
}

type token struct {
	start, end int
}

func (p *parser) tokenize(start, end int) []token {
	var toks []token

	i := start
	for i < end {
		i = p.skipSpace(i, end)
		if i >= end {
			break
		}

		j := i
		for j < end && !isSpace(p.src[j]) {
			j++
		}

		toks = append(toks, token{start: i, end: j})
		i = j
	}

	return toks
}

// fields splits tokens into the name (leading plain tokens) and field nodes.
// Plain tokens that follow a single-token field cannot belong anywhere and
// become an error node.
func (p *parser) fields(core *Node, toks []token) {
	k := p.plainRun(toks, 0)
	if k > 0 {
		core.Children = append(core.Children, &Node{Kind: KindName, Start: toks[0].start, End: toks[k-1].end})
	}

	for k < len(toks) {
		t := toks[k]

		switch p.src[t.start] {
		case descriptionMarker:
			last := p.plainRun(toks, k+1)
			core.Children = append(core.Children, &Node{Kind: KindDescription, Start: t.start + 1, End: toks[last-1].end})
			k = last

			continue
		case priorityMarker:
			core.Children = append(core.Children, &Node{Kind: KindPriority, Start: t.start + 1, End: t.end})
			k++
		case idMarker:
			core.Children = append(core.Children, &Node{Kind: KindID, Start: t.start + 1, End: t.end})
			k++
		case completedMarker:
			core.Children = append(core.Children, &Node{Kind: KindCompletedDateTime, Start: t.start + 1, End: t.end})
			k++
		case atMarker, contextMarker:
			if p.isDoDate(t) {
				core.Children = append(core.Children, &Node{Kind: KindDoDateTime, Start: t.start + 1, End: t.end})
				k++

				break
			}

			last := k + 1
			for last < len(toks) && p.isContext(toks[last]) {
				last++
			}

			core.Children = append(core.Children, &Node{Kind: KindContextList, Start: t.start, End: toks[last-1].end})
			k = last
		default:
			last := p.plainRun(toks, k)
			core.Children = append(core.Children, &Node{Kind: KindError, Start: t.start, End: toks[last-1].end})
			k = last
		}
	}
}

// plainRun returns the index of the first field token at or after from.
func (p *parser) plainRun(toks []token, from int) int {
	k := from
	for k < len(toks) && !isFieldMarker(p.src[toks[k].start]) {
		k++
	}

	return k
}

func (p *parser) isContext(t token) bool {
	c := p.src[t.start]

	return (c == contextMarker || c == atMarker) && !p.isDoDate(t)
}

func (p *parser) isDoDate(t token) bool {
	if p.src[t.start] != atMarker {
		return false
	}

	return IsTimestamp(p.src[t.start+1 : t.end])
}

// IsTimestamp reports whether s is a date field value.
func IsTimestamp(s string) bool {
	if _, err := time.Parse(TimestampLayout, s); err == nil {
		return true
	}

	_, err := time.Parse(time.DateOnly, s)

	return err == nil
}

func isFieldMarker(c byte) bool {
	switch c {
	case descriptionMarker, priorityMarker, contextMarker, atMarker, completedMarker, idMarker:
		return true
	}

	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func (p *parser) skipSpace(i, end int) int {
	for i < end && isSpace(p.src[i]) {
		i++
	}

	return i
}

func (p *parser) trimRight(start, end int) int {
	for end > start && (isSpace(p.src[end-1]) || p.src[end-1] == '\r') {
		end--
	}

	return end
}

func hasChild(n *Node, kind Kind) bool {
	for _, c := range n.Children {
		if c.Kind == kind {
			return true
		}
	}

	return false
}
