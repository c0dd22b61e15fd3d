package action

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/calvinalkan/cliche/internal/cst"
)

// Convert maps a parsed tree onto a [Document].
//
// Dispatch is strict: any node kind a level does not expect, including
// parser error nodes, fails with [ErrUnrecognizedChildKind]. Comments are
// skipped everywhere. The first failure aborts the conversion; there is no
// partial result.
func Convert(tree *cst.Tree) (Document, error) {
	c := &converter{tree: tree}
	root := tree.Root()

	doc := make(Document, 0, len(root.Children))

	for _, n := range root.Children {
		switch n.Kind {
		case cst.KindRootAction:
			action, err := c.root(n)
			if err != nil {
				return nil, err
			}

			doc = append(doc, action)
		case cst.KindComment:
		default:
			return nil, c.unrecognized(n, "document")
		}
	}

	return doc, nil
}

type converter struct {
	tree *cst.Tree
}

// levelRule parameterizes the shared conversion routine for one depth.
type levelRule[C any] struct {
	name    string   // used in error messages
	group   cst.Kind // child group kind; empty for leaves
	item    cst.Kind // kind of the entries in group
	convert func(*cst.Node) (C, error)
	story   bool // only roots accept a story
}

// parts is what a single action node yields before it is assembled into its
// concrete level type.
type parts[C any] struct {
	common   *CommonActionProperties
	story    *string
	children []C
}

func convertNode[C any](c *converter, n *cst.Node, rule levelRule[C]) (parts[C], error) {
	var p parts[C]

	for _, child := range n.Children {
		switch {
		case child.Kind == cst.KindCoreAction:
			common, err := c.common(child)
			if err != nil {
				return parts[C]{}, err
			}

			p.common = &common
		case child.Kind == cst.KindStory && rule.story:
			story := strings.TrimSpace(c.tree.Text(child))
			p.story = &story
		case child.Kind == rule.group && rule.group != "":
			children, err := convertList(c, child, rule)
			if err != nil {
				return parts[C]{}, err
			}

			p.children = children
		case child.Kind == cst.KindComment:
		default:
			return parts[C]{}, c.unrecognized(child, rule.name)
		}
	}

	if p.common == nil {
		return parts[C]{}, c.errorf(n, ErrMissingCoreProperties, rule.name)
	}

	return p, nil
}

func convertList[C any](c *converter, group *cst.Node, rule levelRule[C]) ([]C, error) {
	list := make([]C, 0, len(group.Children))

	for _, n := range group.Children {
		switch n.Kind {
		case rule.item:
			item, err := rule.convert(n)
			if err != nil {
				return nil, err
			}

			list = append(list, item)
		case cst.KindComment:
		default:
			return nil, c.unrecognized(n, string(group.Kind))
		}
	}

	return list, nil
}

func convertLevel[C any](c *converter, n *cst.Node, rule levelRule[C]) (Level[C], error) {
	p, err := convertNode(c, n, rule)
	if err != nil {
		return Level[C]{}, err
	}

	return Level[C]{Common: *p.common, Children: p.children}, nil
}

func (c *converter) root(n *cst.Node) (RootAction, error) {
	p, err := convertNode(c, n, levelRule[ChildAction]{
		name:    "root action",
		group:   cst.KindChildActions,
		item:    cst.KindChildAction,
		convert: c.child,
		story:   true,
	})
	if err != nil {
		return RootAction{}, err
	}

	return RootAction{Common: *p.common, Story: p.story, Children: p.children}, nil
}

func (c *converter) child(n *cst.Node) (ChildAction, error) {
	return convertLevel(c, n, levelRule[GrandChildAction]{
		name:    "child action",
		group:   cst.KindGrandChildActions,
		item:    cst.KindGrandChildAction,
		convert: c.grandChild,
	})
}

func (c *converter) grandChild(n *cst.Node) (GrandChildAction, error) {
	return convertLevel(c, n, levelRule[GreatGrandChildAction]{
		name:    "grand child action",
		group:   cst.KindGreatGrandChildActions,
		item:    cst.KindGreatGrandChildAction,
		convert: c.greatGrandChild,
	})
}

func (c *converter) greatGrandChild(n *cst.Node) (GreatGrandChildAction, error) {
	return convertLevel(c, n, levelRule[GreatGreatGrandChildAction]{
		name:    "great grand child action",
		group:   cst.KindGreatGreatGrandChildActions,
		item:    cst.KindGreatGreatGrandChildAction,
		convert: c.greatGreatGrandChild,
	})
}

func (c *converter) greatGreatGrandChild(n *cst.Node) (GreatGreatGrandChildAction, error) {
	return convertLevel(c, n, levelRule[LeafAction]{
		name:    "great great grand child action",
		group:   cst.KindLeafActions,
		item:    cst.KindLeafAction,
		convert: c.leaf,
	})
}

func (c *converter) leaf(n *cst.Node) (LeafAction, error) {
	p, err := convertNode(c, n, levelRule[struct{}]{name: "leaf action"})
	if err != nil {
		return LeafAction{}, err
	}

	return LeafAction{Common: *p.common}, nil
}

func (c *converter) common(n *cst.Node) (CommonActionProperties, error) {
	var props CommonActionProperties

	for _, child := range n.Children {
		text := strings.TrimSpace(c.tree.Text(child))

		switch child.Kind {
		case cst.KindState:
			state, err := c.state(child)
			if err != nil {
				return CommonActionProperties{}, err
			}

			props.State = state
		case cst.KindName:
			props.Name = text
		case cst.KindDescription:
			props.Description = &text
		case cst.KindPriority:
			if v, err := strconv.ParseUint(text, 10, strconv.IntSize); err == nil {
				priority := uint(v)
				props.Priority = &priority
			}
		case cst.KindContextList:
			props.ContextList = append(props.ContextList, contexts(text)...)
		case cst.KindID:
			if id, err := uuid.Parse(text); err == nil {
				props.ID = &id
			}
		case cst.KindDoDateTime, cst.KindCompletedDateTime:
			// Recognized but not mapped yet; the fields stay nil.
		default:
			return CommonActionProperties{}, c.unrecognized(child, "core action")
		}
	}

	return props, nil
}

func (c *converter) state(n *cst.Node) (State, error) {
	sub := n.Child(0)
	if sub == nil {
		return NotStarted, c.errorf(n, ErrUnknownActionState, fmt.Sprintf("%q", c.tree.Text(n)))
	}

	switch sub.Kind {
	case cst.KindNotStarted:
		return NotStarted, nil
	case cst.KindCompleted:
		return Completed, nil
	case cst.KindInProgress:
		return InProgress, nil
	case cst.KindBlocked:
		return BlockedOrAwaiting, nil
	case cst.KindCancelled:
		return Cancelled, nil
	default:
		return NotStarted, c.errorf(n, ErrUnknownActionState, fmt.Sprintf("%q", c.tree.Text(n)))
	}
}

// contexts keeps the whitespace separated tokens that carry a context
// marker, without the marker. A bare marker is not a tag.
func contexts(text string) []string {
	var tags []string

	for _, tok := range strings.Fields(text) {
		if len(tok) > 1 && isContextMarker(tok[0]) {
			tags = append(tags, tok[1:])
		}
	}

	return tags
}

func isContextMarker(c byte) bool {
	return c == '+' || c == '@'
}

func (c *converter) errorf(n *cst.Node, err error, what string) error {
	pos := c.tree.Position(n.Start)

	return fmt.Errorf("%w: %s at %d:%d", err, what, pos.Line, pos.Column)
}

func (c *converter) unrecognized(n *cst.Node, parent string) error {
	what := fmt.Sprintf("%q in %s", n.Kind, parent)
	if n.Kind == cst.KindError {
		what += fmt.Sprintf(" (%q)", c.tree.Text(n))
	}

	return c.errorf(n, ErrUnrecognizedChildKind, what)
}
