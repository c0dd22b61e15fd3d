package action

import (
	"strconv"
	"strings"

	"github.com/calvinalkan/cliche/internal/cst"
)

const (
	descendMarker = ">"
	storyPrefix   = "* "
)

// Format renders doc in canonical notation, one line per action:
//
//	(x) name $description !1 +ctx @2025-03-01T09:30 %2025-03-02T10:00 #<uuid>
//	* story
//	> ( ) child
//	>> ( ) grandchild
//
// Formatting never fails. Values are written as they are, including empty
// names; validating them is the converter's job.
func Format(doc Document) string {
	var b strings.Builder

	for _, root := range doc {
		writeRoot(&b, root)
	}

	return b.String()
}

// FormatCommon renders the common properties of a single line without the
// depth prefix and newline. Optional fields appear in a fixed order and only
// when set.
func FormatCommon(p CommonActionProperties) string {
	var b strings.Builder

	writeCommon(&b, p)

	return b.String()
}

func writeRoot(b *strings.Builder, r RootAction) {
	writeLine(b, 0, r.Common)

	if r.Story != nil {
		b.WriteString(storyPrefix)
		b.WriteString(*r.Story)
		b.WriteByte('\n')
	}

	for _, c := range r.Children {
		writeChild(b, 1, c)
	}
}

func writeLevel[C any](b *strings.Builder, depth int, l Level[C], writeChildren func(*strings.Builder, int, C)) {
	writeLine(b, depth, l.Common)

	for _, c := range l.Children {
		writeChildren(b, depth+1, c)
	}
}

func writeChild(b *strings.Builder, depth int, c ChildAction) {
	writeLevel(b, depth, c, writeGrandChild)
}

func writeGrandChild(b *strings.Builder, depth int, c GrandChildAction) {
	writeLevel(b, depth, c, writeGreatGrandChild)
}

func writeGreatGrandChild(b *strings.Builder, depth int, c GreatGrandChildAction) {
	writeLevel(b, depth, c, writeGreatGreatGrandChild)
}

func writeGreatGreatGrandChild(b *strings.Builder, depth int, c GreatGreatGrandChildAction) {
	writeLevel(b, depth, c, writeLeaf)
}

func writeLeaf(b *strings.Builder, depth int, l LeafAction) {
	writeLine(b, depth, l.Common)
}

func writeLine(b *strings.Builder, depth int, p CommonActionProperties) {
	if depth > 0 {
		b.WriteString(strings.Repeat(descendMarker, depth))
		b.WriteByte(' ')
	}

	writeCommon(b, p)
	b.WriteByte('\n')
}

func writeCommon(b *strings.Builder, p CommonActionProperties) {
	b.WriteByte('(')
	b.WriteByte(p.State.Char())
	b.WriteByte(')')

	if p.Name != "" {
		b.WriteByte(' ')
		b.WriteString(p.Name)
	}

	if p.Description != nil {
		b.WriteString(" $")
		b.WriteString(*p.Description)
	}

	if p.Priority != nil {
		b.WriteString(" !")
		b.WriteString(strconv.FormatUint(uint64(*p.Priority), 10))
	}

	// Tags are stored without their marker; one that starts with a marker
	// character keeps it after the written "+".
	for _, tag := range p.ContextList {
		b.WriteString(" +")
		b.WriteString(tag)
	}

	if p.DoDateTime != nil {
		b.WriteString(" @")
		b.WriteString(p.DoDateTime.Local().Format(cst.TimestampLayout))
	}

	if p.CompletedDateTime != nil {
		b.WriteString(" %")
		b.WriteString(p.CompletedDateTime.Local().Format(cst.TimestampLayout))
	}

	if p.ID != nil {
		b.WriteString(" #")
		b.WriteString(p.ID.String())
	}
}
