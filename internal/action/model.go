// Package action holds the typed action outline and its conversions.
//
// An outline is at most six levels deep: [RootAction], [ChildAction],
// [GrandChildAction], [GreatGrandChildAction], [GreatGreatGrandChildAction]
// and [LeafAction]. The four middle levels are instantiations of one generic
// [Level], so conversion and formatting rules are shared by construction.
//
// Values are built once by [Convert] (or [Parse]) and never mutated in place.
// A nil Children slice means the source had no child group at all.
package action

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// State is the progress state of an action. The zero value is NotStarted.
type State uint8

// State values.
const (
	NotStarted State = iota
	Completed
	InProgress
	BlockedOrAwaiting
	Cancelled
)

var stateNames = [...]string{
	NotStarted:        "NotStarted",
	Completed:         "Completed",
	InProgress:        "InProgress",
	BlockedOrAwaiting: "BlockedOrAwaiting",
	Cancelled:         "Cancelled",
}

var stateChars = [...]byte{
	NotStarted:        ' ',
	Completed:         'x',
	InProgress:        '-',
	BlockedOrAwaiting: '=',
	Cancelled:         '_',
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}

	return "State(" + strconv.Itoa(int(s)) + ")"
}

// Char returns the character used between the state parentheses.
func (s State) Char() byte {
	if int(s) < len(stateChars) {
		return stateChars[s]
	}

	return stateChars[NotStarted]
}

// Recurrence is reserved for repeating do dates. Nothing evaluates it yet.
type Recurrence uint8

// Recurrence values.
const (
	RecurrenceNone Recurrence = iota
	RecurrenceDaily
	RecurrenceWeekly
	RecurrenceMonthly
	RecurrenceYearly
)

// CommonActionProperties is the field set shared by every level.
//
// DoDateTime and CompletedDateTime are never populated by [Convert]: the
// notation's date nodes are recognized but not yet mapped. They are still
// formatted and exported when set by hand.
type CommonActionProperties struct {
	State             State
	Name              string
	Description       *string
	Priority          *uint
	ContextList       []string // tags without their marker; nil when absent
	ID                *uuid.UUID
	DoDateTime        *time.Time
	CompletedDateTime *time.Time
}

// Level is an action with children of type C.
type Level[C any] struct {
	Common   CommonActionProperties
	Children []C
}

// LeafAction is the deepest level and has no children.
type LeafAction struct {
	Common CommonActionProperties
}

type (
	// GreatGreatGrandChildAction is depth 4.
	GreatGreatGrandChildAction = Level[LeafAction]
	// GreatGrandChildAction is depth 3.
	GreatGrandChildAction = Level[GreatGreatGrandChildAction]
	// GrandChildAction is depth 2.
	GrandChildAction = Level[GreatGrandChildAction]
	// ChildAction is depth 1.
	ChildAction = Level[GrandChildAction]
)

// RootAction is a top-level action. Only roots carry a story.
type RootAction struct {
	Common   CommonActionProperties
	Story    *string
	Children []ChildAction
}

// Document is a whole outline in source order.
type Document []RootAction
