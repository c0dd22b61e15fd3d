package action

import (
	"errors"

	"github.com/calvinalkan/cliche/internal/cst"
)

// Conversion errors. All of them abort the whole conversion; use errors.Is
// to tell them apart. Unparsable priorities and ids are not errors, the
// field is left absent instead.
var (
	ErrParseFailure          = cst.ErrParseFailure
	ErrMissingCoreProperties = errors.New("missing core action properties")
	ErrUnknownActionState    = errors.New("unknown or malformed action state")
	ErrUnrecognizedChildKind = errors.New("unrecognized child kind")
)
