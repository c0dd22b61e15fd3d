package action

import (
	"github.com/calvinalkan/cliche/internal/cst"
)

// Parse reads outline source into a [Document].
//
// Example:
//
//	doc, err := action.Parse("(x) test\n")
//	if err != nil {
//		return err
//	}
//	_ = doc[0].Common.State // action.Completed
func Parse(source string) (Document, error) {
	tree, err := cst.Parse(source)
	if err != nil {
		return nil, err
	}

	return Convert(tree)
}

// ParseValue is [Parse] followed by [Export].
func ParseValue(source string) ([]Object, error) {
	doc, err := Parse(source)
	if err != nil {
		return nil, err
	}

	return Export(doc), nil
}
