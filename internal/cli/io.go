package cli

import (
	"fmt"
	"io"
)

// IO is where a command writes. A warning does not stop the command but
// makes it exit with 1; warnings are printed to stderr after the output.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
}

// NewIO creates a new IO instance.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records a warning: what went wrong and what to do about it.
func (o *IO) Warn(issue, hint string) {
	o.warnings = append(o.warnings, issue+": "+hint)
}

// Print writes s to stdout as is.
func (o *IO) Print(s string) {
	_, _ = io.WriteString(o.out, s)
}

// Println writes to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.out, a...)
}

// Errorf writes to stderr.
func (o *IO) Errorf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.errOut, format, a...)
}

// Finish prints the warnings and returns the exit code.
func (o *IO) Finish() int {
	for _, w := range o.warnings {
		o.Errorf("warning: %s\n", w)
	}

	if len(o.warnings) > 0 {
		return 1
	}

	return 0
}
