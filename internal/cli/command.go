package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"
)

// Command is one subcommand of cliche.
type Command struct {
	Flags *flag.FlagSet
	Usage string // "read [flags] [file...]"; the first word is the name
	Short string // line in the global command listing
	Long  string // body of "cliche <cmd> --help"
	Exec  func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name.
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")

	return name
}

func (c *Command) helpLine() string {
	return fmt.Sprintf("  %-26s %s", c.Usage, c.Short)
}

func (c *Command) help() string {
	h := "Usage: cliche " + c.Usage + "\n\n" + c.Long + "\n"
	if c.Flags.HasFlags() {
		h += "\nFlags:\n" + c.Flags.FlagUsages()
	}

	return h
}

// Run parses args and executes the command. Help goes to stdout, errors to
// stderr. Returns the exit code.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	c.Flags.SetOutput(io.Discard)

	err := c.Flags.Parse(args)

	switch {
	case errors.Is(err, flag.ErrHelp):
		o.Print(c.help())

		return 0
	case err != nil:
		o.Errorf("error: %v\n\n", err)
		o.Print(c.help())

		return 1
	}

	err = c.Exec(ctx, o, c.Flags.Args())
	if err != nil {
		o.Errorf("error: %v\n", err)

		return 1
	}

	return 0
}
