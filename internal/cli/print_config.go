package cli

import (
	"context"
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/cliche/internal/settings"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(a *app) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved settings",
		Long:  "Display the merged settings and where they were loaded from.",
		Exec: func(_ context.Context, o *IO, _ []string) error {
			return execPrintConfig(o, a)
		},
	}
}

func execPrintConfig(o *IO, a *app) error {
	values := a.options(settings.Values{"name": "print-config"})

	formatted, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}

	o.Println(string(formatted))
	o.Println("")
	o.Println("# sources")

	if a.sources.File == "" && len(a.sources.Env) == 0 {
		o.Println("(defaults only)")

		return nil
	}

	if a.sources.File != "" {
		line := "file=" + a.sources.File
		if a.sources.Created {
			line += " (created)"
		}

		o.Println(line)
	}

	for _, name := range a.sources.Env {
		o.Println("env=" + name)
	}

	return nil
}
