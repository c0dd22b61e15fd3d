// Package cli implements the cliche command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/cliche/internal/fs"
	"github.com/calvinalkan/cliche/internal/settings"
)

// Error variables for command line handling.
var (
	ErrNoCommand        = errors.New("no command provided")
	ErrUnknownCommand   = errors.New("unknown command")
	ErrUnknownFormat    = errors.New("unknown output format")
	ErrNoInput          = errors.New("no input: pass files, use --all, or pipe to stdin")
	ErrNoDataDir        = errors.New(`no "data" directory configured`)
	ErrAllWithFiles     = errors.New("--all cannot be combined with file arguments")
	ErrEmbedNeedsStruct = errors.New("--embed-options needs json or yaml output")
	ErrStdinRepeated    = errors.New(`stdin ("-") can be read only once`)
)

// app is what every command gets to work with.
type app struct {
	workDir  string
	values   settings.Values // settings plus global flags
	sources  settings.Sources
	fs       fs.FS
	in       io.Reader
	piped    bool // stdin carries data rather than a terminal
	logger   *slog.Logger
	commands []*Command
}

type globalFlags struct {
	workDir    string
	configPath string
	debug      int
	help       bool
	remaining  []string
}

// Run is the main entry point. Returns exit code. A value on sigCh cancels
// the running command.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	if len(args) < 2 {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut)

		return 1
	}

	if flags.help {
		printUsage(out)

		return 0
	}

	if len(flags.remaining) == 0 {
		fprintln(errOut, "error:", ErrNoCommand)
		fprintln(errOut)
		printUsage(errOut)

		return 1
	}

	a, err := newApp(in, errOut, flags, env)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	name := flags.remaining[0]

	cmd := a.command(name)
	if cmd == nil {
		fprintln(errOut, "error:", fmt.Errorf("%w: %s", ErrUnknownCommand, name))
		fprintln(errOut)
		printUsage(errOut)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	a.logger.Debug("running command", "command", name, "cwd", a.workDir, "settings_file", a.sources.File)

	o := NewIO(out, errOut)

	code := cmd.Run(ctx, o, flags.remaining[1:])
	if code != 0 {
		return code
	}

	return o.Finish()
}

func newApp(in io.Reader, errOut io.Writer, flags globalFlags, env map[string]string) (*app, error) {
	workDir := flags.workDir
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	fsys := fs.NewReal()

	values, sources, err := settings.Load(settings.LoadInput{
		WorkDir:    workDir,
		ConfigPath: flags.configPath,
		Env:        env,
		FS:         fsys,
	})
	if err != nil {
		return nil, err
	}

	cliValues := settings.Values{"debug": flags.debug}
	if flags.configPath != "" {
		cliValues["config"] = flags.configPath
	}

	values = settings.Merge(values, cliValues)

	logger := newLogger(logLevel(flags.debug, values), errOut)
	if sources.Created {
		logger.Info("wrote default settings", "path", sources.File)
	}

	a := &app{
		workDir: workDir,
		values:  values,
		sources: sources,
		fs:      fsys,
		in:      in,
		piped:   stdinPiped(in),
		logger:  logger,
	}
	a.commands = commands(a)

	return a, nil
}

func commands(a *app) []*Command {
	return []*Command{ReadCmd(a), PrintConfigCmd(a)}
}

func (a *app) command(name string) *Command {
	for _, c := range a.commands {
		if c.Name() == name {
			return c
		}
	}

	return nil
}

// options returns the settings with the invoked command merged on top.
func (a *app) options(command settings.Values) settings.Values {
	return settings.Merge(a.values, settings.Values{"command": map[string]any(command)})
}

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	fset := flag.NewFlagSet("cliche", flag.ContinueOnError)
	fset.SetOutput(io.Discard)
	fset.SetInterspersed(false) // the first non-flag is the command
	fset.StringVarP(&flags.workDir, "cwd", "C", "", "run as if started in `dir`")
	fset.StringVarP(&flags.configPath, "config", "c", "", "use `file` instead of the global settings file")
	fset.CountVarP(&flags.debug, "debug", "d", "increase log verbosity (repeatable)")
	fset.BoolVarP(&flags.help, "help", "h", false, "show help")

	err := fset.Parse(args)
	if err != nil {
		return globalFlags{}, err
	}

	flags.remaining = fset.Args()

	return flags, nil
}

// stdinPiped reports whether in is something other than an interactive
// terminal. A nil reader means there is no stdin at all.
func stdinPiped(in io.Reader) bool {
	if in == nil {
		return false
	}

	f, ok := in.(*os.File)
	if !ok {
		return true
	}

	return !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd())
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer) {
	fprintln(w, `cliche - read action outlines

Usage: cliche [global flags] <command> [args]

Global flags:
  -C, --cwd <dir>       Run as if started in <dir>
  -c, --config <file>   Use <file> instead of the global settings file
  -d, --debug           Increase log verbosity (repeatable)
  -h, --help            Show this help

Commands:`)

	// Help lines do not depend on app state.
	for _, c := range commands(nil) {
		fprintln(w, c.helpLine())
	}

	fprintln(w)
	fprintln(w, `Run "cliche <command> --help" for command flags.`)
}
