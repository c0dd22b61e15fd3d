package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/davecgh/go-spew/spew"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/cliche/internal/action"
	"github.com/calvinalkan/cliche/internal/settings"
)

// Output formats of the read command.
const (
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatText  = "text"
	FormatTyped = "typed"
)

// OutlineExt is the extension --all looks for in the data directory.
const OutlineExt = ".actions"

const stdinName = "-"

type readOptions struct {
	all    bool
	format string
	embed  bool
}

// ReadCmd returns the read command.
func ReadCmd(a *app) *Command {
	var opts readOptions

	fset := flag.NewFlagSet("read", flag.ContinueOnError)
	fset.BoolVar(&opts.all, "all", false, "read every *"+OutlineExt+" file in the data directory")
	fset.StringVarP(&opts.format, "format", "f", FormatJSON, "output `format`: json, yaml, text or typed")
	fset.BoolVar(&opts.embed, "embed-options", false, "wrap json/yaml output with the resolved options")

	return &Command{
		Flags: fset,
		Usage: "read [flags] [file...]",
		Short: "Parse outlines and print them",
		Long: `Parse action outlines and print the result.

Input is every file argument in order ("-" is stdin), or with --all every
*` + OutlineExt + ` file in the data directory. Without arguments piped stdin
is read. All inputs are parsed into one document.

Formats: json and yaml print the exported values, text prints the canonical
notation, typed dumps the typed model.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			return execRead(ctx, o, a, opts, args)
		},
	}
}

func execRead(ctx context.Context, o *IO, a *app, opts readOptions, args []string) error {
	switch opts.format {
	case FormatJSON, FormatYAML:
	case FormatText, FormatTyped:
		if opts.embed {
			return ErrEmbedNeedsStruct
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.format)
	}

	inputs, err := readInputs(o, a, opts, args)
	if err != nil {
		return err
	}

	var doc action.Document

	for _, name := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}

		parsed, err := readOutline(a, name)
		if err != nil {
			return err
		}

		a.logger.Info("parsed outline", "input", name, "roots", len(parsed))

		doc = append(doc, parsed...)
	}

	if doc == nil {
		doc = action.Document{}
	}

	var options settings.Values
	if opts.embed {
		options = a.options(settings.Values{
			"name":   "read",
			"all":    opts.all,
			"format": opts.format,
			"inputs": inputs,
		})
	}

	return writeDocument(o, doc, opts.format, options)
}

// readInputs resolves the list of inputs to parse.
func readInputs(o *IO, a *app, opts readOptions, args []string) ([]string, error) {
	if opts.all {
		if len(args) > 0 {
			return nil, ErrAllWithFiles
		}

		return dataFiles(o, a)
	}

	if len(args) > 0 {
		if i := slices.Index(args, stdinName); i >= 0 && slices.Contains(args[i+1:], stdinName) {
			return nil, ErrStdinRepeated
		}

		return args, nil
	}

	if a.piped {
		return []string{stdinName}, nil
	}

	return nil, ErrNoInput
}

func dataFiles(o *IO, a *app) ([]string, error) {
	dir, ok := a.values.String(settings.KeyData)
	if !ok || dir == "" {
		return nil, ErrNoDataDir
	}

	if !filepath.IsAbs(dir) {
		dir = filepath.Join(a.workDir, dir)
	}

	entries, err := a.fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading data directory: %w", err)
	}

	var files []string

	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.HasSuffix(e.Name(), OutlineExt) {
			continue
		}

		files = append(files, filepath.Join(dir, e.Name()))
	}

	if len(files) == 0 {
		o.Warn("no *"+OutlineExt+" files in "+dir, "add outlines there or pass files explicitly")
	}

	a.logger.Debug("collected data files", "dir", dir, "count", len(files))

	return files, nil
}

func readOutline(a *app, name string) (action.Document, error) {
	var (
		data []byte
		err  error
	)

	if name == stdinName {
		if a.in == nil {
			return nil, ErrNoInput
		}

		data, err = io.ReadAll(a.in)
	} else {
		path := name
		if !filepath.IsAbs(path) {
			path = filepath.Join(a.workDir, path)
		}

		data, err = a.fs.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	doc, err := action.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return doc, nil
}

func writeDocument(o *IO, doc action.Document, format string, options settings.Values) error {
	switch format {
	case FormatText:
		o.Print(action.Format(doc))

		return nil
	case FormatTyped:
		o.Print(typedDump.Sdump(doc))

		return nil
	}

	var value any = action.Export(doc)
	if options != nil {
		value = action.Envelope(doc, map[string]any(options))
	}

	if format == FormatYAML {
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		err := enc.Encode(value)
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}

		err = enc.Close()
		if err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}

		o.Print(buf.String())

		return nil
	}

	out, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}

	o.Println(string(out))

	return nil
}

// typedDump prints the model without pointer addresses so output is stable.
var typedDump = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}
