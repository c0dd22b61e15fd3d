package cli_test

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calvinalkan/cliche/internal/cli"
)

func Test_Read_Prints_JSON_When_File_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("work.actions", "(x) test\n")

	stdout := c.MustRun("read", "work.actions")

	want := "[\n  {\n    \"state\": \"Completed\",\n    \"name\": \"test\"\n  }\n]"
	assert.Equal(t, want, stdout)
}

func Test_Read_Prints_Every_Format_When_Selected(t *testing.T) {
	t.Parallel()

	src := "(-) plan $draft !1 +home\n* why it matters\n> ( ) step\n"

	cases := []struct {
		format string
		want   []string
	}{
		{format: "text", want: []string{src[:len(src)-1]}},
		{format: "yaml", want: []string{"- state: InProgress", "name: plan", "priority: 1", "story: why it matters", "children:"}},
		{format: "typed", want: []string{"(action.RootAction)", `"plan"`, "InProgress", `"why it matters"`}},
		{format: "json", want: []string{`"context_list": [`, `"story": "why it matters"`}},
	}

	for _, tc := range cases {
		t.Run(tc.format, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteFile("plan.actions", src)

			stdout := c.MustRun("read", "-f", tc.format, "plan.actions")
			for _, want := range tc.want {
				cli.AssertContains(t, stdout, want)
			}
		})
	}
}

func Test_Read_Concatenates_Inputs_When_Several_Files_Given(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("one.actions", "(x) one\n")
	c.WriteFile(filepath.Join("sub", "two.actions"), "( ) two\n> ( ) child\n")

	stdout := c.MustRun("read", "-f", "text", "one.actions", filepath.Join(c.Dir, "sub", "two.actions"))

	assert.Equal(t, "(x) one\n( ) two\n> ( ) child", stdout)
}

func Test_Read_Uses_Stdin_When_Piped(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"read", "-f", "text"},
		{"read", "-f", "text", "-"},
	} {
		c := cli.NewCLI(t)

		stdout, stderr, code := c.RunWithInput("  (x)   from   stdin\n", args...)
		require.Equal(t, 0, code, "stderr: %s", stderr)
		assert.Equal(t, "(x) from   stdin\n", stdout)
	}
}

func Test_Read_Fails_When_No_Input(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("read")

	cli.AssertContains(t, stderr, "no input")
}

// Contract: --all reads *.actions files of the data directory in name order
// and ignores everything else.
func Test_Read_All_Reads_Data_Directory_When_Flag_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(filepath.Join(c.DataDir(), "b.actions"), "(x) b\n")
	c.WriteFile(filepath.Join(c.DataDir(), "a.actions"), "( ) a\n")
	c.WriteFile(filepath.Join(c.DataDir(), "notes.txt"), "not an outline\n")

	stdout := c.MustRun("read", "--all", "-f", "text")

	assert.Equal(t, "( ) a\n(x) b", stdout)
}

func Test_Read_All_Uses_Configured_Data_Directory_When_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("custom.json", `{"data": "outlines"}`)
	c.WriteFile(filepath.Join("outlines", "x.actions"), "(_) dropped\n")

	stdout := c.MustRun("-c", "custom.json", "read", "--all", "-f", "text")

	assert.Equal(t, "(_) dropped", stdout)
}

func Test_Read_All_Warns_When_Data_Directory_Has_No_Outlines(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(filepath.Join(c.DataDir(), "notes.txt"), "x\n")

	stdout, stderr, code := c.Run("read", "--all")

	assert.Equal(t, 1, code, "warnings should set exit code 1")
	assert.Equal(t, "[]\n", stdout)
	cli.AssertContains(t, stderr, "warning: no *.actions files in "+c.DataDir())
}

func Test_Read_Fails_When_Arguments_Invalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		env   map[string]string
		files map[string]string
		args  []string
		want  string
	}{
		{
			name: "unknown format",
			args: []string{"read", "-f", "xml", "a.actions"},
			want: `unknown output format: "xml"`,
		},
		{
			name: "embed with text",
			args: []string{"read", "-f", "text", "--embed-options", "a.actions"},
			want: "--embed-options needs json or yaml output",
		},
		{
			name: "all with files",
			args: []string{"read", "--all", "a.actions"},
			want: "--all cannot be combined with file arguments",
		},
		{
			name: "all without data setting",
			env:  map[string]string{"CLICHE_DATA": "null"},
			args: []string{"read", "--all"},
			want: `no "data" directory configured`,
		},
		{
			name: "all with missing data directory",
			args: []string{"read", "--all"},
			want: "reading data directory",
		},
		{
			name: "stdin named twice",
			args: []string{"read", "-", "a.actions", "-"},
			want: `stdin ("-") can be read only once`,
		},
		{
			name: "missing file",
			args: []string{"read", "missing.actions"},
			want: "reading missing.actions",
		},
		{
			name:  "skipped level",
			files: map[string]string{"bad.actions": "(x) a\n>>> ( ) b\n"},
			args:  []string{"read", "bad.actions"},
			want:  "bad.actions: unrecognized child kind",
		},
		{
			name:  "unknown state",
			files: map[string]string{"bad.actions": "(?) a\n"},
			args:  []string{"read", "bad.actions"},
			want:  "unknown or malformed action state",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c := cli.NewCLI(t)
			c.WriteFile("a.actions", "(x) a\n")

			for k, v := range tc.env {
				c.Env[k] = v
			}

			for name, content := range tc.files {
				c.WriteFile(name, content)
			}

			stderr := c.MustFail(tc.args...)
			cli.AssertContains(t, stderr, tc.want)
		})
	}
}

// Contract: --embed-options wraps the actions with the merged settings and
// the invoked command.
func Test_Read_Embeds_Options_When_Requested(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("a.actions", "(x) a\n")

	stdout := c.MustRun("-d", "read", "--embed-options", "a.actions")

	var got struct {
		Options map[string]any   `json:"options"`
		Actions []map[string]any `json:"actions"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))

	assert.Equal(t, c.DataDir(), got.Options["data"])
	assert.InDelta(t, 1, got.Options["debug"], 0)
	assert.Equal(t, map[string]any{
		"name":   "read",
		"all":    false,
		"format": "json",
		"inputs": []any{"a.actions"},
	}, got.Options["command"])
	assert.Equal(t, []map[string]any{{"state": "Completed", "name": "a"}}, got.Actions)

	// options comes first in the envelope.
	assert.Less(t, strings.Index(stdout, `"options"`), strings.Index(stdout, `"actions"`))
}
