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

// settingsPart decodes the JSON block print-config writes before its
// "# sources" section.
func settingsPart(t *testing.T, stdout string) map[string]any {
	t.Helper()

	body, _, ok := strings.Cut(stdout, "# sources")
	require.True(t, ok, "output should have a sources section:\n%s", stdout)

	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &values))

	return values
}

func Test_Print_Config_Creates_Global_File_When_First_Run(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stdout := c.MustRun("print-config")
	cli.AssertContains(t, stdout, "file="+c.ConfigFile()+" (created)")

	values := settingsPart(t, stdout)
	assert.Equal(t, c.DataDir(), values["data"])
	assert.Equal(t, map[string]any{"name": "print-config"}, values["command"])

	stdout = c.MustRun("print-config")
	cli.AssertContains(t, stdout, "file="+c.ConfigFile())
	cli.AssertNotContains(t, stdout, "(created)")
}

func Test_Print_Config_From_Global_File_With_Comments_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(c.ConfigFile(), `{
		// This is a comment
		"data": "commented-outlines",
		"log_level": "error",
	}`)

	values := settingsPart(t, c.MustRun("print-config"))
	assert.Equal(t, "commented-outlines", values["data"])
	assert.Equal(t, "error", values["log_level"])
}

func Test_Print_Config_Explicit_Config_Flag_When_Invoked(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"-c", "custom.json", "print-config"},
		{"--config=custom.json", "print-config"},
	} {
		c := cli.NewCLI(t)
		c.WriteFile("custom.json", `{"data": "custom-dir"}`)

		stdout := c.MustRun(args...)
		cli.AssertContains(t, stdout, "file="+filepath.Join(c.Dir, "custom.json"))

		values := settingsPart(t, stdout)
		assert.Equal(t, "custom-dir", values["data"])
		assert.Equal(t, "custom.json", values["config"])
	}
}

func Test_Print_Config_Lists_Env_Sources_When_Prefixed_Vars_Set(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env["CLICHE_LOG_LEVEL"] = "error"
	c.Env["CLICHE_LIMIT"] = "5"

	stdout := c.MustRun("-dd", "print-config")
	cli.AssertContains(t, stdout, "env=CLICHE_LIMIT\nenv=CLICHE_LOG_LEVEL")

	values := settingsPart(t, stdout)
	assert.Equal(t, "error", values["log_level"])
	assert.InDelta(t, 5, values["limit"], 0)
	assert.InDelta(t, 2, values["debug"], 0)
}

func Test_Print_Config_Reports_Defaults_Only_When_No_Home(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.Env = map[string]string{}

	stdout := c.MustRun("print-config")
	cli.AssertContains(t, stdout, "(defaults only)")

	values := settingsPart(t, stdout)
	assert.NotContains(t, values, "data")
}
