// Package settings loads the option map handed to commands.
//
// Values are layered with the following precedence (highest wins):
//  1. Defaults ("data" directory)
//  2. Settings file: the explicit -c/--config file if given, otherwise the
//     global file ($CLICHE_CONFIG_DIR, $XDG_CONFIG_HOME/cliche or
//     ~/.config/cliche), created with defaults when missing
//  3. CLICHE_<KEY> environment variables
//
// Callers merge their own command line values on top with [Merge].
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/cliche/internal/fs"
)

const (
	// AppName names the per-user config and data directories.
	AppName = "cliche"
	// FileName is the settings file inside the config directory.
	FileName = "config.json"
	// EnvPrefix marks environment variables that become settings.
	EnvPrefix = "CLICHE_"

	// EnvConfigDir overrides the config directory. It is not a setting.
	EnvConfigDir = EnvPrefix + "CONFIG_DIR"
)

// Well known keys.
const (
	KeyData     = "data"
	KeyLogLevel = "log_level"
)

const filePerms = 0o644

// Error variables for settings loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigFileWrite    = errors.New("cannot write default config file")
	ErrConfigInvalid      = errors.New("invalid config file")
)

// Sources tracks where the loaded values came from.
type Sources struct {
	File    string   // settings file that was read, empty if none
	Created bool     // File was written with defaults by this load
	Env     []string // applied environment variables, sorted
}

// LoadInput holds the inputs for [Load].
type LoadInput struct {
	WorkDir    string            // base for a relative ConfigPath
	ConfigPath string            // -c/--config flag value; replaces the global file
	Env        map[string]string // environment variables
	FS         fs.FS
}

// Defaults returns the built-in values for env.
func Defaults(env map[string]string) Values {
	v := Values{}
	if dir := DataDir(env); dir != "" {
		v[KeyData] = dir
	}

	return v
}

// ConfigDir returns the directory holding the global settings file, or ""
// if it cannot be determined.
func ConfigDir(env map[string]string) string {
	if dir := env[EnvConfigDir]; dir != "" {
		return dir
	}

	if xdg := env["XDG_CONFIG_HOME"]; xdg != "" {
		return filepath.Join(xdg, AppName)
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", AppName)
	}

	return ""
}

// DataDir returns the default directory for outline files, or "" if it
// cannot be determined.
func DataDir(env map[string]string) string {
	if xdg := env["XDG_DATA_HOME"]; xdg != "" {
		return filepath.Join(xdg, AppName)
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".local", "share", AppName)
	}

	return ""
}

// Load reads and layers settings. See the package documentation for the
// order.
func Load(in LoadInput) (Values, Sources, error) {
	var sources Sources

	defaults := Defaults(in.Env)

	path, created, err := resolveFile(in, defaults)
	if err != nil {
		return nil, Sources{}, err
	}

	values := defaults

	if path != "" {
		fileValues, err := loadFile(in.FS, path)
		if err != nil {
			return nil, Sources{}, err
		}

		values = Merge(values, fileValues)
		sources.File = path
		sources.Created = created
	}

	envValues, applied := envOverlay(in.Env)
	values = Merge(values, envValues)
	sources.Env = applied

	return values, sources, nil
}

// resolveFile picks the settings file to read. The global file is created
// from defaults when it does not exist yet; an explicit file must exist.
func resolveFile(in LoadInput, defaults Values) (string, bool, error) {
	if in.ConfigPath != "" {
		path := in.ConfigPath
		if !filepath.IsAbs(path) {
			path = filepath.Join(in.WorkDir, path)
		}

		exists, err := in.FS.Exists(path)
		if err != nil {
			return "", false, fmt.Errorf("%w %s: %w", ErrConfigFileRead, path, err)
		}

		if !exists {
			return "", false, fmt.Errorf("%w: %s", ErrConfigFileNotFound, in.ConfigPath)
		}

		return path, false, nil
	}

	dir := ConfigDir(in.Env)
	if dir == "" {
		return "", false, nil
	}

	path := filepath.Join(dir, FileName)

	exists, err := in.FS.Exists(path)
	if err != nil {
		return "", false, fmt.Errorf("%w %s: %w", ErrConfigFileRead, path, err)
	}

	if exists {
		return path, false, nil
	}

	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrConfigFileWrite, err)
	}

	err = in.FS.WriteFileAtomic(path, append(data, '\n'), filePerms)
	if err != nil {
		return "", false, fmt.Errorf("%w %s: %w", ErrConfigFileWrite, path, err)
	}

	return path, true, nil
}

func loadFile(fsys fs.FS, path string) (Values, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrConfigFileRead, path, err)
	}

	values, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return values, nil
}

func parse(data []byte) (Values, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC: %w", err)
	}

	var values Values

	err = json.Unmarshal(standardized, &values)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if values == nil {
		values = Values{}
	}

	return values, nil
}

// envOverlay turns CLICHE_<KEY>=value into key=value. Values that are JSON
// scalars are typed, so CLICHE_LIMIT=3 yields a number and CLICHE_DATA=null
// removes "data" when merged.
func envOverlay(env map[string]string) (Values, []string) {
	values := Values{}

	var applied []string

	for name, raw := range env {
		key, ok := strings.CutPrefix(name, EnvPrefix)
		if !ok || key == "" || name == EnvConfigDir {
			continue
		}

		values[strings.ToLower(key)] = scalar(raw)
		applied = append(applied, name)
	}

	slices.Sort(applied)

	return values, applied
}

func scalar(raw string) any {
	var v any

	err := json.Unmarshal([]byte(raw), &v)
	if err != nil {
		return raw
	}

	switch v.(type) {
	case nil, bool, float64, string:
		return v
	default:
		return raw
	}
}
