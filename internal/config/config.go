// Package config loads yydrive settings from a TOML or YAML file and the environment.
package config

import (
	"bytes"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/ava12/yydrive"
)

// Error codes used by configuration loading:
const (
	WrongFormatError = yydrive.ConfigErrors + iota
	UnknownKeyError
	WrongValueError
)

const (
	// FileEnv names environment variable holding config file path.
	FileEnv = "YYDRIVE_CONFIG"

	// DefaultFile is loaded if FileEnv is not set and the file exists.
	DefaultFile = "yydrive.toml"

	envPrefix = "YYDRIVE_"
)

const (
	ColorNever  = "never"
	ColorAuto   = "auto"
	ColorAlways = "always"
)

const LogOff = "off"

type Config struct {
	Mode        string `toml:"mode" yaml:"mode"`
	Grammar     string `toml:"grammar" yaml:"grammar"`
	GrammarFile string `toml:"grammar_file" yaml:"grammar_file"`
	Verbose     bool   `toml:"verbose" yaml:"verbose"`
	Recover     bool   `toml:"recover" yaml:"recover"`
	MaxErrors   int    `toml:"max_errors" yaml:"max_errors"`
	Color       string `toml:"color" yaml:"color"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFile     string `toml:"log_file" yaml:"log_file"`

	// Source is the name of loaded config file or empty string.
	Source string `toml:"-" yaml:"-"`
}

func Default() *Config {
	return &Config{
		Mode:     "located",
		Grammar:  "sum",
		Color:    ColorNever,
		LogLevel: LogOff,
	}
}

// Load builds configuration from defaults, config file, and environment (in that order of precedence).
// Config file is taken from getenv(FileEnv); if that is empty, DefaultFile is used if it exists.
// A file named explicitly must exist.
func Load(fs afero.Fs, getenv func(string) string) (*Config, error) {
	c := Default()

	name := getenv(FileEnv)
	if name == "" {
		exists, e := afero.Exists(fs, DefaultFile)
		if e != nil {
			return nil, errors.Wrapf(e, "cannot check %s", DefaultFile)
		}
		if exists {
			name = DefaultFile
		}
	}

	if name != "" {
		data, e := afero.ReadFile(fs, name)
		if e != nil {
			return nil, errors.Wrap(e, "cannot read config file")
		}
		if e = c.decode(name, data); e != nil {
			return nil, e
		}
		c.Source = name
	}

	if e := c.applyEnv(getenv); e != nil {
		return nil, e
	}
	if e := c.Validate(); e != nil {
		return nil, e
	}
	return c, nil
}

func (c *Config) decode(name string, data []byte) error {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		e := dec.Decode(c)
		if e != nil && e != io.EOF {
			return yydrive.FormatError(WrongFormatError, "cannot decode %s: %s", name, e)
		}

	default:
		md, e := toml.Decode(string(data), c)
		if e != nil {
			return yydrive.FormatError(WrongFormatError, "cannot decode %s: %s", name, e)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return yydrive.FormatError(UnknownKeyError, "unknown key %q in %s", undecoded[0].String(), name)
		}
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	strs := map[string]*string{
		"MODE":         &c.Mode,
		"GRAMMAR":      &c.Grammar,
		"GRAMMAR_FILE": &c.GrammarFile,
		"COLOR":        &c.Color,
		"LOG_LEVEL":    &c.LogLevel,
		"LOG_FILE":     &c.LogFile,
	}
	for key, field := range strs {
		if value := getenv(envPrefix + key); value != "" {
			*field = value
		}
	}

	bools := map[string]*bool{
		"VERBOSE": &c.Verbose,
		"RECOVER": &c.Recover,
	}
	for key, field := range bools {
		if value := getenv(envPrefix + key); value != "" {
			b, e := strconv.ParseBool(value)
			if e != nil {
				return wrongValueError(envPrefix+key, value)
			}
			*field = b
		}
	}

	if value := getenv(envPrefix + "MAX_ERRORS"); value != "" {
		n, e := strconv.Atoi(value)
		if e != nil {
			return wrongValueError(envPrefix+"MAX_ERRORS", value)
		}
		c.MaxErrors = n
	}
	return nil
}

func wrongValueError(key, value string) *yydrive.Error {
	return yydrive.FormatError(WrongValueError, "wrong value %q for %s", value, key)
}

var (
	modes     = []string{"basic", "status-only", "statusonly", "status_only", "located"}
	colors    = []string{ColorNever, ColorAuto, ColorAlways}
	logLevels = []string{LogOff, "debug", "info", "warn", "error"}
)

func oneOf(value string, allowed []string) bool {
	value = strings.ToLower(value)
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}

// Validate checks enumerated values; grammar names are checked by the caller.
func (c *Config) Validate() error {
	switch {
	case !oneOf(c.Mode, modes):
		return wrongValueError("mode", c.Mode)
	case !oneOf(c.Color, colors):
		return wrongValueError("color", c.Color)
	case !oneOf(c.LogLevel, logLevels):
		return wrongValueError("log_level", c.LogLevel)
	case c.MaxErrors < 0:
		return wrongValueError("max_errors", strconv.Itoa(c.MaxErrors))
	case c.Grammar == "" && c.GrammarFile == "":
		return wrongValueError("grammar", c.Grammar)
	}
	return nil
}
