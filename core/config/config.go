package config

import (
	_ "embed"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
	ConfigurationDir  = "rush"
)

type Configuration struct {
	configFs  afero.Fs
	configDir string

	// HistoryLimit bounds the back history, zero means unbounded.
	HistoryLimit int `json:"history_limit" validate:"gte=0"`
	// Truncation is the per-segment limit of the prompt directory, zero
	// disables truncation.
	Truncation int    `json:"truncation" validate:"gte=0"`
	LogLevel   string `json:"log_level" validate:"required,oneof=debug info warn error"`
	EventLog   string `json:"event_log"`

	Prompt Prompt `json:"prompt"`
}

type Prompt struct {
	Symbol   string `json:"symbol" validate:"required"`
	ShowUser bool   `json:"show_user"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}

// Level returns the parsed log level.
func (c *Configuration) Level() log.Level {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

// Dir returns the directory the configuration was loaded from, empty for the
// built-in default.
func (c *Configuration) Dir() string {
	return c.configDir
}

func (c *Configuration) fs() afero.Fs {
	if c.configFs == nil {
		return afero.NewOsFs()
	}
	return c.configFs
}

// EventLogPath returns the absolute event log path, empty if event logging is
// disabled.
func (c *Configuration) EventLogPath() string {
	switch {
	case c.EventLog == "":
		return ""
	case filepath.IsAbs(c.EventLog) || c.configDir == "":
		return c.EventLog
	default:
		return filepath.Join(c.configDir, c.EventLog)
	}
}

// OpenEventLog opens the event log in an append only state.
func (c *Configuration) OpenEventLog() (afero.File, error) {
	name := c.EventLogPath()
	if err := c.fs().MkdirAll(filepath.Dir(name), 0700); err != nil {
		return nil, err
	}
	return c.fs().OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
}

// ReadEventLog opens the event log for reading.
func (c *Configuration) ReadEventLog() (afero.File, error) {
	return c.fs().OpenFile(c.EventLogPath(), os.O_RDONLY, 0600)
}

// DefaultDir returns the directory holding the configuration for a user.
func DefaultDir(home string) string {
	return filepath.Join(home, ".config", ConfigurationDir)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
