package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

// Load loads the configuration from the directory. If the directory has no
// configuration file the built-in default is returned.
func Load(configFs afero.Fs, path string) (*Configuration, error) {
	// If given the path to a config.yaml file, move back up a level.
	if filepath.Base(path) == ConfigurationName {
		path = filepath.Dir(path)
	}

	configContents, err := afero.ReadFile(configFs, filepath.Join(path, ConfigurationName))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		configContents = defaultConfigData
	case err != nil:
		return nil, err
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(configContents, &out); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(path, ConfigurationName), err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Join(path, ConfigurationName), err)
	}

	out.configFs = configFs
	out.configDir = path
	return &out, nil
}

// Initialize writes the default configuration into dir unless one already
// exists.
func Initialize(configFs afero.Fs, dir string, logger *log.Logger) error {
	if err := configFs.MkdirAll(dir, 0700); err != nil {
		return err
	}

	name := filepath.Join(dir, ConfigurationName)
	switch _, err := configFs.Stat(name); {
	case err == nil:
		logger.Info("Configuration already exists", "path", name)
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return err
	}

	logger.Info("Writing default configuration", "path", name)
	return afero.WriteFile(configFs, name, defaultConfigData, os.FileMode(0600))
}
