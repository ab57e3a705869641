// Package config loads the goisbn YAML configuration file.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the settings a config file may provide. Command line flags
// take precedence over every field.
type Config struct {
	// Separator is placed between ISBN elements by the format command.
	Separator string `yaml:"separator"`

	// Ranges is the path of a RangeMessage.xml replacing the bundled table.
	Ranges string `yaml:"ranges"`

	// Workers bounds the concurrency of audit and stress-test.
	Workers int `yaml:"workers"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Separator: "-",
		Workers:   runtime.NumCPU(),
	}
}

// LoadError reports a config file that could not be read or parsed.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.File + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Cause }

// DefaultPath returns <user config dir>/goisbn/config.yaml, or "" when the
// platform has no user config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "goisbn", "config.yaml")
}

// Parse decodes YAML on top of Default. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, &LoadError{Message: "failed to parse YAML", Cause: err}
	}
	if cfg.Workers < 0 {
		return Config{}, &LoadError{Message: "workers must not be negative"}
	}
	if cfg.Workers == 0 {
		cfg.Workers = Default().Workers
	}
	if cfg.Separator == "" {
		cfg.Separator = Default().Separator
	}
	return cfg, nil
}

// Load reads the config file at path. When optional is set, a missing file
// yields Default instead of an error; the default location is optional, an
// explicitly requested file is not.
func Load(path string, optional bool) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if optional && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, &LoadError{File: path, Message: "failed to read file", Cause: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
		}
		return Config{}, err
	}

	// A relative ranges path is taken relative to the config file.
	if cfg.Ranges != "" && !filepath.IsAbs(cfg.Ranges) {
		cfg.Ranges = filepath.Join(filepath.Dir(path), cfg.Ranges)
	}
	return cfg, nil
}
