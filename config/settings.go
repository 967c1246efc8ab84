package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LogSettings defines the logging configuration.
type LogSettings struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ServerSettings defines the HTTP bridge configuration.
type ServerSettings struct {
	Listen string `yaml:"listen"`
}

// Settings is the YAML settings file. Command line options win over it.
type Settings struct {
	Log    LogSettings    `yaml:"log"`
	Server ServerSettings `yaml:"server"`
}

// LoadSettings reads a YAML settings file. Unknown keys are rejected and an
// empty file yields zero settings.
func LoadSettings(path string) (*Settings, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not read settings file at %s: %w", path, err)
	}
	defer f.Close()

	var s Settings
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("could not parse settings file at %s: %w", path, err)
	}
	return &s, nil
}
