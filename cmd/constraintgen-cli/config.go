package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the YAML configuration file shape. Flags override file values.
type Config struct {
	// Model is the path to a shape model JSON file.
	Model string `yaml:"model"`
	// OpenAPI is the path or URL of an OpenAPI document.
	OpenAPI string `yaml:"openapi"`
	// Output is the directory generated files are written to.
	Output string `yaml:"output"`
	// Package names the generated Go package.
	Package string `yaml:"package"`
	// Renderer selects the output renderer.
	Renderer string `yaml:"renderer"`
	// PublicConstrainedTypes exports the constrained and violation types.
	PublicConstrainedTypes bool `yaml:"public_constrained_types"`
	// ValidationExceptionType names the wire error type helpers reference.
	ValidationExceptionType string `yaml:"validation_exception_type"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return cfg, nil
}

// merge overlays non-zero flag values onto the file configuration.
func (c Config) merge(flags Config) Config {
	out := c
	if strings.TrimSpace(flags.Model) != "" {
		out.Model = flags.Model
	}
	if strings.TrimSpace(flags.OpenAPI) != "" {
		out.OpenAPI = flags.OpenAPI
	}
	if strings.TrimSpace(flags.Output) != "" {
		out.Output = flags.Output
	}
	if strings.TrimSpace(flags.Package) != "" {
		out.Package = flags.Package
	}
	if strings.TrimSpace(flags.Renderer) != "" {
		out.Renderer = flags.Renderer
	}
	if flags.PublicConstrainedTypes {
		out.PublicConstrainedTypes = true
	}
	if strings.TrimSpace(flags.ValidationExceptionType) != "" {
		out.ValidationExceptionType = flags.ValidationExceptionType
	}
	return out
}
