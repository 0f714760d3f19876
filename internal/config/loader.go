package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// ext validates a file extension such as ".png"
	_ = validate.RegisterValidation("ext", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return len(s) > 1 && strings.HasPrefix(s, ".") && !strings.ContainsAny(s, `/\`)
	})
}

// Defaults returns a Config with every field set to its built-in default.
func Defaults() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// struct tags are static; a failure here is a programming error
		panic(fmt.Sprintf("config defaults: %v", err))
	}
	return cfg
}

// Load reads an optional YAML override file. An empty path yields Defaults().
// Fields missing from the file keep their defaults.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return Defaults(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse applies defaults, decodes YAML overrides on top and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}

	// defaults first so explicit zero values in the file survive
	if err := defaults.Set(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply default values: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks a config against its struct rules.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if err := validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errMessages []string
			for _, fieldErr := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"field '%s' failed validation (rule: %s)",
					fieldErr.Namespace(),
					fieldErr.Tag(),
				))
			}
			return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errMessages, "\n  - "))
		}
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
