package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/CompassSecurity/pipeguard/pkg/guard"
	"github.com/CompassSecurity/pipeguard/pkg/impact"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the content of a pipeguard config file. Fields missing from the
// file keep their defaults.
type Config struct {
	Guard  GuardOptions    `yaml:"guard"`
	Repo   RepoScanOptions `yaml:"repo"`
	Impact impact.Options  `yaml:"impact"`
}

func Default() *Config {
	return &Config{
		Guard:  DefaultGuardOptions(),
		Repo:   DefaultRepoScanOptions(),
		Impact: impact.DefaultOptions(),
	}
}

// Load reads the YAML config at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML from %s: %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAML renders the configuration as a config file.
func (c *Config) YAML() (string, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(out), nil
}

var knownConfidences = []string{
	guard.ConfidenceHigh,
	guard.ConfidenceMedium,
	guard.ConfidenceLow,
	guard.ConfidenceVerified,
	guard.ConfidenceUnverified,
}

func newValidator() *validator.Validate {
	validate := validator.New()

	_ = validate.RegisterValidation("confidence", func(fl validator.FieldLevel) bool {
		return slices.Contains(knownConfidences, fl.Field().String())
	})

	_ = validate.RegisterValidation("humansize", func(fl validator.FieldLevel) bool {
		_, err := ParseMaxFileSize(fl.Field().String())
		return err == nil
	})

	return validate
}

// Validate checks the struct tags of every section.
func Validate(cfg *Config) error {
	err := newValidator().Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("validation failed for '%s': rule '%s'", e.Namespace(), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
}
