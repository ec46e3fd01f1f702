// Package config provides the option types, defaults and validation helpers
// shared by the pipeguard commands.
package config

import (
	"time"

	"github.com/CompassSecurity/pipeguard/pkg/guard"
	"github.com/CompassSecurity/pipeguard/pkg/snapshot"
)

// CommonScanOptions contains configuration fields shared by all guard scans.
type CommonScanOptions struct {
	// ConfidenceFilter keeps only rules and findings of the listed confidence levels
	ConfidenceFilter []string `yaml:"confidence" validate:"dive,confidence"`
	// MaxScanGoRoutines controls the number of concurrent scanning threads
	MaxScanGoRoutines int `yaml:"threads" validate:"gte=1,lte=100"`
	// TruffleHog enables the provider detector deep scan
	TruffleHog bool `yaml:"trufflehog"`
	// TruffleHogVerification verifies provider findings against the live service
	TruffleHogVerification bool `yaml:"verify"`
	// HitTimeout is the maximum time to wait for provider detection per scan item
	HitTimeout time.Duration `yaml:"hitTimeout" validate:"gte=0"`
}

// DefaultCommonScanOptions returns sensible default values for common scan options.
func DefaultCommonScanOptions() CommonScanOptions {
	return CommonScanOptions{
		ConfidenceFilter:       []string{},
		MaxScanGoRoutines:      4,
		TruffleHog:             false,
		TruffleHogVerification: false,
		HitTimeout:             60 * time.Second,
	}
}

// ProviderOptions derives the TruffleHog settings from the common options.
func (o CommonScanOptions) ProviderOptions() guard.ProviderScanOptions {
	return guard.ProviderScanOptions{
		MaxGoRoutines: o.MaxScanGoRoutines,
		Verify:        o.TruffleHogVerification,
		Timeout:       o.HitTimeout,
	}
}

// GuardOptions configures content, prompt and command screening.
type GuardOptions struct {
	CommonScanOptions `yaml:",inline"`
	// Rules lists additional rule files, local paths or http(s) URLs
	Rules []string `yaml:"rules" validate:"dive,required"`
}

func DefaultGuardOptions() GuardOptions {
	return GuardOptions{
		CommonScanOptions: DefaultCommonScanOptions(),
		Rules:             []string{},
	}
}

// RepoScanOptions configures scanning a directory tree.
type RepoScanOptions struct {
	// MaxFileSize is a human readable size such as "1MB"
	MaxFileSize    string   `yaml:"maxFileSize" validate:"humansize"`
	IgnorePatterns []string `yaml:"ignore"`
	SkipGitignore  bool     `yaml:"skipGitignore"`
}

func DefaultRepoScanOptions() RepoScanOptions {
	return RepoScanOptions{
		MaxFileSize:    "1MB",
		IgnorePatterns: []string{},
	}
}

// LoadOptions converts the repo options into snapshot loader options.
func (o RepoScanOptions) LoadOptions() (snapshot.LoadOptions, error) {
	size, err := ParseMaxFileSize(o.MaxFileSize)
	if err != nil {
		return snapshot.LoadOptions{}, err
	}
	return snapshot.LoadOptions{
		MaxFileSize:    size,
		IgnorePatterns: o.IgnorePatterns,
		SkipGitignore:  o.SkipGitignore,
	}, nil
}
