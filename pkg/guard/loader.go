package guard

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/CompassSecurity/pipeguard/pkg/httpclient"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// maxRuleFileSize bounds remote rule downloads.
const maxRuleFileSize = 16 << 20

// ParseRules decodes a rule file. Rows without a kind are secret rules.
func ParseRules(data []byte) ([]Rule, error) {
	var file RuleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed unmarshalling rules: %w", err)
	}

	rules := make([]Rule, 0, len(file.Patterns))
	for _, element := range file.Patterns {
		rule := element.Pattern
		if rule.Kind == "" {
			rule.Kind = KindSecret
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

// LoadRules reads a rule file from a local path or an http(s) URL.
func LoadRules(ctx context.Context, location string) ([]Rule, error) {
	var (
		data []byte
		err  error
	)
	if isRemote(location) {
		log.Debug().Str("url", location).Msg("Downloading rules file")
		data, err = download(ctx, location)
	} else {
		log.Debug().Str("path", location).Msg("Loading rules file from filesystem")
		// #nosec G304 - user supplied rules path
		data, err = os.ReadFile(location)
	}
	if err != nil {
		return nil, fmt.Errorf("failed reading rules %s: %w", location, err)
	}

	return ParseRules(data)
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func download(ctx context.Context, url string) ([]byte, error) {
	client := httpclient.GetPipeguardHTTPClient(nil)
	req, err := httpclient.NewRequest(ctx, http.MethodGet, url)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxRuleFileSize))
}
