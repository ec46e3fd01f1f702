package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/CompassSecurity/pipeguard/internal/cmd/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := newRootCmd()

	assert.Equal(t, "pipeguard", cmd.Use)
	assert.NotNil(t, cmd.PersistentPreRun)
	for _, name := range []string{"json", "logfile", "verbose", "log-level", "color", "config"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	assert.Subset(t, names, []string{"guard", "impact", "config"})
}

func TestRootCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Security screening")
	assert.Contains(t, out.String(), "Change impact")
}

func TestRootCmd_ConfigRuleFileReachesCommand(t *testing.T) {
	dir := t.TempDir()
	rules := filepath.Join(dir, "rules.yml")
	require.NoError(t, os.WriteFile(rules, []byte(`patterns:
  - pattern:
      kind: blocked-command
      name: drop-prod-db
      regex: 'dropdb\s+prod'
      confidence: high
`), 0o600))
	cfg := filepath.Join(dir, "pipeguard.yml")
	require.NoError(t, os.WriteFile(cfg, []byte("guard:\n  rules:\n    - "+rules+"\n"), 0o600))

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "denylisted by config rule file", args: []string{"--config", cfg, "guard", "command", "dropdb", "prod"}, wantErr: common.ErrBlocked},
		{name: "allowed without config", args: []string{"guard", "command", "dropdb", "prod"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newRootCmd()
			cmd.SetArgs(tt.args)
			cmd.SilenceUsage = true
			cmd.SilenceErrors = true

			err := cmd.Execute()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
