package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		fieldName string
		wantError bool
		errMsg    string
	}{
		{
			name:      "valid https url",
			url:       "https://example.com/rules.yml",
			fieldName: "rules URL",
		},
		{
			name:      "valid http url",
			url:       "http://localhost:8080",
			fieldName: "rules URL",
		},
		{
			name:      "empty url",
			url:       "",
			fieldName: "rules URL",
			wantError: true,
			errMsg:    "cannot be empty",
		},
		{
			name:      "no scheme",
			url:       "example.com",
			fieldName: "rules URL",
			wantError: true,
			errMsg:    "must include a scheme",
		},
		{
			name:      "no host",
			url:       "https://",
			fieldName: "rules URL",
			wantError: true,
			errMsg:    "must include a host",
		},
		{
			name:      "invalid url",
			url:       "ht!tp://invalid",
			fieldName: "URL",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url, tt.fieldName)
			if !tt.wantError {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.errMsg != "" {
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestParseMaxFileSize(t *testing.T) {
	tests := []struct {
		name      string
		sizeStr   string
		want      int64
		wantError bool
	}{
		{name: "megabytes", sizeStr: "1MB", want: 1000 * 1000}, // FromHumanSize uses decimal units
		{name: "kilobytes", sizeStr: "500KB", want: 500 * 1000},
		{name: "plain bytes", sizeStr: "2048", want: 2048},
		{name: "empty means unlimited", sizeStr: "", want: 0},
		{name: "invalid format", sizeStr: "invalid", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMaxFileSize(tt.sizeStr)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateThreadCount(t *testing.T) {
	tests := []struct {
		name      string
		threads   int
		wantError bool
	}{
		{name: "valid thread count", threads: 4},
		{name: "max threads", threads: 100},
		{name: "min threads", threads: 1},
		{name: "zero threads", threads: 0, wantError: true},
		{name: "negative threads", threads: -1, wantError: true},
		{name: "too many threads", threads: 101, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateThreadCount(tt.threads)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
