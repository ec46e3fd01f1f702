// Package format holds small string, size and path helpers shared by the CLI
// and the analyzers.
package format

import (
	gounits "github.com/docker/go-units"
)

// ParseHumanSize parses a human-readable size string (e.g. "500KB", "2MB") into bytes.
func ParseHumanSize(size string) (int64, error) {
	return gounits.FromHumanSize(size)
}

// HumanSize renders bytes the way ParseHumanSize accepts them.
func HumanSize(bytes int64) string {
	return gounits.HumanSize(float64(bytes))
}
