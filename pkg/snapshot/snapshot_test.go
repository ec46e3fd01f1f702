package snapshot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PreservesOrder(t *testing.T) {
	s, err := New(
		Entry{Path: "z.js", Content: "z"},
		Entry{Path: "a.js", Content: "a"},
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"z.js", "a.js"}, s.Paths())
	assert.Equal(t, 2, s.Len())

	content, ok := s.Get("a.js")
	assert.True(t, ok)
	assert.Equal(t, "a", content)

	_, ok = s.Get("missing.js")
	assert.False(t, ok)
}

func TestNew_DuplicatePath(t *testing.T) {
	_, err := New(Entry{Path: "a.js"}, Entry{Path: "a.js"})
	assert.ErrorIs(t, err, ErrDuplicatePath)
}

func TestFromMap_SortsPaths(t *testing.T) {
	s := FromMap(map[string]string{"src/b.js": "b", "src/a.js": "a", "README.md": "r"})

	assert.Equal(t, []string{"README.md", "src/a.js", "src/b.js"}, s.Paths())
}

func TestAll_StopsEarly(t *testing.T) {
	s := FromMap(map[string]string{"a": "1", "b": "2", "c": "3"})

	var seen []string
	for path := range s.All() {
		seen = append(seen, path)
		if len(seen) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestNilSnapshot(t *testing.T) {
	var s *Snapshot

	assert.Equal(t, 0, s.Len())
	assert.Nil(t, s.Paths())
	for range s.All() {
		t.Fatal("nil snapshot must not yield")
	}
}

func TestEntries_ReturnsCopy(t *testing.T) {
	s := FromMap(map[string]string{"a": "1"})
	entries := s.Entries()
	entries[0].Content = "changed"

	content, _ := s.Get("a")
	assert.Equal(t, "1", content)
}

func TestFingerprint(t *testing.T) {
	a := FromMap(map[string]string{"a.js": "x", "b.js": "y"})
	b := FromMap(map[string]string{"b.js": "y", "a.js": "x"})
	c := FromMap(map[string]string{"a.js": "x", "b.js": "z"})
	// path/content boundaries must not collide
	d := FromMap(map[string]string{"a.jsx": "", "b.js": "y"})

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, _ := b.Fingerprint()
	fc, _ := c.Fingerprint()
	fd, _ := d.Fingerprint()

	assert.Equal(t, fa, fb)
	assert.NotEqual(t, fa, fc)
	assert.NotEqual(t, fa, fd)
}

func TestID(t *testing.T) {
	a := FromMap(map[string]string{"a.js": "x", "b.js": "y"})
	b := FromMap(map[string]string{"b.js": "y", "a.js": "x"})
	c := FromMap(map[string]string{"a.js": "x", "b.js": "z"})

	fp, err := a.Fingerprint()
	require.NoError(t, err)

	assert.Len(t, a.ID(), 16)
	assert.Equal(t, fmt.Sprintf("%016x", fp), a.ID())
	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0644))
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.js", `import { helper } from "./utils/helper"`)
	writeFile(t, root, "src/utils/helper.js", "export const helper = {}")
	writeFile(t, root, "node_modules/dep/index.js", "module.exports = {}")
	writeFile(t, root, "dist/bundle.js", "bundled")
	writeFile(t, root, "big.txt", strings.Repeat("x", 2048))
	writeFile(t, root, "logo.bin", "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	writeFile(t, root, ".gitignore", "dist/\n")

	s, err := Load(context.Background(), root, LoadOptions{MaxFileSize: 1024})
	require.NoError(t, err)

	assert.Equal(t, []string{".gitignore", "src/main.js", "src/utils/helper.js"}, s.Paths())
	content, ok := s.Get("src/utils/helper.js")
	assert.True(t, ok)
	assert.Equal(t, "export const helper = {}", content)
}

func TestLoad_ExtraIgnoresAndSkipGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.js", "a")
	writeFile(t, root, "a_test.js", "test")
	writeFile(t, root, "dist/bundle.js", "bundled")
	writeFile(t, root, ".gitignore", "dist/\n")

	s, err := Load(context.Background(), root, LoadOptions{
		IgnorePatterns: []string{"*_test.js", ".gitignore"},
		SkipGitignore:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.js", "dist/bundle.js"}, s.Paths())
}

func TestLoad_NestedGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.log", "root log")
	writeFile(t, root, "pkg/main.go", "package pkg")
	writeFile(t, root, "pkg/debug.log", "debug")
	writeFile(t, root, "pkg/.gitignore", "*.log\n")
	writeFile(t, root, "other/trace.log", "trace")

	tests := []struct {
		name     string
		opts     LoadOptions
		expected []string
	}{
		{
			name:     "nested patterns apply below their directory",
			expected: []string{"a.log", "other/trace.log", "pkg/.gitignore", "pkg/main.go"},
		},
		{
			name:     "skip gitignore",
			opts:     LoadOptions{SkipGitignore: true},
			expected: []string{"a.log", "other/trace.log", "pkg/.gitignore", "pkg/debug.log", "pkg/main.go"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Load(context.Background(), root, tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Paths())
		})
	}
}
