// Package snapshot holds the immutable path to content mapping that impact
// analysis and repository scans run over.
package snapshot

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/minio/highwayhash"
)

var ErrDuplicatePath = errors.New("duplicate path in snapshot")

type Entry struct {
	Path    string
	Content string
}

// Snapshot is an ordered, read-only mapping from file path to content.
// Iteration follows the order the entries were supplied in.
type Snapshot struct {
	entries []Entry
	index   map[string]int
}

// New builds a snapshot in the given order. Paths must be unique.
func New(entries ...Entry) (*Snapshot, error) {
	s := &Snapshot{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		if _, ok := s.index[e.Path]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, e.Path)
		}
		s.index[e.Path] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	return s, nil
}

// FromMap builds a snapshot ordered by path.
func FromMap(files map[string]string) *Snapshot {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		entries = append(entries, Entry{Path: p, Content: files[p]})
	}
	s, _ := New(entries...)
	return s
}

func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

func (s *Snapshot) Get(path string) (string, bool) {
	if s == nil {
		return "", false
	}
	i, ok := s.index[path]
	if !ok {
		return "", false
	}
	return s.entries[i].Content, true
}

// All yields path and content pairs in snapshot order.
func (s *Snapshot) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if s == nil {
			return
		}
		for _, e := range s.entries {
			if !yield(e.Path, e.Content) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in snapshot order.
func (s *Snapshot) Entries() []Entry {
	if s == nil {
		return nil
	}
	return slices.Clone(s.entries)
}

func (s *Snapshot) Paths() []string {
	if s == nil {
		return nil
	}
	paths := make([]string, len(s.entries))
	for i, e := range s.entries {
		paths[i] = e.Path
	}
	return paths
}

var fingerprintKey = []byte("pipeguard-snapshot-fingerprint-k")

// Fingerprint is a HighwayHash-64 over paths and contents in snapshot order.
// Identical snapshots always produce the same value.
func (s *Snapshot) Fingerprint() (uint64, error) {
	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return 0, err
	}
	for path, content := range s.All() {
		_, _ = hash.Write([]byte(path))
		_, _ = hash.Write([]byte{0})
		_, _ = hash.Write([]byte(content))
		_, _ = hash.Write([]byte{0})
	}
	return hash.Sum64(), nil
}

// ID is the hex encoded Fingerprint. Reports carry it so a result can be tied
// to the tree it was computed on. It is empty when hashing fails.
func (s *Snapshot) ID() string {
	fp, err := s.Fingerprint()
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", fp)
}
