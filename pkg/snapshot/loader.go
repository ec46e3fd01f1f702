package snapshot

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/CompassSecurity/pipeguard/pkg/format"
	"github.com/h2non/filetype"
	"github.com/rs/zerolog/log"
	ignore "github.com/sabhiram/go-gitignore"
	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

var defaultIgnores = []string{
	".git/",
	"node_modules/",
	"*.png",
	"*.jpg",
	"*.jpeg",
	"*.gif",
	"*.ico",
	"*.mp4",
	"*.zip",
	"*.exe",
}

type LoadOptions struct {
	// MaxFileSize skips files larger than this many bytes. Zero disables the limit.
	MaxFileSize int64
	// IgnorePatterns are gitignore style patterns applied on top of the defaults.
	IgnorePatterns []string
	// SkipGitignore disables reading .gitignore files.
	SkipGitignore bool
}

// Load walks root and returns every text file as a snapshot ordered by path.
// root may be a local directory or any URL supported by afs. The root
// .gitignore prunes the walk; a nested .gitignore applies to the paths below
// its own directory.
func Load(ctx context.Context, root string, opts LoadOptions) (*Snapshot, error) {
	fs := afs.New()

	patterns := slices.Concat(defaultIgnores, opts.IgnorePatterns)
	if !opts.SkipGitignore {
		lines, err := readGitignore(ctx, fs, root)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, lines...)
	}
	matcher := ignore.CompileIgnoreLines(patterns...)

	var files, nested []string
	var visitor storage.OnVisit = func(ctx context.Context, baseURL, parent string, info os.FileInfo, reader io.Reader) (bool, error) {
		rel := path.Join(parent, info.Name())
		if info.IsDir() {
			return !matcher.MatchesPath(rel + "/"), nil
		}
		if matcher.MatchesPath(rel) {
			return true, nil
		}
		if !opts.SkipGitignore && parent != "" && info.Name() == ".gitignore" {
			nested = append(nested, rel)
		}
		if opts.MaxFileSize > 0 && info.Size() > opts.MaxFileSize {
			log.Debug().Str("file", rel).Str("size", format.HumanSize(info.Size())).Msg("Skipping file above max size")
			return true, nil
		}
		files = append(files, rel)
		return true, nil
	}
	if err := fs.Walk(ctx, root, visitor); err != nil {
		return nil, fmt.Errorf("failed walking %s: %w", root, err)
	}
	files, err := applyNestedGitignores(ctx, fs, root, files, nested)
	if err != nil {
		return nil, err
	}
	slices.Sort(files)

	entries := make([]Entry, 0, len(files))
	for _, rel := range files {
		content, err := fs.DownloadWithURL(ctx, url.Join(root, rel))
		if err != nil {
			return nil, fmt.Errorf("failed reading %s: %w", rel, err)
		}
		if isBinary(content) {
			log.Trace().Str("file", rel).Msg("Skipping binary file")
			continue
		}
		entries = append(entries, Entry{Path: rel, Content: string(content)})
	}

	log.Debug().Str("root", root).Int("files", len(entries)).Msg("Loaded snapshot")
	return New(entries...)
}

// applyNestedGitignores drops every file matched by a .gitignore in one of its
// parent directories, relative to that directory.
func applyNestedGitignores(ctx context.Context, fs afs.Service, root string, files, gitignores []string) ([]string, error) {
	for _, gitignore := range gitignores {
		dir := path.Dir(gitignore)
		lines, err := readGitignore(ctx, fs, url.Join(root, dir))
		if err != nil {
			return nil, err
		}
		scoped := ignore.CompileIgnoreLines(lines...)
		prefix := dir + "/"
		files = slices.DeleteFunc(files, func(file string) bool {
			rel, ok := strings.CutPrefix(file, prefix)
			return ok && scoped.MatchesPath(rel)
		})
		log.Trace().Str("gitignore", gitignore).Int("remaining", len(files)).Msg("Applied nested .gitignore")
	}
	return files, nil
}

func readGitignore(ctx context.Context, fs afs.Service, root string) ([]string, error) {
	gitignoreURL := url.Join(root, ".gitignore")
	exists, err := fs.Exists(ctx, gitignoreURL)
	if err != nil || !exists {
		return nil, nil
	}
	content, err := fs.DownloadWithURL(ctx, gitignoreURL)
	if err != nil {
		return nil, fmt.Errorf("failed reading .gitignore: %w", err)
	}
	return strings.Split(string(content), "\n"), nil
}

func isBinary(content []byte) bool {
	if len(content) == 0 {
		return false
	}
	kind, _ := filetype.Match(content)
	return kind != filetype.Unknown
}
