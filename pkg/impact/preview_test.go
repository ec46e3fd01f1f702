package impact

import (
	"context"
	"strings"
	"testing"

	"github.com/CompassSecurity/pipeguard/pkg/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreviewRename(t *testing.T) {
	a := New(DefaultOptions())
	snap := mustSnapshot(t,
		snapshot.Entry{Path: "a.js", Content: "getUser(); getUser(); getUserById()"},
		snapshot.Entry{Path: "b.js", Content: "nothing here"},
		snapshot.Entry{Path: "c.js", Content: "return getUser()"},
	)

	preview, err := a.PreviewRename(context.Background(), "getUser", "fetchUser", snap)
	require.NoError(t, err)

	assert.Equal(t, "getUser", preview.Search)
	assert.Equal(t, "fetchUser", preview.Replace)
	assert.Equal(t, []FileChange{
		{File: "a.js", Occurrences: 3, Preview: "fetchUser(); fetchUser(); fetchUserById()"},
		{File: "c.js", Occurrences: 1, Preview: "return fetchUser()"},
	}, preview.Changes)
	assert.Equal(t, 2, preview.TotalFiles)
	assert.Equal(t, 4, preview.TotalOccurrences)
}

func TestPreviewRename_TotalsMatchChanges(t *testing.T) {
	a := New(DefaultOptions())
	snap := snapshot.FromMap(map[string]string{
		"1.py": "x x x",
		"2.py": "y",
		"3.py": "x",
		"4.py": "xx",
	})

	preview, err := a.PreviewRename(context.Background(), "x", "z", snap)
	require.NoError(t, err)

	sum := 0
	for _, c := range preview.Changes {
		assert.Positive(t, c.Occurrences)
		sum += c.Occurrences
	}
	assert.Equal(t, sum, preview.TotalOccurrences)
	assert.Equal(t, len(preview.Changes), preview.TotalFiles)
	assert.Equal(t, 3, preview.TotalFiles)
	assert.Equal(t, 6, preview.TotalOccurrences)
}

func TestPreviewRename_SubstitutesThenTruncates(t *testing.T) {
	a := New(DefaultOptions())
	content := strings.Repeat("a", 198) + "old"
	snap := mustSnapshot(t, snapshot.Entry{Path: "f.js", Content: content})

	preview, err := a.PreviewRename(context.Background(), "old", "NEW", snap)
	require.NoError(t, err)

	require.Len(t, preview.Changes, 1)
	assert.Equal(t, strings.Repeat("a", 198)+"NE", preview.Changes[0].Preview)
}

func TestPreviewRename_Literal(t *testing.T) {
	a := New(DefaultOptions())
	snap := mustSnapshot(t, snapshot.Entry{Path: "f.js", Content: "a.b(c) and axb(c)"})

	preview, err := a.PreviewRename(context.Background(), "a.b(c)", "d", snap)
	require.NoError(t, err)

	require.Len(t, preview.Changes, 1)
	assert.Equal(t, 1, preview.Changes[0].Occurrences)
	assert.Equal(t, "d and axb(c)", preview.Changes[0].Preview)
}

func TestPreviewRename_InvalidPattern(t *testing.T) {
	a := New(DefaultOptions())

	_, err := a.PreviewRename(context.Background(), "", "x", snapshot.FromMap(nil))
	assert.ErrorIs(t, err, ErrInvalidPattern)

	_, err = a.PreviewRename(context.Background(), "\xff", "x", snapshot.FromMap(nil))
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestPreviewBulkUpdate_TruncatesThenSubstitutes(t *testing.T) {
	a := New(DefaultOptions())
	content := "foo " + strings.Repeat("-", 100) + " foo"
	snap := mustSnapshot(t, snapshot.Entry{Path: "f.txt", Content: content})

	preview, err := a.PreviewBulkUpdate(context.Background(), "foo", "barbaz", snap)
	require.NoError(t, err)

	require.Len(t, preview.Changes, 1)
	change := preview.Changes[0]
	assert.Equal(t, 2, change.Occurrences)
	assert.Equal(t, 2, preview.TotalOccurrences)
	// the second match lies past the preview window and is not substituted
	assert.Equal(t, "barbaz "+strings.Repeat("-", 96), change.Preview)
}

func TestPreviewBulkUpdate_MatchCutByWindow(t *testing.T) {
	a := New(DefaultOptions())
	content := strings.Repeat("x", 98) + "foo"
	snap := mustSnapshot(t, snapshot.Entry{Path: "f.txt", Content: content})

	preview, err := a.PreviewBulkUpdate(context.Background(), "foo", "bar", snap)
	require.NoError(t, err)

	assert.Equal(t, 1, preview.TotalOccurrences)
	assert.Equal(t, strings.Repeat("x", 98)+"fo", preview.Changes[0].Preview)
}

func TestPreviewBulkUpdate_ExcludesUnmatched(t *testing.T) {
	a := New(DefaultOptions())
	snap := snapshot.FromMap(map[string]string{"a": "v1", "b": "v2", "c": "v1 v1"})

	preview, err := a.PreviewBulkUpdate(context.Background(), "v1", "v3", snap)
	require.NoError(t, err)

	assert.Equal(t, []FileChange{
		{File: "a", Occurrences: 1, Preview: "v3"},
		{File: "c", Occurrences: 2, Preview: "v3 v3"},
	}, preview.Changes)
}

func TestPreviewBulkUpdate_NoMatches(t *testing.T) {
	a := New(DefaultOptions())

	preview, err := a.PreviewBulkUpdate(context.Background(), "absent", "x", snapshot.FromMap(map[string]string{"a": "b"}))
	require.NoError(t, err)

	assert.Empty(t, preview.Changes)
	assert.NotNil(t, preview.Changes)
	assert.Zero(t, preview.TotalFiles)
	assert.Zero(t, preview.TotalOccurrences)
}

func TestPreviewBulkUpdatePattern(t *testing.T) {
	a := New(DefaultOptions())
	snap := snapshot.FromMap(map[string]string{"a.go": "v1.2.3 and v1.2.4", "b.go": "none"})

	preview, err := a.PreviewBulkUpdatePattern(context.Background(), `v1\.2\.\d`, "v2.0.0", snap)
	require.NoError(t, err)
	assert.Equal(t, []FileChange{{File: "a.go", Occurrences: 2, Preview: "v2.0.0 and v2.0.0"}}, preview.Changes)

	tests := []string{"(", "", "a*"}
	for _, expr := range tests {
		_, err := a.PreviewBulkUpdatePattern(context.Background(), expr, "x", snap)
		assert.ErrorIs(t, err, ErrInvalidPattern, expr)
	}
}

func TestPreview_Idempotent(t *testing.T) {
	a := New(DefaultOptions())
	snap := snapshot.FromMap(map[string]string{"a": "foo foo", "b": "foo"})

	first, err := a.PreviewBulkUpdate(context.Background(), "foo", "bar", snap)
	require.NoError(t, err)
	second, err := a.PreviewBulkUpdate(context.Background(), "foo", "bar", snap)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMatcher_Count(t *testing.T) {
	m, err := Literal("aa")
	require.NoError(t, err)

	assert.Equal(t, 2, m.Count("aaaa"))
	assert.Equal(t, 1, m.Count("aaa"))
	assert.Equal(t, "bba", m.ReplaceAll("aaaaa", "b"))
}

func TestPreviewBulkUpdate_RejectsZeroMatcher(t *testing.T) {
	a := New(DefaultOptions())
	snap := snapshot.FromMap(map[string]string{"a.js": "getUser()"})

	preview, err := a.previewBulkUpdate(context.Background(), Matcher{}, "fetchUser", snap)
	assert.ErrorIs(t, err, ErrInvalidPattern)
	assert.Empty(t, preview.Changes)
}
