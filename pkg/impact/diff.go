package impact

import (
	"github.com/acarl005/stripansi"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// RenderDiff returns a character level diff of before and after, coloured with
// ANSI escapes when color is set.
func RenderDiff(before, after string, color bool) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(before, after, false))
	out := dmp.DiffPrettyText(diffs)
	if !color {
		return stripansi.Strip(out)
	}
	return out
}
