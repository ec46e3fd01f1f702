// Package impact holds the commands that estimate the blast radius of a
// deletion, rename or bulk edit before it is applied.
package impact

import (
	"fmt"
	"io"

	"github.com/CompassSecurity/pipeguard/internal/cmd/common"
	"github.com/CompassSecurity/pipeguard/pkg/format"
	pkgimpact "github.com/CompassSecurity/pipeguard/pkg/impact"
	"github.com/CompassSecurity/pipeguard/pkg/snapshot"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewImpactRootCmd() *cobra.Command {
	impactCmd := &cobra.Command{
		Use:   "impact [command]",
		Short: "Estimate the blast radius of file deletions, renames and bulk edits",
		Long: `Analyze how many files of a codebase reference a target, preview renames and bulk
substitutions and validate an operation against the safety policies.

Nothing is ever written, all commands only read the given root directory.`,
		GroupID: "Impact",
	}

	impactCmd.AddCommand(NewAnalyzeCmd())
	impactCmd.AddCommand(NewRenameCmd())
	impactCmd.AddCommand(NewBulkCmd())
	impactCmd.AddCommand(NewValidateCmd())

	return impactCmd
}

func addRootFlag(cmd *cobra.Command, root *string) {
	cmd.Flags().StringVarP(root, "root", "", ".", "Root directory of the codebase")
}

func addExtensionsFlag(cmd *cobra.Command, extensions *[]string) {
	cmd.Flags().StringSliceVarP(extensions, "extensions", "", pkgimpact.DefaultOptions().Extensions, "Extensions stripped from a target to also match extension-less imports")
}

// newAnalyzer starts from the config file options and applies --extensions
// when it was set.
func newAnalyzer(cmd *cobra.Command, extensions []string) *pkgimpact.Analyzer {
	opts := common.Config().Impact
	if f := cmd.Flags().Lookup("extensions"); f != nil && f.Changed {
		opts.Extensions = extensions
	}
	return pkgimpact.New(opts)
}

func loadSnapshot(cmd *cobra.Command, root string) (*snapshot.Snapshot, error) {
	if !format.IsDirectory(root) {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	loadOpts, err := common.Config().Repo.LoadOptions()
	if err != nil {
		return nil, err
	}

	snap, err := snapshot.Load(cmd.Context(), root, loadOpts)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("root", root).Int("files", snap.Len()).Str("snapshot", snap.ID()).Msg("Loaded codebase")
	return snap, nil
}

// printDiffs writes the diff between the start of each original file and its
// preview.
func printDiffs(out io.Writer, snap *snapshot.Snapshot, preview pkgimpact.ChangePreview, window int) {
	color := common.LogColor && !common.JsonLogoutput
	for _, change := range preview.Changes {
		content, _ := snap.Get(change.File)
		before := format.Truncate(content, window)
		_, _ = fmt.Fprintf(out, "--- %s (%d occurrences)%s%s%s",
			change.File, change.Occurrences,
			format.GetPlatformAgnosticNewline(),
			pkgimpact.RenderDiff(before, change.Preview, color),
			format.GetPlatformAgnosticNewline())
	}
}
