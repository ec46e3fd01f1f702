package impact

import (
	pkgimpact "github.com/CompassSecurity/pipeguard/pkg/impact"
	"github.com/CompassSecurity/pipeguard/pkg/scan/result"
	"github.com/spf13/cobra"
)

type PreviewOptions struct {
	Root  string
	Diff  bool
	Regex bool
}

var (
	renameOptions PreviewOptions
	bulkOptions   PreviewOptions
)

func NewRenameCmd() *cobra.Command {
	renameCmd := &cobra.Command{
		Use:   "rename <old> <new>",
		Short: "Preview renaming an identifier across the codebase",
		Long:  "Count every literal occurrence of <old> per file and show each file with all occurrences replaced.",
		Example: `
pipeguard impact rename getUser fetchUser --root . --diff
		`,
		Args: cobra.ExactArgs(2),
		RunE: Rename,
	}
	addRootFlag(renameCmd, &renameOptions.Root)
	renameCmd.Flags().BoolVarP(&renameOptions.Diff, "diff", "d", false, "Print a character diff per changed file")

	return renameCmd
}

func Rename(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd, renameOptions.Root)
	if err != nil {
		return err
	}

	analyzer := newAnalyzer(cmd, nil)
	preview, err := analyzer.PreviewRename(cmd.Context(), args[0], args[1], snap)
	if err != nil {
		return err
	}

	result.ReportPreview(preview, snap.ID())
	if renameOptions.Diff {
		printDiffs(cmd.OutOrStdout(), snap, preview, analyzer.Options().RenamePreviewLength)
	}
	return nil
}

func NewBulkCmd() *cobra.Command {
	bulkCmd := &cobra.Command{
		Use:   "bulk <search> <replace>",
		Short: "Preview a bulk text substitution across the codebase",
		Long: `Count every occurrence of <search> per file. The preview shows the start of each file with
the substitution applied, occurrences past the preview are counted but not shown.`,
		Example: `
# Literal substitution
pipeguard impact bulk "http://api.internal" "https://api.internal" --root .

# RE2 pattern, the replacement is taken literally
pipeguard impact bulk 'v1\.2\.\d+' v1.3.0 --regex --root .
		`,
		Args: cobra.ExactArgs(2),
		RunE: Bulk,
	}
	addRootFlag(bulkCmd, &bulkOptions.Root)
	bulkCmd.Flags().BoolVarP(&bulkOptions.Diff, "diff", "d", false, "Print a character diff per changed file")
	bulkCmd.Flags().BoolVarP(&bulkOptions.Regex, "regex", "", false, "Treat <search> as an RE2 regular expression")

	return bulkCmd
}

func Bulk(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd, bulkOptions.Root)
	if err != nil {
		return err
	}

	analyzer := newAnalyzer(cmd, nil)
	var preview pkgimpact.ChangePreview
	if bulkOptions.Regex {
		preview, err = analyzer.PreviewBulkUpdatePattern(cmd.Context(), args[0], args[1], snap)
	} else {
		preview, err = analyzer.PreviewBulkUpdate(cmd.Context(), args[0], args[1], snap)
	}
	if err != nil {
		return err
	}

	result.ReportPreview(preview, snap.ID())
	if bulkOptions.Diff {
		printDiffs(cmd.OutOrStdout(), snap, preview, analyzer.Options().BulkPreviewLength)
	}
	return nil
}
