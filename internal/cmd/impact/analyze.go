package impact

import (
	"github.com/CompassSecurity/pipeguard/pkg/scan/result"
	"github.com/spf13/cobra"
)

type AnalyzeOptions struct {
	Root       string
	Extensions []string
}

var analyzeOptions AnalyzeOptions

func NewAnalyzeCmd() *cobra.Command {
	analyzeCmd := &cobra.Command{
		Use:   "analyze <target>",
		Short: "List the files that reference a target file",
		Long:  "A file references the target when its content contains the target path, or the path without a known extension.",
		Example: `
# Who imports src/utils/helper.js?
pipeguard impact analyze src/utils/helper.js --root .
		`,
		Args: cobra.ExactArgs(1),
		RunE: Analyze,
	}
	addRootFlag(analyzeCmd, &analyzeOptions.Root)
	addExtensionsFlag(analyzeCmd, &analyzeOptions.Extensions)

	return analyzeCmd
}

func Analyze(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot(cmd, analyzeOptions.Root)
	if err != nil {
		return err
	}

	report := newAnalyzer(cmd, analyzeOptions.Extensions).AnalyzeImpact(cmd.Context(), args[0], snap)
	result.ReportImpact(report, snap.ID())
	return nil
}
