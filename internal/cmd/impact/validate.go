package impact

import (
	"github.com/CompassSecurity/pipeguard/internal/cmd/common"
	pkgimpact "github.com/CompassSecurity/pipeguard/pkg/impact"
	"github.com/CompassSecurity/pipeguard/pkg/scan/result"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type ValidateOptions struct {
	Root       string
	Extensions []string
	Tracked    bool
	Context    string
}

var validateOptions ValidateOptions

func NewValidateCmd() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate <operation> <target>",
		Short: "Validate an operation against the safety policies",
		Long: `Validate delete, rename or bulk-update operations. With --root the reference count (delete)
or the number of affected files (bulk-update) is computed from the codebase, --context
overrides any field explicitly. Exits with status 1 when the operation is not valid.`,
		Example: `
# Computed from the codebase
pipeguard impact validate delete src/utils/helper.js --root .

# Supplied by the caller
pipeguard impact validate delete build.log --tracked=false --context '{"references":0}'
		`,
		Args: cobra.ExactArgs(2),
		RunE: Validate,
	}
	validateCmd.Flags().StringVarP(&validateOptions.Root, "root", "", "", "Root directory used to compute references and affected files")
	addExtensionsFlag(validateCmd, &validateOptions.Extensions)
	validateCmd.Flags().BoolVarP(&validateOptions.Tracked, "tracked", "", true, "Whether the target is tracked by git")
	validateCmd.Flags().StringVarP(&validateOptions.Context, "context", "", "", `Operation context as JSON, e.g. {"gitTracked":true,"references":3,"totalFiles":12}`)

	return validateCmd
}

func Validate(cmd *cobra.Command, args []string) error {
	op, target := pkgimpact.Operation(args[0]), args[1]
	analyzer := newAnalyzer(cmd, validateOptions.Extensions)

	opCtx := pkgimpact.OperationContext{GitTracked: validateOptions.Tracked}
	if validateOptions.Root != "" {
		snap, err := loadSnapshot(cmd, validateOptions.Root)
		if err != nil {
			return err
		}
		opCtx.TotalFiles = snap.Len()

		switch op {
		case pkgimpact.OperationDelete:
			opCtx.References = len(analyzer.AnalyzeImpact(cmd.Context(), target, snap).References)
		case pkgimpact.OperationBulkUpdate:
			preview, err := analyzer.PreviewBulkUpdate(cmd.Context(), target, target, snap)
			if err != nil {
				return err
			}
			opCtx.TotalFiles = preview.TotalFiles
		}
	}

	opCtx, err := pkgimpact.ParseOperationContext(validateOptions.Context, opCtx)
	if err != nil {
		log.Fatal().Err(err).Str("context", validateOptions.Context).Msg("Failed parsing --context")
	}

	res := analyzer.ValidateOperation(op, target, opCtx)
	result.ReportValidation(op, target, res)
	if !res.Valid {
		return common.ErrBlocked
	}
	return nil
}
