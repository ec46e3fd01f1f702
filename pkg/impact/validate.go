package impact

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

type policy func(opts Options, target string, c OperationContext) []Validation

// policies maps each operation to its checks. Rename has no checks of its own
// and is permitted explicitly.
var policies = map[Operation]policy{
	OperationDelete:     validateDelete,
	OperationBulkUpdate: validateBulkUpdate,
	OperationRename:     permit,
}

// ValidateOperation applies the policy for op. Operations without a policy are
// permitted unless Options.RejectUnknownOperations is set.
func (a *Analyzer) ValidateOperation(op Operation, target string, c OperationContext) ValidationResult {
	check, ok := policies[op]
	if !ok {
		check = permit
		if a.opts.RejectUnknownOperations {
			check = rejectUnknown(op)
		} else {
			log.Debug().Str("operation", string(op)).Msg("No policy for operation, permitting")
		}
	}

	validations := check(a.opts, target, c)
	if validations == nil {
		validations = []Validation{}
	}

	result := ValidationResult{Valid: true, Validations: validations}
	for _, v := range validations {
		if v.Type == ValidationError {
			result.Valid = false
			break
		}
	}
	return result
}

func validateDelete(_ Options, _ string, c OperationContext) []Validation {
	var validations []Validation
	if !c.GitTracked {
		validations = append(validations, Validation{Type: ValidationWarning, Message: "File not tracked in git"})
	}
	if c.References > 0 {
		validations = append(validations, Validation{Type: ValidationError, Message: fmt.Sprintf("%d references found", c.References)})
	}
	return validations
}

func validateBulkUpdate(opts Options, _ string, c OperationContext) []Validation {
	if c.TotalFiles > opts.BulkWarnFiles {
		return []Validation{{Type: ValidationWarning, Message: "Large number of files affected"}}
	}
	return nil
}

func permit(Options, string, OperationContext) []Validation {
	return nil
}

func rejectUnknown(op Operation) policy {
	return func(Options, string, OperationContext) []Validation {
		return []Validation{{Type: ValidationError, Message: fmt.Sprintf("unknown operation %q", op)}}
	}
}
