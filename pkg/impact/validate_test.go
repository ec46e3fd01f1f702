package impact

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOperation(t *testing.T) {
	tests := []struct {
		name      string
		op        Operation
		ctx       OperationContext
		wantValid bool
		want      []Validation
	}{
		{
			name:      "delete with references",
			op:        OperationDelete,
			ctx:       OperationContext{GitTracked: true, References: 5},
			wantValid: false,
			want:      []Validation{{Type: ValidationError, Message: "5 references found"}},
		},
		{
			name:      "delete unreferenced tracked file",
			op:        OperationDelete,
			ctx:       OperationContext{GitTracked: true, References: 0},
			wantValid: true,
			want:      []Validation{},
		},
		{
			name:      "delete untracked file",
			op:        OperationDelete,
			ctx:       OperationContext{GitTracked: false},
			wantValid: true,
			want:      []Validation{{Type: ValidationWarning, Message: "File not tracked in git"}},
		},
		{
			name:      "delete untracked referenced file",
			op:        OperationDelete,
			ctx:       OperationContext{GitTracked: false, References: 1},
			wantValid: false,
			want: []Validation{
				{Type: ValidationWarning, Message: "File not tracked in git"},
				{Type: ValidationError, Message: "1 references found"},
			},
		},
		{
			name:      "bulk update over threshold",
			op:        OperationBulkUpdate,
			ctx:       OperationContext{TotalFiles: 51},
			wantValid: true,
			want:      []Validation{{Type: ValidationWarning, Message: "Large number of files affected"}},
		},
		{
			name:      "bulk update at threshold",
			op:        OperationBulkUpdate,
			ctx:       OperationContext{TotalFiles: 50},
			wantValid: true,
			want:      []Validation{},
		},
		{
			name:      "rename is always permitted",
			op:        OperationRename,
			ctx:       OperationContext{References: 100, TotalFiles: 1000},
			wantValid: true,
			want:      []Validation{},
		},
		{
			name:      "unknown operation",
			op:        Operation("chmod"),
			ctx:       OperationContext{References: 3},
			wantValid: true,
			want:      []Validation{},
		},
	}

	a := New(DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := a.ValidateOperation(tt.op, "src/helper.js", tt.ctx)
			assert.Equal(t, tt.wantValid, got.Valid)
			assert.Equal(t, tt.want, got.Validations)
		})
	}
}

func TestValidateOperation_RejectUnknown(t *testing.T) {
	opts := DefaultOptions()
	opts.RejectUnknownOperations = true
	a := New(opts)

	got := a.ValidateOperation(Operation("chmod"), "x", OperationContext{})
	assert.False(t, got.Valid)
	assert.Equal(t, []Validation{{Type: ValidationError, Message: `unknown operation "chmod"`}}, got.Validations)

	got = a.ValidateOperation(OperationRename, "x", OperationContext{})
	assert.True(t, got.Valid)
}

func TestValidateOperation_ValidIffNoError(t *testing.T) {
	a := New(DefaultOptions())
	for _, op := range []Operation{OperationDelete, OperationRename, OperationBulkUpdate, "other"} {
		for refs := 0; refs < 3; refs++ {
			for _, tracked := range []bool{true, false} {
				got := a.ValidateOperation(op, "t", OperationContext{GitTracked: tracked, References: refs, TotalFiles: refs * 40})
				hasError := false
				for _, v := range got.Validations {
					hasError = hasError || v.Type == ValidationError
				}
				assert.Equal(t, !hasError, got.Valid)
			}
		}
	}
}

func TestValidateOperation_CustomThreshold(t *testing.T) {
	opts := DefaultOptions()
	opts.BulkWarnFiles = 2
	a := New(opts)

	got := a.ValidateOperation(OperationBulkUpdate, "x", OperationContext{TotalFiles: 3})
	assert.Len(t, got.Validations, 1)
}
