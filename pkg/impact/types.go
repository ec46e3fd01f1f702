package impact

type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "LOW"
	ImpactMedium ImpactLevel = "MEDIUM"
	ImpactHigh   ImpactLevel = "HIGH"
)

// ImpactReport describes which files reference a deletion target.
type ImpactReport struct {
	File         string      `json:"file"`
	References   []string    `json:"references"`
	ImpactLevel  ImpactLevel `json:"impactLevel"`
	SafeToDelete bool        `json:"safeToDelete"`
}

// FileChange is the per-file part of a ChangePreview.
type FileChange struct {
	File        string `json:"file"`
	Occurrences int    `json:"occurrences"`
	Preview     string `json:"preview"`
}

// ChangePreview summarises a rename or bulk substitution. Only files with at
// least one occurrence appear in Changes.
type ChangePreview struct {
	Search           string       `json:"search"`
	Replace          string       `json:"replace"`
	TotalFiles       int          `json:"totalFiles"`
	TotalOccurrences int          `json:"totalOccurrences"`
	Changes          []FileChange `json:"changes"`
}

type Operation string

const (
	OperationDelete     Operation = "delete"
	OperationRename     Operation = "rename"
	OperationBulkUpdate Operation = "bulk-update"
)

// OperationContext carries the signals ValidateOperation decides on. GitTracked
// is supplied by the caller's VCS integration.
type OperationContext struct {
	GitTracked bool `json:"gitTracked"`
	References int  `json:"references"`
	TotalFiles int  `json:"totalFiles"`
}

type ValidationType string

const (
	ValidationWarning ValidationType = "WARNING"
	ValidationError   ValidationType = "ERROR"
)

type Validation struct {
	Type    ValidationType `json:"type"`
	Message string         `json:"message"`
}

// ValidationResult is valid unless it holds at least one ERROR entry.
type ValidationResult struct {
	Valid       bool         `json:"valid"`
	Validations []Validation `json:"validations"`
}
