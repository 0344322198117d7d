package smells

// Type identifies one of the smell heuristics.
type Type string

const (
	TypeComplexFunction  Type = "complex_function"
	TypeDuplication      Type = "duplication"
	TypeUnusedVariable   Type = "unused_variable"
	TypeUnusedImport     Type = "unused_import"
	TypeDeepNesting      Type = "deep_nesting"
	TypeExcessParameters Type = "excess_parameters"
	TypeGenericName      Type = "generic_name"
)

// AllTypes lists the heuristics in evaluation order.
func AllTypes() []Type {
	return []Type{
		TypeComplexFunction,
		TypeDuplication,
		TypeUnusedVariable,
		TypeUnusedImport,
		TypeDeepNesting,
		TypeExcessParameters,
		TypeGenericName,
	}
}

// Function is the per-function shape the detector needs.
type Function struct {
	CyclomaticComplexity int
	Length               int
	ParameterCount       int
}

// Thresholds configures the heuristic limits.
type Thresholds struct {
	ComplexityWarning  int `json:"complexity_warning"`  // >  adds 1
	ComplexityCritical int `json:"complexity_critical"` // >  adds 2
	LengthWarning      int `json:"length_warning"`      // >  adds 1
	LengthCritical     int `json:"length_critical"`     // >  adds 2
	MaxParameters      int `json:"max_parameters"`
	DuplicateMinLength int `json:"duplicate_min_length"`
	DuplicateMinCount  int `json:"duplicate_min_count"`
	DuplicationCap     int `json:"duplication_cap"`
	UnusedVariableCap  int `json:"unused_variable_cap"`
	UnusedImportCap    int `json:"unused_import_cap"`
	GenericNameCap     int `json:"generic_name_cap"`
	GenericNameMaxLen  int `json:"generic_name_max_len"`
	NestingWarning     int `json:"nesting_warning"`  // == adds 1
	NestingCritical    int `json:"nesting_critical"` // >= adds 2
}

// DefaultThresholds returns the standard heuristic limits.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ComplexityWarning:  15,
		ComplexityCritical: 25,
		LengthWarning:      100,
		LengthCritical:     200,
		MaxParameters:      5,
		DuplicateMinLength: 20,
		DuplicateMinCount:  3,
		DuplicationCap:     5,
		UnusedVariableCap:  5,
		UnusedImportCap:    3,
		GenericNameCap:     3,
		GenericNameMaxLen:  3,
		NestingWarning:     4,
		NestingCritical:    5,
	}
}

// Report is the per-heuristic result of one detection run.
type Report struct {
	Counts map[Type]int `json:"counts"`
	Total  int          `json:"total"`
}

func newReport() *Report {
	return &Report{Counts: make(map[Type]int, len(AllTypes()))}
}

func (r *Report) add(t Type, n int) {
	if n <= 0 {
		return
	}
	r.Counts[t] += n
	r.Total += n
}
