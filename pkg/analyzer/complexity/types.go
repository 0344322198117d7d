package complexity

// Function holds the per-function measurements reported for one definition.
type Function struct {
	Name                 string `json:"name"`
	StartLine            uint32 `json:"start_line"`
	EndLine              uint32 `json:"end_line"`
	CyclomaticComplexity int    `json:"cyclomatic_complexity"`
	Length               int    `json:"length"`
	ParameterCount       int    `json:"parameter_count"`
}

// Result is the analysis of one source file.
//
// NonCommentLines and TokenCount are nil when the file could not be sized
// reliably (the syntax tree contains errors); callers apply their own fallbacks.
type Result struct {
	Path            string     `json:"path"`
	Language        string     `json:"language"`
	Functions       []Function `json:"functions"`
	NonCommentLines *int       `json:"non_comment_lines,omitempty"`
	TokenCount      *int       `json:"token_count,omitempty"`
}

// TotalCyclomatic sums the cyclomatic complexity of every function.
func (r *Result) TotalCyclomatic() int {
	var total int
	for _, fn := range r.Functions {
		total += fn.CyclomaticComplexity
	}
	return total
}
