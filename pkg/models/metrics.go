package models

import "time"

// FileMetrics holds the quality indicators computed for one source file at one commit.
type FileMetrics struct {
	CyclomaticComplexity int     `json:"cyclomatic_complexity" parquet:"cyclomatic_complexity" toon:"cyclomatic_complexity"`
	Coupling             float64 `json:"coupling" parquet:"coupling" toon:"coupling"`
	MaintainabilityIndex float64 `json:"maintainability_index" parquet:"maintainability_index" toon:"maintainability_index"`
	LinesOfCode          int     `json:"lines_of_code" parquet:"lines_of_code" toon:"lines_of_code"`
	CodeSmells           int     `json:"code_smells" parquet:"code_smells" toon:"code_smells"`
	FunctionsCount       int     `json:"functions_count" parquet:"functions_count" toon:"functions_count"`
	AvgFunctionLength    float64 `json:"avg_function_length" parquet:"avg_function_length" toon:"avg_function_length"`
}

// NeutralMaintainability is the maintainability index reported when a file
// could not be measured.
const NeutralMaintainability = 100.0

// NeutralFileMetrics returns the record reported for a file whose extraction failed:
// every count is zero and the maintainability index is 100.
func NeutralFileMetrics() FileMetrics {
	return FileMetrics{MaintainabilityIndex: NeutralMaintainability}
}

// CommitMetrics aggregates FileMetrics over the source files modified by one commit.
type CommitMetrics struct {
	Hash                 string    `json:"hash" toon:"hash"`
	Date                 time.Time `json:"date" toon:"date"`
	Author               string    `json:"author" toon:"author"`
	CyclomaticComplexity int       `json:"complexity" toon:"complexity"`
	Coupling             float64   `json:"coupling" toon:"coupling"`
	MaintainabilityIndex float64   `json:"maintainability_index" toon:"maintainability_index"`
	LinesOfCode          int       `json:"lines_of_code" toon:"lines_of_code"`
	CodeSmells           int       `json:"code_smells" toon:"code_smells"`
	FunctionsCount       int       `json:"functions_count" toon:"functions_count"`
	AvgFunctionLength    float64   `json:"avg_function_length" toon:"avg_function_length"`
	FilesModified        int       `json:"files_modified" toon:"files_modified"`
}

// ShortHashLength is the number of hash characters kept in CommitMetrics.Hash.
const ShortHashLength = 7

// ShortHash truncates a commit identifier to ShortHashLength characters.
func ShortHash(id string) string {
	if len(id) <= ShortHashLength {
		return id
	}
	return id[:ShortHashLength]
}
