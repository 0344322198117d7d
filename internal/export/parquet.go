// Package export writes mined timelines to Parquet files using
// github.com/parquet-go/parquet-go.
package export

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/panbanda/thermometer/pkg/analyzer/commit"
)

// CommitRow is one timeline entry as stored in Parquet.
type CommitRow struct {
	// Sequence is the commit's position on the timeline, starting at 0.
	Sequence int32 `parquet:"sequence,snappy"`

	Hash   string    `parquet:"hash,snappy"`
	Date   time.Time `parquet:"date,snappy"`
	Author string    `parquet:"author,snappy"`

	CyclomaticComplexity int32   `parquet:"cyclomatic_complexity,snappy"`
	Coupling             float64 `parquet:"coupling,snappy"`
	MaintainabilityIndex float64 `parquet:"maintainability_index,snappy"`
	LinesOfCode          int32   `parquet:"lines_of_code,snappy"`
	CodeSmells           int32   `parquet:"code_smells,snappy"`
	FunctionsCount       int32   `parquet:"functions_count,snappy"`
	AvgFunctionLength    float64 `parquet:"avg_function_length,snappy"`
	FilesModified        int32   `parquet:"files_modified,snappy"`

	// Trend is the arrow direction relative to the previous commit.
	Trend string `parquet:"trend,snappy"`
}

// Rows converts a timeline into Parquet rows, preserving order.
func Rows(t *commit.Timeline) []CommitRow {
	trends := t.Trends()
	rows := make([]CommitRow, len(t.Commits))
	for i, c := range t.Commits {
		rows[i] = CommitRow{
			Sequence:             int32(i),
			Hash:                 c.Hash,
			Date:                 c.Date.UTC(),
			Author:               c.Author,
			CyclomaticComplexity: int32(c.CyclomaticComplexity),
			Coupling:             c.Coupling,
			MaintainabilityIndex: c.MaintainabilityIndex,
			LinesOfCode:          int32(c.LinesOfCode),
			CodeSmells:           int32(c.CodeSmells),
			FunctionsCount:       int32(c.FunctionsCount),
			AvgFunctionLength:    c.AvgFunctionLength,
			FilesModified:        int32(c.FilesModified),
			Trend:                string(trends[i]),
		}
	}
	return rows
}

// WriteTimeline writes every commit of the timeline to a Parquet file at outputPath.
func WriteTimeline(t *commit.Timeline, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[CommitRow](file)
	if _, err := writer.Write(Rows(t)); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
