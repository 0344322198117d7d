package export

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panbanda/thermometer/pkg/analyzer/commit"
	"github.com/panbanda/thermometer/pkg/models"
)

func sampleTimeline() *commit.Timeline {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &commit.Timeline{Commits: []models.CommitMetrics{
		{Hash: "aaaaaaa", Date: base, Author: "ana", CyclomaticComplexity: 10, Coupling: 1.5, MaintainabilityIndex: 70.25, LinesOfCode: 120, CodeSmells: 2, FunctionsCount: 4, AvgFunctionLength: 12.5, FilesModified: 2},
		{Hash: "bbbbbbb", Date: base.Add(24 * time.Hour), Author: "bo", CyclomaticComplexity: 15, Coupling: 2, MaintainabilityIndex: 60, LinesOfCode: 150, CodeSmells: 3, FunctionsCount: 5, AvgFunctionLength: 10, FilesModified: 1},
		{Hash: "ccccccc", Date: base.Add(48 * time.Hour), Author: "ana", CyclomaticComplexity: 5, Coupling: 0.5, MaintainabilityIndex: 88, LinesOfCode: 40, FilesModified: 1},
	}}
}

func TestCommitRowSchema(t *testing.T) {
	schema := parquet.SchemaOf(new(CommitRow))
	require.NotNil(t, schema)

	for _, name := range []string{
		"sequence", "hash", "date", "author",
		"cyclomatic_complexity", "coupling", "maintainability_index",
		"lines_of_code", "code_smells", "functions_count",
		"avg_function_length", "files_modified", "trend",
	} {
		_, ok := schema.Lookup(name)
		assert.True(t, ok, "column %s should exist", name)
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sampleTimeline())
	require.Len(t, rows, 3)

	assert.Equal(t, int32(0), rows[0].Sequence)
	assert.Equal(t, "aaaaaaa", rows[0].Hash)
	assert.Equal(t, int32(10), rows[0].CyclomaticComplexity)
	assert.Equal(t, "stable", rows[0].Trend)
	assert.Equal(t, "up", rows[1].Trend)
	assert.Equal(t, "down", rows[2].Trend)
	assert.Equal(t, int32(2), rows[2].Sequence)
}

func TestRowsEmptyTimeline(t *testing.T) {
	assert.Empty(t, Rows(&commit.Timeline{}))
}

func TestWriteTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.parquet")
	tl := sampleTimeline()

	require.NoError(t, WriteTimeline(tl, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	reader := parquet.NewGenericReader[CommitRow](file)
	defer reader.Close()

	got := make([]CommitRow, reader.NumRows())
	n, err := reader.Read(got)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 3, n)

	assert.Equal(t, "bbbbbbb", got[1].Hash)
	assert.Equal(t, "bo", got[1].Author)
	assert.True(t, got[1].Date.Equal(tl.Commits[1].Date))
	assert.InDelta(t, 70.25, got[0].MaintainabilityIndex, 1e-9)
	assert.Equal(t, int32(150), got[1].LinesOfCode)
	assert.Equal(t, "down", got[2].Trend)
}

func TestWriteTimelineInvalidPath(t *testing.T) {
	err := WriteTimeline(sampleTimeline(), "/nonexistent/dir/out.parquet")
	assert.Error(t, err)
}
