package commit

import (
	"testing"

	"github.com/panbanda/thermometer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulator_Empty(t *testing.T) {
	_, ok := NewAccumulator(record("abc", base)).Finalize()
	assert.False(t, ok)
}

func TestAccumulator_AddDoesNotMutate(t *testing.T) {
	empty := NewAccumulator(record("abc", base))
	one := empty.Add(models.FileMetrics{CyclomaticComplexity: 2})

	_, ok := empty.Finalize()
	assert.False(t, ok)
	m, ok := one.Finalize()
	require.True(t, ok)
	assert.Equal(t, 1, m.FilesModified)
}

func TestAccumulator_Finalize(t *testing.T) {
	acc := NewAccumulator(record("abcdef0123", base)).
		Add(models.FileMetrics{CyclomaticComplexity: 1, Coupling: 1, LinesOfCode: 10, FunctionsCount: 3}).
		Add(models.FileMetrics{CyclomaticComplexity: 2, Coupling: 2, LinesOfCode: 0, FunctionsCount: 0}).
		Add(models.FileMetrics{CyclomaticComplexity: 0, Coupling: 0, LinesOfCode: 0, FunctionsCount: 0})

	m, ok := acc.Finalize()
	require.True(t, ok)
	assert.Equal(t, "abcdef0", m.Hash)
	assert.Equal(t, 3, m.CyclomaticComplexity)
	assert.Equal(t, 1.0, m.Coupling)
	assert.Equal(t, 3.33, m.AvgFunctionLength)
	assert.Equal(t, 3, m.FilesModified)
}

func TestAccumulator_NoFunctions(t *testing.T) {
	m, ok := NewAccumulator(record("abc", base)).
		Add(models.FileMetrics{LinesOfCode: 0}).
		Finalize()
	require.True(t, ok)
	assert.Equal(t, 0.0, m.AvgFunctionLength)
	assert.Equal(t, 100.0, m.MaintainabilityIndex)
}
