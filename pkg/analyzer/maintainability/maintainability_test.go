package maintainability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		complexity int
		loc        int
		volume     float64
		want       float64
	}{
		{name: "zero loc", complexity: 5, loc: 0, volume: 100, want: 100},
		{name: "zero loc ignores bad volume", complexity: 5, loc: 0, volume: -1, want: 100},
		{name: "small file clamps to max", complexity: 1, loc: 1, volume: 1, want: 100},
		{name: "normal", complexity: 10, loc: 100, volume: 500, want: 61.78},
		{name: "huge file clamps to zero", complexity: 500, loc: 1_000_000, volume: 1_000_000, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.complexity, tt.loc, tt.volume)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.005)
		})
	}
}

func TestCompute_ZeroVolumeUsesLOC(t *testing.T) {
	withZero, err := Compute(5, 50, 0)
	require.NoError(t, err)
	withLOC, err := Compute(5, 50, 50)
	require.NoError(t, err)
	assert.Equal(t, withLOC, withZero)
}

func TestCompute_Undefined(t *testing.T) {
	_, err := Compute(10, -5, -5)
	assert.ErrorIs(t, err, ErrUndefined)

	_, err = Compute(10, 5, math.NaN())
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestScore_Fallback(t *testing.T) {
	assert.Equal(t, FallbackScore, Score(10, -5, -5))
	assert.Equal(t, MaxScore, Score(5, 0, 100))
}

func TestScore_Bounds(t *testing.T) {
	for _, cc := range []int{-10, 0, 1, 25, 1000} {
		for _, loc := range []int{-1, 0, 1, 10, 10_000} {
			for _, vol := range []float64{-1, 0, 1, 1e6} {
				mi := Score(cc, loc, vol)
				assert.GreaterOrEqual(t, mi, 0.0)
				assert.LessOrEqual(t, mi, 100.0)
			}
		}
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		score float64
		label string
		color string
	}{
		{90, "Excelente", "green"},
		{85, "Excelente", "green"},
		{75, "Bom", "yellow"},
		{70, "Bom", "yellow"},
		{60, "Aceitável", "orange"},
		{50, "Aceitável", "orange"},
		{40, "Crítico", "red"},
	}

	for _, tt := range tests {
		level := LevelFor(tt.score)
		assert.Equal(t, tt.label, level.Label, "score %v", tt.score)
		assert.Equal(t, tt.color, level.Color, "score %v", tt.score)
		assert.NotEmpty(t, level.Description)
	}
}

func TestComplexityLevel(t *testing.T) {
	tests := map[int]string{
		3:  "Simples",
		5:  "Simples",
		8:  "Moderada",
		10: "Moderada",
		15: "Alta",
		20: "Alta",
		25: "Crítica",
	}
	for complexity, want := range tests {
		assert.Equal(t, want, ComplexityLevel(complexity), "complexity %d", complexity)
	}
}
