// Package maintainability converts complexity and size into a bounded
// maintainability index and classifies scores into named bands.
package maintainability

import (
	"errors"
	"fmt"
	"math"
)

// =============================================================================
// MAINTAINABILITY INDEX
// =============================================================================
//
//	MI = 171 - 5.2*ln(V) - 0.23*CC - 16.2*ln(LOC)
//
// V is a volume proxy (token count for files, LOC for commits). The result is
// clamped into [0, 100] and rounded to two decimals.
// =============================================================================

const (
	// MaxScore is returned for files without code.
	MaxScore = 100.0

	// FallbackScore is returned by Score when the formula is undefined.
	FallbackScore = 50.0
)

// ErrUndefined is returned when inputs fall outside the formula's domain.
var ErrUndefined = errors.New("maintainability index undefined")

// Compute evaluates the index. A zero LOC yields MaxScore before any other
// check; a zero volume is replaced by LOC.
func Compute(complexity, loc int, volume float64) (float64, error) {
	if loc == 0 {
		return MaxScore, nil
	}
	if volume == 0 {
		volume = float64(loc)
	}
	if loc < 0 || volume < 0 || math.IsNaN(volume) || math.IsInf(volume, 0) {
		return 0, fmt.Errorf("%w: complexity=%d loc=%d volume=%g", ErrUndefined, complexity, loc, volume)
	}

	mi := 171 - 5.2*math.Log(volume) - 0.23*float64(complexity) - 16.2*math.Log(float64(loc))
	mi = math.Max(0, math.Min(MaxScore, mi))

	return round2(mi), nil
}

// Score is Compute with the documented fallback: any undefined input yields
// FallbackScore.
func Score(complexity, loc int, volume float64) float64 {
	mi, err := Compute(complexity, loc, volume)
	if err != nil {
		return FallbackScore
	}
	return mi
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// =============================================================================
// CLASSIFICATION
// =============================================================================

// Level describes a maintainability band.
type Level struct {
	Label       string `json:"level"`
	Color       string `json:"color"`
	Description string `json:"description"`
}

var (
	LevelExcellent = Level{Label: "Excelente", Color: "green", Description: "Código altamente manutenível"}
	LevelGood      = Level{Label: "Bom", Color: "yellow", Description: "Código moderadamente manutenível"}
	LevelFair      = Level{Label: "Aceitável", Color: "orange", Description: "Código com problemas de manutenibilidade"}
	LevelCritical  = Level{Label: "Crítico", Color: "red", Description: "Código requer refatoração urgente"}
)

// LevelFor maps an index to its band. Lower bounds are inclusive.
func LevelFor(mi float64) Level {
	switch {
	case mi >= 85:
		return LevelExcellent
	case mi >= 70:
		return LevelGood
	case mi >= 50:
		return LevelFair
	default:
		return LevelCritical
	}
}

// ComplexityLevel labels a cyclomatic complexity value (McCabe bands).
func ComplexityLevel(complexity int) string {
	switch {
	case complexity <= 5:
		return "Simples"
	case complexity <= 10:
		return "Moderada"
	case complexity <= 20:
		return "Alta"
	default:
		return "Crítica"
	}
}
