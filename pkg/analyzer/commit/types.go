package commit

import (
	"context"
	"time"

	"github.com/panbanda/thermometer/pkg/models"
)

// HistoryReader yields the commits of a repository, one at a time, in any order.
// since and until are optional inclusive bounds on the commit timestamp.
type HistoryReader interface {
	Traverse(ctx context.Context, locator string, since, until *time.Time, fn func(models.CommitRecord) error) error
}

// FileAnalyzer measures a single file. An error means the file contributes
// nothing to its commit.
type FileAnalyzer interface {
	Analyze(source []byte, filename string) (models.FileMetrics, error)
}

// Timeline is the per-commit series, ordered ascending by commit date.
type Timeline struct {
	Commits []models.CommitMetrics `json:"commits"`
}

// Len returns the number of commits on the timeline.
func (t *Timeline) Len() int {
	return len(t.Commits)
}

// Summary aggregates a timeline for reporting.
type Summary struct {
	Commits              int       `json:"commits" toon:"commits"`
	Start                time.Time `json:"start,omitzero" toon:"start"`
	End                  time.Time `json:"end,omitzero" toon:"end"`
	AvgComplexity        float64   `json:"avg_complexity" toon:"avg_complexity"`
	MaxComplexity        int       `json:"max_complexity" toon:"max_complexity"`
	TotalSmells          int       `json:"total_smells" toon:"total_smells"`
	AvgCoupling          float64   `json:"avg_coupling" toon:"avg_coupling"`
	AvgMaintainability   float64   `json:"avg_maintainability" toon:"avg_maintainability"`
	ComplexityDirection  Direction `json:"complexity_direction" toon:"complexity_direction"`
	ComplexitySlope      float64   `json:"complexity_slope" toon:"complexity_slope"`
	MaintainabilitySlope float64   `json:"maintainability_slope" toon:"maintainability_slope"`
	ComplexityRSquared   float64   `json:"complexity_r_squared" toon:"complexity_r_squared"`
}

// Direction describes how a value moved between two points.
type Direction string

const (
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionStable Direction = "stable"
)

// Arrow returns the glyph used in rendered tables.
func (d Direction) Arrow() string {
	switch d {
	case DirectionUp:
		return "↑"
	case DirectionDown:
		return "↓"
	default:
		return "→"
	}
}
