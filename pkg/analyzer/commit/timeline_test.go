package commit

import (
	"testing"
	"time"

	"github.com/panbanda/thermometer/pkg/models"
	"github.com/stretchr/testify/assert"
)

func timelineOf(complexities ...int) *Timeline {
	t := &Timeline{}
	for i, cc := range complexities {
		t.Commits = append(t.Commits, models.CommitMetrics{
			Hash:                 string(rune('a' + i)),
			Date:                 base.Add(time.Duration(i) * 24 * time.Hour),
			Author:               "Ada",
			CyclomaticComplexity: cc,
			MaintainabilityIndex: 80,
			Coupling:             float64(i),
			CodeSmells:           i,
		})
	}
	return t
}

func TestTrends(t *testing.T) {
	trends := timelineOf(10, 11, 13, 11, 0, 0).Trends()
	assert.Equal(t, []Direction{
		DirectionStable, // first
		DirectionStable, // 11 is within 10%
		DirectionUp,     // 13 > 12.1
		DirectionDown,   // 11 < 11.7
		DirectionDown,
		DirectionStable,
	}, trends)
}

func TestSummary_Empty(t *testing.T) {
	s := (&Timeline{}).Summary()
	assert.Equal(t, 0, s.Commits)
	assert.Equal(t, DirectionStable, s.ComplexityDirection)
}

func TestSummary_SingleCommit(t *testing.T) {
	s := timelineOf(7).Summary()
	assert.Equal(t, 1, s.Commits)
	assert.Equal(t, 7.0, s.AvgComplexity)
	assert.Equal(t, 7, s.MaxComplexity)
	assert.Equal(t, DirectionStable, s.ComplexityDirection)
	assert.Equal(t, 0.0, s.ComplexitySlope)
}

func TestSummary_Statistics(t *testing.T) {
	s := timelineOf(2, 4, 6, 8).Summary()

	assert.Equal(t, 4, s.Commits)
	assert.Equal(t, 5.0, s.AvgComplexity)
	assert.Equal(t, 8, s.MaxComplexity)
	assert.Equal(t, 6, s.TotalSmells)
	assert.Equal(t, 1.5, s.AvgCoupling)
	assert.Equal(t, 80.0, s.AvgMaintainability)
	assert.Equal(t, DirectionUp, s.ComplexityDirection)
	assert.InDelta(t, 2.0, s.ComplexitySlope, 1e-9)
	assert.InDelta(t, 1.0, s.ComplexityRSquared, 1e-9)
	assert.InDelta(t, 0.0, s.MaintainabilitySlope, 1e-9)
	assert.Equal(t, base, s.Start)
}

func TestSummary_FlatComplexity(t *testing.T) {
	s := timelineOf(5, 5, 5).Summary()
	assert.Equal(t, DirectionStable, s.ComplexityDirection)
	assert.Equal(t, 0.0, s.ComplexityRSquared)
}
