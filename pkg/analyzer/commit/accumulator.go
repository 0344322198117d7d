package commit

import (
	"math"

	"github.com/panbanda/thermometer/pkg/analyzer/maintainability"
	"github.com/panbanda/thermometer/pkg/models"
)

// Accumulator folds the FileMetrics of one commit. It is a value: Add returns a
// new Accumulator and never mutates the receiver.
type Accumulator struct {
	header      models.CommitMetrics
	complexity  int
	couplingSum float64
	loc         int
	smells      int
	functions   int
	files       int
}

// NewAccumulator starts an empty fold for record.
func NewAccumulator(record models.CommitRecord) Accumulator {
	return Accumulator{
		header: models.CommitMetrics{
			Hash:   models.ShortHash(record.ID),
			Date:   record.Timestamp,
			Author: record.AuthorName,
		},
	}
}

// Add folds one successfully measured file.
func (a Accumulator) Add(m models.FileMetrics) Accumulator {
	a.complexity += m.CyclomaticComplexity
	a.couplingSum += m.Coupling
	a.loc += m.LinesOfCode
	a.smells += m.CodeSmells
	a.functions += m.FunctionsCount
	a.files++
	return a
}

// Finalize produces the commit record. It reports false when no file was
// folded; such commits are not part of the timeline.
func (a Accumulator) Finalize() (models.CommitMetrics, bool) {
	if a.files == 0 {
		return models.CommitMetrics{}, false
	}

	m := a.header
	m.CyclomaticComplexity = a.complexity
	m.Coupling = round2(a.couplingSum / float64(a.files))
	m.LinesOfCode = a.loc
	m.CodeSmells = a.smells
	m.FunctionsCount = a.functions
	m.FilesModified = a.files
	m.MaintainabilityIndex = maintainability.Score(a.complexity, a.loc, float64(a.loc))
	if a.functions > 0 {
		m.AvgFunctionLength = round2(float64(a.loc) / float64(a.functions))
	}

	return m, true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
