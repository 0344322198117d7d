package metrics

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/panbanda/thermometer/pkg/analyzer/complexity"
	"github.com/panbanda/thermometer/pkg/analyzer/coupling"
	"github.com/panbanda/thermometer/pkg/analyzer/maintainability"
	"github.com/panbanda/thermometer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAnalyzer struct {
	result *complexity.Result
	err    error
	panics bool
	calls  int
}

func (f *fakeAnalyzer) Analyze(_ []byte, _ string) (*complexity.Result, error) {
	f.calls++
	if f.panics {
		panic("analyzer crashed")
	}
	return f.result, f.err
}

func intPtr(v int) *int { return &v }

func TestAnalyze_CombinesCollaborators(t *testing.T) {
	fake := &fakeAnalyzer{result: &complexity.Result{
		Functions: []complexity.Function{
			{Name: "a", CyclomaticComplexity: 3, Length: 10, ParameterCount: 2},
			{Name: "b", CyclomaticComplexity: 5, Length: 20, ParameterCount: 7},
		},
		NonCommentLines: intPtr(100),
		TokenCount:      intPtr(500),
	}}

	m, err := New(WithComplexityAnalyzer(fake)).Analyze([]byte("print('hello')"), "hello.py")
	require.NoError(t, err)

	assert.Equal(t, 8, m.CyclomaticComplexity)
	assert.Equal(t, 100, m.LinesOfCode)
	assert.Equal(t, 2, m.FunctionsCount)
	assert.Equal(t, 50.0, m.AvgFunctionLength)
	assert.Equal(t, 1, m.CodeSmells) // seven parameters
	assert.Equal(t, maintainability.Score(8, 100, 500), m.MaintainabilityIndex)
	assert.Equal(t, 0.0, m.Coupling)
}

func TestAnalyze_SizeFallbacks(t *testing.T) {
	fake := &fakeAnalyzer{result: &complexity.Result{}}
	src := []byte("x = 1\ny = 2\nz = 3\n")

	m, err := New(WithComplexityAnalyzer(fake)).Analyze(src, "vars.py")
	require.NoError(t, err)

	assert.Equal(t, 3, m.LinesOfCode)
	assert.Equal(t, maintainability.Score(0, 3, 3), m.MaintainabilityIndex)
	assert.Equal(t, 0, m.FunctionsCount)
	assert.Equal(t, 0.0, m.AvgFunctionLength)
}

func TestAnalyze_RoundsCoupling(t *testing.T) {
	fake := &fakeAnalyzer{result: &complexity.Result{}}
	src := []byte("def helper():\n    pass\nhelper()\n")

	m, err := New(
		WithComplexityAnalyzer(fake),
		WithCouplingEstimator(coupling.New()),
	).Analyze(src, "helper.py")
	require.NoError(t, err)
	assert.Equal(t, 0.04, m.Coupling)
}

func TestAnalyze_Errors(t *testing.T) {
	t.Run("analyzer error", func(t *testing.T) {
		cause := errors.New("boom")
		_, err := New(WithComplexityAnalyzer(&fakeAnalyzer{err: cause})).Analyze([]byte("x"), "x.py")
		assert.ErrorIs(t, err, ErrExtraction)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("analyzer panic", func(t *testing.T) {
		_, err := New(WithComplexityAnalyzer(&fakeAnalyzer{panics: true})).Analyze([]byte("x"), "x.py")
		assert.ErrorIs(t, err, ErrExtraction)
		assert.Contains(t, err.Error(), "analyzer crashed")
	})

	t.Run("nil result", func(t *testing.T) {
		_, err := New(WithComplexityAnalyzer(&fakeAnalyzer{})).Analyze([]byte("x"), "x.py")
		assert.ErrorIs(t, err, ErrExtraction)
	})
}

func TestExtract_NeutralOnFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	e := New(
		WithComplexityAnalyzer(&fakeAnalyzer{panics: true}),
		WithLogger(logger),
	)

	m := e.Extract([]byte("x = 1\n"), "broken.py")
	assert.Equal(t, models.NeutralFileMetrics(), m)
	assert.Equal(t, 100.0, m.MaintainabilityIndex)
	assert.Contains(t, logs.String(), "broken.py")
}

func TestExtract_RealAnalyzer(t *testing.T) {
	src := []byte(`import requests

def fetch(url):
    if url:
        return requests.get(url)
    return None
`)

	e := New()
	first := e.Extract(src, "fetch.py")
	second := e.Extract(src, "fetch.py")

	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.CyclomaticComplexity)
	assert.Equal(t, 1, first.FunctionsCount)
	assert.Greater(t, first.LinesOfCode, 0)
	assert.Greater(t, first.Coupling, 0.0)
	assert.LessOrEqual(t, first.MaintainabilityIndex, 100.0)
}

func TestExtract_UnsupportedExtension(t *testing.T) {
	assert.Equal(t, models.NeutralFileMetrics(), New().Extract([]byte("hello"), "notes.txt"))
}
