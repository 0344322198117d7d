package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeutralFileMetrics(t *testing.T) {
	m := NeutralFileMetrics()

	assert.Equal(t, 100.0, m.MaintainabilityIndex)
	assert.Zero(t, m.CyclomaticComplexity)
	assert.Zero(t, m.Coupling)
	assert.Zero(t, m.LinesOfCode)
	assert.Zero(t, m.CodeSmells)
	assert.Zero(t, m.FunctionsCount)
	assert.Zero(t, m.AvgFunctionLength)
}

func TestShortHash(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123def456abc123def456abc123def456abc1", "abc123d"},
		{"abc1234", "abc1234"},
		{"abc", "abc"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ShortHash(tt.in))
		})
	}
}

func TestModifiedFile_HasText(t *testing.T) {
	empty := ""
	body := "x = 1\n"

	assert.False(t, ModifiedFile{Name: "a.py"}.HasText())
	assert.False(t, ModifiedFile{Name: "a.py", Text: &empty}.HasText())
	assert.True(t, ModifiedFile{Name: "a.py", Text: &body}.HasText())
}
