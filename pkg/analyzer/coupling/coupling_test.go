package coupling

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate_Empty(t *testing.T) {
	assert.Equal(t, 0.0, New().Estimate(""))
}

func TestEstimate_StdlibOnly(t *testing.T) {
	src := `import os
import sys
from datetime import datetime

def foo():
    print(os.getcwd())
`
	b := New().Breakdown(src)
	assert.Empty(t, b.ExternalImports)
	assert.Less(t, b.Score, 1.0)
}

func TestBreakdown_ExternalImports(t *testing.T) {
	src := `import numpy as np
import pandas
from flask import Flask
import os
import _private
    import requests
`
	b := New().Breakdown(src)
	assert.Equal(t, []string{"numpy", "pandas", "flask", "requests"}, b.ExternalImports)
	assert.InDelta(t, 2.0, b.Score, 1e-9)
}

func TestBreakdown_DistinctImports(t *testing.T) {
	src := "import numpy\nimport numpy.linalg\nfrom numpy import array\n"
	b := New().Breakdown(src)
	assert.Equal(t, []string{"numpy"}, b.ExternalImports)
	assert.InDelta(t, 0.5, b.Score, 1e-9)
}

func TestBreakdown_CrossReferencesCapped(t *testing.T) {
	src := strings.Repeat("obj.call()\n", 60)
	b := New().Breakdown(src)
	assert.Equal(t, 60, b.CrossReferences)
	assert.InDelta(t, 1.5, b.Score, 1e-9)
}

func TestBreakdown_InternalDependencies(t *testing.T) {
	src := `def helper():
    pass

class Widget:
    pass

def once():
    pass

helper()
Widget()
`
	b := New().Breakdown(src)
	// The def header counts as a call site, so only helper reaches two.
	assert.Equal(t, 1, b.InternalDependencies)
	assert.InDelta(t, 0.04, b.Score, 1e-9)
}

func TestBreakdown_InternalDependencyCallSites(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want int
	}{
		{"space before paren", "def run():\n    pass\n\nrun ()\n", 1},
		{"method call", "def run():\n    pass\n\njob.run()\n", 1},
		{"longer name is not a call", "def run():\n    pass\n\nrerun()\nrun_all()\n", 0},
		{"two declarations", "def a():\n    b()\n\ndef b():\n    a()\n", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New().Breakdown(tt.src).InternalDependencies)
		})
	}
}

func TestEstimate_CapReached(t *testing.T) {
	lines := make([]string, 0, 50)
	for i := range 50 {
		lines = append(lines, fmt.Sprintf("import lib_%d", i))
	}
	assert.Equal(t, MaxScore, New().Estimate(strings.Join(lines, "\n")))
}

func TestEstimate_Bounds(t *testing.T) {
	inputs := []string{
		"",
		"x = 1",
		"\x00\xff garbage (((",
		strings.Repeat("a.b(c.d(e.f()))\n", 500),
		strings.Repeat("def f():\n    f()\n", 100),
	}
	e := New()
	for _, in := range inputs {
		score := e.Estimate(in)
		assert.GreaterOrEqual(t, score, 0.0)
		assert.LessOrEqual(t, score, MaxScore)
	}
}

func TestWithStdlibModules(t *testing.T) {
	src := "import numpy\nimport os\n"

	t.Run("custom allow-list", func(t *testing.T) {
		b := New(WithStdlibModules([]string{"numpy"})).Breakdown(src)
		assert.Equal(t, []string{"os"}, b.ExternalImports)
	})

	t.Run("empty allow-list", func(t *testing.T) {
		b := New(WithStdlibModules(nil)).Breakdown(src)
		assert.Equal(t, []string{"numpy", "os"}, b.ExternalImports)
	})
}
