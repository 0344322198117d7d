package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"TEXT", FormatText},
		{"json", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"toon", FormatTOON},
		{"TOON", FormatTOON},
		{"", FormatText},
		{"unknown", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFormat(tt.input))
		})
	}
}

func TestIsValidFormat(t *testing.T) {
	for _, name := range Formats() {
		assert.True(t, IsValidFormat(name), name)
	}
	assert.True(t, IsValidFormat(""))
	assert.True(t, IsValidFormat("md"))
	assert.False(t, IsValidFormat("yaml"))
}

func TestNewFormatterWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "output.txt")

	f, err := NewFormatter(FormatJSON, outputPath, true)
	require.NoError(t, err)
	assert.False(t, f.Colored(), "file output is never colored")
	require.NoError(t, f.Output(map[string]int{"a": 1}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(data))
}

func TestNewFormatterInvalidPath(t *testing.T) {
	_, err := NewFormatter(FormatText, "/nonexistent/directory/file.txt", false)
	assert.Error(t, err)
}

func TestFormatterStdout(t *testing.T) {
	f, err := NewFormatter(FormatMarkdown, "", true)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, FormatMarkdown, f.Format())
	assert.True(t, f.Colored())
	assert.Equal(t, os.Stdout, f.Writer())
	assert.NoError(t, f.Close())
}

type stubRenderable struct {
	data any
}

func (s stubRenderable) RenderText(w io.Writer, colored bool) error {
	_, err := fmt.Fprintf(w, "text colored=%v\n", colored)
	return err
}

func (s stubRenderable) RenderMarkdown(w io.Writer) error {
	_, err := fmt.Fprintln(w, "# markdown")
	return err
}

func (s stubRenderable) RenderData() any { return s.data }

func TestOutputRenderable(t *testing.T) {
	r := stubRenderable{data: map[string]any{"commits": 2}}

	tests := []struct {
		format Format
		check  func(t *testing.T, out string)
	}{
		{FormatText, func(t *testing.T, out string) {
			assert.Equal(t, "text colored=true\n", out)
		}},
		{FormatMarkdown, func(t *testing.T, out string) {
			assert.Equal(t, "# markdown\n", out)
		}},
		{FormatJSON, func(t *testing.T, out string) {
			var decoded map[string]int
			require.NoError(t, json.Unmarshal([]byte(out), &decoded))
			assert.Equal(t, 2, decoded["commits"])
		}},
		{FormatTOON, func(t *testing.T, out string) {
			assert.Contains(t, out, "commits: 2")
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			f := NewWriterFormatter(tt.format, &buf, true)
			require.NoError(t, f.Output(r))
			tt.check(t, buf.String())
		})
	}
}

func TestOutputRaw(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("markdown wraps json in a fence", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriterFormatter(FormatMarkdown, &buf, false).Output(data))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "```json\n"))
		assert.True(t, strings.HasSuffix(out, "```\n"))
		assert.Contains(t, out, `"key": "value"`)
	})

	t.Run("text falls back to json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriterFormatter(FormatText, &buf, false).Output(data))
		assert.JSONEq(t, `{"key":"value"}`, buf.String())
	})

	t.Run("toon", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, NewWriterFormatter(FormatTOON, &buf, false).Output(data))
		assert.Contains(t, buf.String(), "key: value")
	})
}

func TestTableRenderText(t *testing.T) {
	table := NewTable("Files", []string{"File", "CC"}, [][]string{{"a.py", "3"}, {"b.py", "7"}}, []string{"Total", "10"}, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderText(&buf, false))
	out := buf.String()

	assert.Contains(t, out, "Files\n=====")
	assert.Contains(t, out, "a.py")
	assert.Contains(t, out, "b.py")
	assert.Contains(t, out, "10")
}

func TestTableRenderTextNoTitle(t *testing.T) {
	table := NewTable("", []string{"File"}, [][]string{{"a.py"}}, nil, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderText(&buf, true))
	assert.NotContains(t, buf.String(), "===")
	assert.Contains(t, buf.String(), "a.py")
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable("Files", []string{"File", "CC"}, [][]string{{"a.py", "3"}}, []string{"Total", "3"}, nil)

	var buf bytes.Buffer
	require.NoError(t, table.RenderMarkdown(&buf))

	want := "## Files\n\n| File | CC |\n| --- | ---: |\n| a.py | 3 |\n| Total | 3 |\n\n"
	assert.Equal(t, want, buf.String())
}

func TestTableRenderData(t *testing.T) {
	t.Run("explicit data wins", func(t *testing.T) {
		data := []int{1, 2}
		table := NewTable("", []string{"A"}, [][]string{{"x"}}, nil, data)
		assert.Equal(t, data, table.RenderData())
	})

	t.Run("rows become maps keyed by header", func(t *testing.T) {
		table := NewTable("", []string{"A", "B"}, [][]string{{"1", "2"}, {"3"}}, nil, nil)
		got := table.RenderData().([]map[string]string)
		require.Len(t, got, 2)
		assert.Equal(t, map[string]string{"A": "1", "B": "2"}, got[0])
		assert.Equal(t, map[string]string{"A": "3"}, got[1])
	})
}
