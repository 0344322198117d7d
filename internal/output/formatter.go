// Package output renders results as text, markdown, JSON or TOON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// Formats lists every supported format name.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatMarkdown), string(FormatTOON)}
}

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "toon":
		return FormatTOON
	default:
		return FormatText
	}
}

// IsValidFormat reports whether s names a supported format ("" counts as text).
func IsValidFormat(s string) bool {
	switch strings.ToLower(s) {
	case "", "text", "json", "markdown", "md", "toon":
		return true
	default:
		return false
	}
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the underlying data for JSON/TOON serialization.
	RenderData() any
}

// Formatter handles output formatting.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a new formatter writing to stdout, or to output when set.
// Color is disabled for file output.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	var writer io.Writer = os.Stdout
	var file *os.File

	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return nil, err
		}
		writer = f
		file = f
		colored = false
	}

	return &Formatter{
		format:  format,
		writer:  writer,
		file:    file,
		colored: colored,
	}, nil
}

// NewWriterFormatter creates a formatter over an arbitrary writer.
func NewWriterFormatter(format Format, w io.Writer, colored bool) *Formatter {
	return &Formatter{format: format, writer: w, colored: colored}
}

// Close closes the formatter's writer if it's a file.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

// Writer returns the underlying writer.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// Format returns the configured format.
func (f *Formatter) Format() Format {
	return f.format
}

// Colored returns whether colored output is enabled.
func (f *Formatter) Colored() bool {
	return f.colored
}

// Output writes data in the configured format.
func (f *Formatter) Output(data any) error {
	if r, ok := data.(Renderable); ok {
		return f.render(r)
	}
	return f.outputRaw(data)
}

// render dispatches to the appropriate format renderer.
func (f *Formatter) render(r Renderable) error {
	switch f.format {
	case FormatJSON:
		return f.outputJSON(r.RenderData())
	case FormatTOON:
		return f.outputTOON(r.RenderData())
	case FormatMarkdown:
		return r.RenderMarkdown(f.writer)
	default:
		return r.RenderText(f.writer, f.colored)
	}
}

// outputRaw handles non-Renderable data.
func (f *Formatter) outputRaw(data any) error {
	switch f.format {
	case FormatTOON:
		return f.outputTOON(data)
	case FormatMarkdown:
		fmt.Fprintln(f.writer, "```json")
		if err := f.outputJSON(data); err != nil {
			return err
		}
		fmt.Fprintln(f.writer, "```")
		return nil
	default:
		return f.outputJSON(data)
	}
}

// outputJSON writes data as formatted JSON.
func (f *Formatter) outputJSON(data any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// outputTOON writes data as TOON.
func (f *Formatter) outputTOON(data any) error {
	out, err := MarshalTOON(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(f.writer, out)
	return err
}

// MarshalTOON encodes data as TOON with two-space indentation.
func MarshalTOON(data any) (string, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return "", fmt.Errorf("encode toon: %w", err)
	}
	return string(out), nil
}

// Table is a Renderable table. The first column is a label; the rest are
// right-aligned values.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Footer  []string
	// Data, when set, is what JSON and TOON output serialize instead of the rows.
	Data any
}

// NewTable creates a table that wraps structured data for serialization.
func NewTable(title string, headers []string, rows [][]string, footer []string, data any) *Table {
	return &Table{Title: title, Headers: headers, Rows: rows, Footer: footer, Data: data}
}

// RenderData returns Data, or the rows keyed by header when Data is nil.
func (t *Table) RenderData() any {
	if t.Data != nil {
		return t.Data
	}
	records := make([]map[string]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		record := make(map[string]string, len(row))
		for j := 0; j < len(row) && j < len(t.Headers); j++ {
			record[t.Headers[j]] = row[j]
		}
		records = append(records, record)
	}
	return records
}

func (t *Table) alignments() []tw.Align {
	aligns := make([]tw.Align, len(t.Headers))
	for i := range aligns {
		aligns[i] = tw.AlignRight
	}
	if len(aligns) > 0 {
		aligns[0] = tw.AlignLeft
	}
	return aligns
}

func (t *Table) RenderText(w io.Writer, colored bool) error {
	if t.Title != "" {
		title := t.Title
		if colored {
			title = color.New(color.Bold).Sprint(t.Title)
		}
		fmt.Fprintf(w, "%s\n%s\n\n", title, strings.Repeat("=", len(t.Title)))
	}

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header(t.Headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = t.alignments()
		cfg.Footer.Alignment.PerColumn = t.alignments()
	})

	if err := table.Bulk(t.Rows); err != nil {
		return err
	}
	if len(t.Footer) > 0 {
		footer := make([]any, len(t.Footer))
		for i, cell := range t.Footer {
			footer[i] = cell
		}
		table.Footer(footer...)
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return nil
}

func (t *Table) RenderMarkdown(w io.Writer) error {
	var b strings.Builder
	if t.Title != "" {
		fmt.Fprintf(&b, "## %s\n\n", t.Title)
	}

	row := func(cells []string) {
		fmt.Fprintf(&b, "| %s |\n", strings.Join(cells, " | "))
	}
	row(t.Headers)

	seps := make([]string, len(t.Headers))
	for i, a := range t.alignments() {
		seps[i] = "---"
		if a == tw.AlignRight {
			seps[i] = "---:"
		}
	}
	row(seps)

	for _, r := range t.Rows {
		row(r)
	}
	if len(t.Footer) > 0 {
		row(t.Footer)
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
