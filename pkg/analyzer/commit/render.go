package commit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/panbanda/thermometer/pkg/analyzer/maintainability"
	"github.com/panbanda/thermometer/pkg/models"
)

const (
	timelineTitle   = "Complexity Timeline"
	chartTitle      = "Complexity Evolution"
	noCommitsText   = "No commits found"
	chartWidth      = 40
	authorMaxLength = 18
)

var timelineHeaders = []string{"Date", "Commit", "Author", "CC", "Coupling", "MI", "LOC", "Smells", "Trend"}

// RenderText implements output.Renderable for text output.
func (t *Timeline) RenderText(w io.Writer, colored bool) error {
	if len(t.Commits) == 0 {
		fmt.Fprintln(w, noCommitsText)
		return nil
	}

	paint := func(c *color.Color, s string) string {
		if !colored {
			return s
		}
		return c.Sprint(s)
	}

	fmt.Fprintln(w, paint(color.New(color.Bold, color.FgCyan), timelineTitle))
	fmt.Fprintln(w, strings.Repeat("=", len(timelineTitle)))
	fmt.Fprintln(w)

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header(timelineHeaders)
	trends := t.Trends()
	for i, c := range t.Commits {
		if err := table.Append([]string{
			c.Date.Format("2006-01-02"),
			c.Hash,
			truncate(c.Author, authorMaxLength),
			paint(complexityColor(c.CyclomaticComplexity), strconv.Itoa(c.CyclomaticComplexity)),
			paint(couplingColor(c.Coupling), fmt.Sprintf("%.1f", c.Coupling)),
			paint(maintainabilityColor(c.MaintainabilityIndex), fmt.Sprintf("%.1f", c.MaintainabilityIndex)),
			strconv.Itoa(c.LinesOfCode),
			paint(smellColor(c.CodeSmells), strconv.Itoa(c.CodeSmells)),
			paint(trendColor(trends[i]), trends[i].Arrow()),
		}); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	s := t.Summary()
	label := func(s string) string { return paint(color.New(color.FgYellow), s) }

	fmt.Fprintln(w, paint(color.New(color.Bold, color.FgCyan), "Statistics"))
	fmt.Fprintf(w, "  %s %d\n", label("Commits:"), s.Commits)
	fmt.Fprintf(w, "  %s %.1f\n", label("Avg CC:"), s.AvgComplexity)
	fmt.Fprintf(w, "  %s %d (%s)\n", label("Max CC:"), s.MaxComplexity, maintainability.ComplexityLevel(s.MaxComplexity))
	fmt.Fprintf(w, "  %s %d\n", label("Total Smells:"), s.TotalSmells)
	fmt.Fprintf(w, "  %s %.1f\n", label("Avg Coupling:"), s.AvgCoupling)
	fmt.Fprintf(w, "  %s %.1f (%s)\n", label("Avg MI:"), s.AvgMaintainability, maintainability.LevelFor(s.AvgMaintainability).Label)
	fmt.Fprintf(w, "  %s %s\n", label("Trend:"), trendText(s))
	fmt.Fprintf(w, "  %s %+.2f CC/commit\n", label("Slope:"), s.ComplexitySlope)
	fmt.Fprintln(w)

	t.renderChart(w, paint(color.New(color.Bold, color.FgCyan), chartTitle))
	return nil
}

// RenderMarkdown implements output.Renderable for markdown output.
func (t *Timeline) RenderMarkdown(w io.Writer) error {
	if len(t.Commits) == 0 {
		fmt.Fprintln(w, noCommitsText)
		return nil
	}

	fmt.Fprintf(w, "## %s (%d commits)\n\n", timelineTitle, len(t.Commits))
	fmt.Fprintf(w, "| %s |\n", strings.Join(timelineHeaders, " | "))
	fmt.Fprintln(w, "|------|--------|--------|----|----------|----|-----|--------|-------|")

	trends := t.Trends()
	for i, c := range t.Commits {
		fmt.Fprintf(w, "| %s | `%s` | %s | %d | %.1f | %.1f | %d | %d | %s |\n",
			c.Date.Format("2006-01-02"),
			c.Hash,
			truncate(c.Author, authorMaxLength),
			c.CyclomaticComplexity,
			c.Coupling,
			c.MaintainabilityIndex,
			c.LinesOfCode,
			c.CodeSmells,
			trends[i].Arrow())
	}
	fmt.Fprintln(w)

	s := t.Summary()
	fmt.Fprintln(w, "### Statistics")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "- **Commits:** %d\n", s.Commits)
	fmt.Fprintf(w, "- **Avg CC:** %.1f\n", s.AvgComplexity)
	fmt.Fprintf(w, "- **Max CC:** %d\n", s.MaxComplexity)
	fmt.Fprintf(w, "- **Total Smells:** %d\n", s.TotalSmells)
	fmt.Fprintf(w, "- **Avg Coupling:** %.1f\n", s.AvgCoupling)
	fmt.Fprintf(w, "- **Avg MI:** %.1f\n", s.AvgMaintainability)
	fmt.Fprintf(w, "- **Trend:** %s\n", trendText(s))
	fmt.Fprintln(w)

	fmt.Fprintf(w, "### %s\n\n```\n", chartTitle)
	t.renderChart(w, "")
	fmt.Fprintln(w, "```")
	return nil
}

// RenderData implements output.Renderable for JSON/TOON output.
func (t *Timeline) RenderData() any {
	type timelineData struct {
		Commits []models.CommitMetrics `json:"commits" toon:"commits"`
		Summary Summary                `json:"summary" toon:"summary"`
	}

	commits := t.Commits
	if commits == nil {
		commits = make([]models.CommitMetrics, 0)
	}
	return timelineData{Commits: commits, Summary: t.Summary()}
}

// renderChart draws one bar per commit scaled to the largest complexity.
// Nothing is drawn when every commit has zero complexity.
func (t *Timeline) renderChart(w io.Writer, title string) {
	maxCC := 0
	for _, c := range t.Commits {
		maxCC = max(maxCC, c.CyclomaticComplexity)
	}
	if maxCC == 0 {
		return
	}

	if title != "" {
		fmt.Fprintln(w, title)
	}
	for _, c := range t.Commits {
		filled := c.CyclomaticComplexity * chartWidth / maxCC
		bar := strings.Repeat("█", filled) + strings.Repeat("░", chartWidth-filled)
		fmt.Fprintf(w, "%s │%s│ %d\n", c.Date.Format("01-02"), bar, c.CyclomaticComplexity)
	}
}

func trendText(s Summary) string {
	if s.Commits < 2 {
		return "no trend"
	}
	return "complexity " + s.ComplexityDirection.Arrow()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func complexityColor(cc int) *color.Color {
	switch {
	case cc > 20:
		return color.New(color.Bold, color.FgRed)
	case cc > 15:
		return color.New(color.Bold, color.FgMagenta)
	case cc > 10:
		return color.New(color.Bold, color.FgYellow)
	default:
		return color.New(color.Bold, color.FgGreen)
	}
}

func smellColor(smells int) *color.Color {
	switch {
	case smells >= 10:
		return color.New(color.Bold, color.FgRed)
	case smells >= 6:
		return color.New(color.Bold, color.FgMagenta)
	case smells >= 3:
		return color.New(color.Bold, color.FgYellow)
	default:
		return color.New(color.Bold, color.FgGreen)
	}
}

func couplingColor(coupling float64) *color.Color {
	switch {
	case coupling > 7:
		return color.New(color.Bold, color.FgRed)
	case coupling > 5:
		return color.New(color.Bold, color.FgMagenta)
	case coupling > 3:
		return color.New(color.Bold, color.FgYellow)
	default:
		return color.New(color.Bold, color.FgGreen)
	}
}

// maintainabilityColor follows maintainability.LevelFor; orange renders as magenta.
func maintainabilityColor(mi float64) *color.Color {
	switch maintainability.LevelFor(mi).Color {
	case "green":
		return color.New(color.Bold, color.FgGreen)
	case "yellow":
		return color.New(color.Bold, color.FgYellow)
	case "orange":
		return color.New(color.Bold, color.FgMagenta)
	default:
		return color.New(color.Bold, color.FgRed)
	}
}

func trendColor(d Direction) *color.Color {
	switch d {
	case DirectionUp:
		return color.New(color.Bold, color.FgRed)
	case DirectionDown:
		return color.New(color.Bold, color.FgGreen)
	default:
		return color.New(color.Faint)
	}
}
