// Package smells counts heuristic code smells in one file's source text.
//
// Seven independent heuristics run over raw text and the file's parsed function
// list; their contributions are summed. None of them builds a syntax tree.
package smells

import (
	"regexp"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultGenericNames are assignment targets considered uninformative.
func DefaultGenericNames() []string {
	return []string{"a", "b", "c", "x", "y", "z", "i", "j", "k", "tmp", "temp", "data", "value", "var"}
}

var (
	assignmentPattern = regexp.MustCompile(`(?m)^([A-Za-z_]\w*)\s*=([^=]|$)`)
	importPattern     = regexp.MustCompile(`(?m)^[ \t]*import[ \t]+(.+)$`)
	fromImportPattern = regexp.MustCompile(`(?m)^[ \t]*from[ \t]+[\w.]+[ \t]+import[ \t]+(.+)$`)
	identifierPattern = regexp.MustCompile(`^[A-Za-z_]\w*$`)
	wordPattern       = regexp.MustCompile(`\w+`)
)

// Detector runs the smell heuristics. It holds only immutable configuration and
// is safe for concurrent use.
type Detector struct {
	thresholds     Thresholds
	genericNames   map[string]struct{}
	commentMarkers []string
	blockOpeners   []string
	indentWidth    int
}

// Option is a functional option for configuring Detector.
type Option func(*Detector)

// WithThresholds replaces the heuristic limits.
func WithThresholds(thresholds Thresholds) Option {
	return func(d *Detector) {
		d.thresholds = thresholds
	}
}

// WithGenericNames replaces the generic-name set.
func WithGenericNames(names []string) Option {
	return func(d *Detector) {
		d.genericNames = make(map[string]struct{}, len(names))
		for _, n := range names {
			d.genericNames[n] = struct{}{}
		}
	}
}

// WithCommentMarkers sets the line-comment markers stripped before duplicate matching.
func WithCommentMarkers(markers []string) Option {
	return func(d *Detector) {
		d.commentMarkers = markers
	}
}

// WithBlockOpeners sets the line suffixes that open a nested block.
func WithBlockOpeners(openers []string) Option {
	return func(d *Detector) {
		d.blockOpeners = openers
	}
}

// WithIndentWidth sets the number of columns per nesting level.
func WithIndentWidth(width int) Option {
	return func(d *Detector) {
		if width > 0 {
			d.indentWidth = width
		}
	}
}

// New creates a detector with Python-oriented defaults.
func New(opts ...Option) *Detector {
	d := &Detector{
		thresholds:     DefaultThresholds(),
		commentMarkers: []string{"#"},
		blockOpeners:   []string{":"},
		indentWidth:    4,
	}
	WithGenericNames(DefaultGenericNames())(d)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Detect returns the total smell count for a file.
func (d *Detector) Detect(functions []Function, source string) int {
	return d.Analyze(functions, source).Total
}

// Analyze runs every heuristic and reports each contribution.
func (d *Detector) Analyze(functions []Function, source string) *Report {
	report := newReport()
	assignments := topLevelAssignments(source)
	words := wordCounts(source)

	report.add(TypeComplexFunction, d.complexFunctions(functions))
	report.add(TypeDuplication, d.duplicatedLines(source))
	report.add(TypeUnusedVariable, d.unusedVariables(assignments, words))
	report.add(TypeUnusedImport, d.unusedImports(source, words))
	report.add(TypeDeepNesting, d.deepNesting(source))
	report.add(TypeExcessParameters, d.excessParameters(functions))
	report.add(TypeGenericName, d.genericAssignments(assignments))

	return report
}

func (d *Detector) complexFunctions(functions []Function) int {
	th := d.thresholds
	var count int
	for _, fn := range functions {
		switch {
		case fn.CyclomaticComplexity > th.ComplexityCritical:
			count += 2
		case fn.CyclomaticComplexity > th.ComplexityWarning:
			count++
		}
		switch {
		case fn.Length > th.LengthCritical:
			count += 2
		case fn.Length > th.LengthWarning:
			count++
		}
	}
	return count
}

// duplicatedLines counts normalized lines that repeat often enough. The final
// two lines of the file are never considered.
func (d *Detector) duplicatedLines(source string) int {
	lines := strings.Split(source, "\n")
	if len(lines) <= 2 {
		return 0
	}

	seen := make(map[uint64]int)
	for _, line := range lines[:len(lines)-2] {
		normalized := strings.TrimSpace(d.stripComment(line))
		if len(normalized) < d.thresholds.DuplicateMinLength {
			continue
		}
		seen[xxhash.Sum64String(normalized)]++
	}

	var count int
	for _, n := range seen {
		if n >= d.thresholds.DuplicateMinCount {
			count++
		}
	}
	return min(count, d.thresholds.DuplicationCap)
}

// stripComment cuts at the first comment marker, even one inside a string
// literal. Duplicate counts depend on this.
func (d *Detector) stripComment(line string) string {
	cut := len(line)
	for _, marker := range d.commentMarkers {
		if marker == "" {
			continue
		}
		if idx := strings.Index(line, marker); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return line[:cut]
}

func (d *Detector) unusedVariables(assignments []string, words map[string]int) int {
	seen := make(map[string]struct{})
	var count int
	for _, name := range assignments {
		if strings.HasPrefix(name, "_") {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if words[name] <= 1 {
			count++
		}
	}
	return min(count, d.thresholds.UnusedVariableCap)
}

func (d *Detector) unusedImports(source string, words map[string]int) int {
	seen := make(map[string]struct{})
	var count int
	for _, name := range d.importedNames(source) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if words[name] <= 1 {
			count++
		}
	}
	return min(count, d.thresholds.UnusedImportCap)
}

// importedNames returns the names each import statement binds:
// "import a.b" binds a, "import a.b as c" binds c and
// "from m import x as y, z" binds y and z. Star imports bind nothing.
func (d *Detector) importedNames(source string) []string {
	var names []string

	for _, match := range importPattern.FindAllStringSubmatch(source, -1) {
		for _, item := range splitImportList(d.stripComment(match[1])) {
			name := item
			if alias, ok := importAlias(item); ok {
				name = alias
			} else if head, _, found := strings.Cut(item, "."); found {
				name = head
			}
			if identifierPattern.MatchString(name) {
				names = append(names, name)
			}
		}
	}

	for _, match := range fromImportPattern.FindAllStringSubmatch(source, -1) {
		for _, item := range splitImportList(d.stripComment(match[1])) {
			name := item
			if alias, ok := importAlias(item); ok {
				name = alias
			}
			if identifierPattern.MatchString(name) {
				names = append(names, name)
			}
		}
	}

	return names
}

func splitImportList(list string) []string {
	list = strings.NewReplacer("(", " ", ")", " ", "\\", " ").Replace(list)
	parts := strings.Split(list, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

func importAlias(item string) (string, bool) {
	fields := strings.Fields(item)
	if len(fields) == 3 && fields[1] == "as" {
		return fields[2], true
	}
	return "", false
}

func (d *Detector) deepNesting(source string) int {
	var maxDepth int
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimRight(line, " \t\r")
		if !d.opensBlock(trimmed) {
			continue
		}
		if depth := d.indentation(trimmed) / d.indentWidth; depth > maxDepth {
			maxDepth = depth
		}
	}

	switch {
	case maxDepth >= d.thresholds.NestingCritical:
		return 2
	case maxDepth == d.thresholds.NestingWarning:
		return 1
	default:
		return 0
	}
}

func (d *Detector) opensBlock(line string) bool {
	for _, opener := range d.blockOpeners {
		if opener != "" && strings.HasSuffix(line, opener) {
			return true
		}
	}
	return false
}

// indentation measures leading whitespace in columns; a tab counts as one level.
func (d *Detector) indentation(line string) int {
	var width int
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += d.indentWidth
		default:
			return width
		}
	}
	return width
}

func (d *Detector) excessParameters(functions []Function) int {
	var count int
	for _, fn := range functions {
		if fn.ParameterCount > d.thresholds.MaxParameters {
			count++
		}
	}
	return count
}

func (d *Detector) genericAssignments(assignments []string) int {
	var count int
	for _, name := range assignments {
		if len(name) > d.thresholds.GenericNameMaxLen {
			continue
		}
		if _, generic := d.genericNames[name]; generic {
			count++
		}
	}
	return min(count, d.thresholds.GenericNameCap)
}

// topLevelAssignments returns every unindented "name = ..." target in order,
// repeats included. Comparisons ("==") are not assignments.
func topLevelAssignments(source string) []string {
	matches := assignmentPattern.FindAllStringSubmatch(source, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// wordCounts counts every maximal run of word characters, which is how often
// each identifier occurs as a whole word.
func wordCounts(source string) map[string]int {
	counts := make(map[string]int)
	for _, w := range wordPattern.FindAllString(source, -1) {
		counts[w]++
	}
	return counts
}
