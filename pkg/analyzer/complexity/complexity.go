// Package complexity measures per-function cyclomatic complexity and file size
// from a tree-sitter syntax tree.
package complexity

import (
	"context"
	"errors"
	"fmt"

	"github.com/panbanda/thermometer/pkg/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// Analyzer computes cyclomatic complexity, function lengths, parameter counts,
// non-comment line counts and token counts.
// It is safe for concurrent use: every call parses with its own tree-sitter parser.
type Analyzer struct {
	maxFileSize int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithMaxFileSize sets the maximum source size in bytes to analyze (0 = no limit).
func WithMaxFileSize(maxSize int) Option {
	return func(a *Analyzer) {
		a.maxFileSize = maxSize
	}
}

// New creates a new complexity analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ErrFileTooLarge is returned for sources above the configured size limit.
var ErrFileTooLarge = errors.New("file exceeds size limit")

// Analyze parses source as the language implied by filename and measures it.
func (a *Analyzer) Analyze(source []byte, filename string) (*Result, error) {
	return a.AnalyzeContext(context.Background(), source, filename)
}

// AnalyzeContext is Analyze with a context that can cancel parsing.
func (a *Analyzer) AnalyzeContext(ctx context.Context, source []byte, filename string) (*Result, error) {
	if a.maxFileSize > 0 && len(source) > a.maxFileSize {
		return nil, fmt.Errorf("%w: %s (%d bytes)", ErrFileTooLarge, filename, len(source))
	}

	lang := parser.DetectLanguage(filename)
	if lang == parser.LangUnknown {
		return nil, fmt.Errorf("%w: %s", parser.ErrUnsupportedLanguage, filename)
	}

	psr := parser.New()
	defer psr.Close()

	parsed, err := psr.Parse(ctx, source, lang, filename)
	if err != nil {
		return nil, err
	}
	defer parsed.Close()

	return analyzeParseResult(parsed), nil
}

func analyzeParseResult(parsed *parser.ParseResult) *Result {
	result := &Result{
		Path:      parsed.Path,
		Language:  parsed.Language.String(),
		Functions: make([]Function, 0),
	}

	decisions := decisionNodeTypes(parsed.Language)
	for _, fn := range parser.Functions(parsed) {
		result.Functions = append(result.Functions, Function{
			Name:                 fn.Name,
			StartLine:            fn.StartLine,
			EndLine:              fn.EndLine,
			CyclomaticComplexity: 1 + countDecisionPoints(fn.Body, decisions),
			Length:               int(fn.EndLine-fn.StartLine) + 1,
			ParameterCount:       len(fn.Parameters),
		})
	}

	root := parsed.Root()
	if !root.HasError() {
		lines, tokens := measure(root)
		result.NonCommentLines = &lines
		result.TokenCount = &tokens
	}

	return result
}

// countDecisionPoints counts branching constructs below node. Nested function
// definitions are skipped; they are reported as functions of their own.
func countDecisionPoints(node *sitter.Node, decisions decisionSet) int {
	if node == nil {
		return 0
	}

	var count int
	parser.Walk(node, func(n *sitter.Node, nodeType string) bool {
		if n != node && decisions.nested[nodeType] {
			return false
		}
		if decisions.branch[nodeType] {
			count++
		}
		if decisions.logical[nodeType] && isShortCircuit(n) {
			count++
		}
		return true
	})

	return count
}

// isShortCircuit reports whether a binary node is joined by a logical operator.
func isShortCircuit(node *sitter.Node) bool {
	if op := node.ChildByFieldName("operator"); op != nil {
		switch op.Type() {
		case "and", "or", "&&", "||":
			return true
		}
		return false
	}
	for i := range int(node.ChildCount()) {
		switch node.Child(i).Type() {
		case "and", "or", "&&", "||":
			return true
		}
	}
	return false
}

// measure returns the number of lines holding code (not only comments or
// whitespace) and the number of non-comment leaf tokens below root.
func measure(root *sitter.Node) (lines, tokens int) {
	codeRows := make(map[uint32]struct{})

	parser.Walk(root, func(n *sitter.Node, nodeType string) bool {
		if nodeType == "comment" || nodeType == "line_comment" || nodeType == "block_comment" {
			return false
		}
		if n.ChildCount() > 0 {
			return true
		}
		if n.StartByte() == n.EndByte() {
			return false
		}
		tokens++
		for row := n.StartPoint().Row; row <= n.EndPoint().Row; row++ {
			codeRows[row] = struct{}{}
		}
		return false
	})

	return len(codeRows), tokens
}

type decisionSet struct {
	branch  map[string]bool
	logical map[string]bool
	nested  map[string]bool
}

func makeSet(items ...string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// decisionNodeTypes returns the node types that add an execution path.
func decisionNodeTypes(lang parser.Language) decisionSet {
	switch lang {
	case parser.LangPython:
		return decisionSet{
			branch: makeSet(
				"if_statement", "elif_clause",
				"for_statement", "while_statement",
				"except_clause", "with_statement", "conditional_expression",
				"for_in_clause", "if_clause", "case_clause",
			),
			logical: makeSet("boolean_operator"),
			nested:  makeSet("function_definition", "lambda"),
		}
	case parser.LangGo:
		return decisionSet{
			branch:  makeSet("if_statement", "for_statement", "expression_case", "type_case", "communication_case"),
			logical: makeSet("binary_expression"),
			nested:  makeSet("func_literal"),
		}
	case parser.LangRuby:
		return decisionSet{
			branch:  makeSet("if", "elsif", "unless", "while", "until", "for", "when", "rescue", "conditional"),
			logical: makeSet("binary"),
			nested:  makeSet("method", "singleton_method", "lambda", "block", "do_block"),
		}
	case parser.LangRust:
		return decisionSet{
			branch:  makeSet("if_expression", "while_expression", "for_expression", "loop_expression", "match_arm"),
			logical: makeSet("binary_expression"),
			nested:  makeSet("function_item", "closure_expression"),
		}
	default:
		return decisionSet{
			branch: makeSet(
				"if_statement", "for_statement", "for_in_statement", "enhanced_for_statement",
				"while_statement", "do_statement", "switch_case", "switch_label",
				"catch_clause", "ternary_expression",
			),
			logical: makeSet("binary_expression"),
			nested: makeSet(
				"function_declaration", "function", "function_expression",
				"arrow_function", "method_definition", "lambda_expression",
			),
		}
	}
}
