// Package parser wraps tree-sitter for the languages the complexity analyzer understands.
package parser

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// ErrUnsupportedLanguage is returned when no grammar is registered for a file.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language represents a supported programming language.
type Language string

const (
	LangPython     Language = "python"
	LangGo         Language = "go"
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
	LangJava       Language = "java"
	LangRuby       Language = "ruby"
	LangRust       Language = "rust"
	LangUnknown    Language = "unknown"
)

func (l Language) String() string { return string(l) }

// Parser wraps a tree-sitter parser. A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult contains the parsed syntax tree and the source it was built from.
type ParseResult struct {
	Tree     *sitter.Tree
	Language Language
	Source   []byte
	Path     string
}

// Close releases the tree.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
	}
}

// Root returns the root node of the tree.
func (r *ParseResult) Root() *sitter.Node {
	return r.Tree.RootNode()
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// Parse parses source code with the grammar selected by lang.
func (p *Parser) Parse(ctx context.Context, source []byte, lang Language, path string) (*ParseResult, error) {
	tsLang, err := treeSitterLanguage(lang)
	if err != nil {
		return nil, err
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &ParseResult{
		Tree:     tree,
		Language: lang,
		Source:   source,
		Path:     path,
	}, nil
}

func treeSitterLanguage(lang Language) (*sitter.Language, error) {
	switch lang {
	case LangPython:
		return python.GetLanguage(), nil
	case LangGo:
		return golang.GetLanguage(), nil
	case LangJavaScript:
		return javascript.GetLanguage(), nil
	case LangTypeScript:
		return typescript.GetLanguage(), nil
	case LangJava:
		return java.GetLanguage(), nil
	case LangRuby:
		return ruby.GetLanguage(), nil
	case LangRust:
		return rust.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, lang)
	}
}

// DetectLanguage determines the language from a file name.
func DetectLanguage(path string) Language {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw", ".pyi":
		return LangPython
	case ".go":
		return LangGo
	case ".js", ".mjs", ".cjs", ".jsx":
		return LangJavaScript
	case ".ts":
		return LangTypeScript
	case ".java":
		return LangJava
	case ".rb":
		return LangRuby
	case ".rs":
		return LangRust
	default:
		return LangUnknown
	}
}

// TypedNodeVisitor visits a node with its type already fetched, which saves a
// CGO round trip per check. Returning false skips the node's children.
type TypedNodeVisitor func(node *sitter.Node, nodeType string) bool

// Walk traverses the tree depth-first starting at node.
func Walk(node *sitter.Node, visit TypedNodeVisitor) {
	if node == nil {
		return
	}
	if !visit(node, node.Type()) {
		return
	}
	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), visit)
	}
}

// NodeText extracts the source text for a node.
// Returns empty string if node is nil or byte offsets are out of bounds.
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// FunctionNode is a function or method definition found in a tree.
type FunctionNode struct {
	Name       string
	StartLine  uint32
	EndLine    uint32
	Parameters []string
	Body       *sitter.Node
}

// Functions returns every function definition in the parse result, nested ones included.
func Functions(result *ParseResult) []FunctionNode {
	kinds := functionNodeTypes(result.Language)
	var functions []FunctionNode

	Walk(result.Root(), func(node *sitter.Node, nodeType string) bool {
		if kinds[nodeType] {
			functions = append(functions, newFunctionNode(node, result.Source))
		}
		return true
	})

	return functions
}

func functionNodeTypes(lang Language) map[string]bool {
	switch lang {
	case LangPython:
		return map[string]bool{"function_definition": true}
	case LangGo:
		return map[string]bool{"function_declaration": true, "method_declaration": true, "func_literal": true}
	case LangJavaScript, LangTypeScript:
		return map[string]bool{
			"function_declaration": true,
			"function":             true,
			"function_expression":  true,
			"arrow_function":       true,
			"method_definition":    true,
		}
	case LangJava:
		return map[string]bool{"method_declaration": true, "constructor_declaration": true}
	case LangRuby:
		return map[string]bool{"method": true, "singleton_method": true}
	case LangRust:
		return map[string]bool{"function_item": true}
	default:
		return nil
	}
}

// parameterSeparators are named parameter-list children that are not parameters.
var parameterSeparators = map[string]bool{
	"comment":              true,
	"keyword_separator":    true,
	"positional_separator": true,
}

func newFunctionNode(node *sitter.Node, source []byte) FunctionNode {
	fn := FunctionNode{
		Name:      NodeText(node.ChildByFieldName("name"), source),
		StartLine: node.StartPoint().Row + 1,
		EndLine:   node.EndPoint().Row + 1,
		Body:      node.ChildByFieldName("body"),
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := range int(params.NamedChildCount()) {
			child := params.NamedChild(i)
			if parameterSeparators[child.Type()] {
				continue
			}
			fn.Parameters = append(fn.Parameters, NodeText(child, source))
		}
	}

	return fn
}
