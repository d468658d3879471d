// Package parser is the public entry point for parsing lunarity source:
// it wraps internal/parser's arena-resident engine behind the stable
// surface callers (the CLI, editor tooling, downstream analysis) depend
// on, and re-exports the ast package's Visitor machinery for walking the
// result.
package parser

import (
	"encoding/json"
	"io"

	internalparser "github.com/lunarity-lang/lunarity/internal/parser"
	"github.com/lunarity-lang/lunarity/pkg/ast"
)

// Options configures parsing behavior.
type Options struct {
	// Tolerant mode: collect errors and resynchronize instead of stopping
	// at the first one.
	Tolerant bool
	// Loc is passed to the engine but not read there: diagnostics always
	// carry line/column positions.
	Loc bool
	// Range is passed to the engine but not read there: every AST node
	// always carries its Start/End byte span.
	Range bool
}

// ParserError wraps every diagnostic collected while parsing.
type ParserError struct {
	Errors []*Error
}

func (e *ParserError) Error() string {
	if len(e.Errors) == 0 {
		return "parsing error"
	}
	return e.Errors[0].Error()
}

// Error is one parse diagnostic.
type Error struct {
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// Result is a completed parse: the arena-resident AST root plus the arena
// that owns every node in it. Visit/VisitSimple and JSON marshaling only
// need Root; Arena is exposed for callers that want to reconstruct source
// text spans (e.g. to print a caret diagnostic under a byte range).
type Result struct {
	Root  ast.Node[ast.SourceUnit]
	Arena *ast.Arena
}

// Parse parses lunarity source and returns its AST. In non-tolerant mode
// (the default), any diagnostic aborts the parse and is returned as a
// *ParserError; in tolerant mode, the parser resynchronizes past errors
// and still returns a (possibly partial) tree, with the returned
// *ParserError's Errors field holding whatever it collected along the
// way — callers that need those
// diagnostics after a successful tolerant parse should inspect the
// returned error, which is still populated even when Result is non-nil.
func Parse(input string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = &Options{}
	}

	p := internalparser.New(input, internalparser.Options{
		Tolerant: opts.Tolerant,
		Loc:      opts.Loc,
		Range:    opts.Range,
	})

	root := p.Parse()

	if errs := p.Errors(); len(errs) > 0 {
		wrapped := make([]*Error, len(errs))
		for i, e := range errs {
			wrapped[i] = &Error{Message: e.Message, Line: e.Line, Column: e.Column}
		}
		parserErr := &ParserError{Errors: wrapped}
		if !opts.Tolerant {
			return nil, parserErr
		}
		return &Result{Root: root, Arena: p.Arena()}, parserErr
	}

	return &Result{Root: root, Arena: p.Arena()}, nil
}

// ParseReader reads r to completion and parses its contents.
func ParseReader(r io.Reader, opts *Options) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), opts)
}

// ParseToJSON parses input and marshals the resulting AST as indented
// JSON, the same shape the CLI's `parse` command prints.
func ParseToJSON(input string, opts *Options) ([]byte, error) {
	result, err := Parse(input, opts)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result.Root, "", "  ")
}

// Visit walks root with visitor.
func Visit(root ast.Node[ast.SourceUnit], visitor ast.Visitor) {
	ast.Walk(root, visitor)
}

// VisitSimple walks root with a callback-bag SimpleVisitor.
func VisitSimple(root ast.Node[ast.SourceUnit], sv ast.SimpleVisitor) {
	ast.WalkSimple(root, sv)
}

// Visitor, BaseVisitor, SimpleVisitor re-export the ast package's walking
// machinery so callers only need to import pkg/parser.
type (
	Visitor      = ast.Visitor
	BaseVisitor  = ast.BaseVisitor
	SimpleVisitor = ast.SimpleVisitor
)
