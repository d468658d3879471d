// Package parser implements the lunarity parser: a Pratt expression
// engine, a context-polymorphic statement engine, a contract-part
// dispatcher, and a type-name parser, all producing nodes in a shared
// ast.Arena. It never imports pkg/parser — the public package wraps this
// one, not the other way around.
package parser

import (
	"fmt"

	"devt.de/krotik/common/errorutil"
	"github.com/lunarity-lang/lunarity/internal/lexer"
	"github.com/lunarity-lang/lunarity/pkg/ast"
)

// Options configures parsing behavior. It is the same surface the teacher
// repo's pkg/parser exposed, carried through unchanged (§10.3).
type Options struct {
	Tolerant bool // collect errors and resynchronize instead of stopping
	Loc      bool // carried through but not read; diagnostics always carry line/column
	Range    bool // carried through but not read; nodes always carry byte spans
}

// Error is one diagnostic produced while parsing.
type Error struct {
	Message string
	Line    int
	Column  int
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
}

// Parser holds the arena, the lexer's token cursor, the accumulated error
// sink, and the active Options — the four pieces of state §4.1 calls the
// parser driver's responsibility.
type Parser struct {
	arena   *ast.Arena
	tokens  []lexer.Token
	pos     int
	errors  []*Error
	options Options
}

// New tokenizes input and returns a Parser ready to produce a SourceUnit.
func New(input string, opts Options) *Parser {
	lex := lexer.New(input)
	return &Parser{
		arena:   ast.NewArena(input),
		tokens:  lex.Tokenize(),
		options: opts,
	}
}

// Errors returns every diagnostic collected during the parse.
func (p *Parser) Errors() []*Error { return p.errors }

// Arena returns the arena backing every node this parser produced.
func (p *Parser) Arena() *ast.Arena { return p.arena }

// ---- token cursor -------------------------------------------------------

func (p *Parser) peek() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(n int) lexer.Token {
	idx := p.pos + n
	if idx >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[idx]
}

func (p *Parser) previous() lexer.Token {
	if p.pos == 0 {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos-1]
}

func (p *Parser) advanceTok() lexer.Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

func (p *Parser) isAtEnd() bool {
	return p.peek().Type == lexer.EOF
}

// mark/reset implement the save/restore the two-context type-name parser
// and the statement fallback branch need (§9): a type-name attempt must be
// fully undoable if it turns out the leading tokens don't form a type.
type mark int

func (p *Parser) mark() mark   { return mark(p.pos) }
func (p *Parser) reset(m mark) { p.pos = int(m) }

// ---- driver helpers (§4.1) ----------------------------------------------

// startThenAdvance returns the current token's span start, then advances.
func (p *Parser) startThenAdvance() int {
	start := p.peek().Start
	p.advanceTok()
	return start
}

// expect consumes t or records an error; it always returns some token so
// the caller can keep building a span even on failure (§7).
func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.check(t) {
		return p.advanceTok()
	}
	p.addError(fmt.Sprintf("expected %q, got %q", t.String(), p.peek().Value))
	if !p.options.Tolerant {
		p.advanceTok()
	}
	return p.peek()
}

// expectEnd consumes t or errors, returning the span end a successful
// consumption would have produced.
func (p *Parser) expectEnd(t lexer.TokenType) int {
	if p.check(t) {
		tok := p.advanceTok()
		return tok.End
	}
	p.addError(fmt.Sprintf("expected %q, got %q", t.String(), p.peek().Value))
	return p.peek().Start
}

func (p *Parser) expectKeyword(value string) lexer.Token {
	if p.peek().Value == value {
		return p.advanceTok()
	}
	p.addError(fmt.Sprintf("expected %q, got %q", value, p.peek().Value))
	if !p.options.Tolerant {
		p.advanceTok()
	}
	return p.peek()
}

// allow consumes t if present and reports whether it did.
func (p *Parser) allow(t lexer.TokenType) bool {
	if p.check(t) {
		p.advanceTok()
		return true
	}
	return false
}

// expectStrNode consumes t and wraps its slice in a Node[string].
func (p *Parser) expectStrNode(t lexer.TokenType) ast.Node[string] {
	tok := p.expect(t)
	return ast.NewNode(p.arena, tok.Start, tok.End, tok.Value)
}

// allowStrNode consumes t if present, returning (node, true); otherwise
// (zero, false) without consuming.
func (p *Parser) allowStrNode(t lexer.TokenType) (ast.Node[string], bool) {
	if !p.check(t) {
		return ast.Node[string]{}, false
	}
	tok := p.advanceTok()
	return ast.NewNode(p.arena, tok.Start, tok.End, tok.Value), true
}

// allowFlagNode consumes t if present, returning a Flag node marking its
// span; otherwise nil.
func (p *Parser) allowFlagNode(t lexer.TokenType) *ast.Node[ast.Flag] {
	if !p.check(t) {
		return nil
	}
	tok := p.advanceTok()
	n := ast.NewNode(p.arena, tok.Start, tok.End, ast.Flag{})
	return &n
}

func (p *Parser) addError(message string) {
	tok := p.peek()
	p.errors = append(p.errors, &Error{Message: message, Line: tok.Line, Column: tok.Column})
	if p.options.Tolerant {
		p.synchronize()
	}
}

// synchronize resynchronizes to the next statement or contract-part
// boundary in tolerant mode, per §7's single-diagnostic-then-continue
// recovery strategy.
func (p *Parser) synchronize() {
	p.advanceTok()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case lexer.CONTRACT, lexer.FUNCTION, lexer.STRUCT, lexer.ENUM,
			lexer.EVENT, lexer.MODIFIER, lexer.PRAGMA, lexer.IMPORT, lexer.USING:
			return
		}
		p.advanceTok()
	}
}

// ---- top-level loop (§4.6) ----------------------------------------------

// Parse runs the top-level source-unit loop to completion and returns the
// arena-resident root node.
func (p *Parser) Parse() ast.Node[ast.SourceUnit] {
	errorutil.AssertTrue(p.arena != nil, "parser: Parse called with nil arena")

	start := 0
	body := ast.NewGrowableList[ast.TopLevel](p.arena)

	for !p.isAtEnd() {
		unit, ok := p.parseSourceUnitMember()
		if ok {
			body.Push(unit)
		}
		if len(p.errors) > 0 && !p.options.Tolerant {
			break
		}
	}

	end := p.previous().End
	return ast.NewNode(p.arena, start, end, ast.SourceUnit{Body: body.AsList()})
}

func (p *Parser) parseSourceUnitMember() (ast.Node[ast.TopLevel], bool) {
	switch p.peek().Type {
	case lexer.PRAGMA:
		n := p.parsePragmaDirective()
		return ast.NewNode(p.arena, n.Start, n.End, ast.TopLevel{Pragma: &n.Payload}), true
	case lexer.IMPORT:
		n := p.parseImportDirective()
		return ast.NewNode(p.arena, n.Start, n.End, ast.TopLevel{Import: &n.Payload}), true
	case lexer.CONTRACT:
		n := p.parseContractDefinition()
		return ast.NewNode(p.arena, n.Start, n.End, ast.TopLevel{Contract: &n.Payload}), true
	default:
		p.addError(fmt.Sprintf("unexpected token at top level: %q", p.peek().Value))
		p.advanceTok()
		return ast.Node[ast.TopLevel]{}, false
	}
}

func (p *Parser) parsePragmaDirective() ast.Node[ast.PragmaDirective] {
	start := p.startThenAdvance() // pragma

	name := p.expectStrNode(lexer.IDENTIFIER)

	valueStart := p.peek().Start
	valueEnd := valueStart
	for !p.check(lexer.SEMICOLON) && !p.isAtEnd() {
		valueEnd = p.peek().End
		p.advanceTok()
	}
	value := ast.NewNode(p.arena, valueStart, valueEnd, p.sliceBetween(valueStart, valueEnd))

	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, start, end, ast.PragmaDirective{Name: name, Value: value})
}

func (p *Parser) parseImportDirective() ast.Node[ast.ImportDirective] {
	start := p.startThenAdvance() // import

	pathTok := p.expect(lexer.STRING)
	path := ast.NewNode(p.arena, pathTok.Start, pathTok.End, pathTok.Value)

	var alias *ast.Node[string]
	if p.allow(lexer.AS) {
		a := p.expectStrNode(lexer.IDENTIFIER)
		alias = &a
	}

	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, start, end, ast.ImportDirective{Path: path, Alias: alias})
}

// sliceBetween returns the raw source text between two byte offsets, used
// to reconstruct a pragma's constraint text from the tokens it spans.
func (p *Parser) sliceBetween(start, end int) string {
	src := p.arena.Source()
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}
