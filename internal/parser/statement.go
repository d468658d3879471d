package parser

import (
	"github.com/lunarity-lang/lunarity/internal/lexer"
	"github.com/lunarity-lang/lunarity/pkg/ast"
)

// StatementContext realizes the four-context matrix from §4.3/§9 as a
// two-flag value type instead of four marker types plus vtable dispatch:
// AllowPlaceholder gates `_;`, AllowLoopBreak gates `continue`/`break`.
// LoopContext derives the context to use for a loop body by turning on
// AllowLoopBreak — loop contexts are their own loop context, so nesting a
// loop inside a loop is a no-op on this flag.
type StatementContext struct {
	AllowPlaceholder bool
	AllowLoopBreak   bool
}

// FunctionContext: neither placeholder nor bare break/continue is legal.
func FunctionContext() StatementContext { return StatementContext{} }

// ModifierContext: `_;` is legal, break/continue is not (until a loop is
// entered).
func ModifierContext() StatementContext { return StatementContext{AllowPlaceholder: true} }

// LoopContext returns the context to parse a loop body in: loop-break
// becomes legal, placeholder legality is inherited unchanged.
func (c StatementContext) LoopContext() StatementContext {
	return StatementContext{AllowPlaceholder: c.AllowPlaceholder, AllowLoopBreak: true}
}

// preParse recognizes the tokens that are only legal statements under this
// context: `_;` under AllowPlaceholder, `continue;`/`break;` under
// AllowLoopBreak. Anything else is left for the main dispatch table.
func (c StatementContext) preParse(p *Parser) (ast.Node[ast.Statement], bool) {
	if c.AllowPlaceholder && p.peek().Type == lexer.IDENTIFIER && p.peek().Value == "_" && p.peekAt(1).Type == lexer.SEMICOLON {
		start := p.startThenAdvance() // _
		end := p.expectEnd(lexer.SEMICOLON)
		f := ast.Flag{}
		return ast.NewNode(p.arena, start, end, ast.Statement{Placeholder: &f}), true
	}
	if c.AllowLoopBreak {
		switch p.peek().Type {
		case lexer.CONTINUE:
			start := p.startThenAdvance()
			end := p.expectEnd(lexer.SEMICOLON)
			f := ast.Flag{}
			return ast.NewNode(p.arena, start, end, ast.Statement{Continue: &f}), true
		case lexer.BREAK:
			start := p.startThenAdvance()
			end := p.expectEnd(lexer.SEMICOLON)
			f := ast.Flag{}
			return ast.NewNode(p.arena, start, end, ast.Statement{Break: &f}), true
		}
	}
	return ast.Node[ast.Statement]{}, false
}

// statement is the §4.3 main entry point: pre_parse first, then the
// token-dispatch table, then the variable-definition/expression fallback.
func (p *Parser) statement(ctx StatementContext) ast.Node[ast.Statement] {
	if n, ok := ctx.preParse(p); ok {
		return n
	}

	switch p.peek().Type {
	case lexer.LBRACE:
		block := p.parseBlock(ctx)
		return ast.NewNode(p.arena, block.Start, block.End, ast.Statement{Block: &block.Payload})
	case lexer.IF:
		return p.ifStatement(ctx)
	case lexer.WHILE:
		return p.whileStatement(ctx)
	case lexer.FOR:
		return p.forStatement(ctx)
	case lexer.DO:
		return p.doWhileStatement(ctx)
	case lexer.RETURN:
		return p.returnStatement()
	case lexer.THROW:
		return p.throwStatement()
	case lexer.ASSEMBLY:
		return p.inlineAssemblyStatement()
	case lexer.VAR:
		return p.inferredDefinitionStatement()
	default:
		if p.looksLikeVariableDeclaration() {
			return p.variableDefinitionStatement()
		}
		return p.expressionStatement()
	}
}

// parseBlock repeatedly parses statements in ctx until `}`.
func (p *Parser) parseBlock(ctx StatementContext) ast.Node[ast.Block] {
	start := p.startThenAdvance() // {
	body := ast.NewGrowableList[ast.Statement](p.arena)
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		body.Push(p.statement(ctx))
	}
	end := p.expectEnd(lexer.RBRACE)
	return ast.NewNode(p.arena, start, end, ast.Block{Body: body.AsList()})
}

func (p *Parser) ifStatement(ctx StatementContext) ast.Node[ast.Statement] {
	start := p.startThenAdvance() // if
	p.expect(lexer.LPAREN)
	test := p.parseExpression(PrecedenceTop)
	p.expect(lexer.RPAREN)

	consequent := p.statement(ctx)
	var alternate *ast.Node[ast.Statement]
	end := consequent.End
	if p.allow(lexer.ELSE) {
		alt := p.statement(ctx)
		alternate = &alt
		end = alt.End
	}

	return ast.NewNode(p.arena, start, end, ast.Statement{If: &ast.IfStatement{
		Test:       test,
		Consequent: consequent,
		Alternate:  alternate,
	}})
}

func (p *Parser) whileStatement(ctx StatementContext) ast.Node[ast.Statement] {
	start := p.startThenAdvance() // while
	p.expect(lexer.LPAREN)
	test := p.parseExpression(PrecedenceTop)
	p.expect(lexer.RPAREN)
	body := p.statement(ctx.LoopContext())

	return ast.NewNode(p.arena, start, body.End, ast.Statement{While: &ast.WhileStatement{Test: test, Body: body}})
}

func (p *Parser) forStatement(ctx StatementContext) ast.Node[ast.Statement] {
	start := p.startThenAdvance() // for
	p.expect(lexer.LPAREN)

	var init *ast.Node[ast.SimpleStatement]
	if !p.check(lexer.SEMICOLON) {
		s := p.simpleStatement()
		init = &s
	} else {
		p.expect(lexer.SEMICOLON)
	}

	var test *ast.Node[ast.Expression]
	if !p.check(lexer.SEMICOLON) {
		t := p.parseExpression(PrecedenceTop)
		test = &t
	}
	p.expect(lexer.SEMICOLON)

	var update *ast.Node[ast.Expression]
	if !p.check(lexer.RPAREN) {
		u := p.parseExpression(PrecedenceTop)
		update = &u
	}
	p.expect(lexer.RPAREN)

	body := p.statement(ctx.LoopContext())

	return ast.NewNode(p.arena, start, body.End, ast.Statement{For: &ast.ForStatement{
		Init:   init,
		Test:   test,
		Update: update,
		Body:   body,
	}})
}

func (p *Parser) doWhileStatement(ctx StatementContext) ast.Node[ast.Statement] {
	start := p.startThenAdvance() // do
	body := p.statement(ctx.LoopContext())

	p.expect(lexer.WHILE)
	p.expect(lexer.LPAREN)
	test := p.parseExpression(PrecedenceTop)
	p.expect(lexer.RPAREN)
	end := p.expectEnd(lexer.SEMICOLON)

	return ast.NewNode(p.arena, start, end, ast.Statement{DoWhile: &ast.DoWhileStatement{Body: body, Test: test}})
}

func (p *Parser) returnStatement() ast.Node[ast.Statement] {
	start := p.startThenAdvance() // return
	var value *ast.Node[ast.Expression]
	if !p.check(lexer.SEMICOLON) {
		v := p.parseExpression(PrecedenceTop)
		value = &v
	}
	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, start, end, ast.Statement{Return: &ast.ReturnStatement{Value: value}})
}

func (p *Parser) throwStatement() ast.Node[ast.Statement] {
	start := p.startThenAdvance() // throw
	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, start, end, ast.Statement{Throw: &ast.ThrowStatement{}})
}

// inlineAssemblyStatement parses only the outer framing (§9): an optional
// dialect string, then a balanced-brace block whose contents are not
// further structured.
func (p *Parser) inlineAssemblyStatement() ast.Node[ast.Statement] {
	start := p.startThenAdvance() // assembly

	var dialect *ast.Node[string]
	if d, ok := p.allowStrNode(lexer.STRING); ok {
		dialect = &d
	}

	blockStart := p.peek().Start
	p.expect(lexer.LBRACE)
	depth := 1
	for depth > 0 && !p.isAtEnd() {
		switch p.peek().Type {
		case lexer.LBRACE:
			depth++
		case lexer.RBRACE:
			depth--
		}
		p.advanceTok()
	}
	blockEnd := p.previous().End
	block := ast.NewNode(p.arena, blockStart, blockEnd, ast.Block{})

	return ast.NewNode(p.arena, start, blockEnd, ast.Statement{InlineAssembly: &ast.InlineAssemblyStatement{
		Dialect: dialect,
		Block:   block,
	}})
}

// expressionStatement parses a bare expression terminated by `;` for the
// full Statement family. The restricted SimpleStatement family used as a
// for-loop initializer parses its expression form inline instead.
func (p *Parser) expressionStatement() ast.Node[ast.Statement] {
	expr := p.parseExpression(PrecedenceTop)
	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, expr.Start, end, ast.Statement{Expression: &expr})
}

// variableDefinitionStatement: `Type [location] name [= init];`. Only
// reached once looksLikeVariableDeclaration has confirmed the shape.
func (p *Parser) variableDefinitionStatement() ast.Node[ast.Statement] {
	decl := p.parseVariableDeclaration()
	var init *ast.Node[ast.Expression]
	if p.allow(lexer.ASSIGN) {
		v := p.parseExpression(PrecedenceTop)
		init = &v
	}
	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, decl.Start, end, ast.Statement{VariableDefinition: &ast.VariableDefinitionStatement{
		Declaration: decl,
		Init:        init,
	}})
}

// inferredDefinitionStatement: `var id = init;` or
// `var (id?, id?, ...) = init;` (tuple destructuring, holes allowed).
func (p *Parser) inferredDefinitionStatement() ast.Node[ast.Statement] {
	start := p.startThenAdvance() // var

	ids := ast.NewGrowableList[*ast.Node[string]](p.arena)
	if p.allow(lexer.LPAREN) {
		if !p.check(lexer.RPAREN) {
			for {
				if n, ok := p.allowStrNode(lexer.IDENTIFIER); ok {
					ids.Push(ast.NewNode(p.arena, n.Start, n.End, &n))
				} else {
					pos := p.peek().Start
					ids.Push(ast.NewNode[*ast.Node[string]](p.arena, pos, pos, nil))
				}
				if !p.allow(lexer.COMMA) {
					break
				}
			}
		}
		p.expect(lexer.RPAREN)
	} else {
		n := p.expectStrNode(lexer.IDENTIFIER)
		ids.Push(ast.NewNode(p.arena, n.Start, n.End, &n))
	}

	p.expect(lexer.ASSIGN)
	init := p.parseExpression(PrecedenceTop)
	end := p.expectEnd(lexer.SEMICOLON)

	return ast.NewNode(p.arena, start, end, ast.Statement{InferredDefinition: &ast.InferredDefinitionStatement{
		Ids:  ids.AsList(),
		Init: init,
	}})
}

// simpleStatement is the restricted family legal as a for-loop
// initializer: variable-definition or expression-statement, never control
// flow.
func (p *Parser) simpleStatement() ast.Node[ast.SimpleStatement] {
	if p.looksLikeVariableDeclaration() {
		decl := p.parseVariableDeclaration()
		var init *ast.Node[ast.Expression]
		if p.allow(lexer.ASSIGN) {
			v := p.parseExpression(PrecedenceTop)
			init = &v
		}
		end := p.expectEnd(lexer.SEMICOLON)
		vds := &ast.VariableDefinitionStatement{Declaration: decl, Init: init}
		return ast.NewNode(p.arena, decl.Start, end, ast.SimpleStatement{VariableDefinition: vds})
	}
	expr := p.parseExpression(PrecedenceTop)
	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, expr.Start, end, ast.SimpleStatement{Expression: &expr})
}
