package parser

import (
	"github.com/lunarity-lang/lunarity/internal/lexer"
	"github.com/lunarity-lang/lunarity/pkg/ast"
)

// Precedence levels for the infix ladder (§4.4, §9): smaller numbers bind
// tighter. Prefix unary and postfix call/member/index/inc/dec are not part
// of this ladder at all — they are handled directly in parseUnary and
// parsePostfix, since nothing in the grammar binds looser than a prefix
// operator or tighter than a postfix suffix.
const (
	precExponent = 3 + iota
	precMultiplicative
	precAdditive
	precShift
	precBitAnd
	precBitXor
	precBitOr
	precRelational
	precEquality
	precLogicalAnd
	precLogicalOr
	precConditional
	precAssignment
)

// PrecedenceTop is the loosest binding power in the ladder — the bound
// every top-level caller (statement expressions, initializers, array
// lengths, call arguments) passes to parseExpression so that assignment
// and the conditional operator are both reachable.
const PrecedenceTop = precAssignment

// nestedHandler is one entry of the token-indexed infix dispatch table
// (§9 shape (a)): a precedence level, its associativity, and the handler
// that consumes the operator and builds the combined node.
type nestedHandler struct {
	level      int
	rightAssoc bool
	led        func(p *Parser, left ast.Node[ast.Expression], level int, rightAssoc bool) ast.Node[ast.Expression]
}

var infixTable map[lexer.TokenType]nestedHandler

func init() {
	infixTable = map[lexer.TokenType]nestedHandler{
		lexer.EXP: {precExponent, true, binaryLed(ast.BinExp)},

		lexer.MUL: {precMultiplicative, false, binaryLed(ast.BinMul)},
		lexer.DIV: {precMultiplicative, false, binaryLed(ast.BinDiv)},
		lexer.MOD: {precMultiplicative, false, binaryLed(ast.BinMod)},

		lexer.ADD: {precAdditive, false, binaryLed(ast.BinAdd)},
		lexer.SUB: {precAdditive, false, binaryLed(ast.BinSub)},

		lexer.SHL: {precShift, false, binaryLed(ast.BinShl)},
		lexer.SHR: {precShift, false, binaryLed(ast.BinShr)},

		lexer.BIT_AND: {precBitAnd, false, binaryLed(ast.BinBitAnd)},
		lexer.BIT_XOR: {precBitXor, false, binaryLed(ast.BinBitXor)},
		lexer.BIT_OR:  {precBitOr, false, binaryLed(ast.BinBitOr)},

		lexer.LT:  {precRelational, false, binaryLed(ast.BinLt)},
		lexer.LTE: {precRelational, false, binaryLed(ast.BinLte)},
		lexer.GT:  {precRelational, false, binaryLed(ast.BinGt)},
		lexer.GTE: {precRelational, false, binaryLed(ast.BinGte)},

		lexer.EQ:  {precEquality, false, binaryLed(ast.BinEq)},
		lexer.NEQ: {precEquality, false, binaryLed(ast.BinNeq)},

		lexer.AND: {precLogicalAnd, false, binaryLed(ast.BinAnd)},
		lexer.OR:  {precLogicalOr, false, binaryLed(ast.BinOr)},

		lexer.QUESTION: {precConditional, true, conditionalLed},

		lexer.ASSIGN:     {precAssignment, true, binaryLed(ast.BinAssign)},
		lexer.ASSIGN_ADD: {precAssignment, true, binaryLed(ast.BinAssignAdd)},
		lexer.ASSIGN_SUB: {precAssignment, true, binaryLed(ast.BinAssignSub)},
		lexer.ASSIGN_MUL: {precAssignment, true, binaryLed(ast.BinAssignMul)},
		lexer.ASSIGN_DIV: {precAssignment, true, binaryLed(ast.BinAssignDiv)},
		lexer.ASSIGN_MOD: {precAssignment, true, binaryLed(ast.BinAssignMod)},
		lexer.ASSIGN_SHL: {precAssignment, true, binaryLed(ast.BinAssignShl)},
		lexer.ASSIGN_SHR: {precAssignment, true, binaryLed(ast.BinAssignShr)},
		lexer.ASSIGN_AND: {precAssignment, true, binaryLed(ast.BinAssignAnd)},
		lexer.ASSIGN_XOR: {precAssignment, true, binaryLed(ast.BinAssignXor)},
		lexer.ASSIGN_OR:  {precAssignment, true, binaryLed(ast.BinAssignOr)},
	}
}

// binaryLed returns a led function for a plain left/right binary operator:
// the operator has already been consumed by parseExpression by the time it
// runs, so it only needs to parse the right operand at the bound the
// associativity calls for.
func binaryLed(op ast.BinaryOp) func(*Parser, ast.Node[ast.Expression], int, bool) ast.Node[ast.Expression] {
	return func(p *Parser, left ast.Node[ast.Expression], level int, rightAssoc bool) ast.Node[ast.Expression] {
		bound := level - 1
		if rightAssoc {
			bound = level
		}
		right := p.parseExpression(bound)
		bin := ast.BinaryExpression{Op: op, Left: left, Right: right}
		return ast.NewNode(p.arena, left.Start, right.End, ast.Expression{Binary: &bin})
	}
}

// conditionalLed parses `? consequent : alternate` once the test operand
// and `?` have already been consumed. Both the consequent and the
// alternate are parsed at the conditional's own level, so that
// `a?b:c?d:e` chains right-associatively.
func conditionalLed(p *Parser, test ast.Node[ast.Expression], level int, _ bool) ast.Node[ast.Expression] {
	consequent := p.parseExpression(level)
	p.expect(lexer.COLON)
	alternate := p.parseExpression(level)
	cond := ast.ConditionalExpression{Test: test, Consequent: consequent, Alternate: alternate}
	return ast.NewNode(p.arena, test.Start, alternate.End, ast.Expression{Conditional: &cond})
}

// parseExpression is the Pratt engine entry point: parse a unary operand,
// then climb the infix ladder consuming any operator whose level is within
// bound (§9).
func (p *Parser) parseExpression(bound int) ast.Node[ast.Expression] {
	left := p.parseUnary()

	for {
		entry, ok := infixTable[p.peek().Type]
		if !ok || entry.level > bound {
			return left
		}
		p.advanceTok()
		left = entry.led(p, left, entry.level, entry.rightAssoc)
	}
}

var prefixUnaryOps = map[lexer.TokenType]ast.UnaryOp{
	lexer.ADD:     ast.UnaryPlus,
	lexer.SUB:     ast.UnaryMinus,
	lexer.NOT:     ast.UnaryNot,
	lexer.BIT_NOT: ast.UnaryBitNot,
	lexer.INC:     ast.UnaryPreInc,
	lexer.DEC:     ast.UnaryPreDec,
	lexer.DELETE:  ast.UnaryDelete,
}

// parseUnary handles prefix operators. Their operand is parsed at the
// exponent level, so a prefix operator binds looser than any postfix suffix
// and than `**`, and tighter than every other infix operator: `-a++`
// parses as `Unary(-, Postfix(++, a))`, and `-a**b` parses as
// `Unary(-, Binary(**, a, b))`.
func (p *Parser) parseUnary() ast.Node[ast.Expression] {
	if op, ok := prefixUnaryOps[p.peek().Type]; ok {
		start := p.startThenAdvance()
		operand := p.parseExpression(precExponent)
		u := ast.UnaryExpression{Op: op, Operand: operand, Postfix: false}
		return ast.NewNode(p.arena, start, operand.End, ast.Expression{Unary: &u})
	}
	return p.parsePostfix(p.parsePrimary())
}

// parsePostfix repeatedly consumes member/index/call suffixes and trailing
// `++`/`--`, always applying regardless of the caller's bound — nothing in
// the grammar binds looser than a postfix suffix.
func (p *Parser) parsePostfix(expr ast.Node[ast.Expression]) ast.Node[ast.Expression] {
	for {
		switch p.peek().Type {
		case lexer.PERIOD:
			p.advanceTok()
			prop := p.expectStrNode(lexer.IDENTIFIER)
			m := ast.MemberExpression{Object: expr, Property: prop}
			expr = ast.NewNode(p.arena, expr.Start, prop.End, ast.Expression{Member: &m})
		case lexer.LBRACK:
			p.advanceTok()
			index := p.parseExpression(PrecedenceTop)
			end := p.expectEnd(lexer.RBRACK)
			ix := ast.IndexExpression{Array: expr, Index: index}
			expr = ast.NewNode(p.arena, expr.Start, end, ast.Expression{Index: &ix})
		case lexer.LPAREN:
			p.advanceTok()
			args := p.parseExpressionList()
			end := p.expectEnd(lexer.RPAREN)
			call := ast.CallExpression{Callee: expr, Args: args}
			expr = ast.NewNode(p.arena, expr.Start, end, ast.Expression{Call: &call})
		case lexer.INC:
			tok := p.advanceTok()
			u := ast.UnaryExpression{Op: ast.UnaryPostInc, Operand: expr, Postfix: true}
			expr = ast.NewNode(p.arena, expr.Start, tok.End, ast.Expression{Unary: &u})
		case lexer.DEC:
			tok := p.advanceTok()
			u := ast.UnaryExpression{Op: ast.UnaryPostDec, Operand: expr, Postfix: true}
			expr = ast.NewNode(p.arena, expr.Start, tok.End, ast.Expression{Unary: &u})
		default:
			return expr
		}
	}
}

// parsePrimary parses a literal, identifier, parenthesized expression or
// tuple, array literal, `new Type`, or an elementary type used as an
// expression head (e.g. the callee of an explicit conversion `uint(x)`).
func (p *Parser) parsePrimary() ast.Node[ast.Expression] {
	tok := p.peek()

	switch tok.Type {
	case lexer.NUMBER:
		p.advanceTok()
		prim := ast.Primitive{Kind: ast.LiteralNumber, Value: tok.Value}
		return ast.NewNode(p.arena, tok.Start, tok.End, ast.Expression{Primitive: &prim})
	case lexer.HEX_NUMBER:
		p.advanceTok()
		prim := ast.Primitive{Kind: ast.LiteralHex, Value: tok.Value}
		return ast.NewNode(p.arena, tok.Start, tok.End, ast.Expression{Primitive: &prim})
	case lexer.TRUE, lexer.FALSE:
		p.advanceTok()
		prim := ast.Primitive{Kind: ast.LiteralBool, Value: tok.Value}
		return ast.NewNode(p.arena, tok.Start, tok.End, ast.Expression{Primitive: &prim})
	case lexer.STRING, lexer.UNICODE_STRING:
		p.advanceTok()
		prim := ast.Primitive{Kind: ast.LiteralString, Value: tok.Value}
		return ast.NewNode(p.arena, tok.Start, tok.End, ast.Expression{Primitive: &prim})
	case lexer.HEX_STRING:
		p.advanceTok()
		prim := ast.Primitive{Kind: ast.LiteralHexString, Value: tok.Value}
		return ast.NewNode(p.arena, tok.Start, tok.End, ast.Expression{Primitive: &prim})
	case lexer.IDENTIFIER:
		p.advanceTok()
		id := ast.Identifier{Name: tok.Value}
		return ast.NewNode(p.arena, tok.Start, tok.End, ast.Expression{Identifier: &id})
	case lexer.NEW:
		start := p.startThenAdvance()
		typeName := p.parseTypeName()
		n := ast.NewExpression{TypeName: typeName}
		return ast.NewNode(p.arena, start, typeName.End, ast.Expression{New: &n})
	case lexer.LPAREN:
		return p.parseTupleExpression(lexer.LPAREN, lexer.RPAREN)
	case lexer.LBRACK:
		return p.parseTupleExpression(lexer.LBRACK, lexer.RBRACK)
	case lexer.BOOL, lexer.ADDRESS, lexer.STRING_TYPE, lexer.BYTES,
		lexer.INT, lexer.UINT, lexer.BYTE, lexer.BYTES_N,
		lexer.FIXED, lexer.UFIXED, lexer.FIXED_N, lexer.UFIXED_N:
		typeNode := p.parseElementaryTypeName()
		elem := ast.ElementaryTypeExpression{TypeName: *typeNode.Payload.Elementary}
		return ast.NewNode(p.arena, typeNode.Start, typeNode.End, ast.Expression{ElementaryType: &elem})
	default:
		p.addError("expected expression, got " + tok.Value)
		if !p.options.Tolerant {
			p.advanceTok()
		}
		id := ast.Identifier{Name: ""}
		return ast.NewNode(p.arena, tok.Start, tok.Start, ast.Expression{Identifier: &id})
	}
}

// parseTupleExpression parses a parenthesized or bracketed comma-separated
// list, allowing empty slots (`(a,,c)`) for destructuring-pattern
// position. A single non-empty element with no trailing comma collapses
// to that element directly rather than a one-element TupleExpression, so
// that `(a)` means grouping, not a tuple.
func (p *Parser) parseTupleExpression(open, close lexer.TokenType) ast.Node[ast.Expression] {
	start := p.startThenAdvance()

	elements := ast.NewGrowableList[*ast.Node[ast.Expression]](p.arena)
	sawComma := false
	if !p.check(close) {
		for {
			if p.check(lexer.COMMA) || p.check(close) {
				pos := p.peek().Start
				elements.Push(ast.NewNode[*ast.Node[ast.Expression]](p.arena, pos, pos, nil))
			} else {
				e := p.parseExpression(PrecedenceTop)
				elements.Push(ast.NewNode(p.arena, e.Start, e.End, &e))
			}
			if !p.allow(lexer.COMMA) {
				break
			}
			sawComma = true
		}
	}
	end := p.expectEnd(close)

	list := elements.AsList()
	if !sawComma && list.Len() == 1 {
		only := list.Slice()[0].Payload
		if only != nil {
			return *only
		}
	}

	tup := ast.TupleExpression{Elements: list}
	return ast.NewNode(p.arena, start, end, ast.Expression{Tuple: &tup})
}
