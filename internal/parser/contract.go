package parser

import (
	"fmt"

	"github.com/lunarity-lang/lunarity/internal/lexer"
	"github.com/lunarity-lang/lunarity/pkg/ast"
)

// parseContractDefinition parses `contract Name is Base, ... { parts }`.
func (p *Parser) parseContractDefinition() ast.Node[ast.ContractDefinition] {
	start := p.startThenAdvance() // contract
	name := p.expectStrNode(lexer.IDENTIFIER)

	inherits := ast.NewGrowableList[string](p.arena)
	if p.allow(lexer.IS) {
		for {
			base := p.expectStrNode(lexer.IDENTIFIER)
			inherits.Push(base)
			if !p.allow(lexer.COMMA) {
				break
			}
		}
	}

	p.expect(lexer.LBRACE)

	body := ast.NewGrowableList[ast.ContractPart](p.arena)
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		part, ok := p.parseContractPart()
		if ok {
			body.Push(part)
		}
	}

	end := p.expectEnd(lexer.RBRACE)
	return ast.NewNode(p.arena, start, end, ast.ContractDefinition{
		Name:     name,
		Inherits: inherits.AsList(),
		Body:     body.AsList(),
	})
}

// parseContractPart is the §4.2 dispatch table.
func (p *Parser) parseContractPart() (ast.Node[ast.ContractPart], bool) {
	switch p.peek().Type {
	case lexer.USING:
		n := p.parseUsingForDeclaration()
		return ast.NewNode(p.arena, n.Start, n.End, ast.ContractPart{UsingFor: &n.Payload}), true
	case lexer.STRUCT:
		n := p.parseStructDefinition()
		return ast.NewNode(p.arena, n.Start, n.End, ast.ContractPart{Struct: &n.Payload}), true
	case lexer.MODIFIER:
		n := p.parseModifierDefinition()
		return ast.NewNode(p.arena, n.Start, n.End, ast.ContractPart{Modifier: &n.Payload}), true
	case lexer.FUNCTION:
		n := p.parseFunctionDefinition()
		return ast.NewNode(p.arena, n.Start, n.End, ast.ContractPart{Function: &n.Payload}), true
	case lexer.EVENT:
		n := p.parseEventDefinition()
		return ast.NewNode(p.arena, n.Start, n.End, ast.ContractPart{Event: &n.Payload}), true
	case lexer.ENUM:
		n := p.parseEnumDefinition()
		return ast.NewNode(p.arena, n.Start, n.End, ast.ContractPart{Enum: &n.Payload}), true
	case lexer.EOF, lexer.RBRACE:
		return ast.Node[ast.ContractPart]{}, false
	default:
		if !p.isTypeNameStart() {
			p.addError(fmt.Sprintf("unexpected token in contract body: %q", p.peek().Value))
			p.advanceTok()
			return ast.Node[ast.ContractPart]{}, false
		}
		n := p.parseStateVariableDeclaration()
		return ast.NewNode(p.arena, n.Start, n.End, ast.ContractPart{StateVariable: &n.Payload}), true
	}
}

// parseStateVariableDeclaration: type-name, then up to one visibility flag
// and one `constant` flag in either order (unique_flag policy — a second
// occurrence of either kind is a DuplicateFlag error), then optional
// initializer, terminated by `;`.
func (p *Parser) parseStateVariableDeclaration() ast.Node[ast.StateVariableDeclaration] {
	typeName := p.parseTypeName()

	var visibility ast.Visibility
	var visibilitySet bool
	var constant *ast.Node[ast.Flag]

	for {
		switch p.peek().Type {
		case lexer.PUBLIC, lexer.INTERNAL, lexer.PRIVATE:
			if visibilitySet {
				tok := p.peek()
				p.errors = append(p.errors, &Error{Message: "duplicate visibility specifier", Line: tok.Line, Column: tok.Column})
			}
			switch p.peek().Type {
			case lexer.PUBLIC:
				visibility = ast.VisibilityPublic
			case lexer.INTERNAL:
				visibility = ast.VisibilityInternal
			case lexer.PRIVATE:
				visibility = ast.VisibilityPrivate
			}
			visibilitySet = true
			p.advanceTok()
			continue
		case lexer.CONSTANT:
			if constant != nil {
				tok := p.peek()
				p.errors = append(p.errors, &Error{Message: "duplicate 'constant' specifier", Line: tok.Line, Column: tok.Column})
			}
			tok := p.advanceTok()
			n := ast.NewNode(p.arena, tok.Start, tok.End, ast.Flag{})
			constant = &n
			continue
		}
		break
	}

	name := p.expectStrNode(lexer.IDENTIFIER)

	var init *ast.Node[ast.Expression]
	if p.allow(lexer.ASSIGN) {
		e := p.parseExpression(PrecedenceTop)
		init = &e
	}

	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, typeName.Start, end, ast.StateVariableDeclaration{
		TypeName:   typeName,
		Visibility: visibility,
		Constant:   constant,
		Name:       name,
		Init:       init,
	})
}

// parseUsingForDeclaration: `using Lib for (Type|*);`.
func (p *Parser) parseUsingForDeclaration() ast.Node[ast.UsingForDeclaration] {
	start := p.startThenAdvance() // using
	lib := p.expectStrNode(lexer.IDENTIFIER)
	p.expect(lexer.FOR)

	var typeName *ast.Node[ast.TypeName]
	if p.allow(lexer.MUL) {
		typeName = nil
	} else {
		t := p.parseTypeName()
		typeName = &t
	}

	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, start, end, ast.UsingForDeclaration{LibraryName: lib, TypeName: typeName})
}

// parseStructDefinition requires at least one field (invariant I5).
func (p *Parser) parseStructDefinition() ast.Node[ast.StructDefinition] {
	start := p.startThenAdvance() // struct
	name := p.expectStrNode(lexer.IDENTIFIER)

	p.expect(lexer.LBRACE)

	fields := ast.NewGrowableList[ast.VariableDeclaration](p.arena)
	for !p.check(lexer.RBRACE) && !p.isAtEnd() {
		field := p.parseVariableDeclaration()
		p.expect(lexer.SEMICOLON)
		fields.Push(field)
	}

	body := fields.AsList()
	if body.Len() == 0 {
		p.addError("struct must have at least one field")
	}

	end := p.expectEnd(lexer.RBRACE)
	return ast.NewNode(p.arena, start, end, ast.StructDefinition{Name: name, Body: body})
}

// parseEnumDefinition: `enum Name { A, B, ... }`, possibly empty.
func (p *Parser) parseEnumDefinition() ast.Node[ast.EnumDefinition] {
	start := p.startThenAdvance() // enum
	name := p.expectStrNode(lexer.IDENTIFIER)

	p.expect(lexer.LBRACE)

	members := ast.NewGrowableList[string](p.arena)
	if !p.check(lexer.RBRACE) {
		for {
			members.Push(p.expectStrNode(lexer.IDENTIFIER))
			if !p.allow(lexer.COMMA) {
				break
			}
		}
	}

	end := p.expectEnd(lexer.RBRACE)
	return ast.NewNode(p.arena, start, end, ast.EnumDefinition{Name: name, Members: members.AsList()})
}

// parseEventDefinition: zero or more indexed parameters (invariant I6),
// optional trailing `anonymous`.
func (p *Parser) parseEventDefinition() ast.Node[ast.EventDefinition] {
	start := p.startThenAdvance() // event
	name := p.expectStrNode(lexer.IDENTIFIER)

	p.expect(lexer.LPAREN)
	params := ast.NewGrowableList[ast.IndexedParameter](p.arena)
	if !p.check(lexer.RPAREN) {
		for {
			params.Push(p.parseIndexedParameter())
			if !p.allow(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN)

	anonymous := p.allowFlagNode(lexer.ANONYMOUS)

	end := p.expectEnd(lexer.SEMICOLON)
	return ast.NewNode(p.arena, start, end, ast.EventDefinition{
		Name:      name,
		Params:    params.AsList(),
		Anonymous: anonymous,
	})
}

func (p *Parser) parseIndexedParameter() ast.Node[ast.IndexedParameter] {
	typeName := p.parseTypeName()
	indexed := p.allowFlagNode(lexer.INDEXED)
	var name *ast.Node[string]
	if p.check(lexer.IDENTIFIER) {
		n := p.expectStrNode(lexer.IDENTIFIER)
		name = &n
	}
	end := typeName.End
	if indexed != nil {
		end = indexed.End
	}
	if name != nil {
		end = name.End
	}
	return ast.NewNode(p.arena, typeName.Start, end, ast.IndexedParameter{
		TypeName: typeName,
		Indexed:  indexed,
		Name:     name,
	})
}

// parseModifierDefinition: optional parameter list, body in ModifierContext.
func (p *Parser) parseModifierDefinition() ast.Node[ast.ModifierDefinition] {
	start := p.startThenAdvance() // modifier
	name := p.expectStrNode(lexer.IDENTIFIER)

	params := ast.EmptyList[ast.Parameter]()
	if p.check(lexer.LPAREN) {
		params = p.parseParameterList()
	}

	body := p.parseBlock(ModifierContext())

	return ast.NewNode(p.arena, start, body.End, ast.ModifierDefinition{
		Name:   name,
		Params: params,
		Body:   body,
	})
}

// parseFunctionDefinition: name, params, visibility/mutability flags,
// modifier invocations, optional `returns(...)`, block or `;`.
func (p *Parser) parseFunctionDefinition() ast.Node[ast.FunctionDefinition] {
	start := p.startThenAdvance() // function

	var name *ast.Node[string]
	if p.check(lexer.IDENTIFIER) {
		n := p.expectStrNode(lexer.IDENTIFIER)
		name = &n
	}

	params := p.parseParameterList()

	var visibility *ast.Visibility
	var mutability *ast.Node[string]
	modifiers := ast.NewGrowableList[ast.ModifierInvocation](p.arena)

loop:
	for {
		switch p.peek().Type {
		case lexer.PUBLIC, lexer.INTERNAL, lexer.PRIVATE, lexer.EXTERNAL:
			v := visibilityFromToken(p.peek().Type)
			visibility = &v
			p.advanceTok()
		case lexer.PURE, lexer.VIEW, lexer.PAYABLE:
			tok := p.advanceTok()
			n := ast.NewNode(p.arena, tok.Start, tok.End, tok.Value)
			mutability = &n
		case lexer.IDENTIFIER:
			modifiers.Push(p.parseModifierInvocation())
		default:
			break loop
		}
	}

	returns := ast.EmptyList[ast.Parameter]()
	if p.allow(lexer.RETURNS) {
		returns = p.parseParameterList()
	}

	var block *ast.Node[ast.Block]
	end := p.peek().Start
	if p.check(lexer.LBRACE) {
		b := p.parseBlock(FunctionContext())
		block = &b
		end = b.End
	} else {
		end = p.expectEnd(lexer.SEMICOLON)
	}

	return ast.NewNode(p.arena, start, end, ast.FunctionDefinition{
		Name:       name,
		Params:     params,
		Visibility: visibility,
		Mutability: mutability,
		Modifiers:  modifiers.AsList(),
		Returns:    returns,
		Block:      block,
	})
}

func visibilityFromToken(t lexer.TokenType) ast.Visibility {
	switch t {
	case lexer.PUBLIC:
		return ast.VisibilityPublic
	case lexer.INTERNAL:
		return ast.VisibilityInternal
	case lexer.PRIVATE:
		return ast.VisibilityPrivate
	default:
		return ast.VisibilityDefault
	}
}

func (p *Parser) parseModifierInvocation() ast.Node[ast.ModifierInvocation] {
	first := p.expectStrNode(lexer.IDENTIFIER)
	pathBuilder := ast.NewListBuilder(p.arena, first)
	for p.check(lexer.PERIOD) {
		p.advanceTok()
		pathBuilder.Push(p.expectStrNode(lexer.IDENTIFIER))
	}
	path := pathBuilder.AsList()

	args := ast.EmptyList[ast.Expression]()
	end := first.End
	if p.allow(lexer.LPAREN) {
		args = p.parseExpressionList()
		end = p.expectEnd(lexer.RPAREN)
	}

	return ast.NewNode(p.arena, first.Start, end, ast.ModifierInvocation{Name: path, Args: args})
}

// parseExpressionList parses a possibly-empty comma-separated list of
// expressions, each at TOP precedence, stopping before `)`.
func (p *Parser) parseExpressionList() ast.NodeList[ast.Expression] {
	list := ast.NewGrowableList[ast.Expression](p.arena)
	if p.check(lexer.RPAREN) {
		return list.AsList()
	}
	for {
		list.Push(p.parseExpression(PrecedenceTop))
		if !p.allow(lexer.COMMA) {
			break
		}
	}
	return list.AsList()
}
