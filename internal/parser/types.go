package parser

import (
	"strconv"
	"strings"

	"github.com/lunarity-lang/lunarity/internal/lexer"
	"github.com/lunarity-lang/lunarity/pkg/ast"
)

// isTypeNameStart reports whether the current token can begin a type-name:
// an elementary type keyword, an identifier (user-defined type), or
// `mapping`. Used by the contract-part dispatcher's fallback case and by
// the statement-position ambiguity check (§4.5, §9).
func (p *Parser) isTypeNameStart() bool {
	switch p.peek().Type {
	case lexer.BOOL, lexer.ADDRESS, lexer.STRING_TYPE, lexer.BYTES,
		lexer.INT, lexer.UINT, lexer.BYTE, lexer.BYTES_N,
		lexer.FIXED, lexer.UFIXED, lexer.FIXED_N, lexer.UFIXED_N,
		lexer.MAPPING, lexer.IDENTIFIER:
		return true
	}
	return false
}

// parseTypeName implements RegularTypeNameContext: the caller has already
// established that a type-name belongs here (e.g. the contract-part
// dispatcher only reaches here after isTypeNameStart), so this always
// commits.
func (p *Parser) parseTypeName() ast.Node[ast.TypeName] {
	base := p.parseTypeNameBase()
	return p.parseArraySuffixes(base)
}

func (p *Parser) parseTypeNameBase() ast.Node[ast.TypeName] {
	tok := p.peek()
	switch tok.Type {
	case lexer.MAPPING:
		return p.parseMappingType()
	case lexer.IDENTIFIER:
		return p.parseUserDefinedTypeName()
	default:
		return p.parseElementaryTypeName()
	}
}

func (p *Parser) parseElementaryTypeName() ast.Node[ast.TypeName] {
	tok := p.advanceTok()
	var elem ast.ElementaryTypeName
	switch tok.Type {
	case lexer.BOOL:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryBool}
	case lexer.ADDRESS:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryAddress}
	case lexer.STRING_TYPE:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryString}
	case lexer.BYTES:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryByte, Bytes: 0}
	case lexer.INT:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryInt, Bytes: sizeSuffix(tok.Value, "int")}
	case lexer.UINT:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryUint, Bytes: sizeSuffix(tok.Value, "uint")}
	case lexer.BYTE:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryByte, Bytes: 1}
	case lexer.BYTES_N:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryByte, Bytes: sizeSuffix(tok.Value, "bytes")}
	case lexer.FIXED:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryFixed, M: 128, N: 18}
	case lexer.UFIXED:
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryUfixed, M: 128, N: 18}
	case lexer.FIXED_N:
		m, n := fixedSuffix(tok.Value, "fixed")
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryFixed, M: m, N: n}
	case lexer.UFIXED_N:
		m, n := fixedSuffix(tok.Value, "ufixed")
		elem = ast.ElementaryTypeName{Kind: ast.ElementaryUfixed, M: m, N: n}
	default:
		p.addError("expected type name, got " + tok.Value)
	}
	return ast.NewNode(p.arena, tok.Start, tok.End, ast.TypeName{Elementary: &elem})
}

func sizeSuffix(value, prefix string) int {
	suffix := strings.TrimPrefix(value, prefix)
	if suffix == "" {
		return 0
	}
	bits, err := strconv.Atoi(suffix)
	if err != nil {
		return 0
	}
	if strings.HasPrefix(value, "bytes") {
		return bits
	}
	return bits / 8
}

func fixedSuffix(value, prefix string) (int, int) {
	rest := strings.TrimPrefix(value, prefix)
	parts := strings.SplitN(rest, "x", 2)
	if len(parts) != 2 {
		return 128, 18
	}
	m, err1 := strconv.Atoi(parts[0])
	n, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return 128, 18
	}
	return m, n
}

func (p *Parser) parseUserDefinedTypeName() ast.Node[ast.TypeName] {
	first := p.expectStrNode(lexer.IDENTIFIER)
	builder := ast.NewListBuilder(p.arena, first)
	end := first.End
	for p.check(lexer.PERIOD) {
		p.advanceTok()
		seg := p.expectStrNode(lexer.IDENTIFIER)
		builder.Push(seg)
		end = seg.End
	}
	udt := ast.UserDefinedTypeName{Path: builder.AsList()}
	return ast.NewNode(p.arena, first.Start, end, ast.TypeName{UserDefined: &udt})
}

func (p *Parser) parseMappingType() ast.Node[ast.TypeName] {
	start := p.startThenAdvance() // mapping
	p.expect(lexer.LPAREN)
	key := p.parseTypeName()
	p.expect(lexer.ARROW)
	value := p.parseTypeName()
	end := p.expectEnd(lexer.RPAREN)
	m := ast.Mapping{Key: key, Value: value}
	return ast.NewNode(p.arena, start, end, ast.TypeName{Mapping: &m})
}

// parseArraySuffixes repeatedly consumes `[` `]` / `[` expr `]` suffixes
// after a base type, building nested ArrayTypeName wrappers outward-in.
func (p *Parser) parseArraySuffixes(base ast.Node[ast.TypeName]) ast.Node[ast.TypeName] {
	for p.check(lexer.LBRACK) {
		start := p.startThenAdvance() // [
		var length *ast.Node[ast.Expression]
		if !p.check(lexer.RBRACK) {
			e := p.parseExpression(PrecedenceTop)
			length = &e
		}
		end := p.expectEnd(lexer.RBRACK)
		arr := ast.ArrayTypeName{Base: base, Length: length}
		base = ast.NewNode(p.arena, base.Start, end, ast.TypeName{Array: &arr})
		_ = start
	}
	return base
}

// looksLikeVariableDeclaration implements StatementTypeNameContext (§4.5, §9): it
// must fail without consuming any token if the upcoming tokens do not form
// a type-name, so the caller can fall back to parsing an expression
// statement instead. It snapshots the cursor and always restores it —
// callers that get true back re-run the real (committing) parse.
func (p *Parser) looksLikeVariableDeclaration() bool {
	m := p.mark()
	defer p.reset(m)

	if !p.isTypeNameStart() {
		return false
	}

	savedErrs := len(p.errors)
	_ = p.parseTypeName()
	p.allowStorageLocation()
	ok := p.check(lexer.IDENTIFIER)
	// discard any speculative errors the trial parse emitted — they apply
	// only if this turns out to really be a declaration
	p.errors = p.errors[:savedErrs]
	return ok
}

func (p *Parser) allowStorageLocation() ast.StorageLocation {
	switch p.peek().Type {
	case lexer.MEMORY:
		p.advanceTok()
		return ast.StorageLocationMemory
	case lexer.STORAGE:
		p.advanceTok()
		return ast.StorageLocationStorage
	case lexer.CALLDATA:
		p.advanceTok()
		return ast.StorageLocationCalldata
	}
	return ast.StorageLocationNone
}

// parseVariableDeclaration: `Type [location] name`.
func (p *Parser) parseVariableDeclaration() ast.Node[ast.VariableDeclaration] {
	typeName := p.parseTypeName()
	loc := p.allowStorageLocation()
	name := p.expectStrNode(lexer.IDENTIFIER)
	return ast.NewNode(p.arena, typeName.Start, name.End, ast.VariableDeclaration{
		TypeName: typeName,
		Location: loc,
		Name:     name,
	})
}

// parseParameterList: `( [Type [location] [name]], ... )`, used by
// function/modifier/event signatures and `returns(...)`.
func (p *Parser) parseParameterList() ast.NodeList[ast.Parameter] {
	p.expect(lexer.LPAREN)
	list := ast.NewGrowableList[ast.Parameter](p.arena)
	if !p.check(lexer.RPAREN) {
		for {
			list.Push(p.parseParameter())
			if !p.allow(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RPAREN)
	return list.AsList()
}

func (p *Parser) parseParameter() ast.Node[ast.Parameter] {
	typeName := p.parseTypeName()
	loc := p.allowStorageLocation()
	var name *ast.Node[string]
	end := typeName.End
	if p.check(lexer.IDENTIFIER) {
		n := p.expectStrNode(lexer.IDENTIFIER)
		name = &n
		end = n.End
	}
	return ast.NewNode(p.arena, typeName.Start, end, ast.Parameter{
		TypeName: typeName,
		Location: loc,
		Name:     name,
	})
}
