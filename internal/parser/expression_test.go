package parser

import (
	"testing"

	"github.com/lunarity-lang/lunarity/pkg/ast"
)

func parseExpr(t *testing.T, src string) (ast.Node[ast.Expression], *Parser) {
	t.Helper()
	p := New(src, Options{})
	e := p.parseExpression(PrecedenceTop)
	if len(p.errors) != 0 {
		t.Fatalf("parseExpression(%q) produced errors: %v", src, p.errors)
	}
	return e, p
}

func TestBinaryPrecedenceTable(t *testing.T) {
	tests := []struct {
		src    string
		topOp  ast.BinaryOp
	}{
		{"a + b * c", ast.BinAdd},
		{"a * b + c", ast.BinAdd},
		{"a || b && c", ast.BinOr},
		{"a == b != c", ast.BinNeq},
		{"a & b | c", ast.BinBitOr},
		{"a << b + c", ast.BinShl},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, _ := parseExpr(t, tt.src)
			if e.Payload.Binary == nil || e.Payload.Binary.Op != tt.topOp {
				t.Fatalf("parseExpression(%q) top op = %+v, want %v", tt.src, e.Payload, tt.topOp)
			}
		})
	}
}

func TestExponentIsRightAssociative(t *testing.T) {
	// a ** b ** c parses as a ** (b ** c) — exponent is the one
	// right-associative binary operator below assignment.
	e, _ := parseExpr(t, "a ** b ** c")
	top := e.Payload.Binary
	if top == nil || top.Op != ast.BinExp {
		t.Fatalf("expected top-level BinExp, got %+v", e.Payload)
	}
	right := top.Right.Payload.Binary
	if right == nil || right.Op != ast.BinExp {
		t.Fatalf("expected right child to be BinExp, got %+v", top.Right.Payload)
	}
}

func TestPrefixUnaryOperators(t *testing.T) {
	tests := []struct {
		src string
		op  ast.UnaryOp
	}{
		{"-a", ast.UnaryMinus},
		{"+a", ast.UnaryPlus},
		{"!a", ast.UnaryNot},
		{"~a", ast.UnaryBitNot},
		{"++a", ast.UnaryPreInc},
		{"--a", ast.UnaryPreDec},
		{"delete a", ast.UnaryDelete},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, _ := parseExpr(t, tt.src)
			if e.Payload.Unary == nil || e.Payload.Unary.Op != tt.op || e.Payload.Unary.Postfix {
				t.Fatalf("parseExpression(%q) = %+v, want prefix %v", tt.src, e.Payload, tt.op)
			}
		})
	}
}

func TestPostfixIncDec(t *testing.T) {
	e, _ := parseExpr(t, "a++")
	u := e.Payload.Unary
	if u == nil || u.Op != ast.UnaryPostInc || !u.Postfix {
		t.Fatalf("parseExpression(\"a++\") = %+v, want postfix UnaryPostInc", e.Payload)
	}
}

func TestElementaryTypeAsExplicitConversion(t *testing.T) {
	// uint(x) parses as Call(ElementaryTypeExpression(uint), [x])
	e, _ := parseExpr(t, "uint(x)")
	call := e.Payload.Call
	if call == nil {
		t.Fatalf("expected CallExpression, got %+v", e.Payload)
	}
	if call.Callee.Payload.ElementaryType == nil {
		t.Fatalf("expected callee to be ElementaryTypeExpression, got %+v", call.Callee.Payload)
	}
	if call.Args.Len() != 1 {
		t.Fatalf("expected 1 argument, got %d", call.Args.Len())
	}
}

func TestNewExpression(t *testing.T) {
	e, _ := parseExpr(t, "new Foo")
	if e.Payload.New == nil {
		t.Fatalf("expected NewExpression, got %+v", e.Payload)
	}
}

func TestArrayLiteralReusesTupleExpression(t *testing.T) {
	e, _ := parseExpr(t, "[1, 2, 3]")
	tuple := e.Payload.Tuple
	if tuple == nil {
		t.Fatalf("expected TupleExpression, got %+v", e.Payload)
	}
	if tuple.Elements.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", tuple.Elements.Len())
	}
	for _, el := range tuple.Elements.Slice() {
		if el.Payload == nil {
			t.Fatalf("unexpected hole in array literal")
		}
	}
}

func TestSpanCoversWholeExpression(t *testing.T) {
	// invariant I1/I2: span start <= end and covers the full parsed text
	src := "a + b"
	e, p := parseExpr(t, src)
	if e.Start != 0 {
		t.Errorf("Start = %d, want 0", e.Start)
	}
	if e.End != len(src) {
		t.Errorf("End = %d, want %d", e.End, len(src))
	}
	if !p.isAtEnd() {
		t.Errorf("expected cursor at EOF after consuming the whole expression")
	}
}
