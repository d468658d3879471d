package parser

import (
	"testing"

	"github.com/lunarity-lang/lunarity/pkg/ast"
)

func parseStmt(t *testing.T, ctx StatementContext, src string) (ast.Node[ast.Statement], *Parser) {
	t.Helper()
	p := New(src, Options{})
	s := p.statement(ctx)
	if len(p.errors) != 0 {
		t.Fatalf("statement(%q) produced errors: %v", src, p.errors)
	}
	return s, p
}

func TestPlaceholderOnlyInModifierContext(t *testing.T) {
	s, _ := parseStmt(t, ModifierContext(), "_;")
	if s.Payload.Placeholder == nil {
		t.Fatalf("expected Placeholder in ModifierContext, got %+v", s.Payload)
	}

	s, _ = parseStmt(t, FunctionContext(), "_;")
	if s.Payload.Expression == nil || s.Payload.Expression.Payload.Identifier == nil {
		t.Fatalf("expected plain identifier expression in FunctionContext, got %+v", s.Payload)
	}
}

func TestLoopContextPreservesPlaceholder(t *testing.T) {
	loop := ModifierContext().LoopContext()
	if !loop.AllowPlaceholder || !loop.AllowLoopBreak {
		t.Fatalf("ModifierContext().LoopContext() = %+v, want both flags set", loop)
	}

	funcLoop := FunctionContext().LoopContext()
	if funcLoop.AllowPlaceholder || !funcLoop.AllowLoopBreak {
		t.Fatalf("FunctionContext().LoopContext() = %+v, want only AllowLoopBreak set", funcLoop)
	}
}

func TestContinueBreakRequireLoopContext(t *testing.T) {
	p := New("break;", Options{})
	p.statement(FunctionContext())
	if len(p.errors) == 0 {
		t.Fatal("expected an error parsing break outside a loop context")
	}

	s, _ := parseStmt(t, FunctionContext().LoopContext(), "break;")
	if s.Payload.Break == nil {
		t.Fatalf("expected Break statement, got %+v", s.Payload)
	}
}

func TestIfElseChain(t *testing.T) {
	s, _ := parseStmt(t, FunctionContext(), "if (a) b; else if (c) d; else e;")
	ifs := s.Payload.If
	if ifs == nil {
		t.Fatal("expected IfStatement")
	}
	if ifs.Alternate == nil || ifs.Alternate.Payload.If == nil {
		t.Fatalf("expected alternate to be another IfStatement, got %+v", ifs.Alternate)
	}
}

func TestDoWhileStatement(t *testing.T) {
	s, _ := parseStmt(t, FunctionContext(), "do { a; } while (b);")
	dw := s.Payload.DoWhile
	if dw == nil {
		t.Fatal("expected DoWhileStatement")
	}
	if dw.Test.Payload.Identifier == nil || dw.Test.Payload.Identifier.Name != "b" {
		t.Fatalf("expected test to be identifier b, got %+v", dw.Test.Payload)
	}
}

func TestReturnWithAndWithoutValue(t *testing.T) {
	s, _ := parseStmt(t, FunctionContext(), "return;")
	if s.Payload.Return == nil || s.Payload.Return.Value != nil {
		t.Fatalf("expected bare return, got %+v", s.Payload)
	}

	s, _ = parseStmt(t, FunctionContext(), "return a;")
	if s.Payload.Return == nil || s.Payload.Return.Value == nil {
		t.Fatalf("expected return with value, got %+v", s.Payload)
	}
}

func TestThrowStatement(t *testing.T) {
	s, _ := parseStmt(t, FunctionContext(), "throw;")
	if s.Payload.Throw == nil {
		t.Fatalf("expected ThrowStatement, got %+v", s.Payload)
	}
}

func TestInlineAssemblyOpaqueBlock(t *testing.T) {
	s, _ := parseStmt(t, FunctionContext(), `assembly "evmasm" { mstore(0, add(1, { 2 })) }`)
	asm := s.Payload.InlineAssembly
	if asm == nil {
		t.Fatal("expected InlineAssemblyStatement")
	}
	if asm.Dialect == nil || asm.Dialect.Payload != "evmasm" {
		t.Fatalf("expected dialect \"evmasm\", got %+v", asm.Dialect)
	}
}

func TestInferredDefinitionWithHoles(t *testing.T) {
	s, _ := parseStmt(t, FunctionContext(), "var (a,,c) = (1,2,3);")
	def := s.Payload.InferredDefinition
	if def == nil {
		t.Fatal("expected InferredDefinitionStatement")
	}
	ids := def.Ids.Slice()
	if len(ids) != 3 {
		t.Fatalf("expected 3 id slots, got %d", len(ids))
	}
	if ids[0].Payload == nil || ids[0].Payload.Payload != "a" {
		t.Fatalf("expected ids[0] = \"a\", got %+v", ids[0])
	}
	if ids[1].Payload != nil {
		t.Fatalf("expected ids[1] to be a hole, got %+v", ids[1])
	}
	if ids[2].Payload == nil || ids[2].Payload.Payload != "c" {
		t.Fatalf("expected ids[2] = \"c\", got %+v", ids[2])
	}
}

func TestVariableDefinitionWithInit(t *testing.T) {
	s, _ := parseStmt(t, FunctionContext(), "uint256 x = 5;")
	def := s.Payload.VariableDefinition
	if def == nil {
		t.Fatalf("expected VariableDefinitionStatement, got %+v", s.Payload)
	}
	if def.Declaration.Payload.Name.Payload != "x" {
		t.Fatalf("expected declared name x, got %+v", def.Declaration.Payload.Name)
	}
	if def.Init == nil {
		t.Fatal("expected an initializer")
	}
}

func TestForLoopInitIsSimpleStatementOnly(t *testing.T) {
	// the for-loop initializer grammar must never admit control flow
	p := New("for (if (a) b; ; ) { }", Options{})
	p.statement(FunctionContext())
	if len(p.errors) == 0 {
		t.Fatal("expected an error: 'if' is not a legal for-loop initializer")
	}
}
