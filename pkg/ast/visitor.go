package ast

// Visitor is the interface for visiting the arena-resident AST produced by
// a parse. Each method receives the node's span (start, end) and its
// payload; returning true descends into the node's children, false skips
// them.
type Visitor interface {
	VisitSourceUnit(start, end int, node SourceUnit) bool
	VisitPragmaDirective(start, end int, node PragmaDirective) bool
	VisitImportDirective(start, end int, node ImportDirective) bool
	VisitContractDefinition(start, end int, node ContractDefinition) bool
	VisitStateVariableDeclaration(start, end int, node StateVariableDeclaration) bool
	VisitUsingForDeclaration(start, end int, node UsingForDeclaration) bool
	VisitStructDefinition(start, end int, node StructDefinition) bool
	VisitModifierDefinition(start, end int, node ModifierDefinition) bool
	VisitFunctionDefinition(start, end int, node FunctionDefinition) bool
	VisitEventDefinition(start, end int, node EventDefinition) bool
	VisitEnumDefinition(start, end int, node EnumDefinition) bool
	VisitStatement(start, end int, node Statement) bool
	VisitExpression(start, end int, node Expression) bool
}

// BaseVisitor implements Visitor with every hook returning true, so
// embedders only need to override the hooks they care about.
type BaseVisitor struct{}

func (BaseVisitor) VisitSourceUnit(int, int, SourceUnit) bool                           { return true }
func (BaseVisitor) VisitPragmaDirective(int, int, PragmaDirective) bool                 { return true }
func (BaseVisitor) VisitImportDirective(int, int, ImportDirective) bool                 { return true }
func (BaseVisitor) VisitContractDefinition(int, int, ContractDefinition) bool           { return true }
func (BaseVisitor) VisitStateVariableDeclaration(int, int, StateVariableDeclaration) bool { return true }
func (BaseVisitor) VisitUsingForDeclaration(int, int, UsingForDeclaration) bool         { return true }
func (BaseVisitor) VisitStructDefinition(int, int, StructDefinition) bool               { return true }
func (BaseVisitor) VisitModifierDefinition(int, int, ModifierDefinition) bool           { return true }
func (BaseVisitor) VisitFunctionDefinition(int, int, FunctionDefinition) bool           { return true }
func (BaseVisitor) VisitEventDefinition(int, int, EventDefinition) bool                 { return true }
func (BaseVisitor) VisitEnumDefinition(int, int, EnumDefinition) bool                   { return true }
func (BaseVisitor) VisitStatement(int, int, Statement) bool                             { return true }
func (BaseVisitor) VisitExpression(int, int, Expression) bool                           { return true }

// SimpleVisitor is a lighter-weight callback bag for callers that only
// care about a couple of node kinds (e.g. "find every Identifier"); unset
// fields are no-ops and always continue descending.
type SimpleVisitor struct {
	OnStatement  func(start, end int, node Statement)
	OnExpression func(start, end int, node Expression)
	OnFunction   func(start, end int, node FunctionDefinition)
	OnContract   func(start, end int, node ContractDefinition)
}

// Walk traverses a parsed source unit depth-first, pre-order, invoking v's
// hooks. It is the full-fidelity traversal entry point; see WalkSimple for
// the callback-bag shortcut.
func Walk(root Node[SourceUnit], v Visitor) {
	if !v.VisitSourceUnit(root.Start, root.End, root.Payload) {
		return
	}
	for _, tl := range root.Payload.Body.Slice() {
		walkTopLevel(tl, v)
	}
}

func walkTopLevel(n Node[TopLevel], v Visitor) {
	switch {
	case n.Payload.Contract != nil:
		walkContract(Node[ContractDefinition]{Start: n.Start, End: n.End, Payload: *n.Payload.Contract}, v)
	case n.Payload.Pragma != nil:
		p := *n.Payload.Pragma
		v.VisitPragmaDirective(n.Start, n.End, p)
	case n.Payload.Import != nil:
		i := *n.Payload.Import
		v.VisitImportDirective(n.Start, n.End, i)
	}
}

func walkContract(n Node[ContractDefinition], v Visitor) {
	if !v.VisitContractDefinition(n.Start, n.End, n.Payload) {
		return
	}
	for _, part := range n.Payload.Body.Slice() {
		walkContractPart(part, v)
	}
}

func walkContractPart(n Node[ContractPart], v Visitor) {
	switch {
	case n.Payload.StateVariable != nil:
		sv := *n.Payload.StateVariable
		if !v.VisitStateVariableDeclaration(n.Start, n.End, sv) {
			return
		}
		if sv.Init != nil {
			walkExpression(*sv.Init, v)
		}
	case n.Payload.UsingFor != nil:
		v.VisitUsingForDeclaration(n.Start, n.End, *n.Payload.UsingFor)
	case n.Payload.Struct != nil:
		v.VisitStructDefinition(n.Start, n.End, *n.Payload.Struct)
	case n.Payload.Modifier != nil:
		m := *n.Payload.Modifier
		if !v.VisitModifierDefinition(n.Start, n.End, m) {
			return
		}
		walkStatement(Node[Statement]{Start: m.Body.Start, End: m.Body.End, Payload: Statement{Block: &m.Body.Payload}}, v)
	case n.Payload.Function != nil:
		f := *n.Payload.Function
		if !v.VisitFunctionDefinition(n.Start, n.End, f) {
			return
		}
		if f.Block != nil {
			walkStatement(Node[Statement]{Start: f.Block.Start, End: f.Block.End, Payload: Statement{Block: &f.Block.Payload}}, v)
		}
	case n.Payload.Event != nil:
		v.VisitEventDefinition(n.Start, n.End, *n.Payload.Event)
	case n.Payload.Enum != nil:
		v.VisitEnumDefinition(n.Start, n.End, *n.Payload.Enum)
	}
}

func walkStatement(n Node[Statement], v Visitor) {
	if !v.VisitStatement(n.Start, n.End, n.Payload) {
		return
	}
	s := n.Payload
	switch {
	case s.Block != nil:
		for _, child := range s.Block.Body.Slice() {
			walkStatement(child, v)
		}
	case s.If != nil:
		walkExpression(s.If.Test, v)
		walkStatement(s.If.Consequent, v)
		if s.If.Alternate != nil {
			walkStatement(*s.If.Alternate, v)
		}
	case s.While != nil:
		walkExpression(s.While.Test, v)
		walkStatement(s.While.Body, v)
	case s.DoWhile != nil:
		walkStatement(s.DoWhile.Body, v)
		walkExpression(s.DoWhile.Test, v)
	case s.For != nil:
		if s.For.Init != nil {
			init := s.For.Init.Payload
			switch {
			case init.VariableDefinition != nil && init.VariableDefinition.Init != nil:
				walkExpression(*init.VariableDefinition.Init, v)
			case init.InferredDefinition != nil:
				walkExpression(init.InferredDefinition.Init, v)
			case init.Expression != nil:
				walkExpression(*init.Expression, v)
			}
		}
		if s.For.Test != nil {
			walkExpression(*s.For.Test, v)
		}
		if s.For.Update != nil {
			walkExpression(*s.For.Update, v)
		}
		walkStatement(s.For.Body, v)
	case s.Return != nil && s.Return.Value != nil:
		walkExpression(*s.Return.Value, v)
	case s.VariableDefinition != nil && s.VariableDefinition.Init != nil:
		walkExpression(*s.VariableDefinition.Init, v)
	case s.InferredDefinition != nil:
		walkExpression(s.InferredDefinition.Init, v)
	case s.Expression != nil:
		walkExpression(*s.Expression, v)
	}
}

func walkExpression(n Node[Expression], v Visitor) {
	if !v.VisitExpression(n.Start, n.End, n.Payload) {
		return
	}
	e := n.Payload
	switch {
	case e.Member != nil:
		walkExpression(e.Member.Object, v)
	case e.Index != nil:
		walkExpression(e.Index.Array, v)
		walkExpression(e.Index.Index, v)
	case e.Call != nil:
		walkExpression(e.Call.Callee, v)
		for _, arg := range e.Call.Args.Slice() {
			walkExpression(arg, v)
		}
	case e.Unary != nil:
		walkExpression(e.Unary.Operand, v)
	case e.Binary != nil:
		walkExpression(e.Binary.Left, v)
		walkExpression(e.Binary.Right, v)
	case e.Conditional != nil:
		walkExpression(e.Conditional.Test, v)
		walkExpression(e.Conditional.Consequent, v)
		walkExpression(e.Conditional.Alternate, v)
	case e.Tuple != nil:
		for _, el := range e.Tuple.Elements.Slice() {
			if el.Payload != nil {
				walkExpression(*el.Payload, v)
			}
		}
	}
}

// simpleAdapter implements Visitor by delegating the hooks SimpleVisitor
// actually set, always continuing descent.
type simpleAdapter struct {
	BaseVisitor
	sv SimpleVisitor
}

func (a simpleAdapter) VisitStatement(start, end int, node Statement) bool {
	if a.sv.OnStatement != nil {
		a.sv.OnStatement(start, end, node)
	}
	return true
}

func (a simpleAdapter) VisitExpression(start, end int, node Expression) bool {
	if a.sv.OnExpression != nil {
		a.sv.OnExpression(start, end, node)
	}
	return true
}

func (a simpleAdapter) VisitFunctionDefinition(start, end int, node FunctionDefinition) bool {
	if a.sv.OnFunction != nil {
		a.sv.OnFunction(start, end, node)
	}
	return true
}

func (a simpleAdapter) VisitContractDefinition(start, end int, node ContractDefinition) bool {
	if a.sv.OnContract != nil {
		a.sv.OnContract(start, end, node)
	}
	return true
}

// WalkSimple traverses a parsed source unit using a SimpleVisitor callback
// bag instead of a full Visitor implementation.
func WalkSimple(root Node[SourceUnit], sv SimpleVisitor) {
	Walk(root, simpleAdapter{sv: sv})
}
