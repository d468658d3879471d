// Package ast defines the arena-resident AST produced by a lunarity parse:
// an Arena (arena.go) holding Node[T]/NodeList[T] values whose payload
// types are declared below, plus a Visitor for walking them (visitor.go).
package ast

// Position is a line/column location derived on demand from a byte offset
// and the arena's source text — it is never stored on a Node, only computed
// for diagnostics (CLI output, JSON with --loc/--range) so that Node[T]
// stays the plain (start, end, payload) triple the data model calls for.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// PositionAt walks source up to offset counting newlines. Offsets must be
// within [0, len(source)].
func PositionAt(source string, offset int) Position {
	line, col := 1, 0
	for i := 0; i < offset && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return Position{Line: line, Column: col}
}

// ---- Source unit -----------------------------------------------------

// SourceUnit is the root of a parse: an ordered list of top-level
// declarations.
type SourceUnit struct {
	Body NodeList[TopLevel]
}

// TopLevel is the payload family for a source-unit member: exactly one of
// Contract, Pragma, or Import is non-nil.
type TopLevel struct {
	Contract *ContractDefinition `json:"contract,omitempty"`
	Pragma   *PragmaDirective    `json:"pragma,omitempty"`
	Import   *ImportDirective    `json:"import,omitempty"`
}

// PragmaDirective is `pragma lunarity <constraint>;`.
type PragmaDirective struct {
	Name  Node[string] `json:"name"`
	Value Node[string] `json:"value"`
}

// ImportDirective is `import "path" [as alias];`.
type ImportDirective struct {
	Path  Node[string]  `json:"path"`
	Alias *Node[string] `json:"alias,omitempty"`
}

// ContractDefinition is `contract Name is Base, ... { parts }`.
type ContractDefinition struct {
	Name     Node[string]           `json:"name"`
	Inherits NodeList[string]       `json:"inherits"`
	Body     NodeList[ContractPart] `json:"body"`
}

// ---- Contract parts ----------------------------------------------------

// ContractPart is the payload family for one member of a contract body.
type ContractPart struct {
	StateVariable *StateVariableDeclaration `json:"stateVariable,omitempty"`
	UsingFor      *UsingForDeclaration      `json:"usingFor,omitempty"`
	Struct        *StructDefinition         `json:"struct,omitempty"`
	Modifier      *ModifierDefinition       `json:"modifier,omitempty"`
	Function      *FunctionDefinition       `json:"function,omitempty"`
	Event         *EventDefinition          `json:"event,omitempty"`
	Enum          *EnumDefinition           `json:"enum,omitempty"`
}

// Visibility is a state-variable or function visibility flag.
type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityPublic
	VisibilityInternal
	VisibilityPrivate
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityInternal:
		return "internal"
	case VisibilityPrivate:
		return "private"
	default:
		return ""
	}
}

// Flag is a unit-valued marker payload: its presence is the only
// information carried (e.g. `constant`, `anonymous`, `indexed`).
type Flag struct{}

// StateVariableDeclaration is `Type [visibility] [constant] name [= init];`.
type StateVariableDeclaration struct {
	TypeName   Node[TypeName]    `json:"typeName"`
	Visibility Visibility        `json:"visibility"`
	Constant   *Node[Flag]       `json:"constant,omitempty"`
	Name       Node[string]      `json:"name"`
	Init       *Node[Expression] `json:"init,omitempty"`
}

// UsingForDeclaration is `using Lib for (Type|*);`.
type UsingForDeclaration struct {
	LibraryName Node[string]    `json:"libraryName"`
	TypeName    *Node[TypeName] `json:"typeName,omitempty"` // nil means wildcard `*`
}

// StructDefinition is `struct Name { field; field; ... }`, with at least
// one field (invariant I5).
type StructDefinition struct {
	Name Node[string]                  `json:"name"`
	Body NodeList[VariableDeclaration] `json:"body"`
}

// EnumDefinition is `enum Name { A, B, ... }`.
type EnumDefinition struct {
	Name    Node[string]     `json:"name"`
	Members NodeList[string] `json:"members"`
}

// IndexedParameter is one parameter of an event: a type, an optional
// `indexed` flag, and an optional name.
type IndexedParameter struct {
	TypeName Node[TypeName] `json:"typeName"`
	Indexed  *Node[Flag]    `json:"indexed,omitempty"`
	Name     *Node[string]  `json:"name,omitempty"`
}

// EventDefinition is `event Name(params...) [anonymous];`.
type EventDefinition struct {
	Name      Node[string]               `json:"name"`
	Params    NodeList[IndexedParameter] `json:"params"`
	Anonymous *Node[Flag]                `json:"anonymous,omitempty"`
}

// ModifierDefinition is `modifier name(params...)? { body }`.
type ModifierDefinition struct {
	Name   Node[string]        `json:"name"`
	Params NodeList[Parameter] `json:"params"`
	Body   Node[Block]         `json:"body"`
}

// FunctionDefinition is `function name(params) visibility? mutability?
// modifiers* returns(...)? { body }`.
type FunctionDefinition struct {
	Name       *Node[string]                `json:"name,omitempty"`
	Params     NodeList[Parameter]          `json:"params"`
	Visibility *Visibility                  `json:"visibility,omitempty"`
	Mutability *Node[string]                `json:"mutability,omitempty"`
	Modifiers  NodeList[ModifierInvocation] `json:"modifiers"`
	Returns    NodeList[Parameter]          `json:"returns"`
	Block      *Node[Block]                 `json:"block,omitempty"` // nil for `function f() external;` declarations
}

// ModifierInvocation is a modifier name with an optional argument list, as
// it appears attached to a function definition.
type ModifierInvocation struct {
	Name NodeList[string]     `json:"name"` // dotted path, e.g. Lib.mod
	Args NodeList[Expression] `json:"args"`
}

// ---- Types --------------------------------------------------------------

// ElementaryKind enumerates the built-in elementary type names.
type ElementaryKind int

const (
	ElementaryBool ElementaryKind = iota
	ElementaryInt                 // bytes: 1..32, 0 means unspecified ("int")
	ElementaryUint
	ElementaryByte // bytesN with N in Bytes field (byte is 1); dynamic bytes has Bytes 0
	ElementaryAddress
	ElementaryString
	ElementaryFixed
	ElementaryUfixed
)

// ElementaryTypeName is a built-in type, optionally sized.
type ElementaryTypeName struct {
	Kind  ElementaryKind `json:"kind"`
	Bytes int            `json:"bytes,omitempty"` // size in bytes for Int/Uint/Byte
	M     int            `json:"m,omitempty"`     // fixed/ufixed digit counts
	N     int            `json:"n,omitempty"`
}

// UserDefinedTypeName is a (possibly dotted) identifier used as a type.
type UserDefinedTypeName struct {
	Path NodeList[string] `json:"path"`
}

// Mapping is `mapping(Key => Value)`.
type Mapping struct {
	Key   Node[TypeName] `json:"key"`
	Value Node[TypeName] `json:"value"`
}

// ArrayTypeName is `Base[]` (dynamic, Length nil) or `Base[n]` (fixed).
type ArrayTypeName struct {
	Base   Node[TypeName]    `json:"base"`
	Length *Node[Expression] `json:"length,omitempty"`
}

// TypeName is the payload family for a parsed type; exactly one field is
// non-nil.
type TypeName struct {
	Elementary  *ElementaryTypeName  `json:"elementary,omitempty"`
	UserDefined *UserDefinedTypeName `json:"userDefined,omitempty"`
	Mapping     *Mapping             `json:"mapping,omitempty"`
	Array       *ArrayTypeName       `json:"array,omitempty"`
}

// StorageLocation is an optional `memory`/`storage`/`calldata` annotation.
type StorageLocation int

const (
	StorageLocationNone StorageLocation = iota
	StorageLocationMemory
	StorageLocationStorage
	StorageLocationCalldata
)

// VariableDeclaration is `Type [location] name`.
type VariableDeclaration struct {
	TypeName Node[TypeName]  `json:"typeName"`
	Location StorageLocation `json:"location"`
	Name     Node[string]    `json:"name"`
}

// Parameter is a function/modifier/event parameter: a type, optional
// storage location, and optional name (unnamed params are legal in
// function-type and declaration-only signatures).
type Parameter struct {
	TypeName Node[TypeName]  `json:"typeName"`
	Location StorageLocation `json:"location"`
	Name     *Node[string]   `json:"name,omitempty"`
}

// ---- Statements -----------------------------------------------------

// Block is `{ statement* }`.
type Block struct {
	Body NodeList[Statement] `json:"body"`
}

// Statement is the payload family for every statement form in §4.3.
type Statement struct {
	Block              *Block                       `json:"block,omitempty"`
	If                 *IfStatement                 `json:"if,omitempty"`
	While              *WhileStatement              `json:"while,omitempty"`
	For                *ForStatement                `json:"for,omitempty"`
	DoWhile            *DoWhileStatement            `json:"doWhile,omitempty"`
	Return             *ReturnStatement             `json:"return,omitempty"`
	Throw              *ThrowStatement              `json:"throw,omitempty"`
	Continue           *Flag                        `json:"continue,omitempty"`
	Break              *Flag                        `json:"break,omitempty"`
	Placeholder        *Flag                        `json:"placeholder,omitempty"`
	InlineAssembly     *InlineAssemblyStatement     `json:"inlineAssembly,omitempty"`
	VariableDefinition *VariableDefinitionStatement `json:"variableDefinition,omitempty"`
	InferredDefinition *InferredDefinitionStatement `json:"inferredDefinition,omitempty"`
	Expression         *Node[Expression]            `json:"expression,omitempty"`
}

// SimpleStatement is the restricted statement family legal as a for-loop
// initializer: a variable definition, an inferred definition, or a bare
// expression statement — never control flow.
type SimpleStatement struct {
	VariableDefinition *VariableDefinitionStatement `json:"variableDefinition,omitempty"`
	InferredDefinition *InferredDefinitionStatement `json:"inferredDefinition,omitempty"`
	Expression         *Node[Expression]            `json:"expression,omitempty"`
}

// IfStatement is `if (test) consequent [else alternate]`.
type IfStatement struct {
	Test       Node[Expression] `json:"test"`
	Consequent Node[Statement]  `json:"consequent"`
	Alternate  *Node[Statement] `json:"alternate,omitempty"`
}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	Test Node[Expression] `json:"test"`
	Body Node[Statement]  `json:"body"`
}

// ForStatement is `for (init?; test?; update?) body`.
type ForStatement struct {
	Init   *Node[SimpleStatement] `json:"init,omitempty"`
	Test   *Node[Expression]      `json:"test,omitempty"`
	Update *Node[Expression]      `json:"update,omitempty"`
	Body   Node[Statement]        `json:"body"`
}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	Body Node[Statement]  `json:"body"`
	Test Node[Expression] `json:"test"`
}

// ReturnStatement is `return [expression];`.
type ReturnStatement struct {
	Value *Node[Expression] `json:"value,omitempty"`
}

// ThrowStatement is `throw;`.
type ThrowStatement struct{}

// InlineAssemblyStatement is `assembly ["..."] { ... }`; only the outer
// framing is modeled — the contents are opaque token soup (§9).
type InlineAssemblyStatement struct {
	Dialect *Node[string] `json:"dialect,omitempty"`
	Block   Node[Block]   `json:"block"`
}

// VariableDefinitionStatement is `Type [location] name [= init];`.
type VariableDefinitionStatement struct {
	Declaration Node[VariableDeclaration] `json:"declaration"`
	Init        *Node[Expression]         `json:"init,omitempty"`
}

// InferredDefinitionStatement is `var (id?, id?, ...) = init;` or
// `var id = init;`; Ids holes (nil entries) support tuple destructuring.
type InferredDefinitionStatement struct {
	Ids  NodeList[*Node[string]] `json:"ids"`
	Init Node[Expression]        `json:"init"`
}

// ---- Expressions -----------------------------------------------------

// UnaryOp enumerates prefix/postfix operator kinds.
type UnaryOp int

const (
	UnaryPlus UnaryOp = iota
	UnaryMinus
	UnaryNot
	UnaryBitNot
	UnaryPreInc
	UnaryPreDec
	UnaryPostInc
	UnaryPostDec
	UnaryDelete
)

// BinaryOp enumerates infix binary/assignment operator kinds.
type BinaryOp int

const (
	BinExp BinaryOp = iota
	BinMul
	BinDiv
	BinMod
	BinAdd
	BinSub
	BinShl
	BinShr
	BinBitAnd
	BinBitXor
	BinBitOr
	BinLt
	BinLte
	BinGt
	BinGte
	BinEq
	BinNeq
	BinAnd
	BinOr
	BinAssign
	BinAssignAdd
	BinAssignSub
	BinAssignMul
	BinAssignDiv
	BinAssignMod
	BinAssignShl
	BinAssignShr
	BinAssignAnd
	BinAssignXor
	BinAssignOr
)

// LiteralKind tags a Primitive expression's literal flavor.
type LiteralKind int

const (
	LiteralBool LiteralKind = iota
	LiteralNumber
	LiteralHex
	LiteralString
	LiteralHexString
)

// Primitive is a literal expression.
type Primitive struct {
	Kind  LiteralKind `json:"kind"`
	Value string      `json:"value"`
}

// Identifier is a bare name used as an expression.
type Identifier struct {
	Name string `json:"name"`
}

// MemberExpression is `object.property`.
type MemberExpression struct {
	Object   Node[Expression] `json:"object"`
	Property Node[string]     `json:"property"`
}

// IndexExpression is `array[index]`.
type IndexExpression struct {
	Array Node[Expression] `json:"array"`
	Index Node[Expression] `json:"index"`
}

// CallExpression is `callee(args...)`.
type CallExpression struct {
	Callee Node[Expression]     `json:"callee"`
	Args   NodeList[Expression] `json:"args"`
}

// UnaryExpression covers all prefix and postfix unary forms.
type UnaryExpression struct {
	Op      UnaryOp          `json:"op"`
	Operand Node[Expression] `json:"operand"`
	Postfix bool             `json:"postfix"`
}

// BinaryExpression covers every left- and right-associative infix
// operator, including assignment (invariant I4).
type BinaryExpression struct {
	Op    BinaryOp         `json:"op"`
	Left  Node[Expression] `json:"left"`
	Right Node[Expression] `json:"right"`
}

// ConditionalExpression is the ternary `test ? consequent : alternate`.
type ConditionalExpression struct {
	Test       Node[Expression] `json:"test"`
	Consequent Node[Expression] `json:"consequent"`
	Alternate  Node[Expression] `json:"alternate"`
}

// TupleExpression is `(e1, e2, ...)`; elements may be absent (`(a,,c)`) in
// destructuring-pattern position.
type TupleExpression struct {
	Elements NodeList[*Node[Expression]] `json:"elements"`
}

// NewExpression is `new TypeName`.
type NewExpression struct {
	TypeName Node[TypeName] `json:"typeName"`
}

// ElementaryTypeExpression lets an elementary type name itself be used as
// an expression head (e.g. `uint(x)` as an explicit conversion call).
type ElementaryTypeExpression struct {
	TypeName ElementaryTypeName `json:"typeName"`
}

// Expression is the payload family for every expression form in §4.4.
type Expression struct {
	Primitive      *Primitive                `json:"primitive,omitempty"`
	Identifier     *Identifier               `json:"identifier,omitempty"`
	Member         *MemberExpression         `json:"member,omitempty"`
	Index          *IndexExpression          `json:"index,omitempty"`
	Call           *CallExpression           `json:"call,omitempty"`
	Unary          *UnaryExpression          `json:"unary,omitempty"`
	Binary         *BinaryExpression         `json:"binary,omitempty"`
	Conditional    *ConditionalExpression    `json:"conditional,omitempty"`
	Tuple          *TupleExpression          `json:"tuple,omitempty"`
	New            *NewExpression            `json:"new,omitempty"`
	ElementaryType *ElementaryTypeExpression `json:"elementaryType,omitempty"`
}
