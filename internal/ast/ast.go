// Package ast defines the abstract syntax tree produced by the parser
// (spec.md §3 "AST"). Expressions and statements are Go sum types modeled
// as interfaces with a private marker method, in the idiom the teacher's
// internal/ast package uses for its Expression/Statement hierarchy. Every
// node carries its source position for diagnostics; every Expr carries a
// nullable ResolvedType slot filled in by the semantic analyzer.
package ast

import (
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/internal/types"
)

// Node is implemented by every AST node.
type Node interface {
	Pos() token.Position
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
	Type() types.Type
	SetType(types.Type)
}

// Stmt is implemented by every statement node.
type Stmt interface {
	Node
	stmtNode()
}

// exprBase factors the position and resolved-type slot shared by every
// expression variant.
type exprBase struct {
	At           token.Position
	ResolvedType types.Type
}

func (e *exprBase) exprNode()            {}
func (e *exprBase) Pos() token.Position  { return e.At }
func (e *exprBase) Type() types.Type     { return e.ResolvedType }
func (e *exprBase) SetType(t types.Type) { e.ResolvedType = t }

type stmtBase struct {
	At token.Position
}

func (s *stmtBase) stmtNode()           {}
func (s *stmtBase) Pos() token.Position { return s.At }

// ---- Expressions ----

type IntLiteral struct {
	exprBase
	Value  int64
	Suffix token.NumSuffix
}

type FloatLiteral struct {
	exprBase
	Value  float64
	Suffix token.NumSuffix
}

type StringLiteral struct {
	exprBase
	Value string
}

type BoolLiteral struct {
	exprBase
	Value bool
}

type NullLiteral struct{ exprBase }

type Ident struct {
	exprBase
	Name string
}

// BinaryOp enumerates spec.md §3's binary operator set, excluding && / ||
// which are modeled as a distinct Logical node.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpEq
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

type Binary struct {
	exprBase
	Op          BinaryOp
	Left, Right Expr
}

type LogicalOp int

const (
	LogicalAnd LogicalOp = iota
	LogicalOr
)

type Logical struct {
	exprBase
	Op          LogicalOp
	Left, Right Expr
}

// UnaryOp enumerates spec.md §3's unary operator set: !, -, ~, &, *, and
// the four increment/decrement forms (distinguished by Prefix/Postfix).
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
	OpBitNot
	OpAddrOf
	OpDeref
	OpIncr
	OpDecr
)

type Unary struct {
	exprBase
	Op      UnaryOp
	Operand Expr
	Postfix bool // true for x++/x--, false for ++x/--x and all other unary ops
}

type Ternary struct {
	exprBase
	Cond, Then, Else Expr
}

type Assign struct {
	exprBase
	Target Expr
	Value  Expr
}

type Call struct {
	exprBase
	Callee Expr
	Args   []Expr
}

type Index struct {
	exprBase
	Base  Expr
	Index Expr
}

// Member covers both `.` and `->` access; Arrow distinguishes the two
// spellings (spec.md §3 "member-access (with dot/arrow flag)").
type Member struct {
	exprBase
	Base  Expr
	Name  string
	Arrow bool
}

type StructFieldInit struct {
	Name  string
	Value Expr
}

type StructLiteral struct {
	exprBase
	TypeName string
	Fields   []StructFieldInit
}

type ArrayLiteral struct {
	exprBase
	Elements []Expr
}

// Intrinsic covers the memory_* / inline_asm primary-level keyword forms
// (spec.md §4.3 "Intrinsic built-ins").
type IntrinsicKind int

const (
	IntrinsicReadMemory IntrinsicKind = iota
	IntrinsicWriteMemory
	IntrinsicMemoryCopy
	IntrinsicMemorySet
	IntrinsicMapMemory
	IntrinsicUnmapMemory
	IntrinsicInlineAsm
)

type Intrinsic struct {
	exprBase
	Kind     IntrinsicKind
	Args     []Expr
	AsmText  string // only populated for IntrinsicInlineAsm
}

// ---- Statements ----

type Visibility int

const (
	VisibilityDefault Visibility = iota
	VisibilityPublic
	VisibilityPrivate
)

type VarDecl struct {
	stmtBase
	Name        string
	DeclaredType types.Type // zero Type (Invalid) when no type is written; check-types fills in the inferred type
	Init        Expr       // nil if absent
	Const       bool
	Visibility  Visibility
}

type ExprStmt struct {
	stmtBase
	X Expr
}

type Return struct {
	stmtBase
	Value Expr // nil for bare `return;`
}

type If struct {
	stmtBase
	Cond Expr
	Then *Block
	Else *Block // nil if absent; else-if is represented as a Block containing a single If
}

type While struct {
	stmtBase
	Cond Expr
	Body *Block
}

type For struct {
	stmtBase
	Init   Stmt // nil if absent
	Cond   Expr // nil if absent
	Update Expr // nil if absent
	Body   *Block
}

type SwitchCase struct {
	Value Expr // nil marks the default case
	Body  *Block
}

type Switch struct {
	stmtBase
	Scrutinee Expr
	Cases     []SwitchCase
}

type Break struct{ stmtBase }
type Continue struct{ stmtBase }

type Block struct {
	stmtBase
	Stmts []Stmt
}

type StructField struct {
	Name  string
	Type  types.Type
	Const bool
}

type StructDecl struct {
	stmtBase
	Name   string
	Fields []StructField
}

type EnumMember struct {
	Name  string
	Value int64
}

type EnumDecl struct {
	stmtBase
	Name    string
	Members []EnumMember
}

// ModuleMember is either a *VarDecl or a *FuncDecl together with the
// visibility in effect when it was parsed.
type ModuleMember struct {
	Visibility Visibility
	Var        *VarDecl
	Func       *FuncDecl
}

type ModuleDecl struct {
	stmtBase
	Name    string
	Members []ModuleMember
}

type ImportKind int

const (
	ImportFull ImportKind = iota
	ImportAliased
	ImportSelective
)

type Import struct {
	stmtBase
	Kind    ImportKind
	Module  string
	Alias   string   // ImportAliased
	Names   []string // ImportSelective
}

// Param is a function or interrupt-handler formal parameter.
type Param struct {
	Name  string
	Type  types.Type
	Const bool
}

type FuncDecl struct {
	stmtBase
	Name           string
	Params         []Param
	ReturnType     types.Type // VoidType when no return type is written
	Body           *Block
	IsInterrupt    bool
	InterruptVector int
}

// Program is the root node: a parsed source file, bucketed per spec.md §3
// ("A program is a set of import statements, module declarations, struct
// declarations, enum declarations, global variable declarations, and
// function declarations"). Declaration order is preserved within each
// bucket; cross-bucket order carries no semantic meaning.
type Program struct {
	Imports   []*Import
	Modules   []*ModuleDecl
	Structs   []*StructDecl
	Enums     []*EnumDecl
	Globals   []*VarDecl
	Functions []*FuncDecl
}
