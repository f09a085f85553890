// Package ir implements the intermediate representation of spec.md §3
// "IR": a single tagged-union Instruction struct (opcode, destination,
// src1, src2, variable-length extra-args) rather than one Go type per
// opcode. This is a deliberate divergence from the interface-per-
// instruction shape common in the wider example pack (see DESIGN.md) —
// spec.md mandates the flat-struct shape so a backend can switch on a
// single Op field instead of a type hierarchy.
package ir

import (
	"fmt"
	"strings"

	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/types"
)

// OperandKind tags an Operand's variant (spec.md §3 "IR").
type OperandKind int

const (
	OperandNone OperandKind = iota
	OperandVReg
	OperandImmInt
	OperandImmFloat
	OperandImmString
	OperandSymbol
	OperandBlockLabel
	OperandASTExpr
)

// Operand is a tagged-union IR operand.
type Operand struct {
	Kind OperandKind

	VReg   int
	Type   types.Type
	IntVal int64
	FloatVal float64
	StrVal string

	// OperandSymbol: a named global or local.
	SymbolName string

	// OperandBlockLabel
	Block *BasicBlock

	// OperandASTExpr: carries a struct literal through to the backend.
	Expr ast.Expr
}

func (o Operand) String() string {
	switch o.Kind {
	case OperandNone:
		return "-"
	case OperandVReg:
		return fmt.Sprintf("%%%d", o.VReg)
	case OperandImmInt:
		return fmt.Sprintf("%d", o.IntVal)
	case OperandImmFloat:
		return fmt.Sprintf("%g", o.FloatVal)
	case OperandImmString:
		return fmt.Sprintf("%q", o.StrVal)
	case OperandSymbol:
		return o.SymbolName
	case OperandBlockLabel:
		if o.Block != nil {
			return o.Block.Name
		}
		return "<nil-block>"
	case OperandASTExpr:
		return "<ast-expr>"
	default:
		return "<?>"
	}
}

func VReg(id int, t types.Type) Operand        { return Operand{Kind: OperandVReg, VReg: id, Type: t} }
func ImmInt(v int64, t types.Type) Operand      { return Operand{Kind: OperandImmInt, IntVal: v, Type: t} }
func ImmFloat(v float64) Operand                { return Operand{Kind: OperandImmFloat, FloatVal: v, Type: types.FloatType} }
func ImmString(v string) Operand                { return Operand{Kind: OperandImmString, StrVal: v, Type: types.StringType} }
func Symbol(name string, t types.Type) Operand  { return Operand{Kind: OperandSymbol, SymbolName: name, Type: t} }
func Label(b *BasicBlock) Operand               { return Operand{Kind: OperandBlockLabel, Block: b} }
func ASTOperand(e ast.Expr) Operand             { return Operand{Kind: OperandASTExpr, Expr: e} }

// Op is an instruction opcode (spec.md §3 "IR").
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg

	OpAnd
	OpOr
	OpXor
	OpShl
	OpShr
	OpNot

	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe

	OpAlloca
	OpLoad
	OpStore
	OpAddrOf
	OpDeref
	OpMemberAccess

	OpLabel
	OpJump
	OpBranch
	OpCall
	OpRet
	OpSelect

	OpPhi

	// OpConst materializes an immediate or AST-carried operand (Src1) into
	// Dest without an address indirection — used for global-variable
	// static initializers and struct-literal values, where OpLoad's
	// "dereference an address" semantics don't apply.
	OpConst
)

var opNames = [...]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div", OpMod: "mod", OpNeg: "neg",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpShl: "shl", OpShr: "shr", OpNot: "not",
	OpEq: "eq", OpNe: "ne", OpLt: "lt", OpLe: "le", OpGt: "gt", OpGe: "ge",
	OpAlloca: "alloca", OpLoad: "load", OpStore: "store", OpAddrOf: "addr_of",
	OpDeref: "deref", OpMemberAccess: "member_access",
	OpLabel: "label", OpJump: "jump", OpBranch: "branch", OpCall: "call",
	OpRet: "ret", OpSelect: "select", OpPhi: "phi", OpConst: "const",
}

func (o Op) String() string {
	if int(o) >= 0 && int(o) < len(opNames) && opNames[o] != "" {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// Instruction is the single tagged-union instruction shape spec.md §3
// mandates: opcode, destination, two source operands, and a
// variable-length extra-args array used for call arguments and
// ternary's false-value.
type Instruction struct {
	Op         Op
	Dest       Operand
	Src1, Src2 Operand
	ExtraArgs  []Operand

	// CalleeName is populated for OpCall when the callee is a named
	// function (module-mangled if applicable); for calls through a
	// function pointer value it is empty and Src1 carries the callee value.
	CalleeName string
}

func (i Instruction) String() string {
	var sb strings.Builder
	if i.Dest.Kind != OperandNone {
		fmt.Fprintf(&sb, "%s = ", i.Dest)
	}
	fmt.Fprintf(&sb, "%s", i.Op)
	if i.Op == OpCall && i.CalleeName != "" {
		fmt.Fprintf(&sb, " %s", i.CalleeName)
	}
	if i.Src1.Kind != OperandNone {
		fmt.Fprintf(&sb, " %s", i.Src1)
	}
	if i.Src2.Kind != OperandNone {
		fmt.Fprintf(&sb, ", %s", i.Src2)
	}
	for _, a := range i.ExtraArgs {
		fmt.Fprintf(&sb, ", %s", a)
	}
	return sb.String()
}

// BasicBlock holds its instructions in order in a slice, plus explicit
// predecessor/successor edges and a sibling pointer to the next block.
type BasicBlock struct {
	Name  string
	Instr []Instruction

	Preds []*BasicBlock
	Succs []*BasicBlock

	Next *BasicBlock // sibling pointer: next block in creation order
}

func (b *BasicBlock) Emit(instr Instruction) {
	b.Instr = append(b.Instr, instr)
}

// AddEdge records a successor(current→target) / predecessor(target
// <-current) pair. Spec.md §9 models the CFG as two non-owning index
// lists, not as owning references — callers are responsible for never
// introducing a dangling edge.
func AddEdge(from, to *BasicBlock) {
	from.Succs = append(from.Succs, to)
	to.Preds = append(to.Preds, from)
}

// Function holds everything spec.md §3 names: name, return type,
// parameter operands, locals, the linked block list, the virtual-
// register counter, and the interrupt flag/vector.
type Function struct {
	Name       string
	ReturnType types.Type
	Params     []Operand
	Locals     []Operand

	Blocks    []*BasicBlock // creation order; Blocks[0] is the entry block
	NextVReg  int

	IsInterrupt     bool
	InterruptVector int
}

// NewBlock creates a block, names it with a counter-suffixed semantic
// hint, appends it to fn.Blocks, and links it as the sibling of the
// previously-last block.
func (fn *Function) NewBlock(hint string) *BasicBlock {
	b := &BasicBlock{Name: fmt.Sprintf("%s_%d", hint, len(fn.Blocks))}
	if n := len(fn.Blocks); n > 0 {
		fn.Blocks[n-1].Next = b
	}
	fn.Blocks = append(fn.Blocks, b)
	return b
}

// FreshVReg allocates the next virtual register of type t.
func (fn *Function) FreshVReg(t types.Type) Operand {
	id := fn.NextVReg
	fn.NextVReg++
	return VReg(id, t)
}

// GlobalVar is a module-level variable in the IR (spec.md §3 "linked
// global-variable list").
type GlobalVar struct {
	Name string
	Type types.Type
	Init *Instruction // optional initializer, rendered as a static initializer by the backend
}

// CompileMode mirrors spec.md §6's "hosted | freestanding".
type CompileMode int

const (
	Hosted CompileMode = iota
	Freestanding
)

func (m CompileMode) String() string {
	if m == Freestanding {
		return "freestanding"
	}
	return "hosted"
}

// TargetTriple mirrors spec.md §6: (arch, vendor, os, abi).
type TargetTriple struct {
	Arch   string
	Vendor string
	OS     string
	ABI    string
}

func (t TargetTriple) String() string {
	return fmt.Sprintf("%s-%s-%s-%s", t.Arch, t.Vendor, t.OS, t.ABI)
}

// Module is the root IR node: target triple, compile mode, and the
// function and global-variable lists, each kept in order in a slice
// (spec.md §3 "IR").
type Module struct {
	Target  TargetTriple
	Mode    CompileMode

	Functions []*Function
	Globals   []*GlobalVar
}

// String renders m through a single buffered-writer path — the only
// rendering path this package exposes, per the decision recorded in
// DESIGN.md against a second ad hoc stringification helper.
func (m *Module) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "; target %s, mode %s\n", m.Target, m.Mode)
	for _, g := range m.Globals {
		fmt.Fprintf(&sb, "global %s : %s\n", g.Name, g.Type)
	}
	for _, fn := range m.Functions {
		fmt.Fprintf(&sb, "\nfunction %s() -> %s", fn.Name, fn.ReturnType)
		if fn.IsInterrupt {
			fmt.Fprintf(&sb, " [interrupt vector=%d]", fn.InterruptVector)
		}
		sb.WriteString(" {\n")
		if len(fn.Blocks) > 0 {
			for b := fn.Blocks[0]; b != nil; b = b.Next {
				fmt.Fprintf(&sb, "%s:\n", b.Name)
				for _, instr := range b.Instr {
					fmt.Fprintf(&sb, "    %s\n", instr)
				}
			}
		}
		sb.WriteString("}\n")
	}
	return sb.String()
}
