package irgen

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/ir"
	"github.com/huayulang/huac/internal/scope"
	"github.com/huayulang/huac/internal/types"
)

// literalOperand folds a literal expression node directly to an immediate
// Operand, with no instruction emitted. Returns ok=false for anything that
// isn't a literal.
func literalOperand(e ast.Expr) (ir.Operand, bool) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return ir.ImmInt(n.Value, types.IntType), true
	case *ast.FloatLiteral:
		return ir.ImmFloat(n.Value), true
	case *ast.StringLiteral:
		return ir.ImmString(n.Value), true
	case *ast.BoolLiteral:
		v := int64(0)
		if n.Value {
			v = 1
		}
		return ir.ImmInt(v, types.BoolType), true
	case *ast.NullLiteral:
		return ir.Operand{Kind: ir.OperandImmInt, IntVal: 0, Type: n.Type()}, true
	}
	return ir.Operand{}, false
}

func (g *gen) lowerExpr(e ast.Expr) ir.Operand {
	if lit, ok := literalOperand(e); ok {
		return lit
	}
	switch n := e.(type) {
	case *ast.Ident:
		return g.lowerIdent(n)
	case *ast.Binary:
		return g.lowerBinary(n)
	case *ast.Logical:
		return g.lowerLogical(n)
	case *ast.Unary:
		return g.lowerUnary(n)
	case *ast.Ternary:
		return g.lowerTernary(n)
	case *ast.Assign:
		return g.lowerAssign(n)
	case *ast.Call:
		return g.lowerCall(n)
	case *ast.Index:
		return g.lowerIndex(n)
	case *ast.Member:
		return g.lowerMember(n)
	case *ast.StructLiteral:
		return g.lowerStructLiteral(n)
	case *ast.ArrayLiteral:
		return g.lowerArrayLiteral(n)
	case *ast.Intrinsic:
		return g.lowerIntrinsic(n)
	}
	return ir.Operand{}
}

// lowerIdent implements spec.md §4.5's identifier rule: an enum member
// folds to its immediate value, a module-scope symbol loads through its
// mangled name, everything else loads from its local/global address.
func (g *gen) lowerIdent(n *ast.Ident) ir.Operand {
	// Locals (params and block-scoped var-decls) are looked up on the
	// locals stack, which holds their ALLOCA addresses. Block-scoped
	// var-decls never appear in lexScope, and a param's lexScope symbol
	// carries no address, so the stack must be checked before falling
	// back to scope resolution.
	if addr, ok := g.resolveLocalAddr(n.Name); ok {
		elemType := types.Type{}
		if addr.Type.Elem != nil {
			elemType = *addr.Type.Elem
		}
		dest := g.fn.FreshVReg(elemType)
		g.emit(ir.Instruction{Op: ir.OpLoad, Dest: dest, Src1: addr})
		return dest
	}

	sym, ok := g.lexScope.Resolve(n.Name)
	if !ok {
		return ir.Operand{}
	}
	if sym.Kind == scope.EnumMemberSym {
		return ir.ImmInt(sym.EnumValue, sym.Type)
	}
	dest := g.fn.FreshVReg(sym.Type)
	g.emit(ir.Instruction{Op: ir.OpLoad, Dest: dest, Src1: ir.Symbol(mangledName(sym), sym.Type)})
	return dest
}

// lvalueAddr computes the address operand for an `&`-able lvalue. Semantic
// analysis already restricts `&` to plain identifiers, so this only needs
// to resolve Ident.
func (g *gen) lvalueAddr(e ast.Expr) ir.Operand {
	id, ok := e.(*ast.Ident)
	if !ok {
		return ir.Operand{}
	}
	if addr, ok := g.resolveLocalAddr(id.Name); ok {
		return addr
	}
	sym, ok := g.lexScope.Resolve(id.Name)
	if !ok {
		return ir.Operand{}
	}
	return ir.Symbol(mangledName(sym), sym.Type)
}

func (g *gen) lowerBinary(n *ast.Binary) ir.Operand {
	if n.Op == ast.OpAdd && n.Type().Kind == types.String {
		return g.lowerStringConcat(n)
	}
	l := g.lowerExpr(n.Left)
	r := g.lowerExpr(n.Right)
	dest := g.fn.FreshVReg(n.Type())
	g.emit(ir.Instruction{Op: binaryOp(n.Op), Dest: dest, Src1: l, Src2: r})
	return dest
}

func binaryOp(op ast.BinaryOp) ir.Op {
	switch op {
	case ast.OpAdd:
		return ir.OpAdd
	case ast.OpSub:
		return ir.OpSub
	case ast.OpMul:
		return ir.OpMul
	case ast.OpDiv:
		return ir.OpDiv
	case ast.OpMod:
		return ir.OpMod
	case ast.OpEq:
		return ir.OpEq
	case ast.OpNe:
		return ir.OpNe
	case ast.OpLt:
		return ir.OpLt
	case ast.OpGt:
		return ir.OpGt
	case ast.OpLe:
		return ir.OpLe
	case ast.OpGe:
		return ir.OpGe
	case ast.OpBitAnd:
		return ir.OpAnd
	case ast.OpBitOr:
		return ir.OpOr
	case ast.OpBitXor:
		return ir.OpXor
	case ast.OpShl:
		return ir.OpShl
	case ast.OpShr:
		return ir.OpShr
	}
	return ir.OpAdd
}

// lowerStringConcat emits the type-appropriate conversion calls for
// non-string operands, then runtime.string_concat (spec.md §4.5).
func (g *gen) lowerStringConcat(n *ast.Binary) ir.Operand {
	l := g.toStringOperand(n.Left)
	r := g.toStringOperand(n.Right)
	dest := g.fn.FreshVReg(types.StringType)
	g.emit(ir.Instruction{Op: ir.OpCall, Dest: dest, CalleeName: "runtime.string_concat", ExtraArgs: []ir.Operand{l, r}})
	return dest
}

func (g *gen) toStringOperand(e ast.Expr) ir.Operand {
	v := g.lowerExpr(e)
	if e.Type().Kind == types.String {
		return v
	}
	dest := g.fn.FreshVReg(types.StringType)
	g.emit(ir.Instruction{Op: ir.OpCall, Dest: dest, CalleeName: conversionCalleeFor(e.Type()), ExtraArgs: []ir.Operand{v}})
	return dest
}

func conversionCalleeFor(t types.Type) string {
	switch t.Kind {
	case types.Float:
		return "runtime.float_to_string"
	case types.Bool:
		return "runtime.bool_to_string"
	default:
		return "runtime.int_to_string"
	}
}

// lowerLogical implements short-circuit &&/|| via two fresh blocks
// (rhs-eval and merge) and a conditional branch on the left operand
// (spec.md §4.5). && branches to rhs-eval when the left is true, else
// jumps straight to merge with the left value; || is the mirror image.
func (g *gen) lowerLogical(n *ast.Logical) ir.Operand {
	l := g.lowerExpr(n.Left)
	resultAddr := g.fn.FreshVReg(types.PointerTo(types.BoolType))
	g.emit(ir.Instruction{Op: ir.OpAlloca, Dest: resultAddr})
	g.emit(ir.Instruction{Op: ir.OpStore, Src1: resultAddr, Src2: l})

	rhsBlk := g.newBlock("logical_rhs")
	mergeBlk := g.newBlock("logical_merge")

	trueTarget, falseTarget := rhsBlk, mergeBlk
	if n.Op == ast.LogicalOr {
		trueTarget, falseTarget = mergeBlk, rhsBlk
	}
	g.emit(ir.Instruction{Op: ir.OpBranch, Src1: l, Src2: ir.Label(trueTarget), ExtraArgs: []ir.Operand{ir.Label(falseTarget)}})
	ir.AddEdge(g.block, trueTarget)
	ir.AddEdge(g.block, falseTarget)

	g.block = rhsBlk
	r := g.lowerExpr(n.Right)
	g.emit(ir.Instruction{Op: ir.OpStore, Src1: resultAddr, Src2: r})
	g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(mergeBlk)})
	ir.AddEdge(g.block, mergeBlk)

	g.block = mergeBlk
	dest := g.fn.FreshVReg(types.BoolType)
	g.emit(ir.Instruction{Op: ir.OpLoad, Dest: dest, Src1: resultAddr})
	return dest
}

func (g *gen) lowerUnary(n *ast.Unary) ir.Operand {
	switch n.Op {
	case ast.OpIncr, ast.OpDecr:
		return g.lowerIncrDecr(n)
	case ast.OpAddrOf:
		return g.lvalueAddr(n.Operand)
	case ast.OpDeref:
		v := g.lowerExpr(n.Operand)
		dest := g.fn.FreshVReg(n.Type())
		g.emit(ir.Instruction{Op: ir.OpDeref, Dest: dest, Src1: v})
		return dest
	}
	v := g.lowerExpr(n.Operand)
	dest := g.fn.FreshVReg(n.Type())
	op := ir.OpNeg
	switch n.Op {
	case ast.OpNot, ast.OpBitNot:
		op = ir.OpNot
	}
	g.emit(ir.Instruction{Op: op, Dest: dest, Src1: v})
	return dest
}

// lowerIncrDecr: prefix forms return the post-update value, postfix forms
// return the pre-update value. Each emits the arithmetic instruction
// followed by a STORE to the operand's address (spec.md §4.5).
func (g *gen) lowerIncrDecr(n *ast.Unary) ir.Operand {
	addr := g.lvalueAddr(n.Operand)
	t := n.Operand.Type()

	old := g.fn.FreshVReg(t)
	g.emit(ir.Instruction{Op: ir.OpLoad, Dest: old, Src1: addr})

	op := ir.OpAdd
	if n.Op == ast.OpDecr {
		op = ir.OpSub
	}
	updated := g.fn.FreshVReg(t)
	g.emit(ir.Instruction{Op: op, Dest: updated, Src1: old, Src2: ir.ImmInt(1, t)})
	g.emit(ir.Instruction{Op: ir.OpStore, Src1: addr, Src2: updated})

	if n.Postfix {
		return old
	}
	return updated
}

// lowerTernary emits a single SELECT instruction: Src1 is the condition,
// Src2 the true value, ExtraArgs[0] the false value (spec.md §4.5).
func (g *gen) lowerTernary(n *ast.Ternary) ir.Operand {
	cond := g.lowerExpr(n.Cond)
	thenVal := g.lowerExpr(n.Then)
	elseVal := g.lowerExpr(n.Else)
	dest := g.fn.FreshVReg(n.Type())
	g.emit(ir.Instruction{Op: ir.OpSelect, Dest: dest, Src1: cond, Src2: thenVal, ExtraArgs: []ir.Operand{elseVal}})
	return dest
}

// lowerAssign implements spec.md §4.5's three assignment-target forms:
// ident targets STORE directly, index targets call
// runtime.array_set_element, member targets fold the base address and
// STORE (field name carried in ExtraArgs[0]).
func (g *gen) lowerAssign(n *ast.Assign) ir.Operand {
	val := g.lowerExpr(n.Value)
	switch t := n.Target.(type) {
	case *ast.Ident:
		g.emit(ir.Instruction{Op: ir.OpStore, Src1: g.lvalueAddr(t), Src2: val})
	case *ast.Unary: // *p = v
		addr := g.lowerExpr(t.Operand)
		g.emit(ir.Instruction{Op: ir.OpStore, Src1: addr, Src2: val})
	case *ast.Index:
		base := g.lowerExpr(t.Base)
		idx := g.lowerExpr(t.Index)
		elemSize := ir.ImmInt(typeSize(t.Type()), types.IntType)
		g.emit(ir.Instruction{Op: ir.OpCall, CalleeName: "runtime.array_set_element", ExtraArgs: []ir.Operand{base, idx, val, elemSize}})
	case *ast.Member:
		base := g.memberBaseAddr(t)
		g.emit(ir.Instruction{Op: ir.OpStore, Src1: base, Src2: val, ExtraArgs: []ir.Operand{ir.Symbol(t.Name, t.Type())}})
	}
	return val
}

// lowerCall special-cases the two built-ins and module-mangles the callee
// name when the call targets a module member; everything else is a plain
// CALL (spec.md §4.5).
func (g *gen) lowerCall(n *ast.Call) ir.Operand {
	if id, ok := n.Callee.(*ast.Ident); ok && builtinCallNames[id.Name] {
		return g.lowerBuiltinCall(id.Name, n.Args[0], n.Type())
	}
	if mem, ok := n.Callee.(*ast.Member); ok && !mem.Arrow && len(n.Args) == 0 && builtinMethodNames[mem.Name] {
		return g.lowerBuiltinCall(mem.Name, mem.Base, n.Type())
	}

	args := make([]ir.Operand, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.lowerExpr(a)
	}

	var dest ir.Operand
	if n.Type().Kind != types.Void {
		dest = g.fn.FreshVReg(n.Type())
	}

	// Calling through a local function-pointer value: Src1 carries the
	// callee address instead of CalleeName (see Instruction's doc comment
	// in internal/ir).
	if id, ok := n.Callee.(*ast.Ident); ok {
		if addr, ok := g.resolveLocalAddr(id.Name); ok {
			elemType := types.Type{}
			if addr.Type.Elem != nil {
				elemType = *addr.Type.Elem
			}
			fnVal := g.fn.FreshVReg(elemType)
			g.emit(ir.Instruction{Op: ir.OpLoad, Dest: fnVal, Src1: addr})
			g.emit(ir.Instruction{Op: ir.OpCall, Dest: dest, Src1: fnVal, ExtraArgs: args})
			return dest
		}
	}

	g.emit(ir.Instruction{Op: ir.OpCall, Dest: dest, CalleeName: g.calleeName(n.Callee), ExtraArgs: args})
	return dest
}

func (g *gen) calleeName(callee ast.Expr) string {
	switch c := callee.(type) {
	case *ast.Ident:
		if sym, ok := g.lexScope.Resolve(c.Name); ok {
			return mangledName(sym)
		}
		return c.Name
	case *ast.Member:
		if base, ok := c.Base.(*ast.Ident); ok {
			if sym, ok := g.lexScope.Resolve(base.Name); ok {
				switch sym.Kind {
				case scope.ModuleSym:
					return sym.Name + "__" + c.Name
				case scope.ImportAliasSym:
					if sym.Inner != nil {
						return sym.Inner.Name + "__" + c.Name
					}
				}
			}
		}
		return c.Name
	}
	return ""
}

func (g *gen) lowerBuiltinCall(name string, arg ast.Expr, resultType types.Type) ir.Operand {
	argVal := g.lowerExpr(arg)
	switch name {
	case builtinLength:
		callee := "runtime.array_length"
		if arg.Type().Kind == types.String {
			callee = "runtime.string_length"
		}
		dest := g.fn.FreshVReg(types.IntType)
		g.emit(ir.Instruction{Op: ir.OpCall, Dest: dest, CalleeName: callee, ExtraArgs: []ir.Operand{argVal}})
		return dest
	case builtinPrint:
		g.emit(ir.Instruction{Op: ir.OpCall, CalleeName: printCalleeFor(arg.Type()), ExtraArgs: []ir.Operand{argVal}})
		return ir.Operand{}
	}
	return ir.Operand{}
}

func printCalleeFor(t types.Type) string {
	switch t.Kind {
	case types.Float:
		return "runtime.print_float"
	case types.Bool:
		return "runtime.print_bool"
	case types.String:
		return "runtime.print_string"
	default:
		return "runtime.print_int"
	}
}

// lowerIndex implements spec.md §4.5's index-read rule: call
// runtime.array_get_element(base, index, element_size).
func (g *gen) lowerIndex(n *ast.Index) ir.Operand {
	base := g.lowerExpr(n.Base)
	idx := g.lowerExpr(n.Index)
	elemSize := ir.ImmInt(typeSize(n.Type()), types.IntType)
	dest := g.fn.FreshVReg(n.Type())
	g.emit(ir.Instruction{Op: ir.OpCall, Dest: dest, CalleeName: "runtime.array_get_element", ExtraArgs: []ir.Operand{base, idx, elemSize}})
	return dest
}

// lowerMember covers module-qualified access (M.x), enum-qualified access
// (E.Member), and ordinary struct field access.
func (g *gen) lowerMember(n *ast.Member) ir.Operand {
	if base, ok := n.Base.(*ast.Ident); ok {
		if sym, ok := g.lexScope.Resolve(base.Name); ok {
			switch sym.Kind {
			case scope.ModuleSym, scope.ImportAliasSym:
				modName := sym.Name
				innerScope := sym.Inner
				if sym.Kind == scope.ImportAliasSym && sym.Inner != nil {
					modName = sym.Inner.Name
				}
				memberSym, ok := innerScope.Resolve(n.Name)
				if !ok {
					return ir.Operand{}
				}
				dest := g.fn.FreshVReg(memberSym.Type)
				g.emit(ir.Instruction{Op: ir.OpLoad, Dest: dest, Src1: ir.Symbol(modName+"__"+n.Name, memberSym.Type)})
				return dest
			case scope.EnumSym:
				for _, m := range sym.Type.Members {
					if m.Name == n.Name {
						return ir.ImmInt(m.Value, sym.Type)
					}
				}
				return ir.Operand{}
			}
		}
	}

	baseAddr := g.memberBaseAddr(n)
	dest := g.fn.FreshVReg(n.Type())
	g.emit(ir.Instruction{Op: ir.OpMemberAccess, Dest: dest, Src1: baseAddr, Src2: ir.Symbol(n.Name, n.Type())})
	return dest
}

// memberBaseAddr folds the base address for a member-access node (spec.md
// §4.5 "member-access targets fold the base address"): arrow access loads
// through a pointer value, dot access needs the base lvalue's own address.
func (g *gen) memberBaseAddr(n *ast.Member) ir.Operand {
	if n.Arrow {
		return g.lowerExpr(n.Base)
	}
	return g.addrOf(n.Base)
}

// addrOf is a more permissive address-of than lvalueAddr (which mirrors
// the `&` operator's identifier-only restriction): nested member-access
// chains like p.inner.x need the address of an intermediate member, not
// just a plain identifier.
func (g *gen) addrOf(e ast.Expr) ir.Operand {
	switch n := e.(type) {
	case *ast.Ident:
		return g.lvalueAddr(n)
	case *ast.Member:
		return g.memberBaseAddr(n)
	case *ast.Unary:
		if n.Op == ast.OpDeref {
			return g.lowerExpr(n.Operand)
		}
	}
	return g.lowerExpr(e)
}

// lowerStructLiteral carries the literal through as an AST operand for the
// backend to render as a compound literal (spec.md §4.5).
func (g *gen) lowerStructLiteral(n *ast.StructLiteral) ir.Operand {
	dest := g.fn.FreshVReg(n.Type())
	g.emit(ir.Instruction{Op: ir.OpConst, Dest: dest, Src1: ir.ASTOperand(n)})
	return dest
}

// lowerArrayLiteral implements spec.md §4.5: runtime.array_alloc(element_
// size, count) followed by one runtime.array_set_element call per element.
func (g *gen) lowerArrayLiteral(n *ast.ArrayLiteral) ir.Operand {
	elemType := types.IntType
	if n.Type().Kind == types.Array && n.Type().Elem != nil {
		elemType = *n.Type().Elem
	}
	elemSize := ir.ImmInt(typeSize(elemType), types.IntType)
	count := ir.ImmInt(int64(len(n.Elements)), types.IntType)

	arr := g.fn.FreshVReg(n.Type())
	g.emit(ir.Instruction{Op: ir.OpCall, Dest: arr, CalleeName: "runtime.array_alloc", ExtraArgs: []ir.Operand{elemSize, count}})

	for i, el := range n.Elements {
		val := g.lowerExpr(el)
		idx := ir.ImmInt(int64(i), types.IntType)
		g.emit(ir.Instruction{Op: ir.OpCall, CalleeName: "runtime.array_set_element", ExtraArgs: []ir.Operand{arr, idx, val, elemSize}})
	}
	return arr
}

// lowerIntrinsic maps each memory_*/inline_asm primary-level form to a
// fixed runtime callee name (spec.md §4.3's intrinsic node shape; the
// lowering itself isn't spelled out by name in §4.5, so this follows the
// same "every non-special-cased call becomes a CALL" default the rest of
// this file uses).
func (g *gen) lowerIntrinsic(n *ast.Intrinsic) ir.Operand {
	name := intrinsicCalleeName(n.Kind)
	if n.Kind == ast.IntrinsicInlineAsm {
		g.emit(ir.Instruction{Op: ir.OpCall, CalleeName: name, ExtraArgs: []ir.Operand{ir.ImmString(n.AsmText)}})
		return ir.Operand{}
	}

	args := make([]ir.Operand, len(n.Args))
	for i, a := range n.Args {
		args[i] = g.lowerExpr(a)
	}
	var dest ir.Operand
	if n.Type().Kind != types.Void {
		dest = g.fn.FreshVReg(n.Type())
	}
	g.emit(ir.Instruction{Op: ir.OpCall, Dest: dest, CalleeName: name, ExtraArgs: args})
	return dest
}

func intrinsicCalleeName(k ast.IntrinsicKind) string {
	switch k {
	case ast.IntrinsicReadMemory:
		return "runtime.read_memory"
	case ast.IntrinsicWriteMemory:
		return "runtime.write_memory"
	case ast.IntrinsicMemoryCopy:
		return "runtime.memory_copy"
	case ast.IntrinsicMemorySet:
		return "runtime.memory_set"
	case ast.IntrinsicMapMemory:
		return "runtime.map_memory"
	case ast.IntrinsicUnmapMemory:
		return "runtime.unmap_memory"
	case ast.IntrinsicInlineAsm:
		return "runtime.inline_asm"
	}
	return "runtime.unknown_intrinsic"
}
