package irgen

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/ir"
	"github.com/huayulang/huac/internal/scope"
	"github.com/huayulang/huac/internal/types"
)

// lowerProgram dispatches over every top-level bucket of spec.md §3's
// Program shape, mirroring the teacher's compiler_functions.go top-level
// walk (globals and functions first, one compiled unit per declaration).
func (g *gen) lowerProgram(prog *ast.Program) {
	g.lexScope = g.global

	for _, gl := range prog.Globals {
		g.module.Globals = append(g.module.Globals, g.lowerGlobalVar(gl.Name, gl.DeclaredType, gl.Init))
	}

	for _, m := range prog.Modules {
		inner := moduleInnerScope(g.global, m.Name)
		for _, mem := range m.Members {
			switch {
			case mem.Var != nil:
				name := m.Name + "__" + mem.Var.Name
				g.module.Globals = append(g.module.Globals, g.lowerGlobalVar(name, mem.Var.DeclaredType, mem.Var.Init))
			case mem.Func != nil:
				g.module.Functions = append(g.module.Functions, g.lowerFunction(mem.Func, inner, m.Name))
			}
		}
	}

	for _, f := range prog.Functions {
		g.module.Functions = append(g.module.Functions, g.lowerFunction(f, g.global, ""))
	}
}

// lowerGlobalVar builds the linked global-variable entry spec.md §3 names;
// var-decl's ALLOCA/STORE lowering (spec.md §4.5) applies only to locals,
// so a top-level or module-member variable gets a static initializer
// instead.
func (g *gen) lowerGlobalVar(name string, t types.Type, init ast.Expr) *ir.GlobalVar {
	gv := &ir.GlobalVar{Name: name, Type: t}
	if init != nil {
		instr := ir.Instruction{Op: ir.OpConst, Src1: g.constOperand(init)}
		gv.Init = &instr
	}
	return gv
}

// constOperand produces a static-initializer operand: literal expressions
// fold to immediates directly, and anything else is carried through as an
// AST operand for the backend to fold, generalizing spec.md §4.5's
// struct-literal "AST-operand instruction for the backend to render" rule
// to any non-literal global initializer.
func (g *gen) constOperand(e ast.Expr) ir.Operand {
	if lit, ok := literalOperand(e); ok {
		return lit
	}
	return ir.ASTOperand(e)
}

// lowerFunction lowers one function body into a fresh ir.Function,
// mangling the name to <module>__<name> for module members (spec.md §4.5)
// while leaving the AST's FuncDecl.Name untouched.
func (g *gen) lowerFunction(f *ast.FuncDecl, parent *scope.Scope, moduleName string) *ir.Function {
	name := f.Name
	if moduleName != "" {
		name = moduleName + "__" + f.Name
	}
	fn := &ir.Function{Name: name, ReturnType: f.ReturnType, IsInterrupt: f.IsInterrupt, InterruptVector: f.InterruptVector}

	savedFn, savedBlock, savedScope := g.fn, g.block, g.lexScope
	savedLocals, savedDepth, savedLoop := g.locals, g.scopeDepth, g.loopStack
	g.fn = fn
	g.locals = nil
	g.scopeDepth = 0
	g.loopStack = nil

	fnScope := scope.New(scope.FunctionScope, parent)
	g.lexScope = fnScope

	entry := g.newBlock("entry")
	g.block = entry

	g.beginScope()
	for _, p := range f.Params {
		reg := fn.FreshVReg(p.Type)
		fn.Params = append(fn.Params, reg)
		fnScope.Define(&scope.Symbol{Name: p.Name, Kind: scope.Variable, Type: p.Type, Const: p.Const})

		addr := fn.FreshVReg(types.PointerTo(p.Type))
		g.emit(ir.Instruction{Op: ir.OpAlloca, Dest: addr})
		g.emit(ir.Instruction{Op: ir.OpStore, Src1: addr, Src2: reg})
		fn.Locals = append(fn.Locals, addr)
		g.declareLocal(p.Name, addr)
	}

	g.lowerBlock(f.Body)
	g.endScope()

	// Falling off the end of the body (an implicit void return, or an
	// unreachable block left dangling when every preceding branch already
	// returned — e.g. an if/else whose merge block has no predecessors)
	// still needs a terminator: every basic block ends with exactly one of
	// JUMP/BRANCH/RET (spec.md §8 property 6).
	if !g.blockTerminated() {
		if fn.ReturnType.Kind == types.Void {
			g.emit(ir.Instruction{Op: ir.OpRet})
		} else {
			g.emit(ir.Instruction{Op: ir.OpRet, Src1: zeroValue(fn.ReturnType)})
		}
	}

	g.fn, g.block, g.lexScope = savedFn, savedBlock, savedScope
	g.locals, g.scopeDepth, g.loopStack = savedLocals, savedDepth, savedLoop
	return fn
}

// zeroValue produces a placeholder immediate for an implicit terminator's
// return value; the block it closes is either unreachable or a void
// fallthrough, so the value itself is never observed.
func zeroValue(t types.Type) ir.Operand {
	switch t.Kind {
	case types.Float:
		return ir.ImmFloat(0)
	case types.String:
		return ir.ImmString("")
	default:
		return ir.Operand{Kind: ir.OperandImmInt, IntVal: 0, Type: t}
	}
}
