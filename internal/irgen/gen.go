// Package irgen lowers a type-checked AST into the IR of spec.md §3/§4.5,
// grounded on the teacher's internal/bytecode.Compiler shape
// (internal/bytecode/compiler_core.go): a single generator struct carrying
// the output being built plus a locals stack with scope-depth bookkeeping
// and a loop-context stack, rather than a tree-walking interpreter.
package irgen

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/ir"
	"github.com/huayulang/huac/internal/scope"
)

// localVar mirrors the teacher's `local{name,depth,slot}` (compiler_core.go)
// but tracks the ALLOCA address register for a name instead of a bytecode
// stack slot.
type localVar struct {
	name  string
	addr  ir.Operand
	depth int
}

// loopCtx holds the basic blocks break/continue jump to, saved on a stack
// across nested loops (spec.md §4.5 "loop exit/continue targets saved on a
// stack across nested loops").
type loopCtx struct {
	exit     *ir.BasicBlock
	continueTo *ir.BasicBlock
}

// gen is the IR generator's running state: the module under construction,
// the function/block currently being appended to, a scope mirror used to
// resolve identifiers to module/enum/local symbols, and the locals/loop
// stacks borrowed from the teacher's Compiler shape.
type gen struct {
	global *scope.Scope
	module *ir.Module

	fn    *ir.Function
	block *ir.BasicBlock

	// lexScope mirrors the scope tree the semantic passes already walked
	// (spec.md §4.4), recreated here because AST nodes don't carry a
	// pointer back to their resolved symbol.
	lexScope *scope.Scope

	locals     []localVar
	scopeDepth int
	loopStack  []loopCtx
}

// Generate implements spec.md §6's generate_ir(program, global_scope,
// target_triple, compile_mode) → module.
func Generate(prog *ast.Program, global *scope.Scope, target ir.TargetTriple, mode ir.CompileMode) *ir.Module {
	g := &gen{
		global: global,
		module: &ir.Module{Target: target, Mode: mode},
	}
	g.lowerProgram(prog)
	return g.module
}

func (g *gen) beginScope() { g.scopeDepth++ }

func (g *gen) endScope() {
	if g.scopeDepth == 0 {
		return
	}
	for len(g.locals) > 0 && g.locals[len(g.locals)-1].depth == g.scopeDepth {
		g.locals = g.locals[:len(g.locals)-1]
	}
	g.scopeDepth--
}

// declareLocal records name's address at the current scope depth, shadowing
// any outer local of the same name (spec.md §4.4 "variables are visible
// only after their declaration").
func (g *gen) declareLocal(name string, addr ir.Operand) {
	g.locals = append(g.locals, localVar{name: name, addr: addr, depth: g.scopeDepth})
}

// resolveLocalAddr walks the locals stack backward so an inner shadowing
// declaration wins, mirroring the teacher's resolveLocal
// (compiler_core.go).
func (g *gen) resolveLocalAddr(name string) (ir.Operand, bool) {
	for i := len(g.locals) - 1; i >= 0; i-- {
		if g.locals[i].name == name {
			return g.locals[i].addr, true
		}
	}
	return ir.Operand{}, false
}

func (g *gen) pushLoop(exit, continueTo *ir.BasicBlock) {
	g.loopStack = append(g.loopStack, loopCtx{exit: exit, continueTo: continueTo})
}

func (g *gen) popLoop() {
	if len(g.loopStack) == 0 {
		return
	}
	g.loopStack = g.loopStack[:len(g.loopStack)-1]
}

func (g *gen) currentLoop() (loopCtx, bool) {
	if len(g.loopStack) == 0 {
		return loopCtx{}, false
	}
	return g.loopStack[len(g.loopStack)-1], true
}

func (g *gen) newBlock(hint string) *ir.BasicBlock {
	return g.fn.NewBlock(hint)
}

// emit appends instr to the current block.
func (g *gen) emit(instr ir.Instruction) {
	g.block.Emit(instr)
}

// blockTerminated reports whether g.block already ends with one of
// JUMP/BRANCH/RET (spec.md §8 property 6: "every basic block ends with
// exactly one of JUMP, BRANCH, RET"). A nested block lowered into g.block
// may already have closed it with a return/break/continue, in which case a
// caller must not append a second terminator or a bogus edge to whatever
// block follows.
func (g *gen) blockTerminated() bool {
	instrs := g.block.Instr
	if len(instrs) == 0 {
		return false
	}
	switch instrs[len(instrs)-1].Op {
	case ir.OpJump, ir.OpBranch, ir.OpRet:
		return true
	}
	return false
}

// jumpTo appends an unconditional JUMP to target and records the CFG edge,
// unless g.block is already terminated (see blockTerminated).
func (g *gen) jumpTo(target *ir.BasicBlock) {
	if g.blockTerminated() {
		return
	}
	g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(target)})
	ir.AddEdge(g.block, target)
}

// moduleInnerScope looks up a module symbol's inner scope, falling back to
// the global scope defensively (mirrors internal/semantic.moduleInnerScope,
// duplicated here since irgen does not import the semantic package).
func moduleInnerScope(global *scope.Scope, name string) *scope.Scope {
	if sym, ok := global.Resolve(name); ok && sym.Kind == scope.ModuleSym {
		return sym.Inner
	}
	return global
}

// mangledName applies spec.md §4.5's module name mangling
// (`<module>__<symbol>`) when sym is declared in a module scope.
func mangledName(sym *scope.Symbol) string {
	if sym.Scope != nil && sym.Scope.Kind == scope.ModuleScope {
		return moduleQualifier(sym.Scope) + "__" + sym.Name
	}
	return sym.Name
}

// moduleQualifier finds the enclosing module's name by walking up from s
// until a ModuleScope is found.
func moduleQualifier(s *scope.Scope) string {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Kind == scope.ModuleScope {
			return cur.Name
		}
	}
	return ""
}
