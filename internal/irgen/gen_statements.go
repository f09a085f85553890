package irgen

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/ir"
	"github.com/huayulang/huac/internal/types"
)

func (g *gen) lowerBlock(b *ast.Block) {
	if b == nil {
		return
	}
	g.beginScope()
	for _, st := range b.Stmts {
		// Statements after a return/break/continue in the same block are
		// unreachable; skip them rather than appending more instructions
		// after the block's terminator (spec.md §8 property 6).
		if g.blockTerminated() {
			break
		}
		g.lowerStmt(st)
	}
	g.endScope()
}

func (g *gen) lowerStmt(st ast.Stmt) {
	switch n := st.(type) {
	case *ast.VarDecl:
		g.lowerVarDecl(n)
	case *ast.ExprStmt:
		g.lowerExpr(n.X)
	case *ast.Return:
		g.lowerReturn(n)
	case *ast.If:
		g.lowerIf(n)
	case *ast.While:
		g.lowerWhile(n)
	case *ast.For:
		g.lowerFor(n)
	case *ast.Switch:
		g.lowerSwitch(n)
	case *ast.Break:
		g.lowerBreak()
	case *ast.Continue:
		g.lowerContinue()
	case *ast.Block:
		g.lowerBlock(n)
	}
}

// lowerVarDecl implements spec.md §4.5's var-decl rule: emit ALLOCA for the
// symbol's address, then STORE the initializer if present.
func (g *gen) lowerVarDecl(n *ast.VarDecl) {
	addr := g.fn.FreshVReg(types.PointerTo(n.DeclaredType))
	g.emit(ir.Instruction{Op: ir.OpAlloca, Dest: addr})
	if n.Init != nil {
		val := g.lowerExpr(n.Init)
		g.emit(ir.Instruction{Op: ir.OpStore, Src1: addr, Src2: val})
	}
	g.fn.Locals = append(g.fn.Locals, addr)
	g.declareLocal(n.Name, addr)
}

func (g *gen) lowerReturn(n *ast.Return) {
	if g.blockTerminated() {
		return
	}
	if n.Value == nil {
		g.emit(ir.Instruction{Op: ir.OpRet})
		return
	}
	val := g.lowerExpr(n.Value)
	g.emit(ir.Instruction{Op: ir.OpRet, Src1: val})
}

// lowerIf lowers cond/then/(else) into a then block, an optional else
// block, and a shared merge block both branches jump to (spec.md §4.5).
// Src2 of the BRANCH holds the true-target label, ExtraArgs[0] the
// false-target label.
func (g *gen) lowerIf(n *ast.If) {
	cond := g.lowerExpr(n.Cond)

	thenBlk := g.newBlock("if_then")
	var elseBlk *ir.BasicBlock
	if n.Else != nil {
		elseBlk = g.newBlock("if_else")
	}
	mergeBlk := g.newBlock("if_merge")

	falseTarget := mergeBlk
	if elseBlk != nil {
		falseTarget = elseBlk
	}
	g.emit(ir.Instruction{Op: ir.OpBranch, Src1: cond, Src2: ir.Label(thenBlk), ExtraArgs: []ir.Operand{ir.Label(falseTarget)}})
	ir.AddEdge(g.block, thenBlk)
	ir.AddEdge(g.block, falseTarget)

	g.block = thenBlk
	g.lowerBlock(n.Then)
	g.jumpTo(mergeBlk)

	if n.Else != nil {
		g.block = elseBlk
		g.lowerBlock(n.Else)
		g.jumpTo(mergeBlk)
	}

	g.block = mergeBlk
}

func (g *gen) lowerWhile(n *ast.While) {
	condBlk := g.newBlock("while_cond")
	bodyBlk := g.newBlock("while_body")
	exitBlk := g.newBlock("while_exit")

	g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(condBlk)})
	ir.AddEdge(g.block, condBlk)

	g.block = condBlk
	cond := g.lowerExpr(n.Cond)
	g.emit(ir.Instruction{Op: ir.OpBranch, Src1: cond, Src2: ir.Label(bodyBlk), ExtraArgs: []ir.Operand{ir.Label(exitBlk)}})
	ir.AddEdge(g.block, bodyBlk)
	ir.AddEdge(g.block, exitBlk)

	g.block = bodyBlk
	g.pushLoop(exitBlk, condBlk)
	g.lowerBlock(n.Body)
	g.popLoop()
	g.jumpTo(condBlk)

	g.block = exitBlk
}

func (g *gen) lowerFor(n *ast.For) {
	g.beginScope()
	if n.Init != nil {
		g.lowerStmt(n.Init)
	}

	condBlk := g.newBlock("for_cond")
	bodyBlk := g.newBlock("for_body")
	updateBlk := g.newBlock("for_update")
	exitBlk := g.newBlock("for_exit")

	g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(condBlk)})
	ir.AddEdge(g.block, condBlk)

	g.block = condBlk
	if n.Cond != nil {
		cond := g.lowerExpr(n.Cond)
		g.emit(ir.Instruction{Op: ir.OpBranch, Src1: cond, Src2: ir.Label(bodyBlk), ExtraArgs: []ir.Operand{ir.Label(exitBlk)}})
		ir.AddEdge(g.block, bodyBlk)
		ir.AddEdge(g.block, exitBlk)
	} else {
		g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(bodyBlk)})
		ir.AddEdge(g.block, bodyBlk)
	}

	g.block = bodyBlk
	g.pushLoop(exitBlk, updateBlk)
	g.lowerBlock(n.Body)
	g.popLoop()
	g.jumpTo(updateBlk)

	g.block = updateBlk
	if n.Update != nil {
		g.lowerExpr(n.Update)
	}
	g.jumpTo(condBlk)

	g.block = exitBlk
	g.endScope()
}

// lowerSwitch lowers to a sequence of equality tests with conditional
// branches, each case body ending with an unconditional jump to a shared
// merge block — no C-style fall-through (spec.md §4.5). The default case,
// if present, is the final fallback target; otherwise the final fallback
// is the merge block directly.
func (g *gen) lowerSwitch(n *ast.Switch) {
	scrut := g.lowerExpr(n.Scrutinee)

	var normal []ast.SwitchCase
	var def *ast.SwitchCase
	for _, c := range n.Cases {
		c := c
		if c.Value == nil {
			def = &c
		} else {
			normal = append(normal, c)
		}
	}

	testBlks := make([]*ir.BasicBlock, len(normal))
	bodyBlks := make([]*ir.BasicBlock, len(normal))
	for i := range normal {
		testBlks[i] = g.newBlock("switch_test")
		bodyBlks[i] = g.newBlock("switch_body")
	}
	var defBlk *ir.BasicBlock
	if def != nil {
		defBlk = g.newBlock("switch_default")
	}
	mergeBlk := g.newBlock("switch_merge")

	entryTarget := mergeBlk
	switch {
	case len(testBlks) > 0:
		entryTarget = testBlks[0]
	case defBlk != nil:
		entryTarget = defBlk
	}
	g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(entryTarget)})
	ir.AddEdge(g.block, entryTarget)

	for i, c := range normal {
		g.block = testBlks[i]
		caseVal := g.lowerExpr(c.Value)
		eqReg := g.fn.FreshVReg(types.BoolType)
		g.emit(ir.Instruction{Op: ir.OpEq, Dest: eqReg, Src1: scrut, Src2: caseVal})

		fallback := mergeBlk
		switch {
		case i+1 < len(testBlks):
			fallback = testBlks[i+1]
		case defBlk != nil:
			fallback = defBlk
		}
		g.emit(ir.Instruction{Op: ir.OpBranch, Src1: eqReg, Src2: ir.Label(bodyBlks[i]), ExtraArgs: []ir.Operand{ir.Label(fallback)}})
		ir.AddEdge(g.block, bodyBlks[i])
		ir.AddEdge(g.block, fallback)

		g.block = bodyBlks[i]
		g.lowerBlock(c.Body)
		g.jumpTo(mergeBlk)
	}

	if def != nil {
		g.block = defBlk
		g.lowerBlock(def.Body)
		g.jumpTo(mergeBlk)
	}

	g.block = mergeBlk
}

// lowerBreak/lowerContinue jump to the saved loop-exit/continue targets;
// outside a loop context they are a no-op, per spec.md §4.5 — semantic
// analysis already rejects break/continue outside a loop, so this only
// guards against an already-diagnosed program reaching codegen.
func (g *gen) lowerBreak() {
	if loop, ok := g.currentLoop(); ok {
		g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(loop.exit)})
		ir.AddEdge(g.block, loop.exit)
	}
}

func (g *gen) lowerContinue() {
	if loop, ok := g.currentLoop(); ok {
		g.emit(ir.Instruction{Op: ir.OpJump, Src1: ir.Label(loop.continueTo)})
		ir.AddEdge(g.block, loop.continueTo)
	}
}
