package semantic

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/pkg/diag"
)

// CheckFreestanding implements spec.md §6's check_freestanding(program,
// diag, enabled) → ok. It is independent of the three scope-carrying
// passes: it only walks call expressions (and the raw memory-mapping
// intrinsics), so it runs without a scope tree. When enabled is false
// (hosted mode) every built-in is permitted and the pass is a no-op.
func CheckFreestanding(prog *ast.Program, sink *diag.Sink, filename string, enabled bool) bool {
	before := sink.ErrorCount()
	if !enabled {
		return true
	}

	for _, m := range prog.Modules {
		for _, mem := range m.Members {
			if mem.Func != nil {
				freestandingWalkBlock(mem.Func.Body, sink, filename)
			}
			if mem.Var != nil && mem.Var.Init != nil {
				freestandingWalkExpr(mem.Var.Init, sink, filename)
			}
		}
	}
	for _, g := range prog.Globals {
		if g.Init != nil {
			freestandingWalkExpr(g.Init, sink, filename)
		}
	}
	for _, f := range prog.Functions {
		freestandingWalkBlock(f.Body, sink, filename)
	}

	return sink.ErrorCount() == before
}

func freestandingWalkBlock(b *ast.Block, sink *diag.Sink, filename string) {
	if b == nil {
		return
	}
	for _, st := range b.Stmts {
		freestandingWalkStmt(st, sink, filename)
	}
}

func freestandingWalkStmt(st ast.Stmt, sink *diag.Sink, filename string) {
	switch n := st.(type) {
	case *ast.VarDecl:
		if n.Init != nil {
			freestandingWalkExpr(n.Init, sink, filename)
		}
	case *ast.ExprStmt:
		freestandingWalkExpr(n.X, sink, filename)
	case *ast.Return:
		if n.Value != nil {
			freestandingWalkExpr(n.Value, sink, filename)
		}
	case *ast.If:
		freestandingWalkExpr(n.Cond, sink, filename)
		freestandingWalkBlock(n.Then, sink, filename)
		freestandingWalkBlock(n.Else, sink, filename)
	case *ast.While:
		freestandingWalkExpr(n.Cond, sink, filename)
		freestandingWalkBlock(n.Body, sink, filename)
	case *ast.For:
		if n.Init != nil {
			freestandingWalkStmt(n.Init, sink, filename)
		}
		if n.Cond != nil {
			freestandingWalkExpr(n.Cond, sink, filename)
		}
		if n.Update != nil {
			freestandingWalkExpr(n.Update, sink, filename)
		}
		freestandingWalkBlock(n.Body, sink, filename)
	case *ast.Switch:
		freestandingWalkExpr(n.Scrutinee, sink, filename)
		for _, c := range n.Cases {
			if c.Value != nil {
				freestandingWalkExpr(c.Value, sink, filename)
			}
			freestandingWalkBlock(c.Body, sink, filename)
		}
	case *ast.Block:
		freestandingWalkBlock(n, sink, filename)
	}
}

func freestandingWalkExpr(e ast.Expr, sink *diag.Sink, filename string) {
	switch n := e.(type) {
	case *ast.Binary:
		freestandingWalkExpr(n.Left, sink, filename)
		freestandingWalkExpr(n.Right, sink, filename)
	case *ast.Logical:
		freestandingWalkExpr(n.Left, sink, filename)
		freestandingWalkExpr(n.Right, sink, filename)
	case *ast.Unary:
		freestandingWalkExpr(n.Operand, sink, filename)
	case *ast.Ternary:
		freestandingWalkExpr(n.Cond, sink, filename)
		freestandingWalkExpr(n.Then, sink, filename)
		freestandingWalkExpr(n.Else, sink, filename)
	case *ast.Assign:
		freestandingWalkExpr(n.Target, sink, filename)
		freestandingWalkExpr(n.Value, sink, filename)
	case *ast.Call:
		if id, ok := n.Callee.(*ast.Ident); ok && hostedOnlyCallNames[id.Name] {
			sink.Errorf(diag.CheckFreestandingForbidden, filename, n.Pos(), "%q is a hosted-only built-in, forbidden in freestanding mode", id.Name)
		} else {
			freestandingWalkExpr(n.Callee, sink, filename)
		}
		for _, a := range n.Args {
			freestandingWalkExpr(a, sink, filename)
		}
	case *ast.Index:
		freestandingWalkExpr(n.Base, sink, filename)
		freestandingWalkExpr(n.Index, sink, filename)
	case *ast.Member:
		freestandingWalkExpr(n.Base, sink, filename)
	case *ast.StructLiteral:
		for _, f := range n.Fields {
			freestandingWalkExpr(f.Value, sink, filename)
		}
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			freestandingWalkExpr(el, sink, filename)
		}
	case *ast.Intrinsic:
		if n.Kind == ast.IntrinsicMapMemory || n.Kind == ast.IntrinsicUnmapMemory {
			sink.Errorf(diag.CheckFreestandingForbidden, filename, n.Pos(), "memory mapping intrinsics are forbidden in freestanding mode")
		}
		for _, a := range n.Args {
			freestandingWalkExpr(a, sink, filename)
		}
	}
}
