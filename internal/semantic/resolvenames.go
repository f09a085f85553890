package semantic

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/scope"
	"github.com/huayulang/huac/pkg/diag"
)

// ResolveNames implements spec.md §4.4.2: checks that every identifier
// expression resolves to an in-scope symbol, reporting
// sem_undefined_identifier otherwise, and resolves import statements
// (full/aliased/selective), injecting public symbols into the global
// scope. The AST keeps no reference to the symbol an identifier resolved to.
func ResolveNames(global *scope.Scope, prog *ast.Program, sink *diag.Sink, filename string) bool {
	before := sink.ErrorCount()

	for _, imp := range prog.Imports {
		resolveImport(global, imp, sink, filename)
	}
	for _, m := range prog.Modules {
		inner := moduleInnerScope(global, m.Name)
		for _, mem := range m.Members {
			if mem.Func != nil {
				resolveFunctionBody(inner, mem.Func, sink, filename)
			}
			if mem.Var != nil && mem.Var.Init != nil {
				resolveExpr(inner, mem.Var.Init, sink, filename)
			}
		}
	}
	for _, g := range prog.Globals {
		if g.Init != nil {
			resolveExpr(global, g.Init, sink, filename)
		}
	}
	for _, f := range prog.Functions {
		resolveFunctionBody(global, f, sink, filename)
	}

	return sink.ErrorCount() == before
}

func moduleInnerScope(global *scope.Scope, name string) *scope.Scope {
	if sym, ok := global.Resolve(name); ok && sym.Kind == scope.ModuleSym {
		return sym.Inner
	}
	return global
}

func resolveImport(global *scope.Scope, imp *ast.Import, sink *diag.Sink, filename string) {
	sym, ok := global.Resolve(imp.Module)
	if !ok || sym.Kind != scope.ModuleSym {
		sink.Errorf(diag.SemUnknownModule, filename, imp.Pos(), "unknown module %q", imp.Module)
		return
	}

	switch imp.Kind {
	case ast.ImportFull:
		for _, s := range sym.Inner.AllSymbols() {
			if s.Visibility != scope.VisPublic {
				continue
			}
			if !global.Define(&scope.Symbol{Name: s.Name, Kind: s.Kind, Type: s.Type, EnumValue: s.EnumValue, Inner: s.Inner, Const: s.Const}) {
				sink.Errorf(diag.SemDuplicateSymbol, filename, imp.Pos(), "duplicate symbol %q from import", s.Name)
			}
		}
	case ast.ImportAliased:
		global.Define(&scope.Symbol{Name: imp.Alias, Kind: scope.ImportAliasSym, Inner: sym.Inner})
	case ast.ImportSelective:
		for _, name := range imp.Names {
			s, ok := sym.Inner.Resolve(name)
			if !ok {
				sink.Errorf(diag.SemUndefinedIdentifier, filename, imp.Pos(), "module %q has no member %q", imp.Module, name)
				continue
			}
			if s.Visibility != scope.VisPublic {
				sink.Errorf(diag.SemPrivateAccess, filename, imp.Pos(), "%q is private in module %q", name, imp.Module)
				continue
			}
			if !global.Define(&scope.Symbol{Name: s.Name, Kind: s.Kind, Type: s.Type, EnumValue: s.EnumValue, Inner: s.Inner, Const: s.Const}) {
				sink.Errorf(diag.SemDuplicateSymbol, filename, imp.Pos(), "duplicate symbol %q from import", s.Name)
			}
		}
	}
}

func resolveFunctionBody(parent *scope.Scope, f *ast.FuncDecl, sink *diag.Sink, filename string) {
	fnScope := scope.New(scope.FunctionScope, parent)
	for _, p := range f.Params {
		fnScope.Define(&scope.Symbol{Name: p.Name, Kind: scope.Variable, Type: p.Type, Const: p.Const})
	}
	resolveBlock(fnScope, f.Body, sink, filename, false)
}

func resolveBlock(parent *scope.Scope, b *ast.Block, sink *diag.Sink, filename string, isLoop bool) *scope.Scope {
	s := scope.New(scope.BlockScope, parent)
	if isLoop {
		s.MarkLoop()
	}
	for _, st := range b.Stmts {
		resolveStmt(s, st, sink, filename)
	}
	return s
}

func resolveStmt(s *scope.Scope, st ast.Stmt, sink *diag.Sink, filename string) {
	switch n := st.(type) {
	case *ast.VarDecl:
		if n.Init != nil {
			resolveExpr(s, n.Init, sink, filename)
		}
		s.Define(&scope.Symbol{Name: n.Name, Kind: scope.Variable, Type: n.DeclaredType, Const: n.Const})
	case *ast.ExprStmt:
		resolveExpr(s, n.X, sink, filename)
	case *ast.Return:
		if n.Value != nil {
			resolveExpr(s, n.Value, sink, filename)
		}
	case *ast.If:
		resolveExpr(s, n.Cond, sink, filename)
		resolveBlock(s, n.Then, sink, filename, false)
		if n.Else != nil {
			resolveBlock(s, n.Else, sink, filename, false)
		}
	case *ast.While:
		resolveExpr(s, n.Cond, sink, filename)
		resolveBlock(s, n.Body, sink, filename, true)
	case *ast.For:
		forScope := scope.New(scope.BlockScope, s)
		if n.Init != nil {
			resolveStmt(forScope, n.Init, sink, filename)
		}
		if n.Cond != nil {
			resolveExpr(forScope, n.Cond, sink, filename)
		}
		if n.Update != nil {
			resolveExpr(forScope, n.Update, sink, filename)
		}
		resolveBlock(forScope, n.Body, sink, filename, true)
	case *ast.Switch:
		resolveExpr(s, n.Scrutinee, sink, filename)
		for _, c := range n.Cases {
			if c.Value != nil {
				resolveExpr(s, c.Value, sink, filename)
			}
			resolveBlock(s, c.Body, sink, filename, false)
		}
	case *ast.Block:
		resolveBlock(s, n, sink, filename, false)
	case *ast.Break, *ast.Continue:
		// validated in check-types (spec.md §4.4.3): must be nested in a loop scope.
	}
}

func resolveExpr(s *scope.Scope, e ast.Expr, sink *diag.Sink, filename string) {
	switch n := e.(type) {
	case *ast.Ident:
		if _, ok := s.Resolve(n.Name); !ok {
			sink.Errorf(diag.SemUndefinedIdentifier, filename, n.Pos(), "undefined identifier %q", n.Name)
		}
	case *ast.Binary:
		resolveExpr(s, n.Left, sink, filename)
		resolveExpr(s, n.Right, sink, filename)
	case *ast.Logical:
		resolveExpr(s, n.Left, sink, filename)
		resolveExpr(s, n.Right, sink, filename)
	case *ast.Unary:
		resolveExpr(s, n.Operand, sink, filename)
	case *ast.Ternary:
		resolveExpr(s, n.Cond, sink, filename)
		resolveExpr(s, n.Then, sink, filename)
		resolveExpr(s, n.Else, sink, filename)
	case *ast.Assign:
		resolveExpr(s, n.Target, sink, filename)
		resolveExpr(s, n.Value, sink, filename)
	case *ast.Call:
		if id, ok := n.Callee.(*ast.Ident); !ok || !builtinNames[id.Name] {
			resolveExpr(s, n.Callee, sink, filename)
		}
		for _, a := range n.Args {
			resolveExpr(s, a, sink, filename)
		}
	case *ast.Index:
		resolveExpr(s, n.Base, sink, filename)
		resolveExpr(s, n.Index, sink, filename)
	case *ast.Member:
		// Module-qualified and enum-qualified access (M.m, E.m) is
		// resolved structurally in check-types once the base's kind is
		// known; here we only recurse into ordinary expression bases.
		if _, isIdent := n.Base.(*ast.Ident); !isIdent {
			resolveExpr(s, n.Base, sink, filename)
		} else {
			id := n.Base.(*ast.Ident)
			if sym, ok := s.Resolve(id.Name); ok && (sym.Kind == scope.ModuleSym || sym.Kind == scope.ImportAliasSym || sym.Kind == scope.EnumSym) {
				// not a variable reference; leave to check-types.
				return
			}
			resolveExpr(s, n.Base, sink, filename)
		}
	case *ast.StructLiteral:
		for _, f := range n.Fields {
			resolveExpr(s, f.Value, sink, filename)
		}
	case *ast.ArrayLiteral:
		for _, el := range n.Elements {
			resolveExpr(s, el, sink, filename)
		}
	case *ast.Intrinsic:
		for _, a := range n.Args {
			resolveExpr(s, a, sink, filename)
		}
	}
}
