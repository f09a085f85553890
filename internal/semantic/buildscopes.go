// Package semantic implements the three sequential passes of spec.md
// §4.4 (build-scopes, resolve-names, check-types) plus the independent
// freestanding checker, grounded on the shape of the teacher's
// internal/semantic package (global scope tree, sequential passes that
// bail out on a non-zero diagnostics counter) but driving this
// language's symbol/type rules instead of DWScript's class-based ones.
package semantic

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/scope"
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/internal/types"
	"github.com/huayulang/huac/pkg/diag"
)

// BuildScopes implements spec.md §4.4.1: it creates the global scope,
// inserts module/struct/enum/function/global-variable symbols (hoisted,
// so forward references resolve in later passes), and returns the
// resulting scope tree.
func BuildScopes(prog *ast.Program, sink *diag.Sink, filename string) *scope.Scope {
	global := scope.New(scope.GlobalScope, nil)

	for _, s := range prog.Structs {
		defineOrDuplicate(global, &scope.Symbol{
			Name: s.Name, Kind: scope.StructSym,
			Type: structType(s),
		}, sink, filename, s.Pos())
	}

	for _, e := range prog.Enums {
		enumType := enumType(e)
		defineOrDuplicate(global, &scope.Symbol{
			Name: e.Name, Kind: scope.EnumSym, Type: enumType,
		}, sink, filename, e.Pos())
		for _, m := range e.Members {
			defineOrDuplicate(global, &scope.Symbol{
				Name: m.Name, Kind: scope.EnumMemberSym, Type: enumType, EnumValue: m.Value,
			}, sink, filename, e.Pos())
		}
	}

	// Functions are hoisted before bodies are visited (spec.md §4.4.1).
	for _, f := range prog.Functions {
		defineOrDuplicate(global, &scope.Symbol{
			Name: f.Name, Kind: scope.FunctionSym, Type: funcType(f),
		}, sink, filename, f.Pos())
	}

	for _, g := range prog.Globals {
		defineOrDuplicate(global, &scope.Symbol{
			Name: g.Name, Kind: scope.Variable, Type: g.DeclaredType, Const: g.Const,
		}, sink, filename, g.Pos())
	}

	for _, m := range prog.Modules {
		buildModuleScope(global, m, sink, filename)
	}

	return global
}

func buildModuleScope(global *scope.Scope, m *ast.ModuleDecl, sink *diag.Sink, filename string) {
	inner := scope.New(scope.ModuleScope, global)
	inner.Name = m.Name
	modSym := &scope.Symbol{Name: m.Name, Kind: scope.ModuleSym, Inner: inner}
	defineOrDuplicate(global, modSym, sink, filename, m.Pos())

	for _, mem := range m.Members {
		vis := visOf(mem.Visibility)
		switch {
		case mem.Func != nil:
			defineOrDuplicate(inner, &scope.Symbol{
				Name: mem.Func.Name, Kind: scope.FunctionSym, Type: funcType(mem.Func), Visibility: vis,
			}, sink, filename, mem.Func.Pos())
		case mem.Var != nil:
			defineOrDuplicate(inner, &scope.Symbol{
				Name: mem.Var.Name, Kind: scope.Variable, Type: mem.Var.DeclaredType,
				Const: mem.Var.Const, Visibility: vis,
			}, sink, filename, mem.Var.Pos())
		}
	}
}

func visOf(v ast.Visibility) scope.Vis {
	switch v {
	case ast.VisibilityPublic:
		return scope.VisPublic
	case ast.VisibilityPrivate:
		return scope.VisPrivate
	default:
		return scope.VisDefault
	}
}

// defineOrDuplicate inserts sym into s, emitting sem_duplicate_symbol
// and discarding the later declaration on collision (spec.md §4.4.1).
func defineOrDuplicate(s *scope.Scope, sym *scope.Symbol, sink *diag.Sink, filename string, pos token.Position) {
	if !s.Define(sym) {
		sink.Errorf(diag.SemDuplicateSymbol, filename, pos, "duplicate symbol %q in this scope", sym.Name)
	}
}

func structType(s *ast.StructDecl) types.Type {
	t := types.Type{Kind: types.Struct, Name: s.Name}
	for _, f := range s.Fields {
		t.Fields = append(t.Fields, types.Field{Name: f.Name, Type: f.Type, Const: f.Const})
	}
	return t
}

func enumType(e *ast.EnumDecl) types.Type {
	t := types.Type{Kind: types.Enum, Name: e.Name}
	for _, m := range e.Members {
		t.Members = append(t.Members, types.EnumMember{Name: m.Name, Value: m.Value})
	}
	return t
}

func funcType(f *ast.FuncDecl) types.Type {
	t := types.Type{Kind: types.Function, Result: new(types.Type)}
	*t.Result = f.ReturnType
	for _, p := range f.Params {
		t.Params = append(t.Params, p.Type)
	}
	return t
}
