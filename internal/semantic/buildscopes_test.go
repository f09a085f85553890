package semantic

import (
	"testing"

	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/lexer"
	"github.com/huayulang/huac/internal/parser"
	"github.com/huayulang/huac/internal/scope"
	"github.com/huayulang/huac/internal/source"
	"github.com/huayulang/huac/pkg/diag"
)

func parseProgram(t *testing.T, src string) (*ast.Program, *diag.Sink) {
	t.Helper()
	buf := source.New("t.hy", src)
	l := lexer.New(buf)
	sink := diag.New()
	p := parser.New(l, "t.hy")
	p.SetDiagnostics(sink)
	return p.ParseProgram(), sink
}

func TestBuildScopesHoistsFunctionsForForwardReference(t *testing.T) {
	prog, psink := parseProgram(t, "函数 a() { 返回 b(); }\n函数 b() { 返回 0; }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if _, ok := global.Resolve("a"); !ok {
		t.Fatalf("expected function a in global scope")
	}
	if _, ok := global.Resolve("b"); !ok {
		t.Fatalf("expected function b in global scope")
	}
}

func TestBuildScopesDuplicateGlobalEmitsDiagnostic(t *testing.T) {
	prog, psink := parseProgram(t, "变量 x = 1;\n变量 x = 2;")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemDuplicateSymbol {
		t.Fatalf("expected SemDuplicateSymbol, got %v", sink.All()[0].Code)
	}
}

func TestBuildScopesEnumMembersInsertedAtGlobalScope(t *testing.T) {
	prog, psink := parseProgram(t, "枚举 Color { 红, 绿, 蓝 }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	sym, ok := global.Resolve("绿")
	if !ok {
		t.Fatalf("expected enum member 绿 in global scope")
	}
	if sym.Kind != scope.EnumMemberSym || sym.EnumValue != 1 {
		t.Fatalf("expected EnumMemberSym with value 1, got %+v", sym)
	}
}

func TestBuildScopesModuleMembersTaggedWithVisibility(t *testing.T) {
	prog, psink := parseProgram(t, "模块 M { 公开: 整数 x = 1; 私有: 整数 y = 2; }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	modSym, ok := global.Resolve("M")
	if !ok || modSym.Kind != scope.ModuleSym {
		t.Fatalf("expected module symbol M")
	}
	xSym, ok := modSym.Inner.Resolve("x")
	if !ok || xSym.Visibility != scope.VisPublic {
		t.Fatalf("expected public x, got %+v", xSym)
	}
	ySym, ok := modSym.Inner.Resolve("y")
	if !ok || ySym.Visibility != scope.VisPrivate {
		t.Fatalf("expected private y, got %+v", ySym)
	}
}

func TestBuildScopesDuplicateStructEmitsDiagnostic(t *testing.T) {
	prog, psink := parseProgram(t, "结构体 P { 整数 x; }\n结构体 P { 整数 y; }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}
