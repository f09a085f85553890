package semantic

import (
	"testing"

	"github.com/huayulang/huac/pkg/diag"
)

func TestResolveNamesUndefinedIdentifier(t *testing.T) {
	prog, psink := parseProgram(t, "函数 f() { 返回 y; }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 0 {
		t.Fatalf("build-scopes errors: %+v", sink.All())
	}
	ResolveNames(global, prog, sink, "t.hy")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemUndefinedIdentifier {
		t.Fatalf("expected SemUndefinedIdentifier, got %v", sink.All()[0].Code)
	}
}

func TestResolveNamesParamsAndLocalsVisible(t *testing.T) {
	prog, psink := parseProgram(t, "函数 f(整数 a) { 变量 b = a + 1; 返回 b; }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	ok := ResolveNames(global, prog, sink, "t.hy")
	if !ok || sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestResolveNamesSelectiveImportOfPrivateMemberFails(t *testing.T) {
	prog, psink := parseProgram(t, "模块 M { 私有: 整数 secret = 1; }\n导入 M { secret };")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 0 {
		t.Fatalf("build-scopes errors: %+v", sink.All())
	}
	ResolveNames(global, prog, sink, "t.hy")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemPrivateAccess {
		t.Fatalf("expected SemPrivateAccess, got %v", sink.All()[0].Code)
	}
}

func TestResolveNamesFullImportBringsInPublicMembers(t *testing.T) {
	prog, psink := parseProgram(t, "模块 M { 公开: 整数 x = 1; }\n导入 M;\n函数 f() { 返回 x; }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 0 {
		t.Fatalf("build-scopes errors: %+v", sink.All())
	}
	ok := ResolveNames(global, prog, sink, "t.hy")
	if !ok || sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestResolveNamesUnknownModuleImport(t *testing.T) {
	prog, psink := parseProgram(t, "导入 N;")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	ResolveNames(global, prog, sink, "t.hy")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemUnknownModule {
		t.Fatalf("expected SemUnknownModule, got %v", sink.All()[0].Code)
	}
}
