package semantic

import (
	"testing"

	"github.com/huayulang/huac/pkg/diag"
)

func runAllPasses(t *testing.T, src string) *diag.Sink {
	t.Helper()
	prog, psink := parseProgram(t, src)
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	global := BuildScopes(prog, sink, "t.hy")
	if sink.ErrorCount() != 0 {
		return sink
	}
	if ok := ResolveNames(global, prog, sink, "t.hy"); !ok {
		return sink
	}
	CheckTypes(global, prog, sink, "t.hy")
	return sink
}

func TestCheckTypesArithmeticIntPlusInt(t *testing.T) {
	sink := runAllPasses(t, "函数 f() { 变量 a = 1 + 2; }")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckTypesStringConcatPromotesInt(t *testing.T) {
	sink := runAllPasses(t, `函数 f() { 变量 a = "x" + 1; }`)
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckTypesBreakOutsideLoopIsSemanticError(t *testing.T) {
	sink := runAllPasses(t, "函数 f() { 中断; }")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemBreakContinueOutsideLoop {
		t.Fatalf("expected SemBreakContinueOutsideLoop, got %v", sink.All()[0].Code)
	}
}

func TestCheckTypesBreakInsideWhileIsFine(t *testing.T) {
	sink := runAllPasses(t, "函数 f() { 当 (真) { 中断; } }")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckTypesArgumentCountMismatch(t *testing.T) {
	sink := runAllPasses(t, "函数 加(整数 a, 整数 b) -> 整数 { 返回 a + b; }\n函数 f() { 变量 n = 加(1); }")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemArgumentCountMismatch {
		t.Fatalf("expected SemArgumentCountMismatch, got %v", sink.All()[0].Code)
	}
}

func TestCheckTypesArrayLengthBuiltin(t *testing.T) {
	sink := runAllPasses(t, "函数 f() { 变量 a = [1, 2, 3]; 变量 n = 长度(a); }")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckTypesAssignToConstIsError(t *testing.T) {
	sink := runAllPasses(t, "函数 f() { 常量 a = 1; a = 2; }")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemAssignToConst {
		t.Fatalf("expected SemAssignToConst, got %v", sink.All()[0].Code)
	}
}

func TestCheckTypesStructFieldAccess(t *testing.T) {
	sink := runAllPasses(t, "结构体 Point { 整数 x; 整数 y; }\n函数 f() { 变量 p = Point { x: 1, y: 2 }; 变量 n = p.x; }")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckTypesModuleQualifiedAccess(t *testing.T) {
	sink := runAllPasses(t, "模块 M { 公开: 整数 x = 1; }\n函数 f() { 变量 n = M.x; }")
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckTypesPrivateModuleAccessIsError(t *testing.T) {
	sink := runAllPasses(t, "模块 M { 私有: 整数 x = 1; }\n函数 f() { 变量 n = M.x; }")
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.SemPrivateAccess {
		t.Fatalf("expected SemPrivateAccess, got %v", sink.All()[0].Code)
	}
}
