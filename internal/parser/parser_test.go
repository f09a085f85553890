package parser

import (
	"testing"

	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/lexer"
	"github.com/huayulang/huac/internal/source"
	"github.com/huayulang/huac/internal/types"
	"github.com/huayulang/huac/pkg/diag"
)

func parseSrc(t *testing.T, src string) (*Parser, *diag.Sink) {
	t.Helper()
	buf := source.New("t.hy", src)
	l := lexer.New(buf)
	sink := diag.New()
	p := New(l, "t.hy")
	p.SetDiagnostics(sink)
	return p, sink
}

// TestParseScenarioS1 exercises spec.md §8 S1: a zero-arg main function
// with a single return statement.
func TestParseScenarioS1(t *testing.T) {
	p, sink := parseSrc(t, "函数 主程序() { 返回 0; }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if len(prog.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(prog.Functions))
	}
	fn := prog.Functions[0]
	if fn.Name != "主程序" {
		t.Fatalf("expected function name 主程序, got %q", fn.Name)
	}
	if len(fn.Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement in body, got %d", len(fn.Body.Stmts))
	}
}

func TestParseScenarioS2Params(t *testing.T) {
	p, sink := parseSrc(t, "函数 加(整数 a, 整数 b) { 返回 a + b; }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	fn := prog.Functions[0]
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Params[0].Type.Kind != types.Int || fn.Params[1].Type.Kind != types.Int {
		t.Fatalf("expected both params to be int")
	}
}

func TestParseScenarioS6ReservedFeature(t *testing.T) {
	p, sink := parseSrc(t, "类 C { }")
	p.ParseProgram()
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d", sink.ErrorCount())
	}
	if sink.All()[0].Code != diag.ParseReservedFeature {
		t.Fatalf("expected ParseReservedFeature, got %v", sink.All()[0].Code)
	}
}

func TestParseImportForms(t *testing.T) {
	p, sink := parseSrc(t, "导入 M;\n导入 M 作为 N;\n导入 M { a, b };")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if len(prog.Imports) != 3 {
		t.Fatalf("expected 3 imports, got %d", len(prog.Imports))
	}
	if prog.Imports[1].Alias != "N" {
		t.Fatalf("expected alias N, got %q", prog.Imports[1].Alias)
	}
	if len(prog.Imports[2].Names) != 2 {
		t.Fatalf("expected 2 selective names, got %d", len(prog.Imports[2].Names))
	}
}

func TestParseModuleVisibilityBlock(t *testing.T) {
	p, sink := parseSrc(t, "模块 M { 公开: 整数 x = 1; }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if len(prog.Modules) != 1 {
		t.Fatalf("expected 1 module")
	}
	mod := prog.Modules[0]
	if len(mod.Members) != 1 || mod.Members[0].Var == nil {
		t.Fatalf("expected 1 var member")
	}
	if mod.Members[0].Visibility != ast.VisibilityPublic {
		t.Fatalf("expected public visibility, got %v", mod.Members[0].Visibility)
	}
}

func TestParseEnumAutoValues(t *testing.T) {
	p, sink := parseSrc(t, "枚举 Color { 红, 绿, 蓝 = 10, 黄 }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	e := prog.Enums[0]
	want := []int64{0, 1, 10, 11}
	for i, m := range e.Members {
		if m.Value != want[i] {
			t.Errorf("member %d (%s): got %d, want %d", i, m.Name, m.Value, want[i])
		}
	}
}

func TestParseStructFields(t *testing.T) {
	p, sink := parseSrc(t, "结构体 Point { 整数 x; 整数 y; }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	s := prog.Structs[0]
	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}
}

func TestParseArrayLiteralAndLengthCall(t *testing.T) {
	p, sink := parseSrc(t, "函数 f() { 变量 a = [1, 2, 3]; 变量 n = 长度(a); }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	body := prog.Functions[0].Body
	if len(body.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(body.Stmts))
	}
}

func TestParseBreakOutsideLoopStillParses(t *testing.T) {
	// spec.md §8 S4: break-outside-loop is a semantic error, not a parse
	// error — the parser must accept it.
	p, sink := parseSrc(t, "函数 f() { 中断; }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 parse diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if len(prog.Functions[0].Body.Stmts) != 1 {
		t.Fatalf("expected 1 statement")
	}
}

func TestParseIfWhileForSwitch(t *testing.T) {
	src := `函数 f(整数 n) {
		如果 (n > 0) { 返回 1; } 否则 { 返回 0; }
		当 (n > 0) { n = n - 1; }
		循环 (变量 i = 0; i < n; i = i + 1) { }
		选择 (n) {
			情况 1: 返回 1;
			默认: 返回 0;
		}
	}`
	p, sink := parseSrc(t, src)
	p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestParseTernaryAndLogical(t *testing.T) {
	p, sink := parseSrc(t, "函数 f(整数 a, 整数 b) { 返回 (a > b && b > 0) ? a : b; }")
	p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestParsePointerAndDerefAndAddrOf(t *testing.T) {
	p, sink := parseSrc(t, "函数 f(整数 a) { 变量 p = &a; 变量 v = *p; }")
	p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestParseIntrinsics(t *testing.T) {
	src := `函数 f() {
		变量 a = 读取内存(0);
		写入内存(0, a);
		拷贝内存(0, 1, 2);
		填充内存(0, 1, 2);
		变量 m = 映射内存(0, 4096);
		解除映射(0, 4096);
		内联汇编("nop");
	}`
	p, sink := parseSrc(t, src)
	p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestParseFuncPointerDecl(t *testing.T) {
	p, sink := parseSrc(t, "函数 f() { 整数(*回调)(整数, 整数); 回调 = g; }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	fn := prog.Functions[0]
	if len(fn.Body.Stmts) != 2 {
		t.Fatalf("expected 2 statements in body, got %d", len(fn.Body.Stmts))
	}
	decl, ok := fn.Body.Stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected first statement to be a VarDecl, got %T", fn.Body.Stmts[0])
	}
	if decl.Name != "回调" {
		t.Fatalf("expected name 回调, got %q", decl.Name)
	}
	if decl.DeclaredType.Kind != types.Pointer || decl.DeclaredType.Elem.Kind != types.Function {
		t.Fatalf("expected pointer-to-function type, got %+v", decl.DeclaredType)
	}
	fnType := decl.DeclaredType.Elem
	if len(fnType.Params) != 2 || fnType.Params[0].Kind != types.Int || fnType.Params[1].Kind != types.Int {
		t.Fatalf("expected 2 int params, got %+v", fnType.Params)
	}
	if fnType.Result == nil || fnType.Result.Kind != types.Int {
		t.Fatalf("expected int result, got %+v", fnType.Result)
	}
}

func TestParseInterruptHandler(t *testing.T) {
	p, sink := parseSrc(t, "中断处理程序 33() { 返回; }")
	prog := p.ParseProgram()
	if sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	fn := prog.Functions[0]
	if !fn.IsInterrupt || fn.InterruptVector != 33 {
		t.Fatalf("expected interrupt handler for vector 33, got %+v", fn)
	}
	if fn.Name != "__isr_33" {
		t.Fatalf("expected name __isr_33, got %q", fn.Name)
	}
}

func TestParseMissingTokenDoesNotConsume(t *testing.T) {
	p, sink := parseSrc(t, "函数 f( { }")
	p.ParseProgram()
	if sink.ErrorCount() == 0 {
		t.Fatalf("expected at least 1 diagnostic for malformed parameter list")
	}
}
