package semantic

import (
	"testing"

	"github.com/huayulang/huac/pkg/diag"
)

func TestCheckFreestandingHostedModeAllowsEverything(t *testing.T) {
	prog, psink := parseProgram(t, "函数 f() { 打开文件(); }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	ok := CheckFreestanding(prog, sink, "t.hy", false)
	if !ok || sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics in hosted mode, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckFreestandingForbidsOpenFile(t *testing.T) {
	prog, psink := parseProgram(t, "函数 f() { 打开文件(); }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	ok := CheckFreestanding(prog, sink, "t.hy", true)
	if ok || sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.CheckFreestandingForbidden {
		t.Fatalf("expected CheckFreestandingForbidden, got %v", sink.All()[0].Code)
	}
}

func TestCheckFreestandingAllowsOrdinaryCalls(t *testing.T) {
	prog, psink := parseProgram(t, "函数 g() { 返回 0; }\n函数 f() { 变量 n = g(); }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	ok := CheckFreestanding(prog, sink, "t.hy", true)
	if !ok || sink.ErrorCount() != 0 {
		t.Fatalf("expected 0 diagnostics, got %d: %+v", sink.ErrorCount(), sink.All())
	}
}

func TestCheckFreestandingForbidsNestedHostedCall(t *testing.T) {
	prog, psink := parseProgram(t, "函数 f() { 如果 (真) { 读取输入(); } }")
	if psink.ErrorCount() != 0 {
		t.Fatalf("parse errors: %+v", psink.All())
	}
	sink := diag.New()
	ok := CheckFreestanding(prog, sink, "t.hy", true)
	if ok || sink.ErrorCount() != 1 {
		t.Fatalf("expected exactly 1 diagnostic, got %d: %+v", sink.ErrorCount(), sink.All())
	}
	if sink.All()[0].Code != diag.CheckFreestandingForbidden {
		t.Fatalf("expected CheckFreestandingForbidden, got %v", sink.All()[0].Code)
	}
}
