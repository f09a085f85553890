package compiler

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/huayulang/huac/pkg/config"
)

func defaultOpts() config.Options {
	return config.Options{
		Target: config.TargetTriple{Arch: config.X86_64, Vendor: "unknown", OS: config.Linux, ABI: config.ELF},
		Mode:   config.Hosted,
	}
}

func TestCompileSimpleFunction(t *testing.T) {
	src := "函数 主() -> 整数 { 变量 n = 1 + 2; 返回 n; }"
	res := Compile([]byte(src), "main.hy", defaultOpts())
	require.Equal(t, 0, res.Diagnostics.ErrorCount())
	require.NotNil(t, res.Module)
	require.Len(t, res.Module.Functions, 1)
	require.Equal(t, "主", res.Module.Functions[0].Name)
}

func TestCompileModuleMemberMangling(t *testing.T) {
	src := "模块 数学 { 函数 加一(整数 x) -> 整数 { 返回 x + 1; } }"
	res := Compile([]byte(src), "main.hy", defaultOpts())
	require.Equal(t, 0, res.Diagnostics.ErrorCount())
	require.Len(t, res.Module.Functions, 1)
	require.Equal(t, "数学__加一", res.Module.Functions[0].Name)
}

func TestCompileFreestandingRejectsHostedOnlyCall(t *testing.T) {
	src := "函数 f() { 打开文件(); }"
	opts := defaultOpts()
	opts.Mode = config.Freestanding
	res := Compile([]byte(src), "main.hy", opts)
	require.Greater(t, res.Diagnostics.ErrorCount(), 0)
	require.Nil(t, res.Module)
}

func TestCompileParseErrorStopsPipeline(t *testing.T) {
	src := "函数 主(("
	res := Compile([]byte(src), "main.hy", defaultOpts())
	require.Greater(t, res.Diagnostics.ErrorCount(), 0)
	require.Nil(t, res.GlobalScope)
	require.Nil(t, res.Module)
}

func TestCompileIRDump(t *testing.T) {
	src := "函数 主() -> 整数 { 如果 (真) { 返回 1; } 否则 { 返回 0; } }"
	res := Compile([]byte(src), "main.hy", defaultOpts())
	require.Equal(t, 0, res.Diagnostics.ErrorCount())
	snaps.MatchSnapshot(t, "if_else_ir_dump", res.Module.String())
}
