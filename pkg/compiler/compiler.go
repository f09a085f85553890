// Package compiler is the public facade spec.md §6 names: one exported
// function per stage (new_diagnostics/push/error_count, new_lexer/
// next_token/set_diagnostics, new_parser/set_diagnostics/parse_program,
// build_scopes, resolve_names, check_types, check_freestanding,
// generate_ir), plus a Compile convenience that runs the whole pipeline.
// This is the only layer external collaborators (an LSP server, a CLI
// driver, a build-tool plugin) are meant to import — everything under
// internal/ is implementation detail.
package compiler

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/ir"
	"github.com/huayulang/huac/internal/irgen"
	"github.com/huayulang/huac/internal/lexer"
	"github.com/huayulang/huac/internal/parser"
	"github.com/huayulang/huac/internal/scope"
	"github.com/huayulang/huac/internal/semantic"
	"github.com/huayulang/huac/internal/source"
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/pkg/config"
	"github.com/huayulang/huac/pkg/diag"
)

// Diagnostics is spec.md §6's `new_diagnostics/push/error_count` object.
type Diagnostics = diag.Sink

// NewDiagnostics returns an empty diagnostics sink.
func NewDiagnostics() *Diagnostics { return diag.New() }

// Lexer is spec.md §6's lexer handle.
type Lexer = lexer.Lexer

// NewLexer implements `new_lexer(source_bytes, filename)`.
func NewLexer(sourceBytes []byte, filename string) *Lexer {
	buf := source.New(filename, string(sourceBytes))
	return lexer.New(buf)
}

// NextToken implements `next_token(lexer, &out)`.
func NextToken(l *Lexer) token.Token { return l.NextToken() }

// SetLexerDiagnostics implements `set_diagnostics(lexer, diag)`.
func SetLexerDiagnostics(l *Lexer, sink *Diagnostics) { l.SetDiagnostics(sink) }

// Parser is spec.md §6's parser handle.
type Parser = parser.Parser

// NewParser implements `new_parser(lexer)`.
func NewParser(lex *Lexer, filename string) *Parser { return parser.New(lex, filename) }

// SetParserDiagnostics implements `set_diagnostics(parser, diag)`.
func SetParserDiagnostics(p *Parser, sink *Diagnostics) { p.SetDiagnostics(sink) }

// ParseProgram implements `parse_program(parser) → (program, ok)`.
func ParseProgram(p *Parser, sink *Diagnostics) (*ast.Program, bool) {
	before := sink.ErrorCount()
	prog := p.ParseProgram()
	return prog, sink.ErrorCount() == before
}

// BuildScopes implements `build_scopes(program, diag) → global_scope`.
func BuildScopes(prog *ast.Program, sink *Diagnostics, filename string) *scope.Scope {
	return semantic.BuildScopes(prog, sink, filename)
}

// ResolveNames implements `resolve_names(global_scope, program, diag) → ok`.
func ResolveNames(global *scope.Scope, prog *ast.Program, sink *Diagnostics, filename string) bool {
	return semantic.ResolveNames(global, prog, sink, filename)
}

// CheckTypes implements `check_types(global_scope, program, diag) → ok`.
func CheckTypes(global *scope.Scope, prog *ast.Program, sink *Diagnostics, filename string) bool {
	return semantic.CheckTypes(global, prog, sink, filename)
}

// CheckFreestanding implements `check_freestanding(program, diag, enabled) → ok`.
func CheckFreestanding(prog *ast.Program, sink *Diagnostics, filename string, enabled bool) bool {
	return semantic.CheckFreestanding(prog, sink, filename, enabled)
}

// GenerateIR implements `generate_ir(program, global_scope, target_triple,
// compile_mode) → module`.
func GenerateIR(prog *ast.Program, global *scope.Scope, target config.TargetTriple, mode config.CompileMode) *ir.Module {
	return irgen.Generate(prog, global, target.ToIR(), mode.ToIR())
}

// Result is the outcome of a full Compile run: the parsed program, its
// global scope, the generated module (nil if compilation failed before
// codegen), and the diagnostics accumulated along the way.
type Result struct {
	Program     *ast.Program
	GlobalScope *scope.Scope
	Module      *ir.Module
	Diagnostics *Diagnostics
}

// Compile runs the full pipeline over sourceBytes: lex → parse →
// build-scopes → resolve-names → check-types → check-freestanding →
// generate-ir. Each stage runs only if the stages before it added no
// errors: a stage that adds an error ends the run, so check-freestanding
// runs only after check-types succeeded, and IR is generated (Result.Module
// set) only when no stage reported an error.
func Compile(sourceBytes []byte, filename string, opts config.Options) Result {
	sink := NewDiagnostics()

	lex := NewLexer(sourceBytes, filename)
	SetLexerDiagnostics(lex, sink)

	p := NewParser(lex, filename)
	SetParserDiagnostics(p, sink)
	prog, ok := ParseProgram(p, sink)
	res := Result{Program: prog, Diagnostics: sink}
	if !ok {
		return res
	}

	global := BuildScopes(prog, sink, filename)
	res.GlobalScope = global
	if sink.ErrorCount() > 0 {
		return res
	}

	if !ResolveNames(global, prog, sink, filename) {
		return res
	}
	if !CheckTypes(global, prog, sink, filename) {
		return res
	}
	CheckFreestanding(prog, sink, filename, opts.Mode.Enabled())
	if sink.ErrorCount() > 0 {
		return res
	}

	res.Module = GenerateIR(prog, global, opts.Target, opts.Mode)
	return res
}
