package lexer

import (
	"testing"

	"github.com/huayulang/huac/internal/source"
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/pkg/diag"
)

func TestNextTokenSimpleFunction(t *testing.T) {
	input := "函数 main() -> 整数 { 返回 0; }"

	tests := []struct {
		kind   token.Kind
		lexeme string
	}{
		{token.FN, "函数"},
		{token.IDENT, "main"},
		{token.LPAREN, "("},
		{token.RPAREN, ")"},
		{token.ARROW, "->"},
		{token.INT_TYPE, "整数"},
		{token.LBRACE, "{"},
		{token.RETURN, "返回"},
		{token.INT, "0"},
		{token.SEMICOLON, ";"},
		{token.RBRACE, "}"},
		{token.EOF, ""},
	}

	l := New(source.New("t.hy", input))
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("tests[%d] - kind wrong. expected=%s, got=%s (lexeme=%q)", i, tt.kind, tok.Kind, tok.Lexeme)
		}
		if tok.Lexeme != tt.lexeme {
			t.Fatalf("tests[%d] - lexeme wrong. expected=%q, got=%q", i, tt.lexeme, tok.Lexeme)
		}
	}
}

func TestKeywordsExactByteMatch(t *testing.T) {
	tests := []struct {
		lexeme string
		kind   token.Kind
	}{
		{"如果", token.IF},
		{"否则", token.ELSE},
		{"函数", token.FN},
		{"返回", token.RETURN},
		{"变量", token.VAR},
		{"整数", token.INT_TYPE},
		{"模块", token.MODULE},
		{"导入", token.IMPORT},
		{"公开", token.PUBLIC},
		{"类", token.CLASS},
		{"中断", token.BREAK},
		{"中断处理程序", token.INTERRUPT_HANDLER},
	}
	for _, tt := range tests {
		if got := token.LookupIdent(tt.lexeme); got != tt.kind {
			t.Errorf("LookupIdent(%q) = %s, want %s", tt.lexeme, got, tt.kind)
		}
	}
}

func TestNotAKeywordFallsBackToIdent(t *testing.T) {
	l := New(source.New("t.hy", "变量量"))
	tok := l.NextToken()
	if tok.Kind != token.IDENT {
		t.Fatalf("expected IDENT for non-keyword prefix overlap, got %s", tok.Kind)
	}
	if tok.Lexeme != "变量量" {
		t.Fatalf("expected full identifier lexeme, got %q", tok.Lexeme)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input  string
		kind   token.Kind
		suffix token.NumSuffix
	}{
		{"123", token.INT, token.SuffixNone},
		{"0x1F", token.INT, token.SuffixNone},
		{"0b101", token.INT, token.SuffixNone},
		{"0o17", token.INT, token.SuffixNone},
		{"3.14", token.FLOAT, token.SuffixNone},
		{"1.0e10", token.FLOAT, token.SuffixNone},
		{"1e-3", token.FLOAT, token.SuffixNone},
		{"10u", token.INT, token.SuffixUnsigned},
		{"10U", token.INT, token.SuffixUnsigned},
		{"10L", token.INT, token.SuffixLong},
		{"10LL", token.INT, token.SuffixLongLong},
		{"10UL", token.INT, token.SuffixUnsignedLong},
		{"10ULL", token.INT, token.SuffixUnsignedLongLong},
		{"10LLU", token.INT, token.SuffixUnsignedLongLong},
		{"1.5f", token.FLOAT, token.SuffixFloat32},
	}
	for _, tt := range tests {
		l := New(source.New("t.hy", tt.input))
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Errorf("input %q: kind = %s, want %s", tt.input, tok.Kind, tt.kind)
		}
		if tok.Suffix != tt.suffix {
			t.Errorf("input %q: suffix = %v, want %v", tt.input, tok.Suffix, tt.suffix)
		}
	}
}

func TestInvalidRadixLiteralReportsDiagnostic(t *testing.T) {
	sink := diag.New()
	l := New(source.New("t.hy", "0x;"))
	l.SetDiagnostics(sink)
	l.NextToken()
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", sink.ErrorCount())
	}
	if sink.All()[0].Code != diag.LexInvalidBaseHex {
		t.Fatalf("expected LexInvalidBaseHex, got %v", sink.All()[0].Code)
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	l := New(source.New("t.hy", `"a\nb\tc\"d"`))
	tok := l.NextToken()
	if tok.Kind != token.STRING {
		t.Fatalf("expected STRING, got %s", tok.Kind)
	}
	want := "a\nb\tc\"d"
	if tok.Lexeme != want {
		t.Fatalf("got %q, want %q", tok.Lexeme, want)
	}
}

func TestUnterminatedStringReportsDiagnostic(t *testing.T) {
	sink := diag.New()
	l := New(source.New("t.hy", `"abc`))
	l.SetDiagnostics(sink)
	l.NextToken()
	if sink.ErrorCount() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", sink.ErrorCount())
	}
	if sink.All()[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected LexUnterminatedString, got %v", sink.All()[0].Code)
	}
}

func TestLineCommentsAreSkipped(t *testing.T) {
	l := New(source.New("t.hy", "// 这是注释\n变量 x;"))
	tok := l.NextToken()
	if tok.Kind != token.VAR {
		t.Fatalf("expected VAR after comment, got %s", tok.Kind)
	}
}

func TestMaximalMunchOperators(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"==", token.EQ}, {"!=", token.NEQ}, {"<=", token.LE}, {">=", token.GE},
		{"<<", token.SHL}, {">>", token.SHR}, {"&&", token.AND_AND}, {"||", token.OR_OR},
		{"++", token.INC}, {"--", token.DEC}, {"->", token.ARROW},
	}
	for _, tt := range tests {
		l := New(source.New("t.hy", tt.input))
		tok := l.NextToken()
		if tok.Kind != tt.kind {
			t.Errorf("input %q: kind = %s, want %s", tt.input, tok.Kind, tt.kind)
		}
		if eof := l.NextToken(); eof.Kind != token.EOF {
			t.Errorf("input %q: expected single token then EOF, got extra %s", tt.input, eof.Kind)
		}
	}
}

func TestPositionTrackingByteColumns(t *testing.T) {
	l := New(source.New("t.hy", "ab\ncd"))
	first := l.NextToken()
	if first.Pos.Line != 1 || first.Pos.Column != 1 {
		t.Fatalf("expected 1:1, got %s", first.Pos)
	}
	second := l.NextToken()
	if second.Pos.Line != 2 || second.Pos.Column != 1 {
		t.Fatalf("expected 2:1, got %s", second.Pos)
	}
}

// TestLexerIdempotence exercises spec.md §8 testable property 1: re-lexing
// the same buffer from scratch always yields the same token stream.
func TestLexerIdempotence(t *testing.T) {
	input := "函数 add(变量 a: 整数, 变量 b: 整数) -> 整数 { 返回 a + b; }"

	collect := func() []token.Token {
		l := New(source.New("t.hy", input))
		var toks []token.Token
		for {
			tok := l.NextToken()
			toks = append(toks, tok)
			if tok.Kind == token.EOF {
				break
			}
		}
		return toks
	}

	a := collect()
	b := collect()
	if len(a) != len(b) {
		t.Fatalf("token stream length differs: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Kind != b[i].Kind || a[i].Lexeme != b[i].Lexeme {
			t.Fatalf("token %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestPeekLookahead(t *testing.T) {
	l := New(source.New("t.hy", "a + b"))
	if p := l.Peek(2); p.Kind != token.IDENT || p.Lexeme != "b" {
		t.Fatalf("Peek(2) = %v, want IDENT b", p)
	}
	first := l.NextToken()
	if first.Lexeme != "a" {
		t.Fatalf("NextToken() = %v, want a", first)
	}
}
