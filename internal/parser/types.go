package parser

import (
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/internal/types"
	"github.com/huayulang/huac/pkg/diag"
)

// parseType implements spec.md §4.3's type grammar:
//
//	type := (INT|FLOAT|BOOL|STRING|VOID|MEMORY_ADDRESS|ARRAY element?
//	         |ident) STAR*
//
// Trailing stars layer pointer wrappers around the base type. Postfix
// `[N]` or `[]` dimensions written after the type are parsed here as well
// and wrap the result in arrays (see below).
func (p *Parser) parseType() (types.Type, bool) {
	var base types.Type

	switch p.cur.Kind {
	case token.INT_TYPE:
		base = types.IntType
		p.advance()
	case token.FLOAT_TYPE:
		base = types.FloatType
		p.advance()
	case token.BOOL_TYPE:
		base = types.BoolType
		p.advance()
	case token.STRING_TYPE:
		base = types.StringType
		p.advance()
	case token.VOID:
		base = types.VoidType
		p.advance()
	case token.MEMORY_ADDRESS:
		base = types.MemAddrType
		p.advance()
	case token.ARRAY:
		p.advance()
		if elemStartsType(p.cur.Kind) {
			elem, ok := p.parseType()
			if !ok {
				return types.Type{}, false
			}
			base = types.ArrayOf(elem, 0)
		} else {
			base = types.ArrayOf(types.IntType, 0)
		}
	case token.IDENT:
		// Forward reference to a struct or enum name; the semantic
		// analyzer resolves the exact kind once scopes are built.
		base = types.Type{Kind: types.Struct, Name: p.cur.Lexeme}
		p.advance()
	default:
		p.errorf(diag.ParseInvalidType, "expected a type, found %s %q", p.cur.Kind, p.cur.Lexeme)
		return types.Type{}, false
	}

	for p.curIs(token.STAR) {
		p.advance()
		base = types.PointerTo(base)
	}

	// Postfix `[N]` or `[]` dimensions, applied innermost-to-outermost per
	// spec.md §4.3 (`int a[3][4]` is array(3, array(4, int))).
	var dims []int
	for p.curIs(token.LBRACK) {
		p.advance()
		n := 0
		if p.curIs(token.INT) {
			n = int(parseIntLexeme(p.cur.Lexeme))
			p.advance()
		}
		dims = append(dims, n)
		if !p.expect(token.RBRACK) {
			break
		}
	}
	for i := len(dims) - 1; i >= 0; i-- {
		base = types.ArrayOf(base, dims[i])
	}

	return base, true
}

func elemStartsType(k token.Kind) bool {
	switch k {
	case token.INT_TYPE, token.FLOAT_TYPE, token.BOOL_TYPE, token.STRING_TYPE,
		token.VOID, token.MEMORY_ADDRESS, token.ARRAY, token.IDENT:
		return true
	default:
		return false
	}
}

// parseIntLexeme parses an integer-literal lexeme (as produced by the
// lexer: decimal, or 0x/0b/0o prefixed) into its int64 value. Malformed
// lexemes (already reported by the lexer) parse as 0.
func parseIntLexeme(lexeme string) int64 {
	if len(lexeme) > 2 && lexeme[0] == '0' {
		switch lexeme[1] {
		case 'x', 'X':
			return parseRadix(lexeme[2:], 16)
		case 'b', 'B':
			return parseRadix(lexeme[2:], 2)
		case 'o', 'O':
			return parseRadix(lexeme[2:], 8)
		}
	}
	return parseRadix(lexeme, 10)
}

func parseRadix(digits string, radix int64) int64 {
	var v int64
	for i := 0; i < len(digits); i++ {
		d := digitValue(digits[i])
		if d < 0 || int64(d) >= radix {
			continue
		}
		v = v*radix + int64(d)
	}
	return v
}

func digitValue(b byte) int {
	switch {
	case '0' <= b && b <= '9':
		return int(b - '0')
	case 'a' <= b && b <= 'f':
		return int(b-'a') + 10
	case 'A' <= b && b <= 'F':
		return int(b-'A') + 10
	default:
		return -1
	}
}
