package parser

import (
	"strconv"

	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/pkg/diag"
)

// parseExpression implements the precedence-climbing half of spec.md
// §4.3's expression grammar (assignment, right-assoc, down to ternary,
// logical, and binary operators). Prefix and postfix operators are
// handled inside parseUnary/parsePostfixLoop, which bind tighter than
// anything reached here.
func (p *Parser) parseExpression(minPrec int) ast.Expr {
	left := p.parseUnary()

	for {
		prec, ok := precedences[p.cur.Kind]
		if !ok || prec < minPrec || prec >= precPostfix {
			break
		}
		switch p.cur.Kind {
		case token.ASSIGN:
			pos := p.cur.Pos
			p.advance()
			right := p.parseExpression(precAssign)
			a := &ast.Assign{Target: left, Value: right}
			a.At = pos
			left = a
		case token.QUESTION:
			left = p.parseTernaryTail(left)
		case token.OR_OR, token.AND_AND:
			left = p.parseLogicalTail(left, p.cur.Kind, prec)
		default:
			left = p.parseBinaryTail(left, p.cur.Kind, prec)
		}
	}
	return left
}

func (p *Parser) parseTernaryTail(cond ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // '?'
	thenE := p.parseExpression(precLogicalOr)
	p.expect(token.COLON)
	elseE := p.parseExpression(precAssign)
	t := &ast.Ternary{Cond: cond, Then: thenE, Else: elseE}
	t.At = pos
	return t
}

func (p *Parser) parseLogicalTail(left ast.Expr, kind token.Kind, prec int) ast.Expr {
	pos := p.cur.Pos
	p.advance()
	right := p.parseExpression(prec + 1)
	op := ast.LogicalAnd
	if kind == token.OR_OR {
		op = ast.LogicalOr
	}
	l := &ast.Logical{Op: op, Left: left, Right: right}
	l.At = pos
	return l
}

var binaryOps = map[token.Kind]ast.BinaryOp{
	token.PLUS: ast.OpAdd, token.MINUS: ast.OpSub, token.STAR: ast.OpMul,
	token.SLASH: ast.OpDiv, token.PERCENT: ast.OpMod,
	token.EQ: ast.OpEq, token.NEQ: ast.OpNe,
	token.LT: ast.OpLt, token.GT: ast.OpGt, token.LE: ast.OpLe, token.GE: ast.OpGe,
	token.AMP: ast.OpBitAnd, token.PIPE: ast.OpBitOr, token.CARET: ast.OpBitXor,
	token.SHL: ast.OpShl, token.SHR: ast.OpShr,
}

func (p *Parser) parseBinaryTail(left ast.Expr, kind token.Kind, prec int) ast.Expr {
	pos := p.cur.Pos
	p.advance()
	right := p.parseExpression(prec + 1) // left-associative
	b := &ast.Binary{Op: binaryOps[kind], Left: left, Right: right}
	b.At = pos
	return b
}

// parseUnary implements spec.md §4.3's unary-prefix level: !, ~, -, &,
// *, ++, -- (the latter two as pre-increment/pre-decrement), then falls
// through to postfix/primary.
func (p *Parser) parseUnary() ast.Expr {
	pos := p.cur.Pos
	switch p.cur.Kind {
	case token.BANG:
		p.advance()
		u := &ast.Unary{Op: ast.OpNot, Operand: p.parseUnary()}
		u.At = pos
		return u
	case token.TILDE:
		p.advance()
		u := &ast.Unary{Op: ast.OpBitNot, Operand: p.parseUnary()}
		u.At = pos
		return u
	case token.MINUS:
		p.advance()
		u := &ast.Unary{Op: ast.OpNeg, Operand: p.parseUnary()}
		u.At = pos
		return u
	case token.AMP:
		p.advance()
		u := &ast.Unary{Op: ast.OpAddrOf, Operand: p.parseUnary()}
		u.At = pos
		return u
	case token.STAR:
		p.advance()
		u := &ast.Unary{Op: ast.OpDeref, Operand: p.parseUnary()}
		u.At = pos
		return u
	case token.INC:
		p.advance()
		u := &ast.Unary{Op: ast.OpIncr, Operand: p.parseUnary()}
		u.At = pos
		return u
	case token.DEC:
		p.advance()
		u := &ast.Unary{Op: ast.OpDecr, Operand: p.parseUnary()}
		u.At = pos
		return u
	default:
		return p.parsePostfixLoop(p.parsePrimary())
	}
}

// parsePostfixLoop implements spec.md §4.3's postfix level: call, index,
// `.`/`->` member access, and post-increment/decrement.
func (p *Parser) parsePostfixLoop(left ast.Expr) ast.Expr {
	for {
		switch p.cur.Kind {
		case token.LPAREN:
			left = p.parseCallTail(left)
		case token.LBRACK:
			left = p.parseIndexTail(left)
		case token.DOT:
			left = p.parseMemberTail(left, false)
		case token.ARROW:
			left = p.parseMemberTail(left, true)
		case token.INC:
			pos := p.cur.Pos
			p.advance()
			u := &ast.Unary{Op: ast.OpIncr, Operand: left, Postfix: true}
			u.At = pos
			left = u
		case token.DEC:
			pos := p.cur.Pos
			p.advance()
			u := &ast.Unary{Op: ast.OpDecr, Operand: left, Postfix: true}
			u.At = pos
			left = u
		default:
			return left
		}
	}
}

func (p *Parser) parseCallTail(callee ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // '('
	var args []ast.Expr
	if !p.curIs(token.RPAREN) {
		for {
			args = append(args, p.parseExpression(precAssign))
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	c := &ast.Call{Callee: callee, Args: args}
	c.At = pos
	return c
}

func (p *Parser) parseIndexTail(base ast.Expr) ast.Expr {
	pos := p.cur.Pos
	p.advance() // '['
	idx := p.parseExpression(precAssign)
	p.expect(token.RBRACK)
	i := &ast.Index{Base: base, Index: idx}
	i.At = pos
	return i
}

func (p *Parser) parseMemberTail(base ast.Expr, arrow bool) ast.Expr {
	pos := p.cur.Pos
	p.advance() // '.' or '->'
	name, _ := p.parseIdentName()
	m := &ast.Member{Base: base, Name: name, Arrow: arrow}
	m.At = pos
	return m
}

// ---- Primary ----

var intrinsicArgCounts = map[token.Kind]int{
	token.READ_MEMORY:   1,
	token.WRITE_MEMORY:  2,
	token.MEMORY_COPY:   3,
	token.MEMORY_SET:    3,
	token.MAP_MEMORY:    2,
	token.UNMAP_MEMORY:  2,
}

var intrinsicKinds = map[token.Kind]ast.IntrinsicKind{
	token.READ_MEMORY:  ast.IntrinsicReadMemory,
	token.WRITE_MEMORY: ast.IntrinsicWriteMemory,
	token.MEMORY_COPY:  ast.IntrinsicMemoryCopy,
	token.MEMORY_SET:   ast.IntrinsicMemorySet,
	token.MAP_MEMORY:   ast.IntrinsicMapMemory,
	token.UNMAP_MEMORY: ast.IntrinsicUnmapMemory,
}

func (p *Parser) parsePrimary() ast.Expr {
	pos := p.cur.Pos

	switch p.cur.Kind {
	case token.INT:
		v := parseIntLexeme(p.cur.Lexeme)
		suffix := p.cur.Suffix
		p.advance()
		lit := &ast.IntLiteral{Value: v, Suffix: suffix}
		lit.At = pos
		return lit
	case token.FLOAT:
		v, _ := strconv.ParseFloat(p.cur.Lexeme, 64)
		suffix := p.cur.Suffix
		p.advance()
		lit := &ast.FloatLiteral{Value: v, Suffix: suffix}
		lit.At = pos
		return lit
	case token.STRING:
		v := p.cur.Lexeme
		p.advance()
		lit := &ast.StringLiteral{Value: v}
		lit.At = pos
		return lit
	case token.TRUE:
		p.advance()
		lit := &ast.BoolLiteral{Value: true}
		lit.At = pos
		return lit
	case token.FALSE:
		p.advance()
		lit := &ast.BoolLiteral{Value: false}
		lit.At = pos
		return lit
	case token.NULL:
		p.advance()
		lit := &ast.NullLiteral{}
		lit.At = pos
		return lit
	case token.LPAREN:
		p.advance()
		e := p.parseExpression(precAssign)
		p.expect(token.RPAREN)
		return e
	case token.LBRACK:
		return p.parseArrayLiteral()
	case token.INLINE_ASM:
		return p.parseInlineAsm()
	case token.READ_MEMORY, token.WRITE_MEMORY, token.MEMORY_COPY,
		token.MEMORY_SET, token.MAP_MEMORY, token.UNMAP_MEMORY:
		return p.parseIntrinsicCall()
	case token.IDENT:
		name := p.cur.Lexeme
		p.advance()
		if p.curIs(token.LBRACE) {
			return p.parseStructLiteralTail(name, pos)
		}
		id := &ast.Ident{Name: name}
		id.At = pos
		return id
	default:
		p.errorf(diag.ParseInvalidExpr, "unexpected token %s %q in expression", p.cur.Kind, p.cur.Lexeme)
		p.advance()
		null := &ast.NullLiteral{}
		null.At = pos
		return null
	}
}

func (p *Parser) parseArrayLiteral() ast.Expr {
	pos := p.cur.Pos
	p.advance() // '['
	lit := &ast.ArrayLiteral{}
	lit.At = pos
	if !p.curIs(token.RBRACK) {
		for {
			lit.Elements = append(lit.Elements, p.parseExpression(precAssign))
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RBRACK)
	return lit
}

func (p *Parser) parseStructLiteralTail(typeName string, pos token.Position) ast.Expr {
	p.advance() // '{'
	lit := &ast.StructLiteral{TypeName: typeName}
	lit.At = pos
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		fname, ok := p.parseIdentName()
		if !ok {
			break
		}
		p.expect(token.COLON)
		value := p.parseExpression(precAssign)
		lit.Fields = append(lit.Fields, ast.StructFieldInit{Name: fname, Value: value})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return lit
}

func (p *Parser) parseIntrinsicCall() ast.Expr {
	pos := p.cur.Pos
	kind := p.cur.Kind
	want := intrinsicArgCounts[kind]
	p.advance()
	p.expect(token.LPAREN)

	intr := &ast.Intrinsic{Kind: intrinsicKinds[kind]}
	intr.At = pos
	for i := 0; i < want; i++ {
		if i > 0 {
			p.expect(token.COMMA)
		}
		intr.Args = append(intr.Args, p.parseExpression(precAssign))
	}
	p.expect(token.RPAREN)
	return intr
}

func (p *Parser) parseInlineAsm() ast.Expr {
	pos := p.cur.Pos
	p.advance() // INLINE_ASM
	p.expect(token.LPAREN)
	text := ""
	if p.curIs(token.STRING) {
		text = p.cur.Lexeme
		p.advance()
	} else {
		p.errorf(diag.ParseInvalidExpr, "inline_asm requires a string literal argument")
	}
	p.expect(token.RPAREN)
	intr := &ast.Intrinsic{Kind: ast.IntrinsicInlineAsm, AsmText: text}
	intr.At = pos
	return intr
}
