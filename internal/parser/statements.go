package parser

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/internal/types"
	"github.com/huayulang/huac/pkg/diag"
)

// parseVarDecl implements the local/global var-decl surface syntax:
//
//	VAR|CONST ident (COLON type)? (ASSIGN expr)? SEMI
//
// the declared type is written after the name (inferred when absent),
// unlike the type-first CONST? type ident grammar used for struct
// fields and function parameters — spec.md §3 leaves the surface form
// of var-decl unspecified beyond its field list, and this split mirrors
// the worked example `变量 a = [1, 2, 3];` in spec.md §8 S3, which has
// no declared type at all.
func (p *Parser) parseVarDecl() *ast.VarDecl {
	pos := p.cur.Pos
	isConst := p.curIs(token.CONST)
	p.advance() // VAR or CONST

	name, ok := p.parseIdentName()
	if !ok {
		p.synchronize(statementStarters)
		return nil
	}

	v := &ast.VarDecl{Name: name, Const: isConst}
	v.At = pos

	if p.curIs(token.COLON) {
		p.advance()
		ty, ok := p.parseType()
		if ok {
			v.DeclaredType = ty
		}
	}
	if p.curIs(token.ASSIGN) {
		p.advance()
		v.Init = p.parseExpression(precAssign + 1)
	}
	p.expect(token.SEMICOLON)
	return v
}

// parseFuncPointerDecl implements spec.md §4.3's function-pointer
// declarator:
//
//	type LPAREN STAR ident RPAREN LPAREN (type (COMMA type)*)? RPAREN SEMI
//
// `整数(*回调)(整数, 整数);` declares 回调 as a local variable of type
// pointer-to-function(int,int)->int, with no initializer — a type-first
// declarator with no VAR/CONST keyword, distinct from parseVarDecl's
// ident-first grammar.
func (p *Parser) parseFuncPointerDecl() ast.Stmt {
	pos := p.cur.Pos
	ret, ok := p.parseType()
	if !ok {
		p.synchronize(statementStarters)
		return nil
	}
	if !p.expect(token.LPAREN) || !p.expect(token.STAR) {
		p.synchronize(statementStarters)
		return nil
	}
	name, ok := p.parseIdentName()
	if !ok {
		p.synchronize(statementStarters)
		return nil
	}
	if !p.expect(token.RPAREN) || !p.expect(token.LPAREN) {
		p.synchronize(statementStarters)
		return nil
	}

	var params []types.Type
	if !p.curIs(token.RPAREN) {
		for {
			pt, ok := p.parseType()
			if !ok {
				break
			}
			params = append(params, pt)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
	}
	p.expect(token.RPAREN)
	p.expect(token.SEMICOLON)

	fnType := types.Type{Kind: types.Function, Params: params, Result: &ret}
	v := &ast.VarDecl{Name: name, DeclaredType: types.PointerTo(fnType)}
	v.At = pos
	return v
}

func (p *Parser) parseBlock() *ast.Block {
	pos := p.cur.Pos
	if !p.expect(token.LBRACE) {
		return &ast.Block{}
	}
	b := &ast.Block{}
	b.At = pos
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if st := p.parseStatement(); st != nil {
			b.Stmts = append(b.Stmts, st)
		}
	}
	p.expect(token.RBRACE)
	return b
}

var blockClosers = map[token.Kind]bool{
	token.RBRACE: true, token.EOF: true,
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Kind {
	case token.VAR, token.CONST:
		if v := p.parseVarDecl(); v != nil {
			return v
		}
		return nil
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.SWITCH:
		return p.parseSwitch()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		pos := p.cur.Pos
		p.advance()
		p.expect(token.SEMICOLON)
		st := &ast.Break{}
		st.At = pos
		return st
	case token.CONTINUE:
		pos := p.cur.Pos
		p.advance()
		p.expect(token.SEMICOLON)
		st := &ast.Continue{}
		st.At = pos
		return st
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMICOLON:
		p.advance()
		return nil
	case token.INT_TYPE, token.FLOAT_TYPE, token.BOOL_TYPE, token.STRING_TYPE,
		token.VOID, token.MEMORY_ADDRESS, token.ARRAY:
		// A bare type keyword can never start an expression statement
		// (parsePrimary has no case for one), so seeing one here is
		// unambiguous: it must be a function-pointer declarator.
		return p.parseFuncPointerDecl()
	default:
		pos := p.cur.Pos
		expr := p.parseExpression(precAssign)
		p.expect(token.SEMICOLON)
		st := &ast.ExprStmt{X: expr}
		st.At = pos
		return st
	}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // IF
	p.expect(token.LPAREN)
	cond := p.parseExpression(precAssign)
	p.expect(token.RPAREN)
	then := p.parseBlock()

	st := &ast.If{Cond: cond, Then: then}
	st.At = pos

	if p.curIs(token.ELSE) {
		p.advance()
		if p.curIs(token.IF) {
			inner := p.parseIf()
			st.Else = &ast.Block{Stmts: []ast.Stmt{inner}}
		} else {
			st.Else = p.parseBlock()
		}
	}
	return st
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // WHILE
	p.expect(token.LPAREN)
	cond := p.parseExpression(precAssign)
	p.expect(token.RPAREN)
	body := p.parseBlock()
	st := &ast.While{Cond: cond, Body: body}
	st.At = pos
	return st
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // FOR
	p.expect(token.LPAREN)

	var init ast.Stmt
	if !p.curIs(token.SEMICOLON) {
		if p.curIs(token.VAR) || p.curIs(token.CONST) {
			init = p.parseVarDecl()
		} else {
			e := p.parseExpression(precAssign)
			st := &ast.ExprStmt{X: e}
			p.expect(token.SEMICOLON)
			init = st
		}
	} else {
		p.advance()
	}

	var cond ast.Expr
	if !p.curIs(token.SEMICOLON) {
		cond = p.parseExpression(precAssign)
	}
	p.expect(token.SEMICOLON)

	var update ast.Expr
	if !p.curIs(token.RPAREN) {
		update = p.parseExpression(precAssign)
	}
	p.expect(token.RPAREN)

	body := p.parseBlock()
	st := &ast.For{Init: init, Cond: cond, Update: update, Body: body}
	st.At = pos
	return st
}

func (p *Parser) parseSwitch() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // SWITCH
	p.expect(token.LPAREN)
	scrutinee := p.parseExpression(precAssign)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)

	st := &ast.Switch{Scrutinee: scrutinee}
	st.At = pos

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		switch p.cur.Kind {
		case token.CASE:
			p.advance()
			val := p.parseExpression(precAssign)
			p.expect(token.COLON)
			body := p.parseCaseBody()
			st.Cases = append(st.Cases, ast.SwitchCase{Value: val, Body: body})
		case token.DEFAULT:
			p.advance()
			p.expect(token.COLON)
			body := p.parseCaseBody()
			st.Cases = append(st.Cases, ast.SwitchCase{Value: nil, Body: body})
		default:
			p.errorf(diag.ParseInvalidStatement, "expected case or default, found %s", p.cur.Kind)
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return st
}

// parseCaseBody consumes statements until the next case/default/closing
// brace, matching C's fallthrough-free-by-convention case bodies without
// requiring an explicit nested block.
func (p *Parser) parseCaseBody() *ast.Block {
	b := &ast.Block{}
	b.At = p.cur.Pos
	for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if st := p.parseStatement(); st != nil {
			b.Stmts = append(b.Stmts, st)
		}
	}
	return b
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.cur.Pos
	p.advance() // RETURN
	st := &ast.Return{}
	st.At = pos
	if !p.curIs(token.SEMICOLON) {
		st.Value = p.parseExpression(precAssign)
	}
	p.expect(token.SEMICOLON)
	return st
}
