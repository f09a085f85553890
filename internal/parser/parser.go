// Package parser implements the recursive-descent, one-token-lookahead
// parser of spec.md §4.3. It follows the teacher's internal/parser.go
// shape — cursor/peek token pair, precedence-table-driven expression
// parsing, panic-mode synchronization at statement/declaration
// boundaries — rewritten against this language's C-like, Chinese-keyword
// grammar instead of the teacher's Pascal block grammar.
package parser

import (
	"strconv"

	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/lexer"
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/internal/types"
	"github.com/huayulang/huac/pkg/diag"
)

// precedence levels, low to high (spec.md §4.3 "Expression precedence").
const (
	_ int = iota
	precAssign
	precLogicalOr
	precLogicalAnd
	precEquality
	precRelational
	precShift
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precPrimary
)

var precedences = map[token.Kind]int{
	token.ASSIGN:   precAssign,
	token.OR_OR:    precLogicalOr,
	token.AND_AND:  precLogicalAnd,
	token.EQ:       precEquality,
	token.NEQ:      precEquality,
	token.LT:       precRelational,
	token.GT:       precRelational,
	token.LE:       precRelational,
	token.GE:       precRelational,
	token.SHL:      precShift,
	token.SHR:      precShift,
	token.PLUS:     precAdditive,
	token.MINUS:    precAdditive,
	token.STAR:     precMultiplicative,
	token.SLASH:    precMultiplicative,
	token.PERCENT:  precMultiplicative,
	token.AMP:      precMultiplicative,
	token.PIPE:     precMultiplicative,
	token.CARET:    precMultiplicative,
	token.LPAREN:   precPostfix,
	token.LBRACK:   precPostfix,
	token.DOT:      precPostfix,
	token.ARROW:    precPostfix,
	token.INC:      precPostfix,
	token.DEC:      precPostfix,
	token.QUESTION: precAssign,
}

var reservedFeatureSet = map[token.Kind]bool{
	token.CLASS:     true,
	token.INTERFACE: true,
	token.TEMPLATE:  true,
	token.NAMESPACE: true,
	token.STATIC:    true,
	token.PUBLIC:    true,
	token.PRIVATE:   true,
	token.PROTECTED: true,
	token.VIRTUAL:   true,
	token.OVERRIDE:  true,
	token.ABSTRACT:  true,
}

// Parser consumes a token stream and builds an ast.Program.
type Parser struct {
	lex      *lexer.Lexer
	diag     *diag.Sink
	filename string

	cur  token.Token
	peek token.Token
}

// New creates a Parser over lex; diagnostics go nowhere until
// SetDiagnostics is called (mirrors the lexer's two-step wiring, per
// spec.md §6).
func New(lex *lexer.Lexer, filename string) *Parser {
	p := &Parser{lex: lex, diag: diag.New(), filename: filename}
	p.cur = p.lex.NextToken()
	p.peek = p.lex.NextToken()
	return p
}

// SetDiagnostics redirects where this parser (and its lexer) push
// diagnostics.
func (p *Parser) SetDiagnostics(sink *diag.Sink) {
	p.diag = sink
	p.lex.SetDiagnostics(sink)
}

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) curIs(k token.Kind) bool  { return p.cur.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peek.Kind == k }

// expect implements spec.md §4.3's missing-token error policy: on
// mismatch, push parse_expected_token, do NOT consume, and return false
// so the caller can synchronize. On match, consume and return true.
func (p *Parser) expect(k token.Kind) bool {
	if p.curIs(k) {
		p.advance()
		return true
	}
	p.diag.Errorf(diag.ParseExpectedToken, p.filename, p.cur.Pos,
		"expected %s, found %s %q", k, p.cur.Kind, p.cur.Lexeme)
	return false
}

func (p *Parser) errorf(code diag.Code, format string, args ...any) {
	p.diag.Errorf(code, p.filename, p.cur.Pos, format, args...)
}

// synchronize advances past tokens until one of the given kinds (or EOF)
// is current, implementing panic-mode recovery at statement/declaration
// boundaries.
func (p *Parser) synchronize(stopAt map[token.Kind]bool) {
	for !p.curIs(token.EOF) && !stopAt[p.cur.Kind] {
		p.advance()
	}
}

var topLevelStarters = map[token.Kind]bool{
	token.IMPORT: true, token.MODULE: true, token.STRUCT: true, token.ENUM: true,
	token.FN: true, token.INTERRUPT_HANDLER: true, token.VAR: true, token.CONST: true,
	token.EOF: true,
}

var statementStarters = map[token.Kind]bool{
	token.VAR: true, token.CONST: true, token.IF: true, token.WHILE: true, token.FOR: true,
	token.RETURN: true, token.BREAK: true, token.CONTINUE: true, token.SWITCH: true,
	token.LBRACE: true, token.RBRACE: true, token.SEMICOLON: true, token.EOF: true,
}

// ParseProgram implements the program := (import | module | struct |
// enum | function | interrupt-handler | global-var)* grammar of
// spec.md §4.3. Returning a program with zero diagnostics requires a
// clean diagnostics sink throughout (checked by the caller, per spec.md).
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(token.EOF) {
		switch {
		case p.curIs(token.IMPORT):
			if imp := p.parseImport(); imp != nil {
				prog.Imports = append(prog.Imports, imp)
			}
		case p.curIs(token.MODULE):
			if m := p.parseModule(); m != nil {
				prog.Modules = append(prog.Modules, m)
			}
		case p.curIs(token.STRUCT):
			if s := p.parseStruct(); s != nil {
				prog.Structs = append(prog.Structs, s)
			}
		case p.curIs(token.ENUM):
			if e := p.parseEnum(); e != nil {
				prog.Enums = append(prog.Enums, e)
			}
		case p.curIs(token.FN):
			if f := p.parseFunction(); f != nil {
				prog.Functions = append(prog.Functions, f)
			}
		case p.curIs(token.INTERRUPT_HANDLER):
			if f := p.parseInterruptHandler(); f != nil {
				prog.Functions = append(prog.Functions, f)
			}
		case p.curIs(token.VAR) || p.curIs(token.CONST):
			if v := p.parseVarDecl(); v != nil {
				prog.Globals = append(prog.Globals, v)
			}
		case reservedFeatureSet[p.cur.Kind]:
			p.errorf(diag.ParseReservedFeature, "%s names an unimplemented language feature", p.cur.Kind)
			p.advance()
			p.synchronize(topLevelStarters)
		default:
			p.errorf(diag.ParseInvalidStatement, "unexpected token %s %q at top level", p.cur.Kind, p.cur.Lexeme)
			p.advance()
			p.synchronize(topLevelStarters)
		}
	}
	return prog
}

// ---- Imports ----

func (p *Parser) parseImport() *ast.Import {
	pos := p.cur.Pos
	p.advance() // IMPORT
	name, ok := p.parseIdentName()
	if !ok {
		p.synchronize(topLevelStarters)
		return nil
	}
	imp := &ast.Import{Module: name}
	imp.At = pos

	switch {
	case p.curIs(token.AS):
		p.advance()
		alias, ok := p.parseIdentName()
		if !ok {
			p.synchronize(topLevelStarters)
			return nil
		}
		imp.Kind = ast.ImportAliased
		imp.Alias = alias
	case p.curIs(token.LBRACE):
		p.advance()
		imp.Kind = ast.ImportSelective
		for {
			n, ok := p.parseIdentName()
			if !ok {
				break
			}
			imp.Names = append(imp.Names, n)
			if p.curIs(token.COMMA) {
				p.advance()
				continue
			}
			break
		}
		p.expect(token.RBRACE)
	default:
		imp.Kind = ast.ImportFull
	}

	p.expect(token.SEMICOLON)
	return imp
}

func (p *Parser) parseIdentName() (string, bool) {
	if !p.curIs(token.IDENT) {
		p.errorf(diag.ParseExpectedToken, "expected identifier, found %s %q", p.cur.Kind, p.cur.Lexeme)
		return "", false
	}
	name := p.cur.Lexeme
	p.advance()
	return name, true
}

// ---- Module ----

func (p *Parser) parseModule() *ast.ModuleDecl {
	pos := p.cur.Pos
	p.advance() // MODULE
	name, ok := p.parseIdentName()
	if !ok {
		p.synchronize(topLevelStarters)
		return nil
	}
	if !p.expect(token.LBRACE) {
		p.synchronize(topLevelStarters)
		return nil
	}

	mod := &ast.ModuleDecl{Name: name}
	mod.At = pos
	vis := ast.VisibilityDefault

	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if (p.curIs(token.PUBLIC) || p.curIs(token.PRIVATE)) && p.peekIs(token.COLON) {
			if p.curIs(token.PUBLIC) {
				vis = ast.VisibilityPublic
			} else {
				vis = ast.VisibilityPrivate
			}
			p.advance() // PUBLIC/PRIVATE
			p.advance() // COLON
			continue
		}
		switch {
		case p.curIs(token.FN):
			if f := p.parseFunction(); f != nil {
				mod.Members = append(mod.Members, ast.ModuleMember{Visibility: vis, Func: f})
			}
		case p.curIs(token.VAR) || p.curIs(token.CONST):
			if v := p.parseVarDecl(); v != nil {
				mod.Members = append(mod.Members, ast.ModuleMember{Visibility: vis, Var: v})
			}
		case elemStartsType(p.cur.Kind): // type ident (ASSIGN expr)? SEMI
			vpos := p.cur.Pos
			ty, _ := p.parseType()
			vname, ok := p.parseIdentName()
			if !ok {
				p.synchronize(statementStarters)
				continue
			}
			v := &ast.VarDecl{Name: vname, DeclaredType: ty}
			v.At = vpos
			if p.curIs(token.ASSIGN) {
				p.advance()
				v.Init = p.parseExpression(precAssign + 1)
			}
			p.expect(token.SEMICOLON)
			mod.Members = append(mod.Members, ast.ModuleMember{Visibility: vis, Var: v})
		default:
			p.errorf(diag.ParseInvalidStatement, "unexpected token %s inside module body", p.cur.Kind)
			p.advance()
		}
	}
	p.expect(token.RBRACE)
	return mod
}

// ---- Struct ----

func (p *Parser) parseStruct() *ast.StructDecl {
	pos := p.cur.Pos
	p.advance() // STRUCT
	name, ok := p.parseIdentName()
	if !ok {
		p.synchronize(topLevelStarters)
		return nil
	}
	if !p.expect(token.LBRACE) {
		p.synchronize(topLevelStarters)
		return nil
	}
	s := &ast.StructDecl{Name: name}
	s.At = pos
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		isConst := false
		if p.curIs(token.CONST) {
			isConst = true
			p.advance()
		}
		ty, ok := p.parseType()
		if !ok {
			p.synchronize(map[token.Kind]bool{token.SEMICOLON: true, token.RBRACE: true})
			p.advance()
			continue
		}
		fname, ok := p.parseIdentName()
		if !ok {
			p.synchronize(map[token.Kind]bool{token.SEMICOLON: true, token.RBRACE: true})
			continue
		}
		s.Fields = append(s.Fields, ast.StructField{Name: fname, Type: ty, Const: isConst})
		p.expect(token.SEMICOLON)
	}
	p.expect(token.RBRACE)
	return s
}

// ---- Enum ----

func (p *Parser) parseEnum() *ast.EnumDecl {
	pos := p.cur.Pos
	p.advance() // ENUM
	name, ok := p.parseIdentName()
	if !ok {
		p.synchronize(topLevelStarters)
		return nil
	}
	if !p.expect(token.LBRACE) {
		p.synchronize(topLevelStarters)
		return nil
	}
	e := &ast.EnumDecl{Name: name}
	e.At = pos

	next := int64(0)
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		mname, ok := p.parseIdentName()
		if !ok {
			p.advance()
			continue
		}
		val := next
		if p.curIs(token.ASSIGN) {
			p.advance()
			v, ok := p.parseIntConstant()
			if ok {
				val = v
			}
		}
		e.Members = append(e.Members, ast.EnumMember{Name: mname, Value: val})
		next = val + 1

		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(token.RBRACE)
	return e
}

func (p *Parser) parseIntConstant() (int64, bool) {
	if !p.curIs(token.INT) {
		p.errorf(diag.ParseInvalidExpr, "expected integer constant, found %s", p.cur.Kind)
		return 0, false
	}
	v := parseIntLexeme(p.cur.Lexeme)
	p.advance()
	return v, true
}

// ---- Function & interrupt handler ----

func (p *Parser) parseFunction() *ast.FuncDecl {
	pos := p.cur.Pos
	p.advance() // FN
	name, ok := p.parseIdentName()
	if !ok {
		p.synchronize(topLevelStarters)
		return nil
	}
	if !p.expect(token.LPAREN) {
		p.synchronize(topLevelStarters)
		return nil
	}
	params := p.parseParamList()
	p.expect(token.RPAREN)

	var ret types.Type
	if p.curIs(token.ARROW) {
		p.advance()
		t, ok := p.parseType()
		if ok {
			ret = t
		}
	} else {
		ret = types.VoidType
	}

	body := p.parseBlock()
	fn := &ast.FuncDecl{
		Name:       name,
		Params:     params,
		ReturnType: ret,
		Body:       body,
	}
	fn.At = pos
	return fn
}

func (p *Parser) parseParamList() []ast.Param {
	var params []ast.Param
	if p.curIs(token.RPAREN) {
		return params
	}
	for {
		isConst := false
		if p.curIs(token.CONST) {
			isConst = true
			p.advance()
		}
		ty, ok := p.parseType()
		if !ok {
			break
		}
		name, ok := p.parseIdentName()
		if !ok {
			break
		}
		params = append(params, ast.Param{Name: name, Type: ty, Const: isConst})
		if p.curIs(token.COMMA) {
			p.advance()
			continue
		}
		break
	}
	return params
}

func (p *Parser) parseInterruptHandler() *ast.FuncDecl {
	pos := p.cur.Pos
	p.advance() // INTERRUPT_HANDLER
	n, ok := p.parseIntConstant()
	if !ok || n < 0 || n >= 256 {
		p.errorf(diag.ParseInvalidInterrupt, "interrupt vector must be in [0,256)")
	}
	if !p.expect(token.LPAREN) {
		p.synchronize(topLevelStarters)
		return nil
	}
	p.expect(token.RPAREN)
	body := p.parseBlock()
	fn := &ast.FuncDecl{
		Name:            isrName(n),
		Body:            body,
		ReturnType:      types.VoidType,
		IsInterrupt:     true,
		InterruptVector: int(n),
	}
	fn.At = pos
	return fn
}

func isrName(n int64) string {
	return "__isr_" + strconv.FormatInt(n, 10)
}
