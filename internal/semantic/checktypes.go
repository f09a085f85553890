package semantic

import (
	"github.com/huayulang/huac/internal/ast"
	"github.com/huayulang/huac/internal/scope"
	"github.com/huayulang/huac/internal/token"
	"github.com/huayulang/huac/internal/types"
	"github.com/huayulang/huac/pkg/diag"
)

// checker carries the state check-types threads through a single AST walk:
// the global scope tree (for struct-literal type lookups) and the
// return type of whichever function body is currently being checked.
type checker struct {
	global  *scope.Scope
	sink    *diag.Sink
	file    string
	retType *types.Type // nil outside a function body
}

// CheckTypes implements spec.md §4.4.3: synthesizes and stores a type on
// every expression node and validates every statement-level typing rule.
func CheckTypes(global *scope.Scope, prog *ast.Program, sink *diag.Sink, filename string) bool {
	before := sink.ErrorCount()
	c := &checker{global: global, sink: sink, file: filename}

	for _, g := range prog.Globals {
		c.checkVarDecl(global, g)
	}
	for _, m := range prog.Modules {
		inner := moduleInnerScope(global, m.Name)
		for _, mem := range m.Members {
			switch {
			case mem.Func != nil:
				c.checkFunction(inner, mem.Func)
			case mem.Var != nil:
				c.checkVarDecl(inner, mem.Var)
			}
		}
	}
	for _, f := range prog.Functions {
		c.checkFunction(global, f)
	}

	return sink.ErrorCount() == before
}

func (c *checker) checkFunction(parent *scope.Scope, f *ast.FuncDecl) {
	fnScope := scope.New(scope.FunctionScope, parent)
	for _, p := range f.Params {
		fnScope.Define(&scope.Symbol{Name: p.Name, Kind: scope.Variable, Type: p.Type, Const: p.Const})
	}
	rt := f.ReturnType
	prevRet := c.retType
	c.retType = &rt
	c.checkBlock(fnScope, f.Body, false)
	c.retType = prevRet
}

func (c *checker) checkBlock(parent *scope.Scope, b *ast.Block, isLoop bool) *scope.Scope {
	s := scope.New(scope.BlockScope, parent)
	if isLoop {
		s.MarkLoop()
	}
	for _, st := range b.Stmts {
		c.checkStmt(s, st)
	}
	return s
}

func (c *checker) checkVarDecl(s *scope.Scope, v *ast.VarDecl) {
	var initType types.Type
	hasInit := v.Init != nil
	if hasInit {
		initType = c.checkExpr(s, v.Init)
	}
	declared := v.DeclaredType
	hasDeclared := declared.Kind != types.Invalid

	switch {
	case hasDeclared && hasInit:
		if !types.Compatible(declared, initType, false, isNullExpr(v.Init)) {
			c.errf(v.Pos(), diag.SemTypeMismatch, "cannot initialize %q of type %s with value of type %s", v.Name, declared, initType)
		}
	case hasInit:
		v.DeclaredType = initType
	}

	if s.IsDeclaredHere(v.Name) {
		// Already inserted by build-scopes for globals/module members; give
		// that symbol the inferred type when build-scopes had none to record.
		if sym, _ := s.Resolve(v.Name); sym.Type.Kind == types.Invalid {
			sym.Type = v.DeclaredType
		}
		return
	}
	s.Define(&scope.Symbol{Name: v.Name, Kind: scope.Variable, Type: v.DeclaredType, Const: v.Const})
}

func (c *checker) checkStmt(s *scope.Scope, st ast.Stmt) {
	switch n := st.(type) {
	case *ast.VarDecl:
		c.checkVarDecl(s, n)
	case *ast.ExprStmt:
		c.checkExpr(s, n.X)
	case *ast.Return:
		var got types.Type
		if n.Value != nil {
			got = c.checkExpr(s, n.Value)
		} else {
			got = types.VoidType
		}
		if c.retType != nil && !types.Compatible(*c.retType, got, false, n.Value != nil && isNullExpr(n.Value)) {
			c.errf(n.Pos(), diag.SemInvalidReturn, "return type %s incompatible with declared return type %s", got, *c.retType)
		}
	case *ast.If:
		c.checkExpr(s, n.Cond)
		c.checkBlock(s, n.Then, false)
		if n.Else != nil {
			c.checkBlock(s, n.Else, false)
		}
	case *ast.While:
		c.checkExpr(s, n.Cond)
		c.checkBlock(s, n.Body, true)
	case *ast.For:
		forScope := scope.New(scope.BlockScope, s)
		if n.Init != nil {
			c.checkStmt(forScope, n.Init)
		}
		if n.Cond != nil {
			c.checkExpr(forScope, n.Cond)
		}
		if n.Update != nil {
			c.checkExpr(forScope, n.Update)
		}
		c.checkBlock(forScope, n.Body, true)
	case *ast.Switch:
		scrut := c.checkExpr(s, n.Scrutinee)
		sawDefault := false
		seen := map[int64]bool{}
		for _, cs := range n.Cases {
			if cs.Value == nil {
				if sawDefault {
					c.errf(n.Pos(), diag.SemMultipleDefault, "switch has more than one default case")
				}
				sawDefault = true
			} else {
				vt := c.checkExpr(s, cs.Value)
				if !types.Compatible(scrut, vt, false, isNullExpr(cs.Value)) {
					c.errf(cs.Value.Pos(), diag.SemTypeMismatch, "case value of type %s incompatible with scrutinee type %s", vt, scrut)
				}
				if lit, ok := cs.Value.(*ast.IntLiteral); ok {
					if seen[lit.Value] {
						c.warnf(cs.Value.Pos(), diag.SemDuplicateCase, "duplicate case value %d", lit.Value)
					}
					seen[lit.Value] = true
				}
			}
			c.checkBlock(s, cs.Body, false)
		}
	case *ast.Break:
		if !s.InLoop() {
			c.errf(n.Pos(), diag.SemBreakContinueOutsideLoop, "break outside a loop")
		}
	case *ast.Continue:
		if !s.InLoop() {
			c.errf(n.Pos(), diag.SemBreakContinueOutsideLoop, "continue outside a loop")
		}
	case *ast.Block:
		c.checkBlock(s, n, false)
	}
}

func (c *checker) checkExpr(s *scope.Scope, e ast.Expr) types.Type {
	t := c.synthesize(s, e)
	e.SetType(t)
	return t
}

func (c *checker) synthesize(s *scope.Scope, e ast.Expr) types.Type {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return types.IntType
	case *ast.FloatLiteral:
		return types.FloatType
	case *ast.BoolLiteral:
		return types.BoolType
	case *ast.StringLiteral:
		return types.StringType
	case *ast.NullLiteral:
		return types.PointerTo(types.Type{Kind: types.Invalid})
	case *ast.Ident:
		sym, ok := s.Resolve(n.Name)
		if !ok {
			return types.Type{Kind: types.Invalid}
		}
		return sym.Type
	case *ast.Binary:
		return c.checkBinary(s, n)
	case *ast.Logical:
		lt := c.checkExpr(s, n.Left)
		rt := c.checkExpr(s, n.Right)
		if !isBoolConvertible(lt) || !isBoolConvertible(rt) {
			c.errf(n.Pos(), diag.SemInvalidBinary, "logical operands must be bool-convertible, got %s and %s", lt, rt)
		}
		return types.BoolType
	case *ast.Unary:
		return c.checkUnary(s, n)
	case *ast.Ternary:
		c.checkExpr(s, n.Cond)
		tt := c.checkExpr(s, n.Then)
		et := c.checkExpr(s, n.Else)
		if !types.Compatible(tt, et, isNullExpr(n.Then), isNullExpr(n.Else)) {
			c.errf(n.Pos(), diag.SemTypeMismatch, "ternary branches have incompatible types %s and %s", tt, et)
		}
		return tt
	case *ast.Assign:
		return c.checkAssign(s, n)
	case *ast.Call:
		return c.checkCall(s, n)
	case *ast.Index:
		return c.checkIndex(s, n)
	case *ast.Member:
		return c.checkMember(s, n)
	case *ast.StructLiteral:
		return c.checkStructLiteral(s, n)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(s, n)
	case *ast.Intrinsic:
		return c.checkIntrinsic(s, n)
	}
	return types.Type{Kind: types.Invalid}
}

func (c *checker) checkBinary(s *scope.Scope, n *ast.Binary) types.Type {
	lt := c.checkExpr(s, n.Left)
	rt := c.checkExpr(s, n.Right)

	switch n.Op {
	case ast.OpEq, ast.OpNe, ast.OpLt, ast.OpGt, ast.OpLe, ast.OpGe:
		if !types.Compatible(lt, rt, isNullExpr(n.Left), isNullExpr(n.Right)) {
			c.errf(n.Pos(), diag.SemInvalidBinary, "comparison operands have incompatible types %s and %s", lt, rt)
		}
		return types.BoolType
	case ast.OpAdd:
		if lt.Kind == types.String || rt.Kind == types.String {
			if !lt.IsNumeric() && lt.Kind != types.String && lt.Kind != types.Bool {
				c.errf(n.Left.Pos(), diag.SemInvalidBinary, "cannot concatenate value of type %s", lt)
			}
			if !rt.IsNumeric() && rt.Kind != types.String && rt.Kind != types.Bool {
				c.errf(n.Right.Pos(), diag.SemInvalidBinary, "cannot concatenate value of type %s", rt)
			}
			return types.StringType
		}
		if res := c.arithmeticResult(lt, rt); res.Kind != types.Invalid {
			return res
		}
		c.errf(n.Pos(), diag.SemInvalidBinary, "arithmetic operands must be numeric, got %s and %s", lt, rt)
		return types.Type{Kind: types.Invalid}
	case ast.OpSub, ast.OpMul, ast.OpDiv, ast.OpMod:
		if res := c.arithmeticResult(lt, rt); res.Kind != types.Invalid {
			return res
		}
		c.errf(n.Pos(), diag.SemInvalidBinary, "arithmetic operands must be numeric, got %s and %s", lt, rt)
		return types.Type{Kind: types.Invalid}
	case ast.OpBitAnd, ast.OpBitOr, ast.OpBitXor, ast.OpShl, ast.OpShr:
		if lt.Kind != types.Int || rt.Kind != types.Int {
			c.errf(n.Pos(), diag.SemInvalidBinary, "bitwise operands must be int, got %s and %s", lt, rt)
		}
		return types.IntType
	}
	return types.Type{Kind: types.Invalid}
}

func (c *checker) arithmeticResult(lt, rt types.Type) types.Type {
	if !lt.IsNumeric() || !rt.IsNumeric() {
		return types.Type{Kind: types.Invalid}
	}
	if lt.Kind == types.Float || rt.Kind == types.Float {
		return types.FloatType
	}
	return types.IntType
}

func (c *checker) checkUnary(s *scope.Scope, n *ast.Unary) types.Type {
	ot := c.checkExpr(s, n.Operand)
	switch n.Op {
	case ast.OpNot:
		if !isBoolConvertible(ot) {
			c.errf(n.Pos(), diag.SemInvalidUnary, "! requires a bool or numeric operand, got %s", ot)
		}
		return types.BoolType
	case ast.OpNeg, ast.OpBitNot:
		if !ot.IsNumeric() {
			c.errf(n.Pos(), diag.SemInvalidUnary, "unary operator requires a numeric operand, got %s", ot)
		}
		return ot
	case ast.OpAddrOf:
		if !isIdent(n.Operand) {
			c.errf(n.Pos(), diag.SemNotLvalue, "& requires an identifier operand")
		}
		return types.PointerTo(ot)
	case ast.OpDeref:
		if ot.Kind != types.Pointer {
			c.errf(n.Pos(), diag.SemInvalidUnary, "* requires a pointer operand, got %s", ot)
			return types.Type{Kind: types.Invalid}
		}
		if ot.Elem != nil {
			return *ot.Elem
		}
		return types.Type{Kind: types.Invalid}
	case ast.OpIncr, ast.OpDecr:
		if !ot.IsNumeric() {
			c.errf(n.Pos(), diag.SemInvalidUnary, "++/-- requires a numeric lvalue, got %s", ot)
		}
		if !isLvalue(n.Operand) {
			c.errf(n.Pos(), diag.SemNotLvalue, "++/-- requires an lvalue operand")
		}
		return ot
	}
	return ot
}

func (c *checker) checkAssign(s *scope.Scope, n *ast.Assign) types.Type {
	tt := c.checkExpr(s, n.Target)
	vt := c.checkExpr(s, n.Value)
	if !isLvalue(n.Target) {
		c.errf(n.Pos(), diag.SemNotLvalue, "assignment target is not an lvalue")
		return tt
	}
	if isConstTarget(s, n.Target) {
		c.errf(n.Pos(), diag.SemAssignToConst, "cannot assign to a const value")
	}
	if !types.Compatible(tt, vt, false, isNullExpr(n.Value)) {
		c.errf(n.Pos(), diag.SemTypeMismatch, "cannot assign value of type %s to target of type %s", vt, tt)
	}
	return tt
}

func (c *checker) checkCall(s *scope.Scope, n *ast.Call) types.Type {
	if id, ok := n.Callee.(*ast.Ident); ok && builtinNames[id.Name] {
		argTypes := make([]types.Type, len(n.Args))
		for i, a := range n.Args {
			argTypes[i] = c.checkExpr(s, a)
		}
		return c.checkBuiltinArgs(n.Pos(), id.Name, argTypes)
	}
	if mem, ok := n.Callee.(*ast.Member); ok && !mem.Arrow && builtinMethodNames[mem.Name] && len(n.Args) == 0 {
		baseType := c.checkExpr(s, mem.Base)
		return c.checkBuiltinArgs(n.Pos(), mem.Name, []types.Type{baseType})
	}

	ct := c.checkExpr(s, n.Callee)
	if ct.Kind != types.Function {
		c.errf(n.Pos(), diag.SemNotAFunction, "cannot call a value of type %s", ct)
		for _, a := range n.Args {
			c.checkExpr(s, a)
		}
		return types.Type{Kind: types.Invalid}
	}
	if len(n.Args) != len(ct.Params) {
		c.errf(n.Pos(), diag.SemArgumentCountMismatch, "expected %d argument(s), got %d", len(ct.Params), len(n.Args))
	}
	for i, a := range n.Args {
		at := c.checkExpr(s, a)
		if i < len(ct.Params) && !types.Compatible(ct.Params[i], at, false, isNullExpr(a)) {
			c.errf(a.Pos(), diag.SemTypeMismatch, "argument %d: expected %s, got %s", i+1, ct.Params[i], at)
		}
	}
	if ct.Result != nil {
		return *ct.Result
	}
	return types.VoidType
}

// checkBuiltinArgs validates a call (function- or method-style) to
// 长度/打印 (spec.md §4.4.3 "Built-in length function").
func (c *checker) checkBuiltinArgs(pos token.Position, name string, argTypes []types.Type) types.Type {
	switch name {
	case builtinLength:
		if len(argTypes) != 1 {
			c.sink.Errorf(diag.SemArgumentCountMismatch, c.file, pos, "%s expects exactly 1 argument, got %d", builtinLength, len(argTypes))
			return types.IntType
		}
		t := argTypes[0]
		if t.Kind != types.Array && t.Kind != types.String {
			c.sink.Errorf(diag.SemTypeMismatch, c.file, pos, "%s expects an array or string argument, got %s", builtinLength, t)
		}
		return types.IntType
	case builtinPrint:
		if len(argTypes) != 1 {
			c.sink.Errorf(diag.SemArgumentCountMismatch, c.file, pos, "%s expects exactly 1 argument, got %d", builtinPrint, len(argTypes))
		}
		return types.VoidType
	}
	return types.Type{Kind: types.Invalid}
}

func (c *checker) checkIndex(s *scope.Scope, n *ast.Index) types.Type {
	bt := c.checkExpr(s, n.Base)
	it := c.checkExpr(s, n.Index)
	if it.Kind != types.Int {
		c.errf(n.Pos(), diag.SemInvalidIndex, "index must be of type int, got %s", it)
	}
	switch bt.Kind {
	case types.Array, types.Pointer:
		if bt.Elem != nil {
			return *bt.Elem
		}
		return types.Type{Kind: types.Invalid}
	default:
		c.errf(n.Pos(), diag.SemInvalidIndex, "cannot index a value of type %s", bt)
		return types.Type{Kind: types.Invalid}
	}
}

func (c *checker) checkMember(s *scope.Scope, n *ast.Member) types.Type {
	if id, ok := n.Base.(*ast.Ident); ok {
		if sym, found := s.Resolve(id.Name); found {
			switch sym.Kind {
			case scope.ModuleSym, scope.ImportAliasSym:
				inner := sym.Inner
				msym, ok := inner.Resolve(n.Name)
				if !ok {
					c.errf(n.Pos(), diag.SemUnknownField, "module has no member %q", n.Name)
					return types.Type{Kind: types.Invalid}
				}
				if msym.Visibility != scope.VisPublic {
					c.errf(n.Pos(), diag.SemPrivateAccess, "%q is private", n.Name)
				}
				return msym.Type
			case scope.EnumSym:
				for _, m := range sym.Type.Members {
					if m.Name == n.Name {
						return sym.Type
					}
				}
				c.errf(n.Pos(), diag.SemUnknownField, "enum %q has no member %q", id.Name, n.Name)
				return types.Type{Kind: types.Invalid}
			}
		}
	}

	bt := c.checkExpr(s, n.Base)
	target := bt
	if n.Arrow {
		if bt.Kind != types.Pointer || bt.Elem == nil {
			c.errf(n.Pos(), diag.SemInvalidUnary, "-> requires a pointer-to-struct base, got %s", bt)
			return types.Type{Kind: types.Invalid}
		}
		target = *bt.Elem
	}
	if target.Kind == types.Enum {
		for _, m := range target.Members {
			if m.Name == n.Name {
				return target
			}
		}
		c.errf(n.Pos(), diag.SemUnknownField, "enum %q has no member %q", target.Name, n.Name)
		return types.Type{Kind: types.Invalid}
	}
	if target.Kind != types.Struct {
		c.errf(n.Pos(), diag.SemNotAStruct, "member access on non-struct type %s", target)
		return types.Type{Kind: types.Invalid}
	}
	for _, f := range target.Fields {
		if f.Name == n.Name {
			return f.Type
		}
	}
	c.errf(n.Pos(), diag.SemUnknownField, "struct %q has no field %q", target.Name, n.Name)
	return types.Type{Kind: types.Invalid}
}

func (c *checker) checkStructLiteral(s *scope.Scope, n *ast.StructLiteral) types.Type {
	sym, ok := c.global.Resolve(n.TypeName)
	if !ok || sym.Kind != scope.StructSym {
		c.errf(n.Pos(), diag.SemNotAStruct, "%q is not a struct type", n.TypeName)
		for _, f := range n.Fields {
			c.checkExpr(s, f.Value)
		}
		return types.Type{Kind: types.Invalid}
	}
	st := sym.Type
	for _, f := range n.Fields {
		vt := c.checkExpr(s, f.Value)
		var field *types.Field
		for i := range st.Fields {
			if st.Fields[i].Name == f.Name {
				field = &st.Fields[i]
				break
			}
		}
		if field == nil {
			c.errf(n.Pos(), diag.SemUnknownField, "struct %q has no field %q", n.TypeName, f.Name)
			continue
		}
		if !types.Compatible(field.Type, vt, false, isNullExpr(f.Value)) {
			c.errf(f.Value.Pos(), diag.SemTypeMismatch, "field %q: expected %s, got %s", f.Name, field.Type, vt)
		}
	}
	return st
}

func (c *checker) checkArrayLiteral(s *scope.Scope, n *ast.ArrayLiteral) types.Type {
	if len(n.Elements) == 0 {
		return types.ArrayOf(types.IntType, 0)
	}
	elemType := c.checkExpr(s, n.Elements[0])
	for _, el := range n.Elements[1:] {
		et := c.checkExpr(s, el)
		if !types.Compatible(elemType, et, false, isNullExpr(el)) {
			c.errf(el.Pos(), diag.SemTypeMismatch, "array literal elements have incompatible types %s and %s", elemType, et)
		}
	}
	return types.ArrayOf(elemType, len(n.Elements))
}

func (c *checker) checkIntrinsic(s *scope.Scope, n *ast.Intrinsic) types.Type {
	for _, a := range n.Args {
		c.checkExpr(s, a)
	}
	switch n.Kind {
	case ast.IntrinsicReadMemory:
		return types.IntType
	case ast.IntrinsicMapMemory:
		return types.MemAddrType
	default:
		return types.VoidType
	}
}

func isBoolConvertible(t types.Type) bool {
	return t.Kind == types.Bool || t.IsNumeric()
}

func isIdent(e ast.Expr) bool {
	_, ok := e.(*ast.Ident)
	return ok
}

func isLvalue(e ast.Expr) bool {
	switch v := e.(type) {
	case *ast.Ident, *ast.Index, *ast.Member:
		return true
	case *ast.Unary:
		return v.Op == ast.OpDeref
	}
	return false
}

func isConstTarget(s *scope.Scope, e ast.Expr) bool {
	id, ok := e.(*ast.Ident)
	if !ok {
		return false
	}
	sym, ok := s.Resolve(id.Name)
	return ok && sym.Const
}

func isNullExpr(e ast.Expr) bool {
	_, ok := e.(*ast.NullLiteral)
	return ok
}

func (c *checker) errf(pos token.Position, code diag.Code, format string, args ...any) {
	c.sink.Errorf(code, c.file, pos, format, args...)
}

func (c *checker) warnf(pos token.Position, code diag.Code, format string, args ...any) {
	c.sink.Warnf(code, c.file, pos, format, args...)
}
