// Package sema runs the three semantic passes the translator depends on:
// Typegen resolves every named type and signature, Infer resolves names and
// propagates types bottom-up through every expression, and Typecheck
// validates the fully-typed tree against the language's type rules. On
// success every ast.Expression carries a resolved types.TypeInfo and every
// ast.Variable a resolved types.Symbol — the only contract the translator
// relies on.
package sema

import (
	"stackc/ast"
	"stackc/internal/diag"
	"stackc/token"
	"stackc/types"
)

func pos(tok token.Token) diag.Pos { return diag.Pos{Line: tok.Line, Column: tok.Column} }

func resolveTypeExpr(te ast.TypeExpr, symbols *types.SymbolTable) (types.TypeInfo, error) {
	if te.Elements > 0 {
		elem, err := resolveTypeExpr(*te.Elem, symbols)
		if err != nil {
			return nil, err
		}
		return types.Array{Elem: elem, Elements: te.Elements}, nil
	}
	switch te.Name.Lexeme {
	case "int":
		return types.Int{}, nil
	case "bool":
		return types.Bool{}, nil
	case "void":
		return types.Void{}, nil
	}
	sym, ok := symbols.LookupLocal(te.Name.Lexeme)
	if !ok {
		return nil, diag.NewSemanticError(pos(te.Name), "undefined type %q", te.Name.Lexeme)
	}
	if sym.Kind != types.SymType {
		return nil, diag.NewSemanticError(pos(te.Name), "%q is not a type", te.Name.Lexeme)
	}
	return sym.Type, nil
}

// isBoolish reports whether t is usable as a condition or a logical
// operand. Bool exists purely for diagnostics: at runtime, and in every
// other type rule, it is interchangeable with Int.
func isBoolish(t types.TypeInfo) bool {
	return t != nil && (t.Kind() == types.KindInt || t.Kind() == types.KindBool)
}

func sameType(a, b types.TypeInfo) bool {
	if a == nil || b == nil {
		return false
	}
	if isBoolish(a) && isBoolish(b) {
		return true
	}
	return a.String() == b.String()
}

// Typegen registers every struct, enum, function and global variable name
// into root.Symbols, resolving their declared types. It does not walk
// function bodies or expressions — that is Infer's job, once every name
// this pass defines is in place to resolve against.
func Typegen(root *ast.Root) []error {
	// Each run starts from a fresh root table, so the compile-time driver
	// can repeat this pass without redefining last run's names.
	root.Symbols = types.NewSymbolTable(nil)
	var errs []error
	define := func(sym *types.Symbol, p diag.Pos) {
		if err := root.Symbols.Define(sym); err != nil {
			errs = append(errs, diag.NewSemanticError(p, "%s", err))
		}
	}

	for _, sd := range root.Structs {
		st := &types.Struct{Name: sd.Name.Lexeme}
		sd.ResolvedType = st
		define(&types.Symbol{Name: sd.Name.Lexeme, Kind: types.SymType, Type: st}, pos(sd.Name))
	}
	for _, ed := range root.Enums {
		values := make([]string, len(ed.Values))
		for i, v := range ed.Values {
			values[i] = v.Lexeme
		}
		et := &types.Enum{Name: ed.Name.Lexeme, Values: values}
		ed.ResolvedType = et
		define(&types.Symbol{Name: ed.Name.Lexeme, Kind: types.SymType, Type: et}, pos(ed.Name))
	}

	// Struct members resolve in a second pass so one struct may reference
	// another declared later in the source.
	for _, sd := range root.Structs {
		var offset int64
		for _, md := range sd.Members {
			mt, err := resolveTypeExpr(md.TypeExpr, root.Symbols)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			sd.ResolvedType.Members = append(sd.ResolvedType.Members, types.StructMember{
				Name: md.Name.Lexeme, Type: mt, ByteOffset: offset,
			})
			offset += types.AlignWord(mt.ByteSize())
		}
	}

	for _, fn := range root.Funcs {
		paramTypes := make([]types.TypeInfo, len(fn.Params))
		for i := range fn.Params {
			pt, err := resolveTypeExpr(fn.Params[i].TypeExpr, root.Symbols)
			if err != nil {
				errs = append(errs, err)
				pt = types.Void{}
			}
			fn.Params[i].ResolvedType = pt
			paramTypes[i] = pt
		}

		var retType types.TypeInfo = types.Void{}
		if fn.ReturnType.Name.Lexeme != "" {
			rt, err := resolveTypeExpr(fn.ReturnType, root.Symbols)
			if err != nil {
				errs = append(errs, err)
			} else {
				retType = rt
			}
		}
		fn.ResolvedReturnType = retType

		sym := &types.Symbol{Name: fn.Name.Lexeme, Kind: types.SymFunc, Type: &types.Func{
			Name: fn.Name.Lexeme, Params: paramTypes, Return: retType, IsComptime: fn.IsComptime,
		}}
		fn.Sym = sym
		define(sym, pos(fn.Name))

		if fn.Name.Lexeme == "main" {
			fn.IsMain = true
			root.Main = fn
		}
	}

	for _, g := range root.Globals {
		gt, err := resolveTypeExpr(g.TypeExpr, root.Symbols)
		if err != nil {
			errs = append(errs, err)
			gt = types.Void{}
		}
		sym := &types.Symbol{Name: g.Name.Lexeme, Kind: types.SymGlobalVar, Type: gt}
		g.Sym = sym
		define(sym, pos(g.Name))
	}

	return errs
}

// ---- Infer ----

type inferrer struct {
	root  *ast.Root
	scope *types.SymbolTable
	errs  []error
}

// Infer resolves every name and assigns every expression its type, walking
// global initializers and every function body. It reports undefined names;
// Typecheck, running afterward, reports type mismatches among names Infer
// was able to resolve.
func Infer(root *ast.Root) []error {
	inf := &inferrer{root: root, scope: root.Symbols}
	for _, g := range root.Globals {
		if g.Initializer != nil {
			inf.inferExpr(g.Initializer)
		}
	}
	for _, fn := range root.Funcs {
		inf.inferFunc(fn)
	}
	return inf.errs
}

func (inf *inferrer) errorf(tok token.Token, format string, args ...any) {
	inf.errs = append(inf.errs, diag.NewSemanticError(pos(tok), format, args...))
}

func (inf *inferrer) inferFunc(fn *ast.Func) {
	saved := inf.scope
	inf.scope = types.NewSymbolTable(inf.root.Symbols)
	for i := range fn.Params {
		sym := &types.Symbol{Name: fn.Params[i].Name.Lexeme, Kind: types.SymParam, Type: fn.Params[i].ResolvedType}
		fn.Params[i].Sym = sym
		if err := inf.scope.Define(sym); err != nil {
			inf.errorf(fn.Params[i].Name, "%s", err)
		}
	}
	inf.inferBlock(fn.Body)
	inf.scope = saved
}

func (inf *inferrer) inferBlock(b *ast.BlockStmt) {
	saved := inf.scope
	inf.scope = types.NewSymbolTable(saved)
	b.Locals = inf.scope
	for _, stmt := range b.Statements {
		inf.inferStmt(stmt)
	}
	inf.scope = saved
}

func (inf *inferrer) inferStmt(s ast.Stmt) { s.Accept(inf) }

func (inf *inferrer) inferExpr(e ast.Expression) types.TypeInfo {
	e.Accept(inf)
	return e.Type()
}

func (inf *inferrer) VisitExpressionStmt(s *ast.ExpressionStmt) any {
	inf.inferExpr(s.Expression)
	return nil
}

func (inf *inferrer) VisitPrintStmt(s *ast.PrintStmt) any {
	for _, a := range s.Args {
		inf.inferExpr(a)
	}
	return nil
}

func (inf *inferrer) VisitVarStmt(s *ast.VarStmt) any {
	declared, err := resolveTypeExpr(s.TypeExpr, inf.root.Symbols)
	if err != nil {
		inf.errs = append(inf.errs, err)
		declared = types.Void{}
	}
	if s.Initializer != nil {
		inf.inferExpr(s.Initializer)
	}

	sym := &types.Symbol{Name: s.Name.Lexeme, Kind: types.SymLocalVar, Type: declared}
	s.Sym = sym
	if err := inf.scope.Define(sym); err != nil {
		inf.errorf(s.Name, "%s", err)
	}
	return nil
}

func (inf *inferrer) VisitAssignStmt(s *ast.AssignStmt) any {
	inf.inferExpr(s.Target)
	inf.inferExpr(s.Value)
	return nil
}

func (inf *inferrer) VisitBlockStmt(s *ast.BlockStmt) any {
	inf.inferBlock(s)
	return nil
}

func (inf *inferrer) VisitIfStmt(s *ast.IfStmt) any {
	inf.inferExpr(s.Condition)
	inf.inferStmt(s.Then)
	if s.Else != nil {
		inf.inferStmt(s.Else)
	}
	return nil
}

func (inf *inferrer) VisitWhileStmt(s *ast.WhileStmt) any {
	inf.inferExpr(s.Condition)
	inf.inferStmt(s.Body)
	return nil
}

func (inf *inferrer) VisitBreakStmt(s *ast.BreakStmt) any    { return nil }
func (inf *inferrer) VisitContinueStmt(s *ast.ContinueStmt) any { return nil }

func (inf *inferrer) VisitReturnStmt(s *ast.ReturnStmt) any {
	if s.Value != nil {
		inf.inferExpr(s.Value)
	}
	return nil
}

func (inf *inferrer) VisitLiteral(l *ast.Literal) any { return nil }

func (inf *inferrer) VisitVariable(v *ast.Variable) any {
	sym, ok := inf.scope.Resolve(v.Name.Lexeme)
	if !ok {
		inf.errorf(v.Name, "undefined name %q", v.Name.Lexeme)
		v.SetType(types.Void{})
		return nil
	}
	v.Sym = sym
	v.SetType(sym.Type)
	return nil
}

func (inf *inferrer) VisitUnary(u *ast.Unary) any {
	rt := inf.inferExpr(u.Right)
	if u.Operator.TokenType == token.BANG {
		u.SetType(types.Bool{})
	} else {
		u.SetType(rt)
	}
	return nil
}

func (inf *inferrer) VisitBinary(b *ast.Binary) any {
	switch b.Operator.TokenType {
	case token.DOT:
		inf.inferDot(b)
		return nil
	case token.LBRACKET:
		inf.inferIndex(b)
		return nil
	}

	lt := inf.inferExpr(b.Left)
	rt := inf.inferExpr(b.Right)

	switch b.Operator.TokenType {
	case token.LARGER, token.LARGER_EQUAL, token.LESS, token.LESS_EQUAL,
		token.EQUAL_EQUAL, token.NOT_EQUAL, token.AND, token.OR:
		b.SetType(types.Bool{})
	default:
		if lt != nil {
			b.SetType(lt)
		} else {
			b.SetType(rt)
		}
	}
	return nil
}

func (inf *inferrer) inferDot(b *ast.Binary) {
	if left, ok := b.Left.(*ast.Variable); ok {
		if sym, ok := inf.scope.Resolve(left.Name.Lexeme); ok && sym.Kind == types.SymType {
			left.Sym = sym
			left.SetType(sym.Type)
			if enumType, ok := sym.Type.(*types.Enum); ok {
				member := b.Right.(*ast.Variable)
				if _, ok := enumType.Ordinal(member.Name.Lexeme); !ok {
					inf.errorf(member.Name, "enum %q has no value %q", enumType.Name, member.Name.Lexeme)
				}
				b.SetType(enumType)
				return
			}
			inf.errorf(left.Name, "%q is not an enum", left.Name.Lexeme)
			b.SetType(types.Void{})
			return
		}
	}

	lt := inf.inferExpr(b.Left)
	structType, ok := lt.(*types.Struct)
	if !ok {
		inf.errorf(b.Operator, "left side of '.' is not a struct")
		b.SetType(types.Void{})
		return
	}
	member, ok := b.Right.(*ast.Variable)
	if !ok {
		inf.errorf(b.Operator, "expected a member name after '.'")
		b.SetType(types.Void{})
		return
	}
	m, ok := structType.Member(member.Name.Lexeme)
	if !ok {
		inf.errorf(member.Name, "struct %q has no member %q", structType.Name, member.Name.Lexeme)
		b.SetType(types.Void{})
		return
	}
	b.SetType(m.Type)
}

func (inf *inferrer) inferIndex(b *ast.Binary) {
	lt := inf.inferExpr(b.Left)
	inf.inferExpr(b.Right)
	arrType, ok := lt.(types.Array)
	if !ok {
		inf.errorf(b.Operator, "cannot index a value that is not an array")
		b.SetType(types.Void{})
		return
	}
	b.SetType(arrType.Elem)
}

func (inf *inferrer) VisitCall(c *ast.Call) any {
	for _, a := range c.Args {
		inf.inferExpr(a)
	}
	sym, ok := inf.root.Symbols.LookupLocal(c.Callee.Lexeme)
	if !ok {
		inf.errorf(c.Callee, "undefined function %q", c.Callee.Lexeme)
		c.SetType(types.Void{})
		return nil
	}
	fn, ok := sym.Type.(*types.Func)
	if !ok {
		inf.errorf(c.Callee, "%q is not a function", c.Callee.Lexeme)
		c.SetType(types.Void{})
		return nil
	}
	c.SetType(fn.Return)
	return nil
}

// ---- Typecheck ----

type checker struct {
	root        *ast.Root
	errs        []error
	currentFunc *ast.Func
	loopDepth   int
}

// Typecheck validates a tree Infer has already resolved and typed: operand
// compatibility, condition types, assignment and return type agreement,
// and call argument arity and types.
func Typecheck(root *ast.Root) []error {
	c := &checker{root: root}
	for _, g := range root.Globals {
		if g.Initializer != nil {
			c.checkExpr(g.Initializer)
			if !sameType(g.Sym.Type, g.Initializer.Type()) {
				c.errorf(g.Name, "cannot initialise %q of type %s with %s", g.Name.Lexeme, g.Sym.Type, g.Initializer.Type())
			}
		}
	}
	for _, fn := range root.Funcs {
		c.checkFunc(fn)
	}
	return c.errs
}

func (c *checker) errorf(tok token.Token, format string, args ...any) {
	c.errs = append(c.errs, diag.NewSemanticError(pos(tok), format, args...))
}

func (c *checker) checkFunc(fn *ast.Func) {
	saved := c.currentFunc
	c.currentFunc = fn
	c.checkStmt(fn.Body)
	c.currentFunc = saved
}

func (c *checker) checkStmt(s ast.Stmt) { s.Accept(c) }
func (c *checker) checkExpr(e ast.Expression) { e.Accept(c) }

func (c *checker) VisitExpressionStmt(s *ast.ExpressionStmt) any {
	c.checkExpr(s.Expression)
	return nil
}

func (c *checker) VisitPrintStmt(s *ast.PrintStmt) any {
	for _, a := range s.Args {
		c.checkExpr(a)
	}
	return nil
}

func (c *checker) VisitVarStmt(s *ast.VarStmt) any {
	if s.Initializer == nil {
		return nil
	}
	c.checkExpr(s.Initializer)
	if s.Sym != nil && !sameType(s.Sym.Type, s.Initializer.Type()) {
		c.errorf(s.Name, "cannot initialise %q of type %s with %s", s.Name.Lexeme, s.Sym.Type, s.Initializer.Type())
	}
	return nil
}

func (c *checker) VisitAssignStmt(s *ast.AssignStmt) any {
	c.checkExpr(s.Target)
	c.checkExpr(s.Value)
	switch s.Target.(type) {
	case *ast.Variable, *ast.Binary:
	default:
		c.errorf(token.Token{Line: s.Line()}, "invalid assignment target")
		return nil
	}
	if !sameType(s.Target.Type(), s.Value.Type()) {
		c.errorf(token.Token{Line: s.Line()}, "cannot assign %s to a target of type %s", s.Value.Type(), s.Target.Type())
	}
	return nil
}

func (c *checker) VisitBlockStmt(s *ast.BlockStmt) any {
	for _, stmt := range s.Statements {
		c.checkStmt(stmt)
	}
	return nil
}

func (c *checker) VisitIfStmt(s *ast.IfStmt) any {
	c.checkExpr(s.Condition)
	if !isBoolish(s.Condition.Type()) {
		c.errorf(token.Token{Line: s.Line()}, "if condition must be an int or bool, got %s", s.Condition.Type())
	}
	c.checkStmt(s.Then)
	if s.Else != nil {
		c.checkStmt(s.Else)
	}
	return nil
}

func (c *checker) VisitWhileStmt(s *ast.WhileStmt) any {
	c.checkExpr(s.Condition)
	if !isBoolish(s.Condition.Type()) {
		c.errorf(token.Token{Line: s.Line()}, "while condition must be an int or bool, got %s", s.Condition.Type())
	}
	c.loopDepth++
	c.checkStmt(s.Body)
	c.loopDepth--
	return nil
}

func (c *checker) VisitBreakStmt(s *ast.BreakStmt) any {
	if c.loopDepth == 0 {
		c.errorf(token.Token{Line: s.Line()}, "break outside of a loop")
	}
	return nil
}

func (c *checker) VisitContinueStmt(s *ast.ContinueStmt) any {
	if c.loopDepth == 0 {
		c.errorf(token.Token{Line: s.Line()}, "continue outside of a loop")
	}
	return nil
}

func (c *checker) VisitReturnStmt(s *ast.ReturnStmt) any {
	ret := c.currentFunc.ResolvedReturnType
	if s.Value == nil {
		if ret != nil && ret.Kind() != types.KindVoid {
			c.errorf(token.Token{Line: s.Line()}, "function %q must return a value of type %s", c.currentFunc.Name.Lexeme, ret)
		}
		return nil
	}
	c.checkExpr(s.Value)
	if !sameType(ret, s.Value.Type()) {
		c.errorf(token.Token{Line: s.Line()}, "function %q returns %s, got %s", c.currentFunc.Name.Lexeme, ret, s.Value.Type())
	}
	return nil
}

func (c *checker) VisitLiteral(l *ast.Literal) any { return nil }
func (c *checker) VisitVariable(v *ast.Variable) any { return nil }

func (c *checker) VisitUnary(u *ast.Unary) any {
	c.checkExpr(u.Right)
	if u.Operator.TokenType == token.BANG && !isBoolish(u.Right.Type()) {
		c.errorf(u.Operator, "'!' requires an int or bool operand, got %s", u.Right.Type())
	}
	return nil
}

func (c *checker) VisitBinary(b *ast.Binary) any {
	if b.Operator.TokenType == token.DOT {
		return nil
	}
	c.checkExpr(b.Left)
	c.checkExpr(b.Right)

	if b.Operator.TokenType == token.LBRACKET {
		if b.Right.Type() != nil && b.Right.Type().Kind() != types.KindInt {
			c.errorf(b.Operator, "array index must be an int, got %s", b.Right.Type())
		}
		return nil
	}

	switch b.Operator.TokenType {
	case token.AND, token.OR:
		if !isBoolish(b.Left.Type()) || !isBoolish(b.Right.Type()) {
			c.errorf(b.Operator, "'%s' requires int or bool operands", b.Operator.Lexeme)
		}
	default:
		if !sameType(b.Left.Type(), b.Right.Type()) {
			c.errorf(b.Operator, "mismatched operand types %s and %s", b.Left.Type(), b.Right.Type())
		}
	}
	return nil
}

func (c *checker) VisitCall(call *ast.Call) any {
	for _, a := range call.Args {
		c.checkExpr(a)
	}
	sym, ok := c.root.Symbols.LookupLocal(call.Callee.Lexeme)
	if !ok {
		return nil // already reported by Infer
	}
	fn, ok := sym.Type.(*types.Func)
	if !ok {
		return nil
	}
	if len(call.Args) != len(fn.Params) {
		c.errorf(call.Callee, "function %q expects %d argument(s), got %d", call.Callee.Lexeme, len(fn.Params), len(call.Args))
		return nil
	}
	for i, a := range call.Args {
		if !sameType(fn.Params[i], a.Type()) {
			c.errorf(call.Callee, "argument %d to %q: expected %s, got %s", i+1, call.Callee.Lexeme, fn.Params[i], a.Type())
		}
	}
	return nil
}
