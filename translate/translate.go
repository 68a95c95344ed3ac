// Package translate lowers a type-checked AST into a bytecode.Image: the
// Scope Map (StackVars) described by the grammar's frame layout, the
// globals and functions tables, and the Translator that walks expressions
// and statements emitting instructions for them.
//
// Two entry points exist because the compile-time driver and the final
// whole-program emission need different images from the same AST: Translate
// builds the one complete program the virtual machine runs at the end of
// compilation, while TranslateComptimeCall builds a throwaway image that
// evaluates exactly one "@name(args)" site in isolation, alongside every
// candidate function it might call.
package translate

import (
	"stackc/ast"
	"stackc/bytecode"
	"stackc/internal/diag"
	"stackc/token"
	"stackc/types"
)

// maxLoopDepth bounds nested while loops, matching the fixed-size
// loop/break offset stacks the original translator keeps.
const maxLoopDepth = 128

type addrKind int

const (
	addrLocal addrKind = iota
	addrGlobal
)

// addrRef is a compile-time-resolved storage location: either a byte offset
// relative to the current function's bp, or an absolute byte offset into
// the globals region at the foot of the stack.
type addrRef struct {
	kind   addrKind
	offset int64
}

type patch struct {
	calleeName string
	wordOffset uint32
}

type loopCtx struct {
	startOffset uint32
	breakFrom   int
}

// Translator lowers one AST at a time into a bytecode.Image. It is not
// reentrant; callers needing two images (Translate, then
// TranslateComptimeCall for a handful of compile-time calls) construct a
// fresh Translator for each.
type Translator struct {
	img *bytecode.Image

	globals   map[string]int64
	functions map[string]uint32

	scope            *scope
	bpOffset         int64
	currentReturnOff int64

	patches []patch

	loops        []loopCtx
	breakPatches []uint32
}

func newTranslator() *Translator {
	return &Translator{
		img:       bytecode.NewImage(),
		globals:   make(map[string]int64),
		functions: make(map[string]uint32),
	}
}

// Translate lowers an entire type-checked program into the final image the
// virtual machine runs: globals reservation, an ordinary call to main
// followed by EXIT, main itself, then every other non-comptime function.
// Entering main through a call gives it the same frame as any other
// function, so a "return" in main leaves its value on top of the stack
// for that EXIT.
func Translate(root *ast.Root) (img *bytecode.Image, err error) {
	t := newTranslator()
	defer func() { err = recoverCompileError(recover()) }()

	t.emitGlobals(root.Globals)

	if root.Main == nil {
		return nil, diag.NewSemanticError(diag.Pos{}, "program has no main function")
	}
	t.emitCallInvocation(ast.NewCall(root.Main.Name, nil, false))
	t.img.EmitOp(bytecode.OpExit, int64(root.Main.Name.Line))
	t.emitFunc(root.Main)
	for _, fn := range root.Funcs {
		if fn == root.Main || fn.IsComptime {
			continue
		}
		t.emitFunc(fn)
	}

	t.resolvePatches()
	return t.img, nil
}

// TranslateComptimeCall lowers a single compile-time call site into a
// throwaway image: it evaluates call and halts on EXIT with the call's
// result on top of the stack, after emitting every non-main function as a
// candidate callee. This is the "emit every candidate function" reading of
// compile-time call emission: a call resolved at one site may reach any
// other function in the program, comptime-only or not. Globals get storage
// so those functions can address them, but their initializers are not run
// (one of them may be the very call being evaluated), so a global read
// during compile-time evaluation holds 0.
func TranslateComptimeCall(root *ast.Root, call *ast.Call) (img *bytecode.Image, err error) {
	t := newTranslator()
	defer func() { err = recoverCompileError(recover()) }()

	var words int64
	for _, g := range root.Globals {
		t.globals[g.Name.Lexeme] = words * types.WordSize
		words += types.BytesToWords(g.Sym.Type.ByteSize())
	}
	t.img.EmitOp(bytecode.OpPushn, -1)
	t.img.EmitQuarter(int16(words))
	t.emitCallInvocation(call)
	t.img.EmitOp(bytecode.OpExit, int64(call.Line()))

	for _, fn := range root.Funcs {
		if fn.IsMain {
			continue
		}
		t.emitFunc(fn)
	}

	t.resolvePatches()
	return t.img, nil
}

func recoverCompileError(r any) error {
	if r == nil {
		return nil
	}
	switch e := r.(type) {
	case diag.SemanticError:
		return e
	case diag.DeveloperError:
		return e
	default:
		panic(r)
	}
}

// emitGlobals assigns every global variable an absolute byte offset,
// reserves the space with a single PUSHN, and emits any initializers in
// declaration order.
func (t *Translator) emitGlobals(globals []*ast.VarStmt) {
	var words int64
	for _, g := range globals {
		t.globals[g.Name.Lexeme] = words * types.WordSize
		words += types.BytesToWords(g.Sym.Type.ByteSize())
	}

	t.img.EmitOp(bytecode.OpPushn, -1)
	t.img.EmitQuarter(int16(words))

	for _, g := range globals {
		if g.Initializer == nil {
			continue
		}
		line := int64(g.Line())
		t.emitLoad(g.Initializer)
		t.emitStoreAddr(addrRef{addrGlobal, t.globals[g.Name.Lexeme]}, line)
	}
}

// emitFunc lays out fn's frame, registers its entry point, and lowers its
// body. A comptime-only function is never reachable from the final
// whole-program image and is skipped by Translate, but TranslateComptimeCall
// emits it like any other candidate callee.
func (t *Translator) emitFunc(fn *ast.Func) {
	name := fn.Name.Lexeme
	fn.CodeOffset = t.img.Len
	t.functions[name] = fn.CodeOffset
	t.patchPending(name, fn.CodeOffset)

	// Frame layout below bp, most negative offset first: the return slot,
	// then each parameter in declaration order, then the two words the
	// virtual machine itself manages (old bp, return address) immediately
	// below bp.
	belowWords := int64(2 + len(fn.Params) + 1)
	belowBytes := belowWords * types.WordSize

	t.scope = newScope(nil)
	t.currentReturnOff = -belowBytes
	for i, p := range fn.Params {
		offset := -belowBytes + int64(1+i)*types.WordSize
		t.scope.define(p.Name.Lexeme, offset)
	}
	t.bpOffset = 0

	line := int64(fn.Name.Line)
	t.img.EmitOp(bytecode.OpFuncpro, line)
	t.lowerBlock(fn.Body)

	if fn.IsMain {
		t.img.EmitOp(bytecode.OpExit, line)
	} else {
		t.img.EmitOp(bytecode.OpRet, line)
	}

	t.scope = nil
}

func (t *Translator) patchPending(calleeName string, target uint32) {
	kept := t.patches[:0]
	for _, p := range t.patches {
		if p.calleeName == calleeName {
			t.img.PatchWord(p.wordOffset, int64(target))
			continue
		}
		kept = append(kept, p)
	}
	t.patches = kept
}

func (t *Translator) resolvePatches() {
	for _, p := range t.patches {
		addr, ok := t.functions[p.calleeName]
		if !ok {
			panic(diag.NewDeveloperError("call to undefined function %q reached translation", p.calleeName))
		}
		t.img.PatchWord(p.wordOffset, int64(addr))
	}
	t.patches = nil
}

// ---- blocks and locals ----

func (t *Translator) lowerBlock(block *ast.BlockStmt) {
	savedOffset := t.bpOffset
	savedScope := t.scope
	t.scope = newScope(t.scope)

	var localWords int64
	for _, stmt := range block.Statements {
		vs, ok := stmt.(*ast.VarStmt)
		if !ok {
			continue
		}
		offset := savedOffset + localWords*types.WordSize
		t.scope.define(vs.Name.Lexeme, offset)
		localWords += types.BytesToWords(vs.Sym.Type.ByteSize())
	}

	line := int64(block.Line())
	if localWords > 0 {
		t.img.EmitOp(bytecode.OpPushn, line)
		t.img.EmitQuarter(int16(localWords))
	}
	t.bpOffset = savedOffset + localWords*types.WordSize

	for _, stmt := range block.Statements {
		t.lowerStmt(stmt)
	}

	if localWords > 0 {
		t.img.EmitOp(bytecode.OpPopn, line)
		t.img.EmitQuarter(int16(localWords))
	}
	t.bpOffset = savedOffset
	t.scope = savedScope
}

func (t *Translator) lowerStmt(s ast.Stmt) { s.Accept(t) }

// ---- statements ----

func (t *Translator) VisitExpressionStmt(s *ast.ExpressionStmt) any {
	t.emitLoad(s.Expression)
	t.img.EmitOp(bytecode.OpPopn, int64(s.Line()))
	t.img.EmitQuarter(1)
	return nil
}

func (t *Translator) VisitPrintStmt(s *ast.PrintStmt) any {
	for _, arg := range s.Args {
		t.emitLoad(arg)
	}
	t.img.EmitOp(bytecode.OpPrint, int64(s.Line()))
	t.img.EmitByte(byte(len(s.Args)))
	return nil
}

func (t *Translator) VisitVarStmt(s *ast.VarStmt) any {
	if s.Initializer == nil {
		return nil
	}
	offset, ok := t.scope.resolve(s.Name.Lexeme)
	if !ok {
		panic(diag.NewDeveloperError("local %q has no assigned frame offset", s.Name.Lexeme))
	}
	t.emitLoad(s.Initializer)
	t.emitStoreAddr(addrRef{addrLocal, offset}, int64(s.Line()))
	return nil
}

func (t *Translator) VisitAssignStmt(s *ast.AssignStmt) any {
	t.emitLoad(s.Value)
	t.emitStore(s.Target, int64(s.Line()))
	return nil
}

func (t *Translator) VisitBlockStmt(s *ast.BlockStmt) any {
	t.lowerBlock(s)
	return nil
}

func (t *Translator) VisitIfStmt(s *ast.IfStmt) any {
	line := int64(s.Line())
	t.emitLoad(s.Condition)
	bizOff := t.emitBiz(line)

	t.lowerStmt(s.Then)

	if s.Else != nil {
		skipOff := t.emitJump(line)
		t.patchBranch(bizOff, t.img.Len)
		t.lowerStmt(s.Else)
		t.patchJump(skipOff, t.img.Len)
	} else {
		t.patchBranch(bizOff, t.img.Len)
	}
	return nil
}

func (t *Translator) VisitWhileStmt(s *ast.WhileStmt) any {
	if len(t.loops) >= maxLoopDepth {
		panic(diag.NewDeveloperError("while loops nested deeper than %d", maxLoopDepth))
	}
	line := int64(s.Line())
	startOffset := t.img.Len

	t.emitLoad(s.Condition)
	bizOff := t.emitBiz(line)

	t.loops = append(t.loops, loopCtx{startOffset: startOffset, breakFrom: len(t.breakPatches)})
	t.lowerStmt(s.Body)

	t.emitJumpTo(startOffset, line)
	endOffset := t.img.Len
	t.patchBranch(bizOff, endOffset)

	ctx := t.loops[len(t.loops)-1]
	for _, wordOff := range t.breakPatches[ctx.breakFrom:] {
		t.patchJump(wordOff, endOffset)
	}
	t.breakPatches = t.breakPatches[:ctx.breakFrom]
	t.loops = t.loops[:len(t.loops)-1]
	return nil
}

func (t *Translator) VisitBreakStmt(s *ast.BreakStmt) any {
	if len(t.loops) == 0 {
		panic(diag.NewSemanticError(diag.Pos{Line: s.Line()}, "break outside of a loop"))
	}
	off := t.emitJump(int64(s.Line()))
	t.breakPatches = append(t.breakPatches, off)
	return nil
}

func (t *Translator) VisitContinueStmt(s *ast.ContinueStmt) any {
	if len(t.loops) == 0 {
		panic(diag.NewSemanticError(diag.Pos{Line: s.Line()}, "continue outside of a loop"))
	}
	t.emitJumpTo(t.loops[len(t.loops)-1].startOffset, int64(s.Line()))
	return nil
}

func (t *Translator) VisitReturnStmt(s *ast.ReturnStmt) any {
	line := int64(s.Line())
	if s.Value != nil {
		t.emitLoad(s.Value)
		t.img.EmitOp(bytecode.OpStbp, line)
		t.img.EmitQuarter(int16(t.currentReturnOff))
	}
	t.img.EmitOp(bytecode.OpRet, line)
	return nil
}

// ---- expressions (load path: leave the value on top of the stack) ----

func (t *Translator) emitLoad(e ast.Expression) { e.Accept(t) }

func (t *Translator) VisitLiteral(l *ast.Literal) any {
	t.img.EmitOp(bytecode.OpLi, int64(l.Line()))
	t.img.EmitWord(l.Value)
	return nil
}

func (t *Translator) VisitVariable(v *ast.Variable) any {
	addr, ok := t.resolveConstAddr(v)
	if !ok {
		panic(diag.NewDeveloperError("variable %q has no resolvable address", v.Name.Lexeme))
	}
	t.emitLoadAddr(addr, int64(v.Line()))
	return nil
}

func (t *Translator) VisitUnary(u *ast.Unary) any {
	line := int64(u.Line())
	switch u.Operator.TokenType {
	case token.BANG:
		t.emitLoad(u.Right)
		t.img.EmitOp(bytecode.OpNot, line)
	case token.SUB:
		t.emitLoad(u.Right)
		t.img.EmitOp(bytecode.OpLi, line)
		t.img.EmitWord(0)
		t.img.EmitOp(bytecode.OpSub, line)
	default:
		panic(diag.NewDeveloperError("unhandled unary operator %q", u.Operator.Lexeme))
	}
	return nil
}

func (t *Translator) VisitBinary(b *ast.Binary) any {
	line := int64(b.Line())

	switch b.Operator.TokenType {
	case token.DOT, token.LBRACKET:
		t.emitAccessLoad(b, line)
		return nil
	case token.AND:
		// Neither operand is guaranteed to already be an exact 0/1 word
		// (C-style truthiness allows any nonzero int), so each is folded
		// through NOT twice first. There is no dedicated boolean AND
		// opcode; once both sides are normalised, a plain MUL computes it
		// exactly. This is not short-circuiting: both operands are always
		// evaluated.
		t.emitLoad(b.Right)
		t.img.EmitOp(bytecode.OpNot, line)
		t.img.EmitOp(bytecode.OpNot, line)
		t.emitLoad(b.Left)
		t.img.EmitOp(bytecode.OpNot, line)
		t.img.EmitOp(bytecode.OpNot, line)
		t.img.EmitOp(bytecode.OpMul, line)
		return nil
	case token.OR:
		t.emitLoad(b.Right)
		t.img.EmitOp(bytecode.OpNot, line)
		t.img.EmitOp(bytecode.OpNot, line)
		t.emitLoad(b.Left)
		t.img.EmitOp(bytecode.OpNot, line)
		t.img.EmitOp(bytecode.OpNot, line)
		t.img.EmitOp(bytecode.OpAdd, line)
		t.img.EmitOp(bytecode.OpNot, line)
		t.img.EmitOp(bytecode.OpNot, line)
		return nil
	}

	// Every arithmetic and comparison operator pushes the right operand
	// first, then the left, so the left ends up on top of the stack. At
	// runtime the first pop is therefore the left operand.
	t.emitLoad(b.Right)
	t.emitLoad(b.Left)

	switch b.Operator.TokenType {
	case token.ADD:
		t.img.EmitOp(bytecode.OpAdd, line)
	case token.SUB:
		t.img.EmitOp(bytecode.OpSub, line)
	case token.MULT:
		t.img.EmitOp(bytecode.OpMul, line)
	case token.DIV:
		t.img.EmitOp(bytecode.OpDiv, line)
	case token.LSHIFT:
		t.img.EmitOp(bytecode.OpLShift, line)
	case token.RSHIFT:
		t.img.EmitOp(bytecode.OpRShift, line)
	case token.LARGER:
		t.img.EmitOp(bytecode.OpGe, line)
	case token.LESS:
		t.img.EmitOp(bytecode.OpLe, line)
	case token.LARGER_EQUAL:
		// left >= right  <=>  !(left < right)
		t.img.EmitOp(bytecode.OpLe, line)
		t.img.EmitOp(bytecode.OpNot, line)
	case token.LESS_EQUAL:
		// left <= right  <=>  !(left > right)
		t.img.EmitOp(bytecode.OpGe, line)
		t.img.EmitOp(bytecode.OpNot, line)
	case token.EQUAL_EQUAL:
		t.img.EmitOp(bytecode.OpSub, line)
		t.img.EmitOp(bytecode.OpNot, line)
	case token.NOT_EQUAL:
		t.img.EmitOp(bytecode.OpSub, line)
	default:
		panic(diag.NewDeveloperError("unhandled binary operator %q", b.Operator.Lexeme))
	}
	return nil
}

func (t *Translator) VisitCall(c *ast.Call) any {
	if c.Comptime {
		if !c.Resolved || c.Result == nil {
			panic(diag.NewDeveloperError("compile-time call to %q reached final translation unresolved", c.Callee.Lexeme))
		}
		t.emitLoad(c.Result)
		return nil
	}
	t.emitCallInvocation(c)
	return nil
}

// emitCallInvocation lowers a function call the same way whether it is an
// ordinary runtime call or the one call a compile-time image exists to
// evaluate: reserve a return slot, push every argument, call, then drop the
// arguments back off, leaving just the return value on top of the stack.
func (t *Translator) emitCallInvocation(c *ast.Call) {
	line := int64(c.Line())

	t.img.EmitOp(bytecode.OpPushn, line)
	t.img.EmitQuarter(1)

	for _, arg := range c.Args {
		t.emitLoad(arg)
	}

	t.img.EmitOp(bytecode.OpLi, line)
	wordOff := t.img.EmitWord(0)
	if addr, ok := t.functions[c.Callee.Lexeme]; ok {
		t.img.PatchWord(wordOff, int64(addr))
	} else {
		t.patches = append(t.patches, patch{calleeName: c.Callee.Lexeme, wordOffset: wordOff})
	}
	t.img.EmitOp(bytecode.OpCall, line)

	if len(c.Args) > 0 {
		t.img.EmitOp(bytecode.OpPopn, line)
		t.img.EmitQuarter(int16(len(c.Args)))
	}
}

// ---- struct member access and array indexing ----

// emitAccessLoad lowers a ".member" or "[index]" expression for reading.
// An enum value access ("Color.Red") never touches memory: the member
// names a compile-time ordinal, not a storage location, so it lowers to a
// plain LI.
func (t *Translator) emitAccessLoad(b *ast.Binary, line int64) {
	if b.Operator.TokenType == token.DOT {
		if left, ok := b.Left.(*ast.Variable); ok && left.Sym != nil && left.Sym.Kind == types.SymType {
			enumType, ok := left.Sym.Type.(*types.Enum)
			if !ok {
				panic(diag.NewDeveloperError("%q names a type that is not an enum", left.Name.Lexeme))
			}
			member := b.Right.(*ast.Variable).Name.Lexeme
			ordinal, ok := enumType.Ordinal(member)
			if !ok {
				panic(diag.NewDeveloperError("enum %q has no value %q", enumType.Name, member))
			}
			t.img.EmitOp(bytecode.OpLi, line)
			t.img.EmitWord(ordinal)
			return
		}
	}

	if addr, ok := t.resolveConstAddr(b); ok {
		t.emitLoadAddr(addr, line)
		return
	}

	t.emitDynamicAddr(b, line)
	t.img.EmitOp(bytecode.OpLdi, line)
}

func (t *Translator) emitStore(target ast.Expression, line int64) {
	switch n := target.(type) {
	case *ast.Variable:
		addr, ok := t.resolveConstAddr(n)
		if !ok {
			panic(diag.NewDeveloperError("variable %q has no resolvable address", n.Name.Lexeme))
		}
		t.emitStoreAddr(addr, line)
	case *ast.Binary:
		if addr, ok := t.resolveConstAddr(n); ok {
			t.emitStoreAddr(addr, line)
			return
		}
		t.emitDynamicAddr(n, line)
		t.img.EmitOp(bytecode.OpSti, line)
	default:
		panic(diag.NewDeveloperError("invalid assignment target %T", target))
	}
}

// emitDynamicAddr computes, at runtime, the absolute address of a
// "base[index]" expression whose index is not a compile-time constant, and
// pushes it. Only global arrays support this: a local's bp-relative offset
// cannot be turned into an absolute stack address without a way to push bp
// itself onto the stack, which this instruction set has no opcode for, so a
// dynamic index into a local array or struct is a semantic error rather
// than a silently wrong address.
func (t *Translator) emitDynamicAddr(b *ast.Binary, line int64) {
	if b.Operator.TokenType != token.LBRACKET {
		panic(diag.NewDeveloperError("dynamic address computation requested for non-index expression"))
	}

	baseAddr, ok := t.resolveConstAddr(b.Left)
	if !ok {
		panic(diag.NewSemanticError(diag.Pos{Line: int32(line)}, "index base has no resolvable address"))
	}
	if baseAddr.kind == addrLocal {
		panic(diag.NewSemanticError(diag.Pos{Line: int32(line)}, "dynamic indexing of a local array or struct member is not supported"))
	}

	arrType, ok := b.Left.Type().(types.Array)
	if !ok {
		panic(diag.NewDeveloperError("index base does not have array type"))
	}
	elemSize := types.AlignWord(arrType.Elem.ByteSize())

	t.emitLoad(b.Right)
	t.img.EmitOp(bytecode.OpLi, line)
	t.img.EmitWord(elemSize)
	t.img.EmitOp(bytecode.OpMul, line)
	t.img.EmitOp(bytecode.OpLi, line)
	t.img.EmitWord(baseAddr.offset)
	t.img.EmitOp(bytecode.OpAdd, line)
}

// resolveConstAddr computes the compile-time-constant address of an
// expression that names a storage location: a bare variable, a chain of
// struct member accesses, or array indexing by a literal constant. It
// returns ok=false for anything requiring a runtime-computed address.
func (t *Translator) resolveConstAddr(e ast.Expression) (addrRef, bool) {
	switch n := e.(type) {
	case *ast.Variable:
		if n.Sym != nil && n.Sym.Kind == types.SymType {
			return addrRef{}, false
		}
		if t.scope != nil {
			if off, ok := t.scope.resolve(n.Name.Lexeme); ok {
				return addrRef{addrLocal, off}, true
			}
		}
		if off, ok := t.globals[n.Name.Lexeme]; ok {
			return addrRef{addrGlobal, off}, true
		}
		return addrRef{}, false

	case *ast.Binary:
		switch n.Operator.TokenType {
		case token.DOT:
			structType, ok := n.Left.Type().(*types.Struct)
			if !ok {
				return addrRef{}, false
			}
			base, ok := t.resolveConstAddr(n.Left)
			if !ok {
				return addrRef{}, false
			}
			memberVar, ok := n.Right.(*ast.Variable)
			if !ok {
				return addrRef{}, false
			}
			member, ok := structType.Member(memberVar.Name.Lexeme)
			if !ok {
				return addrRef{}, false
			}
			return addrRef{base.kind, base.offset + member.ByteOffset}, true

		case token.LBRACKET:
			lit, ok := n.Right.(*ast.Literal)
			if !ok {
				return addrRef{}, false
			}
			arrType, ok := n.Left.Type().(types.Array)
			if !ok {
				return addrRef{}, false
			}
			base, ok := t.resolveConstAddr(n.Left)
			if !ok {
				return addrRef{}, false
			}
			elemSize := types.AlignWord(arrType.Elem.ByteSize())
			return addrRef{base.kind, base.offset + lit.Value*elemSize}, true
		}
	}
	return addrRef{}, false
}

func (t *Translator) emitLoadAddr(addr addrRef, line int64) {
	if addr.kind == addrLocal {
		t.img.EmitOp(bytecode.OpLdbp, line)
		t.img.EmitQuarter(int16(addr.offset))
		return
	}
	t.img.EmitOp(bytecode.OpLda, line)
	t.img.EmitWord(addr.offset)
}

func (t *Translator) emitStoreAddr(addr addrRef, line int64) {
	if addr.kind == addrLocal {
		t.img.EmitOp(bytecode.OpStbp, line)
		t.img.EmitQuarter(int16(addr.offset))
		return
	}
	t.img.EmitOp(bytecode.OpSta, line)
	t.img.EmitWord(addr.offset)
}

// ---- branch/jump helpers ----

// emitBiz emits "BIZ <placeholder>" and returns the offset of the
// placeholder quarter, to be resolved later by patchBranch.
func (t *Translator) emitBiz(line int64) uint32 {
	t.img.EmitOp(bytecode.OpBiz, line)
	return t.img.EmitQuarter(0)
}

func (t *Translator) patchBranch(quarterOffset, target uint32) {
	rel := int32(target) - int32(quarterOffset+bytecode.QuarterSize)
	t.img.PatchQuarter(quarterOffset, int16(rel))
}

// emitJump emits "LI <placeholder>; JMP" and returns the offset of the
// placeholder word, to be resolved later by patchJump.
func (t *Translator) emitJump(line int64) uint32 {
	t.img.EmitOp(bytecode.OpLi, line)
	off := t.img.EmitWord(0)
	t.img.EmitOp(bytecode.OpJmp, line)
	return off
}

func (t *Translator) patchJump(wordOffset, target uint32) {
	t.img.PatchWord(wordOffset, int64(target))
}

// emitJumpTo emits an unconditional jump to an already-known target.
func (t *Translator) emitJumpTo(target uint32, line int64) {
	t.img.EmitOp(bytecode.OpLi, line)
	t.img.EmitWord(int64(target))
	t.img.EmitOp(bytecode.OpJmp, line)
}
