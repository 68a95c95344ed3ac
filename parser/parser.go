// Recursive descent parser
// https://en.wikipedia.org/wiki/Recursive_descent_parser
//
// A recursive descent parser is a top-down parser: it starts from the top
// grammar rule and works its way down into nested sub-expressions before
// reaching the leaves of the syntax tree (terminal rules).
package parser

import (
	"stackc/ast"
	"stackc/internal/diag"
	"stackc/token"
)

var comparisonTokenTypes = []token.TokenType{
	token.LARGER,
	token.LARGER_EQUAL,
	token.LESS,
	token.LESS_EQUAL,
}

var equalityTokenTypes = []token.TokenType{
	token.NOT_EQUAL,
	token.EQUAL_EQUAL,
}

var shiftTokenTypes = []token.TokenType{
	token.LSHIFT,
	token.RSHIFT,
}

var termTokenTypes = []token.TokenType{
	token.SUB,
	token.ADD,
}

var factorExpressionTypes = []token.TokenType{
	token.MULT,
	token.DIV,
}

var unaryExpressionTypes = []token.TokenType{
	token.BANG,
	token.SUB,
}

type Parser struct {
	tokens   []token.Token
	position int
}

// NOTE: the parser's position always names the next unconsumed token.

// Make initializes and returns a new Parser over the given token stream.
func Make(tokens []token.Token) *Parser {
	return &Parser{
		tokens:   tokens,
		position: 0,
	}
}

// peek returns the token at the parser's current position, without
// consuming it.
func (parser *Parser) peek() token.Token {
	return parser.tokens[parser.position]
}

// peekNext returns the token one past the parser's current position.
func (parser *Parser) peekNext() token.Token {
	if parser.position+1 >= len(parser.tokens) {
		return parser.tokens[len(parser.tokens)-1]
	}
	return parser.tokens[parser.position+1]
}

// previous retrieves the token at the parser's previous position.
func (parser *Parser) previous() token.Token {
	return parser.tokens[parser.position-1]
}

// advance increments the parser's position by one and returns the token it
// just consumed.
func (parser *Parser) advance() token.Token {
	if !parser.isFinished() {
		parser.position++
	}
	return parser.previous()
}

// isFinished determines if the parser has consumed all tokens.
func (parser *Parser) isFinished() bool {
	return parser.peek().TokenType == token.EOF
}

// checkType determines if the provided tokenType matches the token type at
// the parser's current position.
func (parser *Parser) checkType(tokenType token.TokenType) bool {
	if parser.isFinished() {
		return false
	}
	return parser.peek().TokenType == tokenType
}

// isMatch determines if the token type at the current position matches any
// of the provided tokenTypes, consuming it if so.
func (parser *Parser) isMatch(tokenTypes []token.TokenType) bool {
	for _, tokenType := range tokenTypes {
		if parser.checkType(tokenType) {
			parser.advance()
			return true
		}
	}
	return false
}

// consume advances past the current token if it has the given type,
// otherwise it reports a diag.SemanticError.
func (parser *Parser) consume(tokenType token.TokenType, errorMessage string) (token.Token, error) {
	if parser.checkType(tokenType) {
		return parser.advance(), nil
	}
	currentToken := parser.peek()
	return token.Token{}, diag.NewSemanticError(diag.Pos{Line: currentToken.Line, Column: currentToken.Column}, errorMessage)
}

// Parse parses the entire token stream into a Root declaration, continuing
// until the end of input. Errors during parsing are collected but parsing
// continues to find additional errors where possible.
func (parser *Parser) Parse() (*ast.Root, []error) {
	root := &ast.Root{}
	errors := []error{}

	for !parser.isFinished() {
		switch {
		case parser.checkType(token.FUNC), parser.checkType(token.AT) && parser.peekNext().TokenType == token.FUNC:
			fn, err := parser.funcDecl()
			if err != nil {
				errors = append(errors, err)
				parser.synchronize()
				continue
			}
			if fn.Name.Lexeme == "main" {
				root.Main = fn
			}
			root.Funcs = append(root.Funcs, fn)
		case parser.checkType(token.STRUCT):
			decl, err := parser.structDecl()
			if err != nil {
				errors = append(errors, err)
				parser.synchronize()
				continue
			}
			root.Structs = append(root.Structs, decl)
		case parser.checkType(token.ENUM):
			decl, err := parser.enumDecl()
			if err != nil {
				errors = append(errors, err)
				parser.synchronize()
				continue
			}
			root.Enums = append(root.Enums, decl)
		case parser.checkType(token.VAR):
			parser.advance()
			v, err := parser.varDeclBody()
			if err != nil {
				errors = append(errors, err)
				parser.synchronize()
				continue
			}
			root.Globals = append(root.Globals, v)
		default:
			tok := parser.peek()
			errors = append(errors, diag.NewSemanticError(diag.Pos{Line: tok.Line, Column: tok.Column}, "expected a function, struct, enum or var declaration"))
			parser.synchronize()
		}
	}

	return root, errors
}

// synchronize discards tokens until it reaches a point a new top-level
// declaration is likely to start, so that parsing can recover after an
// error and continue looking for more.
func (parser *Parser) synchronize() {
	for !parser.isFinished() {
		switch parser.peek().TokenType {
		case token.FUNC, token.AT, token.STRUCT, token.ENUM, token.VAR:
			return
		}
		parser.advance()
	}
}

// parseType parses a type annotation: either a named type ("int", or a
// struct/enum name) or an array type ("[N]T").
func (parser *Parser) parseType() (ast.TypeExpr, error) {
	if parser.isMatch([]token.TokenType{token.LBRACKET}) {
		lenTok, err := parser.consume(token.INT, "expected array length")
		if err != nil {
			return ast.TypeExpr{}, err
		}
		if _, err := parser.consume(token.RBRACKET, "expected ']' after array length"); err != nil {
			return ast.TypeExpr{}, err
		}
		elem, err := parser.parseType()
		if err != nil {
			return ast.TypeExpr{}, err
		}
		return ast.TypeExpr{Elements: lenTok.Literal.(int64), Elem: &elem}, nil
	}
	nameTok, err := parser.consume(token.IDENTIFIER, "expected a type name")
	if err != nil {
		return ast.TypeExpr{}, err
	}
	return ast.TypeExpr{Name: nameTok}, nil
}

// funcDecl parses a function declaration: "fn name(params) -> type { ... }".
// A leading '@' marks the function comptime-only.
func (parser *Parser) funcDecl() (*ast.Func, error) {
	comptime := parser.isMatch([]token.TokenType{token.AT})
	if _, err := parser.consume(token.FUNC, "expected 'fn'"); err != nil {
		return nil, err
	}
	name, err := parser.consume(token.IDENTIFIER, "expected a function name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LPA, "expected '(' after function name"); err != nil {
		return nil, err
	}

	var params []ast.Param
	for !parser.checkType(token.RPA) {
		pname, err := parser.consume(token.IDENTIFIER, "expected a parameter name")
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.COLON, "expected ':' after parameter name"); err != nil {
			return nil, err
		}
		ptype, err := parser.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Param{Name: pname, TypeExpr: ptype})
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after parameters"); err != nil {
		return nil, err
	}

	var returnType ast.TypeExpr
	if parser.isMatch([]token.TokenType{token.ARROW}) {
		returnType, err = parser.parseType()
		if err != nil {
			return nil, err
		}
	}

	if _, err := parser.consume(token.LCUR, "expected '{' before function body"); err != nil {
		return nil, err
	}
	bodyLine := parser.previous().Line
	stmts, err := parser.block()
	if err != nil {
		return nil, err
	}

	return &ast.Func{
		Name:       name,
		Params:     params,
		ReturnType: returnType,
		Body:       ast.NewBlockStmt(stmts, bodyLine),
		IsComptime: comptime,
		IsMain:     name.Lexeme == "main",
	}, nil
}

// structDecl parses a struct declaration: "struct Name { member: type; ... }".
func (parser *Parser) structDecl() (*ast.StructDecl, error) {
	parser.advance() // 'struct'
	name, err := parser.consume(token.IDENTIFIER, "expected a struct name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' after struct name"); err != nil {
		return nil, err
	}

	var members []ast.StructMemberDecl
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		mname, err := parser.consume(token.IDENTIFIER, "expected a member name")
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.COLON, "expected ':' after member name"); err != nil {
			return nil, err
		}
		mtype, err := parser.parseType()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.SEMICOLON, "expected ';' after struct member"); err != nil {
			return nil, err
		}
		members = append(members, ast.StructMemberDecl{Name: mname, TypeExpr: mtype})
	}
	if _, err := parser.consume(token.RCUR, "expected '}' after struct body"); err != nil {
		return nil, err
	}
	return &ast.StructDecl{Name: name, Members: members}, nil
}

// enumDecl parses an enum declaration: "enum Name { A, B, C }".
func (parser *Parser) enumDecl() (*ast.EnumDecl, error) {
	parser.advance() // 'enum'
	name, err := parser.consume(token.IDENTIFIER, "expected an enum name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' after enum name"); err != nil {
		return nil, err
	}

	var values []token.Token
	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		v, err := parser.consume(token.IDENTIFIER, "expected an enum value name")
		if err != nil {
			return nil, err
		}
		values = append(values, v)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RCUR, "expected '}' after enum body"); err != nil {
		return nil, err
	}
	return &ast.EnumDecl{Name: name, Values: values}, nil
}

// varDeclBody parses the remainder of a variable declaration after the
// leading 'var' keyword has already been consumed: "name: type (= expr)? ;".
func (parser *Parser) varDeclBody() (*ast.VarStmt, error) {
	name, err := parser.consume(token.IDENTIFIER, "expected a variable name")
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.COLON, "expected ':' after variable name"); err != nil {
		return nil, err
	}
	typeExpr, err := parser.parseType()
	if err != nil {
		return nil, err
	}

	var initializer ast.Expression
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		initializer, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after variable declaration"); err != nil {
		return nil, err
	}
	return ast.NewVarStmt(name, typeExpr, initializer), nil
}

// statement parses a single statement inside a function body.
func (parser *Parser) statement() (ast.Stmt, error) {
	switch {
	case parser.isMatch([]token.TokenType{token.PRINT}):
		return parser.printStatement()
	case parser.isMatch([]token.TokenType{token.VAR}):
		return parser.varDeclBody()
	case parser.isMatch([]token.TokenType{token.LCUR}):
		line := parser.previous().Line
		stmts, err := parser.block()
		if err != nil {
			return nil, err
		}
		return ast.NewBlockStmt(stmts, line), nil
	case parser.isMatch([]token.TokenType{token.IF}):
		return parser.ifStatement()
	case parser.isMatch([]token.TokenType{token.WHILE}):
		return parser.whileStatement()
	case parser.isMatch([]token.TokenType{token.BREAK}):
		line := parser.previous().Line
		_, err := parser.consume(token.SEMICOLON, "expected ';' after 'break'")
		return ast.NewBreakStmt(line), err
	case parser.isMatch([]token.TokenType{token.CONTINUE}):
		line := parser.previous().Line
		_, err := parser.consume(token.SEMICOLON, "expected ';' after 'continue'")
		return ast.NewContinueStmt(line), err
	case parser.isMatch([]token.TokenType{token.RETURN}):
		return parser.returnStatement()
	default:
		return parser.assignmentOrExpressionStatement()
	}
}

// printStatement parses "print <expr>, <expr>, ...;".
func (parser *Parser) printStatement() (ast.Stmt, error) {
	line := parser.previous().Line
	var args []ast.Expression
	for {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, expr)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after print statement"); err != nil {
		return nil, err
	}
	return ast.NewPrintStmt(args, line), nil
}

// returnStatement parses "return;" or "return <expr>;".
func (parser *Parser) returnStatement() (ast.Stmt, error) {
	line := parser.previous().Line
	var value ast.Expression
	if !parser.checkType(token.SEMICOLON) {
		var err error
		value, err = parser.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after return statement"); err != nil {
		return nil, err
	}
	return ast.NewReturnStmt(value, line), nil
}

// whileStatement parses "while (cond) { ... }".
func (parser *Parser) whileStatement() (ast.Stmt, error) {
	line := parser.previous().Line
	if _, err := parser.consume(token.LPA, "expected '(' after 'while'"); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after while condition"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' before while body"); err != nil {
		return nil, err
	}
	bodyLine := parser.previous().Line
	stmts, err := parser.block()
	if err != nil {
		return nil, err
	}
	return ast.NewWhileStmt(cond, ast.NewBlockStmt(stmts, bodyLine), line), nil
}

// ifStatement parses "if (cond) { ... } else ...".
func (parser *Parser) ifStatement() (ast.Stmt, error) {
	line := parser.previous().Line
	if _, err := parser.consume(token.LPA, "expected '(' after 'if'"); err != nil {
		return nil, err
	}
	cond, err := parser.expression()
	if err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.RPA, "expected ')' after if condition"); err != nil {
		return nil, err
	}
	if _, err := parser.consume(token.LCUR, "expected '{' before if body"); err != nil {
		return nil, err
	}
	thenLine := parser.previous().Line
	thenStmts, err := parser.block()
	if err != nil {
		return nil, err
	}
	thenStmt := ast.NewBlockStmt(thenStmts, thenLine)

	var elseStmt ast.Stmt
	if parser.isMatch([]token.TokenType{token.ELSE}) {
		if parser.isMatch([]token.TokenType{token.IF}) {
			elseStmt, err = parser.ifStatement()
			if err != nil {
				return nil, err
			}
		} else {
			if _, err := parser.consume(token.LCUR, "expected '{' before else body"); err != nil {
				return nil, err
			}
			elseLine := parser.previous().Line
			elseStmts, err := parser.block()
			if err != nil {
				return nil, err
			}
			elseStmt = ast.NewBlockStmt(elseStmts, elseLine)
		}
	}

	return ast.NewIfStmt(cond, thenStmt, elseStmt, line), nil
}

// assignmentOrExpressionStatement parses either an assignment ("lvalue =
// expr;") or a bare expression statement ("expr;").
func (parser *Parser) assignmentOrExpressionStatement() (ast.Stmt, error) {
	expr, err := parser.expression()
	if err != nil {
		return nil, err
	}
	line := expr.Line()
	if parser.isMatch([]token.TokenType{token.ASSIGN}) {
		value, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.SEMICOLON, "expected ';' after assignment"); err != nil {
			return nil, err
		}
		return ast.NewAssignStmt(expr, value, line), nil
	}
	if _, err := parser.consume(token.SEMICOLON, "expected ';' after expression statement"); err != nil {
		return nil, err
	}
	return ast.NewExpressionStmt(expr, line), nil
}

// block parses the statements of a block up to (and consuming) the '}'
// that closes it. The opening '{' must already have been consumed by the
// caller.
func (parser *Parser) block() ([]ast.Stmt, error) {
	var statements []ast.Stmt

	for !parser.checkType(token.RCUR) && !parser.isFinished() {
		stmt, err := parser.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	if _, err := parser.consume(token.RCUR, "expected '}' after block"); err != nil {
		return nil, err
	}
	return statements, nil
}

// expression is the entry point for parsing expressions.
func (parser *Parser) expression() (ast.Expression, error) {
	return parser.logicOr()
}

func (parser *Parser) logicOr() (ast.Expression, error) {
	exp, err := parser.logicAnd()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.OR}) {
		operator := parser.previous()
		right, err := parser.logicAnd()
		if err != nil {
			return nil, err
		}
		exp = ast.NewBinary(exp, operator, right)
	}
	return exp, nil
}

func (parser *Parser) logicAnd() (ast.Expression, error) {
	exp, err := parser.equality()
	if err != nil {
		return nil, err
	}
	for parser.isMatch([]token.TokenType{token.AND}) {
		operator := parser.previous()
		right, err := parser.equality()
		if err != nil {
			return nil, err
		}
		exp = ast.NewBinary(exp, operator, right)
	}
	return exp, nil
}

func (parser *Parser) equality() (ast.Expression, error) {
	exp, err := parser.comparison()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(equalityTokenTypes) {
		operator := parser.previous()
		right, err := parser.comparison()
		if err != nil {
			return nil, err
		}
		exp = ast.NewBinary(exp, operator, right)
	}
	return exp, nil
}

func (parser *Parser) comparison() (ast.Expression, error) {
	exp, err := parser.shift()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(comparisonTokenTypes) {
		operator := parser.previous()
		right, err := parser.shift()
		if err != nil {
			return nil, err
		}
		exp = ast.NewBinary(exp, operator, right)
	}
	return exp, nil
}

func (parser *Parser) shift() (ast.Expression, error) {
	exp, err := parser.term()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(shiftTokenTypes) {
		operator := parser.previous()
		right, err := parser.term()
		if err != nil {
			return nil, err
		}
		exp = ast.NewBinary(exp, operator, right)
	}
	return exp, nil
}

func (parser *Parser) term() (ast.Expression, error) {
	exp, err := parser.factor()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(termTokenTypes) {
		operator := parser.previous()
		right, err := parser.factor()
		if err != nil {
			return nil, err
		}
		exp = ast.NewBinary(exp, operator, right)
	}
	return exp, nil
}

func (parser *Parser) factor() (ast.Expression, error) {
	exp, err := parser.unary()
	if err != nil {
		return nil, err
	}
	for parser.isMatch(factorExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		exp = ast.NewBinary(exp, operator, right)
	}
	return exp, nil
}

// unary parses unary prefix expressions using operators "!" or "-".
func (parser *Parser) unary() (ast.Expression, error) {
	if parser.isMatch(unaryExpressionTypes) {
		operator := parser.previous()
		right, err := parser.unary()
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(operator, right), nil
	}
	return parser.postfix()
}

// postfix parses a primary expression followed by any chain of struct
// member accesses ('.') and array indexing ('[...]').
func (parser *Parser) postfix() (ast.Expression, error) {
	expr, err := parser.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case parser.isMatch([]token.TokenType{token.DOT}):
			dotTok := parser.previous()
			member, err := parser.consume(token.IDENTIFIER, "expected a member name after '.'")
			if err != nil {
				return nil, err
			}
			expr = ast.NewBinary(expr, dotTok, ast.NewVariable(member))
		case parser.isMatch([]token.TokenType{token.LBRACKET}):
			bracketTok := parser.previous()
			index, err := parser.expression()
			if err != nil {
				return nil, err
			}
			if _, err := parser.consume(token.RBRACKET, "expected ']' after array index"); err != nil {
				return nil, err
			}
			expr = ast.NewBinary(expr, bracketTok, index)
		default:
			return expr, nil
		}
	}
}

// primary parses literals, identifiers, calls and parenthesized groupings.
func (parser *Parser) primary() (ast.Expression, error) {
	if parser.isMatch([]token.TokenType{token.TRUE}) {
		return ast.NewLiteral(1, parser.previous().Line), nil
	}
	if parser.isMatch([]token.TokenType{token.FALSE}) {
		return ast.NewLiteral(0, parser.previous().Line), nil
	}
	if parser.isMatch([]token.TokenType{token.INT}) {
		tok := parser.previous()
		return ast.NewLiteral(tok.Literal.(int64), tok.Line), nil
	}

	if parser.isMatch([]token.TokenType{token.AT}) {
		name, err := parser.consume(token.IDENTIFIER, "expected a function name after '@'")
		if err != nil {
			return nil, err
		}
		return parser.finishCall(name, true)
	}

	if parser.isMatch([]token.TokenType{token.IDENTIFIER}) {
		name := parser.previous()
		if parser.checkType(token.LPA) {
			return parser.finishCall(name, false)
		}
		return ast.NewVariable(name), nil
	}

	if parser.isMatch([]token.TokenType{token.LPA}) {
		expr, err := parser.expression()
		if err != nil {
			return nil, err
		}
		if _, err := parser.consume(token.RPA, "expected ')' to close grouped expression"); err != nil {
			return nil, err
		}
		return expr, nil
	}

	currentToken := parser.peek()
	return nil, diag.NewSemanticError(diag.Pos{Line: currentToken.Line, Column: currentToken.Column}, "unrecognised expression")
}

// finishCall parses the "(args)" suffix of a call, given the callee name
// token has already been consumed.
func (parser *Parser) finishCall(callee token.Token, comptime bool) (ast.Expression, error) {
	if _, err := parser.consume(token.LPA, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var args []ast.Expression
	for !parser.checkType(token.RPA) {
		arg, err := parser.expression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if !parser.isMatch([]token.TokenType{token.COMMA}) {
			break
		}
	}
	if _, err := parser.consume(token.RPA, "expected ')' after call arguments"); err != nil {
		return nil, err
	}
	return ast.NewCall(callee, args, comptime), nil
}
