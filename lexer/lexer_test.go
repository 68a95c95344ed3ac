package lexer

import (
	"testing"

	"stackc/token"
)

func tokenTypes(tokens []token.Token) []token.TokenType {
	types := make([]token.TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.TokenType
	}
	return types
}

func assertTokenTypes(t *testing.T, source string, want []token.TokenType) {
	t.Helper()
	scanner := New(source)
	got, err := scanner.Scan()
	if err != nil {
		t.Fatalf("scanner.Scan() raised an error: %v", err)
	}
	gotTypes := tokenTypes(got)
	if len(gotTypes) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(gotTypes), gotTypes, len(want), want)
	}
	for i, w := range want {
		if gotTypes[i] != w {
			t.Errorf("token %d: got %v, want %v", i, gotTypes[i], w)
		}
	}
}

func TestScanOperators(t *testing.T) {
	assertTokenTypes(t, "==/=*+>-<!=<=>=!!", []token.TokenType{
		token.EQUAL_EQUAL, token.DIV, token.ASSIGN, token.MULT, token.ADD,
		token.LARGER, token.SUB, token.LESS, token.NOT_EQUAL, token.LESS_EQUAL,
		token.LARGER_EQUAL, token.BANG, token.BANG, token.EOF,
	})
}

func TestScanPunctuation(t *testing.T) {
	assertTokenTypes(t, "(){}**;+!=<=", []token.TokenType{
		token.LPA, token.RPA, token.LCUR, token.RCUR, token.MULT, token.MULT,
		token.SEMICOLON, token.ADD, token.NOT_EQUAL, token.LESS_EQUAL, token.EOF,
	})
}

func TestScanShiftOperators(t *testing.T) {
	assertTokenTypes(t, "1 << 2 >> 1", []token.TokenType{
		token.INT, token.LSHIFT, token.INT, token.RSHIFT, token.INT, token.EOF,
	})
}

func TestScanTypeAnnotationTokens(t *testing.T) {
	assertTokenTypes(t, "x: [3]int", []token.TokenType{
		token.IDENTIFIER, token.COLON, token.LBRACKET, token.INT, token.RBRACKET, token.IDENTIFIER, token.EOF,
	})
}

func TestScanComptimeCallTokens(t *testing.T) {
	assertTokenTypes(t, "@square(6)", []token.TokenType{
		token.AT, token.IDENTIFIER, token.LPA, token.INT, token.RPA, token.EOF,
	})
}

func TestScanArrowAndDot(t *testing.T) {
	assertTokenTypes(t, "fn f() -> int { return p.x; }", []token.TokenType{
		token.FUNC, token.IDENTIFIER, token.LPA, token.RPA, token.ARROW, token.IDENTIFIER,
		token.LCUR, token.RETURN, token.IDENTIFIER, token.DOT, token.IDENTIFIER, token.SEMICOLON,
		token.RCUR, token.EOF,
	})
}

func TestScanKeywords(t *testing.T) {
	assertTokenTypes(t, "struct enum fn var if else while return print continue break and or true false",
		[]token.TokenType{
			token.STRUCT, token.ENUM, token.FUNC, token.VAR, token.IF, token.ELSE,
			token.WHILE, token.RETURN, token.PRINT, token.CONTINUE, token.BREAK,
			token.AND, token.OR, token.TRUE, token.FALSE, token.EOF,
		})
}

func TestScanSkipsComments(t *testing.T) {
	assertTokenTypes(t, "1 # this is a comment\n2", []token.TokenType{
		token.INT, token.INT, token.EOF,
	})
}

func TestScanReportsIllegalCharacter(t *testing.T) {
	scanner := New("1 $ 2")
	_, err := scanner.Scan()
	if err == nil {
		t.Fatalf("expected an error scanning an illegal character")
	}
}
