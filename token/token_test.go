package token

import "testing"

func TestCreateToken(t *testing.T) {
	tests := []struct {
		name      string
		tokenType TokenType
		wantLex   string
	}{
		{"assign", ASSIGN, "="},
		{"mult", MULT, "*"},
		{"larger_equal", LARGER_EQUAL, ">="},
		{"colon", COLON, ":"},
		{"at", AT, "@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CreateToken(tt.tokenType, 3, 7)
			want := Token{TokenType: tt.tokenType, Lexeme: tt.wantLex, Line: 3, Column: 7}
			if got != want {
				t.Errorf("CreateToken() = %+v, want %+v", got, want)
			}
		})
	}
}

func TestCreateLiteralToken(t *testing.T) {
	got := CreateLiteralToken(INT, int64(42), "42", 1, 1)
	want := Token{TokenType: INT, Lexeme: "42", Literal: int64(42), Line: 1, Column: 1}
	if got != want {
		t.Errorf("CreateLiteralToken() = %+v, want %+v", got, want)
	}
}

func TestKeywordLookup(t *testing.T) {
	tests := map[string]TokenType{
		"struct":   STRUCT,
		"enum":     ENUM,
		"fn":       FUNC,
		"continue": CONTINUE,
		"and":      AND,
		"or":       OR,
	}
	for lexeme, want := range tests {
		got, ok := KeyWords[lexeme]
		if !ok {
			t.Errorf("keyword %q not found", lexeme)
			continue
		}
		if got != want {
			t.Errorf("keyword %q = %v, want %v", lexeme, got, want)
		}
	}
}
