// Tests the lexer by verifying that a small sample program is
// tokenized into the expected sequence of kind/value/position triples.
package frontend

import "testing"

func TestLex(t *testing.T) {
	src := "int add(int a, int b) {\n  return a+b;\n}\n"

	exp := []Token{
		{Kind: KwInt, Val: "int", Line: 1, Col: 1},
		{Kind: Ident, Val: "add", Line: 1, Col: 5},
		{Kind: LParen, Val: "(", Line: 1, Col: 8},
		{Kind: KwInt, Val: "int", Line: 1, Col: 9},
		{Kind: Ident, Val: "a", Line: 1, Col: 13},
		{Kind: Comma, Val: ",", Line: 1, Col: 14},
		{Kind: KwInt, Val: "int", Line: 1, Col: 16},
		{Kind: Ident, Val: "b", Line: 1, Col: 20},
		{Kind: RParen, Val: ")", Line: 1, Col: 21},
		{Kind: LBrace, Val: "{", Line: 1, Col: 23},
		{Kind: KwReturn, Val: "return", Line: 2, Col: 3},
		{Kind: Ident, Val: "a", Line: 2, Col: 10},
		{Kind: Plus, Val: "+", Line: 2, Col: 11},
		{Kind: Ident, Val: "b", Line: 2, Col: 12},
		{Kind: Semi, Val: ";", Line: 2, Col: 13},
		{Kind: RBrace, Val: "}", Line: 3, Col: 1},
		{Kind: EOF, Val: "", Line: 4, Col: 1},
	}

	toks, err := Lex(src)
	if err != nil {
		t.Fatalf("unexpected lex error: %s", err)
	}
	if len(toks) != len(exp) {
		t.Fatalf("expected %d tokens, got %d: %v", len(exp), len(toks), toks)
	}
	for i, tok := range toks {
		if tok.Kind != exp[i].Kind || tok.Val != exp[i].Val {
			t.Errorf("token %d: expected %q, got %q", i, exp[i], tok)
		}
		if tok.Line != exp[i].Line || tok.Col != exp[i].Col {
			t.Errorf("token %d (%q): expected position %d:%d, got %d:%d",
				i, tok.Val, exp[i].Line, exp[i].Col, tok.Line, tok.Col)
		}
	}
}

func TestLexTwoCharOperators(t *testing.T) {
	toks, err := Lex("a<=b>=c==d!=e&&f||g++h--")
	if err != nil {
		t.Fatalf("unexpected lex error: %s", err)
	}
	var kinds []TokenKind
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	want := []TokenKind{
		Ident, Le, Ident, Ge, Ident, EqEq, Ident, NotEq, Ident, AndAnd, Ident,
		OrOr, Ident, Inc, Ident, Dec, EOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(kinds))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: expected kind %d, got %d", i, want[i], kinds[i])
		}
	}
}

func TestLexStringEscape(t *testing.T) {
	toks, err := Lex(`"hello \"world\""`)
	if err != nil {
		t.Fatalf("unexpected lex error: %s", err)
	}
	if len(toks) != 2 || toks[0].Kind != StringLit {
		t.Fatalf("expected a single string literal, got %v", toks)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := Lex(`"no closing quote`)
	if err == nil {
		t.Fatal("expected an unterminated string error")
	}
	lexErr, ok := err.(*LexError)
	if !ok || lexErr.Kind != UnexpectedEOF {
		t.Fatalf("expected UnexpectedEOF, got %#v", err)
	}
}

func TestLexOverflow(t *testing.T) {
	_, err := Lex("9999999999")
	if err == nil {
		t.Fatal("expected an overflow error")
	}
	lexErr, ok := err.(*LexError)
	if !ok || lexErr.Kind != OverflowError {
		t.Fatalf("expected OverflowError, got %#v", err)
	}
}

func TestLexInvalidCharacter(t *testing.T) {
	_, err := Lex("int a = 1 @ 2;")
	if err == nil {
		t.Fatal("expected an invalid token error")
	}
}
