package frontend

import "fmt"

// TokenKind differentiates the tokens scanned by the lexer.
type TokenKind int

const (
	EOF TokenKind = iota
	ErrorToken

	Ident
	IntLit
	StringLit

	// Keywords.
	KwInt
	KwString
	KwBool
	KwVoid
	KwIf
	KwElse
	KwWhile
	KwReturn
	KwTrue
	KwFalse

	// Punctuation and operators.
	LParen
	RParen
	LBrace
	RBrace
	Comma
	Semi
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Inc
	Dec
	Lt
	Le
	Gt
	Ge
	EqEq
	NotEq
	Not
	AndAnd
	OrOr
)

var keywords = map[string]TokenKind{
	"int":    KwInt,
	"string": KwString,
	"bool":   KwBool,
	"void":   KwVoid,
	"if":     KwIf,
	"else":   KwElse,
	"while":  KwWhile,
	"return": KwReturn,
	"true":   KwTrue,
	"false":  KwFalse,
}

// Token is a lexeme scanned by the lexer together with its source
// position and, for identifiers/literals, its text value.
type Token struct {
	Kind TokenKind
	Val  string
	Line int
	Col  int
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	if t.Kind == ErrorToken {
		return fmt.Sprintf("%s [ERROR]", t.Val)
	}
	return fmt.Sprintf("%q (%d:%d)", t.Val, t.Line, t.Col)
}
