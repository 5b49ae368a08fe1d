package zelsyntax

import (
	"fmt"

	"github.com/reusee/zel/zelval"
)

type Pos struct {
	Offset int
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type TokenKind uint8

const (
	TokenEOF TokenKind = iota
	TokenInt
	TokenFloat
	TokenDecimal
	TokenString
	TokenIdent
	TokenTrue
	TokenFalse
	TokenNull
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenEq
	TokenNe
	TokenLt
	TokenLe
	TokenGt
	TokenGe
	TokenAnd
	TokenOr
	TokenNot
	TokenQuestion
	TokenColon
	TokenLParen
	TokenRParen
	TokenComma
	TokenDot
)

var tokenNames = [...]string{
	TokenEOF:      "end of input",
	TokenInt:      "integer",
	TokenFloat:    "float",
	TokenDecimal:  "decimal",
	TokenString:   "string",
	TokenIdent:    "identifier",
	TokenTrue:     "true",
	TokenFalse:    "false",
	TokenNull:     "null",
	TokenPlus:     "+",
	TokenMinus:    "-",
	TokenStar:     "*",
	TokenSlash:    "/",
	TokenPercent:  "%",
	TokenEq:       "==",
	TokenNe:       "!=",
	TokenLt:       "<",
	TokenLe:       "<=",
	TokenGt:       ">",
	TokenGe:       ">=",
	TokenAnd:      "&&",
	TokenOr:       "||",
	TokenNot:      "!",
	TokenQuestion: "?",
	TokenColon:    ":",
	TokenLParen:   "(",
	TokenRParen:   ")",
	TokenComma:    ",",
	TokenDot:      ".",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "invalid"
}

var keywords = map[string]TokenKind{
	"true":  TokenTrue,
	"false": TokenFalse,
	"null":  TokenNull,
}

type Token struct {
	Kind TokenKind
	Pos  Pos
	// Text is the source lexeme
	Text string
	// Value is set for literal tokens
	Value zelval.Value
}

func (t Token) String() string {
	switch t.Kind {
	case TokenEOF:
		return t.Kind.String()
	case TokenIdent:
		return t.Text
	}
	return fmt.Sprintf("%q", t.Text)
}
