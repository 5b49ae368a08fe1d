package zelsyntax

import (
	"errors"
	"testing"

	"github.com/reusee/zel/zelval"
)

func TestLexerTokens(t *testing.T) {
	var kinds []TokenKind
	for tok, err := range NewLexer(`a-b+1+c.length() >= 2.5 && !x || 'q\n' != "r" ? 1.5m : null`).Tokens() {
		if err != nil {
			t.Fatal(err)
		}
		kinds = append(kinds, tok.Kind)
	}
	want := []TokenKind{
		TokenIdent, TokenMinus, TokenIdent, TokenPlus, TokenInt, TokenPlus,
		TokenIdent, TokenDot, TokenIdent, TokenLParen, TokenRParen, TokenGe,
		TokenFloat, TokenAnd, TokenNot, TokenIdent, TokenOr, TokenString,
		TokenNe, TokenString, TokenQuestion, TokenDecimal, TokenColon, TokenNull,
		TokenEOF,
	}
	if len(kinds) != len(want) {
		t.Fatalf("got %v", kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Fatalf("at %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestLexerLiterals(t *testing.T) {
	l := NewLexer(`"a\tbA" 99999999999999999999 1e3 .5`)

	tok, err := l.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Value.AsText() != "a\tbA" {
		t.Fatalf("got %q", tok.Value.AsText())
	}

	tok, err = l.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Value.Kind() != zelval.KindBigInt {
		t.Fatalf("got %v", tok.Value.Kind())
	}

	tok, err = l.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Kind != TokenFloat || tok.Value.AsFloat() != 1000 {
		t.Fatalf("got %v", tok)
	}

	tok, err = l.Next()
	if err != nil {
		t.Fatal(err)
	}
	if tok.Value.AsFloat() != 0.5 {
		t.Fatalf("got %v", tok)
	}
}

func TestLexerPositions(t *testing.T) {
	l := NewLexer("a\n  + b")
	var toks []Token
	for tok, err := range l.Tokens() {
		if err != nil {
			t.Fatal(err)
		}
		toks = append(toks, tok)
	}
	if p := toks[1].Pos; p.Line != 2 || p.Column != 3 || p.Offset != 4 {
		t.Fatalf("got %+v", p)
	}
}

func TestLexicalError(t *testing.T) {
	l := NewLexer("a + #")
	var lexErr *LexicalError
	n := 0
	for _, err := range l.Tokens() {
		if err != nil {
			if !errors.As(err, &lexErr) {
				t.Fatalf("got %v", err)
			}
			break
		}
		n++
	}
	if lexErr == nil {
		t.Fatal("should error")
	}
	if n != 2 {
		t.Fatalf("got %d", n)
	}
	if lexErr.Char != '#' || lexErr.Pos.Column != 5 {
		t.Fatalf("got %+v", lexErr)
	}

	// stays failed until reset
	if _, err := l.Next(); err == nil {
		t.Fatal("should error")
	}
	l.Reset()
	if tok, err := l.Next(); err != nil || tok.Text != "a" {
		t.Fatalf("got %v %v", tok, err)
	}

	for _, src := range []string{
		`'abc`,
		`"\q"`,
		`1abc`,
		`a = b`,
		`a & b`,
		`1e`,
		"a + \xff",
		"'a\xffb'",
	} {
		_, err := collect(src)
		if !errors.As(err, &lexErr) {
			t.Fatalf("%s: got %v", src, err)
		}
	}
}

func TestLexerReplacementChar(t *testing.T) {
	tokens, err := collect("'a\uFFFDb' + \"\ufffd\"")
	if err != nil {
		t.Fatal(err)
	}
	if len(tokens) != 4 {
		t.Fatalf("got %v", tokens)
	}
	if s := tokens[0].Value.AsText(); s != "a\uFFFDb" {
		t.Fatalf("got %q", s)
	}
	if s := tokens[2].Value.AsText(); s != "\uFFFD" {
		t.Fatalf("got %q", s)
	}
}

func collect(src string) (ret []Token, err error) {
	for tok, err := range NewLexer(src).Tokens() {
		if err != nil {
			return nil, err
		}
		ret = append(ret, tok)
	}
	return
}

func TestIsIdentifier(t *testing.T) {
	for name, ok := range map[string]bool{
		"a":      true,
		"_foo1":  true,
		"名字":     true,
		"":       false,
		"1a":     false,
		"a-b":    false,
		"null":   false,
		"true":   false,
		"a b":    false,
		"trueish": true,
	} {
		if IsIdentifier(name) != ok {
			t.Fatalf("%q: got %v", name, !ok)
		}
	}
}
