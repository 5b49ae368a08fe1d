package zelsyntax

import (
	"errors"
	"iter"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/reusee/zel/zelval"
)

// Lexer produces tokens on demand. It stops at the first error.
type Lexer struct {
	src    string
	offset int
	line   int
	column int
	err    error
}

func NewLexer(src string) *Lexer {
	l := &Lexer{
		src: src,
	}
	l.Reset()
	return l
}

// Reset rewinds to the start of the source.
func (l *Lexer) Reset() {
	l.offset = 0
	l.line = 1
	l.column = 1
	l.err = nil
}

func (l *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := l.Next()
			if err != nil {
				yield(tok, err)
				return
			}
			if !yield(tok, nil) {
				return
			}
			if tok.Kind == TokenEOF {
				return
			}
		}
	}
}

func (l *Lexer) pos() Pos {
	return Pos{
		Offset: l.offset,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() rune {
	if l.offset >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.offset:])
	return r
}

func (l *Lexer) peekAt(n int) rune {
	offset := l.offset
	for i := 0; i < n; i++ {
		if offset >= len(l.src) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(l.src[offset:])
		offset += size
	}
	if offset >= len(l.src) {
		return -1
	}
	r, _ := utf8.DecodeRuneInString(l.src[offset:])
	return r
}

// invalid reports whether the next byte does not start a valid utf-8 sequence.
func (l *Lexer) invalid() bool {
	if l.offset >= len(l.src) {
		return false
	}
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	return r == utf8.RuneError && size == 1
}

func (l *Lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.offset:])
	l.offset += size
	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return r
}

func (l *Lexer) fail(pos Pos, char rune, msg string) (Token, error) {
	l.err = &LexicalError{
		Pos:  pos,
		Char: char,
		Msg:  msg,
	}
	return Token{Pos: pos}, l.err
}

func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}

	for {
		r := l.peek()
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			l.advance()
			continue
		}
		break
	}

	start := l.pos()
	r := l.peek()
	if r < 0 {
		return Token{Kind: TokenEOF, Pos: start}, nil
	}
	if l.invalid() {
		return l.fail(start, r, "invalid utf-8 encoding")
	}

	switch {
	case r >= '0' && r <= '9':
		return l.number(start)
	case r == '.' && isDigit(l.peekAt(1)):
		return l.number(start)
	case r == '\'' || r == '"':
		return l.string(start)
	case isIdentStart(r):
		for isIdentPart(l.peek()) {
			l.advance()
		}
		text := l.src[start.Offset:l.offset]
		tok := Token{
			Kind: TokenIdent,
			Pos:  start,
			Text: text,
		}
		if kind, ok := keywords[text]; ok {
			tok.Kind = kind
			switch kind {
			case TokenTrue:
				tok.Value = zelval.Bool(true)
			case TokenFalse:
				tok.Value = zelval.Bool(false)
			}
		}
		return tok, nil
	}

	l.advance()
	kind := TokenEOF
	switch r {
	case '+':
		kind = TokenPlus
	case '-':
		kind = TokenMinus
	case '*':
		kind = TokenStar
	case '/':
		kind = TokenSlash
	case '%':
		kind = TokenPercent
	case '?':
		kind = TokenQuestion
	case ':':
		kind = TokenColon
	case '(':
		kind = TokenLParen
	case ')':
		kind = TokenRParen
	case ',':
		kind = TokenComma
	case '.':
		kind = TokenDot
	case '=':
		if l.peek() != '=' {
			return l.fail(start, r, "unexpected '=', did you mean '=='")
		}
		l.advance()
		kind = TokenEq
	case '!':
		kind = TokenNot
		if l.peek() == '=' {
			l.advance()
			kind = TokenNe
		}
	case '<':
		kind = TokenLt
		if l.peek() == '=' {
			l.advance()
			kind = TokenLe
		}
	case '>':
		kind = TokenGt
		if l.peek() == '=' {
			l.advance()
			kind = TokenGe
		}
	case '&':
		if l.peek() != '&' {
			return l.fail(start, r, "unexpected '&', did you mean '&&'")
		}
		l.advance()
		kind = TokenAnd
	case '|':
		if l.peek() != '|' {
			return l.fail(start, r, "unexpected '|', did you mean '||'")
		}
		l.advance()
		kind = TokenOr
	default:
		return l.fail(start, r, "unexpected character "+strconv.QuoteRune(r))
	}

	return Token{
		Kind: kind,
		Pos:  start,
		Text: l.src[start.Offset:l.offset],
	}, nil
}

func (l *Lexer) number(start Pos) (Token, error) {
	kind := TokenInt
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		kind = TokenFloat
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if r := l.peek(); r == 'e' || r == 'E' {
		next := l.peekAt(1)
		if isDigit(next) || (next == '+' || next == '-') && isDigit(l.peekAt(2)) {
			kind = TokenFloat
			l.advance()
			if next == '+' || next == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		} else {
			return l.fail(l.pos(), r, "malformed exponent")
		}
	}
	text := l.src[start.Offset:l.offset]
	if r := l.peek(); r == 'm' || r == 'M' {
		l.advance()
		kind = TokenDecimal
	}
	if r := l.peek(); isIdentPart(r) {
		return l.fail(l.pos(), r, "malformed number")
	}

	tok := Token{
		Kind: kind,
		Pos:  start,
		Text: l.src[start.Offset:l.offset],
	}

	switch kind {

	case TokenInt:
		i, err := strconv.ParseInt(text, 10, 64)
		if err == nil {
			tok.Value = zelval.Int(i)
		} else if errors.Is(err, strconv.ErrRange) {
			b, _ := new(big.Int).SetString(text, 10)
			tok.Value = zelval.BigInt(b)
		} else {
			return l.fail(start, 0, "malformed integer")
		}

	case TokenFloat:
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.fail(start, 0, "float literal out of range")
		}
		tok.Value = zelval.Float(f)

	case TokenDecimal:
		v, err := zelval.ParseDecimal(text)
		if err != nil {
			return l.fail(start, 0, "malformed decimal")
		}
		tok.Value = v

	}

	return tok, nil
}

func (l *Lexer) string(start Pos) (Token, error) {
	quote := l.advance()
	var sb strings.Builder
	for {
		r := l.peek()
		if r < 0 {
			return l.fail(start, quote, "unterminated string")
		}
		escPos := l.pos()
		if l.invalid() {
			return l.fail(escPos, r, "invalid utf-8 encoding")
		}
		l.advance()
		if r == quote {
			break
		}
		if r != '\\' {
			sb.WriteRune(r)
			continue
		}

		e := l.peek()
		if e < 0 {
			return l.fail(start, quote, "unterminated string")
		}
		l.advance()
		switch e {
		case 'n':
			sb.WriteByte('\n')
		case 't':
			sb.WriteByte('\t')
		case 'r':
			sb.WriteByte('\r')
		case '\\', '\'', '"':
			sb.WriteRune(e)
		case 'u':
			var code rune
			for i := 0; i < 4; i++ {
				h := l.peek()
				d := hexValue(h)
				if d < 0 {
					return l.fail(escPos, h, "invalid unicode escape")
				}
				l.advance()
				code = code<<4 | rune(d)
			}
			sb.WriteRune(code)
		default:
			return l.fail(escPos, e, "invalid escape "+strconv.QuoteRune(e))
		}
	}

	return Token{
		Kind:  TokenString,
		Pos:   start,
		Text:  l.src[start.Offset:l.offset],
		Value: zelval.Text(sb.String()),
	}, nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func hexValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'a' && r <= 'f':
		return int(r-'a') + 10
	case r >= 'A' && r <= 'F':
		return int(r-'A') + 10
	}
	return -1
}

// IsIdentifier reports whether name lexes as a single identifier, which keywords do not.
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	if _, ok := keywords[name]; ok {
		return false
	}
	for i, r := range name {
		if i == 0 && !isIdentStart(r) || !isIdentPart(r) {
			return false
		}
	}
	return true
}
