package zelsyntax

import (
	"fmt"
	"strings"
)

type LexicalError struct {
	Pos  Pos
	Char rune
	Msg  string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at %s: %s", e.Pos, e.Msg)
}

type SyntaxError struct {
	Pos      Pos
	Expected string
	Found    Token
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: expected %s, found %s", e.Pos, e.Expected, e.Found)
}

// Caret renders the source line containing pos with a caret under the column.
func Caret(src string, pos Pos) string {
	lines := strings.Split(src, "\n")
	idx := pos.Line - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	line := strings.TrimRight(lines[idx], "\r")

	var sb strings.Builder
	sb.WriteString(line)
	sb.WriteString("\n")
	col := pos.Column - 1
	for i, r := range []rune(line) {
		if i >= col {
			break
		}
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	sb.WriteString("^")
	return sb.String()
}
