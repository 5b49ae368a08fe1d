package zelsyntax

import (
	"strings"

	"github.com/reusee/zel/zelval"
)

type Expr interface {
	Position() Pos
	expr()
}

type Literal struct {
	Pos   Pos
	Value zelval.Value
}

type Ident struct {
	Pos  Pos
	Name string
}

type Unary struct {
	Pos Pos
	Op  TokenKind
	X   Expr
}

// Binary is an arithmetic or comparison expression.
type Binary struct {
	Pos  Pos
	Op   TokenKind
	X, Y Expr
}

// Logical is a short-circuit && or || expression.
type Logical struct {
	Pos  Pos
	Op   TokenKind
	X, Y Expr
}

type Conditional struct {
	Pos  Pos
	Cond Expr
	Then Expr
	Else Expr
}

// Member is a property access. The name is resolved at run time.
type Member struct {
	Pos  Pos
	X    Expr
	Name string
}

// Call invokes a member method on the receiver X. The name is resolved at run time.
type Call struct {
	Pos  Pos
	X    Expr
	Name string
	Args []Expr
}

func (l *Literal) Position() Pos     { return l.Pos }
func (i *Ident) Position() Pos       { return i.Pos }
func (u *Unary) Position() Pos       { return u.Pos }
func (b *Binary) Position() Pos      { return b.Pos }
func (l *Logical) Position() Pos     { return l.Pos }
func (c *Conditional) Position() Pos { return c.Pos }
func (m *Member) Position() Pos      { return m.Pos }
func (c *Call) Position() Pos        { return c.Pos }

func (*Literal) expr()     {}
func (*Ident) expr()       {}
func (*Unary) expr()       {}
func (*Binary) expr()      {}
func (*Logical) expr()     {}
func (*Conditional) expr() {}
func (*Member) expr()      {}
func (*Call) expr()        {}

// Format renders an expression fully parenthesized.
func Format(e Expr) string {
	var sb strings.Builder
	format(&sb, e)
	return sb.String()
}

func format(sb *strings.Builder, e Expr) {
	switch e := e.(type) {
	case *Literal:
		sb.WriteString(e.Value.GoString())
	case *Ident:
		sb.WriteString(e.Name)
	case *Unary:
		sb.WriteString("(")
		sb.WriteString(e.Op.String())
		format(sb, e.X)
		sb.WriteString(")")
	case *Binary:
		formatInfix(sb, e.Op, e.X, e.Y)
	case *Logical:
		formatInfix(sb, e.Op, e.X, e.Y)
	case *Conditional:
		sb.WriteString("(")
		format(sb, e.Cond)
		sb.WriteString(" ? ")
		format(sb, e.Then)
		sb.WriteString(" : ")
		format(sb, e.Else)
		sb.WriteString(")")
	case *Member:
		format(sb, e.X)
		sb.WriteString(".")
		sb.WriteString(e.Name)
	case *Call:
		format(sb, e.X)
		sb.WriteString(".")
		sb.WriteString(e.Name)
		sb.WriteString("(")
		for i, arg := range e.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			format(sb, arg)
		}
		sb.WriteString(")")
	}
}

func formatInfix(sb *strings.Builder, op TokenKind, x, y Expr) {
	sb.WriteString("(")
	format(sb, x)
	sb.WriteString(" ")
	sb.WriteString(op.String())
	sb.WriteString(" ")
	format(sb, y)
	sb.WriteString(")")
}
