package zelcompiler

import (
	"fmt"

	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelsyntax"
	"github.com/reusee/zel/zelval"
	"github.com/reusee/zel/zelvm"
)

type constKey struct {
	kind zelval.Kind
	repr string
}

type compiler struct {
	name      string
	async     zelsched.AsyncPolicy
	params    map[string]int
	code      []zelvm.OpCode
	constants []zelval.Value
	consts    map[constKey]int
	sites     []zelvm.CallSite
	siteIndex map[zelvm.CallSite]int
}

// Compile translates an expression over the named parameters into a verified program.
// Compiling the same source, parameters and options always yields the same program.
func Compile(src string, params []string, opts ...Option) (*zelvm.Program, error) {
	c := &compiler{
		params:    make(map[string]int, len(params)),
		consts:    make(map[constKey]int),
		siteIndex: make(map[zelvm.CallSite]int),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i, name := range params {
		if !zelsyntax.IsIdentifier(name) {
			return nil, &CompileError{
				Msg: fmt.Sprintf("invalid parameter name %q", name),
				Err: ErrInvalidParam,
			}
		}
		if _, ok := c.params[name]; ok {
			return nil, &CompileError{
				Msg: fmt.Sprintf("duplicated parameter %q", name),
				Err: ErrInvalidParam,
			}
		}
		c.params[name] = i
	}

	expr, err := zelsyntax.Parse(src)
	if err != nil {
		return nil, fromSyntax(err)
	}
	if err := c.compileExpr(expr); err != nil {
		return nil, err
	}
	c.emit(zelvm.OpMakeResult)

	program, err := zelvm.NewProgram(c.name, c.code, c.constants, params, c.sites)
	if err != nil {
		return nil, &CompileError{
			Pos: expr.Position(),
			Msg: err.Error(),
			Err: err,
		}
	}
	return program, nil
}

func (c *compiler) emit(op zelvm.OpCode) int {
	c.code = append(c.code, op)
	return len(c.code) - 1
}

func (c *compiler) emitWith(pos zelsyntax.Pos, op zelvm.OpCode, arg int) error {
	if arg > zelvm.MaxOperand || arg < -zelvm.MaxOperand {
		return &CompileError{
			Pos: pos,
			Msg: fmt.Sprintf("operand %d out of range", arg),
			Err: ErrTooLarge,
		}
	}
	c.emit(op.With(arg))
	return nil
}

func (c *compiler) loadConst(pos zelsyntax.Pos, v zelval.Value) error {
	key := constKey{
		kind: v.Kind(),
		repr: v.GoString(),
	}
	idx, ok := c.consts[key]
	if !ok {
		idx = len(c.constants)
		c.constants = append(c.constants, v)
		c.consts[key] = idx
	}
	return c.emitWith(pos, zelvm.OpLoadConst, idx)
}

// jump emits a forward jump to be patched.
func (c *compiler) jump(op zelvm.OpCode) int {
	return c.emit(op)
}

// patch points the jump at idx to the next emitted instruction.
func (c *compiler) patch(pos zelsyntax.Pos, idx int) error {
	offset := len(c.code) - (idx + 1)
	if offset > zelvm.MaxOperand {
		return &CompileError{
			Pos: pos,
			Msg: "jump too far",
			Err: ErrTooLarge,
		}
	}
	c.code[idx] = c.code[idx].Op().With(offset)
	return nil
}

func (c *compiler) callSite(pos zelsyntax.Pos, site zelvm.CallSite) error {
	idx, ok := c.siteIndex[site]
	if !ok {
		idx = len(c.sites)
		c.sites = append(c.sites, site)
		c.siteIndex[site] = idx
	}
	op := zelvm.OpCallMethod
	if c.async != nil && c.async.Async(site.Name) {
		op = zelvm.OpSuspendCall
	}
	return c.emitWith(pos, op, idx)
}

var arithOps = map[zelsyntax.TokenKind]zelval.ArithOp{
	zelsyntax.TokenPlus:    zelval.OpAdd,
	zelsyntax.TokenMinus:   zelval.OpSub,
	zelsyntax.TokenStar:    zelval.OpMul,
	zelsyntax.TokenSlash:   zelval.OpDiv,
	zelsyntax.TokenPercent: zelval.OpMod,
}

var cmpOps = map[zelsyntax.TokenKind]zelval.CmpOp{
	zelsyntax.TokenEq: zelval.OpEq,
	zelsyntax.TokenNe: zelval.OpNe,
	zelsyntax.TokenLt: zelval.OpLt,
	zelsyntax.TokenLe: zelval.OpLe,
	zelsyntax.TokenGt: zelval.OpGt,
	zelsyntax.TokenGe: zelval.OpGe,
}

func (c *compiler) compileExpr(expr zelsyntax.Expr) error {
	switch e := expr.(type) {

	case *zelsyntax.Literal:
		return c.loadConst(e.Pos, e.Value)

	case *zelsyntax.Ident:
		idx, ok := c.params[e.Name]
		if !ok {
			return &CompileError{
				Pos: e.Pos,
				Msg: fmt.Sprintf("undeclared identifier %s", e.Name),
				Err: ErrUndeclared,
			}
		}
		c.emit(zelvm.OpLoadParam.With(idx))
		return nil

	case *zelsyntax.Unary:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		switch e.Op {
		case zelsyntax.TokenMinus:
			c.emit(zelvm.OpArith.With(int(zelval.OpNeg)))
		case zelsyntax.TokenNot:
			c.emit(zelvm.OpCompare.With(int(zelval.OpNot)))
		default:
			return &CompileError{
				Pos: e.Pos,
				Msg: fmt.Sprintf("unknown unary operator %s", e.Op),
			}
		}
		return nil

	case *zelsyntax.Binary:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		if err := c.compileExpr(e.Y); err != nil {
			return err
		}
		if op, ok := arithOps[e.Op]; ok {
			c.emit(zelvm.OpArith.With(int(op)))
			return nil
		}
		if op, ok := cmpOps[e.Op]; ok {
			c.emit(zelvm.OpCompare.With(int(op)))
			return nil
		}
		return &CompileError{
			Pos: e.Pos,
			Msg: fmt.Sprintf("unknown binary operator %s", e.Op),
		}

	case *zelsyntax.Logical:
		return c.compileLogical(e)

	case *zelsyntax.Conditional:
		if err := c.compileExpr(e.Cond); err != nil {
			return err
		}
		toElse := c.jump(zelvm.OpJumpFalse)
		if err := c.compileExpr(e.Then); err != nil {
			return err
		}
		toEnd := c.jump(zelvm.OpJump)
		if err := c.patch(e.Pos, toElse); err != nil {
			return err
		}
		if err := c.compileExpr(e.Else); err != nil {
			return err
		}
		return c.patch(e.Pos, toEnd)

	case *zelsyntax.Member:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		return c.callSite(e.Pos, zelvm.CallSite{
			Name:     e.Name,
			Property: true,
		})

	case *zelsyntax.Call:
		if err := c.compileExpr(e.X); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := c.compileExpr(arg); err != nil {
				return err
			}
		}
		return c.callSite(e.Pos, zelvm.CallSite{
			Name:    e.Name,
			NumArgs: len(e.Args),
		})

	}
	return &CompileError{
		Pos: expr.Position(),
		Msg: fmt.Sprintf("unknown expression %T", expr),
	}
}

// compileLogical leaves a bool. Operands must be bool or null.
//
//	x && y:                 x || y:
//	  x                       x
//	  jump-if-false F         jump-if-false Y
//	  y                       jump T
//	  jump-if-false F       Y:
//	  true                    y
//	  jump E                  jump-if-false F
//	F:                      T:
//	  false                   true
//	E:                        jump E
//	                        F:
//	                          false
//	                        E:
func (c *compiler) compileLogical(e *zelsyntax.Logical) error {
	var toFalse, toTrue []int

	if err := c.compileExpr(e.X); err != nil {
		return err
	}
	switch e.Op {
	case zelsyntax.TokenAnd:
		toFalse = append(toFalse, c.jump(zelvm.OpJumpFalse))
	case zelsyntax.TokenOr:
		toY := c.jump(zelvm.OpJumpFalse)
		toTrue = append(toTrue, c.jump(zelvm.OpJump))
		if err := c.patch(e.Pos, toY); err != nil {
			return err
		}
	default:
		return &CompileError{
			Pos: e.Pos,
			Msg: fmt.Sprintf("unknown logical operator %s", e.Op),
		}
	}

	if err := c.compileExpr(e.Y); err != nil {
		return err
	}
	toFalse = append(toFalse, c.jump(zelvm.OpJumpFalse))

	for _, idx := range toTrue {
		if err := c.patch(e.Pos, idx); err != nil {
			return err
		}
	}
	if err := c.loadConst(e.Pos, zelval.Bool(true)); err != nil {
		return err
	}
	toEnd := c.jump(zelvm.OpJump)

	for _, idx := range toFalse {
		if err := c.patch(e.Pos, idx); err != nil {
			return err
		}
	}
	if err := c.loadConst(e.Pos, zelval.Bool(false)); err != nil {
		return err
	}
	return c.patch(e.Pos, toEnd)
}
