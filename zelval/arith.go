package zelval

import (
	"math"
	"math/big"
)

type ArithOp uint8

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg
)

var arithOpNames = [...]string{
	OpAdd: "add",
	OpSub: "sub",
	OpMul: "mul",
	OpDiv: "div",
	OpMod: "mod",
	OpNeg: "neg",
}

func (o ArithOp) String() string {
	if int(o) < len(arithOpNames) {
		return arithOpNames[o]
	}
	return "invalid"
}

// Arith applies a binary arithmetic operator.
// The operation is tried in the representation of the widest operand, and retried once in the
// next wider representation on overflow. Results never wrap silently.
func Arith(op ArithOp, a, b Value) (Value, error) {
	if op == OpNeg {
		return Null, errorf(ErrType, "neg is unary")
	}

	if op == OpAdd && (a.kind == KindText || b.kind == KindText) {
		return Text(a.String() + b.String()), nil
	}

	if !a.kind.IsNumeric() || !b.kind.IsNumeric() {
		return Null, errorf(ErrType, "cannot %s %s and %s", op, a.kind, b.kind)
	}

	switch {

	case a.kind == KindDecimal || b.kind == KindDecimal:
		return decimalArith(op, a, b)

	case a.kind == KindFloat || b.kind == KindFloat:
		x, okx := exactFloat(a)
		y, oky := exactFloat(b)
		if okx && oky {
			return floatArith(op, x, y), nil
		}
		// integer operand not representable as float64
		return decimalArith(op, a, b)

	case a.kind == KindBigInt || b.kind == KindBigInt:
		return bigArith(op, toBig(a), toBig(b), a, b)

	}

	if ret, ok, err := intArith(op, a.num, b.num); err != nil {
		return Null, err
	} else if ok {
		return ret, nil
	}
	return bigArith(op, big.NewInt(a.num), big.NewInt(b.num), a, b)
}

// Neg negates a numeric value, widening on overflow.
func Neg(a Value) (Value, error) {
	switch a.kind {
	case KindInt:
		if a.num == math.MinInt64 {
			return BigInt(new(big.Int).Neg(big.NewInt(a.num))), nil
		}
		return Int(-a.num), nil
	case KindFloat:
		return Float(-a.flt), nil
	case KindBigInt:
		return normBig(new(big.Int).Neg(a.AsBigInt())), nil
	case KindDecimal:
		return decimalNeg(a)
	}
	return Null, errorf(ErrType, "cannot negate %s", a.kind)
}

// intArith returns ok=false when the result does not fit in int64.
func intArith(op ArithOp, a, b int64) (ret Value, ok bool, err error) {
	switch op {

	case OpAdd:
		s := a + b
		if (a > 0 && b > 0 && s < 0) || (a < 0 && b < 0 && s >= 0) {
			return Null, false, nil
		}
		return Int(s), true, nil

	case OpSub:
		d := a - b
		if (a >= 0 && b < 0 && d < 0) || (a < 0 && b > 0 && d >= 0) {
			return Null, false, nil
		}
		return Int(d), true, nil

	case OpMul:
		if a == 0 || b == 0 {
			return Int(0), true, nil
		}
		if (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
			return Null, false, nil
		}
		p := a * b
		if p/b != a {
			return Null, false, nil
		}
		return Int(p), true, nil

	case OpDiv:
		if b == 0 {
			return Null, false, errorf(ErrArithmetic, "division by zero")
		}
		if a == math.MinInt64 && b == -1 {
			return Null, false, nil
		}
		if a%b != 0 {
			ret, err := quoToDecimal(Int(a), Int(b))
			return ret, err == nil, err
		}
		return Int(a / b), true, nil

	case OpMod:
		if b == 0 {
			return Null, false, errorf(ErrArithmetic, "modulo by zero")
		}
		if b == -1 {
			return Int(0), true, nil
		}
		return Int(a % b), true, nil

	}
	return Null, false, errorf(ErrType, "invalid operator %s", op)
}

func bigArith(op ArithOp, x, y *big.Int, a, b Value) (Value, error) {
	ret := new(big.Int)
	switch op {
	case OpAdd:
		ret.Add(x, y)
	case OpSub:
		ret.Sub(x, y)
	case OpMul:
		ret.Mul(x, y)
	case OpDiv:
		if y.Sign() == 0 {
			return Null, errorf(ErrArithmetic, "division by zero")
		}
		rem := new(big.Int)
		ret.QuoRem(x, y, rem)
		if rem.Sign() != 0 {
			return quoToDecimal(a, b)
		}
	case OpMod:
		if y.Sign() == 0 {
			return Null, errorf(ErrArithmetic, "modulo by zero")
		}
		ret.Rem(x, y)
	default:
		return Null, errorf(ErrType, "invalid operator %s", op)
	}
	return normBig(ret), nil
}

func floatArith(op ArithOp, x, y float64) Value {
	switch op {
	case OpAdd:
		return Float(x + y)
	case OpSub:
		return Float(x - y)
	case OpMul:
		return Float(x * y)
	case OpDiv:
		return Float(x / y)
	case OpMod:
		return Float(math.Mod(x, y))
	}
	return Float(math.NaN())
}
