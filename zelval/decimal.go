package zelval

import (
	"github.com/cockroachdb/apd/v3"
)

// DecimalPrecision is the number of significant digits kept by decimal operations.
const DecimalPrecision = 34

var decimalContext = apd.BaseContext.WithPrecision(DecimalPrecision)

// ParseDecimal parses a decimal literal.
func ParseDecimal(s string) (Value, error) {
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return Null, errorf(ErrType, "invalid decimal %q", s)
	}
	return Decimal(d), nil
}

func decimalArith(op ArithOp, a, b Value) (Value, error) {
	x, err := toDecimal(a)
	if err != nil {
		return Null, err
	}
	y, err := toDecimal(b)
	if err != nil {
		return Null, err
	}
	if (op == OpDiv || op == OpMod) && y.IsZero() {
		return Null, errorf(ErrArithmetic, "%s by zero", op)
	}
	ret := new(apd.Decimal)
	switch op {
	case OpAdd:
		_, err = decimalContext.Add(ret, x, y)
	case OpSub:
		_, err = decimalContext.Sub(ret, x, y)
	case OpMul:
		_, err = decimalContext.Mul(ret, x, y)
	case OpDiv:
		_, err = decimalContext.Quo(ret, x, y)
	case OpMod:
		_, err = decimalContext.Rem(ret, x, y)
	default:
		return Null, errorf(ErrType, "invalid operator %s", op)
	}
	if err != nil {
		return Null, errorf(ErrArithmetic, "decimal %s: %v", op, err)
	}
	return Decimal(ret), nil
}

func decimalNeg(a Value) (Value, error) {
	ret := new(apd.Decimal)
	if _, err := decimalContext.Neg(ret, a.AsDecimal()); err != nil {
		return Null, errorf(ErrArithmetic, "decimal neg: %v", err)
	}
	return Decimal(ret), nil
}

// quoToDecimal computes a non-integral integer quotient.
func quoToDecimal(a, b Value) (Value, error) {
	return decimalArith(OpDiv, a, b)
}
