package zelval

import (
	"math"
	"math/big"
	"reflect"
	"strings"
)

type CmpOp uint8

const (
	OpEq CmpOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpNot
)

var cmpOpNames = [...]string{
	OpEq:  "eq",
	OpNe:  "ne",
	OpLt:  "lt",
	OpLe:  "le",
	OpGt:  "gt",
	OpGe:  "ge",
	OpNot: "not",
}

func (o CmpOp) String() string {
	if int(o) < len(cmpOpNames) {
		return cmpOpNames[o]
	}
	return "invalid"
}

// Compare applies a comparison operator and returns a bool value.
// Numeric operands are compared exactly after promotion to the wider representation.
func Compare(op CmpOp, a, b Value) (Value, error) {
	switch op {

	case OpEq:
		return Bool(Equal(a, b)), nil

	case OpNe:
		return Bool(!Equal(a, b)), nil

	case OpLt, OpLe, OpGt, OpGe:
		c, ordered, err := Order(a, b)
		if err != nil {
			return Null, err
		}
		if !ordered {
			return Bool(false), nil
		}
		switch op {
		case OpLt:
			return Bool(c < 0), nil
		case OpLe:
			return Bool(c <= 0), nil
		case OpGt:
			return Bool(c > 0), nil
		default:
			return Bool(c >= 0), nil
		}

	case OpNot:
		return Not(a)

	}
	return Null, errorf(ErrType, "invalid comparison %s", op)
}

// Not negates a boolean. Null counts as false.
func Not(a Value) (Value, error) {
	t, err := Truthy(a)
	if err != nil {
		return Null, err
	}
	return Bool(!t), nil
}

// Truthy is the condition test of conditional jumps.
func Truthy(v Value) (bool, error) {
	switch v.kind {
	case KindNull:
		return false, nil
	case KindBool:
		return v.AsBool(), nil
	}
	return false, errorf(ErrType, "%s is not a condition", v.kind)
}

// Equal reports value equality. Numbers are equal across representations.
func Equal(a, b Value) bool {
	if a.kind.IsNumeric() && b.kind.IsNumeric() {
		c, ordered := cmpNumeric(a, b)
		return ordered && c == 0
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.num == b.num
	case KindText:
		return a.str == b.str
	case KindObject:
		va := reflect.ValueOf(a.ref)
		vb := reflect.ValueOf(b.ref)
		// interface fields may hold incomparable dynamic values
		if va.Type() != vb.Type() || !va.Comparable() || !vb.Comparable() {
			return false
		}
		return a.ref == b.ref
	}
	return false
}

// Order returns the sign of a-b. ordered is false when a NaN is involved.
func Order(a, b Value) (c int, ordered bool, err error) {
	if a.kind.IsNumeric() && b.kind.IsNumeric() {
		c, ordered = cmpNumeric(a, b)
		return c, ordered, nil
	}
	if a.kind == KindText && b.kind == KindText {
		return strings.Compare(a.str, b.str), true, nil
	}
	return 0, false, errorf(ErrType, "cannot order %s and %s", a.kind, b.kind)
}

func cmpNumeric(a, b Value) (int, bool) {
	if a.kind == KindInt && b.kind == KindInt {
		return cmpInt64(a.num, b.num), true
	}

	if a.kind == KindFloat || b.kind == KindFloat {
		if a.kind == KindFloat && math.IsNaN(a.flt) ||
			b.kind == KindFloat && math.IsNaN(b.flt) {
			return 0, false
		}
		if a.kind == KindFloat && b.kind == KindFloat {
			return cmpFloat64(a.flt, b.flt), true
		}
		if a.kind == KindDecimal || b.kind == KindDecimal {
			// infinities are outside the decimal range
			if a.kind == KindFloat && math.IsInf(a.flt, 0) {
				return int(math.Copysign(1, a.flt)), true
			}
			if b.kind == KindFloat && math.IsInf(b.flt, 0) {
				return -int(math.Copysign(1, b.flt)), true
			}
			return cmpDecimal(a, b)
		}
		return toBigFloat(a).Cmp(toBigFloat(b)), true
	}

	if a.kind == KindDecimal || b.kind == KindDecimal {
		return cmpDecimal(a, b)
	}

	return toBig(a).Cmp(toBig(b)), true
}

func cmpDecimal(a, b Value) (int, bool) {
	x, err := toDecimal(a)
	if err != nil {
		return 0, false
	}
	y, err := toDecimal(b)
	if err != nil {
		return 0, false
	}
	return x.Cmp(y), true
}

func toBigFloat(v Value) *big.Float {
	switch v.kind {
	case KindFloat:
		return new(big.Float).SetFloat64(v.flt)
	case KindInt:
		return new(big.Float).SetInt64(v.num)
	}
	return new(big.Float).SetInt(v.AsBigInt())
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func cmpFloat64(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
