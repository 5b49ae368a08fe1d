package zelval

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Value is an immutable expression value.
// Big integers and decimals are shared by reference and never mutated.
type Value struct {
	kind Kind
	num  int64
	flt  float64
	str  string
	ref  any
}

var Null = Value{}

func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

func Int(i int64) Value {
	return Value{kind: KindInt, num: i}
}

func Float(f float64) Value {
	return Value{kind: KindFloat, flt: f}
}

func BigInt(i *big.Int) Value {
	return Value{kind: KindBigInt, ref: i}
}

func Decimal(d *apd.Decimal) Value {
	return Value{kind: KindDecimal, ref: d}
}

func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Object wraps a host value that is opaque to the expression language.
func Object(obj any) Value {
	if obj == nil {
		return Null
	}
	return Value{kind: KindObject, ref: obj}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) AsBool() bool {
	return v.num != 0
}

func (v Value) AsInt() int64 {
	return v.num
}

func (v Value) AsFloat() float64 {
	return v.flt
}

func (v Value) AsBigInt() *big.Int {
	i, _ := v.ref.(*big.Int)
	return i
}

func (v Value) AsDecimal() *apd.Decimal {
	d, _ := v.ref.(*apd.Decimal)
	return d
}

func (v Value) AsText() string {
	return v.str
}

func (v Value) AsObject() any {
	if v.kind != KindObject {
		return nil
	}
	return v.ref
}

// Go returns the natural Go representation.
func (v Value) Go() any {
	switch v.kind {
	case KindBool:
		return v.AsBool()
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindText:
		return v.str
	case KindBigInt, KindDecimal, KindObject:
		return v.ref
	}
	return nil
}

// String is the canonical text conversion, used by concatenation and toString.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.AsBool())
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return formatFloat(v.flt)
	case KindBigInt:
		return v.AsBigInt().String()
	case KindDecimal:
		return v.AsDecimal().String()
	case KindText:
		return v.str
	case KindObject:
		return fmt.Sprint(v.ref)
	}
	return "<invalid>"
}

// GoString renders the value as a literal, for disassembly and diagnostics.
func (v Value) GoString() string {
	switch v.kind {
	case KindText:
		return strconv.Quote(v.str)
	case KindDecimal:
		return v.AsDecimal().String() + "m"
	case KindObject:
		return fmt.Sprintf("object(%T)", v.ref)
	}
	return v.String()
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if strings.ContainsAny(s, ".eIN") {
		return s
	}
	return s + ".0"
}
