package zelval

import (
	"math"
	"math/big"

	"github.com/cockroachdb/apd/v3"
)

// FromGo converts a host value.
// Unknown types become objects.
func FromGo(x any) Value {
	switch x := x.(type) {
	case nil:
		return Null
	case Value:
		return x
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int8:
		return Int(int64(x))
	case int16:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return Int(int64(x))
	case uint16:
		return Int(int64(x))
	case uint32:
		return Int(int64(x))
	case uint64:
		return fromUint64(x)
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case *big.Int:
		if x == nil {
			return Null
		}
		return BigInt(x)
	case big.Int:
		return BigInt(new(big.Int).Set(&x))
	case *apd.Decimal:
		if x == nil {
			return Null
		}
		return Decimal(x)
	case apd.Decimal:
		return Decimal(new(apd.Decimal).Set(&x))
	case string:
		return Text(x)
	case []byte:
		return Text(string(x))
	}
	return Object(x)
}

func fromUint64(u uint64) Value {
	if u > math.MaxInt64 {
		return BigInt(new(big.Int).SetUint64(u))
	}
	return Int(int64(u))
}

// FromGoSlice converts each element with FromGo.
func FromGoSlice(xs []any) []Value {
	ret := make([]Value, 0, len(xs))
	for _, x := range xs {
		ret = append(ret, FromGo(x))
	}
	return ret
}

// normBig narrows a big integer result back to int64 when it fits.
func normBig(i *big.Int) Value {
	if i.IsInt64() {
		return Int(i.Int64())
	}
	return BigInt(i)
}

func toBig(v Value) *big.Int {
	switch v.kind {
	case KindInt:
		return big.NewInt(v.num)
	case KindBigInt:
		return v.AsBigInt()
	}
	panic("not an integer")
}

func toDecimal(v Value) (*apd.Decimal, error) {
	switch v.kind {
	case KindInt:
		return apd.New(v.num, 0), nil
	case KindBigInt:
		return apd.NewWithBigInt(new(apd.BigInt).SetMathBigInt(v.AsBigInt()), 0), nil
	case KindDecimal:
		return v.AsDecimal(), nil
	case KindFloat:
		if math.IsNaN(v.flt) || math.IsInf(v.flt, 0) {
			return nil, errorf(ErrArithmetic, "%v has no decimal representation", v.flt)
		}
		d, err := new(apd.Decimal).SetFloat64(v.flt)
		if err != nil {
			return nil, errorf(ErrArithmetic, "convert %v to decimal: %v", v.flt, err)
		}
		return d, nil
	}
	return nil, errorf(ErrType, "%s is not numeric", v.kind)
}

// exactFloat reports whether an integer operand converts to float64 without loss.
func exactFloat(v Value) (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.flt, true
	case KindInt:
		if v.num >= -1<<53 && v.num <= 1<<53 {
			return float64(v.num), true
		}
		f, acc := new(big.Float).SetInt64(v.num).Float64()
		return f, acc == big.Exact
	case KindBigInt:
		f, acc := new(big.Float).SetInt(v.AsBigInt()).Float64()
		return f, acc == big.Exact && !math.IsInf(f, 0)
	}
	return 0, false
}

// ToInt converts an integer value that fits in int64.
func ToInt(v Value) (int64, error) {
	switch v.kind {
	case KindInt:
		return v.num, nil
	case KindBigInt:
		if b := v.AsBigInt(); b.IsInt64() {
			return b.Int64(), nil
		}
		return 0, errorf(ErrType, "%s overflows int64", v)
	}
	return 0, errorf(ErrType, "%s is not an integer", v.kind)
}

// ToFloat widens a numeric value to float64. Integers that would lose precision are rejected.
func ToFloat(v Value) (float64, error) {
	if f, ok := exactFloat(v); ok {
		return f, nil
	}
	if v.kind == KindDecimal {
		f, err := v.AsDecimal().Float64()
		if err != nil {
			return 0, errorf(ErrType, "convert %s to float: %v", v, err)
		}
		return f, nil
	}
	if v.kind.IsNumeric() {
		return 0, errorf(ErrType, "%s is not exactly representable as float", v)
	}
	return 0, errorf(ErrType, "%s is not numeric", v.kind)
}

func ToBigInt(v Value) (*big.Int, error) {
	switch v.kind {
	case KindInt, KindBigInt:
		return toBig(v), nil
	}
	return nil, errorf(ErrType, "%s is not an integer", v.kind)
}

func ToDecimal(v Value) (*apd.Decimal, error) {
	return toDecimal(v)
}
