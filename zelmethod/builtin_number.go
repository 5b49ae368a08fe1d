package zelmethod

import (
	"context"
	"math"
	"math/big"
	"math/bits"

	"github.com/reusee/zel/zelval"
)

var numberTable = func() *Table {
	t := NewTable()

	t.Method("toString", func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		return zelval.Text(recv.String()), nil
	})

	intValue := func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		return truncate(recv)
	}
	t.Method("intValue", intValue)
	t.Method("longValue", intValue)

	t.Method("doubleValue", func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		if recv.Kind() == zelval.KindFloat {
			return recv, nil
		}
		if recv.Kind() == zelval.KindDecimal {
			f, err := zelval.ToFloat(recv)
			return zelval.Float(f), err
		}
		f, _ := new(big.Float).SetInt(mustBig(recv)).Float64()
		return zelval.Float(f), nil
	})

	t.Method("signum", func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		c, ordered, err := zelval.Order(recv, zelval.Int(0))
		if err != nil {
			return zelval.Null, err
		}
		if !ordered {
			return recv, nil
		}
		return zelval.Int(int64(c)), nil
	})

	t.Method("abs", func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		c, _, err := zelval.Order(recv, zelval.Int(0))
		if err != nil {
			return zelval.Null, err
		}
		if c < 0 {
			return zelval.Neg(recv)
		}
		return recv, nil
	})

	t.Method("compareTo", func(_ context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error) {
		c, ordered, err := zelval.Order(recv, args[0])
		if err != nil {
			return zelval.Null, err
		}
		if !ordered {
			return zelval.Null, errorf(zelval.ErrArithmetic, "compare NaN")
		}
		return zelval.Int(int64(c)), nil
	}, NumberParam)

	// exact integer overloads are preferred over the general number ones
	minMax := func(wantLess bool) Func {
		return func(_ context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error) {
			c, _, err := zelval.Order(recv, args[0])
			if err != nil {
				return zelval.Null, err
			}
			if (c < 0) == wantLess {
				return recv, nil
			}
			return args[0], nil
		}
	}
	t.Method("max", minMax(false), IntParam)
	t.Method("max", minMax(false), NumberParam)
	t.Method("min", minMax(true), IntParam)
	t.Method("min", minMax(true), NumberParam)

	t.Method("pow", func(ctx context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error) {
		n := args[0].AsInt()
		if n < 0 {
			base, err := zelval.ToFloat(recv)
			if err != nil {
				return zelval.Null, err
			}
			return zelval.Float(math.Pow(base, float64(n))), nil
		}
		if size := intBitLen(recv); size > 1 && n > maxPowBits/int64(size) {
			return zelval.Null, errorf(zelval.ErrArithmetic, "pow(%d) of %d-bit integer exceeds %d bits", n, size, maxPowBits)
		}
		// square and multiply
		ret := zelval.Int(1)
		base := recv
		for n > 0 {
			if err := ctx.Err(); err != nil {
				return zelval.Null, err
			}
			var err error
			if n&1 == 1 {
				ret, err = zelval.Arith(zelval.OpMul, ret, base)
				if err != nil {
					return zelval.Null, err
				}
			}
			n >>= 1
			if n > 0 {
				base, err = zelval.Arith(zelval.OpMul, base, base)
				if err != nil {
					return zelval.Null, err
				}
			}
		}
		return ret, nil
	}, IntParam)

	t.Method("isNaN", func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		return zelval.Bool(recv.Kind() == zelval.KindFloat && math.IsNaN(recv.AsFloat())), nil
	})

	addEquality(t)

	return t
}()

var boolTable = func() *Table {
	t := NewTable()
	t.Method("toString", func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		return zelval.Text(recv.String()), nil
	})
	addEquality(t)
	return t
}()

// truncate converts toward zero to an integer value.
func truncate(v zelval.Value) (zelval.Value, error) {
	switch v.Kind() {
	case zelval.KindInt, zelval.KindBigInt:
		return v, nil
	case zelval.KindFloat:
		f := v.AsFloat()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return zelval.Null, errorf(zelval.ErrArithmetic, "%v has no integer value", f)
		}
		i, _ := big.NewFloat(math.Trunc(f)).Int(nil)
		return zelval.Arith(zelval.OpAdd, zelval.BigInt(i), zelval.Int(0))
	case zelval.KindDecimal:
		d := v.AsDecimal()
		// scale by the exponent, dropping the fraction
		i := new(big.Int).Set(d.Coeff.MathBigInt())
		if d.Exponent > 0 {
			i.Mul(i, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Exponent)), nil))
		} else if d.Exponent < 0 {
			i.Quo(i, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-d.Exponent)), nil))
		}
		if d.Negative {
			i.Neg(i)
		}
		return zelval.Arith(zelval.OpAdd, zelval.BigInt(i), zelval.Int(0))
	}
	return zelval.Null, errorf(zelval.ErrType, "%s has no integer value", v.Kind())
}

const maxPowBits = 1 << 20

// intBitLen returns the bit length of the magnitude of an integer value, or 0 for other kinds.
func intBitLen(v zelval.Value) int {
	switch v.Kind() {
	case zelval.KindInt:
		i := v.AsInt()
		if i < 0 {
			return bits.Len64(uint64(-(i + 1)) + 1)
		}
		return bits.Len64(uint64(i))
	case zelval.KindBigInt:
		return v.AsBigInt().BitLen()
	}
	return 0
}

func mustBig(v zelval.Value) *big.Int {
	i, err := zelval.ToBigInt(v)
	if err != nil {
		panic(err)
	}
	return i
}
