package zelval

import (
	"errors"
	"math"
	"math/big"
	"testing"
)

func mustArith(t *testing.T, op ArithOp, a, b Value) Value {
	t.Helper()
	ret, err := Arith(op, a, b)
	if err != nil {
		t.Fatal(err)
	}
	return ret
}

func TestIntOverflowPromotes(t *testing.T) {
	ret := mustArith(t, OpAdd, Int(math.MaxInt64), Int(1))
	if ret.Kind() != KindBigInt {
		t.Fatalf("got %v", ret.Kind())
	}
	if ret.String() != "9223372036854775808" {
		t.Fatalf("got %s", ret)
	}

	ret = mustArith(t, OpSub, Int(math.MinInt64), Int(1))
	if ret.Kind() != KindBigInt || ret.String() != "-9223372036854775809" {
		t.Fatalf("got %s", ret)
	}

	ret = mustArith(t, OpMul, Int(math.MaxInt64), Int(2))
	if ret.Kind() != KindBigInt || ret.String() != "18446744073709551614" {
		t.Fatalf("got %s", ret)
	}

	ret = mustArith(t, OpMul, Int(math.MinInt64), Int(-1))
	if ret.Kind() != KindBigInt || ret.String() != "9223372036854775808" {
		t.Fatalf("got %s", ret)
	}

	ret = mustArith(t, OpDiv, Int(math.MinInt64), Int(-1))
	if ret.Kind() != KindBigInt || ret.String() != "9223372036854775808" {
		t.Fatalf("got %s", ret)
	}
}

func TestBigIntNarrows(t *testing.T) {
	big63 := new(big.Int).Lsh(big.NewInt(1), 63)
	ret := mustArith(t, OpSub, BigInt(big63), Int(1))
	if ret.Kind() != KindInt || ret.AsInt() != math.MaxInt64 {
		t.Fatalf("got %v %s", ret.Kind(), ret)
	}
}

func TestIntDivision(t *testing.T) {
	ret := mustArith(t, OpDiv, Int(6), Int(3))
	if ret.Kind() != KindInt || ret.AsInt() != 2 {
		t.Fatalf("got %s", ret)
	}

	ret = mustArith(t, OpDiv, Int(7), Int(2))
	if ret.Kind() != KindDecimal {
		t.Fatalf("got %v", ret.Kind())
	}
	want, err := ParseDecimal("3.5")
	if err != nil {
		t.Fatal(err)
	}
	if !Equal(ret, want) {
		t.Fatalf("got %s", ret)
	}

	ret = mustArith(t, OpMod, Int(-7), Int(3))
	if ret.AsInt() != -1 {
		t.Fatalf("got %s", ret)
	}
}

func TestDivisionByZero(t *testing.T) {
	for _, c := range []struct {
		op   ArithOp
		a, b Value
	}{
		{OpDiv, Int(1), Int(0)},
		{OpMod, Int(1), Int(0)},
		{OpDiv, BigInt(new(big.Int).Lsh(big.NewInt(1), 70)), Int(0)},
		{OpDiv, mustDecimal(t, "1.5"), Int(0)},
	} {
		_, err := Arith(c.op, c.a, c.b)
		if !errors.Is(err, ErrArithmetic) {
			t.Fatalf("got %v", err)
		}
	}

	ret := mustArith(t, OpDiv, Float(1), Float(0))
	if !math.IsInf(ret.AsFloat(), 1) {
		t.Fatalf("got %s", ret)
	}
}

func TestMixedFloat(t *testing.T) {
	ret := mustArith(t, OpAdd, Int(1), Float(0.5))
	if ret.Kind() != KindFloat || ret.AsFloat() != 1.5 {
		t.Fatalf("got %s", ret)
	}

	// not representable as float64
	ret = mustArith(t, OpAdd, Int(1<<60+1), Float(1))
	if ret.Kind() != KindDecimal {
		t.Fatalf("got %v", ret.Kind())
	}
	if !Equal(ret, Int(1<<60+2)) {
		t.Fatalf("got %s", ret)
	}

	ret = mustArith(t, OpMul, mustDecimal(t, "1.5"), Float(2))
	if ret.Kind() != KindDecimal || !Equal(ret, Int(3)) {
		t.Fatalf("got %s", ret)
	}

	_, err := Arith(OpAdd, mustDecimal(t, "1"), Float(math.Inf(1)))
	if !errors.Is(err, ErrArithmetic) {
		t.Fatalf("got %v", err)
	}
}

func TestTextConcat(t *testing.T) {
	ret := mustArith(t, OpAdd, Text("a"), Int(1))
	if ret.AsText() != "a1" {
		t.Fatalf("got %s", ret)
	}
	ret = mustArith(t, OpAdd, Float(2), Text("x"))
	if ret.AsText() != "2.0x" {
		t.Fatalf("got %s", ret)
	}
	_, err := Arith(OpSub, Text("a"), Int(1))
	if !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
	_, err = Arith(OpAdd, Null, Int(1))
	if !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
}

func TestNeg(t *testing.T) {
	ret, err := Neg(Int(math.MinInt64))
	if err != nil {
		t.Fatal(err)
	}
	if ret.Kind() != KindBigInt || ret.String() != "9223372036854775808" {
		t.Fatalf("got %s", ret)
	}
	ret, err = Neg(mustDecimal(t, "1.25"))
	if err != nil {
		t.Fatal(err)
	}
	if ret.String() != "-1.25" {
		t.Fatalf("got %s", ret)
	}
	if _, err := Neg(Text("a")); !errors.Is(err, ErrType) {
		t.Fatalf("got %v", err)
	}
}

func mustDecimal(t *testing.T, s string) Value {
	t.Helper()
	v, err := ParseDecimal(s)
	if err != nil {
		t.Fatal(err)
	}
	return v
}
