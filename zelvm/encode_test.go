package zelvm

import (
	"errors"
	"math"
	"math/big"
	"slices"
	"testing"

	"github.com/reusee/zel/zelval"
)

func TestProgramBinary(t *testing.T) {
	dec, err := zelval.ParseDecimal("1.10")
	if err != nil {
		t.Fatal(err)
	}
	b, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	constants := []zelval.Value{
		zelval.Null,
		zelval.Bool(true),
		zelval.Int(-42),
		zelval.Float(1.5),
		zelval.Float(math.Inf(1)),
		zelval.BigInt(b),
		dec,
		zelval.Text("foo"),
	}
	var code []OpCode
	for i := range constants {
		code = append(code, OpLoadConst.With(i))
		if i > 0 {
			code = append(code, OpCompare.With(int(zelval.OpEq)))
		}
	}
	code = append(code,
		OpLoadParam.With(0),
		OpCallMethod.With(0),
		OpCompare.With(int(zelval.OpNe)),
		OpMakeResult,
	)
	p, err := NewProgram("binary", code, constants, []string{"s"}, []CallSite{
		{Name: "length", Property: true},
	})
	if err != nil {
		t.Fatal(err)
	}

	bs, err := p.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	p2, err := UnmarshalProgram(bs)
	if err != nil {
		t.Fatal(err)
	}
	if p2.Name() != "binary" {
		t.Fatalf("got %s", p2.Name())
	}
	if !slices.Equal(p.Code(), p2.Code()) {
		t.Fatalf("got %v", p2.Code())
	}
	if !slices.Equal(p.ParamNames(), p2.ParamNames()) {
		t.Fatalf("got %v", p2.ParamNames())
	}
	if !slices.Equal(p.CallSites(), p2.CallSites()) {
		t.Fatalf("got %v", p2.CallSites())
	}
	c1, c2 := p.Constants(), p2.Constants()
	if len(c1) != len(c2) {
		t.Fatalf("got %d", len(c2))
	}
	for i := range c1 {
		if c1[i].Kind() != c2[i].Kind() || c1[i].String() != c2[i].String() {
			t.Fatalf("got %v, expected %v", c2[i], c1[i])
		}
	}
	if Disassemble(p) != Disassemble(p2) {
		t.Fatalf("got\n%s", Disassemble(p2))
	}

	// canonical
	bs2, err := p2.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if string(bs) != string(bs2) {
		t.Fatal("not deterministic")
	}
}

func TestProgramBinaryRejects(t *testing.T) {
	p, err := NewProgram("", []OpCode{
		OpLoadConst.With(0),
		OpMakeResult,
	}, []zelval.Value{
		zelval.Object(struct{}{}),
	}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.MarshalBinary(); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v", err)
	}

	if _, err := UnmarshalProgram([]byte("foo")); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v", err)
	}

	// decoding verifies
	bad, err := cborEncMode.Marshal(programData{
		Code: []uint32{uint32(OpMakeResult)},
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := UnmarshalProgram(bad); !errors.Is(err, ErrMalformed) {
		t.Fatalf("got %v", err)
	}
}
