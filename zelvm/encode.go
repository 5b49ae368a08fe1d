package zelvm

import (
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
	"github.com/reusee/zel/zelval"
)

var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("zelvm: cbor enc mode: %v", err))
	}
	cborEncMode = em
}

type programData struct {
	Name      string      `cbor:"1,keyasint"`
	Code      []uint32    `cbor:"2,keyasint"`
	Constants []constData `cbor:"3,keyasint"`
	Params    []string    `cbor:"4,keyasint"`
	Sites     []siteData  `cbor:"5,keyasint"`
}

type constData struct {
	Kind  uint8   `cbor:"1,keyasint"`
	Int   int64   `cbor:"2,keyasint,omitempty"`
	Float float64 `cbor:"3,keyasint,omitempty"`
	Text  string  `cbor:"4,keyasint,omitempty"`
}

type siteData struct {
	Name     string `cbor:"1,keyasint"`
	NumArgs  int    `cbor:"2,keyasint"`
	Property bool   `cbor:"3,keyasint,omitempty"`
}

// MarshalBinary encodes the program in canonical CBOR. Object constants can not be encoded.
func (p *Program) MarshalBinary() ([]byte, error) {
	data := programData{
		Name:   p.name,
		Code:   make([]uint32, 0, len(p.code)),
		Params: p.params,
	}
	for _, inst := range p.code {
		data.Code = append(data.Code, uint32(inst))
	}
	for i, c := range p.constants {
		d := constData{
			Kind: uint8(c.Kind()),
		}
		switch c.Kind() {
		case zelval.KindNull:
		case zelval.KindBool:
			if c.AsBool() {
				d.Int = 1
			}
		case zelval.KindInt:
			d.Int = c.AsInt()
		case zelval.KindFloat:
			d.Float = c.AsFloat()
		case zelval.KindBigInt:
			d.Text = c.AsBigInt().String()
		case zelval.KindDecimal:
			d.Text = c.AsDecimal().String()
		case zelval.KindText:
			d.Text = c.AsText()
		default:
			return nil, fmt.Errorf("%w: constant %d of kind %s", ErrMalformed, i, c.Kind())
		}
		data.Constants = append(data.Constants, d)
	}
	for _, site := range p.sites {
		data.Sites = append(data.Sites, siteData(site))
	}
	return cborEncMode.Marshal(data)
}

// UnmarshalProgram decodes and verifies a program encoded by MarshalBinary.
func UnmarshalProgram(bs []byte) (*Program, error) {
	var data programData
	if err := cbor.Unmarshal(bs, &data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	code := make([]OpCode, 0, len(data.Code))
	for _, inst := range data.Code {
		code = append(code, OpCode(inst))
	}
	constants := make([]zelval.Value, 0, len(data.Constants))
	for i, d := range data.Constants {
		var v zelval.Value
		switch zelval.Kind(d.Kind) {
		case zelval.KindNull:
			v = zelval.Null
		case zelval.KindBool:
			v = zelval.Bool(d.Int != 0)
		case zelval.KindInt:
			v = zelval.Int(d.Int)
		case zelval.KindFloat:
			v = zelval.Float(d.Float)
		case zelval.KindBigInt:
			i, ok := new(big.Int).SetString(d.Text, 10)
			if !ok {
				return nil, fmt.Errorf("%w: invalid big integer constant %q", ErrMalformed, d.Text)
			}
			v = zelval.BigInt(i)
		case zelval.KindDecimal:
			dec, err := zelval.ParseDecimal(d.Text)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
			}
			v = dec
		case zelval.KindText:
			v = zelval.Text(d.Text)
		default:
			return nil, fmt.Errorf("%w: constant %d of kind %d", ErrMalformed, i, d.Kind)
		}
		constants = append(constants, v)
	}
	sites := make([]CallSite, 0, len(data.Sites))
	for _, site := range data.Sites {
		sites = append(sites, CallSite(site))
	}
	return NewProgram(data.Name, code, constants, data.Params, sites)
}
