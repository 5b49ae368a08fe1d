package zelmethod

import (
	"reflect"

	"github.com/reusee/zel/zelval"
)

type ParamKind uint8

const (
	ParamAny ParamKind = iota
	ParamBool
	ParamInt
	ParamFloat
	ParamBigInt
	ParamDecimal
	ParamNumber
	ParamText
	ParamObject
)

var paramKindNames = [...]string{
	ParamAny:     "any",
	ParamBool:    "bool",
	ParamInt:     "int",
	ParamFloat:   "float",
	ParamBigInt:  "bigint",
	ParamDecimal: "decimal",
	ParamNumber:  "number",
	ParamText:    "text",
	ParamObject:  "object",
}

func (k ParamKind) String() string {
	if int(k) < len(paramKindNames) {
		return paramKindNames[k]
	}
	return "invalid"
}

// Param is the declared type of a member parameter.
type Param struct {
	Kind ParamKind
	// GoType is the host parameter type for reflected members
	GoType reflect.Type
}

func (p Param) String() string {
	if p.Kind == ParamObject && p.GoType != nil {
		return p.GoType.String()
	}
	return p.Kind.String()
}

var (
	AnyParam     = Param{Kind: ParamAny}
	BoolParam    = Param{Kind: ParamBool}
	IntParam     = Param{Kind: ParamInt}
	FloatParam   = Param{Kind: ParamFloat}
	BigIntParam  = Param{Kind: ParamBigInt}
	DecimalParam = Param{Kind: ParamDecimal}
	NumberParam  = Param{Kind: ParamNumber}
	TextParam    = Param{Kind: ParamText}
)

func ObjectParam(t reflect.Type) Param {
	return Param{
		Kind:   ParamObject,
		GoType: t,
	}
}

// coercion costs, lower is more specific
const (
	costExact    = 0
	costWiden    = 1
	costAny      = 2
	costToString = 3
)

// cost returns the price of passing an argument of the given kind to p.
// objType is the dynamic type of object arguments.
func (p Param) cost(kind zelval.Kind, objType reflect.Type) (int, bool) {
	switch p.Kind {

	case ParamAny:
		return costAny, true

	case ParamBool:
		if kind == zelval.KindBool {
			return costExact, true
		}

	case ParamInt:
		if kind == zelval.KindInt {
			return costExact, true
		}

	case ParamFloat:
		switch kind {
		case zelval.KindFloat:
			return costExact, true
		case zelval.KindInt, zelval.KindBigInt:
			return costWiden, true
		}

	case ParamBigInt:
		switch kind {
		case zelval.KindBigInt:
			return costExact, true
		case zelval.KindInt:
			return costWiden, true
		}

	case ParamDecimal:
		switch kind {
		case zelval.KindDecimal:
			return costExact, true
		case zelval.KindInt, zelval.KindBigInt, zelval.KindFloat:
			return costWiden, true
		}

	case ParamNumber:
		if kind.IsNumeric() {
			return costWiden, true
		}

	case ParamText:
		if kind == zelval.KindText {
			return costExact, true
		}
		return costToString, true

	case ParamObject:
		switch kind {
		case zelval.KindObject:
			if objType == p.GoType {
				return costExact, true
			}
			if objType.AssignableTo(p.GoType) {
				return costWiden, true
			}
		case zelval.KindNull:
			if nillable(p.GoType) {
				return costAny, true
			}
		}

	}
	return 0, false
}

// coerce converts an argument accepted by cost into the parameter representation.
// Conversions that would lose precision fail with zelval.ErrType.
func (p Param) coerce(v zelval.Value) (zelval.Value, error) {
	switch p.Kind {
	case ParamFloat:
		if v.Kind() == zelval.KindFloat {
			return v, nil
		}
		f, err := zelval.ToFloat(v)
		if err != nil {
			return zelval.Null, err
		}
		return zelval.Float(f), nil
	case ParamBigInt:
		if v.Kind() == zelval.KindBigInt {
			return v, nil
		}
		i, err := zelval.ToBigInt(v)
		if err != nil {
			return zelval.Null, err
		}
		return zelval.BigInt(i), nil
	case ParamDecimal:
		if v.Kind() == zelval.KindDecimal {
			return v, nil
		}
		d, err := zelval.ToDecimal(v)
		if err != nil {
			return zelval.Null, err
		}
		return zelval.Decimal(d), nil
	case ParamText:
		if v.Kind() == zelval.KindText {
			return v, nil
		}
		return zelval.Text(v.String()), nil
	}
	return v, nil
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}
