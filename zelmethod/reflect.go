package zelmethod

import (
	"context"
	"fmt"
	"math/big"
	"reflect"
	"unicode"
	"unicode/utf8"

	"github.com/cockroachdb/apd/v3"
	"github.com/reusee/zel/zelval"
)

var (
	contextType    = reflect.TypeFor[context.Context]()
	errorType      = reflect.TypeFor[error]()
	valueType      = reflect.TypeFor[zelval.Value]()
	bigIntType     = reflect.TypeFor[*big.Int]()
	decimalType    = reflect.TypeFor[*apd.Decimal]()
	emptyIfaceType = reflect.TypeFor[any]()
)

// reflectTable derives members from a Go method set and struct fields.
// Go names are also reachable with a lower case first letter.
func reflectTable(t reflect.Type) *Table {
	table := NewTable()

	for i := range t.NumMethod() {
		method := t.Method(i)
		if !method.IsExported() {
			continue
		}
		overload, ok := reflectMethod(method)
		if !ok {
			continue
		}
		for _, name := range scriptNames(method.Name) {
			table.Methods[name] = append(table.Methods[name], overload)
		}
	}

	structType := t
	if structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() == reflect.Struct {
		for _, field := range reflect.VisibleFields(structType) {
			if !field.IsExported() || field.Anonymous {
				continue
			}
			getter := fieldGetter(field)
			for _, name := range scriptNames(field.Name) {
				table.Properties[name] = getter
			}
		}
	}

	return table
}

func scriptNames(goName string) []string {
	r, size := utf8.DecodeRuneInString(goName)
	lower := string(unicode.ToLower(r)) + goName[size:]
	if lower == goName {
		return []string{goName}
	}
	return []string{lower, goName}
}

func reflectMethod(method reflect.Method) (Overload, bool) {
	ft := method.Type
	if ft.IsVariadic() {
		return Overload{}, false
	}

	// first input is the receiver
	first := 1
	withContext := ft.NumIn() > 1 && ft.In(1) == contextType
	if withContext {
		first = 2
	}

	var params []Param
	for i := first; i < ft.NumIn(); i++ {
		params = append(params, paramFor(ft.In(i)))
	}

	switch ft.NumOut() {
	case 0, 1:
	case 2:
		if ft.Out(1) != errorType {
			return Overload{}, false
		}
	default:
		return Overload{}, false
	}

	fn := method.Func
	return Overload{
		Params: params,
		Func: func(ctx context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error) {
			in := make([]reflect.Value, 0, ft.NumIn())
			in = append(in, reflect.ValueOf(recv.AsObject()))
			if withContext {
				in = append(in, reflect.ValueOf(&ctx).Elem())
			}
			for i, arg := range args {
				v, err := toReflect(arg, ft.In(first+i))
				if err != nil {
					return zelval.Null, fmt.Errorf("argument %d of %s: %w", i, method.Name, err)
				}
				in = append(in, v)
			}
			return fromResults(fn.Call(in))
		},
	}, true
}

func paramFor(t reflect.Type) Param {
	switch t {
	case valueType:
		return Param{Kind: ParamAny, GoType: t}
	case emptyIfaceType:
		return Param{Kind: ParamAny, GoType: t}
	case bigIntType:
		return Param{Kind: ParamBigInt, GoType: t}
	case decimalType:
		return Param{Kind: ParamDecimal, GoType: t}
	}
	switch t.Kind() {
	case reflect.Bool:
		return Param{Kind: ParamBool, GoType: t}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Param{Kind: ParamInt, GoType: t}
	case reflect.Float32, reflect.Float64:
		return Param{Kind: ParamFloat, GoType: t}
	case reflect.String:
		return Param{Kind: ParamText, GoType: t}
	}
	return ObjectParam(t)
}

// toReflect converts a coerced argument to the Go parameter type.
func toReflect(v zelval.Value, t reflect.Type) (reflect.Value, error) {
	switch t {
	case valueType:
		return reflect.ValueOf(v), nil
	case emptyIfaceType:
		if v.IsNull() {
			return reflect.Zero(t), nil
		}
		ret := reflect.New(t).Elem()
		ret.Set(reflect.ValueOf(v.Go()))
		return ret, nil
	case bigIntType:
		return reflect.ValueOf(v.AsBigInt()), nil
	case decimalType:
		return reflect.ValueOf(v.AsDecimal()), nil
	}

	ret := reflect.New(t).Elem()
	switch t.Kind() {

	case reflect.Bool:
		ret.SetBool(v.AsBool())

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if ret.OverflowInt(v.AsInt()) {
			return ret, fmt.Errorf("%w: %d overflows %v", zelval.ErrType, v.AsInt(), t)
		}
		ret.SetInt(v.AsInt())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.AsInt() < 0 || ret.OverflowUint(uint64(v.AsInt())) {
			return ret, fmt.Errorf("%w: %d overflows %v", zelval.ErrType, v.AsInt(), t)
		}
		ret.SetUint(uint64(v.AsInt()))

	case reflect.Float32, reflect.Float64:
		if ret.OverflowFloat(v.AsFloat()) {
			return ret, fmt.Errorf("%w: %v overflows %v", zelval.ErrType, v.AsFloat(), t)
		}
		ret.SetFloat(v.AsFloat())

	case reflect.String:
		ret.SetString(v.AsText())

	default:
		if v.IsNull() {
			return reflect.Zero(t), nil
		}
		ret.Set(reflect.ValueOf(v.AsObject()))

	}
	return ret, nil
}

func fromResults(outs []reflect.Value) (zelval.Value, error) {
	switch len(outs) {
	case 0:
		return zelval.Null, nil
	case 1:
		if outs[0].Type() == errorType {
			if err, _ := outs[0].Interface().(error); err != nil {
				return zelval.Null, err
			}
			return zelval.Null, nil
		}
		return fromReflect(outs[0]), nil
	}
	if err, _ := outs[1].Interface().(error); err != nil {
		return zelval.Null, err
	}
	return fromReflect(outs[0]), nil
}

func fromReflect(v reflect.Value) zelval.Value {
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return zelval.Null
		}
	}
	return zelval.FromGo(v.Interface())
}

func fieldGetter(field reflect.StructField) Getter {
	return func(recv zelval.Value) (zelval.Value, error) {
		v := reflect.ValueOf(recv.AsObject())
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				return zelval.Null, fmt.Errorf("%w: field %s of nil %v", zelval.ErrType, field.Name, v.Type())
			}
			v = v.Elem()
		}
		fv, err := v.FieldByIndexErr(field.Index)
		if err != nil {
			return zelval.Null, fmt.Errorf("%w: %v", zelval.ErrType, err)
		}
		return fromReflect(fv), nil
	}
}

// mapGetter reads string keyed maps by property name. Missing keys read as null.
func mapGetter(t reflect.Type, name string) (Getter, bool) {
	if t == nil || t.Kind() != reflect.Map || t.Key().Kind() != reflect.String {
		return nil, false
	}
	key := reflect.ValueOf(name).Convert(t.Key())
	return func(recv zelval.Value) (zelval.Value, error) {
		v := reflect.ValueOf(recv.AsObject()).MapIndex(key)
		if !v.IsValid() {
			return zelval.Null, nil
		}
		return fromReflect(v), nil
	}, true
}
