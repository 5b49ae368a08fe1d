package zelmethod

import (
	"context"
	"fmt"
	"reflect"

	"github.com/reusee/starlarkutil"
	"github.com/reusee/zel/zelval"
	"go.starlark.net/starlark"
)

// starlarkHandle binds a member of a starlark value by attribute lookup.
func starlarkHandle(sv starlark.Value, name string, property bool) (*Handle, error) {
	hasAttrs, ok := sv.(starlark.HasAttrs)
	if !ok {
		return nil, errorf(ErrNoSuchMethod, "%s has no attributes", sv.Type())
	}
	attr, err := hasAttrs.Attr(name)
	if err != nil {
		return nil, errorf(ErrNoSuchMethod, "%s.%s: %v", sv.Type(), name, err)
	}
	if attr == nil {
		return nil, errorf(ErrNoSuchMethod, "%s has no member %s", sv.Type(), name)
	}

	if property {
		return &Handle{
			Name:     name,
			Property: true,
			dynamic:  true,
			fn: func(context.Context, zelval.Value, []zelval.Value) (zelval.Value, error) {
				return fromStarlark(attr), nil
			},
		}, nil
	}

	callable, ok := attr.(starlark.Callable)
	if !ok {
		return nil, errorf(ErrNoSuchMethod, "%s.%s is not callable", sv.Type(), name)
	}
	return &Handle{
		Name:    name,
		dynamic: true,
		fn: func(ctx context.Context, _ zelval.Value, args []zelval.Value) (zelval.Value, error) {
			tuple := make(starlark.Tuple, 0, len(args))
			for _, arg := range args {
				v, err := toStarlark(arg)
				if err != nil {
					return zelval.Null, err
				}
				tuple = append(tuple, v)
			}
			thread := &starlark.Thread{
				Name: "zel:" + name,
			}
			stop := context.AfterFunc(ctx, func() {
				thread.Cancel(context.Cause(ctx).Error())
			})
			defer stop()
			ret, err := starlark.Call(thread, callable, tuple, nil)
			if err != nil {
				return zelval.Null, err
			}
			return fromStarlark(ret), nil
		},
	}, nil
}

func fromStarlark(v starlark.Value) zelval.Value {
	switch v := v.(type) {
	case starlark.NoneType:
		return zelval.Null
	case starlark.Bool:
		return zelval.Bool(bool(v))
	case starlark.Int:
		if i, ok := v.Int64(); ok {
			return zelval.Int(i)
		}
		return zelval.BigInt(v.BigInt())
	case starlark.Float:
		return zelval.Float(float64(v))
	case starlark.String:
		return zelval.Text(string(v))
	case starlark.Bytes:
		return zelval.Text(string(v))
	}
	return zelval.Object(v)
}

func toStarlark(v zelval.Value) (starlark.Value, error) {
	switch v.Kind() {
	case zelval.KindNull:
		return starlark.None, nil
	case zelval.KindBool:
		return starlark.Bool(v.AsBool()), nil
	case zelval.KindInt:
		return starlark.MakeInt64(v.AsInt()), nil
	case zelval.KindBigInt:
		return starlark.MakeBigInt(v.AsBigInt()), nil
	case zelval.KindFloat:
		return starlark.Float(v.AsFloat()), nil
	case zelval.KindDecimal:
		// starlark has no decimal type
		return starlark.String(v.String()), nil
	case zelval.KindText:
		return starlark.String(v.AsText()), nil
	}
	return goToStarlark(v.AsObject())
}

// goToStarlark converts host objects passed as arguments to script members.
func goToStarlark(obj any) (starlark.Value, error) {
	if sv, ok := obj.(starlark.Value); ok {
		return sv, nil
	}

	value := reflect.ValueOf(obj)
	switch value.Kind() {

	case reflect.Slice, reflect.Array:
		elems := make([]starlark.Value, 0, value.Len())
		for i := range value.Len() {
			elem, err := goToStarlark(value.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			elems = append(elems, elem)
		}
		return starlark.NewList(elems), nil

	case reflect.Map:
		d := starlark.NewDict(value.Len())
		iter := value.MapRange()
		for iter.Next() {
			k, err := toStarlark(zelval.FromGo(iter.Key().Interface()))
			if err != nil {
				return nil, err
			}
			v, err := toStarlark(zelval.FromGo(iter.Value().Interface()))
			if err != nil {
				return nil, err
			}
			if err := d.SetKey(k, v); err != nil {
				return nil, err
			}
		}
		return d, nil

	case reflect.Func:
		return starlarkutil.MakeFunc("", obj), nil

	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return starlark.None, nil
		}
		elem := value.Elem().Interface()
		if v := zelval.FromGo(elem); v.Kind() != zelval.KindObject {
			return toStarlark(v)
		}
		return goToStarlark(elem)

	}

	if v := zelval.FromGo(obj); v.Kind() != zelval.KindObject {
		return toStarlark(v)
	}
	return nil, fmt.Errorf("%w: %T has no starlark representation", zelval.ErrType, obj)
}
