package zelmethod

import (
	"context"
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/zelval"
	"go.starlark.net/starlark"
)

// Resolver binds member names to invocable handles.
// It is safe for concurrent use; resolved handles are cached and shared.
type Resolver struct {
	logger logs.Logger

	handles sync.Map // cacheKey -> *Handle
	tables  sync.Map // reflect.Type -> *Table

	hits   atomic.Int64
	misses atomic.Int64
}

type cacheKey struct {
	recvKind zelval.Kind
	recvType reflect.Type
	name     string
	property bool
	args     string
}

func NewResolver(logger logs.Logger) *Resolver {
	if logger == nil {
		logger = logs.Discard()
	}
	return &Resolver{
		logger: logger,
	}
}

// Handle is a resolved member with its argument coercion plan.
type Handle struct {
	Name     string
	Property bool
	Params   []Param
	dynamic  bool
	fn       Func
}

// Invoke calls the member. args must have the kinds the handle was resolved for.
func (h *Handle) Invoke(ctx context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error) {
	if h.dynamic || len(args) == 0 {
		return h.fn(ctx, recv, args)
	}
	if len(args) != len(h.Params) {
		return zelval.Null, errorf(ErrNoSuchMethod, "%s takes %d arguments, got %d", h.Name, len(h.Params), len(args))
	}
	coerced := make([]zelval.Value, len(args))
	for i, arg := range args {
		v, err := h.Params[i].coerce(arg)
		if err != nil {
			return zelval.Null, fmt.Errorf("argument %d of %s: %w", i, h.Name, err)
		}
		coerced[i] = v
	}
	return h.fn(ctx, recv, coerced)
}

// Resolve selects the most specific overload of method name for the receiver and argument kinds.
func (r *Resolver) Resolve(recv zelval.Value, name string, args []zelval.Value) (*Handle, error) {
	return r.Lookup(recv, name, args, false)
}

// Property resolves a property access.
func (r *Resolver) Property(recv zelval.Value, name string) (*Handle, error) {
	return r.Lookup(recv, name, nil, true)
}

// Call resolves and invokes in one step.
func (r *Resolver) Call(ctx context.Context, recv zelval.Value, name string, args ...zelval.Value) (zelval.Value, error) {
	h, err := r.Resolve(recv, name, args)
	if err != nil {
		return zelval.Null, err
	}
	return h.Invoke(ctx, recv, args)
}

func (r *Resolver) Lookup(recv zelval.Value, name string, args []zelval.Value, property bool) (*Handle, error) {
	if recv.IsNull() {
		return nil, fmt.Errorf("%w: member %s of null", zelval.ErrType, name)
	}

	var recvType reflect.Type
	if recv.Kind() == zelval.KindObject {
		obj := recv.AsObject()
		// capabilities of script objects vary per instance
		if sv, ok := obj.(starlark.Value); ok {
			return starlarkHandle(sv, name, property)
		}
		recvType = reflect.TypeOf(obj)
	}

	key := cacheKey{
		recvKind: recv.Kind(),
		recvType: recvType,
		name:     name,
		property: property,
		args:     signature(args),
	}
	if v, ok := r.handles.Load(key); ok {
		r.hits.Add(1)
		return v.(*Handle), nil
	}
	r.misses.Add(1)

	handle, err := r.resolve(recv, recvType, name, args, property)
	if err != nil {
		// failures are not cached
		return nil, err
	}
	v, _ := r.handles.LoadOrStore(key, handle)
	r.logger.Debug("member resolved",
		"receiver", receiverName(recv),
		"name", name,
		"property", property,
		"params", formatParams(handle.Params),
	)
	return v.(*Handle), nil
}

func (r *Resolver) resolve(recv zelval.Value, recvType reflect.Type, name string, args []zelval.Value, property bool) (*Handle, error) {
	table := r.tableFor(recv, recvType)

	if property {
		if getter, ok := table.Properties[name]; ok {
			return &Handle{
				Name:     name,
				Property: true,
				fn: func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
					return getter(recv)
				},
			}, nil
		}
		if getter, ok := mapGetter(recvType, name); ok {
			return &Handle{
				Name:     name,
				Property: true,
				fn: func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
					return getter(recv)
				},
			}, nil
		}
		// zero-argument methods double as properties
	}

	overloads := table.Methods[name]
	if len(overloads) == 0 {
		return nil, errorf(ErrNoSuchMethod, "%s has no member %s", receiverName(recv), name)
	}
	cands := applicable(overloads, args)
	if len(cands) == 0 {
		return nil, errorf(ErrNoSuchMethod, "no overload of %s.%s accepts %s", receiverName(recv), name, formatArgs(args))
	}
	best, tied := mostSpecific(cands)
	if best == nil {
		sigs := make([]string, 0, len(tied))
		for _, c := range tied {
			sigs = append(sigs, formatParams(c.overload.Params))
		}
		return nil, errorf(ErrAmbiguousMethod, "%s.%s%s matches %v", receiverName(recv), name, formatArgs(args), sigs)
	}

	return &Handle{
		Name:     name,
		Property: property,
		Params:   best.overload.Params,
		fn:       best.overload.Func,
	}, nil
}

func (r *Resolver) tableFor(recv zelval.Value, recvType reflect.Type) *Table {
	switch recv.Kind() {
	case zelval.KindText:
		return textTable
	case zelval.KindInt, zelval.KindFloat, zelval.KindBigInt, zelval.KindDecimal:
		return numberTable
	case zelval.KindBool:
		return boolTable
	}

	if v, ok := r.tables.Load(recvType); ok {
		return v.(*Table)
	}
	var table *Table
	if capable, ok := recv.AsObject().(Capable); ok {
		table = capable.ZelMembers()
	} else {
		table = reflectTable(recvType)
	}
	v, _ := r.tables.LoadOrStore(recvType, table)
	return v.(*Table)
}

// CacheStats returns cache hits and misses.
func (r *Resolver) CacheStats() (hits int64, misses int64) {
	return r.hits.Load(), r.misses.Load()
}

var (
	typeIDs    sync.Map // reflect.Type -> uint64
	nextTypeID atomic.Uint64
)

func typeID(t reflect.Type) uint64 {
	if v, ok := typeIDs.Load(t); ok {
		return v.(uint64)
	}
	v, _ := typeIDs.LoadOrStore(t, nextTypeID.Add(1))
	return v.(uint64)
}

// signature encodes argument kinds, and types of object arguments.
func signature(args []zelval.Value) string {
	if len(args) == 0 {
		return ""
	}
	buf := make([]byte, 0, len(args)*2)
	for _, arg := range args {
		buf = append(buf, byte(arg.Kind()))
		if arg.Kind() == zelval.KindObject {
			buf = binary.AppendUvarint(buf, typeID(reflect.TypeOf(arg.AsObject())))
		}
	}
	return string(buf)
}

func receiverName(recv zelval.Value) string {
	if recv.Kind() == zelval.KindObject {
		return reflect.TypeOf(recv.AsObject()).String()
	}
	return recv.Kind().String()
}
