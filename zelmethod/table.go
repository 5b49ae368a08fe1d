package zelmethod

import (
	"context"

	"github.com/reusee/zel/zelval"
)

type Func func(ctx context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error)

type Getter func(recv zelval.Value) (zelval.Value, error)

// Overload is one signature of a member method.
type Overload struct {
	Params []Param
	Func   Func
}

// Table lists the members of a receiver type.
type Table struct {
	Methods    map[string][]Overload
	Properties map[string]Getter
}

func NewTable() *Table {
	return &Table{
		Methods:    make(map[string][]Overload),
		Properties: make(map[string]Getter),
	}
}

// Method adds an overload.
func (t *Table) Method(name string, fn Func, params ...Param) *Table {
	t.Methods[name] = append(t.Methods[name], Overload{
		Params: params,
		Func:   fn,
	})
	return t
}

func (t *Table) Property(name string, getter Getter) *Table {
	t.Properties[name] = getter
	return t
}

// Capable is implemented by host types that declare their members explicitly.
// The table must be the same for every value of the type; it is cached per type.
type Capable interface {
	ZelMembers() *Table
}
