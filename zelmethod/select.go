package zelmethod

import (
	"reflect"
	"strings"

	"github.com/reusee/zel/zelval"
	"github.com/samber/lo"
)

type candidate struct {
	overload *Overload
	costs    []int
}

// applicable returns the overloads that accept the argument kinds, with their costs.
func applicable(overloads []Overload, args []zelval.Value) []candidate {
	return lo.FilterMap(overloads, func(o Overload, i int) (candidate, bool) {
		if len(o.Params) != len(args) {
			return candidate{}, false
		}
		costs := make([]int, len(args))
		for j, arg := range args {
			var objType reflect.Type
			if arg.Kind() == zelval.KindObject {
				objType = reflect.TypeOf(arg.AsObject())
			}
			c, ok := o.Params[j].cost(arg.Kind(), objType)
			if !ok {
				return candidate{}, false
			}
			costs[j] = c
		}
		return candidate{
			overload: &overloads[i],
			costs:    costs,
		}, true
	})
}

// dominates reports whether a is at least as specific as b for every argument
// and strictly more specific for one.
func dominates(a, b candidate) bool {
	strict := false
	for i := range a.costs {
		if a.costs[i] > b.costs[i] {
			return false
		}
		if a.costs[i] < b.costs[i] {
			strict = true
		}
	}
	return strict
}

// mostSpecific returns the candidate dominating all others,
// or the undominated candidates when there is none.
func mostSpecific(cands []candidate) (*candidate, []candidate) {
	if len(cands) == 1 {
		return &cands[0], nil
	}
	for i, c := range cands {
		wins := true
		for j, o := range cands {
			if i != j && !dominates(c, o) {
				wins = false
				break
			}
		}
		if wins {
			return &cands[i], nil
		}
	}
	return nil, lo.Filter(cands, func(c candidate, i int) bool {
		for j, o := range cands {
			if i != j && dominates(o, c) {
				return false
			}
		}
		return true
	})
}

func formatParams(params []Param) string {
	return "(" + strings.Join(lo.Map(params, func(p Param, _ int) string {
		return p.String()
	}), ", ") + ")"
}

func formatArgs(args []zelval.Value) string {
	return "(" + strings.Join(lo.Map(args, func(a zelval.Value, _ int) string {
		if a.Kind() == zelval.KindObject {
			return reflect.TypeOf(a.AsObject()).String()
		}
		return a.Kind().String()
	}), ", ") + ")"
}
