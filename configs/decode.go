package configs

import (
	"errors"
	"iter"
)

// First decodes the value at path from the file with the highest precedence, or returns the zero value.
// Undecodable values panic: a broken config file is fixed before anything runs.
func First[T any](loader Loader, path string) (ret T) {
	err := loader.AssignFirst(path, &ret)
	if errors.Is(err, ErrValueNotFound) {
		var zero T
		return zero
	}
	if err != nil {
		panic(err)
	}
	return
}

// All decodes the value at path from every file that has it, highest precedence first.
func All[T any](loader Loader, path string) iter.Seq[T] {
	return func(yield func(T) bool) {
		for value, err := range loader.IterCueValues(path) {
			if err != nil {
				panic(err)
			}
			var v T
			if err := value.Decode(&v); err != nil {
				panic(wrap(err))
			}
			if !yield(v) {
				return
			}
		}
	}
}
