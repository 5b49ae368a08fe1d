package cmds

// Var defines a flag that takes one argument. "name." resets it to zero.
func Var[T any](name string) *T {
	value := new(T)
	Define(name, Func(func(v T) {
		*value = v
	}).Desc("set "+name))
	Define(name+".", Func(func() {
		var zero T
		*value = zero
	}).Desc("reset "+name))
	return value
}

// Switch defines "name" to turn a bool on and "!name" to turn it off.
func Switch(name string) *bool {
	value := new(bool)
	Define(name, Func(func() {
		*value = true
	}).Desc("enable "+name))
	Define("!"+name, Func(func() {
		*value = false
	}).Desc("disable "+name))
	return value
}

// Collect defines a repeatable flag whose arguments accumulate.
func Collect[T any](name string) *[]T {
	values := new([]T)
	Define(name, Func(func(v T) {
		*values = append(*values, v)
	}).Desc("append to "+name))
	return values
}
