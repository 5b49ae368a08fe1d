package cmds

import (
	"strings"
	"testing"
	"time"
)

func TestExecutor(t *testing.T) {
	executor := NewExecutor()

	var a int
	executor.Define("+a", Func(func() {
		a = 42
	}))
	executor.Define("a", Func(func(i int) {
		a = i
	}))

	if err := executor.Execute([]string{
		"+a",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 42 {
		t.Fatal()
	}

	if err := executor.Execute([]string{
		"a", "1",
	}); err != nil {
		t.Fatal(err)
	}
	if a != 1 {
		t.Fatal()
	}

	err := executor.Execute([]string{
		"foo",
	})
	if err == nil || !strings.Contains(err.Error(), "unknown command: foo") {
		t.Fatalf("got %v", err)
	}

	err = executor.Execute([]string{
		"a", "x",
	})
	if err == nil || !strings.Contains(err.Error(), "convert x to int") {
		t.Fatalf("got %v", err)
	}
}

func TestSubCommands(t *testing.T) {
	executor := NewExecutor()
	var bar, baz int
	executor.Define("foo", Sub(map[string]*Command{
		"bar": Func(func() {
			bar = 1
		}),
		"baz": Func(func(i int) {
			baz = i
		}),
	}))

	if err := executor.Execute([]string{
		"foo",
		"bar",
		"baz", "2",
	}); err != nil {
		t.Fatal(err)
	}
	if bar != 1 || baz != 2 {
		t.Fatalf("got %d %d", bar, baz)
	}

	// sub commands are scoped
	if err := executor.Execute([]string{"bar"}); err == nil {
		t.Fatal("should error")
	}
}

func TestArgTypes(t *testing.T) {
	executor := NewExecutor()
	var (
		d time.Duration
		b bool
		f float64
		p *string
	)
	executor.Define("d", Func(func(v time.Duration) { d = v }))
	executor.Define("b", Func(func(v bool) { b = v }))
	executor.Define("f", Func(func(v float64) { f = v }))
	executor.Define("p", Func(func(v *string) { p = v }))
	executor.MustExecute([]string{
		"d", "1.5s",
		"b", "yes",
		"f", "0.25",
		"p", "x",
	})
	if d != 1500*time.Millisecond || !b || f != 0.25 || p == nil || *p != "x" {
		t.Fatalf("got %v %v %v %v", d, b, f, p)
	}

	// optional pointer at end of input
	executor.MustExecute([]string{"p"})
	if p == nil || *p != "" {
		t.Fatalf("got %v", p)
	}
}

func TestFuncError(t *testing.T) {
	executor := NewExecutor()
	executor.Define("fail", Func(func() error {
		return errTest
	}))
	executor.Define("ok", Func(func() error {
		return nil
	}))
	if err := executor.Execute([]string{"ok"}); err != nil {
		t.Fatal(err)
	}
	if err := executor.Execute([]string{"fail"}); err != errTest {
		t.Fatalf("got %v", err)
	}
}

type testError struct{}

func (testError) Error() string {
	return "test"
}

var errTest error = testError{}
