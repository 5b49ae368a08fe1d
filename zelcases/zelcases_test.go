package zelcases

import (
	"context"
	"errors"
	"testing"

	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelval"
	"github.com/reusee/zel/zelvm"
)

func TestBasicSuite(t *testing.T) {
	suite, err := Load("testdata/basic.toml")
	if err != nil {
		t.Fatal(err)
	}
	if suite.Name != "basic" || len(suite.Cases) == 0 {
		t.Fatalf("got %+v", suite)
	}
	executor := zelvm.NewExecutor(nil, zelsched.Inline{}, nil)
	for c, err := range suite.Run(context.Background(), executor) {
		if err != nil {
			t.Fatalf("%s: %v", c.Expr, err)
		}
	}
}

func TestBasicSuiteOnPool(t *testing.T) {
	suite, err := Load("testdata/basic.toml")
	if err != nil {
		t.Fatal(err)
	}
	pool := zelsched.NewPool(2, 0, nil)
	defer pool.Shutdown(context.Background())
	executor := zelvm.NewExecutor(nil, pool, nil)
	for _, err := range suite.Run(context.Background(), executor) {
		if err != nil {
			t.Fatal(err)
		}
	}
}

func TestMismatch(t *testing.T) {
	suite, err := Parse([]byte(`
[[case]]
expr = "1 + 1"
expect = "3"

[[case]]
expr = "1 / 0"
error = "type"

[[case]]
expr = "1"
error = "arithmetic"
`))
	if err != nil {
		t.Fatal(err)
	}
	executor := zelvm.NewExecutor(nil, nil, nil)
	n := 0
	for c, err := range suite.Run(context.Background(), executor) {
		if !errors.Is(err, ErrMismatch) {
			t.Fatalf("%s: got %v", c.Name, err)
		}
		n++
	}
	if n != 3 {
		t.Fatalf("got %d", n)
	}
	if suite.Cases[0].Name != "case 1" {
		t.Fatalf("got %s", suite.Cases[0].Name)
	}
}

func TestInvalidSuite(t *testing.T) {
	if _, err := Load("testdata/invalid.toml"); !errors.Is(err, ErrInvalidSuite) {
		t.Fatalf("got %v", err)
	}
	if _, err := Load("testdata/missing.toml"); err == nil {
		t.Fatal("should fail")
	}
	for _, src := range []string{
		`[[case]]
expect = "1"`,
		`[[case]]
expr = "a"
params = ["a"]
expect = "1"`,
		`[[case]]
expr = "1"`,
		`[[case`,
	} {
		if _, err := Parse([]byte(src)); !errors.Is(err, ErrInvalidSuite) {
			t.Fatalf("%s: got %v", src, err)
		}
	}
}

func TestLiteral(t *testing.T) {
	for src, expected := range map[string]zelval.Value{
		"1":     zelval.Int(1),
		"-1":    zelval.Int(-1),
		"1.5":   zelval.Float(1.5),
		"'foo'": zelval.Text("foo"),
		"null":  zelval.Null,
		"true":  zelval.Bool(true),
	} {
		v, err := Literal(context.Background(), src)
		if err != nil {
			t.Fatal(err)
		}
		if v.Kind() != expected.Kind() || !zelval.Equal(v, expected) {
			t.Fatalf("%s: got %#v", src, v)
		}
	}
	if _, err := Literal(context.Background(), "a"); ErrorKind(err) != "compile" {
		t.Fatalf("got %v", err)
	}
}
