// Package zelcases runs expression conformance cases described in TOML files.
package zelcases

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/reusee/e5"
)

var wrap = e5.Wrap.With(e5.WrapStacktrace)

var ErrInvalidSuite = errors.New("invalid suite")

// Case is one expression with its arguments and expected outcome.
// Arguments and the expected value are written as expression literals, like '1.5m' or 'null'.
type Case struct {
	Name   string   `toml:"name"`
	Expr   string   `toml:"expr"`
	Params []string `toml:"params"`
	Args   []string `toml:"args"`
	// members whose calls suspend the invocation
	Async  []string `toml:"async"`
	Expect string   `toml:"expect"`
	// expected error kind, like "arithmetic" or "compile"
	Error string `toml:"error"`
}

type Suite struct {
	Name  string  `toml:"name"`
	Cases []*Case `toml:"case"`

	Path string `toml:"-"`
}

func Parse(data []byte) (*Suite, error) {
	var suite Suite
	meta, err := toml.Decode(string(data), &suite)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSuite, err)
	}
	if keys := meta.Undecoded(); len(keys) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalidSuite, keys)
	}
	for i, c := range suite.Cases {
		if c.Name == "" {
			c.Name = fmt.Sprintf("case %d", i+1)
		}
		if c.Expr == "" {
			return nil, fmt.Errorf("%w: %s: no expression", ErrInvalidSuite, c.Name)
		}
		if len(c.Args) != len(c.Params) && c.Error != "arity" {
			return nil, fmt.Errorf("%w: %s: %d params, %d args", ErrInvalidSuite, c.Name, len(c.Params), len(c.Args))
		}
		if c.Expect == "" && c.Error == "" {
			return nil, fmt.Errorf("%w: %s: no expectation", ErrInvalidSuite, c.Name)
		}
	}
	return &suite, nil
}

func Load(path string) (*Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(err)
	}
	suite, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	suite.Path = path
	return suite, nil
}
