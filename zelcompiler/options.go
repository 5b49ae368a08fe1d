package zelcompiler

import "github.com/reusee/zel/zelsched"

type Option func(*compiler)

// WithAsyncPolicy makes calls to the members selected by policy suspend the invocation.
func WithAsyncPolicy(policy zelsched.AsyncPolicy) Option {
	return func(c *compiler) {
		c.async = policy
	}
}

func WithName(name string) Option {
	return func(c *compiler) {
		c.name = name
	}
}
