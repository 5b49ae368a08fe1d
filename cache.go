package zel

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/reusee/zel/zelcompiler"
	"golang.org/x/sync/singleflight"
)

// Cache compiles each distinct (source, parameters) pair once.
// Concurrent requests for the same pair share one compilation. Failures are not kept.
type Cache struct {
	options  []zelcompiler.Option
	group    singleflight.Group
	programs sync.Map
	compiles atomic.Int64
}

func NewCache(options ...zelcompiler.Option) *Cache {
	return &Cache{
		options: options,
	}
}

func cacheKey(src string, params []string) string {
	var b strings.Builder
	b.WriteString(strconv.Quote(src))
	for _, param := range params {
		b.WriteByte(' ')
		b.WriteString(param)
	}
	return b.String()
}

func (c *Cache) Compile(src string, params ...string) (*Program, error) {
	key := cacheKey(src, params)
	if v, ok := c.programs.Load(key); ok {
		return v.(*Program), nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.programs.Load(key); ok {
			return v, nil
		}
		c.compiles.Add(1)
		program, err := zelcompiler.Compile(src, params, c.options...)
		if err != nil {
			return nil, err
		}
		c.programs.Store(key, program)
		return program, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Program), nil
}

// Compiles returns the number of compilations performed.
func (c *Cache) Compiles() int64 {
	return c.compiles.Load()
}

func (c *Cache) Purge() {
	c.programs.Clear()
}
