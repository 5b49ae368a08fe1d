package zelvm

import (
	"fmt"

	"github.com/reusee/zel/zelmethod"
	"github.com/reusee/zel/zelval"
)

// Run interprets instructions until the invocation finishes or suspends.
// A suspension is yielded as a token; it is continued by Resume followed by another Run.
// A failure is yielded as an error after the context has entered the failed state.
func (c *Context) Run(yield func(*SuspensionToken, error) bool) {
	c.mu.Lock()
	switch {
	case c.state.Terminal():
		c.mu.Unlock()
		return
	case c.state == StateReady, c.state == StateRunning && c.runnable:
		c.state = StateRunning
		c.runnable = false
	default:
		state := c.state
		c.mu.Unlock()
		yield(nil, fmt.Errorf("%w: run in %s state", ErrState, state))
		return
	}
	c.mu.Unlock()

	program := c.program
	code := program.code
	trace := c.executor.Trace
	logger := c.executor.Logger

	fail := func(ip int, inst OpCode, err error) {
		execErr := newError(ip, inst, err)
		c.finish(StateFailed, zelval.Null, execErr)
		yield(nil, execErr)
	}

	for {
		if c.cancelled.Load() {
			err := c.cancelError(c.ip)
			c.finish(StateFailed, zelval.Null, err)
			yield(nil, err)
			return
		}

		ip := c.ip
		inst := code[ip]
		c.ip++
		if trace {
			logger.DebugContext(c.ctx, "exec",
				"ip", ip,
				"op", inst,
				"depth", c.sp,
			)
		}

		switch inst.Op() {

		case OpLoadConst:
			c.push(program.constants[inst.Arg()])

		case OpLoadParam:
			c.push(c.args[inst.Arg()])

		case OpArith:
			op := zelval.ArithOp(inst.Arg())
			var ret zelval.Value
			var err error
			if op == zelval.OpNeg {
				ret, err = zelval.Neg(c.pop())
			} else {
				b := c.pop()
				a := c.pop()
				ret, err = zelval.Arith(op, a, b)
			}
			if err != nil {
				fail(ip, inst, err)
				return
			}
			c.push(ret)

		case OpCompare:
			op := zelval.CmpOp(inst.Arg())
			var ret zelval.Value
			var err error
			if op == zelval.OpNot {
				ret, err = zelval.Not(c.pop())
			} else {
				b := c.pop()
				a := c.pop()
				ret, err = zelval.Compare(op, a, b)
			}
			if err != nil {
				fail(ip, inst, err)
				return
			}
			c.push(ret)

		case OpJump:
			c.ip += inst.Arg()

		case OpJumpFalse:
			ok, err := zelval.Truthy(c.pop())
			if err != nil {
				fail(ip, inst, err)
				return
			}
			if !ok {
				c.ip += inst.Arg()
			}

		case OpCallMethod:
			site := program.sites[inst.Arg()]
			args := c.popN(site.NumArgs)
			recv := c.pop()
			handle, err := c.executor.Resolver.Lookup(recv, site.Name, args, site.Property)
			if err != nil {
				fail(ip, inst, err)
				return
			}
			ret, err := invoke(c.ctx, handle, recv, args)
			if err != nil {
				fail(ip, inst, err)
				return
			}
			c.push(ret)

		case OpSuspendCall:
			site := program.sites[inst.Arg()]
			args := c.popN(site.NumArgs)
			recv := c.pop()
			handle, err := c.executor.Resolver.Lookup(recv, site.Name, args, site.Property)
			if err != nil {
				fail(ip, inst, err)
				return
			}
			token, ok := c.suspend(ip, site.Name, handle, recv, args)
			if !ok {
				// cancelled while running
				continue
			}
			yield(token, nil)
			return

		case OpMakeResult:
			ret := c.pop()
			c.finish(StateCompleted, ret, nil)
			return

		default:
			fail(ip, inst, malformed(ip, "unknown opcode %d", uint8(inst.Op())))
			return
		}
	}
}

func (c *Context) suspend(ip int, member string, handle *zelmethod.Handle, recv zelval.Value, args []zelval.Value) (*SuspensionToken, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelled.Load() {
		return nil, false
	}
	c.generation++
	token := &SuspensionToken{
		ID:         c.executor.newID(),
		IP:         ip,
		Member:     member,
		context:    c,
		generation: c.generation,
		handle:     handle,
		recv:       recv,
		args:       args,
	}
	c.pending = token
	c.state = StateSuspended
	return token, true
}

func (c *Context) push(v zelval.Value) {
	c.stack[c.sp] = v
	c.sp++
}

func (c *Context) pop() zelval.Value {
	c.sp--
	v := c.stack[c.sp]
	c.stack[c.sp] = zelval.Null
	return v
}

// popN returns the top n values in push order, in a fresh slice.
func (c *Context) popN(n int) []zelval.Value {
	if n == 0 {
		return nil
	}
	start := c.sp - n
	ret := make([]zelval.Value, n)
	copy(ret, c.stack[start:c.sp])
	clear(c.stack[start:c.sp])
	c.sp = start
	return ret
}
