package zelvm

import (
	"fmt"
	"slices"

	"github.com/reusee/zel/zelval"
)

// Program is an immutable compiled expression. It is safe to execute concurrently.
type Program struct {
	name      string
	code      []OpCode
	constants []zelval.Value
	params    []string
	sites     []CallSite
	maxStack  int
}

// NewProgram validates and freezes a program.
// Every path must keep the operand stack balanced and end in a single make-result.
func NewProgram(
	name string,
	code []OpCode,
	constants []zelval.Value,
	params []string,
	sites []CallSite,
) (*Program, error) {
	p := &Program{
		name:      name,
		code:      slices.Clone(code),
		constants: slices.Clone(constants),
		params:    slices.Clone(params),
		sites:     slices.Clone(sites),
	}
	maxStack, err := verify(p)
	if err != nil {
		return nil, err
	}
	p.maxStack = maxStack
	return p, nil
}

func (p *Program) Name() string {
	return p.name
}

func (p *Program) displayName() string {
	if p.name == "" {
		return "<expr>"
	}
	return p.name
}

func (p *Program) NumParams() int {
	return len(p.params)
}

func (p *Program) ParamNames() []string {
	return slices.Clone(p.params)
}

func (p *Program) Code() []OpCode {
	return slices.Clone(p.code)
}

func (p *Program) Constants() []zelval.Value {
	return slices.Clone(p.constants)
}

func (p *Program) CallSites() []CallSite {
	return slices.Clone(p.sites)
}

// MaxStack is the operand stack depth needed by any path.
func (p *Program) MaxStack() int {
	return p.maxStack
}

func malformed(ip int, format string, args ...any) error {
	return fmt.Errorf("%w: at %d: %s", ErrMalformed, ip, fmt.Sprintf(format, args...))
}

func verify(p *Program) (maxStack int, err error) {
	if len(p.code) == 0 {
		return 0, fmt.Errorf("%w: empty code", ErrMalformed)
	}

	seen := make(map[string]bool)
	for _, name := range p.params {
		if name == "" || seen[name] {
			return 0, fmt.Errorf("%w: invalid or duplicated parameter %q", ErrMalformed, name)
		}
		seen[name] = true
	}

	for i, site := range p.sites {
		if site.Name == "" || site.NumArgs < 0 || site.Property && site.NumArgs != 0 {
			return 0, fmt.Errorf("%w: invalid call site %d", ErrMalformed, i)
		}
	}

	// operands
	for ip, inst := range p.code {
		arg := inst.Arg()
		switch inst.Op() {
		case OpLoadConst:
			if arg < 0 || arg >= len(p.constants) {
				return 0, malformed(ip, "constant %d out of range", arg)
			}
		case OpLoadParam:
			if arg < 0 || arg >= len(p.params) {
				return 0, malformed(ip, "parameter %d out of range", arg)
			}
		case OpArith:
			if arg < 0 || arg > int(zelval.OpNeg) {
				return 0, malformed(ip, "invalid arithmetic operator %d", arg)
			}
		case OpCompare:
			if arg < 0 || arg > int(zelval.OpNot) {
				return 0, malformed(ip, "invalid comparison operator %d", arg)
			}
		case OpJump, OpJumpFalse:
			if target := ip + 1 + arg; target < 0 || target >= len(p.code) {
				return 0, malformed(ip, "jump target %d out of range", target)
			}
		case OpCallMethod, OpSuspendCall:
			if arg < 0 || arg >= len(p.sites) {
				return 0, malformed(ip, "call site %d out of range", arg)
			}
		case OpMakeResult:
		default:
			return 0, malformed(ip, "unknown instruction %d", uint8(inst))
		}
	}

	// stack depths along all paths
	depths := make([]int, len(p.code))
	for i := range depths {
		depths[i] = -1
	}
	type state struct {
		ip    int
		depth int
	}
	work := []state{{0, 0}}
	for len(work) > 0 {
		s := work[len(work)-1]
		work = work[:len(work)-1]

		for {
			if s.ip >= len(p.code) {
				return 0, malformed(s.ip, "execution falls off the end")
			}
			if d := depths[s.ip]; d >= 0 {
				if d != s.depth {
					return 0, malformed(s.ip, "stack depth %d, expected %d", s.depth, d)
				}
				break
			}
			depths[s.ip] = s.depth

			inst := p.code[s.ip]
			pops, pushes := stackEffect(inst, p.sites)
			if s.depth < pops {
				return 0, malformed(s.ip, "stack underflow")
			}
			depth := s.depth - pops + pushes
			maxStack = max(maxStack, depth, s.depth)

			switch inst.Op() {
			case OpMakeResult:
				if s.depth != 1 {
					return 0, malformed(s.ip, "result with stack depth %d", s.depth)
				}
			case OpJump:
				s = state{s.ip + 1 + inst.Arg(), depth}
				continue
			case OpJumpFalse:
				work = append(work, state{s.ip + 1 + inst.Arg(), depth})
			}
			if inst.Op() == OpMakeResult {
				break
			}
			s = state{s.ip + 1, depth}
		}
	}

	return maxStack, nil
}
