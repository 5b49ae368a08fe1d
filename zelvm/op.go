package zelvm

import (
	"fmt"

	"github.com/reusee/zel/zelval"
)

// OpCode packs an operation in the low 8 bits and a signed operand in the rest.
type OpCode uint32

const (
	OpLoadConst OpCode = iota + 1
	OpLoadParam
	// operand is a zelval.ArithOp
	OpArith
	// operand is a zelval.CmpOp
	OpCompare
	// operand is a relative offset from the next instruction
	OpJump
	OpJumpFalse
	// operand indexes the call sites of the program
	OpCallMethod
	OpSuspendCall
	OpMakeResult
)

// MaxOperand is the largest operand magnitude an instruction can carry.
const MaxOperand = 1<<23 - 1

func (o OpCode) With(arg int) OpCode {
	return o | OpCode(uint32(int32(arg))<<8)
}

func (o OpCode) Op() OpCode {
	return o & 0xff
}

func (o OpCode) Arg() int {
	return int(int32(o) >> 8)
}

var opNames = map[OpCode]string{
	OpLoadConst:   "load-const",
	OpLoadParam:   "load-param",
	OpArith:       "arith",
	OpCompare:     "compare",
	OpJump:        "jump",
	OpJumpFalse:   "jump-if-false",
	OpCallMethod:  "call-method",
	OpSuspendCall: "suspend-call",
	OpMakeResult:  "make-result",
}

func (o OpCode) String() string {
	name, ok := opNames[o.Op()]
	if !ok {
		return fmt.Sprintf("op(%d)", uint8(o))
	}
	switch o.Op() {
	case OpArith:
		return name + " " + zelval.ArithOp(o.Arg()).String()
	case OpCompare:
		return name + " " + zelval.CmpOp(o.Arg()).String()
	case OpMakeResult:
		return name
	}
	return fmt.Sprintf("%s %d", name, o.Arg())
}

// CallSite describes a member access emitted by the compiler.
type CallSite struct {
	Name     string
	NumArgs  int
	Property bool
}

// stackEffect returns pops and pushes of an instruction.
func stackEffect(inst OpCode, sites []CallSite) (pops int, pushes int) {
	switch inst.Op() {
	case OpLoadConst, OpLoadParam:
		return 0, 1
	case OpArith:
		if zelval.ArithOp(inst.Arg()) == zelval.OpNeg {
			return 1, 1
		}
		return 2, 1
	case OpCompare:
		if zelval.CmpOp(inst.Arg()) == zelval.OpNot {
			return 1, 1
		}
		return 2, 1
	case OpJumpFalse:
		return 1, 0
	case OpCallMethod, OpSuspendCall:
		return sites[inst.Arg()].NumArgs + 1, 1
	case OpMakeResult:
		return 1, 0
	}
	return 0, 0
}
