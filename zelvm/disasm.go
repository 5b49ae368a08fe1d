package zelvm

import (
	"fmt"
	"strings"
)

// Disassemble renders a program one instruction per line, with constants and call sites resolved.
func Disassemble(p *Program) string {
	buf := new(strings.Builder)
	fmt.Fprintf(buf, "program %s(%s) stack=%d\n",
		p.displayName(), strings.Join(p.params, ", "), p.maxStack)
	for ip, inst := range p.code {
		fmt.Fprintf(buf, "%4d  %s", ip, inst)
		arg := inst.Arg()
		switch inst.Op() {
		case OpLoadConst:
			fmt.Fprintf(buf, "\t; %#v", p.constants[arg])
		case OpLoadParam:
			fmt.Fprintf(buf, "\t; %s", p.params[arg])
		case OpJump, OpJumpFalse:
			fmt.Fprintf(buf, "\t; -> %d", ip+1+arg)
		case OpCallMethod, OpSuspendCall:
			site := p.sites[arg]
			if site.Property {
				fmt.Fprintf(buf, "\t; .%s", site.Name)
			} else {
				fmt.Fprintf(buf, "\t; .%s/%d", site.Name, site.NumArgs)
			}
		}
		buf.WriteByte('\n')
	}
	return buf.String()
}
