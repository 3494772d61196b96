package cpu

import "fmt"

// Fault is a programming-level error the CPU interpreter panics with:
// an unrecognized opcode or a CP0 register access outside the modeled
// set. An unsupported virtual address panics with a bus.Fault from
// bus.TranslateAddr instead.
type Fault struct {
	Op     string
	Detail string
}

func (f Fault) Error() string {
	return fmt.Sprintf("cpu: %s: %s", f.Op, f.Detail)
}
