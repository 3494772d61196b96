package bus

import "fmt"

// Fault describes an unrecoverable programming-level error detected while
// decoding an address or servicing a register access: an unmapped
// address, a byte access to a region without byte access, a write to a
// read-only bank, or an unsupported register command. The core
// panics with a Fault rather than returning one, matching the original
// source's panic! on the same conditions; a driver may recover() and
// print it.
type Fault struct {
	Op     string
	Detail string
}

func (f Fault) Error() string {
	return fmt.Sprintf("bus: %s: %s", f.Op, f.Detail)
}

func warn(format string, args ...interface{}) {
	fmt.Printf("WARNING: "+format+"\n", args...)
}
