// Package machine assembles the CPU, RSP, and interconnect into the
// complete N64 system and drives them one step at a time. Grounded on
// original_source/src/n64/mod.rs's top-level Interconnect/Cpu/Rsp wiring.
package machine

import (
	"github.com/n64lab/n64core/bus"
	"github.com/n64lab/n64core/cpu"
	"github.com/n64lab/n64core/rsp"
	"github.com/n64lab/n64core/video"
)

// N64 owns the three cores and steps them in the order the original
// system does: CPU, then RSP, then the interconnect's DMA/frame-pacing
// housekeeping.
type N64 struct {
	cpu          *cpu.CPU
	rsp          *rsp.RSP
	interconnect *bus.Interconnect
}

// New constructs a fresh system from a boot ROM and a cartridge image,
// running the PIF's CIC-seed handshake as part of construction.
func New(bootROM, cartROM []byte) (*N64, error) {
	ic, err := bus.New(bootROM, cartROM)
	if err != nil {
		return nil, err
	}
	return &N64{
		cpu:          cpu.New(),
		rsp:          rsp.New(),
		interconnect: ic,
	}, nil
}

// Step advances the system by one CPU instruction, one RSP cycle, and one
// interconnect tick, appending a scanned-out frame to sink whenever the
// frame-pacing counter wraps.
func (n *N64) Step(sink video.Sink) {
	n.cpu.Step(n.interconnect)
	n.rsp.Step(n.interconnect)
	n.interconnect.Step(sink)
}

// CPU exposes the CPU core for introspection (tests, debuggers).
func (n *N64) CPU() *cpu.CPU { return n.cpu }

// RSP exposes the RSP core for introspection.
func (n *N64) RSP() *rsp.RSP { return n.rsp }

// Interconnect exposes the bus for introspection.
func (n *N64) Interconnect() *bus.Interconnect { return n.interconnect }

// ReadWordDebug performs a side-effect-free peek at a physical address,
// where one is available.
func (n *N64) ReadWordDebug(addr uint32) (uint32, bool) {
	return n.interconnect.ReadWordDebug(addr)
}
