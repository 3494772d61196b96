package cpu

import "fmt"

// TLBEntry holds the four staged lanes TLBWI commits verbatim.
type TLBEntry struct {
	PageMask uint64
	EntryHi  uint64
	PFN0     uint64
	PFN1     uint64
}

// CP0 is the system coprocessor: TLB-staging registers, the count/compare
// timer pair, Status/Cause/Config, EPC, and the watch/tag debug registers.
// Grounded on original_source/src/n64/cpu/cp0/cp0.rs.
//
// Register 29 carries a known conflict in the source between WatchHi and
// TagHi. This keeps them as distinct registers at indices 19 (WatchHi)
// and 29 (TagHi) — the later arm in the original wins — per the
// resolution spec.md §9 recommends.
type CP0 struct {
	Index    uint64
	EntryLo0 uint64
	EntryLo1 uint64
	EntryHi  uint64
	PageMask uint64

	Count   uint32
	Compare uint32
	Status  Status
	Cause   Cause
	EPC     uint64
	Config  uint32

	WatchLo uint32
	WatchHi uint32
	TagLo   uint32
	TagHi   uint32

	TLB [32]TLBEntry
}

// StoreTLBEntry commits the staged Index/EntryHi/EntryLo0/EntryLo1/
// PageMask into the TLB slot TLBWI addresses.
func (c *CP0) StoreTLBEntry() {
	index := c.Index & 0x1f
	var parityBit uint64
	if (c.EntryLo0&c.EntryLo1)&1 != 0 {
		parityBit = 0x1000
	}
	c.TLB[index] = TLBEntry{
		PageMask: c.PageMask,
		EntryHi:  (c.EntryHi &^ c.PageMask) | parityBit | c.EntryHi&0xff,
		PFN0:     c.EntryLo0 & 0xfffffffffffffffe,
		PFN1:     c.EntryLo1 & 0xfffffffffffffffe,
	}
}

// WriteReg dispatches MTC0's target register. Unrecognized indices are a
// programming fault, mirroring the original's panic! on the same
// condition.
func (c *CP0) WriteReg(index uint32, data uint64) {
	switch index {
	case 0:
		c.Index = data & 0x8000003F
	case 2:
		c.EntryLo0 = data
	case 3:
		c.EntryLo1 = data
	case 5:
		c.PageMask = data
	case 9:
		c.Count = uint32(data)
	case 10:
		c.EntryHi = data
	case 11:
		c.Compare = uint32(data)
		c.Cause.ClearTimerInterruptPending()
	case 12:
		c.Status = StatusFromU32(uint32(data))
	case 13:
		c.Cause.SetSoftwareInterruptPendingFields(uint32(data))
	case 14:
		c.EPC = data
	case 16:
		c.Config = uint32(data)
	case 19:
		c.WatchHi = uint32(data)
	case 18:
		c.WatchLo = uint32(data)
	case 28:
		c.TagLo = uint32(data)
	case 29:
		c.TagHi = uint32(data)
	default:
		panic(Fault{Op: "cp0_write", Detail: fmt.Sprintf("unrecognized CP0 register %d (value %#016x)", index, data)})
	}
}

// ReadReg dispatches MFC0's source register. Only the registers a guest
// program can meaningfully read are implemented; every other index is a
// programming fault.
func (c *CP0) ReadReg(index uint32) uint64 {
	switch index {
	case 9:
		return uint64(c.Count)
	case 11:
		return uint64(c.Compare)
	case 12:
		return uint64(c.Status.ToU32())
	case 13:
		return uint64(c.Cause.ToU32())
	case 14:
		return c.EPC
	case 16:
		return uint64(c.Config)
	default:
		panic(Fault{Op: "cp0_read", Detail: fmt.Sprintf("unrecognized CP0 register %d", index)})
	}
}
