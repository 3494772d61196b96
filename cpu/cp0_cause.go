package cpu

// Cause is CP0's structured Cause register. Grounded on
// original_source/src/n64/cpu/cp0/reg_cause.rs.
type Cause struct {
	BD bool  // last exception occurred in a branch delay slot
	CE uint8 // coprocessor involved in a coprocessor-unusable exception

	IPTimer    bool
	IPExternal [5]bool
	IPSoftware [2]bool

	ExceptionCode uint8
}

// ToU32 packs the structured view into the wire format.
func (c Cause) ToU32() uint32 {
	v := uint32(c.CE&0x03) << 28
	if c.BD {
		v |= 1 << 31
	}
	if c.IPTimer {
		v |= 1 << 15
	}
	for i, p := range c.IPExternal {
		if p {
			v |= 1 << uint(10+i)
		}
	}
	for i, p := range c.IPSoftware {
		if p {
			v |= 1 << uint(8+i)
		}
	}
	v |= uint32(c.ExceptionCode) << 2
	return v
}

// CauseFromU32 unpacks the wire format symmetrically with ToU32.
func CauseFromU32(value uint32) Cause {
	var c Cause
	c.BD = value&(1<<31) != 0
	c.CE = uint8((value >> 28) & 0x03)
	c.IPTimer = value&(1<<15) != 0
	for i := range c.IPExternal {
		c.IPExternal[i] = value&(1<<uint(10+i)) != 0
	}
	for i := range c.IPSoftware {
		c.IPSoftware[i] = value&(1<<uint(8+i)) != 0
	}
	c.ExceptionCode = uint8((value >> 2) & 0x1F)
	return c
}

// SetSoftwareInterruptPendingFields is the only guest-writable mutator:
// only the two software interrupt-pending bits of the written value take
// effect.
func (c *Cause) SetSoftwareInterruptPendingFields(value uint32) {
	c.IPSoftware = CauseFromU32(value).IPSoftware
}

func (c *Cause) ClearTimerInterruptPending() {
	c.IPTimer = false
}
