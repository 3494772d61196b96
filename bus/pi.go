package bus

// PI is the Peripheral Interface register bank: owns the cart-to-RDRAM
// DMA write request and the BSD DOM1 cart-timing stub registers. Grounded
// on original_source/src/n64/peripheral_interface.rs.
type PI struct {
	dramAddr uint32
	cartAddr uint32

	dmaWrite Request
}

// DMAWriteChunk splits off the next chunk (arbitrary 0x10000-byte size,
// matching the original) of the pending cart-to-RDRAM DMA.
func (p *PI) DMAWriteChunk() (from, to, n uint32, pending bool) {
	from, to, n, rest := p.dmaWrite.Chunk(0x10000)
	p.dmaWrite = rest
	return from, to, n, n > 0
}

func (p *PI) WriteDramAddrReg(value uint32) { p.dramAddr = value & 0x00ffffff }
func (p *PI) WriteCartAddrReg(value uint32) { p.cartAddr = value }

func (p *PI) WriteWrLenReg(value uint32) {
	p.dmaWrite = Request{
		From:   p.cartAddr,
		To:     p.dramAddr,
		Length: (value & 0x00fffffe) + 2,
	}
}

func (p *PI) ReadStatusReg() uint32 {
	if p.dmaWrite.Pending() {
		return 1
	}
	return 0
}

func (p *PI) WriteStatusReg(value uint32) {
	if value&(1<<0) != 0 {
		warn("PI reset controller bit written but not yet implemented")
	}
	if value&(1<<1) != 0 {
		warn("PI clear intr bit written but not yet implemented")
	}
}

func (p *PI) ReadBsdDom1LatReg() uint32 { return 0 }
func (p *PI) WriteBsdDom1LatReg(value uint32) { warn("PI_BSD_DOM1_LAT_REG written: %#x", value) }
func (p *PI) ReadBsdDom1PwdReg() uint32 { return 0 }
func (p *PI) WriteBsdDom1PwdReg(value uint32) { warn("PI_BSD_DOM1_PWD_REG written: %#x", value) }
func (p *PI) ReadBsdDom1PgsReg() uint32 { return 0 }
func (p *PI) WriteBsdDom1PgsReg(value uint32) { warn("PI_BSD_DOM1_PGS_REG written: %#x", value) }
func (p *PI) ReadBsdDom1RlsReg() uint32 { return 0 }
func (p *PI) WriteBsdDom1RlsReg(value uint32) { warn("PI_BSD_DOM1_RLS_REG written: %#x", value) }
