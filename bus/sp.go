package bus

// HLEOp names a high-level-emulation task the RSP scalar core can perform
// in place of interpreting microcode, detected from a checksum of the
// first bytes of IMEM. Grounded on original_source/src/n64/rsp/rsp.rs.
type HLEOp int

const (
	HLENone HLEOp = iota
	HLECicX105Ucode
)

// SPStatus is the RSP status register, unpacked into individual flags.
// Most bits are paired set/clear bits in the MMIO encoding (see
// WriteStatusReg); Broke only has a clear bit on real hardware.
type SPStatus struct {
	Halt             bool
	Broke            bool
	InterruptEnable  bool
	SStep            bool
	InterruptOnBreak bool
	Signal           [8]bool
}

// SP is the SP register bank plus the RSP's local DMEM/IMEM, both owned
// by the interconnect (the RSP scalar core itself is owned by the N64 top
// level and reaches this bank through the interconnect, exactly as
// spec.md's ownership tree describes).
type SP struct {
	PC uint32

	Status SPStatus

	DramAddr uint32
	MemAddr  uint32
	DMARead  Request

	DMEM [4096]byte
	IMEM [4096]byte

	HLEPending HLEOp
}

// NewSP returns an SP bank in its post-reset state: halted, MemAddr
// pointing at the start of DMEM.
func NewSP() *SP {
	return &SP{
		Status:  SPStatus{Halt: true},
		MemAddr: SPDMEMStart,
	}
}

func (s *SP) ReadDMEM(offset uint32) uint32 { return beUint32(s.DMEM[offset:]) }
func (s *SP) WriteDMEM(offset uint32, v uint32) { bePutUint32(s.DMEM[offset:], v) }
func (s *SP) ReadIMEM(offset uint32) uint32 { return beUint32(s.IMEM[offset:]) }
func (s *SP) WriteIMEM(offset uint32, v uint32) { bePutUint32(s.IMEM[offset:], v) }
func (s *SP) ReadDMEMByte(offset uint32) byte     { return s.DMEM[offset] }
func (s *SP) WriteDMEMByte(offset uint32, v byte) { s.DMEM[offset] = v }
func (s *SP) ReadIMEMByte(offset uint32) byte     { return s.IMEM[offset] }
func (s *SP) WriteIMEMByte(offset uint32, v byte) { s.IMEM[offset] = v }

// DMAReadChunk splits off the next chunk (8192-byte, arbitrary, matching
// the original) of the pending RDRAM-to-DMEM DMA.
func (s *SP) DMAReadChunk() (from, to, n uint32, pending bool) {
	from, to, n, rest := s.DMARead.Chunk(8192)
	s.DMARead = rest
	return from, to, n, n > 0
}

// WriteMemAddrReg reproduces the original's operator-precedence mistake:
// the source Rust wrote "value & 0x1fff + SP_DMEM_START", and in Rust +
// binds tighter than &, so the mask actually applied is
// (0x1fff + SP_DMEM_START), not the 0x1fff the author evidently intended.
// Preserved rather than fixed, per the known-quirks note in DESIGN.md.
func (s *SP) WriteMemAddrReg(value uint32) {
	s.MemAddr = value & (0x1fff + SPDMEMStart)
}

func (s *SP) WriteDramAddrReg(value uint32) { s.DramAddr = value & 0x00ffffff }

func (s *SP) WriteRdLenReg(value uint32) {
	count := (value >> 12) & 0xff
	skip := value >> 20
	if count != 0 {
		panic(Fault{Op: "sp_rd_len", Detail: fmt32("multi-part DMAs not yet supported by RSP count=%d skip=%d", count, skip)})
	}
	s.DMARead = Request{
		From:   s.DramAddr,
		To:     s.MemAddr,
		Length: (value & 0x0ffc) + 4,
	}
}

func (s *SP) ReadStatusReg() uint32 {
	var v uint32
	setBit := func(b bool, bit uint) {
		if b {
			v |= 1 << bit
		}
	}
	setBit(s.Status.Halt, 0)
	setBit(s.Status.InterruptEnable, 1)
	setBit(s.DMARead.Pending(), 2)
	setBit(s.Status.InterruptOnBreak, 6)
	for i, sig := range s.Status.Signal {
		setBit(sig, uint(7+i))
	}
	return v
}

func (s *SP) WriteStatusReg(value uint32) {
	wasHaltedOrBroke := s.Status.Halt || s.Status.Broke

	setClear := func(cur *bool, clearBit, setBit uint) {
		if value&(1<<clearBit) != 0 {
			*cur = false
		}
		if setBit != 0 && value&(1<<setBit) != 0 {
			*cur = true
		}
	}
	setClear(&s.Status.Halt, 0, 1)
	if value&(1<<2) != 0 {
		s.Status.Broke = false
	}
	setClear(&s.Status.InterruptEnable, 3, 4)
	setClear(&s.Status.SStep, 5, 6)
	setClear(&s.Status.InterruptOnBreak, 7, 8)
	for i := range s.Status.Signal {
		setClear(&s.Status.Signal[i], uint(9+2*i), uint(10+2*i))
	}

	if wasHaltedOrBroke && !s.Status.Halt && !s.Status.Broke {
		s.tryHLEEmulation()
	}
	warn("RSP status reg was written to %+v", s.Status)
}

// tryHLEEmulation checks DMEM offset 0xfcc for a ucode boot-size field and,
// if the first 44 IMEM bytes checksum to the known CIC x105 boot ucode
// signature, schedules that HLE task to run on the RSP's next step instead
// of interpreting microcode.
func (s *SP) tryHLEEmulation() {
	s.HLEPending = HLENone

	taskUcodeBootSize := s.ReadDMEM(0xfcc)
	if taskUcodeBootSize <= 1000 {
		return
	}
	var sum uint32
	for i := 0; i < 44; i++ {
		sum += uint32(s.IMEM[i])
	}
	if sum == 0x09e2 {
		s.HLEPending = HLECicX105Ucode
	}
}

func (s *SP) ReadDMABusyReg() uint32 {
	warn("reading SP_DMA_BUSY_REG pc=%#08x", s.PC)
	return 0
}

func (s *SP) WriteDMABusyReg(value uint32) {
	panic(Fault{Op: "sp_dma_busy", Detail: fmt32("attempted write to SP_DMA_BUSY: %#x", value)})
}

func (s *SP) WriteSemaphoreReg(value uint32) { warn("writing to SP_SEMAPHORE_REG %#08x", value) }

func (s *SP) ReadPCReg() uint32 {
	warn("reading SP_PC_REG %#08x", s.PC)
	return s.PC
}

func (s *SP) WritePCReg(value uint32) {
	s.PC = value
	warn("writing to SP_PC_REG %#08x", value)
}
