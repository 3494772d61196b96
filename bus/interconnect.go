package bus

import (
	"fmt"

	"github.com/n64lab/n64core/video"
)

const rdramSize = 8 * 1024 * 1024
const framesToNextFrame = 100000

// Register offsets within each device's MMIO window, the real N64's
// layout (the values spec.md §4.4/§6 call out directly — SI_STATUS_REG
// at 0x04800018, DPC status at 0x04100_00C, SP control split across
// 0x0404_00xx/0x0408_0000 — and the rest following the same convention).
const (
	miModeOff     = 0x00
	miVersionOff  = 0x04
	miIntrOff     = 0x08
	miIntrMaskOff = 0x0C

	viStatusOff  = 0x00
	viOriginOff  = 0x04
	viWidthOff   = 0x08
	viIntrOff    = 0x0C
	viCurrentOff = 0x10
	viTimingOff  = 0x14
	viVSyncOff   = 0x18
	viHSyncOff   = 0x1C
	viLeapOff    = 0x20
	viHStartOff  = 0x24
	viVStartOff  = 0x28
	viVBurstOff  = 0x2C
	viXScaleOff  = 0x30
	viYScaleOff  = 0x34

	aiDramAddrOff = 0x00
	aiLenOff      = 0x04
	aiControlOff  = 0x08
	aiStatusOff   = 0x0C
	aiDacrateOff  = 0x10
	aiBitrateOff  = 0x14

	piDramAddrOff  = 0x00
	piCartAddrOff  = 0x04
	piWrLenOff     = 0x0C
	piStatusOff    = 0x10
	piBsdLatOff    = 0x14
	piBsdPwdOff    = 0x18
	piBsdPgsOff    = 0x1C
	piBsdRlsOff    = 0x20

	riModeOff        = 0x00
	riConfigOff      = 0x04
	riCurrentLoadOff = 0x08
	riSelectOff      = 0x0C
	riRefreshOff     = 0x10

	siStatusOff = 0x18

	dpcStatusOff = 0x0C

	spMemAddrOff  = 0x00
	spDramAddrOff = 0x04
	spRdLenOff    = 0x08
	spStatusOff   = 0x10
	spDmaFullOff  = 0x14
	spDmaBusyOff  = 0x18
	spSemaphoreOff = 0x1C
	spPCOff        = SPIFPCWindowOffset
)

// SPIFPCWindowOffset is SP_PC_REG's offset from SPRegStart: the register
// lives in the separate 0x0408_0000 window spec.md §4.4 calls out.
const SPIFPCWindowOffset = 0x04080000 - SPRegStart

// Interconnect owns RDRAM, cart ROM, the PIF, and every device register
// bank, and dispatches address-decoded reads/writes to them. Grounded on
// spec.md §3/§4.5 and original_source/src/n64/mod.rs's Interconnect.
type Interconnect struct {
	RDRAM   [rdramSize]byte
	CartROM []byte
	PIF     *PIF

	MI  MI
	VI  VI
	AI  AI
	PI  PI
	RI  RI
	SI  SI
	DPC DPC
	SP  *SP

	stepsToNextFrame int
}

// New builds the interconnect, including the PIF boot handshake (CIC seed
// selection). It fails only if the cart's CRC doesn't match a known CIC.
func New(bootROM, cart []byte) (*Interconnect, error) {
	pif, err := NewPIF(bootROM, cart)
	if err != nil {
		return nil, err
	}
	return &Interconnect{
		CartROM:          cart,
		PIF:              pif,
		SP:               NewSP(),
		stepsToNextFrame: framesToNextFrame,
	}, nil
}

func (ic *Interconnect) ReadWord(addr uint32) uint32 {
	region, off := MapAddr(addr)
	switch region {
	case RegionRDRAM:
		return beUint32(ic.RDRAM[off:])
	case RegionRDRAMRegs:
		return ic.RI.ReadRdramModeReg()
	case RegionSPDMEM:
		return ic.SP.ReadDMEM(off)
	case RegionSPIMEM:
		return ic.SP.ReadIMEM(off)
	case RegionSPRegs:
		return ic.readSPReg(off)
	case RegionDPCRegs:
		if off == dpcStatusOff {
			return ic.DPC.ReadStatusReg()
		}
		warn("stub read DPC register at offset %#x", off)
		return 0
	case RegionMIRegs:
		return ic.readMIReg(off)
	case RegionVIRegs:
		return ic.readVIReg(off)
	case RegionAIRegs:
		return ic.readAIReg(off)
	case RegionPIRegs:
		return ic.readPIReg(off)
	case RegionRIRegs:
		return ic.readRIReg(off)
	case RegionSIRegs:
		if off == siStatusOff {
			return ic.SI.ReadStatusReg()
		}
		warn("stub read SI register at offset %#x", off)
		return 0
	case RegionCartDom1:
		return ic.readCartWord(off)
	case RegionCartDom2:
		warn("stub read cart SRAM at offset %#x", off)
		return 0
	case RegionPIFBoot:
		return ic.PIF.ReadBootROM(off)
	case RegionPIFRAM:
		return beUint32(ic.PIF.RAM[off:])
	default:
		panic(Fault{Op: "read_word", Detail: fmt.Sprintf("unhandled region for address %#08x", addr)})
	}
}

func (ic *Interconnect) WriteWord(addr uint32, value uint32) {
	region, off := MapAddr(addr)
	switch region {
	case RegionRDRAM:
		bePutUint32(ic.RDRAM[off:], value)
	case RegionRDRAMRegs:
		ic.RI.WriteRdramModeReg(value)
	case RegionSPDMEM:
		ic.SP.WriteDMEM(off, value)
	case RegionSPIMEM:
		ic.SP.WriteIMEM(off, value)
	case RegionSPRegs:
		ic.writeSPReg(off, value)
	case RegionDPCRegs:
		if off == dpcStatusOff {
			ic.DPC.WriteStatusReg(value)
			return
		}
		warn("stub write DPC register at offset %#x = %#08x", off, value)
	case RegionMIRegs:
		ic.writeMIReg(off, value)
	case RegionVIRegs:
		ic.writeVIReg(off, value)
	case RegionAIRegs:
		ic.writeAIReg(off, value)
	case RegionPIRegs:
		ic.writePIReg(off, value)
	case RegionRIRegs:
		ic.writeRIReg(off, value)
	case RegionSIRegs:
		if off == siStatusOff {
			ic.SI.WriteStatusReg(value)
			return
		}
		warn("stub write SI register at offset %#x = %#08x", off, value)
	case RegionCartDom1:
		panic(Fault{Op: "write_word", Detail: "write to cart ROM is read-only"})
	case RegionCartDom2:
		warn("stub write cart SRAM at offset %#x = %#08x", off, value)
	case RegionPIFBoot:
		panic(Fault{Op: "write_word", Detail: "write to PIF boot ROM is read-only"})
	case RegionPIFRAM:
		for i := uint32(0); i < 4; i++ {
			ic.PIF.WriteRAM(off+i, byte(value>>(24-8*i)))
		}
	default:
		panic(Fault{Op: "write_word", Detail: fmt.Sprintf("unhandled region for address %#08x", addr)})
	}
}

// ReadByte and WriteByte are restricted to RDRAM, SP DMEM/IMEM, and cart
// ROM: the only regions the DMA engines move bytes through.
func (ic *Interconnect) ReadByte(addr uint32) byte {
	region, off := MapAddr(addr)
	switch region {
	case RegionRDRAM:
		return ic.RDRAM[off]
	case RegionSPDMEM:
		return ic.SP.ReadDMEMByte(off)
	case RegionSPIMEM:
		return ic.SP.ReadIMEMByte(off)
	case RegionCartDom1:
		if int(off) >= len(ic.CartROM) {
			return 0
		}
		return ic.CartROM[off]
	default:
		panic(Fault{Op: "read_byte", Detail: fmt.Sprintf("byte access unsupported for address %#08x", addr)})
	}
}

func (ic *Interconnect) WriteByte(addr uint32, value byte) {
	region, off := MapAddr(addr)
	switch region {
	case RegionRDRAM:
		ic.RDRAM[off] = value
	case RegionSPDMEM:
		ic.SP.WriteDMEMByte(off, value)
	case RegionSPIMEM:
		ic.SP.WriteIMEMByte(off, value)
	case RegionCartDom1:
		panic(Fault{Op: "write_byte", Detail: "write to cart ROM is read-only"})
	default:
		panic(Fault{Op: "write_byte", Detail: fmt.Sprintf("byte access unsupported for address %#08x", addr)})
	}
}

// ReadWordDebug performs a side-effect-free read where one exists,
// returning (0, false) for registers whose only Read method carries a
// diagnostic or depends on transient device state.
func (ic *Interconnect) ReadWordDebug(addr uint32) (uint32, bool) {
	region, off := MapAddr(addr)
	switch region {
	case RegionRDRAM:
		return beUint32(ic.RDRAM[off:]), true
	case RegionSPDMEM:
		return ic.SP.ReadDMEM(off), true
	case RegionSPIMEM:
		return ic.SP.ReadIMEM(off), true
	case RegionCartDom1:
		return ic.readCartWord(off), true
	case RegionPIFBoot:
		return ic.PIF.ReadBootROM(off), true
	case RegionPIFRAM:
		return beUint32(ic.PIF.RAM[off:]), true
	default:
		return 0, false
	}
}

func (ic *Interconnect) readCartWord(off uint32) uint32 {
	if int(off)+4 > len(ic.CartROM) {
		return 0
	}
	return beUint32(ic.CartROM[off:])
}

func (ic *Interconnect) readSPReg(off uint32) uint32 {
	switch off {
	case spMemAddrOff:
		return ic.SP.MemAddr
	case spDramAddrOff:
		return ic.SP.DramAddr
	case spStatusOff:
		return ic.SP.ReadStatusReg()
	case spDmaFullOff:
		return 0
	case spDmaBusyOff:
		return ic.SP.ReadDMABusyReg()
	case spSemaphoreOff:
		return 0
	case spPCOff:
		return ic.SP.ReadPCReg()
	default:
		warn("stub read SP register at offset %#x", off)
		return 0
	}
}

func (ic *Interconnect) writeSPReg(off uint32, value uint32) {
	switch off {
	case spMemAddrOff:
		ic.SP.WriteMemAddrReg(value)
	case spDramAddrOff:
		ic.SP.WriteDramAddrReg(value)
	case spRdLenOff:
		ic.SP.WriteRdLenReg(value)
	case spStatusOff:
		ic.SP.WriteStatusReg(value)
	case spDmaBusyOff:
		ic.SP.WriteDMABusyReg(value)
	case spSemaphoreOff:
		ic.SP.WriteSemaphoreReg(value)
	case spPCOff:
		ic.SP.WritePCReg(value)
	default:
		warn("stub write SP register at offset %#x = %#08x", off, value)
	}
}

func (ic *Interconnect) readMIReg(off uint32) uint32 {
	switch off {
	case miModeOff:
		return ic.MI.ReadModeReg()
	case miVersionOff:
		return ic.MI.ReadVersionReg()
	case miIntrOff:
		return 0
	default:
		warn("stub read MI register at offset %#x", off)
		return 0
	}
}

func (ic *Interconnect) writeMIReg(off uint32, value uint32) {
	switch off {
	case miModeOff:
		ic.MI.WriteModeReg(value)
	case miIntrMaskOff:
		ic.MI.WriteIntrMaskReg(value)
	default:
		warn("stub write MI register at offset %#x = %#08x", off, value)
	}
}

func (ic *Interconnect) readVIReg(off uint32) uint32 {
	switch off {
	case viIntrOff:
		return ic.VI.ReadIntrReg()
	case viCurrentOff:
		return ic.VI.ReadCurrentReg()
	case viHStartOff:
		return ic.VI.ReadHStartReg()
	default:
		warn("stub read VI register at offset %#x", off)
		return 0
	}
}

func (ic *Interconnect) writeVIReg(off uint32, value uint32) {
	switch off {
	case viStatusOff:
		ic.VI.WriteStatusReg(value)
	case viOriginOff:
		ic.VI.WriteOriginReg(value)
	case viWidthOff:
		ic.VI.WriteWidthReg(value)
	case viIntrOff:
		ic.VI.WriteIntrReg(value)
	case viCurrentOff:
		ic.VI.WriteCurrentReg(value)
	case viTimingOff:
		ic.VI.WriteTimingReg(value)
	case viVSyncOff:
		ic.VI.WriteVSyncReg(value)
	case viHSyncOff:
		ic.VI.WriteHSyncReg(value)
	case viLeapOff:
		ic.VI.WriteHSyncLeapReg(value)
	case viHStartOff:
		ic.VI.WriteHStartReg(value)
	case viVStartOff:
		ic.VI.WriteVStartReg(value)
	case viVBurstOff:
		ic.VI.WriteVBurstReg(value)
	case viXScaleOff:
		ic.VI.WriteXScaleReg(value)
	case viYScaleOff:
		ic.VI.WriteYScaleReg(value)
	default:
		warn("stub write VI register at offset %#x = %#08x", off, value)
	}
}

func (ic *Interconnect) readAIReg(off uint32) uint32 {
	switch off {
	case aiDramAddrOff:
		return ic.AI.ReadDramAddrReg()
	case aiLenOff:
		return ic.AI.ReadLenReg()
	default:
		warn("stub read AI register at offset %#x", off)
		return 0
	}
}

func (ic *Interconnect) writeAIReg(off uint32, value uint32) {
	switch off {
	case aiDramAddrOff:
		ic.AI.WriteDramAddrReg(value)
	case aiLenOff:
		ic.AI.WriteLenReg(value)
	case aiControlOff:
		ic.AI.WriteControlReg(value)
	case aiStatusOff:
		ic.AI.WriteStatusReg(value)
	case aiDacrateOff:
		ic.AI.WriteDacrateReg(value)
	case aiBitrateOff:
		ic.AI.WriteBitrateReg(value)
	default:
		warn("stub write AI register at offset %#x = %#08x", off, value)
	}
}

func (ic *Interconnect) readPIReg(off uint32) uint32 {
	switch off {
	case piStatusOff:
		return ic.PI.ReadStatusReg()
	case piBsdLatOff:
		return ic.PI.ReadBsdDom1LatReg()
	case piBsdPwdOff:
		return ic.PI.ReadBsdDom1PwdReg()
	case piBsdPgsOff:
		return ic.PI.ReadBsdDom1PgsReg()
	case piBsdRlsOff:
		return ic.PI.ReadBsdDom1RlsReg()
	default:
		warn("stub read PI register at offset %#x", off)
		return 0
	}
}

func (ic *Interconnect) writePIReg(off uint32, value uint32) {
	switch off {
	case piDramAddrOff:
		ic.PI.WriteDramAddrReg(value)
	case piCartAddrOff:
		ic.PI.WriteCartAddrReg(value)
	case piWrLenOff:
		ic.PI.WriteWrLenReg(value)
	case piStatusOff:
		ic.PI.WriteStatusReg(value)
	case piBsdLatOff:
		ic.PI.WriteBsdDom1LatReg(value)
	case piBsdPwdOff:
		ic.PI.WriteBsdDom1PwdReg(value)
	case piBsdPgsOff:
		ic.PI.WriteBsdDom1PgsReg(value)
	case piBsdRlsOff:
		ic.PI.WriteBsdDom1RlsReg(value)
	default:
		warn("stub write PI register at offset %#x = %#08x", off, value)
	}
}

func (ic *Interconnect) readRIReg(off uint32) uint32 {
	switch off {
	case riSelectOff:
		return ic.RI.ReadSelectReg()
	case riRefreshOff:
		return ic.RI.ReadRefreshReg()
	default:
		warn("stub read RI register at offset %#x", off)
		return 0
	}
}

func (ic *Interconnect) writeRIReg(off uint32, value uint32) {
	switch off {
	case riModeOff:
		ic.RI.WriteModeReg(value)
	case riConfigOff:
		ic.RI.WriteConfigReg(value)
	case riCurrentLoadOff:
		ic.RI.WriteCurrentLoadReg(value)
	case riSelectOff:
		ic.RI.WriteSelectReg(value)
	case riRefreshOff:
		ic.RI.WriteRefreshReg(value)
	default:
		warn("stub write RI register at offset %#x = %#08x", off, value)
	}
}

// Step drains one DMA chunk from each engine and, on a 100000-step
// countdown wrap, scans out a video frame if one is configured.
func (ic *Interconnect) Step(sink video.Sink) {
	if from, to, n, pending := ic.PI.DMAWriteChunk(); pending {
		for i := uint32(0); i < n; i++ {
			ic.WriteByte(to+i, ic.ReadByte(from+i))
		}
	}

	if from, to, n, pending := ic.SP.DMAReadChunk(); pending {
		for i := uint32(0); i < n; i++ {
			ic.WriteByte(to+i, ic.ReadByte(from+i))
		}
	}

	ic.stepsToNextFrame--
	if ic.stepsToNextFrame > 0 {
		return
	}
	ic.stepsToNextFrame = framesToNextFrame

	fb, ok := ic.VI.Description()
	if !ok {
		return
	}
	sink.Append(ic.scanOutFrame(fb))
}

func (ic *Interconnect) scanOutFrame(fb Framebuffer) video.Frame {
	pixels := make([]uint32, fb.Width*fb.Height)
	switch fb.Format {
	case FBRGBA32:
		for i := range pixels {
			pixels[i] = ic.ReadWord(fb.Origin+uint32(i)*4) >> 8
		}
	case FBRGBA16:
		expand := func(px uint16) uint32 {
			r := uint32(px>>10) & 0x1f
			g := uint32(px>>5) & 0x1f
			b := uint32(px>>0) & 0x1f
			return r<<3<<16 | g<<3<<8 | b<<3
		}
		for i := 0; i < len(pixels); i += 2 {
			word := ic.ReadWord(fb.Origin + uint32(i/2)*4)
			pixels[i] = expand(uint16(word >> 16))
			if i+1 < len(pixels) {
				pixels[i+1] = expand(uint16(word))
			}
		}
	}
	return video.Frame{ARGBData: pixels, Width: fb.Width, Height: fb.Height}
}
