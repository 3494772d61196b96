package cpu

import (
	"fmt"

	"github.com/n64lab/n64core/bus"
)

// Bus is the subset of the interconnect the CPU needs to reach memory and
// device registers. A plain interface rather than a concrete pointer,
// mirroring the teacher's Bus32 capability interface, though the only
// implementation is *bus.Interconnect.
type Bus interface {
	ReadWord(addr uint32) uint32
	WriteWord(addr uint32, v uint32)
	ReadByte(addr uint32) byte
	WriteByte(addr uint32, v byte)
}

// CPU is the VR4300 interpreter: 32 GPRs, HI/LO, PC, a delay-slot latch,
// and the CP0/CP1 coprocessors. Grounded on
// original_source/src/n64/cpu/cpu.rs for the step/branch/load-store shape
// and on the teacher's cpu_ie64.go for the switch-dispatch Execute loop
// texture.
type CPU struct {
	GPR [32]uint64
	HI  uint64
	LO  uint64
	PC  uint64
	LL  bool

	// DelaySlot, when non-nil, holds the virtual address of the
	// instruction that must execute next; PC already holds the branch
	// target. Represented as an optional field rather than a pending-
	// instruction queue, per spec.md §9.
	DelaySlot *uint64

	CP0 CP0
	FPU FPU
}

// New returns a CPU with PC at the kseg1 mirror of the boot ROM, matching
// real hardware reset state.
func New() *CPU {
	return &CPU{PC: 0xFFFFFFFFBFC00000}
}

func (c *CPU) getReg(i uint32) uint64 {
	if i == 0 {
		return 0
	}
	return c.GPR[i]
}

func (c *CPU) setReg(i uint32, v uint64) {
	if i != 0 {
		c.GPR[i] = v
	}
}

func signExt32(v uint32) uint64 { return uint64(int64(int32(v))) }

// Step executes exactly one guest instruction: the pending delay-slot
// instruction if one is latched, otherwise the instruction at PC
// (advancing PC by 4 first).
func (c *CPU) Step(b Bus) {
	var pc uint64
	if c.DelaySlot != nil {
		pc = *c.DelaySlot
		c.DelaySlot = nil
	} else {
		pc = c.PC
		c.PC = pc + 4
	}
	phys := bus.TranslateAddr(pc)
	instr := Instruction(b.ReadWord(phys))
	c.execute(b, instr, pc)
}

func (c *CPU) execute(b Bus, instr Instruction, pc uint64) {
	switch instr.Opcode() {
	case opSpecial:
		c.execSpecial(instr, pc)
	case opRegimm:
		c.execRegimm(instr, pc)
	case opJ:
		target := (pc & 0xFFFFFFFFF0000000) | uint64(instr.Target())<<2
		c.jump(pc, target, false)
	case opJal:
		target := (pc & 0xFFFFFFFFF0000000) | uint64(instr.Target())<<2
		c.jump(pc, target, true)
	case opBeq:
		c.branch(pc, instr, c.getReg(instr.Rs()) == c.getReg(instr.Rt()), false, false)
	case opBne:
		c.branch(pc, instr, c.getReg(instr.Rs()) != c.getReg(instr.Rt()), false, false)
	case opBlez:
		c.branch(pc, instr, int64(c.getReg(instr.Rs())) <= 0, false, false)
	case opBgtz:
		c.branch(pc, instr, int64(c.getReg(instr.Rs())) > 0, false, false)
	case opBeql:
		c.branch(pc, instr, c.getReg(instr.Rs()) == c.getReg(instr.Rt()), false, true)
	case opBnel:
		c.branch(pc, instr, c.getReg(instr.Rs()) != c.getReg(instr.Rt()), false, true)
	case opBlezl:
		c.branch(pc, instr, int64(c.getReg(instr.Rs())) <= 0, false, true)
	case opAddi:
		c.setReg(instr.Rt(), signExt32(uint32(c.getReg(instr.Rs()))+uint32(instr.ImmSignExtended())))
	case opAddiu:
		c.setReg(instr.Rt(), signExt32(uint32(c.getReg(instr.Rs()))+uint32(instr.ImmSignExtended())))
	case opSlti:
		c.setReg(instr.Rt(), boolToU64(int64(c.getReg(instr.Rs())) < int64(instr.ImmSignExtended())))
	case opSltiu:
		c.setReg(instr.Rt(), boolToU64(c.getReg(instr.Rs()) < instr.ImmSignExtended()))
	case opAndi:
		c.setReg(instr.Rt(), c.getReg(instr.Rs())&uint64(instr.Imm()))
	case opOri:
		c.setReg(instr.Rt(), c.getReg(instr.Rs())|uint64(instr.Imm()))
	case opXori:
		c.setReg(instr.Rt(), c.getReg(instr.Rs())^uint64(instr.Imm()))
	case opLui:
		c.setReg(instr.Rt(), signExt32(uint32(instr.Imm())<<16))
	case opCop0:
		c.execCop0(b, instr)
	case opCop1:
		if instr.Fmt() == fmtBc {
			taken := instr.Ft()&1 != 0 // BC1T when bit 0 of ft is set, BC1F otherwise
			if !c.FPU.BranchCond() {
				taken = !taken
			}
			likely := instr.Ft()&2 != 0
			c.branch(pc, instr, taken, false, likely)
			return
		}
		c.execCop1(instr)
	case opDaddi:
		c.setReg(instr.Rt(), c.getReg(instr.Rs())+instr.ImmSignExtended())
	case opDaddiu:
		c.setReg(instr.Rt(), c.getReg(instr.Rs())+instr.ImmSignExtended())
	case opLb:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		v := b.ReadByte(bus.TranslateAddr(addr))
		c.setReg(instr.Rt(), uint64(int64(int8(v))))
	case opLh:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		phys := bus.TranslateAddr(addr)
		hi := uint16(b.ReadByte(phys))<<8 | uint16(b.ReadByte(phys+1))
		c.setReg(instr.Rt(), uint64(int64(int16(hi))))
	case opLwl:
		c.execLWL(b, c.getReg(instr.Rs())+instr.OffsetSignExtended(), instr.Rt())
	case opLw:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		v := b.ReadWord(bus.TranslateAddr(addr))
		c.setReg(instr.Rt(), signExt32(v))
	case opLbu:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		v := b.ReadByte(bus.TranslateAddr(addr))
		c.setReg(instr.Rt(), uint64(v))
	case opLhu:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		phys := bus.TranslateAddr(addr)
		hi := uint16(b.ReadByte(phys))<<8 | uint16(b.ReadByte(phys+1))
		c.setReg(instr.Rt(), uint64(hi))
	case opLwr:
		c.execLWR(b, c.getReg(instr.Rs())+instr.OffsetSignExtended(), instr.Rt())
	case opLwu:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		v := b.ReadWord(bus.TranslateAddr(addr))
		c.setReg(instr.Rt(), uint64(v))
	case opSb:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		b.WriteByte(bus.TranslateAddr(addr), byte(c.getReg(instr.Rt())))
	case opSh:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		phys := bus.TranslateAddr(addr)
		v := uint16(c.getReg(instr.Rt()))
		b.WriteByte(phys, byte(v>>8))
		b.WriteByte(phys+1, byte(v))
	case opSwl:
		c.execSWL(b, c.getReg(instr.Rs())+instr.OffsetSignExtended(), instr.Rt())
	case opSw:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		b.WriteWord(bus.TranslateAddr(addr), uint32(c.getReg(instr.Rt())))
	case opSwr:
		c.execSWR(b, c.getReg(instr.Rs())+instr.OffsetSignExtended(), instr.Rt())
	case opCache:
		// No instruction/data cache is modeled; CACHE is a no-op.
	case opLwc1:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		v := b.ReadWord(bus.TranslateAddr(addr))
		c.FPU.SetW(instr.Rt(), int32(v))
	case opLdc1:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		phys := bus.TranslateAddr(addr)
		hi := uint64(b.ReadWord(phys)) << 32
		lo := uint64(b.ReadWord(phys + 4))
		c.FPU.FPR[instr.Rt()] = hi | lo
	case opLd:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		phys := bus.TranslateAddr(addr)
		hi := uint64(b.ReadWord(phys)) << 32
		lo := uint64(b.ReadWord(phys + 4))
		c.setReg(instr.Rt(), hi|lo)
	case opSwc1:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		b.WriteWord(bus.TranslateAddr(addr), uint32(c.FPU.FPR[instr.Rt()]))
	case opSdc1:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		phys := bus.TranslateAddr(addr)
		v := c.FPU.FPR[instr.Rt()]
		b.WriteWord(phys, uint32(v>>32))
		b.WriteWord(phys+4, uint32(v))
	case opSd:
		addr := c.getReg(instr.Rs()) + instr.OffsetSignExtended()
		phys := bus.TranslateAddr(addr)
		v := c.getReg(instr.Rt())
		b.WriteWord(phys, uint32(v>>32))
		b.WriteWord(phys+4, uint32(v))
	default:
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized primary opcode %d at pc %#016x", instr.Opcode(), pc)})
	}
}

func boolToU64(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// jump implements J/JAL/JR/JALR's common shape: latch the delay slot,
// set PC to target, and optionally write the link register.
func (c *CPU) jump(pc, target uint64, link bool) {
	delay := pc + 4
	c.DelaySlot = &delay
	c.PC = target
	if link {
		c.setReg(31, pc+8)
	}
}

// branch implements the normal and branch-likely control-flow shape
// described in spec.md §4.2.
func (c *CPU) branch(pc uint64, instr Instruction, taken, link, likely bool) {
	if link {
		c.setReg(31, pc+8)
	}
	if taken {
		delay := pc + 4
		c.DelaySlot = &delay
		c.PC = pc + 4 + instr.OffsetSignExtended()<<2
		return
	}
	if likely {
		c.PC = pc + 8
	}
}

func (c *CPU) execRegimm(instr Instruction, pc uint64) {
	rs := int64(c.getReg(instr.Rs()))
	switch instr.Rt() {
	case riBltz:
		c.branch(pc, instr, rs < 0, false, false)
	case riBgez:
		c.branch(pc, instr, rs >= 0, false, false)
	case riBgezl:
		c.branch(pc, instr, rs >= 0, false, true)
	case riBgezal:
		c.branch(pc, instr, rs >= 0, true, false)
	default:
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized REGIMM selector %d at pc %#016x", instr.Rt(), pc)})
	}
}

func (c *CPU) execSpecial(instr Instruction, pc uint64) {
	rs, rt := c.getReg(instr.Rs()), c.getReg(instr.Rt())
	sa := instr.Sa()
	switch instr.Funct() {
	case spSll:
		c.setReg(instr.Rd(), signExt32(uint32(rt)<<sa))
	case spSrl:
		c.setReg(instr.Rd(), signExt32(uint32(rt)>>sa))
	case spSra:
		c.setReg(instr.Rd(), signExt32(uint32(int32(uint32(rt))>>sa)))
	case spSllv:
		c.setReg(instr.Rd(), signExt32(uint32(rt)<<(uint32(rs)&0x1f)))
	case spSrlv:
		c.setReg(instr.Rd(), signExt32(uint32(rt)>>(uint32(rs)&0x1f)))
	case spSrav:
		c.setReg(instr.Rd(), signExt32(uint32(int32(uint32(rt))>>(uint32(rs)&0x1f))))
	case spJr:
		c.jump(pc, rs, false)
	case spJalr:
		delay := pc + 4
		c.DelaySlot = &delay
		target := rs
		c.setReg(instr.Rd(), pc+8)
		c.PC = target
	case spSync:
		// no-op: no cache/pipeline modeled
	case spMfhi:
		c.setReg(instr.Rd(), c.HI)
	case spMthi:
		c.HI = rs
	case spMflo:
		c.setReg(instr.Rd(), c.LO)
	case spMtlo:
		c.LO = rs
	case spDsllv:
		c.setReg(instr.Rd(), rt<<(rs&0x3f))
	case spDsrlv:
		c.setReg(instr.Rd(), rt>>(rs&0x3f))
	case spDsrav:
		c.setReg(instr.Rd(), uint64(int64(rt)>>(rs&0x3f)))
	case spMult:
		p := int64(int32(uint32(rs))) * int64(int32(uint32(rt)))
		c.LO = signExt32(uint32(p))
		c.HI = signExt32(uint32(p >> 32))
	case spMultu:
		p := uint64(uint32(rs)) * uint64(uint32(rt))
		c.LO = signExt32(uint32(p))
		c.HI = signExt32(uint32(p >> 32))
	case spDiv:
		n, d := int32(uint32(rs)), int32(uint32(rt))
		if d != 0 {
			c.LO = signExt32(uint32(n / d))
			c.HI = signExt32(uint32(n % d))
		}
	case spDivu:
		n, d := uint32(rs), uint32(rt)
		if d != 0 {
			c.LO = signExt32(n / d)
			c.HI = signExt32(n % d)
		}
	case spDmult:
		hi, lo := bits64MulSigned(int64(rs), int64(rt))
		c.HI, c.LO = hi, lo
	case spDmultu:
		hi, lo := bits64MulUnsigned(rs, rt)
		c.HI, c.LO = hi, lo
	case spDdiv:
		n, d := int64(rs), int64(rt)
		if d != 0 {
			c.LO = uint64(n / d)
			c.HI = uint64(n % d)
		}
	case spDdivu:
		if rt != 0 {
			c.LO = rs / rt
			c.HI = rs % rt
		}
	case spAdd, spAddu:
		c.setReg(instr.Rd(), signExt32(uint32(rs)+uint32(rt)))
	case spSub, spSubu:
		c.setReg(instr.Rd(), signExt32(uint32(rs)-uint32(rt)))
	case spAnd:
		c.setReg(instr.Rd(), rs&rt)
	case spOr:
		c.setReg(instr.Rd(), rs|rt)
	case spXor:
		c.setReg(instr.Rd(), rs^rt)
	case spNor:
		c.setReg(instr.Rd(), ^(rs | rt))
	case spSlt:
		c.setReg(instr.Rd(), boolToU64(int64(rs) < int64(rt)))
	case spSltu:
		c.setReg(instr.Rd(), boolToU64(rs < rt))
	case spDadd, spDaddu:
		c.setReg(instr.Rd(), rs+rt)
	case spDsub, spDsubu:
		c.setReg(instr.Rd(), rs-rt)
	case spDsll:
		c.setReg(instr.Rd(), rt<<sa)
	case spDsrl:
		c.setReg(instr.Rd(), rt>>sa)
	case spDsra:
		c.setReg(instr.Rd(), uint64(int64(rt)>>sa))
	case spDsll32:
		c.setReg(instr.Rd(), rt<<(sa+32))
	case spDsrl32:
		c.setReg(instr.Rd(), rt>>(sa+32))
	case spDsra32:
		c.setReg(instr.Rd(), uint64(int64(rt)>>(sa+32)))
	default:
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized SPECIAL funct %d at pc %#016x", instr.Funct(), pc)})
	}
}

func bits64MulSigned(a, b int64) (hi, lo uint64) {
	negative := (a < 0) != (b < 0)
	ua, ub := uint64(a), uint64(b)
	if a < 0 {
		ua = uint64(-a)
	}
	if b < 0 {
		ub = uint64(-b)
	}
	h, l := bits64MulUnsigned(ua, ub)
	if negative {
		l = ^l + 1
		h = ^h
		if l == 0 {
			h++
		}
	}
	return h, l
}

func bits64MulUnsigned(a, b uint64) (hi, lo uint64) {
	aLo, aHi := a&0xffffffff, a>>32
	bLo, bHi := b&0xffffffff, b>>32

	t1 := aLo * bLo
	t2 := aHi*bLo + t1>>32
	t3 := aLo*bHi + t2&0xffffffff
	hi = aHi*bHi + t2>>32 + t3>>32
	lo = t3<<32 | t1&0xffffffff
	return hi, lo
}

// execLWL/execLWR implement the aligned-word load + byte-merge table from
// spec.md §4.2, keyed on the low two bits of the physical address.
func (c *CPU) execLWL(b Bus, vaddr uint64, rt uint32) {
	phys := bus.TranslateAddr(vaddr)
	wordAddr := phys &^ 3
	shift := phys & 3
	mem := b.ReadWord(wordAddr)
	reg := uint32(c.getReg(rt))
	var result uint32
	switch shift {
	case 0:
		result = mem
	case 1:
		result = (mem << 8) | (reg & 0xFF)
	case 2:
		result = (mem << 16) | (reg & 0xFFFF)
	case 3:
		result = (mem << 24) | (reg & 0xFFFFFF)
	}
	c.setReg(rt, signExt32(result))
}

func (c *CPU) execLWR(b Bus, vaddr uint64, rt uint32) {
	phys := bus.TranslateAddr(vaddr)
	wordAddr := phys &^ 3
	shift := phys & 3
	mem := b.ReadWord(wordAddr)
	reg := c.getReg(rt)
	var low32 uint32
	switch shift {
	case 0:
		low32 = (mem >> 24) | (uint32(reg) &^ 0xFF)
	case 1:
		low32 = (mem >> 16) | (uint32(reg) &^ 0xFFFF)
	case 2:
		low32 = (mem >> 8) | (uint32(reg) &^ 0xFFFFFF)
	case 3:
		low32 = mem
	}
	c.setReg(rt, (reg&^0xFFFFFFFF)|uint64(low32))
}

func (c *CPU) execSWL(b Bus, vaddr uint64, rt uint32) {
	phys := bus.TranslateAddr(vaddr)
	wordAddr := phys &^ 3
	shift := phys & 3
	mem := b.ReadWord(wordAddr)
	reg := uint32(c.getReg(rt))
	var result uint32
	switch shift {
	case 0:
		result = reg
	case 1:
		result = (mem & 0xFF000000) | (reg >> 8)
	case 2:
		result = (mem & 0xFFFF0000) | (reg >> 16)
	case 3:
		result = (mem & 0xFFFFFF00) | (reg >> 24)
	}
	b.WriteWord(wordAddr, result)
}

func (c *CPU) execSWR(b Bus, vaddr uint64, rt uint32) {
	phys := bus.TranslateAddr(vaddr)
	wordAddr := phys &^ 3
	shift := phys & 3
	mem := b.ReadWord(wordAddr)
	reg := uint32(c.getReg(rt))
	var result uint32
	switch shift {
	case 0:
		result = (mem & 0x00FFFFFF) | (reg << 24)
	case 1:
		result = (mem & 0x0000FFFF) | (reg << 16)
	case 2:
		result = (mem & 0x000000FF) | (reg << 8)
	case 3:
		result = reg
	}
	b.WriteWord(wordAddr, result)
}

func (c *CPU) execCop0(b Bus, instr Instruction) {
	switch instr.Rs() {
	case cop0Mfc0:
		c.setReg(instr.Rt(), signExt32(uint32(c.CP0.ReadReg(instr.Rd()))))
	case cop0Mtc0:
		c.CP0.WriteReg(instr.Rd(), c.getReg(instr.Rt()))
	case cop0Co:
		switch instr.Funct() {
		case cop0coTlbwi:
			c.CP0.StoreTLBEntry()
		case cop0coEret:
			c.PC = c.CP0.EPC
		default:
			panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized COP0 CO-function %#x", instr.Funct())})
		}
	default:
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized COP0 selector %d", instr.Rs())})
	}
}
