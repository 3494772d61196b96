package rsp

import "github.com/n64lab/n64core/bus"

// RSP is the scalar auxiliary core: 32 32-bit GPRs and a delay-slot latch.
// Its PC, status, DMEM/IMEM, and pending-HLE flag live in the register
// bank the interconnect owns (bus.SP), reached directly here exactly as
// the original gives the scalar core a mutable borrow of the
// interconnect each step.
type RSP struct {
	GPR [32]uint32

	// DelaySlotPC, when non-nil, holds the pending delay-slot instruction's
	// PC; the RSP's PC register already holds the jump target.
	DelaySlotPC *uint32
}

func New() *RSP { return &RSP{} }

func (r *RSP) getReg(i uint32) uint32 {
	if i == 0 {
		return 0
	}
	return r.GPR[i]
}

func (r *RSP) setReg(i uint32, v uint32) {
	if i != 0 {
		r.GPR[i] = v
	}
}

// Step runs one RSP cycle: do nothing while halted or broke, perform a
// pending HLE task in place of interpretation, or fetch/execute one
// instruction.
func (r *RSP) Step(ic *bus.Interconnect) {
	sp := ic.SP
	if sp.Status.Halt || sp.Status.Broke {
		return
	}

	if sp.HLEPending != bus.HLENone {
		op := sp.HLEPending
		sp.HLEPending = bus.HLENone
		r.runHLE(ic, op)
		return
	}

	if r.DelaySlotPC != nil {
		pc := *r.DelaySlotPC
		r.DelaySlotPC = nil
		instr := r.fetch(ic, pc)
		r.execute(ic, instr)
		return
	}

	pc := sp.PC
	instr := r.fetch(ic, pc)
	sp.PC = (pc + 4) & 0x0fff
	r.execute(ic, instr)
}

func (r *RSP) fetch(ic *bus.Interconnect, pc uint32) Instruction {
	return Instruction(ic.ReadWord(bus.SPIMEMStart + pc))
}

// runHLE performs the hard-coded CIC x105 boot ucode copy pattern the
// original's Rsp::step special-cases: a straight copy from RDRAM into
// DMEM, then a scattered copy back out to RDRAM, before halting and
// marking broke.
func (r *RSP) runHLE(ic *bus.Interconnect, op bus.HLEOp) {
	switch op {
	case bus.HLECicX105Ucode:
		for i := uint32(0); i < 0x7C; i++ {
			val := ic.ReadWord(0x01e8 + i*4)
			ic.WriteWord(bus.SPDMEMStart+0x0120+i*4, val)
		}

		dstAddr := uint32(0x002fb1f0)
		srcDmemAddr := uint32(0x0120)
		for i := 0; i < 24; i++ {
			val1 := ic.ReadWord(bus.SPDMEMStart + srcDmemAddr)
			val2 := ic.ReadWord(bus.SPDMEMStart + srcDmemAddr + 4)
			ic.WriteWord(dstAddr, val1)
			ic.WriteWord(dstAddr+4, val2)
			dstAddr += 0xff0
			srcDmemAddr += 0x8
		}

		ic.SP.Status.Broke = true
		ic.SP.Status.Halt = true
	}
}

func (r *RSP) execute(ic *bus.Interconnect, instr Instruction) {
	switch instr.Opcode() {
	case opSpecial:
		r.execSpecial(ic, instr)
	case opJ:
		delaySlotPC := ic.SP.PC
		jumpTo := (instr.Target() << 2) & 0x0fff
		ic.SP.PC = jumpTo
		r.DelaySlotPC = &delaySlotPC
	case opAddi, opAddiu:
		r.setReg(instr.Rt(), r.getReg(instr.Rs())+instr.ImmSignExtended())
	case opAndi:
		r.setReg(instr.Rt(), r.getReg(instr.Rs())&instr.Imm())
	case opOri:
		r.setReg(instr.Rt(), r.getReg(instr.Rs())|instr.Imm())
	case opXori:
		r.setReg(instr.Rt(), r.getReg(instr.Rs())^instr.Imm())
	case opLui:
		r.setReg(instr.Rt(), instr.Imm()<<16)
	case opLw:
		addr := (r.getReg(instr.Rs()) + instr.OffsetSignExtended()) & 0x0fff
		r.setReg(instr.Rt(), ic.ReadWord(bus.SPDMEMStart+addr))
	case opSh:
		addr := (r.getReg(instr.Rs()) + instr.OffsetSignExtended()) & 0x0fff
		v := uint16(r.getReg(instr.Rt()))
		ic.WriteByte(bus.SPDMEMStart+addr, byte(v>>8))
		ic.WriteByte(bus.SPDMEMStart+addr+1, byte(v))
	case opSw:
		addr := (r.getReg(instr.Rs()) + instr.OffsetSignExtended()) & 0x0fff
		ic.WriteWord(bus.SPDMEMStart+addr, r.getReg(instr.Rt()))
	default:
		panic(bus.Fault{Op: "rsp_decode", Detail: "unrecognized RSP opcode"})
	}
}

func (r *RSP) execSpecial(ic *bus.Interconnect, instr Instruction) {
	rs, rt, sa := r.getReg(instr.Rs()), r.getReg(instr.Rt()), instr.Sa()
	switch instr.Funct() {
	case spSll:
		r.setReg(instr.Rd(), rt<<sa)
	case spSrl:
		r.setReg(instr.Rd(), rt>>sa)
	case spSra:
		r.setReg(instr.Rd(), uint32(int32(rt)>>sa))
	case spSllv:
		r.setReg(instr.Rd(), rt<<(rs&0x1f))
	case spSrlv:
		r.setReg(instr.Rd(), rt>>(rs&0x1f))
	case spSrav:
		r.setReg(instr.Rd(), uint32(int32(rt)>>(rs&0x1f)))
	case spBreak:
		ic.SP.Status.Broke = true
		ic.SP.PC = 0
	case spAdd, spAddu:
		r.setReg(instr.Rd(), rs+rt)
	case spSub, spSubu:
		r.setReg(instr.Rd(), rs-rt)
	case spAnd:
		r.setReg(instr.Rd(), rs&rt)
	case spOr:
		r.setReg(instr.Rd(), rs|rt)
	case spXor:
		r.setReg(instr.Rd(), rs^rt)
	case spNor:
		r.setReg(instr.Rd(), ^(rs | rt))
	default:
		panic(bus.Fault{Op: "rsp_decode", Detail: "unrecognized RSP SPECIAL funct"})
	}
}
