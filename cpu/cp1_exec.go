package cpu

import (
	"fmt"
	"math"
)

// execCop1 dispatches COP1 instructions: MFC1/MTC1/CFC1/CTC1 register
// moves, arithmetic, conversions, and the sixteen C.cond.fmt compare
// predicates. BC1 branch-on-condition is handled in execute, not here. Grounded on spec.md §4.2's CP1
// description; original_source's CP1 implementation is only a stub, so
// the per-opcode shape follows standard MIPS III FPU semantics (see
// DESIGN.md).
func (c *CPU) execCop1(instr Instruction) {
	switch instr.Fmt() {
	case 0: // MFC1
		c.setReg(instr.Rt(), signExt32(uint32(c.FPU.FPR[instr.Fs()])))
		return
	case 4: // MTC1
		v := uint32(c.getReg(instr.Rt()))
		c.FPU.FPR[instr.Fs()] = (c.FPU.FPR[instr.Fs()] &^ 0xFFFFFFFF) | uint64(v)
		return
	case 2: // CFC1
		var v uint32
		if instr.Fs() == 31 {
			v = c.FPU.FCR31
		} else {
			v = c.FPU.FCR0
		}
		c.setReg(instr.Rt(), signExt32(v))
		return
	case 6: // CTC1
		v := uint32(c.getReg(instr.Rt()))
		if instr.Fs() == 31 {
			c.FPU.FCR31 = v
		} else {
			c.FPU.FCR0 = v
		}
		return
	}

	switch instr.Fmt() {
	case fmtS:
		c.execCop1S(instr)
	case fmtD:
		c.execCop1D(instr)
	case fmtW:
		c.execCop1Cvt(instr, false)
	case fmtL:
		c.execCop1Cvt(instr, true)
	default:
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized COP1 fmt %d", instr.Fmt())})
	}
}

func (c *CPU) execCop1S(instr Instruction) {
	fs, ft := c.FPU.GetS(instr.Fs()), c.FPU.GetS(instr.Ft())
	switch instr.Funct() {
	case cop1Add:
		c.FPU.SetS(instr.Fd(), fs+ft)
	case cop1Sub:
		c.FPU.SetS(instr.Fd(), fs-ft)
	case cop1Mul:
		c.FPU.SetS(instr.Fd(), fs*ft)
	case cop1Div:
		c.FPU.SetS(instr.Fd(), fs/ft)
	case cop1Sqrt:
		c.FPU.SetS(instr.Fd(), float32(math.Sqrt(float64(fs))))
	case cop1Abs:
		c.FPU.SetS(instr.Fd(), float32(math.Abs(float64(fs))))
	case cop1Mov:
		c.FPU.SetS(instr.Fd(), fs)
	case cop1Neg:
		c.FPU.SetS(instr.Fd(), -fs)
	case cop1CvtD:
		c.FPU.SetD(instr.Fd(), float64(fs))
	case cop1CvtW:
		c.FPU.SetW(instr.Fd(), int32(fs))
	case cop1CvtL:
		c.FPU.SetL(instr.Fd(), int64(fs))
	case cop1RoundW, cop1TruncW, cop1CeilW, cop1FloorW:
		c.FPU.SetW(instr.Fd(), int32(roundMode(instr.Funct(), float64(fs))))
	case cop1RoundL, cop1TruncL, cop1CeilL, cop1FloorL:
		c.FPU.SetL(instr.Fd(), int64(roundMode(instr.Funct(), float64(fs))))
	default:
		if instr.Funct() >= cop1Cf {
			c.FPU.SetCondFlag(comparePredicate(instr.Funct(), float64(fs), float64(ft)))
			return
		}
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized COP1.S funct %d", instr.Funct())})
	}
}

func (c *CPU) execCop1D(instr Instruction) {
	fs, ft := c.FPU.GetD(instr.Fs()), c.FPU.GetD(instr.Ft())
	switch instr.Funct() {
	case cop1Add:
		c.FPU.SetD(instr.Fd(), fs+ft)
	case cop1Sub:
		c.FPU.SetD(instr.Fd(), fs-ft)
	case cop1Mul:
		c.FPU.SetD(instr.Fd(), fs*ft)
	case cop1Div:
		c.FPU.SetD(instr.Fd(), fs/ft)
	case cop1Sqrt:
		c.FPU.SetD(instr.Fd(), math.Sqrt(fs))
	case cop1Abs:
		c.FPU.SetD(instr.Fd(), math.Abs(fs))
	case cop1Mov:
		c.FPU.SetD(instr.Fd(), fs)
	case cop1Neg:
		c.FPU.SetD(instr.Fd(), -fs)
	case cop1CvtS:
		c.FPU.SetS(instr.Fd(), float32(fs))
	case cop1CvtW:
		c.FPU.SetW(instr.Fd(), int32(fs))
	case cop1CvtL:
		c.FPU.SetL(instr.Fd(), int64(fs))
	case cop1RoundW, cop1TruncW, cop1CeilW, cop1FloorW:
		c.FPU.SetW(instr.Fd(), int32(roundMode(instr.Funct(), fs)))
	case cop1RoundL, cop1TruncL, cop1CeilL, cop1FloorL:
		c.FPU.SetL(instr.Fd(), int64(roundMode(instr.Funct(), fs)))
	default:
		if instr.Funct() >= cop1Cf {
			c.FPU.SetCondFlag(comparePredicate(instr.Funct(), fs, ft))
			return
		}
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized COP1.D funct %d", instr.Funct())})
	}
}

// execCop1Cvt handles CVT.S/CVT.D out of an integer (W or L) source format.
func (c *CPU) execCop1Cvt(instr Instruction, long bool) {
	var src float64
	if long {
		src = float64(c.FPU.GetL(instr.Fs()))
	} else {
		src = float64(c.FPU.GetW(instr.Fs()))
	}
	switch instr.Funct() {
	case cop1CvtS:
		c.FPU.SetS(instr.Fd(), float32(src))
	case cop1CvtD:
		c.FPU.SetD(instr.Fd(), src)
	default:
		panic(Fault{Op: "decode", Detail: fmt.Sprintf("unrecognized COP1 integer-source funct %d", instr.Funct())})
	}
}

func roundMode(funct uint32, v float64) float64 {
	switch funct {
	case cop1RoundW, cop1RoundL:
		return math.Round(v)
	case cop1TruncW, cop1TruncL:
		return math.Trunc(v)
	case cop1CeilW, cop1CeilL:
		return math.Ceil(v)
	case cop1FloorW, cop1FloorL:
		return math.Floor(v)
	}
	return v
}
