package cpu

import "math"

// FPU is CP1: 32 floating-point registers viewable as 32-bit single,
// 64-bit double, 32-bit int (W), or 64-bit int (L) lanes over the same
// backing storage, plus FCR0/FCR31. Grounded on spec.md §4.2's CP1
// description — original_source's Cpu never implements CP1 beyond a
// println stub, so the arithmetic/compare semantics here follow the
// standard MIPS III FPU instruction set rather than a ported file; see
// DESIGN.md.
type FPU struct {
	FPR   [32]uint64
	FCR0  uint32
	FCR31 uint32
}

func (f *FPU) GetS(i uint32) float32 { return math.Float32frombits(uint32(f.FPR[i])) }
func (f *FPU) SetS(i uint32, v float32) {
	f.FPR[i] = uint64(math.Float32bits(v))
}

func (f *FPU) GetD(i uint32) float64 { return math.Float64frombits(f.FPR[i]) }
func (f *FPU) SetD(i uint32, v float64) {
	f.FPR[i] = math.Float64bits(v)
}

func (f *FPU) GetW(i uint32) int32 { return int32(uint32(f.FPR[i])) }
func (f *FPU) SetW(i uint32, v int32) {
	f.FPR[i] = uint64(uint32(v))
}

func (f *FPU) GetL(i uint32) int64  { return int64(f.FPR[i]) }
func (f *FPU) SetL(i uint32, v int64) { f.FPR[i] = uint64(v) }

// SetCondFlag and BranchCond preserve a divergence present in spec.md
// itself: the compare instructions are specified to set bit 23 of
// FCR31, but the branch-on-condition predicate is specified against bit
// 22. Implemented literally rather than "corrected", per the
// preserve-known-quirks rule in DESIGN.md.
func (f *FPU) SetCondFlag(v bool) {
	if v {
		f.FCR31 |= 1 << 23
	} else {
		f.FCR31 &^= 1 << 23
	}
}

func (f *FPU) BranchCond() bool {
	return f.FCR31&(1<<22) == 0
}

// comparePredicate implements the sixteen C.cond.fmt predicates per the
// standard MIPS ordered/unordered table.
func comparePredicate(funct uint32, a, b float64) bool {
	unordered := math.IsNaN(a) || math.IsNaN(b)
	switch funct {
	case cop1Cf, cop1Csf:
		return false
	case cop1Cun, cop1Cngle:
		return unordered
	case cop1Ceq, cop1Cseq:
		return !unordered && a == b
	case cop1Cueq, cop1Cngl:
		return unordered || a == b
	case cop1Colt, cop1Clt:
		return !unordered && a < b
	case cop1Cult, cop1Cnge:
		return unordered || a < b
	case cop1Cole, cop1Cle:
		return !unordered && a <= b
	case cop1Cule, cop1Cngt:
		return unordered || a <= b
	default:
		return false
	}
}
