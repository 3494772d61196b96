package cpu

import (
	"math"
	"testing"
)

func cop1SInstr(funct, fs, ft, fd uint32) uint32 {
	return opCop1<<26 | fmtS<<21 | ft<<16 | fs<<11 | fd<<6 | funct
}

func TestCop1MTC1MFC1RoundTrip(t *testing.T) {
	c, b := newTestCPU()
	c.GPR[1] = uint64(math.Float32bits(3.5))
	// MTC1 r1, f2: fmt=4(MTC1), rt=1, fs(rd)=2
	b.WriteWord(0, opCop1<<26|4<<21|1<<16|2<<11)
	c.Step(b)
	if c.FPU.GetS(2) != 3.5 {
		t.Fatalf("FPU.GetS(2) = %v, want 3.5", c.FPU.GetS(2))
	}

	// MFC1 r3, f2: fmt=0(MFC1), rt=3, fs(rd)=2
	b.WriteWord(4, opCop1<<26|0<<21|3<<16|2<<11)
	c.Step(b)
	if uint32(c.GPR[3]) != math.Float32bits(3.5) {
		t.Fatalf("GPR[3] = %#x, want bits of 3.5", c.GPR[3])
	}
}

func TestCop1AddSingle(t *testing.T) {
	c, b := newTestCPU()
	c.FPU.SetS(0, 1.5)
	c.FPU.SetS(1, 2.25)
	// ADD.S f2, f0, f1
	b.WriteWord(0, cop1SInstr(cop1Add, 0, 1, 2))
	c.Step(b)
	if got := c.FPU.GetS(2); got != 3.75 {
		t.Fatalf("ADD.S result = %v, want 3.75", got)
	}
}

func TestCop1DivSingle(t *testing.T) {
	c, b := newTestCPU()
	c.FPU.SetS(0, 9)
	c.FPU.SetS(1, 2)
	b.WriteWord(0, cop1SInstr(cop1Div, 0, 1, 2))
	c.Step(b)
	if got := c.FPU.GetS(2); got != 4.5 {
		t.Fatalf("DIV.S result = %v, want 4.5", got)
	}
}

func TestCop1CompareSetsConditionFlagBit23(t *testing.T) {
	c, b := newTestCPU()
	c.FPU.SetS(0, 1)
	c.FPU.SetS(1, 1)
	// C.EQ.S f0, f1
	b.WriteWord(0, cop1SInstr(cop1Ceq, 0, 1, 0))
	c.Step(b)
	if c.FPU.FCR31&(1<<23) == 0 {
		t.Fatalf("C.EQ.S true must set FCR31 bit 23")
	}
}

// TestBC1ReadsBit22NotBit23 pins the preserved divergence: compares set
// bit 23, but BC1's branch predicate reads bit 22, not bit 23. With bit 23
// set and bit 22 clear, BC1T still branches.
func TestBC1ReadsBit22NotBit23(t *testing.T) {
	c, b := newTestCPU()
	c.FPU.FCR31 = 1 << 23 // condition flag set, bit 22 clear
	// BC1T offset=+2: opcode=COP1, fmt=fmtBc(8), ft bit0=1 (BC1T)
	instr := uint32(opCop1)<<26 | fmtBc<<21 | 1<<16 | 2
	ori := uint32(0x0D)<<26 | 0<<21 | 1<<16 | 0x55 // delay slot
	b.WriteWord(0, instr)
	b.WriteWord(4, ori)

	c.Step(b)
	// BranchCond() is true whenever bit 22 is clear, regardless of bit 23,
	// so BC1T (taken when BranchCond()) takes the branch here too.
	if c.DelaySlot == nil {
		t.Fatalf("expected a delay slot latched by the taken branch")
	}
}

func TestCop1CvtWToSingle(t *testing.T) {
	c, b := newTestCPU()
	c.FPU.SetW(0, 7)
	// CVT.S.W f1, f0: fmt=W(20), funct=CVTS(32)
	b.WriteWord(0, opCop1<<26|fmtW<<21|0<<11|1<<6|cop1CvtS)
	c.Step(b)
	if got := c.FPU.GetS(1); got != 7 {
		t.Fatalf("CVT.S.W result = %v, want 7", got)
	}
}
