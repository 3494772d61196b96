// Package cpu implements the VR4300 instruction decoder, CP0 system
// coprocessor, CP1 floating-point coprocessor, and the main interpreter
// loop. Grounded on original_source/src/n64/cpu/{instruction,opcode,cpu}.rs
// and, for interpreter-loop shape, the teacher's cpu_ie64.go switch-based
// Execute().
package cpu

// Instruction is a 32-bit MIPS-style instruction word with field views.
type Instruction uint32

func (i Instruction) Opcode() uint32 { return uint32(i>>26) & 0x3f }
func (i Instruction) Rs() uint32     { return uint32(i>>21) & 0x1f }
func (i Instruction) Rt() uint32     { return uint32(i>>16) & 0x1f }
func (i Instruction) Rd() uint32     { return uint32(i>>11) & 0x1f }
func (i Instruction) Sa() uint32     { return uint32(i>>6) & 0x1f }
func (i Instruction) Funct() uint32  { return uint32(i) & 0x3f }
func (i Instruction) Imm() uint16    { return uint16(i) }
func (i Instruction) ImmSignExtended() uint64 {
	return uint64(int64(int16(i)))
}
func (i Instruction) Target() uint32 { return uint32(i) & 0x03ffffff }
func (i Instruction) Offset() uint16 { return uint16(i) }
func (i Instruction) OffsetSignExtended() uint64 {
	return uint64(int64(int16(i)))
}

// Fmt aliases Rs for CP1 instructions.
func (i Instruction) Fmt() uint32 { return i.Rs() }
func (i Instruction) Ft() uint32  { return i.Rt() }
func (i Instruction) Fs() uint32  { return i.Rd() }
func (i Instruction) Fd() uint32  { return i.Sa() }

// Primary opcodes.
const (
	opSpecial = 0
	opRegimm  = 1
	opJ       = 2
	opJal     = 3
	opBeq     = 4
	opBne     = 5
	opBlez    = 6
	opBgtz    = 7
	opAddi    = 8
	opAddiu   = 9
	opSlti    = 10
	opSltiu   = 11
	opAndi    = 12
	opOri     = 13
	opXori    = 14
	opLui     = 15
	opCop0    = 16
	opCop1    = 17
	opBeql    = 20
	opBnel    = 21
	opBlezl   = 22
	opDaddi   = 24
	opDaddiu  = 25
	opLb      = 32
	opLh      = 33
	opLwl     = 34
	opLw      = 35
	opLbu     = 36
	opLhu     = 37
	opLwr     = 38
	opLwu     = 39
	opSb      = 40
	opSh      = 41
	opSwl     = 42
	opSw      = 43
	opSwr     = 46
	opCache   = 47
	opLwc1    = 49
	opLdc1    = 53
	opLd      = 55
	opSwc1    = 57
	opSdc1    = 61
	opSd      = 63
)

// SPECIAL funct codes.
const (
	spSll    = 0
	spSrl    = 2
	spSra    = 3
	spSllv   = 4
	spSrlv   = 6
	spSrav   = 7
	spJr     = 8
	spJalr   = 9
	spSync   = 15
	spMfhi   = 16
	spMthi   = 17
	spMflo   = 18
	spMtlo   = 19
	spDsllv  = 20
	spDsrlv  = 22
	spDsrav  = 23
	spMult   = 24
	spMultu  = 25
	spDiv    = 26
	spDivu   = 27
	spDmult  = 28
	spDmultu = 29
	spDdiv   = 30
	spDdivu  = 31
	spAdd    = 32
	spAddu   = 33
	spSub    = 34
	spSubu   = 35
	spAnd    = 36
	spOr     = 37
	spXor    = 38
	spNor    = 39
	spSlt    = 42
	spSltu   = 43
	spDadd   = 44
	spDaddu  = 45
	spDsub   = 46
	spDsubu  = 47
	spDsll   = 56
	spDsrl   = 58
	spDsra   = 59
	spDsll32 = 60
	spDsrl32 = 62
	spDsra32 = 63
)

// REGIMM rt-field selectors.
const (
	riBltz   = 0
	riBgez   = 1
	riBgezl  = 3
	riBgezal = 17
)

// COP0 rs-field selectors, and CO-function funct codes.
const (
	cop0Mfc0 = 0
	cop0Mtc0 = 4
	cop0Co   = 16

	cop0coTlbwi = 0x02
	cop0coEret  = 0x18
)

// COP1 fmt-field selectors and funct codes.
const (
	fmtS = 16
	fmtD = 17
	fmtW = 20
	fmtL = 21

	fmtBc = 8 // branch-on-condition rs field

	cop1Add     = 0
	cop1Sub     = 1
	cop1Mul     = 2
	cop1Div     = 3
	cop1Sqrt    = 4
	cop1Abs     = 5
	cop1Mov     = 6
	cop1Neg     = 7
	cop1RoundL  = 8
	cop1TruncL  = 9
	cop1CeilL   = 10
	cop1FloorL  = 11
	cop1RoundW  = 12
	cop1TruncW  = 13
	cop1CeilW   = 14
	cop1FloorW  = 15
	cop1CvtS    = 32
	cop1CvtD    = 33
	cop1CvtW    = 36
	cop1CvtL    = 37
	cop1Cf      = 48
	cop1Cun     = 49
	cop1Ceq     = 50
	cop1Cueq    = 51
	cop1Colt    = 52
	cop1Cult    = 53
	cop1Cole    = 54
	cop1Cule    = 55
	cop1Csf     = 56
	cop1Cngle   = 57
	cop1Cseq    = 58
	cop1Cngl    = 59
	cop1Clt     = 60
	cop1Cnge    = 61
	cop1Cle     = 62
	cop1Cngt    = 63
)
