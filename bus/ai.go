package bus

// AI is the Audio Interface register bank. Audio output is out of scope;
// this keeps the DMA bookkeeping boot code pokes at so those writes don't
// fault. Grounded on original_source/src/n64/audio_interface.rs.
type AI struct {
	dramAddr uint32
	length   uint32
}

func (a *AI) ReadDramAddrReg() uint32       { return a.dramAddr }
func (a *AI) WriteDramAddrReg(value uint32) { a.dramAddr = value & 0x00ffffff }
func (a *AI) ReadLenReg() uint32            { return a.length }
func (a *AI) WriteLenReg(value uint32)      { a.length = value & 0x0003fff8 }
func (a *AI) WriteControlReg(value uint32)  { warn("write to AI_CONTROL_REG %08x", value) }
func (a *AI) WriteStatusReg(value uint32)   { warn("write to AI_STATUS_REG %08x", value) }
func (a *AI) WriteDacrateReg(value uint32)  { warn("write to AI_DACRATE_REG %08x", value) }
func (a *AI) WriteBitrateReg(value uint32)  { warn("write to AI_BITRATE_REG %08x", value) }
