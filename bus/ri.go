package bus

// RI is the RDRAM Interface register bank: every register is a logged
// stub on real hardware's timing/calibration knobs, none of which this
// core's interpretive RDRAM model needs. Grounded on
// original_source/src/n64/rdram_interface.rs.
type RI struct{}

func (RI) ReadSelectReg() uint32 {
	warn("stub read RI select register")
	return 0
}

func (RI) ReadRefreshReg() uint32 {
	warn("stub read RI refresh register")
	return 0
}

func (RI) WriteModeReg(value uint32)        { warn("stub write RI mode register %08x", value) }
func (RI) WriteConfigReg(value uint32)      { warn("stub write RI config register %08x", value) }
func (RI) WriteCurrentLoadReg(value uint32) { warn("stub write RI current load register %08x", value) }
func (RI) WriteSelectReg(value uint32)      { warn("stub write RI select register %08x", value) }
func (RI) WriteRefreshReg(value uint32)     { warn("stub write RI refresh register %08x", value) }

func (RI) ReadRdramModeReg() uint32 {
	warn("stub read RDRAM mode register")
	return 0
}

func (RI) WriteRdramModeReg(value uint32) { warn("stub write RDRAM mode register %08x", value) }
