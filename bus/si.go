package bus

// SI is the Serial Interface register bank (PIF communication). Only the
// status register is modeled; controller/EEPROM DMA is out of scope.
// Grounded on original_source/src/n64/serial_interface.rs.
type SI struct{}

func (SI) ReadStatusReg() uint32 { return 0 }

// TODO: should clear pending SI interrupts once interrupt delivery exists.
func (SI) WriteStatusReg(uint32) { warn("write to SI_STATUS_REG") }
