package bus

import "testing"

func TestCicSeedForCRC(t *testing.T) {
	seed, err := cicSeedForCRC(0x90BB6CB5)
	if err != nil || seed != 0x3F3F {
		t.Fatalf("CIC 6102: got seed=%#x err=%v", seed, err)
	}

	seed, err = cicSeedForCRC(0x98BC2C86)
	if err != nil || seed != 0x913F {
		t.Fatalf("CIC 6105: got seed=%#x err=%v", seed, err)
	}

	if _, err := cicSeedForCRC(0xDEADBEEF); err == nil {
		t.Fatalf("expected an error for an unrecognized CRC32")
	}
}

func TestNewPIFUnrecognizedCartErrors(t *testing.T) {
	cart := make([]byte, 0x1000)
	if _, err := NewPIF(make([]byte, 0x7C0), cart); err == nil {
		t.Fatalf("expected an error for a cart whose CRC matches no known CIC")
	}
}

func TestPIFRAMSeedLayout(t *testing.T) {
	// testCart hashes to the CIC 6102 CRC, whose seed is 0x3F3F.
	p, err := NewPIF(make([]byte, 0x7C0), testCart())
	if err != nil {
		t.Fatalf("NewPIF: %v", err)
	}
	if p.RAM[0x24] != 0x3F || p.RAM[0x25] != 0x3F {
		t.Fatalf("RAM[0x24:0x26] = %#x %#x, want the CIC 6102 seed 0x3F 0x3F", p.RAM[0x24], p.RAM[0x25])
	}

	if p.RAM[0x26] != 0x3F || p.RAM[0x27] != 0x3F {
		t.Fatalf("RAM[0x26:0x28] must always be 0x3F 0x3F regardless of CIC seed")
	}
}

func TestPIFWriteRAMControlByte(t *testing.T) {
	p := &PIF{bootROM: make([]byte, 16)}
	for i := range p.bootROM {
		p.bootROM[i] = 0xFF
	}

	p.WriteRAM(0x3F, 0x30)
	if p.RAM[0x3F] != 0x80 {
		t.Fatalf("control byte 0x30: got RAM[0x3F]=%#x, want 0x80", p.RAM[0x3F])
	}

	p.WriteRAM(0x3F, 0xC0)
	if p.RAM[0x3F] != 0x40 {
		t.Fatalf("control byte 0xC0: got RAM[0x3F]=%#x, want 0x40", p.RAM[0x3F])
	}

	p.WriteRAM(0x3F, 0x08)
	if p.RAM[0x3F] != 0x00 {
		t.Fatalf("control byte 0x08: got RAM[0x3F]=%#x, want 0x00", p.RAM[0x3F])
	}

	p.WriteRAM(0x3F, 0x10)
	for i, b := range p.bootROM {
		if b != 0 {
			t.Fatalf("control byte 0x10 should zero the boot ROM, byte %d = %#x", i, b)
		}
	}
}

func TestPIFWriteRAMUnrecognizedControlBytePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an unrecognized control byte")
		}
	}()
	p := &PIF{bootROM: make([]byte, 16)}
	p.WriteRAM(0x3F, 0x42)
}

// TestInterconnectWriteWordDrivesPIFControlByte exercises the real
// integration path: a guest word write at PIFRAMStart+0x3C decomposes into
// four byte writes, and the control command must land at the last byte
// (0x3C+3 = 0x3F), not the first.
func TestInterconnectWriteWordDrivesPIFControlByte(t *testing.T) {
	ic := newTestInterconnect(t)
	ic.WriteWord(PIFRAMStart+0x3C, 0x00000030)
	if ic.PIF.RAM[0x3F] != 0x80 {
		t.Fatalf("control byte 0x30 via word write: got RAM[0x3F]=%#x, want 0x80", ic.PIF.RAM[0x3F])
	}
}

func TestPIFReadBootROM(t *testing.T) {
	p := &PIF{bootROM: []byte{0x01, 0x02, 0x03, 0x04}}
	if got := p.ReadBootROM(0); got != 0x01020304 {
		t.Fatalf("ReadBootROM(0) = %#x, want 0x01020304", got)
	}
}
