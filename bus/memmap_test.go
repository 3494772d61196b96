package bus

import "testing"

func TestTranslateAddrKseg0(t *testing.T) {
	got := TranslateAddr(0xFFFFFFFF80000400)
	if got != 0x400 {
		t.Fatalf("kseg0 translation: got %#x, want %#x", got, 0x400)
	}
}

func TestTranslateAddrKseg1(t *testing.T) {
	got := TranslateAddr(0xFFFFFFFFA0000400)
	if got != 0x400 {
		t.Fatalf("kseg1 translation: got %#x, want %#x", got, 0x400)
	}
}

func TestTranslateAddrOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an unsupported virtual address")
		}
	}()
	TranslateAddr(0x0000000000000000)
}

func TestMapAddrRegions(t *testing.T) {
	cases := []struct {
		addr   uint32
		region Region
		off    uint32
	}{
		{0x00001234, RegionRDRAM, 0x00001234},
		{SPDMEMStart + 4, RegionSPDMEM, 4},
		{SPIMEMStart + 4, RegionSPIMEM, 4},
		{MIRegStart + 8, RegionMIRegs, 8},
		{VIRegStart, RegionVIRegs, 0},
		{SIRegStart + 0x18, RegionSIRegs, 0x18},
		{CartDom1Start, RegionCartDom1, 0},
		{PIFBootStart, RegionPIFBoot, 0},
		{PIFRAMStart, RegionPIFRAM, 0},
	}
	for _, c := range cases {
		region, off := MapAddr(c.addr)
		if region != c.region || off != c.off {
			t.Errorf("MapAddr(%#x) = (%v, %#x), want (%v, %#x)", c.addr, region, off, c.region, c.off)
		}
	}
}

func TestMapAddrUnmappedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for an unmapped address")
		}
	}()
	MapAddr(0x08000000)
}
