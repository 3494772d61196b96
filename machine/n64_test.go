package machine

import (
	"encoding/binary"
	"testing"

	"github.com/n64lab/n64core/video"
)

// loopingBootROM returns a boot ROM that branches to itself forever: BEQ
// r0, r0, -1 followed by a NOP delay slot. Without this, a CPU stepped
// thousands of times would walk PC straight off the end of the mapped
// PIF boot ROM/RAM window.
func loopingBootROM() []byte {
	boot := make([]byte, 0x7C0)
	binary.BigEndian.PutUint32(boot[0:], uint32(4)<<26|0xFFFF) // BEQ r0, r0, -1
	return boot
}

// testCart is a cart image whose CRC32 over [0x40, 0x1000) matches the
// CIC 6102 seed the PIF boot handshake recognizes.
func testCart() []byte {
	cart := make([]byte, 0x1000)
	copy(cart[0xFFC:], []byte{0x89, 0x26, 0x79, 0xfb})
	return cart
}

// TestBootFetchesFirstBootROMInstruction exercises the reset vector: the
// PIF boot ROM's first word is a NOP (SLL r0, r0, 0) and one Step should
// decode it and advance PC by 4 with no register side effects.
func TestBootFetchesFirstBootROMInstruction(t *testing.T) {
	boot := make([]byte, 0x7C0) // all zero: word 0 decodes as SLL r0,r0,0 (a NOP)
	n, err := New(boot, testCart())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	startPC := n.CPU().PC
	n.Step(&video.MostRecentSink{})

	if n.CPU().PC != startPC+4 {
		t.Fatalf("PC after boot NOP = %#x, want %#x", n.CPU().PC, startPC+4)
	}
	for i, r := range n.CPU().GPR {
		if r != 0 {
			t.Fatalf("GPR[%d] = %#x after a boot NOP, want 0", i, r)
		}
	}
}

func TestNewRejectsUnrecognizedCart(t *testing.T) {
	boot := make([]byte, 0x7C0)
	cart := make([]byte, 0x1000) // CRC32 matches no known CIC
	if _, err := New(boot, cart); err == nil {
		t.Fatalf("expected an error constructing a machine with an unrecognized cart")
	}
}

// TestFramebufferScanOut drives the system until the frame-pacing counter
// wraps and confirms a 320x240 RGBA16 frame is scanned out, per spec.md's
// VI scan-out scenario.
func TestFramebufferScanOut(t *testing.T) {
	n, err := New(loopingBootROM(), testCart())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ic := n.Interconnect()
	ic.VI.WriteStatusReg(2) // RGBA16
	ic.VI.WriteWidthReg(320)
	ic.VI.WriteOriginReg(0)

	sink := &video.MostRecentSink{}
	for i := 0; i < 100000; i++ {
		n.Step(sink)
	}

	frame, ok := sink.Take()
	if !ok {
		t.Fatalf("expected a frame to be scanned out after 100000 steps")
	}
	if frame.Width != 320 || frame.Height != 240 {
		t.Fatalf("frame dims = %dx%d, want 320x240", frame.Width, frame.Height)
	}
	if len(frame.ARGBData) != int(frame.Width*frame.Height) {
		t.Fatalf("len(ARGBData) = %d, want %d", len(frame.ARGBData), frame.Width*frame.Height)
	}
}
