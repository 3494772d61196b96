package bus

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
)

// PIF models the boot ROM view and 64-byte RAM the console's boot handshake
// runs through. Grounded on spec.md §4.8 and
// original_source/src/n64/pif.rs (the CRC32 CIC-seed selection is spelled
// out explicitly in spec.md; the original's placeholder always wrote the
// 6102 seed, which spec.md supersedes).
type PIF struct {
	bootROM []byte
	RAM     [64]byte
}

// NewPIF snapshots the boot ROM and selects a CIC seed from the cart's
// CRC32 over bytes [0x40, 0x1000). Unknown CRCs are a programming fault:
// the core cannot proceed with a cartridge it can't authenticate.
func NewPIF(bootROM, cart []byte) (*PIF, error) {
	p := &PIF{bootROM: bootROM}

	end := 0x1000
	if end > len(cart) {
		end = len(cart)
	}
	start := 0x40
	if start > end {
		start = end
	}
	sum := crc32.ChecksumIEEE(cart[start:end])
	seed, err := cicSeedForCRC(sum)
	if err != nil {
		return nil, err
	}

	binary.BigEndian.PutUint16(p.RAM[0x24:0x26], seed)
	p.RAM[0x26] = 0x3F
	p.RAM[0x27] = 0x3F

	return p, nil
}

// cicSeedForCRC maps a cart's boot-code CRC32 to the 2-byte CIC seed the
// PIF stages into RAM[0x24:0x26]. Only the two CIC variants spec.md names
// are recognized; anything else is a programming fault (an unauthenticated
// cart can't proceed through the boot handshake).
func cicSeedForCRC(sum uint32) (uint16, error) {
	switch sum {
	case 0x90BB6CB5:
		return 0x3F3F, nil // CIC 6102
	case 0x98BC2C86:
		return 0x913F, nil // CIC 6105
	default:
		return 0, fmt.Errorf("pif: unrecognized CIC CRC32 %#08x", sum)
	}
}

// ReadBootROM returns the big-endian 32-bit word at the given offset into
// the boot ROM view.
func (p *PIF) ReadBootROM(offset uint32) uint32 {
	return beUint32(p.bootROM[offset:])
}

// WriteRAM performs the write and, for the control-byte register's low
// byte at 0x3F (Interconnect.WriteWord decomposes a big-endian word write
// to 0x3C into four byte writes, so the command byte itself lands at
// 0x3C+3), interprets the byte as a command.
func (p *PIF) WriteRAM(addr uint32, value byte) {
	p.RAM[addr] = value
	if addr != 0x3F {
		return
	}
	switch value {
	case 0x08:
		p.RAM[0x3F] = 0x00
	case 0x10:
		for i := range p.bootROM {
			p.bootROM[i] = 0
		}
	case 0x30:
		p.RAM[0x3F] = 0x80
	case 0xC0:
		p.RAM[0x3F] = 0x40
	default:
		panic(Fault{Op: "pif_control", Detail: fmt32("unrecognized PIF control byte %#02x", value)})
	}
}
