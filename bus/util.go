package bus

import (
	"encoding/binary"
	"fmt"
)

// N64 devices are big-endian throughout, unlike the little-endian host
// MachineBus in the teacher repo; every word/halfword access below goes
// through encoding/binary.BigEndian to keep that one fact in one place.
func beUint32(b []byte) uint32        { return binary.BigEndian.Uint32(b) }
func bePutUint32(b []byte, v uint32)  { binary.BigEndian.PutUint32(b, v) }
func beUint16(b []byte) uint16        { return binary.BigEndian.Uint16(b) }
func bePutUint16(b []byte, v uint16)  { binary.BigEndian.PutUint16(b, v) }

func fmt32(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
