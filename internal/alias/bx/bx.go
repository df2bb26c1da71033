// stand for bytes helper
package bx

import "encoding/binary"

var (
	// NE is the host byte order; table files are written with it.
	NE = binary.NativeEndian
	BE = binary.BigEndian
)

// --- NE: fixed-width row fields ---
func I32(b []byte) int32                  { return int32(NE.Uint32(b)) }
func PutI32(b []byte, v int32)            { NE.PutUint32(b, uint32(v)) }
func I32At(b []byte, off int) int32       { return I32(b[off:]) }
func PutI32At(b []byte, off int, v int32) { PutI32(b[off:], v) }

// --- BE: length prefixes on the wire ---
func U32BE(b []byte) uint32       { return BE.Uint32(b) }
func PutU32BE(b []byte, v uint32) { BE.PutUint32(b, v) }
