package bx

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestNativeEndianI32 checks that I32/PutI32 follow the host byte order and
// round-trip the full int32 range.
func TestNativeEndianI32(t *testing.T) {
	for _, v := range []int32{0, 1, -1, 0x01020304, math.MaxInt32, math.MinInt32} {
		b := make([]byte, 4)
		PutI32(b, v)

		want := make([]byte, 4)
		binary.NativeEndian.PutUint32(want, uint32(v))
		assert.Equal(t, want, b)
		assert.Equal(t, v, I32(b))
	}
}

func TestNativeEndianAt(t *testing.T) {
	buf := make([]byte, 12)
	PutI32At(buf, 0, 7)
	PutI32At(buf, 4, -7)
	PutI32At(buf, 8, 1<<20)

	assert.Equal(t, int32(7), I32At(buf, 0))
	assert.Equal(t, int32(-7), I32At(buf, 4))
	assert.Equal(t, int32(1<<20), I32At(buf, 8))
}

func TestBigEndianU32(t *testing.T) {
	b := make([]byte, 4)
	PutU32BE(b, 0x01020304)
	// BE: most-significant byte first
	assert.Equal(t, []byte{0x01, 0x02, 0x03, 0x04}, b)
	assert.Equal(t, uint32(0x01020304), U32BE(b))
}
