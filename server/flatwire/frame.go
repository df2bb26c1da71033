package flatwire

import (
	"errors"
	"fmt"
	"io"

	"github.com/goccy/go-json"

	"github.com/tuannm99/flatdb/internal/alias/bx"
)

const (
	// MaxFrameSize limits memory usage on malformed/hostile input.
	MaxFrameSize = 8 << 20 // 8 MiB

	headerSize = 4
)

var (
	ErrEmptyFrame    = errors.New("flatwire: empty frame")
	ErrFrameTooLarge = errors.New("flatwire: frame too large")
)

// ReadFrame reads a single length-prefixed JSON frame.
func ReadFrame(r io.Reader, v any) error {
	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return err
	}
	n := bx.U32BE(hdr[:])
	if n == 0 {
		return ErrEmptyFrame
	}
	if n > MaxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, n, MaxFrameSize)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}

	if err := json.Unmarshal(buf, v); err != nil {
		return fmt.Errorf("flatwire: bad json: %w", err)
	}
	return nil
}

// WriteFrame writes v as a length-prefixed JSON frame with a single Write.
func WriteFrame(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("flatwire: marshal: %w", err)
	}
	if len(b) == 0 {
		return ErrEmptyFrame
	}
	if len(b) > MaxFrameSize {
		return fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(b), MaxFrameSize)
	}

	out := make([]byte, headerSize+len(b))
	bx.PutU32BE(out, uint32(len(b)))
	copy(out[headerSize:], b)
	_, err = w.Write(out)
	return err
}
