// Package bitstream provides the MSB-first bit cursor used by the EXI codec.
package bitstream

import (
	"fmt"

	"github.com/wippyai/iso20-exi/errors"
)

// Reader is a read cursor over a borrowed byte slice.
// The sub-byte position is always < 8; reads never advance past the end.
type Reader struct {
	buf []byte
	pos int // byte position
	bit int // bits consumed in buf[pos], 0..7
}

// NewReader creates a Reader positioned at the first bit of data.
func NewReader(data []byte) *Reader {
	return &Reader{buf: data}
}

// Position returns the number of bits consumed so far.
func (r *Reader) Position() int {
	return r.pos*8 + r.bit
}

// RemainingBits returns the number of unread bits.
func (r *Reader) RemainingBits() int {
	return len(r.buf)*8 - r.Position()
}

// Aligned reports whether the cursor sits on an octet boundary.
func (r *Reader) Aligned() bool {
	return r.bit == 0
}

// ReadBits reads n bits (0 ≤ n ≤ 32), most significant bit first.
func (r *Reader) ReadBits(n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.InvalidInput(errors.PhaseDecode, nil, fmt.Sprintf("read width %d out of range", n))
	}
	if n == 0 {
		return 0, nil
	}
	if remaining := r.RemainingBits(); n > remaining {
		return 0, errors.BufferExhausted(errors.PhaseDecode, r.Position(), n, remaining)
	}

	var v uint32
	for n > 0 {
		avail := 8 - r.bit
		take := min(avail, n)
		shift := avail - take
		chunk := (uint32(r.buf[r.pos]) >> shift) & (1<<take - 1)
		v = v<<take | chunk
		n -= take
		r.bit += take
		if r.bit == 8 {
			r.bit = 0
			r.pos++
		}
	}
	return v, nil
}

// ReadBit reads a single bit.
func (r *Reader) ReadBit() (bool, error) {
	v, err := r.ReadBits(1)
	return v == 1, err
}

// ReadBytes reads exactly n octets into a new slice.
// On an octet boundary the bytes are copied directly.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, errors.InvalidInput(errors.PhaseDecode, nil, fmt.Sprintf("negative byte count %d", n))
	}
	if remaining := r.RemainingBits(); n*8 > remaining {
		return nil, errors.BufferExhausted(errors.PhaseDecode, r.Position(), n*8, remaining)
	}

	buf := make([]byte, n)
	if r.bit == 0 {
		copy(buf, r.buf[r.pos:r.pos+n])
		r.pos += n
		return buf, nil
	}
	for i := range buf {
		b, err := r.ReadBits(8)
		if err != nil {
			return nil, err
		}
		buf[i] = byte(b)
	}
	return buf, nil
}
