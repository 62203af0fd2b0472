package bitstream

import (
	"fmt"

	"github.com/wippyai/iso20-exi/errors"
)

// Writer accumulates an MSB-first bit stream.
// A zero limit means the buffer grows without bound.
type Writer struct {
	buf   []byte
	bit   int // bits used in the last octet, 0..7 (0 means the last octet is full)
	limit int // maximum number of octets, 0 for unlimited
}

// NewWriter creates a growing Writer.
func NewWriter() *Writer {
	return &Writer{buf: make([]byte, 0, 64)}
}

// NewLimitedWriter creates a Writer that refuses to grow past limit octets.
func NewLimitedWriter(limit int) *Writer {
	return &Writer{buf: make([]byte, 0, min(limit, 64)), limit: limit}
}

// BitLen returns the number of bits written.
func (w *Writer) BitLen() int {
	if w.bit == 0 {
		return len(w.buf) * 8
	}
	return (len(w.buf)-1)*8 + w.bit
}

// Len returns the number of octets in use, including a partial last octet.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Bytes returns the stream; unused bits of the last octet are zero.
func (w *Writer) Bytes() []byte {
	return w.buf
}

func (w *Writer) free() int {
	if w.limit == 0 {
		return -1
	}
	return w.limit*8 - w.BitLen()
}

// WriteBits writes the low n bits of v (0 ≤ n ≤ 32), most significant bit first.
func (w *Writer) WriteBits(n int, v uint32) error {
	if n < 0 || n > 32 {
		return errors.InvalidInput(errors.PhaseEncode, nil, fmt.Sprintf("write width %d out of range", n))
	}
	if n == 0 {
		return nil
	}
	if n < 32 && v>>n != 0 {
		return errors.Overflow(errors.PhaseEncode, nil, v, n)
	}
	if free := w.free(); free >= 0 && n > free {
		return errors.BufferExhausted(errors.PhaseEncode, w.BitLen(), n, free)
	}

	for n > 0 {
		if w.bit == 0 {
			w.buf = append(w.buf, 0)
		}
		avail := 8 - w.bit
		take := min(avail, n)
		chunk := byte(v>>(n-take)) & (1<<take - 1)
		w.buf[len(w.buf)-1] |= chunk << (avail - take)
		n -= take
		w.bit = (w.bit + take) % 8
	}
	return nil
}

// WriteBit writes a single bit.
func (w *Writer) WriteBit(b bool) error {
	if b {
		return w.WriteBits(1, 1)
	}
	return w.WriteBits(1, 0)
}

// WriteBytes writes data octet by octet at the current bit position.
func (w *Writer) WriteBytes(data []byte) error {
	if free := w.free(); free >= 0 && len(data)*8 > free {
		return errors.BufferExhausted(errors.PhaseEncode, w.BitLen(), len(data)*8, free)
	}
	if w.bit == 0 {
		w.buf = append(w.buf, data...)
		return nil
	}
	for _, b := range data {
		if err := w.WriteBits(8, uint32(b)); err != nil {
			return err
		}
	}
	return nil
}
