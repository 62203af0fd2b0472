// Package datatype implements the EXI built-in datatype representations used
// by the codec profile: n-bit unsigned integers, unsigned and signed variable
// length integers, booleans, strings and binary blobs.
//
// All functions read from or write to a bitstream cursor in bit-packed
// alignment. Readers return an error without a value on the first violation;
// writers never clamp.
package datatype

import (
	"math"
	"math/bits"
	"unicode/utf8"

	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/internal/bitstream"
)

// stringOffset is the number of length-prefix values reserved for string table hits.
const stringOffset = 2

// BitsFor returns the number of bits needed to distinguish n values, ceil(log2(n)).
func BitsFor(n uint64) int {
	if n <= 1 {
		return 0
	}
	return bits.Len64(n - 1)
}

func checkWidth(phase errors.Phase, width int) error {
	switch width {
	case 8, 16, 32, 64:
		return nil
	}
	return errors.InvalidInput(phase, nil, "integer width must be 8, 16, 32 or 64")
}

// ReadNBit reads an n-bit unsigned integer.
func ReadNBit(r *bitstream.Reader, n int) (uint32, error) {
	return r.ReadBits(n)
}

// ReadBool reads a single-bit boolean.
func ReadBool(r *bitstream.Reader) (bool, error) {
	return r.ReadBit()
}

// ReadUnsigned reads an EXI unsigned integer: octets carrying seven value bits
// each, least significant group first, with the high bit set on every octet
// except the last. The result must fit in width bits.
func ReadUnsigned(r *bitstream.Reader, width int) (uint64, error) {
	if err := checkWidth(errors.PhaseDecode, width); err != nil {
		return 0, err
	}
	var result uint64
	var shift uint
	for {
		octet, err := r.ReadBits(8)
		if err != nil {
			return 0, err
		}
		chunk := uint64(octet & 0x7F)
		if chunk != 0 {
			if shift >= uint(width) || bits.Len64(chunk)+int(shift) > width {
				return 0, errors.New(errors.PhaseDecode, errors.KindOverflow).
					Bit(r.Position()).
					Detail("unsigned integer exceeds %d bits", width).
					Build()
			}
			result |= chunk << shift
		}
		if octet&0x80 == 0 {
			return result, nil
		}
		shift += 7
		// 64-bit values need at most ten octets; anything longer is malformed
		if shift > 63 {
			return 0, errors.New(errors.PhaseDecode, errors.KindOverflow).
				Bit(r.Position()).
				Detail("unsigned integer longer than ten octets").
				Build()
		}
	}
}

// ReadInteger reads an EXI integer: a sign bit followed by an unsigned
// magnitude. Negative values carry magnitude-1, so the value is -(m+1).
func ReadInteger(r *bitstream.Reader, width int) (int64, error) {
	if err := checkWidth(errors.PhaseDecode, width); err != nil {
		return 0, err
	}
	negative, err := r.ReadBit()
	if err != nil {
		return 0, err
	}
	m, err := ReadUnsigned(r, width)
	if err != nil {
		return 0, err
	}
	limit := uint64(1)<<(width-1) - 1
	if m > limit {
		return 0, errors.New(errors.PhaseDecode, errors.KindOverflow).
			Bit(r.Position()).
			Value(m).
			Detail("integer magnitude exceeds %d bits", width).
			Build()
	}
	if negative {
		return -int64(m) - 1, nil
	}
	return int64(m), nil
}

// ReadRestricted reads a bounded integer in [min, max] encoded as the n-bit
// offset from min, where n = BitsFor(max-min+1).
func ReadRestricted(r *bitstream.Reader, min, max int64) (int64, error) {
	span := uint64(max - min)
	raw, err := r.ReadBits(BitsFor(span + 1))
	if err != nil {
		return 0, err
	}
	if uint64(raw) > span {
		return 0, errors.New(errors.PhaseDecode, errors.KindValueOutOfRange).
			Bit(r.Position()).
			Value(raw).
			Detail("offset %d outside [%d, %d]", raw, min, max).
			Build()
	}
	return min + int64(raw), nil
}

// ReadString reads a length-prefixed character string of at most size characters.
// The prefix is the character count plus two; smaller prefixes address the
// string table, which this profile does not implement.
func ReadString(r *bitstream.Reader, size int) (string, error) {
	prefix, err := ReadUnsigned(r, 32)
	if err != nil {
		return "", err
	}
	if prefix < stringOffset {
		return "", errors.StringTableUnsupported(errors.PhaseDecode, nil, prefix)
	}
	n := prefix - stringOffset
	if n > uint64(size) {
		return "", errors.ArrayOutOfBounds(errors.PhaseDecode, nil, int(n), size)
	}
	// every character takes at least one octet
	if remaining := r.RemainingBits(); n*8 > uint64(remaining) {
		return "", errors.BufferExhausted(errors.PhaseDecode, r.Position(), int(n)*8, remaining)
	}

	buf := make([]byte, 0, n)
	for i := uint64(0); i < n; i++ {
		cp, err := ReadUnsigned(r, 32)
		if err != nil {
			return "", err
		}
		if cp > utf8.MaxRune || !utf8.ValidRune(rune(cp)) {
			return "", errors.New(errors.PhaseDecode, errors.KindValueOutOfRange).
				Bit(r.Position()).
				Value(cp).
				Detail("invalid code point U+%X", cp).
				Build()
		}
		buf = utf8.AppendRune(buf, rune(cp))
	}
	return string(buf), nil
}

// ReadBinary reads a length-prefixed octet sequence of at most size bytes.
func ReadBinary(r *bitstream.Reader, size int) ([]byte, error) {
	n, err := ReadUnsigned(r, 32)
	if err != nil {
		return nil, err
	}
	if n > uint64(size) {
		return nil, errors.ArrayOutOfBounds(errors.PhaseDecode, nil, int(n), size)
	}
	return r.ReadBytes(int(n))
}

// WriteNBit writes v as an n-bit unsigned integer.
func WriteNBit(w *bitstream.Writer, n int, v uint32) error {
	return w.WriteBits(n, v)
}

// WriteBool writes a single-bit boolean.
func WriteBool(w *bitstream.Writer, v bool) error {
	return w.WriteBit(v)
}

// WriteUnsigned writes v as an EXI unsigned integer. v must fit in width bits.
func WriteUnsigned(w *bitstream.Writer, width int, v uint64) error {
	if err := checkWidth(errors.PhaseEncode, width); err != nil {
		return err
	}
	if width < 64 && v>>width != 0 {
		return errors.Overflow(errors.PhaseEncode, nil, v, width)
	}
	for {
		octet := uint32(v & 0x7F)
		v >>= 7
		if v != 0 {
			octet |= 0x80
		}
		if err := w.WriteBits(8, octet); err != nil {
			return err
		}
		if v == 0 {
			return nil
		}
	}
}

// WriteInteger writes v as an EXI integer representable in width bits.
func WriteInteger(w *bitstream.Writer, width int, v int64) error {
	if err := checkWidth(errors.PhaseEncode, width); err != nil {
		return err
	}
	if width < 64 {
		lo, hi := -int64(1)<<(width-1), int64(1)<<(width-1)-1
		if v < lo || v > hi {
			return errors.Overflow(errors.PhaseEncode, nil, v, width)
		}
	}
	if v < 0 {
		if err := w.WriteBit(true); err != nil {
			return err
		}
		// -(v+1) cannot overflow, including for math.MinInt64
		return WriteUnsigned(w, width, uint64(-(v + 1)))
	}
	if err := w.WriteBit(false); err != nil {
		return err
	}
	return WriteUnsigned(w, width, uint64(v))
}

// WriteRestricted writes v in [min, max] as its n-bit offset from min.
func WriteRestricted(w *bitstream.Writer, min, max, v int64) error {
	if v < min || v > max {
		return errors.ValueOutOfRange(errors.PhaseEncode, nil, v, min, max)
	}
	span := uint64(max - min)
	return w.WriteBits(BitsFor(span+1), uint32(uint64(v-min)))
}

// WriteString writes s with a length prefix of its character count plus two.
func WriteString(w *bitstream.Writer, size int, s string) error {
	if !utf8.ValidString(s) {
		return errors.InvalidInput(errors.PhaseEncode, nil, "string is not valid UTF-8")
	}
	n := utf8.RuneCountInString(s)
	if n > size {
		return errors.ArrayOutOfBounds(errors.PhaseEncode, nil, n, size)
	}
	if err := WriteUnsigned(w, 32, uint64(n)+stringOffset); err != nil {
		return err
	}
	for _, c := range s {
		if err := WriteUnsigned(w, 32, uint64(c)); err != nil {
			return err
		}
	}
	return nil
}

// WriteBinary writes data with a plain octet-count prefix.
func WriteBinary(w *bitstream.Writer, size int, data []byte) error {
	if len(data) > size {
		return errors.ArrayOutOfBounds(errors.PhaseEncode, nil, len(data), size)
	}
	if uint64(len(data)) > math.MaxUint32 {
		return errors.Overflow(errors.PhaseEncode, nil, len(data), 32)
	}
	if err := WriteUnsigned(w, 32, uint64(len(data))); err != nil {
		return err
	}
	return w.WriteBytes(data)
}
