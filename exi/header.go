package exi

import (
	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/internal/bitstream"
)

// header is the only EXI header this profile accepts: distinguishing bits 10,
// no options, final version 1. No cookie.
const header = 0x80

func readHeader(r *bitstream.Reader) error {
	v, err := r.ReadBits(8)
	if err != nil {
		return err
	}
	if v != header {
		return errors.HeaderIncorrect(v)
	}
	return nil
}

func writeHeader(w *bitstream.Writer) error {
	return w.WriteBits(8, header)
}
