package exi

import (
	"fmt"
	"reflect"

	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/internal/bitstream"
	"github.com/wippyai/iso20-exi/internal/datatype"
)

// encoder walks grammar tables in reverse, choosing events from record content.
type encoder struct {
	w *bitstream.Writer
}

// encodeType writes the record v by following the grammar of b.
// At each state the first event whose field still has unwritten content wins;
// EndElement is taken only when no such event exists.
func (e *encoder) encodeType(b *binding, v reflect.Value, path []string) error {
	g := b.grammar
	for i := range g.Fields {
		f := &g.Fields[i]
		if !f.IsArray() || b.fields[i].index == nil {
			continue
		}
		if n := v.FieldByIndex(b.fields[i].index).Len(); n > f.MaxOccurs {
			return errors.ArrayOutOfBounds(errors.PhaseEncode, appendPath(path, f.Name), f.MaxOccurs, f.MaxOccurs)
		}
	}

	written := make([]int, len(g.Fields))
	state := 0

	for {
		if state < 0 || state >= len(g.States) {
			return errors.UnknownGrammarState(errors.PhaseEncode, g.Name, state)
		}
		st := &g.States[state]

		code, ok := e.choose(b, v, st, written)
		if !ok {
			return errors.InvalidInput(errors.PhaseEncode, path,
				fmt.Sprintf("record content does not fit state %d of %s", state, g.Name))
		}
		if err := e.w.WriteBits(st.Bits, uint32(code)); err != nil {
			return errors.WithPath(err, path...)
		}

		ev := st.Events[code]
		debugf("encode %s state=%d code=%d kind=%s", g.Name, state, code, ev.Kind)

		if ev.Kind == EndElement {
			for i := range g.Fields {
				if pending(&g.Fields[i], &b.fields[i], v, written[i]) {
					return errors.InvalidInput(errors.PhaseEncode, appendPath(path, g.Fields[i].Name),
						"value cannot be written at this position")
				}
			}
			return nil
		}

		next, err := e.encodeParticle(b, v, ev, written, path)
		if err != nil {
			return err
		}
		state = next
	}
}

func (e *encoder) choose(b *binding, v reflect.Value, st *State, written []int) (int, bool) {
	end := -1
	for i, ev := range st.Events {
		switch ev.Kind {
		case EndElement:
			if end < 0 {
				end = i
			}
		case Reject:
			// wildcard content is never produced
		default:
			if pending(&b.grammar.Fields[ev.Field], &b.fields[ev.Field], v, written[ev.Field]) {
				return i, true
			}
		}
	}
	return end, end >= 0
}

// pending reports whether a field still has content to write.
// Mandatory singletons are pending until written; optional ones only when set.
func pending(f *Field, fb *fieldBinding, v reflect.Value, written int) bool {
	if fb.index == nil {
		return false
	}
	fv := v.FieldByIndex(fb.index)
	switch {
	case f.IsArray():
		return written < fv.Len()
	case f.Optional:
		return written == 0 && !fv.IsNil()
	default:
		return written == 0
	}
}

func (e *encoder) encodeParticle(b *binding, v reflect.Value, ev Event, written []int, path []string) (int, error) {
	f := &b.grammar.Fields[ev.Field]
	fb := &b.fields[ev.Field]
	fpath := appendPath(path, f.Name)
	fv := v.FieldByIndex(fb.index)

	item := fv
	switch {
	case f.IsArray():
		n := written[ev.Field]
		if n >= f.MaxOccurs {
			return 0, errors.ArrayOutOfBounds(errors.PhaseEncode, fpath, n, f.MaxOccurs)
		}
		item = fv.Index(n)
	case f.Optional:
		item = fv.Elem()
	}

	if err := e.encodeValue(f, fb, item, fpath); err != nil {
		return 0, err
	}
	written[ev.Field]++

	if ev.Kind == Loop && ev.Exit >= 0 && written[ev.Field] == f.MaxOccurs {
		return ev.Exit, nil
	}
	return ev.Next, nil
}

func (e *encoder) encodeValue(f *Field, fb *fieldBinding, v reflect.Value, path []string) error {
	if f.Value == ValueNested {
		return e.encodeType(fb.nested, v, path)
	}

	if f.Form == FormElement {
		// CH
		if err := e.w.WriteBit(false); err != nil {
			return errors.WithPath(err, path...)
		}
	}
	if err := e.writeSimple(f, v); err != nil {
		return errors.WithPath(err, path...)
	}
	if f.Form == FormElement {
		// EE
		if err := e.w.WriteBit(false); err != nil {
			return errors.WithPath(err, path...)
		}
	}
	return nil
}

func (e *encoder) writeSimple(f *Field, v reflect.Value) error {
	switch f.Value {
	case ValueBoolean:
		return datatype.WriteBool(e.w, v.Bool())
	case ValueUnsigned:
		return datatype.WriteUnsigned(e.w, f.Width, v.Uint())
	case ValueInteger:
		return datatype.WriteInteger(e.w, f.Width, v.Int())
	case ValueNBit, ValueEnum:
		x, ok := getInt(v)
		if !ok {
			return errors.ValueOutOfRange(errors.PhaseEncode, nil, v.Uint(), f.Min, f.Max)
		}
		return datatype.WriteRestricted(e.w, f.Min, f.Max, x)
	case ValueString:
		return datatype.WriteString(e.w, f.Size, v.String())
	case ValueBinary:
		return datatype.WriteBinary(e.w, f.Size, v.Bytes())
	}
	return errors.InvalidInput(errors.PhaseEncode, nil, f.Value.String()+" values cannot be encoded")
}
