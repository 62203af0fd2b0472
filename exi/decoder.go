package exi

import (
	"reflect"

	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/internal/bitstream"
	"github.com/wippyai/iso20-exi/internal/datatype"
)

// decoder walks grammar tables over one input stream.
type decoder struct {
	r *bitstream.Reader
}

// decodeType runs the grammar of b from its entry state into the struct v.
// v must be addressable and zero.
func (d *decoder) decodeType(b *binding, v reflect.Value, path []string) error {
	g := b.grammar
	seen := make([]bool, len(g.Fields))
	state := 0

	for {
		if state < 0 || state >= len(g.States) {
			return errors.UnknownGrammarState(errors.PhaseDecode, g.Name, state)
		}
		st := &g.States[state]

		pos := d.r.Position()
		code, err := d.r.ReadBits(st.Bits)
		if err != nil {
			return errors.WithPath(err, path...)
		}
		switch n := uint32(len(st.Events)); {
		case code == n:
			return errors.UnsupportedSubEvent(errors.PhaseDecode, path)
		case code > n:
			return errors.UnknownEventCode(errors.PhaseDecode, path, code, state)
		}

		ev := st.Events[code]
		debugf("decode %s state=%d code=%d kind=%s bit=%d", g.Name, state, code, ev.Kind, pos)

		switch ev.Kind {
		case EndElement:
			return nil
		case Reject:
			return errors.UnknownEventForDecoding(errors.PhaseDecode,
				appendPath(path, g.Fields[ev.Field].Name), "wildcard content")
		}

		next, err := d.decodeParticle(b, v, ev, seen, path)
		if err != nil {
			return err
		}
		state = next
	}
}

func (d *decoder) decodeParticle(b *binding, v reflect.Value, ev Event, seen []bool, path []string) (int, error) {
	f := &b.grammar.Fields[ev.Field]
	fb := &b.fields[ev.Field]
	fpath := appendPath(path, f.Name)
	fv := v.FieldByIndex(fb.index)

	if f.IsArray() {
		items := vector{v: fv, max: f.MaxOccurs}
		if ev.Kind == Loop && items.Len() == items.max {
			return 0, errors.ArrayOutOfBounds(errors.PhaseDecode, fpath, items.Len(), items.max)
		}
		item, err := items.push(fpath)
		if err != nil {
			return 0, err
		}
		if err := d.decodeValue(f, fb, item, fpath); err != nil {
			return 0, err
		}
		if ev.Kind == Loop && ev.Exit >= 0 && items.Len() == items.max {
			return ev.Exit, nil
		}
		return ev.Next, nil
	}

	if seen[ev.Field] {
		return 0, errors.ArrayOutOfBounds(errors.PhaseDecode, fpath, 1, 1)
	}
	seen[ev.Field] = true

	target := fv
	if f.Optional {
		p := reflect.New(fb.elem)
		fv.Set(p)
		target = p.Elem()
	}
	if err := d.decodeValue(f, fb, target, fpath); err != nil {
		return 0, err
	}
	return ev.Next, nil
}

func (d *decoder) decodeValue(f *Field, fb *fieldBinding, v reflect.Value, path []string) error {
	if f.Value == ValueNested {
		return d.decodeType(fb.nested, v, path)
	}

	if f.Form == FormElement {
		ch, err := d.r.ReadBit()
		if err != nil {
			return errors.WithPath(err, path...)
		}
		if ch {
			return errors.UnsupportedSubEvent(errors.PhaseDecode, path)
		}
	}

	if err := d.readSimple(f, v); err != nil {
		return errors.WithPath(err, path...)
	}

	if f.Form == FormElement {
		ee, err := d.r.ReadBit()
		if err != nil {
			return errors.WithPath(err, path...)
		}
		if ee {
			return errors.DeviantNotSupported(errors.PhaseDecode, path)
		}
	}
	return nil
}

func (d *decoder) readSimple(f *Field, v reflect.Value) error {
	switch f.Value {
	case ValueBoolean:
		x, err := datatype.ReadBool(d.r)
		if err != nil {
			return err
		}
		v.SetBool(x)
	case ValueUnsigned:
		x, err := datatype.ReadUnsigned(d.r, f.Width)
		if err != nil {
			return err
		}
		v.SetUint(x)
	case ValueInteger:
		x, err := datatype.ReadInteger(d.r, f.Width)
		if err != nil {
			return err
		}
		v.SetInt(x)
	case ValueNBit, ValueEnum:
		x, err := datatype.ReadRestricted(d.r, f.Min, f.Max)
		if err != nil {
			return err
		}
		setInt(v, x)
	case ValueString:
		x, err := datatype.ReadString(d.r, f.Size)
		if err != nil {
			return err
		}
		v.SetString(x)
	case ValueBinary:
		x, err := datatype.ReadBinary(d.r, f.Size)
		if err != nil {
			return err
		}
		v.SetBytes(x)
	default:
		return errors.UnknownEventForDecoding(errors.PhaseDecode, nil, f.Value.String()+" value")
	}
	return nil
}

// vector is a bounded view over a slice field. push fails once max items are held.
type vector struct {
	v   reflect.Value
	max int
}

func (a vector) Len() int {
	return a.v.Len()
}

// push appends a zero item and returns it for filling in place.
func (a vector) push(path []string) (reflect.Value, error) {
	n := a.v.Len()
	if n >= a.max {
		return reflect.Value{}, errors.ArrayOutOfBounds(errors.PhaseDecode, path, n, a.max)
	}
	a.v.Set(reflect.Append(a.v, reflect.Zero(a.v.Type().Elem())))
	return a.v.Index(n), nil
}
