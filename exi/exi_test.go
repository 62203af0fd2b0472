package exi

import (
	"strings"
	"testing"

	"github.com/wippyai/iso20-exi/internal/bitstream"
)

const testSchema = `
schema: test
roots:
  - {element: Rational, type: RationalNumberType}
  - {element: Transform, type: TransformType}
  - {element: Keys, type: KeyListType}
  - {element: Empty, type: EmptyType}
  - {element: Pair, type: PairType}
types:
  - name: RationalNumberType
    fields:
      - {name: Exponent, value: nbit, min: -128, max: 127}
      - {name: Value, value: integer, width: 16}
    states:
      - [{start: Exponent, next: 1}]
      - [{start: Value, next: 2}]
      - [{end: true}]
  - name: TransformType
    fields:
      - {name: Algorithm, value: string, size: 65, form: attribute}
      - {name: XPath, value: string, size: 32, optional: true}
      - {name: ANY, value: any, optional: true}
    states:
      - [{start: Algorithm, next: 1}]
      - [{start: XPath, next: 2}, {start: ANY, next: 2}, {end: true}]
      - [{end: true}]
  - name: KeyListType
    fields:
      - {name: Id, value: string, size: 16, form: attribute, optional: true}
      - {name: Key, type: RationalNumberType, maxOccurs: 3}
      - {name: Flag, value: boolean, optional: true}
    states:
      - [{start: Id, next: 1}, {start: Key, next: 2}]
      - [{start: Key, next: 2}]
      - [{loop: Key, next: 2}, {start: Flag, next: 3}, {end: true}]
      - [{end: true}]
  - name: EmptyType
    states:
      - [{end: true}]
  - name: PairType
    fields:
      - {name: Item, value: unsigned, width: 8, maxOccurs: 2}
    states:
      - [{start: Item, next: 1}]
      - [{loop: Item, next: 1, exit: 2}, {end: true}]
      - [{end: true}]
`

type rational struct {
	Exponent int8
	Value    int16
}

type transform struct {
	Algorithm string
	XPath     *string
}

type keyList struct {
	ID   *string `exi:"Id"`
	Key  []rational
	Flag *bool
}

type empty struct{}

type pair struct {
	Item []uint8
}

var testBodies = map[string]any{
	"Rational":  rational{},
	"Transform": (*transform)(nil),
	"Keys":      keyList{},
	"Empty":     empty{},
	"Pair":      pair{},
}

func loadTestSchema(t *testing.T) *Schema {
	t.Helper()
	s, err := LoadBytes([]byte(testSchema))
	if err != nil {
		t.Fatalf("load test schema: %v", err)
	}
	return s
}

func newTestCodec(t *testing.T, opts Options) *Codec {
	t.Helper()
	c, err := NewCodec(loadTestSchema(t), testBodies, opts)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return c
}

// fromBits packs a string of 0 and 1 into octets. Spaces are ignored.
func fromBits(t *testing.T, s string) []byte {
	t.Helper()
	w := bitstream.NewWriter()
	for _, c := range strings.ReplaceAll(s, " ", "") {
		switch c {
		case '0':
			_ = w.WriteBit(false)
		case '1':
			_ = w.WriteBit(true)
		default:
			t.Fatalf("bad bit %q", c)
		}
	}
	return w.Bytes()
}

func ptr[T any](v T) *T {
	return &v
}

// Bit strings for the test schema. The root event code takes 3 bits.
const (
	hdr = "10000000"
	// Rational{-5, 5}: Exponent raw 123, Value sign 0 magnitude 5.
	rationalBits = "0 0 01111011 0  0 0 0 00000101 0  0"
	// Rational{0, 0}
	rationalZero = "0 0 10000000 0  0 0 0 00000000 0  0"
)
