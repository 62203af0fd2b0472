package exi

import (
	"bytes"
	stderrors "errors"
	"reflect"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/internal/bitstream"
)

func TestDecode(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())

	tests := []struct {
		name    string
		bits    string
		element string
		want    any
	}{
		{
			name:    "rational",
			bits:    hdr + "000" + rationalBits,
			element: "Rational",
			want:    &rational{Exponent: -5, Value: 5},
		},
		{
			name:    "transform without optionals",
			bits:    hdr + "001" + "0 00000101 01100001 01100010 01100011" + "10",
			element: "Transform",
			want:    &transform{Algorithm: "abc"},
		},
		{
			name:    "transform with xpath",
			bits:    hdr + "001" + "0 00000011 01111000" + "00 0 00000011 01111001 0" + "0",
			element: "Transform",
			want:    &transform{Algorithm: "x", XPath: ptr("y")},
		},
		{
			name:    "empty",
			bits:    hdr + "011" + "0",
			element: "Empty",
			want:    &empty{},
		},
		{
			name:    "array at max with forced exit",
			bits:    hdr + "100" + "0 0 00000001 0" + "00 0 00000010 0" + "0",
			element: "Pair",
			want:    &pair{Item: []uint8{1, 2}},
		},
		{
			name:    "array below max",
			bits:    hdr + "100" + "0 0 00000001 0" + "01",
			element: "Pair",
			want:    &pair{Item: []uint8{1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := c.Decode(fromBits(t, tt.bits))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if doc.Element != tt.element {
				t.Errorf("Element = %q, want %q", doc.Element, tt.element)
			}
			if diff := cmp.Diff(tt.want, doc.Body); diff != "" {
				t.Errorf("body mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestArrayBounds(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())
	keys := func(n int) string {
		s := hdr + "010" + "01" + rationalZero
		for i := 1; i < n; i++ {
			s += "00" + rationalZero
		}
		return s + "10"
	}

	doc, err := c.Decode(fromBits(t, keys(3)))
	if err != nil {
		t.Fatalf("exactly max occurrences: %v", err)
	}
	if n := len(doc.Body.(*keyList).Key); n != 3 {
		t.Errorf("decoded %d keys, want 3", n)
	}

	_, err = c.Decode(fromBits(t, keys(4)))
	if !errors.HasKind(err, errors.KindArrayOutOfBounds) {
		t.Fatalf("max+1 occurrences: expected array_out_of_bounds, got %v", err)
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if !reflect.DeepEqual(e.Path, []string{"Keys", "Key"}) {
		t.Errorf("error path = %v, want [Keys Key]", e.Path)
	}

	_, err = c.Encode(&Document{Element: "Keys", Body: &keyList{Key: make([]rational, 4)}})
	if !errors.HasKind(err, errors.KindArrayOutOfBounds) {
		t.Errorf("encode max+1: expected array_out_of_bounds, got %v", err)
	}
	_, err = c.Encode(&Document{Element: "Pair", Body: &pair{Item: []uint8{1, 2, 3}}})
	if !errors.HasKind(err, errors.KindArrayOutOfBounds) {
		t.Errorf("encode past forced exit: expected array_out_of_bounds, got %v", err)
	}
}

func TestDecodeErrors(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())

	tests := []struct {
		name string
		buf  []byte
		kind errors.Kind
	}{
		{"empty buffer", nil, errors.KindBufferExhausted},
		{"wrong header", []byte{0x81, 0x00}, errors.KindHeaderIncorrect},
		{"header with options", []byte{0xA0, 0x00}, errors.KindHeaderIncorrect},
		{"root escape", fromBits(t, hdr+"101"), errors.KindUnknownEventForDecoding},
		{"root beyond escape", fromBits(t, hdr+"110"), errors.KindUnknownEventCode},
		{"wildcard", fromBits(t, hdr+"001"+"0 00000011 01111000"+"01"), errors.KindUnknownEventForDecoding},
		{"state escape", fromBits(t, hdr+"001"+"0 00000011 01111000"+"11"), errors.KindUnsupportedSubEvent},
		{"code beyond escape", fromBits(t, hdr+"010"+"11"), errors.KindUnknownEventCode},
		{"second level CH", fromBits(t, hdr+"000"+"0 1"), errors.KindUnsupportedSubEvent},
		{"deviant EE", fromBits(t, hdr+"000"+"0 0 01111011 1"), errors.KindDeviantNotSupported},
		{"string table hit", fromBits(t, hdr+"001"+"0 00000001"), errors.KindStringTableUnsupported},
		{"string too long", fromBits(t, hdr+"001"+"0 01000100 00000001"), errors.KindArrayOutOfBounds},
		{"empty escape", fromBits(t, hdr+"011"+"1"), errors.KindUnsupportedSubEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := c.Decode(tt.buf)
			if !errors.HasKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if doc != nil {
				t.Error("document returned alongside an error")
			}
		})
	}
}

func TestErrorPath(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())
	_, err := c.Decode(fromBits(t, hdr+"001"+"0 00000011 01111000"+"01"))
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if diff := cmp.Diff([]string{"Transform", "ANY"}, e.Path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}
	if e.Phase != errors.PhaseDecode {
		t.Errorf("Phase = %s, want decode", e.Phase)
	}
}

func TestRoundTrip(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())

	docs := []*Document{
		{Element: "Rational", Body: &rational{Exponent: -128, Value: -32768}},
		{Element: "Rational", Body: &rational{Exponent: 127, Value: 32767}},
		{Element: "Transform", Body: &transform{Algorithm: "http://www.w3.org/TR/1999/REC-xpath-19991116"}},
		{Element: "Transform", Body: &transform{Algorithm: "a", XPath: ptr("")}},
		{Element: "Keys", Body: &keyList{ID: ptr("k1"), Key: []rational{{Exponent: 3, Value: -1}}}},
		{Element: "Keys", Body: &keyList{Key: []rational{{}, {Exponent: -3}, {Value: 1000}}, Flag: ptr(true)}},
		{Element: "Keys", Body: &keyList{Key: []rational{{}}, Flag: ptr(false)}},
		{Element: "Empty", Body: &empty{}},
		{Element: "Pair", Body: &pair{Item: []uint8{255}}},
		{Element: "Pair", Body: &pair{Item: []uint8{0, 7}}},
		{Code: 3, Body: &empty{}},
	}

	for _, doc := range docs {
		buf, err := c.Encode(doc)
		if err != nil {
			t.Fatalf("Encode %s: %v", doc.Element, err)
		}
		got, err := c.Decode(buf)
		if err != nil {
			t.Fatalf("Decode %s: %v", doc.Element, err)
		}
		if got.Code != rootCode(t, c, doc) {
			t.Errorf("Code = %d", got.Code)
		}
		if diff := cmp.Diff(doc.Body, got.Body); diff != "" {
			t.Errorf("%s round trip mismatch (-want +got):\n%s", got.Element, diff)
		}

		// every truncated prefix must fail cleanly
		for n := 0; n < len(buf); n++ {
			if _, err := c.Decode(buf[:n]); !errors.HasKind(err, errors.KindBufferExhausted) {
				t.Fatalf("%s truncated to %d of %d bytes: expected buffer_exhausted, got %v", got.Element, n, len(buf), err)
			}
		}
	}
}

func rootCode(t *testing.T, c *Codec, doc *Document) int {
	t.Helper()
	if doc.Element == "" {
		return doc.Code
	}
	code, ok := c.schema.Root(doc.Element)
	if !ok {
		t.Fatalf("unknown root %s", doc.Element)
	}
	return code
}

func TestEncodeBitExact(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())

	tests := []struct {
		name string
		doc  *Document
		bits string
	}{
		{"rational", &Document{Element: "Rational", Body: &rational{Exponent: -5, Value: 5}}, hdr + "000" + rationalBits},
		{"transform", &Document{Element: "Transform", Body: &transform{Algorithm: "abc"}}, hdr + "001" + "0 00000101 01100001 01100010 01100011" + "10"},
		{"pair at max", &Document{Element: "Pair", Body: pair{Item: []uint8{1, 2}}}, hdr + "100" + "0 0 00000001 0" + "00 0 00000010 0" + "0"},
		{"empty", &Document{Element: "Empty", Body: empty{}}, hdr + "011" + "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Encode(tt.doc)
			if err != nil {
				t.Fatal(err)
			}
			if want := fromBits(t, tt.bits); !bytes.Equal(got, want) {
				t.Errorf("got % x, want % x", got, want)
			}
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())

	tests := []struct {
		name string
		doc  *Document
		kind errors.Kind
	}{
		{"nil document", nil, errors.KindNilPointer},
		{"nil body", &Document{Element: "Rational"}, errors.KindNilPointer},
		{"nil pointer body", &Document{Element: "Rational", Body: (*rational)(nil)}, errors.KindNilPointer},
		{"unknown root", &Document{Element: "Nope", Body: &empty{}}, errors.KindNotFound},
		{"root code out of range", &Document{Code: 9, Body: &empty{}}, errors.KindInvalidInput},
		{"wrong body type", &Document{Element: "Rational", Body: &empty{}}, errors.KindTypeMismatch},
		{"missing mandatory array", &Document{Element: "Keys", Body: &keyList{}}, errors.KindInvalidInput},
		{"string too long", &Document{Element: "Transform", Body: &transform{Algorithm: strings66()}}, errors.KindArrayOutOfBounds},
		{"invalid utf8", &Document{Element: "Transform", Body: &transform{Algorithm: "\xff"}}, errors.KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := c.Encode(tt.doc)
			if !errors.HasKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			if out != nil {
				t.Error("output returned alongside an error")
			}
		})
	}
}

func strings66() string {
	return string(bytes.Repeat([]byte{'a'}, 66))
}

func TestNewCodecErrors(t *testing.T) {
	s := loadTestSchema(t)

	type badExponent struct {
		Exponent string
		Value    int16
	}
	type wideValue struct {
		Exponent int8
		Value    int32
	}
	type narrowExponent struct {
		Exponent uint8
		Value    int16
	}
	type missingValue struct {
		Exponent int8
	}
	type plainXPath struct {
		Algorithm string
		XPath     string
	}
	type singleKey struct {
		ID   *string `exi:"Id"`
		Key  rational
		Flag *bool
	}

	tests := []struct {
		name   string
		bodies map[string]any
		kind   errors.Kind
	}{
		{"unknown root", map[string]any{"Nope": empty{}}, errors.KindNotFound},
		{"string for nbit", map[string]any{"Rational": badExponent{}}, errors.KindTypeMismatch},
		{"wrong integer width", map[string]any{"Rational": wideValue{}}, errors.KindTypeMismatch},
		{"unsigned cannot hold negative range", map[string]any{"Rational": narrowExponent{}}, errors.KindTypeMismatch},
		{"missing field", map[string]any{"Rational": missingValue{}}, errors.KindNotFound},
		{"optional needs pointer", map[string]any{"Transform": plainXPath{}}, errors.KindTypeMismatch},
		{"array needs slice", map[string]any{"Keys": singleKey{}}, errors.KindTypeMismatch},
		{"non struct body", map[string]any{"Empty": 5}, errors.KindTypeMismatch},
		{"nil body", map[string]any{"Empty": nil}, errors.KindNilPointer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCodec(s, tt.bodies, DefaultOptions())
			if !errors.HasKind(err, tt.kind) {
				t.Fatalf("expected %s, got %v", tt.kind, err)
			}
			var e *errors.Error
			if stderrors.As(err, &e) && e.Phase != errors.PhaseBind {
				t.Errorf("Phase = %s, want bind", e.Phase)
			}
		})
	}

	// The array check must fire on Key itself, after Id binds.
	_, err := NewCodec(s, map[string]any{"Keys": singleKey{}}, DefaultOptions())
	var e *errors.Error
	if !stderrors.As(err, &e) || len(e.Path) == 0 || e.Path[len(e.Path)-1] != "Key" {
		t.Errorf("array needs slice: want error at Key, got %v", err)
	}

	if _, err := NewCodec(nil, nil, DefaultOptions()); !errors.HasKind(err, errors.KindNilPointer) {
		t.Errorf("nil schema: expected nil_pointer, got %v", err)
	}
}

func TestUnboundRoot(t *testing.T) {
	c, err := NewCodec(loadTestSchema(t), map[string]any{"Empty": empty{}}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Decode(fromBits(t, hdr+"000"+rationalBits))
	if !errors.HasKind(err, errors.KindUnknownEventForDecoding) {
		t.Errorf("expected unknown_event_for_decoding, got %v", err)
	}
	if _, err := c.New("Rational"); !errors.HasKind(err, errors.KindNotFound) {
		t.Errorf("New on unbound root: expected not_found, got %v", err)
	}
	if _, err := c.Encode(&Document{Element: "Rational", Body: &rational{}}); !errors.HasKind(err, errors.KindNotFound) {
		t.Errorf("Encode on unbound root: expected not_found, got %v", err)
	}
}

func TestNewAndElementOf(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())

	body, err := c.New("Keys")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := body.(*keyList); !ok {
		t.Fatalf("New(Keys) = %T, want *keyList", body)
	}

	tests := []struct {
		body any
		want string
		ok   bool
	}{
		{&keyList{}, "Keys", true},
		{transform{}, "Transform", true},
		{&struct{}{}, "", false},
		{nil, "", false},
	}
	for _, tt := range tests {
		got, ok := c.ElementOf(tt.body)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ElementOf(%T) = %q, %v; want %q, %v", tt.body, got, ok, tt.want, tt.ok)
		}
	}
}

func TestTypeFragments(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())

	buf, err := c.EncodeType("RationalNumberType", &rational{Exponent: -5, Value: 5})
	if err != nil {
		t.Fatal(err)
	}
	if want := fromBits(t, rationalBits); !bytes.Equal(buf, want) {
		t.Errorf("EncodeType: got % x, want % x", buf, want)
	}

	var got rational
	if err := c.DecodeType("RationalNumberType", buf, &got); err != nil {
		t.Fatal(err)
	}
	if got != (rational{Exponent: -5, Value: 5}) {
		t.Errorf("DecodeType = %+v", got)
	}

	// output stays untouched on failure
	keep := rational{Exponent: 1, Value: 1}
	if err := c.DecodeType("RationalNumberType", buf[:1], &keep); !errors.HasKind(err, errors.KindBufferExhausted) {
		t.Errorf("expected buffer_exhausted, got %v", err)
	}
	if keep != (rational{Exponent: 1, Value: 1}) {
		t.Errorf("output modified on error: %+v", keep)
	}

	if err := c.DecodeType("Nope", buf, &got); !errors.HasKind(err, errors.KindNotFound) {
		t.Errorf("unknown type: expected not_found, got %v", err)
	}
	if err := c.DecodeType("RationalNumberType", buf, got); !errors.HasKind(err, errors.KindNilPointer) {
		t.Errorf("non-pointer output: expected nil_pointer, got %v", err)
	}
	if _, err := c.EncodeType("RationalNumberType", nil); !errors.HasKind(err, errors.KindNilPointer) {
		t.Errorf("nil body: expected nil_pointer, got %v", err)
	}
}

func TestSingletonRecurrence(t *testing.T) {
	g := &Grammar{
		Name:   "RepeatType",
		Fields: []Field{{Name: "Flag", Value: ValueBoolean}},
		States: []State{
			{Events: []Event{
				{Kind: StartValue, Field: 0, Next: 0, Exit: -1},
				{Kind: EndElement, Field: -1, Next: StateEnd, Exit: -1},
			}},
		},
	}
	s, err := NewSchema("repeat", []Root{{Element: "Repeat", Type: g}}, []*Grammar{g})
	if err != nil {
		t.Fatalf("NewSchema: %v", err)
	}
	if g.States[0].Bits != 2 {
		t.Errorf("computed Bits = %d, want 2", g.States[0].Bits)
	}

	type repeat struct{ Flag bool }
	c, err := NewCodec(s, map[string]any{"Repeat": repeat{}}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	var out repeat
	if err := c.DecodeType("RepeatType", fromBits(t, "00 0 1 0  01"), &out); err != nil || !out.Flag {
		t.Fatalf("single occurrence: %+v, %v", out, err)
	}
	err = c.DecodeType("RepeatType", fromBits(t, "00 0 1 0  00 0 1 0  01"), &out)
	if !errors.HasKind(err, errors.KindArrayOutOfBounds) {
		t.Errorf("recurrence: expected array_out_of_bounds, got %v", err)
	}
}

func TestUnknownGrammarState(t *testing.T) {
	// bypasses NewSchema, which would reject the dangling transition
	g := &Grammar{
		Name:   "BrokenType",
		Fields: []Field{{Name: "Flag", Value: ValueBoolean}},
		States: []State{
			{Bits: 1, Events: []Event{{Kind: StartValue, Field: 0, Next: 5, Exit: -1}}},
		},
	}
	type broken struct{ Flag bool }

	var comp compiler
	b, err := comp.bind(g, reflect.TypeOf(broken{}))
	if err != nil {
		t.Fatal(err)
	}

	d := decoder{r: bitstream.NewReader(fromBits(t, "0 0 1 0"))}
	v := reflect.New(b.goType).Elem()
	if err := d.decodeType(b, v, []string{"Broken"}); !errors.HasKind(err, errors.KindUnknownGrammarState) {
		t.Errorf("decode: expected unknown_grammar_state, got %v", err)
	}

	e := encoder{w: bitstream.NewWriter()}
	if err := e.encodeType(b, reflect.ValueOf(broken{Flag: true}), []string{"Broken"}); !errors.HasKind(err, errors.KindUnknownGrammarState) {
		t.Errorf("encode: expected unknown_grammar_state, got %v", err)
	}
}

func TestBindingCache(t *testing.T) {
	s := loadTestSchema(t)
	g, _ := s.Type("KeyListType")

	var comp compiler
	a, err := comp.bind(g, reflect.TypeOf(&keyList{}))
	if err != nil {
		t.Fatal(err)
	}
	b, err := comp.bind(g, reflect.TypeOf(keyList{}))
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("pointer and value types should share one binding")
	}
	if a.fields[1].nested == nil || a.fields[1].nested.goType != reflect.TypeOf(rational{}) {
		t.Error("nested binding not compiled")
	}
}

func TestMaxDocumentSize(t *testing.T) {
	c := newTestCodec(t, Options{MaxDocumentSize: 2})

	if _, err := c.Decode(make([]byte, 3)); !errors.HasKind(err, errors.KindInvalidInput) {
		t.Errorf("oversized input: expected invalid_input, got %v", err)
	}
	if _, err := c.Encode(&Document{Element: "Rational", Body: &rational{}}); !errors.HasKind(err, errors.KindBufferExhausted) {
		t.Errorf("oversized output: expected buffer_exhausted, got %v", err)
	}
	if _, err := c.Encode(&Document{Element: "Empty", Body: &empty{}}); err != nil {
		t.Errorf("small document: %v", err)
	}
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	c := newTestCodec(t, Options{Metrics: m})

	buf := fromBits(t, hdr+"000"+rationalBits)
	if _, err := c.Decode(buf); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decode([]byte{0x00}); err == nil {
		t.Fatal("expected header error")
	}
	if _, err := c.Encode(&Document{Element: "Empty", Body: &empty{}}); err != nil {
		t.Fatal(err)
	}

	checks := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"decoded rational", m.documents.WithLabelValues(opDecode, "Rational"), 1},
		{"encoded empty", m.documents.WithLabelValues(opEncode, "Empty"), 1},
		{"header failures", m.failures.WithLabelValues(opDecode, string(errors.KindHeaderIncorrect)), 1},
	}
	for _, chk := range checks {
		if got := testutil.ToFloat64(chk.c); got != chk.want {
			t.Errorf("%s = %v, want %v", chk.name, got, chk.want)
		}
	}
	if n := testutil.CollectAndCount(m.size); n != 2 {
		t.Errorf("size histograms = %d, want 2", n)
	}

	var nilMetrics *Metrics
	nilMetrics.observe(opDecode, "x", 1)
	nilMetrics.fail(opDecode, errors.HeaderIncorrect(0))
}

func TestFailureLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	c := newTestCodec(t, Options{Logger: zap.New(core)})

	if _, err := c.Decode([]byte{0x00}); err == nil {
		t.Fatal("expected error")
	}
	entries := logs.FilterMessage("exi decode failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if kind := entries[0].ContextMap()["kind"]; kind != string(errors.KindHeaderIncorrect) {
		t.Errorf("logged kind = %v", kind)
	}
}

func TestPackageLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	c := newTestCodec(t, DefaultOptions())
	if _, err := c.Decode(nil); err == nil {
		t.Fatal("expected error")
	}
	if logs.Len() != 1 {
		t.Errorf("package logger got %d entries, want 1", logs.Len())
	}
	SetLogger(nil)
	if Logger() == nil {
		t.Error("Logger() must never be nil")
	}
}

func TestTrace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	SetTrace(true)
	defer func() {
		SetTrace(false)
		SetLogger(nil)
	}()

	c := newTestCodec(t, DefaultOptions())
	if _, err := c.Decode(fromBits(t, hdr+"000"+rationalBits)); err != nil {
		t.Fatal(err)
	}
	// three events of RationalNumberType
	if n := logs.FilterMessageSnippet("decode RationalNumberType").Len(); n != 3 {
		t.Errorf("traced %d events, want 3", n)
	}
}

func TestConcurrentDecode(t *testing.T) {
	c := newTestCodec(t, DefaultOptions())
	inputs := [][]byte{
		fromBits(t, hdr+"000"+rationalBits),
		fromBits(t, hdr+"100"+"0 0 00000001 0"+"01"),
		fromBits(t, hdr+"011"+"0"),
	}

	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if _, err := c.Decode(inputs[(i+j)%len(inputs)]); err != nil {
					errs <- err
					return
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
