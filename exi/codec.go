package exi

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/internal/bitstream"
)

// Document is one EXI document: the selected root element and its record.
type Document struct {
	Element string
	// Code is the root event code. Encode uses it only when Element is empty.
	Code int
	// Body points to the Go struct bound to the root's grammar.
	Body any
}

// Codec decodes and encodes documents of one schema.
// Safe for concurrent use; every call owns its cursor and record.
type Codec struct {
	schema   *Schema
	roots    []*binding // by root code, nil when no Go type is bound
	compiler compiler
	opts     Options
}

// NewCodec binds Go types to the root elements of schema.
// bodies maps a root element name to a value or pointer of its Go struct type.
// Roots left out of bodies are refused at decode time.
func NewCodec(schema *Schema, bodies map[string]any, opts Options) (*Codec, error) {
	if schema == nil {
		return nil, errors.NilPointer(errors.PhaseBind, nil, "*exi.Schema")
	}
	c := &Codec{
		schema: schema,
		roots:  make([]*binding, len(schema.Roots)),
		opts:   opts,
	}
	for element, body := range bodies {
		code, ok := schema.Root(element)
		if !ok {
			return nil, errors.NotFound(errors.PhaseBind, "root element", element)
		}
		b, err := c.compiler.bind(schema.Roots[code].Type, reflect.TypeOf(body))
		if err != nil {
			return nil, err
		}
		c.roots[code] = b
	}
	return c, nil
}

// Schema returns the schema the codec was built for.
func (c *Codec) Schema() *Schema {
	return c.schema
}

// New allocates a zero body for a root element.
func (c *Codec) New(element string) (any, error) {
	code, ok := c.schema.Root(element)
	if !ok {
		return nil, errors.NotFound(errors.PhaseBind, "root element", element)
	}
	b := c.roots[code]
	if b == nil {
		return nil, errors.New(errors.PhaseBind, errors.KindNotFound).
			Path(element).
			Detail("no Go type bound").
			Build()
	}
	return reflect.New(b.goType).Interface(), nil
}

// ElementOf returns the root element whose Go type matches body.
func (c *Codec) ElementOf(body any) (string, bool) {
	t := reflect.TypeOf(body)
	if t == nil {
		return "", false
	}
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for code, b := range c.roots {
		if b != nil && b.goType == t {
			return c.schema.Roots[code].Element, true
		}
	}
	return "", false
}

// Decode reads one document: header, root event code, then the root's grammar.
// On error no document is returned.
func (c *Codec) Decode(buf []byte) (*Document, error) {
	doc, err := c.decode(buf)
	if err != nil {
		return nil, c.fail(opDecode, err)
	}
	c.opts.Metrics.observe(opDecode, doc.Element, len(buf))
	return doc, nil
}

func (c *Codec) decode(buf []byte) (*Document, error) {
	if err := c.checkSize(errors.PhaseDecode, len(buf)); err != nil {
		return nil, err
	}
	r := bitstream.NewReader(buf)
	if err := readHeader(r); err != nil {
		return nil, err
	}

	code, err := r.ReadBits(c.schema.RootBits)
	if err != nil {
		return nil, err
	}
	switch n := uint32(len(c.schema.Roots)); {
	case code == n:
		return nil, errors.UnknownEventForDecoding(errors.PhaseDecode, nil, "SE(*)")
	case code > n:
		return nil, errors.UnknownEventCode(errors.PhaseDecode, nil, code, 0)
	}

	root := c.schema.Roots[code]
	b := c.roots[code]
	if b == nil {
		return nil, errors.UnknownEventForDecoding(errors.PhaseDecode, []string{root.Element}, "root element without a Go type")
	}

	body := reflect.New(b.goType)
	d := decoder{r: r}
	if err := d.decodeType(b, body.Elem(), []string{root.Element}); err != nil {
		return nil, err
	}
	return &Document{Element: root.Element, Code: int(code), Body: body.Interface()}, nil
}

// Encode writes doc as a complete document with header.
func (c *Codec) Encode(doc *Document) ([]byte, error) {
	out, element, err := c.encode(doc)
	if err != nil {
		return nil, c.fail(opEncode, err)
	}
	c.opts.Metrics.observe(opEncode, element, len(out))
	return out, nil
}

func (c *Codec) encode(doc *Document) ([]byte, string, error) {
	if doc == nil {
		return nil, "", errors.NilPointer(errors.PhaseEncode, nil, "*exi.Document")
	}
	code := doc.Code
	if doc.Element != "" {
		var ok bool
		if code, ok = c.schema.Root(doc.Element); !ok {
			return nil, "", errors.NotFound(errors.PhaseEncode, "root element", doc.Element)
		}
	} else if code < 0 || code >= len(c.schema.Roots) {
		return nil, "", errors.InvalidInput(errors.PhaseEncode, nil, fmt.Sprintf("root code %d out of range", code))
	}

	root := c.schema.Roots[code]
	b := c.roots[code]
	if b == nil {
		return nil, "", errors.New(errors.PhaseEncode, errors.KindNotFound).
			Path(root.Element).
			Detail("no Go type bound").
			Build()
	}
	v, err := bodyValue(errors.PhaseEncode, doc.Body, b.goType, root.Element)
	if err != nil {
		return nil, "", err
	}

	w := c.newWriter()
	if err := writeHeader(w); err != nil {
		return nil, "", err
	}
	if err := w.WriteBits(c.schema.RootBits, uint32(code)); err != nil {
		return nil, "", err
	}
	e := encoder{w: w}
	if err := e.encodeType(b, v, []string{root.Element}); err != nil {
		return nil, "", err
	}
	return w.Bytes(), root.Element, nil
}

// DecodeType decodes a bare type body, without header or root event code,
// into out, which must point to a struct. out is left unchanged on error.
func (c *Codec) DecodeType(typeName string, buf []byte, out any) error {
	if err := c.decodeType(typeName, buf, out); err != nil {
		return c.fail(opDecode, err)
	}
	c.opts.Metrics.observe(opDecode, typeName, len(buf))
	return nil
}

func (c *Codec) decodeType(typeName string, buf []byte, out any) error {
	g, ok := c.schema.Type(typeName)
	if !ok {
		return errors.NotFound(errors.PhaseDecode, "type", typeName)
	}
	if err := c.checkSize(errors.PhaseDecode, len(buf)); err != nil {
		return err
	}
	v := reflect.ValueOf(out)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return errors.New(errors.PhaseDecode, errors.KindNilPointer).
			Path(typeName).
			Detail("output must be a non-nil pointer, got %T", out).
			Build()
	}
	b, err := c.compiler.bind(g, v.Type())
	if err != nil {
		return err
	}

	tmp := reflect.New(b.goType)
	d := decoder{r: bitstream.NewReader(buf)}
	if err := d.decodeType(b, tmp.Elem(), []string{typeName}); err != nil {
		return err
	}
	v.Elem().Set(tmp.Elem())
	return nil
}

// EncodeType encodes body as a bare type body, without header or root event code.
func (c *Codec) EncodeType(typeName string, body any) ([]byte, error) {
	out, err := c.encodeType(typeName, body)
	if err != nil {
		return nil, c.fail(opEncode, err)
	}
	c.opts.Metrics.observe(opEncode, typeName, len(out))
	return out, nil
}

func (c *Codec) encodeType(typeName string, body any) ([]byte, error) {
	g, ok := c.schema.Type(typeName)
	if !ok {
		return nil, errors.NotFound(errors.PhaseEncode, "type", typeName)
	}
	t := reflect.TypeOf(body)
	if t == nil {
		return nil, errors.NilPointer(errors.PhaseEncode, []string{typeName}, "nil")
	}
	b, err := c.compiler.bind(g, t)
	if err != nil {
		return nil, err
	}
	v, err := bodyValue(errors.PhaseEncode, body, b.goType, typeName)
	if err != nil {
		return nil, err
	}
	w := c.newWriter()
	e := encoder{w: w}
	if err := e.encodeType(b, v, []string{typeName}); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

func (c *Codec) newWriter() *bitstream.Writer {
	if c.opts.MaxDocumentSize > 0 {
		return bitstream.NewLimitedWriter(c.opts.MaxDocumentSize)
	}
	return bitstream.NewWriter()
}

func (c *Codec) checkSize(phase errors.Phase, n int) error {
	if c.opts.MaxDocumentSize > 0 && n > c.opts.MaxDocumentSize {
		return errors.New(phase, errors.KindInvalidInput).
			Value(n).
			Detail("document of %d bytes exceeds limit of %d", n, c.opts.MaxDocumentSize).
			Build()
	}
	return nil
}

func (c *Codec) fail(op string, err error) error {
	log := c.opts.Logger
	if log == nil {
		log = Logger()
	}
	log.Debug("exi "+op+" failed",
		zap.String("schema", c.schema.Name),
		zap.String("kind", string(errors.KindOf(err))),
		zap.Error(err))
	c.opts.Metrics.fail(op, err)
	return err
}

func bodyValue(phase errors.Phase, body any, want reflect.Type, name string) (reflect.Value, error) {
	v := reflect.ValueOf(body)
	if !v.IsValid() {
		return reflect.Value{}, errors.NilPointer(phase, []string{name}, "nil")
	}
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return reflect.Value{}, errors.NilPointer(phase, []string{name}, v.Type().String())
		}
		v = v.Elem()
	}
	if v.Type() != want {
		return reflect.Value{}, errors.TypeMismatch(phase, []string{name}, v.Type().String(), want.String())
	}
	return v, nil
}
