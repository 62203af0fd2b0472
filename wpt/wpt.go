package wpt

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/exi"
)

//go:embed schema/iso20_wpt.yaml
var schemaYAML []byte

var loadSchema = sync.OnceValues(func() (*exi.Schema, error) {
	return exi.LoadBytes(schemaYAML)
})

// Schema returns the compiled grammar tables. They are loaded once.
func Schema() (*exi.Schema, error) {
	return loadSchema()
}

// Element is a root element, numbered by its root event code.
type Element int

const (
	ElementCLReqControlMode Element = iota
	ElementCLResControlMode
	ElementCanonicalizationMethod
	ElementDSAKeyValue
	ElementDigestMethod
	ElementDigestValue
	ElementKeyInfo
	ElementKeyName
	ElementKeyValue
	ElementManifest
	ElementMgmtData
	ElementObject
	ElementPGPData
	ElementRSAKeyValue
	ElementReference
	ElementRetrievalMethod
	ElementSPKIData
	ElementSignature
	ElementSignatureMethod
	ElementSignatureProperties
	ElementSignatureProperty
	ElementSignatureValue
	ElementSignedInfo
	ElementTransform
	ElementTransforms
	ElementAlignmentCheckReq
	ElementAlignmentCheckRes
	ElementChargeLoopReq
	ElementChargeLoopRes
	ElementChargeParameterDiscoveryReq
	ElementChargeParameterDiscoveryRes
	ElementFinePositioningReq
	ElementFinePositioningRes
	ElementFinePositioningSetupReq
	ElementFinePositioningSetupRes
	ElementPairingReq
	ElementPairingRes
	ElementX509Data

	elementCount
)

// String returns the schema name of the element, such as WPT_ChargeLoopReq.
func (e Element) String() string {
	if s, err := Schema(); err == nil && e >= 0 && int(e) < len(s.Roots) {
		return s.Roots[e].Element
	}
	return fmt.Sprintf("Element(%d)", int(e))
}

// Elements returns every root element in event code order.
func Elements() []Element {
	out := make([]Element, elementCount)
	for i := range out {
		out[i] = Element(i)
	}
	return out
}

// ParseElement looks up an element by its schema name.
func ParseElement(name string) (Element, bool) {
	s, err := Schema()
	if err != nil {
		return 0, false
	}
	code, ok := s.Root(name)
	return Element(code), ok
}

var bodies = map[string]any{
	"CLReqControlMode":                CLReqControlMode{},
	"CLResControlMode":                CLResControlMode{},
	"CanonicalizationMethod":          CanonicalizationMethod{},
	"DSAKeyValue":                     DSAKeyValue{},
	"DigestMethod":                    DigestMethod{},
	"DigestValue":                     DigestValue{},
	"KeyInfo":                         KeyInfo{},
	"KeyName":                         KeyName{},
	"KeyValue":                        KeyValue{},
	"Manifest":                        Manifest{},
	"MgmtData":                        MgmtData{},
	"Object":                          Object{},
	"PGPData":                         PGPData{},
	"RSAKeyValue":                     RSAKeyValue{},
	"Reference":                       Reference{},
	"RetrievalMethod":                 RetrievalMethod{},
	"SPKIData":                        SPKIData{},
	"Signature":                       Signature{},
	"SignatureMethod":                 SignatureMethod{},
	"SignatureProperties":             SignatureProperties{},
	"SignatureProperty":               SignatureProperty{},
	"SignatureValue":                  SignatureValue{},
	"SignedInfo":                      SignedInfo{},
	"Transform":                       Transform{},
	"Transforms":                      Transforms{},
	"WPT_AlignmentCheckReq":           AlignmentCheckReq{},
	"WPT_AlignmentCheckRes":           AlignmentCheckRes{},
	"WPT_ChargeLoopReq":               ChargeLoopReq{},
	"WPT_ChargeLoopRes":               ChargeLoopRes{},
	"WPT_ChargeParameterDiscoveryReq": ChargeParameterDiscoveryReq{},
	"WPT_ChargeParameterDiscoveryRes": ChargeParameterDiscoveryRes{},
	"WPT_FinePositioningReq":          FinePositioningReq{},
	"WPT_FinePositioningRes":          FinePositioningRes{},
	"WPT_FinePositioningSetupReq":     FinePositioningSetupReq{},
	"WPT_FinePositioningSetupRes":     FinePositioningSetupRes{},
	"WPT_PairingReq":                  PairingReq{},
	"WPT_PairingRes":                  PairingRes{},
	"X509Data":                        X509Data{},
}

// Message is one decoded document. Body points to the record type of
// Element, for example *ChargeLoopReq for ElementChargeLoopReq.
type Message struct {
	Element Element
	Body    any
}

// BodyAs returns the body of m as *T when it holds one.
func BodyAs[T any](m *Message) (*T, bool) {
	if m == nil {
		return nil, false
	}
	switch b := m.Body.(type) {
	case *T:
		return b, b != nil
	case T:
		return &b, true
	}
	return nil, false
}

// Codec decodes and encodes WPT documents. Safe for concurrent use.
type Codec struct {
	exi *exi.Codec
}

// NewCodec builds a codec with the given options.
func NewCodec(opts exi.Options) (*Codec, error) {
	s, err := Schema()
	if err != nil {
		return nil, err
	}
	c, err := exi.NewCodec(s, bodies, opts)
	if err != nil {
		return nil, err
	}
	return &Codec{exi: c}, nil
}

var defaultCodec = sync.OnceValues(func() (*Codec, error) {
	return NewCodec(exi.DefaultOptions())
})

// Default returns the shared codec built with exi.DefaultOptions.
func Default() (*Codec, error) {
	return defaultCodec()
}

// EXI returns the underlying schema codec.
func (c *Codec) EXI() *exi.Codec {
	return c.exi
}

// Decode reads one document.
func (c *Codec) Decode(buf []byte) (*Message, error) {
	doc, err := c.exi.Decode(buf)
	if err != nil {
		return nil, err
	}
	return &Message{Element: Element(doc.Code), Body: doc.Body}, nil
}

// Encode writes m as a complete document. The root event code is m.Element.
func (c *Codec) Encode(m *Message) ([]byte, error) {
	if m == nil {
		return nil, errors.NilPointer(errors.PhaseEncode, nil, "*wpt.Message")
	}
	return c.exi.Encode(&exi.Document{Code: int(m.Element), Body: m.Body})
}

// NewMessage wraps a record, deriving the element from its Go type.
func (c *Codec) NewMessage(body any) (*Message, error) {
	name, ok := c.exi.ElementOf(body)
	if !ok {
		return nil, errors.New(errors.PhaseBind, errors.KindNotFound).
			GoType(fmt.Sprintf("%T", body)).
			Detail("no root element for Go type").
			Build()
	}
	code, _ := c.exi.Schema().Root(name)
	return &Message{Element: Element(code), Body: body}, nil
}

// New allocates an empty record for e.
func (c *Codec) New(e Element) (any, error) {
	return c.exi.New(e.String())
}

// EncodeSignedInfo encodes a SignedInfo body without header or root code.
// The result is the input of the signature digest.
func (c *Codec) EncodeSignedInfo(si *SignedInfo) ([]byte, error) {
	return c.exi.EncodeType("SignedInfoType", si)
}

// DecodeSignedInfo is the inverse of EncodeSignedInfo.
func (c *Codec) DecodeSignedInfo(buf []byte) (*SignedInfo, error) {
	var si SignedInfo
	if err := c.exi.DecodeType("SignedInfoType", buf, &si); err != nil {
		return nil, err
	}
	return &si, nil
}

// Decode reads one document with the default codec.
func Decode(buf []byte) (*Message, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Decode(buf)
}

// Encode writes m with the default codec.
func Encode(m *Message) ([]byte, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Encode(m)
}

// NewMessage wraps a record with the default codec.
func NewMessage(body any) (*Message, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.NewMessage(body)
}
