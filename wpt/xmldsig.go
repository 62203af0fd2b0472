package wpt

// XML signature records. Wildcard content is not representable and is
// refused by the decoder, so the ANY particles have no field here.

type CanonicalizationMethod struct {
	Algorithm string
}

type DigestMethod struct {
	Algorithm string
}

type DSAKeyValue struct {
	P           *Base64Binary
	Q           *Base64Binary
	G           *Base64Binary
	Y           Base64Binary
	J           *Base64Binary
	Seed        *Base64Binary
	PgenCounter *Base64Binary
}

// DigestValue is the standalone DigestValue element.
type DigestValue struct {
	Value Base64Binary `exi:"CONTENT"`
}

// KeyInfo carries exactly one key hint.
type KeyInfo struct {
	ID              *string `exi:"Id"`
	KeyName         *string
	KeyValue        *KeyValue
	RetrievalMethod *RetrievalMethod
	X509Data        *X509Data
	PGPData         *PGPData
	SPKIData        *SPKIData
	MgmtData        *string
}

// KeyName is the standalone KeyName element.
type KeyName struct {
	Value string `exi:"CONTENT"`
}

// KeyValue holds one of the key value forms.
type KeyValue struct {
	DSAKeyValue *DSAKeyValue
	RSAKeyValue *RSAKeyValue
}

type Manifest struct {
	ID        *string `exi:"Id"`
	Reference []Reference
}

// MgmtData is the standalone MgmtData element.
type MgmtData struct {
	Value string `exi:"CONTENT"`
}

type Object struct {
	Encoding *string
	ID       *string `exi:"Id"`
	MimeType *string
}

// PGPData holds a key ID, a key packet, or both.
type PGPData struct {
	PGPKeyID     *Base64Binary
	PGPKeyPacket *Base64Binary
}

type RSAKeyValue struct {
	Modulus  Base64Binary
	Exponent Base64Binary
}

type Reference struct {
	ID           *string `exi:"Id"`
	Type         *string
	URI          *string
	Transforms   *Transforms
	DigestMethod DigestMethod
	DigestValue  Base64Binary
}

type RetrievalMethod struct {
	Type       *string
	URI        *string
	Transforms *Transforms
}

type SPKIData struct {
	SPKISexp Base64Binary
}

type Signature struct {
	ID             *string `exi:"Id"`
	SignedInfo     SignedInfo
	SignatureValue SignatureValue
	KeyInfo        *KeyInfo
	Object         *Object
}

type SignatureMethod struct {
	Algorithm        string
	HMACOutputLength *int64
}

type SignatureProperties struct {
	ID                *string `exi:"Id"`
	SignatureProperty SignatureProperty
}

type SignatureProperty struct {
	ID     *string `exi:"Id"`
	Target string
}

type SignatureValue struct {
	ID    *string      `exi:"Id"`
	Value Base64Binary `exi:"CONTENT"`
}

// SignedInfo is the signed part of a Signature. Its EXI body is the input
// of the signature digest, see EncodeSignedInfo.
type SignedInfo struct {
	ID                     *string `exi:"Id"`
	CanonicalizationMethod CanonicalizationMethod
	SignatureMethod        SignatureMethod
	Reference              []Reference
}

type Transform struct {
	Algorithm string
	XPath     *string
}

type Transforms struct {
	Transform []Transform
}

// X509Data holds one certificate reference.
type X509Data struct {
	X509IssuerSerial *X509IssuerSerial
	X509SKI          *Base64Binary
	X509SubjectName  *string
	X509Certificate  *Base64Binary
	X509CRL          *Base64Binary
}

type X509IssuerSerial struct {
	X509IssuerName   string
	X509SerialNumber int64
}
