package wpt

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

// HexBinary is an xs:hexBinary value. Text forms use lowercase hex.
type HexBinary []byte

func (b HexBinary) String() string {
	return hex.EncodeToString(b)
}

func (b HexBinary) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *HexBinary) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("line %d: hexBinary: %w", n.Line, err)
	}
	*b = raw
	return nil
}

// Base64Binary is an xs:base64Binary value. Text forms use standard base64.
type Base64Binary []byte

func (b Base64Binary) String() string {
	return base64.StdEncoding.EncodeToString(b)
}

func (b Base64Binary) MarshalYAML() (any, error) {
	return b.String(), nil
}

func (b *Base64Binary) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return err
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return fmt.Errorf("line %d: base64Binary: %w", n.Line, err)
	}
	*b = raw
	return nil
}
