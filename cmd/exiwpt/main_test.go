package main

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	"github.com/wippyai/iso20-exi/wpt"
)

// Transform with Algorithm "abc" and no XPath.
const transformHex = "805c0ac2c4c700"

func writeInput(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in")
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDocumentBytes(t *testing.T) {
	want, _ := hex.DecodeString(transformHex)
	tests := []struct {
		name string
		in   []byte
	}{
		{"hex", []byte(transformHex)},
		{"spaced hex", []byte("80 5c 0a c2\nc4 c7 00\n")},
		{"prefixed hex", []byte("0x" + transformHex)},
		{"raw", want},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := documentBytes(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, want) {
				t.Errorf("documentBytes = %x, want %x", got, want)
			}
		})
	}

	if _, err := documentBytes([]byte(" \n")); err == nil {
		t.Error("expected an error for empty input")
	}
	if _, err := documentBytes([]byte("805")); err == nil {
		t.Error("expected an error for odd hex")
	}
}

func TestTreeLines(t *testing.T) {
	body := &wpt.PairingRes{
		Header:         wpt.MessageHeader{SessionID: wpt.HexBinary{0xab}, TimeStamp: 9},
		ResponseCode:   wpt.ResponseCodeOK,
		EVSEProcessing: wpt.ProcessingFinished,
	}
	want := []string{
		"WPT_PairingRes",
		"  Header",
		"    SessionID: ab",
		"    TimeStamp: 9",
		"  ResponseCode: OK",
		"  EVSEProcessing: Finished",
	}
	if diff := cmp.Diff(want, treeLines("WPT_PairingRes", body)); diff != "" {
		t.Errorf("treeLines (-want +got):\n%s", diff)
	}

	list := &wpt.Transforms{Transform: []wpt.Transform{{Algorithm: "a"}, {Algorithm: "b"}}}
	want = []string{
		"Transforms",
		"  Transform[0]",
		`    Algorithm: "a"`,
		"  Transform[1]",
		`    Algorithm: "b"`,
	}
	if diff := cmp.Diff(want, treeLines("Transforms", list)); diff != "" {
		t.Errorf("treeLines (-want +got):\n%s", diff)
	}
}

func TestRunDecode(t *testing.T) {
	path := writeInput(t, transformHex+"\n")

	var out bytes.Buffer
	if err := run(config{inFile: path}, zap.NewNop(), &out); err != nil {
		t.Fatal(err)
	}
	want := "Transform (code 23, 7 B)\n  Algorithm: \"abc\"\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}

	out.Reset()
	if err := run(config{inFile: path, asYAML: true}, zap.NewNop(), &out); err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"element: Transform", "algorithm: abc"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("YAML output lacks %q:\n%s", s, out.String())
		}
	}
}

func TestRunEncode(t *testing.T) {
	path := writeInput(t, "element: Transform\nbody:\n  algorithm: abc\n")

	var out bytes.Buffer
	if err := run(config{inFile: path, encode: true, hexOut: true}, zap.NewNop(), &out); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != transformHex {
		t.Errorf("hex output = %s, want %s", got, transformHex)
	}

	out.Reset()
	if err := run(config{inFile: path, encode: true}, zap.NewNop(), &out); err != nil {
		t.Fatal(err)
	}
	if got := hex.EncodeToString(out.Bytes()); got != transformHex {
		t.Errorf("binary output = %s, want %s", got, transformHex)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	codec, err := wpt.Default()
	if err != nil {
		t.Fatal(err)
	}
	code := uint32(1234)
	in := &wpt.Message{
		Element: wpt.ElementPairingRes,
		Body: &wpt.PairingRes{
			Header:         wpt.MessageHeader{SessionID: wpt.HexBinary{1, 2, 3, 4}, TimeStamp: 1700000000},
			ResponseCode:   wpt.ResponseCodeWarningStandbyNotAllowed,
			EVSEProcessing: wpt.ProcessingOngoing,
			ObservableCode: &code,
		},
	}

	text, err := marshalYAML(in)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := encodeYAML(codec, text)
	if err != nil {
		t.Fatalf("encodeYAML: %v\n%s", err, text)
	}
	back, err := codec.Decode(doc)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(in, back); diff != "" {
		t.Errorf("round trip (-want +got):\n%s", diff)
	}
}

func TestEncodeYAMLErrors(t *testing.T) {
	codec, err := wpt.Default()
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"not yaml", "element: [", "parse message"},
		{"unknown element", "element: WPT_Nope\n", "unknown element"},
		{"bad body", "element: WPT_PairingRes\nbody:\n  responsecode: Nope\n", "parse WPT_PairingRes body"},
		{"session id too long", "element: WPT_PairingRes\nbody:\n  header:\n    sessionid: 010203040506070809\n", "encode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeYAML(codec, []byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestListElements(t *testing.T) {
	codec, err := wpt.Default()
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if err := listElements(&out, codec); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != len(wpt.Elements()) {
		t.Fatalf("listed %d elements, want %d", len(lines), len(wpt.Elements()))
	}
	if !strings.HasPrefix(lines[27], "27  WPT_ChargeLoopReq") {
		t.Errorf("line 27 = %q", lines[27])
	}
}
