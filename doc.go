// Package iso20exi is an EXI codec for ISO 15118-20 wireless power transfer
// messages.
//
// The library is organized into several packages with distinct responsibilities:
//
//	iso20exi/
//	├── exi/                 Grammar tables, loader and the table-driven codec
//	├── wpt/                 WPT message types and the embedded schema tables
//	├── errors/              Structured error types
//	├── internal/bitstream/  Bit-packed reader and writer
//	├── internal/datatype/   EXI value encodings
//	└── cmd/exiwpt/          Command line decoder, encoder and inspector
//
// # Quick Start
//
// Decode a document:
//
//	msg, err := wpt.Decode(buf)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(msg.Element) // WPT_ChargeLoopReq
//
// Encode one:
//
//	msg, err := wpt.NewMessage(&wpt.PairingReq{
//	    Header:       wpt.MessageHeader{SessionID: id, TimeStamp: now},
//	    EVProcessing: wpt.ProcessingFinished,
//	})
//	buf, err := wpt.Encode(msg)
//
// # Errors
//
// Every failure is an *errors.Error. Use errors.KindOf to branch on the
// violated rule:
//
//	if errors.KindOf(err) == errors.KindBufferExhausted {
//	    // wait for more bytes
//	}
//
// # Observability
//
// The codec logs through zap and counts documents with Prometheus. Both are
// off by default and enabled through exi.Options.
package iso20exi
