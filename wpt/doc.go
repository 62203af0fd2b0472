// Package wpt encodes and decodes ISO 15118-20 wireless power transfer
// messages and the XML signature fragments they embed.
//
// The grammar tables for all 38 global elements live in
// schema/iso20_wpt.yaml and are compiled once by Schema. Each element maps
// to a Go record type:
//
//	msg, err := wpt.Decode(buf)
//	if req, ok := wpt.BodyAs[wpt.ChargeLoopReq](msg); ok {
//		fmt.Println(req.EVPCPowerRequest)
//	}
//
//	msg, _ = wpt.NewMessage(&wpt.PairingRes{...})
//	buf, err = wpt.Encode(msg)
//
// Enumerations are small integer types with String and YAML forms. Binary
// values are HexBinary or Base64Binary so YAML stays readable.
//
// The package level functions share one Codec built with exi.DefaultOptions.
// Build a separate Codec with NewCodec to attach a logger or metrics.
package wpt
