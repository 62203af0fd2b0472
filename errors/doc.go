// Package errors provides structured error types for the EXI codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (which
// rule was violated). The Error type carries the element path, the Go and
// schema type names, the bit position and the cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindValueOutOfRange).
//		Path("WPT_ChargeLoopReq", "EVPCChargeDiagnostics").
//		SchemaType("chargeDiagnosticsType").
//		Bit(212).
//		Detail("enumeration index %d", 9).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.BufferExhausted(errors.PhaseDecode, bit, 8, 3)
//	err := errors.ArrayOutOfBounds(errors.PhaseDecode, path, 256, 255)
//
// All errors implement the standard error interface and support errors.Is/As.
// KindOf extracts the Kind from any error chain.
package errors
