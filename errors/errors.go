package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLoad   Phase = "load"   // grammar table loading and validation
	PhaseBind   Phase = "bind"   // Go type binding
	PhaseDecode Phase = "decode" // EXI to Go
	PhaseEncode Phase = "encode" // Go to EXI
)

// Kind categorizes the error
type Kind string

const (
	KindBufferExhausted         Kind = "buffer_exhausted"
	KindUnknownEventCode        Kind = "unknown_event_code"
	KindUnknownGrammarState     Kind = "unknown_grammar_state"
	KindArrayOutOfBounds        Kind = "array_out_of_bounds"
	KindStringTableUnsupported  Kind = "string_table_unsupported"
	KindUnsupportedSubEvent     Kind = "unsupported_sub_event"
	KindDeviantNotSupported     Kind = "deviant_not_supported"
	KindUnknownEventForDecoding Kind = "unknown_event_for_decoding"
	KindHeaderIncorrect         Kind = "header_incorrect"
	KindOverflow                Kind = "overflow"
	KindValueOutOfRange         Kind = "value_out_of_range"
	KindTypeMismatch            Kind = "type_mismatch"
	KindInvalidInput            Kind = "invalid_input"
	KindInvalidSchema           Kind = "invalid_schema"
	KindNotFound                Kind = "not_found"
	KindNilPointer              Kind = "nil_pointer"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value      any
	Cause      error
	Phase      Phase
	Kind       Kind
	GoType     string
	SchemaType string
	Detail     string
	Path       []string
	// Bit is the stream position in bits, zero when unknown.
	Bit int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Bit > 0 {
		b.WriteString(" (bit ")
		b.WriteString(fmt.Sprint(e.Bit))
		b.WriteByte(')')
	}

	if e.GoType != "" || e.SchemaType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.SchemaType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", schema type ")
			b.WriteString(e.SchemaType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("schema type ")
			b.WriteString(e.SchemaType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.SchemaType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HasKind reports whether err carries the given Kind, regardless of phase.
func HasKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// SchemaType sets the schema type name
func (b *Builder) SchemaType(t string) *Builder {
	b.err.SchemaType = t
	return b
}

// Bit sets the stream position
func (b *Builder) Bit(pos int) *Builder {
	b.err.Bit = pos
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for the codec taxonomy

// BufferExhausted creates an error for a read or write past the end of the buffer
func BufferExhausted(phase Phase, bit, want, remaining int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBufferExhausted,
		Bit:    bit,
		Detail: fmt.Sprintf("need %d bits, %d remaining", want, remaining),
	}
}

// UnknownEventCode creates an error for an event code with no mapping at a state
func UnknownEventCode(phase Phase, path []string, code uint32, state int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownEventCode,
		Path:   path,
		Detail: fmt.Sprintf("event code %d not defined in state %d", code, state),
		Value:  code,
	}
}

// UnknownGrammarState creates an error for a state id absent from the table
func UnknownGrammarState(phase Phase, schemaType string, state int) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindUnknownGrammarState,
		SchemaType: schemaType,
		Detail:     fmt.Sprintf("state %d not in grammar", state),
		Value:      state,
	}
}

// ArrayOutOfBounds creates an error for an occurrence beyond the declared maximum
func ArrayOutOfBounds(phase Phase, path []string, index, max int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindArrayOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d exceeds maximum occurrence %d", index, max),
		Value:  index,
	}
}

// StringTableUnsupported creates an error for a string table reference
func StringTableUnsupported(phase Phase, path []string, prefix uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindStringTableUnsupported,
		Path:   path,
		Detail: fmt.Sprintf("length prefix %d references the string table", prefix),
		Value:  prefix,
	}
}

// UnsupportedSubEvent creates an error for a second-level event code
func UnsupportedSubEvent(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedSubEvent,
		Path:   path,
		Detail: "second level event code",
	}
}

// DeviantNotSupported creates an error for a schema deviation after a value
func DeviantNotSupported(phase Phase, path []string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDeviantNotSupported,
		Path:   path,
		Detail: "expected end element after value",
	}
}

// UnknownEventForDecoding creates an error for a legal event this build refuses
func UnknownEventForDecoding(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownEventForDecoding,
		Path:   path,
		Detail: what + " is not accepted",
	}
}

// HeaderIncorrect creates an error for an unexpected EXI header
func HeaderIncorrect(value uint32) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindHeaderIncorrect,
		Detail: fmt.Sprintf("header 0x%02x, want 0x80", value),
		Value:  value,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, width int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Detail: fmt.Sprintf("value %v overflows %d bits", value, width),
		Value:  value,
	}
}

// ValueOutOfRange creates an error for a value outside a restricted range
func ValueOutOfRange(phase Phase, path []string, value any, min, max int64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindValueOutOfRange,
		Path:   path,
		Detail: fmt.Sprintf("value %v outside [%d, %d]", value, min, max),
		Value:  value,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, schemaType string) *Error {
	return &Error{
		Phase:      phase,
		Kind:       KindTypeMismatch,
		Path:       path,
		GoType:     goType,
		SchemaType: schemaType,
	}
}

// NilPointer creates a nil pointer error
func NilPointer(phase Phase, path []string, goType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNilPointer,
		Path:   path,
		GoType: goType,
		Detail: "nil pointer",
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Path:   path,
		Detail: detail,
	}
}

// InvalidSchema creates a grammar table validation error
func InvalidSchema(schemaType, detail string) *Error {
	return &Error{
		Phase:      PhaseLoad,
		Kind:       KindInvalidSchema,
		SchemaType: schemaType,
		Detail:     detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns err with path prepended when err is an *Error.
// Other errors are returned unchanged.
func WithPath(err error, path ...string) error {
	var e *Error
	if !errors.As(err, &e) {
		return err
	}
	e.Path = append(append([]string(nil), path...), e.Path...)
	return e
}
