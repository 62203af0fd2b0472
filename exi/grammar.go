package exi

import "fmt"

// StateEnd is the terminal pseudo-state reached through an EndElement event.
const StateEnd = -1

// ValueType identifies the EXI datatype representation of a simple value.
type ValueType uint8

const (
	ValueNested ValueType = iota // complex content, see Field.Type
	ValueBoolean
	ValueUnsigned // EXI unsigned integer of Field.Width logical bits
	ValueInteger  // EXI integer of Field.Width logical bits
	ValueNBit     // restricted integer in [Field.Min, Field.Max]
	ValueEnum     // enumeration index, a restricted integer with Min 0
	ValueString
	ValueBinary
	ValueAny // wildcard content, never decoded
)

var valueTypeNames = map[ValueType]string{
	ValueNested:   "nested",
	ValueBoolean:  "boolean",
	ValueUnsigned: "unsigned",
	ValueInteger:  "integer",
	ValueNBit:     "nbit",
	ValueEnum:     "enum",
	ValueString:   "string",
	ValueBinary:   "binary",
	ValueAny:      "any",
}

func (v ValueType) String() string {
	if s, ok := valueTypeNames[v]; ok {
		return s
	}
	return fmt.Sprintf("ValueType(%d)", uint8(v))
}

// Form describes how a simple value is framed in the stream.
type Form uint8

const (
	// FormElement values are wrapped in a one-bit CH event and a one-bit EE event.
	FormElement Form = iota
	// FormAttribute values follow their event code directly.
	FormAttribute
	// FormContent is the character content of a simple-content type.
	FormContent
)

func (f Form) String() string {
	switch f {
	case FormElement:
		return "element"
	case FormAttribute:
		return "attribute"
	case FormContent:
		return "content"
	}
	return fmt.Sprintf("Form(%d)", uint8(f))
}

// Field is one particle of a type: an attribute, element or content value.
type Field struct {
	Name  string
	Value ValueType
	// Type is the nested grammar for ValueNested fields.
	Type     *Grammar
	TypeName string

	Width    int    // unsigned and integer
	Min, Max int64  // nbit and enum
	Enum     string // enumeration name, shared by fields of the same simple type
	Values   []string
	Size     int // maximum characters or octets

	Form      Form
	Optional  bool
	MaxOccurs int // above 1 for bounded arrays
}

// IsArray reports whether the field is a bounded repetition.
func (f *Field) IsArray() bool {
	return f.MaxOccurs > 1
}

// EventKind is the action taken for an event.
type EventKind uint8

const (
	StartValue EventKind = iota
	StartNested
	EndElement
	Loop
	// Reject marks a structurally legal event whose content is refused.
	Reject
)

func (k EventKind) String() string {
	switch k {
	case StartValue:
		return "StartValue"
	case StartNested:
		return "StartNested"
	case EndElement:
		return "EndElement"
	case Loop:
		return "Loop"
	case Reject:
		return "Reject"
	}
	return fmt.Sprintf("EventKind(%d)", uint8(k))
}

// Event is one legal transition of a state. The event code is its index.
type Event struct {
	Kind  EventKind
	Field int // index into Grammar.Fields, -1 for EndElement
	Next  int
	// Exit is the state taken by a Loop once the array holds MaxOccurs items,
	// -1 when the loop has no forced exit.
	Exit int
}

// State is one grammar state. Bits covers every event plus the escape code.
type State struct {
	Bits   int
	Events []Event
}

// Grammar is the compiled, immutable automaton of one schema type.
// State 0 is the entry state.
type Grammar struct {
	Name   string
	Fields []Field
	States []State
}

// Field returns the index of the named field, or -1.
func (g *Grammar) Field(name string) int {
	for i := range g.Fields {
		if g.Fields[i].Name == name {
			return i
		}
	}
	return -1
}

func (g *Grammar) String() string {
	return g.Name
}

// Root is a global element that may start a document.
type Root struct {
	Element string
	Type    *Grammar
}

// Schema is a set of grammars plus the document root list.
// The root event code is the index into Roots.
type Schema struct {
	Name     string
	Roots    []Root
	RootBits int

	types map[string]*Grammar
	order []*Grammar
	enums map[string][]string
}

// Type returns the grammar with the given name.
func (s *Schema) Type(name string) (*Grammar, bool) {
	g, ok := s.types[name]
	return g, ok
}

// Types returns every grammar in declaration order.
func (s *Schema) Types() []*Grammar {
	return s.order
}

// Enum returns the values of a named enumeration, indexed by their encoding.
func (s *Schema) Enum(name string) ([]string, bool) {
	v, ok := s.enums[name]
	return v, ok
}

// Root returns the event code of a root element.
func (s *Schema) Root(element string) (int, bool) {
	for i, r := range s.Roots {
		if r.Element == element {
			return i, true
		}
	}
	return 0, false
}
