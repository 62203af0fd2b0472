package exi

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/iso20-exi/errors"
	"github.com/wippyai/iso20-exi/internal/datatype"
)

// schemaFile is the YAML form of a set of grammar tables.
type schemaFile struct {
	Schema string     `yaml:"schema"`
	Enums  []enumSpec `yaml:"enums"`
	Roots  []rootSpec `yaml:"roots"`
	Types  []typeSpec `yaml:"types"`
}

type enumSpec struct {
	Name   string   `yaml:"name"`
	Values []string `yaml:"values"`
}

type rootSpec struct {
	Element string `yaml:"element"`
	Type    string `yaml:"type"`
}

type typeSpec struct {
	Name   string        `yaml:"name"`
	Fields []fieldSpec   `yaml:"fields"`
	States [][]eventSpec `yaml:"states"`
	// Bits optionally pins the event code width of every state.
	Bits []int `yaml:"bits"`
}

type fieldSpec struct {
	Name      string   `yaml:"name"`
	Value     string   `yaml:"value"`
	Type      string   `yaml:"type"`
	Width     int      `yaml:"width"`
	Min       *int64   `yaml:"min"`
	Max       *int64   `yaml:"max"`
	Size      int      `yaml:"size"`
	Enum      string   `yaml:"enum"`
	Values    []string `yaml:"values"`
	Form      string   `yaml:"form"`
	Optional  bool     `yaml:"optional"`
	MaxOccurs int      `yaml:"maxOccurs"`
}

type eventSpec struct {
	Start string `yaml:"start"`
	Loop  string `yaml:"loop"`
	End   bool   `yaml:"end"`
	Next  *int   `yaml:"next"`
	Exit  *int   `yaml:"exit"`
}

// Load reads YAML grammar tables and returns the validated schema.
// Unknown keys are rejected.
func Load(r io.Reader) (*Schema, error) {
	var file schemaFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, errors.Wrap(errors.PhaseLoad, errors.KindInvalidSchema, err, "decode grammar tables")
	}
	return file.build()
}

// LoadBytes is Load over an in-memory document.
func LoadBytes(data []byte) (*Schema, error) {
	return Load(bytes.NewReader(data))
}

func (f *schemaFile) build() (*Schema, error) {
	enums := make(map[string][]string, len(f.Enums))
	for _, es := range f.Enums {
		if es.Name == "" || enums[es.Name] != nil {
			return nil, errors.InvalidSchema("", fmt.Sprintf("enumeration %q is empty or duplicated", es.Name))
		}
		if len(es.Values) == 0 {
			return nil, errors.InvalidSchema("", fmt.Sprintf("enumeration %q has no values", es.Name))
		}
		enums[es.Name] = es.Values
	}

	byName := make(map[string]*Grammar, len(f.Types))
	types := make([]*Grammar, 0, len(f.Types))

	// allocate first so nested references resolve in any order
	for _, ts := range f.Types {
		if ts.Name == "" {
			return nil, errors.InvalidSchema("", "type without name")
		}
		if _, dup := byName[ts.Name]; dup {
			return nil, errors.InvalidSchema(ts.Name, "duplicate type")
		}
		g := &Grammar{Name: ts.Name}
		byName[ts.Name] = g
		types = append(types, g)
	}

	for i := range f.Types {
		if err := f.Types[i].fill(types[i], byName, enums); err != nil {
			return nil, err
		}
	}

	roots := make([]Root, 0, len(f.Roots))
	for _, rs := range f.Roots {
		g, ok := byName[rs.Type]
		if !ok {
			return nil, errors.InvalidSchema(rs.Type, fmt.Sprintf("root element %q references an unknown type", rs.Element))
		}
		roots = append(roots, Root{Element: rs.Element, Type: g})
	}

	return NewSchema(f.Schema, roots, types)
}

func (ts *typeSpec) fill(g *Grammar, types map[string]*Grammar, enums map[string][]string) error {
	g.Fields = make([]Field, len(ts.Fields))
	for i := range ts.Fields {
		f, err := ts.Fields[i].field(g, types, enums)
		if err != nil {
			return err
		}
		g.Fields[i] = f
	}

	if len(ts.Bits) > 0 && len(ts.Bits) != len(ts.States) {
		return errors.InvalidSchema(g.Name, fmt.Sprintf("%d bit widths for %d states", len(ts.Bits), len(ts.States)))
	}

	g.States = make([]State, len(ts.States))
	for si, specs := range ts.States {
		st := State{Events: make([]Event, len(specs))}
		if len(ts.Bits) > 0 {
			st.Bits = ts.Bits[si]
		}
		for ei := range specs {
			ev, err := specs[ei].event(g, si)
			if err != nil {
				return err
			}
			st.Events[ei] = ev
		}
		g.States[si] = st
	}
	return nil
}

func (fs *fieldSpec) field(g *Grammar, types map[string]*Grammar, enums map[string][]string) (Field, error) {
	f := Field{
		Name:      fs.Name,
		TypeName:  fs.Type,
		Width:     fs.Width,
		Size:      fs.Size,
		Enum:      fs.Enum,
		Values:    fs.Values,
		Optional:  fs.Optional,
		MaxOccurs: fs.MaxOccurs,
	}

	switch {
	case fs.Type != "" && fs.Value != "":
		return f, errors.InvalidSchema(g.Name, fmt.Sprintf("field %s: value and type are exclusive", fs.Name))
	case fs.Type != "":
		nested, ok := types[fs.Type]
		if !ok {
			return f, errors.InvalidSchema(g.Name, fmt.Sprintf("field %s: unknown type %q", fs.Name, fs.Type))
		}
		f.Value = ValueNested
		f.Type = nested
	default:
		vt, ok := parseValueType(fs.Value)
		if !ok {
			return f, errors.InvalidSchema(g.Name, fmt.Sprintf("field %s: unknown value type %q", fs.Name, fs.Value))
		}
		f.Value = vt
	}

	if fs.Enum != "" {
		if f.Value != ValueEnum || len(fs.Values) > 0 {
			return f, errors.InvalidSchema(g.Name, fmt.Sprintf("field %s: enum reference needs value enum and no inline values", fs.Name))
		}
		values, ok := enums[fs.Enum]
		if !ok {
			return f, errors.InvalidSchema(g.Name, fmt.Sprintf("field %s: unknown enumeration %q", fs.Name, fs.Enum))
		}
		f.Values = values
	}

	if f.Value == ValueNBit {
		if fs.Min == nil || fs.Max == nil {
			return f, errors.InvalidSchema(g.Name, fmt.Sprintf("field %s: nbit requires min and max", fs.Name))
		}
		f.Min, f.Max = *fs.Min, *fs.Max
	}

	switch fs.Form {
	case "", "element":
		f.Form = FormElement
	case "attribute":
		f.Form = FormAttribute
	case "content":
		f.Form = FormContent
	default:
		return f, errors.InvalidSchema(g.Name, fmt.Sprintf("field %s: unknown form %q", fs.Name, fs.Form))
	}
	return f, nil
}

func (es *eventSpec) event(g *Grammar, state int) (Event, error) {
	invalid := func(detail string) error {
		return errors.InvalidSchema(g.Name, fmt.Sprintf("state %d: %s", state, detail))
	}

	set := 0
	for _, ok := range []bool{es.Start != "", es.Loop != "", es.End} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return Event{}, invalid("event needs exactly one of start, loop, end")
	}

	if es.End {
		if es.Next != nil || es.Exit != nil {
			return Event{}, invalid("end event takes no transition")
		}
		return Event{Kind: EndElement, Field: -1, Next: StateEnd, Exit: -1}, nil
	}

	name := es.Start
	if es.Loop != "" {
		name = es.Loop
	}
	idx := g.Field(name)
	if idx < 0 {
		return Event{}, invalid(fmt.Sprintf("unknown field %q", name))
	}
	if es.Next == nil {
		return Event{}, invalid(fmt.Sprintf("event %s without next", name))
	}

	ev := Event{Field: idx, Next: *es.Next, Exit: -1}
	switch f := &g.Fields[idx]; {
	case f.Value == ValueAny:
		ev.Kind = Reject
	case es.Loop != "":
		ev.Kind = Loop
	case f.Value == ValueNested:
		ev.Kind = StartNested
	default:
		ev.Kind = StartValue
	}
	if es.Exit != nil {
		if ev.Kind != Loop {
			return Event{}, invalid(fmt.Sprintf("exit on non-loop event %s", name))
		}
		ev.Exit = *es.Exit
	}
	return ev, nil
}

func parseValueType(s string) (ValueType, bool) {
	for vt, name := range valueTypeNames {
		if name == s && vt != ValueNested {
			return vt, true
		}
	}
	return 0, false
}

// NewSchema validates grammars and roots and returns the finished schema.
// Zero state widths are filled in; non-zero widths must match the event count.
// Every grammar reachable from a root or field must be listed in types.
func NewSchema(name string, roots []Root, types []*Grammar) (*Schema, error) {
	s := &Schema{
		Name:  name,
		types: make(map[string]*Grammar, len(types)),
		order: types,
		enums: make(map[string][]string),
	}
	for _, g := range types {
		if g == nil || g.Name == "" {
			return nil, errors.InvalidSchema("", "unnamed grammar")
		}
		if _, dup := s.types[g.Name]; dup {
			return nil, errors.InvalidSchema(g.Name, "duplicate type")
		}
		s.types[g.Name] = g
	}

	for _, g := range types {
		if err := s.validate(g); err != nil {
			return nil, err
		}
	}

	if len(roots) == 0 {
		return nil, errors.InvalidSchema("", "schema has no root elements")
	}
	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		if r.Element == "" || seen[r.Element] {
			return nil, errors.InvalidSchema("", fmt.Sprintf("root element %q is empty or duplicated", r.Element))
		}
		seen[r.Element] = true
		if r.Type == nil || s.types[r.Type.Name] != r.Type {
			return nil, errors.InvalidSchema("", fmt.Sprintf("root element %q has an unregistered type", r.Element))
		}
	}
	s.Roots = roots
	// one extra code for SE(*)
	s.RootBits = datatype.BitsFor(uint64(len(roots)) + 1)
	return s, nil
}

func (s *Schema) validate(g *Grammar) error {
	invalid := func(format string, args ...any) error {
		return errors.InvalidSchema(g.Name, fmt.Sprintf(format, args...))
	}

	names := make(map[string]bool, len(g.Fields))
	for i := range g.Fields {
		f := &g.Fields[i]
		if f.Name == "" || names[f.Name] {
			return invalid("field %d: empty or duplicate name %q", i, f.Name)
		}
		names[f.Name] = true
		if err := s.validateField(g, f); err != nil {
			return err
		}
	}

	if len(g.States) == 0 {
		return invalid("no states")
	}

	used := make([]bool, len(g.Fields))
	hasEnd := false
	for si := range g.States {
		st := &g.States[si]
		if len(st.Events) == 0 {
			return invalid("state %d has no events", si)
		}
		bits := datatype.BitsFor(uint64(len(st.Events)) + 1)
		if st.Bits == 0 {
			st.Bits = bits
		} else if st.Bits != bits {
			return invalid("state %d declares %d bits, %d events need %d", si, st.Bits, len(st.Events), bits)
		}

		for ei, ev := range st.Events {
			if ev.Kind == EndElement {
				if ev.Field != -1 || ev.Next != StateEnd {
					return invalid("state %d event %d: end element must target the end state", si, ei)
				}
				hasEnd = true
				continue
			}
			if ev.Field < 0 || ev.Field >= len(g.Fields) {
				return invalid("state %d event %d: field %d out of range", si, ei, ev.Field)
			}
			if ev.Next < 0 || ev.Next >= len(g.States) {
				return invalid("state %d event %d: next state %d out of range", si, ei, ev.Next)
			}
			f := &g.Fields[ev.Field]
			used[ev.Field] = true
			switch ev.Kind {
			case Reject:
				if f.Value != ValueAny {
					return invalid("state %d event %d: reject on typed field %s", si, ei, f.Name)
				}
			case Loop:
				if !f.IsArray() {
					return invalid("state %d event %d: loop on singleton %s", si, ei, f.Name)
				}
			case StartNested:
				if f.Value != ValueNested {
					return invalid("state %d event %d: nested start on simple field %s", si, ei, f.Name)
				}
			case StartValue:
				if f.Value == ValueNested || f.Value == ValueAny {
					return invalid("state %d event %d: value start on %s field %s", si, ei, f.Value, f.Name)
				}
			default:
				return invalid("state %d event %d: unknown kind %s", si, ei, ev.Kind)
			}
			if ev.Exit != -1 && (ev.Kind != Loop || ev.Exit < 0 || ev.Exit >= len(g.States)) {
				return invalid("state %d event %d: bad exit %d", si, ei, ev.Exit)
			}
		}
	}
	if !hasEnd {
		return invalid("no end element event")
	}
	for i, ok := range used {
		if !ok {
			return invalid("field %s is not referenced by any event", g.Fields[i].Name)
		}
	}
	if unreachable := g.unreachable(); unreachable >= 0 {
		return invalid("state %d is unreachable", unreachable)
	}
	return nil
}

func (s *Schema) validateField(g *Grammar, f *Field) error {
	invalid := func(format string, args ...any) error {
		return errors.InvalidSchema(g.Name, "field "+f.Name+": "+fmt.Sprintf(format, args...))
	}

	if f.MaxOccurs < 0 {
		return invalid("negative maxOccurs")
	}
	if f.IsArray() && f.Optional {
		return invalid("arrays express absence by length, not optional")
	}
	if f.Form != FormElement {
		if f.Value == ValueNested || f.Value == ValueAny || f.IsArray() {
			return invalid("%s form holds a single simple value only", f.Form)
		}
	}

	switch f.Value {
	case ValueNested:
		if f.Type == nil || s.types[f.Type.Name] != f.Type {
			return invalid("nested type %q is not registered", f.TypeName)
		}
		f.TypeName = f.Type.Name
	case ValueUnsigned, ValueInteger:
		switch f.Width {
		case 8, 16, 32, 64:
		default:
			return invalid("width %d, want 8, 16, 32 or 64", f.Width)
		}
	case ValueNBit:
		if f.Max < f.Min {
			return invalid("max %d below min %d", f.Max, f.Min)
		}
		if uint64(f.Max)-uint64(f.Min) >= 1<<32 {
			return invalid("range [%d, %d] wider than 32 bits", f.Min, f.Max)
		}
	case ValueEnum:
		if len(f.Values) == 0 {
			return invalid("enumeration without values")
		}
		f.Min, f.Max = 0, int64(len(f.Values)-1)
		if f.Enum != "" {
			if prev, ok := s.enums[f.Enum]; ok && !slices.Equal(prev, f.Values) {
				return invalid("enumeration %q redeclared with different values", f.Enum)
			}
			s.enums[f.Enum] = f.Values
		}
	case ValueString, ValueBinary:
		if f.Size <= 0 {
			return invalid("size must be positive")
		}
	case ValueAny:
		if f.IsArray() {
			return invalid("wildcards cannot repeat")
		}
	case ValueBoolean:
	default:
		return invalid("unknown value type %s", f.Value)
	}
	return nil
}

// unreachable returns the first state not reachable from state 0, or -1.
func (g *Grammar) unreachable() int {
	seen := make([]bool, len(g.States))
	queue := []int{0}
	seen[0] = true
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for _, ev := range g.States[s].Events {
			for _, next := range []int{ev.Next, ev.Exit} {
				if next >= 0 && next < len(seen) && !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	for i, ok := range seen {
		if !ok {
			return i
		}
	}
	return -1
}
