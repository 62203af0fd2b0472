package exi

import (
	"fmt"
	"math"
	"reflect"
	"sync"

	"github.com/wippyai/iso20-exi/errors"
)

// binding pairs a grammar with the Go struct that holds its record.
type binding struct {
	grammar *Grammar
	goType  reflect.Type
	fields  []fieldBinding // parallel to grammar.Fields
}

type fieldBinding struct {
	index []int // nil for wildcard fields, which are never stored
	// elem is the value type with the optional pointer or array slice removed.
	elem   reflect.Type
	nested *binding
}

type bindKey struct {
	grammar *Grammar
	goType  reflect.Type
}

// compiler validates Go struct shapes against grammars once and caches the result.
// Safe for concurrent use.
type compiler struct {
	cache sync.Map // bindKey -> *binding
}

func (c *compiler) bind(g *Grammar, goType reflect.Type) (*binding, error) {
	if g == nil {
		return nil, errors.NilPointer(errors.PhaseBind, nil, "*exi.Grammar")
	}
	if goType == nil {
		return nil, errors.New(errors.PhaseBind, errors.KindNilPointer).
			SchemaType(g.Name).
			Detail("Go type cannot be nil").
			Build()
	}
	if goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}

	key := bindKey{grammar: g, goType: goType}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*binding), nil
	}

	// types may refer to themselves through optional fields
	pending := make(map[bindKey]*binding)
	b, err := c.compile(g, goType, pending, []string{g.Name})
	if err != nil {
		return nil, err
	}
	for k, v := range pending {
		c.cache.LoadOrStore(k, v)
	}
	if actual, ok := c.cache.Load(key); ok {
		return actual.(*binding), nil
	}
	return b, nil
}

func (c *compiler) compile(g *Grammar, goType reflect.Type, pending map[bindKey]*binding, path []string) (*binding, error) {
	key := bindKey{grammar: g, goType: goType}
	if b, ok := pending[key]; ok {
		return b, nil
	}
	if cached, ok := c.cache.Load(key); ok {
		return cached.(*binding), nil
	}
	if goType.Kind() != reflect.Struct {
		return nil, errors.TypeMismatch(errors.PhaseBind, path, goType.String(), g.Name)
	}

	b := &binding{
		grammar: g,
		goType:  goType,
		fields:  make([]fieldBinding, len(g.Fields)),
	}
	pending[key] = b

	goFields := structFields(goType)
	for i := range g.Fields {
		f := &g.Fields[i]
		if f.Value == ValueAny {
			continue
		}
		fpath := appendPath(path, f.Name)
		sf, ok := goFields[f.Name]
		if !ok {
			return nil, errors.New(errors.PhaseBind, errors.KindNotFound).
				Path(fpath...).
				GoType(goType.String()).
				SchemaType(g.Name).
				Detail("no Go field for %s", f.Name).
				Build()
		}
		fb, err := c.compileField(f, sf.Type, pending, fpath)
		if err != nil {
			return nil, err
		}
		fb.index = sf.Index
		b.fields[i] = fb
	}
	return b, nil
}

func (c *compiler) compileField(f *Field, goType reflect.Type, pending map[bindKey]*binding, path []string) (fieldBinding, error) {
	elem := goType
	switch {
	case f.IsArray():
		if elem.Kind() != reflect.Slice {
			return fieldBinding{}, errors.TypeMismatch(errors.PhaseBind, path, goType.String(), "[]"+describe(f))
		}
		elem = elem.Elem()
	case f.Optional:
		if elem.Kind() != reflect.Ptr {
			return fieldBinding{}, errors.TypeMismatch(errors.PhaseBind, path, goType.String(), "*"+describe(f))
		}
		elem = elem.Elem()
	}

	fb := fieldBinding{elem: elem}
	if f.Value == ValueNested {
		nested, err := c.compile(f.Type, elem, pending, path)
		if err != nil {
			return fieldBinding{}, err
		}
		fb.nested = nested
		return fb, nil
	}
	if !fits(f, elem) {
		return fieldBinding{}, errors.TypeMismatch(errors.PhaseBind, path, elem.String(), describe(f))
	}
	return fb, nil
}

// structFields maps exported fields by their exi tag, or by Go name without one.
func structFields(t reflect.Type) map[string]reflect.StructField {
	fields := make(map[string]reflect.StructField, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("exi"); ok {
			if tag == "-" {
				continue
			}
			name = tag
		}
		fields[name] = sf
	}
	return fields
}

func fits(f *Field, t reflect.Type) bool {
	switch f.Value {
	case ValueBoolean:
		return t.Kind() == reflect.Bool
	case ValueUnsigned:
		return isUint(t) && t.Bits() == f.Width
	case ValueInteger:
		return isInt(t) && t.Bits() == f.Width
	case ValueNBit, ValueEnum:
		return holds(t, f.Min, f.Max)
	case ValueString:
		return t.Kind() == reflect.String
	case ValueBinary:
		return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
	}
	return false
}

func describe(f *Field) string {
	switch f.Value {
	case ValueNested:
		return f.TypeName
	case ValueUnsigned:
		return fmt.Sprintf("uint%d", f.Width)
	case ValueInteger:
		return fmt.Sprintf("int%d", f.Width)
	case ValueNBit, ValueEnum:
		return fmt.Sprintf("integer in [%d, %d]", f.Min, f.Max)
	case ValueString:
		return "string"
	case ValueBinary:
		return "[]byte"
	case ValueBoolean:
		return "bool"
	}
	return f.Value.String()
}

func isInt(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// holds reports whether every value in [min, max] is representable in t.
func holds(t reflect.Type, min, max int64) bool {
	z := reflect.New(t).Elem()
	switch {
	case isInt(t):
		return !z.OverflowInt(min) && !z.OverflowInt(max)
	case isUint(t):
		return min >= 0 && !z.OverflowUint(uint64(max))
	}
	return false
}

func setInt(v reflect.Value, x int64) {
	if isInt(v.Type()) {
		v.SetInt(x)
		return
	}
	v.SetUint(uint64(x))
}

func getInt(v reflect.Value) (int64, bool) {
	if isInt(v.Type()) {
		return v.Int(), true
	}
	u := v.Uint()
	if u > math.MaxInt64 {
		return 0, false
	}
	return int64(u), true
}

func appendPath(path []string, name string) []string {
	out := make([]string, len(path)+1)
	copy(out, path)
	out[len(path)] = name
	return out
}
