package main

import (
	"fmt"
	"reflect"
	"strings"
)

var stringerType = reflect.TypeFor[fmt.Stringer]()

// treeLines renders a record as indented "name: value" lines. The first
// line is name itself. Absent optional fields are skipped.
func treeLines(name string, body any) []string {
	var lines []string
	walk(&lines, 0, name, reflect.ValueOf(body))
	return lines
}

func walk(lines *[]string, depth int, name string, v reflect.Value) {
	indent := strings.Repeat("  ", depth)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		return
	}

	if v.Type().Implements(stringerType) {
		*lines = append(*lines, fmt.Sprintf("%s%s: %s", indent, name, v.Interface().(fmt.Stringer)))
		return
	}

	switch v.Kind() {
	case reflect.Struct:
		*lines = append(*lines, indent+name)
		t := v.Type()
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			walk(lines, depth+1, fieldName(f), v.Field(i))
		}
	case reflect.Slice:
		for i := range v.Len() {
			walk(lines, depth, fmt.Sprintf("%s[%d]", name, i), v.Index(i))
		}
	case reflect.String:
		*lines = append(*lines, fmt.Sprintf("%s%s: %q", indent, name, v.String()))
	default:
		*lines = append(*lines, fmt.Sprintf("%s%s: %v", indent, name, v.Interface()))
	}
}

func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("exi"); ok && tag != "" {
		return tag
	}
	return f.Name
}
