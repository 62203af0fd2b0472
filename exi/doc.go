// Package exi implements a schema-informed EXI codec driven by grammar tables.
//
// Each schema type is compiled ahead of time into a Grammar: a small automaton
// whose states list the legal events at that point of the content model. One
// interpreter walks any Grammar, so adding a type means adding a table, not code.
//
//	┌───────────────────────────────────────────────────────────┐
//	│ []byte ←→ header ←→ root event ←→ [Grammar walk] ←→ Go    │
//	└───────────────────────────────────────────────────────────┘
//
// # Profile
//
// The codec covers the subset of EXI used by ISO 15118 style schemas:
//
//	Option              Value
//	──────────────────────────────
//	alignment           bit-packed
//	strict              false (escape codes exist but are refused)
//	string tables       unsupported (length prefix < 2 is an error)
//	header              0x80, no options, no cookie
//
// An event code at a state with n events takes BitsFor(n+1) bits. Code n is
// the second level escape and is always rejected.
//
// # Grammar Tables
//
// Tables are loaded from YAML with Load:
//
//	schema: example
//	roots:
//	  - {element: Rational, type: RationalNumberType}
//	types:
//	  - name: RationalNumberType
//	    fields:
//	      - {name: Exponent, value: nbit, min: -128, max: 127}
//	      - {name: Value, value: integer, width: 16}
//	    states:
//	      - [{start: Exponent, next: 1}]
//	      - [{start: Value, next: 2}]
//	      - [{end: true}]
//
// # Go Binding
//
// Records are plain Go structs matched by field name or `exi` tag:
//
//	Particle             Go field
//	──────────────────────────────────
//	mandatory            T
//	optional             *T (nil when absent)
//	bounded array        []T (length ≤ maxOccurs)
//	unsigned / integer   uintN / intN of the declared width
//	nbit / enum          any integer type holding [min, max]
//	string / binary      string / []byte
//	wildcard             not stored
//
// Bindings are validated and cached on first use per (Grammar, Go type).
//
// # Errors
//
// Every failure is an *errors.Error whose Kind names the violated rule.
// The first error aborts the call and no partial record is returned.
package exi
