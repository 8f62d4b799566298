// Package ast declares the statement and value trees produced by the
// opal parser.
package ast

import "strings"

// Statement is either an Include or an Assign.
type Statement interface {
	stmt()
}

// Include brings another file into the document, merged transparently
// at the current mount point, or mounted under Name when `as` is used.
type Include struct {
	File string
	Name string // empty for a transparent include
}

// Assign sets Value at Path, merging per the document merge rules.
type Assign struct {
	Path  Path
	Value Value
}

func (Include) stmt() {}
func (Assign) stmt()  {}

// Path is a dot-separated identifier chain. SelfRel paths written
// `self.a.b` bind lexically to the innermost enclosing object literal;
// all other paths resolve from the mount root.
type Path struct {
	SelfRel bool
	Idents  []string
}

func (p Path) String() string {
	if p.SelfRel {
		return "self." + strings.Join(p.Idents, ".")
	}
	return strings.Join(p.Idents, ".")
}

// Value is one of Object, List, Number, String, or Extension.
type Value interface {
	value()
}

// Object is a `{ ... }` literal.
type Object struct {
	Assigns []Assign
}

// List is a `[ ... ]` literal.
type List struct {
	Elems []Value
}

// Number is a numeric literal.
type Number struct {
	Value float64
}

// String is a string literal.
type String struct {
	Value string
}

// Extension references a base path, optionally with a block of
// overrides (`base { ... }`) or positional arguments (`base(a, b)`).
// A bare path is an Extension with neither.
type Extension struct {
	Base    Path
	Block   []Assign // base { ... }
	Args    []Value  // base(a, b, ...)
	HasBody bool     // distinguishes `base {}` and `base()` from bare `base`
}

func (Object) value()    {}
func (List) value()      {}
func (Number) value()    {}
func (String) value()    {}
func (Extension) value() {}
