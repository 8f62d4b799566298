package opal

import (
	"strconv"
	"strings"
)

// Path addresses a node in a document, one identifier per segment.
type Path []string

func (p Path) String() string {
	return strings.Join(p, ".")
}

func (p Path) Child(name string) Path {
	c := make(Path, 0, len(p)+1)
	c = append(c, p...)
	return append(c, name)
}

// Elem marks a list element in error paths, as list elements have no
// addressable name.
func (p Path) Elem(i int) Path {
	return p.Child("[" + strconv.Itoa(i) + "]")
}
