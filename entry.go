package opal

// Entry is an unresolved handle into a document. Obtaining one never
// fails; resolution and decoding report missing or malformed targets.
// An entry may be re-resolved after further parses to pick up new
// definitions.
type Entry struct {
	doc    *Document
	root   int
	ids    []int // layers pinned at creation, when pinned is set
	pinned bool
	path   Path // how the entry was addressed
	rest   Path // segments still to walk from ids or root
}

// Get returns a handle for a sub-path of e.
func (e Entry) Get(path ...string) Entry {
	child := e
	child.path = append(e.path[:len(e.path):len(e.path)], path...)
	child.rest = append(e.rest[:len(e.rest):len(e.rest)], path...)
	return child
}

// Path reports how the entry was addressed.
func (e Entry) Path() Path {
	return e.path
}

// Document returns the document the entry points into.
func (e Entry) Document() *Document {
	return e.doc
}

func (e Entry) resolve(stack resolveStack) (*view, error) {
	d := e.doc
	ids := e.ids
	if !e.pinned {
		ids = []int{e.root}
	}
	at := e.path[: len(e.path)-len(e.rest) : len(e.path)-len(e.rest)]
	for _, seg := range e.rest {
		v, err := d.resolveSlot(ids, stack, at)
		if err != nil {
			return nil, err
		}
		switch v.kind {
		case KindObject:
		case KindUnknown:
			return unknownView(e.path), nil
		default:
			return nil, &NotAnObjectError{Path: at, Found: v.kind}
		}
		at = at.Child(seg)
		ids = v.fields[seg]
		if len(ids) == 0 {
			return unknownView(e.path), nil
		}
	}
	return d.resolveSlot(ids, stack, e.path)
}

// Resolve produces the entry's fully merged value. It is pure: the
// document is not mutated, and resolving twice without intervening
// parses yields the same result.
func (e Entry) Resolve() (*Value, error) {
	v, err := e.resolve(resolveStack{})
	if err != nil {
		return nil, err
	}
	return &Value{entry: e, v: v}, nil
}

// Value is a resolved, one-level view of an entry. Object fields and
// list elements are exposed as entries so deeper resolution stays on
// demand.
type Value struct {
	entry Entry
	v     *view
}

func (v *Value) Kind() Kind {
	return v.v.kind
}

func (v *Value) Number() float64 {
	return v.v.num
}

// Text returns the string payload of a string value.
func (v *Value) Text() string {
	return v.v.str
}

// Keys lists an object's field names in insertion order.
func (v *Value) Keys() []string {
	return v.v.keys
}

// Field returns a handle for a named field of an object value.
func (v *Value) Field(name string) Entry {
	return Entry{
		doc:    v.entry.doc,
		root:   v.entry.root,
		ids:    v.v.fields[name],
		pinned: true,
		path:   v.entry.path.Child(name),
	}
}

// Len reports the number of elements of a list value.
func (v *Value) Len() int {
	return len(v.v.elems)
}

// Elem returns a handle for a list element. Elements are anonymous:
// the handle is pinned to the element node and has no addressable
// path of its own.
func (v *Value) Elem(i int) Entry {
	return Entry{
		doc:    v.entry.doc,
		root:   v.entry.root,
		ids:    v.v.elems[i : i+1],
		pinned: true,
		path:   v.entry.path.Elem(i),
	}
}
