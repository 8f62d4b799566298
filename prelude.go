package opal

import (
	"fmt"
	"reflect"
	"sync"
)

type decoderFunc func(Entry) (any, error)

type decoderSet map[reflect.Type]decoderFunc

// Prelude is a registry of named templates, argument lists and
// decoders, kept in a namespace of its own. Entries are reachable
// from documents only through extension syntax, never by path
// navigation from the root. A prelude must be finalized before it is
// handed to a document; mutating it afterward is rejected.
type Prelude struct {
	mu        sync.Mutex
	finalized bool
	root      *PreludeObject
}

// PreludeObject is one entry in the registry tree.
type PreludeObject struct {
	p        *Prelude
	keys     []string
	children map[string]*PreludeObject
	values   map[string]any
	argNames []string
	decoders decoderSet
}

func NewPrelude() *Prelude {
	p := &Prelude{}
	p.root = &PreludeObject{p: p}
	return p
}

// Object creates or returns the named top-level entry.
func (p *Prelude) Object(name string) *PreludeObject {
	return p.root.Object(name)
}

// Finalize freezes the prelude. It can be called once; every later
// mutation, and a second Finalize, fails with ErrFinalized.
func (p *Prelude) Finalize() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		return ErrFinalized
	}
	p.finalized = true
	return nil
}

func (p *Prelude) mustMutate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finalized {
		panic(ErrFinalized)
	}
}

// Object creates or returns a nested entry.
func (o *PreludeObject) Object(name string) *PreludeObject {
	o.p.mustMutate()
	if c, ok := o.children[name]; ok {
		return c
	}
	c := &PreludeObject{p: o.p}
	if o.children == nil {
		o.children = map[string]*PreludeObject{}
	}
	o.children[name] = c
	o.keys = append(o.keys, name)
	return c
}

// Arguments declares the ordered field names that call-style
// extensions of this entry bind their positional values to.
func (o *PreludeObject) Arguments(names ...string) *PreludeObject {
	o.p.mustMutate()
	o.argNames = names
	return o
}

// Set gives the entry a default field value. Numbers and strings are
// accepted.
func (o *PreludeObject) Set(name string, v any) *PreludeObject {
	o.p.mustMutate()
	switch t := v.(type) {
	case int:
		v = float64(t)
	case float64, string:
	default:
		panic(fmt.Sprintf("prelude value %q: unsupported type %T", name, v))
	}
	if o.values == nil {
		o.values = map[string]any{}
	}
	if _, ok := o.values[name]; !ok {
		o.keys = append(o.keys, name)
	}
	o.values[name] = v
	return o
}

// AddDecoder registers fn as the decoder selected when a dynamic
// decode for T reaches this entry on an extension chain. At most one
// decoder per target type may live on an entry.
func AddDecoder[T any](o *PreludeObject, fn func(Entry) (T, error)) error {
	o.p.mu.Lock()
	defer o.p.mu.Unlock()
	if o.p.finalized {
		return ErrFinalized
	}
	t := reflect.TypeOf((*T)(nil)).Elem()
	if _, ok := o.decoders[t]; ok {
		return fmt.Errorf("%w for %v", ErrAmbiguousDecoder, t)
	}
	if o.decoders == nil {
		o.decoders = decoderSet{}
	}
	o.decoders[t] = func(e Entry) (any, error) {
		return fn(e)
	}
	return nil
}

// ingest copies the prelude tree into a document's arena. The copied
// nodes are not children of the document root, so they stay invisible
// to path navigation; the index makes them addressable by extension
// bases.
func (p *Prelude) ingest(d *Document) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.finalized {
		panic("prelude must be finalized before use")
	}
	for _, name := range p.root.keys {
		if c, ok := p.root.children[name]; ok {
			p.ingestObject(d, c, name)
		}
	}
}

func (p *Prelude) ingestObject(d *Document, o *PreludeObject, path string) int {
	id := d.newNode(KindObject)
	d.nodes[id].preludeID = id
	d.nodes[id].argNames = o.argNames
	d.preludeIndex[path] = id
	if len(o.decoders) > 0 {
		set := decoderSet{}
		for t, fn := range o.decoders {
			set[t] = fn
		}
		d.decoders[id] = set
	}
	for _, name := range o.keys {
		if c, ok := o.children[name]; ok {
			cid := p.ingestObject(d, c, path+"."+name)
			d.nodes[id].setChild(name, cid)
			continue
		}
		switch v := o.values[name].(type) {
		case float64:
			vid := d.newNode(KindNumber)
			d.nodes[vid].num = v
			d.nodes[id].setChild(name, vid)
		case string:
			vid := d.newNode(KindString)
			d.nodes[vid].str = v
			d.nodes[id].setChild(name, vid)
		}
	}
	return id
}
