package opal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/opal-format/go-opal/ast"
	"github.com/opal-format/go-opal/internal/debug"
	"github.com/opal-format/go-opal/parse"
)

// FileLoader supplies the source text of included files. Load is
// called with the include string joined to the including file's
// directory.
type FileLoader interface {
	Load(name string) ([]byte, error)
}

type osLoader struct{}

func (osLoader) Load(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// LoaderFunc adapts a function to the FileLoader interface.
type LoaderFunc func(name string) ([]byte, error)

func (f LoaderFunc) Load(name string) ([]byte, error) {
	return f(name)
}

// Document is an arena of nodes built up by successive parses. It is
// not safe for concurrent use; a single writer builds it with parse
// calls and reads are stable between writes.
type Document struct {
	nodes  []node
	root   int
	loader FileLoader

	preludeIndex map[string]int
	decoders     map[int]decoderSet
}

type Option func(*Document)

// WithLoader replaces the default os file loader used by ParseFile
// and include statements.
func WithLoader(l FileLoader) Option {
	return func(d *Document) {
		d.loader = l
	}
}

// WithPrelude installs a finalized prelude. Template entries become
// part of the document arena but stay unreachable from the root.
func WithPrelude(p *Prelude) Option {
	return func(d *Document) {
		p.ingest(d)
	}
}

// New creates an empty document. The prelude, if any, must be
// finalized before it is passed in.
func New(opts ...Option) *Document {
	d := &Document{
		loader:       osLoader{},
		preludeIndex: map[string]int{},
		decoders:     map[int]decoderSet{},
	}
	d.root = d.add(node{kind: KindObject, preludeID: -1})
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Document) add(n node) int {
	id := len(d.nodes)
	d.nodes = append(d.nodes, n)
	return id
}

// Get returns a handle for path, rooted at the document root. It
// never fails; paths that were never assigned resolve to an unknown
// value.
func (d *Document) Get(path ...string) Entry {
	return Entry{doc: d, root: d.root, path: Path(path), rest: Path(path)}
}

// Parse applies the statements in src against the document root.
func (d *Document) Parse(src []byte) error {
	return d.parse(src, ".", mountPoint{id: d.root, root: d.root})
}

// ParseAt applies the statements in src against an isolated namespace
// mounted at path, creating it if needed. Statements inside cannot
// resolve global paths outside the namespace.
func (d *Document) ParseAt(src []byte, path ...string) error {
	if len(path) == 0 {
		return d.Parse(src)
	}
	id, err := d.descend(d.root, Path(path), nil)
	if err != nil {
		return err
	}
	return d.parse(src, ".", mountPoint{id: id, root: id})
}

// ParseFile loads name through the document's loader and applies its
// statements against the document root. Includes are resolved
// relative to the file's directory.
func (d *Document) ParseFile(name string) error {
	src, err := d.loader.Load(name)
	if err != nil {
		return fmt.Errorf("load %q: %w", name, err)
	}
	return d.parse(src, filepath.Dir(name), mountPoint{id: d.root, root: d.root})
}

// mountPoint is where statements apply: id receives assignments,
// root anchors global path references.
type mountPoint struct {
	id   int
	root int
}

// parse applies statements one at a time: a failing statement aborts
// the call but everything before it stays applied.
func (d *Document) parse(src []byte, dir string, at mountPoint) error {
	p, err := parse.NewParser(src)
	if err != nil {
		return err
	}
	for {
		stmt, err := p.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch s := stmt.(type) {
		case ast.Include:
			if err := d.include(s, dir, at); err != nil {
				return err
			}
		case ast.Assign:
			if err := d.assign(at, s); err != nil {
				return err
			}
		}
	}
}

func (d *Document) include(inc ast.Include, dir string, at mountPoint) error {
	name := filepath.Join(dir, inc.File)
	debug.Logf(debug.Parse, "include %q as %q", name, inc.Name)
	src, err := d.loader.Load(name)
	if err != nil {
		return fmt.Errorf("include %q: %w", name, err)
	}
	next := at
	if inc.Name != "" {
		id, err := d.descend(at.id, Path{inc.Name}, nil)
		if err != nil {
			return err
		}
		next = mountPoint{id: id, root: id}
	}
	return d.parse(src, filepath.Dir(name), next)
}
