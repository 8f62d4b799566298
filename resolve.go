package opal

import (
	"github.com/opal-format/go-opal/internal/debug"
)

// view is the one-level result of resolving a slot: primitives and
// lists are final, objects keep their fields as layered node ids so
// deeper resolution stays pull-based.
type view struct {
	kind   Kind
	num    float64
	str    string
	keys   []string
	fields map[string][]int
	elems  []int
	// prelude identities referenced along the extension chain,
	// most derived first
	chain []int
	path  Path
}

func unknownView(at Path) *view {
	return &view{kind: KindUnknown, path: at}
}

// resolveStack tracks the node ids being resolved on the call stack
// for cycle detection.
type resolveStack map[int]struct{}

func (s resolveStack) enter(id int) bool {
	if _, on := s[id]; on {
		return false
	}
	s[id] = struct{}{}
	return true
}

func (s resolveStack) leave(id int) {
	delete(s, id)
}

// resolveSlot folds the layers of a slot, later layers last. Two
// object layers merge field-by-field; any other pairing is replaced
// wholesale by the later layer.
func (d *Document) resolveSlot(ids []int, stack resolveStack, at Path) (*view, error) {
	if len(ids) == 0 {
		return unknownView(at), nil
	}
	result, err := d.resolveNode(ids[0], stack, at)
	if err != nil {
		return nil, err
	}
	for _, id := range ids[1:] {
		next, err := d.resolveNode(id, stack, at)
		if err != nil {
			return nil, err
		}
		if result.kind == KindObject && next.kind == KindObject {
			result = mergeViews(result, next)
		} else {
			result = next
		}
	}
	return result, nil
}

func mergeViews(under, over *view) *view {
	m := &view{
		kind:   KindObject,
		keys:   make([]string, 0, len(under.keys)+len(over.keys)),
		fields: make(map[string][]int, len(under.fields)+len(over.fields)),
		path:   over.path,
	}
	for _, k := range under.keys {
		m.keys = append(m.keys, k)
		m.fields[k] = append(m.fields[k], under.fields[k]...)
	}
	for _, k := range over.keys {
		if _, ok := m.fields[k]; !ok {
			m.keys = append(m.keys, k)
		}
		m.fields[k] = append(m.fields[k], over.fields[k]...)
	}
	m.chain = append(m.chain, over.chain...)
	m.chain = append(m.chain, under.chain...)
	return m
}

func (d *Document) resolveNode(id int, stack resolveStack, at Path) (*view, error) {
	n := d.nodes[id]
	switch n.kind {
	case KindNumber:
		return &view{kind: KindNumber, num: n.num, path: at}, nil
	case KindString:
		return &view{kind: KindString, str: n.str, path: at}, nil
	case KindList:
		return &view{kind: KindList, elems: n.elems, path: at}, nil
	case KindObject:
		return &view{kind: KindObject, keys: n.keys, fields: n.children, path: at}, nil
	case KindUnknown:
		return unknownView(at), nil
	case kindReference:
		return d.resolveReference(id, stack, at)
	case kindExtension:
		return d.resolveExtension(id, stack, at)
	}
	return unknownView(at), nil
}

func (d *Document) resolveReference(id int, stack resolveStack, at Path) (*view, error) {
	if !stack.enter(id) {
		return nil, &CycleError{Path: at}
	}
	defer stack.leave(id)
	n := d.nodes[id]
	debug.Logf(debug.Resolve, "reference %q (self=%v) at %q", n.path, n.selfRel, at)
	if !n.selfRel {
		if pid, ok := d.preludeIndex[n.path.String()]; ok {
			v, err := d.resolveNode(pid, stack, n.path)
			if err != nil {
				return nil, err
			}
			return withIdentity(v, pid), nil
		}
	}
	ids, err := d.walk(n, stack)
	if err != nil {
		return nil, err
	}
	return d.resolveSlot(ids, stack, n.path)
}

// walk follows a reference path through the document, from the node's
// lexical scope for self paths and its namespace root otherwise. A
// missing segment yields no ids, which resolves to unknown.
func (d *Document) walk(n node, stack resolveStack) ([]int, error) {
	start := n.mount
	if n.selfRel {
		start = n.scope
	}
	ids := []int{start}
	var at Path
	for _, seg := range n.path {
		v, err := d.resolveSlot(ids, stack, at)
		if err != nil {
			return nil, err
		}
		switch v.kind {
		case KindObject:
		case KindUnknown:
			return nil, nil
		default:
			return nil, &NotAnObjectError{Path: at, Found: v.kind}
		}
		at = at.Child(seg)
		ids = v.fields[seg]
		if len(ids) == 0 {
			return nil, nil
		}
	}
	return ids, nil
}

func (d *Document) resolveExtension(id int, stack resolveStack, at Path) (*view, error) {
	if !stack.enter(id) {
		return nil, &CycleError{Path: at}
	}
	defer stack.leave(id)
	n := d.nodes[id]
	debug.Logf(debug.Resolve, "extension of %q at %q", n.path, at)

	base, identity, err := d.resolveBase(n, stack)
	if err != nil {
		return nil, err
	}
	switch base.kind {
	case KindObject:
	case KindUnknown:
		// the base may be assigned by a later parse; until then the
		// extension is just its own overrides
		base = &view{kind: KindObject, path: n.path}
	default:
		return nil, &ExtendError{Path: n.path, Found: base.kind}
	}

	result := &view{kind: KindObject, path: at}
	for _, k := range base.keys {
		result.keys = append(result.keys, k)
		result.fields = ensure(result.fields)
		result.fields[k] = append(result.fields[k], base.fields[k]...)
	}
	result.fields = ensure(result.fields)

	if len(n.args) > 0 {
		names, err := d.argumentNames(n, base, identity, at)
		if err != nil {
			return nil, err
		}
		for i, name := range names {
			if _, ok := result.fields[name]; !ok {
				result.keys = append(result.keys, name)
			}
			result.fields[name] = append(result.fields[name], n.args[i])
		}
	}
	if n.overlay >= 0 {
		ov := d.nodes[n.overlay]
		for _, k := range ov.keys {
			if _, ok := result.fields[k]; !ok {
				result.keys = append(result.keys, k)
			}
			result.fields[k] = append(result.fields[k], ov.children[k]...)
		}
	}

	if identity >= 0 {
		result.chain = append(result.chain, identity)
	}
	result.chain = append(result.chain, base.chain...)
	return result, nil
}

// resolveBase resolves an extension's base, consulting the prelude
// before the document so registered templates shadow local names.
func (d *Document) resolveBase(n node, stack resolveStack) (*view, int, error) {
	if !n.selfRel {
		if pid, ok := d.preludeIndex[n.path.String()]; ok {
			v, err := d.resolveNode(pid, stack, n.path)
			if err != nil {
				return nil, -1, err
			}
			return v, pid, nil
		}
	}
	ids, err := d.walk(n, stack)
	if err != nil {
		return nil, -1, err
	}
	v, err := d.resolveSlot(ids, stack, n.path)
	if err != nil {
		return nil, -1, err
	}
	return v, -1, nil
}

// argumentNames finds the argument list governing a call-style
// extension: the nearest prelude identity along the chain that
// declares one.
func (d *Document) argumentNames(n node, base *view, identity int, at Path) ([]string, error) {
	chain := base.chain
	if identity >= 0 {
		chain = append([]int{identity}, chain...)
	}
	for _, pid := range chain {
		names := d.nodes[pid].argNames
		if len(names) == 0 {
			continue
		}
		if len(names) != len(n.args) {
			return nil, &ArityError{Path: at, Want: len(names), Got: len(n.args)}
		}
		return names, nil
	}
	return nil, &ArityError{Path: at, Want: 0, Got: len(n.args)}
}

// withIdentity records the prelude identity a link was resolved
// through, most derived first.
func withIdentity(v *view, pid int) *view {
	if v.kind != KindObject {
		return v
	}
	c := *v
	c.chain = append([]int{pid}, v.chain...)
	return &c
}

func ensure(m map[string][]int) map[string][]int {
	if m == nil {
		return map[string][]int{}
	}
	return m
}
