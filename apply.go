package opal

import (
	"github.com/opal-format/go-opal/ast"
)

// applyCtx is the lexical context of a statement: parent receives
// assignments and anchors self paths, root anchors global paths.
type applyCtx struct {
	parent int
	root   int
}

func (d *Document) newNode(k Kind) int {
	return d.add(node{kind: k, overlay: -1, scope: -1, mount: -1, preludeID: -1})
}

// descend walks path from an object node, creating object literals
// for missing segments. A link along the way is upgraded to an
// extension so the new fields overlay its target; a primitive or
// list cannot be descended into.
func (d *Document) descend(from int, path Path, at Path) (int, error) {
	cur := from
	for _, key := range path {
		at = at.Child(key)
		layers := d.nodes[cur].childIDs(key)
		if len(layers) == 0 {
			id := d.newNode(KindObject)
			d.nodes[cur].addChild(key, id)
			cur = id
			continue
		}
		last := layers[len(layers)-1]
		switch d.nodes[last].kind {
		case KindObject:
			cur = last
		case KindUnknown:
			d.nodes[last].kind = KindObject
			cur = last
		case kindReference:
			ov := d.newNode(KindObject)
			d.nodes[last].kind = kindExtension
			d.nodes[last].overlay = ov
			cur = ov
		case kindExtension:
			if d.nodes[last].overlay < 0 {
				d.nodes[last].overlay = d.newNode(KindObject)
			}
			cur = d.nodes[last].overlay
		default:
			return 0, &NotAnObjectError{Path: at, Found: d.nodes[last].kind}
		}
	}
	return cur, nil
}

func (d *Document) assign(at mountPoint, a ast.Assign) error {
	return d.apply(applyCtx{parent: at.id, root: at.root}, a, nil)
}

// apply places the assignment's value at its path. Reassignment
// appends a layer to the slot; the resolver merges or replaces
// depending on the resolved kinds.
func (d *Document) apply(ctx applyCtx, a ast.Assign, at Path) error {
	idents := Path(a.Path.Idents)
	parent := ctx.parent
	if len(idents) > 1 {
		p, err := d.descend(parent, idents[:len(idents)-1], at)
		if err != nil {
			return err
		}
		parent = p
	}
	id, err := d.buildValue(ctx, a.Value)
	if err != nil {
		return err
	}
	d.nodes[parent].addChild(idents[len(idents)-1], id)
	return nil
}

func (d *Document) buildValue(ctx applyCtx, v ast.Value) (int, error) {
	switch v := v.(type) {
	case ast.Number:
		id := d.newNode(KindNumber)
		d.nodes[id].num = v.Value
		return id, nil
	case ast.String:
		id := d.newNode(KindString)
		d.nodes[id].str = v.Value
		return id, nil
	case ast.List:
		elems := make([]int, 0, len(v.Elems))
		for _, e := range v.Elems {
			eid, err := d.buildValue(ctx, e)
			if err != nil {
				return 0, err
			}
			elems = append(elems, eid)
		}
		id := d.newNode(KindList)
		d.nodes[id].elems = elems
		return id, nil
	case ast.Object:
		id := d.newNode(KindObject)
		inner := applyCtx{parent: id, root: ctx.root}
		for _, a := range v.Assigns {
			if err := d.apply(inner, a, nil); err != nil {
				return 0, err
			}
		}
		return id, nil
	case ast.Extension:
		if !v.HasBody {
			id := d.newNode(kindReference)
			n := &d.nodes[id]
			n.path = Path(v.Base.Idents)
			n.selfRel = v.Base.SelfRel
			n.scope = ctx.parent
			n.mount = ctx.root
			return id, nil
		}
		id := d.newNode(kindExtension)
		d.nodes[id].path = Path(v.Base.Idents)
		d.nodes[id].selfRel = v.Base.SelfRel
		d.nodes[id].scope = ctx.parent
		d.nodes[id].mount = ctx.root
		if v.Args != nil {
			args := make([]int, 0, len(v.Args))
			for _, a := range v.Args {
				aid, err := d.buildValue(ctx, a)
				if err != nil {
					return 0, err
				}
				args = append(args, aid)
			}
			d.nodes[id].args = args
			return id, nil
		}
		ov := d.newNode(KindObject)
		inner := applyCtx{parent: ov, root: ctx.root}
		for _, a := range v.Block {
			if err := d.apply(inner, a, nil); err != nil {
				return 0, err
			}
		}
		d.nodes[id].overlay = ov
		return id, nil
	}
	id := d.newNode(KindUnknown)
	return id, nil
}
