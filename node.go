package opal

// Kind identifies the shape of a resolved value.
type Kind int

const (
	KindUnknown Kind = iota
	KindObject
	KindList
	KindNumber
	KindString

	// storage-only kinds; resolution never yields these
	kindReference
	kindExtension
)

func (k Kind) String() string {
	return map[Kind]string{
		KindUnknown:   "unknown",
		KindObject:    "object",
		KindList:      "list",
		KindNumber:    "number",
		KindString:    "string",
		kindReference: "reference",
		kindExtension: "extension",
	}[k]
}

// node is a slot in the document arena. Nodes hold indices into the
// arena, never pointers, so back-references and cycles are
// representable and detectable.
type node struct {
	kind Kind

	// object: layered children, later layers assigned later
	keys     []string
	children map[string][]int

	// list
	elems []int

	// primitives
	num float64
	str string

	// reference and extension base
	path    Path
	selfRel bool
	scope   int // enclosing object literal, for self paths
	mount   int // namespace root for global paths

	// extension
	overlay int   // object node holding block overrides, -1 if none
	args    []int // positional argument values

	// prelude entries only
	preludeID int // identity for decoder dispatch, -1 elsewhere
	argNames  []string
}

func (n *node) childIDs(key string) []int {
	if n.children == nil {
		return nil
	}
	return n.children[key]
}

func (n *node) addChild(key string, id int) {
	if n.children == nil {
		n.children = map[string][]int{}
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = append(n.children[key], id)
}

func (n *node) setChild(key string, id int) {
	if n.children == nil {
		n.children = map[string][]int{}
	}
	if _, ok := n.children[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.children[key] = []int{id}
}
