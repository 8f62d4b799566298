package parse

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/opal-format/go-opal/ast"
)

func TestParseAssign(t *testing.T) {
	stmts, err := Parse([]byte(`a.b.c = "hello"`))
	if err != nil {
		t.Fatal(err)
	}
	want := []ast.Statement{
		ast.Assign{
			Path:  ast.Path{Idents: []string{"a", "b", "c"}},
			Value: ast.String{Value: "hello"},
		},
	}
	if d := cmp.Diff(want, stmts); d != "" {
		t.Error(d)
	}
}

func TestParseSelfPath(t *testing.T) {
	stmts, err := Parse([]byte(`self.x = 1.5`))
	if err != nil {
		t.Fatal(err)
	}
	a := stmts[0].(ast.Assign)
	if !a.Path.SelfRel {
		t.Error("expected self-relative path")
	}
	if n := a.Value.(ast.Number); n.Value != 1.5 {
		t.Errorf("got %v", n.Value)
	}
}

func TestParseInclude(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		want ast.Include
	}{
		{"plain", `include "colors.opal"`, ast.Include{File: "colors.opal"}},
		{"named", `include "colors.opal" as colors`, ast.Include{File: "colors.opal", Name: "colors"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stmts, err := Parse([]byte(tc.src))
			if err != nil {
				t.Fatal(err)
			}
			if d := cmp.Diff(ast.Statement(tc.want), stmts[0]); d != "" {
				t.Error(d)
			}
		})
	}
}

func TestParseObject(t *testing.T) {
	stmts, err := Parse([]byte(`p = { x = 1 y = 2 }`))
	if err != nil {
		t.Fatal(err)
	}
	obj := stmts[0].(ast.Assign).Value.(ast.Object)
	if len(obj.Assigns) != 2 {
		t.Fatalf("got %d assigns", len(obj.Assigns))
	}
	if obj.Assigns[1].Path.Idents[0] != "y" {
		t.Errorf("got %v", obj.Assigns[1].Path)
	}
}

func TestParseList(t *testing.T) {
	stmts, err := Parse([]byte(`xs = [1, "two", [3]]`))
	if err != nil {
		t.Fatal(err)
	}
	list := stmts[0].(ast.Assign).Value.(ast.List)
	if len(list.Elems) != 3 {
		t.Fatalf("got %d elems", len(list.Elems))
	}
	inner := list.Elems[2].(ast.List)
	if len(inner.Elems) != 1 {
		t.Errorf("got %d inner elems", len(inner.Elems))
	}
}

func TestParseEmptyList(t *testing.T) {
	stmts, err := Parse([]byte(`xs = []`))
	if err != nil {
		t.Fatal(err)
	}
	list := stmts[0].(ast.Assign).Value.(ast.List)
	if len(list.Elems) != 0 {
		t.Errorf("got %d elems", len(list.Elems))
	}
}

func TestParseExtension(t *testing.T) {
	for _, tc := range []struct {
		name    string
		src     string
		hasBody bool
		block   int
		args    int
	}{
		{"bare", `c = colors.red`, false, 0, 0},
		{"block", `c = color { r = 1 }`, true, 1, 0},
		{"empty block", `c = color {}`, true, 0, 0},
		{"args", `c = rgb(1, 2, 3)`, true, 0, 3},
	} {
		t.Run(tc.name, func(t *testing.T) {
			stmts, err := Parse([]byte(tc.src))
			if err != nil {
				t.Fatal(err)
			}
			ext := stmts[0].(ast.Assign).Value.(ast.Extension)
			if ext.HasBody != tc.hasBody {
				t.Errorf("HasBody: got %v", ext.HasBody)
			}
			if len(ext.Block) != tc.block {
				t.Errorf("block: got %d", len(ext.Block))
			}
			if len(ext.Args) != tc.args {
				t.Errorf("args: got %d", len(ext.Args))
			}
		})
	}
}

func TestParseExtensionArgValues(t *testing.T) {
	stmts, err := Parse([]byte(`c = mix(colors.red, colors.blue, 0.5)`))
	if err != nil {
		t.Fatal(err)
	}
	ext := stmts[0].(ast.Assign).Value.(ast.Extension)
	if len(ext.Args) != 3 {
		t.Fatalf("got %d args", len(ext.Args))
	}
	arg0 := ext.Args[0].(ast.Extension)
	if got := arg0.Base.String(); got != "colors.red" {
		t.Errorf("got %q", got)
	}
	if _, ok := ext.Args[2].(ast.Number); !ok {
		t.Errorf("got %T", ext.Args[2])
	}
}

func TestParseErrors(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
	}{
		{"missing equals", `a.b "x"`},
		{"missing value", `a.b =`},
		{"reserved root", `root.x = 1`},
		{"reserved include segment", `a.include = 1`},
		{"self not leading", `a.self.x = 1`},
		{"unclosed object", `p = { x = 1`},
		{"unclosed list", `xs = [1, 2`},
		{"empty args", `c = rgb()`},
		{"include in object", `p = { include "q.opal" }`},
		{"include without file", `include x`},
		{"self without dot", `self = 1`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("not an ErrParse: %v", err)
			}
		})
	}
}

func TestParseAsIsContextual(t *testing.T) {
	stmts, err := Parse([]byte(`as.as = 1`))
	if err != nil {
		t.Fatal(err)
	}
	a := stmts[0].(ast.Assign)
	if d := cmp.Diff([]string{"as", "as"}, a.Path.Idents); d != "" {
		t.Error(d)
	}
}
