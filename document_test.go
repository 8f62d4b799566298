package opal

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, d *Document, src string) {
	t.Helper()
	if err := d.Parse([]byte(src)); err != nil {
		t.Fatal(err)
	}
}

func TestMergeAssociativity(t *testing.T) {
	incremental := New()
	mustParse(t, incremental, `a = {x = 1}`)
	mustParse(t, incremental, `a = {y = 2}`)

	oneShot := New()
	mustParse(t, oneShot, `a = {x = 1 y = 2}`)

	got, err := Decode[map[string]float64](incremental.Get("a"))
	if err != nil {
		t.Fatal(err)
	}
	want, err := Decode[map[string]float64](oneShot.Get("a"))
	if err != nil {
		t.Fatal(err)
	}
	if df := cmp.Diff(want, got); df != "" {
		t.Error(df)
	}
}

func TestPathAutoCreation(t *testing.T) {
	d := New()
	mustParse(t, d, `a.b.c = 5`)

	got, err := Decode[float64](d.Get("a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("got %v", got)
	}

	v, err := d.Get("a").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindObject {
		t.Fatalf("a is %v", v.Kind())
	}
	if df := cmp.Diff([]string{"b"}, v.Keys()); df != "" {
		t.Error(df)
	}
}

func TestReassignReplacesOtherKinds(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		kind Kind
	}{
		{"number over object", `a = {x = 1}  a = 5`, KindNumber},
		{"object over list", `a = [1]  a = {x = 1}`, KindObject},
		{"string over number", `a = 5  a = "s"`, KindString},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := New()
			mustParse(t, d, tc.src)
			v, err := d.Get("a").Resolve()
			if err != nil {
				t.Fatal(err)
			}
			if v.Kind() != tc.kind {
				t.Errorf("got %v, want %v", v.Kind(), tc.kind)
			}
		})
	}
}

func TestDescendThroughPrimitive(t *testing.T) {
	d := New()
	err := d.Parse([]byte(`a = 5  a.b = 1`))
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrNotAnObject) || !errors.Is(err, ErrResolve) {
		t.Errorf("got %v", err)
	}
}

func TestWalkThroughPrimitive(t *testing.T) {
	d := New()
	mustParse(t, d, `a = 5  c = a.b`)
	_, err := d.Get("c").Resolve()
	if !errors.Is(err, ErrNotAnObject) {
		t.Errorf("got %v", err)
	}
}

func TestForwardReference(t *testing.T) {
	d := New()
	mustParse(t, d, `y = x`)

	// not defined yet
	if _, err := Decode[float64](d.Get("y")); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("got %v", err)
	}

	// the same handle picks up the later definition
	mustParse(t, d, `x = 5`)
	got, err := Decode[float64](d.Get("y"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("got %v", got)
	}
}

func TestIncludeTransparent(t *testing.T) {
	files := map[string]string{
		"main.opal":  `a = 1` + "\n" + `include "extra.opal"`,
		"extra.opal": `b = a`,
	}
	d := New(WithLoader(LoaderFunc(func(name string) ([]byte, error) {
		return []byte(files[name]), nil
	})))
	if err := d.ParseFile("main.opal"); err != nil {
		t.Fatal(err)
	}
	got, err := Decode[float64](d.Get("b"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("got %v", got)
	}
}

func TestIncludeNamespaceIsolation(t *testing.T) {
	files := map[string]string{
		"main.opal": `top = 1` + "\n" + `include "ns.opal" as n`,
		"ns.opal":   `inner = top` + "\n" + `local = 2` + "\n" + `use = local`,
	}
	d := New(WithLoader(LoaderFunc(func(name string) ([]byte, error) {
		return []byte(files[name]), nil
	})))
	if err := d.ParseFile("main.opal"); err != nil {
		t.Fatal(err)
	}

	// bare references inside the namespace cannot see the outer root
	if _, err := Decode[float64](d.Get("n", "inner")); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("got %v", err)
	}

	// but they do see the namespace's own definitions
	got, err := Decode[float64](d.Get("n", "use"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("got %v", got)
	}

	// the importer addresses the namespace through its name
	mustParse(t, d, `copy = n.local`)
	got, err = Decode[float64](d.Get("copy"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("got %v", got)
	}
}

func TestParseAt(t *testing.T) {
	d := New()
	mustParse(t, d, `a.b = {}`)
	if err := d.ParseAt([]byte(`c = 1`), "a", "b"); err != nil {
		t.Fatal(err)
	}
	got, err := Decode[float64](d.Get("a", "b", "c"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("got %v", got)
	}
}

func TestParseStopsAtFailingStatement(t *testing.T) {
	d := New()
	err := d.Parse([]byte(`a = 1` + "\n" + `b = `))
	if err == nil {
		t.Fatal("expected error")
	}
	// statements before the failing one stay applied
	got, err := Decode[float64](d.Get("a"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("got %v", got)
	}
	if _, err := Decode[float64](d.Get("b")); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("got %v", err)
	}
}
