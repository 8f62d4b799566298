package opal

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestExtensionOverridePrecedence(t *testing.T) {
	d := New()
	mustParse(t, d, `
base = {x = 1 y = 2}
child = base {y = 9}
`)
	x, err := Decode[float64](d.Get("child", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if x != 1 {
		t.Errorf("child.x = %v", x)
	}
	y, err := Decode[float64](d.Get("child", "y"))
	if err != nil {
		t.Fatal(err)
	}
	if y != 9 {
		t.Errorf("child.y = %v", y)
	}

	// the base is untouched
	y, err = Decode[float64](d.Get("base", "y"))
	if err != nil {
		t.Fatal(err)
	}
	if y != 2 {
		t.Errorf("base.y = %v", y)
	}
}

func TestExtensionOfExtension(t *testing.T) {
	d := New()
	mustParse(t, d, `
a = {x = 1 y = 2 z = 3}
b = a {y = 20}
c = b {z = 30}
`)
	got, err := Decode[map[string]float64](d.Get("c"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"x": 1, "y": 20, "z": 30}
	if df := cmp.Diff(want, got); df != "" {
		t.Error(df)
	}
}

func TestNestedOverrideMergesRecursively(t *testing.T) {
	d := New()
	mustParse(t, d, `
base = {inner = {p = 1 q = 2}}
child = base {inner = {q = 9}}
`)
	got, err := Decode[map[string]map[string]float64](d.Get("child"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]map[string]float64{"inner": {"p": 1, "q": 9}}
	if df := cmp.Diff(want, got); df != "" {
		t.Error(df)
	}
}

func TestSelfScoping(t *testing.T) {
	d := New()
	mustParse(t, d, `
x = 100
p = {x = 5 y = self.x}
`)
	got, err := Decode[float64](d.Get("p", "y"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 5 {
		t.Errorf("p.y = %v, want the lexically enclosing x", got)
	}
}

func TestGlobalReferenceIgnoresEnclosingObject(t *testing.T) {
	d := New()
	mustParse(t, d, `
x = 100
p = {x = 5 y = x}
`)
	got, err := Decode[float64](d.Get("p", "y"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 100 {
		t.Errorf("p.y = %v, want the root x", got)
	}
}

func TestUnknownPropagation(t *testing.T) {
	d := New()
	v, err := d.Get("never", "defined").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindUnknown {
		t.Fatalf("got %v", v.Kind())
	}
	var uv *UnknownValueError
	_, err = Decode[float64](d.Get("never", "defined"))
	if !errors.As(err, &uv) {
		t.Fatalf("got %v", err)
	}
}

func TestCycleDetection(t *testing.T) {
	for _, tc := range []struct {
		name string
		src  string
		path []string
	}{
		{"mutual extension", `a = b {}` + "\n" + `b = a {}`, []string{"a"}},
		{"self link", `a = a`, []string{"a"}},
		{"through self", `p = {x = self.x}`, []string{"p", "x"}},
		{"long loop", `a = b` + "\n" + `b = c` + "\n" + `c = a`, []string{"a"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			d := New()
			mustParse(t, d, tc.src)
			_, err := d.Get(tc.path...).Resolve()
			if !errors.Is(err, ErrCycle) {
				t.Errorf("got %v", err)
			}
		})
	}
}

func TestDeepChainIsNotACycle(t *testing.T) {
	d := New()
	mustParse(t, d, `a0 = {x = 1}`)
	src := ""
	for i := 1; i <= 200; i++ {
		src += "a" + strconv.Itoa(i) + " = a" + strconv.Itoa(i-1) + " {}\n"
	}
	mustParse(t, d, src)
	got, err := Decode[float64](d.Get("a200", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("got %v", got)
	}
}

func TestIdempotentResolution(t *testing.T) {
	d := New()
	mustParse(t, d, `
base = {x = 1}
c = base {y = [1, "two", {z = 3}]}
`)
	e := d.Get("c")
	first, err := Decode[map[string]any](e)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Decode[map[string]any](e)
	if err != nil {
		t.Fatal(err)
	}
	if df := cmp.Diff(first, second); df != "" {
		t.Error(df)
	}
}

func TestExtendingPrimitiveFails(t *testing.T) {
	d := New()
	mustParse(t, d, `a = 5`+"\n"+`b = a {x = 1}`)
	_, err := d.Get("b").Resolve()
	if !errors.Is(err, ErrExtend) {
		t.Errorf("got %v", err)
	}
}

func TestExtendingUnknownActsAsOverlay(t *testing.T) {
	d := New()
	mustParse(t, d, `b = missing {x = 1}`)
	got, err := Decode[float64](d.Get("b", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("got %v", got)
	}

	// a later parse supplies the base and the same handle sees it
	mustParse(t, d, `missing = {x = 7 y = 2}`)
	got, err = Decode[float64](d.Get("b", "y"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 2 {
		t.Errorf("got %v", got)
	}
	got, err = Decode[float64](d.Get("b", "x"))
	if err != nil {
		t.Fatal(err)
	}
	if got != 1 {
		t.Errorf("override lost: got %v", got)
	}
}

func TestLateExtensionFieldsViaUpgrade(t *testing.T) {
	// assigning through a link turns it into an extension of its target
	d := New()
	mustParse(t, d, `
base = {x = 1}
a = base
a.y = 2
`)
	got, err := Decode[map[string]float64](d.Get("a"))
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]float64{"x": 1, "y": 2}
	if df := cmp.Diff(want, got); df != "" {
		t.Error(df)
	}
	// the target is untouched
	if _, err := Decode[float64](d.Get("base", "y")); !errors.Is(err, ErrUnknownValue) {
		t.Fatalf("base mutated: %v", err)
	}
}

func TestListElementsResolve(t *testing.T) {
	d := New()
	mustParse(t, d, `
base = {x = 1}
xs = [1, "two", base {y = 2}]
`)
	v, err := d.Get("xs").Resolve()
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindList || v.Len() != 3 {
		t.Fatalf("kind=%v len=%d", v.Kind(), v.Len())
	}
	n, err := Decode[float64](v.Elem(0))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("got %v", n)
	}
	obj, err := Decode[map[string]float64](v.Elem(2))
	if err != nil {
		t.Fatal(err)
	}
	if df := cmp.Diff(map[string]float64{"x": 1, "y": 2}, obj); df != "" {
		t.Error(df)
	}
}
