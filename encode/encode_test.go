package encode

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/opal-format/go-opal"
	"github.com/opal-format/go-opal/format"
)

func doc(t *testing.T, src string) *opal.Document {
	t.Helper()
	d := opal.New()
	if err := d.Parse([]byte(src)); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestEncodeOpal(t *testing.T) {
	d := doc(t, `
base = {x = 1}
c = base {y = "two" xs = [1, 2]}
`)
	var buf bytes.Buffer
	if err := Encode(d.Get("c"), &buf); err != nil {
		t.Fatal(err)
	}
	want := `x = 1
y = "two"
xs = [1, 2]
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeNested(t *testing.T) {
	d := doc(t, `o = {a = {b = 2} e = {}}`)
	var buf bytes.Buffer
	if err := Encode(d.Get("o"), &buf); err != nil {
		t.Fatal(err)
	}
	want := `a = {
  b = 2
}
e = {}
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeJSON(t *testing.T) {
	d := doc(t, `o = {n = 1.5 s = "x" l = [1, "y"]}`)
	var buf bytes.Buffer
	if err := Encode(d.Get("o"), &buf, EncodeFormat(format.JSONFormat)); err != nil {
		t.Fatal(err)
	}
	want := `{
  "n": 1.5,
  "s": "x",
  "l": [1, "y"]
}
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestEncodeYAMLKeepsOrder(t *testing.T) {
	d := doc(t, `o = {zebra = 1 alpha = 2}`)
	var buf bytes.Buffer
	if err := Encode(d.Get("o"), &buf, EncodeFormat(format.YAMLFormat)); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "zebra") || strings.Index(out, "zebra") > strings.Index(out, "alpha") {
		t.Errorf("got:\n%s", out)
	}
}

func TestEncodeUnknownFails(t *testing.T) {
	d := doc(t, `o = {x = missing}`)
	var buf bytes.Buffer
	err := Encode(d.Get("o"), &buf)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestEncodeSelfReferentialFails(t *testing.T) {
	d := doc(t, `t = {u = t}`)
	var buf bytes.Buffer
	err := Encode(d.Get("t"), &buf, MaxDepth(50))
	if !errors.Is(err, ErrEncoding) {
		t.Fatalf("got %v", err)
	}
}
