// Package encode renders resolved opal entries as opal text, JSON or
// YAML. References and extensions are flattened to their merged
// values, so the output is include-free and self-contained.
package encode

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/opal-format/go-opal"
	"github.com/opal-format/go-opal/format"
)

var ErrEncoding = errors.New("encoding error")

type EncState struct {
	depth    int
	indent   int
	maxDepth int

	format format.Format

	Color func(opal.Kind, ColorAttr, string) string
}

// Encode resolves e and writes it to w. Objects at the top level are
// written as statements; everything else is written as a bare value.
func Encode(e opal.Entry, w io.Writer, opts ...EncodeOption) error {
	es := &EncState{
		indent:   2,
		maxDepth: 1000,
	}
	for _, opt := range opts {
		opt(es)
	}
	switch es.format {
	case format.YAMLFormat:
		return encodeYAML(e, w, es)
	case format.JSONFormat:
		if err := encodeJSON(e, w, es); err != nil {
			return err
		}
		return writeString(w, "\n")
	}
	v, err := e.Resolve()
	if err != nil {
		return err
	}
	if v.Kind() == opal.KindObject {
		return encodeStatements(v, w, es)
	}
	if err := encodeValue(e, w, es); err != nil {
		return err
	}
	return writeString(w, "\n")
}

func writeString(w io.Writer, s string) error {
	_, err := w.Write([]byte(s))
	return err
}

func (es *EncState) color(k opal.Kind, a ColorAttr, s string) string {
	if es.Color == nil {
		return s
	}
	return es.Color(k, a, s)
}

func (es *EncState) enter() error {
	es.depth++
	if es.depth > es.maxDepth {
		return fmt.Errorf("%w: depth limit exceeded, value may be self-referential", ErrEncoding)
	}
	return nil
}

func (es *EncState) pad() string {
	return strings.Repeat(strings.Repeat(" ", es.indent), es.depth)
}

// encodeStatements writes an object's fields as one statement per
// line, the way a source file would.
func encodeStatements(v *opal.Value, w io.Writer, es *EncState) error {
	for _, key := range v.Keys() {
		if err := writeString(w, es.pad()); err != nil {
			return err
		}
		if err := writeString(w, es.color(opal.KindObject, FieldColor, key)); err != nil {
			return err
		}
		if err := writeString(w, es.color(opal.KindObject, SepColor, " = ")); err != nil {
			return err
		}
		if err := encodeValue(v.Field(key), w, es); err != nil {
			return err
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func encodeValue(e opal.Entry, w io.Writer, es *EncState) error {
	v, err := e.Resolve()
	if err != nil {
		return err
	}
	switch v.Kind() {
	case opal.KindNumber:
		return writeString(w, es.color(opal.KindNumber, ValueColor, formatNumber(v.Number())))
	case opal.KindString:
		return writeString(w, es.color(opal.KindString, ValueColor, strconv.Quote(v.Text())))
	case opal.KindList:
		return encodeList(v, w, es)
	case opal.KindObject:
		return encodeObject(v, w, es)
	}
	return fmt.Errorf("%w: %q was never assigned", ErrEncoding, e.Path())
}

func encodeObject(v *opal.Value, w io.Writer, es *EncState) error {
	keys := v.Keys()
	if len(keys) == 0 {
		return writeString(w, "{}")
	}
	if err := es.enter(); err != nil {
		return err
	}
	if err := writeString(w, "{\n"); err != nil {
		return err
	}
	if err := encodeStatements(v, w, es); err != nil {
		return err
	}
	es.depth--
	return writeString(w, es.pad()+"}")
}

func encodeList(v *opal.Value, w io.Writer, es *EncState) error {
	if err := es.enter(); err != nil {
		return err
	}
	defer func() { es.depth-- }()
	if err := writeString(w, "["); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			if err := writeString(w, es.color(opal.KindList, SepColor, ", ")); err != nil {
				return err
			}
		}
		if err := encodeValue(v.Elem(i), w, es); err != nil {
			return err
		}
	}
	return writeString(w, "]")
}

// formatNumber renders in plain decimal so the output stays valid
// opal source.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
