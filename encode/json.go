package encode

import (
	"io"
	"strconv"

	"github.com/opal-format/go-opal"
)

// encodeJSON writes the resolved entry as JSON, field order preserved.
func encodeJSON(e opal.Entry, w io.Writer, es *EncState) error {
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
		return jsonList(v, w, es)
	case opal.KindObject:
		return jsonObject(v, w, es)
	}
	return &opal.UnknownValueError{Path: e.Path()}
}

func jsonObject(v *opal.Value, w io.Writer, es *EncState) error {
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
	for i, key := range keys {
		if err := writeString(w, es.pad()); err != nil {
			return err
		}
		name := es.color(opal.KindObject, FieldColor, strconv.Quote(key))
		if err := writeString(w, name+": "); err != nil {
			return err
		}
		if err := encodeJSON(v.Field(key), w, es); err != nil {
			return err
		}
		if i < len(keys)-1 {
			if err := writeString(w, ","); err != nil {
				return err
			}
		}
		if err := writeString(w, "\n"); err != nil {
			return err
		}
	}
	es.depth--
	return writeString(w, es.pad()+"}")
}

func jsonList(v *opal.Value, w io.Writer, es *EncState) error {
	if err := es.enter(); err != nil {
		return err
	}
	defer func() { es.depth-- }()
	if err := writeString(w, "["); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			if err := writeString(w, ", "); err != nil {
				return err
			}
		}
		if err := encodeJSON(v.Elem(i), w, es); err != nil {
			return err
		}
	}
	return writeString(w, "]")
}
