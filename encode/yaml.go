package encode

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/opal-format/go-opal"
)

// encodeYAML converts the resolved entry to an order-preserving yaml
// tree and marshals it.
func encodeYAML(e opal.Entry, w io.Writer, es *EncState) error {
	tree, err := yamlTree(e, es)
	if err != nil {
		return err
	}
	d, err := yaml.Marshal(tree)
	if err != nil {
		return err
	}
	return writeString(w, string(d))
}

func yamlTree(e opal.Entry, es *EncState) (any, error) {
	v, err := e.Resolve()
	if err != nil {
		return nil, err
	}
	switch v.Kind() {
	case opal.KindNumber:
		return v.Number(), nil
	case opal.KindString:
		return v.Text(), nil
	case opal.KindList:
		if err := es.enter(); err != nil {
			return nil, err
		}
		defer func() { es.depth-- }()
		elems := make([]any, v.Len())
		for i := range elems {
			ev, err := yamlTree(v.Elem(i), es)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return elems, nil
	case opal.KindObject:
		if err := es.enter(); err != nil {
			return nil, err
		}
		defer func() { es.depth-- }()
		obj := make(yaml.MapSlice, 0, len(v.Keys()))
		for _, key := range v.Keys() {
			fv, err := yamlTree(v.Field(key), es)
			if err != nil {
				return nil, err
			}
			obj = append(obj, yaml.MapItem{Key: key, Value: fv})
		}
		return obj, nil
	}
	return nil, &opal.UnknownValueError{Path: e.Path()}
}
