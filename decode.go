package opal

import (
	"fmt"
	"math"
	"reflect"

	"github.com/opal-format/go-opal/internal/debug"
)

// Decodable lets a type decode itself from an entry instead of going
// through reflection.
type Decodable interface {
	FromOpal(Entry) error
}

// Decode resolves the entry and converts it to T.
func Decode[T any](e Entry) (T, error) {
	var out T
	err := e.Decode(&out)
	return out, err
}

// Decode resolves the entry and converts it into v, which must be a
// non-nil pointer. Structs are filled field by field, by `opal` tag
// or lower-cased field name; pointer fields are optional, value
// fields are required. Interface fields are filled through the
// prelude's dynamic decoders.
func (e Entry) Decode(v any) error {
	if v == nil {
		return fmt.Errorf("%w: destination cannot be nil", ErrDecode)
	}
	val := reflect.ValueOf(v)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return fmt.Errorf("%w: destination must be a non-nil pointer", ErrDecode)
	}
	return e.doc.decode(e, val.Elem(), resolveStack{})
}

// DynamicDecode resolves the entry and selects a decoder for T by
// walking the entry's extension chain from most derived to least:
// the first prelude identity carrying a decoder for T wins.
func DynamicDecode[T any](e Entry) (T, error) {
	var out T
	got, err := e.doc.dynamicDecode(e, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return out, err
	}
	return got.(T), nil
}

func (d *Document) dynamicDecode(e Entry, t reflect.Type) (any, error) {
	v, err := e.resolve(resolveStack{})
	if err != nil {
		return nil, err
	}
	for _, pid := range v.chain {
		fn, ok := d.decoders[pid][t]
		if !ok {
			continue
		}
		debug.Logf(debug.Decode, "dynamic decode %v at %q via prelude node %d", t, e.path, pid)
		got, err := fn(e)
		if err != nil {
			return nil, &DecoderFailedError{Path: e.path, Err: err}
		}
		return got, nil
	}
	return nil, &NoDecoderError{Path: e.path, Target: t}
}

func (d *Document) decode(e Entry, val reflect.Value, seen resolveStack) error {
	if e.pinned {
		for _, id := range e.ids {
			if !seen.enter(id) {
				return &CycleError{Path: e.path}
			}
			defer seen.leave(id)
		}
	}

	if val.CanAddr() {
		if dec, ok := val.Addr().Interface().(Decodable); ok {
			return dec.FromOpal(e)
		}
	}

	switch val.Kind() {
	case reflect.Pointer:
		if val.IsNil() {
			val.Set(reflect.New(val.Type().Elem()))
		}
		return d.decode(e, val.Elem(), seen)
	case reflect.Interface:
		return d.decodeInterface(e, val, seen)
	}

	v, err := e.resolve(resolveStack{})
	if err != nil {
		return err
	}
	if v.kind == KindUnknown {
		return &UnknownValueError{Path: e.path}
	}

	switch val.Kind() {
	case reflect.Float32, reflect.Float64:
		if v.kind != KindNumber {
			return &TypeMismatchError{Path: e.path, Expected: KindNumber, Found: v.kind}
		}
		val.SetFloat(v.num)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.kind != KindNumber {
			return &TypeMismatchError{Path: e.path, Expected: KindNumber, Found: v.kind}
		}
		if v.num != math.Trunc(v.num) {
			return fmt.Errorf("%w at %q: %v is not an integer", ErrTypeMismatch, e.path, v.num)
		}
		val.SetInt(int64(v.num))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if v.kind != KindNumber {
			return &TypeMismatchError{Path: e.path, Expected: KindNumber, Found: v.kind}
		}
		if v.num != math.Trunc(v.num) || v.num < 0 {
			return fmt.Errorf("%w at %q: %v is not an unsigned integer", ErrTypeMismatch, e.path, v.num)
		}
		val.SetUint(uint64(v.num))
	case reflect.String:
		if v.kind != KindString {
			return &TypeMismatchError{Path: e.path, Expected: KindString, Found: v.kind}
		}
		val.SetString(v.str)
	case reflect.Slice:
		return d.decodeSlice(e, v, val, seen)
	case reflect.Array:
		return d.decodeArray(e, v, val, seen)
	case reflect.Map:
		return d.decodeMap(e, v, val, seen)
	case reflect.Struct:
		return d.decodeStruct(e, v, val, seen)
	default:
		return fmt.Errorf("%w: unsupported destination type %v", ErrDecode, val.Type())
	}
	return nil
}

func (d *Document) decodeSlice(e Entry, v *view, val reflect.Value, seen resolveStack) error {
	if v.kind != KindList {
		return &TypeMismatchError{Path: e.path, Expected: KindList, Found: v.kind}
	}
	out := reflect.MakeSlice(val.Type(), len(v.elems), len(v.elems))
	value := &Value{entry: e, v: v}
	for i := range v.elems {
		if err := d.decode(value.Elem(i), out.Index(i), seen); err != nil {
			return err
		}
	}
	val.Set(out)
	return nil
}

func (d *Document) decodeArray(e Entry, v *view, val reflect.Value, seen resolveStack) error {
	if v.kind != KindList {
		return &TypeMismatchError{Path: e.path, Expected: KindList, Found: v.kind}
	}
	if len(v.elems) != val.Len() {
		return fmt.Errorf("%w at %q: list has %d elements, want %d",
			ErrTypeMismatch, e.path, len(v.elems), val.Len())
	}
	value := &Value{entry: e, v: v}
	for i := range v.elems {
		if err := d.decode(value.Elem(i), val.Index(i), seen); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) decodeMap(e Entry, v *view, val reflect.Value, seen resolveStack) error {
	if v.kind != KindObject {
		return &TypeMismatchError{Path: e.path, Expected: KindObject, Found: v.kind}
	}
	if val.Type().Key().Kind() != reflect.String {
		return fmt.Errorf("%w: map destination must be keyed by string, not %v", ErrDecode, val.Type().Key())
	}
	out := reflect.MakeMapWithSize(val.Type(), len(v.keys))
	value := &Value{entry: e, v: v}
	for _, k := range v.keys {
		fv := reflect.New(val.Type().Elem()).Elem()
		if err := d.decode(value.Field(k), fv, seen); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(k).Convert(val.Type().Key()), fv)
	}
	val.Set(out)
	return nil
}

func (d *Document) decodeStruct(e Entry, v *view, val reflect.Value, seen resolveStack) error {
	if v.kind != KindObject {
		return &TypeMismatchError{Path: e.path, Expected: KindObject, Found: v.kind}
	}
	value := &Value{entry: e, v: v}
	t := val.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name := fieldName(f)
		if name == "-" {
			continue
		}
		if _, ok := v.fields[name]; !ok {
			if f.Type.Kind() == reflect.Pointer {
				continue
			}
			return &MissingFieldError{Path: e.path, Name: name}
		}
		if err := d.decode(value.Field(name), val.Field(i), seen); err != nil {
			return err
		}
	}
	return nil
}

// decodeInterface fills an interface destination: the empty interface
// gets the generic shape of the value, any other interface goes
// through dynamic dispatch.
func (d *Document) decodeInterface(e Entry, val reflect.Value, seen resolveStack) error {
	if val.Type().NumMethod() > 0 {
		got, err := d.dynamicDecode(e, val.Type())
		if err != nil {
			return err
		}
		val.Set(reflect.ValueOf(got))
		return nil
	}
	v, err := e.resolve(resolveStack{})
	if err != nil {
		return err
	}
	value := &Value{entry: e, v: v}
	switch v.kind {
	case KindNumber:
		val.Set(reflect.ValueOf(v.num))
	case KindString:
		val.Set(reflect.ValueOf(v.str))
	case KindList:
		out := make([]any, len(v.elems))
		for i := range v.elems {
			if err := d.decode(value.Elem(i), reflect.ValueOf(&out[i]).Elem(), seen); err != nil {
				return err
			}
		}
		val.Set(reflect.ValueOf(out))
	case KindObject:
		out := make(map[string]any, len(v.keys))
		for _, k := range v.keys {
			var fv any
			if err := d.decode(value.Field(k), reflect.ValueOf(&fv).Elem(), seen); err != nil {
				return err
			}
			out[k] = fv
		}
		val.Set(reflect.ValueOf(out))
	default:
		return &UnknownValueError{Path: e.path}
	}
	return nil
}

func fieldName(f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("opal"); ok && tag != "" {
		return tag
	}
	return lower(f.Name)
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
