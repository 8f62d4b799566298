package opal

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrResolve is the family of structural errors raised while
	// resolving references, extensions and merges.
	ErrResolve = errors.New("resolve error")

	ErrCycle       = fmt.Errorf("%w: cycle detected", ErrResolve)
	ErrNotAnObject = fmt.Errorf("%w: path through non-object", ErrResolve)
	ErrExtend      = fmt.Errorf("%w: extension of non-object", ErrResolve)
	ErrArity       = fmt.Errorf("%w: argument count mismatch", ErrResolve)

	// ErrDecode is the family of errors raised while converting a
	// resolved entry to a native value.
	ErrDecode = errors.New("decode error")

	ErrTypeMismatch = fmt.Errorf("%w: type mismatch", ErrDecode)
	ErrMissingField = fmt.Errorf("%w: missing field", ErrDecode)
	ErrUnknownValue = fmt.Errorf("%w: unknown value", ErrDecode)
	ErrNoDecoder    = fmt.Errorf("%w: no decoder found", ErrDecode)

	// ErrAmbiguousDecoder is returned when two decoders for the same
	// target type are registered on one prelude entry.
	ErrAmbiguousDecoder = errors.New("ambiguous decoder registration")

	// ErrFinalized is returned when a finalized prelude is mutated.
	ErrFinalized = errors.New("prelude is finalized")
)

type CycleError struct {
	Path Path
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v at %q", ErrCycle, e.Path)
}

func (e *CycleError) Unwrap() error { return ErrCycle }

type NotAnObjectError struct {
	Path  Path
	Found Kind
}

func (e *NotAnObjectError) Error() string {
	return fmt.Sprintf("%v: %q is %v", ErrNotAnObject, e.Path, e.Found)
}

func (e *NotAnObjectError) Unwrap() error { return ErrNotAnObject }

type ExtendError struct {
	Path  Path
	Found Kind
}

func (e *ExtendError) Error() string {
	return fmt.Sprintf("%v: base %q is %v", ErrExtend, e.Path, e.Found)
}

func (e *ExtendError) Unwrap() error { return ErrExtend }

type ArityError struct {
	Path Path
	Want int
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%v at %q: want %d arguments, got %d", ErrArity, e.Path, e.Want, e.Got)
}

func (e *ArityError) Unwrap() error { return ErrArity }

type TypeMismatchError struct {
	Path     Path
	Expected Kind
	Found    Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%v at %q: expected %v, found %v", ErrTypeMismatch, e.Path, e.Expected, e.Found)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

type MissingFieldError struct {
	Path Path
	Name string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%v: %q has no field %q", ErrMissingField, e.Path, e.Name)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

type UnknownValueError struct {
	Path Path
}

func (e *UnknownValueError) Error() string {
	return fmt.Sprintf("%v: %q was never assigned", ErrUnknownValue, e.Path)
}

func (e *UnknownValueError) Unwrap() error { return ErrUnknownValue }

type NoDecoderError struct {
	Path   Path
	Target reflect.Type
}

func (e *NoDecoderError) Error() string {
	return fmt.Sprintf("%v for %v at %q", ErrNoDecoder, e.Target, e.Path)
}

func (e *NoDecoderError) Unwrap() error { return ErrNoDecoder }

// DecoderFailedError wraps an error returned by a prelude decoder.
type DecoderFailedError struct {
	Path Path
	Err  error
}

func (e *DecoderFailedError) Error() string {
	return fmt.Sprintf("decoder failed at %q: %v", e.Path, e.Err)
}

func (e *DecoderFailedError) Unwrap() error { return e.Err }
