package parse

import (
	"errors"
	"fmt"

	"github.com/opal-format/go-opal/token"
)

var ErrParse = errors.New("parse error")

// SyntaxError reports a grammar violation with its position and what
// the parser expected there.
type SyntaxError struct {
	Pos      *token.Pos
	Expected string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%v: expected %s %s", ErrParse, e.Expected, e.Pos)
}

func (e *SyntaxError) Unwrap() error {
	return ErrParse
}

func syntaxErr(expected string, pos *token.Pos) error {
	return &SyntaxError{Pos: pos, Expected: expected}
}
