package token

import (
	"fmt"
)

type TokenType int

const (
	TIdent TokenType = iota
	TNumber
	TString
	TEquals
	TDot
	TComma
	TLCurl
	TRCurl
	TLSquare
	TRSquare
	TLParen
	TRParen
	TInclude
	TAs
	TSelf
	TRoot
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TIdent:   "TIdent",
		TNumber:  "TNumber",
		TString:  "TString",
		TEquals:  "TEquals",
		TDot:     "TDot",
		TComma:   "TComma",
		TLCurl:   "TLCurl",
		TRCurl:   "TRCurl",
		TLSquare: "TLSquare",
		TRSquare: "TRSquare",
		TLParen:  "TLParen",
		TRParen:  "TRParen",
		TInclude: "TInclude",
		TAs:      "TAs",
		TSelf:    "TSelf",
		TRoot:    "TRoot",
	}[t]
}

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

// String returns the source text of the token. For TString, quotes are
// stripped and escapes are applied.
func (t *Token) String() string {
	if t.Type == TString {
		return QuotedToString(t.Bytes)
	}
	return string(t.Bytes)
}

type TokenizeErr struct {
	Err error
	Pos Pos
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Unwrap() error {
	return e.Err
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func ExpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("expected %s", what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("unexpected %s", what), p)
}
