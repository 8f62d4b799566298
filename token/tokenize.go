// Package token tokenizes opal source text.
package token

import (
	"errors"
	"unicode"
	"unicode/utf8"
)

var ErrTokenize = errors.New("tokenize error")

var keywords = map[string]TokenType{
	"include": TInclude,
	"as":      TAs,
	"self":    TSelf,
	"root":    TRoot,
}

// Tokenize appends the tokens of d to dst. Positions of the returned
// tokens stay valid for the lifetime of the underlying PosDoc.
func Tokenize(dst []Token, d []byte) ([]Token, error) {
	pd := &PosDoc{d: d}
	i := 0
	n := len(d)
	for i < n {
		c := d[i]
		switch {
		case c == '\n':
			pd.nl(i)
			i++
		case c == ' ' || c == '\t' || c == '\r':
			i++
		case c == '=':
			dst = append(dst, Token{Type: TEquals, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == '.':
			dst = append(dst, Token{Type: TDot, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == ',':
			dst = append(dst, Token{Type: TComma, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == '{':
			dst = append(dst, Token{Type: TLCurl, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == '}':
			dst = append(dst, Token{Type: TRCurl, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == '[':
			dst = append(dst, Token{Type: TLSquare, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == ']':
			dst = append(dst, Token{Type: TRSquare, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == '(':
			dst = append(dst, Token{Type: TLParen, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == ')':
			dst = append(dst, Token{Type: TRParen, Pos: pd.Pos(i), Bytes: d[i : i+1]})
			i++
		case c == '"':
			end, err := scanString(d, i, pd)
			if err != nil {
				return nil, err
			}
			dst = append(dst, Token{Type: TString, Pos: pd.Pos(i), Bytes: d[i:end]})
			i = end
		case c == '-' || (c >= '0' && c <= '9'):
			end, err := scanNumber(d, i, pd)
			if err != nil {
				return nil, err
			}
			dst = append(dst, Token{Type: TNumber, Pos: pd.Pos(i), Bytes: d[i:end]})
			i = end
		default:
			r, sz := utf8.DecodeRune(d[i:])
			if !identStart(r) {
				return nil, NewTokenizeErr(ErrTokenize, pd.Pos(i))
			}
			end := i + sz
			for end < n {
				r, sz := utf8.DecodeRune(d[end:])
				if !identCont(r) {
					break
				}
				end += sz
			}
			tt, ok := keywords[string(d[i:end])]
			if !ok {
				tt = TIdent
			}
			dst = append(dst, Token{Type: tt, Pos: pd.Pos(i), Bytes: d[i:end]})
			i = end
		}
	}
	return dst, nil
}

func identStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func identCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// scanString scans a double-quoted string starting at i, returning the
// offset just past the closing quote. Newlines inside strings update
// line accounting so positions after a multi-line string stay correct.
func scanString(d []byte, i int, pd *PosDoc) (int, error) {
	j := i + 1
	n := len(d)
	for j < n {
		switch d[j] {
		case '"':
			return j + 1, nil
		case '\\':
			j++
			if j >= n {
				return 0, ExpectedErr("escaped character", pd.Pos(j))
			}
			if d[j] == '\n' {
				pd.nl(j)
			}
			j++
		case '\n':
			pd.nl(j)
			j++
		default:
			j++
		}
	}
	return 0, NewTokenizeErr(errors.New(`unmatched '"'`), pd.Pos(i))
}

func scanNumber(d []byte, i int, pd *PosDoc) (int, error) {
	j := i
	n := len(d)
	if d[j] == '-' {
		j++
		if j >= n || d[j] < '0' || d[j] > '9' {
			return 0, ExpectedErr("digit after '-'", pd.Pos(j))
		}
	}
	for j < n && d[j] >= '0' && d[j] <= '9' {
		j++
	}
	if j < n && d[j] == '.' && j+1 < n && d[j+1] >= '0' && d[j+1] <= '9' {
		j++
		for j < n && d[j] >= '0' && d[j] <= '9' {
			j++
		}
	}
	return j, nil
}

// QuotedToString converts the raw source bytes of a TString token,
// quotes included, to the string value it denotes.
func QuotedToString(d []byte) string {
	if len(d) >= 2 && d[0] == '"' {
		d = d[1 : len(d)-1]
	}
	res := make([]byte, 0, len(d))
	for i := 0; i < len(d); i++ {
		if d[i] == '\\' && i+1 < len(d) {
			i++
		}
		res = append(res, d[i])
	}
	return string(res)
}
