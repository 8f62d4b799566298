package token

import (
	"errors"
	"testing"
)

func types(toks []Token) []TokenType {
	res := make([]TokenType, len(toks))
	for i := range toks {
		res[i] = toks[i].Type
	}
	return res
}

func TestTokenize(t *testing.T) {
	src := `include "colors.opal" as colors
p.q = colors.red { weight = -1.5 }
xs = [1, "two"]
c = rgb(0, 0, 1)
s = self.x
`
	toks, err := Tokenize(nil, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	want := []TokenType{
		TInclude, TString, TAs, TIdent,
		TIdent, TDot, TIdent, TEquals, TIdent, TDot, TIdent, TLCurl, TIdent, TEquals, TNumber, TRCurl,
		TIdent, TEquals, TLSquare, TNumber, TComma, TString, TRSquare,
		TIdent, TEquals, TIdent, TLParen, TNumber, TComma, TNumber, TComma, TNumber, TRParen,
		TIdent, TEquals, TSelf, TDot, TIdent,
	}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTokenizeStringEscapes(t *testing.T) {
	toks, err := Tokenize(nil, []byte(`a = "he said \"hi\"\\"`))
	if err != nil {
		t.Fatal(err)
	}
	got := toks[2].String()
	if got != `he said "hi"\` {
		t.Errorf("got %q", got)
	}
}

func TestTokenizeErrors(t *testing.T) {
	for _, src := range []string{
		`a = "unterminated`,
		`a = -x`,
		`a = $`,
	} {
		_, err := Tokenize(nil, []byte(src))
		if err == nil {
			t.Errorf("%s: expected error", src)
		}
		var te *TokenizeErr
		if !errors.As(err, &te) {
			t.Errorf("%s: got %T", src, err)
		}
	}
}

func TestPosLineCol(t *testing.T) {
	src := "a = 1\nbb = 2\n"
	toks, err := Tokenize(nil, []byte(src))
	if err != nil {
		t.Fatal(err)
	}
	// bb starts the second line; lines and columns count from zero
	line, col := toks[3].Pos.LineCol()
	if line != 1 || col != 0 {
		t.Errorf("got line=%d col=%d", line, col)
	}
	line, col = toks[5].Pos.LineCol()
	if line != 1 || col != 5 {
		t.Errorf("got line=%d col=%d", line, col)
	}
}
