package main

import (
	"bytes"
	"context"

	"github.com/opal-format/go-opal/encode"
	"github.com/opal-format/go-opal/format"
	"github.com/opal-format/go-opal/token"

	"go.lsp.dev/protocol"
)

// Hover resolves the dotted path under the cursor against the
// document root and shows the resolved value.
func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil || doc.doc == nil {
		return nil, nil
	}
	path := pathAtPosition(doc.content, int(params.Position.Line), int(params.Position.Character))
	if len(path) == 0 {
		return nil, nil
	}
	e := doc.doc.Get(path...)
	var buf bytes.Buffer
	err := encode.Encode(e, &buf,
		encode.EncodeFormat(format.OpalFormat),
		encode.MaxDepth(16))
	if err != nil {
		return nil, nil
	}
	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.Markdown,
			Value: "```opal\n" + buf.String() + "```",
		},
	}, nil
}

// pathAtPosition tokenizes the source and reads off the dotted path
// the cursor sits on: the identifier under the cursor plus any
// ident.ident chain around it.
func pathAtPosition(content string, line, col int) []string {
	toks, err := token.Tokenize(nil, []byte(content))
	if err != nil {
		return nil
	}
	at := -1
	for i := range toks {
		t := &toks[i]
		if t.Type != token.TIdent {
			continue
		}
		tl, tc := t.Pos.LineCol()
		if tl != line {
			continue
		}
		if col >= tc && col <= tc+len(t.Bytes) {
			at = i
			break
		}
	}
	if at < 0 {
		return nil
	}
	first, last := at, at
	for first >= 2 && toks[first-1].Type == token.TDot && toks[first-2].Type == token.TIdent {
		first -= 2
	}
	for last+2 < len(toks) && toks[last+1].Type == token.TDot && toks[last+2].Type == token.TIdent {
		last += 2
	}
	var path []string
	for i := first; i <= last; i += 2 {
		path = append(path, toks[i].String())
	}
	return path
}
