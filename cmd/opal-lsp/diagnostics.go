package main

import (
	"context"
	"errors"
	"sync"

	"github.com/opal-format/go-opal"
	"github.com/opal-format/go-opal/parse"
	"github.com/opal-format/go-opal/stdlib"
	"github.com/opal-format/go-opal/token"

	"go.lsp.dev/protocol"
)

type documentStore struct {
	mu   sync.RWMutex
	docs map[string]*document
}

type document struct {
	uri      string
	content  string
	version  int32
	doc      *opal.Document
	parseErr error
}

func (ds *documentStore) get(uri string) *document {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	return ds.docs[uri]
}

func (ds *documentStore) put(uri string, content string, version int32) {
	d, err := newDocument()
	if err == nil {
		err = d.Parse([]byte(content))
	}
	if err != nil {
		d = nil
	}
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.docs[uri] = &document{
		uri:      uri,
		content:  content,
		version:  version,
		doc:      d,
		parseErr: err,
	}
}

func (ds *documentStore) remove(uri string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.docs, uri)
}

func newDocument() (*opal.Document, error) {
	p := opal.NewPrelude()
	if err := stdlib.Register(p); err != nil {
		return nil, err
	}
	if err := p.Finalize(); err != nil {
		return nil, err
	}
	return opal.New(opal.WithPrelude(p)), nil
}

func (s *Server) publishDiagnostics(ctx context.Context, uri string) {
	doc := s.docs.get(uri)
	if doc == nil || s.conn == nil {
		return
	}
	s.conn.Notify(ctx, protocol.MethodTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         protocol.DocumentURI(uri),
		Diagnostics: validateDocument(doc),
	})
}

func validateDocument(doc *document) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}
	if doc.parseErr == nil {
		return diagnostics
	}
	diagnostic := protocol.Diagnostic{
		Severity: protocol.DiagnosticSeverityError,
		Message:  doc.parseErr.Error(),
		Source:   "opal",
	}
	if pos := errPosition(doc.parseErr); pos != nil {
		line, col := pos.LineCol()
		diagnostic.Range = protocol.Range{
			Start: protocol.Position{Line: uint32(line), Character: uint32(col)},
			End:   protocol.Position{Line: uint32(line), Character: uint32(col + 1)},
		}
	}
	return append(diagnostics, diagnostic)
}

// errPosition digs the source position out of a parse or tokenize
// error.
func errPosition(err error) *token.Pos {
	var sErr *parse.SyntaxError
	if errors.As(err, &sErr) {
		return sErr.Pos
	}
	var tErr *token.TokenizeErr
	if errors.As(err, &tErr) {
		return &tErr.Pos
	}
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	s.docs.put(string(params.TextDocument.URI), params.TextDocument.Text, params.TextDocument.Version)
	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return nil
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc := s.docs.get(string(params.TextDocument.URI))
	if doc == nil {
		return nil
	}
	content := doc.content
	for _, change := range params.ContentChanges {
		r := change.Range
		if r.Start == (protocol.Position{}) && r.End == (protocol.Position{}) {
			content = change.Text
			continue
		}
		runes := []rune(content)
		start := lineColToOffset(content, int(r.Start.Line), int(r.Start.Character))
		end := lineColToOffset(content, int(r.End.Line), int(r.End.Character))
		if start <= len(runes) && end <= len(runes) && start <= end {
			content = string(runes[:start]) + change.Text + string(runes[end:])
		}
	}
	s.docs.put(string(params.TextDocument.URI), content, params.TextDocument.Version)
	s.publishDiagnostics(ctx, string(params.TextDocument.URI))
	return nil
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.docs.remove(string(params.TextDocument.URI))
	return nil
}

func lineColToOffset(content string, line, col int) int {
	currentLine, currentCol := 0, 0
	i := 0
	for _, r := range content {
		if currentLine == line && currentCol == col {
			return i
		}
		if r == '\n' {
			currentLine++
			currentCol = 0
		} else {
			currentCol++
		}
		i++
	}
	return i
}
