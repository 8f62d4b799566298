// Package parse provides opal statement parsing.
package parse

import (
	"fmt"
	"io"
	"strconv"

	"github.com/opal-format/go-opal/ast"
	"github.com/opal-format/go-opal/token"
)

// Parser yields the statements of one source text, one at a time, so
// a caller can apply each before parsing the next.
type Parser struct {
	p parser
}

func NewParser(d []byte) (*Parser, error) {
	toks, err := token.Tokenize(nil, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return &Parser{p: parser{toks: toks}}, nil
}

// Next returns the next statement, or io.EOF after the last one.
func (ps *Parser) Next() (ast.Statement, error) {
	if ps.p.done() {
		return nil, io.EOF
	}
	return ps.p.parseStatement()
}

// Parse turns source text into the sequence of statements it contains.
func Parse(d []byte) ([]ast.Statement, error) {
	ps, err := NewParser(d)
	if err != nil {
		return nil, err
	}
	var stmts []ast.Statement
	for {
		stmt, err := ps.Next()
		if err == io.EOF {
			return stmts, nil
		}
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
}

type parser struct {
	toks []token.Token
	i    int
}

func (p *parser) done() bool {
	return p.i >= len(p.toks)
}

func (p *parser) peek() *token.Token {
	if p.done() {
		return nil
	}
	return &p.toks[p.i]
}

func (p *parser) next() *token.Token {
	t := p.peek()
	if t != nil {
		p.i++
	}
	return t
}

func (p *parser) eat(tt token.TokenType) *token.Token {
	t := p.peek()
	if t == nil || t.Type != tt {
		return nil
	}
	p.i++
	return t
}

// eofPos yields a position for end-of-input errors.
func (p *parser) eofPos() *token.Pos {
	if len(p.toks) == 0 {
		return &token.Pos{}
	}
	return p.toks[len(p.toks)-1].Pos
}

func (p *parser) parseStatement() (ast.Statement, error) {
	if p.eat(token.TInclude) != nil {
		return p.parseInclude()
	}
	path, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	if p.eat(token.TEquals) == nil {
		if t := p.peek(); t != nil {
			return nil, syntaxErr("'='", t.Pos)
		}
		return nil, syntaxErr("'='", p.eofPos())
	}
	val, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	return ast.Assign{Path: path, Value: val}, nil
}

func (p *parser) parseInclude() (ast.Statement, error) {
	t := p.eat(token.TString)
	if t == nil {
		if tok := p.peek(); tok != nil {
			return nil, syntaxErr("file name string after 'include'", tok.Pos)
		}
		return nil, syntaxErr("file name string after 'include'", p.eofPos())
	}
	inc := ast.Include{File: t.String()}
	if p.eat(token.TAs) != nil {
		name := p.eat(token.TIdent)
		if name == nil {
			if tok := p.peek(); tok != nil {
				return nil, syntaxErr("namespace identifier after 'as'", tok.Pos)
			}
			return nil, syntaxErr("namespace identifier after 'as'", p.eofPos())
		}
		inc.Name = name.String()
	}
	return inc, nil
}

// parsePath parses `['self' '.'] ident ('.' ident)*`. The reserved
// words `include` and `root` are rejected as identifiers; `self` is
// only allowed as the leading segment; `as` is contextual and fine as
// an ordinary identifier.
func (p *parser) parsePath() (ast.Path, error) {
	path := ast.Path{}
	if p.eat(token.TSelf) != nil {
		path.SelfRel = true
		if t := p.peek(); t == nil || t.Type != token.TDot {
			pos := p.eofPos()
			if t != nil {
				pos = t.Pos
			}
			return path, syntaxErr("'.' after 'self'", pos)
		}
		p.i++
	}
	for {
		t := p.peek()
		if t == nil {
			return path, syntaxErr("identifier", p.eofPos())
		}
		switch t.Type {
		case token.TIdent, token.TAs:
			path.Idents = append(path.Idents, t.String())
			p.i++
		case token.TInclude, token.TRoot, token.TSelf:
			return path, syntaxErr(fmt.Sprintf("identifier, but %q is reserved", t.String()), t.Pos)
		default:
			return path, syntaxErr("identifier", t.Pos)
		}
		if p.eat(token.TDot) == nil {
			return path, nil
		}
	}
}

func (p *parser) parseValue() (ast.Value, error) {
	t := p.peek()
	if t == nil {
		return nil, syntaxErr("value", p.eofPos())
	}
	switch t.Type {
	case token.TString:
		p.i++
		return ast.String{Value: t.String()}, nil
	case token.TNumber:
		p.i++
		f, err := strconv.ParseFloat(string(t.Bytes), 64)
		if err != nil {
			return nil, syntaxErr("number", t.Pos)
		}
		return ast.Number{Value: f}, nil
	case token.TLSquare:
		return p.parseList()
	case token.TLCurl:
		assigns, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		return ast.Object{Assigns: assigns}, nil
	case token.TIdent, token.TAs, token.TSelf:
		return p.parseExtension()
	default:
		return nil, syntaxErr("value", t.Pos)
	}
}

// parseExtension parses `path`, `path { ... }` or `path ( ... )`.
func (p *parser) parseExtension() (ast.Value, error) {
	base, err := p.parsePath()
	if err != nil {
		return nil, err
	}
	ext := ast.Extension{Base: base}
	t := p.peek()
	if t == nil {
		return ext, nil
	}
	switch t.Type {
	case token.TLCurl:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		ext.Block = block
		ext.HasBody = true
	case token.TLParen:
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		ext.Args = args
		ext.HasBody = true
	}
	return ext, nil
}

func (p *parser) parseBlock() ([]ast.Assign, error) {
	open := p.eat(token.TLCurl)
	assigns := []ast.Assign{}
	for {
		if p.eat(token.TRCurl) != nil {
			return assigns, nil
		}
		if p.done() {
			return nil, syntaxErr("'}'", open.Pos)
		}
		if t := p.peek(); t.Type == token.TInclude {
			return nil, syntaxErr("assignment, not 'include', inside an object", t.Pos)
		}
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		assigns = append(assigns, stmt.(ast.Assign))
	}
}

func (p *parser) parseArgs() ([]ast.Value, error) {
	open := p.eat(token.TLParen)
	args := []ast.Value{}
	for {
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		args = append(args, val)
		t := p.next()
		if t == nil {
			return nil, syntaxErr("')'", open.Pos)
		}
		switch t.Type {
		case token.TRParen:
			return args, nil
		case token.TComma:
		default:
			return nil, syntaxErr("',' or ')'", t.Pos)
		}
	}
}

func (p *parser) parseList() (ast.Value, error) {
	open := p.eat(token.TLSquare)
	list := ast.List{Elems: []ast.Value{}}
	if p.eat(token.TRSquare) != nil {
		return list, nil
	}
	for {
		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		list.Elems = append(list.Elems, val)
		t := p.next()
		if t == nil {
			return nil, syntaxErr("']'", open.Pos)
		}
		switch t.Type {
		case token.TRSquare:
			return list, nil
		case token.TComma:
		default:
			return nil, syntaxErr("',' or ']'", t.Pos)
		}
	}
}
