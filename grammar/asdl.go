package grammar

import (
	"fmt"
	"io"
	"strings"
	"text/scanner"
)

// Load reads an ASDL-style grammar description and returns its fully
// annotated Model. The accepted surface is a small subset of ASDL:
//
//	module Name
//	{
//	    Expr = Ident(identifier name)
//	         | BinaryExpr(Expr x, identifier op, Expr y)
//	         | CallExpr(Expr fun, Expr* args)
//	         attributes (int pos, int end_pos, Module _module)
//
//	    Field(identifier? name, Expr typ)
//	    Module(string filename)
//	}
//
// `?` marks an Optional field, `*` marks a Sequence field, bare marks
// Required. `int`, `string`, `identifier`, `constant` are primitive
// kinds; any other capitalized name must refer to another declared type.
// `--` starts a line comment.
func Load(r io.Reader) (*Model, error) {
	p := &parser{}
	var sb strings.Builder
	if _, err := io.Copy(&sb, r); err != nil {
		return nil, err
	}
	p.s.Init(strings.NewReader(stripComments(sb.String())))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts
	p.s.Whitespace = 1<<'\t' | 1<<'\n' | 1<<' ' | 1<<'\r'
	p.next()

	m, err := p.parseModule()
	if err != nil {
		return nil, err
	}
	if err := m.index(); err != nil {
		return nil, err
	}
	m.classify()
	return m, nil
}

// LoadString is Load over an in-memory grammar description.
func LoadString(src string) (*Model, error) {
	return Load(strings.NewReader(src))
}

func stripComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		if idx := strings.Index(l, "--"); idx >= 0 {
			lines[i] = l[:idx]
		}
	}
	return strings.Join(lines, "\n")
}

type parser struct {
	s   scanner.Scanner
	tok rune
	lit string
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.lit = p.s.TokenText()
}

func (p *parser) errorf(format string, args ...any) error {
	return &GrammarError{Line: p.s.Pos().Line, Col: p.s.Pos().Column, Reason: fmt.Sprintf(format, args...)}
}

func (p *parser) expectIdent(kw string) error {
	if p.tok != scanner.Ident || p.lit != kw {
		return p.errorf("expected %q, got %q", kw, p.lit)
	}
	p.next()
	return nil
}

func (p *parser) expectRune(r rune) error {
	if p.tok != r {
		return p.errorf("expected %q, got %q", string(r), p.lit)
	}
	p.next()
	return nil
}

func (p *parser) parseModule() (*Model, error) {
	if p.tok == scanner.Ident && p.lit == "module" {
		p.next()
		if p.tok != scanner.Ident {
			return nil, p.errorf("expected module name")
		}
		p.next()
	}
	if err := p.expectRune('{'); err != nil {
		return nil, err
	}
	m := &Model{}
	for p.tok != '}' && p.tok != scanner.EOF {
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		m.Types = append(m.Types, t)
	}
	if p.tok != scanner.EOF {
		if err := p.expectRune('}'); err != nil {
			return nil, err
		}
	}
	if len(m.Types) == 0 {
		return nil, p.errorf("grammar declares no types")
	}
	return m, nil
}

func (p *parser) parseType() (*Type, error) {
	if p.tok != scanner.Ident {
		return nil, p.errorf("expected type name, got %q", p.lit)
	}
	name := p.lit
	p.next()

	t := &Type{Name: name}

	if p.tok == '(' {
		// Bare product: Name(fields)
		fields, err := p.parseFieldList()
		if err != nil {
			return nil, err
		}
		t.Fields = fields
		return t, nil
	}

	if err := p.expectRune('='); err != nil {
		return nil, err
	}
	t.IsSum = true
	for {
		if p.tok != scanner.Ident {
			return nil, p.errorf("expected constructor name, got %q", p.lit)
		}
		c := &Constructor{Name: p.lit}
		p.next()
		if p.tok == '(' {
			fields, err := p.parseFieldList()
			if err != nil {
				return nil, err
			}
			c.Fields = fields
		}
		t.Constructors = append(t.Constructors, c)
		if p.tok == '|' {
			p.next()
			continue
		}
		break
	}
	if p.tok == scanner.Ident && p.lit == "attributes" {
		p.next()
		attrs, err := p.parseFieldList()
		if err != nil {
			return nil, err
		}
		t.Attributes = attrs
	}
	return t, nil
}

func (p *parser) parseFieldList() ([]Field, error) {
	if err := p.expectRune('('); err != nil {
		return nil, err
	}
	var fields []Field
	for p.tok != ')' {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		if p.tok == ',' {
			p.next()
			continue
		}
		break
	}
	if err := p.expectRune(')'); err != nil {
		return nil, err
	}
	return fields, nil
}

func (p *parser) parseField() (Field, error) {
	if p.tok != scanner.Ident {
		return Field{}, p.errorf("expected field kind, got %q", p.lit)
	}
	kindName := p.lit
	p.next()

	qual := Required
	switch p.tok {
	case '?':
		qual = Optional
		p.next()
	case '*':
		qual = Sequence
		p.next()
	}

	if p.tok != scanner.Ident {
		return Field{}, p.errorf("expected field name, got %q", p.lit)
	}
	fieldName := p.lit
	p.next()

	return Field{Name: fieldName, Kind: kindOf(kindName), Qualifier: qual}, nil
}

func kindOf(name string) Kind {
	switch name {
	case "int":
		return Kind{Primitive: Int}
	case "string":
		return Kind{Primitive: String}
	case "identifier":
		return Kind{Primitive: Identifier}
	case "constant":
		return Kind{Primitive: Constant}
	default:
		return Kind{Type: name}
	}
}
