package expr

import (
	"context"
	"strings"
)

// Shape classifies an expression source. It is decided once in Parse.
type Shape int

const (
	// ShapeLiteral has no placeholders; the source is the value.
	ShapeLiteral Shape = iota

	// ShapeTemplate is literal text with embedded ${name} placeholders.
	ShapeTemplate

	// ShapeInline is a single ${...} spanning the whole source, executed
	// as inline code.
	ShapeInline
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeTemplate:
		return "template"
	case ShapeInline:
		return "inline"
	default:
		return "literal"
	}
}

// part is one segment of a template: literal text or a placeholder name.
type part struct {
	text   string
	isName bool
}

// Program is a parsed expression, ready for repeated evaluation.
type Program struct {
	// Source is the original expression text.
	Source string

	// Shape is the classification decided at parse time.
	Shape Shape

	parts []part // template shape
	root  node   // inline shape
}

// Parse classifies and parses an expression source.
func Parse(source string) (*Program, error) {
	p := &Program{Source: source}

	open := strings.Index(source, "${")
	if open < 0 {
		p.Shape = ShapeLiteral
		return p, nil
	}

	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "${") {
		if end, ok := matchBrace(trimmed, 2); ok && end == len(trimmed)-1 {
			p.Shape = ShapeInline
			root, err := parseInline(trimmed[2:end])
			if err != nil {
				return nil, err
			}
			p.root = root
			return p, nil
		}
	}

	p.Shape = ShapeTemplate
	if err := p.parseTemplate(); err != nil {
		return nil, err
	}
	return p, nil
}

// matchBrace finds the '}' closing the "${" that ends at start, skipping
// quoted strings. Returns the index of the closing brace.
func matchBrace(s string, start int) (int, bool) {
	depth := 1
	var quote byte
	for i := start; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

func (p *Program) parseTemplate() error {
	src := p.Source
	for len(src) > 0 {
		open := strings.Index(src, "${")
		if open < 0 {
			p.parts = append(p.parts, part{text: src})
			break
		}
		if open > 0 {
			p.parts = append(p.parts, part{text: src[:open]})
		}
		rel := strings.IndexByte(src[open:], '}')
		if rel < 0 {
			return &ParseError{Source: p.Source, Pos: len(p.Source) - len(src) + open, Msg: "unterminated placeholder"}
		}
		name := strings.TrimSpace(src[open+2 : open+rel])
		if !validName(name) {
			return &ParseError{Source: p.Source, Pos: len(p.Source) - len(src) + open, Msg: "placeholder must be a name reference"}
		}
		p.parts = append(p.parts, part{text: name, isName: true})
		src = src[open+rel+1:]
	}
	return nil
}

// validName accepts optional leading parent-traversal dots followed by
// dot-separated identifiers.
func validName(name string) bool {
	i := 0
	for i < len(name) && name[i] == '.' {
		i++
	}
	rest := name[i:]
	if rest == "" {
		return false
	}
	for _, seg := range strings.Split(rest, ".") {
		if seg == "" || !isIdentStart(seg[0]) {
			return false
		}
		for j := 1; j < len(seg); j++ {
			if !isIdentPart(seg[j]) {
				return false
			}
		}
	}
	return true
}

// Eval evaluates the program against env.
//
// Literal sources return themselves. Templates resolve each placeholder
// independently, stringify, and concatenate. Inline code walks the parsed
// AST. Errors from env's callbacks propagate unchanged so the host can
// keep its own taxonomy.
func (p *Program) Eval(ctx context.Context, env Env) (any, error) {
	switch p.Shape {
	case ShapeLiteral:
		return p.Source, nil

	case ShapeTemplate:
		var b strings.Builder
		for _, seg := range p.parts {
			if !seg.isName {
				b.WriteString(seg.text)
				continue
			}
			v, err := env.resolveName(ctx, seg.text)
			if err != nil {
				return nil, err
			}
			b.WriteString(Stringify(v))
		}
		return b.String(), nil

	default:
		return p.evalNode(ctx, p.root, &env)
	}
}

// Names returns every name referenced by the program, in source order.
// Pronoun placeholders are included. Useful for dependency inspection
// without evaluating.
func (p *Program) Names() []string {
	switch p.Shape {
	case ShapeTemplate:
		var names []string
		for _, seg := range p.parts {
			if seg.isName {
				names = append(names, seg.text)
			}
		}
		return names
	case ShapeInline:
		var names []string
		collectNames(p.root, &names)
		return names
	}
	return nil
}

func collectNames(n node, out *[]string) {
	switch t := n.(type) {
	case *nameNode:
		*out = append(*out, t.name)
	case *callNode:
		for _, a := range t.args {
			collectNames(a, out)
		}
	case *memberNode:
		collectNames(t.x, out)
	case *unaryNode:
		collectNames(t.x, out)
	case *binaryNode:
		collectNames(t.l, out)
		collectNames(t.r, out)
	case *condNode:
		collectNames(t.cond, out)
		collectNames(t.then, out)
		collectNames(t.els, out)
	}
}
