package expr

import "strings"

// parser is a recursive-descent parser over the lexer's token stream with
// one token of lookahead.
type parser struct {
	lex  lexer
	tok  token
	err  error
	peek *token
}

func parseInline(src string) (node, error) {
	p := &parser{lex: lexer{src: src}}
	p.advance()
	if p.err != nil {
		return nil, p.err
	}
	n := p.parseTernary()
	if p.err != nil {
		return nil, p.err
	}
	if p.tok.kind != tkEOF {
		return nil, &ParseError{Source: src, Pos: p.tok.pos, Msg: "unexpected trailing input"}
	}
	return n, nil
}

func (p *parser) advance() {
	if p.err != nil {
		return
	}
	if p.peek != nil {
		p.tok, p.peek = *p.peek, nil
		return
	}
	tok, err := p.lex.next()
	if err != nil {
		p.err = err
		return
	}
	p.tok = tok
}

// peekTok looks one token past the current one without consuming it.
func (p *parser) peekTok() token {
	if p.err != nil {
		return token{kind: tkEOF}
	}
	if p.peek == nil {
		tok, err := p.lex.next()
		if err != nil {
			p.err = err
			return token{kind: tkEOF}
		}
		p.peek = &tok
	}
	return *p.peek
}

func (p *parser) fail(pos int, msg string) node {
	if p.err == nil {
		p.err = &ParseError{Source: p.lex.src, Pos: pos, Msg: msg}
	}
	return nil
}

func (p *parser) parseTernary() node {
	cond := p.parseBinary(0)
	if p.err != nil || p.tok.kind != tkQuestion {
		return cond
	}
	pos := p.tok.pos
	p.advance()
	then := p.parseTernary()
	if p.err != nil {
		return nil
	}
	if p.tok.kind != tkColon {
		return p.fail(p.tok.pos, "expected ':' in ternary")
	}
	p.advance()
	els := p.parseTernary()
	if p.err != nil {
		return nil
	}
	return &condNode{pos: pos, cond: cond, then: then, els: els}
}

// Binary precedence levels, loosest first.
var precedence = []map[string]bool{
	{"||": true},
	{"&&": true},
	{"==": true, "!=": true},
	{"<": true, "<=": true, ">": true, ">=": true},
	{"+": true, "-": true},
	{"*": true, "/": true, "%": true},
}

func (p *parser) parseBinary(level int) node {
	if level >= len(precedence) {
		return p.parseUnary()
	}
	left := p.parseBinary(level + 1)
	for p.err == nil && p.tok.kind == tkOp && precedence[level][p.tok.text] {
		op, pos := p.tok.text, p.tok.pos
		p.advance()
		right := p.parseBinary(level + 1)
		if p.err != nil {
			return nil
		}
		left = &binaryNode{pos: pos, op: op, l: left, r: right}
	}
	return left
}

func (p *parser) parseUnary() node {
	if p.tok.kind == tkOp && (p.tok.text == "-" || p.tok.text == "!") {
		op, pos := p.tok.text, p.tok.pos
		p.advance()
		x := p.parseUnary()
		if p.err != nil {
			return nil
		}
		return &unaryNode{pos: pos, op: op, x: x}
	}
	return p.parsePostfix()
}

// parsePostfix handles member access on evaluated values: f(x).total.
// Plain dotted names never reach here as members because parsePrimary
// consumes them greedily as a single scoped name.
func (p *parser) parsePostfix() node {
	x := p.parsePrimary()
	for p.err == nil && p.tok.kind == tkDot {
		pos := p.tok.pos
		if next := p.peekTok(); next.kind != tkIdent {
			return p.fail(pos, "expected identifier after '.'")
		}
		p.advance() // dot
		key := p.tok.text
		p.advance() // ident
		x = &memberNode{pos: pos, x: x, key: key}
	}
	return x
}

func (p *parser) parsePrimary() node {
	switch p.tok.kind {
	case tkNumber:
		n := &litNode{pos: p.tok.pos}
		if p.tok.isInt {
			n.val = p.tok.intVal
		} else {
			n.val = p.tok.floatVal
		}
		p.advance()
		return n

	case tkString:
		n := &litNode{pos: p.tok.pos, val: p.tok.text}
		p.advance()
		return n

	case tkLParen:
		p.advance()
		inner := p.parseTernary()
		if p.err != nil {
			return nil
		}
		if p.tok.kind != tkRParen {
			return p.fail(p.tok.pos, "expected ')'")
		}
		p.advance()
		return inner

	case tkDot, tkIdent:
		return p.parseNameOrCall()
	}
	return p.fail(p.tok.pos, "expected expression")
}

// parseNameOrCall consumes a (possibly parent-prefixed) dotted name and,
// if a call follows, its argument list.
func (p *parser) parseNameOrCall() node {
	pos := p.tok.pos
	var b strings.Builder

	// Leading parent-traversal dots.
	for p.tok.kind == tkDot {
		b.WriteByte('.')
		p.advance()
	}
	if p.tok.kind != tkIdent {
		return p.fail(p.tok.pos, "expected identifier")
	}
	b.WriteString(p.tok.text)
	p.advance()

	// Embedded dotted segments: consume '.' only when an identifier
	// follows, so f().x stays a member access.
	for p.err == nil && p.tok.kind == tkDot && p.peekTok().kind == tkIdent {
		p.advance() // dot
		b.WriteByte('.')
		b.WriteString(p.tok.text)
		p.advance() // ident
	}
	if p.err != nil {
		return nil
	}
	name := b.String()

	switch p.tok.kind {
	case tkLParen:
		p.advance()
		var args []node
		if p.tok.kind != tkRParen {
			for {
				arg := p.parseTernary()
				if p.err != nil {
					return nil
				}
				args = append(args, arg)
				if p.tok.kind != tkComma {
					break
				}
				p.advance()
			}
		}
		if p.tok.kind != tkRParen {
			return p.fail(p.tok.pos, "expected ')' after arguments")
		}
		p.advance()
		return &callNode{pos: pos, name: name, args: args}
	}

	// Keyword literals.
	switch name {
	case "true":
		return &litNode{pos: pos, val: true}
	case "false":
		return &litNode{pos: pos, val: false}
	case "null", "nil":
		return &litNode{pos: pos, val: nil}
	}
	return &nameNode{pos: pos, name: name}
}
