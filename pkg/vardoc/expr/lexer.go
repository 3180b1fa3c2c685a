package expr

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tkEOF tokenKind = iota
	tkIdent
	tkNumber
	tkString
	tkLParen
	tkRParen
	tkComma
	tkQuestion
	tkColon
	tkDot
	tkOp // multi-char and single-char operators: + - * / % ! == != < <= > >= && ||
)

type token struct {
	kind tokenKind
	text string
	pos  int

	// Populated for tkNumber.
	intVal   int64
	floatVal float64
	isInt    bool
}

type lexer struct {
	src string
	pos int
}

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || ('0' <= c && c <= '9')
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

// next returns the next token, or a ParseError for malformed input.
func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) && (l.src[l.pos] == ' ' || l.src[l.pos] == '\t' || l.src[l.pos] == '\n' || l.src[l.pos] == '\r') {
		l.pos++
	}
	if l.pos >= len(l.src) {
		return token{kind: tkEOF, pos: l.pos}, nil
	}

	start := l.pos
	c := l.src[l.pos]

	switch c {
	case '(':
		l.pos++
		return token{kind: tkLParen, text: "(", pos: start}, nil
	case ')':
		l.pos++
		return token{kind: tkRParen, text: ")", pos: start}, nil
	case ',':
		l.pos++
		return token{kind: tkComma, text: ",", pos: start}, nil
	case '?':
		l.pos++
		return token{kind: tkQuestion, text: "?", pos: start}, nil
	case ':':
		l.pos++
		return token{kind: tkColon, text: ":", pos: start}, nil
	case '.':
		l.pos++
		return token{kind: tkDot, text: ".", pos: start}, nil
	case '\'', '"':
		return l.lexString(c)
	case '+', '-', '*', '/', '%':
		l.pos++
		return token{kind: tkOp, text: string(c), pos: start}, nil
	case '=', '!', '<', '>':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == '=' {
			l.pos += 2
			return token{kind: tkOp, text: l.src[start : start+2], pos: start}, nil
		}
		if c == '=' {
			return token{}, &ParseError{Source: l.src, Pos: start, Msg: "assignment is not supported"}
		}
		l.pos++
		return token{kind: tkOp, text: string(c), pos: start}, nil
	case '&', '|':
		if l.pos+1 < len(l.src) && l.src[l.pos+1] == c {
			l.pos += 2
			return token{kind: tkOp, text: l.src[start : start+2], pos: start}, nil
		}
		return token{}, &ParseError{Source: l.src, Pos: start, Msg: fmt.Sprintf("unexpected character %q", c)}
	}

	if isDigit(c) {
		return l.lexNumber()
	}
	if isIdentStart(c) {
		for l.pos < len(l.src) && isIdentPart(l.src[l.pos]) {
			l.pos++
		}
		return token{kind: tkIdent, text: l.src[start:l.pos], pos: start}, nil
	}

	return token{}, &ParseError{Source: l.src, Pos: start, Msg: fmt.Sprintf("unexpected character %q", c)}
}

func (l *lexer) lexNumber() (token, error) {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
		l.pos++
	}
	isFloat := false
	// A dot starts a fractional part only when a digit follows it;
	// otherwise it is left for the parser (member access).
	if l.pos+1 < len(l.src) && l.src[l.pos] == '.' && isDigit(l.src[l.pos+1]) {
		isFloat = true
		l.pos++
		for l.pos < len(l.src) && isDigit(l.src[l.pos]) {
			l.pos++
		}
	}
	text := l.src[start:l.pos]
	tok := token{kind: tkNumber, text: text, pos: start}
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return token{}, &ParseError{Source: l.src, Pos: start, Msg: "malformed number"}
		}
		tok.floatVal = f
	} else {
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return token{}, &ParseError{Source: l.src, Pos: start, Msg: "malformed number"}
		}
		tok.intVal = i
		tok.isInt = true
	}
	return tok, nil
}

func (l *lexer) lexString(quote byte) (token, error) {
	start := l.pos
	l.pos++ // opening quote
	var b strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == quote {
			l.pos++
			return token{kind: tkString, text: b.String(), pos: start}, nil
		}
		if c == '\\' {
			if l.pos+1 >= len(l.src) {
				break
			}
			l.pos++
			switch esc := l.src[l.pos]; esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '\'', '"':
				b.WriteByte(esc)
			default:
				return token{}, &ParseError{Source: l.src, Pos: l.pos, Msg: fmt.Sprintf("unknown escape \\%c", esc)}
			}
			l.pos++
			continue
		}
		b.WriteByte(c)
		l.pos++
	}
	return token{}, &ParseError{Source: l.src, Pos: start, Msg: "unterminated string"}
}
