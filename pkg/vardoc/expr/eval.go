package expr

import (
	"context"
	"errors"
	"fmt"
)

// Env supplies everything an expression needs from its host: scoped name
// resolution, resolver-function dispatch, and the gender dimension for
// pronoun placeholders.
type Env struct {
	// Resolve resolves a (possibly parent-prefixed) name to a value.
	// Required for any expression that references names.
	Resolve func(ctx context.Context, name string) (any, error)

	// Call invokes a registered resolver function by dotted name.
	// Required for any expression that calls functions.
	Call func(ctx context.Context, name string, args []any) (any, error)

	// Gender selects the pronoun row; empty or unknown falls back to the
	// gender-neutral forms.
	Gender string
}

var errNoResolve = errors.New("expression references names but no resolver is configured")
var errNoCall = errors.New("expression calls functions but no registry is configured")

func (e *Env) resolveName(ctx context.Context, name string) (any, error) {
	if p, ok := pronounFor(name, e.Gender); ok {
		return p, nil
	}
	if e.Resolve == nil {
		return nil, errNoResolve
	}
	return e.Resolve(ctx, name)
}

func (p *Program) evalNode(ctx context.Context, n node, env *Env) (any, error) {
	switch t := n.(type) {
	case *litNode:
		return t.val, nil

	case *nameNode:
		return env.resolveName(ctx, t.name)

	case *callNode:
		if env.Call == nil {
			return nil, errNoCall
		}
		args := make([]any, 0, len(t.args))
		for _, a := range t.args {
			v, err := p.evalNode(ctx, a, env)
			if err != nil {
				return nil, err
			}
			args = append(args, v)
		}
		return env.Call(ctx, t.name, args)

	case *memberNode:
		base, err := p.evalNode(ctx, t.x, env)
		if err != nil {
			return nil, err
		}
		v, ok := member(base, t.key)
		if !ok {
			return nil, &EvalError{Source: p.Source, Msg: fmt.Sprintf("no member %q on %T", t.key, base)}
		}
		return v, nil

	case *unaryNode:
		x, err := p.evalNode(ctx, t.x, env)
		if err != nil {
			return nil, err
		}
		switch t.op {
		case "!":
			return !IsTruthy(x), nil
		case "-":
			if i, ok := asInt(x); ok {
				return -i, nil
			}
			if f, ok := asFloat(x); ok {
				return -f, nil
			}
			return nil, &EvalError{Source: p.Source, Msg: fmt.Sprintf("cannot negate %T", x)}
		}

	case *binaryNode:
		return p.evalBinary(ctx, t, env)

	case *condNode:
		c, err := p.evalNode(ctx, t.cond, env)
		if err != nil {
			return nil, err
		}
		if IsTruthy(c) {
			return p.evalNode(ctx, t.then, env)
		}
		return p.evalNode(ctx, t.els, env)
	}
	return nil, &EvalError{Source: p.Source, Msg: "unknown node"}
}

func (p *Program) evalBinary(ctx context.Context, n *binaryNode, env *Env) (any, error) {
	// Short-circuit logic first.
	switch n.op {
	case "&&":
		l, err := p.evalNode(ctx, n.l, env)
		if err != nil {
			return nil, err
		}
		if !IsTruthy(l) {
			return false, nil
		}
		r, err := p.evalNode(ctx, n.r, env)
		if err != nil {
			return nil, err
		}
		return IsTruthy(r), nil
	case "||":
		l, err := p.evalNode(ctx, n.l, env)
		if err != nil {
			return nil, err
		}
		if IsTruthy(l) {
			return true, nil
		}
		r, err := p.evalNode(ctx, n.r, env)
		if err != nil {
			return nil, err
		}
		return IsTruthy(r), nil
	}

	l, err := p.evalNode(ctx, n.l, env)
	if err != nil {
		return nil, err
	}
	r, err := p.evalNode(ctx, n.r, env)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case "==":
		return equal(l, r), nil
	case "!=":
		return !equal(l, r), nil
	case "<", "<=", ">", ">=":
		return p.compare(n.op, l, r)
	case "+":
		// String concatenation when either side is a string.
		if ls, ok := l.(string); ok {
			return ls + Stringify(r), nil
		}
		if rs, ok := r.(string); ok {
			return Stringify(l) + rs, nil
		}
		return p.arith(n.op, l, r)
	case "-", "*", "/", "%":
		return p.arith(n.op, l, r)
	}
	return nil, &EvalError{Source: p.Source, Msg: fmt.Sprintf("unknown operator %q", n.op)}
}

func (p *Program) compare(op string, l, r any) (any, error) {
	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		// Fall back to lexicographic comparison of string forms.
		ls, rs := fmt.Sprintf("%v", l), fmt.Sprintf("%v", r)
		switch op {
		case "<":
			return ls < rs, nil
		case "<=":
			return ls <= rs, nil
		case ">":
			return ls > rs, nil
		default:
			return ls >= rs, nil
		}
	}
	switch op {
	case "<":
		return lf < rf, nil
	case "<=":
		return lf <= rf, nil
	case ">":
		return lf > rf, nil
	default:
		return lf >= rf, nil
	}
}

func (p *Program) arith(op string, l, r any) (any, error) {
	// Integer arithmetic when both sides are integral and the result is
	// exact; division always goes through float64.
	li, lInt := asInt(l)
	ri, rInt := asInt(r)
	if lInt && rInt && op != "/" {
		switch op {
		case "+":
			return li + ri, nil
		case "-":
			return li - ri, nil
		case "*":
			return li * ri, nil
		case "%":
			if ri == 0 {
				return nil, &EvalError{Source: p.Source, Msg: "division by zero"}
			}
			return li % ri, nil
		}
	}

	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, &EvalError{Source: p.Source, Msg: fmt.Sprintf("cannot apply %q to %T and %T", op, l, r)}
	}
	switch op {
	case "+":
		return lf + rf, nil
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		if rf == 0 {
			return nil, &EvalError{Source: p.Source, Msg: "division by zero"}
		}
		return lf / rf, nil
	case "%":
		return nil, &EvalError{Source: p.Source, Msg: "'%' requires integer operands"}
	}
	return nil, &EvalError{Source: p.Source, Msg: fmt.Sprintf("unknown operator %q", op)}
}
