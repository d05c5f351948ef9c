package lang

import "strconv"

// parser is a hand-written recursive-descent parser over the token stream.
// Precedence, loosest to tightest: additive, multiplicative, unary minus,
// power (right associative), postfix factorial, primary.
type parser struct {
	src  string
	toks []token
	pos  int
}

// Parse turns src into a list of statements. Statements are separated by
// newlines; a statement is either an assignment (name: expr) or an
// expression.
func Parse(src string) ([]Node, *EvalError) {
	toks, err := scan(src)
	if err != nil {
		return nil, err
	}
	p := &parser{src: src, toks: toks}
	var stmts []Node
	for {
		p.skipNewlines()
		if p.peek().typ == tokEOF {
			break
		}
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if t := p.peek(); t.typ != tokNewline && t.typ != tokEOF {
			return nil, newErrorf(SyntaxError, t.span(), "unexpected %q after statement", t.text)
		}
	}
	return stmts, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	p.pos++
	return t
}

func (p *parser) peek2() token {
	if p.pos+1 < len(p.toks) {
		return p.toks[p.pos+1]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) skipNewlines() {
	for p.peek().typ == tokNewline {
		p.pos++
	}
}

func (p *parser) expect(typ tokenType, what string) (token, *EvalError) {
	t := p.peek()
	if t.typ != typ {
		return token{}, newErrorf(SyntaxError, t.span(), "expected %s", what)
	}
	return p.next(), nil
}

func (p *parser) statement() (Node, *EvalError) {
	if p.peek().typ == tokIdent && p.peek2().typ == tokColon {
		name := p.next()
		p.next() // ':'
		value, err := p.expression()
		if err != nil {
			return nil, err
		}
		return &Assign{
			Name:  name.text,
			Value: value,
			span:  Span{Start: name.pos, End: value.Span().End},
		}, nil
	}
	return p.expression()
}

func (p *parser) expression() (Node, *EvalError) {
	return p.additive()
}

func (p *parser) additive() (Node, *EvalError) {
	left, err := p.multiplicative()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.typ != tokPlus && t.typ != tokMinus {
			return left, nil
		}
		p.next()
		right, err := p.multiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{
			Op:    t.text,
			Left:  left,
			Right: right,
			span:  Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
}

func (p *parser) multiplicative() (Node, *EvalError) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for {
		t := p.peek()
		if t.typ != tokStar && t.typ != tokSlash && t.typ != tokPercent {
			return left, nil
		}
		p.next()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		left = &Binary{
			Op:    t.text,
			Left:  left,
			Right: right,
			span:  Span{Start: left.Span().Start, End: right.Span().End},
		}
	}
}

func (p *parser) unary() (Node, *EvalError) {
	if t := p.peek(); t.typ == tokMinus {
		p.next()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{
			Operand: operand,
			span:    Span{Start: t.pos, End: operand.Span().End},
		}, nil
	}
	return p.power()
}

func (p *parser) power() (Node, *EvalError) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokCaret {
		return base, nil
	}
	p.next()
	// Right associative; the exponent may itself carry a unary minus.
	exp, err := p.unary()
	if err != nil {
		return nil, err
	}
	return &Power{
		Base:     base,
		Exponent: exp,
		span:     Span{Start: base.Span().Start, End: exp.Span().End},
	}, nil
}

func (p *parser) postfix() (Node, *EvalError) {
	operand, err := p.primary()
	if err != nil {
		return nil, err
	}
	for p.peek().typ == tokBang {
		t := p.next()
		operand = &Factorial{
			Operand: operand,
			span:    Span{Start: operand.Span().Start, End: t.pos + 1},
		}
	}
	return operand, nil
}

func (p *parser) primary() (Node, *EvalError) {
	t := p.peek()
	switch t.typ {
	case tokNumber:
		p.next()
		n, convErr := strconv.ParseInt(t.text, 10, 64)
		if convErr != nil {
			return nil, newErrorf(InvalidNumber, t.span(), "%s", t.text)
		}
		return &NumberLit{Value: n, span: t.span()}, nil

	case tokIdent:
		p.next()
		ident := &Ident{Name: t.text, span: t.span()}
		if p.peek().typ == tokLBracket {
			return p.call(ident)
		}
		return ident, nil

	case tokLParen:
		p.next()
		inner, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return inner, nil

	case tokLBrace:
		return p.funcLit()

	case tokEOF, tokNewline:
		return nil, newError(MissingOperand, t.span())
	}
	return nil, newErrorf(SyntaxError, t.span(), "unexpected %q", t.text)
}

// call parses f[...] with arguments separated by semicolons. f[] is a
// zero-argument application.
func (p *parser) call(fn Node) (Node, *EvalError) {
	p.next() // '['
	var args []Node
	if p.peek().typ != tokRBracket {
		for {
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().typ != tokSemi {
				break
			}
			p.next()
		}
	}
	closing, err := p.expect(tokRBracket, "']'")
	if err != nil {
		return nil, err
	}
	return &Call{
		Fn:   fn,
		Args: args,
		span: Span{Start: fn.Span().Start, End: closing.pos + 1},
	}, nil
}

// funcLit parses {expr} or {[x;y] expr}.
func (p *parser) funcLit() (Node, *EvalError) {
	open := p.next() // '{'
	var params []string
	if p.peek().typ == tokLBracket {
		p.next()
		if p.peek().typ != tokRBracket {
			for {
				id, err := p.expect(tokIdent, "parameter name")
				if err != nil {
					return nil, err
				}
				params = append(params, id.text)
				if p.peek().typ != tokSemi {
					break
				}
				p.next()
			}
		}
		if _, err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
	}
	body, err := p.expression()
	if err != nil {
		return nil, err
	}
	closing, err := p.expect(tokRBrace, "'}'")
	if err != nil {
		return nil, err
	}
	return &FuncLit{
		Params: params,
		Body:   body,
		Src:    p.src[body.Span().Start:body.Span().End],
		span:   Span{Start: open.pos, End: closing.pos + 1},
	}, nil
}
