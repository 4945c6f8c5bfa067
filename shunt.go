package shunt

import "github.com/rs/zerolog"

// converter arranges tokens into postfix order with the shunting-yard
// algorithm. It also enforces which tokens may follow which.
type converter struct {
	// ops holds pending operators and open parens.
	ops []Token
	// out is the output queue in postfix order.
	out []Token
	// last is the previously finalized token, valid if have.
	last Token
	have bool
	log  zerolog.Logger
}

func (c *converter) reset(log zerolog.Logger) {
	c.ops = c.ops[:0]
	c.out = c.out[:0]
	c.last = Token{}
	c.have = false
	c.log = log
}

// afterOperand reports whether the previous token ends an operand, i.e. it is
// a number or close paren.
func (c *converter) afterOperand() bool {
	return c.have && (c.last.IsNumber() || c.last.IsCloseParen())
}

func (c *converter) top() Token {
	return c.ops[len(c.ops)-1]
}

func (c *converter) pop() Token {
	tok := c.ops[len(c.ops)-1]
	c.ops = c.ops[:len(c.ops)-1]
	return tok
}

func (c *converter) token(tok Token) error {
	c.log.Trace().Stringer("token", tok).Int("pending", len(c.ops)).Msg("token")
	switch tok.Class() {
	case ClassNumber:
		// A number cannot directly follow another operand.
		if c.afterOperand() {
			return syntaxError("unexpected number", tok.Pos)
		}
		c.out = append(c.out, tok)
	case ClassOperator:
		if !c.afterOperand() {
			return syntaxError("unexpected operator", tok.Pos)
		}
		// Popping on equal precedence makes operators left-associative.
		p := tok.Precedence()
		for len(c.ops) > 0 && c.top().IsOperator() && p <= c.top().Precedence() {
			c.out = append(c.out, c.pop())
		}
		c.ops = append(c.ops, tok)
	case ClassOpen:
		// An open paren starts an operand, so it goes at the beginning, after
		// an operator, or after another open paren.
		if c.have && !(c.last.IsOpenParen() || c.last.IsOperator()) {
			return syntaxError("unexpected open paren", tok.Pos)
		}
		c.ops = append(c.ops, tok)
	case ClassClose:
		if !c.afterOperand() {
			return syntaxError("unexpected close paren", tok.Pos)
		}
		for len(c.ops) > 0 && !c.top().IsOpenParen() {
			c.out = append(c.out, c.pop())
		}
		if len(c.ops) == 0 {
			return syntaxError("mismatched paren", tok.Pos)
		}
		// Parens never reach the output.
		c.pop()
	default:
		panic("shunt: converter got invalid token " + tok.String())
	}
	c.last, c.have = tok, true
	return nil
}

// finish validates the end of the input and drains the operator stack. end is
// the position just past the input.
func (c *converter) finish(end int) error {
	if !c.afterOperand() {
		pos := end
		if c.have {
			pos = c.last.Pos
		}
		return syntaxError("unexpected token", pos)
	}
	for len(c.ops) > 0 {
		tok := c.pop()
		if tok.IsOpenParen() || tok.IsCloseParen() {
			return syntaxError("mismatched paren", tok.Pos)
		}
		c.out = append(c.out, tok)
	}
	return nil
}
