package shunt

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parser parses and evaluates expressions. A Parser holds only the state of
// its most recent parse, so it may be reused for any number of expressions,
// but it is not safe to use concurrently. The zero value is not ready to use;
// create parsers with NewParser.
type Parser struct {
	p    parsectx
	lex  lexer
	conv converter
	eval Evaluator
	// val is the result of the last successful Parse, valid if ok.
	val float64
	ok  bool
}

// NewParser creates a parser. The given options are applied in order.
func NewParser(opts ...ParseOption) *Parser {
	p := defaultctx()
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return &Parser{p: p}
}

// Reset discards the state of the previous parse. Parse and Convert call Reset
// themselves.
func (p *Parser) Reset() {
	p.lex.reset(&p.conv)
	p.conv.reset(p.p.log)
	p.val = 0
	p.ok = false
}

// Parse parses and evaluates an expression. Errors are always of type *Error.
// Input errors happen when src is empty or only whitespace, syntax errors when
// the expression is malformed, and arithmetic errors on division by zero.
func (p *Parser) Parse(src string) (float64, error) {
	if err := p.convert(src); err != nil {
		return 0, err
	}
	x, err := p.eval.Eval(p.conv.out)
	if err != nil {
		p.p.log.Debug().Err(err).Msg("evaluation failed")
		return 0, err
	}
	p.val, p.ok = x, true
	return x, nil
}

// Convert tokenizes an expression and arranges its tokens in postfix order
// without evaluating it. The result is a copy which the caller owns.
func (p *Parser) Convert(src string) ([]Token, error) {
	if err := p.convert(src); err != nil {
		return nil, err
	}
	return p.Postfix(), nil
}

// convert leaves the postfix form of src in p.conv.out.
func (p *Parser) convert(src string) error {
	p.Reset()
	trimmed := strings.TrimSpace(src)
	if trimmed == "" {
		return inputError("empty expression")
	}
	if p.p.maxlen > 0 && utf8.RuneCountInString(trimmed) > p.p.maxlen {
		return inputError("expression too long")
	}
	// Report positions in terms of the input the caller gave us.
	lead := len(src) - len(strings.TrimLeftFunc(src, unicode.IsSpace))
	base := utf8.RuneCountInString(src[:lead])
	end, err := p.lex.scan(trimmed, base)
	if err == nil {
		err = p.conv.finish(end)
	}
	if err != nil {
		p.p.log.Debug().Err(err).Msg("parse failed")
		p.conv.out = p.conv.out[:0]
		return err
	}
	if ev := p.p.log.Debug(); ev.Enabled() {
		ev.Str("rpn", p.RPN()).Msg("converted")
	}
	return nil
}

// Postfix returns a copy of the postfix form of the last expression parsed. It
// is empty if tokenizing or converting failed.
func (p *Parser) Postfix() []Token {
	return append([]Token(nil), p.conv.out...)
}

// RPN formats the postfix form of the last expression parsed as its token
// texts separated by spaces, e.g. "2 3 4 * +".
func (p *Parser) RPN() string {
	var b strings.Builder
	for i, tok := range p.conv.out {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Value returns the result of the last call to Parse. Panics if that call
// failed or there was none.
func (p *Parser) Value() float64 {
	if !p.ok {
		panic("shunt: Value called without a successful Parse")
	}
	return p.val
}

// Parse is a shortcut to parse and evaluate an expression with a new Parser.
func Parse(src string, opts ...ParseOption) (float64, error) {
	return NewParser(opts...).Parse(src)
}

// Convert is a shortcut to get the postfix form of an expression with a new
// Parser.
func Convert(src string, opts ...ParseOption) ([]Token, error) {
	return NewParser(opts...).Convert(src)
}
