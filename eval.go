package shunt

import (
	"errors"
	"strconv"
)

// operand is a value on the evaluation stack. It is either a number literal
// whose conversion has not happened yet or the result of an operator.
type operand struct {
	lit  string
	x    float64
	done bool
}

func literal(tok Token) operand {
	return operand{lit: tok.Text}
}

func number(x float64) operand {
	return operand{x: x, done: true}
}

// float converts the operand to its value. Literals too large for a float64
// become infinities.
func (v operand) float() float64 {
	if v.done {
		return v.x
	}
	x, err := strconv.ParseFloat(v.lit, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic("shunt: invalid number literal " + strconv.Quote(v.lit))
	}
	return x
}

// Evaluator computes the values of postfix token sequences. The zero value is
// ready to use. An Evaluator is not safe to use concurrently.
type Evaluator struct {
	stack []operand
}

// Eval evaluates postfix, which must contain only numbers and operators, e.g.
// as produced by Convert. The only error is division by zero, reported as an
// *Error of KindArithmetic at the operator. Panics if postfix is not a
// well-formed postfix expression.
func (e *Evaluator) Eval(postfix []Token) (float64, error) {
	e.stack = e.stack[:0]
	for _, tok := range postfix {
		switch tok.Class() {
		case ClassNumber:
			e.push(literal(tok))
		case ClassOperator:
			if len(e.stack) < 2 {
				panic("shunt: operator " + tok.String() + " with " + strconv.Itoa(len(e.stack)) + " operands (bad postfix?)")
			}
			// The right operand was pushed last.
			r := e.pop().float()
			l := e.pop().float()
			x, err := apply(tok, l, r)
			if err != nil {
				e.stack = e.stack[:0]
				return 0, err
			}
			e.push(number(x))
		default:
			panic("shunt: invalid postfix token " + tok.String())
		}
	}
	if len(e.stack) != 1 {
		panic("shunt: inconsistent stack: " + strconv.Itoa(len(e.stack)) + " items (bad postfix?)")
	}
	// A lone literal reaches here unconverted.
	return e.pop().float(), nil
}

func (e *Evaluator) push(v operand) {
	e.stack = append(e.stack, v)
}

func (e *Evaluator) pop() operand {
	v := e.stack[len(e.stack)-1]
	e.stack = e.stack[:len(e.stack)-1]
	return v
}

// apply computes l op r.
func apply(op Token, l, r float64) (float64, error) {
	switch op.Text {
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, &Error{Kind: KindArithmetic, Msg: "division by 0", Col: op.Pos}
		}
		return l / r, nil
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	default:
		panic("shunt: unknown operator " + strconv.Quote(op.Text))
	}
}

// Eval is a shortcut to evaluate a postfix sequence with a new Evaluator.
func Eval(postfix []Token) (float64, error) {
	var e Evaluator
	return e.Eval(postfix)
}
