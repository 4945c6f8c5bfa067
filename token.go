package shunt

import (
	"strconv"
	"strings"
)

// Operators contains the binary operators, one byte each.
const Operators = "*/+-"

// Token is a lexical unit of an expression.
type Token struct {
	// Pos is the index of the first character of Text in the input.
	Pos int
	// Text is the source text of the token.
	Text string
}

// String formats the token as its class, text, and position, e.g. Number:12@3.
func (t Token) String() string {
	return t.Class().String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// Class is the kind of a token. It is always derived from the token's text.
type Class int8

const (
	// ClassNone is any text that is not a valid token, including the empty
	// string.
	ClassNone Class = iota
	// ClassNumber is an unsigned decimal literal.
	ClassNumber
	// ClassOperator is one of Operators.
	ClassOperator
	// ClassOpen is an open paren.
	ClassOpen
	// ClassClose is a close paren.
	ClassClose
)

func (c Class) String() string {
	switch c {
	case ClassNone:
		return "None"
	case ClassNumber:
		return "Number"
	case ClassOperator:
		return "Operator"
	case ClassOpen:
		return "Open"
	case ClassClose:
		return "Close"
	default:
		return "Class(" + strconv.Itoa(int(c)) + ")"
	}
}

// Class classifies the token.
func (t Token) Class() Class {
	return classify(t.Text)
}

// IsNumber reports whether the token is a decimal literal.
func (t Token) IsNumber() bool { return isNumber(t.Text) }

// IsOperator reports whether the token is one of Operators.
func (t Token) IsOperator() bool { return isOperator(t.Text) }

// IsOpenParen reports whether the token is "(".
func (t Token) IsOpenParen() bool { return t.Text == "(" }

// IsCloseParen reports whether the token is ")".
func (t Token) IsCloseParen() bool { return t.Text == ")" }

// Precedence returns the binding strength of an operator token. Higher binds
// tighter. Panics if t is not an operator.
func (t Token) Precedence() int {
	p := precedence(t.Text)
	if p == 0 {
		panic("shunt: precedence of non-operator " + strconv.Quote(t.Text))
	}
	return p
}

func classify(s string) Class {
	switch {
	case s == "(":
		return ClassOpen
	case s == ")":
		return ClassClose
	case isOperator(s):
		return ClassOperator
	case isNumber(s):
		return ClassNumber
	default:
		return ClassNone
	}
}

func isOperator(s string) bool {
	return len(s) == 1 && strings.IndexByte(Operators, s[0]) >= 0
}

// precedence gets the precedence of an operator, or 0 if s is not one.
func precedence(s string) int {
	switch s {
	case "*", "/":
		return 2
	case "+", "-":
		return 1
	default:
		return 0
	}
}

// isNumber reports whether s is 123, 123.456, or .456. The empty string is
// not a number.
func isNumber(s string) bool {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == len(s) {
		return i > 0
	}
	if s[i] != '.' || i+1 == len(s) {
		return false
	}
	for i++; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
