// Package shunt implements a floating-point calculator for plain arithmetic
// text.
//
// Expressions are made of unsigned decimal numbers ("12", "1.5", ".5"), the
// binary operators + - * / and parentheses. Multiplication and division bind
// tighter than addition and subtraction, and all four are left-associative,
// so "10 - 2 - 3" is 5. There is no unary minus: "-1" is an error.
//
// Parsing converts the input to postfix order with Dijkstra's shunting-yard
// algorithm as tokens are recognized, then evaluates the postfix sequence with
// a single value stack. Any failure is an *Error that locates the offending
// character, so that a caller can point at it.
//
package shunt
