package shunt

import "strconv"

// Kind distinguishes the ways an expression can fail.
type Kind int8

const (
	kindNone Kind = iota
	// KindInput is an empty or oversized input. Input errors have no
	// position.
	KindInput
	// KindSyntax is a malformed token, a misplaced operator, number, or
	// paren, or unbalanced parens.
	KindSyntax
	// KindArithmetic is a division by zero.
	KindArithmetic
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindSyntax:
		return "syntax"
	case KindArithmetic:
		return "arithmetic"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Error is an error resulting from invalid input. It implements InputError.
type Error struct {
	// Kind is the class of error.
	Kind Kind
	// Msg describes the problem, e.g. "mismatched paren".
	Msg string
	// Col is the 0-based character index of the fault in the input, or -1
	// if the error has no position.
	Col int
}

func (err *Error) Error() string {
	if err.Col < 0 {
		return err.Msg
	}
	return errpos(err.Col, err.Msg)
}

func (err *Error) Pos() int {
	return err.Col
}

// HasPos reports whether the error locates a character.
func (err *Error) HasPos() bool {
	return err.Col >= 0
}

// Is matches err against the kind sentinels ErrInput, ErrSyntax, and
// ErrArithmetic.
func (err *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Msg != "" {
		return false
	}
	return t.Kind == err.Kind
}

// Sentinels for use with errors.Is.
var (
	ErrInput      error = &Error{Kind: KindInput, Col: -1}
	ErrSyntax     error = &Error{Kind: KindSyntax, Col: -1}
	ErrArithmetic error = &Error{Kind: KindArithmetic, Col: -1}
)

func inputError(msg string) error {
	return &Error{Kind: KindInput, Msg: msg, Col: -1}
}

func syntaxError(msg string, col int) error {
	return &Error{Kind: KindSyntax, Msg: msg, Col: col}
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the 0-based index of the character that caused the error,
	// or -1 if there is none.
	Pos() int
}

var _ InputError = (*Error)(nil)
