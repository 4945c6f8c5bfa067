package shunt

import (
	"strings"
	"unicode"
)

// singles contains the runes which are always complete tokens by themselves.
const singles = Operators + "()"

// tokenSink receives each token as soon as the lexer finalizes it.
type tokenSink interface {
	token(tok Token) error
}

// lexer splits an expression into tokens. Numbers accumulate in buf; every
// other token is a single rune.
type lexer struct {
	sink tokenSink
	buf  strings.Builder
	// start is the position of the token in buf, or of the next token if buf
	// is empty.
	start int
	// dot is whether buf contains a decimal point.
	dot bool
}

func (l *lexer) reset(sink tokenSink) {
	l.sink = sink
	l.buf.Reset()
	l.start = 0
	l.dot = false
}

// scan tokenizes src. base is the position of the first rune of src. The
// return value is the position just past the end of src.
func (l *lexer) scan(src string, base int) (int, error) {
	col := base
	l.start = base
	for _, r := range src {
		if err := l.step(r, col); err != nil {
			return col, err
		}
		col++
	}
	// The input may end with a number.
	return col, l.finalize(col)
}

// step handles the rune at col.
func (l *lexer) step(r rune, col int) error {
	switch {
	case unicode.IsSpace(r):
		return l.finalize(col)
	case strings.ContainsRune(singles, r):
		if err := l.finalize(col); err != nil {
			return err
		}
		if err := l.sink.token(Token{Pos: col, Text: string(r)}); err != nil {
			return err
		}
		l.start = col + 1
		return nil
	case '0' <= r && r <= '9':
		l.buf.WriteRune(r)
		return nil
	case r == '.' && !l.dot:
		// Either the token is empty or all digits so far.
		l.dot = true
		l.buf.WriteRune(r)
		return nil
	default:
		return syntaxError("unknown character", col)
	}
}

// finalize ends the current token at the boundary rune at col. If the token is
// empty, only the position of the next token moves.
func (l *lexer) finalize(col int) error {
	if l.buf.Len() == 0 {
		l.start = col + 1
		return nil
	}
	text := l.buf.String()
	if text[len(text)-1] == '.' {
		// Number tokens are ASCII, so the byte offset is the rune offset.
		return syntaxError("misplaced decimal", l.start+len(text)-1)
	}
	tok := Token{Pos: l.start, Text: text}
	l.buf.Reset()
	l.dot = false
	l.start = col + 1
	return l.sink.token(tok)
}
