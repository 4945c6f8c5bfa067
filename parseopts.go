package shunt

import "github.com/rs/zerolog"

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	logopt    struct{ log zerolog.Logger }
	maxlenopt int
)

// parsectx holds the settings of a Parser. It is also a ParseOption.
type parsectx struct {
	// log receives trace events for tokens and debug events for postfix
	// output and failures.
	log zerolog.Logger
	// maxlen is the maximum number of runes in a trimmed input, or 0 for no
	// limit.
	maxlen int
	// logset indicates that an option has set log.
	logset bool
}

func defaultctx() parsectx {
	return parsectx{log: zerolog.Nop()}
}

// Logger sets the logger a Parser uses to trace its work.
func Logger(log zerolog.Logger) ParseOption {
	return &logopt{log}
}

func (o *logopt) parseOption(p parsectx) parsectx {
	p.log = o.log
	p.logset = true
	return p
}

// MaxLen limits the length in runes of an expression after trimming
// surrounding whitespace. Longer inputs fail with an error of KindInput. A
// limit of 0 or less means no limit.
func MaxLen(n int) ParseOption {
	if n < 0 {
		n = 0
	}
	return maxlenopt(n)
}

func (o maxlenopt) parseOption(p parsectx) parsectx {
	p.maxlen = int(o)
	return p
}

// ParsingPreset bundles options so they can be passed around as one. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	p := defaultctx()
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.logset || p.maxlen != 0 {
		panic("shunt: preset applied to non-default parse config")
	}
	return *o
}
