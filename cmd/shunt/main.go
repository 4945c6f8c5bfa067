package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/zephyrtronium/shunt"
)

func main() {
	var (
		inname, verb, logLevel string
		rpn                    bool
	)
	flag.StringVar(&inname, "in", "", "input file, one expression per line (default stdin if no args given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.BoolVar(&rpn, "rpn", false, "print the postfix form of each expression")
	flag.StringVar(&logLevel, "log-level", "warn", "log level (trace, debug, info, warn, error)")
	flag.Parse()

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("service", "shunt").Logger().
		Level(level)

	var srcs []string
	f, err := infile(inname, flag.NArg() == 0)
	if err != nil {
		logger.Fatal().Err(err).Msg("opening input")
	}
	if f != nil {
		lines, err := readLines(f)
		f.Close()
		if err != nil {
			logger.Fatal().Err(err).Msg("reading input")
		}
		srcs = append(srcs, lines...)
	}
	srcs = append(srcs, flag.Args()...)

	p := shunt.NewParser(shunt.Logger(logger))
	verb += "\n"
	failed := false
	for _, src := range srcs {
		r, err := p.Parse(src)
		if rpn && p.RPN() != "" {
			fmt.Printf("%s : ", p.RPN())
		}
		if err != nil {
			failed = true
			fmt.Print(describe(src, err))
			continue
		}
		fmt.Printf(verb, r)
	}
	if failed {
		os.Exit(1)
	}
}

// describe renders an error under its expression with a caret marking the
// offending character. Columns are 1-based for people.
func describe(src string, err error) string {
	var e *shunt.Error
	if !errors.As(err, &e) || !e.HasPos() {
		return fmt.Sprintf("%q: %v\n", src, err)
	}
	var b strings.Builder
	line := []rune(src)
	for _, r := range line {
		// Keep the caret aligned under tabs and other odd spacing.
		if r == '\t' || r == '\n' || r == '\r' {
			r = ' '
		}
		b.WriteRune(r)
	}
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", e.Col))
	fmt.Fprintf(&b, "^ %s (column %d)\n", e.Msg, e.Col+1)
	return b.String()
}

// readLines collects the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) == "" {
			continue
		}
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func infile(inname string, std bool) (io.ReadCloser, error) {
	switch {
	case inname != "" && inname != "-":
		return os.Open(inname)
	case inname == "-", std:
		return io.NopCloser(os.Stdin), nil
	}
	return nil, nil
}
