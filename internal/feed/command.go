// Package feed adapts the line-oriented stdin protocol and the
// line-oriented stdout protocol to and from the core's Command/Quote
// types. Tokenization and output formatting live here so the core (book, quote, pricer) never touches an io.Reader or
// an io.Writer.
package feed

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"bookpricer/internal/book"
	"bookpricer/internal/money"
)

// ErrMalformed is returned by ParseLine for any line that does not match
// the ADD or REDUCE grammar.
var ErrMalformed = errors.New("feed: malformed input line")

// Kind distinguishes the two command shapes the feed carries.
type Kind int

const (
	KindAdd Kind = iota
	KindReduce
)

// Command is a single parsed feed line. Side and Price are meaningful
// only for KindAdd; Size carries the ADD share count or the REDUCE
// reduction amount depending on Kind.
type Command struct {
	Kind      Kind
	Timestamp string
	OrderID   string
	Side      book.Side
	Price     money.Cents
	Size      int64
}

// ParseLine tokenizes one whitespace-separated input line into a Command.
func ParseLine(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Command{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}

	ts, op := fields[0], fields[1]
	switch op {
	case "A":
		return parseAdd(ts, fields)
	case "R":
		return parseReduce(ts, fields)
	default:
		return Command{}, fmt.Errorf("%w: unknown operation %q", ErrMalformed, op)
	}
}

func parseAdd(ts string, fields []string) (Command, error) {
	if len(fields) < 6 {
		return Command{}, fmt.Errorf("%w: ADD wants at least 6 fields, got %d", ErrMalformed, len(fields))
	}

	id := fields[2]
	side, err := parseSide(fields[3])
	if err != nil {
		return Command{}, err
	}
	price, err := money.ParseCents(fields[4])
	if err != nil {
		return Command{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	size, err := strconv.ParseInt(fields[5], 10, 64)
	if err != nil || size <= 0 {
		return Command{}, fmt.Errorf("%w: invalid size %q", ErrMalformed, fields[5])
	}

	return Command{
		Kind:      KindAdd,
		Timestamp: ts,
		OrderID:   id,
		Side:      side,
		Price:     price,
		Size:      size,
	}, nil
}

func parseReduce(ts string, fields []string) (Command, error) {
	if len(fields) < 4 {
		return Command{}, fmt.Errorf("%w: REDUCE wants at least 4 fields, got %d", ErrMalformed, len(fields))
	}

	id := fields[2]
	amount, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil || amount <= 0 {
		return Command{}, fmt.Errorf("%w: invalid amount %q", ErrMalformed, fields[3])
	}

	return Command{
		Kind:      KindReduce,
		Timestamp: ts,
		OrderID:   id,
		Size:      amount,
	}, nil
}

func parseSide(s string) (book.Side, error) {
	switch s {
	case "B":
		return book.Bid, nil
	case "S":
		return book.Ask, nil
	default:
		return 0, fmt.Errorf("%w: unknown side %q", ErrMalformed, s)
	}
}
