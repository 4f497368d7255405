// Package money implements fixed-point monetary arithmetic in integer
// hundredths of the quote currency. No floating point is used anywhere in
// this package; every price and every cost the rest of the program
// computes flows through a Cents value.
package money

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformed is returned by ParseCents when the input does not match
// D+ or D+.DD.
var ErrMalformed = errors.New("money: malformed price")

// Cents is a non-negative integer amount of hundredths of the quote
// currency. All arithmetic on Cents is plain int64 arithmetic.
type Cents int64

// ParseCents reads an integer, optionally followed by '.' and exactly two
// fractional digits, and returns 100*integer + fractional.
func ParseCents(s string) (Cents, error) {
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	wholePart, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || wholePart < 0 {
		return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
	}

	var fracPart int64
	if hasFrac {
		if len(frac) != 2 {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
		fracPart, err = strconv.ParseInt(frac, 10, 64)
		if err != nil || fracPart < 0 {
			return 0, fmt.Errorf("%w: %q", ErrMalformed, s)
		}
	}

	return Cents(wholePart*100 + fracPart), nil
}

// String renders the canonical D+.DD representation: no currency symbol,
// no grouping, no sign, and a leading "0." for amounts under a dollar.
func (c Cents) String() string {
	whole := int64(c) / 100
	frac := int64(c) % 100
	if frac < 0 {
		frac = -frac
	}
	return fmt.Sprintf("%d.%02d", whole, frac)
}
