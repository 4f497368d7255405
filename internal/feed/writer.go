package feed

import (
	"fmt"
	"io"

	"bookpricer/internal/quote"
)

// WriteQuote writes one output record: "<timestamp> <side_letter> <value>",
// where value is "NA" or the formatted marginal price. It never writes
// trailing whitespace beyond the single newline.
func WriteQuote(w io.Writer, ts string, outSide byte, q quote.Quote) error {
	value := "NA"
	if q.Available {
		value = q.Value.String()
	}
	_, err := fmt.Fprintf(w, "%s %c %s\n", ts, outSide, value)
	return err
}
