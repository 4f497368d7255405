// Package pricer wires the book, the quote engine, and the configured
// target size together into a single value with one entry point per feed
// command, created at startup and discarded at exit.
package pricer

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"bookpricer/internal/book"
	"bookpricer/internal/feed"
	"bookpricer/internal/quote"
)

// Option configures a Pricer at construction time.
type Option func(*Pricer)

// WithWarnOverReduce escalates REDUCE commands that clamp to a Warn log.
func WithWarnOverReduce(warn bool) Option {
	return func(p *Pricer) { p.book.WarnOverReduce = warn }
}

// WithWarnDuplicateAdd escalates duplicate-id ADD commands to a Warn log.
func WithWarnDuplicateAdd(warn bool) Option {
	return func(p *Pricer) { p.book.WarnDuplicateAdd = warn }
}

// Pricer bundles the indexed book, the quote engine's per-side memos, and
// the run id used to correlate this process's log lines.
type Pricer struct {
	book  *book.Book
	quote *quote.Engine
	runID string
}

// New builds a Pricer targeting exactly target shares per quote.
func New(target int64, opts ...Option) *Pricer {
	p := &Pricer{
		book:  book.New(),
		quote: quote.New(target),
		runID: uuid.New().String(),
	}
	for _, opt := range opts {
		opt(p)
	}
	log.Info().Str("run_id", p.runID).Int64("target", target).Msg("pricer started")
	return p
}

// RunID returns the correlation id attached to this process's log lines.
func (p *Pricer) RunID() string {
	return p.runID
}

// Close releases nothing today — the book is reclaimed by the garbage
// collector — but gives callers a single, stable teardown hook to call in
// defer.
func (p *Pricer) Close() {
	log.Info().Str("run_id", p.runID).Msg("pricer stopped")
}

// Result is what Apply returns: whether a quote line should be emitted,
// the side letter to emit it under, and the quote itself.
type Result struct {
	Emit      bool
	Timestamp string
	OutSide   byte
	Quote     quote.Quote
}

// Apply runs one feed command through the mutator and, if a side was
// touched, the quote engine, returning whether the caller should write an
// output line.
func (p *Pricer) Apply(cmd feed.Command) Result {
	var touched bool
	var side book.Side
	var prevTotal int64

	switch cmd.Kind {
	case feed.KindAdd:
		prevTotal = p.book.TotalShares(cmd.Side)
		touched = p.book.Add(cmd.Timestamp, cmd.OrderID, cmd.Side, cmd.Price, cmd.Size)
		side = cmd.Side

	case feed.KindReduce:
		if order, ok := p.book.LookupOrder(cmd.OrderID); ok {
			prevTotal = p.book.TotalShares(order.Side)
		}
		touched, side = p.book.Reduce(cmd.Timestamp, cmd.OrderID, cmd.Size)
	}

	if !touched {
		return Result{}
	}

	nowTotal := p.book.TotalShares(side)
	q := p.quote.Observe(p.book, side, prevTotal, nowTotal)
	if !q.Emit {
		return Result{}
	}

	return Result{
		Emit:      true,
		Timestamp: cmd.Timestamp,
		OutSide:   quote.OutputSide(side),
		Quote:     q,
	}
}
