// Package quote implements the marginal-price query and the
// emit-only-on-change memo that together decide what (if anything) a book
// mutation should print.
package quote

import (
	"bookpricer/internal/book"
	"bookpricer/internal/money"
)

// Quote is the result of observing one side after a mutation: either
// nothing to emit, an "NA" (liquidity dropped below target), or a
// formatted marginal price.
type Quote struct {
	Emit      bool
	Available bool
	Value     money.Cents
}

// Engine holds the target size T and, per side, the last emitted marginal
// price (nil means "not available").
type Engine struct {
	Target int64

	lastBid *money.Cents
	lastAsk *money.Cents
}

// New returns a quote engine pricing exactly target shares.
func New(target int64) *Engine {
	return &Engine{Target: target}
}

func (e *Engine) memo(side book.Side) **money.Cents {
	if side == book.Bid {
		return &e.lastBid
	}
	return &e.lastAsk
}

// Observe evaluates the side touched by the most recent mutation against
// its total shares immediately before (prevTotal) and after (nowTotal)
// that mutation, consulting b for the marginal price when liquidity is
// available.
func (e *Engine) Observe(b *book.Book, side book.Side, prevTotal, nowTotal int64) Quote {
	memo := e.memo(side)

	switch {
	case prevTotal >= e.Target && nowTotal < e.Target:
		*memo = nil
		return Quote{Emit: true, Available: false}

	case nowTotal >= e.Target:
		marginal := Marginal(b, side, e.Target)
		if *memo != nil && **memo == marginal {
			return Quote{}
		}
		*memo = &marginal
		return Quote{Emit: true, Available: true, Value: marginal}

	default:
		return Quote{}
	}
}

// Marginal walks levels of side in best-to-worst order, summing the cost
// (ASK) or proceeds (BID) of consuming exactly target shares. The caller
// must ensure the side's total shares are >= target, or this will consume
// every level without reaching target.
func Marginal(b *book.Book, side book.Side, target int64) money.Cents {
	var consumed, total int64

	b.IterateBestToWorst(side, func(pl *book.PriceLevel) bool {
		if consumed+pl.AggregateSize < target {
			total += pl.AggregateSize * int64(pl.Price)
			consumed += pl.AggregateSize
			return true
		}
		take := target - consumed
		total += take * int64(pl.Price)
		consumed += take
		return false
	})

	return money.Cents(total)
}

// OutputSide returns the side letter a consumer of the quote would see: a
// Bid touch means you could sell into the bids (S); an Ask touch means
// you could buy from the asks (B).
func OutputSide(touched book.Side) byte {
	if touched == book.Bid {
		return 'S'
	}
	return 'B'
}
