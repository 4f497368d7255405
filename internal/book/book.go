// Package book implements the indexed limit order book: the three
// mutually-redundant indexes (by order id, by ascending ask price, by
// descending bid price) and the ADD/REDUCE mutation protocol that keeps
// them, and the cached per-side totals, consistent.
//
// The price-ordered indexes are backed by github.com/tidwall/btree, the
// balanced-ordered-map substitute for the skip lists of the original
// implementation. Each side gets its own comparator so that "best price
// first" is always a plain ascending scan over the tree — there is no
// reverse-key encoding.
package book

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/btree"

	"bookpricer/internal/money"
)

// ErrInvariantViolated marks a programming bug: a level or order size went
// negative. The caller is expected to treat this as fatal.
var ErrInvariantViolated = errors.New("book: invariant violated")

// Order is a single unit of resting liquidity.
type Order struct {
	ID        string
	Side      Side
	Price     money.Cents
	Size      int64
	Timestamp string
}

// PriceLevel aggregates every live order on one side at one price.
type PriceLevel struct {
	Side          Side
	Price         money.Cents
	AggregateSize int64
}

type priceLevels = btree.BTreeG[*PriceLevel]

// Book is the ensemble of live orders and price levels for a single
// instrument.
type Book struct {
	byID map[string]*Order
	bids *priceLevels
	asks *priceLevels

	totalBidShares int64
	totalAskShares int64

	// WarnOverReduce and WarnDuplicateAdd escalate two conditions the
	// original source treats as silent (over-reduction, duplicate ADD
	// ids) to a louder log level. Both default to false, preserving the
	// source's current behavior.
	WarnOverReduce   bool
	WarnDuplicateAdd bool
}

// New returns an empty book.
func New() *Book {
	return &Book{
		byID: make(map[string]*Order),
		bids: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price > b.Price // highest bid first
		}),
		asks: btree.NewBTreeG(func(a, b *PriceLevel) bool {
			return a.Price < b.Price // lowest ask first
		}),
	}
}

func (b *Book) levels(side Side) *priceLevels {
	if side == Bid {
		return b.bids
	}
	return b.asks
}

// TotalShares returns the cached aggregate live size on the given side.
func (b *Book) TotalShares(side Side) int64 {
	if side == Bid {
		return b.totalBidShares
	}
	return b.totalAskShares
}

func (b *Book) addTotalShares(side Side, delta int64) {
	if side == Bid {
		b.totalBidShares += delta
	} else {
		b.totalAskShares += delta
	}
}

// LookupOrder recovers an order (and therefore its side and price) from
// its id alone.
func (b *Book) LookupOrder(id string) (*Order, bool) {
	o, ok := b.byID[id]
	return o, ok
}

// insertOrIncrementLevel inserts a new price level or adds to an existing
// one's aggregate size.
func (b *Book) insertOrIncrementLevel(side Side, price money.Cents, amount int64) {
	levels := b.levels(side)
	probe := &PriceLevel{Price: price}
	if existing, ok := levels.GetMut(probe); ok {
		existing.AggregateSize += amount
		return
	}
	levels.Set(&PriceLevel{Side: side, Price: price, AggregateSize: amount})
}

// ReduceLevel decrements a level's aggregate size, removing the level if
// it reaches zero. A negative result is an invariant violation.
func (b *Book) ReduceLevel(side Side, price money.Cents, amount int64) {
	levels := b.levels(side)
	probe := &PriceLevel{Price: price}
	level, ok := levels.GetMut(probe)
	if !ok {
		panic(fmt.Errorf("%w: reduce of absent level side=%v price=%v", ErrInvariantViolated, side, price))
	}
	level.AggregateSize -= amount
	switch {
	case level.AggregateSize < 0:
		panic(fmt.Errorf("%w: negative aggregate size side=%v price=%v", ErrInvariantViolated, side, price))
	case level.AggregateSize == 0:
		levels.Delete(level)
	}
}

// IterateBestToWorst walks the given side's levels in the order a
// consumer of liquidity would sweep them, stopping early if fn returns
// false.
func (b *Book) IterateBestToWorst(side Side, fn func(*PriceLevel) bool) {
	b.levels(side).Scan(fn)
}

// Add applies an ADD command: it constructs the order, inserts it into
// the by-id index, and either creates or grows the corresponding price
// level. It reports whether the side's total changed (false only on the
// duplicate-id no-op path).
func (b *Book) Add(ts, id string, side Side, price money.Cents, size int64) (touched bool) {
	if _, exists := b.byID[id]; exists {
		level := log.Info()
		if b.WarnDuplicateAdd {
			level = log.Warn()
		}
		level.Str("timestamp", ts).Str("order_id", id).Msg("duplicate order id on ADD, ignoring")
		return false
	}

	b.byID[id] = &Order{ID: id, Side: side, Price: price, Size: size, Timestamp: ts}
	b.insertOrIncrementLevel(side, price, size)
	b.addTotalShares(side, size)
	return true
}

// Reduce applies a REDUCE command: it looks the order up by id, clamps
// the reduction to the order's remaining size, and decrements the order,
// its level, and the side's total in lockstep. It reports whether a side
// was actually touched and which one.
func (b *Book) Reduce(ts, id string, amount int64) (touched bool, side Side) {
	order, ok := b.byID[id]
	if !ok {
		log.Error().Str("timestamp", ts).Str("order_id", id).Msg("REDUCE of unknown order id, skipping")
		return false, 0
	}

	clamped := amount
	if clamped > order.Size {
		if b.WarnOverReduce {
			log.Warn().Str("timestamp", ts).Str("order_id", id).
				Int64("requested", amount).Int64("remaining", order.Size).
				Msg("REDUCE amount exceeds remaining size, clamping")
		}
		clamped = order.Size
	}

	order.Size -= clamped
	if order.Size == 0 {
		delete(b.byID, id)
	}

	b.ReduceLevel(order.Side, order.Price, clamped)
	b.addTotalShares(order.Side, -clamped)

	return true, order.Side
}
