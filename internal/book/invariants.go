package book

import "fmt"

// AssertInvariants checks the book's structural invariants — strict price
// ordering per side and level/order total consistency — and returns the
// first violation found, or nil. It is O(n) in the number of live orders
// and levels and is intended for tests, not the hot path.
func (b *Book) AssertInvariants() error {
	for _, side := range []Side{Bid, Ask} {
		var levelTotal, orderTotal int64
		var prevPrice *int64
		var levelErr error

		b.IterateBestToWorst(side, func(pl *PriceLevel) bool {
			if pl.AggregateSize <= 0 {
				levelErr = fmt.Errorf("%w: non-positive aggregate size at price %v", ErrInvariantViolated, pl.Price)
				return false
			}
			levelTotal += pl.AggregateSize

			p := int64(pl.Price)
			if prevPrice != nil {
				if side == Ask && p <= *prevPrice {
					levelErr = fmt.Errorf("%w: ask levels not strictly increasing", ErrInvariantViolated)
					return false
				}
				if side == Bid && p >= *prevPrice {
					levelErr = fmt.Errorf("%w: bid levels not strictly decreasing", ErrInvariantViolated)
					return false
				}
			}
			prevPrice = &p
			return true
		})
		if levelErr != nil {
			return levelErr
		}

		for _, o := range b.byID {
			if o.Side != side {
				continue
			}
			if o.Size <= 0 {
				return fmt.Errorf("%w: non-positive order size for %s", ErrInvariantViolated, o.ID)
			}
			orderTotal += o.Size
		}

		if levelTotal != orderTotal {
			return fmt.Errorf("%w: side %v level total %d != order total %d", ErrInvariantViolated, side, levelTotal, orderTotal)
		}
		if levelTotal != b.TotalShares(side) {
			return fmt.Errorf("%w: side %v level total %d != cached total %d", ErrInvariantViolated, side, levelTotal, b.TotalShares(side))
		}
	}
	return nil
}
