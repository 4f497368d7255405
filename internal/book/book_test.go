package book

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookpricer/internal/money"
)

func cents(s string) money.Cents {
	c, err := money.ParseCents(s)
	if err != nil {
		panic(err)
	}
	return c
}

func TestAddBuildsLevel(t *testing.T) {
	b := New()

	touched := b.Add("t1", "o1", Ask, cents("10.75"), 18)
	require.True(t, touched)
	require.NoError(t, b.AssertInvariants())
	assert.Equal(t, int64(18), b.TotalShares(Ask))

	touched = b.Add("t2", "o2", Ask, cents("10.81"), 151)
	require.True(t, touched)
	assert.Equal(t, int64(169), b.TotalShares(Ask))

	// Same price as o1: aggregates, doesn't add a new level.
	touched = b.Add("t3", "o3", Ask, cents("10.75"), 5)
	require.True(t, touched)
	require.NoError(t, b.AssertInvariants())

	var prices []money.Cents
	b.IterateBestToWorst(Ask, func(pl *PriceLevel) bool {
		prices = append(prices, pl.Price)
		return true
	})
	assert.Equal(t, []money.Cents{cents("10.75"), cents("10.81")}, prices)
}

func TestDuplicateOrderIDIgnored(t *testing.T) {
	b := New()
	require.True(t, b.Add("t", "z", Bid, cents("1.00"), 10))
	touched := b.Add("t", "z", Bid, cents("2.00"), 5)
	assert.False(t, touched)

	o, ok := b.LookupOrder("z")
	require.True(t, ok)
	assert.Equal(t, cents("1.00"), o.Price)
	assert.Equal(t, int64(10), o.Size)
}

func TestReduceUnknownIDIsNoop(t *testing.T) {
	b := New()
	touched, _ := b.Reduce("t", "q", 10)
	assert.False(t, touched)
	assert.Equal(t, int64(0), b.TotalShares(Bid))
	assert.Equal(t, int64(0), b.TotalShares(Ask))
}

func TestOverReductionClampsToFullCancel(t *testing.T) {
	b := New()
	require.True(t, b.Add("t1", "x", Bid, cents("10.00"), 5))
	require.True(t, b.Add("t2", "y", Bid, cents("10.00"), 3))

	touched, side := b.Reduce("t3", "x", 100)
	require.True(t, touched)
	assert.Equal(t, Bid, side)

	_, ok := b.LookupOrder("x")
	assert.False(t, ok)
	assert.Equal(t, int64(3), b.TotalShares(Bid))
	require.NoError(t, b.AssertInvariants())
}

func TestReduceToZeroRemovesLevel(t *testing.T) {
	b := New()
	require.True(t, b.Add("t1", "x", Ask, cents("5.00"), 10))
	touched, side := b.Reduce("t2", "x", 10)
	require.True(t, touched)
	assert.Equal(t, Ask, side)

	var count int
	b.IterateBestToWorst(Ask, func(*PriceLevel) bool { count++; return true })
	assert.Equal(t, 0, count)
	assert.Equal(t, int64(0), b.TotalShares(Ask))
}

func TestAddReduceSymmetry(t *testing.T) {
	b := New()
	require.True(t, b.Add("t1", "a", Bid, cents("9.99"), 100))
	require.True(t, b.Add("t2", "b", Ask, cents("10.01"), 50))
	require.True(t, b.Add("t3", "c", Bid, cents("9.98"), 25))

	for _, id := range []string{"a", "b", "c"} {
		touched, _ := b.Reduce("tN", id, 1_000_000)
		require.True(t, touched)
	}

	assert.Equal(t, int64(0), b.TotalShares(Bid))
	assert.Equal(t, int64(0), b.TotalShares(Ask))
	require.NoError(t, b.AssertInvariants())

	var asks, bids int
	b.IterateBestToWorst(Ask, func(*PriceLevel) bool { asks++; return true })
	b.IterateBestToWorst(Bid, func(*PriceLevel) bool { bids++; return true })
	assert.Equal(t, 0, asks)
	assert.Equal(t, 0, bids)
}

func TestLevelOrderingStrict(t *testing.T) {
	b := New()
	require.True(t, b.Add("t", "a1", Ask, cents("3.00"), 1))
	require.True(t, b.Add("t", "a2", Ask, cents("1.00"), 1))
	require.True(t, b.Add("t", "a3", Ask, cents("2.00"), 1))
	require.True(t, b.Add("t", "b1", Bid, cents("3.00"), 1))
	require.True(t, b.Add("t", "b2", Bid, cents("1.00"), 1))
	require.True(t, b.Add("t", "b3", Bid, cents("2.00"), 1))

	var asks, bids []money.Cents
	b.IterateBestToWorst(Ask, func(pl *PriceLevel) bool { asks = append(asks, pl.Price); return true })
	b.IterateBestToWorst(Bid, func(pl *PriceLevel) bool { bids = append(bids, pl.Price); return true })

	assert.Equal(t, []money.Cents{cents("1.00"), cents("2.00"), cents("3.00")}, asks)
	assert.Equal(t, []money.Cents{cents("3.00"), cents("2.00"), cents("1.00")}, bids)
}
