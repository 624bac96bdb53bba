package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Setup & Helpers --------------------------------------------------------

func newAsk(qty, price uint64) *AskOrder {
	return NewAskOrder(OrderMessage{ID: uuid.New(), Side: Ask, Quantity: qty, Price: price})
}

func newBid(qty, price uint64) *BidOrder {
	return NewBidOrder(OrderMessage{ID: uuid.New(), Side: Bid, Quantity: qty, Price: price})
}

// assertAggregateInvariant checks that, on both sides, every price in
// the index aggregates exactly the remaining quantities of the resting
// orders at that price, and that no fully-filled order is resident.
func assertAggregateInvariant(t *testing.T, book *OrderBook) {
	t.Helper()

	askSums := map[uint64]uint64{}
	for _, level := range book.asks.levels.Items() {
		for _, order := range level.orders {
			require.NotZero(t, order.CurrentQuantity, "zero-quantity ask resident in book")
			askSums[level.price] += order.CurrentQuantity
		}
	}
	assert.Equal(t, askSums, book.asks.index, "ask index out of sync with ask queue")

	bidSums := map[uint64]uint64{}
	for _, level := range book.bids.levels.Items() {
		for _, order := range level.orders {
			require.NotZero(t, order.CurrentQuantity, "zero-quantity bid resident in book")
			bidSums[level.price] += order.CurrentQuantity
		}
	}
	assert.Equal(t, bidSums, book.bids.index, "bid index out of sync with bid queue")
}

func depthMap(entries []DepthEntry) map[uint64]uint64 {
	m := make(map[uint64]uint64, len(entries))
	for _, e := range entries {
		m[e.Price] = e.Quantity
	}
	return m
}

// --- Tests ------------------------------------------------------------------

func TestPush_FullyFilledOrderDiscarded(t *testing.T) {
	book := NewOrderBook()

	ask := newAsk(100, 500)
	ask.CurrentQuantity = 0
	book.PushAsk(ask)

	bid := newBid(100, 500)
	bid.CurrentQuantity = 0
	book.PushBid(bid)

	_, ok := book.PeekBestAsk()
	assert.False(t, ok)
	_, ok = book.PeekBestBid()
	assert.False(t, ok)
	assert.Empty(t, book.asks.index)
	assert.Empty(t, book.bids.index)
}

func TestPush_AggregatesQuantityAtPrice(t *testing.T) {
	book := NewOrderBook()

	// Two asks at the same price, one at another.
	book.PushAsk(newAsk(10, 500))
	book.PushAsk(newAsk(20, 500))
	book.PushAsk(newAsk(5, 510))

	assert.Equal(t, map[uint64]uint64{500: 30, 510: 5}, book.asks.index)
	assertAggregateInvariant(t, book)
}

func TestPeekPop_PriceOrdering(t *testing.T) {
	book := NewOrderBook()

	// 1. Asks: cheapest first.
	book.PushAsk(newAsk(10, 520))
	book.PushAsk(newAsk(10, 500))
	book.PushAsk(newAsk(10, 510))

	ask, ok := book.PopBestAsk()
	require.True(t, ok)
	assert.Equal(t, uint64(500), ask.Price)
	ask, _ = book.PopBestAsk()
	assert.Equal(t, uint64(510), ask.Price)
	ask, _ = book.PopBestAsk()
	assert.Equal(t, uint64(520), ask.Price)
	_, ok = book.PopBestAsk()
	assert.False(t, ok, "pop on empty side signals empty, not error")

	// 2. Bids: most generous first.
	book.PushBid(newBid(10, 480))
	book.PushBid(newBid(10, 500))
	book.PushBid(newBid(10, 490))

	bid, ok := book.PopBestBid()
	require.True(t, ok)
	assert.Equal(t, uint64(500), bid.Price)
	bid, _ = book.PopBestBid()
	assert.Equal(t, uint64(490), bid.Price)
	bid, _ = book.PopBestBid()
	assert.Equal(t, uint64(480), bid.Price)
}

func TestPop_RemovesPriceKeyAtZero(t *testing.T) {
	book := NewOrderBook()
	book.PushAsk(newAsk(10, 500))
	book.PushAsk(newAsk(20, 500))

	book.PopBestAsk()
	assert.Equal(t, map[uint64]uint64{500: 20}, book.asks.index)

	book.PopBestAsk()
	assert.Empty(t, book.asks.index, "price key must be removed, not left at zero")
	assertAggregateInvariant(t, book)
}

func TestSamePriceOrders_ExecuteOldestFirst(t *testing.T) {
	book := NewOrderBook()

	first := newAsk(10, 500)
	second := newAsk(20, 500)
	book.PushAsk(first)
	book.PushAsk(second)

	got, ok := book.PopBestAsk()
	require.True(t, ok)
	assert.Equal(t, first.ID, got.ID)
	got, _ = book.PopBestAsk()
	assert.Equal(t, second.ID, got.ID)
}

func TestReduceBest_KeepsOrderResident(t *testing.T) {
	book := NewOrderBook()
	bid := newBid(100, 500)
	book.PushBid(bid)

	book.ReduceBestBid(30)

	best, ok := book.PeekBestBid()
	require.True(t, ok)
	assert.Equal(t, bid.ID, best.ID)
	assert.Equal(t, uint64(70), best.CurrentQuantity)
	assert.Equal(t, uint64(100), best.Quantity, "original quantity is immutable")
	assert.Equal(t, map[uint64]uint64{500: 70}, book.bids.index)
	assertAggregateInvariant(t, book)
}

func TestReduceBest_PanicsOnPreconditionViolation(t *testing.T) {
	book := NewOrderBook()
	book.PushAsk(newAsk(10, 500))

	// Consuming the full remaining quantity must go through pop, never
	// through an in-place reduce.
	assert.Panics(t, func() { book.ReduceBestAsk(10) })
	assert.Panics(t, func() { book.ReduceBestAsk(11) })
}

func TestDepth_SnapshotIsIndependent(t *testing.T) {
	book := NewOrderBook()
	book.PushAsk(newAsk(100, 510))
	book.PushAsk(newAsk(50, 500))
	book.PushBid(newBid(70, 490))
	book.PushBid(newBid(30, 480))

	dom := book.Depth()
	assert.Equal(t, map[uint64]uint64{500: 50, 510: 100}, depthMap(dom.Ask))
	assert.Equal(t, map[uint64]uint64{480: 30, 490: 70}, depthMap(dom.Bid))

	// Mutating the book afterwards must not alter the snapshot.
	book.PopBestAsk()
	book.ReduceBestBid(20)
	assert.Equal(t, map[uint64]uint64{500: 50, 510: 100}, depthMap(dom.Ask))
	assert.Equal(t, map[uint64]uint64{480: 30, 490: 70}, depthMap(dom.Bid))
}
