package engine

import (
	"fmt"

	"github.com/tidwall/btree"
)

// priceLevel holds the resting orders at a single price, oldest first.
type priceLevel[T resting] struct {
	price  uint64
	orders []T
}

// sideBook is one half of the order book: price levels sorted so the
// best level is always the btree minimum, plus an aggregate index from
// price to total resting quantity at that price. Every mutation
// updates both structures together; neither is ever exposed raw.
type sideBook[T resting] struct {
	levels *btree.BTreeG[*priceLevel[T]]
	index  map[uint64]uint64
}

func newSideBook[T resting](less func(a, b *priceLevel[T]) bool) *sideBook[T] {
	return &sideBook[T]{
		levels: btree.NewBTreeG(less),
		index:  make(map[uint64]uint64),
	}
}

// push inserts a resting order, creating its price level on first use.
// A fully-filled order is discarded: that is the normal terminal state
// of an order that matched completely, not an error.
func (s *sideBook[T]) push(order T) {
	qty := order.remaining()
	if qty == 0 {
		return
	}

	price := order.restingPrice()
	if level, ok := s.levels.GetMut(&priceLevel[T]{price: price}); ok {
		level.orders = append(level.orders, order)
	} else {
		s.levels.Set(&priceLevel[T]{price: price, orders: []T{order}})
	}
	s.index[price] += qty
}

// peek returns the highest-priority resting order without removing it.
func (s *sideBook[T]) peek() (T, bool) {
	level, ok := s.levels.MinMut()
	if !ok {
		var zero T
		return zero, false
	}
	return level.orders[0], true
}

// pop removes and returns the highest-priority resting order,
// subtracting its full remaining quantity from the aggregate index.
// The price key is deleted once its aggregate reaches zero.
func (s *sideBook[T]) pop() (T, bool) {
	level, ok := s.levels.MinMut()
	if !ok {
		var zero T
		return zero, false
	}

	order := level.orders[0]
	level.orders = level.orders[1:]
	if len(level.orders) == 0 {
		s.levels.Delete(level)
	}
	s.subtract(order.restingPrice(), order.remaining())
	return order, true
}

// reduceBest consumes part of the best resting order in place. The
// order stays at the top of its level: priority depends only on price,
// so shrinking the quantity cannot disturb the ordering. The caller
// must have confirmed qty < best remaining; anything else means the
// matching branch logic is broken and there is nothing sane to recover
// to.
func (s *sideBook[T]) reduceBest(qty uint64) {
	best, ok := s.peek()
	if !ok || qty >= best.remaining() {
		panic(fmt.Sprintf("orderbook: reduceBest(%d) on best order with remaining %d", qty, bestRemaining(best, ok)))
	}
	best.fill(qty)
	s.subtract(best.restingPrice(), qty)
}

func bestRemaining[T resting](best T, ok bool) uint64 {
	if !ok {
		return 0
	}
	return best.remaining()
}

func (s *sideBook[T]) subtract(price, qty uint64) {
	current, ok := s.index[price]
	if !ok {
		return
	}
	if current <= qty {
		delete(s.index, price)
	} else {
		s.index[price] = current - qty
	}
}

// depth copies the aggregate index into snapshot entries.
func (s *sideBook[T]) depth() []DepthEntry {
	entries := make([]DepthEntry, 0, len(s.index))
	for price, qty := range s.index {
		entries = append(entries, DepthEntry{Price: price, Quantity: qty})
	}
	return entries
}

// OrderBook owns the two priority-ordered sides and their aggregate
// indices. It is mutated by exactly one goroutine, the matching loop;
// no internal locking is needed or present.
//
// Orders at the same price execute oldest first: each price level
// keeps arrivals in a FIFO slice.
type OrderBook struct {
	asks *sideBook[*AskOrder]
	bids *sideBook[*BidOrder]
}

// NewOrderBook returns an empty book. Asks sort cheapest first, bids
// most generous first, so each side's best order is its btree minimum.
func NewOrderBook() *OrderBook {
	return &OrderBook{
		asks: newSideBook(func(a, b *priceLevel[*AskOrder]) bool {
			return a.price < b.price
		}),
		bids: newSideBook(func(a, b *priceLevel[*BidOrder]) bool {
			return a.price > b.price
		}),
	}
}

// PushAsk rests a sell order; a fully-filled order is discarded.
func (b *OrderBook) PushAsk(order *AskOrder) { b.asks.push(order) }

// PushBid rests a buy order; a fully-filled order is discarded.
func (b *OrderBook) PushBid(order *BidOrder) { b.bids.push(order) }

// PeekBestAsk returns the cheapest resting ask, if any.
func (b *OrderBook) PeekBestAsk() (*AskOrder, bool) { return b.asks.peek() }

// PeekBestBid returns the most generous resting bid, if any.
func (b *OrderBook) PeekBestBid() (*BidOrder, bool) { return b.bids.peek() }

// PopBestAsk removes the cheapest resting ask. The false return is the
// matching loop's normal termination condition, not an error.
func (b *OrderBook) PopBestAsk() (*AskOrder, bool) { return b.asks.pop() }

// PopBestBid removes the most generous resting bid.
func (b *OrderBook) PopBestBid() (*BidOrder, bool) { return b.bids.pop() }

// ReduceBestAsk partially consumes the best ask in place.
// Precondition: qty is strictly less than that order's remaining
// quantity.
func (b *OrderBook) ReduceBestAsk(qty uint64) { b.asks.reduceBest(qty) }

// ReduceBestBid partially consumes the best bid in place.
func (b *OrderBook) ReduceBestBid(qty uint64) { b.bids.reduceBest(qty) }

// Depth snapshots both aggregate indices. The result shares no memory
// with the book.
func (b *OrderBook) Depth() DepthOfMarket {
	return DepthOfMarket{
		Ask: b.asks.depth(),
		Bid: b.bids.depth(),
	}
}
