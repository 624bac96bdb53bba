package engine

import (
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"gungnir/internal/broadcast"
)

// Engine drives the matching loop. It is the sole owner and sole
// mutator of the order book: inbound intents arrive over a channel and
// are applied strictly one at a time, so the matching algorithm never
// needs a lock.
type Engine struct {
	book     *OrderBook
	inbound  chan OrderMessage
	dealHub  *broadcast.Hub[[]Deal]
	depthHub *broadcast.Hub[DepthOfMarket]
}

// New builds an engine publishing to the given hubs. queueSize bounds
// the inbound channel; submitters block when it is full rather than
// dropping orders.
func New(queueSize int, dealHub *broadcast.Hub[[]Deal], depthHub *broadcast.Hub[DepthOfMarket]) *Engine {
	return &Engine{
		book:     NewOrderBook(),
		inbound:  make(chan OrderMessage, queueSize),
		dealHub:  dealHub,
		depthHub: depthHub,
	}
}

// Submit enqueues an order intent. Fire-and-forget: acceptance says
// nothing about whether or how the order will match. Safe to call from
// any goroutine.
func (e *Engine) Submit(msg OrderMessage) {
	e.inbound <- msg
}

// Run loops over the inbound stream until the tomb starts dying. Each
// intent is matched to completion, then the step's deals (if any) and
// a fresh depth snapshot are published, in that order, so subscribers
// see what happened just before what the book now looks like.
func (e *Engine) Run(t *tomb.Tomb) error {
	log.Info().Msg("matching engine running")
	for {
		select {
		case <-t.Dying():
			log.Info().Msg("matching engine stopping")
			return nil
		case msg := <-e.inbound:
			dealbook := e.process(msg)
			if !dealbook.Empty() {
				e.dealHub.Broadcast(dealbook.Deals)
			}
			e.depthHub.Broadcast(e.book.Depth())

			log.Debug().
				Stringer("id", msg.ID).
				Stringer("side", msg.Side).
				Uint64("price", msg.Price).
				Uint64("quantity", msg.Quantity).
				Int("deals", len(dealbook.Deals)).
				Msg("order processed")
		}
	}
}

// process applies one incoming intent against the book and returns the
// deals it produced. Whatever quantity survives matching rests on the
// intent's own side; push discards it if nothing survived.
func (e *Engine) process(msg OrderMessage) *DealBook {
	dealbook := &DealBook{}
	switch msg.Side {
	case Ask:
		ask := NewAskOrder(msg)
		e.matchAsk(ask, dealbook)
		e.book.PushAsk(ask)
	case Bid:
		bid := NewBidOrder(msg)
		e.matchBid(bid, dealbook)
		e.book.PushBid(bid)
	}
	return dealbook
}

// matchAsk consumes resting bids while they cross the incoming ask,
// i.e. while the best bid pays at least the ask's price. Deals execute
// at the resting bid's price: the maker sets the price.
func (e *Engine) matchAsk(ask *AskOrder, dealbook *DealBook) {
	for ask.CurrentQuantity > 0 {
		bid, ok := e.book.PeekBestBid()
		if !ok || bid.Price < ask.Price {
			break
		}

		if bid.CurrentQuantity <= ask.CurrentQuantity {
			// The resting bid is fully consumed.
			qty := bid.CurrentQuantity
			e.book.PopBestBid()
			dealbook.Push(bid.Price, qty, ask.ID, bid.ID)
			ask.CurrentQuantity -= qty
		} else {
			// The resting bid absorbs the whole ask.
			qty := ask.CurrentQuantity
			e.book.ReduceBestBid(qty)
			dealbook.Push(bid.Price, qty, ask.ID, bid.ID)
			ask.CurrentQuantity = 0
		}
	}
}

// matchBid is the mirror of matchAsk: it consumes resting asks while
// the best ask charges no more than the bid's price.
func (e *Engine) matchBid(bid *BidOrder, dealbook *DealBook) {
	for bid.CurrentQuantity > 0 {
		ask, ok := e.book.PeekBestAsk()
		if !ok || ask.Price > bid.Price {
			break
		}

		if ask.CurrentQuantity <= bid.CurrentQuantity {
			qty := ask.CurrentQuantity
			e.book.PopBestAsk()
			dealbook.Push(ask.Price, qty, ask.ID, bid.ID)
			bid.CurrentQuantity -= qty
		} else {
			qty := bid.CurrentQuantity
			e.book.ReduceBestAsk(qty)
			dealbook.Push(ask.Price, qty, ask.ID, bid.ID)
			bid.CurrentQuantity = 0
		}
	}
}
