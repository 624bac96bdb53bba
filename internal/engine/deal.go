package engine

import (
	"time"

	"github.com/google/uuid"
)

// Deal records one execution between a resting and an incoming order.
// Price is always the resting (maker) order's price, never the
// taker's.
type Deal struct {
	Time       time.Time `json:"time"`
	Price      uint64    `json:"price"`
	Quantity   uint64    `json:"quantity"`
	AskOrderID uuid.UUID `json:"ask_order"`
	BidOrderID uuid.UUID `json:"bid_order"`
}

// DealBook collects the deals produced while processing a single
// incoming order. It lives for exactly one processing step and is
// handed to subscribers as a batch.
type DealBook struct {
	Deals []Deal
}

// Push appends a deal executed at the maker's price.
func (db *DealBook) Push(makerPrice, quantity uint64, askID, bidID uuid.UUID) {
	db.Deals = append(db.Deals, Deal{
		Time:       time.Now().UTC(),
		Price:      makerPrice,
		Quantity:   quantity,
		AskOrderID: askID,
		BidOrderID: bidID,
	})
}

// Empty reports whether the processing step produced no executions.
func (db *DealBook) Empty() bool {
	return len(db.Deals) == 0
}
