package engine

import "github.com/google/uuid"

// AskOrder is a resting sell order. Quantity is the volume originally
// requested and never changes; CurrentQuantity is what remains
// unfilled and only ever decreases.
type AskOrder struct {
	ID              uuid.UUID
	Quantity        uint64
	CurrentQuantity uint64
	Price           uint64
}

// BidOrder is a resting buy order. Kept as a distinct type from
// AskOrder because the two sides sort in opposite directions: the
// cheapest ask and the most generous bid execute first.
type BidOrder struct {
	ID              uuid.UUID
	Quantity        uint64
	CurrentQuantity uint64
	Price           uint64
}

// NewAskOrder derives a resting ask from an inbound intent.
func NewAskOrder(msg OrderMessage) *AskOrder {
	return &AskOrder{
		ID:              msg.ID,
		Quantity:        msg.Quantity,
		CurrentQuantity: msg.Quantity,
		Price:           msg.Price,
	}
}

// NewBidOrder derives a resting bid from an inbound intent.
func NewBidOrder(msg OrderMessage) *BidOrder {
	return &BidOrder{
		ID:              msg.ID,
		Quantity:        msg.Quantity,
		CurrentQuantity: msg.Quantity,
		Price:           msg.Price,
	}
}

// resting is satisfied by both order variants so the book can keep a
// single generic implementation per side.
type resting interface {
	orderID() uuid.UUID
	restingPrice() uint64
	remaining() uint64
	fill(qty uint64)
}

func (o *AskOrder) orderID() uuid.UUID   { return o.ID }
func (o *AskOrder) restingPrice() uint64 { return o.Price }
func (o *AskOrder) remaining() uint64    { return o.CurrentQuantity }
func (o *AskOrder) fill(qty uint64)      { o.CurrentQuantity -= qty }

func (o *BidOrder) orderID() uuid.UUID   { return o.ID }
func (o *BidOrder) restingPrice() uint64 { return o.Price }
func (o *BidOrder) remaining() uint64    { return o.CurrentQuantity }
func (o *BidOrder) fill(qty uint64)      { o.CurrentQuantity -= qty }
