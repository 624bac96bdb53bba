package engine

import (
	"fmt"

	"github.com/google/uuid"
)

// OrderSide is the direction of an order intent.
type OrderSide int

const (
	// Ask is the sell side.
	Ask OrderSide = iota
	// Bid is the buy side.
	Bid
)

func (s OrderSide) String() string {
	switch s {
	case Ask:
		return "Ask"
	case Bid:
		return "Bid"
	}
	return fmt.Sprintf("OrderSide(%d)", int(s))
}

// OrderMessage is a single inbound order intent. It is immutable once
// received; the engine derives a mutable resting order from it.
type OrderMessage struct {
	ID       uuid.UUID
	Side     OrderSide
	Quantity uint64
	Price    uint64
}
