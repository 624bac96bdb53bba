package net

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"gungnir/internal/engine"
)

var (
	ErrMissingOrderID = errors.New("order id is required")
	ErrInvalidSide    = errors.New(`side must be "Ask" or "Bid"`)
)

// OrderRequest is the JSON body accepted by POST /api/orders.
type OrderRequest struct {
	ID       uuid.UUID `json:"id"`
	Side     string    `json:"side"`
	Quantity uint64    `json:"quantity"`
	Price    uint64    `json:"price"`
}

// OrderMessage validates the request and converts it to the engine's
// intent type. Rejection happens here, at the boundary; the engine
// never sees a malformed order.
func (r *OrderRequest) OrderMessage() (engine.OrderMessage, error) {
	if r.ID == uuid.Nil {
		return engine.OrderMessage{}, ErrMissingOrderID
	}

	side, err := parseSide(r.Side)
	if err != nil {
		return engine.OrderMessage{}, err
	}

	return engine.OrderMessage{
		ID:       r.ID,
		Side:     side,
		Quantity: r.Quantity,
		Price:    r.Price,
	}, nil
}

func parseSide(value string) (engine.OrderSide, error) {
	switch strings.ToLower(value) {
	case "ask":
		return engine.Ask, nil
	case "bid":
		return engine.Bid, nil
	default:
		return 0, ErrInvalidSide
	}
}

// errorResponse is the JSON body returned for rejected requests.
type errorResponse struct {
	Error string `json:"error"`
}
