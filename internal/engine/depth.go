package engine

// DepthEntry is the aggregate resting quantity visible at one price.
type DepthEntry struct {
	Price    uint64 `json:"price"`
	Quantity uint64 `json:"quantity"`
}

// DepthOfMarket is a full snapshot of the book's visible liquidity.
// Entries carry no ordering guarantee; consumers sort if they need to.
type DepthOfMarket struct {
	Ask []DepthEntry `json:"ask"`
	Bid []DepthEntry `json:"bid"`
}
