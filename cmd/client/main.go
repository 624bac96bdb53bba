package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gungnir/internal/net"
)

func main() {
	// 1. CLI parameter parsing
	serverAddr := flag.String("server", "http://127.0.0.1:28103", "Base URL of the exchange server")
	action := flag.String("action", "place", "Action to perform: ['place', 'load', 'book', 'deals']")

	// Order parameters
	sideStr := flag.String("side", "bid", "Order side: 'ask' or 'bid'")
	price := flag.Uint64("price", 100, "Limit price in ticks")
	qtyStr := flag.String("qty", "10", "Quantity or comma-separated list (e.g. 10,20,50)")

	// Load parameters
	count := flag.Int("count", 100, "Number of random orders to place with -action load")
	spread := flag.Uint64("spread", 10, "Price band around -price for random orders")
	seed := flag.Int64("seed", time.Now().UnixNano(), "Seed for the random order stream")

	flag.Parse()

	switch strings.ToLower(*action) {
	case "place":
		for _, qty := range parseQuantities(*qtyStr) {
			placeOrder(*serverAddr, *sideStr, *price, qty)
		}

	case "load":
		rng := rand.New(rand.NewSource(*seed))
		for i := 0; i < *count; i++ {
			side := "Bid"
			if rng.Intn(2) == 0 {
				side = "Ask"
			}
			p := *price - *spread + uint64(rng.Int63n(int64(*spread)*2+1))
			qty := uint64(rng.Int63n(50) + 1)
			placeOrder(*serverAddr, side, p, qty)
		}
		fmt.Printf("placed %d random orders around %d\n", *count, *price)

	case "book":
		watchStream(*serverAddr, "/api/orderbook")

	case "deals":
		watchStream(*serverAddr, "/api/dealbook")

	default:
		log.Fatalf("Unknown action: %s", *action)
	}
}

// parseQuantities splits a comma-separated string into a slice of uint64
func parseQuantities(input string) []uint64 {
	parts := strings.Split(input, ",")
	var result []uint64
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if val, err := strconv.ParseUint(p, 10, 64); err == nil {
			result = append(result, val)
		} else {
			log.Printf("Warning: Invalid quantity '%s', skipping.", p)
		}
	}
	return result
}

// placeOrder posts a single order intent and reports the outcome.
func placeOrder(server, side string, price, qty uint64) {
	req := net.OrderRequest{
		ID:       uuid.New(),
		Side:     normalizeSide(side),
		Quantity: qty,
		Price:    price,
	}

	body, err := json.Marshal(req)
	if err != nil {
		log.Fatalf("Failed to encode order: %v", err)
	}

	resp, err := http.Post(server+"/api/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to reach server at %s: %v", server, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		log.Printf("Order rejected (%s): %s %d @ %d", resp.Status, req.Side, qty, price)
		return
	}
	fmt.Printf("-> Sent %s order: %d @ %d (id %s)\n", strings.ToUpper(req.Side), qty, price, req.ID)
}

func normalizeSide(side string) string {
	if strings.ToLower(side) == "ask" {
		return "Ask"
	}
	return "Bid"
}

// watchStream attaches to one of the WebSocket streams and prints
// every frame until the connection drops.
func watchStream(server, path string) {
	base, err := url.Parse(server)
	if err != nil {
		log.Fatalf("Invalid server URL %s: %v", server, err)
	}
	switch base.Scheme {
	case "https":
		base.Scheme = "wss"
	default:
		base.Scheme = "ws"
	}
	base.Path = path

	conn, _, err := websocket.DefaultDialer.Dial(base.String(), nil)
	if err != nil {
		log.Fatalf("Failed to connect to %s: %v", base.String(), err)
	}
	defer conn.Close()

	fmt.Printf("Connected to %s (Press Ctrl+C to exit)\n", base.String())
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("Connection lost: %v", err)
			os.Exit(0)
		}
		fmt.Println(string(data))
	}
}
