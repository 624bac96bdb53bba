package net

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"gungnir/internal/broadcast"
	"gungnir/internal/engine"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP boundary around the matching engine: order
// submission, the two WebSocket streams, and the health probe. It
// holds no book state of its own; everything it publishes comes off
// the hubs.
type Server struct {
	addr             string
	engine           *engine.Engine
	dealHub          *broadcast.Hub[[]engine.Deal]
	depthHub         *broadcast.Hub[engine.DepthOfMarket]
	subscriberBuffer int
	upgrader         websocket.Upgrader
}

func New(
	addr string,
	eng *engine.Engine,
	dealHub *broadcast.Hub[[]engine.Deal],
	depthHub *broadcast.Hub[engine.DepthOfMarket],
	subscriberBuffer int,
) *Server {
	return &Server{
		addr:             addr,
		engine:           eng,
		dealHub:          dealHub,
		depthHub:         depthHub,
		subscriberBuffer: subscriberBuffer,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	t, _ := tomb.WithContext(ctx)
	srv := &http.Server{Addr: s.addr, Handler: s.Routes()}

	t.Go(func() error {
		<-t.Dying()
		log.Info().Msg("server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	t.Go(func() error {
		log.Info().Str("addr", s.addr).Msg("server running")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	return t.Wait()
}

// Routes exposes the router so tests can drive handlers directly.
func (s *Server) Routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/orders", s.handleCreateOrder).Methods(http.MethodPost)
	r.HandleFunc("/api/orderbook", s.handleDepthStream)
	r.HandleFunc("/api/dealbook", s.handleDealStream)
	r.HandleFunc("/api/health", s.handleHealth).Methods(http.MethodGet)
	return r
}

// handleCreateOrder accepts an order intent. Fire-and-forget: 201
// acknowledges receipt only and says nothing about matching.
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid payload: " + err.Error()})
		return
	}

	msg, err := req.OrderMessage()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	s.engine.Submit(msg)
	w.WriteHeader(http.StatusCreated)
}

// handleDepthStream pushes a full depth-of-market snapshot to the
// client for every processed order.
func (s *Server) handleDepthStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("orderbook stream upgrade failed")
		return
	}
	defer conn.Close()

	sub := s.depthHub.Subscribe(s.subscriberBuffer)
	defer s.depthHub.Unsubscribe(sub)
	go watchClose(conn, func() { s.depthHub.Unsubscribe(sub) })

	for dom := range sub.C() {
		if !s.writeFrame(conn, "orderbook", dom) {
			return
		}
	}
}

// handleDealStream pushes each non-empty deal batch to the client.
func (s *Server) handleDealStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("dealbook stream upgrade failed")
		return
	}
	defer conn.Close()

	sub := s.dealHub.Subscribe(s.subscriberBuffer)
	defer s.dealHub.Unsubscribe(sub)
	go watchClose(conn, func() { s.dealHub.Unsubscribe(sub) })

	for deals := range sub.C() {
		if !s.writeFrame(conn, "dealbook", deals) {
			return
		}
	}
}

// watchClose unblocks a stream's write loop when the peer goes away:
// tearing down the subscription closes the channel the loop ranges
// over. Unsubscribe is idempotent, so racing the handler's own
// deferred teardown is fine.
func watchClose(conn *websocket.Conn, unsubscribe func()) {
	for {
		if _, _, err := conn.NextReader(); err != nil {
			unsubscribe()
			return
		}
	}
}

// writeFrame serializes and sends one stream payload. A serialization
// failure skips that payload and keeps the subscription; a write
// failure means the peer is gone, which is local to this connection.
func (s *Server) writeFrame(conn *websocket.Conn, stream string, payload any) bool {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("stream", stream).Msg("error serializing payload")
		return true
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.Info().
			Err(err).
			Str("stream", stream).
			Str("address", conn.RemoteAddr().String()).
			Msg("subscriber disconnected")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}
