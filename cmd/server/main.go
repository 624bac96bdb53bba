package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"

	"gungnir/internal/broadcast"
	"gungnir/internal/config"
	"gungnir/internal/engine"
	"gungnir/internal/net"
)

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	cfg := config.Load()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	// Wire the engine to its outbound streams and the HTTP boundary.
	dealHub := broadcast.NewHub[[]engine.Deal]()
	depthHub := broadcast.NewHub[engine.DepthOfMarket]()
	eng := engine.New(cfg.OrderQueueSize, dealHub, depthHub)
	srv := net.New(cfg.ListenAddr, eng, dealHub, depthHub, cfg.SubscriberBuffer)

	t, ctx := tomb.WithContext(ctx)
	t.Go(func() error {
		return eng.Run(t)
	})
	t.Go(func() error {
		return srv.Run(ctx)
	})

	if err := t.Wait(); err != nil {
		log.Error().Err(err).Msg("exchange exited with error")
	}
}
