package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gravnet/engine/internal/api"
	"github.com/gravnet/engine/internal/config"
	"github.com/gravnet/engine/internal/registry"
	"github.com/gravnet/engine/internal/scheduler"
)

func main() {
	log.Println("Starting gravitational node engine...")

	cfg := config.Load()

	reg := registry.New()
	sched := scheduler.New(reg, cfg.ShutdownGrace)
	reg.BindScheduler(sched)

	wsHub := api.NewHub()
	go wsHub.Run()

	streamer := api.NewStreamer(reg, wsHub, cfg.StreamUpdateInterval)
	stopStreamer := make(chan struct{})
	go streamer.Run(stopStreamer)

	running := func() bool { return true }
	r := api.SetupRouter(reg, wsHub, running)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Engine listening on %s", cfg.HTTPAddr)
		errCh <- r.Run(cfg.HTTPAddr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("HTTP server exited: %v", err)
		}
	case sig := <-sigCh:
		log.Printf("Received signal %v, shutting down...", sig)
	}

	close(stopStreamer)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := reg.CancelAll(ctx); err != nil {
		log.Printf("CancelAll returned: %v", err)
	}

	log.Println("Shutdown complete.")
}
