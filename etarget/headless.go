package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/itohio/goetarget/pkg/config"
	"github.com/itohio/goetarget/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// runHeadless scores shots without a window: JSON lines go to stdout and
// metrics are served on cfg.Metrics.Addr until SIGINT or SIGTERM.
func runHeadless(cfg *config.Config, useMock bool, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rec := metrics.New()

	var srv *http.Server
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", rec.Handler())
		srv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.Metrics.Addr).Msg("Serving metrics")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Msg("Metrics server failed")
			}
		}()
	}

	p, err := startPipeline(ctx, cfg, useMock, log, rec, os.Stdout)
	if err != nil {
		return err
	}
	log.Info().Str("target", cfg.Name).Bool("mock", useMock).Msg("Scoring started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			p.close(log)
			return shutdownServer(srv)
		case _, ok := <-p.Scored():
			if !ok {
				log.Warn().Msg("Device stream ended")
				p.close(log)
				return shutdownServer(srv)
			}
		}
	}
}

func shutdownServer(srv *http.Server) error {
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
