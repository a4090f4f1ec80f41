package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/itohio/goetarget/pkg/config"
	"github.com/itohio/goetarget/pkg/device"
	"github.com/itohio/goetarget/pkg/logging"
	"github.com/itohio/goetarget/pkg/metrics"
	"github.com/itohio/goetarget/pkg/report"
	"github.com/itohio/goetarget/pkg/scorer"
	"github.com/itohio/goetarget/pkg/storage"
)

// pipeline is the scoring chain: device -> scorer -> reporters.
type pipeline struct {
	device device.Device
	scorer *scorer.Scorer
	store  *storage.Store
	influx *report.Influx
	cancel context.CancelFunc
	scored <-chan scorer.Scored
}

// newDevice creates the serial or the mocked target.
func newDevice(cfg *config.Config, useMock bool, log zerolog.Logger, rec *metrics.Manager) device.Device {
	if useMock {
		return device.NewMock(&cfg.Mock, cfg.Calibration, cfg.Environment,
			device.WithMockLogger(logging.Component(log, "mock")),
			device.WithMockRecorder(rec),
		)
	}
	return device.New(cfg.Serial.Port, cfg.Serial.BaudRate, cfg.Acquisition.BufferSize, logging.Component(log, "serial"))
}

// startPipeline connects the device and starts scoring. When lines is not nil
// every shot is also written to it as a JSON line.
func startPipeline(ctx context.Context, cfg *config.Config, useMock bool, log zerolog.Logger, rec *metrics.Manager, lines io.Writer) (*pipeline, error) {
	p := &pipeline{}

	var sinks report.Multi
	if cfg.Storage.Enabled {
		store, err := storage.Open(storage.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN}, cfg.Name, logging.Component(log, "storage"))
		if err != nil {
			return nil, fmt.Errorf("failed to open shot storage: %w", err)
		}
		p.store = store
		sinks = append(sinks, store)
	}

	if cfg.Influx.Enabled {
		p.influx = report.NewInflux(report.InfluxConfig{
			URL:    cfg.Influx.URL,
			Token:  cfg.Influx.Token,
			Org:    cfg.Influx.Org,
			Bucket: cfg.Influx.Bucket,
		}, cfg.Name)
		if err := p.influx.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("url", cfg.Influx.URL).Msg("InfluxDB not reachable, points will be retried per shot")
		}
		sinks = append(sinks, p.influx)
	}
	if lines != nil {
		sinks = append(sinks, report.NewLine(lines, cfg.Name, p.remapped))
	}

	p.device = newDevice(cfg, useMock, log, rec)
	if err := p.device.Connect(); err != nil {
		p.closeSinks(log)
		if useMock {
			return nil, fmt.Errorf("failed to connect to mocked device: %w", err)
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Serial.Port, err)
	}

	p.scorer = scorer.New(cfg.Calibration, cfg.Environment, sinks,
		scorer.WithLogger(logging.Component(log, "scorer")),
		scorer.WithRecorder(rec),
		scorer.WithBufferSize(cfg.Acquisition.BufferSize),
	)

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.scored = p.scorer.Run(runCtx, p.device.Shots())

	return p, nil
}

// Scored returns the scored shot stream. It closes when the pipeline stops.
func (p *pipeline) Scored() <-chan scorer.Scored {
	return p.scored
}

// close stops the device, drains the scorer and closes the sinks.
func (p *pipeline) close(log zerolog.Logger) {
	if p == nil {
		return
	}

	if err := p.device.Close(); err != nil {
		log.Warn().Err(err).Msg("Failed to close device")
	}
	for range p.scored {
	}
	p.cancel()
	p.closeSinks(log)
}

func (p *pipeline) closeSinks(log zerolog.Logger) {
	if p.store != nil {
		if err := p.store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close shot storage")
		}
	}
	if p.influx != nil {
		p.influx.Close()
	}
}

func (p *pipeline) remapped() bool {
	if p.scorer == nil {
		return false
	}
	return p.scorer.Remapped()
}
