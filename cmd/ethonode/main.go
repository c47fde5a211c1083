package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	gormstore "ethonode/internal/adapters/gorm"
	"ethonode/internal/adapters/mdns"
	natsbus "ethonode/internal/adapters/nats"
	"ethonode/internal/adapters/node"
	"ethonode/internal/config"
	"ethonode/internal/core/clock"
	"ethonode/internal/core/devices"
	api "ethonode/internal/delivery/http"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// @title        ethonode API
// @version      1.0
// @description  Device state and group control for an ethoscope node.
// @BasePath     /
func main() {
	cfg := config.MustLoad()
	cfg.BindFlags(pflag.CommandLine)
	pflag.Parse()

	log := zerolog.New(os.Stdout).With().Timestamp().
		Str("svc", "ethonode").Logger()
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		log = log.Level(lvl)
	} else {
		log.Warn().Str("level", cfg.LogLevel).Msg("unknown log level, using info")
	}

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("exit")
	}
	log.Info().Msg("bye")
}

func run(cfg config.Config, log zerolog.Logger) error {
	log.Info().
		Str("node", cfg.NodeURL).
		Str("listen", cfg.ListenAddr).
		Dur("clock_interval", cfg.ClockInterval).
		Dur("discovery_interval", cfg.DiscoveryInterval).
		Bool("nats", cfg.NATSURL != "").
		Bool("store", cfg.DatabaseDSN != "").
		Msg("boot")

	// graceful-shutdown
	ctx, stop := signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	nodeURL := cfg.NodeURL
	if nodeURL == "auto" {
		u, err := mdns.Locate(ctx, cfg.MDNSService, cfg.MDNSTimeout, log)
		if err != nil {
			return err
		}
		nodeURL = u
	}
	nc, err := node.New(nodeURL, cfg.RequestTimeout, log)
	if err != nil {
		return err
	}

	var (
		sinks  []devices.Sink
		pub    devices.OutcomePublisher
		stored []devices.Device
	)
	if cfg.DatabaseDSN != "" {
		store, err := gormstore.New(cfg.DatabaseDSN, log)
		if err != nil {
			return err
		}
		defer store.Close()

		if stored, err = store.Load(ctx); err != nil {
			log.Warn().Err(err).Msg("stored records unavailable")
		}
		sinks = append(sinks, store)
	}
	if cfg.NATSURL != "" {
		bus, err := natsbus.New(cfg.NATSURL, cfg.DevBucket, cfg.OutcomeSubject, log)
		if err != nil {
			return err
		}
		defer bus.Close()
		sinks = append(sinks, bus)
		pub = bus
	}

	reg := devices.NewRegistry(nc, log, sinks...)
	if n := reg.Hydrate(stored); n > 0 {
		log.Info().Int("devices", n).Msg("registry hydrated")
	}
	coord := devices.NewCoordinator(reg, nc, pub, log)

	rc := clock.NewRemote(nc, nil, log)
	rc.Start(cfg.ClockInterval)
	defer rc.Stop()

	go func() {
		if _, err := reg.Discover(ctx); err != nil && ctx.Err() == nil {
			log.Warn().Err(err).Msg("initial scan")
		}
	}()
	if cfg.DiscoveryInterval > 0 {
		go reg.Poll(ctx, clock.Real().Ticker(cfg.DiscoveryInterval))
	}

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: api.New(reg, coord, rc, log)}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("listen", cfg.ListenAddr).Msg("HTTP up")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errc:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
