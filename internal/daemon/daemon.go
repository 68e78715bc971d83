// Package daemon wires the card cache, directory watcher, periodic
// reconciliation schedule and metrics endpoint into a long-running
// service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/captaindpt/vcard-manager/internal/config"
	"github.com/captaindpt/vcard-manager/internal/metrics"
	"github.com/captaindpt/vcard-manager/pkg/cardcache"
	"github.com/captaindpt/vcard-manager/pkg/vcard"
)

// Daemon is the long-running card cache service.
type Daemon struct {
	cfg     *config.Config
	cache   *cardcache.Cache
	watcher *cardcache.Watcher
	cron    *cron.Cron
	metrics *metrics.Metrics
}

// New builds a daemon over the given native library. The library is
// injected so tests can run against a fake.
func New(cfg *config.Config, lib vcard.Library) (*Daemon, error) {
	m := metrics.New()
	cache := cardcache.New(
		cfg.CardsDir,
		lib,
		cardcache.WithExtension(cfg.Extension),
		cardcache.WithRecorder(m),
	)

	watcher, err := cardcache.NewWatcher(cache, time.Duration(cfg.StabilityThresholdMs)*time.Millisecond)
	if err != nil {
		cache.Close()
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Daemon{
		cfg:     cfg,
		cache:   cache,
		watcher: watcher,
		cron:    cron.New(),
		metrics: m,
	}, nil
}

// Cache exposes the daemon's card cache.
func (d *Daemon) Cache() *cardcache.Cache {
	return d.cache
}

// Run starts the daemon and blocks until ctx is cancelled. Every
// remaining native handle is freed on the way out, on all exit paths.
func (d *Daemon) Run(ctx context.Context) error {
	defer d.cache.Close()

	// Cold start: populate the cache before serving anything.
	if err := d.cache.Refresh(); err != nil {
		return fmt.Errorf("initial reconciliation failed: %w", err)
	}
	log.Info().
		Str("dir", d.cfg.CardsDir).
		Int("valid", d.cache.Size()).
		Msg("Card cache initialized")

	if err := d.watcher.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer func() {
		if err := d.watcher.Stop(); err != nil {
			log.Warn().Err(err).Msg("Watcher stop failed")
		}
	}()

	if _, err := d.cron.AddFunc(d.cfg.RefreshSchedule, d.tick); err != nil {
		return fmt.Errorf("invalid refresh schedule: %w", err)
	}
	d.cron.Start()
	defer d.cron.Stop()

	var metricsSrv *http.Server
	if d.cfg.Metrics.Enabled {
		metricsSrv = d.serveMetrics()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("Metrics server shutdown failed")
			}
		}()
	}

	log.Info().Str("schedule", d.cfg.RefreshSchedule).Msg("Daemon started")
	<-ctx.Done()
	log.Info().Msg("Daemon stopping")
	return nil
}

// tick is the scheduled full reconciliation pass.
func (d *Daemon) tick() {
	if err := d.cache.Refresh(); err != nil {
		log.Error().Err(err).Msg("Reconciliation pass failed")
	}
}

// serveMetrics starts the metrics HTTP listener.
func (d *Daemon) serveMetrics() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.metrics.Handler())

	srv := &http.Server{
		Addr:    d.cfg.Metrics.Listen,
		Handler: mux,
	}
	go func() {
		log.Info().Str("listen", srv.Addr).Msg("Metrics endpoint started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return srv
}
