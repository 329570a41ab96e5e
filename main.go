package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httpapi "github.com/yourorg/property-portal/http"
	httpv1 "github.com/yourorg/property-portal/http/v1"
	"github.com/yourorg/property-portal/internal/cache"
	"github.com/yourorg/property-portal/internal/catalog"
	"github.com/yourorg/property-portal/internal/config"
	"github.com/yourorg/property-portal/internal/events"
	"github.com/yourorg/property-portal/internal/forms"
	"github.com/yourorg/property-portal/internal/hydrator"
	"github.com/yourorg/property-portal/internal/logger"
	"github.com/yourorg/property-portal/internal/metrics"
	"github.com/yourorg/property-portal/internal/store"
	"github.com/yourorg/property-portal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	zl, err := logger.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(rootCtx, cfg, zl); err != nil {
		zl.Fatal("portal stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, zl *zap.Logger) error {
	m := metrics.New("portal")

	src, closeSrc, err := openSource(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closeSrc()

	repo := catalog.NewRepository(nil, cfg.Catalog.Source)
	hyd := &hydrator.Hydrator{Source: src, Repo: repo, Name: cfg.Catalog.Source, Log: zl, Recorder: m}
	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if _, err := hyd.Reload(loadCtx); err != nil {
		zl.Error("initial catalog load failed; serving an empty catalog until the next reload", zap.Error(err))
	}
	cancel()

	pub, closePub, err := openPublisher(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer closePub()

	var reloader httpv1.Reloader
	if cfg.Catalog.Source != config.SourceSample {
		reloader = hyd
	}
	router := BuildRouter(RouterDeps{
		Screens: httpapi.Deps{Catalog: repo, Metrics: m},
		Submit: httpapi.SubmitDeps{Submitter: &forms.Submitter{
			Delay: cfg.SubmitDelay, Pub: pub, Log: zl, Recorder: m,
		}},
		Catalog:     httpv1.CatalogDeps{Status: repo.Status, Reloader: reloader, StaleAfter: cfg.Catalog.StaleAfter},
		Metrics:     m,
		Log:         zl,
		CORSOrigins: cfg.CORSOrigins,
		RateLimit:   cfg.RateLimit,
		RateWindow:  cfg.RateWindow,
	})

	if cfg.Catalog.Refresh > 0 && reloader != nil {
		job := &hydrator.Job{Hydrator: hyd, Interval: cfg.Catalog.Refresh, Log: zl}
		go func() {
			if err := job.Run(ctx); err != nil {
				zl.Error("catalog reload job exited", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		zl.Info("property portal listening", zap.Int("port", cfg.Port), zap.String("catalog", cfg.Catalog.Source))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openSource(ctx context.Context, cfg config.Config, zl *zap.Logger) (catalog.Source, func(), error) {
	noop := func() {}
	switch cfg.Catalog.Source {
	case config.SourceFile:
		return catalog.File(cfg.Catalog.File), noop, nil
	case config.SourcePostgres:
		st, err := store.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, noop, fmt.Errorf("postgres: %w", err)
		}
		return st, st.Close, nil
	case config.SourceRemote:
		var c remote.Cache = cache.NewMemory()
		closeCache := noop
		if cfg.Redis.Addr != "" {
			rc := cache.NewRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := rc.Ping(pingCtx)
			cancel()
			if err != nil {
				_ = rc.Close()
				return nil, noop, fmt.Errorf("redis: %w", err)
			}
			c, closeCache = rc, func() { _ = rc.Close() }
		}
		client := remote.NewClient(remote.ClientOptions{BaseURL: cfg.Catalog.URL, APIKey: cfg.Catalog.APIKey, RequestsPerSecond: 2})
		src := remote.NewSource(client, c, remote.SourceOptions{
			StaleAfter: cfg.Catalog.StaleAfter,
			CacheTTL:   cfg.Catalog.CacheTTL,
		}, zl.Named("remote"))
		return src, func() { src.Close(); closeCache() }, nil
	default:
		return catalog.Sample(), noop, nil
	}
}

func openPublisher(ctx context.Context, cfg config.Config, zl *zap.Logger) (events.Publisher, func(), error) {
	if cfg.AMQP.URL != "" {
		pub, err := events.NewAMQP(events.AMQPConfig{URL: cfg.AMQP.URL, Exchange: cfg.AMQP.Exchange})
		if err != nil {
			return nil, func() {}, fmt.Errorf("amqp: %w", err)
		}
		return pub, func() { _ = pub.Close() }, nil
	}
	mem := events.NewInMemory(256)
	sinkCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		(&events.Sink{Source: mem, Log: zl.Named("events")}).Run(sinkCtx)
	}()
	return mem, func() { cancel(); <-done }, nil
}
