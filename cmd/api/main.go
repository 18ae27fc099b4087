package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/rvidyarthi/crickpool/internal/api"
	"github.com/rvidyarthi/crickpool/internal/events"
	"github.com/rvidyarthi/crickpool/internal/infra/logging"
	"github.com/rvidyarthi/crickpool/internal/infra/metrics"
	"github.com/rvidyarthi/crickpool/internal/infra/pgutils"
	"github.com/rvidyarthi/crickpool/internal/quotes"
	pgmatches "github.com/rvidyarthi/crickpool/internal/repos/matches/postgres"
	"github.com/rvidyarthi/crickpool/internal/scores"
	"github.com/rvidyarthi/crickpool/internal/services/admin"
	"github.com/rvidyarthi/crickpool/internal/services/betting"
	"github.com/rvidyarthi/crickpool/internal/services/settlement"
	"github.com/rvidyarthi/crickpool/internal/services/wallet"
	"github.com/rvidyarthi/crickpool/pkg/envconf"
	"github.com/rvidyarthi/crickpool/pkg/shutdownqueue"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error running api: %v", err)
		//nolint:gocritic
		os.Exit(1)
	}
}

//nolint:funlen
func run(ctx context.Context) (retErr error) {
	// Local development convenience; production sets real env vars.
	_ = godotenv.Load()

	cfg := new(apiConfig)

	err := envconf.Load(cfg)
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	logging.SetupJSON("crickpool-api", cfg.LogLevel)

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		serr := shutdownqueue.Shutdown(shutdownCtx)
		if serr != nil {
			retErr = errors.Join(retErr, serr)
		}
	}()

	// --- Infra ---
	db, err := pgutils.OpenDB(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}

	shutdownqueue.Add(func(context.Context) error {
		slog.Info("Close db pool")

		return db.Close()
	})

	var quoteCache *quotes.Cache

	if cfg.RedisAddr != "" {
		quoteCache, err = quotes.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}

		shutdownqueue.Add(func(context.Context) error {
			slog.Info("Close quote cache")

			return quoteCache.Close()
		})
	}

	var publisher events.Publisher = events.Noop{}

	if cfg.KafkaBrokers != "" {
		kp := events.NewKafkaPublisher(cfg.KafkaBrokers)
		publisher = kp

		shutdownqueue.Add(func(context.Context) error {
			slog.Info("Close kafka writers")

			return kp.Close()
		})
	}

	// --- Services ---
	bettingSrv := betting.New(db, publisher, quoteCache, betting.Config{
		MinStake:         cfg.MinStake,
		VoidRestoresPool: cfg.VoidRestoresPool,
	})
	settlementSrv := settlement.New(db, publisher)
	walletSrv := wallet.New(db)
	adminSrv := admin.New(db)

	// --- Score feed poller ---
	if cfg.ScoreFeedURL != "" {
		poller := scores.NewPoller(
			scores.NewClient(cfg.ScoreFeedURL),
			pgmatches.New(db),
			settlementSrv,
			cfg.ScorePollInterval,
		)

		go poller.Run(ctx)
	}

	// --- Metrics sidecar ---
	metricsSrv := metrics.StartServer(cfg.MetricsPort, db.PingContext)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down metrics server")

		return metricsSrv.Shutdown(c)
	})

	// --- HTTP server ---
	router := api.NewRouter(api.Deps{
		Betting:    bettingSrv,
		Settlement: settlementSrv,
		Wallet:     walletSrv,
		Admin:      adminSrv,
		AdminToken: cfg.AdminToken,
	})

	srv := api.NewServer(cfg.Port, router)

	shutdownqueue.Add(func(c context.Context) error {
		slog.Info("Shut down server")

		err := srv.Shutdown(c)
		if err != nil {
			return fmt.Errorf("shutdown srv: %w", err)
		}

		return nil
	})

	errCh := make(chan error, 1)

	go func() {
		serr := srv.ListenAndServe()
		// http.ErrServerClosed is the normal path during Shutdown
		if serr != nil && !errors.Is(serr, http.ErrServerClosed) {
			errCh <- serr
			return
		}

		errCh <- nil
	}()

	slog.Info("API started", "port", cfg.Port)

	select {
	case <-ctx.Done():
		// graceful path; deferred shutdownqueue.Shutdown will run
		return nil
	case serr := <-errCh:
		if serr != nil {
			return fmt.Errorf("server error: %w", serr)
		}

		return nil
	}
}
