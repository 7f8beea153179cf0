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
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MrKriegler/insureflow/internal/core"
	transporthttp "github.com/MrKriegler/insureflow/internal/http"
	"github.com/MrKriegler/insureflow/internal/http/handlers"
	"github.com/MrKriegler/insureflow/internal/jobs"
	"github.com/MrKriegler/insureflow/internal/middleware"
	"github.com/MrKriegler/insureflow/internal/platform/config"
	"github.com/MrKriegler/insureflow/internal/platform/logging"
	"github.com/MrKriegler/insureflow/internal/platform/metrics"
	"github.com/MrKriegler/insureflow/internal/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.Env, cfg.LogLevel)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting insureflow API", "env", cfg.Env, "db_type", cfg.DBType)

	st, err := store.Open(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close(context.Background())

	m := metrics.New()

	// Services
	policySvc := core.NewPolicyService(st.Policies)
	quoteSvc := core.NewQuoteService(st.Policies)
	appSvc := core.NewApplicationService(st.Applications, st.Policies)
	claimSvc := core.NewClaimService(st.Claims, st.Applications)
	reviewSvc := core.NewReviewService(st.Reviews, st.Applications, st.Claims)
	reportSvc := core.NewReportService(st.Transactions, st.Applications)

	limiter, closeLimiter, err := newLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	router := transporthttp.NewRouter(transporthttp.Deps{
		Log:            log,
		Store:          st,
		Metrics:        m,
		Identity:       middleware.NewIdentity(cfg.JWTSecret, cfg.AuthDevHeaders, log),
		Limiter:        limiter,
		APIKey:         cfg.APIKey,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: time.Duration(cfg.HTTPRequestTimeoutSec) * time.Second,
		StoreTimeout:   cfg.StoreOpTimeout(),
		Mounts: []handlers.Mountable{
			handlers.NewPolicyHandler(policySvc, reviewSvc, log),
			handlers.NewQuoteHandler(quoteSvc, log),
			handlers.NewApplicationHandler(appSvc, log),
			handlers.NewClaimHandler(claimSvc, log),
			handlers.NewReviewHandler(reviewSvc, log),
			handlers.NewTransactionHandler(reportSvc, log),
		},
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTPReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTPWriteTimeoutSec) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTPIdleTimeoutSec) * time.Second,
	}

	workers := []jobs.Worker{
		jobs.NewBacklogWorker(
			st.Applications,
			st.Claims,
			m,
			time.Duration(cfg.WorkerIntervalSec)*time.Second,
			time.Duration(cfg.BacklogStaleAfterHours)*time.Hour,
			log,
		),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	for _, w := range workers {
		w := w
		g.Go(func() error {
			log.Info("starting worker", "worker", w.Name())
			w.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// newLimiter prefers the shared Redis window when REDIS_ADDR is set.
func newLimiter(ctx context.Context, cfg *config.Config, log *slog.Logger) (middleware.Limiter, func(), error) {
	if cfg.RateLimitRPM <= 0 {
		return nil, func() {}, nil
	}
	if cfg.RedisAddr != "" {
		client, err := middleware.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		log.Info("rate limiting via redis", "addr", cfg.RedisAddr, "rpm", cfg.RateLimitRPM)
		return middleware.NewRedisLimiter(client, cfg.RateLimitRPM), func() { _ = client.Close() }, nil
	}

	rl := middleware.NewRateLimiter(cfg.RateLimitRPM)
	rl.StartWithContext(ctx)
	log.Info("rate limiting in process", "rpm", cfg.RateLimitRPM)
	return rl, rl.Stop, nil
}
