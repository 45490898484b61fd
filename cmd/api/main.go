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

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tracker/internal/config"
	"github.com/MrJamesThe3rd/tracker/internal/events"
	trackerHttp "github.com/MrJamesThe3rd/tracker/internal/http"
	importHandler "github.com/MrJamesThe3rd/tracker/internal/http/importcsv"
	summaryHandler "github.com/MrJamesThe3rd/tracker/internal/http/summary"
	txHandler "github.com/MrJamesThe3rd/tracker/internal/http/transaction"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, closeBackend, err := storage.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer closeBackend()

	var opts []ledger.Option

	if cfg.AMQP.URL != "" {
		publisher, err := events.Dial(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			return fmt.Errorf("connect to broker: %w", err)
		}
		defer publisher.Close()

		opts = append(opts, ledger.WithListener(publisher))
		slog.Info("publishing ledger events", "exchange", cfg.AMQP.Exchange)
	}

	registry := ledger.NewRegistry(backend, cfg.Storage.Key, opts...)

	var (
		transactionH = txHandler.NewHandler(registry)
		summaryH     = summaryHandler.NewHandler(registry, cfg.App.Currency)
		importH      = importHandler.NewHandler(registry)
	)

	router := trackerHttp.New(trackerHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Auth.Secret,
	}, transactionH, summaryH, importH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server",
			"name", cfg.App.Name,
			"addr", srv.Addr,
			"storage", cfg.Storage.Backend,
			"auth", cfg.Auth.Secret != "")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
