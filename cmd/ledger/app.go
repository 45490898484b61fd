package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/MrJamesThe3rd/tracker/internal/config"
	"github.com/MrJamesThe3rd/tracker/internal/ledger"
	"github.com/MrJamesThe3rd/tracker/internal/storage"
	"github.com/MrJamesThe3rd/tracker/internal/transaction"
)

var owner = flag.String("owner", "", "Ledger owner; empty selects the shared ledger")

// app opens the configured ledger for a command.
type app struct {
	out io.Writer

	// openBackend is replaced in tests.
	openBackend func(ctx context.Context, cfg *config.Config) (ledger.Backend, func(), error)
}

type session struct {
	store    *ledger.Store
	currency string
	close    func()
}

func (a *app) open(ctx context.Context) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))

	openBackend := a.openBackend
	if openBackend == nil {
		openBackend = storage.Open
	}

	backend, closeBackend, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	store, err := ledger.NewRegistry(backend, cfg.Storage.Key).Store(ctx, *owner)
	if err != nil {
		closeBackend()
		return nil, err
	}

	return &session{
		store:    store,
		currency: cfg.App.Currency,
		close:    closeBackend,
	}, nil
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func parseFilter(typ, start, end string) (transaction.Filter, error) {
	var filter transaction.Filter

	if typ != "" {
		t := transaction.Type(typ)
		if !t.Valid() {
			return filter, fmt.Errorf("invalid type %q", typ)
		}

		filter.Type = new(t)
	}

	for _, b := range []struct {
		flag  string
		value string
		dst   **time.Time
	}{
		{"start", start, &filter.StartDate},
		{"end", end, &filter.EndDate},
	} {
		if b.value == "" {
			continue
		}

		d, err := time.Parse(time.DateOnly, b.value)
		if err != nil {
			return filter, fmt.Errorf("invalid -%s %q", b.flag, b.value)
		}

		*b.dst = new(d)
	}

	return filter, nil
}
