// Package loader feeds the ledger store from a data directory or an HTTP service.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/etnz/fundterm"
	"github.com/phuslu/log"
)

// ErrNotModified is returned by a Source when the data did not change since the
// previous fetch. Refresh leaves the store as it is.
var ErrNotModified = errors.New("not modified")

// Source provides the data of the store. Every method may fail independently.
type Source interface {
	FetchTransactions(ctx context.Context) ([]fundterm.Transaction, error)
	FetchHistoricalPrices(ctx context.Context, security string) (fundterm.PriceTable, error)
	FetchFxRates(ctx context.Context) (fundterm.FxRates, error)
}

// ReferenceSource is implemented by sources that also provide splits and
// security metadata.
type ReferenceSource interface {
	FetchSplits(ctx context.Context) ([]fundterm.SplitEvent, error)
	FetchMetadata(ctx context.Context) (fundterm.Metadata, error)
}

// Loader refreshes a store from a source.
type Loader struct {
	store  *fundterm.Store
	source Source
	logger *log.Logger
}

// New returns a Loader. A nil logger discards the failures.
func New(store *fundterm.Store, source Source, logger *log.Logger) *Loader {
	if logger == nil {
		logger = &log.Logger{Writer: log.IOWriter{Writer: io.Discard}}
	}
	return &Loader{store: store, source: source, logger: logger}
}

// Refresh is a shorthand for New(store, source, logger).Refresh(ctx).
func Refresh(ctx context.Context, store *fundterm.Store, source Source, logger *log.Logger) error {
	return New(store, source, logger).Refresh(ctx)
}

// Refresh loads everything the source provides into the store.
//
// Each failed fetch is logged once at the error level and leaves that part of
// the store untouched; the other parts are still loaded. The returned error
// joins every failure.
func (l *Loader) Refresh(ctx context.Context) error {
	var errs []error
	failed := func(err error, what string, security string) bool {
		switch {
		case err == nil:
			return false
		case errors.Is(err, ErrNotModified):
			l.logger.Debug().Str("data", what).Str("security", security).Msg("not modified")
			return true
		}
		e := l.logger.Error().Err(err).Str("data", what)
		if security != "" {
			e = e.Str("security", security)
		}
		e.Msg("fetch failed")
		errs = append(errs, fmt.Errorf("fetch %s %s: %w", what, security, err))
		return true
	}

	if txs, err := l.source.FetchTransactions(ctx); !failed(err, "transactions", "") {
		if err := l.store.SetTransactions(txs); err != nil {
			failed(err, "transactions", "")
		}
	}
	if fx, err := l.source.FetchFxRates(ctx); !failed(err, "fx", "") {
		l.store.SetFx(fx)
	}
	if ref, ok := l.source.(ReferenceSource); ok {
		if splits, err := ref.FetchSplits(ctx); !failed(err, "splits", "") {
			l.store.SetSplits(splits)
		}
		if meta, err := ref.FetchMetadata(ctx); !failed(err, "metadata", "") {
			l.store.SetMetadata(meta)
		}
	}

	prices := fundterm.PriceTable{}
	for _, security := range l.store.Securities() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		p, err := l.source.FetchHistoricalPrices(ctx, security)
		if failed(err, "historical prices", security) {
			continue
		}
		prices = prices.Merged(p)
	}
	if len(prices) > 0 {
		l.store.SetPrices(prices)
	}
	return errors.Join(errs...)
}
