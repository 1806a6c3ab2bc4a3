// Package cmd implements the CLI application of the portfolio terminal.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/loader"
	"github.com/etnz/fundterm/terminal"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
)

// Commands are the subcommands of the application, registered by the main package.
var Commands = []subcommands.Command{
	&terminalCmd{},
	&runCmd{},
	&seriesCmd{},
	&topicCmd{},
	&serveCmd{},
	&AssistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "fundterm.toml", "Path to the configuration file (TOML format)")
var dataDir = flag.String("data", "", "Path to the data folder. Overrides the configuration and the "+EnvDataDir+" environment variable.")
var currency = flag.String("currency", "", "Display currency. Overrides the configuration.")

// app is what the commands share: the configuration, the logger and the store
// with its loader.
type app struct {
	config *Config
	logger *log.Logger
	store  *fundterm.Store
	loader *loader.Loader
}

// newApp loads the configuration and the data.
func newApp(ctx context.Context) (*app, error) {
	config, err := LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		config.Data.Dir = *dataDir
	}
	if *currency != "" {
		config.DisplayCurrency = *currency
	}
	a := &app{
		config: config,
		logger: NewLogger(config.Logging.Level, config.Logging.Format, os.Stderr),
		store:  fundterm.NewStore(),
	}
	a.store.SetFx(fundterm.NewFxRates(config.BaseCurrency, map[string]float64{}))
	a.loader = loader.New(a.store, a.source(), a.logger)
	if err := a.loader.Refresh(ctx); err != nil && len(a.store.Transactions()) == 0 {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	return a, nil
}

// source returns the ledger source, the remote one when configured, else the
// data directory. Quotes and splits come from EODHD when it is enabled.
func (a *app) source() loader.Source {
	r := a.config.Remote
	var opts []loader.Option
	opts = append(opts, loader.WithLogger(a.logger))
	if r.RequestsPerSecond > 0 {
		opts = append(opts, loader.WithRateLimit(r.RequestsPerSecond, r.Burst))
	}
	if r.CacheDir != "" {
		opts = append(opts, loader.WithDailyCache(r.CacheDir))
	}

	var ledger loader.Source
	if r.BaseURL == "" {
		d := a.config.Data
		dir := loader.NewDir(d.Dir)
		set := func(dst *string, name string) {
			if name != "" {
				*dst = name
			}
		}
		set(&dir.Transactions, d.Transactions)
		set(&dir.Prices, d.Prices)
		set(&dir.Splits, d.Splits)
		set(&dir.Fx, d.Fx)
		set(&dir.Metadata, d.Metadata)
		ledger = dir
	} else {
		h := loader.NewHTTP(r.BaseURL, opts...)
		if r.PricesPath != "" {
			h.PricesPath = r.PricesPath
		}
		if r.FxPath != "" {
			h.FxPath = r.FxPath
		}
		ledger = h
	}

	e := a.config.EODHD
	if e.APIKey == "" {
		return ledger
	}
	src := loader.NewEODHD(e.APIKey, ledger, a.store.Securities, opts...)
	if e.Exchange != "" {
		src.Exchange = e.Exchange
	}
	for security, ticker := range e.Tickers {
		src.Tickers[fundterm.NormalizeSymbol(security)] = ticker
	}
	return src
}

// terminal returns a new interpreter over the store.
func (a *app) terminal() *terminal.Interpreter {
	return terminal.New(a.store, terminal.Options{
		Currency:   a.config.DisplayCurrency,
		Currencies: a.config.Currencies,
		Loader:     a.loader,
		Logger:     a.logger,
	})
}

// fail prints err and returns the failure status.
func fail(what string, err error) subcommands.ExitStatus {
	if errors.Is(err, context.Canceled) {
		return subcommands.ExitFailure
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	return subcommands.ExitFailure
}
