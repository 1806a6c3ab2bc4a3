package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/etnz/fundterm"
)

// Default file names of a data directory.
const (
	DefaultTransactions = "transactions.csv"
	DefaultPrices       = "prices.json"
	DefaultSplits       = "splits.json"
	DefaultFx           = "fx.json"
	DefaultMetadata     = "metadata.json"
)

// Dir reads the store data from files in a directory.
//
// Transactions are CSV, or JSONL when the file name ends with ".jsonl". The other
// files are optional: a missing one is reported as ErrNotModified. A file that did
// not change since it was last read is also reported as ErrNotModified.
type Dir struct {
	Path         string
	Transactions string
	Prices       string
	Splits       string
	Fx           string
	Metadata     string

	mu      sync.Mutex
	modTime map[string]time.Time
	prices  fundterm.PriceTable
}

// NewDir returns a Dir with the default file names.
func NewDir(path string) *Dir {
	return &Dir{
		Path:         path,
		Transactions: DefaultTransactions,
		Prices:       DefaultPrices,
		Splits:       DefaultSplits,
		Fx:           DefaultFx,
		Metadata:     DefaultMetadata,
	}
}

// open opens name unless it did not change since the last call. The returned
// commit function records the modification time once the file was decoded.
func (d *Dir) open(name string, optional bool) (io.ReadCloser, func(), error) {
	file := filepath.Join(d.Path, name)
	info, err := os.Stat(file)
	if optional && errors.Is(err, fs.ErrNotExist) {
		return nil, nil, ErrNotModified
	}
	if err != nil {
		return nil, nil, err
	}
	d.mu.Lock()
	seen, ok := d.modTime[file]
	d.mu.Unlock()
	if ok && seen.Equal(info.ModTime()) {
		return nil, nil, ErrNotModified
	}
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, err
	}
	commit := func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.modTime == nil {
			d.modTime = map[string]time.Time{}
		}
		d.modTime[file] = info.ModTime()
	}
	return f, commit, nil
}

// FetchTransactions reads the transactions file.
func (d *Dir) FetchTransactions(ctx context.Context) ([]fundterm.Transaction, error) {
	f, commit, err := d.open(d.Transactions, false)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var txs []fundterm.Transaction
	if strings.HasSuffix(d.Transactions, ".jsonl") {
		txs, err = fundterm.DecodeTransactions(f)
	} else {
		txs, err = fundterm.ParseCSV(f)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Transactions, err)
	}
	commit()
	return txs, nil
}

// FetchHistoricalPrices returns the quotes of security from the prices file. The
// file is decoded again only when it changed.
func (d *Dir) FetchHistoricalPrices(ctx context.Context, security string) (fundterm.PriceTable, error) {
	f, commit, err := d.open(d.Prices, true)
	switch {
	case errors.Is(err, ErrNotModified):
	case err != nil:
		return nil, err
	default:
		defer f.Close()
		prices, err := fundterm.DecodePrices(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", d.Prices, err)
		}
		d.mu.Lock()
		d.prices = prices
		d.mu.Unlock()
		commit()
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	h := d.prices.History(security)
	if h == nil {
		return nil, ErrNotModified
	}
	return fundterm.PriceTable{fundterm.NormalizeSymbol(security): h}, nil
}

// FetchFxRates reads the fx file.
func (d *Dir) FetchFxRates(ctx context.Context) (fundterm.FxRates, error) {
	f, commit, err := d.open(d.Fx, true)
	if err != nil {
		return fundterm.FxRates{}, err
	}
	defer f.Close()
	fx, err := fundterm.DecodeFx(f)
	if err != nil {
		return fundterm.FxRates{}, fmt.Errorf("read %s: %w", d.Fx, err)
	}
	commit()
	return fx, nil
}

// FetchSplits reads the splits file.
func (d *Dir) FetchSplits(ctx context.Context) ([]fundterm.SplitEvent, error) {
	f, commit, err := d.open(d.Splits, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	splits, err := fundterm.DecodeSplits(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Splits, err)
	}
	commit()
	return splits, nil
}

// FetchMetadata reads the metadata file.
func (d *Dir) FetchMetadata(ctx context.Context) (fundterm.Metadata, error) {
	f, commit, err := d.open(d.Metadata, true)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	meta, err := fundterm.DecodeMetadata(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", d.Metadata, err)
	}
	commit()
	return meta, nil
}
