package fundterm

import (
	"maps"
	"slices"
	"sync"
)

// Store holds the ledger data shared by every component.
//
// Consumers only read from it, through getters returning copies. The setters are
// called by data loaders, each replacing one kind of data at once, so that readers
// never observe partially loaded data.
type Store struct {
	mu           sync.RWMutex
	version      uint64
	transactions []Transaction
	prices       PriceTable
	splits       []SplitEvent
	fx           FxRates
	metadata     Metadata
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		prices:   PriceTable{},
		fx:       NewFxRates(BaseCurrency, map[string]float64{}),
		metadata: Metadata{},
	}
}

// Version is incremented every time the store content changes.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Transactions returns the transactions sorted by trade date.
func (s *Store) Transactions() []Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// Prices returns the historical price table.
func (s *Store) Prices() PriceTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prices.Clone()
}

// Splits returns the split events.
func (s *Store) Splits() []SplitEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.splits)
}

// Fx returns the currency rates.
func (s *Store) Fx() FxRates {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fx.Clone()
}

// Metadata returns the securities metadata.
func (s *Store) Metadata() Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.metadata)
}

// Securities returns the normalized symbols traded in the ledger, sorted.
func (s *Store) Securities() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := map[string]bool{}
	for _, tx := range s.transactions {
		set[tx.Symbol()] = true
	}
	return slices.Sorted(maps.Keys(set))
}

// SetTransactions replaces the transactions. Invalid transactions are rejected as a
// whole and the store is left unchanged.
func (s *Store) SetTransactions(txs []Transaction) error {
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			return err
		}
	}
	txs = slices.Clone(txs)
	SortTransactions(txs)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = txs
	s.version++
	return nil
}

// SetPrices merges a price table into the stored one.
func (s *Store) SetPrices(p PriceTable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prices = s.prices.Merged(p)
	s.version++
}

// SetSplits replaces the split events.
func (s *Store) SetSplits(splits []SplitEvent) {
	splits = slices.Clone(splits)
	sortSplits(splits)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.splits = splits
	s.version++
}

// SetFx replaces the currency rates.
func (s *Store) SetFx(fx FxRates) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fx = fx.Clone()
	s.version++
}

// SetMetadata replaces the securities metadata.
func (s *Store) SetMetadata(m Metadata) {
	normalized := make(Metadata, len(m))
	for k, v := range m {
		normalized[NormalizeSymbol(k)] = v
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metadata = normalized
	s.version++
}
