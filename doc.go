// Package fundterm holds the ledger side of the transaction analytics engine:
// buy/sell transactions, historical prices, split events, currency rates and
// security metadata, plus the stateless accounting computed from them.
//
// The main types are:
//   - Transaction, SplitEvent, PriceTable, FxRates and Metadata: the raw ledger data.
//   - Store: a concurrency-safe holder of the ledger data. It is read-only for every
//     consumer and is only replaced wholesale by the data loaders.
//   - Query: the free-text ledger search used by the terminal to narrow the
//     transaction table and the composition charts.
//   - Lots, Stats and Holding: FIFO cost basis, realized gains and open positions.
//
// Series derived from the ledger (contribution, balance, drawdown...) live in the
// series package; the terminal package drives them from user commands.
package fundterm
