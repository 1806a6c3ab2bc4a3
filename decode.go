package fundterm

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/fundterm/date"
)

// DecodeTransactions decodes transactions from a stream of JSONL data, one
// transaction per line. Missing IDs are replaced by the line index.
func DecodeTransactions(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)
	for line := 0; scanner.Scan(); line++ {
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}
		var tx Transaction
		if err := json.Unmarshal(lineBytes, &tx); err != nil {
			return nil, fmt.Errorf("could not decode transaction in line %d %q: %w", line+1, string(lineBytes), err)
		}
		tx.OrderType = OrderType(strings.ToLower(string(tx.OrderType)))
		if tx.ID == 0 {
			tx.ID = len(txs)
		}
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		txs = append(txs, tx)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read transactions: %w", err)
	}
	return txs, nil
}

// EncodeTransactions writes transactions as JSONL.
func EncodeTransactions(w io.Writer, txs []Transaction) error {
	enc := json.NewEncoder(w)
	for _, tx := range txs {
		if err := enc.Encode(tx); err != nil {
			return err
		}
	}
	return nil
}

// ParseCSV decodes transactions from CSV with columns
// date,type,security,quantity,price[,netAmount]. A header row is skipped.
// Transaction IDs are the row indexes.
func ParseCSV(r io.Reader) ([]Transaction, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var txs []Transaction
	for row := 0; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("could not read csv: %w", err)
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if row == 0 && strings.EqualFold(strings.TrimSpace(record[0]), "date") {
			continue
		}
		if len(record) < 5 {
			return nil, fmt.Errorf("row %d: want at least 5 columns got %d", row+1, len(record))
		}
		tx, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		tx.ID = len(txs)
		txs = append(txs, tx)
	}
	return txs, nil
}

func parseRecord(record []string) (Transaction, error) {
	var tx Transaction
	on, err := date.Parse(strings.TrimSpace(record[0]))
	if err != nil {
		return tx, err
	}
	orderType, err := ParseOrderType(record[1])
	if err != nil {
		return tx, err
	}
	quantity, err := parseNumber(record[3])
	if err != nil {
		return tx, fmt.Errorf("invalid quantity: %w", err)
	}
	price, err := parseNumber(record[4])
	if err != nil {
		return tx, fmt.Errorf("invalid price: %w", err)
	}
	tx = Transaction{
		TradeDate: on,
		OrderType: orderType,
		Security:  strings.TrimSpace(record[2]),
		Quantity:  quantity,
		Price:     price,
	}
	if len(record) > 5 && strings.TrimSpace(record[5]) != "" {
		net, err := parseNumber(record[5])
		if err != nil {
			return tx, fmt.Errorf("invalid net amount: %w", err)
		}
		tx.Net = &net
	}
	return tx, tx.Validate()
}

// parseNumber parses numbers like "1,234.5" or "$12".
func parseNumber(s string) (float64, error) {
	s = strings.NewReplacer(",", "", "$", "", " ", "").Replace(s)
	return strconv.ParseFloat(s, 64)
}

// DecodeSplits decodes a JSON array of split events.
func DecodeSplits(r io.Reader) ([]SplitEvent, error) {
	var splits []SplitEvent
	if err := json.NewDecoder(r).Decode(&splits); err != nil {
		return nil, fmt.Errorf("could not decode splits: %w", err)
	}
	for i, s := range splits {
		if s.Ratio <= 0 {
			return nil, fmt.Errorf("split %d of %s: invalid ratio %v", i, s.Security, s.Ratio)
		}
	}
	return splits, nil
}

// DecodePrices decodes a JSON object {security: {date: price}}.
func DecodePrices(r io.Reader) (PriceTable, error) {
	var raw map[string]map[string]float64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode prices: %w", err)
	}
	prices := PriceTable{}
	for security, quotes := range raw {
		for day, price := range quotes {
			on, err := date.Parse(day)
			if err != nil {
				return nil, fmt.Errorf("price of %s: %w", security, err)
			}
			prices.Set(security, on, price)
		}
	}
	return prices, nil
}

// DecodeFx decodes {"base": "USD", "rates": {cur: rate}, "history": {cur: {date: rate}}}.
func DecodeFx(r io.Reader) (FxRates, error) {
	var raw struct {
		Base    string                        `json:"base"`
		Rates   map[string]float64            `json:"rates"`
		History map[string]map[string]float64 `json:"history"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return FxRates{}, fmt.Errorf("could not decode fx rates: %w", err)
	}
	rates := map[string]float64{}
	for c, v := range raw.Rates {
		rates[strings.ToUpper(c)] = v
	}
	fx := NewFxRates(raw.Base, rates)
	for c, days := range raw.History {
		h := new(date.History[float64])
		for day, v := range days {
			on, err := date.Parse(day)
			if err != nil {
				return FxRates{}, fmt.Errorf("fx history of %s: %w", c, err)
			}
			h.Append(on, v)
		}
		fx.History[strings.ToUpper(c)] = h
	}
	return fx, nil
}

// DecodeMetadata decodes {security: SecurityInfo}.
func DecodeMetadata(r io.Reader) (Metadata, error) {
	var raw map[string]SecurityInfo
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode metadata: %w", err)
	}
	m := make(Metadata, len(raw))
	for k, v := range raw {
		m[NormalizeSymbol(k)] = v
	}
	return m, nil
}
