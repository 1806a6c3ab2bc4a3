package loader

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/date"
	"github.com/phuslu/log"
	"golang.org/x/time/rate"
)

// Defaults of HTTP.
const (
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// HTTP fetches the store data from a web service:
//
//	GET {base}/transactions          CSV, or JSONL when served as application/x-ndjson
//	GET {base}/prices/{security}     JSON quotes
//	GET {base}/fx                    JSON rates
//
// PricesPath and FxPath are JSONPath expressions selecting the data in the
// payloads. The quotes are either an object {date: price}, or a list of
// [date, price] pairs or of objects with a "date" and a "close" or "price" field.
// The rates have the layout read by fundterm.DecodeFx.
//
// A payload identical to the previous one is reported as ErrNotModified.
type HTTP struct {
	BaseURL    string
	PricesPath string
	FxPath     string

	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger

	mu   sync.Mutex
	sums map[string][sha1.Size]byte
}

// Option configures HTTP.
type Option func(*HTTP)

// WithRateLimit limits the requests per second.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(h *HTTP) {
		if burst < 1 {
			burst = 1
		}
		h.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	}
}

// WithDailyCache keeps the responses of the day in dir.
func WithDailyCache(dir string) Option {
	return func(h *HTTP) {
		h.client.Transport = &diskCache{base: h.client.Transport, dir: dir, today: date.Today, logger: h.logger}
	}
}

// WithLogger sets the logger of the HTTP exchanges.
func WithLogger(logger *log.Logger) Option {
	return func(h *HTTP) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithTransport sets the base transport.
func WithTransport(rt http.RoundTripper) Option {
	return func(h *HTTP) { h.client.Transport = rt }
}

// NewHTTP returns an HTTP source of baseURL. Options apply in order, so
// WithDailyCache must come after WithLogger and WithTransport.
func NewHTTP(baseURL string, opts ...Option) *HTTP {
	h := &HTTP{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		PricesPath: "$",
		FxPath:     "$",
		client:     &http.Client{Timeout: DefaultTimeout, Transport: http.DefaultTransport},
		limiter:    rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:     &log.Logger{Writer: log.IOWriter{Writer: io.Discard}},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// get returns the body of GET {base}/{path}.
func (h *HTTP) get(ctx context.Context, path string) ([]byte, string, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, "", fmt.Errorf("rate limit wait: %w", err)
	}
	addr := h.BaseURL + "/" + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("cannot http GET %v: %v", addr, resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read %v: %w", addr, err)
	}

	sum := sha1.Sum(body)
	h.mu.Lock()
	defer h.mu.Unlock()
	if prev, ok := h.sums[addr]; ok && prev == sum {
		return nil, "", ErrNotModified
	}
	if h.sums == nil {
		h.sums = map[string][sha1.Size]byte{}
	}
	h.sums[addr] = sum
	return body, resp.Header.Get("Content-Type"), nil
}

// extract returns the value selected by path in a JSON payload.
func extract(body []byte, path string) (any, error) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, err
	}
	return jsonpath.Get(path, v)
}

// FetchTransactions fetches the ledger.
func (h *HTTP) FetchTransactions(ctx context.Context) ([]fundterm.Transaction, error) {
	body, contentType, err := h.get(ctx, "transactions")
	if err != nil {
		return nil, err
	}
	if strings.Contains(contentType, "ndjson") || strings.Contains(contentType, "jsonl") {
		return fundterm.DecodeTransactions(bytes.NewReader(body))
	}
	return fundterm.ParseCSV(bytes.NewReader(body))
}

// FetchHistoricalPrices fetches the quotes of security.
func (h *HTTP) FetchHistoricalPrices(ctx context.Context, security string) (fundterm.PriceTable, error) {
	body, _, err := h.get(ctx, "prices/"+url.PathEscape(security))
	if err != nil {
		return nil, err
	}
	v, err := extract(body, h.PricesPath)
	if err != nil {
		return nil, fmt.Errorf("prices of %s at %q: %w", security, h.PricesPath, err)
	}
	prices := fundterm.PriceTable{}
	if err := addQuotes(prices, security, v); err != nil {
		return nil, fmt.Errorf("prices of %s: %w", security, err)
	}
	return prices, nil
}

// addQuotes adds the quotes found in v.
func addQuotes(prices fundterm.PriceTable, security string, v any) error {
	add := func(day any, price any) error {
		s, ok := day.(string)
		if !ok {
			return fmt.Errorf("invalid date %v", day)
		}
		on, err := date.Parse(s)
		if err != nil {
			return err
		}
		p, ok := price.(float64)
		if !ok {
			return fmt.Errorf("invalid price %v on %s", price, s)
		}
		prices.Set(security, on, p)
		return nil
	}
	switch quotes := v.(type) {
	case map[string]any:
		days := make([]string, 0, len(quotes))
		for day := range quotes {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			if err := add(day, quotes[day]); err != nil {
				return err
			}
		}
	case []any:
		for _, q := range quotes {
			switch q := q.(type) {
			case []any:
				if len(q) < 2 {
					return fmt.Errorf("invalid quote %v", q)
				}
				if err := add(q[0], q[1]); err != nil {
					return err
				}
			case map[string]any:
				price, ok := q["close"]
				if !ok {
					price = q["price"]
				}
				if err := add(q["date"], price); err != nil {
					return err
				}
			default:
				return fmt.Errorf("invalid quote %v", q)
			}
		}
	default:
		return fmt.Errorf("unexpected quotes %T", v)
	}
	return nil
}

// FetchFxRates fetches the currency rates.
func (h *HTTP) FetchFxRates(ctx context.Context) (fundterm.FxRates, error) {
	body, _, err := h.get(ctx, "fx")
	if err != nil {
		return fundterm.FxRates{}, err
	}
	v, err := extract(body, h.FxPath)
	if err != nil {
		return fundterm.FxRates{}, fmt.Errorf("fx rates at %q: %w", h.FxPath, err)
	}
	// jsonpath returns either the value or a list holding it
	if list, ok := v.([]any); ok && len(list) > 0 {
		v = list[0]
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fundterm.FxRates{}, err
	}
	return fundterm.DecodeFx(bytes.NewReader(raw))
}
