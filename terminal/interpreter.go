// Package terminal implements the command interpreter of the dashboard terminal:
// it parses submitted lines, mutates the session state and reports a message.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/etnz/fundterm"
	"github.com/etnz/fundterm/chart"
	"github.com/etnz/fundterm/date"
	"github.com/etnz/fundterm/series"
	"github.com/etnz/fundterm/session"
	"github.com/phuslu/log"
)

// ErrClosed is returned by Submit once the interpreter is closed.
var ErrClosed = errors.New("terminal closed")

// Loader refreshes the store before a chart that needs market data is built.
// Implementations report their own failures and leave the store unchanged.
type Loader interface {
	Refresh(ctx context.Context) error
}

// Options configures an Interpreter.
type Options struct {
	// Currency is the initial currency of the session.
	Currency string
	// Currencies is the cycle order of CycleCurrency. Defaults to the store currencies.
	Currencies []string
	Loader     Loader
	Logger     *log.Logger
	// Now returns the current day, defaults to date.Today.
	Now func() date.Date
}

// Response is the result of a submitted line.
type Response struct {
	Echo    string `json:"echo"`
	Message string `json:"message"`
	// Redraw is true when the chart or the table must be drawn again.
	Redraw bool `json:"redraw"`
	// Generation identifies the submission, see Interpreter.Apply.
	Generation uint64         `json:"generation"`
	State      *session.State `json:"state"`
}

// Interpreter is the terminal. It is safe for concurrent use: submissions are
// serialized and each one is applied atomically to the session state.
type Interpreter struct {
	store     *fundterm.Store
	builder   *series.Builder
	pipeline  *chart.Pipeline
	resolver  *date.Resolver
	completer *Completer
	loader    Loader
	logger    *log.Logger
	now       func() date.Date

	currency   committedCurrency
	currencies []string

	mu             sync.Mutex
	state          *session.State
	gen            uint64
	chartChangedAt uint64
	output         []string
	closed         bool
}

// committedCurrency exposes the currency of the committed state to the series
// builder without taking the interpreter lock.
type committedCurrency struct{ v atomic.Value }

func (c *committedCurrency) Currency() string {
	s, _ := c.v.Load().(string)
	return s
}

// New returns an interpreter over store.
func New(store *fundterm.Store, opts Options) *Interpreter {
	logger := opts.Logger
	if logger == nil {
		logger = &log.Logger{Writer: log.IOWriter{Writer: io.Discard}}
	}
	now := opts.Now
	if now == nil {
		now = date.Today
	}
	i := &Interpreter{
		store:      store,
		resolver:   &date.Resolver{Now: now},
		completer:  NewCompleter(),
		loader:     opts.Loader,
		logger:     logger,
		now:        now,
		state:      session.New(opts.Currency),
		currencies: normalizeCurrencies(opts.Currencies),
	}
	i.currency.v.Store(i.state.Currency())
	i.builder = series.NewBuilder(store, &i.currency)
	i.builder.Today = now
	i.pipeline = chart.NewPipeline(store, i.builder)
	i.pipeline.Today = now
	return i
}

func normalizeCurrencies(codes []string) []string {
	var res []string
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" && !slices.Contains(res, c) {
			res = append(res, c)
		}
	}
	return res
}

// Pipeline returns the chart pipeline of the interpreter.
func (i *Interpreter) Pipeline() *chart.Pipeline { return i.pipeline }

// State returns a copy of the session state.
func (i *Interpreter) State() *session.State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state.Clone()
}

// Chart builds the active chart of the session, nil when no chart is shown.
func (i *Interpreter) Chart() (*chart.Chart, error) {
	return i.pipeline.Build(i.State())
}

// Output returns the lines printed since the last clear.
func (i *Interpreter) Output() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Clone(i.output)
}

// Close stops accepting submissions.
func (i *Interpreter) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.closed = true
	return nil
}

// Submit executes a line. Parse errors and refused commands are reported in the
// message and leave the session state unchanged; the returned error is only for a
// closed interpreter or a cancelled context.
//
// Every line, even a refused one, is recorded in the command history.
func (i *Interpreter) Submit(ctx context.Context, line string) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.closed {
		return Response{}, ErrClosed
	}
	i.gen++
	i.completer.Reset()

	text := strings.TrimSpace(line)
	if text == "" {
		return Response{Generation: i.gen, State: i.state.Clone()}, nil
	}

	c := &call{i: i, ctx: ctx, st: i.state.Clone(), line: text}
	i.dispatch(c)
	if err := ctx.Err(); err != nil {
		// a cancelled dispatch is not committed
		i.resolver.Discard()
		return Response{}, err
	}
	if c.refused {
		i.resolver.Discard()
	} else {
		i.resolver.Commit()
		if c.st.ActiveChart != i.state.ActiveChart {
			i.chartChangedAt = i.gen
		}
		i.state = c.st
		i.currency.v.Store(i.state.Currency())
	}
	i.state.PushHistory(text)

	resp := Response{Echo: "> " + text, Message: c.message(), Redraw: c.redraw && !c.refused, Generation: i.gen}
	if c.clearOutput {
		i.output = nil
	} else {
		i.output = append(i.output, resp.Echo)
		if resp.Message != "" {
			i.output = append(i.output, strings.Split(resp.Message, "\n")...)
		}
	}
	resp.State = i.state.Clone()
	i.logger.Debug().Str("line", text).Bool("refused", c.refused).Uint64("generation", i.gen).Msg("submit")
	return resp, nil
}

// Apply runs fn on the session state on behalf of deferred work started by the
// submission gen. fn is discarded, and Apply returns false, when the active chart
// changed since that submission.
func (i *Interpreter) Apply(gen uint64, fn func(*session.State)) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if gen < i.chartChangedAt || gen > i.gen {
		i.logger.Debug().Uint64("generation", gen).Uint64("current", i.gen).Msg("discard stale update")
		return false
	}
	st := i.state.Clone()
	fn(st)
	i.state = st
	i.currency.v.Store(i.state.Currency())
	return true
}

// Generation returns the generation of the last submission.
func (i *Interpreter) Generation() uint64 {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.gen
}

// Complete returns line completed with the next command or subcommand
// suggestion. Repeated calls cycle through the suggestions.
func (i *Interpreter) Complete(line string) string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.completer.Complete(line)
}

// HistoryUp returns the previous line of the history, without executing it.
func (i *Interpreter) HistoryUp() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.completer.Reset()
	return i.state.HistoryUp()
}

// HistoryDown returns the next line of the history, or the empty line.
func (i *Interpreter) HistoryDown() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.completer.Reset()
	return i.state.HistoryDown()
}

// Currencies returns the currencies CycleCurrency iterates over.
func (i *Interpreter) Currencies() []string {
	if len(i.currencies) > 0 {
		return i.currencies
	}
	return i.store.Fx().Currencies()
}

// SetCurrency selects the currency of the session. It returns an error wrapping
// fundterm.ErrUnknownCurrency when no rate is known for code.
func (i *Interpreter) SetCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, ok := i.store.Fx().Rate(code, i.now()); !ok {
		return fmt.Errorf("select currency %q: %w", code, fundterm.ErrUnknownCurrency)
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	st := i.state.Clone()
	st.SelectedCurrency = code
	i.state = st
	i.currency.v.Store(code)
	return nil
}

// CycleCurrency selects the next (step > 0) or previous currency and returns it.
func (i *Interpreter) CycleCurrency(step int) string {
	list := i.Currencies()
	if len(list) == 0 {
		return i.State().Currency()
	}
	current := i.State().Currency()
	n := len(list)
	idx := slices.Index(list, current)
	if idx < 0 {
		idx = 0
	} else {
		idx = ((idx+step)%n + n) % n
	}
	if err := i.SetCurrency(list[idx]); err != nil {
		i.logger.Warn().Err(err).Msg("cycle currency")
	}
	return i.State().Currency()
}

// SetVisibility shows or hides the line key of the charts. Hidden lines stay hidden
// across chart switches until shown again.
func (i *Interpreter) SetVisibility(key string, visible bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	st := i.state.Clone()
	st.ChartVisibility[key] = visible
	i.state = st
}
