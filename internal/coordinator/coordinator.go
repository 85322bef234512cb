package coordinator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"TankSentinel/internal/collector"
	"TankSentinel/internal/model"
	"TankSentinel/internal/parser"
)

var (
	// ErrNoDevices is returned by FirstRefresh when the account has no tanks.
	ErrNoDevices = errors.New("no devices found on account")
	// ErrRefreshInProgress is returned when a refresh is requested while another one runs.
	ErrRefreshInProgress = errors.New("refresh already in progress")
	// ErrClosed is returned once the coordinator has been shut down.
	ErrClosed = errors.New("coordinator closed")
)

// Options configures a Coordinator.
type Options struct {
	// PricingURL is the page scraped for a propane price. Empty disables pricing.
	PricingURL     string
	RequestTimeout time.Duration
	PriceTimeout   time.Duration
}

// Listener is called after every completed refresh cycle, successful or not.
// Listeners run on the refresh goroutine and should return quickly.
type Listener func(result model.RefreshResult)

// Status is a point-in-time view of the coordinator for host surfaces.
type Status struct {
	State          model.RefreshState `json:"state"`
	LastResult     model.RefreshState `json:"last_result,omitempty"`
	LastError      string             `json:"last_error,omitempty"`
	LastAttemptAt  time.Time          `json:"last_attempt_at"`
	LastSuccessAt  time.Time          `json:"last_success_at"`
	TankCount      int                `json:"tank_count"`
	PricingEnabled bool               `json:"pricing_enabled"`
}

// Coordinator owns the refresh cycle and the currently published Snapshot.
// Snapshots are swapped atomically and never mutated after publication,
// so readers need no locking.
type Coordinator struct {
	fetcher collector.Fetcher
	opts    Options
	logger  *zap.Logger
	now     func() time.Time

	snapshot atomic.Pointer[model.Snapshot]
	inFlight atomic.Bool
	state    atomic.Value // model.RefreshState

	mu            sync.RWMutex
	lastResult    model.RefreshState
	lastErr       error
	lastAttemptAt time.Time
	lastSuccessAt time.Time
	listeners     map[int]Listener
	nextListener  int

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Coordinator. Nothing is fetched until FirstRefresh or Refresh is called.
func New(fetcher collector.Fetcher, opts Options, logger *zap.Logger) *Coordinator {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.PriceTimeout <= 0 {
		opts.PriceTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Coordinator{
		fetcher:   fetcher,
		opts:      opts,
		logger:    logger.Named("coordinator"),
		now:       time.Now,
		listeners: make(map[int]Listener),
		ctx:       ctx,
		cancel:    cancel,
	}
	c.state.Store(model.StateIdle)
	return c
}

// FirstRefresh performs the setup refresh. Unlike later refreshes it treats an
// empty device list as ErrNoDevices, and callers should abort setup on any error.
func (c *Coordinator) FirstRefresh(ctx context.Context) error {
	return c.refresh(ctx, model.TriggerSetup)
}

// Refresh runs one refresh cycle. If a cycle is already running it returns
// ErrRefreshInProgress immediately without fetching anything.
func (c *Coordinator) Refresh(ctx context.Context, trigger model.RefreshTrigger) error {
	return c.refresh(ctx, trigger)
}

func (c *Coordinator) refresh(ctx context.Context, trigger model.RefreshTrigger) error {
	if c.ctx.Err() != nil {
		return ErrClosed
	}
	if !c.inFlight.CompareAndSwap(false, true) {
		c.logger.Debug("refresh skipped, another cycle is running", zap.String("trigger", string(trigger)))
		return ErrRefreshInProgress
	}
	defer c.inFlight.Store(false)

	result := c.run(ctx, trigger)
	return result.Err
}

func (c *Coordinator) run(parent context.Context, trigger model.RefreshTrigger) model.RefreshResult {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	stop := context.AfterFunc(c.ctx, cancel)
	defer stop()

	result := model.RefreshResult{
		CycleID: uuid.NewString(),
		Trigger: trigger,
		Started: c.now(),
	}
	log := c.logger.With(zap.String("cycle", result.CycleID), zap.String("trigger", string(trigger)))

	c.state.Store(model.StateRefreshing)
	log.Info("refresh started")

	snap, err := c.build(ctx, trigger == model.TriggerSetup, log)
	result.Duration = c.now().Sub(result.Started)

	c.mu.Lock()
	if err == nil {
		// Cancelled or closed after the fetch finished: drop the result rather
		// than publish it. c.ctx is checked directly since the AfterFunc link
		// cancels ctx asynchronously.
		cause := ctx.Err()
		if cause == nil {
			cause = c.ctx.Err()
		}
		if cause != nil {
			err = fmt.Errorf("refresh abandoned: %w", cause)
		}
	}
	c.lastAttemptAt = result.Started
	if err != nil {
		result.State = model.StateFailed
		result.Err = err
		result.Snapshot = c.snapshot.Load()
		c.lastResult = model.StateFailed
		c.lastErr = err
	} else {
		c.snapshot.Store(snap)
		result.State = model.StateSuccess
		result.Snapshot = snap
		c.lastResult = model.StateSuccess
		c.lastErr = nil
		c.lastSuccessAt = result.Started
	}
	listeners := c.listenerList()
	c.mu.Unlock()

	c.state.Store(result.State)
	if err != nil {
		log.Warn("refresh failed, keeping previous snapshot", zap.Error(err), zap.Duration("duration", result.Duration))
	} else {
		log.Info("refresh succeeded",
			zap.Int("tanks", snap.TankCount()),
			zap.Bool("price", snap.Price != nil),
			zap.Duration("duration", result.Duration))
	}

	for _, l := range listeners {
		l(result)
	}
	c.state.Store(model.StateIdle)
	return result
}

// build fetches everything for one cycle and assembles a new Snapshot.
func (c *Coordinator) build(ctx context.Context, setup bool, log *zap.Logger) (*model.Snapshot, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	tanks, err := c.fetcher.FetchTanks(fetchCtx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("fetch tanks: %w", err)
	}
	if setup && len(tanks) == 0 {
		return nil, ErrNoDevices
	}

	snap := &model.Snapshot{
		Tanks:          tanks,
		PricingEnabled: c.opts.PricingURL != "",
		FetchedAt:      c.now(),
	}
	if snap.PricingEnabled {
		snap.Price = c.fetchPrice(ctx, log)
	}
	return snap, nil
}

// fetchPrice never fails the cycle; any problem just leaves the price unset.
func (c *Coordinator) fetchPrice(ctx context.Context, log *zap.Logger) *string {
	priceCtx, cancel := context.WithTimeout(ctx, c.opts.PriceTimeout)
	defer cancel()

	html, ok := c.fetcher.FetchPriceHTML(priceCtx, c.opts.PricingURL)
	if !ok {
		log.Warn("propane price unavailable", zap.String("url", c.opts.PricingURL))
		return nil
	}
	price, ok := parser.ExtractPrice(html)
	if !ok {
		log.Warn("no propane price found on pricing page", zap.String("url", c.opts.PricingURL))
		return nil
	}
	return &price
}

// Snapshot returns the most recently published snapshot, or nil before the first success.
func (c *Coordinator) Snapshot() *model.Snapshot {
	return c.snapshot.Load()
}

// State returns the coordinator's current position in the refresh cycle.
func (c *Coordinator) State() model.RefreshState {
	return c.state.Load().(model.RefreshState)
}

// LastRefreshSuccess reports whether the most recent completed cycle succeeded.
func (c *Coordinator) LastRefreshSuccess() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastResult == model.StateSuccess
}

// LastError returns the error of the most recent cycle, nil after a success.
func (c *Coordinator) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// PricingEnabled reports whether a pricing source is configured.
func (c *Coordinator) PricingEnabled() bool {
	return c.opts.PricingURL != ""
}

// Status returns a snapshot of the coordinator's bookkeeping.
func (c *Coordinator) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	st := Status{
		State:          c.State(),
		LastResult:     c.lastResult,
		LastAttemptAt:  c.lastAttemptAt,
		LastSuccessAt:  c.lastSuccessAt,
		TankCount:      c.snapshot.Load().TankCount(),
		PricingEnabled: c.PricingEnabled(),
	}
	if c.lastErr != nil {
		st.LastError = c.lastErr.Error()
	}
	return st
}

// Subscribe registers a listener for completed refresh cycles and returns a
// function that removes it.
func (c *Coordinator) Subscribe(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextListener
	c.nextListener++
	c.listeners[id] = l
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// listenerList returns listeners in registration order. Callers hold c.mu.
func (c *Coordinator) listenerList() []Listener {
	out := make([]Listener, 0, len(c.listeners))
	for id := 0; id < c.nextListener; id++ {
		if l, ok := c.listeners[id]; ok {
			out = append(out, l)
		}
	}
	return out
}

// Close abandons any in-flight refresh and rejects further ones.
func (c *Coordinator) Close() {
	c.cancel()
	c.logger.Info("coordinator closed")
}
