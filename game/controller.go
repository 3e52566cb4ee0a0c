package game

import (
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/lixenwraith/reelspin/engine"
	"github.com/lixenwraith/reelspin/reel"
	"github.com/lixenwraith/reelspin/status"
)

// ErrInvalidSettings is returned for round economics the controller cannot run with
var ErrInvalidSettings = errors.New("invalid game settings")

// Spinner is the reel capability the controller drives
type Spinner interface {
	StartSpin() (*engine.Future[reel.Result], bool)
	StopSpin(hideVisible bool) bool
	Phase() reel.Phase
}

// Presenter receives round state for display
type Presenter interface {
	SetBalance(balance int)
	SetWin(win int)
	SetSpinPrice(price int)
	SetHighlights(positions []int)
	SetSpinEnabled(enabled bool)
	PlayWin()
}

// Recorder persists completed rounds
type Recorder interface {
	Record(r Round) error
}

type nopPresenter struct{}

func (nopPresenter) SetBalance(int)      {}
func (nopPresenter) SetWin(int)          {}
func (nopPresenter) SetSpinPrice(int)    {}
func (nopPresenter) SetHighlights([]int) {}
func (nopPresenter) SetSpinEnabled(bool) {}
func (nopPresenter) PlayWin()            {}

// Settings are the round economics
type Settings struct {
	InitialBalance int
	SpinPrice      int
}

// Validate checks the settings
func (s Settings) Validate() error {
	if s.InitialBalance < 0 {
		return fmt.Errorf("%w: initial balance %d", ErrInvalidSettings, s.InitialBalance)
	}
	if s.SpinPrice <= 0 {
		return fmt.Errorf("%w: spin price %d", ErrInvalidSettings, s.SpinPrice)
	}
	return nil
}

// Controller runs rounds: debit, spin, evaluate, credit
// Like the reel it drives, it belongs to the frame goroutine
type Controller struct {
	spinner   Spinner
	presenter Presenter
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time

	price    int
	balance  int
	win      int
	spinning bool
	rounds   int

	// Session totals for RTP
	wagered int64
	paid    int64

	metrics *roundMetrics
}

// roundMetrics caches registry pointers
type roundMetrics struct {
	spins         *atomic.Int64
	wins          *atomic.Int64
	wagered       *atomic.Int64
	paid          *atomic.Int64
	journalErrors *atomic.Int64
	rtp           *status.AtomicFloat
	balance       *status.AtomicFloat
	lastStop      *status.AtomicString
}

func newRoundMetrics(r *status.Registry) *roundMetrics {
	return &roundMetrics{
		spins:         r.Counters.Get(status.MetricSpins),
		wins:          r.Counters.Get(status.MetricWins),
		wagered:       r.Counters.Get(status.MetricWagered),
		paid:          r.Counters.Get(status.MetricPaid),
		journalErrors: r.Counters.Get(status.MetricJournal),
		rtp:           r.Gauges.Get(status.MetricRTP),
		balance:       r.Gauges.Get(status.MetricBalance),
		lastStop:      r.Labels.Get(status.MetricLastStop),
	}
}

// Option configures a Controller
type Option func(*Controller)

// WithPresenter attaches the display
func WithPresenter(p Presenter) Option {
	return func(c *Controller) {
		if p != nil {
			c.presenter = p
		}
	}
}

// WithRecorder attaches round persistence
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		c.recorder = r
	}
}

// WithRegistry publishes session metrics to r
func WithRegistry(r *status.Registry) Option {
	return func(c *Controller) {
		if r != nil {
			c.metrics = newRoundMetrics(r)
		}
	}
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithNow overrides the completion timestamp source
func WithNow(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController creates a controller and publishes the opening state to the presenter
func NewController(spinner Spinner, settings Settings, opts ...Option) (*Controller, error) {
	if spinner == nil {
		return nil, fmt.Errorf("%w: nil spinner", ErrInvalidSettings)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	c := &Controller{
		spinner:   spinner,
		presenter: nopPresenter{},
		log:       zap.NewNop(),
		now:       time.Now,
		price:     settings.SpinPrice,
		balance:   settings.InitialBalance,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.presenter.SetSpinPrice(c.price)
	c.presenter.SetBalance(c.balance)
	c.presenter.SetWin(0)
	c.presenter.SetSpinEnabled(c.CanSpin())
	if c.metrics != nil {
		c.metrics.balance.Store(float64(c.balance))
	}
	return c, nil
}

// HandleSpin starts a round and returns the future of its record
// Returns nil without side effects while a round is in progress or funds are short
func (c *Controller) HandleSpin() *engine.Future[Round] {
	if !c.CanSpin() {
		return nil
	}

	spin, ok := c.spinner.StartSpin()
	if !ok {
		c.log.Warn("reel refused to start", zap.Stringer("phase", c.spinner.Phase()))
		return nil
	}

	before := c.balance
	c.spinning = true
	c.win = 0
	c.balance -= c.price
	c.rounds++
	c.wagered += int64(c.price)
	number := c.rounds

	c.presenter.SetWin(0)
	c.presenter.SetHighlights(nil)
	c.presenter.SetBalance(c.balance)
	c.presenter.SetSpinEnabled(false)
	if c.metrics != nil {
		c.metrics.spins.Add(1)
		c.metrics.wagered.Add(int64(c.price))
		c.metrics.balance.Store(float64(c.balance))
	}

	c.log.Debug("round started", zap.Int("round", number), zap.Int("balance", c.balance))

	round := engine.NewFuture[Round]()
	spin.Then(func(res reel.Result) {
		c.complete(round, number, before, res)
	})
	return round
}

// complete is the continuation of an accepted spin
func (c *Controller) complete(round *engine.Future[Round], number, before int, res reel.Result) {
	c.spinning = false

	payout := Evaluate(res.Symbols)
	win := c.price * payout.Multiplier
	c.win = win
	c.balance += win
	c.paid += int64(win)

	c.presenter.SetHighlights(payout.Positions)
	c.presenter.SetWin(win)
	c.presenter.SetBalance(c.balance)
	c.presenter.SetSpinEnabled(c.CanSpin())
	if win > 0 {
		c.presenter.PlayWin()
	}

	r := Round{
		ID:            uuid.New(),
		Number:        number,
		Symbols:       res.Symbols,
		Payout:        payout,
		Price:         c.price,
		Win:           win,
		BalanceBefore: before,
		BalanceAfter:  c.balance,
		Stop:          res.Stop,
		CompletedAt:   c.now(),
	}

	if c.metrics != nil {
		if win > 0 {
			c.metrics.wins.Add(1)
			c.metrics.paid.Add(int64(win))
		}
		c.metrics.rtp.Store(c.RTP().InexactFloat64())
		c.metrics.balance.Store(float64(c.balance))
		c.metrics.lastStop.Store(res.Stop.String())
	}

	c.log.Debug("round resolved",
		zap.Int("round", number),
		zap.Strings("symbols", res.Symbols),
		zap.Int("multiplier", payout.Multiplier),
		zap.Int("win", win),
		zap.Int("balance", c.balance),
		zap.Stringer("stop", res.Stop),
	)

	if c.recorder != nil {
		if err := c.recorder.Record(r); err != nil {
			c.log.Error("round not journaled", zap.Int("round", number), zap.Error(err))
			if c.metrics != nil {
				c.metrics.journalErrors.Add(1)
			}
		}
	}

	if err := round.Resolve(r); err != nil {
		c.log.Error("round resolved twice", zap.Int("round", number), zap.Error(err))
	}
}

// HandleQuickStop asks the reel for a quick stop while a round is in progress
func (c *Controller) HandleQuickStop() bool {
	if !c.spinning {
		return false
	}
	return c.spinner.StopSpin(true)
}

// HandlePress is the single spin control: spin when idle, quick stop when spinning
func (c *Controller) HandlePress() bool {
	if c.spinning {
		return c.HandleQuickStop()
	}
	return c.HandleSpin() != nil
}

// CanSpin reports whether a new round may start
func (c *Controller) CanSpin() bool {
	return !c.spinning && c.balance >= c.price
}

// Balance returns the current balance
func (c *Controller) Balance() int {
	return c.balance
}

// Win returns the last round's win, zero while spinning
func (c *Controller) Win() int {
	return c.win
}

// SpinPrice returns the price of one round
func (c *Controller) SpinPrice() int {
	return c.price
}

// Spinning reports whether a round is in progress
func (c *Controller) Spinning() bool {
	return c.spinning
}

// Rounds returns the number of rounds started
func (c *Controller) Rounds() int {
	return c.rounds
}

// RTP returns paid over wagered for the session, zero before the first round
func (c *Controller) RTP() decimal.Decimal {
	if c.wagered == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(c.paid).Div(decimal.NewFromInt(c.wagered))
}
