package reel

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/reelspin/engine"
)

// ErrInvalidConfig is returned for motion settings the engine cannot run with
var ErrInvalidConfig = errors.New("invalid reel config")

// Config holds reel geometry and motion
type Config struct {
	// Visible is the window size reported in results
	Visible int
	// SymbolHeight is the offset distance of one symbol
	SymbolHeight float64
	// Speed is the scroll speed in offset units per millisecond
	Speed float64
	// SpinDuration arms the auto-stop fallback
	SpinDuration time.Duration
}

// Validate checks the config for usable values
func (c Config) Validate() error {
	switch {
	case c.Visible < 1:
		return fmt.Errorf("%w: visible %d", ErrInvalidConfig, c.Visible)
	case !(c.SymbolHeight > 0):
		return fmt.Errorf("%w: symbol height %v", ErrInvalidConfig, c.SymbolHeight)
	case !(c.Speed > 0):
		return fmt.Errorf("%w: speed %v", ErrInvalidConfig, c.Speed)
	case c.SpinDuration <= 0:
		return fmt.Errorf("%w: spin duration %v", ErrInvalidConfig, c.SpinDuration)
	}
	return nil
}

// Clock is the frame clock capability the engine schedules itself on
type Clock interface {
	Register(t engine.Ticker) *engine.Subscription
	AfterFunc(d time.Duration, fn func()) *engine.Timer
}

// LoopSound is the looping spin sound collaborator
type LoopSound interface {
	StartSpinLoop()
	StopSpinLoop()
}

type silentLoop struct{}

func (silentLoop) StartSpinLoop() {}
func (silentLoop) StopSpinLoop()  {}

// Result is the visible window at rest
type Result struct {
	Symbols []string
	// Index is the strip position of the top visible symbol
	Index  int
	Offset float64
	Stop   StopKind
}

// Engine animates a cyclic strip and reports the window where it stops
// All methods run on the frame goroutine; the engine never blocks
type Engine struct {
	strip *Strip
	cfg   Config
	clock Clock
	sound LoopSound
	log   *zap.Logger

	phase  Phase
	offset float64
	target float64
	stop   StopKind

	sub      *engine.Subscription
	autoStop *engine.Timer
	pending  *engine.Future[Result]
}

// Option configures an Engine
type Option func(*Engine)

// WithSound attaches the looping spin sound
func WithSound(s LoopSound) Option {
	return func(e *Engine) {
		if s != nil {
			e.sound = s
		}
	}
}

// WithLogger attaches a logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine creates an idle engine at offset zero
func NewEngine(strip *Strip, cfg Config, clock Clock, opts ...Option) (*Engine, error) {
	if strip == nil {
		return nil, fmt.Errorf("%w: nil strip", ErrInvalidStrip)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if strip.Len() < cfg.Visible {
		return nil, fmt.Errorf("%w: %d symbols cannot fill a window of %d", ErrInvalidStrip, strip.Len(), cfg.Visible)
	}
	if clock == nil {
		return nil, fmt.Errorf("%w: nil clock", ErrInvalidConfig)
	}

	e := &Engine{
		strip: strip,
		cfg:   cfg,
		clock: clock,
		sound: silentLoop{},
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// StartSpin begins a spin and returns the future of its result
// Returns (nil, false) without touching state unless the reel is idle
func (e *Engine) StartSpin() (*engine.Future[Result], bool) {
	if e.phase != PhaseIdle {
		return nil, false
	}

	e.phase = PhaseSpinning
	e.stop = StopNone
	e.pending = engine.NewFuture[Result]()

	e.sound.StartSpinLoop()
	e.sub = e.clock.Register(e)
	e.autoStop = e.clock.AfterFunc(e.cfg.SpinDuration, func() {
		e.autoStop = nil
		e.beginStop(false, StopAuto)
	})

	e.log.Debug("spin started", zap.Float64("offset", e.offset))
	return e.pending, true
}

// StopSpin requests a stop at a symbol boundary
// hideVisible adds one visible window of extra travel before the stop
// No-op returning false when idle or already decelerating
func (e *Engine) StopSpin(hideVisible bool) bool {
	kind := StopManual
	if hideVisible {
		kind = StopQuick
	}
	return e.beginStop(hideVisible, kind)
}

func (e *Engine) beginStop(hideVisible bool, kind StopKind) bool {
	if e.phase != PhaseSpinning {
		return false
	}

	if e.autoStop != nil {
		e.autoStop.Stop()
		e.autoStop = nil
	}

	// Next whole-symbol boundary in the direction of travel
	index := math.Ceil(e.offset / e.cfg.SymbolHeight)
	if hideVisible {
		index += float64(e.cfg.Visible)
	}
	e.target = index * e.cfg.SymbolHeight
	e.phase = PhaseDecelerating
	e.stop = kind

	e.log.Debug("spin stopping",
		zap.Stringer("kind", kind),
		zap.Float64("offset", e.offset),
		zap.Float64("target", e.target),
	)
	return true
}

// Tick advances the reel by dt, implements engine.Ticker
func (e *Engine) Tick(dt time.Duration) {
	step := e.cfg.Speed * float64(dt) / float64(time.Millisecond)
	extent := e.Extent()

	switch e.phase {
	case PhaseSpinning:
		e.offset += step
		for e.offset >= extent {
			e.offset -= extent
		}

	case PhaseDecelerating:
		if e.offset < e.target {
			e.offset += step
			// Wrap both together so the comparison survives the seam
			if e.target >= extent && e.offset >= extent {
				e.target -= extent
				e.offset -= extent
			}
			return
		}
		e.finish()
	}
}

// finish snaps to the target and resolves the pending future
// State is fully reset before resolution so continuations may start the next spin
func (e *Engine) finish() {
	e.offset = e.target
	e.phase = PhaseIdle
	stop := e.stop

	e.sound.StopSpinLoop()
	e.sub.Cancel()
	e.sub = nil

	result := e.VisibleResult()
	result.Stop = stop

	pending := e.pending
	e.pending = nil

	e.log.Debug("spin finished",
		zap.Strings("symbols", result.Symbols),
		zap.Int("index", result.Index),
		zap.Stringer("kind", stop),
	)

	if pending == nil {
		return
	}
	if err := pending.Resolve(result); err != nil {
		e.log.Error("spin result delivered twice", zap.Error(err))
	}
}

// VisibleResult returns the window at the current offset
func (e *Engine) VisibleResult() Result {
	return ResultAt(e.strip, e.offset, e.cfg.SymbolHeight, e.cfg.Visible)
}

// ResultAt returns the visible window for an offset
// Pure and periodic: offsets one strip extent apart yield the same symbols
func ResultAt(strip *Strip, offset, symbolHeight float64, visible int) Result {
	n := strip.Len()
	index := int(math.Round(offset/symbolHeight)) % n
	if index < 0 {
		index += n
	}
	return Result{
		Symbols: strip.Window(index, visible),
		Index:   index,
		Offset:  offset,
	}
}

// Extent returns the offset length of one full strip traversal
func (e *Engine) Extent() float64 {
	return float64(e.strip.Len()) * e.cfg.SymbolHeight
}

// Phase returns the current state
func (e *Engine) Phase() Phase {
	return e.phase
}

// Offset returns the current scroll offset
func (e *Engine) Offset() float64 {
	return e.offset
}

// Target returns the stop target, meaningful while decelerating
func (e *Engine) Target() float64 {
	return e.target
}

// Strip returns the engine's strip
func (e *Engine) Strip() *Strip {
	return e.strip
}

// Config returns the engine's motion settings
func (e *Engine) Config() Config {
	return e.cfg
}

// Window is a render snapshot of the reel
type Window struct {
	Strip        *Strip
	Offset       float64
	SymbolHeight float64
	Visible      int
	Phase        Phase
}

// Window returns a snapshot for the view layer
func (e *Engine) Window() Window {
	return Window{
		Strip:        e.strip,
		Offset:       e.offset,
		SymbolHeight: e.cfg.SymbolHeight,
		Visible:      e.cfg.Visible,
		Phase:        e.phase,
	}
}
