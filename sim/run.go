package sim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/reelspin/config"
	"github.com/lixenwraith/reelspin/constants"
	"github.com/lixenwraith/reelspin/engine"
	"github.com/lixenwraith/reelspin/game"
	"github.com/lixenwraith/reelspin/reel"
)

var (
	// ErrInvalidOptions marks unusable run options
	ErrInvalidOptions = errors.New("invalid simulation options")
	// ErrStalled is returned when a round does not resolve within its frame budget
	ErrStalled = errors.New("round did not resolve")
)

// Options control a headless run
type Options struct {
	Rounds  int
	Workers int
	// QuickStop is the probability that a round is quick-stopped before auto-stop
	QuickStop float64
	Seed      uint64
	// Frame is the mean frame delta; each frame jitters by up to half of it
	Frame time.Duration
	// Recorder receives every round; must be safe for concurrent use
	Recorder game.Recorder
	Logger   *zap.Logger
}

func (o *Options) normalize() error {
	if o.Rounds < 0 {
		return fmt.Errorf("%w: rounds %d", ErrInvalidOptions, o.Rounds)
	}
	if o.QuickStop < 0 || o.QuickStop > 1 {
		return fmt.Errorf("%w: quick stop probability %v", ErrInvalidOptions, o.QuickStop)
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Frame <= 0 {
		o.Frame = constants.FrameUpdateInterval
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return nil
}

// Report aggregates a run
type Report struct {
	Rounds    int
	Wins      int
	Wagered   int64
	Paid      int64
	Histogram map[int]int
	Stops     map[reel.StopKind]int
	// ClockTime is the summed game time across workers
	ClockTime time.Duration
}

func newReport() Report {
	return Report{Histogram: make(map[int]int), Stops: make(map[reel.StopKind]int)}
}

func (r *Report) add(round game.Round) {
	r.Rounds++
	r.Wagered += int64(round.Price)
	r.Paid += int64(round.Win)
	if round.Win > 0 {
		r.Wins++
	}
	r.Histogram[round.Payout.Multiplier]++
	r.Stops[round.Stop]++
}

func (r *Report) merge(o Report) {
	r.Rounds += o.Rounds
	r.Wins += o.Wins
	r.Wagered += o.Wagered
	r.Paid += o.Paid
	r.ClockTime += o.ClockTime
	for k, v := range o.Histogram {
		r.Histogram[k] += v
	}
	for k, v := range o.Stops {
		r.Stops[k] += v
	}
}

// RTP returns paid over wagered
func (r Report) RTP() decimal.Decimal {
	if r.Wagered == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(r.Paid).Div(decimal.NewFromInt(r.Wagered))
}

// HitRate returns the fraction of winning rounds
func (r Report) HitRate() decimal.Decimal {
	if r.Rounds == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(r.Wins)).Div(decimal.NewFromInt(int64(r.Rounds)))
}

// Multipliers returns the histogram keys in ascending order
func (r Report) Multipliers() []int {
	return slices.Sorted(maps.Keys(r.Histogram))
}

// Run plays opts.Rounds rounds through the real engine and controller
// Rounds are split across workers, each with its own clock, reel and RNG stream
// The report is deterministic for a given seed and worker count
func Run(ctx context.Context, cfg *config.Config, opts Options) (Report, error) {
	if err := cfg.Validate(); err != nil {
		return Report{}, err
	}
	if err := opts.normalize(); err != nil {
		return Report{}, err
	}
	strip, err := cfg.NewStrip()
	if err != nil {
		return Report{}, err
	}

	reports := make([]Report, opts.Workers)
	chunk, rem := opts.Rounds/opts.Workers, opts.Rounds%opts.Workers

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < opts.Workers; w++ {
		n := chunk
		if w < rem {
			n++
		}
		g.Go(func() error {
			rep, err := runWorker(ctx, w, n, strip, cfg, opts)
			reports[w] = rep
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	total := newReport()
	for _, rep := range reports {
		total.merge(rep)
	}
	opts.Logger.Info("simulation finished",
		zap.Int("rounds", total.Rounds),
		zap.Int("workers", opts.Workers),
		zap.String("rtp", total.RTP().StringFixed(4)),
	)
	return total, nil
}

func runWorker(ctx context.Context, id, rounds int, strip *reel.Strip, cfg *config.Config, opts Options) (Report, error) {
	rep := newReport()
	if rounds == 0 {
		return rep, nil
	}

	log := opts.Logger.With(zap.Int("worker", id))
	clock := engine.NewFrameClock()
	e, err := reel.NewEngine(strip, cfg.ReelConfig(), clock, reel.WithLogger(log))
	if err != nil {
		return rep, err
	}

	// Fund every round up front so the session never runs dry
	ctrlOpts := []game.Option{game.WithLogger(log)}
	if opts.Recorder != nil {
		ctrlOpts = append(ctrlOpts, game.WithRecorder(opts.Recorder))
	}
	ctrl, err := game.NewController(e, game.Settings{
		InitialBalance: rounds * cfg.SpinPrice,
		SpinPrice:      cfg.SpinPrice,
	}, ctrlOpts...)
	if err != nil {
		return rep, err
	}

	rng := rand.New(rand.NewPCG(opts.Seed, uint64(id)))
	budget := int(10*cfg.SpinDuration/opts.Frame) + 1000
	// Longest frame is 1.5x the mean; quick stops land before auto-stop can fire
	quickWindow := int(cfg.SpinDuration / (opts.Frame * 3 / 2))

	for i := 0; i < rounds; i++ {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		f := ctrl.HandleSpin()
		if f == nil {
			return rep, fmt.Errorf("worker %d: round %d refused with balance %d", id, i+1, ctrl.Balance())
		}

		stopAt := -1
		if rng.Float64() < opts.QuickStop && quickWindow > 1 {
			stopAt = rng.IntN(quickWindow-1) + 1
		}

		for step := 0; !f.Resolved(); step++ {
			if step >= budget {
				return rep, fmt.Errorf("%w: worker %d round %d after %d frames", ErrStalled, id, i+1, step)
			}
			dt := opts.Frame/2 + time.Duration(rng.Int64N(int64(opts.Frame)))
			clock.Advance(dt)
			if step+1 == stopAt {
				ctrl.HandleQuickStop()
			}
		}

		round, _ := f.Value()
		rep.add(round)
	}
	rep.ClockTime = clock.Elapsed()
	return rep, nil
}
