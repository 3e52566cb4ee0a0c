package status

import (
	"strconv"
	"sync/atomic"
)

// Metric keys published by the game
const (
	MetricSpins     = "game.spins"
	MetricWins      = "game.wins"
	MetricWagered   = "game.wagered"
	MetricPaid      = "game.paid"
	MetricRTP       = "game.rtp"
	MetricBalance   = "game.balance"
	MetricReelPhase = "reel.phase"
	MetricLastStop  = "reel.stop"
	MetricMuted     = "audio.muted"
	MetricJournal   = "journal.errors"
)

// Registry groups metrics by value type
// Writers cache the pointer returned by Get once; updates after that are lock-free
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Gauges   *MetricMap[AtomicFloat]
	Labels   *MetricMap[AtomicString]
	Flags    *MetricMap[atomic.Bool]
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Gauges:   NewMetricMap[AtomicFloat](),
		Labels:   NewMetricMap[AtomicString](),
		Flags:    NewMetricMap[atomic.Bool](),
	}
}

// Sample is one formatted metric reading
type Sample struct {
	Key   string
	Value string
}

// Snapshot formats every metric, counters first, each group in key order
func (r *Registry) Snapshot() []Sample {
	out := make([]Sample, 0, r.Len())
	r.Counters.Range(func(key string, v *atomic.Int64) {
		out = append(out, Sample{key, strconv.FormatInt(v.Load(), 10)})
	})
	r.Gauges.Range(func(key string, v *AtomicFloat) {
		out = append(out, Sample{key, strconv.FormatFloat(v.Load(), 'f', 4, 64)})
	})
	r.Labels.Range(func(key string, v *AtomicString) {
		out = append(out, Sample{key, v.Load()})
	})
	r.Flags.Range(func(key string, v *atomic.Bool) {
		out = append(out, Sample{key, strconv.FormatBool(v.Load())})
	})
	return out
}

// Len returns the number of metrics across all groups
func (r *Registry) Len() int {
	return r.Counters.Len() + r.Gauges.Len() + r.Labels.Len() + r.Flags.Len()
}
