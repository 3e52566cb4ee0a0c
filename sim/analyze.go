package sim

import (
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/lixenwraith/reelspin/game"
	"github.com/lixenwraith/reelspin/reel"
)

// Analysis is the exact return of a strip, assuming every stop position is equally likely
type Analysis struct {
	Stops     int
	Hits      int
	Histogram map[int]int
	// BySymbol counts winning stops per matched symbol
	BySymbol map[string]int
	// TotalMultiplier is the sum of multipliers over all stops
	TotalMultiplier int
}

// Analyze evaluates every stop position of strip
func Analyze(strip *reel.Strip, visible int) Analysis {
	a := Analysis{
		Stops:     strip.Len(),
		Histogram: make(map[int]int),
		BySymbol:  make(map[string]int),
	}
	for i := 0; i < strip.Len(); i++ {
		p := game.Evaluate(strip.Window(i, visible))
		a.Histogram[p.Multiplier]++
		a.TotalMultiplier += p.Multiplier
		if p.Won() {
			a.Hits++
			a.BySymbol[p.Symbol]++
		}
	}
	return a
}

// RTP returns the expected return per unit wagered
// Win is price times multiplier, so the price cancels out
func (a Analysis) RTP() decimal.Decimal {
	if a.Stops == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(a.TotalMultiplier)).Div(decimal.NewFromInt(int64(a.Stops)))
}

// HitRate returns the probability that a round pays
func (a Analysis) HitRate() decimal.Decimal {
	if a.Stops == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(a.Hits)).Div(decimal.NewFromInt(int64(a.Stops)))
}

// Multipliers returns the histogram keys in ascending order
func (a Analysis) Multipliers() []int {
	return slices.Sorted(maps.Keys(a.Histogram))
}
