package game

// Payout is the outcome of the payout rule for one visible window
type Payout struct {
	// Symbol is the matched symbol, empty when nothing matched
	Symbol     string
	Multiplier int
	// Positions are window indices holding Symbol, in ascending order
	Positions []int
}

// Won reports whether the window pays
func (p Payout) Won() bool {
	return p.Multiplier > 0
}

// Evaluate applies the match-count rule to a visible window
// The most frequent symbol pays its count as the multiplier when it appears at least twice
// Ties go to the symbol that appears first in the window
func Evaluate(symbols []string) Payout {
	counts := make(map[string]int, len(symbols))
	maxCount := 0
	for _, s := range symbols {
		counts[s]++
		if counts[s] > maxCount {
			maxCount = counts[s]
		}
	}
	if maxCount < 2 {
		return Payout{}
	}

	var match string
	for _, s := range symbols {
		if counts[s] == maxCount {
			match = s
			break
		}
	}

	positions := make([]int, 0, maxCount)
	for i, s := range symbols {
		if s == match {
			positions = append(positions, i)
		}
	}
	return Payout{Symbol: match, Multiplier: maxCount, Positions: positions}
}
