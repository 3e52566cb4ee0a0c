package reel

import (
	"errors"
	"fmt"
)

// ErrInvalidStrip is returned for strips that cannot fill the visible window
var ErrInvalidStrip = errors.New("invalid reel strip")

// Strip is the immutable cyclic sequence of symbol identifiers on the reel
type Strip struct {
	symbols []string
}

// NewStrip copies symbols into a strip able to fill a window of visible symbols
func NewStrip(symbols []string, visible int) (*Strip, error) {
	if visible < 1 {
		return nil, fmt.Errorf("%w: visible window must be at least 1, got %d", ErrInvalidStrip, visible)
	}
	if len(symbols) < visible {
		return nil, fmt.Errorf("%w: %d symbols cannot fill a window of %d", ErrInvalidStrip, len(symbols), visible)
	}
	for i, s := range symbols {
		if s == "" {
			return nil, fmt.Errorf("%w: empty symbol at position %d", ErrInvalidStrip, i)
		}
	}

	own := make([]string, len(symbols))
	copy(own, symbols)
	return &Strip{symbols: own}, nil
}

// Len returns the number of symbols N
func (s *Strip) Len() int {
	return len(s.symbols)
}

// At returns the symbol at i, wrapping in both directions
func (s *Strip) At(i int) string {
	n := len(s.symbols)
	i %= n
	if i < 0 {
		i += n
	}
	return s.symbols[i]
}

// Window returns count consecutive symbols starting at start, wrapping on the strip
func (s *Strip) Window(start, count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = s.At(start + i)
	}
	return out
}

// Symbols returns a copy of the strip contents
func (s *Strip) Symbols() []string {
	out := make([]string, len(s.symbols))
	copy(out, s.symbols)
	return out
}

// Rendered returns the strip followed by its first visible symbols
// A view scrolling over this sequence never exposes the wrap seam inside the window
func (s *Strip) Rendered(visible int) []string {
	out := make([]string, 0, len(s.symbols)+visible)
	out = append(out, s.symbols...)
	return append(out, s.Window(0, visible)...)
}

// Counts returns how many times each symbol appears
func (s *Strip) Counts() map[string]int {
	counts := make(map[string]int)
	for _, sym := range s.symbols {
		counts[sym]++
	}
	return counts
}
