package constants

import (
	"testing"
)

// TestReelGeometry verifies reel constants describe a scrollable window
func TestReelGeometry(t *testing.T) {
	if VisibleSymbols != 3 {
		t.Errorf("Expected 3 visible symbols, got %d", VisibleSymbols)
	}
	if SymbolHeight <= 0 {
		t.Error("SymbolHeight must be positive")
	}
	if SpinSpeed <= 0 {
		t.Error("SpinSpeed must be positive")
	}
	if NormalSpinDuration <= FrameUpdateInterval {
		t.Errorf("Spin duration %v should span many frames (%v)", NormalSpinDuration, FrameUpdateInterval)
	}
	if len(DefaultStrip) < VisibleSymbols {
		t.Errorf("Default strip has %d symbols, need at least %d", len(DefaultStrip), VisibleSymbols)
	}
}

// TestRoundEconomics verifies a new session can afford at least one spin
func TestRoundEconomics(t *testing.T) {
	if SpinPrice <= 0 {
		t.Fatalf("SpinPrice must be positive, got %d", SpinPrice)
	}
	if InitialBalance < SpinPrice {
		t.Errorf("InitialBalance %d cannot afford a spin of %d", InitialBalance, SpinPrice)
	}
}

// TestLayoutFitsClassicTerminal verifies the reel box fits an 80x24 terminal
func TestLayoutFitsClassicTerminal(t *testing.T) {
	height := ReelMarginY + VisibleSymbols*RowsPerSymbol + 2
	if height > 24 {
		t.Errorf("Reel box height %d exceeds 24 rows", height)
	}
	width := ReelMarginX + ReelWidth + 2 + PanelGap + len(TextSpinPrice) + 8
	if width > 80 {
		t.Errorf("Layout width %d exceeds 80 columns", width)
	}
}
