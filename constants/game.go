package constants

import "time"

// Round economics
const (
	// InitialBalance is the credit a new session starts with
	InitialBalance = 100

	// SpinPrice is debited from the balance when a spin starts
	SpinPrice = 1
)

// Reel geometry and motion
const (
	// VisibleSymbols is the size of the visible window
	VisibleSymbols = 3

	// SymbolHeight is the height of one symbol in offset units
	SymbolHeight = 100.0

	// SpinSpeed is the scroll speed in offset units per millisecond
	SpinSpeed = 2.0

	// NormalSpinDuration is the auto-stop fallback when no quick stop arrives
	NormalSpinDuration = 3000 * time.Millisecond
)

// DefaultStrip is the built-in reel strip; repetition sets the outcome distribution
var DefaultStrip = []string{
	"SYM1", "SYM5", "SYM1", "SYM3", "SYM4", "SYM3", "SYM2", "SYM4", "SYM3", "SYM6",
	"SYM3", "SYM1", "SYM6", "SYM1", "SYM2", "SYM1", "SYM2", "SYM2", "SYM2", "SYM1",
	"SYM2", "SYM1", "SYM4", "SYM1", "SYM3", "SYM6", "SYM1", "SYM3", "SYM2", "SYM5",
	"SYM3", "SYM1", "SYM2", "SYM2", "SYM2", "SYM1", "SYM4", "SYM1", "SYM4", "SYM1",
	"SYM3", "SYM2", "SYM4", "SYM4", "SYM5", "SYM2", "SYM3", "SYM1", "SYM1", "SYM1",
	"SYM4", "SYM5", "SYM2", "SYM2", "SYM2", "SYM1", "SYM5", "SYM6", "SYM1", "SYM3",
	"SYM4", "SYM2", "SYM5", "SYM2", "SYM1", "SYM5", "SYM1", "SYM2", "SYM1", "SYM1",
	"SYM1", "SYM4", "SYM4", "SYM3", "SYM3", "SYM5", "SYM5", "SYM4", "SYM2", "SYM5",
	"SYM2", "SYM1", "SYM3", "SYM2", "SYM3", "SYM1", "SYM4", "SYM3", "SYM4", "SYM2",
	"SYM3", "SYM4", "SYM1", "SYM1", "SYM1", "SYM2", "SYM6", "SYM3", "SYM2", "SYM3",
	"SYM1", "SYM5",
}
