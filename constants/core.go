package constants

import "time"

// Frame Loop Timing
const (
	// FrameUpdateInterval is the rendering and reel tick interval (~60 FPS)
	FrameUpdateInterval = 16 * time.Millisecond

	// MaxFrameDelta caps a single tick delta after a stall (suspended terminal, debugger)
	MaxFrameDelta = 250 * time.Millisecond

	// InputEventBuffer is the capacity of the terminal event channel
	InputEventBuffer = 64
)

// Logging
const (
	LogDir        = "logs"
	LogFileName   = "reelspin.log"
	MaxLogSizeMB  = 10
	MaxLogBackups = 3
)

// Command line defaults
const (
	// EnvFile is the optional dotenv file read from the working directory
	EnvFile = ".env"

	// DefaultJournal is the journal path the history command reads when none is configured
	DefaultJournal = "reelspin.db"

	// DefaultSimRounds is the simulate command's round count
	DefaultSimRounds = 100_000

	// DefaultHistoryLimit is the history command's row count
	DefaultHistoryLimit = 20
)
