package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/reelspin/constants"
	"github.com/lixenwraith/reelspin/game"
	"github.com/lixenwraith/reelspin/reel"
)

var (
	// ErrInvalidConfig marks values outside their allowed range
	ErrInvalidConfig = errors.New("invalid config")
	// ErrUnknownSymbol marks a strip symbol without a visual
	ErrUnknownSymbol = errors.New("unknown symbol")
)

// Visual is how a symbol is drawn
type Visual struct {
	Glyph string `yaml:"glyph"`
	Label string `yaml:"label"`
	Color string `yaml:"color"`
}

// Config is the full game configuration
type Config struct {
	InitialBalance int               `yaml:"initial_balance"`
	SpinPrice      int               `yaml:"spin_price"`
	Visible        int               `yaml:"visible"`
	SymbolHeight   float64           `yaml:"symbol_height"`
	Speed          float64           `yaml:"speed"`
	SpinDuration   time.Duration     `yaml:"spin_duration"`
	Strip          []string          `yaml:"strip"`
	Symbols        map[string]Visual `yaml:"symbols"`
	Journal        string            `yaml:"journal"`
	Muted          bool              `yaml:"muted"`
}

// DefaultSymbols is the built-in symbol table
func DefaultSymbols() map[string]Visual {
	return map[string]Visual{
		"SYM1": {Glyph: "@", Label: "CHERRY", Color: "red"},
		"SYM2": {Glyph: "O", Label: "LEMON", Color: "yellow"},
		"SYM3": {Glyph: "%", Label: "PLUM", Color: "orchid"},
		"SYM4": {Glyph: "A", Label: "BELL", Color: "gold"},
		"SYM5": {Glyph: "=", Label: "BAR", Color: "silver"},
		"SYM6": {Glyph: "7", Label: "SEVEN", Color: "crimson"},
	}
}

// Default returns the built-in configuration
func Default() *Config {
	strip := make([]string, len(constants.DefaultStrip))
	copy(strip, constants.DefaultStrip)

	return &Config{
		InitialBalance: constants.InitialBalance,
		SpinPrice:      constants.SpinPrice,
		Visible:        constants.VisibleSymbols,
		SymbolHeight:   constants.SymbolHeight,
		Speed:          constants.SpinSpeed,
		SpinDuration:   constants.NormalSpinDuration,
		Strip:          strip,
		Symbols:        DefaultSymbols(),
	}
}

// Load returns the defaults overlaid with the YAML file at path
// Keys absent from the file keep their default; symbols merge into the default table
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects configurations the game cannot start with
func (c *Config) Validate() error {
	switch {
	case c.InitialBalance < 0:
		return fmt.Errorf("%w: initial balance %d is negative", ErrInvalidConfig, c.InitialBalance)
	case c.SpinPrice <= 0:
		return fmt.Errorf("%w: spin price must be positive, got %d", ErrInvalidConfig, c.SpinPrice)
	case c.Visible < 1:
		return fmt.Errorf("%w: visible count must be positive, got %d", ErrInvalidConfig, c.Visible)
	case !(c.SymbolHeight > 0):
		return fmt.Errorf("%w: symbol height must be positive, got %v", ErrInvalidConfig, c.SymbolHeight)
	case !(c.Speed > 0):
		return fmt.Errorf("%w: speed must be positive, got %v", ErrInvalidConfig, c.Speed)
	case c.SpinDuration <= 0:
		return fmt.Errorf("%w: spin duration must be positive, got %v", ErrInvalidConfig, c.SpinDuration)
	case len(c.Strip) < c.Visible:
		return fmt.Errorf("%w: strip has %d symbols, needs at least %d", ErrInvalidConfig, len(c.Strip), c.Visible)
	}

	for i, sym := range c.Strip {
		v, ok := c.Symbols[sym]
		if !ok {
			return fmt.Errorf("%w: %q at strip position %d", ErrUnknownSymbol, sym, i)
		}
		if v.Glyph == "" {
			return fmt.Errorf("%w: symbol %q has no glyph", ErrInvalidConfig, sym)
		}
	}
	return nil
}

// ReelConfig returns the reel motion settings
func (c *Config) ReelConfig() reel.Config {
	return reel.Config{
		Visible:      c.Visible,
		SymbolHeight: c.SymbolHeight,
		Speed:        c.Speed,
		SpinDuration: c.SpinDuration,
	}
}

// Settings returns the round economics
func (c *Config) Settings() game.Settings {
	return game.Settings{
		InitialBalance: c.InitialBalance,
		SpinPrice:      c.SpinPrice,
	}
}

// NewStrip builds the reel strip
func (c *Config) NewStrip() (*reel.Strip, error) {
	return reel.NewStrip(c.Strip, c.Visible)
}
