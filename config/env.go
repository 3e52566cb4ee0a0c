package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment overrides
const (
	EnvInitialBalance = "REELSPIN_INITIAL_BALANCE"
	EnvSpinPrice      = "REELSPIN_SPIN_PRICE"
	EnvSpinDuration   = "REELSPIN_SPIN_DURATION"
	EnvJournal        = "REELSPIN_JOURNAL"
)

// ApplyEnv overlays environment overrides onto c
// Values come from envFile when it exists; the process environment wins over the file
func (c *Config) ApplyEnv(envFile string) error {
	vars := map[string]string{}
	if envFile != "" {
		fileVars, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			vars = fileVars
		case errors.Is(err, fs.ErrNotExist):
		default:
			return fmt.Errorf("read env file %s: %w", envFile, err)
		}
	}
	for _, key := range []string{EnvInitialBalance, EnvSpinPrice, EnvSpinDuration, EnvJournal} {
		if v, ok := os.LookupEnv(key); ok {
			vars[key] = v
		}
	}

	if v, ok := vars[EnvInitialBalance]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvInitialBalance, v, err)
		}
		c.InitialBalance = n
	}
	if v, ok := vars[EnvSpinPrice]; ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvSpinPrice, v, err)
		}
		c.SpinPrice = n
	}
	if v, ok := vars[EnvSpinDuration]; ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q: %v", ErrInvalidConfig, EnvSpinDuration, v, err)
		}
		c.SpinDuration = d
	}
	if v, ok := vars[EnvJournal]; ok {
		c.Journal = v
	}
	return nil
}
