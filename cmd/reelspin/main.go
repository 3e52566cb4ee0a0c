package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/lixenwraith/reelspin/config"
	"github.com/lixenwraith/reelspin/constants"
)

// globalFlags are accepted before the command name
type globalFlags struct {
	configPath string
	debug      bool
	journal    string
	mute       bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run parses flags, dispatches the command and returns the exit code
func run(args []string, stdout, stderr io.Writer) int {
	var g globalFlags
	fs := flag.NewFlagSet("reelspin", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&g.configPath, "config", "", "YAML config file")
	fs.BoolVar(&g.debug, "debug", false, "write debug logs under "+constants.LogDir)
	fs.StringVar(&g.journal, "journal", "", "SQLite journal recording every round")
	fs.BoolVar(&g.mute, "mute", false, "start with audio muted")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: reelspin [flags] [play|simulate|analyze|history] [command flags]\n\nFlags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	command, rest := "play", fs.Args()
	if len(rest) > 0 {
		command, rest = rest[0], rest[1:]
	}

	cfg, err := loadConfig(g)
	if err != nil {
		fmt.Fprintf(stderr, "reelspin: %v\n", err)
		return 1
	}

	logger, closeLog, err := setupLogging(g.debug, constants.LogDir)
	if err != nil {
		fmt.Fprintf(stderr, "reelspin: %v\n", err)
		return 1
	}
	defer closeLog()

	switch command {
	case "play":
		err = play(cfg, logger)
	case "simulate":
		err = simulate(rest, cfg, logger, stdout, stderr)
	case "analyze":
		err = analyze(cfg, stdout)
	case "history":
		err = history(rest, cfg, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "reelspin: unknown command %q\n", command)
		fs.Usage()
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "reelspin: %v\n", err)
		return 1
	}
}

// errUsage marks a command flag error already reported by its FlagSet
var errUsage = errors.New("usage")

// loadConfig layers defaults, the YAML file, the environment and the global flags
func loadConfig(g globalFlags) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(constants.EnvFile); err != nil {
		return nil, err
	}
	if g.journal != "" {
		cfg.Journal = g.journal
	}
	if g.mute {
		cfg.Muted = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseCommand parses command flags, mapping parse failures to errUsage
func parseCommand(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %v\n", fs.Args())
		return errUsage
	}
	return nil
}
