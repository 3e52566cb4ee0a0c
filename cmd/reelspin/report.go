package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"runtime"
	"slices"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/lixenwraith/reelspin/config"
	"github.com/lixenwraith/reelspin/constants"
	"github.com/lixenwraith/reelspin/journal"
	"github.com/lixenwraith/reelspin/reel"
	"github.com/lixenwraith/reelspin/render"
	"github.com/lixenwraith/reelspin/sim"
)

// simulate plays rounds headlessly and prints measured against exact returns
func simulate(args []string, cfg *config.Config, logger *zap.Logger, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	rounds := fs.Int("rounds", constants.DefaultSimRounds, "rounds to play")
	workers := fs.Int("workers", runtime.NumCPU(), "parallel workers")
	quick := fs.Float64("quickstop", 0, "probability of a quick stop per round")
	seed := fs.Uint64("seed", 1, "random seed")
	if err := parseCommand(fs, args); err != nil {
		return err
	}

	opts := sim.Options{
		Rounds:    *rounds,
		Workers:   *workers,
		QuickStop: *quick,
		Seed:      *seed,
		Logger:    logger.Named("sim"),
	}
	if cfg.Journal != "" {
		store, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(); err != nil {
			return err
		}
		opts.Recorder = store
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	rep, err := sim.Run(ctx, cfg, opts)
	if err != nil {
		return err
	}
	strip, err := cfg.NewStrip()
	if err != nil {
		return err
	}
	exact := sim.Analyze(strip, cfg.Visible)

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "rounds\t%d\n", rep.Rounds)
	fmt.Fprintf(tw, "wins\t%d\n", rep.Wins)
	fmt.Fprintf(tw, "hit rate\t%s\t(exact %s)\n", rep.HitRate().StringFixed(4), exact.HitRate().StringFixed(4))
	fmt.Fprintf(tw, "wagered\t%d\n", rep.Wagered)
	fmt.Fprintf(tw, "paid\t%d\n", rep.Paid)
	fmt.Fprintf(tw, "rtp\t%s\t(exact %s)\n", rep.RTP().StringFixed(4), exact.RTP().StringFixed(4))
	fmt.Fprintf(tw, "game time\t%s\n", rep.ClockTime.Round(time.Second))
	fmt.Fprintf(tw, "wall time\t%s\n", time.Since(started).Round(time.Millisecond))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "stop\trounds")
	for _, kind := range []reel.StopKind{reel.StopAuto, reel.StopManual, reel.StopQuick} {
		fmt.Fprintf(tw, "%s\t%d\n", kind, rep.Stops[kind])
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "multiplier\trounds")
	for _, m := range rep.Multipliers() {
		fmt.Fprintf(tw, "x%d\t%d\n", m, rep.Histogram[m])
	}
	return tw.Flush()
}

// analyze prints the exact return of the configured strip
func analyze(cfg *config.Config, stdout io.Writer) error {
	strip, err := cfg.NewStrip()
	if err != nil {
		return err
	}
	symbols, err := render.NewSymbolTable(cfg.Symbols, cfg.Strip)
	if err != nil {
		return err
	}
	a := sim.Analyze(strip, cfg.Visible)

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "stops\t%d\n", a.Stops)
	fmt.Fprintf(tw, "visible\t%d\n", cfg.Visible)
	fmt.Fprintf(tw, "hit rate\t%s\n", a.HitRate().StringFixed(4))
	fmt.Fprintf(tw, "rtp\t%s\n", a.RTP().StringFixed(4))
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "multiplier\tstops")
	for _, m := range a.Multipliers() {
		fmt.Fprintf(tw, "x%d\t%d\n", m, a.Histogram[m])
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "symbol\twinning stops")
	ids := make([]string, 0, len(a.BySymbol))
	for id := range a.BySymbol {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		fmt.Fprintf(tw, "%s\t%d\n", symbols.Label(id), a.BySymbol[id])
	}
	return tw.Flush()
}

// history prints the journal summary and the most recent rounds
func history(args []string, cfg *config.Config, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("limit", constants.DefaultHistoryLimit, "rounds to list")
	if err := parseCommand(fs, args); err != nil {
		return err
	}

	path := cfg.Journal
	if path == "" {
		path = constants.DefaultJournal
	}
	store, err := journal.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		return err
	}

	sum, err := store.Summary()
	if err != nil {
		return err
	}
	rounds, err := store.Recent(*limit)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "rounds\t%d\n", sum.Rounds)
	fmt.Fprintf(tw, "wins\t%d\n", sum.Wins)
	fmt.Fprintf(tw, "hit rate\t%s\n", sum.HitRate().StringFixed(4))
	fmt.Fprintf(tw, "rtp\t%s\n", sum.RTP().StringFixed(4))
	fmt.Fprintf(tw, "biggest win\t%d\n", sum.BiggestWin)
	if len(rounds) == 0 {
		return tw.Flush()
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "time\tround\tsymbols\twin\tbalance\tstop")
	for _, r := range rounds {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%s\n",
			r.CompletedAt.Local().Format(time.DateTime),
			r.Number,
			strings.Join(r.Symbols, " "),
			r.Win,
			r.BalanceAfter,
			r.Stop,
		)
	}
	return tw.Flush()
}
