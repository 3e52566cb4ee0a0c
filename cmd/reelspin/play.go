package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/reelspin/audio"
	"github.com/lixenwraith/reelspin/config"
	"github.com/lixenwraith/reelspin/constants"
	"github.com/lixenwraith/reelspin/engine"
	"github.com/lixenwraith/reelspin/game"
	"github.com/lixenwraith/reelspin/journal"
	"github.com/lixenwraith/reelspin/reel"
	"github.com/lixenwraith/reelspin/render"
	"github.com/lixenwraith/reelspin/status"
)

// keyAction is what a key press asks the game loop to do
type keyAction int

const (
	actionNone keyAction = iota
	actionPress
	actionMute
	actionQuit
)

// actionForKey maps a terminal key to a game action
func actionForKey(key tcell.Key, r rune) keyAction {
	switch key {
	case tcell.KeyEnter:
		return actionPress
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
		switch r {
		case ' ':
			return actionPress
		case 'm', 'M':
			return actionMute
		case 'q', 'Q':
			return actionQuit
		}
	}
	return actionNone
}

// play runs the interactive terminal game until the player quits
func play(cfg *config.Config, logger *zap.Logger) error {
	strip, err := cfg.NewStrip()
	if err != nil {
		return err
	}
	symbols, err := render.NewSymbolTable(cfg.Symbols, cfg.Strip)
	if err != nil {
		return err
	}

	var recorder game.Recorder
	if cfg.Journal != "" {
		store, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Migrate(); err != nil {
			return err
		}
		recorder = store
		logger.Info("journal opened", zap.String("path", cfg.Journal), zap.Stringer("session", store.Session()))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer screen.Fini()

	// Restore the terminal before reporting a crash
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			fmt.Fprintf(os.Stderr, "\nREELSPIN CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()

	sound := audio.NewSoundManager(logger.Named("audio"))
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio unavailable, continuing without audio", zap.Error(err))
	}
	defer sound.Cleanup()
	sound.SetMuted(cfg.Muted)

	registry := status.NewRegistry()
	registry.Flags.Get(status.MetricMuted).Store(cfg.Muted)

	clock := engine.NewFrameClock()
	reelEngine, err := reel.NewEngine(strip, cfg.ReelConfig(), clock,
		reel.WithSound(sound),
		reel.WithLogger(logger.Named("reel")),
	)
	if err != nil {
		return err
	}

	term := render.NewTerminal(screen, symbols,
		render.WithRegistry(registry),
		render.WithWinSound(sound),
	)

	ctrlOpts := []game.Option{
		game.WithPresenter(term),
		game.WithRegistry(registry),
		game.WithLogger(logger.Named("game")),
	}
	if recorder != nil {
		ctrlOpts = append(ctrlOpts, game.WithRecorder(recorder))
	}
	ctrl, err := game.NewController(reelEngine, cfg.Settings(), ctrlOpts...)
	if err != nil {
		return err
	}

	driver := engine.NewDriver(clock, engine.NewMonotonicTimeProvider(), constants.MaxFrameDelta)

	// tcell delivers events on a blocking call; forward them to the frame loop
	events := make(chan tcell.Event, constants.InputEventBuffer)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	frameTicker := time.NewTicker(constants.FrameUpdateInterval)
	defer frameTicker.Stop()

	phase := registry.Labels.Get(status.MetricReelPhase)
	backgroundStarted := false

	logger.Info("game started",
		zap.Int("balance", ctrl.Balance()),
		zap.Int("price", ctrl.SpinPrice()),
		zap.Int("strip", strip.Len()),
	)

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if !backgroundStarted {
					sound.StartBackground()
					backgroundStarted = true
				}
				switch actionForKey(ev.Key(), ev.Rune()) {
				case actionPress:
					ctrl.HandlePress()
				case actionMute:
					muted := sound.ToggleMute()
					registry.Flags.Get(status.MetricMuted).Store(muted)
				case actionQuit:
					logger.Info("game finished",
						zap.Int("rounds", ctrl.Rounds()),
						zap.Int("balance", ctrl.Balance()),
						zap.String("rtp", ctrl.RTP().StringFixed(4)),
					)
					return nil
				}
			case *tcell.EventResize:
				screen.Sync()
			}

		case <-frameTicker.C:
			driver.Step()
			phase.Store(reelEngine.Phase().String())
			term.Draw(reelEngine.Window())
		}
	}
}
