package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lixenwraith/reelspin/constants"
)

// setupLogging builds the process logger
// Without debug every log line is discarded; the terminal belongs to the game
// With debug, JSON lines go to a size-rotated file under dir and the standard
// library logger is redirected into it
func setupLogging(debug bool, dir string) (*zap.Logger, func(), error) {
	if !debug {
		log.SetOutput(io.Discard)
		return zap.NewNop(), func() {}, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(dir, constants.LogFileName),
		MaxSize:    constants.MaxLogSizeMB,
		MaxBackups: constants.MaxLogBackups,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.AddSync(rotator),
		zapcore.DebugLevel,
	)
	logger := zap.New(core, zap.AddCaller())
	restore := zap.RedirectStdLog(logger)

	logger.Info("logging started", zap.Int("pid", os.Getpid()))

	closer := func() {
		_ = logger.Sync()
		restore()
		_ = rotator.Close()
	}
	return logger, closer, nil
}
