// Package logging wires the process logger to an optional rotating log file.
package logging

import (
	"io"
	"log"
	"os"
	"runtime/debug"

	"alcyxob/interval-trainer/internal/config"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup points the standard logger at stderr and, when cfg.File is set, at a
// size-rotated file as well. The returned closer flushes the file.
func Setup(cfg config.LogConfig) io.Closer {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if cfg.File == "" {
		log.SetOutput(os.Stderr)
		return nopCloser{}
	}

	rotator := NewRotator(cfg)
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	log.Printf("INFO: Logging to %s (max %d MB, %d backups, %d days)", cfg.File, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	return rotator
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// NewRotator builds the lumberjack writer for cfg.
func NewRotator(cfg config.LogConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
}

// SafeGo runs fn on a new goroutine. A panic is written to logger with its
// stack before being re-raised, so it is not lost when stderr is not watched.
func SafeGo(logger *log.Logger, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Printf("PANIC: %v\n%s", r, debug.Stack())
				panic(r)
			}
		}()
		fn()
	}()
}
